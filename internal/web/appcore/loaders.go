package appcore

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"courseviewer/framework"
	"courseviewer/internal/lessons"
)

const ThemeRoutePattern = "/[coursePage]/[themePage]"

func ParseThemeParams(requestPath string) (framework.ThemeParams, bool) {
	return framework.ThemeParamsParser(ThemeRoutePattern, "coursePage", "themePage")(requestPath)
}

func LoadThemePage(
	ctx context.Context,
	appCtx *Context,
	_ *http.Request,
	params framework.ThemeParams,
) (ThemePageView, error) {
	loader, err := lessonLoader(appCtx)
	if err != nil {
		return ThemePageView{}, err
	}

	if !lessons.ValidThemeID(params.Theme) {
		return ThemePageView{}, fmt.Errorf("theme %q: %w", params.Theme, ErrNotFound)
	}

	course := strings.ToLower(strings.TrimSpace(params.Course))
	subject := ""
	if appCtx.subject != nil {
		subject = appCtx.subject(course)
	}

	var result lessons.Result
	if subject == "" {
		result = loader.Load(ctx, params.Theme)
	} else {
		result = loader.LoadSubject(ctx, subject, params.Theme)
	}

	return newThemePageView(course, params.Theme, result), nil
}

func lessonLoader(appCtx *Context) (*lessons.Loader, error) {
	if appCtx == nil || appCtx.loader == nil {
		return nil, errLessonLoaderUnavailable
	}
	return appCtx.loader, nil
}
