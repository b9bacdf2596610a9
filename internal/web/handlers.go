package web

import (
	"net/http"

	"courseviewer/framework"
	"courseviewer/framework/httpserver"
	"courseviewer/internal/lessons"
	"courseviewer/internal/markdown"
	"courseviewer/internal/metrics"
	"courseviewer/internal/web/appcore"
	"courseviewer/internal/web/views"
	"go.uber.org/zap"
)

const staticURLPrefix = "/static/"

type Options struct {
	Loader   *lessons.Loader
	Subjects appcore.SubjectResolver

	StaticDir     string
	CachePolicies httpserver.CachePolicies

	Metrics *metrics.Recorder
	Logger  *zap.Logger
}

func Handlers() []framework.RouteHandler[*appcore.Context] {
	return []framework.RouteHandler[*appcore.Context]{
		framework.PageModule[*appcore.Context, framework.ThemeParams, appcore.ThemePageView]{
			Pattern:     appcore.ThemeRoutePattern,
			ParseParams: appcore.ParseThemeParams,
			Load:        appcore.LoadThemePage,
			Render:      views.ThemePage,
			Layouts:     []framework.LayoutRenderer[appcore.ThemePageView]{views.Layout},
			Degraded:    appcore.ThemePageView.IsDegraded,
		},
	}
}

func NewHandler(opts Options) (http.Handler, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	cfg := httpserver.Config[*appcore.Context]{
		AppContext:      appcore.NewContext(opts.Loader, opts.Subjects),
		Handlers:        Handlers(),
		IsNotFoundError: appcore.IsNotFoundError,
		NotFoundPage:    views.NotFound,
		Static: httpserver.StaticMount{
			URLPrefix: staticURLPrefix,
			Dir:       opts.StaticDir,
		},
		CachePolicies: opts.CachePolicies,
		Logger:        logger.Named("http"),
	}

	if opts.Metrics != nil {
		cfg.Mounts = append(cfg.Mounts, httpserver.Mount{Path: "/metrics", Handler: opts.Metrics.Handler()})
		cfg.Middleware = append(cfg.Middleware, opts.Metrics.Middleware)
	}

	return httpserver.New(cfg)
}

// ChapterMarkdown points relative chapter assets at the static mount.
func ChapterMarkdown(rootURL string) markdown.Options {
	return markdown.Options{
		RootURL:     rootURL,
		AssetPrefix: staticURLPrefix + "chapters/",
	}
}
