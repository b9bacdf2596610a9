package appcore

import (
	"courseviewer/internal/lessons"
	"courseviewer/internal/markdown"
)

const descriptionLength = 160

type ThemeState string

const (
	ThemeStateReady       ThemeState = "ready"
	ThemeStateUnavailable ThemeState = "unavailable"
	ThemeStateMissing     ThemeState = "missing"
)

type ThemePageView struct {
	PageTitle     string
	Description   string
	Course        string
	State         ThemeState
	Page          lessons.PageViewModel
	QuestionCount int
}

func (v ThemePageView) HasQuiz() bool {
	return !v.Page.QuizData.IsNull()
}

// IsDegraded reports a fallback page (API or content failure).
func (v ThemePageView) IsDegraded() bool {
	return v.State != ThemeStateReady
}

func (v ThemePageView) CourseURL() string {
	return "/" + v.Course
}

func newThemePageView(course string, themeID string, result lessons.Result) ThemePageView {
	page := result.View(themeID)
	view := ThemePageView{
		PageTitle: page.ThemeTitle,
		Course:    course,
		Page:      page,
	}

	switch typed := result.(type) {
	case lessons.Success:
		view.State = ThemeStateReady
		view.Description = markdown.Excerpt(typed.Markdown, descriptionLength)
		view.QuestionCount = typed.Quiz.QuestionCount()
	case lessons.ResourceError:
		view.State = ThemeStateMissing
	default:
		view.State = ThemeStateUnavailable
	}

	return view
}

// NotFoundView is the layout model for unmatched routes and unknown themes.
func NotFoundView() ThemePageView {
	return ThemePageView{
		PageTitle: "404 Not Found",
		State:     ThemeStateMissing,
	}
}
