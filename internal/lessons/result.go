package lessons

import (
	"html/template"

	"courseviewer/internal/metrics"
	"courseviewer/internal/quiz"
)

const (
	apiErrorContent      = "Error fetching theme"
	apiErrorTitle        = "Error"
	resourceErrorContent = "File not found"
)

// PageViewModel is what the theme page template consumes.
type PageViewModel struct {
	HTMLContent template.HTML `json:"htmlContent"`
	ThemeTitle  string        `json:"themeTitle"`
	ThemeID     string        `json:"themeId"`
	QuizData    quiz.Data     `json:"quizData"`
}

// Result is one of Success, APIError or ResourceError.
type Result interface {
	View(themeID string) PageViewModel
	outcome() string
}

type Success struct {
	HTML template.HTML
	// Markdown is the chapter source, kept for excerpts.
	Markdown string
	Title    string
	Quiz     quiz.Data
}

func (s Success) View(themeID string) PageViewModel {
	return PageViewModel{
		HTMLContent: s.HTML,
		ThemeTitle:  s.Title,
		ThemeID:     themeID,
		QuizData:    s.Quiz,
	}
}

func (Success) outcome() string { return metrics.OutcomeSuccess }

// APIError means the theme metadata could not be fetched.
type APIError struct {
	Err error
}

func (APIError) View(themeID string) PageViewModel {
	return PageViewModel{
		HTMLContent: apiErrorContent,
		ThemeTitle:  apiErrorTitle,
		ThemeID:     themeID,
	}
}

func (APIError) outcome() string { return metrics.OutcomeAPIError }

func (e APIError) Error() string {
	if e.Err == nil {
		return apiErrorContent
	}
	return e.Err.Error()
}

func (e APIError) Unwrap() error { return e.Err }

// ResourceError means the metadata arrived but a chapter or quiz file did not.
type ResourceError struct {
	Title string
	Err   error
}

func (e ResourceError) View(themeID string) PageViewModel {
	return PageViewModel{
		HTMLContent: resourceErrorContent,
		ThemeTitle:  e.Title,
		ThemeID:     themeID,
	}
}

func (ResourceError) outcome() string { return metrics.OutcomeResourceError }

func (e ResourceError) Error() string {
	if e.Err == nil {
		return resourceErrorContent
	}
	return e.Err.Error()
}

func (e ResourceError) Unwrap() error { return e.Err }
