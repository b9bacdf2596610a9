// Package views holds the page templates. Edit the .templ files and run
// go generate; the *_templ.go files are generated.
package views

//go:generate go run courseviewer/framework/cmd/templgen --base ../../.. .

import (
	"courseviewer/internal/markdown"
	"github.com/a-h/templ"
)

const siteName = "course"

func documentTitle(pageTitle string) string {
	if pageTitle == "" {
		return siteName
	}
	return pageTitle + " :: " + siteName
}

// chapterStyle inlines the highlight stylesheet, which templ cannot interpolate inside <style>.
func chapterStyle() templ.Component {
	return templ.Raw("<style>" + string(markdown.ChromaCSS()) + "</style>")
}
