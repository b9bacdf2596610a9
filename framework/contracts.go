package framework

import (
	"context"
	"fmt"
	"net/http"

	"github.com/a-h/templ"
)

// ThemeParams are the two dynamic segments of /[coursePage]/[themePage].
type ThemeParams struct {
	Course string
	Theme  string
}

type ParamsParser[P interface{}] func(path string) (P, bool)

type PageLoader[C interface{}, P interface{}, VM interface{}] func(
	ctx context.Context,
	appCtx C,
	r *http.Request,
	params P,
) (VM, error)

type PageRenderer[VM interface{}] func(view VM) templ.Component

type LayoutRenderer[VM interface{}] func(view VM, child templ.Component) templ.Component

// RenderedPage is what a route hands to the runtime once its view is built.
type RenderedPage struct {
	Pattern   string
	Component templ.Component
	// Degraded pages are fallbacks and must not be cached like real content.
	Degraded bool
}

type RuntimeContext[C interface{}] interface {
	AppContext() C
	IsPartialRequest(r *http.Request) bool
	RenderPage(r *http.Request, w http.ResponseWriter, page RenderedPage) error
	IsNotFound(err error) bool
	RespondNotFound(w http.ResponseWriter, r *http.Request, notFoundContext NotFoundContext)
	RespondServerError(w http.ResponseWriter, err error)
}

type NotFoundSource string

const (
	NotFoundSourcePageLoad       NotFoundSource = "page_load"
	NotFoundSourceUnmatchedRoute NotFoundSource = "unmatched_route"
)

type NotFoundContext struct {
	RequestPath         string
	MatchedRoutePattern string
	Source              NotFoundSource
}

type RouteHandler[C interface{}] interface {
	RoutePattern() string
	TryServe(runtime RuntimeContext[C], w http.ResponseWriter, r *http.Request) bool
}

// PageModule is a server-rendered route: parse params, load a view, render it
// inside its layouts. Partial requests get the bare page.
type PageModule[C interface{}, P interface{}, VM interface{}] struct {
	Pattern     string
	ParseParams ParamsParser[P]
	Load        PageLoader[C, P, VM]
	Render      PageRenderer[VM]
	Layouts     []LayoutRenderer[VM]
	Degraded    func(view VM) bool
}

func (m PageModule[C, P, VM]) RoutePattern() string {
	return m.Pattern
}

func (m PageModule[C, P, VM]) TryServe(
	runtime RuntimeContext[C],
	w http.ResponseWriter,
	r *http.Request,
) bool {
	params, ok := m.ParseParams(r.URL.Path)
	if !ok {
		return false
	}

	view, err := m.Load(r.Context(), runtime.AppContext(), r, params)
	if err != nil {
		if runtime.IsNotFound(err) {
			runtime.RespondNotFound(w, r, NotFoundContext{
				RequestPath:         r.URL.Path,
				MatchedRoutePattern: m.Pattern,
				Source:              NotFoundSourcePageLoad,
			})
			return true
		}
		runtime.RespondServerError(w, fmt.Errorf("load route %q: %w", m.Pattern, err))
		return true
	}

	page := RenderedPage{
		Pattern:   m.Pattern,
		Component: m.Render(view),
		Degraded:  m.Degraded != nil && m.Degraded(view),
	}
	if !runtime.IsPartialRequest(r) {
		page.Component = wrapLayouts(m.Layouts, view, page.Component)
	}
	if err := runtime.RenderPage(r, w, page); err != nil {
		runtime.RespondServerError(w, fmt.Errorf("render route %q: %w", m.Pattern, err))
	}
	return true
}

// wrapLayouts nests child so that layouts[0] is the outermost.
func wrapLayouts[VM interface{}](layouts []LayoutRenderer[VM], view VM, child templ.Component) templ.Component {
	for idx := len(layouts) - 1; idx >= 0; idx-- {
		child = layouts[idx](view, child)
	}
	return child
}
