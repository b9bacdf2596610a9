package engine

import (
	"errors"
	"fmt"
	"net/http"

	"courseviewer/framework"
)

type Config[C interface{}] struct {
	AppContext C
	Handlers   []framework.RouteHandler[C]

	IsPartialRequest func(r *http.Request) bool
	RenderPage       func(r *http.Request, w http.ResponseWriter, page framework.RenderedPage) error

	IsNotFoundError   func(err error) bool
	HandleNotFound    func(w http.ResponseWriter, r *http.Request, notFoundContext framework.NotFoundContext)
	HandleServerError func(w http.ResponseWriter, err error)
}

// Engine implements framework.RuntimeContext and dispatches to the first
// handler whose pattern claims the request.
type Engine[C interface{}] struct {
	appContext C
	handlers   []framework.RouteHandler[C]
	cfg        Config[C]
}

func New[C interface{}](cfg Config[C]) (*Engine[C], error) {
	if cfg.RenderPage == nil {
		return nil, errors.New("render page callback is required")
	}

	seen := make(map[string]struct{}, len(cfg.Handlers))
	for idx, handler := range cfg.Handlers {
		if handler == nil {
			return nil, fmt.Errorf("route handler %d is nil", idx)
		}
		pattern := handler.RoutePattern()
		if _, dup := seen[pattern]; dup {
			return nil, fmt.Errorf("duplicate route pattern %q", pattern)
		}
		seen[pattern] = struct{}{}
	}

	if cfg.IsPartialRequest == nil {
		cfg.IsPartialRequest = func(*http.Request) bool { return false }
	}
	if cfg.IsNotFoundError == nil {
		cfg.IsNotFoundError = func(error) bool { return false }
	}
	if cfg.HandleNotFound == nil {
		cfg.HandleNotFound = func(w http.ResponseWriter, r *http.Request, _ framework.NotFoundContext) {
			http.NotFound(w, r)
		}
	}
	if cfg.HandleServerError == nil {
		cfg.HandleServerError = func(w http.ResponseWriter, _ error) {
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		}
	}

	return &Engine[C]{appContext: cfg.AppContext, handlers: cfg.Handlers, cfg: cfg}, nil
}

// ServeRoute reports whether any handler claimed the request.
func (engine *Engine[C]) ServeRoute(w http.ResponseWriter, r *http.Request) bool {
	for _, handler := range engine.handlers {
		if handler.TryServe(engine, w, r) {
			return true
		}
	}
	return false
}

func (engine *Engine[C]) AppContext() C { return engine.appContext }

func (engine *Engine[C]) IsPartialRequest(r *http.Request) bool {
	return engine.cfg.IsPartialRequest(r)
}

func (engine *Engine[C]) RenderPage(r *http.Request, w http.ResponseWriter, page framework.RenderedPage) error {
	return engine.cfg.RenderPage(r, w, page)
}

func (engine *Engine[C]) IsNotFound(err error) bool { return engine.cfg.IsNotFoundError(err) }

func (engine *Engine[C]) RespondNotFound(
	w http.ResponseWriter,
	r *http.Request,
	notFoundContext framework.NotFoundContext,
) {
	engine.cfg.HandleNotFound(w, r, notFoundContext)
}

func (engine *Engine[C]) RespondServerError(w http.ResponseWriter, err error) {
	engine.cfg.HandleServerError(w, err)
}
