package httpserver

import (
	"fmt"
	"net/http"
	"strings"

	"courseviewer/framework"
	"courseviewer/framework/engine"
	"github.com/a-h/templ"
	"go.uber.org/zap"
)

const (
	defaultHealthPath    = "/healthz"
	defaultStaticPrefix  = "/static/"
	partialRequestHeader = "HX-Request"
)

type StaticMount struct {
	URLPrefix string
	Dir       string
}

// Mount attaches an extra handler (metrics, debug) ahead of page routing.
type Mount struct {
	Path    string
	Handler http.Handler
}

type CachePolicies struct {
	HTML    string
	Partial string
	// Degraded applies to fallback pages so proxies never keep them.
	Degraded string
	Static   string
	Health   string
	Error    string
}

func DefaultCachePolicies() CachePolicies {
	return CachePolicies{
		HTML:     "no-cache",
		Partial:  "no-cache",
		Degraded: "no-store",
		Static:   "public, max-age=3600, s-maxage=3600",
		Health:   "no-store",
		Error:    "no-store",
	}
}

// withDefaults fills every empty policy from DefaultCachePolicies.
func (p CachePolicies) withDefaults() CachePolicies {
	defaults := DefaultCachePolicies()
	pick := func(value string, fallback string) string {
		if strings.TrimSpace(value) == "" {
			return fallback
		}
		return strings.TrimSpace(value)
	}

	return CachePolicies{
		HTML:     pick(p.HTML, defaults.HTML),
		Partial:  pick(p.Partial, defaults.Partial),
		Degraded: pick(p.Degraded, defaults.Degraded),
		Static:   pick(p.Static, defaults.Static),
		Health:   pick(p.Health, defaults.Health),
		Error:    pick(p.Error, defaults.Error),
	}
}

func (p CachePolicies) forPage(r *http.Request, page framework.RenderedPage) string {
	switch {
	case page.Degraded:
		return p.Degraded
	case IsPartialRequest(r):
		return p.Partial
	default:
		return p.HTML
	}
}

type Config[C interface{}] struct {
	AppContext C
	Handlers   []framework.RouteHandler[C]

	Static StaticMount
	Mounts []Mount

	CachePolicies CachePolicies

	IsNotFoundError func(err error) bool
	NotFoundPage    func(notFoundContext framework.NotFoundContext) templ.Component

	Logger *zap.Logger
	// Middleware wraps the whole mux; the first entry is outermost.
	Middleware []func(next http.Handler) http.Handler

	HealthPath string
}

type server[C interface{}] struct {
	policies     CachePolicies
	notFoundPage func(notFoundContext framework.NotFoundContext) templ.Component
	logger       *zap.Logger
	routes       *engine.Engine[C]
}

func New[C interface{}](cfg Config[C]) (http.Handler, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	srv := &server[C]{
		policies:     cfg.CachePolicies.withDefaults(),
		notFoundPage: cfg.NotFoundPage,
		logger:       logger,
	}

	routes, err := engine.New(engine.Config[C]{
		AppContext:        cfg.AppContext,
		Handlers:          cfg.Handlers,
		IsPartialRequest:  IsPartialRequest,
		RenderPage:        srv.renderPage,
		IsNotFoundError:   cfg.IsNotFoundError,
		HandleNotFound:    srv.respondNotFound,
		HandleServerError: srv.respondServerError,
	})
	if err != nil {
		return nil, fmt.Errorf("create route engine: %w", err)
	}
	srv.routes = routes

	mux := http.NewServeMux()
	mux.HandleFunc(withLeadingSlash(cfg.HealthPath, defaultHealthPath), srv.serveHealth)
	if dir := strings.TrimSpace(cfg.Static.Dir); dir != "" {
		prefix := withLeadingSlash(cfg.Static.URLPrefix, defaultStaticPrefix)
		if !strings.HasSuffix(prefix, "/") {
			prefix += "/"
		}
		files := http.StripPrefix(prefix, http.FileServer(http.Dir(dir)))
		mux.Handle(prefix, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			setCachePolicy(w, srv.policies.Static)
			files.ServeHTTP(w, r)
		}))
	}
	for _, mount := range cfg.Mounts {
		if mount.Handler == nil || strings.TrimSpace(mount.Path) == "" {
			return nil, fmt.Errorf("invalid mount %q", mount.Path)
		}
		mux.Handle(withLeadingSlash(mount.Path, "/"), mount.Handler)
	}
	mux.HandleFunc("/", srv.serveRoute)

	var handler http.Handler = mux
	for idx := len(cfg.Middleware) - 1; idx >= 0; idx-- {
		handler = cfg.Middleware[idx](handler)
	}
	return handler, nil
}

// IsPartialRequest reports an HTMX navigation that wants the page without layouts.
func IsPartialRequest(r *http.Request) bool {
	return r != nil && strings.EqualFold(strings.TrimSpace(r.Header.Get(partialRequestHeader)), "true")
}

func (s *server[C]) serveRoute(w http.ResponseWriter, r *http.Request) {
	if s.routes.ServeRoute(w, r) {
		return
	}

	s.respondNotFound(w, r, framework.NotFoundContext{
		RequestPath: r.URL.Path,
		Source:      framework.NotFoundSourceUnmatchedRoute,
	})
}

func (s *server[C]) renderPage(r *http.Request, w http.ResponseWriter, page framework.RenderedPage) error {
	w.Header().Add("Vary", partialRequestHeader)
	return s.writeHTML(r, w, page.Component, http.StatusOK, s.policies.forPage(r, page))
}

func (s *server[C]) writeHTML(
	r *http.Request,
	w http.ResponseWriter,
	component templ.Component,
	status int,
	cachePolicy string,
) error {
	setCachePolicy(w, cachePolicy)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if status != http.StatusOK {
		w.WriteHeader(status)
	}
	return component.Render(r.Context(), w)
}

func (s *server[C]) respondNotFound(
	w http.ResponseWriter,
	r *http.Request,
	notFoundContext framework.NotFoundContext,
) {
	s.logger.Debug("not found",
		zap.String("path", notFoundContext.RequestPath),
		zap.String("source", string(notFoundContext.Source)),
		zap.String("pattern", notFoundContext.MatchedRoutePattern),
	)

	var component templ.Component
	if s.notFoundPage != nil {
		component = s.notFoundPage(notFoundContext)
	}
	if component == nil {
		setCachePolicy(w, s.policies.Error)
		http.NotFound(w, r)
		return
	}

	if err := s.writeHTML(r, w, component, http.StatusNotFound, s.policies.Error); err != nil {
		s.logger.Error("render not found page", zap.Error(err))
	}
}

func (s *server[C]) respondServerError(w http.ResponseWriter, err error) {
	setCachePolicy(w, s.policies.Error)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	s.logger.Error("server error", zap.Error(err))
}

func (s *server[C]) serveHealth(w http.ResponseWriter, _ *http.Request) {
	setCachePolicy(w, s.policies.Health)
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

func withLeadingSlash(path string, fallback string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return fallback
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return path
}

func setCachePolicy(w http.ResponseWriter, policy string) {
	if policy = strings.TrimSpace(policy); policy != "" {
		w.Header().Set("Cache-Control", policy)
	}
}
