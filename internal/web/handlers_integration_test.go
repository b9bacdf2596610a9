package web

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"courseviewer/internal/config"
	"courseviewer/internal/content"
	"courseviewer/internal/lessons"
	"courseviewer/internal/metrics"
	"courseviewer/internal/themes"
	"github.com/spf13/afero"
)

func newThemeAPI(t *testing.T) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/themes/3":
			_, _ = io.WriteString(w, `{"title":"Loops","content":"ch3"}`)
		case "/themes/4":
			_, _ = io.WriteString(w, `{"title":"Functions","content":"ch4"}`)
		case "/themes/5":
			_, _ = io.WriteString(w, `{"title":"Go <3","content":"go5"}`)
		case "/themes/8":
			http.Error(w, "boom", http.StatusInternalServerError)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()

	root := afero.NewMemMapFs()
	files := map[string]string{
		"/static/chapters/ch3.md":    "# Loops\n\nA `for` loop.\n\n![diagram](img/loop.png)",
		"/static/chapters/go5.md":    "# Go",
		"/static/chapters/ch3-1.md":  "# Nested loops",
		"/quizzes/Python/ch3.1.json": `{"questions":[]}`,
		"/quizzes/Python/ch6.json":   `{"questions":[]}`,
		"/quizzes/Python/ch3.json":   `{"questions":[{"text":"</script><b>x</b>"},{"text":"b"}]}`,
		"/quizzes/Go/ch5.json":       `{"questions":[]}`,
	}
	for name, data := range files {
		if err := afero.WriteFile(root, name, []byte(data), 0o644); err != nil {
			t.Fatalf("write fixture %s: %v", name, err)
		}
	}

	recorder := metrics.New()
	loader, err := lessons.NewLoader(lessons.Config{
		API:      themes.NewHTTPClient(themes.Options{BaseURL: newThemeAPI(t).URL}),
		Store:    content.NewStore(afero.NewBasePathFs(root, "/static"), afero.NewBasePathFs(root, "/quizzes")),
		Metrics:  recorder,
		Markdown: ChapterMarkdown(""),
	})
	if err != nil {
		t.Fatalf("new loader: %v", err)
	}

	quizCfg := config.QuizConfig{
		DefaultSubject: "Python",
		Subjects:       map[string]string{"go-basics": "Go"},
	}
	handler, err := NewHandler(Options{
		Loader:    loader,
		Subjects:  quizCfg.SubjectFor,
		StaticDir: t.TempDir(),
		Metrics:   recorder,
	})
	if err != nil {
		t.Fatalf("new handler: %v", err)
	}
	return handler
}

func performRequest(handler http.Handler, path string, headers ...string) (*httptest.ResponseRecorder, string) {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec, rec.Body.String()
}

func TestThemePageRendersChapterAndQuiz(t *testing.T) {
	t.Parallel()
	handler := newTestHandler(t)

	rec, body := performRequest(handler, "/python/3")
	if rec.Code != http.StatusOK {
		t.Fatalf("status: expected %d, got %d", http.StatusOK, rec.Code)
	}
	if contentType := rec.Header().Get("Content-Type"); !strings.Contains(contentType, "text/html") {
		t.Fatalf("content-type: expected html, got %q", contentType)
	}
	if got := rec.Header().Get("Cache-Control"); got != "no-cache" {
		t.Fatalf("cache-control: expected no-cache, got %q", got)
	}

	for _, fragment := range []string{
		"<title>Loops :: course</title>",
		`<meta name="description" content="Loops A for loop.`,
		`data-state="ready"`,
		"<h1>Loops</h1>",
		`<code class="inline-code">for</code>`,
		`src="/static/chapters/img/loop.png"`,
		`data-questions="2"`,
		`id="quiz-data"`,
		`\u003c/script\u003e`,
	} {
		if !strings.Contains(body, fragment) {
			t.Fatalf("body missing %q:\n%s", fragment, body)
		}
	}
	if strings.Contains(body, "</script><b>") {
		t.Fatal("quiz json must not break out of its script element")
	}
}

func TestThemePageFallbacks(t *testing.T) {
	t.Parallel()
	handler := newTestHandler(t)

	cases := []struct {
		path   string
		title  string
		notice string
		state  string
	}{
		{path: "/python/8", title: "Error", notice: "Error fetching theme", state: "unavailable"},
		{path: "/python/9", title: "Error", notice: "Error fetching theme", state: "unavailable"},
		{path: "/python/4", title: "Functions", notice: "File not found", state: "missing"},
	}

	for _, tc := range cases {
		rec, body := performRequest(handler, tc.path)
		if rec.Code != http.StatusOK {
			t.Fatalf("%s status: expected %d, got %d", tc.path, http.StatusOK, rec.Code)
		}
		if got := rec.Header().Get("Cache-Control"); got != "no-store" {
			t.Fatalf("%s cache-control: expected no-store for fallback, got %q", tc.path, got)
		}
		if !strings.Contains(body, `<h1 class="theme-title">`+tc.title+`</h1>`) {
			t.Fatalf("%s missing title %q", tc.path, tc.title)
		}
		if !strings.Contains(body, `<p class="notice">`+tc.notice+`</p>`) {
			t.Fatalf("%s missing notice %q", tc.path, tc.notice)
		}
		if !strings.Contains(body, `data-state="`+tc.state+`"`) {
			t.Fatalf("%s missing state %q", tc.path, tc.state)
		}
		if strings.Contains(body, `id="quiz-data"`) {
			t.Fatalf("%s must not embed quiz data", tc.path)
		}
	}
}

func TestCourseSegmentSelectsQuizSubject(t *testing.T) {
	t.Parallel()
	handler := newTestHandler(t)

	_, body := performRequest(handler, "/go-basics/5")
	if !strings.Contains(body, `data-state="ready"`) {
		t.Fatalf("expected Go quiz subject to resolve:\n%s", body)
	}
	if !strings.Contains(body, "<title>Go &lt;3 :: course</title>") {
		t.Fatalf("expected escaped title:\n%s", body)
	}

	_, body = performRequest(handler, "/python/5")
	if !strings.Contains(body, `data-state="missing"`) {
		t.Fatalf("expected default subject to miss the Go quiz:\n%s", body)
	}
}

func TestDottedThemeIDRendersPage(t *testing.T) {
	t.Parallel()
	handler := newTestHandler(t)

	rec, body := performRequest(handler, "/python/3.1")
	if rec.Code != http.StatusOK {
		t.Fatalf("status: expected %d, got %d", http.StatusOK, rec.Code)
	}
	for _, fragment := range []string{`data-theme-id="3.1"`, `data-state="ready"`, "<h1>Nested loops</h1>"} {
		if !strings.Contains(body, fragment) {
			t.Fatalf("body missing %q:\n%s", fragment, body)
		}
	}
}

func TestPartialRequestSkipsLayout(t *testing.T) {
	t.Parallel()
	handler := newTestHandler(t)

	rec, body := performRequest(handler, "/python/3", "HX-Request", "true")
	if rec.Code != http.StatusOK {
		t.Fatalf("status: expected %d, got %d", http.StatusOK, rec.Code)
	}
	if strings.Contains(strings.ToLower(body), "<!doctype html>") {
		t.Fatal("partial response should not include the layout")
	}
	if !strings.HasPrefix(body, "<article") {
		t.Fatalf("expected bare article, got %q", body)
	}
}

func TestNotFoundHealthAndMetrics(t *testing.T) {
	t.Parallel()
	handler := newTestHandler(t)

	for _, path := range []string{"/python", "/python/3/extra", "/python/a%5Cb"} {
		rec, body := performRequest(handler, path)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("%s status: expected %d, got %d", path, http.StatusNotFound, rec.Code)
		}
		if !strings.Contains(body, "<title>404 Not Found :: course</title>") {
			t.Fatalf("%s expected not found page, got %s", path, body)
		}
	}

	rec, body := performRequest(handler, "/healthz")
	if rec.Code != http.StatusOK || strings.TrimSpace(body) != "ok" {
		t.Fatalf("healthz: got %d %q", rec.Code, body)
	}

	performRequest(handler, "/python/3")
	rec, body = performRequest(handler, "/metrics")
	if rec.Code != http.StatusOK {
		t.Fatalf("metrics status: expected %d, got %d", http.StatusOK, rec.Code)
	}
	if !strings.Contains(body, `theme_loads_total{outcome="success"} 1`) {
		t.Fatalf("metrics missing theme load counter:\n%s", body)
	}
}
