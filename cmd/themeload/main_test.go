package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"courseviewer/internal/config"
	"courseviewer/internal/content"
	"courseviewer/internal/lessons"
	"courseviewer/internal/themes"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newCLILoader(t *testing.T) *lessons.Loader {
	t.Helper()

	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/themes/3" {
			http.NotFound(w, r)
			return
		}
		_, _ = io.WriteString(w, `{"title":"Loops","content":"ch3"}`)
	}))
	t.Cleanup(api.Close)

	root := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(root, "/static/chapters/ch3.md", []byte("# Loops"), 0o644))
	require.NoError(t, afero.WriteFile(root, "/quizzes/Python/ch3.json", []byte(`{"q": []}`), 0o644))

	loader, err := lessons.NewLoader(lessons.Config{
		API:   themes.NewHTTPClient(themes.Options{BaseURL: api.URL}),
		Store: content.NewStore(afero.NewBasePathFs(root, "/static"), afero.NewBasePathFs(root, "/quizzes")),
	})
	require.NoError(t, err)
	return loader
}

func TestPrintPageWritesViewModel(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, printPage(context.Background(), &out, newCLILoader(t), "", "3"))

	var page map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &page))
	assert.Contains(t, page["htmlContent"], "<h1>Loops</h1>")
	assert.Equal(t, "Loops", page["themeTitle"])
	assert.Equal(t, "3", page["themeId"])
	assert.Equal(t, map[string]any{"q": []any{}}, page["quizData"])
	assert.Contains(t, out.String(), `"<h1>Loops</h1>`)
}

func TestPrintPageReportsFallbacks(t *testing.T) {
	loader := newCLILoader(t)

	cases := []struct {
		name    string
		subject string
		themeID string
		title   string
		content string
		target  any
	}{
		{name: "api failure", themeID: "4", title: "Error", content: "Error fetching theme", target: &lessons.APIError{}},
		{name: "missing quiz subject", subject: "Go", themeID: "3", title: "Loops", content: "File not found", target: &lessons.ResourceError{}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var out bytes.Buffer
			err := printPage(context.Background(), &out, loader, tc.subject, tc.themeID)
			require.Error(t, err)
			assert.ErrorAs(t, err, tc.target)

			var page map[string]any
			require.NoError(t, json.Unmarshal(out.Bytes(), &page))
			assert.Equal(t, tc.title, page["themeTitle"])
			assert.Equal(t, tc.content, page["htmlContent"])
			assert.Nil(t, page["quizData"])
		})
	}
}

func TestNewLoaderRendersAssetsLikeServer(t *testing.T) {
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"title":"Loops","content":"ch3"}`)
	}))
	t.Cleanup(api.Close)

	dir := t.TempDir()
	staticDir := filepath.Join(dir, "static")
	quizDir := filepath.Join(dir, "quizzes")
	require.NoError(t, os.MkdirAll(filepath.Join(staticDir, "chapters"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(quizDir, "Python"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(staticDir, "chapters", "ch3.md"), []byte("![loop](img/loop.png)"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(quizDir, "Python", "ch3.json"), []byte(`{"q":[]}`), 0o644))

	var cfg config.Config
	cfg.API.BaseURL = api.URL
	cfg.Content.StaticDir = staticDir
	cfg.Content.QuizDir = quizDir
	cfg.Quiz.DefaultSubject = "Python"

	loader, err := newLoader(cfg, zap.NewNop())
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, printPage(context.Background(), &out, loader, "", "3"))
	var page map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &page))
	assert.Contains(t, page["htmlContent"], `src="/static/chapters/img/loop.png"`)
}
