package content

import (
	"errors"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMemStore(t *testing.T, files map[string]string) *Store {
	t.Helper()

	root := afero.NewMemMapFs()
	for name, data := range files {
		require.NoError(t, afero.WriteFile(root, name, []byte(data), 0o644))
	}

	return NewStore(
		afero.NewBasePathFs(root, "/static"),
		afero.NewBasePathFs(root, "/quizzes"),
	)
}

func TestStoreReadsChapterAndQuiz(t *testing.T) {
	store := newMemStore(t, map[string]string{
		"/static/chapters/ch3.md":   "# Loops",
		"/quizzes/Python/ch3.json": `{"q":[]}`,
	})

	chapter, err := store.ReadChapter("ch3")
	require.NoError(t, err)
	assert.Equal(t, "# Loops", chapter)

	quiz, err := store.ReadQuiz("Python", "3")
	require.NoError(t, err)
	assert.JSONEq(t, `{"q":[]}`, string(quiz))
}

func TestStoreMissingFilesReportNotFound(t *testing.T) {
	store := newMemStore(t, nil)

	_, err := store.ReadChapter("ch404")
	assert.True(t, errors.Is(err, ErrNotFound), "chapter: %v", err)

	_, err = store.ReadQuiz("Python", "404")
	assert.True(t, errors.Is(err, ErrNotFound), "quiz: %v", err)
}

func TestStoreRejectsEmptyChapterStem(t *testing.T) {
	store := newMemStore(t, map[string]string{
		"/static/chapters/.md": "hidden",
	})

	for _, stem := range []string{"", "   "} {
		_, err := store.ReadChapter(stem)
		assert.ErrorIs(t, err, ErrEmptyStem, "stem %q", stem)
		assert.ErrorIs(t, err, ErrNotFound, "stem %q", stem)
	}
}

func TestStoreCannotEscapeRoots(t *testing.T) {
	store := newMemStore(t, map[string]string{
		"/secret.md":              "top secret",
		"/quizzes/Python/ch1.json": `{}`,
	})

	_, err := store.ReadChapter("../../secret")
	require.Error(t, err)

	_, err = store.ReadQuiz("../static", "1")
	require.Error(t, err)
}

func TestPaths(t *testing.T) {
	assert.Equal(t, "/chapters/ch3.md", ChapterPath("ch3"))
	assert.Equal(t, "/chapters/intro.md", ChapterPath(" intro "))
	assert.Equal(t, "/Python/ch3.json", QuizPath("Python", "3"))
}
