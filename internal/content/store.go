package content

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/spf13/afero"
)

const (
	chapterDir       = "chapters"
	chapterExtension = ".md"
	quizExtension    = ".json"
	quizPrefix       = "ch"
)

var (
	ErrNotFound = errors.New("content not found")
	// ErrEmptyStem means the theme names no chapter file at all.
	ErrEmptyStem = errors.New("empty chapter stem")
)

// Store reads chapter Markdown from the static root and quiz JSON from the quiz root.
// Both roots are jailed, so file stems coming from the API cannot escape them.
type Store struct {
	static afero.Fs
	quiz   afero.Fs
}

func NewStore(static afero.Fs, quiz afero.Fs) *Store {
	return &Store{static: static, quiz: quiz}
}

// NewOSStore roots the store at two directories on disk.
func NewOSStore(staticDir string, quizDir string) *Store {
	osFs := afero.NewOsFs()
	return NewStore(
		afero.NewReadOnlyFs(afero.NewBasePathFs(osFs, staticDir)),
		afero.NewReadOnlyFs(afero.NewBasePathFs(osFs, quizDir)),
	)
}

func ChapterPath(stem string) string {
	return path.Join("/", chapterDir, strings.TrimSpace(stem)+chapterExtension)
}

func QuizPath(subject string, themeID string) string {
	return path.Join("/", strings.TrimSpace(subject), quizPrefix+themeID+quizExtension)
}

func (s *Store) ReadChapter(stem string) (string, error) {
	if strings.TrimSpace(stem) == "" {
		return "", fmt.Errorf("%w: %w", ErrNotFound, ErrEmptyStem)
	}

	data, err := readFile(s.static, ChapterPath(stem))
	if err != nil {
		return "", err
	}

	return string(data), nil
}

func (s *Store) ReadQuiz(subject string, themeID string) ([]byte, error) {
	return readFile(s.quiz, QuizPath(subject, themeID))
}

func readFile(fsys afero.Fs, name string) ([]byte, error) {
	data, err := afero.ReadFile(fsys, name)
	if err == nil {
		return data, nil
	}

	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s: %w", ErrNotFound, name, err)
	}
	return nil, fmt.Errorf("read %s: %w", name, err)
}
