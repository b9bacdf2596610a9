package lessons

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"courseviewer/internal/content"
	"courseviewer/internal/markdown"
	"courseviewer/internal/metrics"
	"courseviewer/internal/quiz"
	"courseviewer/internal/themes"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const DefaultSubject = "Python"

const maxThemeIDLength = 128

var (
	ErrInvalidThemeID = errors.New("invalid theme id")
	ErrInvalidSubject = errors.New("invalid quiz subject")
)

type ContentStore interface {
	ReadChapter(stem string) (string, error)
	ReadQuiz(subject string, themeID string) ([]byte, error)
}

type Config struct {
	API     themes.Client
	Store   ContentStore
	Logger  *zap.Logger
	Metrics *metrics.Recorder

	// Subject is the quiz directory used by Load.
	Subject string
	// QuizOptional lets a chapter render when its quiz is missing or malformed.
	QuizOptional bool
	Markdown     markdown.Options
}

type Loader struct {
	api          themes.Client
	store        ContentStore
	logger       *zap.Logger
	metrics      *metrics.Recorder
	subject      string
	quizOptional bool
	markdown     markdown.Options
}

func NewLoader(cfg Config) (*Loader, error) {
	if cfg.API == nil {
		return nil, errors.New("theme api client is required")
	}
	if cfg.Store == nil {
		return nil, errors.New("content store is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	subject := strings.TrimSpace(cfg.Subject)
	if subject == "" {
		subject = DefaultSubject
	}

	return &Loader{
		api:          cfg.API,
		store:        cfg.Store,
		logger:       logger,
		metrics:      cfg.Metrics,
		subject:      subject,
		quizOptional: cfg.QuizOptional,
		markdown:     cfg.Markdown,
	}, nil
}

// ValidThemeID accepts any id that stays a single quiz file name:
// "3" and "3.1" pass, separators and control characters do not.
func ValidThemeID(themeID string) bool {
	if themeID == "" || len(themeID) > maxThemeIDLength || themeID == "." || themeID == ".." {
		return false
	}
	return !strings.ContainsFunc(themeID, func(r rune) bool {
		return r == '/' || r == '\\' || unicode.IsControl(r)
	})
}

// LoadPage is Load flattened into the view model the page template expects.
func (l *Loader) LoadPage(ctx context.Context, themeID string) PageViewModel {
	return l.Load(ctx, themeID).View(themeID)
}

func (l *Loader) Load(ctx context.Context, themeID string) Result {
	return l.LoadSubject(ctx, l.subject, themeID)
}

func (l *Loader) LoadSubject(ctx context.Context, subject string, themeID string) Result {
	result := l.load(ctx, subject, themeID)
	l.metrics.ThemeLoaded(result.outcome())
	return result
}

func (l *Loader) load(ctx context.Context, subject string, themeID string) Result {
	logger := l.logger.With(zap.String("theme_id", themeID))

	if !ValidThemeID(themeID) {
		logger.Warn("fetch theme failed", zap.Error(ErrInvalidThemeID))
		return APIError{Err: fmt.Errorf("%w: %q", ErrInvalidThemeID, themeID)}
	}

	start := time.Now()
	theme, err := l.api.GetTheme(ctx, themeID)
	l.metrics.ObserveAPI(time.Since(start))
	if err != nil {
		logger.Warn("fetch theme failed", zap.Error(err))
		return APIError{Err: err}
	}

	subject = strings.TrimSpace(subject)
	if subject == "" || strings.ContainsAny(subject, `/\`) || strings.Contains(subject, "..") {
		err := fmt.Errorf("%w: %q", ErrInvalidSubject, subject)
		logger.Warn("theme content unavailable", zap.Error(err))
		return ResourceError{Title: theme.Title, Err: err}
	}

	var (
		chapter    string
		quizData   quiz.Data
		chapterErr error
		quizErr    error
	)

	// Both reads always run to completion so a failure reports every missing file.
	var g errgroup.Group
	g.Go(func() error {
		chapter, chapterErr = l.store.ReadChapter(theme.Content)
		return chapterErr
	})
	g.Go(func() error {
		var raw []byte
		if raw, quizErr = l.store.ReadQuiz(subject, themeID); quizErr == nil {
			quizData, quizErr = quiz.Parse(raw)
		}
		if l.quizOptional {
			return nil
		}
		return quizErr
	})

	if err := g.Wait(); err != nil {
		err = multierr.Combine(chapterErr, quizErr)
		logger.Warn("theme content unavailable",
			zap.String("chapter", content.ChapterPath(theme.Content)),
			zap.String("quiz", content.QuizPath(subject, themeID)),
			zap.Error(err),
		)
		return ResourceError{Title: theme.Title, Err: err}
	}

	if quizErr != nil {
		logger.Info("rendering chapter without quiz", zap.Error(quizErr))
		quizData = quiz.Data{}
	}

	mdOpts := l.markdown
	if mdOpts.CodeLanguage == "" {
		mdOpts.CodeLanguage = subject
	}

	return Success{
		HTML:     markdown.ToHTML(chapter, mdOpts),
		Markdown: chapter,
		Title:    theme.Title,
		Quiz:     quizData,
	}
}
