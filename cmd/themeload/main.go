// Package main provides a CLI that loads one theme page and prints its view model.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"courseviewer/internal/config"
	"courseviewer/internal/content"
	"courseviewer/internal/lessons"
	"courseviewer/internal/logging"
	"courseviewer/internal/themes"
	"courseviewer/internal/web"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var loadOpts struct {
	configDir string
	subject   string
	course    string
	verbose   bool
	timeout   time.Duration
}

var rootCmd = &cobra.Command{
	Use:   "themeload <theme-id>",
	Short: "Load a theme page and print it as JSON",
	Long: `themeload fetches a theme from the course API, reads its chapter and quiz
from the configured content directories, and prints the resulting page view
model as JSON. Fallback pages are printed too; the exit status is non-zero
only when the page could not be fully assembled.`,
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runLoad,
}

func init() {
	rootCmd.Flags().StringVar(&loadOpts.configDir, "config", ".",
		"Directory containing config.yaml")
	rootCmd.Flags().StringVar(&loadOpts.subject, "subject", "",
		"Quiz subject directory (overrides --course)")
	rootCmd.Flags().StringVar(&loadOpts.course, "course", "",
		"Course slug used to pick the quiz subject")
	rootCmd.Flags().BoolVarP(&loadOpts.verbose, "verbose", "v", false,
		"Enable debug logging")
	rootCmd.Flags().DurationVar(&loadOpts.timeout, "timeout", 30*time.Second,
		"Overall time limit for the load")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "themeload:", err)
		os.Exit(1)
	}
}

func runLoad(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(loadOpts.configDir)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := logging.New(logging.Options{Debug: loadOpts.verbose || cfg.IsDebug()})
	defer func() { _ = logger.Sync() }()

	loader, err := newLoader(cfg, logger)
	if err != nil {
		return err
	}

	subject := strings.TrimSpace(loadOpts.subject)
	if subject == "" && loadOpts.course != "" {
		subject = cfg.Quiz.SubjectFor(loadOpts.course)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), loadOpts.timeout)
	defer cancel()

	logger.Debug("loading theme", zap.String("theme_id", args[0]), zap.String("subject", subject))
	return printPage(ctx, cmd.OutOrStdout(), loader, subject, args[0])
}

// newLoader builds the loader the way the server does, so chapter HTML matches.
func newLoader(cfg config.Config, logger *zap.Logger) (*lessons.Loader, error) {
	return lessons.NewLoader(lessons.Config{
		API: themes.NewHTTPClient(themes.Options{
			BaseURL: cfg.API.BaseURL,
			Token:   cfg.API.Token,
			Timeout: cfg.API.Timeout,
		}),
		Store:        content.NewOSStore(cfg.Content.StaticDir, cfg.Content.QuizDir),
		Logger:       logger,
		Subject:      cfg.Quiz.DefaultSubject,
		QuizOptional: cfg.Quiz.Optional,
		Markdown:     web.ChapterMarkdown(cfg.Server.RootURL),
	})
}

// printPage writes the page as indented JSON and reports fallback pages as errors.
func printPage(ctx context.Context, w io.Writer, loader *lessons.Loader, subject string, themeID string) error {
	var result lessons.Result
	if subject == "" {
		result = loader.Load(ctx, themeID)
	} else {
		result = loader.LoadSubject(ctx, subject, themeID)
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(result.View(themeID)); err != nil {
		return fmt.Errorf("encode page: %w", err)
	}

	if failure, ok := result.(error); ok {
		return failure
	}
	return nil
}
