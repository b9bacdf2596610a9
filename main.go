package main

import (
	"net/http"
	"os"
	"strings"

	"courseviewer/framework/httpserver"
	"courseviewer/internal/config"
	"courseviewer/internal/content"
	"courseviewer/internal/lessons"
	"courseviewer/internal/logging"
	"courseviewer/internal/metrics"
	"courseviewer/internal/themes"
	"courseviewer/internal/web"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load(".")
	if err != nil {
		_, _ = os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger := logging.New(logging.Options{Debug: cfg.IsDebug(), File: cfg.Log.File})
	defer func() { _ = logger.Sync() }()

	recorder := metrics.New()
	loader, err := lessons.NewLoader(lessons.Config{
		API: themes.NewHTTPClient(themes.Options{
			BaseURL: cfg.API.BaseURL,
			Token:   cfg.API.Token,
			Timeout: cfg.API.Timeout,
		}),
		Store:        content.NewOSStore(cfg.Content.StaticDir, cfg.Content.QuizDir),
		Logger:       logger.Named("lessons"),
		Metrics:      recorder,
		Subject:      cfg.Quiz.DefaultSubject,
		QuizOptional: cfg.Quiz.Optional,
		Markdown:     web.ChapterMarkdown(cfg.Server.RootURL),
	})
	if err != nil {
		logger.Fatal("lesson loader setup failed", zap.Error(err))
	}

	cachePolicies := httpserver.DefaultCachePolicies()
	if strings.TrimSpace(cfg.Cache.HTML) != "" {
		cachePolicies.HTML = cfg.Cache.HTML
	}
	handler, err := web.NewHandler(web.Options{
		Loader:        loader,
		Subjects:      cfg.Quiz.SubjectFor,
		StaticDir:     cfg.Content.StaticDir,
		CachePolicies: cachePolicies,
		Metrics:       recorder,
		Logger:        logger,
	})
	if err != nil {
		logger.Fatal("handler setup failed", zap.Error(err))
	}

	logger.Info("course server listening",
		zap.String("addr", cfg.Server.ListenAddr),
		zap.String("api", cfg.API.BaseURL),
	)
	if err := http.ListenAndServe(cfg.Server.ListenAddr, handler); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
