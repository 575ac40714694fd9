package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"go.uber.org/zap"

	"github.com/myrefera/script-tailor-go/internal/app"
	"github.com/myrefera/script-tailor-go/internal/config"
	"github.com/myrefera/script-tailor-go/internal/server"
	"github.com/myrefera/script-tailor-go/internal/util"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := util.NewLogger(cfg.Logging.Level, cfg.Logging.File)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	container, err := app.Build(context.Background(), cfg, logger)
	if err != nil {
		logger.Fatal("Failed to build application", zap.Error(err))
	}
	defer container.Close()

	logger.Info("Transcription & AI Script Tailoring API starting",
		zap.String("addr", container.Server.Addr),
		zap.String("openai_model", cfg.OpenAI.Model),
		zap.Bool("gemini_fallback", cfg.Gemini.EnableFallback),
	)

	if err := server.Run(container.Server, logger); err != nil && err != http.ErrServerClosed {
		logger.Fatal("Server error", zap.Error(err))
	}

	logger.Info("Server stopped")
}
