package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// New builds the HTTP server with all routes and middleware wired.
func New(host string, port int, allowedOrigins []string, h *Handlers, logger *zap.Logger) *http.Server {
	mux := http.NewServeMux()

	// Routes using Go 1.22+ pattern syntax
	mux.HandleFunc("POST /transcribe", h.HandleTranscribe)
	mux.HandleFunc("POST /api/ai-tailor-script", h.HandleTailorScript)
	mux.HandleFunc("POST /api/scrape-product", h.HandleScrapeProduct)
	mux.HandleFunc("GET /platform-support", h.HandlePlatformSupport)
	mux.HandleFunc("GET /health", h.HandleHealth)

	handler := requestID(requestLogging(logger)(cors(allowedOrigins)(mux)))

	return &http.Server{
		Addr:         fmt.Sprintf("%s:%d", host, port),
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

// Run starts the server and handles graceful shutdown on SIGINT/SIGTERM.
func Run(srv *http.Server, logger *zap.Logger) error {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	logger.Info("Server listening", zap.String("addr", srv.Addr))

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		logger.Info("Shutting down", zap.String("signal", sig.String()))
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	}
}
