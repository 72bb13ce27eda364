// Package main is the entry point for the hpn-relay server.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/hpn/hpn-relay/internal/config"
	"github.com/hpn/hpn-relay/internal/dispatcher"
	"github.com/hpn/hpn-relay/internal/handler"
	"github.com/hpn/hpn-relay/internal/security"
	"github.com/hpn/hpn-relay/internal/ui"
)

func main() {
	configPath := flag.String("config", "", "path to config file (default: ./config.yaml if present)")
	flag.Parse()

	// =========================================================================
	// 1. Load .env and configuration
	// =========================================================================
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to load .env: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// =========================================================================
	// 2. Setup structured logger
	// =========================================================================
	logger := setupLogger(os.Stdout, cfg.Logging)

	logger.Info("configuration loaded",
		slog.String("host", cfg.Server.Host),
		slog.Int("port", cfg.Server.Port),
		slog.String("cors_origin", cfg.Server.CORSOrigin),
		slog.Int("configured_providers", len(cfg.ConfiguredProviders())),
		slog.Duration("vendor_timeout", cfg.HTTP.Timeout()),
	)

	// =========================================================================
	// 3. Build provider registry and HTTP router
	// =========================================================================
	d := dispatcher.NewFromConfig(cfg, dispatcher.WithLogger(logger))
	router := newRouter(cfg, d, logger)

	if cfg.Logging.Console {
		ui.PrintBanner()
		lines := make([]ui.ProviderLine, 0)
		for _, p := range d.Providers() {
			lines = append(lines, ui.ProviderLine{Name: string(p.Name), Configured: p.Configured})
		}
		ui.PrintStartupInfo(cfg.Server.Host, cfg.Server.Port, lines)
	}

	// =========================================================================
	// 4. Start HTTP server with graceful shutdown
	// =========================================================================
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
		ReadTimeout:       time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
	}

	go func() {
		logger.Info("server starting", slog.String("address", addr))

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("shutdown signal received", slog.String("signal", sig.String()))
	if cfg.Logging.Console {
		ui.PrintShutdown()
	}

	shutdownTimeout := time.Duration(cfg.Server.ShutdownTimeoutSeconds) * time.Second
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("server stopped gracefully")
	if cfg.Logging.Console {
		ui.PrintGoodbye()
	}
}

// newRouter builds the gin engine: middleware, API routes and the optional
// static UI.
func newRouter(cfg *config.Configuration, router handler.Router, logger *slog.Logger) *gin.Engine {
	if cfg.Logging.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	engine.Use(handler.RecoveryMiddleware(logger))
	engine.Use(handler.RequestIDMiddleware())
	engine.Use(handler.CORSMiddleware(cfg.Server.CORSOrigin))
	engine.Use(handler.LoggingMiddleware(logger))
	if cfg.Logging.Console {
		engine.Use(handler.ConsoleMiddleware())
	}
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	chat := handler.NewChatHandler(router, handler.WithLogger(logger))

	api := engine.Group("/api")
	api.GET("/health", chat.HandleHealth)
	api.GET("/providers", chat.HandleProviders)
	api.POST("/chat", handler.BodyLimitMiddleware(cfg.Server.BodyLimitBytes), chat.HandleChat)

	if dir := cfg.Server.StaticDir; dir != "" {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			engine.NoRoute(staticFiles(dir))
			logger.Info("serving static files", slog.String("dir", dir))
		}
	}

	return engine
}

// staticFiles serves dir for GET and HEAD only; other methods fall through
// to gin's 404.
func staticFiles(dir string) gin.HandlerFunc {
	fileServer := http.FileServer(http.Dir(dir))
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
			return
		}
		fileServer.ServeHTTP(c.Writer, c.Request)
	}
}

// setupLogger creates a structured logger that never prints vendor keys.
func setupLogger(w io.Writer, cfg config.LoggingConfig) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	var base slog.Handler
	if cfg.Format == "text" {
		base = slog.NewTextHandler(w, opts)
	} else {
		base = slog.NewJSONHandler(w, opts)
	}

	logger := slog.New(security.NewRedactedHandler(base))

	// Set as default logger
	slog.SetDefault(logger)

	return logger
}
