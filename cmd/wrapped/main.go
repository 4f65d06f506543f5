package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	"github.com/rakshitranga/canvas-wrapped/internal/config"
	"github.com/rakshitranga/canvas-wrapped/internal/logger"
	"github.com/rakshitranga/canvas-wrapped/internal/wrapped"
)

func main() {
	_ = godotenv.Load()

	cfg := config.MustLoad()

	log := logger.SetupLogger(cfg.Env)
	slog.SetDefault(log)

	slog.Info("config loaded",
		"env", cfg.Env,
		"addr", cfg.HTTPServer.Address,
		"course_window_months", cfg.Canvas.CourseWindowMonths,
		"fetch_concurrency", cfg.Canvas.FetchConcurrency,
	)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	h := wrapped.NewHandler(cfg.Canvas, time.Local)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"*"},
	}))

	r.Get("/healthz", wrapped.Health)
	r.Get("/api/wrapped/{canvasHost}/{accessToken}", h.GetWrapped)

	srv := &http.Server{
		Addr:        cfg.HTTPServer.Address,
		Handler:     r,
		IdleTimeout: cfg.HTTPServer.IdleTimeout,
	}

	go func() {
		slog.Info("starting wrapped http server", "addr", cfg.HTTPServer.Address)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "err", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "err", err)
	}
}
