package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Echtwork/echtwork-website/config"
	"github.com/Echtwork/echtwork-website/metrics"
	"github.com/Echtwork/echtwork-website/middleware"
	"github.com/Echtwork/echtwork-website/routes"
	"github.com/gin-gonic/gin"
)

const envLocal = "local"

func main() {
	cfg := config.MustLoad()
	log := setupLogger(cfg.Env)

	log.Info("starting server", slog.String("env", cfg.Env), slog.Int("port", cfg.Port))

	metrics.Register()

	if cfg.Env != envLocal {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(log))

	notifier := routes.Register(router, cfg, log)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: router,
	}

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.ListenAndServe()
	}()

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-done:
		log.Info("stopping server...")
	case err := <-errChan:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Error("server crashed", slog.Any("error", err))
			os.Exit(1)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("failed to stop server", slog.Any("error", err))
	}

	// Let in-flight mail sends finish before exiting.
	notifier.Flush()

	log.Info("server stopped")
}

func setupLogger(env string) *slog.Logger {
	if env == envLocal {
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
}
