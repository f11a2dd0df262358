package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vatrefunder/internal/app"
	"vatrefunder/internal/config"
	"vatrefunder/internal/logger"
	"vatrefunder/internal/websocket"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 30 * time.Second

// @title           VAT Refunder API
// @version         1.0
// @description     Records refundable invoices and vouchers and builds the quarterly VAT refund submissions.
// @host            localhost:8080
// @BasePath        /
func main() {
	cfg, err := config.Load("configs/.env")
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	if err := logger.Setup(logger.LogConfig{Level: cfg.Logger.Level, Format: cfg.Logger.Format}); err != nil {
		log.Fatal().Err(err).Msg("failed to set up logger")
	}
	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Set up WebSocket Hub
	wsHub := websocket.NewHub()

	container, err := app.Open(cfg, wsHub)
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}
	defer container.Close()
	log.Info().Str("driver", cfg.Database.Driver).Msg("database connected")

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           app.NewRouter(container, wsHub),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 16,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return wsHub.Run(gctx)
	})
	g.Go(func() error {
		log.Info().Str("port", cfg.Server.Port).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("server stopped with error")
		return
	}
	log.Info().Msg("server stopped gracefully")
}
