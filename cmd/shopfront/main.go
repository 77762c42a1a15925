package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"github.com/phenrril/shopfront/internal/app"
	"github.com/phenrril/shopfront/internal/config"
)

func main() {
	_ = godotenv.Load()

	zerolog.TimeFieldFormat = time.RFC3339
	zlog.Logger = zlog.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen})

	cfg, err := config.Load()
	if err != nil {
		zlog.Fatal().Err(err).Msg("failed to load config")
	}
	if !cfg.IsDev() {
		zlog.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	}

	application, err := app.New(cfg)
	if err != nil {
		zlog.Fatal().Err(err).Msg("failed to create app")
	}

	server := &http.Server{Addr: ":" + cfg.Port, Handler: application.HTTPHandler()}

	go func() {
		zlog.Info().Str("port", cfg.Port).Str("api", cfg.APIBaseURL).Msg("shopfront listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zlog.Fatal().Err(err).Msg("server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = server.Shutdown(ctx)
}
