package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Curtis1706/lahamarchand-main-sub001/internal/config"
	"github.com/Curtis1706/lahamarchand-main-sub001/internal/db"
	"github.com/Curtis1706/lahamarchand-main-sub001/internal/eventbus"
	"github.com/Curtis1706/lahamarchand-main-sub001/internal/server"
)

var migrateOnlyFlag = flag.Bool("migrate-only", false, "Run DB migrations and exit")

func main() {
	flag.Parse()
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	_ = godotenv.Load()

	if *migrateOnlyFlag {
		if _, err := db.ConnectAndMigrate(); err != nil {
			log.Fatal().Err(err).Msg("migrate-only failed")
		}
		log.Info().Msg("migrations completed; exiting as requested")
		return
	}

	cfg := config.Load()
	if cfg.Env != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	dbConn, err := db.ConnectAndMigrate()
	if err != nil {
		log.Fatal().Err(err).Msg("connexion DB")
	}

	var pub eventbus.Publisher
	if cfg.EventBusURL != "" {
		rp, err := eventbus.NewRabbitMQPublisher(cfg.EventBusURL)
		if err != nil {
			log.Fatal().Err(err).Msg("connexion event bus")
		}
		defer func() {
			if err := rp.Close(); err != nil {
				log.Warn().Err(err).Msg("event bus close")
			}
		}()
		pub = rp
	}

	log.Info().Str("env", cfg.Env).Str("port", cfg.Port).Msg("starting server")

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: server.New(dbConn, cfg.RoyaltyRatePct, pub),
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutdown signal received")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("error during shutdown")
	}
	log.Info().Msg("server gracefully stopped")
}
