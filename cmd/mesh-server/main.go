package main

import (
	"context"
	"net/http"
	"time"

	"evora-mesh/internal/config"
	"evora-mesh/internal/logging"
	"evora-mesh/internal/notify"
	"evora-mesh/internal/store"
	transporthttp "evora-mesh/internal/transport/http"

	"github.com/rs/zerolog/log"
)

func main() {
	app, err := config.LoadApp()
	if err != nil {
		log.Fatal().Err(err).Msg("load config failed")
	}
	logging.Init(app.Log)
	cfg := app.Server

	st, err := store.New(cfg.PostgresDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("store init failed")
	}
	if err := st.Ping(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("db ping failed")
	}
	if cfg.SchemaPath != "" {
		if err := st.ApplySchema(context.Background(), cfg.SchemaPath); err != nil {
			log.Fatal().Err(err).Msg("apply schema failed")
		}
	}

	push, err := notify.NewManager(notify.ConfigFromServer(cfg))
	if err != nil {
		log.Fatal().Err(err).Msg("notify init failed")
	}
	push.Start(context.Background())
	defer push.Stop()

	r := transporthttp.NewRouter(st, cfg, push)
	transporthttp.LogRoutes(r)

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	log.Info().Str("addr", cfg.HTTPAddr).Msg("http listening")
	log.Fatal().Err(server.ListenAndServe()).Msg("server stopped")
}
