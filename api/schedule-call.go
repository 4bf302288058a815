// Package handler is the serverless entry point. The platform routes
// /api/schedule-call to Handler and keeps the process warm between calls.
package handler

import (
	"net/http"
	"sync"

	"schedulecall/internal/api"
	"schedulecall/internal/app"
	"schedulecall/internal/config"
	"schedulecall/internal/logging"

	"github.com/rs/zerolog"
)

var (
	once     sync.Once
	endpoint http.Handler
)

func Handler(w http.ResponseWriter, r *http.Request) {
	once.Do(func() {
		endpoint = build()
	})
	endpoint.ServeHTTP(w, r)
}

// build never fails: a broken config yields an endpoint that answers 500
// so callers see the same contract as a provider outage.
func build() http.Handler {
	cfg, err := config.FromEnv()
	if err != nil {
		logger := zerolog.New(zerolog.NewConsoleWriter()).With().Timestamp().Logger()
		logger.Error().Err(err).Msg("load config")
		return api.NewEndpoint(nil, &logger)
	}

	logger, _, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		nop := zerolog.Nop()
		logger = &nop
	}

	handler, _, err := app.Build(cfg, logger)
	if err != nil {
		logger.Error().Err(err).Msg("build booking handler")
		return api.NewEndpoint(nil, logger)
	}
	return api.NewEndpoint(handler, logging.Component(logger, "serverless"))
}
