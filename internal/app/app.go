package app

import (
	"fmt"

	"schedulecall/internal/booking"
	"schedulecall/internal/config"
	"schedulecall/internal/events"
	"schedulecall/internal/logging"
	"schedulecall/internal/mailer"
	"schedulecall/internal/metrics"

	"github.com/rs/zerolog"
)

// Build wires the booking handler from a loaded config. Both the standalone
// server and the serverless entry point go through here.
func Build(cfg *config.Config, logger *zerolog.Logger) (*booking.Handler, *events.EventBus, error) {
	const op = "app.Build"

	dispatcher, err := mailer.New(cfg.Email, logging.Component(logger, "mailer"))
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	bus := events.NewEventBus()
	metrics.SubscribeBookings(bus)

	composer := booking.NewComposer(cfg.Email.AdminSender, cfg.Email.UserSender, cfg.Email.OwnerName)
	handler := booking.NewHandler(
		dispatcher,
		composer,
		cfg.Email.AdminAddress,
		cfg.Email.DispatchTimeout,
		bus,
		logging.Component(logger, "booking"),
	)

	return handler, bus, nil
}
