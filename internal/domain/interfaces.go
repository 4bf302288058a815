package domain

import (
	"context"

	"schedulecall/internal/models"
)

// Dispatcher sends one email through a transactional provider and returns the
// provider's message id.
type Dispatcher interface {
	Send(ctx context.Context, msg models.EmailMessage) (string, error)
}

type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

// BookingHandler is the core operation both HTTP adapters delegate to.
type BookingHandler interface {
	Handle(ctx context.Context, req models.BookingRequest) models.BookingOutcome
}
