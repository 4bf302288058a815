package booking

import (
	"context"
	"fmt"
	"time"

	"schedulecall/internal/domain"
	"schedulecall/internal/events"
	"schedulecall/internal/metrics"
	"schedulecall/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const defaultDispatchTimeout = 10 * time.Second

// Handler validates a submission and notifies both parties: the operator
// first, then the submitter. The second email is only attempted once the
// first one has been accepted by the provider.
type Handler struct {
	dispatcher   domain.Dispatcher
	composer     *Composer
	adminAddress string
	timeout      time.Duration
	eventBus     domain.EventPublisher
	logger       *zerolog.Logger
}

func NewHandler(
	dispatcher domain.Dispatcher,
	composer *Composer,
	adminAddress string,
	timeout time.Duration,
	eventBus domain.EventPublisher,
	logger *zerolog.Logger,
) *Handler {
	if timeout <= 0 {
		timeout = defaultDispatchTimeout
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Handler{
		dispatcher:   dispatcher,
		composer:     composer,
		adminAddress: adminAddress,
		timeout:      timeout,
		eventBus:     eventBus,
		logger:       logger,
	}
}

func (h *Handler) Handle(ctx context.Context, req models.BookingRequest) models.BookingOutcome {
	out := models.BookingOutcome{BookingID: uuid.NewString()}
	log := h.logger.With().Str("booking_id", out.BookingID).Logger()

	if err := Validate(req); err != nil {
		out.Kind = models.OutcomeValidationFailed
		out.Err = err
		log.Warn().Err(err).Msg("booking rejected")
		h.publish(events.EventBookingRejected, req, out, string(out.Kind))
		return out
	}

	h.publish(events.EventBookingReceived, req, out, "")

	adminMsg, err := h.composer.AdminNotification(req, h.adminAddress)
	if err != nil {
		return h.fail(&log, req, out, models.LegAdminNotification, err)
	}
	if res := h.dispatch(ctx, models.LegAdminNotification, adminMsg); !res.OK() {
		return h.fail(&log, req, out, res.Leg, res.Err)
	}
	out.AdminNotified = true

	userMsg, err := h.composer.UserConfirmation(req)
	if err != nil {
		return h.fail(&log, req, out, models.LegUserConfirmation, err)
	}
	if res := h.dispatch(ctx, models.LegUserConfirmation, userMsg); !res.OK() {
		return h.fail(&log, req, out, res.Leg, res.Err)
	}
	out.UserNotified = true

	out.Kind = models.OutcomeSuccess
	log.Info().Str("date", req.Date).Str("time", req.Time).Msg("booking dispatched")
	h.publish(events.EventBookingDispatched, req, out, "")
	return out
}

func (h *Handler) dispatch(ctx context.Context, leg models.DispatchLeg, msg models.EmailMessage) models.DispatchResult {
	// A client that goes away must not abort a send halfway through the
	// pair; only the dispatch timeout bounds it.
	dctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), h.timeout)
	defer cancel()

	start := time.Now()
	id, err := h.dispatcher.Send(dctx, msg)
	res := models.DispatchResult{
		Leg:       leg,
		Recipient: msg.To,
		MessageID: id,
		Duration:  time.Since(start),
		Err:       err,
	}
	metrics.ObserveDispatch(string(leg), res.Duration, err)
	return res
}

func (h *Handler) fail(
	log *zerolog.Logger,
	req models.BookingRequest,
	out models.BookingOutcome,
	leg models.DispatchLeg,
	err error,
) models.BookingOutcome {
	out.Kind = models.OutcomeDispatchError
	out.Err = fmt.Errorf("%w: %s: %w", ErrDispatch, leg, err)

	log.Error().
		Err(err).
		Str("leg", string(leg)).
		Bool("admin_notified", out.AdminNotified).
		Bool("user_notified", out.UserNotified).
		Msg("booking dispatch failed")

	h.publish(events.EventBookingFailed, req, out, string(leg))
	return out
}

func (h *Handler) publish(eventType string, req models.BookingRequest, out models.BookingOutcome, reason string) {
	if h.eventBus == nil {
		return
	}
	payload := events.BookingEventPayload{
		BookingID:     out.BookingID,
		Email:         req.Email,
		Date:          req.Date,
		Time:          req.Time,
		Outcome:       string(out.Kind),
		AdminNotified: out.AdminNotified,
		UserNotified:  out.UserNotified,
		Reason:        reason,
	}
	if err := h.eventBus.PublishJSON(eventType, payload); err != nil {
		h.logger.Warn().Err(err).Str("event", eventType).Msg("publish booking event")
	}
}
