package models

import "time"

// BookingRequest is a single "schedule a call" submission. It lives for one
// request/response cycle and is never stored.
type BookingRequest struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required"`
	Date    string `json:"date" validate:"required"`
	Time    string `json:"time" validate:"required"`
	Message string `json:"message" validate:"required"`
}

type OutcomeKind string

const (
	OutcomeSuccess          OutcomeKind = "success"
	OutcomeValidationFailed OutcomeKind = "validation_failed"
	OutcomeDispatchError    OutcomeKind = "dispatch_error"
)

// BookingOutcome reports which parties were actually notified, so callers can
// tell "nothing sent" apart from "admin notified, user not confirmed".
type BookingOutcome struct {
	BookingID     string
	Kind          OutcomeKind
	AdminNotified bool
	UserNotified  bool
	Err           error
}

func (o BookingOutcome) Success() bool {
	return o.Kind == OutcomeSuccess
}

type DispatchLeg string

const (
	LegAdminNotification DispatchLeg = "admin_notification"
	LegUserConfirmation  DispatchLeg = "user_confirmation"
)

// DispatchResult is the outcome of one email-send attempt.
type DispatchResult struct {
	Leg       DispatchLeg
	Recipient string
	MessageID string
	Duration  time.Duration
	Err       error
}

func (r DispatchResult) OK() bool {
	return r.Err == nil
}

// EmailMessage is the payload accepted by every dispatch client.
type EmailMessage struct {
	From    string
	To      string
	Subject string
	HTML    string
}
