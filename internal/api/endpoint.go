package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"schedulecall/internal/booking"
	"schedulecall/internal/domain"
	"schedulecall/internal/models"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/rs/zerolog"
)

// Response bodies are part of the public contract; clients match on them.
const (
	MsgMethodNotAllowed  = "Method not allowed"
	MsgAllFieldsRequired = "All fields are required"
	MsgSomethingWrong    = "Something went wrong"
)

const maxBodyBytes = 100 << 10

type successResponse struct {
	Success bool `json:"success"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Endpoint is the schedule-call handler shared by the standalone server and
// the serverless entry point. A nil booking handler answers every POST
// with 500, which is how an unconfigured deployment behaves.
type Endpoint struct {
	handler domain.BookingHandler
	logger  *zerolog.Logger
}

func NewEndpoint(handler domain.BookingHandler, logger *zerolog.Logger) *Endpoint {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Endpoint{handler: handler, logger: logger}
}

func (e *Endpoint) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "api.Endpoint.ServeHTTP"

	log := e.logger.With().
		Str("op", op).
		Str("request_id", middleware.GetReqID(r.Context())).
		Logger()

	if r.Method != http.MethodPost {
		writeError(w, r, http.StatusMethodNotAllowed, MsgMethodNotAllowed)
		return
	}

	defer func() {
		if rec := recover(); rec != nil {
			log.Error().Interface("panic", rec).Msg("schedule call panicked")
			writeError(w, r, http.StatusInternalServerError, MsgSomethingWrong)
		}
	}()

	if e.handler == nil {
		log.Error().Msg("booking handler is not configured")
		writeError(w, r, http.StatusInternalServerError, MsgSomethingWrong)
		return
	}

	fields, err := decodeFields(w, r)
	if err != nil {
		log.Warn().Err(err).Msg("failed to decode request body")
		writeError(w, r, http.StatusBadRequest, MsgAllFieldsRequired)
		return
	}

	out := e.handler.Handle(r.Context(), booking.ParseFields(fields))

	switch out.Kind {
	case models.OutcomeSuccess:
		render.Status(r, http.StatusOK)
		render.JSON(w, r, successResponse{Success: true})
	case models.OutcomeValidationFailed:
		writeError(w, r, http.StatusBadRequest, MsgAllFieldsRequired)
	default:
		writeError(w, r, http.StatusInternalServerError, MsgSomethingWrong)
	}
}

// decodeFields accepts exactly one JSON value from a JSON-typed body. Any
// other content type reads as an empty submission.
func decodeFields(w http.ResponseWriter, r *http.Request) (map[string]any, error) {
	if render.GetRequestContentType(r) != render.ContentTypeJSON {
		return nil, fmt.Errorf("unsupported content type %q", r.Header.Get("Content-Type"))
	}

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	var fields map[string]any
	if err := dec.Decode(&fields); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after JSON body")
	}
	return fields, nil
}

func writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	render.Status(r, status)
	render.JSON(w, r, errorResponse{Error: message})
}
