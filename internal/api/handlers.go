// Package api is the HTTP transport over the session and journey
// services. Handlers are thin: decode, delegate, map errors to status
// codes, encode.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/abhisek/elfplan/internal/journey"
	"github.com/abhisek/elfplan/internal/payment"
	"github.com/abhisek/elfplan/internal/reminder"
	"github.com/abhisek/elfplan/internal/session"
)

// Handler serves the session and plan-lifecycle endpoints.
type Handler struct {
	sessions *session.Service
	journeys *journey.Service
	payments payment.FactSource
	now      func() time.Time
	log      zerolog.Logger
}

// NewHandler creates the API handler set.
func NewHandler(sessions *session.Service, journeys *journey.Service, payments payment.FactSource, log zerolog.Logger) *Handler {
	return &Handler{
		sessions: sessions,
		journeys: journeys,
		payments: payments,
		now:      time.Now,
		log:      log.With().Str("component", "api").Logger(),
	}
}

// CreateSession POST /api/sessions
//
// Mints a fresh opaque session id and applies any initial intake fields
// in the same write.
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req patchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON")
		return
	}
	id := uuid.NewString()
	rec, err := h.sessions.Patch(r.Context(), id, req.toPatch())
	if err != nil {
		writeInternalError(w, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, toRecordDTO(rec))
}

// GetSession GET /api/sessions/{id}
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	rec, err := h.sessions.Get(r.Context(), id)
	if errors.Is(err, session.ErrNotFound) {
		writeNotFound(w, "session not found")
		return
	}
	if err != nil {
		writeInternalError(w, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, toRecordDTO(rec))
}

// PatchSession PATCH /api/sessions/{id}
func (h *Handler) PatchSession(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var req patchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON")
		return
	}
	rec, err := h.sessions.Patch(r.Context(), id, req.toPatch())
	if err != nil {
		writeInternalError(w, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, toRecordDTO(rec))
}

// GeneratePlan POST /api/sessions/{id}/plan
func (h *Handler) GeneratePlan(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	rec, err := h.journeys.GeneratePlan(r.Context(), id)
	if err != nil {
		h.writeJourneyError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRecordDTO(rec))
}

// SwapDay POST /api/sessions/{id}/plan/days/{day}/swap
func (h *Handler) SwapDay(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id := vars["id"]
	dayNumber, err := dayVar(vars["day"])
	if err != nil {
		writeBadRequest(w, "invalid day number")
		return
	}

	var req struct {
		Reasons []string `json:"reasons"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON")
		return
	}

	rec, err := h.journeys.SwapDay(r.Context(), id, dayNumber, req.Reasons)
	if err != nil {
		h.writeJourneyError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRecordDTO(rec))
}

// Commit POST /api/sessions/{id}/commit
func (h *Handler) Commit(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var req struct {
		Email    string `json:"email"`
		Timezone string `json:"timezone"`
		Hour     int    `json:"hour"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON")
		return
	}

	committedAt, err := h.journeys.Commit(r.Context(), id, req.Email, req.Timezone, req.Hour)
	if err != nil {
		h.writeJourneyError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"committedAt": committedAt})
}

// Today GET /api/sessions/{id}/today
func (h *Handler) Today(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	rec, err := h.sessions.Get(r.Context(), id)
	if errors.Is(err, session.ErrNotFound) {
		writeNotFound(w, "session not found")
		return
	}
	if err != nil {
		writeInternalError(w, err.Error())
		return
	}

	day, ok, err := reminder.ResolveToday(rec, h.now().UTC())
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	if !ok {
		writeNotFound(w, "no day scheduled for today")
		return
	}
	writeJSON(w, http.StatusOK, day)
}

// Hotline POST /api/sessions/{id}/hotline
func (h *Handler) Hotline(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var req struct {
		Question string `json:"question"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Question == "" {
		writeBadRequest(w, "question is required")
		return
	}

	reply, rec, err := h.journeys.HotlineTurn(r.Context(), id, req.Question)
	if err != nil {
		h.writeJourneyError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"reply":   reply,
		"session": toRecordDTO(rec),
	})
}

// InferProfile POST /api/sessions/{id}/profile/infer
func (h *Handler) InferProfile(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	rec, err := h.journeys.InferProfileFromIntro(r.Context(), id)
	if err != nil {
		h.writeJourneyError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRecordDTO(rec))
}

// PaymentCaptured POST /api/sessions/{id}/payment-captured
//
// The storefront calls this after the payment provider approves an order.
// The order is verified against the provider before the payer email is
// recorded onto the session.
func (h *Handler) PaymentCaptured(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var req struct {
		OrderID string `json:"orderId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.OrderID == "" {
		writeBadRequest(w, "orderId is required")
		return
	}

	facts, err := h.payments.Lookup(r.Context(), req.OrderID)
	if err != nil {
		writeInternalError(w, err.Error())
		return
	}
	if !facts.Paid {
		writeError(w, http.StatusPaymentRequired, "order not captured")
		return
	}

	p := session.Patch{}
	if facts.PayerEmail != "" {
		p.PayerEmail = &facts.PayerEmail
	}
	if _, err := h.sessions.Patch(r.Context(), id, p); err != nil {
		writeInternalError(w, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"paid": true})
}

// Health GET /api/health
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) writeJourneyError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, journey.ErrNotFound):
		writeNotFound(w, err.Error())
	case errors.Is(err, journey.ErrPrecondition):
		writeError(w, http.StatusConflict, err.Error())
	default:
		h.log.Error().Err(err).Msg("operation failed")
		writeInternalError(w, err.Error())
	}
}
