package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/example/staybook/internal/application"
)

type reservationService interface {
	CreateReservation(ctx context.Context, params application.CreateReservationParams) (application.ReservationResult, error)
	UpdateReservation(ctx context.Context, params application.UpdateReservationParams) (application.ReservationResult, error)
	DeleteReservation(ctx context.Context, principal application.Principal, reservationID string) error
	GetReservation(ctx context.Context, principal application.Principal, reservationID string) (application.Reservation, error)
	ListReservations(ctx context.Context, principal application.Principal, unitID string) ([]application.Reservation, error)
}

type ReservationHandler struct {
	service   reservationService
	responder responder
	logger    *slog.Logger
}

func NewReservationHandler(service reservationService, logger *slog.Logger) *ReservationHandler {
	base := defaultLogger(logger)
	return &ReservationHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *ReservationHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "ReservationHandler", operation, attrs...)
}

// List returns a unit's bookings in stable fetch order.
func (h *ReservationHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusUnauthorized, errMissingSessionToken)
		return
	}
	unitID, ok := UnitIDFromContext(r.Context())
	if !ok || unitID == "" {
		http.NotFound(w, r)
		return
	}

	reservations, err := h.service.ListReservations(r.Context(), principal, unitID)
	if err != nil {
		h.log(r.Context(), "List", "unit_id", unitID).ErrorContext(r.Context(), "failed to list reservations", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	payload := make([]reservationDTO, 0, len(reservations))
	for _, reservation := range reservations {
		payload = append(payload, reservationToDTO(reservation))
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, payload)
}

// Create persists a new booking against the unit in the path. Overlap
// warnings come back alongside the created reservation.
func (h *ReservationHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusUnauthorized, errMissingSessionToken)
		return
	}
	unitID, ok := UnitIDFromContext(r.Context())
	if !ok || unitID == "" {
		http.NotFound(w, r)
		return
	}

	var req reservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Create", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode reservation request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	result, err := h.service.CreateReservation(r.Context(), application.CreateReservationParams{
		Principal: principal,
		UnitID:    unitID,
		Input:     req.toInput(),
	})
	if err != nil {
		h.log(r.Context(), "Create", "unit_id", unitID).ErrorContext(r.Context(), "failed to create reservation", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.log(r.Context(), "Create",
		"unit_id", unitID,
		"reservation_id", result.Reservation.ID,
		"overlap_count", len(result.Warnings),
	).InfoContext(r.Context(), "reservation created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, reservationResultToDTO(result))
}

// Get returns a single booking.
func (h *ReservationHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusUnauthorized, errMissingSessionToken)
		return
	}
	reservationID, ok := ReservationIDFromContext(r.Context())
	if !ok || reservationID == "" {
		http.NotFound(w, r)
		return
	}

	reservation, err := h.service.GetReservation(r.Context(), principal, reservationID)
	if err != nil {
		h.log(r.Context(), "Get", "reservation_id", reservationID).ErrorContext(r.Context(), "failed to get reservation", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, reservationToDTO(reservation))
}

// Update rewrites an existing booking.
func (h *ReservationHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusUnauthorized, errMissingSessionToken)
		return
	}
	reservationID, ok := ReservationIDFromContext(r.Context())
	if !ok || reservationID == "" {
		http.NotFound(w, r)
		return
	}

	var req reservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Update", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode reservation request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	result, err := h.service.UpdateReservation(r.Context(), application.UpdateReservationParams{
		Principal:     principal,
		ReservationID: reservationID,
		Input:         req.toInput(),
	})
	if err != nil {
		h.log(r.Context(), "Update", "reservation_id", reservationID).ErrorContext(r.Context(), "failed to update reservation", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, reservationResultToDTO(result))
}

// Delete removes a booking.
func (h *ReservationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusUnauthorized, errMissingSessionToken)
		return
	}
	reservationID, ok := ReservationIDFromContext(r.Context())
	if !ok || reservationID == "" {
		http.NotFound(w, r)
		return
	}

	if err := h.service.DeleteReservation(r.Context(), principal, reservationID); err != nil {
		h.log(r.Context(), "Delete", "reservation_id", reservationID).ErrorContext(r.Context(), "failed to delete reservation", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.log(r.Context(), "Delete", "reservation_id", reservationID).InfoContext(r.Context(), "reservation deleted")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

type reservationRequest struct {
	GuestLabel  string  `json:"guest_label"`
	CheckIn     string  `json:"check_in"`
	CheckOut    string  `json:"check_out"`
	Status      string  `json:"status"`
	TotalAmount float64 `json:"total_amount"`
	ReferenceID string  `json:"reference_id"`
}

func (req reservationRequest) toInput() application.ReservationInput {
	return application.ReservationInput{
		GuestLabel:  req.GuestLabel,
		CheckIn:     req.CheckIn,
		CheckOut:    req.CheckOut,
		Status:      req.Status,
		TotalAmount: req.TotalAmount,
		ReferenceID: req.ReferenceID,
	}
}

type reservationDTO struct {
	ID          string  `json:"id"`
	UnitID      string  `json:"unit_id"`
	GuestLabel  string  `json:"guest_label"`
	CheckIn     string  `json:"check_in"`
	CheckOut    string  `json:"check_out"`
	Status      string  `json:"status"`
	TotalAmount float64 `json:"total_amount"`
	ReferenceID string  `json:"reference_id,omitempty"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

type overlapWarningDTO struct {
	WithReservationID string `json:"with_reservation_id"`
	CheckIn           string `json:"check_in"`
	CheckOut          string `json:"check_out"`
}

type reservationResultDTO struct {
	Reservation reservationDTO      `json:"reservation"`
	Warnings    []overlapWarningDTO `json:"warnings,omitempty"`
}

func reservationToDTO(reservation application.Reservation) reservationDTO {
	return reservationDTO{
		ID:          reservation.ID,
		UnitID:      reservation.UnitID,
		GuestLabel:  reservation.GuestLabel,
		CheckIn:     reservation.CheckIn,
		CheckOut:    reservation.CheckOut,
		Status:      reservation.Status,
		TotalAmount: reservation.TotalAmount,
		ReferenceID: reservation.ReferenceID,
		CreatedAt:   formatTimestamp(reservation.CreatedAt),
		UpdatedAt:   formatTimestamp(reservation.UpdatedAt),
	}
}

func reservationResultToDTO(result application.ReservationResult) reservationResultDTO {
	dto := reservationResultDTO{Reservation: reservationToDTO(result.Reservation)}
	for _, warning := range result.Warnings {
		dto.Warnings = append(dto.Warnings, overlapWarningDTO{
			WithReservationID: warning.WithReservationID,
			CheckIn:           warning.CheckIn.Format("2006-01-02"),
			CheckOut:          warning.CheckOut.Format("2006-01-02"),
		})
	}
	return dto
}
