package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/example/staybook/internal/application"
)

type unitService interface {
	CreateUnit(ctx context.Context, params application.CreateUnitParams) (application.Unit, error)
	UpdateUnit(ctx context.Context, params application.UpdateUnitParams) (application.Unit, error)
	DeleteUnit(ctx context.Context, principal application.Principal, unitID string) error
	GetUnit(ctx context.Context, principal application.Principal, unitID string) (application.Unit, error)
	ListUnits(ctx context.Context, principal application.Principal) ([]application.Unit, error)
}

type UnitHandler struct {
	service   unitService
	responder responder
	logger    *slog.Logger
}

func NewUnitHandler(service unitService, logger *slog.Logger) *UnitHandler {
	base := defaultLogger(logger)
	return &UnitHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *UnitHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "UnitHandler", operation, attrs...)
}

func (h *UnitHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusUnauthorized, errMissingSessionToken)
		return
	}

	units, err := h.service.ListUnits(r.Context(), principal)
	if err != nil {
		h.log(r.Context(), "List").ErrorContext(r.Context(), "failed to list units", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	payload := make([]unitDTO, 0, len(units))
	for _, unit := range units {
		payload = append(payload, unitToDTO(unit))
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, payload)
}

func (h *UnitHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusUnauthorized, errMissingSessionToken)
		return
	}

	var req unitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Create", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode unit request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	unit, err := h.service.CreateUnit(r.Context(), application.CreateUnitParams{
		Principal: principal,
		Input:     req.toInput(),
	})
	if err != nil {
		h.log(r.Context(), "Create").ErrorContext(r.Context(), "failed to create unit", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.log(r.Context(), "Create", "unit_id", unit.ID).InfoContext(r.Context(), "unit created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, unitToDTO(unit))
}

func (h *UnitHandler) Get(w http.ResponseWriter, r *http.Request) {
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

	unit, err := h.service.GetUnit(r.Context(), principal, unitID)
	if err != nil {
		h.log(r.Context(), "Get", "unit_id", unitID).ErrorContext(r.Context(), "failed to get unit", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, unitToDTO(unit))
}

func (h *UnitHandler) Update(w http.ResponseWriter, r *http.Request) {
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

	var req unitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Update", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode unit request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	unit, err := h.service.UpdateUnit(r.Context(), application.UpdateUnitParams{
		Principal: principal,
		UnitID:    unitID,
		Input:     req.toInput(),
	})
	if err != nil {
		h.log(r.Context(), "Update", "unit_id", unitID).ErrorContext(r.Context(), "failed to update unit", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, unitToDTO(unit))
}

func (h *UnitHandler) Delete(w http.ResponseWriter, r *http.Request) {
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

	if err := h.service.DeleteUnit(r.Context(), principal, unitID); err != nil {
		h.log(r.Context(), "Delete", "unit_id", unitID).ErrorContext(r.Context(), "failed to delete unit", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.log(r.Context(), "Delete", "unit_id", unitID).InfoContext(r.Context(), "unit deleted")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

type unitRequest struct {
	Title     string  `json:"title"`
	Location  string  `json:"location"`
	BasePrice float64 `json:"base_price"`
}

func (req unitRequest) toInput() application.UnitInput {
	return application.UnitInput{
		Title:     req.Title,
		Location:  req.Location,
		BasePrice: req.BasePrice,
	}
}

type unitDTO struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	Location  string  `json:"location,omitempty"`
	BasePrice float64 `json:"base_price"`
	CreatedAt string  `json:"created_at"`
	UpdatedAt string  `json:"updated_at"`
}

func unitToDTO(unit application.Unit) unitDTO {
	return unitDTO{
		ID:        unit.ID,
		Title:     unit.Title,
		Location:  unit.Location,
		BasePrice: unit.BasePrice,
		CreatedAt: formatTimestamp(unit.CreatedAt),
		UpdatedAt: formatTimestamp(unit.UpdatedAt),
	}
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}
