package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/example/staybook/internal/application"
	"github.com/example/staybook/internal/blocks"
	"github.com/example/staybook/internal/calendar"
)

type calendarService interface {
	MonthView(ctx context.Context, principal application.Principal, params application.MonthViewParams) (application.MonthView, error)
	WeekView(ctx context.Context, principal application.Principal, params application.WeekViewParams) (application.WeekView, error)
	ExportICS(ctx context.Context, principal application.Principal, unitID string) (string, error)
	CreateBlockRule(ctx context.Context, params application.CreateBlockRuleParams) (application.BlockRule, error)
	ListBlockRules(ctx context.Context, principal application.Principal, unitID string) ([]application.BlockRule, error)
	DeleteBlockRule(ctx context.Context, principal application.Principal, ruleID string) error
}

type CalendarHandler struct {
	service   calendarService
	location  *time.Location
	responder responder
	logger    *slog.Logger
}

func NewCalendarHandler(service calendarService, location *time.Location, logger *slog.Logger) *CalendarHandler {
	if location == nil {
		location = time.UTC
	}
	base := defaultLogger(logger)
	return &CalendarHandler{service: service, location: location, responder: newResponder(base), logger: base}
}

func (h *CalendarHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "CalendarHandler", operation, attrs...)
}

// View renders the month or week calendar for a unit. Query parameters:
// view=month|week (default month), date=YYYY-MM-DD (default today), and in
// week view scroll=<pixels> for the hour-grid scroll offset.
func (h *CalendarHandler) View(w http.ResponseWriter, r *http.Request) {
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

	query := r.URL.Query()
	mode := strings.ToLower(strings.TrimSpace(query.Get("view")))
	if mode == "" {
		mode = "month"
	}
	if mode != "month" && mode != "week" {
		h.responder.writeJSON(r.Context(), w, http.StatusBadRequest, errorResponse{Message: "view must be month or week"})
		return
	}

	var date time.Time
	if raw := strings.TrimSpace(query.Get("date")); raw != "" {
		parsed, err := time.ParseInLocation("2006-01-02", raw, h.location)
		if err != nil {
			h.responder.writeJSON(r.Context(), w, http.StatusBadRequest, errorResponse{Message: "date must use the YYYY-MM-DD format"})
			return
		}
		date = parsed
	}

	logger := h.log(r.Context(), "View", "unit_id", unitID, "view", mode)

	switch mode {
	case "week":
		var scroll float64
		if raw := strings.TrimSpace(query.Get("scroll")); raw != "" {
			parsed, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				h.responder.writeJSON(r.Context(), w, http.StatusBadRequest, errorResponse{Message: "scroll must be a number"})
				return
			}
			scroll = parsed
		}

		view, err := h.service.WeekView(r.Context(), principal, application.WeekViewParams{
			UnitID:       unitID,
			Focused:      date,
			ScrollOffset: scroll,
		})
		if err != nil {
			logger.ErrorContext(r.Context(), "failed to render week view", "error", err, "error_kind", application.ErrorKind(err))
			h.responder.handleServiceError(r.Context(), w, err)
			return
		}
		h.responder.writeJSON(r.Context(), w, http.StatusOK, weekViewToDTO(view))
	default:
		view, err := h.service.MonthView(r.Context(), principal, application.MonthViewParams{
			UnitID:    unitID,
			Reference: date,
		})
		if err != nil {
			logger.ErrorContext(r.Context(), "failed to render month view", "error", err, "error_kind", application.ErrorKind(err))
			h.responder.handleServiceError(r.Context(), w, err)
			return
		}
		h.responder.writeJSON(r.Context(), w, http.StatusOK, monthViewToDTO(view))
	}
}

// ExportICS serves the unit's reservation calendar as an iCalendar file.
func (h *CalendarHandler) ExportICS(w http.ResponseWriter, r *http.Request) {
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

	feed, err := h.service.ExportICS(r.Context(), principal, unitID)
	if err != nil {
		h.log(r.Context(), "ExportICS", "unit_id", unitID).ErrorContext(r.Context(), "failed to export calendar feed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="calendar.ics"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(feed)); err != nil {
		h.log(r.Context(), "ExportICS", "unit_id", unitID).ErrorContext(r.Context(), "failed to write calendar feed", "error", err)
	}
}

// ListBlockRules returns the unit's recurring block rules.
func (h *CalendarHandler) ListBlockRules(w http.ResponseWriter, r *http.Request) {
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

	rules, err := h.service.ListBlockRules(r.Context(), principal, unitID)
	if err != nil {
		h.log(r.Context(), "ListBlockRules", "unit_id", unitID).ErrorContext(r.Context(), "failed to list block rules", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	payload := make([]blockRuleDTO, 0, len(rules))
	for _, rule := range rules {
		payload = append(payload, blockRuleToDTO(rule))
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, payload)
}

// CreateBlockRule persists a recurring block rule for the unit.
func (h *CalendarHandler) CreateBlockRule(w http.ResponseWriter, r *http.Request) {
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

	var req blockRuleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "CreateBlockRule", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode block rule request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	rule, err := h.service.CreateBlockRule(r.Context(), application.CreateBlockRuleParams{
		Principal: principal,
		UnitID:    unitID,
		Input:     req.toInput(),
	})
	if err != nil {
		h.log(r.Context(), "CreateBlockRule", "unit_id", unitID).ErrorContext(r.Context(), "failed to create block rule", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.log(r.Context(), "CreateBlockRule", "unit_id", unitID, "rule_id", rule.ID).InfoContext(r.Context(), "block rule created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, blockRuleToDTO(rule))
}

// DeleteBlockRule removes a recurring block rule.
func (h *CalendarHandler) DeleteBlockRule(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusUnauthorized, errMissingSessionToken)
		return
	}
	ruleID, ok := BlockRuleIDFromContext(r.Context())
	if !ok || ruleID == "" {
		http.NotFound(w, r)
		return
	}

	if err := h.service.DeleteBlockRule(r.Context(), principal, ruleID); err != nil {
		h.log(r.Context(), "DeleteBlockRule", "rule_id", ruleID).ErrorContext(r.Context(), "failed to delete block rule", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.log(r.Context(), "DeleteBlockRule", "rule_id", ruleID).InfoContext(r.Context(), "block rule deleted")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

type dayStayDTO struct {
	GuestLabel   string `json:"guest_label"`
	RangeLabel   string `json:"range_label"`
	CheckInLabel string `json:"check_in_label"`
	Status       string `json:"status"`
}

type monthCellDTO struct {
	Date           string       `json:"date"`
	InFocusedMonth bool         `json:"in_focused_month"`
	Today          bool         `json:"today"`
	Stays          []dayStayDTO `json:"stays,omitempty"`
}

type segmentDTO struct {
	StartHour  int    `json:"start_hour"`
	EndHour    int    `json:"end_hour"`
	GuestLabel string `json:"guest_label"`
	Status     string `json:"status"`
}

type weekColumnDTO struct {
	Date     string       `json:"date"`
	Segments []segmentDTO `json:"segments,omitempty"`
}

type indicatorDTO struct {
	Column int     `json:"column"`
	Top    float64 `json:"top"`
	Left   float64 `json:"left"`
}

type blockDTO struct {
	RuleID string `json:"rule_id"`
	Label  string `json:"label,omitempty"`
	Start  string `json:"start"`
	End    string `json:"end"`
}

type monthViewDTO struct {
	View      string         `json:"view"`
	Reference string         `json:"reference"`
	Cells     []monthCellDTO `json:"cells"`
	Blocks    []blockDTO     `json:"blocks,omitempty"`
}

type weekViewDTO struct {
	View      string          `json:"view"`
	Focused   string          `json:"focused"`
	Columns   []weekColumnDTO `json:"columns"`
	Indicator *indicatorDTO   `json:"indicator,omitempty"`
	Blocks    []blockDTO      `json:"blocks,omitempty"`
}

type blockRuleRequest struct {
	Label     string `json:"label"`
	Frequency string `json:"frequency"`
	Weekdays  []int  `json:"weekdays"`
	StartsOn  string `json:"starts_on"`
	EndsOn    string `json:"ends_on"`
}

func (req blockRuleRequest) toInput() application.BlockRuleInput {
	weekdays := make([]time.Weekday, 0, len(req.Weekdays))
	for _, day := range req.Weekdays {
		weekdays = append(weekdays, time.Weekday(day))
	}
	return application.BlockRuleInput{
		Label:     req.Label,
		Frequency: parseFrequency(req.Frequency),
		Weekdays:  weekdays,
		StartsOn:  req.StartsOn,
		EndsOn:    req.EndsOn,
	}
}

// parseFrequency maps wire names onto rule frequencies. Unknown values map to
// zero and fail rule validation downstream.
func parseFrequency(raw string) int {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "daily":
		return 1
	case "weekly":
		return 2
	default:
		return 0
	}
}

type blockRuleDTO struct {
	ID        string `json:"id"`
	UnitID    string `json:"unit_id"`
	Label     string `json:"label,omitempty"`
	Frequency string `json:"frequency"`
	Weekdays  []int  `json:"weekdays,omitempty"`
	StartsOn  string `json:"starts_on"`
	EndsOn    string `json:"ends_on,omitempty"`
}

func blockRuleToDTO(rule application.BlockRule) blockRuleDTO {
	dto := blockRuleDTO{
		ID:       rule.ID,
		UnitID:   rule.UnitID,
		Label:    rule.Label,
		StartsOn: formatDate(rule.StartsOn),
	}
	switch rule.Frequency {
	case 1:
		dto.Frequency = "daily"
	case 2:
		dto.Frequency = "weekly"
	}
	for _, day := range rule.Weekdays {
		dto.Weekdays = append(dto.Weekdays, int(day))
	}
	if rule.EndsOn != nil {
		dto.EndsOn = formatDate(*rule.EndsOn)
	}
	return dto
}

func monthViewToDTO(view application.MonthView) monthViewDTO {
	dto := monthViewDTO{
		View:      "month",
		Reference: formatDate(view.Reference),
		Cells:     make([]monthCellDTO, 0, len(view.Cells)),
	}
	for _, cell := range view.Cells {
		cellDTO := monthCellDTO{
			Date:           formatDate(cell.Date),
			InFocusedMonth: cell.InFocusedMonth,
			Today:          cell.Today,
		}
		for _, stay := range cell.Stays {
			cellDTO.Stays = append(cellDTO.Stays, dayStayDTO{
				GuestLabel:   stay.GuestLabel,
				RangeLabel:   stay.RangeLabel,
				CheckInLabel: stay.CheckInLabel,
				Status:       stayStatus(stay.Reservation),
			})
		}
		dto.Cells = append(dto.Cells, cellDTO)
	}
	dto.Blocks = blocksToDTO(view.Blocks)
	return dto
}

func weekViewToDTO(view application.WeekView) weekViewDTO {
	dto := weekViewDTO{
		View:    "week",
		Focused: formatDate(view.Focused),
		Columns: make([]weekColumnDTO, 0, len(view.Columns)),
	}
	for _, column := range view.Columns {
		colDTO := weekColumnDTO{Date: formatDate(column.Date)}
		for _, segment := range column.Segments {
			seg := segmentDTO{
				StartHour: segment.StartHour,
				EndHour:   segment.EndHour,
			}
			if segment.Reservation != nil {
				seg.GuestLabel = segment.Reservation.GuestLabel
				seg.Status = string(segment.Reservation.Status)
			}
			colDTO.Segments = append(colDTO.Segments, seg)
		}
		dto.Columns = append(dto.Columns, colDTO)
	}
	if view.Indicator != nil {
		dto.Indicator = &indicatorDTO{
			Column: view.Indicator.Column,
			Top:    view.Indicator.Top,
			Left:   view.Indicator.Left,
		}
	}
	dto.Blocks = blocksToDTO(view.Blocks)
	return dto
}

func blocksToDTO(expanded []blocks.Block) []blockDTO {
	out := make([]blockDTO, 0, len(expanded))
	for _, block := range expanded {
		out = append(out, blockDTO{
			RuleID: block.RuleID,
			Label:  block.Label,
			Start:  formatDate(block.Start),
			End:    formatDate(block.End),
		})
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func stayStatus(reservation *calendar.ReservationInterval) string {
	if reservation == nil {
		return ""
	}
	return string(reservation.Status)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}
