package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/example/staybook/internal/availability"
	"github.com/example/staybook/internal/calendar"
	"github.com/example/staybook/internal/persistence"
)

// ReservationRepository captures the persistence operations needed by the service.
type ReservationRepository interface {
	CreateReservation(ctx context.Context, reservation persistence.Reservation) error
	UpdateReservation(ctx context.Context, reservation persistence.Reservation) error
	GetReservation(ctx context.Context, id string) (persistence.Reservation, error)
	ListReservationsForUnit(ctx context.Context, unitID string) ([]persistence.Reservation, error)
	DeleteReservation(ctx context.Context, id string) error
}

// UnitFinder is the narrow unit lookup the reservation service depends on.
type UnitFinder interface {
	UnitExists(ctx context.Context, id string) (bool, error)
}

// validStatuses is the closed set accepted at intake, matching the store's
// status constraint.
var validStatuses = map[string]bool{
	"booked":    true,
	"pending":   true,
	"available": true,
	"blocked":   true,
}

// ChangeListener observes successful reservation writes for a unit. The
// calendar service registers one to invalidate its snapshot cache.
type ChangeListener func(unitID string)

// ReservationService orchestrates validation, overlap detection, and
// persistence for bookings.
type ReservationService struct {
	reservations ReservationRepository
	units        UnitFinder
	normalizer   *calendar.Normalizer
	idGenerator  func() string
	now          func() time.Time
	onChange     ChangeListener
	logger       *slog.Logger
}

// NewReservationService constructs a reservation service with the provided dependencies.
func NewReservationService(reservations ReservationRepository, units UnitFinder, normalizer *calendar.Normalizer, idGenerator func() string, now func() time.Time) *ReservationService {
	return NewReservationServiceWithLogger(reservations, units, normalizer, idGenerator, now, nil)
}

// NewReservationServiceWithLogger constructs a reservation service with a specified logger.
func NewReservationServiceWithLogger(reservations ReservationRepository, units UnitFinder, normalizer *calendar.Normalizer, idGenerator func() string, now func() time.Time, logger *slog.Logger) *ReservationService {
	if normalizer == nil {
		normalizer = calendar.NewNormalizer(nil)
	}
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &ReservationService{
		reservations: reservations,
		units:        units,
		normalizer:   normalizer,
		idGenerator:  idGenerator,
		now:          now,
		logger:       defaultLogger(logger),
	}
}

// SetChangeListener registers a callback invoked after every successful write.
func (s *ReservationService) SetChangeListener(fn ChangeListener) {
	if s == nil {
		return
	}
	s.onChange = fn
}

func (s *ReservationService) notifyChange(unitID string) {
	if s.onChange != nil {
		s.onChange(unitID)
	}
}

func (s *ReservationService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "ReservationService", operation, attrs...)
}

// CreateReservation validates input, detects overlaps against the unit's
// existing stays, and persists the booking. Overlaps are returned as warnings
// alongside the created reservation, never as a rejection.
func (s *ReservationService) CreateReservation(ctx context.Context, params CreateReservationParams) (result ReservationResult, err error) {
	if s == nil {
		err = fmt.Errorf("ReservationService is nil")
		return
	}
	if s.reservations == nil {
		err = fmt.Errorf("reservation repository not configured")
		return
	}

	logger := s.loggerWith(ctx, "CreateReservation",
		"principal_id", params.Principal.AccountID,
		"unit_id", params.UnitID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to create reservation", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With(
			"reservation_id", result.Reservation.ID,
			"overlap_count", len(result.Warnings),
		).InfoContext(ctx, "reservation created")
	}()

	if params.Principal.AccountID == "" {
		err = ErrUnauthorized
		return
	}

	if err = s.requireUnit(ctx, params.UnitID); err != nil {
		return
	}

	vErr := s.validateReservationInput(params.Input)
	if vErr.HasErrors() {
		err = vErr
		return
	}

	now := s.now()
	record := persistence.Reservation{
		ID:          s.idGenerator(),
		UnitID:      params.UnitID,
		GuestLabel:  strings.TrimSpace(params.Input.GuestLabel),
		CheckInRaw:  strings.TrimSpace(params.Input.CheckIn),
		CheckOutRaw: strings.TrimSpace(params.Input.CheckOut),
		Status:      normalizeStatus(params.Input.Status),
		TotalAmount: params.Input.TotalAmount,
		ReferenceID: strings.TrimSpace(params.Input.ReferenceID),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	var warnings []OverlapWarning
	warnings, err = s.overlapWarnings(ctx, record)
	if err != nil {
		return
	}

	if err = s.reservations.CreateReservation(ctx, record); err != nil {
		err = mapReservationRepoError(err)
		return
	}
	s.notifyChange(record.UnitID)

	result = ReservationResult{Reservation: reservationFromRecord(record), Warnings: warnings}
	return
}

// UpdateReservation validates input and rewrites an existing booking. The
// owning unit never changes; overlap warnings are recomputed against the
// unit's other stays.
func (s *ReservationService) UpdateReservation(ctx context.Context, params UpdateReservationParams) (result ReservationResult, err error) {
	if s == nil {
		err = fmt.Errorf("ReservationService is nil")
		return
	}
	if s.reservations == nil {
		err = fmt.Errorf("reservation repository not configured")
		return
	}

	logger := s.loggerWith(ctx, "UpdateReservation",
		"principal_id", params.Principal.AccountID,
		"reservation_id", params.ReservationID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to update reservation", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With(
			"reservation_id", result.Reservation.ID,
			"overlap_count", len(result.Warnings),
		).InfoContext(ctx, "reservation updated")
	}()

	if params.Principal.AccountID == "" {
		err = ErrUnauthorized
		return
	}

	var existing persistence.Reservation
	existing, err = s.reservations.GetReservation(ctx, params.ReservationID)
	if err != nil {
		err = mapReservationRepoError(err)
		return
	}

	vErr := s.validateReservationInput(params.Input)
	if vErr.HasErrors() {
		err = vErr
		return
	}

	updated := existing
	updated.GuestLabel = strings.TrimSpace(params.Input.GuestLabel)
	updated.CheckInRaw = strings.TrimSpace(params.Input.CheckIn)
	updated.CheckOutRaw = strings.TrimSpace(params.Input.CheckOut)
	updated.Status = normalizeStatus(params.Input.Status)
	updated.TotalAmount = params.Input.TotalAmount
	updated.ReferenceID = strings.TrimSpace(params.Input.ReferenceID)
	updated.UpdatedAt = s.now()

	var warnings []OverlapWarning
	warnings, err = s.overlapWarnings(ctx, updated)
	if err != nil {
		return
	}

	if err = s.reservations.UpdateReservation(ctx, updated); err != nil {
		err = mapReservationRepoError(err)
		return
	}
	s.notifyChange(updated.UnitID)

	result = ReservationResult{Reservation: reservationFromRecord(updated), Warnings: warnings}
	return
}

// DeleteReservation removes a booking.
func (s *ReservationService) DeleteReservation(ctx context.Context, principal Principal, reservationID string) error {
	if s == nil {
		return fmt.Errorf("ReservationService is nil")
	}
	if s.reservations == nil {
		return fmt.Errorf("reservation repository not configured")
	}
	if principal.AccountID == "" {
		return ErrUnauthorized
	}

	logger := s.loggerWith(ctx, "DeleteReservation",
		"principal_id", principal.AccountID,
		"reservation_id", reservationID,
	)

	existing, err := s.reservations.GetReservation(ctx, reservationID)
	if err != nil {
		err = mapReservationRepoError(err)
		logger.ErrorContext(ctx, "failed to delete reservation", "error", err, "error_kind", ErrorKind(err))
		return err
	}

	if err := s.reservations.DeleteReservation(ctx, reservationID); err != nil {
		err = mapReservationRepoError(err)
		logger.ErrorContext(ctx, "failed to delete reservation", "error", err, "error_kind", ErrorKind(err))
		return err
	}
	s.notifyChange(existing.UnitID)

	logger.InfoContext(ctx, "reservation deleted")
	return nil
}

// GetReservation returns a single booking.
func (s *ReservationService) GetReservation(ctx context.Context, principal Principal, reservationID string) (reservation Reservation, err error) {
	if s == nil {
		err = fmt.Errorf("ReservationService is nil")
		return
	}
	if s.reservations == nil {
		err = fmt.Errorf("reservation repository not configured")
		return
	}

	var record persistence.Reservation
	record, err = s.reservations.GetReservation(ctx, reservationID)
	if err != nil {
		err = mapReservationRepoError(err)
		return
	}

	reservation = reservationFromRecord(record)
	return
}

// ListReservations returns a unit's bookings in stable fetch order. The
// calendar engine's tie-breaking relies on this order, so no re-sorting
// happens here.
func (s *ReservationService) ListReservations(ctx context.Context, principal Principal, unitID string) (reservations []Reservation, err error) {
	if s == nil {
		err = fmt.Errorf("ReservationService is nil")
		return
	}
	if s.reservations == nil {
		return nil, nil
	}

	logger := s.loggerWith(ctx, "ListReservations",
		"principal_id", principal.AccountID,
		"unit_id", unitID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to list reservations", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("result_count", len(reservations)).InfoContext(ctx, "reservations listed")
	}()

	if err = s.requireUnit(ctx, unitID); err != nil {
		return
	}

	var raw []persistence.Reservation
	raw, err = s.reservations.ListReservationsForUnit(ctx, unitID)
	if err != nil {
		err = mapReservationRepoError(err)
		return
	}

	reservations = make([]Reservation, 0, len(raw))
	for _, record := range raw {
		reservations = append(reservations, reservationFromRecord(record))
	}
	return
}

func (s *ReservationService) requireUnit(ctx context.Context, unitID string) error {
	if s.units == nil {
		return nil
	}
	exists, err := s.units.UnitExists(ctx, unitID)
	if err != nil {
		return mapReservationRepoError(err)
	}
	if !exists {
		return ErrNotFound
	}
	return nil
}

func (s *ReservationService) overlapWarnings(ctx context.Context, record persistence.Reservation) ([]OverlapWarning, error) {
	existing, err := s.reservations.ListReservationsForUnit(ctx, record.UnitID)
	if err != nil {
		return nil, mapReservationRepoError(err)
	}

	stays := make([]availability.Stay, 0, len(existing))
	for _, other := range existing {
		stays = append(stays, stayFromRecord(other, s.normalizer))
	}

	overlaps := availability.DetectOverlaps(stays, stayFromRecord(record, s.normalizer))
	if len(overlaps) == 0 {
		return nil, nil
	}

	warnings := make([]OverlapWarning, 0, len(overlaps))
	for _, overlap := range overlaps {
		warnings = append(warnings, OverlapWarning{
			WithReservationID: overlap.WithReservationID,
			CheckIn:           overlap.CheckIn,
			CheckOut:          overlap.CheckOut,
		})
	}
	return warnings, nil
}

func (s *ReservationService) validateReservationInput(input ReservationInput) *ValidationError {
	vErr := &ValidationError{}

	if strings.TrimSpace(input.GuestLabel) == "" {
		vErr.add("guest_label", "guest label is required")
	}

	checkIn := s.normalizer.DateOf(input.CheckIn)
	checkOut := s.normalizer.DateOf(input.CheckOut)
	if checkIn.IsZero() {
		vErr.add("check_in", "check-in must carry a valid date")
	}
	if checkOut.IsZero() {
		vErr.add("check_out", "check-out must carry a valid date")
	}
	if !checkIn.IsZero() && !checkOut.IsZero() && checkOut.Before(checkIn) {
		vErr.add("check_out", "check-out must not precede check-in")
	}

	if status := strings.TrimSpace(input.Status); status != "" && !validStatuses[status] {
		vErr.add("status", "status must be one of booked, pending, available, blocked")
	}
	if input.TotalAmount < 0 {
		vErr.add("total_amount", "total amount must not be negative")
	}

	return vErr
}

// normalizeStatus trims and defaults the intake status.
func normalizeStatus(raw string) string {
	status := strings.TrimSpace(raw)
	if status == "" {
		return "booked"
	}
	return status
}

func mapReservationRepoError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, persistence.ErrNotFound) {
		return ErrNotFound
	}
	if errors.Is(err, persistence.ErrDuplicate) {
		return ErrAlreadyExists
	}
	if errors.Is(err, persistence.ErrForeignKeyViolation) {
		return ErrNotFound
	}
	if errors.Is(err, persistence.ErrConstraintViolation) {
		vErr := &ValidationError{}
		vErr.add("status", "status must be one of booked, pending, available, blocked")
		return vErr
	}
	return err
}
