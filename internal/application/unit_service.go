package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/example/staybook/internal/persistence"
)

// UnitRepository captures the persistence operations needed by the service.
type UnitRepository interface {
	CreateUnit(ctx context.Context, unit persistence.Unit) error
	UpdateUnit(ctx context.Context, unit persistence.Unit) error
	GetUnit(ctx context.Context, id string) (persistence.Unit, error)
	ListUnits(ctx context.Context) ([]persistence.Unit, error)
	DeleteUnit(ctx context.Context, id string) error
}

// UnitService orchestrates validation, authorization, and persistence for
// rental units.
type UnitService struct {
	units       UnitRepository
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewUnitService constructs a unit service with the provided dependencies.
func NewUnitService(units UnitRepository, idGenerator func() string, now func() time.Time) *UnitService {
	return NewUnitServiceWithLogger(units, idGenerator, now, nil)
}

// NewUnitServiceWithLogger constructs a unit service with a specified logger.
func NewUnitServiceWithLogger(units UnitRepository, idGenerator func() string, now func() time.Time, logger *slog.Logger) *UnitService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &UnitService{units: units, idGenerator: idGenerator, now: now, logger: defaultLogger(logger)}
}

func (s *UnitService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "UnitService", operation, attrs...)
}

// CreateUnit validates input and persists a new unit for administrators.
func (s *UnitService) CreateUnit(ctx context.Context, params CreateUnitParams) (unit Unit, err error) {
	if s == nil {
		err = fmt.Errorf("UnitService is nil")
		return
	}
	if s.units == nil {
		err = fmt.Errorf("unit repository not configured")
		return
	}

	logger := s.loggerWith(ctx, "CreateUnit",
		"principal_id", params.Principal.AccountID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to create unit", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("unit_id", unit.ID).InfoContext(ctx, "unit created")
	}()

	if !params.Principal.IsAdmin {
		err = ErrUnauthorized
		return
	}

	vErr := validateUnitInput(params.Input)
	if vErr.HasErrors() {
		err = vErr
		return
	}

	now := s.now()
	record := persistence.Unit{
		ID:        s.idGenerator(),
		Title:     strings.TrimSpace(params.Input.Title),
		Location:  strings.TrimSpace(params.Input.Location),
		BasePrice: params.Input.BasePrice,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err = s.units.CreateUnit(ctx, record); err != nil {
		err = mapUnitRepoError(err)
		return
	}

	unit = unitFromRecord(record)
	return
}

// UpdateUnit validates input and updates an existing unit for administrators.
func (s *UnitService) UpdateUnit(ctx context.Context, params UpdateUnitParams) (unit Unit, err error) {
	if s == nil {
		err = fmt.Errorf("UnitService is nil")
		return
	}
	if s.units == nil {
		err = fmt.Errorf("unit repository not configured")
		return
	}

	logger := s.loggerWith(ctx, "UpdateUnit",
		"principal_id", params.Principal.AccountID,
		"unit_id", params.UnitID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to update unit", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("unit_id", unit.ID).InfoContext(ctx, "unit updated")
	}()

	if !params.Principal.IsAdmin {
		err = ErrUnauthorized
		return
	}

	var existing persistence.Unit
	existing, err = s.units.GetUnit(ctx, params.UnitID)
	if err != nil {
		err = mapUnitRepoError(err)
		return
	}

	vErr := validateUnitInput(params.Input)
	if vErr.HasErrors() {
		err = vErr
		return
	}

	updated := existing
	updated.Title = strings.TrimSpace(params.Input.Title)
	updated.Location = strings.TrimSpace(params.Input.Location)
	updated.BasePrice = params.Input.BasePrice
	updated.UpdatedAt = s.now()

	if err = s.units.UpdateUnit(ctx, updated); err != nil {
		err = mapUnitRepoError(err)
		return
	}

	unit = unitFromRecord(updated)
	return
}

// DeleteUnit removes an existing unit when requested by an administrator. Its
// reservations and block rules cascade in the store.
func (s *UnitService) DeleteUnit(ctx context.Context, principal Principal, unitID string) error {
	if s == nil {
		return fmt.Errorf("UnitService is nil")
	}
	if s.units == nil {
		return fmt.Errorf("unit repository not configured")
	}
	if !principal.IsAdmin {
		return ErrUnauthorized
	}

	logger := s.loggerWith(ctx, "DeleteUnit",
		"principal_id", principal.AccountID,
		"unit_id", unitID,
	)

	if err := s.units.DeleteUnit(ctx, unitID); err != nil {
		err = mapUnitRepoError(err)
		logger.ErrorContext(ctx, "failed to delete unit", "error", err, "error_kind", ErrorKind(err))
		return err
	}

	logger.InfoContext(ctx, "unit deleted")
	return nil
}

// GetUnit returns a single unit for any authenticated principal.
func (s *UnitService) GetUnit(ctx context.Context, principal Principal, unitID string) (unit Unit, err error) {
	if s == nil {
		err = fmt.Errorf("UnitService is nil")
		return
	}
	if s.units == nil {
		err = fmt.Errorf("unit repository not configured")
		return
	}

	var record persistence.Unit
	record, err = s.units.GetUnit(ctx, unitID)
	if err != nil {
		err = mapUnitRepoError(err)
		return
	}

	unit = unitFromRecord(record)
	return
}

// ListUnits returns the unit catalog for any authenticated principal, sorted
// by title with ID breaking ties.
func (s *UnitService) ListUnits(ctx context.Context, principal Principal) (units []Unit, err error) {
	if s == nil {
		err = fmt.Errorf("UnitService is nil")
		return
	}
	if s.units == nil {
		return nil, nil
	}

	logger := s.loggerWith(ctx, "ListUnits",
		"principal_id", principal.AccountID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to list units", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("result_count", len(units)).InfoContext(ctx, "units listed")
	}()

	var raw []persistence.Unit
	raw, err = s.units.ListUnits(ctx)
	if err != nil {
		return
	}

	units = make([]Unit, 0, len(raw))
	for _, record := range raw {
		units = append(units, unitFromRecord(record))
	}

	sort.Slice(units, func(i, j int) bool {
		if strings.EqualFold(units[i].Title, units[j].Title) {
			return units[i].ID < units[j].ID
		}
		return strings.ToLower(units[i].Title) < strings.ToLower(units[j].Title)
	})

	return
}

func validateUnitInput(input UnitInput) *ValidationError {
	vErr := &ValidationError{}

	if strings.TrimSpace(input.Title) == "" {
		vErr.add("title", "title is required")
	}
	if input.BasePrice < 0 {
		vErr.add("base_price", "base price must not be negative")
	}

	return vErr
}

func mapUnitRepoError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, persistence.ErrNotFound) {
		return ErrNotFound
	}
	if errors.Is(err, persistence.ErrDuplicate) {
		return ErrAlreadyExists
	}
	if errors.Is(err, persistence.ErrConstraintViolation) {
		vErr := &ValidationError{}
		vErr.add("title", "title is required")
		return vErr
	}
	return err
}
