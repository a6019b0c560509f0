package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/example/staybook/internal/persistence"
)

// UnitRepository persists rental units.
type UnitRepository struct {
	db *DB
}

// NewUnitRepository builds a repository over the shared handle.
func NewUnitRepository(db *DB) *UnitRepository {
	return &UnitRepository{db: db}
}

// CreateUnit inserts a new unit.
func (r *UnitRepository) CreateUnit(ctx context.Context, unit persistence.Unit) error {
	_, err := r.db.db.ExecContext(ctx, `
		INSERT INTO units (id, title, location, base_price, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		unit.ID,
		unit.Title,
		unit.Location,
		unit.BasePrice,
		formatTime(unit.CreatedAt),
		formatTime(unit.UpdatedAt),
	)
	return mapError(err)
}

// UpdateUnit updates an existing unit.
func (r *UnitRepository) UpdateUnit(ctx context.Context, unit persistence.Unit) error {
	result, err := r.db.db.ExecContext(ctx, `
		UPDATE units SET title = ?, location = ?, base_price = ?, updated_at = ?
		WHERE id = ?`,
		unit.Title,
		unit.Location,
		unit.BasePrice,
		formatTime(unit.UpdatedAt),
		unit.ID,
	)
	if err != nil {
		return mapError(err)
	}
	return requireRow(result)
}

// GetUnit retrieves a unit by ID.
func (r *UnitRepository) GetUnit(ctx context.Context, id string) (persistence.Unit, error) {
	row := r.db.db.QueryRowContext(ctx, `
		SELECT id, title, location, base_price, created_at, updated_at
		FROM units WHERE id = ?`, id)
	return scanUnit(row)
}

// ListUnits returns all units ordered by creation time.
func (r *UnitRepository) ListUnits(ctx context.Context) ([]persistence.Unit, error) {
	rows, err := r.db.db.QueryContext(ctx, `
		SELECT id, title, location, base_price, created_at, updated_at
		FROM units ORDER BY created_at, id`)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	units := make([]persistence.Unit, 0)
	for rows.Next() {
		unit, err := scanUnit(rows)
		if err != nil {
			return nil, err
		}
		units = append(units, unit)
	}
	return units, mapError(rows.Err())
}

// DeleteUnit removes a unit; its reservations cascade.
func (r *UnitRepository) DeleteUnit(ctx context.Context, id string) error {
	result, err := r.db.db.ExecContext(ctx, `DELETE FROM units WHERE id = ?`, id)
	if err != nil {
		return mapError(err)
	}
	return requireRow(result)
}

// UnitExists reports whether a unit with the given ID is stored.
func (r *UnitRepository) UnitExists(ctx context.Context, id string) (bool, error) {
	var one int
	err := r.db.db.QueryRowContext(ctx, `SELECT 1 FROM units WHERE id = ?`, id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, mapError(err)
	}
	return true, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUnit(row rowScanner) (persistence.Unit, error) {
	var unit persistence.Unit
	var createdAt, updatedAt string
	if err := row.Scan(&unit.ID, &unit.Title, &unit.Location, &unit.BasePrice, &createdAt, &updatedAt); err != nil {
		return persistence.Unit{}, mapError(err)
	}
	unit.CreatedAt = parseTime(createdAt)
	unit.UpdatedAt = parseTime(updatedAt)
	return unit, nil
}

func requireRow(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return mapError(err)
	}
	if affected == 0 {
		return persistence.ErrNotFound
	}
	return nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(value string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}
	}
	return t
}

func formatNullableTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: formatTime(*t), Valid: true}
}

func parseNullableTime(value sql.NullString) *time.Time {
	if !value.Valid {
		return nil
	}
	t := parseTime(value.String)
	if t.IsZero() {
		return nil
	}
	return &t
}
