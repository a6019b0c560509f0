package sqlite

import (
	"context"

	"github.com/example/staybook/internal/persistence"
)

// ReservationRepository persists bookings against units.
type ReservationRepository struct {
	db *DB
}

// NewReservationRepository builds a repository over the shared handle.
func NewReservationRepository(db *DB) *ReservationRepository {
	return &ReservationRepository{db: db}
}

// CreateReservation inserts a new reservation.
func (r *ReservationRepository) CreateReservation(ctx context.Context, reservation persistence.Reservation) error {
	_, err := r.db.db.ExecContext(ctx, `
		INSERT INTO reservations
			(id, unit_id, guest_label, check_in_raw, check_out_raw, status, total_amount, reference_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		reservation.ID,
		reservation.UnitID,
		reservation.GuestLabel,
		reservation.CheckInRaw,
		reservation.CheckOutRaw,
		reservation.Status,
		reservation.TotalAmount,
		reservation.ReferenceID,
		formatTime(reservation.CreatedAt),
		formatTime(reservation.UpdatedAt),
	)
	return mapError(err)
}

// UpdateReservation updates an existing reservation. The owning unit cannot
// be changed after creation.
func (r *ReservationRepository) UpdateReservation(ctx context.Context, reservation persistence.Reservation) error {
	result, err := r.db.db.ExecContext(ctx, `
		UPDATE reservations
		SET guest_label = ?, check_in_raw = ?, check_out_raw = ?, status = ?,
		    total_amount = ?, reference_id = ?, updated_at = ?
		WHERE id = ?`,
		reservation.GuestLabel,
		reservation.CheckInRaw,
		reservation.CheckOutRaw,
		reservation.Status,
		reservation.TotalAmount,
		reservation.ReferenceID,
		formatTime(reservation.UpdatedAt),
		reservation.ID,
	)
	if err != nil {
		return mapError(err)
	}
	return requireRow(result)
}

// GetReservation retrieves a reservation by ID.
func (r *ReservationRepository) GetReservation(ctx context.Context, id string) (persistence.Reservation, error) {
	row := r.db.db.QueryRowContext(ctx, `
		SELECT id, unit_id, guest_label, check_in_raw, check_out_raw, status, total_amount, reference_id, created_at, updated_at
		FROM reservations WHERE id = ?`, id)
	return scanReservation(row)
}

// ListReservationsForUnit returns a unit's reservations in fetch order:
// creation time, then ID. The calendar engine's tie-breaking depends on this
// order being stable.
func (r *ReservationRepository) ListReservationsForUnit(ctx context.Context, unitID string) ([]persistence.Reservation, error) {
	rows, err := r.db.db.QueryContext(ctx, `
		SELECT id, unit_id, guest_label, check_in_raw, check_out_raw, status, total_amount, reference_id, created_at, updated_at
		FROM reservations WHERE unit_id = ? ORDER BY created_at, id`, unitID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	reservations := make([]persistence.Reservation, 0)
	for rows.Next() {
		reservation, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		reservations = append(reservations, reservation)
	}
	return reservations, mapError(rows.Err())
}

// DeleteReservation removes a reservation.
func (r *ReservationRepository) DeleteReservation(ctx context.Context, id string) error {
	result, err := r.db.db.ExecContext(ctx, `DELETE FROM reservations WHERE id = ?`, id)
	if err != nil {
		return mapError(err)
	}
	return requireRow(result)
}

func scanReservation(row rowScanner) (persistence.Reservation, error) {
	var reservation persistence.Reservation
	var createdAt, updatedAt string
	if err := row.Scan(
		&reservation.ID,
		&reservation.UnitID,
		&reservation.GuestLabel,
		&reservation.CheckInRaw,
		&reservation.CheckOutRaw,
		&reservation.Status,
		&reservation.TotalAmount,
		&reservation.ReferenceID,
		&createdAt,
		&updatedAt,
	); err != nil {
		return persistence.Reservation{}, mapError(err)
	}
	reservation.CreatedAt = parseTime(createdAt)
	reservation.UpdatedAt = parseTime(updatedAt)
	return reservation, nil
}
