package application

import (
	"time"

	"github.com/example/staybook/internal/availability"
	"github.com/example/staybook/internal/calendar"
	"github.com/example/staybook/internal/persistence"
)

// Principal represents the authenticated account invoking a service method.
type Principal struct {
	AccountID string
	IsAdmin   bool
}

// Unit represents a rental unit as exposed to callers.
type Unit struct {
	ID        string
	Title     string
	Location  string
	BasePrice float64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// UnitInput captures caller provided unit fields.
type UnitInput struct {
	Title     string
	Location  string
	BasePrice float64
}

// CreateUnitParams wraps the data required to create a unit.
type CreateUnitParams struct {
	Principal Principal
	Input     UnitInput
}

// UpdateUnitParams wraps the data required to update an existing unit.
type UpdateUnitParams struct {
	Principal Principal
	UnitID    string
	Input     UnitInput
}

// Reservation represents a persisted booking. Check-in and check-out keep
// their raw stored encodings; the calendar normalizer interprets them.
type Reservation struct {
	ID          string
	UnitID      string
	GuestLabel  string
	CheckIn     string
	CheckOut    string
	Status      string
	TotalAmount float64
	ReferenceID string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ReservationInput captures caller provided reservation fields.
type ReservationInput struct {
	GuestLabel  string
	CheckIn     string
	CheckOut    string
	Status      string
	TotalAmount float64
	ReferenceID string
}

// CreateReservationParams wraps the data required to create a reservation.
type CreateReservationParams struct {
	Principal Principal
	UnitID    string
	Input     ReservationInput
}

// UpdateReservationParams wraps the data required to update an existing reservation.
type UpdateReservationParams struct {
	Principal     Principal
	ReservationID string
	Input         ReservationInput
}

// OverlapWarning surfaces a double-booked relation detected during intake.
// Overlaps warn rather than reject; hosts sometimes hold intentional
// double-bookings while a guest decision is pending.
type OverlapWarning struct {
	WithReservationID string
	CheckIn           time.Time
	CheckOut          time.Time
}

// ReservationResult pairs a persisted reservation with any overlap warnings
// raised against the unit's existing stays.
type ReservationResult struct {
	Reservation Reservation
	Warnings    []OverlapWarning
}

// Account represents a host account as exposed to callers.
type Account struct {
	ID          string
	Email       string
	DisplayName string
	IsAdmin     bool
	Disabled    bool
}

// Session represents an issued authentication session.
type Session struct {
	ID        string
	AccountID string
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
	RevokedAt *time.Time
}

// AuthenticateParams wraps a credential pair presented for login.
type AuthenticateParams struct {
	Email    string
	Password string
}

// AuthenticateResult carries the authenticated account and its new session.
type AuthenticateResult struct {
	Account Account
	Session Session
}

// BlockRuleInput captures caller provided recurring block fields.
type BlockRuleInput struct {
	Label     string
	Frequency int
	Weekdays  []time.Weekday
	StartsOn  string
	EndsOn    string
}

// CreateBlockRuleParams wraps the data required to create a block rule.
type CreateBlockRuleParams struct {
	Principal Principal
	UnitID    string
	Input     BlockRuleInput
}

// BlockRule represents a persisted recurring blocked period.
type BlockRule struct {
	ID        string
	UnitID    string
	Label     string
	Frequency int
	Weekdays  []time.Weekday
	StartsOn  time.Time
	EndsOn    *time.Time
}

func unitFromRecord(record persistence.Unit) Unit {
	return Unit{
		ID:        record.ID,
		Title:     record.Title,
		Location:  record.Location,
		BasePrice: record.BasePrice,
		CreatedAt: record.CreatedAt,
		UpdatedAt: record.UpdatedAt,
	}
}

func reservationFromRecord(record persistence.Reservation) Reservation {
	return Reservation{
		ID:          record.ID,
		UnitID:      record.UnitID,
		GuestLabel:  record.GuestLabel,
		CheckIn:     record.CheckInRaw,
		CheckOut:    record.CheckOutRaw,
		Status:      record.Status,
		TotalAmount: record.TotalAmount,
		ReferenceID: record.ReferenceID,
		CreatedAt:   record.CreatedAt,
		UpdatedAt:   record.UpdatedAt,
	}
}

func accountFromRecord(record persistence.Account) Account {
	return Account{
		ID:          record.ID,
		Email:       record.Email,
		DisplayName: record.DisplayName,
		IsAdmin:     record.IsAdmin,
		Disabled:    record.Disabled,
	}
}

func sessionFromRecord(record persistence.Session) Session {
	return Session{
		ID:        record.ID,
		AccountID: record.AccountID,
		Token:     record.Token,
		ExpiresAt: record.ExpiresAt,
		CreatedAt: record.CreatedAt,
		RevokedAt: record.RevokedAt,
	}
}

func blockRuleFromRecord(record persistence.BlockRule) BlockRule {
	return BlockRule{
		ID:        record.ID,
		UnitID:    record.UnitID,
		Label:     record.Label,
		Frequency: record.Frequency,
		Weekdays:  record.Weekdays,
		StartsOn:  record.StartsOn,
		EndsOn:    record.EndsOn,
	}
}

// intervalFromRecord projects a stored reservation into the calendar engine's
// immutable interval form.
func intervalFromRecord(record persistence.Reservation, normalizer *calendar.Normalizer) calendar.ReservationInterval {
	return calendar.ReservationInterval{
		CheckIn:     normalizer.InstantOf(record.CheckInRaw),
		CheckOut:    normalizer.InstantOf(record.CheckOutRaw),
		Status:      calendar.ParseStatus(record.Status),
		GuestLabel:  record.GuestLabel,
		TotalAmount: record.TotalAmount,
		ReferenceID: record.ReferenceID,
	}
}

// stayFromRecord projects a stored reservation into the overlap detector's
// minimal form.
func stayFromRecord(record persistence.Reservation, normalizer *calendar.Normalizer) availability.Stay {
	return availability.Stay{
		ReservationID: record.ID,
		UnitID:        record.UnitID,
		Status:        record.Status,
		CheckIn:       normalizer.DateOf(record.CheckInRaw),
		CheckOut:      normalizer.DateOf(record.CheckOutRaw),
	}
}
