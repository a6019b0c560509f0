package persistence

import "time"

// Account represents a host account able to manage units and reservations.
type Account struct {
	ID           string
	Email        string
	DisplayName  string
	PasswordHash string
	IsAdmin      bool
	Disabled     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Unit represents a rental unit catalog entry.
type Unit struct {
	ID        string
	Title     string
	Location  string
	BasePrice float64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Reservation represents one booking stored against a unit. Check-in and
// check-out keep their raw stored representations: the calendar engine's
// normalizer needs the original encoding to detect placeholder timestamps.
type Reservation struct {
	ID          string
	UnitID      string
	GuestLabel  string
	CheckInRaw  string
	CheckOutRaw string
	Status      string
	TotalAmount float64
	ReferenceID string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// BlockRule represents a recurring blocked period configured for a unit.
type BlockRule struct {
	ID        string
	UnitID    string
	Label     string
	Frequency int
	Weekdays  []time.Weekday
	StartsOn  time.Time
	EndsOn    *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Session represents an authentication session persisted for an account.
type Session struct {
	ID        string
	AccountID string
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
	RevokedAt *time.Time
}
