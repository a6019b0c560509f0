// Package testfixtures provides deterministic collaborators and canned
// records shared across the package-level test suites.
package testfixtures

import (
	"fmt"

	"github.com/example/staybook/internal/persistence"
)

// Unit returns a canned rental unit with the given suffix applied to its
// identifying fields.
func Unit(n int) persistence.Unit {
	now := ReferenceTime()
	return persistence.Unit{
		ID:        fmt.Sprintf("unit-%d", n),
		Title:     fmt.Sprintf("Seaside Loft %d", n),
		Location:  "Sentosa",
		BasePrice: 180,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Reservation returns a canned reservation for the given unit covering a
// three-night stay in mid-June 2025. The check-out carries an explicit noon
// time while the check-in relies on default substitution.
func Reservation(n int, unitID string) persistence.Reservation {
	now := ReferenceTime()
	return persistence.Reservation{
		ID:          fmt.Sprintf("reservation-%d", n),
		UnitID:      unitID,
		GuestLabel:  fmt.Sprintf("Guest %d", n),
		CheckInRaw:  "2025-06-10",
		CheckOutRaw: "2025-06-13T12:00:00",
		Status:      "booked",
		TotalAmount: 540,
		ReferenceID: fmt.Sprintf("BK-%04d", n),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Account returns a canned host account. The password hash is intentionally
// empty; auth tests install their own.
func Account(n int) persistence.Account {
	now := ReferenceTime()
	return persistence.Account{
		ID:          fmt.Sprintf("account-%d", n),
		Email:       fmt.Sprintf("host%d@example.com", n),
		DisplayName: fmt.Sprintf("Host %d", n),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
