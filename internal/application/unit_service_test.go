package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/staybook/internal/persistence"
	"github.com/example/staybook/internal/testfixtures"
)

type unitRepoStub struct {
	createErr error
	created   persistence.Unit

	getUnit persistence.Unit
	getErr  error

	updateErr error
	updated   persistence.Unit

	deleteErr error
	deletedID string

	list    []persistence.Unit
	listErr error
}

func (r *unitRepoStub) CreateUnit(ctx context.Context, unit persistence.Unit) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.created = unit
	return nil
}

func (r *unitRepoStub) UpdateUnit(ctx context.Context, unit persistence.Unit) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	r.updated = unit
	return nil
}

func (r *unitRepoStub) GetUnit(ctx context.Context, id string) (persistence.Unit, error) {
	if r.getErr != nil {
		return persistence.Unit{}, r.getErr
	}
	if r.getUnit.ID == "" {
		return persistence.Unit{}, persistence.ErrNotFound
	}
	return r.getUnit, nil
}

func (r *unitRepoStub) ListUnits(ctx context.Context) ([]persistence.Unit, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	out := make([]persistence.Unit, len(r.list))
	copy(out, r.list)
	return out, nil
}

func (r *unitRepoStub) DeleteUnit(ctx context.Context, id string) error {
	if r.deleteErr != nil {
		return r.deleteErr
	}
	r.deletedID = id
	return nil
}

func TestUnitService_CreateUnit(t *testing.T) {
	t.Run("requires administrator privileges", func(t *testing.T) {
		svc := NewUnitService(&unitRepoStub{}, nil, nil)

		_, err := svc.CreateUnit(context.Background(), CreateUnitParams{
			Principal: Principal{AccountID: "account-1", IsAdmin: false},
			Input:     UnitInput{Title: "Seaside Loft"},
		})

		if !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
	})

	t.Run("validates required attributes", func(t *testing.T) {
		svc := NewUnitService(&unitRepoStub{}, nil, nil)

		_, err := svc.CreateUnit(context.Background(), CreateUnitParams{
			Principal: Principal{AccountID: "account-1", IsAdmin: true},
			Input:     UnitInput{Title: "   ", BasePrice: -1},
		})

		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		if _, ok := vErr.FieldErrors["title"]; !ok {
			t.Fatalf("expected title validation error, got %v", vErr.FieldErrors)
		}
		if _, ok := vErr.FieldErrors["base_price"]; !ok {
			t.Fatalf("expected base_price validation error, got %v", vErr.FieldErrors)
		}
	})

	t.Run("persists units for administrators", func(t *testing.T) {
		repo := &unitRepoStub{}
		clock := testfixtures.NewClock(testfixtures.ReferenceTime())
		svc := NewUnitService(repo, func() string { return "unit-1" }, clock.NowFunc())

		created, err := svc.CreateUnit(context.Background(), CreateUnitParams{
			Principal: Principal{AccountID: "account-1", IsAdmin: true},
			Input:     UnitInput{Title: "  Seaside Loft  ", Location: "  Sentosa  ", BasePrice: 180},
		})
		if err != nil {
			t.Fatalf("expected success, got %v", err)
		}

		if repo.created.ID != "unit-1" {
			t.Fatalf("expected repository to receive generated ID, got %q", repo.created.ID)
		}
		if repo.created.Title != "Seaside Loft" {
			t.Fatalf("expected title to be trimmed, got %q", repo.created.Title)
		}
		if repo.created.Location != "Sentosa" {
			t.Fatalf("expected location to be trimmed, got %q", repo.created.Location)
		}
		if !repo.created.CreatedAt.Equal(clock.Now()) {
			t.Fatalf("expected creation timestamp %v, got %v", clock.Now(), repo.created.CreatedAt)
		}
		if created.ID != "unit-1" {
			t.Fatalf("expected returned unit to carry the ID, got %q", created.ID)
		}
	})

	t.Run("maps duplicate errors", func(t *testing.T) {
		repo := &unitRepoStub{createErr: persistence.ErrDuplicate}
		svc := NewUnitService(repo, func() string { return "unit-1" }, nil)

		_, err := svc.CreateUnit(context.Background(), CreateUnitParams{
			Principal: Principal{AccountID: "account-1", IsAdmin: true},
			Input:     UnitInput{Title: "Seaside Loft"},
		})

		if !errors.Is(err, ErrAlreadyExists) {
			t.Fatalf("expected ErrAlreadyExists, got %v", err)
		}
	})
}

func TestUnitService_UpdateUnit(t *testing.T) {
	t.Run("returns not found for unknown units", func(t *testing.T) {
		svc := NewUnitService(&unitRepoStub{}, nil, nil)

		_, err := svc.UpdateUnit(context.Background(), UpdateUnitParams{
			Principal: Principal{AccountID: "account-1", IsAdmin: true},
			UnitID:    "missing",
			Input:     UnitInput{Title: "Seaside Loft"},
		})

		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("rewrites fields and refreshes the timestamp", func(t *testing.T) {
		existing := testfixtures.Unit(1)
		repo := &unitRepoStub{getUnit: existing}
		clock := testfixtures.NewClock(existing.CreatedAt.Add(48 * time.Hour))
		svc := NewUnitService(repo, nil, clock.NowFunc())

		updated, err := svc.UpdateUnit(context.Background(), UpdateUnitParams{
			Principal: Principal{AccountID: "account-1", IsAdmin: true},
			UnitID:    existing.ID,
			Input:     UnitInput{Title: "Harbour Loft", Location: "Keppel", BasePrice: 220},
		})
		if err != nil {
			t.Fatalf("expected success, got %v", err)
		}

		if repo.updated.Title != "Harbour Loft" {
			t.Fatalf("expected title rewrite, got %q", repo.updated.Title)
		}
		if !repo.updated.UpdatedAt.Equal(clock.Now()) {
			t.Fatalf("expected refreshed timestamp, got %v", repo.updated.UpdatedAt)
		}
		if !repo.updated.CreatedAt.Equal(existing.CreatedAt) {
			t.Fatalf("expected creation timestamp preserved, got %v", repo.updated.CreatedAt)
		}
		if updated.BasePrice != 220 {
			t.Fatalf("expected returned unit to carry new price, got %v", updated.BasePrice)
		}
	})
}

func TestUnitService_DeleteUnit(t *testing.T) {
	t.Run("requires administrator privileges", func(t *testing.T) {
		svc := NewUnitService(&unitRepoStub{}, nil, nil)

		err := svc.DeleteUnit(context.Background(), Principal{AccountID: "account-1"}, "unit-1")
		if !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
	})

	t.Run("forwards deletion to the repository", func(t *testing.T) {
		repo := &unitRepoStub{}
		svc := NewUnitService(repo, nil, nil)

		err := svc.DeleteUnit(context.Background(), Principal{AccountID: "account-1", IsAdmin: true}, "unit-1")
		if err != nil {
			t.Fatalf("expected success, got %v", err)
		}
		if repo.deletedID != "unit-1" {
			t.Fatalf("expected delete for unit-1, got %q", repo.deletedID)
		}
	})
}

func TestUnitService_ListUnits(t *testing.T) {
	t.Run("sorts by title with ID as tie break", func(t *testing.T) {
		first := testfixtures.Unit(1)
		first.Title = "Bayview Studio"
		second := testfixtures.Unit(2)
		second.Title = "atrium suite"
		third := testfixtures.Unit(3)
		third.Title = "Atrium Suite"
		repo := &unitRepoStub{list: []persistence.Unit{first, second, third}}
		svc := NewUnitService(repo, nil, nil)

		units, err := svc.ListUnits(context.Background(), Principal{AccountID: "account-1"})
		if err != nil {
			t.Fatalf("expected success, got %v", err)
		}

		if len(units) != 3 {
			t.Fatalf("expected 3 units, got %d", len(units))
		}
		if units[0].ID != second.ID || units[1].ID != third.ID || units[2].ID != first.ID {
			t.Fatalf("unexpected order: %s, %s, %s", units[0].ID, units[1].ID, units[2].ID)
		}
	})
}
