package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/staybook/internal/persistence"
	"github.com/example/staybook/internal/testfixtures"
)

type accountRepoStub struct {
	account persistence.Account
	getErr  error
}

func (r *accountRepoStub) GetAccount(ctx context.Context, id string) (persistence.Account, error) {
	if r.getErr != nil {
		return persistence.Account{}, r.getErr
	}
	if r.account.ID == "" || r.account.ID != id {
		return persistence.Account{}, persistence.ErrNotFound
	}
	return r.account, nil
}

func (r *accountRepoStub) GetAccountByEmail(ctx context.Context, email string) (persistence.Account, error) {
	if r.getErr != nil {
		return persistence.Account{}, r.getErr
	}
	if r.account.ID == "" || r.account.Email != email {
		return persistence.Account{}, persistence.ErrNotFound
	}
	return r.account, nil
}

type sessionRepoStub struct {
	created   persistence.Session
	createErr error

	session persistence.Session
	getErr  error

	revokedToken string
	revokeErr    error

	pruned   int64
	pruneErr error
}

func (r *sessionRepoStub) CreateSession(ctx context.Context, session persistence.Session) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.created = session
	return nil
}

func (r *sessionRepoStub) GetSessionByToken(ctx context.Context, token string) (persistence.Session, error) {
	if r.getErr != nil {
		return persistence.Session{}, r.getErr
	}
	if r.session.Token == "" || r.session.Token != token {
		return persistence.Session{}, persistence.ErrNotFound
	}
	return r.session, nil
}

func (r *sessionRepoStub) RevokeSession(ctx context.Context, token string, at time.Time) error {
	if r.revokeErr != nil {
		return r.revokeErr
	}
	r.revokedToken = token
	return nil
}

func (r *sessionRepoStub) DeleteExpiredSessions(ctx context.Context, cutoff time.Time) (int64, error) {
	if r.pruneErr != nil {
		return 0, r.pruneErr
	}
	return r.pruned, nil
}

// passwordMatches builds a verifier accepting exactly one password.
func passwordMatches(expected string) PasswordVerifier {
	return func(hashedPassword, password string) error {
		if password == expected {
			return nil
		}
		return ErrInvalidCredentials
	}
}

func TestAuthService_Authenticate(t *testing.T) {
	account := testfixtures.Account(1)
	clock := testfixtures.NewClock(testfixtures.ReferenceTime())

	t.Run("rejects empty credentials", func(t *testing.T) {
		svc := NewAuthService(&accountRepoStub{}, &sessionRepoStub{}, nil, nil, nil, 0)

		_, err := svc.Authenticate(context.Background(), AuthenticateParams{Email: "", Password: ""})
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("hides unknown accounts behind invalid credentials", func(t *testing.T) {
		svc := NewAuthService(&accountRepoStub{}, &sessionRepoStub{}, passwordMatches("secret"), nil, nil, 0)

		_, err := svc.Authenticate(context.Background(), AuthenticateParams{Email: "nobody@example.com", Password: "secret"})
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("rejects disabled accounts", func(t *testing.T) {
		disabled := account
		disabled.Disabled = true
		svc := NewAuthService(&accountRepoStub{account: disabled}, &sessionRepoStub{}, passwordMatches("secret"), nil, nil, 0)

		_, err := svc.Authenticate(context.Background(), AuthenticateParams{Email: account.Email, Password: "secret"})
		if !errors.Is(err, ErrAccountDisabled) {
			t.Fatalf("expected ErrAccountDisabled, got %v", err)
		}
	})

	t.Run("rejects wrong passwords", func(t *testing.T) {
		svc := NewAuthService(&accountRepoStub{account: account}, &sessionRepoStub{}, passwordMatches("secret"), nil, nil, 0)

		_, err := svc.Authenticate(context.Background(), AuthenticateParams{Email: account.Email, Password: "wrong"})
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("normalises the email before lookup", func(t *testing.T) {
		sessions := &sessionRepoStub{}
		svc := NewAuthService(&accountRepoStub{account: account}, sessions, passwordMatches("secret"), func() string { return "token-1" }, clock.NowFunc(), time.Hour)

		result, err := svc.Authenticate(context.Background(), AuthenticateParams{Email: "  HOST1@Example.COM  ", Password: "secret"})
		if err != nil {
			t.Fatalf("expected success, got %v", err)
		}
		if result.Account.ID != account.ID {
			t.Fatalf("expected account %s, got %s", account.ID, result.Account.ID)
		}
	})

	t.Run("issues a session with the configured TTL", func(t *testing.T) {
		sessions := &sessionRepoStub{}
		svc := NewAuthService(&accountRepoStub{account: account}, sessions, passwordMatches("secret"), func() string { return "token-1" }, clock.NowFunc(), 2*time.Hour)

		result, err := svc.Authenticate(context.Background(), AuthenticateParams{Email: account.Email, Password: "secret"})
		if err != nil {
			t.Fatalf("expected success, got %v", err)
		}

		if sessions.created.AccountID != account.ID {
			t.Fatalf("expected session for %s, got %s", account.ID, sessions.created.AccountID)
		}
		wantExpiry := clock.Now().Add(2 * time.Hour)
		if !sessions.created.ExpiresAt.Equal(wantExpiry) {
			t.Fatalf("expected expiry %v, got %v", wantExpiry, sessions.created.ExpiresAt)
		}
		if result.Session.Token == "" {
			t.Fatalf("expected a session token in the result")
		}
	})
}

func TestAuthService_ValidateSession(t *testing.T) {
	account := testfixtures.Account(1)
	clock := testfixtures.NewClock(testfixtures.ReferenceTime())

	activeSession := func() persistence.Session {
		return persistence.Session{
			ID:        "session-1",
			AccountID: account.ID,
			Token:     "token-1",
			CreatedAt: clock.Now(),
			ExpiresAt: clock.Now().Add(time.Hour),
		}
	}

	t.Run("returns the principal for an active session", func(t *testing.T) {
		admin := account
		admin.IsAdmin = true
		svc := NewAuthService(&accountRepoStub{account: admin}, &sessionRepoStub{session: activeSession()}, nil, nil, clock.NowFunc(), 0)

		principal, err := svc.ValidateSession(context.Background(), "token-1")
		if err != nil {
			t.Fatalf("expected success, got %v", err)
		}
		if principal.AccountID != account.ID || !principal.IsAdmin {
			t.Fatalf("unexpected principal %+v", principal)
		}
	})

	t.Run("rejects unknown tokens", func(t *testing.T) {
		svc := NewAuthService(&accountRepoStub{account: account}, &sessionRepoStub{}, nil, nil, clock.NowFunc(), 0)

		_, err := svc.ValidateSession(context.Background(), "missing")
		if !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
	})

	t.Run("rejects expired sessions", func(t *testing.T) {
		expired := activeSession()
		expired.ExpiresAt = clock.Now().Add(-time.Minute)
		svc := NewAuthService(&accountRepoStub{account: account}, &sessionRepoStub{session: expired}, nil, nil, clock.NowFunc(), 0)

		_, err := svc.ValidateSession(context.Background(), "token-1")
		if !errors.Is(err, ErrSessionExpired) {
			t.Fatalf("expected ErrSessionExpired, got %v", err)
		}
	})

	t.Run("rejects revoked sessions", func(t *testing.T) {
		revoked := activeSession()
		at := clock.Now().Add(-time.Minute)
		revoked.RevokedAt = &at
		svc := NewAuthService(&accountRepoStub{account: account}, &sessionRepoStub{session: revoked}, nil, nil, clock.NowFunc(), 0)

		_, err := svc.ValidateSession(context.Background(), "token-1")
		if !errors.Is(err, ErrSessionRevoked) {
			t.Fatalf("expected ErrSessionRevoked, got %v", err)
		}
	})

	t.Run("rejects sessions of disabled accounts", func(t *testing.T) {
		disabled := account
		disabled.Disabled = true
		svc := NewAuthService(&accountRepoStub{account: disabled}, &sessionRepoStub{session: activeSession()}, nil, nil, clock.NowFunc(), 0)

		_, err := svc.ValidateSession(context.Background(), "token-1")
		if !errors.Is(err, ErrAccountDisabled) {
			t.Fatalf("expected ErrAccountDisabled, got %v", err)
		}
	})
}

func TestAuthService_RevokeSession(t *testing.T) {
	t.Run("maps unknown tokens to invalid credentials", func(t *testing.T) {
		sessions := &sessionRepoStub{revokeErr: persistence.ErrNotFound}
		svc := NewAuthService(&accountRepoStub{}, sessions, nil, nil, nil, 0)

		err := svc.RevokeSession(context.Background(), "missing")
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("revokes the presented token", func(t *testing.T) {
		sessions := &sessionRepoStub{}
		svc := NewAuthService(&accountRepoStub{}, sessions, nil, nil, nil, 0)

		if err := svc.RevokeSession(context.Background(), "  token-1  "); err != nil {
			t.Fatalf("expected success, got %v", err)
		}
		if sessions.revokedToken != "token-1" {
			t.Fatalf("expected trimmed token, got %q", sessions.revokedToken)
		}
	})
}

func TestAuthService_PruneExpiredSessions(t *testing.T) {
	sessions := &sessionRepoStub{pruned: 3}
	svc := NewAuthService(&accountRepoStub{}, sessions, nil, nil, nil, 0)

	pruned, err := svc.PruneExpiredSessions(context.Background())
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if pruned != 3 {
		t.Fatalf("expected 3 pruned sessions, got %d", pruned)
	}
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := CreatePasswordHash("correct horse battery staple", DefaultArgon2idParams)
	if err != nil {
		t.Fatalf("expected hash creation to succeed, got %v", err)
	}

	if err := VerifyPassword(hash, "correct horse battery staple"); err != nil {
		t.Fatalf("expected matching password to verify, got %v", err)
	}
	if err := VerifyPassword(hash, "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for wrong password, got %v", err)
	}
	if err := VerifyPassword("not a hash", "anything"); !errors.Is(err, ErrInvalidPasswordHash) {
		t.Fatalf("expected ErrInvalidPasswordHash, got %v", err)
	}
}
