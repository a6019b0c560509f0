package sqlite

import (
	"context"

	"github.com/example/staybook/internal/persistence"
)

// AccountRepository persists host accounts.
type AccountRepository struct {
	db *DB
}

// NewAccountRepository builds a repository over the shared handle.
func NewAccountRepository(db *DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// CreateAccount inserts a new account.
func (r *AccountRepository) CreateAccount(ctx context.Context, account persistence.Account) error {
	_, err := r.db.db.ExecContext(ctx, `
		INSERT INTO accounts (id, email, display_name, password_hash, is_admin, disabled, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		account.ID,
		account.Email,
		account.DisplayName,
		account.PasswordHash,
		boolToInt(account.IsAdmin),
		boolToInt(account.Disabled),
		formatTime(account.CreatedAt),
		formatTime(account.UpdatedAt),
	)
	return mapError(err)
}

// UpdateAccount updates an existing account.
func (r *AccountRepository) UpdateAccount(ctx context.Context, account persistence.Account) error {
	result, err := r.db.db.ExecContext(ctx, `
		UPDATE accounts
		SET email = ?, display_name = ?, password_hash = ?, is_admin = ?, disabled = ?, updated_at = ?
		WHERE id = ?`,
		account.Email,
		account.DisplayName,
		account.PasswordHash,
		boolToInt(account.IsAdmin),
		boolToInt(account.Disabled),
		formatTime(account.UpdatedAt),
		account.ID,
	)
	if err != nil {
		return mapError(err)
	}
	return requireRow(result)
}

// GetAccount retrieves an account by ID.
func (r *AccountRepository) GetAccount(ctx context.Context, id string) (persistence.Account, error) {
	row := r.db.db.QueryRowContext(ctx, `
		SELECT id, email, display_name, password_hash, is_admin, disabled, created_at, updated_at
		FROM accounts WHERE id = ?`, id)
	return scanAccount(row)
}

// GetAccountByEmail retrieves an account by its (case-insensitive) email.
func (r *AccountRepository) GetAccountByEmail(ctx context.Context, email string) (persistence.Account, error) {
	row := r.db.db.QueryRowContext(ctx, `
		SELECT id, email, display_name, password_hash, is_admin, disabled, created_at, updated_at
		FROM accounts WHERE email = ? COLLATE NOCASE`, email)
	return scanAccount(row)
}

func scanAccount(row rowScanner) (persistence.Account, error) {
	var account persistence.Account
	var isAdmin, disabled int
	var createdAt, updatedAt string
	if err := row.Scan(
		&account.ID,
		&account.Email,
		&account.DisplayName,
		&account.PasswordHash,
		&isAdmin,
		&disabled,
		&createdAt,
		&updatedAt,
	); err != nil {
		return persistence.Account{}, mapError(err)
	}
	account.IsAdmin = isAdmin != 0
	account.Disabled = disabled != 0
	account.CreatedAt = parseTime(createdAt)
	account.UpdatedAt = parseTime(updatedAt)
	return account, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
