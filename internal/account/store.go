package account

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrNotFound is returned when no account matches the lookup key.
var ErrNotFound = errors.New("account: not found")

// ErrDuplicateEmail is returned by Create when the email is already claimed.
var ErrDuplicateEmail = errors.New("account: email already registered")

// Store is the credential store contract.
type Store interface {
	// FindByEmail returns the account owning the email, or ErrNotFound.
	FindByEmail(ctx context.Context, email string) (*Account, error)

	// FindByID returns the account with the given id, or ErrNotFound.
	FindByID(ctx context.Context, id uuid.UUID) (*Account, error)

	// Create persists a new account. Returns ErrDuplicateEmail when the
	// email is already claimed by any provider.
	Create(ctx context.Context, a *Account) error

	// Save persists changes to an existing account.
	Save(ctx context.Context, a *Account) error

	// SetPassword hashes the plaintext and persists it on the account.
	SetPassword(ctx context.Context, a *Account, plaintext string) error
}
