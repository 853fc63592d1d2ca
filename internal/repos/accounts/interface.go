package accounts

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

var (
	ErrAccountNotFound   = errors.New("account not found")
	ErrUsernameTaken     = errors.New("username taken")
	ErrInsufficientFunds = errors.New("insufficient funds")
)

// Account is a player row. Secret is the credential stored verbatim;
// login compares it as-is and the admin listing displays it.
type Account struct {
	ID        int64
	Username  string
	Secret    string
	Balance   int64
	CreatedAt time.Time
}

type Accounts interface {
	// Create inserts an account with zero balance.
	// A case-sensitive username collision yields ErrUsernameTaken.
	Create(ctx context.Context, username, secret string) (*Account, error)
	GetByUsername(ctx context.Context, username string) (*Account, error)
	// List returns accounts newest-first; a non-empty search filters
	// by case-insensitive username substring.
	List(ctx context.Context, search string) ([]Account, error)

	GetBalance(ctx context.Context, accountID int64) (int64, error)
	// LockAndGetBalance takes the per-account row lock that serializes
	// every balance mutation (FOR UPDATE).
	LockAndGetBalance(tx *sql.Tx, accountID int64) (int64, error)
	IncreaseBalance(tx *sql.Tx, accountID int64, amount int64) error
	// DecreaseBalance fails with ErrInsufficientFunds instead of
	// driving the balance negative.
	DecreaseBalance(tx *sql.Tx, accountID int64, amount int64) error
}
