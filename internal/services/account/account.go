// Package account implements registration and login on top of the
// accounts repo.
package account

import (
	"context"
	"crypto/subtle"
	"database/sql"
	"errors"
	"fmt"

	"github.com/goldspin/goldspin/internal/repos/accounts"
	pgaccounts "github.com/goldspin/goldspin/internal/repos/accounts/postgres"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

type Service struct {
	accounts accounts.Accounts
}

func New(db *sql.DB) *Service {
	return &Service{accounts: pgaccounts.New(db)}
}

// Register creates an account with zero balance and an empty ledger.
// A case-sensitive username collision yields accounts.ErrUsernameTaken;
// the unique index guarantees no partial state survives the failure.
func (s *Service) Register(ctx context.Context, username, password string) (*accounts.Account, error) {
	acc, err := s.accounts.Create(ctx, username, password)
	if err != nil {
		return nil, fmt.Errorf("create account: %w", err)
	}

	return acc, nil
}

// Login checks the credential pair with an exact match on the stored
// secret. Secrets are stored verbatim and the admin listing displays
// them, so hashing here would change observable behavior.
func (s *Service) Login(ctx context.Context, username, password string) (*accounts.Account, error) {
	acc, err := s.accounts.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, accounts.ErrAccountNotFound) {
			return nil, ErrInvalidCredentials
		}

		return nil, fmt.Errorf("get account: %w", err)
	}

	if subtle.ConstantTimeCompare([]byte(acc.Secret), []byte(password)) != 1 {
		return nil, ErrInvalidCredentials
	}

	return acc, nil
}
