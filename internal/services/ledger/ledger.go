// Package ledger is the single owner of balance state. Every mutation
// goes through a row lock on the account and appends exactly one
// transaction entry in the same database transaction.
package ledger

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/goldspin/goldspin/internal/infra/pgutils"
	"github.com/goldspin/goldspin/internal/repos/accounts"
	pgaccounts "github.com/goldspin/goldspin/internal/repos/accounts/postgres"
	"github.com/goldspin/goldspin/internal/repos/transactions"
	pgtransactions "github.com/goldspin/goldspin/internal/repos/transactions/postgres"
)

type Service struct {
	db       *sql.DB
	accounts accounts.Accounts
	txns     transactions.Transactions
}

func New(db *sql.DB) *Service {
	return &Service{
		db:       db,
		accounts: pgaccounts.New(db),
		txns:     pgtransactions.New(db),
	}
}

// Apply atomically moves an account's balance by delta and records the
// matching ledger entry:
//
// 1) Lock the account row (FOR UPDATE).
// 2) Reject with accounts.ErrInsufficientFunds if the delta would
//    drive the balance negative; nothing is written in that case.
// 3) Update the balance and append the entry.
//
// Returns the new balance.
func (s *Service) Apply(ctx context.Context, accountID, delta int64, kind transactions.Kind, description string) (int64, error) {
	var newBalance int64

	err := pgutils.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		var err error

		newBalance, err = s.ApplyTx(tx, accountID, delta, kind, description)

		return err
	})
	if err != nil {
		return 0, fmt.Errorf("apply ledger entry: %w", err)
	}

	return newBalance, nil
}

// ApplyTx is Apply inside a caller-owned transaction. PvP settlement
// uses it to compose both account mutations into one atomic unit.
// Re-locking a row already locked by the same transaction is a no-op,
// so callers may pre-lock accounts in a deterministic order first.
func (s *Service) ApplyTx(tx *sql.Tx, accountID, delta int64, kind transactions.Kind, description string) (int64, error) {
	balance, err := s.accounts.LockAndGetBalance(tx, accountID)
	if err != nil {
		return 0, fmt.Errorf("lock and get balance: %w", err)
	}

	if delta < 0 && balance+delta < 0 {
		return 0, fmt.Errorf("pre-check decrease: %w", accounts.ErrInsufficientFunds)
	}

	err = s.applyDelta(tx, accountID, delta)
	if err != nil {
		return 0, err
	}

	err = s.txns.Insert(tx, transactions.Transaction{
		ID:          uuid.NewString(),
		AccountID:   accountID,
		Kind:        kind,
		Amount:      delta,
		Description: description,
	})
	if err != nil {
		return 0, fmt.Errorf("insert transaction: %w", err)
	}

	return balance + delta, nil
}

// AdminAdjust is the privileged variant: instead of rejecting, it
// clamps the resulting balance at zero and records the effective
// delta, so the ledger still sums to the balance. Kept separate from
// Apply so the invariant-enforcing path stays pure.
func (s *Service) AdminAdjust(ctx context.Context, accountID, delta int64, kind transactions.Kind, description string) (newBalance, effective int64, err error) {
	err = pgutils.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		balance, lerr := s.accounts.LockAndGetBalance(tx, accountID)
		if lerr != nil {
			return fmt.Errorf("lock and get balance: %w", lerr)
		}

		effective = delta
		if balance+delta < 0 {
			effective = -balance // clamp floor to zero
		}

		aerr := s.applyDelta(tx, accountID, effective)
		if aerr != nil {
			return aerr
		}

		aerr = s.txns.Insert(tx, transactions.Transaction{
			ID:          uuid.NewString(),
			AccountID:   accountID,
			Kind:        kind,
			Amount:      effective,
			Description: description,
		})
		if aerr != nil {
			return fmt.Errorf("insert transaction: %w", aerr)
		}

		newBalance = balance + effective

		return nil
	})
	if err != nil {
		return 0, 0, fmt.Errorf("admin adjust: %w", err)
	}

	return newBalance, effective, nil
}

func (s *Service) applyDelta(tx *sql.Tx, accountID, delta int64) error {
	switch {
	case delta > 0:
		err := s.accounts.IncreaseBalance(tx, accountID, delta)
		if err != nil {
			return fmt.Errorf("increase balance: %w", err)
		}
	case delta < 0:
		err := s.accounts.DecreaseBalance(tx, accountID, -delta)
		if err != nil {
			return fmt.Errorf("decrease balance: %w", err)
		}
	}
	// delta == 0: the balance is untouched, only the entry is recorded
	// (an admin withdrawal clamped on an empty account).
	return nil
}

// Balance returns the account's balance (no locks; read path).
func (s *Service) Balance(ctx context.Context, accountID int64) (int64, error) {
	balance, err := s.accounts.GetBalance(ctx, accountID)
	if err != nil {
		return 0, fmt.Errorf("get balance: %w", err)
	}

	return balance, nil
}

// History returns the account's newest ledger entries, most recent
// first.
func (s *Service) History(ctx context.Context, accountID int64, limit int) ([]transactions.Transaction, error) {
	list, err := s.txns.ListByAccount(ctx, accountID, limit)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}

	return list, nil
}
