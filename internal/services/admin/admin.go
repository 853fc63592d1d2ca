// Package admin implements the operator console: account inspection
// and the /п balance-adjustment command mini-language.
package admin

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goldspin/goldspin/internal/infra/metrics"
	"github.com/goldspin/goldspin/internal/repos/accounts"
	pgaccounts "github.com/goldspin/goldspin/internal/repos/accounts/postgres"
	"github.com/goldspin/goldspin/internal/repos/transactions"
	"github.com/goldspin/goldspin/internal/services/ledger"
)

var ErrMalformedCommand = errors.New("malformed admin command")

// Grammar: /п <username> (+|-)<integer>. The Cyrillic literal is the
// operator-facing command name; it is not a typo.
var commandRe = regexp.MustCompile(`^/п\s+(\S+)\s+([+-])(\d+)$`)

type Service struct {
	accounts accounts.Accounts
	ledger   *ledger.Service
}

func New(db *sql.DB, l *ledger.Service) *Service {
	return &Service{accounts: pgaccounts.New(db), ledger: l}
}

// CommandResult reports what an admin command actually did. Applied
// may be smaller in magnitude than Requested when the zero floor
// clamps a withdrawal.
type CommandResult struct {
	AccountID  int64
	Username   string
	Kind       transactions.Kind
	Requested  int64
	Applied    int64
	NewBalance int64
}

// ApplyCommand parses and executes one admin command. This is the only
// path allowed to clamp a balance to zero instead of rejecting the
// operation; it records the effective (clamped) delta so the ledger
// keeps summing to the balance.
func (s *Service) ApplyCommand(ctx context.Context, command string) (*CommandResult, error) {
	m := commandRe.FindStringSubmatch(command)
	if m == nil {
		return nil, ErrMalformedCommand
	}

	username := m[1]

	amount, err := strconv.ParseInt(m[3], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: amount out of range", ErrMalformedCommand)
	}

	delta := amount
	kind := transactions.KindDeposit
	description := "Admin deposit"
	if m[2] == "-" {
		delta = -amount
		kind = transactions.KindWithdrawal
		description = "Admin withdrawal"
	}

	acc, err := s.accounts.GetByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("resolve username: %w", err)
	}

	newBalance, applied, err := s.ledger.AdminAdjust(ctx, acc.ID, delta, kind, description)
	if err != nil {
		return nil, fmt.Errorf("adjust balance: %w", err)
	}

	metrics.AdminAdjustmentsTotal.Inc()

	return &CommandResult{
		AccountID:  acc.ID,
		Username:   username,
		Kind:       kind,
		Requested:  delta,
		Applied:    applied,
		NewBalance: newBalance,
	}, nil
}

// ListAccounts returns all accounts newest-first, optionally filtered
// by a case-insensitive username substring. Read path only.
func (s *Service) ListAccounts(ctx context.Context, search string) ([]accounts.Account, error) {
	list, err := s.accounts.List(ctx, search)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}

	return list, nil
}
