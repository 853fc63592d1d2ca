package transactions

import (
	"context"
	"database/sql"
	"time"
)

// Kind classifies a ledger entry. The set is closed; anything else is
// a programming error upstream.
type Kind string

const (
	KindWin        Kind = "win"
	KindLoss       Kind = "loss"
	KindDeposit    Kind = "deposit"
	KindWithdrawal Kind = "withdrawal"
	KindPvPWin     Kind = "pvp_win"
	KindPvPLoss    Kind = "pvp_loss"
)

// Transaction is one append-only ledger entry. Amount is the signed
// balance delta; the sum of a player's amounts equals their balance.
type Transaction struct {
	ID          string
	AccountID   int64
	Kind        Kind
	Amount      int64
	Description string
	CreatedAt   time.Time
}

type Transactions interface {
	// Insert appends an entry inside the same transaction that moves
	// the balance, so neither can land without the other.
	Insert(tx *sql.Tx, t Transaction) error
	// ListByAccount returns the newest entries first.
	ListByAccount(ctx context.Context, accountID int64, limit int) ([]Transaction, error)
	// SumByAccount returns the sum of all entry amounts for an account.
	SumByAccount(ctx context.Context, accountID int64) (int64, error)
}
