package bets

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// ErrBetNotFound covers both unknown ids and bets that are no longer
// open: a racing acceptor observes the same error either way.
var ErrBetNotFound = errors.New("bet not found")

type Status string

const (
	StatusOpen      Status = "open"
	StatusSettled   Status = "settled"
	StatusWithdrawn Status = "withdrawn"
)

// Bet is a PvP wager row. Opponent and winner columns stay NULL until
// settlement.
type Bet struct {
	ID        string
	CreatorID int64
	Amount    int64
	Status    Status
	CreatedAt time.Time
}

// OpenBet is the listing view of an open bet, with the creator's
// username joined in.
type OpenBet struct {
	ID          string
	CreatorID   int64
	CreatorName string
	Amount      int64
	CreatedAt   time.Time
}

type Bets interface {
	Insert(ctx context.Context, b Bet) error
	// ListOpen returns open bets newest-first.
	ListOpen(ctx context.Context) ([]OpenBet, error)
	// LockOpen claims the bet row with FOR UPDATE, but only while its
	// status is still open. A concurrent settler blocks on the row
	// lock and then sees ErrBetNotFound once the predicate re-check
	// fails, so a bet can be consumed exactly once.
	LockOpen(tx *sql.Tx, betID string) (*OpenBet, error)
	MarkSettled(tx *sql.Tx, betID string, opponentID, opponentAmount, winnerID int64) error
	MarkWithdrawn(tx *sql.Tx, betID string) error
}
