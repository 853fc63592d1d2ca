// Package pvp maintains the open-bet market and settles matched bets
// with stake-proportional odds. Settlement touches two accounts and
// the bet row in one database transaction; a bet can be consumed
// exactly once.
package pvp

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/rand"
	"sync"

	"github.com/google/uuid"

	"github.com/goldspin/goldspin/internal/infra/metrics"
	"github.com/goldspin/goldspin/internal/infra/pgutils"
	"github.com/goldspin/goldspin/internal/repos/accounts"
	pgaccounts "github.com/goldspin/goldspin/internal/repos/accounts/postgres"
	"github.com/goldspin/goldspin/internal/repos/bets"
	pgbets "github.com/goldspin/goldspin/internal/repos/bets/postgres"
	"github.com/goldspin/goldspin/internal/repos/transactions"
	"github.com/goldspin/goldspin/internal/services/ledger"
)

// MinStake mirrors the engine-wide minimum wager.
const MinStake = 10

var (
	ErrInvalidStake  = errors.New("stake below minimum")
	ErrSelfMatch     = errors.New("cannot accept own bet")
	ErrNotBetCreator = errors.New("only the creator may withdraw a bet")
)

type Service struct {
	db       *sql.DB
	accounts accounts.Accounts
	bets     bets.Bets
	ledger   *ledger.Service

	mu  sync.Mutex // rand.Rand is not safe for concurrent use
	rng *rand.Rand
}

func New(db *sql.DB, l *ledger.Service, rng *rand.Rand) *Service {
	return &Service{
		db:       db,
		accounts: pgaccounts.New(db),
		bets:     pgbets.New(db),
		ledger:   l,
		rng:      rng,
	}
}

// Settlement is the resolved state of a matched bet: two balance
// mutations realized as two ledger entries.
type Settlement struct {
	BetID         string
	CreatorID     int64
	CreatorName   string
	CreatorStake  int64
	AcceptorID    int64
	AcceptorStake int64
	WinnerID      int64
	AcceptorWon   bool
	// AcceptorBalance is the acceptor's balance after settlement.
	AcceptorBalance int64
}

// Create opens a bet. The creator's balance must cover the stake, but
// the stake is only moved at settlement.
func (s *Service) Create(ctx context.Context, creatorID, stake int64) (*bets.Bet, error) {
	if stake < MinStake {
		return nil, ErrInvalidStake
	}

	balance, err := s.accounts.GetBalance(ctx, creatorID)
	if err != nil {
		return nil, fmt.Errorf("check balance: %w", err)
	}
	if balance < stake {
		return nil, accounts.ErrInsufficientFunds
	}

	bet := bets.Bet{
		ID:        uuid.NewString(),
		CreatorID: creatorID,
		Amount:    stake,
		Status:    bets.StatusOpen,
	}

	err = s.bets.Insert(ctx, bet)
	if err != nil {
		return nil, fmt.Errorf("insert bet: %w", err)
	}

	return &bet, nil
}

// ListOpen returns all open bets, newest first.
func (s *Service) ListOpen(ctx context.Context) ([]bets.OpenBet, error) {
	list, err := s.bets.ListOpen(ctx)
	if err != nil {
		return nil, fmt.Errorf("list open bets: %w", err)
	}

	return list, nil
}

// Accept matches an open bet and settles it atomically:
//
// 1) Claim the bet row under FOR UPDATE while it is still open;
//    racing acceptors past the first observe bets.ErrBetNotFound.
// 2) Lock both account rows in ascending id order (two settlements
//    touching the same pair cannot deadlock).
// 3) Check both sides can cover their stake; nothing moves otherwise.
// 4) Draw the winner with probability acceptorStake/pool for the
//    acceptor, credit the winner with the loser's stake, debit the
//    loser by their own stake, and mark the bet settled.
func (s *Service) Accept(ctx context.Context, betID string, acceptorID, stake int64) (*Settlement, error) {
	if stake < MinStake {
		return nil, ErrInvalidStake
	}

	var settlement *Settlement

	err := pgutils.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		bet, err := s.bets.LockOpen(tx, betID)
		if err != nil {
			return fmt.Errorf("claim bet: %w", err)
		}

		if bet.CreatorID == acceptorID {
			return ErrSelfMatch
		}

		creatorBal, acceptorBal, err := s.lockPair(tx, bet.CreatorID, acceptorID)
		if err != nil {
			return err
		}

		if acceptorBal < stake {
			return fmt.Errorf("acceptor stake: %w", accounts.ErrInsufficientFunds)
		}
		// The creator's balance may have dropped since the bet was
		// created; settlement must never drive it negative.
		if creatorBal < bet.Amount {
			return fmt.Errorf("creator stake: %w", accounts.ErrInsufficientFunds)
		}

		pool := bet.Amount + stake
		acceptorWon := s.winnerDraw(pool) < stake

		winnerID, loserID, loserStake := bet.CreatorID, acceptorID, stake
		if acceptorWon {
			winnerID, loserID, loserStake = acceptorID, bet.CreatorID, bet.Amount
		}

		winnerBal, err := s.ledger.ApplyTx(tx, winnerID, loserStake, transactions.KindPvPWin, "PvP win")
		if err != nil {
			return fmt.Errorf("credit winner: %w", err)
		}

		loserBal, err := s.ledger.ApplyTx(tx, loserID, -loserStake, transactions.KindPvPLoss, "PvP loss")
		if err != nil {
			return fmt.Errorf("debit loser: %w", err)
		}

		err = s.bets.MarkSettled(tx, betID, acceptorID, stake, winnerID)
		if err != nil {
			return fmt.Errorf("mark settled: %w", err)
		}

		acceptorBalance := loserBal
		if acceptorWon {
			acceptorBalance = winnerBal
		}

		settlement = &Settlement{
			BetID:           betID,
			CreatorID:       bet.CreatorID,
			CreatorName:     bet.CreatorName,
			CreatorStake:    bet.Amount,
			AcceptorID:      acceptorID,
			AcceptorStake:   stake,
			WinnerID:        winnerID,
			AcceptorWon:     acceptorWon,
			AcceptorBalance: acceptorBalance,
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("accept bet: %w", err)
	}

	metrics.PvPSettlementsTotal.Inc()
	metrics.GoldWageredTotal.WithLabelValues("pvp").Add(float64(settlement.CreatorStake + settlement.AcceptorStake))

	return settlement, nil
}

// Withdraw cancels an open bet. Creator-only; it uses the same
// claim-while-open idiom as Accept, so a racing acceptance and
// withdrawal resolve to exactly one of the two.
func (s *Service) Withdraw(ctx context.Context, betID string, requesterID int64) error {
	err := pgutils.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		bet, err := s.bets.LockOpen(tx, betID)
		if err != nil {
			return fmt.Errorf("claim bet: %w", err)
		}

		if bet.CreatorID != requesterID {
			return ErrNotBetCreator
		}

		err = s.bets.MarkWithdrawn(tx, betID)
		if err != nil {
			return fmt.Errorf("mark withdrawn: %w", err)
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("withdraw bet: %w", err)
	}

	return nil
}

// lockPair takes both account row locks in ascending id order and
// returns the locked balances as (creator, acceptor).
func (s *Service) lockPair(tx *sql.Tx, creatorID, acceptorID int64) (int64, int64, error) {
	first, second := creatorID, acceptorID
	if first > second {
		first, second = second, first
	}

	firstBal, err := s.accounts.LockAndGetBalance(tx, first)
	if err != nil {
		return 0, 0, fmt.Errorf("lock account %d: %w", first, err)
	}

	secondBal, err := s.accounts.LockAndGetBalance(tx, second)
	if err != nil {
		return 0, 0, fmt.Errorf("lock account %d: %w", second, err)
	}

	if first == creatorID {
		return firstBal, secondBal, nil
	}

	return secondBal, firstBal, nil
}

// winnerDraw returns a uniform value in [0, pool); the acceptor wins
// when it lands below their stake.
func (s *Service) winnerDraw(pool int64) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.rng.Int63n(pool)
}
