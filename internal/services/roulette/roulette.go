// Package roulette resolves spins: a probability-weighted outcome
// draw, a deterministic override code path, and the three-door mystery
// sub-game. All money movement goes through the ledger.
package roulette

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"

	"github.com/goldspin/goldspin/internal/infra/metrics"
	"github.com/goldspin/goldspin/internal/repos/accounts"
	"github.com/goldspin/goldspin/internal/repos/transactions"
	"github.com/goldspin/goldspin/internal/services/ledger"
)

// MinStake is the smallest wager accepted anywhere in the engine.
const MinStake = 10

var (
	ErrInvalidStake     = errors.New("stake below minimum")
	ErrInvalidDoor      = errors.New("door must be between 1 and 3")
	ErrNoPendingMystery = errors.New("no pending mystery spin")
)

type Outcome string

const (
	OutcomeLoss    Outcome = "loss"
	OutcomeX1      Outcome = "x1"
	OutcomeX2      Outcome = "x2"
	OutcomeMystery Outcome = "mystery"
)

// mystery door multipliers, assigned to doors by a uniform permutation
var multipliers = [3]int64{2, 5, 20}

type Service struct {
	ledger *ledger.Service

	mu  sync.Mutex // guards rng (not concurrency-safe) and pending
	rng *rand.Rand

	// pending holds the stake of each account's unresolved mystery
	// spin until the door pick consumes it. A new mystery spin
	// replaces an unclaimed one.
	pending map[int64]int64
}

func New(l *ledger.Service, rng *rand.Rand) *Service {
	return &Service{ledger: l, rng: rng, pending: make(map[int64]int64)}
}

// SpinResult is the resolved state of one spin. When PendingDoor is
// set the outcome is mystery and the player still has to pick a door
// via PickDoor; no money has moved yet.
type SpinResult struct {
	Outcome     Outcome
	PendingDoor bool
	Door        int
	Multiplier  int64
	NewBalance  int64
}

// Spin resolves a wager of stake gold, optionally steered by an
// override code and a door choice. The outcome is computed here,
// before any presentation delay, so it is fixed at wager time.
func (s *Service) Spin(ctx context.Context, accountID, stake int64, code string, door int) (*SpinResult, error) {
	if stake < MinStake {
		return nil, ErrInvalidStake
	}
	if door != 0 && (door < 1 || door > 3) {
		return nil, ErrInvalidDoor
	}

	balance, err := s.ledger.Balance(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("check balance: %w", err)
	}
	if balance < stake {
		return nil, accounts.ErrInsufficientFunds
	}

	outcome, forcedDoor, forced := parseOverride(code)
	if !forced {
		outcome = outcomeForDraw(s.draw())
	}

	var res *SpinResult

	switch outcome {
	case OutcomeLoss:
		nb, err := s.ledger.Apply(ctx, accountID, -stake, transactions.KindLoss, "Roulette loss")
		if err != nil {
			return nil, fmt.Errorf("apply loss: %w", err)
		}

		res = &SpinResult{Outcome: OutcomeLoss, NewBalance: nb}

	case OutcomeX1:
		// push: the stake never moves
		res = &SpinResult{Outcome: OutcomeX1, NewBalance: balance}

	case OutcomeX2:
		nb, err := s.ledger.Apply(ctx, accountID, stake, transactions.KindWin, "Roulette x2")
		if err != nil {
			return nil, fmt.Errorf("apply win: %w", err)
		}

		res = &SpinResult{Outcome: OutcomeX2, NewBalance: nb}

	default: // OutcomeMystery
		chosen := forcedDoor
		if chosen == 0 {
			chosen = door
		}
		if chosen == 0 {
			s.storePending(accountID, stake)

			res = &SpinResult{Outcome: OutcomeMystery, PendingDoor: true, NewBalance: balance}
		} else {
			var err error

			res, err = s.resolveMystery(ctx, accountID, stake, chosen)
			if err != nil {
				return nil, err
			}
		}
	}

	// count only spins whose ledger effect landed
	metrics.SpinsTotal.WithLabelValues(string(outcome)).Inc()
	metrics.GoldWageredTotal.WithLabelValues("roulette").Add(float64(stake))

	return res, nil
}

// PickDoor finishes a mystery spin for which no door was supplied.
// The stake comes from the pending claim recorded at spin time, so a
// door pick can never wager more than the spin did, and each claim is
// consumed exactly once.
func (s *Service) PickDoor(ctx context.Context, accountID int64, door int) (*SpinResult, error) {
	if door < 1 || door > 3 {
		return nil, ErrInvalidDoor
	}

	stake, ok := s.takePending(accountID)
	if !ok {
		return nil, ErrNoPendingMystery
	}

	res, err := s.resolveMystery(ctx, accountID, stake, door)
	if err != nil {
		// the wager is still owed a prize; let the player pick again
		s.storePending(accountID, stake)

		return nil, err
	}

	return res, nil
}

func (s *Service) resolveMystery(ctx context.Context, accountID, stake int64, door int) (*SpinResult, error) {
	m := multipliers[s.perm()[door-1]]

	nb, err := s.ledger.Apply(ctx, accountID, stake*(m-1), transactions.KindWin,
		fmt.Sprintf("Mystery door %d: x%d", door, m))
	if err != nil {
		return nil, fmt.Errorf("apply mystery win: %w", err)
	}

	return &SpinResult{
		Outcome:    OutcomeMystery,
		Door:       door,
		Multiplier: m,
		NewBalance: nb,
	}, nil
}

func (s *Service) storePending(accountID, stake int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pending[accountID] = stake
}

func (s *Service) takePending(accountID int64) (int64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stake, ok := s.pending[accountID]
	if ok {
		delete(s.pending, accountID)
	}

	return stake, ok
}

func (s *Service) draw() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.rng.Float64() * 100
}

// perm assigns multiplier indexes to doors via a uniform Fisher-Yates
// permutation.
func (s *Service) perm() []int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.rng.Perm(3)
}

// outcomeForDraw maps a uniform draw over [0, 100) to an outcome:
// [0,80) loss, [80,98) push, [98,99) x2, [99,100) mystery.
func outcomeForDraw(draw float64) Outcome {
	switch {
	case draw < 80:
		return OutcomeLoss
	case draw < 98:
		return OutcomeX1
	case draw < 99:
		return OutcomeX2
	default:
		return OutcomeMystery
	}
}
