package bets

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/goldspin/goldspin/internal/repos/bets"
)

var _ bets.Bets = (*betsRepo)(nil)

type betsRepo struct{ db *sql.DB }

func New(db *sql.DB) *betsRepo {
	return &betsRepo{db: db}
}

func (r *betsRepo) Insert(ctx context.Context, b bets.Bet) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO pvp_bets (id, creator_id, amount, status)
		VALUES ($1, $2, $3, $4)
	`, b.ID, b.CreatorID, b.Amount, string(bets.StatusOpen))
	if err != nil {
		return fmt.Errorf("insert bet: %w", err)
	}

	return nil
}

func (r *betsRepo) ListOpen(ctx context.Context) ([]bets.OpenBet, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT pb.id, pb.creator_id, a.username, pb.amount, pb.created_at
		FROM pvp_bets pb
		JOIN accounts a ON a.id = pb.creator_id
		WHERE pb.status = 'open'
		ORDER BY pb.created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list open bets: %w", err)
	}
	defer rows.Close()

	var out []bets.OpenBet

	for rows.Next() {
		var b bets.OpenBet

		err = rows.Scan(&b.ID, &b.CreatorID, &b.CreatorName, &b.Amount, &b.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan open bet: %w", err)
		}

		out = append(out, b)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("iterate open bets: %w", err)
	}

	return out, nil
}

// LockOpen locks only the bet row (FOR UPDATE OF pb); the joined
// account row is locked later, in id order, by the settlement flow.
func (r *betsRepo) LockOpen(tx *sql.Tx, betID string) (*bets.OpenBet, error) {
	var b bets.OpenBet

	err := tx.QueryRow(`
		SELECT pb.id, pb.creator_id, a.username, pb.amount, pb.created_at
		FROM pvp_bets pb
		JOIN accounts a ON a.id = pb.creator_id
		WHERE pb.id = $1
		  AND pb.status = 'open'
		FOR UPDATE OF pb
	`, betID).Scan(&b.ID, &b.CreatorID, &b.CreatorName, &b.Amount, &b.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, bets.ErrBetNotFound
		}

		return nil, fmt.Errorf("lock open bet: %w", err)
	}

	return &b, nil
}

func (r *betsRepo) MarkSettled(tx *sql.Tx, betID string, opponentID, opponentAmount, winnerID int64) error {
	res, err := tx.Exec(`
		UPDATE pvp_bets
		SET status = 'settled',
		    opponent_id = $2,
		    opponent_amount = $3,
		    winner_id = $4,
		    settled_at = now()
		WHERE id = $1
		  AND status = 'open'
	`, betID, opponentID, opponentAmount, winnerID)
	if err != nil {
		return fmt.Errorf("mark settled: %w", err)
	}

	return checkClaimed(res)
}

func (r *betsRepo) MarkWithdrawn(tx *sql.Tx, betID string) error {
	res, err := tx.Exec(`
		UPDATE pvp_bets
		SET status = 'withdrawn',
		    settled_at = now()
		WHERE id = $1
		  AND status = 'open'
	`, betID)
	if err != nil {
		return fmt.Errorf("mark withdrawn: %w", err)
	}

	return checkClaimed(res)
}

func checkClaimed(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}

	if affected == 0 {
		return bets.ErrBetNotFound
	}

	return nil
}
