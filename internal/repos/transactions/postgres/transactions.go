package transactions

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/goldspin/goldspin/internal/repos/transactions"
)

var _ transactions.Transactions = (*transactionsRepo)(nil)

type transactionsRepo struct{ db *sql.DB }

func New(db *sql.DB) *transactionsRepo {
	return &transactionsRepo{db: db}
}

func (r *transactionsRepo) Insert(tx *sql.Tx, t transactions.Transaction) error {
	_, err := tx.Exec(`
		INSERT INTO transactions (id, account_id, kind, amount, description)
		VALUES ($1, $2, $3, $4, $5)
	`, t.ID, t.AccountID, string(t.Kind), t.Amount, t.Description)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}

	return nil
}

func (r *transactionsRepo) ListByAccount(ctx context.Context, accountID int64, limit int) ([]transactions.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, account_id, kind, amount, description, created_at
		FROM transactions
		WHERE account_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, accountID, limit)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var out []transactions.Transaction

	for rows.Next() {
		var t transactions.Transaction

		err = rows.Scan(&t.ID, &t.AccountID, &t.Kind, &t.Amount, &t.Description, &t.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}

		out = append(out, t)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}

	return out, nil
}

func (r *transactionsRepo) SumByAccount(ctx context.Context, accountID int64) (int64, error) {
	var sum int64

	err := r.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(amount), 0)
		FROM transactions
		WHERE account_id = $1
	`, accountID).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("sum transactions: %w", err)
	}

	return sum, nil
}
