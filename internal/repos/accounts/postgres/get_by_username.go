package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/goldspin/goldspin/internal/repos/accounts"
)

func (r *accountsRepo) GetByUsername(ctx context.Context, username string) (*accounts.Account, error) {
	var acc accounts.Account

	err := r.db.QueryRowContext(ctx, `
		SELECT id, username, secret, balance, created_at
		FROM accounts
		WHERE username = $1
	`, username).Scan(&acc.ID, &acc.Username, &acc.Secret, &acc.Balance, &acc.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, accounts.ErrAccountNotFound
		}

		return nil, fmt.Errorf("get account by username: %w", err)
	}

	return &acc, nil
}
