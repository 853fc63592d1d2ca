package accounts

import (
	"context"
	"errors"
	"fmt"

	"github.com/goldspin/goldspin/internal/repos/accounts"
	"github.com/jackc/pgx/v5/pgconn"
)

func (r *accountsRepo) Create(ctx context.Context, username, secret string) (*accounts.Account, error) {
	acc := accounts.Account{
		Username: username,
		Secret:   secret,
	}

	err := r.db.QueryRowContext(ctx, `
		INSERT INTO accounts (username, secret, balance)
		VALUES ($1, $2, 0)
		RETURNING id, balance, created_at
	`, username, secret).Scan(&acc.ID, &acc.Balance, &acc.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return nil, accounts.ErrUsernameTaken
		}

		return nil, fmt.Errorf("insert account: %w", err)
	}

	return &acc, nil
}
