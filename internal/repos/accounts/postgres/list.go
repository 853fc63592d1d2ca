package accounts

import (
	"context"
	"fmt"

	"github.com/goldspin/goldspin/internal/repos/accounts"
)

func (r *accountsRepo) List(ctx context.Context, search string) ([]accounts.Account, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, username, secret, balance, created_at
		FROM accounts
		WHERE $1 = '' OR username ILIKE '%' || $1 || '%'
		ORDER BY created_at DESC
	`, search)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	var out []accounts.Account

	for rows.Next() {
		var acc accounts.Account

		err = rows.Scan(&acc.ID, &acc.Username, &acc.Secret, &acc.Balance, &acc.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}

		out = append(out, acc)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("iterate accounts: %w", err)
	}

	return out, nil
}
