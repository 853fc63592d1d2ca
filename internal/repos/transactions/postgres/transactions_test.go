package transactions

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goldspin/goldspin/internal/infra/pgtestutil"
	pgaccounts "github.com/goldspin/goldspin/internal/repos/accounts/postgres"
	"github.com/goldspin/goldspin/internal/repos/transactions"
)

func TestInsertListSum(t *testing.T) {
	db, cleanup := pgtestutil.NewTestDB(t)
	defer cleanup()

	ctx := context.Background()

	acc, err := pgaccounts.New(db).Create(ctx, "alice", "pw")
	require.NoError(t, err)

	repo := New(db)

	entries := []transactions.Transaction{
		{ID: uuid.NewString(), AccountID: acc.ID, Kind: transactions.KindDeposit, Amount: 500, Description: "Admin deposit"},
		{ID: uuid.NewString(), AccountID: acc.ID, Kind: transactions.KindLoss, Amount: -50, Description: "Roulette loss"},
		{ID: uuid.NewString(), AccountID: acc.ID, Kind: transactions.KindWin, Amount: 20, Description: "Roulette x2"},
	}

	tx, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)
	for _, e := range entries {
		require.NoError(t, repo.Insert(tx, e))
	}
	require.NoError(t, tx.Commit())

	list, err := repo.ListByAccount(ctx, acc.ID, 2)
	require.NoError(t, err)
	require.Len(t, list, 2, "limit applies")

	full, err := repo.ListByAccount(ctx, acc.ID, 50)
	require.NoError(t, err)
	require.Len(t, full, 3)
	for _, e := range full {
		assert.Equal(t, acc.ID, e.AccountID)
		assert.False(t, e.CreatedAt.IsZero())
	}

	sum, err := repo.SumByAccount(ctx, acc.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(470), sum)

	// empty ledger sums to zero, not an error
	sum, err = repo.SumByAccount(ctx, acc.ID+1000)
	require.NoError(t, err)
	assert.Zero(t, sum)
}
