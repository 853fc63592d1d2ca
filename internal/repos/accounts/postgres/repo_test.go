package accounts

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goldspin/goldspin/internal/infra/pgtestutil"
	"github.com/goldspin/goldspin/internal/repos/accounts"
)

func TestCreateAndGet(t *testing.T) {
	db, cleanup := pgtestutil.NewTestDB(t)
	defer cleanup()

	repo := New(db)
	ctx := context.Background()

	acc, err := repo.Create(ctx, "alice", "hunter2")
	require.NoError(t, err)
	assert.NotZero(t, acc.ID)
	assert.Zero(t, acc.Balance)
	assert.False(t, acc.CreatedAt.IsZero())

	_, err = repo.Create(ctx, "alice", "other")
	assert.ErrorIs(t, err, accounts.ErrUsernameTaken)

	got, err := repo.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, acc.ID, got.ID)
	assert.Equal(t, "hunter2", got.Secret)

	_, err = repo.GetByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, accounts.ErrAccountNotFound)
}

func TestList_Search(t *testing.T) {
	db, cleanup := pgtestutil.NewTestDB(t)
	defer cleanup()

	repo := New(db)
	ctx := context.Background()

	for _, name := range []string{"alice", "alicia", "bob"} {
		_, err := repo.Create(ctx, name, "pw")
		require.NoError(t, err)
	}

	all, err := repo.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	filtered, err := repo.List(ctx, "ALI")
	require.NoError(t, err)
	require.Len(t, filtered, 2)
	for _, acc := range filtered {
		assert.Contains(t, acc.Username, "ali")
	}
}

func TestBalanceMutations(t *testing.T) {
	db, cleanup := pgtestutil.NewTestDB(t)
	defer cleanup()

	repo := New(db)
	ctx := context.Background()

	acc, err := repo.Create(ctx, "carol", "pw")
	require.NoError(t, err)

	tx, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)
	defer tx.Rollback()

	balance, err := repo.LockAndGetBalance(tx, acc.ID)
	require.NoError(t, err)
	assert.Zero(t, balance)

	require.NoError(t, repo.IncreaseBalance(tx, acc.ID, 100))
	require.NoError(t, repo.DecreaseBalance(tx, acc.ID, 60))

	// guarded decrease rejects an overdraft without touching the row
	err = repo.DecreaseBalance(tx, acc.ID, 41)
	assert.ErrorIs(t, err, accounts.ErrInsufficientFunds)

	balance, err = repo.LockAndGetBalance(tx, acc.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(40), balance)

	require.NoError(t, tx.Commit())

	balance, err = repo.GetBalance(ctx, acc.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(40), balance)

	_, err = repo.GetBalance(ctx, acc.ID+1000)
	assert.ErrorIs(t, err, accounts.ErrAccountNotFound)
}
