package bets

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goldspin/goldspin/internal/infra/pgtestutil"
	pgaccounts "github.com/goldspin/goldspin/internal/repos/accounts/postgres"
	"github.com/goldspin/goldspin/internal/repos/bets"
)

func setup(t *testing.T) (*sql.DB, *betsRepo, int64, func()) {
	t.Helper()

	db, cleanup := pgtestutil.NewTestDB(t)

	acc, err := pgaccounts.New(db).Create(context.Background(), "alice", "pw")
	require.NoError(t, err)

	return db, New(db), acc.ID, cleanup
}

func TestInsertAndListOpen(t *testing.T) {
	_, repo, creatorID, cleanup := setup(t)
	defer cleanup()

	ctx := context.Background()

	first := bets.Bet{ID: uuid.NewString(), CreatorID: creatorID, Amount: 50, Status: bets.StatusOpen}
	second := bets.Bet{ID: uuid.NewString(), CreatorID: creatorID, Amount: 20, Status: bets.StatusOpen}

	require.NoError(t, repo.Insert(ctx, first))
	require.NoError(t, repo.Insert(ctx, second))

	open, err := repo.ListOpen(ctx)
	require.NoError(t, err)
	require.Len(t, open, 2)

	// newest first, with the creator's name joined in
	assert.Equal(t, second.ID, open[0].ID)
	assert.Equal(t, "alice", open[0].CreatorName)
	assert.Equal(t, int64(20), open[0].Amount)
}

func TestLockOpenAndSettle(t *testing.T) {
	db, repo, creatorID, cleanup := setup(t)
	defer cleanup()

	ctx := context.Background()

	bet := bets.Bet{ID: uuid.NewString(), CreatorID: creatorID, Amount: 50, Status: bets.StatusOpen}
	require.NoError(t, repo.Insert(ctx, bet))

	tx, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)

	claimed, err := repo.LockOpen(tx, bet.ID)
	require.NoError(t, err)
	assert.Equal(t, creatorID, claimed.CreatorID)
	assert.Equal(t, "alice", claimed.CreatorName)

	require.NoError(t, repo.MarkSettled(tx, bet.ID, creatorID+1, 30, creatorID))
	require.NoError(t, tx.Commit())

	// settled bets are gone from the open market
	open, err := repo.ListOpen(ctx)
	require.NoError(t, err)
	assert.Empty(t, open)

	// and cannot be claimed again
	tx2, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)
	defer tx2.Rollback()

	_, err = repo.LockOpen(tx2, bet.ID)
	assert.ErrorIs(t, err, bets.ErrBetNotFound)

	err = repo.MarkWithdrawn(tx2, bet.ID)
	assert.ErrorIs(t, err, bets.ErrBetNotFound)
}

func TestMarkWithdrawn(t *testing.T) {
	db, repo, creatorID, cleanup := setup(t)
	defer cleanup()

	ctx := context.Background()

	bet := bets.Bet{ID: uuid.NewString(), CreatorID: creatorID, Amount: 50, Status: bets.StatusOpen}
	require.NoError(t, repo.Insert(ctx, bet))

	tx, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)

	_, err = repo.LockOpen(tx, bet.ID)
	require.NoError(t, err)
	require.NoError(t, repo.MarkWithdrawn(tx, bet.ID))
	require.NoError(t, tx.Commit())

	open, err := repo.ListOpen(ctx)
	require.NoError(t, err)
	assert.Empty(t, open)
}
