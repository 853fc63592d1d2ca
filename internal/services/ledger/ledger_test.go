package ledger

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goldspin/goldspin/internal/repos/accounts"
	"github.com/goldspin/goldspin/internal/repos/transactions"
)

func newService(t *testing.T) (*Service, sqlmock.Sqlmock, func()) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	return New(db), mock, func() { db.Close() }
}

func TestApply_Credit(t *testing.T) {
	t.Parallel()

	s, mock, done := newService(t)
	defer done()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT balance FROM accounts WHERE id = \$1 FOR UPDATE`).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"balance"}).AddRow(100))
	mock.ExpectExec(`UPDATE accounts SET balance = balance \+ \$2`).
		WithArgs(int64(1), int64(40)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO transactions`).
		WithArgs(sqlmock.AnyArg(), int64(1), "win", int64(40), "Roulette x2").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	nb, err := s.Apply(context.Background(), 1, 40, transactions.KindWin, "Roulette x2")
	require.NoError(t, err)
	assert.Equal(t, int64(140), nb)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApply_Debit(t *testing.T) {
	t.Parallel()

	s, mock, done := newService(t)
	defer done()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT balance FROM accounts WHERE id = \$1 FOR UPDATE`).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"balance"}).AddRow(100))
	mock.ExpectExec(`UPDATE accounts SET balance = balance - \$2 WHERE id = \$1 AND balance >= \$2`).
		WithArgs(int64(1), int64(60)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO transactions`).
		WithArgs(sqlmock.AnyArg(), int64(1), "loss", int64(-60), "Roulette loss").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	nb, err := s.Apply(context.Background(), 1, -60, transactions.KindLoss, "Roulette loss")
	require.NoError(t, err)
	assert.Equal(t, int64(40), nb)

	assert.NoError(t, mock.ExpectationsWereMet())
}

// An overdraft must roll back before any write: no balance update, no
// ledger entry.
func TestApply_InsufficientFunds(t *testing.T) {
	t.Parallel()

	s, mock, done := newService(t)
	defer done()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT balance FROM accounts WHERE id = \$1 FOR UPDATE`).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"balance"}).AddRow(50))
	mock.ExpectRollback()

	_, err := s.Apply(context.Background(), 1, -100, transactions.KindLoss, "Roulette loss")
	assert.ErrorIs(t, err, accounts.ErrInsufficientFunds)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApply_UnknownAccount(t *testing.T) {
	t.Parallel()

	s, mock, done := newService(t)
	defer done()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT balance FROM accounts WHERE id = \$1 FOR UPDATE`).
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"balance"}))
	mock.ExpectRollback()

	_, err := s.Apply(context.Background(), 99, 10, transactions.KindDeposit, "Admin deposit")
	assert.ErrorIs(t, err, accounts.ErrAccountNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

// A withdrawal past zero clamps: the recorded entry carries the
// effective delta so the ledger still sums to the balance.
func TestAdminAdjust_ClampsToZero(t *testing.T) {
	t.Parallel()

	s, mock, done := newService(t)
	defer done()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT balance FROM accounts WHERE id = \$1 FOR UPDATE`).
		WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"balance"}).AddRow(150))
	mock.ExpectExec(`UPDATE accounts SET balance = balance - \$2 WHERE id = \$1 AND balance >= \$2`).
		WithArgs(int64(2), int64(150)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO transactions`).
		WithArgs(sqlmock.AnyArg(), int64(2), "withdrawal", int64(-150), "Admin withdrawal").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	nb, effective, err := s.AdminAdjust(context.Background(), 2, -200, transactions.KindWithdrawal, "Admin withdrawal")
	require.NoError(t, err)
	assert.Equal(t, int64(0), nb)
	assert.Equal(t, int64(-150), effective)

	assert.NoError(t, mock.ExpectationsWereMet())
}

// Clamping on an empty account still records an entry, with a zero
// amount and no balance write.
func TestAdminAdjust_EmptyAccount(t *testing.T) {
	t.Parallel()

	s, mock, done := newService(t)
	defer done()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT balance FROM accounts WHERE id = \$1 FOR UPDATE`).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"balance"}).AddRow(0))
	mock.ExpectExec(`INSERT INTO transactions`).
		WithArgs(sqlmock.AnyArg(), int64(3), "withdrawal", int64(0), "Admin withdrawal").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	nb, effective, err := s.AdminAdjust(context.Background(), 3, -50, transactions.KindWithdrawal, "Admin withdrawal")
	require.NoError(t, err)
	assert.Equal(t, int64(0), nb)
	assert.Equal(t, int64(0), effective)

	assert.NoError(t, mock.ExpectationsWereMet())
}
