package ledger

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"samamatroh/internal/db/dbtest"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var accountColumns = []string{"id", "name", "email", "balance", "updated_at"}

func accountRow(id int, balance string) *sqlmock.Rows {
	return sqlmock.NewRows(accountColumns).
		AddRow(id, "User", "user@example.com", balance, time.Now())
}

func TestRepository_Get(t *testing.T) {
	sqlxDB, mock := dbtest.New(t)
	repo := NewRepository()

	mock.ExpectQuery(regexp.QuoteMeta(selectAccount)).
		WithArgs(1).
		WillReturnRows(accountRow(1, "60.00"))

	acc, err := repo.Get(context.Background(), sqlxDB, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, acc.ID)
	assert.True(t, acc.Balance.Equal(decimal.RequireFromString("60")))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetNotFound(t *testing.T) {
	sqlxDB, mock := dbtest.New(t)
	repo := NewRepository()

	mock.ExpectQuery(regexp.QuoteMeta(selectAccount)).
		WithArgs(99).
		WillReturnRows(sqlmock.NewRows(accountColumns))

	_, err := repo.Get(context.Background(), sqlxDB, 99)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetForUpdateLocksRow(t *testing.T) {
	sqlxDB, mock := dbtest.New(t)
	repo := NewRepository()

	mock.ExpectQuery(`FOR UPDATE$`).
		WithArgs(2).
		WillReturnRows(accountRow(2, "10.50"))

	acc, err := repo.GetForUpdate(context.Background(), sqlxDB, 2)
	require.NoError(t, err)
	assert.Equal(t, "10.50", acc.Balance.StringFixed(2))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetDriverError(t *testing.T) {
	sqlxDB, mock := dbtest.New(t)
	repo := NewRepository()
	boom := errors.New("connection reset")

	mock.ExpectQuery(regexp.QuoteMeta(selectAccount)).WithArgs(1).WillReturnError(boom)

	_, err := repo.Get(context.Background(), sqlxDB, 1)
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestRepository_SetBalance(t *testing.T) {
	sqlxDB, mock := dbtest.New(t)
	repo := NewRepository()

	mock.ExpectExec(regexp.QuoteMeta(updateBalance)).
		WithArgs(dbtest.Decimal("40.25"), 1).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.SetBalance(context.Background(), sqlxDB, 1, decimal.RequireFromString("40.25"))
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_SetBalanceMissingAccount(t *testing.T) {
	sqlxDB, mock := dbtest.New(t)
	repo := NewRepository()

	mock.ExpectExec(regexp.QuoteMeta(updateBalance)).
		WithArgs(dbtest.Decimal("1"), 7).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.SetBalance(context.Background(), sqlxDB, 7, decimal.NewFromInt(1))
	assert.ErrorIs(t, err, ErrNotFound)
}
