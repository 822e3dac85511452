package reservation

import (
	"context"
	"regexp"
	"testing"

	"samamatroh/internal/db/dbtest"
	"samamatroh/internal/ledger"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestRepository_CreateUnknownClient(t *testing.T) {
	sqlxDB, mock := dbtest.New(t)

	mock.ExpectQuery(regexp.QuoteMeta(insertReservation)).
		WillReturnError(&pq.Error{Code: "23503", Message: "violates foreign key constraint"})

	err := NewRepository().Create(context.Background(), sqlxDB, &Reservation{ClientID: 404, TripRef: "T"})
	assert.ErrorIs(t, err, ledger.ErrNotFound)
}

func TestRepository_UpdateMissing(t *testing.T) {
	sqlxDB, mock := dbtest.New(t)

	mock.ExpectQuery(regexp.QuoteMeta(updateReservation)).
		WillReturnRows(sqlmock.NewRows([]string{"updated_at"}))

	err := NewRepository().Update(context.Background(), sqlxDB, &Reservation{ID: 3})
	assert.ErrorIs(t, err, ledger.ErrNotFound)
}

func TestRepository_DeleteMissing(t *testing.T) {
	sqlxDB, mock := dbtest.New(t)

	mock.ExpectExec(regexp.QuoteMeta(deleteReservation)).WithArgs(3).WillReturnResult(sqlmock.NewResult(0, 0))

	err := NewRepository().Delete(context.Background(), sqlxDB, 3)
	assert.ErrorIs(t, err, ledger.ErrNotFound)
}

func TestMoneyComponents(t *testing.T) {
	comps := MoneyComponents{Deposit: money("40"), Installment2: money("12.50"), Installment4: money("0")}

	assert.Equal(t, "52.50", comps.Total().StringFixed(2))
	assert.NoError(t, comps.Validate())
	assert.True(t, MoneyComponents{}.Total().IsZero())

	assert.ErrorIs(t, MoneyComponents{Installment4: money("-0.01")}.Validate(), ledger.ErrInvalidAmount)
	assert.ErrorIs(t, MoneyComponents{Deposit: money("1.234")}.Validate(), ledger.ErrInvalidAmount)
}
