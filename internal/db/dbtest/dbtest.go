// Package dbtest holds sqlmock helpers shared by repository and service tests.
package dbtest

import (
	"database/sql"
	"database/sql/driver"
	"testing"

	"samamatroh/internal/db"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// New returns a sqlx handle backed by sqlmock. The handle is closed when
// the test ends.
func New(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()

	conn, mock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(conn, "sqlmock")
	t.Cleanup(func() { sqlxDB.Close() })

	return sqlxDB, mock
}

// NewUnits is New plus a read-committed UnitManager on the same handle.
func NewUnits(t *testing.T) (*sqlx.DB, *db.UnitManager, sqlmock.Sqlmock) {
	t.Helper()

	sqlxDB, mock := New(t)
	return sqlxDB, db.NewUnitManager(sqlxDB, sql.LevelReadCommitted), mock
}

type decimalArg struct {
	want decimal.Decimal
}

// Decimal matches a query argument numerically equal to s, whatever scale
// the driver value was rendered with.
func Decimal(s string) sqlmock.Argument {
	return decimalArg{want: decimal.RequireFromString(s)}
}

func (a decimalArg) Match(v driver.Value) bool {
	var got decimal.Decimal
	switch val := v.(type) {
	case string:
		d, err := decimal.NewFromString(val)
		if err != nil {
			return false
		}
		got = d
	case []byte:
		d, err := decimal.NewFromString(string(val))
		if err != nil {
			return false
		}
		got = d
	case float64:
		got = decimal.NewFromFloat(val)
	case int64:
		got = decimal.NewFromInt(val)
	default:
		return false
	}
	return got.Equal(a.want)
}

type nullArg struct{}

// Null matches a nil driver value.
func Null() sqlmock.Argument {
	return nullArg{}
}

func (nullArg) Match(v driver.Value) bool {
	return v == nil
}
