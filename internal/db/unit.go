package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"samamatroh/internal/config"
	"samamatroh/internal/logger"
	"samamatroh/internal/metrics"

	"github.com/jmoiron/sqlx"
)

// UnitRunner runs fn inside one atomic unit.
type UnitRunner interface {
	Do(ctx context.Context, fn func(ctx context.Context, q Querier) error) error
}

// UnitManager opens atomic units on top of Postgres transactions. Every
// statement issued through a unit's Querier commits or aborts together.
type UnitManager struct {
	db   *sqlx.DB
	opts *sql.TxOptions
}

func NewUnitManager(db *sqlx.DB, isolation sql.IsolationLevel) *UnitManager {
	return &UnitManager{
		db:   db,
		opts: &sql.TxOptions{Isolation: isolation},
	}
}

// ParseIsolation translates a config value into a sql.IsolationLevel.
func ParseIsolation(level string) (sql.IsolationLevel, error) {
	switch level {
	case "", config.IsolationReadCommitted:
		return sql.LevelReadCommitted, nil
	case config.IsolationRepeatableRead:
		return sql.LevelRepeatableRead, nil
	case config.IsolationSerializable:
		return sql.LevelSerializable, nil
	default:
		return sql.LevelDefault, fmt.Errorf("unsupported isolation level %q", level)
	}
}

// Unit is one open atomic unit. It must end with exactly one Commit, or
// with Abort; Abort after Commit is a no-op so it can be deferred.
type Unit struct {
	tx   *sqlx.Tx
	done bool
}

func (m *UnitManager) Begin(ctx context.Context) (*Unit, error) {
	tx, err := m.db.BeginTxx(ctx, m.opts)
	if err != nil {
		return nil, fmt.Errorf("begin unit: %w", Classify(err))
	}
	return &Unit{tx: tx}, nil
}

func (u *Unit) Querier() Querier {
	return u.tx
}

func (u *Unit) Commit() error {
	if u.done {
		return ErrUnitClosed
	}
	u.done = true

	if err := u.tx.Commit(); err != nil {
		return fmt.Errorf("commit unit: %w", Classify(err))
	}
	return nil
}

func (u *Unit) Abort() error {
	if u.done {
		return nil
	}
	u.done = true

	if err := u.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return fmt.Errorf("abort unit: %w", err)
	}
	return nil
}

type unitKey struct{}

// Do opens a unit, runs fn and commits. Any error returned by fn, or a
// panic, aborts the unit and leaves the database as it was before Begin.
func (m *UnitManager) Do(ctx context.Context, fn func(ctx context.Context, q Querier) error) (err error) {
	if ctx.Value(unitKey{}) != nil {
		return ErrNestedUnit
	}

	unit, err := m.Begin(ctx)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			if abortErr := unit.Abort(); abortErr != nil {
				logger.Error("failed to abort unit after panic", "error", abortErr)
			}
			panic(p)
		}
	}()

	if err := fn(context.WithValue(ctx, unitKey{}, unit), unit.Querier()); err != nil {
		if abortErr := unit.Abort(); abortErr != nil {
			logger.Error("failed to abort unit", "error", abortErr, "cause", err)
		}
		return countConflict(Classify(err))
	}

	return countConflict(unit.Commit())
}

func countConflict(err error) error {
	if errors.Is(err, ErrConflict) {
		metrics.RecordUnitConflict()
	}
	return err
}
