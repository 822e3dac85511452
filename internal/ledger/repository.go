package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"samamatroh/internal/db"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

const (
	selectAccount = `
		SELECT id, name, email, balance, updated_at
		FROM users
		WHERE id = $1`

	selectAccountForUpdate = selectAccount + `
		FOR UPDATE`

	updateBalance = `
		UPDATE users
		SET balance = $1, updated_at = NOW()
		WHERE id = $2`
)

type repository struct{}

func NewRepository() Repository {
	return &repository{}
}

func (r *repository) Get(ctx context.Context, q db.Querier, id int) (*Account, error) {
	return r.get(ctx, q, selectAccount, id)
}

// GetForUpdate loads the account and holds its row lock until the
// enclosing unit ends.
func (r *repository) GetForUpdate(ctx context.Context, q db.Querier, id int) (*Account, error) {
	return r.get(ctx, q, selectAccountForUpdate, id)
}

func (r *repository) get(ctx context.Context, q db.Querier, query string, id int) (*Account, error) {
	var acc Account
	if err := sqlx.GetContext(ctx, q, &acc, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("account %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("load account %d: %w", id, err)
	}
	return &acc, nil
}

func (r *repository) SetBalance(ctx context.Context, q db.Querier, id int, balance decimal.Decimal) error {
	result, err := q.ExecContext(ctx, updateBalance, balance, id)
	if err != nil {
		return fmt.Errorf("update balance of account %d: %w", id, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("account %d: %w", id, ErrNotFound)
	}

	return nil
}
