package transfer

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"samamatroh/internal/db"
	"samamatroh/internal/ledger"

	"github.com/jmoiron/sqlx"
)

const (
	transactionColumns = `id, sender_id, receiver_id, amount, description, created_at`

	insertTransaction = `
		INSERT INTO transactions (sender_id, receiver_id, amount, description)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	selectTransaction = `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE id = $1`

	selectTransactionForUpdate = selectTransaction + `
		FOR UPDATE`

	deleteTransaction = `DELETE FROM transactions WHERE id = $1`

	selectUserTransactions = `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE sender_id = $1 OR receiver_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`

	selectTransactions = `
		SELECT ` + transactionColumns + `
		FROM transactions
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2`
)

type repository struct{}

func NewRepository() Repository {
	return &repository{}
}

func (r *repository) Create(ctx context.Context, q db.Querier, tx *Transaction) error {
	row := q.QueryRowxContext(ctx, insertTransaction, tx.SenderID, tx.ReceiverID, tx.Amount, tx.Description)
	if err := row.Scan(&tx.ID, &tx.CreatedAt); err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

func (r *repository) Get(ctx context.Context, q db.Querier, id int) (*Transaction, error) {
	return r.get(ctx, q, selectTransaction, id)
}

// GetForUpdate locks the transaction row, so concurrent reversals of the
// same transaction serialize and only the first one finds it.
func (r *repository) GetForUpdate(ctx context.Context, q db.Querier, id int) (*Transaction, error) {
	return r.get(ctx, q, selectTransactionForUpdate, id)
}

func (r *repository) get(ctx context.Context, q db.Querier, query string, id int) (*Transaction, error) {
	var tx Transaction
	if err := sqlx.GetContext(ctx, q, &tx, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("transaction %d: %w", id, ledger.ErrNotFound)
		}
		return nil, fmt.Errorf("load transaction %d: %w", id, err)
	}
	return &tx, nil
}

func (r *repository) Delete(ctx context.Context, q db.Querier, id int) error {
	result, err := q.ExecContext(ctx, deleteTransaction, id)
	if err != nil {
		return fmt.Errorf("delete transaction %d: %w", id, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("transaction %d: %w", id, ledger.ErrNotFound)
	}

	return nil
}

func (r *repository) ListForUser(ctx context.Context, q db.Querier, userID, limit, offset int) ([]Transaction, error) {
	txs := []Transaction{}
	if err := sqlx.SelectContext(ctx, q, &txs, selectUserTransactions, userID, limit, offset); err != nil {
		return nil, fmt.Errorf("list transactions of user %d: %w", userID, err)
	}
	return txs, nil
}

func (r *repository) List(ctx context.Context, q db.Querier, limit, offset int) ([]Transaction, error) {
	txs := []Transaction{}
	if err := sqlx.SelectContext(ctx, q, &txs, selectTransactions, limit, offset); err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return txs, nil
}
