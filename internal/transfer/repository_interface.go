package transfer

import (
	"context"

	"samamatroh/internal/db"
)

type Repository interface {
	Create(ctx context.Context, q db.Querier, tx *Transaction) error
	Get(ctx context.Context, q db.Querier, id int) (*Transaction, error)
	GetForUpdate(ctx context.Context, q db.Querier, id int) (*Transaction, error)
	Delete(ctx context.Context, q db.Querier, id int) error
	ListForUser(ctx context.Context, q db.Querier, userID, limit, offset int) ([]Transaction, error)
	List(ctx context.Context, q db.Querier, limit, offset int) ([]Transaction, error)
}
