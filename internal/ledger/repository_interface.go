package ledger

import (
	"context"

	"samamatroh/internal/db"

	"github.com/shopspring/decimal"
)

type Repository interface {
	Get(ctx context.Context, q db.Querier, id int) (*Account, error)
	GetForUpdate(ctx context.Context, q db.Querier, id int) (*Account, error)
	SetBalance(ctx context.Context, q db.Querier, id int, balance decimal.Decimal) error
}
