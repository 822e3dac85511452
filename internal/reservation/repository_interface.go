package reservation

import (
	"context"

	"samamatroh/internal/db"
)

type Repository interface {
	Create(ctx context.Context, q db.Querier, r *Reservation) error
	Get(ctx context.Context, q db.Querier, id int) (*Reservation, error)
	GetForUpdate(ctx context.Context, q db.Querier, id int) (*Reservation, error)
	Update(ctx context.Context, q db.Querier, r *Reservation) error
	Delete(ctx context.Context, q db.Querier, id int) error
	ListByClient(ctx context.Context, q db.Querier, clientID, limit, offset int) ([]Reservation, error)
}
