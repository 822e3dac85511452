package reservation

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
	reservationColumns = `id, client_id, trip_ref, seats, notes,
		deposit, installment_1, installment_2, installment_3, installment_4,
		created_at, updated_at`

	insertReservation = `
		INSERT INTO reservations (client_id, trip_ref, seats, notes,
			deposit, installment_1, installment_2, installment_3, installment_4)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at`

	selectReservation = `
		SELECT ` + reservationColumns + `
		FROM reservations
		WHERE id = $1`

	selectReservationForUpdate = selectReservation + `
		FOR UPDATE`

	updateReservation = `
		UPDATE reservations
		SET trip_ref = $1, seats = $2, notes = $3,
			deposit = $4, installment_1 = $5, installment_2 = $6, installment_3 = $7, installment_4 = $8,
			updated_at = NOW()
		WHERE id = $9
		RETURNING updated_at`

	deleteReservation = `DELETE FROM reservations WHERE id = $1`

	selectClientReservations = `
		SELECT ` + reservationColumns + `
		FROM reservations
		WHERE client_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`
)

type repository struct{}

func NewRepository() Repository {
	return &repository{}
}

func (r *repository) Create(ctx context.Context, q db.Querier, res *Reservation) error {
	if res.Seats == nil {
		res.Seats = []int64{}
	}

	row := q.QueryRowxContext(ctx, insertReservation,
		res.ClientID, res.TripRef, res.Seats, res.Notes,
		res.Deposit, res.Installment1, res.Installment2, res.Installment3, res.Installment4,
	)
	if err := row.Scan(&res.ID, &res.CreatedAt, &res.UpdatedAt); err != nil {
		if db.IsForeignKeyViolation(err) {
			return fmt.Errorf("client account %d: %w", res.ClientID, ledger.ErrNotFound)
		}
		return fmt.Errorf("insert reservation: %w", err)
	}

	res.TotalAmount = res.Total()
	return nil
}

func (r *repository) Get(ctx context.Context, q db.Querier, id int) (*Reservation, error) {
	return r.get(ctx, q, selectReservation, id)
}

// GetForUpdate loads the reservation and holds its row lock until the
// enclosing unit ends.
func (r *repository) GetForUpdate(ctx context.Context, q db.Querier, id int) (*Reservation, error) {
	return r.get(ctx, q, selectReservationForUpdate, id)
}

func (r *repository) get(ctx context.Context, q db.Querier, query string, id int) (*Reservation, error) {
	var res Reservation
	if err := sqlx.GetContext(ctx, q, &res, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("reservation %d: %w", id, ledger.ErrNotFound)
		}
		return nil, fmt.Errorf("load reservation %d: %w", id, err)
	}

	res.TotalAmount = res.Total()
	return &res, nil
}

func (r *repository) Update(ctx context.Context, q db.Querier, res *Reservation) error {
	if res.Seats == nil {
		res.Seats = []int64{}
	}

	row := q.QueryRowxContext(ctx, updateReservation,
		res.TripRef, res.Seats, res.Notes,
		res.Deposit, res.Installment1, res.Installment2, res.Installment3, res.Installment4,
		res.ID,
	)
	if err := row.Scan(&res.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("reservation %d: %w", res.ID, ledger.ErrNotFound)
		}
		return fmt.Errorf("update reservation %d: %w", res.ID, err)
	}

	res.TotalAmount = res.Total()
	return nil
}

func (r *repository) Delete(ctx context.Context, q db.Querier, id int) error {
	result, err := q.ExecContext(ctx, deleteReservation, id)
	if err != nil {
		return fmt.Errorf("delete reservation %d: %w", id, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("reservation %d: %w", id, ledger.ErrNotFound)
	}

	return nil
}

func (r *repository) ListByClient(ctx context.Context, q db.Querier, clientID, limit, offset int) ([]Reservation, error) {
	reservations := []Reservation{}
	if err := sqlx.SelectContext(ctx, q, &reservations, selectClientReservations, clientID, limit, offset); err != nil {
		return nil, fmt.Errorf("list reservations of client %d: %w", clientID, err)
	}

	for i := range reservations {
		reservations[i].TotalAmount = reservations[i].Total()
	}
	return reservations, nil
}
