package reservation

import (
	"fmt"
	"time"

	"samamatroh/internal/ledger"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// MoneyComponents are the charged parts of a reservation. A nil
// component counts as zero.
type MoneyComponents struct {
	Deposit      *decimal.Decimal `db:"deposit" json:"deposit,omitempty" swaggertype:"string" example:"40.00"`
	Installment1 *decimal.Decimal `db:"installment_1" json:"installment_1,omitempty" swaggertype:"string"`
	Installment2 *decimal.Decimal `db:"installment_2" json:"installment_2,omitempty" swaggertype:"string"`
	Installment3 *decimal.Decimal `db:"installment_3" json:"installment_3,omitempty" swaggertype:"string"`
	Installment4 *decimal.Decimal `db:"installment_4" json:"installment_4,omitempty" swaggertype:"string"`
}

func (m MoneyComponents) list() []*decimal.Decimal {
	return []*decimal.Decimal{m.Deposit, m.Installment1, m.Installment2, m.Installment3, m.Installment4}
}

// Total is the sum of the present components.
func (m MoneyComponents) Total() decimal.Decimal {
	total := decimal.Zero
	for _, c := range m.list() {
		if c != nil {
			total = total.Add(*c)
		}
	}
	return total
}

// Validate rejects negative components and sub-cent precision.
func (m MoneyComponents) Validate() error {
	names := []string{"deposit", "installment_1", "installment_2", "installment_3", "installment_4"}
	for i, c := range m.list() {
		if c == nil {
			continue
		}
		if c.IsNegative() {
			return fmt.Errorf("%w: %s must not be negative", ledger.ErrInvalidAmount, names[i])
		}
		if err := ledger.CheckScale(*c); err != nil {
			return fmt.Errorf("%s: %w", names[i], err)
		}
	}
	return nil
}

type Reservation struct {
	ID       int           `db:"id" json:"id"`
	ClientID int           `db:"client_id" json:"client_id"`
	TripRef  string        `db:"trip_ref" json:"trip_ref"`
	Seats    pq.Int64Array `db:"seats" json:"seats" swaggertype:"array,integer"`
	Notes    string        `db:"notes" json:"notes"`
	MoneyComponents
	TotalAmount decimal.Decimal `db:"-" json:"total_amount" swaggertype:"string" example:"40.00"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at" json:"updated_at"`
}

// Actor is the authenticated caller of a reservation operation.
type Actor struct {
	UserID int
	Admin  bool
}

func (a Actor) canAccess(r *Reservation) bool {
	return a.Admin || r.ClientID == a.UserID
}

type CreateRequest struct {
	// ClientID is honoured for admins only; others always book for themselves.
	ClientID int     `json:"client_id" binding:"omitempty,gt=0" example:"7"`
	TripRef  string  `json:"trip_ref" binding:"required,max=64" example:"UMRAH-2026-03"`
	Seats    []int64 `json:"seats" binding:"omitempty,max=50,dive,gt=0"`
	Notes    string  `json:"notes" binding:"max=500"`
	MoneyComponents
}

// UpdateRequest replaces the whole set of money components; components
// left out become zero. Other fields change only when present; a nil
// Seats keeps the booked seats and an empty list clears them.
type UpdateRequest struct {
	TripRef *string `json:"trip_ref" binding:"omitempty,max=64"`
	Seats   []int64 `json:"seats" binding:"omitempty,max=50,dive,gt=0"`
	Notes   *string `json:"notes" binding:"omitempty,max=500"`
	MoneyComponents
}

type DeleteResponse struct {
	Message string `json:"message" example:"reservation deleted"`
	Refund  string `json:"refund" example:"40.00"`
}
