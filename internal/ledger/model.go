package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account is the monetary side of a user row. Its ID is the user ID.
type Account struct {
	ID        int             `db:"id" json:"id"`
	Name      string          `db:"name" json:"name"`
	Email     string          `db:"email" json:"email"`
	Balance   decimal.Decimal `db:"balance" json:"balance" swaggertype:"string"`
	UpdatedAt time.Time       `db:"updated_at" json:"updated_at"`
}

// BalanceResponse renders the balance with exactly two fractional digits.
type BalanceResponse struct {
	Balance string `json:"balance" example:"60.00"`
}

type TopUpRequest struct {
	Amount decimal.Decimal `json:"amount" swaggertype:"string" example:"100.00"`
}

type TopUpResponse struct {
	Message string   `json:"message" example:"balance topped up"`
	Account *Account `json:"account"`
}
