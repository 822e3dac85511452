package transfer

import (
	"time"

	"github.com/shopspring/decimal"
)

type Transaction struct {
	ID          int             `db:"id" json:"id"`
	SenderID    int             `db:"sender_id" json:"sender_id"`
	ReceiverID  int             `db:"receiver_id" json:"receiver_id"`
	Amount      decimal.Decimal `db:"amount" json:"amount" swaggertype:"string" example:"20.00"`
	Description string          `db:"description" json:"description"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
}

type SendRequest struct {
	ReceiverID  int             `json:"receiver_id" binding:"required,gt=0" example:"2"`
	Amount      decimal.Decimal `json:"amount" swaggertype:"string" example:"20.00"`
	Description string          `json:"description" binding:"required,max=255" example:"rent share"`
}

type SendResponse struct {
	Message     string       `json:"message" example:"transfer completed"`
	Transaction *Transaction `json:"transaction"`
	Balance     string       `json:"balance" example:"30.00"`
}

// ReversalPolicy decides what happens when undoing a transfer would
// leave the receiver with a negative balance.
type ReversalPolicy string

const (
	// ReversalReject aborts the reversal with ErrInsufficientFunds.
	ReversalReject ReversalPolicy = "reject"
	// ReversalAllowDebt commits the reversal and reports the debt.
	ReversalAllowDebt ReversalPolicy = "allow_debt"
)

const WarningNegativeBalance = "receiver balance is negative"

type Reversal struct {
	Transaction     *Transaction    `json:"transaction"`
	SenderBalance   decimal.Decimal `json:"sender_balance" swaggertype:"string"`
	ReceiverBalance decimal.Decimal `json:"receiver_balance" swaggertype:"string"`
	Warning         string          `json:"warning,omitempty"`
}

type ReverseResponse struct {
	Message string `json:"message" example:"transaction reversed"`
	Warning string `json:"warning,omitempty" example:"receiver balance is negative"`
}
