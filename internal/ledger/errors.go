package ledger

import (
	"errors"
	"fmt"

	"samamatroh/internal/db"
	"samamatroh/internal/metrics"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrInsufficientFunds = errors.New("insufficient balance")
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrSelfTransfer      = errors.New("cannot send money to yourself")
	ErrForbidden         = errors.New("not allowed to access this record")
	ErrConflict          = db.ErrConflict
)

// MoneyScale is the number of fractional digits money is stored with.
const MoneyScale = 2

// CheckScale rejects amounts with more fractional digits than the
// ledger stores, so that no amount is silently rounded.
func CheckScale(amount decimal.Decimal) error {
	if !amount.Equal(amount.Round(MoneyScale)) {
		return fmt.Errorf("%w: at most %d decimal places allowed", ErrInvalidAmount, MoneyScale)
	}
	return nil
}

// CheckPositive validates a transfer or top-up amount.
func CheckPositive(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: amount must be greater than 0", ErrInvalidAmount)
	}
	return CheckScale(amount)
}

// Outcome labels err for the operation counters.
func Outcome(err error) string {
	switch {
	case err == nil:
		return metrics.StatusOK
	case errors.Is(err, ErrConflict):
		return metrics.StatusConflict
	case errors.Is(err, ErrNotFound),
		errors.Is(err, ErrInsufficientFunds),
		errors.Is(err, ErrInvalidAmount),
		errors.Is(err, ErrSelfTransfer),
		errors.Is(err, ErrForbidden):
		return metrics.StatusRejected
	default:
		return metrics.StatusFailed
	}
}
