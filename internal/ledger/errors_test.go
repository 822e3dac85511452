package ledger

import (
	"errors"
	"fmt"
	"testing"

	"samamatroh/internal/metrics"

	"github.com/stretchr/testify/assert"
)

func TestCheckPositive(t *testing.T) {
	tests := []struct {
		amount string
		valid  bool
	}{
		{"0.01", true},
		{"20", true},
		{"1000000.50", true},
		{"0", false},
		{"-1", false},
		{"0.001", false},
		{"10.999", false},
	}

	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			err := CheckPositive(dec(tt.amount))
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidAmount)
			}
		})
	}
}

func TestCheckScaleAllowsZero(t *testing.T) {
	assert.NoError(t, CheckScale(dec("0")))
	assert.NoError(t, CheckScale(dec("12.50")))
	assert.ErrorIs(t, CheckScale(dec("12.505")), ErrInvalidAmount)
}

func TestOutcome(t *testing.T) {
	assert.Equal(t, metrics.StatusOK, Outcome(nil))
	assert.Equal(t, metrics.StatusRejected, Outcome(fmt.Errorf("wrapped: %w", ErrInsufficientFunds)))
	assert.Equal(t, metrics.StatusConflict, Outcome(ErrConflict))
	assert.Equal(t, metrics.StatusFailed, Outcome(errors.New("boom")))
}
