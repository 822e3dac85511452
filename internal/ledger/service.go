package ledger

import (
	"context"
	"fmt"

	"samamatroh/internal/db"
	"samamatroh/internal/logger"
	"samamatroh/internal/metrics"

	"github.com/shopspring/decimal"
)

type Service interface {
	GetBalance(ctx context.Context, userID int) (decimal.Decimal, error)
	TopUp(ctx context.Context, userID int, amount decimal.Decimal) (*Account, error)
}

type service struct {
	reader  db.Querier
	units   db.UnitRunner
	repo    Repository
	mutator *Mutator
}

func NewService(reader db.Querier, units db.UnitRunner, repo Repository, mutator *Mutator) Service {
	return &service{
		reader:  reader,
		units:   units,
		repo:    repo,
		mutator: mutator,
	}
}

func (s *service) GetBalance(ctx context.Context, userID int) (decimal.Decimal, error) {
	acc, err := s.repo.Get(ctx, s.reader, userID)
	if err != nil {
		return decimal.Zero, err
	}
	return acc.Balance, nil
}

// TopUp credits an account from outside the ledger (admin funding).
func (s *service) TopUp(ctx context.Context, userID int, amount decimal.Decimal) (*Account, error) {
	if err := CheckPositive(amount); err != nil {
		return nil, err
	}

	var acc *Account
	err := s.units.Do(ctx, func(ctx context.Context, q db.Querier) error {
		var err error
		acc, err = s.mutator.Adjust(ctx, q, userID, amount)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("top up account %d: %w", userID, err)
	}

	metrics.RecordTopUp()
	logger.Info("account topped up", "account_id", userID, "amount", amount.StringFixed(MoneyScale))

	return acc, nil
}
