package ledger

import (
	"context"
	"fmt"

	"samamatroh/internal/db"

	"github.com/shopspring/decimal"
)

// Mutator is the only code path allowed to change an account balance.
// It runs on the caller's unit querier and never commits on its own.
type Mutator struct {
	repo Repository
}

func NewMutator(repo Repository) *Mutator {
	return &Mutator{repo: repo}
}

// Adjust locks accountID and adds delta to its balance. A debit that
// leaves the balance below zero fails with ErrInsufficientFunds and
// nothing is written.
func (m *Mutator) Adjust(ctx context.Context, q db.Querier, accountID int, delta decimal.Decimal) (*Account, error) {
	acc, err := m.repo.GetForUpdate(ctx, q, accountID)
	if err != nil {
		return nil, err
	}

	if err := m.Apply(ctx, q, acc, delta); err != nil {
		return nil, err
	}
	return acc, nil
}

// Apply is Adjust for an account already locked in this unit (see
// LockPair). acc.Balance is updated in place on success. Credits are
// always accepted, so an account in debt can be paid back in parts.
func (m *Mutator) Apply(ctx context.Context, q db.Querier, acc *Account, delta decimal.Decimal) error {
	newBalance := acc.Balance.Add(delta)
	if delta.IsNegative() && newBalance.IsNegative() {
		return fmt.Errorf("account %d has %s, needs %s: %w",
			acc.ID, acc.Balance.StringFixed(MoneyScale), delta.Neg().StringFixed(MoneyScale), ErrInsufficientFunds)
	}
	return m.write(ctx, q, acc, newBalance)
}

// ApplyAllowNegative skips the non-negative check. Only reversals under
// the allow_debt policy use it, and they must report a negative result.
func (m *Mutator) ApplyAllowNegative(ctx context.Context, q db.Querier, acc *Account, delta decimal.Decimal) error {
	return m.write(ctx, q, acc, acc.Balance.Add(delta))
}

func (m *Mutator) write(ctx context.Context, q db.Querier, acc *Account, balance decimal.Decimal) error {
	if err := m.repo.SetBalance(ctx, q, acc.ID, balance); err != nil {
		return err
	}
	acc.Balance = balance
	return nil
}

// LockPair row-locks two accounts in ascending id order, so units locking
// the same pair in opposite roles cannot deadlock. Accounts are returned
// in argument order.
func (m *Mutator) LockPair(ctx context.Context, q db.Querier, a, b int) (*Account, *Account, error) {
	first, second := a, b
	if second < first {
		first, second = second, first
	}

	lockedFirst, err := m.repo.GetForUpdate(ctx, q, first)
	if err != nil {
		return nil, nil, err
	}
	if first == second {
		return lockedFirst, lockedFirst, nil
	}

	lockedSecond, err := m.repo.GetForUpdate(ctx, q, second)
	if err != nil {
		return nil, nil, err
	}

	if first == a {
		return lockedFirst, lockedSecond, nil
	}
	return lockedSecond, lockedFirst, nil
}
