package transfer

import (
	"context"
	"fmt"

	"samamatroh/internal/db"
	"samamatroh/internal/ledger"
	"samamatroh/internal/logger"
	"samamatroh/internal/metrics"

	"github.com/shopspring/decimal"
)

// Notifier delivers transfer emails after a unit has committed.
type Notifier interface {
	SendTransferReceipt(ctx context.Context, email, name, senderName, amount string, transactionID int) error
	SendReversalNotice(ctx context.Context, email, name, amount string, transactionID int) error
}

type Service interface {
	Transfer(ctx context.Context, senderID int, req SendRequest) (*Transaction, *ledger.Account, error)
	Reverse(ctx context.Context, transactionID int) (*Reversal, error)
	Get(ctx context.Context, id int) (*Transaction, error)
	ListForUser(ctx context.Context, userID, limit, offset int) ([]Transaction, error)
	List(ctx context.Context, limit, offset int) ([]Transaction, error)
}

type service struct {
	reader   db.Querier
	units    db.UnitRunner
	repo     Repository
	mutator  *ledger.Mutator
	policy   ReversalPolicy
	notifier Notifier
}

func NewService(reader db.Querier, units db.UnitRunner, repo Repository, mutator *ledger.Mutator, policy ReversalPolicy, notifier Notifier) Service {
	if policy == "" {
		policy = ReversalReject
	}
	return &service{
		reader:   reader,
		units:    units,
		repo:     repo,
		mutator:  mutator,
		policy:   policy,
		notifier: notifier,
	}
}

// Transfer moves amount from sender to receiver and records it. It
// returns the sender account as committed.
func (s *service) Transfer(ctx context.Context, senderID int, req SendRequest) (tx *Transaction, sender *ledger.Account, err error) {
	defer func() { metrics.RecordTransfer(ledger.Outcome(err)) }()

	if err := ledger.CheckPositive(req.Amount); err != nil {
		return nil, nil, err
	}
	if senderID == req.ReceiverID {
		return nil, nil, ledger.ErrSelfTransfer
	}

	tx = &Transaction{
		SenderID:    senderID,
		ReceiverID:  req.ReceiverID,
		Amount:      req.Amount,
		Description: req.Description,
	}

	var receiver *ledger.Account
	err = s.units.Do(ctx, func(ctx context.Context, q db.Querier) error {
		var err error
		sender, receiver, err = s.mutator.LockPair(ctx, q, senderID, req.ReceiverID)
		if err != nil {
			return err
		}

		if err := s.mutator.Apply(ctx, q, sender, req.Amount.Neg()); err != nil {
			return err
		}
		if err := s.mutator.Apply(ctx, q, receiver, req.Amount); err != nil {
			return err
		}

		return s.repo.Create(ctx, q, tx)
	})
	if err != nil {
		return nil, nil, fmt.Errorf("transfer %d -> %d: %w", senderID, req.ReceiverID, err)
	}

	logger.Info("transfer completed",
		"transaction_id", tx.ID, "sender_id", senderID, "receiver_id", req.ReceiverID,
		"amount", req.Amount.StringFixed(ledger.MoneyScale))

	if s.notifier != nil {
		if err := s.notifier.SendTransferReceipt(ctx, receiver.Email, receiver.Name, sender.Name,
			tx.Amount.StringFixed(ledger.MoneyScale), tx.ID); err != nil {
			logger.Warn("failed to queue transfer receipt", "transaction_id", tx.ID, "error", err)
		}
	}

	return tx, sender, nil
}

// Reverse undoes a transfer and deletes its record. What happens when the
// receiver has already spent the money depends on the reversal policy.
func (s *service) Reverse(ctx context.Context, transactionID int) (rev *Reversal, err error) {
	defer func() { metrics.RecordReversal(ledger.Outcome(err)) }()

	var sender, receiver *ledger.Account
	rev = &Reversal{}
	err = s.units.Do(ctx, func(ctx context.Context, q db.Querier) error {
		tx, err := s.repo.GetForUpdate(ctx, q, transactionID)
		if err != nil {
			return err
		}
		rev.Transaction = tx

		sender, receiver, err = s.mutator.LockPair(ctx, q, tx.SenderID, tx.ReceiverID)
		if err != nil {
			return err
		}

		if err := s.mutator.Apply(ctx, q, sender, tx.Amount); err != nil {
			return err
		}
		if err := s.debitReceiver(ctx, q, receiver, tx.Amount); err != nil {
			return err
		}

		return s.repo.Delete(ctx, q, tx.ID)
	})
	if err != nil {
		return nil, fmt.Errorf("reverse transaction %d: %w", transactionID, err)
	}

	rev.SenderBalance = sender.Balance
	rev.ReceiverBalance = receiver.Balance
	if receiver.Balance.IsNegative() {
		rev.Warning = WarningNegativeBalance
		metrics.RecordNegativeBalanceReversal()
		logger.Warn("reversal left receiver with negative balance",
			"transaction_id", transactionID, "receiver_id", receiver.ID,
			"balance", receiver.Balance.StringFixed(ledger.MoneyScale))
	}

	logger.Info("transaction reversed",
		"transaction_id", transactionID, "sender_id", sender.ID, "receiver_id", receiver.ID,
		"amount", rev.Transaction.Amount.StringFixed(ledger.MoneyScale))
	s.notifyReversal(ctx, rev.Transaction, sender, receiver)

	return rev, nil
}

func (s *service) debitReceiver(ctx context.Context, q db.Querier, receiver *ledger.Account, amount decimal.Decimal) error {
	if s.policy == ReversalAllowDebt {
		return s.mutator.ApplyAllowNegative(ctx, q, receiver, amount.Neg())
	}
	return s.mutator.Apply(ctx, q, receiver, amount.Neg())
}

func (s *service) notifyReversal(ctx context.Context, tx *Transaction, parties ...*ledger.Account) {
	if s.notifier == nil {
		return
	}
	amount := tx.Amount.StringFixed(ledger.MoneyScale)
	for _, acc := range parties {
		if err := s.notifier.SendReversalNotice(ctx, acc.Email, acc.Name, amount, tx.ID); err != nil {
			logger.Warn("failed to queue reversal notice", "transaction_id", tx.ID, "account_id", acc.ID, "error", err)
		}
	}
}

func (s *service) Get(ctx context.Context, id int) (*Transaction, error) {
	return s.repo.Get(ctx, s.reader, id)
}

func (s *service) ListForUser(ctx context.Context, userID, limit, offset int) ([]Transaction, error) {
	return s.repo.ListForUser(ctx, s.reader, userID, limit, offset)
}

func (s *service) List(ctx context.Context, limit, offset int) ([]Transaction, error) {
	return s.repo.List(ctx, s.reader, limit, offset)
}
