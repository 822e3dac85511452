package reservation

import (
	"context"
	"errors"
	"fmt"

	"samamatroh/internal/db"
	"samamatroh/internal/ledger"
	"samamatroh/internal/logger"
	"samamatroh/internal/metrics"

	"github.com/shopspring/decimal"
)

// Notifier delivers booking emails after a unit has committed.
type Notifier interface {
	SendReservationConfirmation(ctx context.Context, email, name, tripRef, total, balance string, reservationID int) error
	SendReservationCancellation(ctx context.Context, email, name, tripRef, refund string, reservationID int) error
}

type Service interface {
	Create(ctx context.Context, actor Actor, req CreateRequest) (*Reservation, error)
	Update(ctx context.Context, actor Actor, id int, req UpdateRequest) (*Reservation, error)
	Delete(ctx context.Context, actor Actor, id int) (*Reservation, error)
	Get(ctx context.Context, actor Actor, id int) (*Reservation, error)
	ListByClient(ctx context.Context, clientID, limit, offset int) ([]Reservation, error)
}

type service struct {
	reader   db.Querier
	units    db.UnitRunner
	repo     Repository
	accounts ledger.Repository
	mutator  *ledger.Mutator
	notifier Notifier
}

func NewService(reader db.Querier, units db.UnitRunner, repo Repository, accounts ledger.Repository, mutator *ledger.Mutator, notifier Notifier) Service {
	return &service{
		reader:   reader,
		units:    units,
		repo:     repo,
		accounts: accounts,
		mutator:  mutator,
		notifier: notifier,
	}
}

// Create debits the reservation total from the client and stores the
// reservation in the same unit.
func (s *service) Create(ctx context.Context, actor Actor, req CreateRequest) (res *Reservation, err error) {
	defer func() { metrics.RecordReservationOp("create", ledger.Outcome(err)) }()

	if err := req.MoneyComponents.Validate(); err != nil {
		return nil, err
	}

	clientID := actor.UserID
	if actor.Admin && req.ClientID > 0 {
		clientID = req.ClientID
	}

	res = &Reservation{
		ClientID:        clientID,
		TripRef:         req.TripRef,
		Seats:           req.Seats,
		Notes:           req.Notes,
		MoneyComponents: req.MoneyComponents,
	}
	total := res.Total()

	var acc *ledger.Account
	err = s.units.Do(ctx, func(ctx context.Context, q db.Querier) error {
		if total.IsPositive() {
			var err error
			if acc, err = s.mutator.Adjust(ctx, q, clientID, total.Neg()); err != nil {
				return err
			}
		}
		return s.repo.Create(ctx, q, res)
	})
	if err != nil {
		return nil, fmt.Errorf("create reservation for client %d: %w", clientID, err)
	}

	logger.Info("reservation created",
		"reservation_id", res.ID, "client_id", clientID, "total", total.StringFixed(ledger.MoneyScale))
	s.notifyCreated(ctx, res, acc)

	return res, nil
}

// Update re-reads the stored reservation under lock and moves only the
// difference between the stored and the new total.
func (s *service) Update(ctx context.Context, actor Actor, id int, req UpdateRequest) (res *Reservation, err error) {
	defer func() { metrics.RecordReservationOp("update", ledger.Outcome(err)) }()

	if err := req.MoneyComponents.Validate(); err != nil {
		return nil, err
	}

	var difference decimal.Decimal
	err = s.units.Do(ctx, func(ctx context.Context, q db.Querier) error {
		var err error
		res, err = s.repo.GetForUpdate(ctx, q, id)
		if err != nil {
			return err
		}
		if !actor.canAccess(res) {
			return ledger.ErrForbidden
		}

		difference = req.MoneyComponents.Total().Sub(res.TotalAmount)
		if !difference.IsZero() {
			if _, err := s.mutator.Adjust(ctx, q, res.ClientID, difference.Neg()); err != nil {
				return err
			}
		}

		res.MoneyComponents = req.MoneyComponents
		if req.TripRef != nil {
			res.TripRef = *req.TripRef
		}
		if req.Seats != nil {
			res.Seats = req.Seats
		}
		if req.Notes != nil {
			res.Notes = *req.Notes
		}
		return s.repo.Update(ctx, q, res)
	})
	if err != nil {
		return nil, fmt.Errorf("update reservation %d: %w", id, err)
	}

	logger.Info("reservation updated",
		"reservation_id", id, "client_id", res.ClientID, "difference", difference.StringFixed(ledger.MoneyScale))

	return res, nil
}

// Delete refunds the reservation total and removes the record. A client
// account that no longer exists does not block the delete.
func (s *service) Delete(ctx context.Context, actor Actor, id int) (res *Reservation, err error) {
	defer func() { metrics.RecordReservationOp("delete", ledger.Outcome(err)) }()

	var acc *ledger.Account
	err = s.units.Do(ctx, func(ctx context.Context, q db.Querier) error {
		var err error
		res, err = s.repo.GetForUpdate(ctx, q, id)
		if err != nil {
			return err
		}
		if !actor.canAccess(res) {
			return ledger.ErrForbidden
		}

		if res.TotalAmount.IsPositive() {
			acc, err = s.mutator.Adjust(ctx, q, res.ClientID, res.TotalAmount)
			if errors.Is(err, ledger.ErrNotFound) {
				logger.Warn("refund skipped, client account missing",
					"reservation_id", id, "client_id", res.ClientID, "amount", res.TotalAmount.StringFixed(ledger.MoneyScale))
			} else if err != nil {
				return err
			}
		}

		return s.repo.Delete(ctx, q, id)
	})
	if err != nil {
		return nil, fmt.Errorf("delete reservation %d: %w", id, err)
	}

	logger.Info("reservation deleted", "reservation_id", id, "client_id", res.ClientID)
	s.notifyDeleted(ctx, res, acc)

	return res, nil
}

func (s *service) Get(ctx context.Context, actor Actor, id int) (*Reservation, error) {
	res, err := s.repo.Get(ctx, s.reader, id)
	if err != nil {
		return nil, err
	}
	if !actor.canAccess(res) {
		return nil, ledger.ErrForbidden
	}
	return res, nil
}

func (s *service) ListByClient(ctx context.Context, clientID, limit, offset int) ([]Reservation, error) {
	return s.repo.ListByClient(ctx, s.reader, clientID, limit, offset)
}

func (s *service) notifyCreated(ctx context.Context, res *Reservation, acc *ledger.Account) {
	if s.notifier == nil {
		return
	}
	if acc == nil {
		var err error
		if acc, err = s.accounts.Get(ctx, s.reader, res.ClientID); err != nil {
			logger.Warn("reservation confirmation skipped", "reservation_id", res.ID, "error", err)
			return
		}
	}

	err := s.notifier.SendReservationConfirmation(ctx, acc.Email, acc.Name, res.TripRef,
		res.TotalAmount.StringFixed(ledger.MoneyScale), acc.Balance.StringFixed(ledger.MoneyScale), res.ID)
	if err != nil {
		logger.Warn("failed to queue reservation confirmation", "reservation_id", res.ID, "error", err)
	}
}

func (s *service) notifyDeleted(ctx context.Context, res *Reservation, acc *ledger.Account) {
	if s.notifier == nil || acc == nil {
		return
	}

	err := s.notifier.SendReservationCancellation(ctx, acc.Email, acc.Name, res.TripRef,
		res.TotalAmount.StringFixed(ledger.MoneyScale), res.ID)
	if err != nil {
		logger.Warn("failed to queue reservation cancellation", "reservation_id", res.ID, "error", err)
	}
}
