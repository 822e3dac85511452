package email

import (
	"context"
	"fmt"
)

const (
	KindTransferReceipt         = "transfer_receipt"
	KindReversalNotice          = "reversal_notice"
	KindReservationConfirmation = "reservation_confirmation"
	KindReservationCancellation = "reservation_cancellation"
)

const timeLayout = "Jan 2, 2006 at 3:04 PM"

// SendTransferReceipt tells the receiver that money arrived.
func (s *Service) SendTransferReceipt(ctx context.Context, email, name, senderName, amount string, transactionID int) error {
	subject := "You received " + amount
	body := fmt.Sprintf(`Hi %s,

%s sent you %s.

Transaction: #%d
Date: %s

- Samamatroh Team`, name, senderName, amount, transactionID, s.now().Format(timeLayout))

	return s.Send(ctx, KindTransferReceipt, email, name, subject, body)
}

// SendReversalNotice tells one party of a transfer that it was reversed.
func (s *Service) SendReversalNotice(ctx context.Context, email, name, amount string, transactionID int) error {
	subject := fmt.Sprintf("Transaction #%d reversed", transactionID)
	body := fmt.Sprintf(`Hi %s,

Transaction #%d of %s has been reversed by an administrator.
Your balance has been updated accordingly.

- Samamatroh Team`, name, transactionID, amount)

	return s.Send(ctx, KindReversalNotice, email, name, subject, body)
}

func (s *Service) SendReservationConfirmation(ctx context.Context, email, name, tripRef, total, balance string, reservationID int) error {
	subject := "Reservation Confirmed - " + tripRef
	body := fmt.Sprintf(`Hi %s,

Your reservation #%d is confirmed!

Trip: %s
Charged: %s
Remaining balance: %s

- Samamatroh Team`, name, reservationID, tripRef, total, balance)

	return s.Send(ctx, KindReservationConfirmation, email, name, subject, body)
}

func (s *Service) SendReservationCancellation(ctx context.Context, email, name, tripRef, refund string, reservationID int) error {
	subject := "Reservation Cancelled - " + tripRef
	body := fmt.Sprintf(`Hi %s,

Your reservation #%d has been cancelled.

Trip: %s
Refunded: %s

- Samamatroh Team`, name, reservationID, tripRef, refund)

	return s.Send(ctx, KindReservationCancellation, email, name, subject, body)
}
