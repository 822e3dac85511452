package email

import (
	"context"
	"encoding/json"
	"errors"
	"net/smtp"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

type sentMail struct {
	addr string
	to   []string
	msg  string
}

func newTestService(rdb *redis.Client) (*Service, *[]sentMail) {
	svc := NewWithClient(rdb, Options{
		From:     "noreply@samamatroh.com",
		FromName: "Samamatroh",
		SMTPHost: "smtp.test.com",
		SMTPPort: "587",
	})
	svc.now = func() time.Time { return fixedNow }
	svc.retryDelay = 0

	var sent []sentMail
	svc.send = func(addr string, _ smtp.Auth, _ string, to []string, msg []byte) error {
		sent = append(sent, sentMail{addr: addr, to: to, msg: string(msg)})
		return nil
	}
	return svc, &sent
}

func TestSend(t *testing.T) {
	db, mock := redismock.NewClientMock()

	job, err := json.Marshal(EmailJob{
		To:      "user@example.com",
		Name:    "User",
		Kind:    KindTransferReceipt,
		Subject: "Hello",
		Body:    "Test body",
		Created: fixedNow,
	})
	require.NoError(t, err)
	mock.ExpectLPush(queueKey, string(job)).SetVal(1)

	svc, _ := newTestService(db)

	err = svc.Send(context.Background(), KindTransferReceipt, "user@example.com", "User", "Hello", "Test body")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSendError(t *testing.T) {
	db, mock := redismock.NewClientMock()
	mock.Regexp().ExpectLPush(queueKey, `.*`).SetErr(assert.AnError)

	svc, _ := newTestService(db)

	err := svc.Send(context.Background(), KindTransferReceipt, "user@example.com", "User", "Hello", "Test body")
	assert.ErrorIs(t, err, assert.AnError)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTemplates(t *testing.T) {
	tests := []struct {
		name string
		send func(*Service) error
	}{
		{"transfer receipt", func(s *Service) error {
			return s.SendTransferReceipt(context.Background(), "r@example.com", "Rita", "Sam", "40.00", 7)
		}},
		{"reversal notice", func(s *Service) error {
			return s.SendReversalNotice(context.Background(), "r@example.com", "Rita", "40.00", 7)
		}},
		{"reservation confirmation", func(s *Service) error {
			return s.SendReservationConfirmation(context.Background(), "r@example.com", "Rita", "HAJJ-2026-A", "100.00", "60.00", 3)
		}},
		{"reservation cancellation", func(s *Service) error {
			return s.SendReservationCancellation(context.Background(), "r@example.com", "Rita", "HAJJ-2026-A", "100.00", 3)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := redismock.NewClientMock()
			mock.Regexp().ExpectLPush(queueKey, `.*`).SetVal(1)

			svc, _ := newTestService(db)
			assert.NoError(t, tt.send(svc))
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestDeliver_Success(t *testing.T) {
	db, mock := redismock.NewClientMock()
	svc, sent := newTestService(db)

	svc.deliver(context.Background(), EmailJob{To: "r@example.com", Subject: "Hi", Body: "Body"})

	require.Len(t, *sent, 1)
	assert.Equal(t, "smtp.test.com:587", (*sent)[0].addr)
	assert.Equal(t, []string{"r@example.com"}, (*sent)[0].to)
	assert.Contains(t, (*sent)[0].msg, "Subject: Hi\r\n")
	assert.Contains(t, (*sent)[0].msg, "From: Samamatroh <noreply@samamatroh.com>")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeliver_RequeuesOnFailure(t *testing.T) {
	db, mock := redismock.NewClientMock()
	svc, _ := newTestService(db)
	svc.send = func(string, smtp.Auth, string, []string, []byte) error { return errors.New("smtp down") }

	retry, err := json.Marshal(EmailJob{To: "r@example.com", Tries: 1})
	require.NoError(t, err)
	mock.ExpectLPush(queueKey, string(retry)).SetVal(1)

	svc.deliver(context.Background(), EmailJob{To: "r@example.com"})
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeliver_ParksAfterLastAttempt(t *testing.T) {
	db, mock := redismock.NewClientMock()
	svc, _ := newTestService(db)
	svc.send = func(string, smtp.Auth, string, []string, []byte) error { return errors.New("smtp down") }

	mock.Regexp().ExpectLPush(failedQueueKey, `.*smtp down.*`).SetVal(1)

	svc.deliver(context.Background(), EmailJob{To: "r@example.com", Tries: maxTries - 1})
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQueueLength(t *testing.T) {
	db, mock := redismock.NewClientMock()
	mock.ExpectLLen(queueKey).SetVal(5)

	svc, _ := newTestService(db)

	assert.Equal(t, int64(5), svc.QueueLength(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStartStopsOnCancel(t *testing.T) {
	db, _ := redismock.NewClientMock()
	svc, _ := newTestService(db)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.NoError(t, svc.Start(ctx))
}
