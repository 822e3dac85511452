package email

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/smtp"
	"time"

	"samamatroh/internal/logger"
	"samamatroh/internal/metrics"

	"github.com/redis/go-redis/v9"
)

const (
	queueKey       = "emails"
	failedQueueKey = "emails:failed"
	maxTries       = 3
	retryDelay     = 5 * time.Second
	popTimeout     = 2 * time.Second
)

type EmailJob struct {
	To      string    `json:"to"`
	Name    string    `json:"name"`
	Kind    string    `json:"kind"`
	Subject string    `json:"subject"`
	Body    string    `json:"body"`
	Tries   int       `json:"tries"`
	Created time.Time `json:"created"`
}

type Options struct {
	From      string
	FromName  string
	SMTPHost  string
	SMTPPort  string
	SMTPUser  string
	SMTPPass  string
	RedisAddr string
}

type Service struct {
	redis    *redis.Client
	from     string
	fromName string
	smtpHost string
	smtpPort string
	smtpUser string
	smtpPass string

	send       func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
	now        func() time.Time
	retryDelay time.Duration
}

func New(opts Options) *Service {
	return NewWithClient(redis.NewClient(&redis.Options{Addr: opts.RedisAddr}), opts)
}

// NewWithClient builds the service on an existing Redis client.
func NewWithClient(rdb *redis.Client, opts Options) *Service {
	return &Service{
		redis:    rdb,
		from:     opts.From,
		fromName: opts.FromName,
		smtpHost: opts.SMTPHost,
		smtpPort: opts.SMTPPort,
		smtpUser: opts.SMTPUser,
		smtpPass: opts.SMTPPass,
		send:       smtp.SendMail,
		now:        time.Now,
		retryDelay: retryDelay,
	}
}

// Ping checks the queue backend.
func (s *Service) Ping(ctx context.Context) error {
	return s.redis.Ping(ctx).Err()
}

// Send queues one message. Delivery happens in Start.
func (s *Service) Send(ctx context.Context, kind, to, name, subject, body string) error {
	job := EmailJob{
		To:      to,
		Name:    name,
		Kind:    kind,
		Subject: subject,
		Body:    body,
		Created: s.now(),
	}

	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal email job: %w", err)
	}

	if err := s.redis.LPush(ctx, queueKey, string(data)).Err(); err != nil {
		metrics.RecordEmail(kind, "queue_failed")
		return fmt.Errorf("queue email to %s: %w", to, err)
	}

	metrics.RecordEmail(kind, "queued")
	logger.Debug("email queued", "kind", kind, "to", to)
	return nil
}

// Start delivers queued messages until ctx is cancelled.
func (s *Service) Start(ctx context.Context) error {
	logger.Info("email worker started")

	for {
		select {
		case <-ctx.Done():
			logger.Info("email worker stopped")
			return nil
		default:
			s.processNext(ctx)
		}
	}
}

func (s *Service) processNext(ctx context.Context) {
	result, err := s.redis.BRPop(ctx, popTimeout, queueKey).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) && ctx.Err() == nil {
			logger.Warn("email queue read failed", "error", err)
			sleep(ctx, popTimeout)
		}
		return
	}

	var job EmailJob
	if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
		logger.Error("dropping malformed email job", "error", err)
		return
	}

	s.deliver(ctx, job)
	metrics.SetEmailQueueLength(s.QueueLength(ctx))
}

func (s *Service) deliver(ctx context.Context, job EmailJob) {
	job.Tries++
	err := s.sendNow(job)
	if err == nil {
		metrics.RecordEmail(job.Kind, "sent")
		logger.Info("email sent", "kind", job.Kind, "to", job.To, "attempt", job.Tries)
		return
	}

	logger.Warn("email delivery failed", "kind", job.Kind, "to", job.To, "attempt", job.Tries, "error", err)

	if job.Tries < maxTries {
		sleep(ctx, s.retryDelay)
		data, _ := json.Marshal(job)
		if err := s.redis.LPush(context.WithoutCancel(ctx), queueKey, string(data)).Err(); err != nil {
			logger.Error("failed to requeue email", "to", job.To, "error", err)
		}
		return
	}

	metrics.RecordEmail(job.Kind, "failed")
	s.saveFailed(ctx, job, err)
}

func (s *Service) sendNow(job EmailJob) error {
	message := fmt.Sprintf("From: %s <%s>\r\n", s.fromName, s.from)
	message += fmt.Sprintf("To: %s\r\n", job.To)
	message += fmt.Sprintf("Subject: %s\r\n", job.Subject)
	message += "\r\n" + job.Body

	var auth smtp.Auth
	if s.smtpUser != "" && s.smtpPass != "" {
		auth = smtp.PlainAuth("", s.smtpUser, s.smtpPass, s.smtpHost)
	}

	return s.send(s.smtpHost+":"+s.smtpPort, auth, s.from, []string{job.To}, []byte(message))
}

func (s *Service) saveFailed(ctx context.Context, job EmailJob, cause error) {
	failed := map[string]interface{}{
		"job":   job,
		"error": cause.Error(),
		"time":  s.now(),
	}
	data, _ := json.Marshal(failed)
	if err := s.redis.LPush(context.WithoutCancel(ctx), failedQueueKey, string(data)).Err(); err != nil {
		logger.Error("failed to park email", "to", job.To, "error", err)
		return
	}
	logger.Error("email moved to failed queue", "to", job.To, "tries", job.Tries)
}

func (s *Service) QueueLength(ctx context.Context) int64 {
	length, _ := s.redis.LLen(ctx, queueKey).Result()
	return length
}

func (s *Service) Close() error {
	return s.redis.Close()
}

func sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
