// Package worker runs background jobs outside the request path. Jobs are
// read-mostly and never share locks with the checkout transaction.
package worker

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/mayankwalia/MyBasketBackend/internal/domain"
	"github.com/mayankwalia/MyBasketBackend/internal/repository"
	"github.com/mayankwalia/MyBasketBackend/pkg/httpclient"
)

// Reminder reasons carried in events and webhook payloads.
const (
	ReasonInactive      = "inactive"
	ReasonNoRecentOrder = "no_recent_order"
)

// ReminderPublisher publishes reminder events for the notification system.
type ReminderPublisher interface {
	UserReminder(ctx context.Context, user *domain.User, reason string) error
}

// ReminderConfig controls the reminder job cadence and thresholds.
type ReminderConfig struct {
	Interval      time.Duration
	InactiveAfter time.Duration
	NoOrderAfter  time.Duration
	WebhookURL    string
}

// ReminderWorker periodically finds customers who have gone quiet and hands
// them to the notification system, via Kafka and an optional webhook.
type ReminderWorker struct {
	users   repository.UserRepository
	events  ReminderPublisher
	webhook *httpclient.CircuitBreakerClient
	cfg     ReminderConfig
	logger  *slog.Logger
}

// NewReminderWorker creates the reminder worker. The webhook client may be
// nil when no webhook is configured.
func NewReminderWorker(
	users repository.UserRepository,
	events ReminderPublisher,
	webhook *httpclient.CircuitBreakerClient,
	cfg ReminderConfig,
	logger *slog.Logger,
) *ReminderWorker {
	return &ReminderWorker{
		users:   users,
		events:  events,
		webhook: webhook,
		cfg:     cfg,
		logger:  logger,
	}
}

// Run executes the job on a ticker until the context is canceled.
func (w *ReminderWorker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.cfg.Interval)
	defer ticker.Stop()

	w.logger.Info("reminder worker started",
		slog.Duration("interval", w.cfg.Interval),
	)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("reminder worker stopped")
			return
		case <-ticker.C:
			w.runOnce(ctx)
		}
	}
}

func (w *ReminderWorker) runOnce(ctx context.Context) {
	now := time.Now().UTC()

	inactive, err := w.users.UsersInactiveSince(ctx, now.Add(-w.cfg.InactiveAfter))
	if err != nil {
		w.logger.ErrorContext(ctx, "inactive user query failed",
			slog.String("error", err.Error()),
		)
	} else {
		w.remind(ctx, inactive, ReasonInactive)
	}

	quiet, err := w.users.UsersWithNoOrderSince(ctx, now.Add(-w.cfg.NoOrderAfter))
	if err != nil {
		w.logger.ErrorContext(ctx, "no-recent-order query failed",
			slog.String("error", err.Error()),
		)
		return
	}
	w.remind(ctx, quiet, ReasonNoRecentOrder)
}

func (w *ReminderWorker) remind(ctx context.Context, users []domain.User, reason string) {
	for i := range users {
		u := &users[i]
		if err := w.events.UserReminder(ctx, u, reason); err != nil {
			w.logger.WarnContext(ctx, "reminder event not published",
				slog.String("user_id", u.ID),
				slog.String("reason", reason),
				slog.String("error", err.Error()),
			)
		}
		w.notifyWebhook(ctx, u, reason)
	}

	if len(users) > 0 {
		w.logger.InfoContext(ctx, "reminders dispatched",
			slog.String("reason", reason),
			slog.Int("count", len(users)),
		)
	}
}

// notifyWebhook fires the configured webhook through the circuit breaker.
// Failures only log; the reminder already went out on Kafka.
func (w *ReminderWorker) notifyWebhook(ctx context.Context, u *domain.User, reason string) {
	if w.webhook == nil || w.cfg.WebhookURL == "" {
		return
	}

	body, err := json.Marshal(map[string]string{
		"user_id": u.ID,
		"email":   u.Email,
		"reason":  reason,
	})
	if err != nil {
		return
	}

	resp, err := w.webhook.Post(ctx, w.cfg.WebhookURL, "application/json", bytes.NewReader(body))
	if err != nil {
		w.logger.WarnContext(ctx, "reminder webhook failed",
			slog.String("user_id", u.ID),
			slog.String("error", err.Error()),
		)
		return
	}
	_ = resp.Body.Close()
}
