// Package dispatch connects the scoring engine to the notification queue
// and provides the default delivery backend.
package dispatch

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/hackarena/podium/internal/adapters/mq/queue"
	"github.com/hackarena/podium/internal/domain/model"
	"github.com/hackarena/podium/pkg/logger"
)

// QueueNotifier publishes engine notifications onto a queue. Enqueue is
// non-blocking; a full queue drops the notification.
type QueueNotifier struct {
	queue queue.Queue
	now   func() time.Time
}

// NewQueueNotifier creates a notifier backed by the given queue.
func NewQueueNotifier(q queue.Queue) *QueueNotifier {
	return &QueueNotifier{queue: q, now: time.Now}
}

// Notify enqueues a notification for asynchronous delivery. Missing IDs and
// timestamps are filled in here so callers only supply recipient and message.
func (n *QueueNotifier) Notify(ctx context.Context, notification model.Notification) bool {
	if notification.ID == "" {
		notification.ID = uuid.NewString()
	}
	if notification.CreatedAt.IsZero() {
		notification.CreatedAt = n.now()
	}
	return n.queue.Enqueue(ctx, notification)
}

// LogSender delivers notifications to the service log. It stands in for an
// email or push backend in deployments that have none configured.
type LogSender struct {
	logger logger.Logger
}

// NewLogSender creates a log-backed sender.
func NewLogSender() *LogSender {
	return &LogSender{logger: logger.Get().Named("notify")}
}

// Send writes the notification to the log.
func (s *LogSender) Send(ctx context.Context, n model.Notification) error {
	s.logger.Info(ctx, "notification delivered",
		logger.String("notificationID", n.ID),
		logger.String("userID", n.UserID),
		logger.String("message", n.Message),
	)
	return nil
}
