// Package service implements the scoring, ranking, and qualification
// engine behind the HTTP API.
package service

import (
	"context"
	"time"

	repository "github.com/hackarena/podium/internal/adapters/repository"
	"github.com/hackarena/podium/internal/domain/keylock"
	"github.com/hackarena/podium/internal/domain/model"
	"github.com/hackarena/podium/internal/domain/scoring"
	"github.com/hackarena/podium/pkg/logger"
)

// Default engine configuration constants.
const (
	defaultQualifierQuantity = 8
)

// Notifier accepts fire-and-forget notifications. Implementations must
// never block scoring; a false return means the message was dropped.
type Notifier interface {
	Notify(ctx context.Context, n model.Notification) bool
}

// Service is the scoring engine. All state lives in the Store; every
// operation re-derives current truth from it and commits through one
// atomic batch.
type Service struct {
	store repository.Store
	locks keylock.Locker

	cmp               scoring.Comparator
	qualifierQuantity int
	notifier          Notifier
	now               func() time.Time

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithComparator overrides the ranking order. The comparator must induce a
// deterministic total order over standings.
func WithComparator(cmp scoring.Comparator) Option {
	return func(s *Service) {
		if cmp != nil {
			s.cmp = cmp
		}
	}
}

// WithQualifierQuantity sets how many teams a qualification run selects.
func WithQualifierQuantity(quantity int) Option {
	return func(s *Service) {
		if quantity > 0 {
			s.qualifierQuantity = quantity
		}
	}
}

// WithNotifier sets the notification sink.
func WithNotifier(n Notifier) Option {
	return func(s *Service) {
		if n != nil {
			s.notifier = n
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// New constructs the engine over a store.
func New(store repository.Store, opts ...Option) *Service {
	s := &Service{
		store:             store,
		locks:             keylock.New(),
		cmp:               scoring.ByScoreDesc,
		qualifierQuantity: defaultQualifierQuantity,
		now:               time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = logger.Get().Named("engine")
	}

	return s
}

// notify pushes a fire-and-forget notification. Drops are logged, never
// surfaced: sink failures must not roll back scoring.
func (s *Service) notify(ctx context.Context, userID, message string) {
	if s.notifier == nil {
		return
	}
	n := model.Notification{
		UserID:    userID,
		Message:   message,
		CreatedAt: s.now(),
	}
	if !s.notifier.Notify(ctx, n) {
		s.logger.Warn(ctx, "notification dropped",
			logger.String("userID", userID),
		)
	}
}
