package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/maxviazov/coursehub-service/internal/metrics"
	"github.com/maxviazov/coursehub-service/internal/model"
	"github.com/maxviazov/coursehub-service/internal/pagination"
	"github.com/maxviazov/coursehub-service/internal/repository"
)

const maxKindLen = 50

type notificationService struct {
	notifications repository.NotificationRepository
	metrics       *metrics.Metrics
	log           zerolog.Logger
	now           func() time.Time
}

func NewNotificationService(notifications repository.NotificationRepository, m *metrics.Metrics, logger zerolog.Logger) NotificationService {
	l := logger.With().Str("module", "service").Str("component", "notification").Logger()
	return &notificationService{
		notifications: notifications,
		metrics:       m,
		log:           l,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

func (s *notificationService) ListNotifications(ctx context.Context, f repository.NotificationFilter, req pagination.Request) (pagination.Result[model.Notification], error) {
	var c filterChecks
	if f.UserID <= 0 {
		c.errs = append(c.errs, FieldError{Field: "user_id", Message: "must be > 0"})
	}
	if len(f.Kind) > maxKindLen {
		c.errs = append(c.errs, FieldError{Field: "kind", Message: fmt.Sprintf("length must be <= %d", maxKindLen)})
	}
	c.sort(f.Sort, repository.NotificationSortFields)
	if err := c.err(); err != nil {
		return pagination.Result[model.Notification]{}, err
	}
	return observeList(ctx, s.log, s.metrics, "notifications", req, func(ctx context.Context) (pagination.Result[model.Notification], error) {
		return s.notifications.List(ctx, f, req)
	})
}

// MarkRead is idempotent: a second call keeps the original read time.
func (s *notificationService) MarkRead(ctx context.Context, userID, id int64) (model.Notification, error) {
	var ferrs []FieldError
	if userID <= 0 {
		ferrs = append(ferrs, FieldError{Field: "user_id", Message: "must be > 0"})
	}
	if id <= 0 {
		ferrs = append(ferrs, FieldError{Field: "id", Message: "must be > 0"})
	}
	if err := newInvalidInput(ferrs); err != nil {
		return model.Notification{}, err
	}
	out, err := s.notifications.MarkRead(ctx, userID, id, s.now())
	if err != nil {
		return model.Notification{}, err
	}
	s.log.Debug().Int64("notification_id", id).Int64("user_id", userID).Msg("notification read")
	return out, nil
}
