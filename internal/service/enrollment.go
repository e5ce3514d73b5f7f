package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/maxviazov/coursehub-service/internal/metrics"
	"github.com/maxviazov/coursehub-service/internal/model"
	"github.com/maxviazov/coursehub-service/internal/pagination"
	"github.com/maxviazov/coursehub-service/internal/repository"
)

// NotificationKindEnrolled is sent to a student after a successful enrollment.
const NotificationKindEnrolled = "enrollment"

type enrollmentService struct {
	store   repository.Store
	metrics *metrics.Metrics
	log     zerolog.Logger
}

// NewEnrollmentService needs the whole store: enrolling reads users and
// courses and writes an enrollment plus a notification in one transaction.
func NewEnrollmentService(store repository.Store, m *metrics.Metrics, logger zerolog.Logger) EnrollmentService {
	l := logger.With().Str("module", "service").Str("component", "enrollment").Logger()
	return &enrollmentService{store: store, metrics: m, log: l}
}

func (s *enrollmentService) Enroll(ctx context.Context, userID, courseID int64) (model.Enrollment, error) {
	start := time.Now()
	var ferrs []FieldError
	if userID <= 0 {
		ferrs = append(ferrs, FieldError{Field: "user_id", Message: "must be > 0"})
	}
	if courseID <= 0 {
		ferrs = append(ferrs, FieldError{Field: "course_id", Message: "must be > 0"})
	}
	if err := newInvalidInput(ferrs); err != nil {
		return model.Enrollment{}, err
	}

	var out model.Enrollment
	err := s.store.Tx.WithinTx(ctx, func(ctx context.Context) error {
		user, err := s.store.Users.GetByID(ctx, userID)
		if errors.Is(err, repository.ErrNotFound) {
			return newInvalidInput([]FieldError{{Field: "user_id", Message: "user does not exist"}})
		}
		if err != nil {
			return err
		}
		if user.Status != model.UserActive {
			return newInvalidInput([]FieldError{{Field: "user_id", Message: "user is blocked"}})
		}

		course, err := s.store.Courses.GetByID(ctx, courseID)
		if errors.Is(err, repository.ErrNotFound) {
			return newInvalidInput([]FieldError{{Field: "course_id", Message: "course does not exist"}})
		}
		if err != nil {
			return err
		}
		if course.Status != model.CoursePublished {
			return newInvalidInput([]FieldError{{Field: "course_id", Message: "course is not open for enrollment"}})
		}

		out, err = s.store.Enrollments.Create(ctx, model.Enrollment{
			UserID:   userID,
			CourseID: courseID,
			Status:   model.EnrollmentActive,
		})
		if err != nil {
			return err
		}

		_, err = s.store.Notifications.Create(ctx, model.Notification{
			UserID: userID,
			Kind:   NotificationKindEnrolled,
			Title:  fmt.Sprintf("You are enrolled in %s", course.Title),
		})
		return err
	})
	if err != nil {
		if !errors.Is(err, ErrInvalidInput) {
			s.log.Error().Err(err).Int64("user_id", userID).Int64("course_id", courseID).Msg("enroll failed")
		}
		return model.Enrollment{}, err
	}
	s.log.Info().Dur("took", time.Since(start)).Int64("enrollment_id", out.ID).Int64("course_id", courseID).Msg("user enrolled")
	return out, nil
}

func (s *enrollmentService) GetEnrollment(ctx context.Context, id int64) (model.Enrollment, error) {
	if id <= 0 {
		return model.Enrollment{}, invalidID("id")
	}
	return s.store.Enrollments.GetByID(ctx, id)
}

func (s *enrollmentService) ListEnrollments(ctx context.Context, f repository.EnrollmentFilter, req pagination.Request) (pagination.Result[model.Enrollment], error) {
	var c filterChecks
	c.id("user_id", f.UserID)
	c.id("course_id", f.CourseID)
	c.enum("status", f.Status, enrollmentStatuses)
	c.sort(f.Sort, repository.EnrollmentSortFields)
	if err := c.err(); err != nil {
		return pagination.Result[model.Enrollment]{}, err
	}
	return observeList(ctx, s.log, s.metrics, "enrollments", req, func(ctx context.Context) (pagination.Result[model.Enrollment], error) {
		return s.store.Enrollments.List(ctx, f, req)
	})
}
