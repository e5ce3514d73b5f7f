package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/maxviazov/coursehub-service/internal/metrics"
	"github.com/maxviazov/coursehub-service/internal/model"
	"github.com/maxviazov/coursehub-service/internal/pagination"
	"github.com/maxviazov/coursehub-service/internal/repository"
)

type courseService struct {
	courses repository.CourseRepository
	users   repository.UserRepository
	metrics *metrics.Metrics
	log     zerolog.Logger
}

func NewCourseService(courses repository.CourseRepository, users repository.UserRepository, m *metrics.Metrics, logger zerolog.Logger) CourseService {
	l := logger.With().Str("module", "service").Str("component", "course").Logger()
	return &courseService{courses: courses, users: users, metrics: m, log: l}
}

func (s *courseService) CreateCourse(ctx context.Context, in CreateCourseInput) (model.Course, error) {
	start := time.Now()
	title := strings.TrimSpace(in.Title)
	slug := strings.TrimSpace(in.Slug)
	if slug == "" {
		slug = slugify(title)
	}
	level := strings.ToLower(strings.TrimSpace(in.Level))
	status := strings.ToLower(strings.TrimSpace(in.Status))
	if status == "" {
		status = model.CourseDraft
	}

	var ferrs []FieldError
	if in.TeacherID <= 0 {
		ferrs = append(ferrs, FieldError{Field: "teacher_id", Message: "must be > 0"})
	}
	if ln := len([]rune(title)); ln < 3 || ln > 120 {
		ferrs = append(ferrs, FieldError{Field: "title", Message: "length must be between 3 and 120"})
	}
	if !slugPattern.MatchString(slug) || len(slug) > 140 {
		ferrs = append(ferrs, FieldError{Field: "slug", Message: "must be lowercase words joined by dashes"})
	}
	if !isOneOf(level, courseLevels) {
		ferrs = append(ferrs, FieldError{Field: "level", Message: oneOfMessage(courseLevels)})
	}
	if !isOneOf(status, courseStatuses) {
		ferrs = append(ferrs, FieldError{Field: "status", Message: oneOfMessage(courseStatuses)})
	}
	if in.PriceCents < 0 {
		ferrs = append(ferrs, FieldError{Field: "price_cents", Message: "must be >= 0"})
	}
	if err := newInvalidInput(ferrs); err != nil {
		s.log.Debug().Interface("field_errors", ferrs).Msg("course validation failed")
		return model.Course{}, err
	}

	teacher, err := s.users.GetByID(ctx, in.TeacherID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.Course{}, newInvalidInput([]FieldError{{Field: "teacher_id", Message: "user does not exist"}})
		}
		return model.Course{}, err
	}
	if teacher.Role != model.RoleTeacher && teacher.Role != model.RoleAdmin {
		return model.Course{}, newInvalidInput([]FieldError{{Field: "teacher_id", Message: "user is not a teacher"}})
	}

	out, err := s.courses.Create(ctx, model.Course{
		TeacherID:   in.TeacherID,
		Title:       title,
		Slug:        slug,
		Description: strings.TrimSpace(in.Description),
		Level:       level,
		Status:      status,
		PriceCents:  in.PriceCents,
	})
	if err != nil {
		s.log.Error().Err(err).Int64("teacher_id", in.TeacherID).Str("slug", slug).Msg("create course failed")
		return model.Course{}, err
	}
	s.log.Info().Dur("took", time.Since(start)).Int64("course_id", out.ID).Msg("course created")
	return out, nil
}

func (s *courseService) GetCourse(ctx context.Context, id int64) (model.Course, error) {
	if id <= 0 {
		return model.Course{}, invalidID("id")
	}
	return s.courses.GetByID(ctx, id)
}

func (s *courseService) ListCourses(ctx context.Context, f repository.CourseFilter, req pagination.Request) (pagination.Result[model.Course], error) {
	var c filterChecks
	c.id("teacher_id", f.TeacherID)
	c.enum("status", f.Status, courseStatuses)
	c.enum("level", f.Level, courseLevels)
	c.search(f.Search)
	c.sort(f.Sort, repository.CourseSortFields)
	if err := c.err(); err != nil {
		return pagination.Result[model.Course]{}, err
	}
	return observeList(ctx, s.log, s.metrics, "courses", req, func(ctx context.Context) (pagination.Result[model.Course], error) {
		return s.courses.List(ctx, f, req)
	})
}
