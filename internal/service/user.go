package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/maxviazov/coursehub-service/internal/metrics"
	"github.com/maxviazov/coursehub-service/internal/model"
	"github.com/maxviazov/coursehub-service/internal/pagination"
	"github.com/maxviazov/coursehub-service/internal/repository"
)

type userService struct {
	users   repository.UserRepository
	metrics *metrics.Metrics
	log     zerolog.Logger
}

func NewUserService(users repository.UserRepository, m *metrics.Metrics, logger zerolog.Logger) UserService {
	l := logger.With().Str("module", "service").Str("component", "user").Logger()
	return &userService{users: users, metrics: m, log: l}
}

func (s *userService) CreateUser(ctx context.Context, in CreateUserInput) (model.User, error) {
	start := time.Now()
	name := strings.TrimSpace(in.Name)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	role := strings.ToLower(strings.TrimSpace(in.Role))
	if role == "" {
		role = model.RoleStudent
	}

	var ferrs []FieldError
	if ln := len([]rune(name)); ln < 2 || ln > 100 {
		ferrs = append(ferrs, FieldError{Field: "name", Message: "length must be between 2 and 100"})
	}
	if !isValidEmail(email) {
		ferrs = append(ferrs, FieldError{Field: "email", Message: "must be a valid email address"})
	}
	if !isOneOf(role, userRoles) {
		ferrs = append(ferrs, FieldError{Field: "role", Message: oneOfMessage(userRoles)})
	}
	if err := newInvalidInput(ferrs); err != nil {
		s.log.Debug().Interface("field_errors", ferrs).Msg("user validation failed")
		return model.User{}, err
	}

	out, err := s.users.Create(ctx, model.User{Name: name, Email: email, Role: role, Status: model.UserActive})
	if err != nil {
		s.log.Error().Err(err).Str("role", role).Msg("create user failed")
		return model.User{}, err
	}
	s.log.Info().Dur("took", time.Since(start)).Int64("user_id", out.ID).Str("role", role).Msg("user created")
	return out, nil
}

func (s *userService) GetUser(ctx context.Context, id int64) (model.User, error) {
	if id <= 0 {
		return model.User{}, invalidID("id")
	}
	return s.users.GetByID(ctx, id)
}

func (s *userService) ListUsers(ctx context.Context, f repository.UserFilter, req pagination.Request) (pagination.Result[model.User], error) {
	var c filterChecks
	c.enum("role", f.Role, userRoles)
	c.enum("status", f.Status, userStatuses)
	c.search(f.Search)
	c.sort(f.Sort, repository.UserSortFields)
	if err := c.err(); err != nil {
		return pagination.Result[model.User]{}, err
	}
	return observeList(ctx, s.log, s.metrics, "users", req, func(ctx context.Context) (pagination.Result[model.User], error) {
		return s.users.List(ctx, f, req)
	})
}
