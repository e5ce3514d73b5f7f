// Package service holds business logic orchestration across repositories and handlers.
// Kept intentionally lean: only use-case coordination, validation and domain error shaping.
package service

import (
	"context"
	"errors"

	"github.com/maxviazov/coursehub-service/internal/model"
	"github.com/maxviazov/coursehub-service/internal/pagination"
	"github.com/maxviazov/coursehub-service/internal/repository"
)

// ErrInvalidInput is the marker error for aggregated validation failures (maps to HTTP 400).
// Field-level details are retrieved via FieldErrors(err).
var ErrInvalidInput = errors.New("invalid input")

// FieldError describes a single invalid field in a client request.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// invalidInputError aggregates multiple FieldError instances and unwraps to ErrInvalidInput.
type invalidInputError struct {
	fields []FieldError
}

func (e *invalidInputError) Error() string        { return ErrInvalidInput.Error() }
func (e *invalidInputError) Unwrap() error        { return ErrInvalidInput }
func (e *invalidInputError) Fields() []FieldError { return e.fields }

// newInvalidInput builds an aggregated validation error if any field errors are present.
func newInvalidInput(fe []FieldError) error {
	if len(fe) == 0 {
		return nil
	}
	return &invalidInputError{fields: fe}
}

// NewInvalidInput lets outer layers (query binding) report field errors in the
// same shape as service validation.
func NewInvalidInput(fe ...FieldError) error { return newInvalidInput(fe) }

// FieldErrors extracts field errors from an aggregated validation error.
func FieldErrors(err error) []FieldError {
	if err == nil {
		return nil
	}
	type feIface interface{ Fields() []FieldError }
	var v feIface
	if errors.As(err, &v) && errors.Is(err, ErrInvalidInput) {
		return v.Fields()
	}
	return nil
}

// CreateUserInput carries the fields a client may set on a new account.
type CreateUserInput struct {
	Name  string
	Email string
	Role  string
}

// CreateCourseInput carries the fields a client may set on a new course.
// An empty Slug is derived from Title; an empty Status means draft.
type CreateCourseInput struct {
	TeacherID   int64
	Title       string
	Slug        string
	Description string
	Level       string
	Status      string
	PriceCents  int64
}

// UserService defines account use cases.
type UserService interface {
	CreateUser(ctx context.Context, in CreateUserInput) (model.User, error)
	GetUser(ctx context.Context, id int64) (model.User, error)
	ListUsers(ctx context.Context, f repository.UserFilter, req pagination.Request) (pagination.Result[model.User], error)
}

// CourseService defines catalog use cases.
type CourseService interface {
	CreateCourse(ctx context.Context, in CreateCourseInput) (model.Course, error)
	GetCourse(ctx context.Context, id int64) (model.Course, error)
	ListCourses(ctx context.Context, f repository.CourseFilter, req pagination.Request) (pagination.Result[model.Course], error)
}

// EnrollmentService defines enrollment use cases.
type EnrollmentService interface {
	Enroll(ctx context.Context, userID, courseID int64) (model.Enrollment, error)
	GetEnrollment(ctx context.Context, id int64) (model.Enrollment, error)
	ListEnrollments(ctx context.Context, f repository.EnrollmentFilter, req pagination.Request) (pagination.Result[model.Enrollment], error)
}

type OrderService interface {
	GetOrder(ctx context.Context, id int64) (model.Order, error)
	ListOrders(ctx context.Context, f repository.OrderFilter, req pagination.Request) (pagination.Result[model.Order], error)
}

// NotificationService defines inbox use cases. Listing is always scoped to one user.
type NotificationService interface {
	ListNotifications(ctx context.Context, f repository.NotificationFilter, req pagination.Request) (pagination.Result[model.Notification], error)
	MarkRead(ctx context.Context, userID, id int64) (model.Notification, error)
}

type CertificateService interface {
	GetCertificate(ctx context.Context, id int64) (model.Certificate, error)
	ListCertificates(ctx context.Context, f repository.CertificateFilter, req pagination.Request) (pagination.Result[model.Certificate], error)
}

// Services bundles every use case the HTTP layer exposes.
type Services struct {
	Users         UserService
	Courses       CourseService
	Enrollments   EnrollmentService
	Orders        OrderService
	Notifications NotificationService
	Certificates  CertificateService
}
