package repository

import (
	"context"
	"time"

	"github.com/maxviazov/coursehub-service/internal/model"
	"github.com/maxviazov/coursehub-service/internal/pagination"
)

// Pinger represents a minimal readiness probe capability.
// I use it to decouple health checks from storage implementation details.
type Pinger interface {
	Ping(ctx context.Context) error
}

// TxFunc is the unit of work executed within a transaction boundary.
// I pass context through so nested calls can honor cancellations and deadlines.
type TxFunc func(ctx context.Context) error

// TxManager abstracts transactional execution for repositories that support it.
type TxManager interface {
	WithinTx(ctx context.Context, fn TxFunc) error
}

// Every List below honors the list-query contract: total and data are
// computed from the same filter, ordering has an id tie-break, and a page past
// the end yields empty data with the true total.

// UserRepository declares persistence operations for users.
// I return domain models and surface sentinel errors from errors.go, never raw PG codes.
type UserRepository interface {
	Create(ctx context.Context, u model.User) (model.User, error)
	GetByID(ctx context.Context, id int64) (model.User, error)
	List(ctx context.Context, f UserFilter, req pagination.Request) (pagination.Result[model.User], error)
}

// CourseRepository declares persistence operations for the catalog.
type CourseRepository interface {
	Create(ctx context.Context, c model.Course) (model.Course, error)
	GetByID(ctx context.Context, id int64) (model.Course, error)
	List(ctx context.Context, f CourseFilter, req pagination.Request) (pagination.Result[model.Course], error)
}

type EnrollmentRepository interface {
	Create(ctx context.Context, e model.Enrollment) (model.Enrollment, error)
	GetByID(ctx context.Context, id int64) (model.Enrollment, error)
	List(ctx context.Context, f EnrollmentFilter, req pagination.Request) (pagination.Result[model.Enrollment], error)
}

type OrderRepository interface {
	Create(ctx context.Context, o model.Order) (model.Order, error)
	GetByID(ctx context.Context, id int64) (model.Order, error)
	List(ctx context.Context, f OrderFilter, req pagination.Request) (pagination.Result[model.Order], error)
}

// NotificationRepository adds MarkRead; it returns ErrNotFound when the
// notification does not belong to the user.
type NotificationRepository interface {
	Create(ctx context.Context, n model.Notification) (model.Notification, error)
	List(ctx context.Context, f NotificationFilter, req pagination.Request) (pagination.Result[model.Notification], error)
	MarkRead(ctx context.Context, userID, id int64, at time.Time) (model.Notification, error)
}

type CertificateRepository interface {
	Create(ctx context.Context, c model.Certificate) (model.Certificate, error)
	GetByID(ctx context.Context, id int64) (model.Certificate, error)
	List(ctx context.Context, f CertificateFilter, req pagination.Request) (pagination.Result[model.Certificate], error)
}

// Store bundles every repository one storage backend provides.
type Store struct {
	Users         UserRepository
	Courses       CourseRepository
	Enrollments   EnrollmentRepository
	Orders        OrderRepository
	Notifications NotificationRepository
	Certificates  CertificateRepository
	Tx            TxManager
	Pinger        Pinger
}
