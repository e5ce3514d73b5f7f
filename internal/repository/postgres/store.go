package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/maxviazov/coursehub-service/internal/repository"
)

type pinger struct{ pool *pgxpool.Pool }

// NewPinger adapts pgxpool to the repository.Pinger interface.
func NewPinger(pool *pgxpool.Pool) repository.Pinger { return &pinger{pool: pool} }

func (p *pinger) Ping(ctx context.Context) error { return p.pool.Ping(ctx) }

// NewStore wires every Postgres repository over one pool.
func NewStore(pool *pgxpool.Pool) repository.Store {
	return repository.Store{
		Users:         NewUserRepository(pool),
		Courses:       NewCourseRepository(pool),
		Enrollments:   NewEnrollmentRepository(pool),
		Orders:        NewOrderRepository(pool),
		Notifications: NewNotificationRepository(pool),
		Certificates:  NewCertificateRepository(pool),
		Tx:            NewTxManager(pool),
		Pinger:        NewPinger(pool),
	}
}
