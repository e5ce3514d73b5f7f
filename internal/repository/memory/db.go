// Package memory is a process-local storage backend. It honors the same
// repository contracts as the Postgres backend and is used for local runs
// and tests.
package memory

import (
	"context"
	"maps"
	"sync"
	"time"

	"github.com/maxviazov/coursehub-service/internal/model"
	"github.com/maxviazov/coursehub-service/internal/repository"
)

type table[T any] struct {
	rows   map[int64]T
	nextID int64
}

func newTable[T any]() table[T] { return table[T]{rows: make(map[int64]T)} }

func (t *table[T]) insert(id func(*T) *int64, row T) T {
	t.nextID++
	*id(&row) = t.nextID
	t.rows[t.nextID] = row
	return row
}

func (t table[T]) clone() table[T] {
	return table[T]{rows: maps.Clone(t.rows), nextID: t.nextID}
}

// DB holds every table behind one lock so cross-table checks (foreign keys,
// uniqueness) see a consistent state.
type DB struct {
	mu   sync.RWMutex
	txMu sync.Mutex
	now  func() time.Time

	users         table[model.User]
	courses       table[model.Course]
	enrollments   table[model.Enrollment]
	orders        table[model.Order]
	notifications table[model.Notification]
	certificates  table[model.Certificate]
}

type Option func(*DB)

// WithClock overrides the timestamp source used for created/issued columns.
func WithClock(now func() time.Time) Option {
	return func(db *DB) { db.now = now }
}

func Open(opts ...Option) *DB {
	db := &DB{
		now:           func() time.Time { return time.Now().UTC() },
		users:         newTable[model.User](),
		courses:       newTable[model.Course](),
		enrollments:   newTable[model.Enrollment](),
		orders:        newTable[model.Order](),
		notifications: newTable[model.Notification](),
		certificates:  newTable[model.Certificate](),
	}
	for _, o := range opts {
		o(db)
	}
	return db
}

type snapshot struct {
	users         table[model.User]
	courses       table[model.Course]
	enrollments   table[model.Enrollment]
	orders        table[model.Order]
	notifications table[model.Notification]
	certificates  table[model.Certificate]
}

func (db *DB) snapshot() snapshot {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return snapshot{
		users:         db.users.clone(),
		courses:       db.courses.clone(),
		enrollments:   db.enrollments.clone(),
		orders:        db.orders.clone(),
		notifications: db.notifications.clone(),
		certificates:  db.certificates.clone(),
	}
}

func (db *DB) restore(s snapshot) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.users = s.users
	db.courses = s.courses
	db.enrollments = s.enrollments
	db.orders = s.orders
	db.notifications = s.notifications
	db.certificates = s.certificates
}

type txKey struct{}

type txManager struct{ db *DB }

// WithinTx serializes transactions and restores a snapshot when fn fails.
// Writes made outside any transaction while one is running are lost on
// rollback; this backend is not meant for concurrent production traffic.
func (m *txManager) WithinTx(ctx context.Context, fn repository.TxFunc) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}
	m.db.txMu.Lock()
	defer m.db.txMu.Unlock()

	snap := m.db.snapshot()
	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		m.db.restore(snap)
		return err
	}
	return nil
}

type pinger struct{}

func (pinger) Ping(ctx context.Context) error { return ctx.Err() }

// NewStore wires every in-memory repository over db.
func NewStore(db *DB) repository.Store {
	return repository.Store{
		Users:         &userRepository{db: db},
		Courses:       &courseRepository{db: db},
		Enrollments:   &enrollmentRepository{db: db},
		Orders:        &orderRepository{db: db},
		Notifications: &notificationRepository{db: db},
		Certificates:  &certificateRepository{db: db},
		Tx:            &txManager{db: db},
		Pinger:        pinger{},
	}
}
