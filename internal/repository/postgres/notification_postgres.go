package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/maxviazov/coursehub-service/internal/model"
	"github.com/maxviazov/coursehub-service/internal/pagination"
	"github.com/maxviazov/coursehub-service/internal/repository"
)

var notificationsTable = table[model.Notification]{
	name:    "notifications",
	columns: "id, user_id, kind, title, body, read_at, created_at",
	scan: func(row pgx.Row) (model.Notification, error) {
		var n model.Notification
		err := row.Scan(&n.ID, &n.UserID, &n.Kind, &n.Title, &n.Body, &n.ReadAt, &n.CreatedAt)
		return n, err
	},
}

type notificationRepository struct{ pool *pgxpool.Pool }

func NewNotificationRepository(pool *pgxpool.Pool) repository.NotificationRepository {
	return &notificationRepository{pool: pool}
}

func (r *notificationRepository) Create(ctx context.Context, n model.Notification) (model.Notification, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.Notification{}, err
	}
	row := getQ(ctx, r.pool).QueryRow(ctx,
		`INSERT INTO notifications (user_id, kind, title, body)
		 VALUES ($1, $2, $3, $4)
		 RETURNING `+notificationsTable.columns,
		n.UserID, n.Kind, n.Title, n.Body,
	)
	return scanOne(row, notificationsTable.scan)
}

func (r *notificationRepository) List(ctx context.Context, f repository.NotificationFilter, req pagination.Request) (pagination.Result[model.Notification], error) {
	return listPage(ctx, r.pool, notificationsTable, notificationWhere(f), f.Sort, repository.NotificationSortFields, req)
}

// MarkRead keeps the first read timestamp when called twice.
func (r *notificationRepository) MarkRead(ctx context.Context, userID, id int64, at time.Time) (model.Notification, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.Notification{}, err
	}
	row := getQ(ctx, r.pool).QueryRow(ctx,
		`UPDATE notifications SET read_at = COALESCE(read_at, $3)
		 WHERE id = $1 AND user_id = $2
		 RETURNING `+notificationsTable.columns,
		id, userID, at,
	)
	return scanOne(row, notificationsTable.scan)
}

func notificationWhere(f repository.NotificationFilter) where {
	var sp where
	if f.UserID != 0 {
		sp.add("user_id = ?", f.UserID)
	}
	if f.Kind != "" {
		sp.add("kind = ?", f.Kind)
	}
	if f.UnreadOnly {
		sp.add("read_at IS NULL")
	}
	return sp
}

var _ repository.NotificationRepository = (*notificationRepository)(nil)
