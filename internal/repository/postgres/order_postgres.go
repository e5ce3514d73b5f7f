package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/maxviazov/coursehub-service/internal/model"
	"github.com/maxviazov/coursehub-service/internal/pagination"
	"github.com/maxviazov/coursehub-service/internal/repository"
)

var ordersTable = table[model.Order]{
	name:    "orders",
	columns: "id, user_id, course_id, amount_cents, currency, status, created_at",
	scan: func(row pgx.Row) (model.Order, error) {
		var o model.Order
		err := row.Scan(&o.ID, &o.UserID, &o.CourseID, &o.AmountCents, &o.Currency, &o.Status, &o.CreatedAt)
		return o, err
	},
}

type orderRepository struct{ pool *pgxpool.Pool }

func NewOrderRepository(pool *pgxpool.Pool) repository.OrderRepository {
	return &orderRepository{pool: pool}
}

func (r *orderRepository) Create(ctx context.Context, o model.Order) (model.Order, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.Order{}, err
	}
	row := getQ(ctx, r.pool).QueryRow(ctx,
		`INSERT INTO orders (user_id, course_id, amount_cents, currency, status)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING `+ordersTable.columns,
		o.UserID, o.CourseID, o.AmountCents, o.Currency, o.Status,
	)
	return scanOne(row, ordersTable.scan)
}

func (r *orderRepository) GetByID(ctx context.Context, id int64) (model.Order, error) {
	return getByID(ctx, r.pool, ordersTable, id)
}

func (r *orderRepository) List(ctx context.Context, f repository.OrderFilter, req pagination.Request) (pagination.Result[model.Order], error) {
	return listPage(ctx, r.pool, ordersTable, orderWhere(f), f.Sort, repository.OrderSortFields, req)
}

func orderWhere(f repository.OrderFilter) where {
	var sp where
	if f.UserID != 0 {
		sp.add("user_id = ?", f.UserID)
	}
	if f.CourseID != 0 {
		sp.add("course_id = ?", f.CourseID)
	}
	if f.Status != "" {
		sp.add("status = ?", f.Status)
	}
	return sp
}

var _ repository.OrderRepository = (*orderRepository)(nil)
