package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/maxviazov/coursehub-service/internal/model"
	"github.com/maxviazov/coursehub-service/internal/pagination"
	"github.com/maxviazov/coursehub-service/internal/repository"
)

var usersTable = table[model.User]{
	name:    "users",
	columns: "id, name, email, role, status, created_at, updated_at",
	scan: func(row pgx.Row) (model.User, error) {
		var u model.User
		err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.Status, &u.CreatedAt, &u.UpdatedAt)
		return u, err
	},
}

type userRepository struct{ pool *pgxpool.Pool }

func NewUserRepository(pool *pgxpool.Pool) repository.UserRepository {
	return &userRepository{pool: pool}
}

func (r *userRepository) Create(ctx context.Context, u model.User) (model.User, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.User{}, err
	}
	row := getQ(ctx, r.pool).QueryRow(ctx,
		`INSERT INTO users (name, email, role, status)
		 VALUES ($1, $2, $3, $4)
		 RETURNING `+usersTable.columns,
		u.Name, u.Email, u.Role, u.Status,
	)
	return scanOne(row, usersTable.scan)
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (model.User, error) {
	return getByID(ctx, r.pool, usersTable, id)
}

func (r *userRepository) List(ctx context.Context, f repository.UserFilter, req pagination.Request) (pagination.Result[model.User], error) {
	return listPage(ctx, r.pool, usersTable, userWhere(f), f.Sort, repository.UserSortFields, req)
}

func userWhere(f repository.UserFilter) where {
	var sp where
	if f.Role != "" {
		sp.add("role = ?", f.Role)
	}
	if f.Status != "" {
		sp.add("status = ?", f.Status)
	}
	if f.Search != "" {
		p := containsPattern(f.Search)
		sp.add("(name ILIKE ? OR email ILIKE ?)", p, p)
	}
	return sp
}

var _ repository.UserRepository = (*userRepository)(nil)
