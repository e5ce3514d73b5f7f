package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/maxviazov/coursehub-service/internal/model"
	"github.com/maxviazov/coursehub-service/internal/pagination"
	"github.com/maxviazov/coursehub-service/internal/repository"
)

var enrollmentsTable = table[model.Enrollment]{
	name:    "enrollments",
	columns: "id, user_id, course_id, status, progress, enrolled_at, completed_at",
	scan: func(row pgx.Row) (model.Enrollment, error) {
		var e model.Enrollment
		err := row.Scan(&e.ID, &e.UserID, &e.CourseID, &e.Status, &e.Progress, &e.EnrolledAt, &e.CompletedAt)
		return e, err
	},
}

type enrollmentRepository struct{ pool *pgxpool.Pool }

func NewEnrollmentRepository(pool *pgxpool.Pool) repository.EnrollmentRepository {
	return &enrollmentRepository{pool: pool}
}

func (r *enrollmentRepository) Create(ctx context.Context, e model.Enrollment) (model.Enrollment, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.Enrollment{}, err
	}
	row := getQ(ctx, r.pool).QueryRow(ctx,
		`INSERT INTO enrollments (user_id, course_id, status, progress)
		 VALUES ($1, $2, $3, $4)
		 RETURNING `+enrollmentsTable.columns,
		e.UserID, e.CourseID, e.Status, e.Progress,
	)
	return scanOne(row, enrollmentsTable.scan)
}

func (r *enrollmentRepository) GetByID(ctx context.Context, id int64) (model.Enrollment, error) {
	return getByID(ctx, r.pool, enrollmentsTable, id)
}

func (r *enrollmentRepository) List(ctx context.Context, f repository.EnrollmentFilter, req pagination.Request) (pagination.Result[model.Enrollment], error) {
	return listPage(ctx, r.pool, enrollmentsTable, enrollmentWhere(f), f.Sort, repository.EnrollmentSortFields, req)
}

func enrollmentWhere(f repository.EnrollmentFilter) where {
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

var _ repository.EnrollmentRepository = (*enrollmentRepository)(nil)
