package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/maxviazov/coursehub-service/internal/model"
	"github.com/maxviazov/coursehub-service/internal/pagination"
	"github.com/maxviazov/coursehub-service/internal/repository"
)

var coursesTable = table[model.Course]{
	name:    "courses",
	columns: "id, teacher_id, title, slug, description, level, status, price_cents, created_at, updated_at",
	scan: func(row pgx.Row) (model.Course, error) {
		var c model.Course
		err := row.Scan(&c.ID, &c.TeacherID, &c.Title, &c.Slug, &c.Description, &c.Level, &c.Status, &c.PriceCents, &c.CreatedAt, &c.UpdatedAt)
		return c, err
	},
}

type courseRepository struct{ pool *pgxpool.Pool }

func NewCourseRepository(pool *pgxpool.Pool) repository.CourseRepository {
	return &courseRepository{pool: pool}
}

func (r *courseRepository) Create(ctx context.Context, c model.Course) (model.Course, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.Course{}, err
	}
	row := getQ(ctx, r.pool).QueryRow(ctx,
		`INSERT INTO courses (teacher_id, title, slug, description, level, status, price_cents)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING `+coursesTable.columns,
		c.TeacherID, c.Title, c.Slug, c.Description, c.Level, c.Status, c.PriceCents,
	)
	return scanOne(row, coursesTable.scan)
}

func (r *courseRepository) GetByID(ctx context.Context, id int64) (model.Course, error) {
	return getByID(ctx, r.pool, coursesTable, id)
}

func (r *courseRepository) List(ctx context.Context, f repository.CourseFilter, req pagination.Request) (pagination.Result[model.Course], error) {
	return listPage(ctx, r.pool, coursesTable, courseWhere(f), f.Sort, repository.CourseSortFields, req)
}

func courseWhere(f repository.CourseFilter) where {
	var sp where
	if f.TeacherID != 0 {
		sp.add("teacher_id = ?", f.TeacherID)
	}
	if f.Status != "" {
		sp.add("status = ?", f.Status)
	}
	if f.Level != "" {
		sp.add("level = ?", f.Level)
	}
	if f.Search != "" {
		sp.add("title ILIKE ?", containsPattern(f.Search))
	}
	return sp
}

var _ repository.CourseRepository = (*courseRepository)(nil)
