package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/maxviazov/coursehub-service/internal/model"
	"github.com/maxviazov/coursehub-service/internal/pagination"
	"github.com/maxviazov/coursehub-service/internal/repository"
)

var certificatesTable = table[model.Certificate]{
	name:    "certificates",
	columns: "id, user_id, course_id, code, issued_at",
	scan: func(row pgx.Row) (model.Certificate, error) {
		var c model.Certificate
		err := row.Scan(&c.ID, &c.UserID, &c.CourseID, &c.Code, &c.IssuedAt)
		return c, err
	},
}

type certificateRepository struct{ pool *pgxpool.Pool }

func NewCertificateRepository(pool *pgxpool.Pool) repository.CertificateRepository {
	return &certificateRepository{pool: pool}
}

func (r *certificateRepository) Create(ctx context.Context, c model.Certificate) (model.Certificate, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.Certificate{}, err
	}
	row := getQ(ctx, r.pool).QueryRow(ctx,
		`INSERT INTO certificates (user_id, course_id, code)
		 VALUES ($1, $2, $3)
		 RETURNING `+certificatesTable.columns,
		c.UserID, c.CourseID, c.Code,
	)
	return scanOne(row, certificatesTable.scan)
}

func (r *certificateRepository) GetByID(ctx context.Context, id int64) (model.Certificate, error) {
	return getByID(ctx, r.pool, certificatesTable, id)
}

func (r *certificateRepository) List(ctx context.Context, f repository.CertificateFilter, req pagination.Request) (pagination.Result[model.Certificate], error) {
	return listPage(ctx, r.pool, certificatesTable, certificateWhere(f), f.Sort, repository.CertificateSortFields, req)
}

func certificateWhere(f repository.CertificateFilter) where {
	var sp where
	if f.UserID != 0 {
		sp.add("user_id = ?", f.UserID)
	}
	if f.CourseID != 0 {
		sp.add("course_id = ?", f.CourseID)
	}
	return sp
}

var _ repository.CertificateRepository = (*certificateRepository)(nil)
