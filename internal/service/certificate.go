package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/maxviazov/coursehub-service/internal/metrics"
	"github.com/maxviazov/coursehub-service/internal/model"
	"github.com/maxviazov/coursehub-service/internal/pagination"
	"github.com/maxviazov/coursehub-service/internal/repository"
)

type certificateService struct {
	certificates repository.CertificateRepository
	metrics      *metrics.Metrics
	log          zerolog.Logger
}

func NewCertificateService(certificates repository.CertificateRepository, m *metrics.Metrics, logger zerolog.Logger) CertificateService {
	l := logger.With().Str("module", "service").Str("component", "certificate").Logger()
	return &certificateService{certificates: certificates, metrics: m, log: l}
}

func (s *certificateService) GetCertificate(ctx context.Context, id int64) (model.Certificate, error) {
	if id <= 0 {
		return model.Certificate{}, invalidID("id")
	}
	return s.certificates.GetByID(ctx, id)
}

func (s *certificateService) ListCertificates(ctx context.Context, f repository.CertificateFilter, req pagination.Request) (pagination.Result[model.Certificate], error) {
	var c filterChecks
	c.id("user_id", f.UserID)
	c.id("course_id", f.CourseID)
	c.sort(f.Sort, repository.CertificateSortFields)
	if err := c.err(); err != nil {
		return pagination.Result[model.Certificate]{}, err
	}
	return observeList(ctx, s.log, s.metrics, "certificates", req, func(ctx context.Context) (pagination.Result[model.Certificate], error) {
		return s.certificates.List(ctx, f, req)
	})
}
