package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/maxviazov/coursehub-service/internal/handler/middleware"
	"github.com/maxviazov/coursehub-service/internal/metrics"
	"github.com/maxviazov/coursehub-service/internal/pagination"
	"github.com/maxviazov/coursehub-service/internal/service"
)

// APIV1Prefix is the canonical base path for public HTTP API v1.
const APIV1Prefix = "/api/v1"

// Options carries the HTTP-facing settings handlers need.
type Options struct {
	// Pagination defaults injected into pagination.Parse.
	Pagination pagination.Defaults
	// MaxLimit caps the limit query parameter; larger values are rejected.
	MaxLimit       int
	RequestTimeout time.Duration
	CORSOrigins    []string
	Metrics        *metrics.Metrics
}

// NewRouter builds the engine with the full middleware chain and every route.
func NewRouter(log zerolog.Logger, pinger Pinger, svcs service.Services, opts Options) *gin.Engine {
	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Recovery(log),
		middleware.Logger(log.With().Str("component", "http").Logger()),
		middleware.CORS(opts.CORSOrigins),
		middleware.Timeout(opts.RequestTimeout),
		middleware.Metrics(opts.Metrics),
	)
	Register(r, pinger, svcs, opts)
	return r
}

// Register mounts all public routes on the given engine.
func Register(r *gin.Engine, pinger Pinger, svcs service.Services, opts Options) {
	h := NewHealthHandler(pinger)
	l := newLister(opts)

	// Health probes
	r.GET("/live", h.Liveness)
	r.GET("/ready", h.Readiness)

	if opts.Metrics != nil {
		r.GET("/metrics", gin.WrapH(opts.Metrics.Handler()))
	}

	RegisterDocs(r)

	api := r.Group(APIV1Prefix)
	{
		health := api.Group("/health")
		{
			health.GET("/live", h.Liveness)
			health.GET("/ready", h.Readiness)
		}
		NewUserHandler(svcs.Users, l).Register(api)
		NewCourseHandler(svcs.Courses, l).Register(api)
		NewEnrollmentHandler(svcs.Enrollments, l).Register(api)
		NewOrderHandler(svcs.Orders, l).Register(api)
		NewNotificationHandler(svcs.Notifications, l).Register(api)
		NewCertificateHandler(svcs.Certificates, l).Register(api)
	}
}
