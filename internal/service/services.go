package service

import (
	"github.com/rs/zerolog"

	"github.com/maxviazov/coursehub-service/internal/metrics"
	"github.com/maxviazov/coursehub-service/internal/repository"
)

// New builds every service over one store.
func New(store repository.Store, m *metrics.Metrics, logger zerolog.Logger) Services {
	return Services{
		Users:         NewUserService(store.Users, m, logger),
		Courses:       NewCourseService(store.Courses, store.Users, m, logger),
		Enrollments:   NewEnrollmentService(store, m, logger),
		Orders:        NewOrderService(store.Orders, m, logger),
		Notifications: NewNotificationService(store.Notifications, m, logger),
		Certificates:  NewCertificateService(store.Certificates, m, logger),
	}
}
