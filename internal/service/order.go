package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/maxviazov/coursehub-service/internal/metrics"
	"github.com/maxviazov/coursehub-service/internal/model"
	"github.com/maxviazov/coursehub-service/internal/pagination"
	"github.com/maxviazov/coursehub-service/internal/repository"
)

type orderService struct {
	orders  repository.OrderRepository
	metrics *metrics.Metrics
	log     zerolog.Logger
}

func NewOrderService(orders repository.OrderRepository, m *metrics.Metrics, logger zerolog.Logger) OrderService {
	l := logger.With().Str("module", "service").Str("component", "order").Logger()
	return &orderService{orders: orders, metrics: m, log: l}
}

func (s *orderService) GetOrder(ctx context.Context, id int64) (model.Order, error) {
	if id <= 0 {
		return model.Order{}, invalidID("id")
	}
	return s.orders.GetByID(ctx, id)
}

func (s *orderService) ListOrders(ctx context.Context, f repository.OrderFilter, req pagination.Request) (pagination.Result[model.Order], error) {
	var c filterChecks
	c.id("user_id", f.UserID)
	c.id("course_id", f.CourseID)
	c.enum("status", f.Status, orderStatuses)
	c.sort(f.Sort, repository.OrderSortFields)
	if err := c.err(); err != nil {
		return pagination.Result[model.Order]{}, err
	}
	return observeList(ctx, s.log, s.metrics, "orders", req, func(ctx context.Context) (pagination.Result[model.Order], error) {
		return s.orders.List(ctx, f, req)
	})
}
