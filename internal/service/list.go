package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/maxviazov/coursehub-service/internal/metrics"
	"github.com/maxviazov/coursehub-service/internal/pagination"
)

// observeList runs one repository list call, records it and checks the
// envelope. An inconsistent envelope is logged and still returned: the
// numbers came from storage and the client sees them as they are.
func observeList[T any](ctx context.Context, log zerolog.Logger, m *metrics.Metrics, entity string, req pagination.Request, fetch func(context.Context) (pagination.Result[T], error)) (pagination.Result[T], error) {
	start := time.Now()
	res, err := fetch(ctx)
	took := time.Since(start)

	switch {
	case errors.Is(err, pagination.ErrInvalidPagination):
		m.ObserveList(entity, metrics.OutcomeInvalid, 0, took)
		return pagination.Result[T]{}, err
	case err != nil:
		m.ObserveList(entity, metrics.OutcomeError, 0, took)
		log.Error().Err(err).Int("page", req.Page).Int("limit", req.Limit).Msg("list failed")
		return pagination.Result[T]{}, err
	}

	if cerr := res.Check(); cerr != nil {
		m.ObserveList(entity, metrics.OutcomeInconsistent, res.Total, took)
		log.Warn().Err(cerr).
			Int("page", res.Page).Int("limit", res.Limit).
			Int("total", res.Total).Int("returned", len(res.Data)).
			Msg("list envelope inconsistent")
		return res, nil
	}

	m.ObserveList(entity, metrics.OutcomeOK, res.Total, took)
	log.Debug().Dur("took", took).Int("page", res.Page).Int("total", res.Total).Int("returned", len(res.Data)).Msg("list ok")
	return res, nil
}
