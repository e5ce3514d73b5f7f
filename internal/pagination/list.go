package pagination

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Source is what a storage adapter provides for one entity. Both methods take
// the same filter value F, so the count and the fetched rows are always
// computed from identical predicates.
type Source[T any, F any] interface {
	Count(ctx context.Context, filter F) (int, error)
	Fetch(ctx context.Context, filter F, w Window) ([]T, error)
}

// SourceFuncs adapts a pair of closures to Source.
type SourceFuncs[T any, F any] struct {
	CountFn func(ctx context.Context, filter F) (int, error)
	FetchFn func(ctx context.Context, filter F, w Window) ([]T, error)
}

func (s SourceFuncs[T, F]) Count(ctx context.Context, filter F) (int, error) {
	return s.CountFn(ctx, filter)
}

func (s SourceFuncs[T, F]) Fetch(ctx context.Context, filter F, w Window) ([]T, error) {
	return s.FetchFn(ctx, filter, w)
}

type listOptions struct {
	concurrent bool
}

// ListOption tunes how List drives a Source.
type ListOption func(*listOptions)

// Concurrently issues count and fetch in parallel. Only use it when the
// source may be called from two goroutines at once (a pool, not a single
// transaction).
func Concurrently(on bool) ListOption {
	return func(o *listOptions) { o.concurrent = on }
}

// List runs the list-query contract: validate the request, count matching
// rows, fetch the window, assemble the envelope. Errors from the source are
// returned unchanged and never retried.
func List[T any, F any](ctx context.Context, src Source[T, F], filter F, req Request, opts ...ListOption) (Result[T], error) {
	if err := req.Validate(); err != nil {
		return Result[T]{}, err
	}
	var o listOptions
	for _, opt := range opts {
		opt(&o)
	}

	w := req.Window()
	var (
		total int
		data  []T
	)

	if !o.concurrent {
		var err error
		if total, err = src.Count(ctx, filter); err != nil {
			return Result[T]{}, err
		}
		if data, err = src.Fetch(ctx, filter, w); err != nil {
			return Result[T]{}, err
		}
		return NewResult(data, total, req), nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := src.Count(gctx, filter)
		total = n
		return err
	})
	g.Go(func() error {
		rows, err := src.Fetch(gctx, filter, w)
		data = rows
		return err
	})
	if err := g.Wait(); err != nil {
		return Result[T]{}, err
	}
	return NewResult(data, total, req), nil
}
