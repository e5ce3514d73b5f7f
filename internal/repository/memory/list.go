package memory

import (
	"cmp"
	"context"
	"slices"
	"strings"

	"github.com/maxviazov/coursehub-service/internal/pagination"
	"github.com/maxviazov/coursehub-service/internal/repository"
)

// match is the predicate both sides of a list query evaluate.
type match[T any] func(T) bool

// source implements pagination.Source over one table. rows must be called
// with db.mu held.
type source[T any] struct {
	db    *DB
	rows  func() map[int64]T
	order func(a, b T) int
}

func (s source[T]) Count(ctx context.Context, m match[T]) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()
	n := 0
	for _, r := range s.rows() {
		if m(r) {
			n++
		}
	}
	return n, nil
}

func (s source[T]) Fetch(ctx context.Context, m match[T], w pagination.Window) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.db.mu.RLock()
	matched := make([]T, 0)
	for _, r := range s.rows() {
		if m(r) {
			matched = append(matched, r)
		}
	}
	s.db.mu.RUnlock()

	slices.SortFunc(matched, s.order)
	if w.Skip >= len(matched) {
		return []T{}, nil
	}
	end := min(w.Skip+w.Take, len(matched))
	return slices.Clone(matched[w.Skip:end]), nil
}

// sortKeys maps each sortable column to a comparator.
type sortKeys[T any] map[string]func(a, b T) int

// orderFunc mirrors the SQL ORDER BY: the chosen column, then id, both in the
// requested direction. Unknown columns fall back to the entity default.
func orderFunc[T any](s repository.Sort, allowed []string, keys sortKeys[T], id func(T) int64) func(a, b T) int {
	s = repository.SortOrDefault(s, allowed)
	key, ok := keys[s.Field]
	if !ok || !repository.IsSortable(s.Field, allowed) {
		key = keys[allowed[0]]
	}
	return func(a, b T) int {
		c := key(a, b)
		if c == 0 {
			c = cmp.Compare(id(a), id(b))
		}
		if s.Desc {
			return -c
		}
		return c
	}
}

func listPage[T any](ctx context.Context, db *DB, rows func() map[int64]T, m match[T], order func(a, b T) int, req pagination.Request) (pagination.Result[T], error) {
	src := source[T]{db: db, rows: rows, order: order}
	return pagination.List[T, match[T]](ctx, src, m, req)
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}
