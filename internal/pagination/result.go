package pagination

import (
	"errors"
	"fmt"
)

// ErrInconsistentEnvelope means data and total disagree, which only happens
// when count and fetch were wired with different filters.
var ErrInconsistentEnvelope = errors.New("inconsistent paginated envelope")

// Result is the envelope every list endpoint returns.
type Result[T any] struct {
	Data       []T `json:"data"`
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
}

// NewResult assembles the envelope. Page and limit are echoed as given; only
// a nil data slice is replaced by an empty one so it encodes as [].
func NewResult[T any](data []T, total int, req Request) Result[T] {
	if data == nil {
		data = []T{}
	}
	return Result[T]{
		Data:       data,
		Total:      total,
		Page:       req.Page,
		Limit:      req.Limit,
		TotalPages: TotalPages(total, req.Limit),
	}
}

// TotalPages is ceil(total/limit). A non-positive limit never reaches here
// through Parse; it yields 0 rather than a division by zero.
func TotalPages(total, limit int) int {
	if total <= 0 || limit <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}

// HasNext reports whether a page after the current one exists.
func (r Result[T]) HasNext() bool { return r.Page < r.TotalPages }

// HasPrev reports whether a page before the current one exists.
func (r Result[T]) HasPrev() bool { return r.Page > 1 && r.TotalPages > 0 }

// Check returns ErrInconsistentEnvelope (wrapped with the reason) when the
// envelope could not have come from one count and one fetch over the same
// filter.
func (r Result[T]) Check() error {
	n := len(r.Data)
	switch {
	case r.Limit >= 1 && n > r.Limit:
		return fmt.Errorf("%w: %d items exceed limit %d", ErrInconsistentEnvelope, n, r.Limit)
	case r.Total == 0 && n > 0:
		return fmt.Errorf("%w: %d items with zero total", ErrInconsistentEnvelope, n)
	case r.Page > r.TotalPages && n > 0:
		return fmt.Errorf("%w: page %d beyond %d pages returned %d items", ErrInconsistentEnvelope, r.Page, r.TotalPages, n)
	case (Request{Page: r.Page, Limit: r.Limit}).Validate() == nil && r.Total < (r.Page-1)*r.Limit+n:
		return fmt.Errorf("%w: total %d smaller than window end %d", ErrInconsistentEnvelope, r.Total, (r.Page-1)*r.Limit+n)
	}
	return nil
}
