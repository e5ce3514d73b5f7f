// Package pagination implements the page/limit contract shared by every list
// endpoint: request parsing, windowing, envelope assembly and the list-query
// runner that keeps count and fetch on the same filter.
package pagination

import (
	"errors"
	"fmt"
	"math"
)

const (
	// DefaultPage is used when the caller omits page.
	DefaultPage = 1
	// DefaultLimit is used when the caller omits limit.
	DefaultLimit = 20
	// MaxLimit is the cap list schemas apply at the HTTP boundary.
	// Parse itself never enforces it.
	MaxLimit = 100
)

// ErrInvalidPagination marks page/limit values below 1, or a page so far out
// that its window cannot be represented.
// The policy is to reject such input everywhere; nothing is clamped.
var ErrInvalidPagination = errors.New("invalid pagination input")

// InputError reports which pagination field was rejected and why. An empty
// Reason means the value was below 1.
type InputError struct {
	Field  string
	Value  int
	Reason string
}

func (e *InputError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s: %s %s, got %d", ErrInvalidPagination, e.Field, e.Reason, e.Value)
	}
	return fmt.Sprintf("%s: %s must be >= 1, got %d", ErrInvalidPagination, e.Field, e.Value)
}

// Message is the client-facing text for the rejected field.
func (e *InputError) Message() string {
	if e.Reason != "" {
		return e.Reason
	}
	return "must be a positive integer"
}

func (e *InputError) Unwrap() error { return ErrInvalidPagination }

// Defaults carries the values Parse falls back to. They are passed in by the
// caller so tests and configuration can override them per call.
type Defaults struct {
	Page  int
	Limit int
}

// StandardDefaults returns page=1, limit=20.
func StandardDefaults() Defaults {
	return Defaults{Page: DefaultPage, Limit: DefaultLimit}
}

// Request is a validated, 1-indexed page request.
type Request struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// Window is the zero-indexed skip/take pair storage adapters use to slice an
// ordered result set.
type Window struct {
	Skip int
	Take int
}

// Parse turns optional page and limit values into a Request. Nil means
// "not provided" and takes the matching default. Values below 1 are rejected
// with an *InputError.
func Parse(page, limit *int, d Defaults) (Request, error) {
	req := Request{Page: d.Page, Limit: d.Limit}
	if page != nil {
		req.Page = *page
	}
	if limit != nil {
		req.Limit = *limit
	}
	if err := req.Validate(); err != nil {
		return Request{}, err
	}
	return req, nil
}

// Validate checks page >= 1 and limit >= 1, page first, then that skip+take
// fits in an int.
func (r Request) Validate() error {
	if r.Page < 1 {
		return &InputError{Field: "page", Value: r.Page}
	}
	if r.Limit < 1 {
		return &InputError{Field: "limit", Value: r.Limit}
	}
	if maxPage := (math.MaxInt-r.Limit)/r.Limit + 1; r.Page > maxPage {
		return &InputError{Field: "page", Value: r.Page, Reason: fmt.Sprintf("must be <= %d for limit %d", maxPage, r.Limit)}
	}
	return nil
}

// Window derives skip = (page-1)*limit and take = limit. Only call it on a
// Request that passed Validate.
func (r Request) Window() Window {
	return Window{Skip: (r.Page - 1) * r.Limit, Take: r.Limit}
}
