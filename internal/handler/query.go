package handler

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/maxviazov/coursehub-service/internal/pagination"
	"github.com/maxviazov/coursehub-service/internal/repository"
	"github.com/maxviazov/coursehub-service/internal/service"
)

func init() {
	// report query and body fields by their wire names
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			for _, tag := range []string{"form", "json"} {
				name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
				if name == "-" {
					return ""
				}
				if name != "" {
					return name
				}
			}
			return fld.Name
		})
	}
}

// ListQuery is embedded by every list endpoint's query struct. Page and Limit
// are pointers so an absent parameter can be told apart from an explicit 0.
type ListQuery struct {
	Page  *int   `form:"page"`
	Limit *int   `form:"limit"`
	Sort  string `form:"sort"`
	Order string `form:"order" binding:"omitempty,oneof=asc desc"`
}

// integerParams are the query keys bound into integer fields.
var integerParams = []string{"page", "limit", "user_id", "course_id", "teacher_id"}

type lister struct {
	defaults pagination.Defaults
	maxLimit int
}

func newLister(opts Options) lister {
	d := opts.Pagination
	if d.Page == 0 && d.Limit == 0 {
		d = pagination.StandardDefaults()
	}
	limitCap := opts.MaxLimit
	if limitCap == 0 {
		limitCap = pagination.MaxLimit
	}
	return lister{defaults: d, maxLimit: limitCap}
}

// bind decodes the query into dst (which embeds q) and turns q into a
// validated page request and sort. Coercion failures, values below 1 and
// limits above the cap are all rejected.
func (l lister) bind(c *gin.Context, dst any, q *ListQuery) (pagination.Request, repository.Sort, error) {
	if err := c.ShouldBindQuery(dst); err != nil {
		return pagination.Request{}, repository.Sort{}, bindError(c, err)
	}
	req, err := pagination.Parse(q.Page, q.Limit, l.defaults)
	if err != nil {
		return pagination.Request{}, repository.Sort{}, err
	}
	if req.Limit > l.maxLimit {
		return pagination.Request{}, repository.Sort{}, service.NewInvalidInput(service.FieldError{
			Field:   "limit",
			Message: fmt.Sprintf("must be <= %d", l.maxLimit),
		})
	}
	return req, repository.Sort{Field: q.Sort, Desc: q.Order == "desc"}, nil
}

func bindError(c *gin.Context, err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fe := make([]service.FieldError, 0, len(verrs))
		for _, v := range verrs {
			fe = append(fe, service.FieldError{Field: v.Field(), Message: ruleMessage(v)})
		}
		return service.NewInvalidInput(fe...)
	}
	for _, key := range integerParams {
		if raw, ok := c.GetQuery(key); ok && raw != "" {
			if _, perr := strconv.ParseInt(raw, 10, 64); perr != nil {
				return service.NewInvalidInput(service.FieldError{Field: key, Message: "must be an integer"})
			}
		}
	}
	if raw, ok := c.GetQuery("unread"); ok && raw != "" {
		if _, perr := strconv.ParseBool(raw); perr != nil {
			return service.NewInvalidInput(service.FieldError{Field: "unread", Message: "must be a boolean"})
		}
	}
	return service.NewInvalidInput(service.FieldError{Field: "query", Message: "malformed query string"})
}

func ruleMessage(v validator.FieldError) string {
	switch v.Tag() {
	case "oneof":
		return "must be one of " + strings.ReplaceAll(v.Param(), " ", ", ")
	case "required":
		return "is required"
	case "max":
		return "must be <= " + v.Param()
	default:
		return "failed " + v.Tag() + " check"
	}
}

// pathID parses a positive integer path parameter.
func pathID(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, service.NewInvalidInput(service.FieldError{Field: name, Message: "must be a positive integer"})
	}
	return id, nil
}

var errMalformedBody = service.NewInvalidInput(service.FieldError{Field: "body", Message: "malformed JSON"})
