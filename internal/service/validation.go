package service

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/maxviazov/coursehub-service/internal/model"
	"github.com/maxviazov/coursehub-service/internal/repository"
)

var validate = validator.New()

var (
	userRoles          = []string{model.RoleStudent, model.RoleTeacher, model.RoleAdmin}
	userStatuses       = []string{model.UserActive, model.UserBlocked}
	courseLevels       = []string{model.LevelBeginner, model.LevelIntermediate, model.LevelAdvanced}
	courseStatuses     = []string{model.CourseDraft, model.CoursePublished, model.CourseArchived}
	enrollmentStatuses = []string{model.EnrollmentActive, model.EnrollmentCompleted, model.EnrollmentCancelled}
	orderStatuses      = []string{model.OrderPending, model.OrderPaid, model.OrderRefunded, model.OrderFailed}
)

const maxSearchLen = 100

func isOneOf(v string, allowed []string) bool {
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}

func oneOfMessage(allowed []string) string {
	return "must be one of " + strings.Join(allowed, ", ")
}

// filterChecks accumulates field errors for list filters.
type filterChecks struct{ errs []FieldError }

func (c *filterChecks) enum(field, v string, allowed []string) {
	if v != "" && !isOneOf(v, allowed) {
		c.errs = append(c.errs, FieldError{Field: field, Message: oneOfMessage(allowed)})
	}
}

// id accepts zero as "no constraint".
func (c *filterChecks) id(field string, v int64) {
	if v < 0 {
		c.errs = append(c.errs, FieldError{Field: field, Message: "must be > 0"})
	}
}

func (c *filterChecks) search(v string) {
	if len([]rune(v)) > maxSearchLen {
		c.errs = append(c.errs, FieldError{Field: "q", Message: fmt.Sprintf("length must be <= %d", maxSearchLen)})
	}
}

func (c *filterChecks) sort(s repository.Sort, allowed []string) {
	if s.Field != "" && !repository.IsSortable(s.Field, allowed) {
		c.errs = append(c.errs, FieldError{Field: "sort", Message: oneOfMessage(allowed)})
	}
}

func (c *filterChecks) err() error { return newInvalidInput(c.errs) }

func invalidID(field string) error {
	return newInvalidInput([]FieldError{{Field: field, Message: "must be > 0"}})
}

func isValidEmail(email string) bool {
	return validate.Var(email, "required,email,max=254") == nil
}

var slugUnsafe = regexp.MustCompile(`[^a-z0-9]+`)

// slugify lowercases s and collapses every run of other characters into one dash.
func slugify(s string) string {
	return strings.Trim(slugUnsafe.ReplaceAllString(strings.ToLower(s), "-"), "-")
}

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
