package service_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxviazov/coursehub-service/internal/model"
	"github.com/maxviazov/coursehub-service/internal/repository"
	"github.com/maxviazov/coursehub-service/internal/service"
)

func mustUser(t *testing.T, svcs service.Services, email, role string) model.User {
	t.Helper()
	u, err := svcs.Users.CreateUser(context.Background(), service.CreateUserInput{Name: "User " + email, Email: email, Role: role})
	require.NoError(t, err)
	return u
}

func TestCourseService_CreateCourse_DerivesSlugAndDefaultsDraft(t *testing.T) {
	svcs, _, _ := newServices(t)
	teacher := mustUser(t, svcs, "t@example.com", model.RoleTeacher)

	c, err := svcs.Courses.CreateCourse(context.Background(), service.CreateCourseInput{
		TeacherID: teacher.ID, Title: "Go: Concurrency in Practice!", Level: "Beginner",
	})
	require.NoError(t, err)
	assert.Equal(t, "go-concurrency-in-practice", c.Slug)
	assert.Equal(t, model.CourseDraft, c.Status)
	assert.Equal(t, model.LevelBeginner, c.Level)
}

func TestCourseService_CreateCourse_Validation(t *testing.T) {
	svcs, _, _ := newServices(t)
	_, err := svcs.Courses.CreateCourse(context.Background(), service.CreateCourseInput{
		Title: "Go", Slug: "Bad Slug", Level: "expert", Status: "live", PriceCents: -1,
	})
	require.ErrorIs(t, err, service.ErrInvalidInput)
	assert.ElementsMatch(t, []string{"teacher_id", "title", "slug", "level", "status", "price_cents"}, fieldNames(err))
}

func TestCourseService_CreateCourse_TeacherChecks(t *testing.T) {
	svcs, _, _ := newServices(t)
	student := mustUser(t, svcs, "s@example.com", model.RoleStudent)
	ctx := context.Background()

	_, err := svcs.Courses.CreateCourse(ctx, service.CreateCourseInput{TeacherID: 999, Title: "Intro", Level: model.LevelBeginner})
	require.ErrorIs(t, err, service.ErrInvalidInput)
	assert.Equal(t, "user does not exist", service.FieldErrors(err)[0].Message)

	_, err = svcs.Courses.CreateCourse(ctx, service.CreateCourseInput{TeacherID: student.ID, Title: "Intro", Level: model.LevelBeginner})
	require.ErrorIs(t, err, service.ErrInvalidInput)
	assert.Equal(t, "user is not a teacher", service.FieldErrors(err)[0].Message)
}

func TestCourseService_ListCourses_FiltersAndRejects(t *testing.T) {
	svcs, _, _ := newServices(t)
	teacher := mustUser(t, svcs, "t@example.com", model.RoleTeacher)
	ctx := context.Background()
	for _, title := range []string{"Go Basics", "Go Advanced", "Rust Basics"} {
		_, err := svcs.Courses.CreateCourse(ctx, service.CreateCourseInput{
			TeacherID: teacher.ID, Title: title, Level: model.LevelBeginner, Status: model.CoursePublished,
		})
		require.NoError(t, err)
	}

	res, err := svcs.Courses.ListCourses(ctx, repository.CourseFilter{Search: "go", Sort: repository.Sort{Field: "title"}}, page(1, 10))
	require.NoError(t, err)
	assert.Equal(t, 2, res.Total)
	require.Len(t, res.Data, 2)
	assert.Equal(t, "Go Advanced", res.Data[0].Title)

	_, err = svcs.Courses.ListCourses(ctx, repository.CourseFilter{TeacherID: -1, Level: "expert", Search: strings.Repeat("é", 101)}, page(1, 10))
	require.ErrorIs(t, err, service.ErrInvalidInput)
	assert.ElementsMatch(t, []string{"teacher_id", "level", "q"}, fieldNames(err))
}
