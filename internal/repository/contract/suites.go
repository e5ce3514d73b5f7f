// Package contract holds behavior suites every storage backend must pass.
package contract

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxviazov/coursehub-service/internal/model"
	"github.com/maxviazov/coursehub-service/internal/pagination"
	"github.com/maxviazov/coursehub-service/internal/repository"
)

// StoreFactory returns an empty store and a cleanup func.
type StoreFactory func(t *testing.T) (repository.Store, func())

func req(page, limit int) pagination.Request {
	return pagination.Request{Page: page, Limit: limit}
}

func seedUsers(t *testing.T, s repository.Store, n int, role string) []model.User {
	t.Helper()
	out := make([]model.User, 0, n)
	for i := 0; i < n; i++ {
		u, err := s.Users.Create(context.Background(), model.User{
			Name:   fmt.Sprintf("%s %02d", role, i),
			Email:  fmt.Sprintf("%s%02d@example.com", role, i),
			Role:   role,
			Status: model.UserActive,
		})
		require.NoError(t, err, "seed user %d", i)
		out = append(out, u)
	}
	return out
}

func seedCourse(t *testing.T, s repository.Store, teacherID int64, slug, status string, price int64) model.Course {
	t.Helper()
	c, err := s.Courses.Create(context.Background(), model.Course{
		TeacherID:  teacherID,
		Title:      "Course " + slug,
		Slug:       slug,
		Level:      model.LevelBeginner,
		Status:     status,
		PriceCents: price,
	})
	require.NoError(t, err, "seed course %s", slug)
	return c
}

func ids[T any](items []T, id func(T) int64) []int64 {
	out := make([]int64, len(items))
	for i, it := range items {
		out[i] = id(it)
	}
	return out
}

func userID(u model.User) int64 { return u.ID }

// RunListContract checks the pagination guarantees on the users listing,
// which every other listing shares through the same code path.
func RunListContract(t *testing.T, makeStore StoreFactory) {
	t.Helper()

	t.Run("middle_and_last_page", func(t *testing.T) {
		s, cleanup := makeStore(t)
		t.Cleanup(cleanup)
		seedUsers(t, s, 45, model.RoleStudent)
		ctx := context.Background()

		res, err := s.Users.List(ctx, repository.UserFilter{}, req(2, 20))
		require.NoError(t, err)
		assert.Len(t, res.Data, 20)
		assert.Equal(t, 45, res.Total)
		assert.Equal(t, 2, res.Page)
		assert.Equal(t, 20, res.Limit)
		assert.Equal(t, 3, res.TotalPages)
		assert.NoError(t, res.Check())

		last, err := s.Users.List(ctx, repository.UserFilter{}, req(3, 20))
		require.NoError(t, err)
		assert.Len(t, last.Data, 5)
		assert.Equal(t, 45, last.Total)
	})

	t.Run("empty_table", func(t *testing.T) {
		s, cleanup := makeStore(t)
		t.Cleanup(cleanup)

		res, err := s.Users.List(context.Background(), repository.UserFilter{}, req(1, 20))
		require.NoError(t, err)
		assert.NotNil(t, res.Data)
		assert.Empty(t, res.Data)
		assert.Equal(t, 0, res.Total)
		assert.Equal(t, 0, res.TotalPages)
	})

	t.Run("page_past_end_keeps_total", func(t *testing.T) {
		s, cleanup := makeStore(t)
		t.Cleanup(cleanup)
		seedUsers(t, s, 7, model.RoleStudent)

		res, err := s.Users.List(context.Background(), repository.UserFilter{}, req(5, 3))
		require.NoError(t, err)
		assert.Empty(t, res.Data)
		assert.Equal(t, 7, res.Total)
		assert.Equal(t, 3, res.TotalPages)
		assert.Equal(t, 5, res.Page)
	})

	t.Run("filter_applies_to_total_and_data", func(t *testing.T) {
		s, cleanup := makeStore(t)
		t.Cleanup(cleanup)
		seedUsers(t, s, 6, model.RoleStudent)
		seedUsers(t, s, 4, model.RoleTeacher)

		res, err := s.Users.List(context.Background(), repository.UserFilter{Role: model.RoleTeacher}, req(1, 3))
		require.NoError(t, err)
		assert.Equal(t, 4, res.Total)
		assert.Len(t, res.Data, 3)
		for _, u := range res.Data {
			assert.Equal(t, model.RoleTeacher, u.Role)
		}
	})

	t.Run("search_treats_wildcards_literally", func(t *testing.T) {
		s, cleanup := makeStore(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		for _, name := range []string{"100% Ada", "Ada Lovelace", "Grace"} {
			_, err := s.Users.Create(ctx, model.User{
				Name: name, Email: fmt.Sprintf("%d@example.com", len(name)), Role: model.RoleStudent, Status: model.UserActive,
			})
			require.NoError(t, err)
		}

		res, err := s.Users.List(ctx, repository.UserFilter{Search: "ada"}, req(1, 10))
		require.NoError(t, err)
		assert.Equal(t, 2, res.Total)

		res, err = s.Users.List(ctx, repository.UserFilter{Search: "0%"}, req(1, 10))
		require.NoError(t, err)
		assert.Equal(t, 1, res.Total)
		require.Len(t, res.Data, 1)
		assert.Equal(t, "100% Ada", res.Data[0].Name)
	})

	t.Run("pages_are_disjoint_and_stable", func(t *testing.T) {
		s, cleanup := makeStore(t)
		t.Cleanup(cleanup)
		seeded := seedUsers(t, s, 12, model.RoleStudent)
		ctx := context.Background()
		f := repository.UserFilter{Sort: repository.Sort{Field: "created_at"}}

		seen := make(map[int64]bool)
		var order []int64
		for page := 1; page <= 3; page++ {
			res, err := s.Users.List(ctx, f, req(page, 5))
			require.NoError(t, err)
			for _, id := range ids(res.Data, userID) {
				assert.False(t, seen[id], "id %d returned twice", id)
				seen[id] = true
				order = append(order, id)
			}
		}
		assert.Len(t, seen, len(seeded))

		again, err := s.Users.List(ctx, f, req(1, 5))
		require.NoError(t, err)
		assert.Equal(t, order[:5], ids(again.Data, userID))
	})

	t.Run("sort_desc_by_name", func(t *testing.T) {
		s, cleanup := makeStore(t)
		t.Cleanup(cleanup)
		seedUsers(t, s, 3, model.RoleStudent)

		res, err := s.Users.List(context.Background(), repository.UserFilter{Sort: repository.Sort{Field: "name", Desc: true}}, req(1, 10))
		require.NoError(t, err)
		require.Len(t, res.Data, 3)
		assert.Equal(t, "student 02", res.Data[0].Name)
		assert.Equal(t, "student 00", res.Data[2].Name)
	})

	t.Run("invalid_request_rejected", func(t *testing.T) {
		s, cleanup := makeStore(t)
		t.Cleanup(cleanup)

		_, err := s.Users.List(context.Background(), repository.UserFilter{}, req(0, 20))
		assert.ErrorIs(t, err, pagination.ErrInvalidPagination)
		_, err = s.Users.List(context.Background(), repository.UserFilter{}, req(1, 0))
		assert.ErrorIs(t, err, pagination.ErrInvalidPagination)
	})
}

// RunEntityContract covers create/get/list and constraint mapping for the
// remaining entities.
func RunEntityContract(t *testing.T, makeStore StoreFactory) {
	t.Helper()

	t.Run("user_get_not_found", func(t *testing.T) {
		s, cleanup := makeStore(t)
		t.Cleanup(cleanup)
		_, err := s.Users.GetByID(context.Background(), 999999)
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("user_duplicate_email", func(t *testing.T) {
		s, cleanup := makeStore(t)
		t.Cleanup(cleanup)
		u := seedUsers(t, s, 1, model.RoleStudent)[0]
		_, err := s.Users.Create(context.Background(), model.User{
			Name: "Other", Email: u.Email, Role: model.RoleStudent, Status: model.UserActive,
		})
		assert.ErrorIs(t, err, repository.ErrAlreadyExists)
	})

	t.Run("course_create_get_and_filter", func(t *testing.T) {
		s, cleanup := makeStore(t)
		t.Cleanup(cleanup)
		teacher := seedUsers(t, s, 1, model.RoleTeacher)[0]
		c := seedCourse(t, s, teacher.ID, "go-basics", model.CoursePublished, 1500)
		seedCourse(t, s, teacher.ID, "go-draft", model.CourseDraft, 900)
		ctx := context.Background()

		got, err := s.Courses.GetByID(ctx, c.ID)
		require.NoError(t, err)
		assert.Equal(t, c.Slug, got.Slug)
		assert.Equal(t, teacher.ID, got.TeacherID)

		res, err := s.Courses.List(ctx, repository.CourseFilter{Status: model.CoursePublished}, req(1, 10))
		require.NoError(t, err)
		assert.Equal(t, 1, res.Total)
		require.Len(t, res.Data, 1)
		assert.Equal(t, c.ID, res.Data[0].ID)

		res, err = s.Courses.List(ctx, repository.CourseFilter{Sort: repository.Sort{Field: "price_cents"}}, req(1, 10))
		require.NoError(t, err)
		require.Len(t, res.Data, 2)
		assert.Equal(t, int64(900), res.Data[0].PriceCents)
	})

	t.Run("course_unknown_teacher_conflict", func(t *testing.T) {
		s, cleanup := makeStore(t)
		t.Cleanup(cleanup)
		_, err := s.Courses.Create(context.Background(), model.Course{
			TeacherID: 9999999, Title: "X", Slug: "x", Level: model.LevelBeginner, Status: model.CourseDraft,
		})
		assert.ErrorIs(t, err, repository.ErrConflict)
	})

	t.Run("enrollment_unique_per_course", func(t *testing.T) {
		s, cleanup := makeStore(t)
		t.Cleanup(cleanup)
		teacher := seedUsers(t, s, 1, model.RoleTeacher)[0]
		student := seedUsers(t, s, 1, model.RoleStudent)[0]
		c := seedCourse(t, s, teacher.ID, "sql", model.CoursePublished, 0)
		ctx := context.Background()

		e, err := s.Enrollments.Create(ctx, model.Enrollment{UserID: student.ID, CourseID: c.ID, Status: model.EnrollmentActive})
		require.NoError(t, err)
		assert.NotZero(t, e.ID)
		assert.Nil(t, e.CompletedAt)

		_, err = s.Enrollments.Create(ctx, model.Enrollment{UserID: student.ID, CourseID: c.ID, Status: model.EnrollmentActive})
		assert.ErrorIs(t, err, repository.ErrAlreadyExists)

		res, err := s.Enrollments.List(ctx, repository.EnrollmentFilter{CourseID: c.ID}, req(1, 10))
		require.NoError(t, err)
		assert.Equal(t, 1, res.Total)
	})

	t.Run("orders_filter_by_user", func(t *testing.T) {
		s, cleanup := makeStore(t)
		t.Cleanup(cleanup)
		teacher := seedUsers(t, s, 1, model.RoleTeacher)[0]
		students := seedUsers(t, s, 2, model.RoleStudent)
		c := seedCourse(t, s, teacher.ID, "k8s", model.CoursePublished, 4900)
		ctx := context.Background()
		for i, st := range []model.User{students[0], students[0], students[1]} {
			_, err := s.Orders.Create(ctx, model.Order{
				UserID: st.ID, CourseID: c.ID, AmountCents: int64(100 * (i + 1)), Currency: "USD", Status: model.OrderPaid,
			})
			require.NoError(t, err)
		}

		res, err := s.Orders.List(ctx, repository.OrderFilter{UserID: students[0].ID, Sort: repository.Sort{Field: "amount_cents", Desc: true}}, req(1, 1))
		require.NoError(t, err)
		assert.Equal(t, 2, res.Total)
		assert.Equal(t, 2, res.TotalPages)
		require.Len(t, res.Data, 1)
		assert.Equal(t, int64(200), res.Data[0].AmountCents)
	})

	t.Run("notifications_unread_and_mark_read", func(t *testing.T) {
		s, cleanup := makeStore(t)
		t.Cleanup(cleanup)
		users := seedUsers(t, s, 2, model.RoleStudent)
		ctx := context.Background()
		var first model.Notification
		for i := 0; i < 3; i++ {
			n, err := s.Notifications.Create(ctx, model.Notification{UserID: users[0].ID, Kind: "course", Title: fmt.Sprintf("n%d", i)})
			require.NoError(t, err)
			if i == 0 {
				first = n
			}
		}

		at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
		read, err := s.Notifications.MarkRead(ctx, users[0].ID, first.ID, at)
		require.NoError(t, err)
		require.NotNil(t, read.ReadAt)
		assert.True(t, read.ReadAt.Equal(at))

		again, err := s.Notifications.MarkRead(ctx, users[0].ID, first.ID, at.Add(time.Hour))
		require.NoError(t, err)
		assert.True(t, again.ReadAt.Equal(at), "first read time is kept")

		_, err = s.Notifications.MarkRead(ctx, users[1].ID, first.ID, at)
		assert.ErrorIs(t, err, repository.ErrNotFound)

		res, err := s.Notifications.List(ctx, repository.NotificationFilter{UserID: users[0].ID, UnreadOnly: true}, req(1, 10))
		require.NoError(t, err)
		assert.Equal(t, 2, res.Total)
		for _, n := range res.Data {
			assert.Nil(t, n.ReadAt)
		}
	})

	t.Run("certificate_code_unique", func(t *testing.T) {
		s, cleanup := makeStore(t)
		t.Cleanup(cleanup)
		teacher := seedUsers(t, s, 1, model.RoleTeacher)[0]
		students := seedUsers(t, s, 2, model.RoleStudent)
		c := seedCourse(t, s, teacher.ID, "rust", model.CoursePublished, 0)
		ctx := context.Background()

		cert, err := s.Certificates.Create(ctx, model.Certificate{UserID: students[0].ID, CourseID: c.ID, Code: "CERT-1"})
		require.NoError(t, err)
		got, err := s.Certificates.GetByID(ctx, cert.ID)
		require.NoError(t, err)
		assert.Equal(t, "CERT-1", got.Code)

		_, err = s.Certificates.Create(ctx, model.Certificate{UserID: students[1].ID, CourseID: c.ID, Code: "CERT-1"})
		assert.ErrorIs(t, err, repository.ErrAlreadyExists)

		res, err := s.Certificates.List(ctx, repository.CertificateFilter{UserID: students[0].ID}, req(1, 10))
		require.NoError(t, err)
		assert.Equal(t, 1, res.Total)
	})
}

// RunTxManagerContract checks commit, rollback and listing inside a transaction.
func RunTxManagerContract(t *testing.T, makeStore StoreFactory) {
	t.Helper()

	t.Run("commit_on_nil_error", func(t *testing.T) {
		s, cleanup := makeStore(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		var createdID int64
		err := s.Tx.WithinTx(ctx, func(ctx context.Context) error {
			u, err := s.Users.Create(ctx, model.User{Name: "Tx", Email: "tx@example.com", Role: model.RoleStudent, Status: model.UserActive})
			if err != nil {
				return err
			}
			createdID = u.ID
			return nil
		})
		require.NoError(t, err)
		_, err = s.Users.GetByID(ctx, createdID)
		assert.NoError(t, err)
	})

	t.Run("rollback_on_error", func(t *testing.T) {
		s, cleanup := makeStore(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		marker := errors.New("boom")
		var createdID int64
		err := s.Tx.WithinTx(ctx, func(ctx context.Context) error {
			u, err := s.Users.Create(ctx, model.User{Name: "Tx", Email: "rb@example.com", Role: model.RoleStudent, Status: model.UserActive})
			if err != nil {
				return err
			}
			createdID = u.ID
			return marker
		})
		assert.ErrorIs(t, err, marker)
		_, err = s.Users.GetByID(ctx, createdID)
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("list_inside_tx_sees_own_writes", func(t *testing.T) {
		s, cleanup := makeStore(t)
		t.Cleanup(cleanup)
		seedUsers(t, s, 3, model.RoleStudent)
		ctx := context.Background()
		err := s.Tx.WithinTx(ctx, func(ctx context.Context) error {
			if _, err := s.Users.Create(ctx, model.User{Name: "In", Email: "in@example.com", Role: model.RoleStudent, Status: model.UserActive}); err != nil {
				return err
			}
			res, err := s.Users.List(ctx, repository.UserFilter{}, req(1, 2))
			if err != nil {
				return err
			}
			assert.Equal(t, 4, res.Total)
			assert.Len(t, res.Data, 2)
			return nil
		})
		require.NoError(t, err)
	})
}

func RunPingerContract(t *testing.T, makeStore StoreFactory) {
	t.Helper()
	t.Run("ping_ok", func(t *testing.T) {
		s, cleanup := makeStore(t)
		t.Cleanup(cleanup)
		assert.NoError(t, s.Pinger.Ping(context.Background()))
	})
}

// RunAll runs every suite against one backend.
func RunAll(t *testing.T, makeStore StoreFactory) {
	t.Run("list", func(t *testing.T) { RunListContract(t, makeStore) })
	t.Run("entities", func(t *testing.T) { RunEntityContract(t, makeStore) })
	t.Run("tx", func(t *testing.T) { RunTxManagerContract(t, makeStore) })
	t.Run("pinger", func(t *testing.T) { RunPingerContract(t, makeStore) })
}
