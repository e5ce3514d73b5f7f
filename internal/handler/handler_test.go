package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxviazov/coursehub-service/internal/handler"
	"github.com/maxviazov/coursehub-service/internal/metrics"
	"github.com/maxviazov/coursehub-service/internal/model"
	"github.com/maxviazov/coursehub-service/internal/pagination"
	"github.com/maxviazov/coursehub-service/internal/repository"
	"github.com/maxviazov/coursehub-service/internal/service"
)

type stubPinger struct{ err error }

func (s stubPinger) Ping(context.Context) error { return s.err }

// stubServices implements every service interface and records the last list call.
type stubServices struct {
	lastReq        pagination.Request
	lastUsers      repository.UserFilter
	lastCourses    repository.CourseFilter
	lastEnroll     repository.EnrollmentFilter
	lastNotif      repository.NotificationFilter
	lastCerts      repository.CertificateFilter
	listCalls      int
	err            error
	user           model.User
	enrollUser     int64
	enrollCourse   int64
	markReadUserID int64
}

func (s *stubServices) CreateUser(_ context.Context, in service.CreateUserInput) (model.User, error) {
	return model.User{ID: 1, Name: in.Name, Email: in.Email, Role: in.Role}, s.err
}
func (s *stubServices) GetUser(context.Context, int64) (model.User, error) { return s.user, s.err }
func (s *stubServices) ListUsers(_ context.Context, f repository.UserFilter, req pagination.Request) (pagination.Result[model.User], error) {
	s.listCalls++
	s.lastUsers, s.lastReq = f, req
	if s.err != nil {
		return pagination.Result[model.User]{}, s.err
	}
	return pagination.NewResult([]model.User{{ID: 1, Name: "Ada"}}, 41, req), nil
}
func (s *stubServices) CreateCourse(context.Context, service.CreateCourseInput) (model.Course, error) {
	return model.Course{ID: 1}, s.err
}
func (s *stubServices) GetCourse(context.Context, int64) (model.Course, error) {
	return model.Course{}, s.err
}
func (s *stubServices) ListCourses(_ context.Context, f repository.CourseFilter, req pagination.Request) (pagination.Result[model.Course], error) {
	s.listCalls++
	s.lastCourses, s.lastReq = f, req
	return pagination.NewResult[model.Course](nil, 0, req), s.err
}
func (s *stubServices) Enroll(_ context.Context, userID, courseID int64) (model.Enrollment, error) {
	s.enrollUser, s.enrollCourse = userID, courseID
	return model.Enrollment{ID: 9, UserID: userID, CourseID: courseID}, s.err
}
func (s *stubServices) GetEnrollment(context.Context, int64) (model.Enrollment, error) {
	return model.Enrollment{}, s.err
}
func (s *stubServices) ListEnrollments(_ context.Context, f repository.EnrollmentFilter, req pagination.Request) (pagination.Result[model.Enrollment], error) {
	s.listCalls++
	s.lastEnroll, s.lastReq = f, req
	return pagination.NewResult[model.Enrollment](nil, 0, req), s.err
}
func (s *stubServices) GetOrder(context.Context, int64) (model.Order, error) { return model.Order{}, s.err }
func (s *stubServices) ListOrders(_ context.Context, _ repository.OrderFilter, req pagination.Request) (pagination.Result[model.Order], error) {
	s.listCalls++
	s.lastReq = req
	return pagination.NewResult[model.Order](nil, 0, req), s.err
}
func (s *stubServices) ListNotifications(_ context.Context, f repository.NotificationFilter, req pagination.Request) (pagination.Result[model.Notification], error) {
	s.listCalls++
	s.lastNotif, s.lastReq = f, req
	return pagination.NewResult[model.Notification](nil, 0, req), s.err
}
func (s *stubServices) MarkRead(_ context.Context, userID, id int64) (model.Notification, error) {
	s.markReadUserID = userID
	return model.Notification{ID: id, UserID: userID}, s.err
}
func (s *stubServices) GetCertificate(context.Context, int64) (model.Certificate, error) {
	return model.Certificate{}, s.err
}
func (s *stubServices) ListCertificates(_ context.Context, f repository.CertificateFilter, req pagination.Request) (pagination.Result[model.Certificate], error) {
	s.listCalls++
	s.lastCerts, s.lastReq = f, req
	return pagination.NewResult[model.Certificate](nil, 0, req), s.err
}

func (s *stubServices) services() service.Services {
	return service.Services{Users: s, Courses: s, Enrollments: s, Orders: s, Notifications: s, Certificates: s}
}

func newRouter(stub *stubServices, opts handler.Options) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return handler.NewRouter(zerolog.New(io.Discard), stubPinger{}, stub.services(), opts)
}

func do(r http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	var rd io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		rd = bytes.NewReader(b)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(method, target, rd))
	return w
}

type errorBody struct {
	Error       string               `json:"error"`
	FieldErrors []service.FieldError `json:"field_errors"`
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var out errorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestListUsers_DefaultsAndEnvelope(t *testing.T) {
	stub := &stubServices{}
	w := do(newRouter(stub, handler.Options{}), http.MethodGet, "/api/v1/users", nil)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, pagination.Request{Page: 1, Limit: 20}, stub.lastReq)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
	for _, key := range []string{"data", "total", "page", "limit", "totalPages"} {
		assert.Contains(t, raw, key)
	}
	assert.JSONEq(t, "41", string(raw["total"]))
	assert.JSONEq(t, "3", string(raw["totalPages"]))
}

func TestListUsers_InjectedDefaults(t *testing.T) {
	stub := &stubServices{}
	r := newRouter(stub, handler.Options{Pagination: pagination.Defaults{Page: 1, Limit: 5}, MaxLimit: 50})
	w := do(r, http.MethodGet, "/api/v1/users?page=3", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, pagination.Request{Page: 3, Limit: 5}, stub.lastReq)
}

func TestListUsers_FiltersAndSortPassThrough(t *testing.T) {
	stub := &stubServices{}
	w := do(newRouter(stub, handler.Options{}), http.MethodGet, "/api/v1/users?role=teacher&status=active&q=ada&sort=name&order=desc&limit=10", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, repository.UserFilter{
		Role: "teacher", Status: "active", Search: "ada",
		Sort: repository.Sort{Field: "name", Desc: true},
	}, stub.lastUsers)
	assert.Equal(t, 10, stub.lastReq.Limit)
}

func TestListUsers_RejectsBadPagination(t *testing.T) {
	cases := []struct {
		name      string
		query     string
		wantField string
	}{
		{"page zero", "page=0", "page"},
		{"negative limit", "limit=-5", "limit"},
		{"limit zero", "limit=0", "limit"},
		{"non numeric limit", "limit=ten", "limit"},
		{"non numeric page", "page=2.5", "page"},
		{"over cap", "limit=101", "limit"},
		{"bad order", "order=sideways", "order"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			stub := &stubServices{}
			w := do(newRouter(stub, handler.Options{}), http.MethodGet, "/api/v1/users?"+tc.query, nil)
			require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
			body := decodeError(t, w)
			assert.Equal(t, "invalid_input", body.Error)
			require.NotEmpty(t, body.FieldErrors)
			assert.Equal(t, tc.wantField, body.FieldErrors[0].Field)
			assert.Zero(t, stub.listCalls, "service must not be called")
		})
	}
}

func TestListUsers_ConfiguredCap(t *testing.T) {
	stub := &stubServices{}
	r := newRouter(stub, handler.Options{MaxLimit: 50, Pagination: pagination.StandardDefaults()})

	w := do(r, http.MethodGet, "/api/v1/users?limit=50", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodGet, "/api/v1/users?limit=51", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "must be <= 50", decodeError(t, w).FieldErrors[0].Message)
}

func TestListUsers_ServiceErrorMapped(t *testing.T) {
	stub := &stubServices{err: errors.New("db down")}
	w := do(newRouter(stub, handler.Options{}), http.MethodGet, "/api/v1/users", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "internal_error", decodeError(t, w).Error)
}

func TestNestedListings_ScopeFromPath(t *testing.T) {
	stub := &stubServices{}
	r := newRouter(stub, handler.Options{})

	w := do(r, http.MethodGet, "/api/v1/users/7/enrollments?user_id=99&status=active", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, int64(7), stub.lastEnroll.UserID)
	assert.Equal(t, "active", stub.lastEnroll.Status)

	w = do(r, http.MethodGet, "/api/v1/courses/3/enrollments", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(3), stub.lastEnroll.CourseID)

	w = do(r, http.MethodGet, "/api/v1/users/5/notifications?unread=true&kind=course", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, repository.NotificationFilter{UserID: 5, Kind: "course", UnreadOnly: true}, stub.lastNotif)

	w = do(r, http.MethodGet, "/api/v1/users/4/certificates", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(4), stub.lastCerts.UserID)

	w = do(r, http.MethodGet, "/api/v1/courses?teacher_id=12&level=advanced", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(12), stub.lastCourses.TeacherID)
	assert.Equal(t, "advanced", stub.lastCourses.Level)
}

func TestNestedListings_BadInput(t *testing.T) {
	stub := &stubServices{}
	r := newRouter(stub, handler.Options{})

	w := do(r, http.MethodGet, "/api/v1/users/abc/notifications", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "id", decodeError(t, w).FieldErrors[0].Field)

	w = do(r, http.MethodGet, "/api/v1/users/1/notifications?unread=maybe", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "unread", decodeError(t, w).FieldErrors[0].Field)

	w = do(r, http.MethodGet, "/api/v1/orders?user_id=x", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "user_id", decodeError(t, w).FieldErrors[0].Field)
}

func TestCreateAndCommands(t *testing.T) {
	stub := &stubServices{}
	r := newRouter(stub, handler.Options{})

	w := do(r, http.MethodPost, "/api/v1/users", map[string]string{"name": "Ada", "email": "ada@example.com"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = do(r, http.MethodPost, "/api/v1/enrollments", map[string]int64{"user_id": 2, "course_id": 3})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, int64(2), stub.enrollUser)
	assert.Equal(t, int64(3), stub.enrollCourse)

	w = do(r, http.MethodPost, "/api/v1/notifications/11/read", map[string]int64{"user_id": 2})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(2), stub.markReadUserID)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/courses", bytes.NewBufferString("{")))
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "body", decodeError(t, w).FieldErrors[0].Field)
}

func TestGetUser_NotFound(t *testing.T) {
	stub := &stubServices{err: repository.ErrNotFound}
	w := do(newRouter(stub, handler.Options{}), http.MethodGet, "/api/v1/users/42", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHealthAndDocs(t *testing.T) {
	gin.SetMode(gin.TestMode)
	stub := &stubServices{}
	m := metrics.New(prometheus.NewRegistry())
	ok := handler.NewRouter(zerolog.New(io.Discard), stubPinger{}, stub.services(), handler.Options{Metrics: m})
	down := handler.NewRouter(zerolog.New(io.Discard), stubPinger{err: errors.New("db down")}, stub.services(), handler.Options{})

	assert.Equal(t, http.StatusOK, do(ok, http.MethodGet, "/live", nil).Code)
	assert.Equal(t, http.StatusOK, do(ok, http.MethodGet, "/ready", nil).Code)
	assert.Equal(t, http.StatusOK, do(ok, http.MethodGet, "/api/v1/health/ready", nil).Code)
	assert.Equal(t, http.StatusServiceUnavailable, do(down, http.MethodGet, "/ready", nil).Code)
	assert.Equal(t, http.StatusServiceUnavailable, do(down, http.MethodGet, "/api/v1/health/ready", nil).Code)
	assert.Equal(t, http.StatusNotFound, do(ok, http.MethodGet, "/no-such", nil).Code)

	w := do(ok, http.MethodGet, "/openapi.yaml", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "totalPages")
	assert.Equal(t, http.StatusOK, do(ok, http.MethodGet, "/docs", nil).Code)

	w = do(ok, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "coursehub_http_requests_total")
	assert.Equal(t, http.StatusNotFound, do(down, http.MethodGet, "/metrics", nil).Code)
}
