package handler_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
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
	"github.com/maxviazov/coursehub-service/internal/repository/memory"
	"github.com/maxviazov/coursehub-service/internal/service"
)

func TestUsersPagination_EndToEnd(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := memory.NewStore(memory.Open())
	log := zerolog.New(io.Discard)
	m := metrics.New(prometheus.NewRegistry())
	r := handler.NewRouter(log, store.Pinger, service.New(store, m, log), handler.Options{
		Pagination: pagination.StandardDefaults(),
		MaxLimit:   pagination.MaxLimit,
		Metrics:    m,
	})

	ctx := context.Background()
	for i := 0; i < 45; i++ {
		_, err := store.Users.Create(ctx, model.User{
			Name: fmt.Sprintf("user %02d", i), Email: fmt.Sprintf("u%02d@example.com", i),
			Role: model.RoleStudent, Status: model.UserActive,
		})
		require.NoError(t, err)
	}

	var page2 pagination.Result[model.User]
	w := do(r, http.MethodGet, "/api/v1/users?page=2&limit=20", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page2))
	assert.Len(t, page2.Data, 20)
	assert.Equal(t, 45, page2.Total)
	assert.Equal(t, 2, page2.Page)
	assert.Equal(t, 20, page2.Limit)
	assert.Equal(t, 3, page2.TotalPages)
	assert.Equal(t, int64(21), page2.Data[0].ID)

	w = do(r, http.MethodGet, "/api/v1/users?page=4&limit=20", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"data":[],"total":45,"page":4,"limit":20,"totalPages":3}`, w.Body.String())

	w = do(r, http.MethodGet, "/api/v1/users?page=0", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUsersPagination_HugePages(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := memory.NewStore(memory.Open())
	log := zerolog.New(io.Discard)
	r := handler.NewRouter(log, store.Pinger, service.New(store, nil, log), handler.Options{})

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		_, err := store.Users.Create(ctx, model.User{
			Name: fmt.Sprintf("user %d", i), Email: fmt.Sprintf("u%d@example.com", i),
			Role: model.RoleStudent, Status: model.UserActive,
		})
		require.NoError(t, err)
	}

	for _, query := range []string{
		"page=9223372036854775807&limit=20",
		"page=4611686018427387904&limit=4",
		"page=4611686018427387905&limit=4",
	} {
		w := do(r, http.MethodGet, "/api/v1/users?"+query, nil)
		require.Equal(t, http.StatusBadRequest, w.Code, query)
		body := decodeError(t, w)
		require.NotEmpty(t, body.FieldErrors)
		assert.Equal(t, "page", body.FieldErrors[0].Field, query)
	}

	// largest page whose window still fits
	w := do(r, http.MethodGet, "/api/v1/users?page=2305843009213693951&limit=4", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"data":[],"total":5,"page":2305843009213693951,"limit":4,"totalPages":2}`, w.Body.String())
}

func TestUsersSearch_TooLongReportsQueryName(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := memory.NewStore(memory.Open())
	log := zerolog.New(io.Discard)
	r := handler.NewRouter(log, store.Pinger, service.New(store, nil, log), handler.Options{})

	w := do(r, http.MethodGet, "/api/v1/users?q="+strings.Repeat("x", 101), nil)
	require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
	body := decodeError(t, w)
	require.Len(t, body.FieldErrors, 1)
	assert.Equal(t, "q", body.FieldErrors[0].Field)
}
