package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveList(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveList("users", OutcomeOK, 45, 3*time.Millisecond)
	m.ObserveList("users", OutcomeOK, 46, time.Millisecond)
	m.ObserveList("users", OutcomeInvalid, 0, 0)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.ListQueries.WithLabelValues("users", OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ListQueries.WithLabelValues("users", OutcomeInvalid)))
	assert.Equal(t, 46.0, testutil.ToFloat64(m.ListTotal.WithLabelValues("users")))
}

func TestObserveList_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() { m.ObserveList("users", OutcomeOK, 1, 0) })
}

func TestHandler_ServesRegistry(t *testing.T) {
	m := New(prometheus.NewRegistry())
	m.ObserveList("courses", OutcomeOK, 3, time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `coursehub_list_queries_total{entity="courses",outcome="ok"} 1`))
}
