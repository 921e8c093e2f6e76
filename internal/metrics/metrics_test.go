package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestPrometheusMiddlewareUsesRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(PrometheusMiddleware)
	r.Get("/blogs/{slug}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("hello"))
	})

	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/blogs/{slug}", "418"))
	for _, slug := range []string{"a", "b"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/blogs/"+slug, nil))
		assert.Equal(t, http.StatusTeapot, rec.Code)
		assert.Equal(t, "hello", rec.Body.String())
	}
	after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/blogs/{slug}", "418"))
	assert.Equal(t, 2.0, after-before)
}

func TestBusinessCounters(t *testing.T) {
	before := testutil.ToFloat64(contactSubmissionsTotal.WithLabelValues("consultation"))
	RecordContactSubmission("consultation")
	assert.Equal(t, 1.0, testutil.ToFloat64(contactSubmissionsTotal.WithLabelValues("consultation"))-before)

	failures := testutil.ToFloat64(authAttemptsTotal.WithLabelValues("failure"))
	RecordAuthAttempt(false)
	assert.Equal(t, 1.0, testutil.ToFloat64(authAttemptsTotal.WithLabelValues("failure"))-failures)

	errs := testutil.ToFloat64(uploadsTotal.WithLabelValues("images", "error"))
	RecordUpload("images", 10, errors.New("disk full"))
	assert.Equal(t, 1.0, testutil.ToFloat64(uploadsTotal.WithLabelValues("images", "error"))-errs)

	RecordDBQuery("projects", "select", time.Millisecond, nil)
	assert.GreaterOrEqual(t, testutil.ToFloat64(dbQueriesTotal.WithLabelValues("projects", "select", "success")), 1.0)

	UpdateDBConnections(3, 2)
	assert.Equal(t, 3.0, testutil.ToFloat64(dbConnectionsActive))
}
