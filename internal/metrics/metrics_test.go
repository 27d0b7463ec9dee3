package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserve_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveResolution("ok")
		m.ObserveLogin("success")
	})
}

func TestObserve_Counts(t *testing.T) {
	m := New()

	m.ObserveResolution("ok")
	m.ObserveResolution("ok")
	m.ObserveResolution("expired")
	m.ObserveLogin("invalid_credentials")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.authResolutions.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.authResolutions.WithLabelValues("expired")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.authLogins.WithLabelValues("invalid_credentials")))
}

func TestMiddlewareAndHandler(t *testing.T) {
	m := New()

	h := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/auth/me", nil))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues(http.MethodGet, "401")))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `http_requests_total{method="GET",status="401"} 1`)
}
