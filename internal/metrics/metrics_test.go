package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestObserve(t *testing.T) {
	m := New()
	m.Observe("/api/patients", http.MethodGet, 200, 5*time.Millisecond)
	m.Observe("/api/patients", http.MethodGet, 200, 7*time.Millisecond)
	m.Observe("/api/patients", http.MethodDelete, 404, time.Millisecond)

	require.Equal(t, 2.0, testutil.ToFloat64(m.Requests().WithLabelValues("/api/patients", "GET", "200")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.Requests().WithLabelValues("/api/patients", "DELETE", "404")))
}

func TestHandler_Exposition(t *testing.T) {
	m := New()
	m.Observe("/health", http.MethodGet, 200, time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, strings.Contains(rec.Body.String(), "mediconnect_admin_http_requests_total"))
}
