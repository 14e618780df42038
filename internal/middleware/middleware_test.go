package middleware

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/mediconnect/admin/internal/logging"
	"github.com/mediconnect/admin/internal/metrics"
	"github.com/mediconnect/admin/internal/service"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func ok(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) }

func TestRequestID(t *testing.T) {
	h := RequestID()(http.HandlerFunc(ok))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NotEmpty(t, rec.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
}

func TestLogging_StoresEntryAndLogs(t *testing.T) {
	var buf bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&buf)
	logger.SetFormatter(&logrus.JSONFormatter{})

	var seen *logrus.Entry
	h := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = logging.From(r.Context())
		w.WriteHeader(http.StatusTeapot)
	}), RequestID(), Logging(logger))

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(RequestIDHeader, "rid-1")
	h.ServeHTTP(httptest.NewRecorder(), req)

	require.Equal(t, "rid-1", seen.Data["request_id"])
	require.Contains(t, buf.String(), `"status":418`)
	require.Contains(t, buf.String(), `"request_id":"rid-1"`)
}

func TestRecover(t *testing.T) {
	h := Recover()(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") }))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.JSONEq(t, `{"error":"Internal server error"}`, rec.Body.String())
}

func TestCORS(t *testing.T) {
	h := CORS([]string{"https://admin.example.com"})(http.HandlerFunc(ok))

	req := httptest.NewRequest(http.MethodOptions, "/api/patients", nil)
	req.Header.Set("Origin", "https://admin.example.com")
	req.Header.Set("Access-Control-Request-Method", "DELETE")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, "https://admin.example.com", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/api/patients", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestMetrics_RouteTemplate(t *testing.T) {
	m := metrics.New()
	router := mux.NewRouter()
	router.HandleFunc("/api/verifications/{id}/images", ok).Methods(http.MethodGet)
	h := Metrics(m, router)(router)

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/verifications/123/images", nil))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	require.Equal(t, 1.0, testutil.ToFloat64(m.Requests().WithLabelValues("/api/verifications/{id}/images", "GET", "200")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.Requests().WithLabelValues("unmatched", "GET", "404")))
}

func TestMetrics_CountsRecoveredPanics(t *testing.T) {
	m := metrics.New()
	router := mux.NewRouter()
	router.HandleFunc("/api/boom", func(http.ResponseWriter, *http.Request) { panic("boom") }).Methods(http.MethodGet)
	h := Chain(router, Metrics(m, router), Recover())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/boom", nil))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Equal(t, 1.0, testutil.ToFloat64(m.Requests().WithLabelValues("/api/boom", "GET", "500")))
}

type stubAuth struct {
	id  uuid.UUID
	err error
}

func (s stubAuth) Authenticate(context.Context, string) (uuid.UUID, error) { return s.id, s.err }

func TestRequireAdmin(t *testing.T) {
	admin := uuid.New()
	cases := []struct {
		name   string
		header string
		auth   stubAuth
		want   int
	}{
		{"missing header", "", stubAuth{}, http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", stubAuth{}, http.StatusUnauthorized},
		{"bad token", "Bearer t", stubAuth{err: service.ErrUnauthenticated}, http.StatusUnauthorized},
		{"not admin", "Bearer t", stubAuth{err: service.ErrForbidden}, http.StatusForbidden},
		{"store down", "Bearer t", stubAuth{err: errors.New("db down")}, http.StatusInternalServerError},
		{"admin", "Bearer t", stubAuth{id: admin}, http.StatusOK},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			var got uuid.UUID
			h := NewAuthMiddleware(c.auth).RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got, _ = AdminID(r.Context())
				w.WriteHeader(http.StatusOK)
			}))
			req := httptest.NewRequest(http.MethodGet, "/api/dashboard/stats", nil)
			if c.header != "" {
				req.Header.Set("Authorization", c.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			require.Equal(t, c.want, rec.Code)
			if c.want == http.StatusOK {
				require.Equal(t, admin, got)
			} else {
				require.Contains(t, rec.Body.String(), `"error"`)
			}
		})
	}
}
