package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/anstrom/lanwatch/internal/logging"
	"github.com/anstrom/lanwatch/internal/metrics/mocks"
)

func okHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func TestRequestID(t *testing.T) {
	tests := []struct {
		name     string
		incoming string
		keep     bool
	}{
		{name: "generated when absent"},
		{name: "incoming header reused", incoming: "abc-123", keep: true},
		{name: "oversized header replaced", incoming: strings.Repeat("x", 100)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen string
			h := RequestID()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen = GetRequestID(r)
			}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.incoming != "" {
				req.Header.Set(RequestIDHeader, tt.incoming)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, seen, rec.Header().Get(RequestIDHeader))
			if tt.keep {
				assert.Equal(t, tt.incoming, seen)
			} else {
				assert.True(t, strings.HasPrefix(seen, "req_"), seen)
			}
		})
	}
}

func TestGetRequestID_Unknown(t *testing.T) {
	assert.Equal(t, "unknown", GetRequestID(httptest.NewRequest(http.MethodGet, "/", nil)))
}

func TestLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewWithWriter(&buf, logging.Config{Level: logging.LevelDebug, Format: logging.FormatJSON})

	h := RequestID()(Logging(logger)(http.HandlerFunc(okHandler)))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/devices", nil))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "HTTP request completed", entry["msg"])
	assert.Equal(t, "/api/v1/devices", entry["path"])
	assert.EqualValues(t, 200, entry["status_code"])
	assert.EqualValues(t, 2, entry["response_size"])
}

func TestMetrics_UsesRouteTemplate(t *testing.T) {
	ctrl := gomock.NewController(t)
	recorder := mocks.NewMockRecorder(ctrl)
	recorder.EXPECT().HTTPRequest(http.MethodGet, "/devices/{address}", http.StatusOK, gomock.Any())
	recorder.EXPECT().HTTPRequest(http.MethodGet, "unmatched", http.StatusNotFound, gomock.Any())

	router := mux.NewRouter()
	router.Use(Metrics(recorder))
	router.HandleFunc("/devices/{address}", okHandler)
	router.NotFoundHandler = Metrics(recorder)(http.NotFoundHandler())

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/devices/10.0.0.1", nil))
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nope", nil))
}

func TestRecovery(t *testing.T) {
	h := RequestID()(Recovery(logging.Discard())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "internal server error", body["error"])
	assert.Equal(t, rec.Header().Get(RequestIDHeader), body["request_id"])
	assert.NotEmpty(t, body["timestamp"])
}

func TestContentType(t *testing.T) {
	tests := []struct {
		name        string
		method      string
		contentType string
		want        int
	}{
		{"json post", http.MethodPost, "application/json; charset=utf-8", http.StatusOK},
		{"empty post", http.MethodPost, "", http.StatusOK},
		{"form post", http.MethodPost, "application/x-www-form-urlencoded", http.StatusUnsupportedMediaType},
		{"get ignores header", http.MethodGet, "text/plain", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/", nil)
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}
			rec := httptest.NewRecorder()
			ContentType()(http.HandlerFunc(okHandler)).ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestSecurityHeaders(t *testing.T) {
	rec := httptest.NewRecorder()
	SecurityHeaders()(http.HandlerFunc(okHandler)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
}

func TestResponseWriter_HijackUnsupported(t *testing.T) {
	rw := wrap(httptest.NewRecorder())
	_, _, err := rw.Hijack()
	assert.Error(t, err)
}

func TestGetClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.168.1.7:5555"
	assert.Equal(t, "192.168.1.7", getClientIP(req))

	req.Header.Set("X-Forwarded-For", "10.0.0.9, 10.0.0.1")
	assert.Equal(t, "10.0.0.9", getClientIP(req))
}
