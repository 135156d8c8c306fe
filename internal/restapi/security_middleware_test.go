package restapi

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func serveWithSecurityHeaders(t *testing.T, allowedOrigin, requestOrigin string) *httptest.ResponseRecorder {
	t.Helper()
	handler := NewSecurityHeadersMiddleware(allowedOrigin)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/dashboard/overview.json", nil)
	if requestOrigin != "" {
		req.Header.Set("Origin", requestOrigin)
	}
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

func TestSecurityHeadersAlwaysSet(t *testing.T) {
	rr := serveWithSecurityHeaders(t, "", "")

	assert.Equal(t, "nosniff", rr.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rr.Header().Get("X-Frame-Options"))
	assert.NotEmpty(t, rr.Header().Get("Strict-Transport-Security"))
	assert.NotEmpty(t, rr.Header().Get("Content-Security-Policy"))
}

func TestCORSRequiresConfiguredOrigin(t *testing.T) {
	// No configured origin: nothing is echoed back.
	rr := serveWithSecurityHeaders(t, "", "https://evil.example")
	assert.Empty(t, rr.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, rr.Header().Get("Access-Control-Allow-Credentials"))

	// Configured origin: only an exact match is allowed.
	rr = serveWithSecurityHeaders(t, "https://dashboard.wasreb.org", "https://dashboard.wasreb.org")
	assert.Equal(t, "https://dashboard.wasreb.org", rr.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rr.Header().Get("Access-Control-Allow-Credentials"))

	rr = serveWithSecurityHeaders(t, "https://dashboard.wasreb.org", "https://evil.example")
	assert.Empty(t, rr.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, rr.Header().Get("Access-Control-Allow-Credentials"))
}
