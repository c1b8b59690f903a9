package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/iti-tech/taskboard-api/internal/config"
	"github.com/iti-tech/taskboard-api/internal/http/middleware"
	"github.com/stretchr/testify/assert"
)

func runSecurityMiddleware(cfg *config.SecurityConfig) *httptest.ResponseRecorder {
	handler := middleware.SecurityHeaders(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	return rec
}

func TestSecurityHeaders(t *testing.T) {
	t.Run("all headers enabled", func(t *testing.T) {
		rec := runSecurityMiddleware(&config.SecurityConfig{
			ContentTypeNosniff:    true,
			FrameOptions:          "DENY",
			XSSProtection:         "1; mode=block",
			ContentSecurityPolicy: "default-src 'self'",
			ReferrerPolicy:        "strict-origin-when-cross-origin",
			PermissionsPolicy:     "geolocation=()",
			EnableHSTS:            true,
			HSTSMaxAge:            31536000,
			HSTSIncludeSubdomains: true,
			HSTSPreload:           true,
		})

		h := rec.Header()
		assert.Equal(t, "nosniff", h.Get("X-Content-Type-Options"))
		assert.Equal(t, "DENY", h.Get("X-Frame-Options"))
		assert.Equal(t, "1; mode=block", h.Get("X-XSS-Protection"))
		assert.Equal(t, "default-src 'self'", h.Get("Content-Security-Policy"))
		assert.Equal(t, "strict-origin-when-cross-origin", h.Get("Referrer-Policy"))
		assert.Equal(t, "geolocation=()", h.Get("Permissions-Policy"))
		assert.Equal(t, "max-age=31536000; includeSubDomains; preload", h.Get("Strict-Transport-Security"))
	})

	t.Run("disabled headers are absent", func(t *testing.T) {
		rec := runSecurityMiddleware(&config.SecurityConfig{})

		h := rec.Header()
		assert.Empty(t, h.Get("X-Content-Type-Options"))
		assert.Empty(t, h.Get("X-Frame-Options"))
		assert.Empty(t, h.Get("Strict-Transport-Security"))
	})

	t.Run("hsts without subdomains or preload", func(t *testing.T) {
		rec := runSecurityMiddleware(&config.SecurityConfig{
			EnableHSTS: true,
			HSTSMaxAge: 3600,
		})
		assert.Equal(t, "max-age=3600", rec.Header().Get("Strict-Transport-Security"))
	})
}
