package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/iti-tech/taskboard-api/internal/config"
	"github.com/iti-tech/taskboard-api/internal/http/middleware"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func corsRequest(t *testing.T, cfg *config.CORSConfig, environment, origin string) *httptest.ResponseRecorder {
	t.Helper()
	handler := middleware.CORS(cfg, environment, zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tasks", nil)
	req.Header.Set("Origin", origin)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestCORS(t *testing.T) {
	baseCfg := func(origins ...string) *config.CORSConfig {
		return &config.CORSConfig{
			AllowedOrigins: origins,
			AllowedMethods: []string{"GET", "POST", "PUT", "DELETE"},
			AllowedHeaders: []string{"Authorization", "Content-Type"},
		}
	}

	t.Run("explicit origin allowed", func(t *testing.T) {
		rec := corsRequest(t, baseCfg("https://painel.ititech.com.br"), "production", "https://painel.ititech.com.br")
		assert.Equal(t, "https://painel.ititech.com.br", rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("unlisted origin denied", func(t *testing.T) {
		rec := corsRequest(t, baseCfg("https://painel.ititech.com.br"), "production", "https://evil.example.com")
		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("development with no origins allows everything", func(t *testing.T) {
		rec := corsRequest(t, baseCfg(), "development", "http://localhost:5173")
		assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("production with no origins denies everything", func(t *testing.T) {
		rec := corsRequest(t, baseCfg(), "production", "http://localhost:5173")
		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("wildcard allows any origin", func(t *testing.T) {
		rec := corsRequest(t, baseCfg("*"), "development", "https://qualquer.example.com")
		assert.Equal(t, "https://qualquer.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
	})
}
