package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"trialbalance/config"
	"trialbalance/database"
	"trialbalance/middleware"
	"trialbalance/models"
	"trialbalance/service"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// emptyRepo 没有任何数据的只读仓库
type emptyRepo struct {
	database.Repository
}

func (emptyRepo) ListDocuments(context.Context) ([]models.Document, error) {
	return []models.Document{}, nil
}

func (emptyRepo) ListCategories(context.Context) ([]models.Category, error) {
	return []models.Category{}, nil
}

type noopIngester struct{}

func (noopIngester) Ingest(context.Context, string, []byte) (*service.IngestResult, error) {
	return &service.IngestResult{}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Mode: "test"},
		JWT:    config.JWTConfig{Secret: "router-test-secret"},
		Ingest: config.IngestConfig{
			CategoryMarker:   "КЛАСС",
			MaxUploadMB:      1,
			UploadRateLimit:  5,
			UploadRateWindow: time.Minute,
		},
	}
}

func TestSetupRouter(t *testing.T) {
	cfg := testConfig()
	middleware.InitJWT(cfg)

	reg := prometheus.NewRegistry()
	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "router_test_total", Help: "test"})
	reg.MustRegister(counter)
	counter.Inc()

	r := SetupRouter(cfg, emptyRepo{}, noopIngester{}, reg)

	t.Run("health", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "ok")
		assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	})

	t.Run("metrics", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "router_test_total 1")
	})

	t.Run("requires token", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/documents", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("with token", func(t *testing.T) {
		token, err := middleware.GenerateToken("uploader", time.Hour)
		require.NoError(t, err)

		for _, path := range []string{"/api/v1/documents", "/api/v1/categories"} {
			req := httptest.NewRequest("GET", path, nil)
			req.Header.Set("Authorization", "Bearer "+token)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, http.StatusOK, w.Code, path)
		}
	})

	t.Run("cors preflight", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest("OPTIONS", "/api/v1/uploads", nil))
		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	})
}
