package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anyulbade/pyme-guarantee-quoter/internal/middleware"
	"github.com/anyulbade/pyme-guarantee-quoter/internal/model"
	"github.com/anyulbade/pyme-guarantee-quoter/internal/policy"
	"github.com/anyulbade/pyme-guarantee-quoter/internal/quote"
	"github.com/anyulbade/pyme-guarantee-quoter/internal/service"
)

func TestHealth(t *testing.T) {
	loadErr := &model.ArtifactLoadError{Path: "m.json", Err: errors.New("bad json")}

	cases := []struct {
		name     string
		loader   *fakeLoader
		db       Pinger
		status   int
		model    string
		database string
	}{
		{"loaded without db", &fakeLoader{bundle: testBundle(t, "v1", 0.02, 1)}, nil, http.StatusOK, "loaded", "disabled"},
		{"loaded with db", &fakeLoader{bundle: testBundle(t, "v1", 0.02, 1)}, fakePinger{}, http.StatusOK, "loaded", "connected"},
		{"pending", &fakeLoader{}, nil, http.StatusOK, "pending", "disabled"},
		{"load failed", &fakeLoader{err: loadErr}, nil, http.StatusServiceUnavailable, "failed", "disabled"},
		{"db down", &fakeLoader{bundle: testBundle(t, "v1", 0.02, 1)}, fakePinger{err: errors.New("refused")}, http.StatusServiceUnavailable, "loaded", "disconnected"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := doJSON(newTestRouter(tc.loader, nil, tc.db), http.MethodGet, "/health", nil)
			assert.Equal(t, tc.status, w.Code)

			var resp map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tc.model, resp["model"])
			assert.Equal(t, tc.database, resp["database"])
			if tc.status == http.StatusOK {
				assert.Equal(t, "healthy", resp["status"])
			} else {
				assert.Equal(t, "unhealthy", resp["status"])
			}
		})
	}
}

func TestHealthHandler_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	pool := getTestPool(t)
	if pool == nil {
		t.Skip("no database available")
	}
	defer pool.Close()

	w := doJSON(newTestRouter(&fakeLoader{bundle: testBundle(t, "v1", 0.02, 1)}, nil, pool), http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"database":"connected"`)
}

func TestReloadBundle(t *testing.T) {
	t.Run("success swaps version", func(t *testing.T) {
		loader := &fakeLoader{bundle: testBundle(t, "v1", 0.02, 1), next: testBundle(t, "v2", 0.02, 1)}
		router := newTestRouter(loader, nil, nil)

		w := doJSON(router, http.MethodPost, "/admin/bundle/reload", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"model_version":"v2"`)

		w = doJSON(router, http.MethodPost, "/api/v1/quotes", validQuoteBody())
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"bundle_version":"v2"`)
	})

	t.Run("failure keeps serving", func(t *testing.T) {
		loader := &fakeLoader{
			bundle:    testBundle(t, "v1", 0.02, 1),
			reloadErr: &model.ArtifactLoadError{Path: "m.json", Err: errors.New("truncated")},
		}
		router := newTestRouter(loader, nil, nil)

		w := doJSON(router, http.MethodPost, "/admin/bundle/reload", nil)
		require.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Contains(t, w.Body.String(), "still serving v1")

		w = doJSON(router, http.MethodPost, "/api/v1/quotes", validQuoteBody())
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestRegister_AdminSharesAPIMiddleware(t *testing.T) {
	loader := &fakeLoader{bundle: testBundle(t, "v1", 0.02, 1), next: testBundle(t, "v2", 0.02, 1)}
	quotes := service.NewQuoteService(loader, quote.NewCalculator(policy.Default()), nil, 0)

	router := gin.New()
	router.Use(middleware.ErrorHandler())
	Routes{
		Quotes:  NewQuoteHandler(quotes, service.NewReportService(quotes)),
		Catalog: NewCatalogHandler(),
		Health:  NewHealthHandler(loader, nil),
		Admin:   NewAdminHandler(loader),
	}.Register(router, middleware.NewRateLimiter(0.001, 1).Middleware())

	w := doJSON(router, http.MethodPost, "/admin/bundle/reload", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(router, http.MethodPost, "/admin/bundle/reload", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	for i := 0; i < 3; i++ {
		w = doJSON(router, http.MethodGet, "/health", nil)
		assert.Equal(t, http.StatusOK, w.Code)
	}
}
