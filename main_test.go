package main

import (
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foodgram/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	v := viper.New()
	v.Set("JWT_SECRET", "test_jwt_secret")
	v.Set("DB_DRIVER", "sqlite")
	v.Set("DATABASE_DSN", "file:main_smoke?mode=memory&cache=shared")
	v.Set("MEDIA_BACKEND", "local")
	v.Set("MEDIA_ROOT", filepath.Join(t.TempDir(), "media"))
	v.Set("TOKEN_TTL", "1h")
	v.Set("IMAGE_MAX_WIDTH", 1280)
	v.Set("CORS_ORIGINS", "*")
	v.Set("PAGE_SIZE", 6)
	v.Set("MEDIA_URL", "http://localhost:8080/media/")
	cfg, err := config.FromViper(v)
	require.NoError(t, err)
	return cfg
}

func TestServerStartupAndHealthCheck(t *testing.T) {
	app, cleanup, err := newApp(testConfig(t))
	require.NoError(t, err)
	defer cleanup()

	// --- Test Health Endpoint ---
	t.Run("HealthCheck", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		bodyBytes, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Contains(t, string(bodyBytes), `"db":"ok"`)
		assert.NotEmpty(t, resp.Header.Get("X-Request-Id"))
	})

	// --- Test Unauthenticated Access ---
	t.Run("UnauthenticatedAccess", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/users/me/", nil), -1)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("PublicRecipes", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/recipes/", nil), -1)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}

func TestNewApp_BadDriver(t *testing.T) {
	cfg := testConfig(t)
	cfg.DBDriver = "oracle"
	_, _, err := newApp(cfg)
	assert.Error(t, err)
}
