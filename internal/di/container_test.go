package di

import (
	"fmt"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/samber/do/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/listenupapp/catalog-server/internal/config"
	"github.com/listenupapp/catalog-server/internal/di/providers"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		App:    config.AppConfig{Environment: "development"},
		Logger: config.LoggerConfig{Level: "error"},
		Data:   config.DataConfig{Path: t.TempDir()},
		Server: config.ServerConfig{
			Port:         "0",
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 5 * time.Second,
			IdleTimeout:  5 * time.Second,
		},
		Session: config.SessionConfig{
			Duration:        time.Hour,
			CookieName:      "catalog_session",
			CleanupInterval: time.Hour,
		},
		RateLimit: config.RateLimitConfig{PerMinute: 60, Burst: 10},
	}
}

func TestBootstrap_ServesHealth(t *testing.T) {
	injector := NewContainer()
	do.OverrideValue(injector, testConfig(t))

	require.NoError(t, Bootstrap(injector))
	t.Cleanup(func() {
		report := injector.Shutdown()
		assert.True(t, report.Succeed, report.Error())
	})

	server := do.MustInvoke[*providers.HTTPServerHandle](injector)
	addr, ok := server.ListenAddr().(*net.TCPAddr)
	require.True(t, ok)

	resp, err := http.Get(fmt.Sprintf("http://127.0.0.1:%d/health", addr.Port))
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"healthy"`)

	bootstrap := do.MustInvoke[*providers.Bootstrap](injector)
	assert.False(t, bootstrap.AdminCreated)
}
