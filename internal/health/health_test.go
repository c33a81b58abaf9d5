// SPDX-License-Identifier: MIT

package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockChecker struct {
	name   string
	status Status
}

func (m *mockChecker) Name() string { return m.name }
func (m *mockChecker) Check(context.Context) CheckResult {
	return CheckResult{Status: m.status}
}

func TestManager_Health(t *testing.T) {
	m := NewManager("v1.0.0")
	m.RegisterChecker(&mockChecker{name: "healthy", status: StatusHealthy})
	m.RegisterChecker(&mockChecker{name: "degraded", status: StatusDegraded})

	resp := m.Health(context.Background(), false)
	assert.Equal(t, StatusHealthy, resp.Status)
	assert.Equal(t, "v1.0.0", resp.Version)
	assert.Nil(t, resp.Checks)

	resp = m.Health(context.Background(), true)
	assert.Equal(t, StatusDegraded, resp.Status)
	assert.Len(t, resp.Checks, 2)
}

func TestManager_Ready(t *testing.T) {
	m := NewManager("v1.0.0")
	assert.True(t, m.Ready(context.Background(), false).Ready)

	m.RegisterChecker(&mockChecker{name: "prefs", status: StatusUnhealthy})
	resp := m.Ready(context.Background(), false)
	assert.False(t, resp.Ready)
	assert.Equal(t, StatusUnhealthy, resp.Status)
}

func TestServeReady_StatusCodes(t *testing.T) {
	m := NewManager("v1.0.0")
	m.RegisterChecker(NewPingChecker("prefs", func(context.Context) error { return errors.New("closed") }))

	rec := httptest.NewRecorder()
	m.ServeReady(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body ReadinessResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "closed", body.Checks["prefs"].Error)

	rec = httptest.NewRecorder()
	m.ServeHealth(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestPingChecker(t *testing.T) {
	ok := NewPingChecker("prefs", func(context.Context) error { return nil })
	assert.Equal(t, StatusHealthy, ok.Check(context.Background()).Status)

	bad := NewPingChecker("cache", func(context.Context) error { return errors.New("down") }).Optional()
	res := bad.Check(context.Background())
	assert.Equal(t, StatusDegraded, res.Status)
	assert.Equal(t, "cache", bad.Name())
}

func TestSessionsChecker(t *testing.T) {
	c := NewSessionsChecker(func() int { return 4 })
	res := c.Check(context.Background())
	assert.Equal(t, StatusHealthy, res.Status)
	assert.Equal(t, "4 active", res.Message)
}

func TestPerformStartupChecks(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	require.NoError(t, PerformStartupChecks(context.Background(), StartupInput{
		ListenAddr:     ":8080",
		StorageBackend: "sqlite",
		StorageDir:     dir,
	}))
	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	assert.Error(t, PerformStartupChecks(context.Background(), StartupInput{ListenAddr: "nope"}))
	assert.Error(t, PerformStartupChecks(context.Background(), StartupInput{CacheBackend: "redis", RedisAddr: "localhost"}))
	assert.NoError(t, PerformStartupChecks(context.Background(), StartupInput{StorageBackend: "memory"}))
}

func TestPerformStartupChecks_FileInsteadOfDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))
	assert.Error(t, PerformStartupChecks(context.Background(), StartupInput{StorageBackend: "file", StorageDir: path}))
}
