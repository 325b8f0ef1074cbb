package config

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linesmerrill/drone-survey-sync/models"
)

func TestNew(t *testing.T) {
	t.Setenv("BACKEND_URL", "http://127.0.0.1:3000/api")
	t.Setenv("SOCKET_URL", "http://127.0.0.1:3000")
	t.Setenv("REQUEST_TIMEOUT", "5s")

	conf, err := New()
	require.NoError(t, err)

	assert.Equal(t, "http://127.0.0.1:3000/api", conf.BackendURL)
	assert.Equal(t, "/socket.io/", conf.SocketPath)
	assert.Equal(t, "8080", conf.Port)
	assert.Equal(t, 5*time.Second, conf.RequestTimeout)
	assert.Equal(t, time.Second, conf.ReconnectDelay)
	assert.Equal(t, 5*time.Second, conf.ReconnectDelayMax)
	assert.Empty(t, conf.StatisticsRefreshSchedule)
}

func TestNewMissingRequired(t *testing.T) {
	t.Setenv("BACKEND_URL", "")
	os.Unsetenv("BACKEND_URL")
	t.Setenv("SOCKET_URL", "http://127.0.0.1:3000")

	_, err := New()
	assert.Error(t, err)
}

func TestNewLoadsEnvFile(t *testing.T) {
	t.Setenv("BACKEND_URL", "")
	t.Setenv("SOCKET_URL", "")
	os.Unsetenv("BACKEND_URL")
	os.Unsetenv("SOCKET_URL")
	t.Setenv("PORT", "9090")

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("BACKEND_URL=http://backend\nSOCKET_URL=http://push\nPORT=1111\n"), 0o600))

	conf, err := New(path, filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "http://backend", conf.BackendURL)
	assert.Equal(t, "http://push", conf.SocketURL)
	assert.Equal(t, "9090", conf.Port, "existing environment wins over the file")
}

func TestErrorStatus(t *testing.T) {
	rr := httptest.NewRecorder()

	ErrorStatus("failed to create drone", http.StatusBadRequest, rr, errors.New("bad request"))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	var body models.ErrorMessageResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "failed to create drone", body.Response.Message)
	assert.Equal(t, "bad request", body.Response.Error)
}

func TestSetLoggerSetsDevelopmentLogger(t *testing.T) {
	l, err := setLogger("development")
	assert.NoError(t, err)
	assert.True(t, l.Core().Enabled(1))
}

func TestSetLoggerSetsProductionLogger(t *testing.T) {
	l, err := setLogger("production")
	assert.NoError(t, err)
	assert.True(t, l.Core().Enabled(2))
}

func TestSetLoggerSetsLocalLogger(t *testing.T) {
	l, err := setLogger("local")
	assert.NoError(t, err)
	assert.True(t, l.Core().Enabled(0))
}
