package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/collabpack/internal/client/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T, handler http.Handler) *App {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := &config.Config{ServerBaseURL: srv.URL, RequestTimeout: 5 * time.Second}
	app, err := NewApp(cfg)
	require.NoError(t, err)
	return app
}

func TestLogin_KeepsSessionState(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/signin", r.URL.Path)

		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "alice@x.com", req["email"])
		assert.Equal(t, "s3cret", req["password"])

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"user":  map[string]string{"email": "alice@x.com", "username": "alice"},
			"token": "token-123",
		})
	})

	app := newTestApp(t, handler)
	app.reader = bufio.NewReader(strings.NewReader("alice@x.com\n"))

	old := readPassword
	readPassword = func(fd int) ([]byte, error) { return []byte("s3cret"), nil }
	t.Cleanup(func() { readPassword = old })

	require.NoError(t, app.Login(context.Background()))
	assert.Equal(t, "token-123", app.token)
	assert.Equal(t, "alice@x.com", app.email)
	assert.True(t, app.isLoggedIn())
}

func TestLogin_Failure(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"code":"UNAUTHORISED","message":"wrong email or password"}`))
	})

	app := newTestApp(t, handler)
	app.reader = bufio.NewReader(strings.NewReader("alice@x.com\n"))

	old := readPassword
	readPassword = func(fd int) ([]byte, error) { return []byte("wrong"), nil }
	t.Cleanup(func() { readPassword = old })

	err := app.Login(context.Background())
	require.Error(t, err)
	assert.False(t, app.isLoggedIn())
}

func TestURL_AppendsCallerEmail(t *testing.T) {
	app := &App{config: &config.Config{ServerBaseURL: "http://srv"}}
	assert.Equal(t, "http://srv/api/files", app.url("/api/files"))

	app.email = "alice@x.com"
	assert.Equal(t, "http://srv/api/files?email=alice%40x.com", app.url("/api/files"))
}
