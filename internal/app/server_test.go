package app

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, a *App, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	a.Handler().ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func TestHandler_Health(t *testing.T) {
	t.Parallel()
	a, _ := SetupAppTest(t, &Config{})

	rec := serve(t, a, http.MethodGet, "/health")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK\n", rec.Body.String())
}

func TestHandler_Resolve(t *testing.T) {
	t.Parallel()
	a, _ := SetupAppTest(t, &Config{})

	t.Run("ok", func(t *testing.T) {
		rec := serve(t, a, http.MethodGet, "/resolve?category=filter&table=users&field=uid")

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		var body map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "numeric", body["plugin_id"])
		assert.Equal(t, false, body["broken"])
		assert.Equal(t, "User ID", body["definition"].(map[string]any)["title"])
	})

	t.Run("broken carries the item", func(t *testing.T) {
		rec := serve(t, a, http.MethodGet, "/resolve?category=sort&table=users&field=nope")

		require.Equal(t, http.StatusOK, rec.Code)
		var body struct {
			Broken   bool `json:"broken"`
			Original struct {
				Table string `json:"table"`
				Field string `json:"field"`
			} `json:"original_configuration"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.True(t, body.Broken)
		assert.Equal(t, "users", body.Original.Table)
		assert.Equal(t, "nope", body.Original.Field)
	})

	t.Run("bad category", func(t *testing.T) {
		rec := serve(t, a, http.MethodGet, "/resolve?category=widget&field=uid")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), `unknown handler category`)
	})

	t.Run("wrong method", func(t *testing.T) {
		rec := serve(t, a, http.MethodPost, "/resolve?category=filter&field=uid")

		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}

func TestHandler_Definitions(t *testing.T) {
	t.Parallel()
	a, _ := SetupAppTest(t, &Config{})

	rec := serve(t, a, http.MethodGet, "/definitions?category=filter")

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]map[string]map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Contains(t, body, "filter")
	assert.Equal(t, "numeric", body["filter"]["numeric"]["id"])
	assert.Equal(t, true, body["filter"]["numeric"]["aggregatable"])

	rec = serve(t, a, http.MethodGet, "/definitions?category=nope")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_Invalidate(t *testing.T) {
	t.Parallel()
	a, _ := SetupAppTest(t, &Config{})
	_, err := a.Definitions(context.Background())
	require.NoError(t, err)

	rec := serve(t, a, http.MethodPost, "/cache/invalidate?tags=plugins:filter,plugins:sort&tags=plugins:field")

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"invalidated":["plugins:filter","plugins:sort","plugins:field"]}`, rec.Body.String())
	_, ok, _ := a.cache.Get(context.Background(), "plugins:filter")
	assert.False(t, ok)
	_, ok, _ = a.cache.Get(context.Background(), "plugins:argument")
	assert.True(t, ok)

	rec = serve(t, a, http.MethodPost, "/cache/invalidate")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSplitTags(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"a", "b", "c"}, splitTags([]string{"a, b", "", "c,"}))
	assert.Nil(t, splitTags(nil))
}

func TestServe_RequiresPort(t *testing.T) {
	t.Parallel()
	a, _ := SetupAppTest(t, &Config{})

	err := a.Serve(context.Background())

	assert.ErrorContains(t, err, "a port is required to serve")
}

func TestServe_StopsOnCancel(t *testing.T) {
	t.Parallel()
	// Arrange
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := l.Addr().(*net.TCPAddr).Port
	require.NoError(t, l.Close())

	a, logs := SetupAppTest(t, &Config{HealthcheckPort: port})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	// Act
	go func() { done <- a.Serve(ctx) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get(fmt.Sprintf("http://127.0.0.1:%d/health", port))
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)
	cancel()

	// Assert
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancellation")
	}
	assert.Contains(t, logs.String(), "Remote invalidation disabled.")
}
