package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-concierge/internal/app/models"
	"github.com/FACorreiaa/go-concierge/internal/pkg/config"
	"github.com/FACorreiaa/go-concierge/internal/routes"
	"github.com/FACorreiaa/go-concierge/internal/server"
)

func startServer(t *testing.T) string {
	t.Helper()
	cfg := &config.Config{
		GinMode:            gin.TestMode,
		LLMProvider:        "mock",
		StreamChunkSize:    10,
		CacheTTL:           time.Minute,
		SessionBackend:     "memory",
		SessionLifetime:    time.Hour,
		SessionCookie:      "simon_session",
		RateLimitPerMinute: 600,
		RateLimitBurst:     100,
		ServiceName:        "simon-cli-test",
	}
	srv, err := server.New(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	h := routes.NewAppHandlers(cfg, srv.Provider(), srv.Registry(), zap.NewNop())
	ts := httptest.NewServer(server.SetupRouter(cfg, h, zap.NewNop()))
	t.Cleanup(ts.Close)
	return ts.URL
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	useMock, verbose = false, false
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
	}()
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestVersionCmd(t *testing.T) {
	originalVersion := version
	version = "test-version-1.0.0"
	defer func() { version = originalVersion }()

	out, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "simon version test-version-1.0.0")
}

func TestRecommendCmd(t *testing.T) {
	url := startServer(t)

	t.Run("should print the fallback dining list", func(t *testing.T) {
		out, err := execute(t, "", "--server", url, "--session", "recs", "dining")
		require.NoError(t, err)
		assert.Contains(t, out, "1. Nobu Malibu")
		assert.Contains(t, out, "id: nobu-malibu")
	})

	t.Run("should print JSON for family attractions", func(t *testing.T) {
		out, err := execute(t, "", "--server", url, "--session", "recs", "attractions", "--json", "fun", "with", "the", "kids")
		require.NoError(t, err)
		var res models.CachedQueryResult
		require.NoError(t, json.Unmarshal([]byte(out), &res), out)
		require.NotEmpty(t, res.Entities)
		assert.Equal(t, models.KindAttraction, res.Entities[0].Kind)
	})
}

func TestEntityCmd(t *testing.T) {
	url := startServer(t)

	t.Run("should resolve an id from the default lists", func(t *testing.T) {
		out, err := execute(t, "", "--server", url, "--session", "entity", "entity", "griffith-observatory")
		require.NoError(t, err)
		assert.Contains(t, out, "Griffith Observatory")
	})

	t.Run("should fail for unknown ids", func(t *testing.T) {
		_, err := execute(t, "", "--server", url, "--session", "entity", "entity", "atlantis")
		assert.ErrorIs(t, err, models.ErrNotFound)
	})
}

func TestPreloadCmd(t *testing.T) {
	url := startServer(t)

	out, err := execute(t, "", "--server", url, "--session", "preload", "preload")
	require.NoError(t, err)
	assert.Contains(t, out, "loaded attractions")
	assert.Contains(t, out, "loaded dining")
}

func TestChatCmd(t *testing.T) {
	url := startServer(t)

	t.Run("should greet and answer until exit", func(t *testing.T) {
		out, err := execute(t, "hello\nexit\n", "--server", url, "--session", "chat", "chat")
		require.NoError(t, err)
		assert.Contains(t, out, "Simon: Hey there! I'm Simon")
		assert.Contains(t, out, "Simon: Hey! I'm Simon, your hotel concierge.")
	})

	t.Run("should render widgets for a single message", func(t *testing.T) {
		out, err := execute(t, "", "--server", url, "--session", "chat-once", "--mock", "chat", "Can I book the spa?")
		require.NoError(t, err)
		assert.Contains(t, out, "Hotel services")
		assert.NotContains(t, out, "[HOTEL_WIDGET]")
	})
}
