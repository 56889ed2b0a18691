package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-concierge/internal/app/models"
	"github.com/FACorreiaa/go-concierge/internal/app/streaming"
	"github.com/FACorreiaa/go-concierge/internal/pkg/config"
	"github.com/FACorreiaa/go-concierge/internal/routes"
)

func testConfig() *config.Config {
	return &config.Config{
		ServerPort:         "0",
		GinMode:            gin.TestMode,
		LLMProvider:        "mock",
		LLMMaxTokens:       2000,
		StreamChunkSize:    10,
		CacheTTL:           time.Minute,
		SessionBackend:     "memory",
		SessionLifetime:    time.Hour,
		SessionCookie:      "simon_session",
		RateLimitPerMinute: 600,
		RateLimitBurst:     100,
		ServiceName:        "go-concierge-test",
	}
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	cfg := testConfig()
	srv, err := New(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(srv.Close)

	h := routes.NewAppHandlers(cfg, srv.Provider(), srv.Registry(), zap.NewNop())
	return SetupRouter(cfg, h, zap.NewNop())
}

func TestRouter(t *testing.T) {
	r := newTestRouter(t)

	t.Run("should report health", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	})

	t.Run("should stream a fallback document when the provider cannot answer", func(t *testing.T) {
		body := `{"query":"I'd like restaurant recommendations for tonight"}`
		req := httptest.NewRequest(http.MethodPost, "/api/chat/local-dining", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "text/event-stream", w.Header().Get("Content-Type"))
		assert.True(t, strings.HasSuffix(w.Body.String(), "data: [DONE]\n\n"))

		doc, err := streaming.Reassemble(context.Background(), w.Body)
		require.NoError(t, err)
		var resp models.StructuredResponse
		require.NoError(t, json.Unmarshal([]byte(doc), &resp))
		require.NotEmpty(t, resp.Restaurants)
		assert.NotEmpty(t, resp.TextResponse)
	})

	t.Run("should stream the canned conversation", func(t *testing.T) {
		body := `{"messages":[{"role":"user","content":"Can I book the spa?"}]}`
		req := httptest.NewRequest(http.MethodPost, "/api/chat/mock", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		text, err := streaming.Reassemble(context.Background(), w.Body)
		require.NoError(t, err)
		assert.Contains(t, text, "[HOTEL_WIDGET]")
	})

	t.Run("should serve session routes through the local endpoints", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/session/recommendations/attractions", nil))

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var res models.CachedQueryResult
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
		require.NotEmpty(t, res.Entities)
		assert.Equal(t, models.KindAttraction, res.Entities[0].Kind)
		assert.NotEmpty(t, w.Result().Cookies())
	})
}
