package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-concierge/internal/app/models"
)

func guest(content string) []models.ChatTurn {
	return []models.ChatTurn{{Role: models.RoleUser, Content: content}}
}

func TestMock(t *testing.T) {
	m := NewMock(0)
	ctx := context.Background()

	t.Run("should route by topic", func(t *testing.T) {
		tests := []struct {
			query  string
			marker string
		}{
			{"Where should we eat tonight?", "[RESTAURANT_WIDGET]"},
			{"What is there to see nearby?", "[ATTRACTION_WIDGET]"},
			{"Can I book the SPA?", "[HOTEL_WIDGET]"},
		}
		for _, tt := range tests {
			got, err := Collect(ctx, m, Request{Turns: guest(tt.query)})
			require.NoError(t, err)
			assert.True(t, strings.HasPrefix(got, mockGreeting), tt.query)
			assert.Contains(t, got, tt.marker, tt.query)
		}
	})

	t.Run("should fall back to a generic answer", func(t *testing.T) {
		got := m.Reply(guest("hello there"))
		assert.Equal(t, mockGreeting+mockDefault, got)
	})

	t.Run("should not match keywords inside longer words", func(t *testing.T) {
		got := m.Reply(guest("Seattle weather"))
		assert.Equal(t, mockGreeting+mockDefault, got)
	})

	t.Run("should stream word by word", func(t *testing.T) {
		var n int
		for delta, err := range m.Stream(ctx, Request{Turns: guest("hi")}) {
			require.NoError(t, err)
			assert.True(t, strings.HasSuffix(delta, " "))
			n++
		}
		assert.Equal(t, len(strings.Fields(m.Reply(guest("hi")))), n)
	})

	t.Run("should refuse structured requests", func(t *testing.T) {
		_, err := Collect(ctx, m, Request{Turns: guest("food"), JSON: true})
		assert.ErrorIs(t, err, models.ErrUpstream)
	})

	t.Run("should stop when the context is cancelled", func(t *testing.T) {
		slow := NewMock(time.Hour)
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := Collect(cctx, slow, Request{Turns: guest("food")})
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestPrompt(t *testing.T) {
	t.Run("should pass a single turn through", func(t *testing.T) {
		assert.Equal(t, "hi", Prompt(guest("hi")))
	})

	t.Run("should label a longer transcript", func(t *testing.T) {
		got := Prompt([]models.ChatTurn{
			{Role: models.RoleUser, Content: "hi"},
			{Role: models.RoleAssistant, Content: "hello"},
			{Role: models.RoleUser, Content: "food?"},
		})
		assert.Equal(t, "Guest: hi\n\nSimon: hello\n\nGuest: food?\n\nSimon:", got)
	})
}

func TestNew(t *testing.T) {
	ctx := context.Background()

	t.Run("should default to the mock provider", func(t *testing.T) {
		p, err := New(ctx, Config{}, nil)
		require.NoError(t, err)
		assert.Equal(t, "mock", p.Name())
	})

	t.Run("should reject unknown providers", func(t *testing.T) {
		_, err := New(ctx, Config{Provider: "carrier-pigeon"}, nil)
		assert.Error(t, err)
	})

	t.Run("should require an anthropic key", func(t *testing.T) {
		_, err := New(ctx, Config{Provider: "anthropic"}, nil)
		assert.Error(t, err)
	})

	t.Run("should require a gemini key", func(t *testing.T) {
		_, err := New(ctx, Config{Provider: "gemini"}, nil)
		assert.Error(t, err)
	})
}

func anthropicServer(t *testing.T, status int, events ...string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		assert.Equal(t, anthropicVersion, r.Header.Get("anthropic-version"))

		var body messagesRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.True(t, body.Stream)

		if status != http.StatusOK {
			http.Error(w, `{"type":"error"}`, status)
			return
		}
		w.Header().Set("Content-Type", "text/event-stream")
		for _, ev := range events {
			fmt.Fprintf(w, "event: x\ndata: %s\n\n", ev)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func textDelta(s string) string {
	return fmt.Sprintf(`{"type":"content_block_delta","index":0,"delta":{"type":"text_delta","text":%q}}`, s)
}

func TestAnthropic(t *testing.T) {
	ctx := context.Background()
	newClient := func(t *testing.T, srv *httptest.Server) *Anthropic {
		a, err := NewAnthropic("test-key", "", time.Second, nil)
		require.NoError(t, err)
		return a.WithBaseURL(srv.URL + "/")
	}

	t.Run("should collect text deltas until message_stop", func(t *testing.T) {
		srv := anthropicServer(t, http.StatusOK,
			`{"type":"message_start"}`,
			textDelta("Hello "),
			`{"type":"ping"}`,
			textDelta("guest"),
			`{"type":"message_stop"}`,
		)
		got, err := Collect(ctx, newClient(t, srv), Request{System: "be nice", Turns: guest("hi")})
		require.NoError(t, err)
		assert.Equal(t, "Hello guest", got)
	})

	t.Run("should report a truncated stream", func(t *testing.T) {
		srv := anthropicServer(t, http.StatusOK, textDelta("Hel"))
		got, err := Collect(ctx, newClient(t, srv), Request{Turns: guest("hi")})
		assert.ErrorIs(t, err, models.ErrIncompleteStream)
		assert.Equal(t, "Hel", got)
	})

	t.Run("should surface stream error events", func(t *testing.T) {
		srv := anthropicServer(t, http.StatusOK,
			`{"type":"error","error":{"type":"overloaded_error","message":"Overloaded"}}`)
		_, err := Collect(ctx, newClient(t, srv), Request{Turns: guest("hi")})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "overloaded_error")
	})

	t.Run("should wrap error statuses as upstream failures", func(t *testing.T) {
		srv := anthropicServer(t, http.StatusTooManyRequests)
		_, err := Collect(ctx, newClient(t, srv), Request{Turns: guest("hi")})
		assert.ErrorIs(t, err, models.ErrUpstream)
	})
}
