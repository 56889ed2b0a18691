package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-concierge/internal/app/domain/extractor"
	"github.com/FACorreiaa/go-concierge/internal/app/domain/widgets"
	"github.com/FACorreiaa/go-concierge/internal/app/models"
	"github.com/FACorreiaa/go-concierge/internal/app/streaming"
	"github.com/FACorreiaa/go-concierge/internal/pkg/cache"
)

const reply = "Hey! Try these:\n1. Nobu Malibu - Japanese with ocean views\n2. Bestia - Italian in the Arts District\n[RESTAURANT_WIDGET]"

// fakeServer mimics the completion endpoints.
type fakeServer struct {
	mu         sync.Mutex
	chatReply  string
	chatStatus int
	truncate   bool
	failing    map[string]bool
	docs       map[string]models.StructuredResponse
	hits       map[string]int
	lastChat   models.ChatRequest
}

func newFakeServer() *fakeServer {
	return &fakeServer{
		chatReply: reply,
		failing:   map[string]bool{},
		hits:      map[string]int{},
		docs: map[string]models.StructuredResponse{
			DiningPath: {
				TextResponse: "Dinner ideas",
				Restaurants:  []models.Entity{{ID: "bestia", Name: "Bestia", Cuisine: "Italian", Rating: 4.7}},
			},
			AttractionsPath: {
				TextResponse: "Day ideas",
				Attractions:  []models.Entity{{ID: "getty-center", Name: "Getty Center", Type: "Museum", Rating: 4.8}},
			},
		},
	}
}

func (f *fakeServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.hits[r.URL.Path]++
	failing := f.failing[r.URL.Path]
	f.mu.Unlock()

	if failing {
		http.Error(w, `{"error":"down"}`, http.StatusInternalServerError)
		return
	}

	streaming.SetSSEHeaders(w.Header())
	ew := streaming.NewEventWriter(w)

	if r.URL.Path == ChatPath {
		var req models.ChatRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		f.mu.Lock()
		f.lastChat = req
		status, truncate := f.chatStatus, f.truncate
		f.mu.Unlock()
		if status != 0 {
			w.WriteHeader(status)
			return
		}
		for _, chunk := range streaming.Rechunk(f.chatReply, 5) {
			_ = ew.WriteDelta(chunk)
		}
		if !truncate {
			_ = ew.WriteDone()
		}
		return
	}

	doc, _ := json.Marshal(f.docs[r.URL.Path])
	_ = streaming.EmitChunked(r.Context(), ew, string(doc), 10, streaming.NoPacer{})
}

func (f *fakeServer) fail(path string) {
	f.mu.Lock()
	f.failing[path] = true
	f.mu.Unlock()
}

func (f *fakeServer) hitCount(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hits[path]
}

func newConcierge(t *testing.T, h http.Handler) *Concierge {
	t.Helper()
	store := cache.NewSessionStore(context.Background(), cache.NewMemoryStorage(time.Hour), "test-session")
	detector := widgets.NewDetector(extractor.NewSeeded(7), nil)
	return NewConcierge(NewLocalTransport(h), store, detector)
}

func TestConcierge_Ask(t *testing.T) {
	ctx := context.Background()

	t.Run("should open the conversation with the welcome message", func(t *testing.T) {
		c := newConcierge(t, newFakeServer())
		msgs := c.Transcript(ctx)
		require.Len(t, msgs, 1)
		assert.Equal(t, WelcomeText, msgs[0].Content)
		assert.Len(t, c.Transcript(ctx), 1)
	})

	t.Run("should attach widgets and remember the exchange", func(t *testing.T) {
		srv := newFakeServer()
		c := newConcierge(t, srv)

		var typed strings.Builder
		msg, err := c.Ask(ctx, "  Where should we eat?  ", func(s string) { typed.WriteString(s) })
		require.NoError(t, err)

		assert.Equal(t, reply, typed.String())
		assert.Equal(t, models.RoleAssistant, msg.Role)
		assert.NotContains(t, msg.Content, "[RESTAURANT_WIDGET]")
		assert.True(t, strings.HasPrefix(msg.Content, "Hey! Try these:"))
		require.Len(t, msg.Widgets, 1)
		assert.Equal(t, models.WidgetRestaurant, msg.Widgets[0].Type())

		items := msg.Widgets[0].Payload.Items()
		require.Len(t, items, 2)
		assert.Equal(t, "nobu-malibu", items[0].ID)

		_, ok := c.Store().Entity("bestia")
		assert.True(t, ok)

		transcript := c.Store().Transcript()
		require.Len(t, transcript, 3)
		assert.Equal(t, "Where should we eat?", transcript[1].Content)

		require.Len(t, srv.lastChat.Messages, 2)
		assert.Equal(t, WelcomeText, srv.lastChat.Messages[0].Content)
		assert.Equal(t, models.RoleUser, srv.lastChat.Messages[1].Role)
	})

	t.Run("should apologise when the endpoint fails", func(t *testing.T) {
		srv := newFakeServer()
		srv.chatStatus = http.StatusInternalServerError
		c := newConcierge(t, srv)

		msg, err := c.Ask(ctx, "hello", nil)
		require.NoError(t, err)
		assert.Equal(t, ApologyText, msg.Content)
		assert.Empty(t, msg.Widgets)
	})

	t.Run("should apologise when the stream is cut short", func(t *testing.T) {
		srv := newFakeServer()
		srv.truncate = true
		c := newConcierge(t, srv)

		msg, err := c.Ask(ctx, "hello", nil)
		require.NoError(t, err)
		assert.Equal(t, ApologyText, msg.Content)
	})

	t.Run("should return cancellation without a reply", func(t *testing.T) {
		c := newConcierge(t, newFakeServer())
		cctx, cancel := context.WithCancel(ctx)
		cancel()

		_, err := c.Ask(cctx, "hello", nil)
		assert.ErrorIs(t, err, context.Canceled)
		for _, m := range c.Store().Transcript() {
			assert.NotEqual(t, ApologyText, m.Content)
		}
	})

	t.Run("should reject blank messages", func(t *testing.T) {
		c := newConcierge(t, newFakeServer())
		_, err := c.Ask(ctx, "   ", nil)
		assert.ErrorIs(t, err, models.ErrBadRequest)
	})
}

func TestConcierge_Recommendations(t *testing.T) {
	ctx := context.Background()

	t.Run("should fetch once and then serve from cache", func(t *testing.T) {
		srv := newFakeServer()
		c := newConcierge(t, srv)

		first, err := c.Recommendations(ctx, models.DomainDining, "Dinner tonight")
		require.NoError(t, err)
		assert.Equal(t, "Dinner ideas", first.DisplayText)
		require.Len(t, first.Entities, 1)
		assert.Equal(t, models.KindRestaurant, first.Entities[0].Kind)

		second, err := c.Recommendations(ctx, models.DomainDining, "  dinner   TONIGHT ")
		require.NoError(t, err)
		assert.Equal(t, first.CachedAt, second.CachedAt)
		assert.Equal(t, 1, srv.hitCount(DiningPath))
	})

	t.Run("should refetch on refresh", func(t *testing.T) {
		srv := newFakeServer()
		c := newConcierge(t, srv)

		_, err := c.Recommendations(ctx, models.DomainAttractions, "museums")
		require.NoError(t, err)
		_, err = c.Refresh(ctx, models.DomainAttractions, "museums")
		require.NoError(t, err)
		assert.Equal(t, 2, srv.hitCount(AttractionsPath))
	})

	t.Run("should surface unreachable endpoints", func(t *testing.T) {
		srv := newFakeServer()
		srv.fail(DiningPath)
		c := newConcierge(t, srv)

		_, err := c.Recommendations(ctx, models.DomainDining, "dinner")
		assert.ErrorIs(t, err, models.ErrUpstream)
		assert.False(t, c.Store().HasQuery("dinner"))
	})

	t.Run("should reject empty documents", func(t *testing.T) {
		srv := newFakeServer()
		srv.docs[DiningPath] = models.StructuredResponse{TextResponse: "nothing"}
		c := newConcierge(t, srv)

		_, err := c.Recommendations(ctx, models.DomainDining, "dinner")
		assert.ErrorIs(t, err, models.ErrInvalidDocument)
	})
}

func TestConcierge_Entity(t *testing.T) {
	ctx := context.Background()

	t.Run("should refetch default lists for unknown ids", func(t *testing.T) {
		srv := newFakeServer()
		c := newConcierge(t, srv)

		e, err := c.Entity(ctx, "getty-center")
		require.NoError(t, err)
		assert.Equal(t, "Getty Center", e.Name)
		assert.Equal(t, 1, srv.hitCount(DiningPath))
		assert.Equal(t, 1, srv.hitCount(AttractionsPath))

		_, err = c.Entity(ctx, "getty-center")
		require.NoError(t, err)
		assert.Equal(t, 1, srv.hitCount(AttractionsPath))
	})

	t.Run("should report ids nobody knows", func(t *testing.T) {
		c := newConcierge(t, newFakeServer())
		_, err := c.Entity(ctx, "atlantis")
		assert.ErrorIs(t, err, models.ErrNotFound)
	})
}

func TestPreloader(t *testing.T) {
	ctx := context.Background()

	t.Run("should load both domains", func(t *testing.T) {
		srv := newFakeServer()
		c := newConcierge(t, srv)
		p := NewPreloader(c, nil)

		rep := p.PreloadAll(ctx, false)
		assert.Equal(t, []models.Domain{models.DomainAttractions, models.DomainDining}, rep.Loaded)
		assert.Empty(t, rep.Failed)
		assert.True(t, c.Store().HasQuery(DefaultDiningQuery))
		assert.True(t, c.Store().HasQuery(DefaultAttractionsQuery))

		p.PreloadAll(ctx, false)
		assert.Equal(t, 1, srv.hitCount(DiningPath))

		p.PreloadAll(ctx, true)
		assert.Equal(t, 2, srv.hitCount(DiningPath))
	})

	t.Run("should swallow failures", func(t *testing.T) {
		srv := newFakeServer()
		srv.fail(AttractionsPath)
		p := NewPreloader(newConcierge(t, srv), nil)

		rep := p.PreloadAll(ctx, false)
		assert.Equal(t, []models.Domain{models.DomainDining}, rep.Loaded)
		assert.Equal(t, []models.Domain{models.DomainAttractions}, rep.Failed)
	})
}

func TestHTTPTransport(t *testing.T) {
	srv := newFakeServer()
	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)

	tr := NewHTTPTransport(ts.URL+"/", time.Second)
	ctx := context.Background()

	t.Run("should stream the body", func(t *testing.T) {
		body, err := tr.Post(ctx, DiningPath, models.QueryRequest{Query: "x"})
		require.NoError(t, err)
		defer body.Close()
		doc, err := streaming.Reassemble(ctx, body)
		require.NoError(t, err)
		assert.Contains(t, doc, "Bestia")
	})

	t.Run("should report error statuses", func(t *testing.T) {
		srv.fail(DiningPath)
		_, err := tr.Post(ctx, DiningPath, models.QueryRequest{Query: "x"})
		assert.ErrorIs(t, err, models.ErrUpstream)
	})
}

func TestLocalTransport(t *testing.T) {
	ctx := context.Background()

	t.Run("should fail without a handler", func(t *testing.T) {
		_, err := NewLocalTransport(nil).Post(ctx, ChatPath, nil)
		assert.ErrorIs(t, err, models.ErrUpstream)
	})

	t.Run("should pick up a late handler", func(t *testing.T) {
		tr := NewLocalTransport(nil)
		tr.SetHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("data: [DONE]\n\n"))
		}))
		body, err := tr.Post(ctx, ChatPath, nil)
		require.NoError(t, err)
		defer body.Close()
		text, err := streaming.Reassemble(ctx, body)
		require.NoError(t, err)
		assert.Empty(t, text)
	})

	t.Run("should report handler errors", func(t *testing.T) {
		tr := NewLocalTransport(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "nope", http.StatusTeapot)
		}))
		_, err := tr.Post(ctx, ChatPath, nil)
		assert.ErrorIs(t, err, models.ErrUpstream)
		assert.False(t, errors.Is(err, models.ErrNotFound))
	})
}
