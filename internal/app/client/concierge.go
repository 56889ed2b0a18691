// Package client is the consuming side of the completion endpoints: it reads
// and reassembles event streams, attaches widgets to replies and keeps the
// session's recommendations and transcript.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/FACorreiaa/go-concierge/internal/app/domain/widgets"
	"github.com/FACorreiaa/go-concierge/internal/app/models"
	"github.com/FACorreiaa/go-concierge/internal/app/observability/metrics"
	"github.com/FACorreiaa/go-concierge/internal/app/streaming"
	"github.com/FACorreiaa/go-concierge/internal/pkg/cache"
)

const (
	ChatPath        = "/api/chat"
	MockChatPath    = "/api/chat/mock"
	DiningPath      = "/api/chat/local-dining"
	AttractionsPath = "/api/chat/nearby-attractions"

	DefaultDiningQuery      = "I'd like restaurant recommendations for tonight"
	DefaultAttractionsQuery = "I'd like to know about nearby attractions and things to do"

	WelcomeText = "Hey there! I'm Simon, your personal concierge. I know all the best spots around Los Angeles, Santa Monica and Malibu. What can I help you discover today?"
	ApologyText = "Sorry, I'm having trouble connecting right now. Please try again!"
)

// DomainPath is the structured endpoint for d.
func DomainPath(d models.Domain) string {
	if d == models.DomainAttractions {
		return AttractionsPath
	}
	return DiningPath
}

// DefaultQuery is the query used to preload d.
func DefaultQuery(d models.Domain) string {
	if d == models.DomainAttractions {
		return DefaultAttractionsQuery
	}
	return DefaultDiningQuery
}

type Concierge struct {
	transport Transport
	store     *cache.SessionStore
	detector  *widgets.Detector
	chatPath  string
	now       func() time.Time
	logger    *zap.Logger
}

type Option func(*Concierge)

func WithClock(now func() time.Time) Option {
	return func(c *Concierge) { c.now = now }
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Concierge) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithChatPath points conversations at another endpoint, such as the mock.
func WithChatPath(path string) Option {
	return func(c *Concierge) { c.chatPath = path }
}

func NewConcierge(t Transport, store *cache.SessionStore, detector *widgets.Detector, opts ...Option) *Concierge {
	c := &Concierge{
		transport: t,
		store:     store,
		detector:  detector,
		chatPath:  ChatPath,
		now:       time.Now,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Concierge) Store() *cache.SessionStore { return c.store }

// Transcript returns the conversation, opening it with the welcome message
// when it is empty.
func (c *Concierge) Transcript(ctx context.Context) []models.Message {
	msgs := c.store.Transcript()
	if len(msgs) > 0 {
		return msgs
	}
	c.store.AppendMessage(ctx, models.NewMessage(models.RoleAssistant, WelcomeText, c.now()))
	return c.store.Transcript()
}

// Ask sends content with the conversation so far and returns Simon's reply
// with any widgets attached. onDelta, if set, sees the reply as it streams.
//
// Transport and stream failures become an apology reply rather than an
// error. Only cancellation is returned, and then nothing is appended for
// the reply.
func (c *Concierge) Ask(ctx context.Context, content string, onDelta func(string)) (models.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return models.Message{}, fmt.Errorf("empty message: %w", models.ErrBadRequest)
	}

	history := c.Transcript(ctx)
	user := models.NewMessage(models.RoleUser, content, c.now())
	c.store.AppendMessage(ctx, user)

	text, err := c.converse(ctx, models.Turns(append(history, user)), onDelta)
	if err != nil {
		if ctx.Err() != nil {
			return models.Message{}, ctx.Err()
		}
		c.logger.Warn("Conversation request failed", zap.String("path", c.chatPath), zap.Error(err))
		reply := models.NewMessage(models.RoleAssistant, ApologyText, c.now())
		c.store.AppendMessage(ctx, reply)
		return reply, nil
	}

	res := c.detector.Detect(text, content)
	reply := models.NewMessage(models.RoleAssistant, res.CleanContent, c.now())
	reply.Widgets = res.Widgets
	for _, w := range res.Widgets {
		for _, e := range w.Payload.Items() {
			c.store.AddEntity(ctx, e)
		}
	}
	c.store.AppendMessage(ctx, reply)
	return reply, nil
}

func (c *Concierge) converse(ctx context.Context, turns []models.ChatTurn, onDelta func(string)) (string, error) {
	body, err := c.transport.Post(ctx, c.chatPath, models.ChatRequest{Messages: turns})
	if err != nil {
		return "", err
	}
	defer body.Close()

	opts := []streaming.Option{streaming.WithLogger(c.logger)}
	if onDelta != nil {
		opts = append(opts, streaming.WithDeltaHook(onDelta))
	}
	return streaming.Reassemble(ctx, body, opts...)
}

// Recommendations returns the structured answer for query, from the session
// cache when a fresh entry exists.
func (c *Concierge) Recommendations(ctx context.Context, d models.Domain, query string) (models.CachedQueryResult, error) {
	if cached, ok := c.store.GetCachedQuery(ctx, query); ok {
		metrics.RecordCacheLookup(ctx, true)
		return cached, nil
	}
	metrics.RecordCacheLookup(ctx, false)
	return c.Refresh(ctx, d, query)
}

// Refresh fetches query from the structured endpoint and caches the answer,
// ignoring any cached entry.
func (c *Concierge) Refresh(ctx context.Context, d models.Domain, query string) (models.CachedQueryResult, error) {
	resp, err := c.fetchStructured(ctx, d, query)
	if err != nil {
		return models.CachedQueryResult{}, err
	}
	return c.store.CacheQuery(ctx, query, resp.TextResponse, resp.Entities()), nil
}

func (c *Concierge) fetchStructured(ctx context.Context, d models.Domain, query string) (models.StructuredResponse, error) {
	path := DomainPath(d)
	body, err := c.transport.Post(ctx, path, models.QueryRequest{Query: query})
	if err != nil {
		return models.StructuredResponse{}, err
	}
	defer body.Close()

	doc, err := streaming.Reassemble(ctx, body, streaming.WithLogger(c.logger))
	if err != nil {
		return models.StructuredResponse{}, fmt.Errorf("reading %s: %w", path, err)
	}

	var resp models.StructuredResponse
	if err := json.Unmarshal([]byte(doc), &resp); err != nil {
		return models.StructuredResponse{}, fmt.Errorf("%s: %w: %v", path, models.ErrInvalidDocument, err)
	}
	entities := resp.Entities()
	if len(entities) == 0 {
		return models.StructuredResponse{}, fmt.Errorf("%s: no entities: %w", path, models.ErrInvalidDocument)
	}
	for i := range entities {
		if entities[i].Kind == "" {
			entities[i].Kind = d.Kind()
		}
	}
	return resp, nil
}

// Entity resolves a detail link. Unknown ids trigger a refetch of the
// default lists, since a link can be opened before its list was loaded.
func (c *Concierge) Entity(ctx context.Context, id string) (models.Entity, error) {
	if e, ok := c.store.Entity(id); ok {
		return e, nil
	}

	var errs []error
	for _, d := range []models.Domain{models.DomainDining, models.DomainAttractions} {
		if _, err := c.Recommendations(ctx, d, DefaultQuery(d)); err != nil {
			errs = append(errs, err)
			continue
		}
		if e, ok := c.store.Entity(id); ok {
			return e, nil
		}
	}
	if len(errs) > 0 {
		c.logger.Warn("Refetch for entity lookup failed", zap.String("id", id), zap.Error(errors.Join(errs...)))
	}
	return models.Entity{}, fmt.Errorf("entity %q: %w", id, models.ErrNotFound)
}
