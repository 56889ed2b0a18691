package cache

import (
	"context"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-concierge/internal/app/observability/metrics"
)

// Registry hands out one SessionStore per session id, all backed by the same
// Storage. Stores idle for longer than the session lifetime are forgotten;
// their blobs stay in Storage until it expires them too.
type Registry struct {
	mu      sync.Mutex
	stores  *gocache.Cache
	storage Storage
	ttl     time.Duration
	now     Clock
	logger  *zap.Logger
}

func NewRegistry(storage Storage, ttl, lifetime time.Duration, logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = DefaultQueryTTL
	}
	if lifetime <= 0 {
		lifetime = 24 * time.Hour
	}
	r := &Registry{
		stores:  gocache.New(lifetime, lifetime/4),
		storage: storage,
		ttl:     ttl,
		now:     time.Now,
		logger:  logger,
	}
	r.stores.OnEvicted(func(string, any) {
		metrics.RecordActiveSessions(context.Background(), r.Len())
	})
	return r
}

// Store returns the store for sessionID, hydrating it on first use.
func (r *Registry) Store(ctx context.Context, sessionID string) *SessionStore {
	r.mu.Lock()
	defer r.mu.Unlock()

	if v, ok := r.stores.Get(sessionID); ok {
		s := v.(*SessionStore)
		r.stores.SetDefault(sessionID, s)
		return s
	}

	s := NewSessionStore(ctx, r.storage, sessionID,
		WithQueryTTL(r.ttl),
		WithClock(r.now),
		WithLogger(r.logger.With(zap.String("session", sessionID))),
	)
	r.stores.SetDefault(sessionID, s)
	metrics.RecordActiveSessions(ctx, r.stores.ItemCount())
	return s
}

// Drop clears a session and forgets it.
func (r *Registry) Drop(ctx context.Context, sessionID string) {
	r.Store(ctx, sessionID).Clear(ctx)
	r.stores.Delete(sessionID)
}

// GetAllMetrics returns query cache metrics for every open session.
func (r *Registry) GetAllMetrics() map[string]CacheMetrics {
	items := r.stores.Items()
	out := make(map[string]CacheMetrics, len(items))
	for id, item := range items {
		out[id] = item.Object.(*SessionStore).Metrics()
	}
	return out
}

// Len is the number of open sessions.
func (r *Registry) Len() int {
	return r.stores.ItemCount()
}
