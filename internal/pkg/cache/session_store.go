package cache

import (
	"context"
	"encoding/json"
	"errors"
	"slices"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/FACorreiaa/go-concierge/internal/app/models"
)

const DefaultQueryTTL = 30 * time.Minute

// sessionBlob is the persisted form of a SessionStore.
type sessionBlob struct {
	Entities   []models.Entity                            `json:"entities"`
	QueryCache map[string]Entry[models.CachedQueryResult] `json:"queryCache"`
	Transcript []models.Message                           `json:"conversationHistory"`
	SavedAt    time.Time                                  `json:"savedAt"`
}

type StoreOption func(*SessionStore)

func WithClock(now Clock) StoreOption {
	return func(s *SessionStore) { s.now = now }
}

func WithQueryTTL(ttl time.Duration) StoreOption {
	return func(s *SessionStore) { s.ttl = ttl }
}

func WithLogger(l *zap.Logger) StoreOption {
	return func(s *SessionStore) { s.logger = l }
}

// SessionStore holds one session's entity table, query cache and transcript.
// Every mutation is written through to Storage as a single blob; storage
// failures are logged and never surface to callers.
type SessionStore struct {
	mu         sync.RWMutex
	persistMu  sync.Mutex // held from snapshot through Save
	key        string
	storage    Storage
	entities   map[string]models.Entity
	order      []string
	queries    *TTLCache[models.CachedQueryResult]
	transcript []models.Message
	ttl        time.Duration
	now        Clock
	logger     *zap.Logger
}

// NewSessionStore creates the store for key and hydrates it from storage.
func NewSessionStore(ctx context.Context, storage Storage, key string, opts ...StoreOption) *SessionStore {
	s := &SessionStore{
		key:      key,
		storage:  storage,
		entities: make(map[string]models.Entity),
		ttl:      DefaultQueryTTL,
		now:      time.Now,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.now == nil {
		s.now = time.Now
	}
	s.queries = NewTTLCache[models.CachedQueryResult](s.ttl, "queries:"+key, s.now, s.logger)
	s.hydrate(ctx)
	return s
}

func (s *SessionStore) Key() string { return s.key }

// hydrate loads the persisted blob. A missing or unreadable blob leaves the
// store empty.
func (s *SessionStore) hydrate(ctx context.Context) {
	raw, err := s.storage.Load(ctx, s.key)
	if err != nil {
		if !errors.Is(err, models.ErrBlobNotFound) {
			s.logger.Warn("Failed to load session state", zap.String("session", s.key), zap.Error(err))
		}
		return
	}

	var blob sessionBlob
	if err := json.Unmarshal(raw, &blob); err != nil {
		s.logger.Warn("Discarding corrupt session state", zap.String("session", s.key), zap.Error(err))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range blob.Entities {
		s.upsertLocked(e)
	}
	dropped := s.queries.Restore(blob.QueryCache)
	s.transcript = blob.Transcript

	s.logger.Debug("Session state restored",
		zap.String("session", s.key),
		zap.Int("entities", len(s.order)),
		zap.Int("queries", s.queries.Size()),
		zap.Int("expired_dropped", dropped),
		zap.Int("messages", len(s.transcript)))
}

// Flush writes the current state to storage.
func (s *SessionStore) Flush(ctx context.Context) error {
	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	s.mu.RLock()
	blob := sessionBlob{
		Entities:   make([]models.Entity, 0, len(s.order)),
		QueryCache: s.queries.Live(),
		Transcript: slices.Clone(s.transcript),
		SavedAt:    s.now(),
	}
	for _, id := range s.order {
		blob.Entities = append(blob.Entities, s.entities[id])
	}
	s.mu.RUnlock()

	raw, err := json.Marshal(blob)
	if err != nil {
		return err
	}
	return s.storage.Save(ctx, s.key, raw)
}

func (s *SessionStore) persist(ctx context.Context) {
	if err := s.Flush(ctx); err != nil {
		s.logger.Warn("Failed to persist session state", zap.String("session", s.key), zap.Error(err))
	}
}

// GetCachedQuery returns the live cached result for query. An expired entry
// is evicted and the eviction persisted.
func (s *SessionStore) GetCachedQuery(ctx context.Context, query string) (models.CachedQueryResult, bool) {
	res, ok, evicted := s.queries.Get(Fingerprint(query))
	if evicted {
		s.persist(ctx)
	}
	return res, ok
}

// CacheQuery stores the result for query and upserts its entities by id.
func (s *SessionStore) CacheQuery(ctx context.Context, query, displayText string, entities []models.Entity) models.CachedQueryResult {
	res := models.CachedQueryResult{
		DisplayText: displayText,
		Entities:    slices.Clone(entities),
		CachedAt:    s.now(),
	}

	s.mu.Lock()
	for _, e := range entities {
		s.upsertLocked(e)
	}
	s.mu.Unlock()

	s.queries.Set(Fingerprint(query), res)
	s.persist(ctx)
	return res
}

// HasQuery reports whether anything, live or expired, is stored for query.
func (s *SessionStore) HasQuery(query string) bool {
	return s.queries.Has(Fingerprint(query))
}

// AddEntity upserts a single entity.
func (s *SessionStore) AddEntity(ctx context.Context, e models.Entity) {
	s.mu.Lock()
	s.upsertLocked(e)
	s.mu.Unlock()
	s.persist(ctx)
}

func (s *SessionStore) upsertLocked(e models.Entity) {
	if e.ID == "" {
		return
	}
	if _, exists := s.entities[e.ID]; !exists {
		s.order = append(s.order, e.ID)
	}
	s.entities[e.ID] = e
}

// Entity looks an entity up by id.
func (s *SessionStore) Entity(id string) (models.Entity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entities[id]
	return e, ok
}

// Entities returns all known entities in first-seen order.
func (s *SessionStore) Entities() []models.Entity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Entity, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.entities[id])
	}
	return out
}

// AppendMessage adds a message to the transcript.
func (s *SessionStore) AppendMessage(ctx context.Context, msg models.Message) {
	s.mu.Lock()
	s.transcript = append(s.transcript, msg)
	s.mu.Unlock()
	s.persist(ctx)
}

// Transcript returns a copy of the conversation so far.
func (s *SessionStore) Transcript() []models.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.transcript)
}

func (s *SessionStore) ClearTranscript(ctx context.Context) {
	s.mu.Lock()
	s.transcript = nil
	s.mu.Unlock()
	s.persist(ctx)
}

// Clear empties every table and deletes the persisted blob.
func (s *SessionStore) Clear(ctx context.Context) {
	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	s.mu.Lock()
	s.entities = make(map[string]models.Entity)
	s.order = nil
	s.transcript = nil
	s.mu.Unlock()
	s.queries.Clear()

	if err := s.storage.Remove(ctx, s.key); err != nil {
		s.logger.Warn("Failed to remove session state", zap.String("session", s.key), zap.Error(err))
	}
}

// Metrics reports query cache counters.
func (s *SessionStore) Metrics() CacheMetrics {
	return s.queries.GetMetrics()
}
