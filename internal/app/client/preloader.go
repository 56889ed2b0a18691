package client

import (
	"context"
	"slices"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/FACorreiaa/go-concierge/internal/app/models"
)

// Preloader warms the session cache with the default dining and attractions
// lists. Failures are logged and otherwise ignored.
type Preloader struct {
	concierge *Concierge
	group     singleflight.Group
	logger    *zap.Logger
}

func NewPreloader(c *Concierge, logger *zap.Logger) *Preloader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Preloader{concierge: c, logger: logger}
}

// Report lists which domains ended up cached.
type Report struct {
	Loaded []models.Domain `json:"loaded"`
	Failed []models.Domain `json:"failed"`
}

// PreloadAll loads both domains concurrently.
func (p *Preloader) PreloadAll(ctx context.Context, force bool) Report {
	var (
		mu  sync.Mutex
		g   errgroup.Group
		rep = Report{Loaded: []models.Domain{}, Failed: []models.Domain{}}
	)
	for _, d := range []models.Domain{models.DomainDining, models.DomainAttractions} {
		g.Go(func() error {
			_, ok := p.Preload(ctx, d, force)
			mu.Lock()
			defer mu.Unlock()
			if ok {
				rep.Loaded = append(rep.Loaded, d)
			} else {
				rep.Failed = append(rep.Failed, d)
			}
			return nil
		})
	}
	_ = g.Wait()
	slices.Sort(rep.Loaded)
	slices.Sort(rep.Failed)
	return rep
}

// Preload caches the default query for d. Concurrent calls for the same
// domain share one fetch.
func (p *Preloader) Preload(ctx context.Context, d models.Domain, force bool) (models.CachedQueryResult, bool) {
	query := DefaultQuery(d)
	if !force {
		if cached, ok := p.concierge.Store().GetCachedQuery(ctx, query); ok {
			return cached, true
		}
	}

	v, err, shared := p.group.Do(string(d), func() (any, error) {
		return p.concierge.Refresh(ctx, d, query)
	})
	if err != nil {
		p.logger.Warn("Preload failed", zap.String("domain", string(d)), zap.Error(err))
		return models.CachedQueryResult{}, false
	}
	p.logger.Debug("Preloaded", zap.String("domain", string(d)), zap.Bool("shared", shared))
	return v.(models.CachedQueryResult), true
}
