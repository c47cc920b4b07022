package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"prepquiz-service/internal/domain"
)

// ContentLoader fetches the quiz catalogue from a backing store (file, Postgres).
type ContentLoader interface {
	LoadContent(ctx context.Context) (domain.Content, error)
}

// ContentRepository caches the catalogue with a TTL to avoid repeated loads.
type ContentRepository struct {
	loader ContentLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand

	mu        sync.RWMutex
	cached    domain.Content
	expiresAt time.Time
	loaded    bool
}

func NewContentRepository(loader ContentLoader, ttl time.Duration) *ContentRepository {
	return &ContentRepository{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *ContentRepository) GetContent(ctx context.Context) (domain.Content, error) {
	if content, ok := r.fresh(r.clock()); ok {
		return content, nil
	}

	result, err, _ := r.sf.Do("content", func() (interface{}, error) {
		now := r.clock()
		if content, ok := r.fresh(now); ok {
			return content, nil
		}

		content, err := r.loader.LoadContent(ctx)
		if err != nil {
			return domain.Content{}, err
		}

		ttl := r.ttlWithJitter()
		r.mu.Lock()
		r.cached = content
		r.expiresAt = now.Add(ttl)
		r.loaded = true
		r.mu.Unlock()
		return content, nil
	})
	if err != nil {
		return domain.Content{}, err
	}
	return result.(domain.Content), nil
}

func (r *ContentRepository) fresh(now time.Time) (domain.Content, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.loaded && r.expiresAt.After(now) {
		return r.cached, true
	}
	return domain.Content{}, false
}

// StaticContentLoader serves a fixed catalogue (useful for tests/demos).
type StaticContentLoader struct {
	content domain.Content
}

func NewStaticContentLoader(content domain.Content) *StaticContentLoader {
	return &StaticContentLoader{content: content}
}

func (l *StaticContentLoader) LoadContent(_ context.Context) (domain.Content, error) {
	if len(l.content.Categories) == 0 {
		return domain.Content{}, domain.ErrContentNotFound
	}
	return l.content, nil
}

// GetContent lets a static loader serve as an app.ContentSource without caching.
func (l *StaticContentLoader) GetContent(ctx context.Context) (domain.Content, error) {
	return l.LoadContent(ctx)
}

func (r *ContentRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
