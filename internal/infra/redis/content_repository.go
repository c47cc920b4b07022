package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"prepquiz-service/internal/domain"
)

// ContentLoader fetches the catalogue from a backing store (file, Postgres).
type ContentLoader interface {
	LoadContent(ctx context.Context) (domain.Content, error)
}

// ContentKey is where the catalogue JSON is cached.
const ContentKey = "quiz:content"

// ContentRepository caches the catalogue as one JSON document in Redis and falls back
// to a loader on cache miss. A corrupt cached document counts as a miss.
type ContentRepository struct {
	client *redis.Client
	loader ContentLoader
	ttl    time.Duration
	sf     singleflight.Group

	mu  sync.Mutex
	rnd *rand.Rand
}

func NewContentRepository(client *redis.Client, loader ContentLoader, ttl time.Duration) *ContentRepository {
	return &ContentRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *ContentRepository) GetContent(ctx context.Context) (domain.Content, error) {
	if content, ok := r.cached(ctx); ok {
		return content, nil
	}

	result, err, _ := r.sf.Do(ContentKey, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if content, ok := r.cached(ctx); ok {
			return content, nil
		}

		content, err := r.loader.LoadContent(ctx)
		if err != nil {
			return domain.Content{}, err
		}

		if data, err := json.Marshal(content); err == nil {
			_ = r.client.Set(ctx, ContentKey, data, r.ttlWithJitter()).Err()
		}
		return content, nil
	})
	if err != nil {
		return domain.Content{}, err
	}
	return result.(domain.Content), nil
}

func (r *ContentRepository) cached(ctx context.Context) (domain.Content, bool) {
	data, err := r.client.Get(ctx, ContentKey).Bytes()
	if err != nil {
		return domain.Content{}, false
	}
	var content domain.Content
	if err := json.Unmarshal(data, &content); err != nil || len(content.Categories) == 0 {
		return domain.Content{}, false
	}
	return content, true
}

func (r *ContentRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
