package cli

import (
	"context"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"prepquiz-service/internal/app"
	"prepquiz-service/internal/config"
	"prepquiz-service/internal/infra/memory"
	pgstore "prepquiz-service/internal/infra/postgres"
	redisstore "prepquiz-service/internal/infra/redis"
)

const defaultRedisPrefix = "prepquiz:"

// runtime is the wired application graph shared by the start and daily commands.
type runtime struct {
	daily    *app.DailyScheduler
	play     *app.PlayService
	attempts app.AttemptHistory
	redis    *redis.Client
	pool     *pgxpool.Pool
	logger   zerolog.Logger
}

func (r *runtime) Close() {
	if r.redis != nil {
		_ = r.redis.Close()
	}
	if r.pool != nil {
		r.pool.Close()
	}
}

func buildRuntime(ctx context.Context, cfg config.Config, log zerolog.Logger) (*runtime, error) {
	rt := &runtime{logger: log}

	if cfg.Redis.Addr != "" {
		rt.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}

	if cfg.Postgres.URL != "" {
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			rt.Close()
			return nil, err
		}
		rt.pool = pool
	}

	var loader memory.ContentLoader
	switch {
	case rt.pool != nil:
		loader = pgstore.NewContentLoader(rt.pool)
	case cfg.Content.Path != "":
		loader = memory.NewFileContentLoader(cfg.Content.Path)
	default:
		loader = memory.NewStaticContentLoader(sampleContent())
	}

	contentTTL := config.TTLDuration(cfg.Content.TTL, 10*time.Minute)
	var content app.ContentSource
	if rt.redis != nil {
		content = redisstore.NewContentRepository(rt.redis, loader, contentTTL)
	} else {
		content = memory.NewContentRepository(loader, contentTTL)
	}

	var kv app.KVStore
	if rt.redis != nil {
		prefix := cfg.Redis.Prefix
		if prefix == "" {
			prefix = defaultRedisPrefix
		}
		kv = redisstore.NewKVStore(rt.redis, prefix, config.TTLDuration(cfg.Redis.TTL, 0))
	} else {
		kv = memory.NewKVStore()
	}

	var attempts interface {
		app.AttemptRecorder
		app.AttemptHistory
	}
	if rt.pool != nil {
		attempts = pgstore.NewAttemptRecorder(rt.pool)
	} else {
		attempts = memory.NewAttemptStore()
	}
	rt.attempts = attempts

	loc, err := cfg.Location()
	if err != nil {
		rt.Close()
		return nil, err
	}

	rt.daily = app.NewDailyScheduler(kv, content,
		app.WithLocation(loc),
		app.WithRolloverHour(cfg.RolloverHour(app.DefaultRolloverHour)),
		app.WithDailyLogger(log),
	)
	rt.play = app.NewPlayService(content, rt.daily, attempts,
		app.WithPlayLogger(log),
		app.WithEngineOptions(app.WithTiming(
			config.TTLDuration(cfg.Quiz.QuestionTime, app.DefaultQuestionTime),
			config.TTLDuration(cfg.Quiz.RevealDelay, app.DefaultRevealDelay),
		)),
	)
	return rt, nil
}
