package integration

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"

	"prepquiz-service/internal/app"
	"prepquiz-service/internal/domain"
	pgstore "prepquiz-service/internal/infra/postgres"
	pgmigrations "prepquiz-service/internal/infra/postgres/migrations"
	infraredis "prepquiz-service/internal/infra/redis"
)

func TestPlaySessionEndToEnd(t *testing.T) {
	ctx := context.Background()
	requireDocker(t)

	pgURL, pgCleanup := startPostgres(t, ctx)
	defer pgCleanup()
	redisURL, redisCleanup := startRedis(t, ctx)
	defer redisCleanup()

	runMigrations(t, ctx, pgURL)

	pool, err := pgxpool.Connect(ctx, pgURL)
	if err != nil {
		t.Fatalf("connect pg: %v", err)
	}
	defer pool.Close()

	loader := pgstore.NewContentLoader(pool)
	for i, category := range sampleCategories() {
		if err := loader.SaveCategory(ctx, i, category); err != nil {
			t.Fatalf("seed category: %v", err)
		}
	}

	redisClient, err := redisClientFromURL(redisURL)
	if err != nil {
		t.Fatalf("redis client: %v", err)
	}
	defer redisClient.Close()

	content := infraredis.NewContentRepository(redisClient, loader, 5*time.Minute)
	kv := infraredis.NewKVStore(redisClient, "prepquiz-test:", time.Hour)
	attempts := pgstore.NewAttemptRecorder(pool)

	daily := app.NewDailyScheduler(kv, content)
	service := app.NewPlayService(content, daily, attempts,
		app.WithEngineOptions(app.WithTiming(time.Second, 10*time.Millisecond)),
	)

	plan, err := service.Plan(ctx, app.PlayRequest{Mode: domain.AttemptDaily})
	if err != nil {
		t.Fatalf("plan daily: %v", err)
	}
	if len(plan.Questions) != 2 {
		t.Fatalf("expected one question per category, got %d", len(plan.Questions))
	}

	done := make(chan domain.Result, 1)
	engine := service.NewEngine(plan, app.EngineDeps{
		OnFinish: func(res domain.Result) { done <- res },
	})
	engine.Start()
	defer engine.Stop()

	answered := 0
	deadline := time.After(10 * time.Second)
	for {
		select {
		case res := <-done:
			if res.Total != 2 || res.CorrectCount != 2 || res.Score != 40 {
				t.Fatalf("unexpected result %+v", res)
			}
			verifyRecorded(t, ctx, attempts, daily)
			return
		case <-deadline:
			t.Fatalf("session did not finish, answered %d", answered)
		case <-time.After(5 * time.Millisecond):
			snap := engine.Snapshot()
			if snap.Question != nil && !snap.Locked && snap.Index == answered {
				if engine.Choose(snap.Question.AnswerIndex) {
					answered++
				}
			}
		}
	}
}

func verifyRecorded(t *testing.T, ctx context.Context, attempts *pgstore.AttemptRecorder, daily *app.DailyScheduler) {
	t.Helper()
	recent, err := attempts.Recent(ctx, 5)
	if err != nil {
		t.Fatalf("recent attempts: %v", err)
	}
	if len(recent) != 1 || recent[0].Type != domain.AttemptDaily || recent[0].XPEarned != 40 {
		t.Fatalf("unexpected attempts %+v", recent)
	}

	today, err := daily.GetDailyToday(ctx)
	if err != nil {
		t.Fatalf("daily today: %v", err)
	}
	if !today.Completed || len(today.Review) != 2 {
		t.Fatalf("expected completed daily with review, got %+v", today)
	}
}

func startPostgres(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		Env:          map[string]string{"POSTGRES_USER": "quiz", "POSTGRES_PASSWORD": "quizpass", "POSTGRES_DB": "quizdb"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForListeningPort("5432/tcp").WithStartupTimeout(60 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start postgres: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("port: %v", err)
	}
	dsn := fmt.Sprintf("postgres://quiz:quizpass@%s:%s/quizdb?sslmode=disable", host, port.Port())
	return dsn, func() {
		_ = container.Terminate(ctx)
	}
}

func startRedis(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(30 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start redis: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("redis host: %v", err)
	}
	port, err := container.MappedPort(ctx, "6379/tcp")
	if err != nil {
		t.Fatalf("redis port: %v", err)
	}
	url := fmt.Sprintf("redis://%s:%s", host, port.Port())
	return url, func() {
		_ = container.Terminate(ctx)
	}
}

func runMigrations(t *testing.T, ctx context.Context, dsn string) {
	t.Helper()
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	db := bun.NewDB(sqldb, pgdialect.New())
	defer db.Close()

	migrator := migrate.NewMigrator(db, pgmigrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		t.Fatalf("migrator init: %v", err)
	}
	if _, err := migrator.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}
}

func sampleCategories() []domain.Category {
	return []domain.Category{
		{
			ID:    "earthquake",
			Title: "Earthquake",
			Sets: []domain.QuestionSet{{
				ID:    "basics",
				Title: "Earthquake basics",
				Questions: []domain.RawQuestion{
					{"question": "What do you do when shaking starts?", "options": []any{"Run outside", "Drop, cover, hold on"}, "answer": "B"},
				},
			}},
		},
		{
			ID:    "flood",
			Title: "Flood",
			Sets: []domain.QuestionSet{{
				ID: "basics",
				Questions: []domain.RawQuestion{
					{"question": "Drive through flood water?", "options": []any{"Never", "If the car is tall"}, "answerIndex": 0},
				},
			}},
		},
	}
}

func redisClientFromURL(url string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return goredis.NewClient(&goredis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	}), nil
}

func requireDocker(t *testing.T) {
	t.Helper()
	if _, err := tc.NewDockerProvider(); err != nil {
		t.Skipf("docker not available: %v", err)
	}
}
