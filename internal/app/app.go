package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"surveylens/internal/cache"
	"surveylens/internal/config"
	"surveylens/internal/repository"
)

// App holds the storage-side dependencies shared by the services
type App struct {
	SurveyRepo   repository.SurveyRepo
	ResponseRepo repository.ResponseRepo
	SummaryRepo  repository.SummaryRepo
	SummaryCache cache.SummaryCache
	RunLock      cache.RunLock
	Archive      repository.ReportArchive

	closers []func(context.Context) error
}

// New wires storage for cfg.Storage: MongoDB plus Redis, or in-process memory
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	var (
		a   *App
		err error
	)
	switch cfg.Storage {
	case "memory":
		a, err = newMemory(cfg)
	case "mongo", "":
		a, err = newMongo(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown STORAGE %q", cfg.Storage)
	}
	if err != nil {
		return nil, err
	}

	a.Archive = repository.NewNoopArchive()
	if cfg.Archive.Enabled {
		archive, err := repository.NewS3Archive(repository.S3Config{
			Endpoint:  cfg.Archive.Endpoint,
			Region:    cfg.Archive.Region,
			AccessKey: cfg.Archive.AccessKey,
			SecretKey: cfg.Archive.SecretKey,
			Bucket:    cfg.Archive.Bucket,
			UseSSL:    cfg.Archive.UseSSL,
		})
		if err != nil {
			a.Close(ctx)
			return nil, err
		}
		a.Archive = archive
		log.Printf("Report archive enabled: %s/%s", cfg.Archive.Endpoint, cfg.Archive.Bucket)
	}
	return a, nil
}

func newMemory(cfg *config.Config) (*App, error) {
	log.Println("Using in-memory storage")
	return &App{
		SurveyRepo:   repository.NewMemorySurveyRepo(),
		ResponseRepo: repository.NewMemoryResponseRepo(),
		SummaryRepo:  repository.NewMemorySummaryRepo(),
		SummaryCache: cache.NewLayeredSummaryCache(nil, cfg.SummaryCacheSize, 0),
		RunLock:      cache.NewLocalRunLock(),
	}, nil
}

func newMongo(ctx context.Context, cfg *config.Config) (*App, error) {
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, fmt.Errorf("connect to MongoDB: %w", err)
	}
	a := &App{}
	a.closers = append(a.closers, mongoClient.Disconnect)

	// Ping MongoDB
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mongoClient.Ping(pingCtx, nil); err != nil {
		a.Close(ctx)
		return nil, fmt.Errorf("ping MongoDB: %w", err)
	}
	log.Println("Connected to MongoDB")

	db := mongoClient.Database(cfg.MongoDB)
	if err := repository.EnsureResponseIndexes(ctx, db); err != nil {
		a.Close(ctx)
		return nil, fmt.Errorf("response indexes: %w", err)
	}
	if err := repository.EnsureSummaryIndexes(ctx, db); err != nil {
		a.Close(ctx)
		return nil, fmt.Errorf("summary indexes: %w", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})
	a.closers = append(a.closers, func(context.Context) error { return rdb.Close() })

	// Ping Redis
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		a.Close(ctx)
		return nil, fmt.Errorf("ping Redis: %w", err)
	}
	log.Println("Connected to Redis")

	summaryCache := cache.NewLayeredSummaryCache(
		cache.NewSummaryCache(rdb, cfg.SummaryCacheTTL),
		cfg.SummaryCacheSize,
		cfg.SummaryLocalTTL,
	)

	a.SurveyRepo = repository.NewSurveyRepo(db)
	a.ResponseRepo = repository.NewResponseRepo(db)
	a.SummaryRepo = repository.NewSummaryRepo(db)
	a.SummaryCache = summaryCache
	a.RunLock = cache.NewRunLock(rdb, cfg.LockTTL)
	return a, nil
}

// AnalysisStore combines the repositories into the analysis pipeline's store
func (a *App) AnalysisStore() repository.AnalysisStore {
	return repository.NewAnalysisStore(a.SurveyRepo, a.ResponseRepo, a.SummaryRepo)
}

// Close releases database connections in reverse order
func (a *App) Close(ctx context.Context) {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			log.Printf("Close error: %v", err)
		}
	}
	a.closers = nil
}
