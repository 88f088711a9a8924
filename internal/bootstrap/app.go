// Package bootstrap assembles the application: config, logger, stores,
// stages, orchestrator.
package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"

	_ "github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"

	"resume-screener/internal/batch"
	"resume-screener/internal/extract"
	extractgemini "resume-screener/internal/extract/gemini"
	"resume-screener/internal/ingest"
	"resume-screener/internal/jobprofile"
	"resume-screener/internal/parse"
	"resume-screener/internal/pipeline"
	"resume-screener/internal/recordstore"
	"resume-screener/internal/score"
	scoregemini "resume-screener/internal/score/gemini"
	"resume-screener/internal/shared/config"
	"resume-screener/internal/shared/storage/object"
	"resume-screener/internal/shared/storage/object/local"
	"resume-screener/internal/shared/storage/object/s3"
	"resume-screener/internal/shared/telemetry"
)

// App holds the assembled application and the resources it owns.
type App struct {
	Config       config.Config
	Logger       *zap.Logger
	Orchestrator *pipeline.Orchestrator
	DB           *sql.DB // nil when no record store is configured
}

// New builds the full pipeline from configuration.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	logger, err := telemetry.NewLogger(cfg.Env, cfg.Debug)
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	store := local.New(cfg.DataDir)
	policies := ingest.DefaultPolicies()
	registry := parse.DefaultRegistry()

	var (
		db      *sql.DB
		records recordstore.Store
	)
	if cfg.DatabaseURL != "" {
		db, err = sql.Open("pgx", cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("open record store: %w", err)
		}
		records = &recordstore.PGStore{DB: db}
	}

	extractor, err := extractgemini.New(ctx, cfg.GeminiAPIKey, cfg.ExtractModel)
	if err != nil {
		return nil, fmt.Errorf("build extractor: %w", err)
	}
	embedder, err := scoregemini.New(ctx, cfg.GeminiAPIKey, cfg.EmbeddingModel)
	if err != nil {
		return nil, fmt.Errorf("build embedder: %w", err)
	}
	filler, err := jobprofile.NewGeminiFiller(ctx, cfg.GeminiAPIKey, cfg.ExtractModel)
	if err != nil {
		return nil, fmt.Errorf("build job filler: %w", err)
	}

	var cloud object.Store
	if cfg.S3Bucket != "" {
		cloud, err = s3.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
		if err != nil {
			return nil, fmt.Errorf("build cloud store: %w", err)
		}
	}

	cascade := &score.Cascade{
		Fast:    &score.FastScorer{Embedder: embedder, Model: embedder.Model() + "-sections"},
		Quality: &score.QualityScorer{Embedder: embedder, Model: embedder.Model() + "-fulltext"},
		Hybrid:  &score.HybridScorer{Embedder: embedder, Model: embedder.Model() + "-hybrid"},
	}

	orch := &pipeline.Orchestrator{
		Validator: &ingest.Validator{Policies: policies, Logger: logger},
		Stager: &ingest.Stager{
			Store:    store,
			Policies: policies,
			Records:  records,
			Width:    cfg.FanoutWidth,
			Logger:   logger,
		},
		Parser: &parse.Stage{Registry: registry, Store: store, Width: cfg.FanoutWidth, Logger: logger},
		Extractor: &extract.Stage{
			Extractor:    extractor,
			Store:        store,
			Width:        cfg.FanoutWidth,
			TokenLimit:   cfg.TokenLimit,
			CorpusEnable: cfg.CorpusEnable,
			Logger:       logger,
		},
		Scorer: &score.Stage{Scorer: cascade, Store: store, Width: cfg.FanoutWidth, Logger: logger},

		Fetcher:     &jobprofile.WebFetcher{Filler: filler, Logger: logger},
		Records:     records,
		Checkpoints: batch.Checkpointer{Dir: filepath.Join(cfg.DataDir, batch.CheckpointDir)},
		Artifacts:   store,
		Cloud:       cloud,
		Logger:      logger,
	}

	return &App{Config: cfg, Logger: logger, Orchestrator: orch, DB: db}, nil
}

// Close releases resources owned by the app.
func (a *App) Close() {
	if a.DB != nil {
		_ = a.DB.Close()
	}
	_ = a.Logger.Sync()
}
