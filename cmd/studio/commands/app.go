package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/example/transcript-studio/internal/api"
	"github.com/example/transcript-studio/internal/auth"
	"github.com/example/transcript-studio/internal/config"
	"github.com/example/transcript-studio/internal/kv"
	"github.com/example/transcript-studio/internal/providers/llm"
	"github.com/example/transcript-studio/internal/storage"
	"github.com/example/transcript-studio/internal/store"
	"github.com/example/transcript-studio/internal/templates"
	"github.com/example/transcript-studio/internal/transcripts"
	"github.com/example/transcript-studio/internal/transform"
)

// app is the wired object graph shared by every command.
type app struct {
	cfg         config.Config
	log         *slog.Logger
	db          kv.Store
	jobs        *store.JobStore
	transcripts *store.TranscriptStore
	templates   *store.TemplateStore
	catalog     *templates.Catalog
	blobs       storage.Blobs
	importer    *transcripts.Importer
}

func loadConfig() (config.Config, *slog.Logger, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return config.Config{}, nil, err
	}
	log := cfg.Log.Logger(os.Stderr)
	slog.SetDefault(log)
	return cfg, log, nil
}

func openApp() (*app, error) {
	cfg, log, err := loadConfig()
	if err != nil {
		return nil, err
	}
	db, err := kv.NewBadger(kv.BadgerOptions{
		Dir:      filepath.Join(cfg.DataDir, "db"),
		InMemory: cfg.InMemory,
		Logger:   log.With("component", "badger"),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	var blobs storage.Blobs
	switch cfg.Storage.Kind {
	case "s3":
		s := cfg.Storage
		blobs = storage.NewS3(storage.NewS3Client(storage.S3Config{
			Region:    s.Region,
			Endpoint:  s.Endpoint,
			AccessKey: s.AccessKey,
			SecretKey: s.SecretKey,
		}), s.Bucket, s.Prefix)
	default:
		local, err := storage.NewLocal(cfg.Storage.Dir)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("open document storage: %w", err)
		}
		blobs = local
	}

	a := &app{
		cfg:         cfg,
		log:         log,
		db:          db,
		jobs:        store.NewJobStore(db, store.Options{}),
		transcripts: store.NewTranscriptStore(db, store.Options{}),
		templates:   store.NewTemplateStore(db, store.Options{}),
		catalog:     templates.DefaultCatalog(),
		blobs:       blobs,
	}
	a.importer = &transcripts.Importer{Store: a.transcripts, Blobs: blobs}
	return a, nil
}

func (a *app) Close() error { return a.db.Close() }

func (a *app) gate() (auth.Gate, error) {
	var chain auth.Chain
	if len(a.cfg.Auth.Tokens) > 0 {
		chain = append(chain, auth.NewTokenGate(a.cfg.Auth.Tokens))
	}
	if h := a.cfg.Auth.TrustedHeader; h != "" {
		chain = append(chain, auth.HeaderGate{Header: h})
	}
	if len(chain) == 0 {
		return nil, errors.New("no authentication configured: set auth.tokens or auth.trusted_header")
	}
	return chain, nil
}

func (a *app) server(ctx context.Context) (*api.Server, error) {
	g := a.cfg.Generation
	gen, err := llm.New(ctx, llm.Settings{Provider: g.Provider, APIKey: g.APIKey, BaseURL: g.BaseURL})
	if err != nil {
		return nil, err
	}
	switch gen.(type) {
	case *llm.MockClient:
		a.log.Warn("no generation provider configured, using mock output")
	case *llm.KeyFallback:
		a.log.Warn("no generation API key configured, using mock output unless a request supplies a key", "provider", g.Provider)
	}
	gate, err := a.gate()
	if err != nil {
		return nil, err
	}
	coord := transform.New(a.jobs, a.transcripts,
		&templates.Resolver{Catalog: a.catalog, Custom: a.templates}, gen,
		transform.Config{
			Model:              g.Model,
			Timeout:            g.Timeout,
			CheckpointInterval: g.CheckpointInterval,
			OnDisconnect:       transform.DisconnectPolicy(g.OnDisconnect),
		}, a.log)
	return &api.Server{
		Transform:   coord,
		Templates:   &templates.Service{Catalog: a.catalog, Store: a.templates},
		Transcripts: a.transcripts,
		Importer:    a.importer,
		Jobs:        a.jobs,
		Gate:        gate,
		Log:         a.log.With("component", "api"),
	}, nil
}
