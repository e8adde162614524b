package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"accredo/api/internal/ai"
	"accredo/api/internal/app"
	"accredo/api/internal/authpw"
	"accredo/api/internal/blob"
	"accredo/api/internal/catalog"
	"accredo/api/internal/compliance"
	"accredo/api/internal/config"
	"accredo/api/internal/export"
	"accredo/api/internal/gitrepo"
	"accredo/api/internal/remote"
	"accredo/api/internal/search"
	"accredo/api/internal/snapshot"
	"accredo/api/internal/store"
	"accredo/api/internal/tracker"
)

// treeView adapts the tracker store to the read-only tree interfaces
// used by search and export.
type treeView struct {
	store *tracker.Store
}

func (v treeView) Chapters() []compliance.Chapter { return v.store.Chapters() }
func (v treeView) Source() string                 { return string(v.store.Source()) }

func main() {
	cfg := config.Load()
	ctx := context.Background()

	db, err := store.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	defer db.Close()

	if err := store.ApplyMigrations(ctx, db, cfg.MigrationsDir); err != nil {
		log.Fatalf("migrations failed: %v", err)
	}

	if err := os.MkdirAll(cfg.SOPReposDir, 0o755); err != nil {
		log.Fatalf("failed to create sop repos dir: %v", err)
	}

	dataStore := store.NewPostgresStore(db)

	var kv tracker.KV
	if strings.TrimSpace(cfg.RedisURL) != "" {
		redisStore, err := snapshot.NewRedisStore(cfg.RedisURL)
		if err != nil {
			log.Printf("WARNING: redis unavailable, snapshots disabled: %v", err)
		} else {
			defer redisStore.Close()
			kv = redisStore
		}
	}
	trackerStore := tracker.New(kv)
	tree := treeView{store: trackerStore}

	var remoteClient *remote.Client
	if strings.TrimSpace(cfg.RemoteBaseURL) != "" {
		remoteClient = remote.NewClient(cfg.RemoteBaseURL, cfg.RemoteAPIKey, cfg.FetchTimeout)
	} else {
		log.Printf("remote dataset not configured, serving baseline catalog")
	}

	var meiliClient *search.Meili
	if strings.TrimSpace(cfg.MeiliURL) != "" {
		meiliClient = search.NewMeili(cfg.MeiliURL, cfg.MeiliMasterKey)
		defer meiliClient.Close()
	}
	searchService := search.NewService(meiliClient, tree)

	var blobStore *blob.Store
	if cfg.MinioAccessKey != "" {
		blobStore, err = blob.New(ctx, blob.Config{
			Endpoint:  cfg.MinioEndpoint,
			AccessKey: cfg.MinioAccessKey,
			SecretKey: cfg.MinioSecretKey,
			UseSSL:    cfg.MinioUseSSL,
			Bucket:    cfg.MinioBucket,
		})
		if err != nil {
			log.Printf("WARNING: object storage unavailable, evidence uploads disabled: %v", err)
			blobStore = nil
		}
	}

	var drafter ai.Drafter
	switch {
	case cfg.GeminiAPIKey != "":
		drafter, err = ai.NewGeminiDrafter(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			log.Printf("WARNING: gemini unavailable: %v", err)
		}
	case cfg.AnthropicAPIKey != "":
		drafter, err = ai.NewClaudeDrafter(cfg.AnthropicAPIKey, cfg.AnthropicModel)
		if err != nil {
			log.Printf("WARNING: claude unavailable: %v", err)
		}
	default:
		log.Printf("no AI provider configured, drafting disabled")
	}

	deps := app.Deps{
		Store:   dataStore,
		Tracker: trackerStore,
		Search:  searchService,
		AuthPW:  authpw.NewService(dataStore),
		SOPs:    gitrepo.New(cfg.SOPReposDir),
		Export:  export.NewService(tree),
		Drafter: drafter,
		Pinger:  db.PingContext,
	}
	if remoteClient != nil {
		deps.Remote = remoteClient
	}
	if blobStore != nil {
		deps.Blob = blobStore
	}

	service := app.New(cfg, catalog.Load(), deps)
	service.Bootstrap(ctx)

	httpServer := app.NewHTTPServer(service, cfg.CORSOrigin)
	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           httpServer.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("Accredo API listening on %s", cfg.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
