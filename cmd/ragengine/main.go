package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/nexacred/ragengine/internal/config"
	"github.com/nexacred/ragengine/internal/conversation"
	"github.com/nexacred/ragengine/internal/embedding"
	"github.com/nexacred/ragengine/internal/engine"
	"github.com/nexacred/ragengine/internal/generation"
	"github.com/nexacred/ragengine/internal/logger"
	"github.com/nexacred/ragengine/internal/retrieval"
	"github.com/nexacred/ragengine/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.L.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	logger.SetLevel(cfg.Logging.Level)
	if err := cfg.Validate(); err != nil {
		logger.L.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var archive *conversation.Archive
	if cfg.Conversation.ArchivePath != "" {
		archive = conversation.NewArchive(cfg.Conversation.ArchivePath)
		defer archive.Close()
	}
	store, err := conversation.NewStore(cfg.Conversation, archive)
	if err != nil {
		logger.L.Error("failed to initialize conversation store", "error", err)
		os.Exit(1)
	}

	vectorStore := retrieval.NewHTTPVectorStore(cfg.VectorStore)
	if err := vectorStore.Connect(ctx); err != nil {
		// The retrieval ladder degrades through text search, sampling and
		// the built-in corpus, so an unreachable store is not fatal.
		logger.L.Warn("vector store unreachable at startup", "error", err)
	}

	eng := engine.New(
		cfg,
		embedding.NewClient(cfg.Embedding),
		retrieval.NewRetriever(vectorStore, cfg.Retrieval),
		store,
		generation.NewSelector(generation.NewOpenAIGenerator(cfg.Generation)),
	)

	if cfg.Conversation.RetentionDays > 0 {
		go retentionLoop(ctx, store, cfg.Conversation.RetentionDays)
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	server.NewHandler(eng).RegisterRoutes(e)

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	go func() {
		logger.L.Info("starting server", "address", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.L.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.L.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.L.Error("shutdown failed", "error", err)
	}
}

// retentionLoop prunes sessions older than the retention window once a
// day.
func retentionLoop(ctx context.Context, store *conversation.Store, days int) {
	age := time.Duration(days) * 24 * time.Hour
	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			store.CleanupOlderThan(age)
		}
	}
}
