package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fadedpez/carddeck/internal/bot"
	"github.com/fadedpez/carddeck/internal/config"
	"github.com/fadedpez/carddeck/internal/discord"
	"github.com/fadedpez/carddeck/internal/logging"
	"github.com/fadedpez/carddeck/pkg/db"
	"github.com/fadedpez/carddeck/pkg/feed"
	"github.com/fadedpez/carddeck/pkg/renderer"
	deckRepo "github.com/fadedpez/carddeck/pkg/repositories/deck"
	historyRepo "github.com/fadedpez/carddeck/pkg/repositories/history"
	"github.com/fadedpez/carddeck/pkg/scheduler"
	deckService "github.com/fadedpez/carddeck/pkg/services/deck"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		logging.Default.LogError(err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	level, ok := logging.ParseLevel(cfg.LogLevel)
	logger := logging.NewLogger(level)
	if !ok {
		logger.Warn("Unknown LOG_LEVEL %q, using %s", cfg.LogLevel, level)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	decks, err := openDeckRepository(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer decks.Close()

	history, err := openHistoryRepository(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer history.Close()

	opts := &deckService.Options{History: history, Logger: logger}

	var server *http.Server
	if cfg.FeedAddr != "" {
		hub := feed.NewHub(logger)
		go hub.Run(ctx)
		opts.Publisher = hub

		mux := http.NewServeMux()
		mux.Handle("/feed", hub)
		server = &http.Server{Addr: cfg.FeedAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			logger.Info("Draw feed listening on %s", cfg.FeedAddr)
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("Draw feed stopped: %v", err)
				stop()
			}
		}()
	}

	service := deckService.NewService(decks, opts)

	maintenance := scheduler.NewHistoryMaintenanceScheduler(service, cfg.HistoryRetention, scheduler.DefaultPruneInterval, logger)
	maintenance.Start(ctx)
	defer maintenance.Stop()

	var deckBot *bot.Bot
	if cfg.BotEnabled() {
		r, err := newRenderer(cfg)
		if err != nil {
			return err
		}
		session, err := discord.NewSession(cfg.Token)
		if err != nil {
			return fmt.Errorf("failed to create Discord session: %w", err)
		}
		deckBot = bot.New(cfg, session, service, r, logger)
		if err := deckBot.Start(); err != nil {
			return err
		}
	} else if server == nil {
		logger.Warn("Neither DISCORD_TOKEN nor FEED_ADDR is set, nothing will be served")
	}

	logger.Info("Card deck is running. Press CTRL-C to exit.")
	<-ctx.Done()
	logger.Info("Shutting down...")

	if deckBot != nil {
		if err := deckBot.Shutdown(); err != nil {
			logger.Error("Error shutting down bot: %v", err)
		}
	}
	if server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("Error shutting down draw feed: %v", err)
		}
	}
	return nil
}

func openDeckRepository(ctx context.Context, cfg *config.Config, logger *logging.Logger) (deckRepo.Repository, error) {
	switch cfg.StorageType {
	case config.StorageFile:
		path := filepath.Join(cfg.DataDir, "decks.json")
		logger.Info("Storing decks in %s", path)
		return deckRepo.NewFileRepository(path)

	case config.StorageSQLite, config.StorageSQLitePure, config.StoragePostgres:
		dialect, err := db.DialectFor(cfg.StorageType)
		if err != nil {
			return nil, err
		}
		logger.Info("Storing decks in %s", dialect.Name)
		repo, err := deckRepo.NewSQLRepository(ctx, dialect, cfg.DatabaseURL, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s deck storage: %w", dialect.Name, err)
		}
		return repo, nil

	default:
		logger.Info("Using in-memory deck storage (decks are lost on restart)")
		return deckRepo.NewMemoryRepository(), nil
	}
}

func openHistoryRepository(ctx context.Context, cfg *config.Config, logger *logging.Logger) (historyRepo.Repository, error) {
	if !cfg.HistoryEnabled() {
		logger.Info("Keeping draw history in memory")
		return historyRepo.NewMemoryRepository(), nil
	}

	repo, err := historyRepo.NewElasticsearchRepository(ctx, &historyRepo.ElasticsearchConfig{
		URL:         cfg.ElasticsearchURL,
		Username:    cfg.ElasticsearchUsername,
		Password:    cfg.ElasticsearchPassword,
		IndexPrefix: cfg.IndexPrefix,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Elasticsearch: %w", err)
	}
	logger.Info("Indexing draws in Elasticsearch index %s", repo.Index())
	return repo, nil
}

func newRenderer(cfg *config.Config) (renderer.Renderer, error) {
	switch cfg.Renderer {
	case config.RendererTerminal:
		return renderer.NewTerminalRenderer(), nil
	case config.RendererTile:
		opts := renderer.DefaultOptions()
		opts.AssetPath = cfg.AssetPath
		return renderer.NewTileRenderer(opts)
	default:
		return renderer.NewTextRenderer(), nil
	}
}
