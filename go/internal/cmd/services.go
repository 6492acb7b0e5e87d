package main

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/vocabversus/go/clients"
	"github.com/mcdev12/vocabversus/go/clients/wordset_client"
	"github.com/mcdev12/vocabversus/go/internal/cache"
	"github.com/mcdev12/vocabversus/go/internal/connections"
	"github.com/mcdev12/vocabversus/go/internal/game"
	"github.com/mcdev12/vocabversus/go/internal/lobby"
	"github.com/mcdev12/vocabversus/go/internal/models"
	"github.com/mcdev12/vocabversus/go/internal/redisconfig"
	"github.com/mcdev12/vocabversus/go/internal/session/gateway"
	"github.com/mcdev12/vocabversus/go/internal/session/orchestrator"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// wordSource is served by both the remote word-set client and the local catalog
type wordSource interface {
	GetWordSet(ctx context.Context, id uuid.UUID) (*models.WordSet, error)
	EvaluateWord(ctx context.Context, wordSetID uuid.UUID, word string, fuzzyChars int) (bool, error)
}

// Services holds all application services
type Services struct {
	Games        *cache.MemoryStore[*game.Instance]
	Connections  cache.Store[models.ConnectionRecord]
	Orchestrator *orchestrator.Orchestrator
	Gateway      *gateway.Service
	Lobby        *lobby.Handler

	// sweepers run until the root context is done
	sweepers    []func(ctx context.Context)
	redisClient *redis.Client
}

func setupServices(ctx context.Context, cfg *Config) (*Services, error) {
	clock := clockwork.NewRealClock()

	words, err := setupWordSource(cfg)
	if err != nil {
		return nil, err
	}

	defaults, err := cfg.gameDefaults()
	if err != nil {
		return nil, err
	}

	services := &Services{
		Games: cache.NewMemoryStore[*game.Instance]("games", cfg.GameTTL, clock),
	}
	services.sweepers = append(services.sweepers, func(ctx context.Context) {
		services.Games.Run(ctx, cfg.StoreSweepInterval)
	})

	if err := services.setupConnectionStore(ctx, cfg, clock); err != nil {
		return nil, err
	}

	// the orchestrator broadcasts through the connection manager, and the
	// manager hands frames to the dispatcher wrapping the orchestrator
	gatewayConfig := gateway.DefaultConfig()
	manager := gateway.NewConnectionManager(gatewayConfig.ConnectionConfig)

	orchestratorConfig := orchestrator.DefaultConfig()
	orchestratorConfig.GameStartDelay = cfg.GameStartDelay
	services.Orchestrator = orchestrator.NewOrchestrator(
		services.Games,
		connections.NewDirectory(services.Connections),
		words,
		manager,
		clock,
		orchestratorConfig,
	)

	var publisher *gateway.EventPublisher
	if cfg.NATSURL != "" {
		publisherConfig := gatewayConfig.PublisherConfig
		publisherConfig.URL = cfg.NATSURL
		publisherConfig.SubjectPrefix = cfg.NATSSubjectPrefix
		publisher, err = gateway.NewEventPublisher(publisherConfig)
		if err != nil {
			services.Close()
			return nil, err
		}
	}

	dispatcher := gateway.NewDispatcher(services.Orchestrator, manager, clock)
	services.Gateway = gateway.NewService(manager, dispatcher, publisher)

	app := lobby.NewApp(services.Games, words, defaults, clock)
	services.Lobby = lobby.NewHandler(app)

	return services, nil
}

func setupWordSource(cfg *Config) (wordSource, error) {
	source, err := cfg.wordSetSource()
	if err != nil {
		return nil, err
	}

	switch source {
	case clients.WordSetSourceCatalog:
		catalog, err := wordset_client.LoadCatalog(cfg.WordSetCatalog)
		if err != nil {
			return nil, err
		}
		log.Info().Str("path", cfg.WordSetCatalog).Msg("using local word set catalog")
		return catalog, nil
	default:
		log.Info().Str("url", cfg.WordSetAPIURL).Msg("using word set service")
		return wordset_client.NewWordSetClient(cfg.WordSetAPIURL), nil
	}
}

func (s *Services) setupConnectionStore(ctx context.Context, cfg *Config, clock clockwork.Clock) error {
	if cfg.ConnectionStore != connectionStoreRedis {
		store := cache.NewMemoryStore[models.ConnectionRecord]("connections", cfg.ConnectionTTL, clock)
		s.Connections = store
		s.sweepers = append(s.sweepers, func(ctx context.Context) {
			store.Run(ctx, cfg.StoreSweepInterval)
		})
		return nil
	}

	redisCfg, err := redisconfig.NewConfigFromEnv()
	if err != nil {
		return err
	}
	client, err := redisCfg.Connect(ctx)
	if err != nil {
		return err
	}

	store, err := cache.NewRedisStore[models.ConnectionRecord](ctx, &cache.RedisConfig{
		RedisClient: client,
		KeyPrefix:   redisCfg.KeyPrefix + ":",
		TTL:         cfg.ConnectionTTL,
	})
	if err != nil {
		client.Close()
		return fmt.Errorf("failed to create connection store: %w", err)
	}

	log.Info().Str("addr", redisCfg.Addr).Msg("connection records stored in redis")
	s.Connections = store
	s.redisClient = client
	return nil
}

// RunSweepers starts the background expiry of the in-memory stores
func (s *Services) RunSweepers(ctx context.Context) {
	for _, sweep := range s.sweepers {
		go sweep(ctx)
	}
}

// Close stops deferred continuations and releases external connections
func (s *Services) Close() {
	if s.Orchestrator != nil {
		s.Orchestrator.Stop()
	}
	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close redis client")
		}
	}
}
