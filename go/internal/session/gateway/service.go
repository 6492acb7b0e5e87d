package gateway

import (
	"context"
	"net/http"

	"github.com/rs/zerolog/log"
)

// Service is the game gateway: websocket connections, client frame dispatch
// and ordered event delivery, with an optional NATS mirror.
type Service struct {
	connectionManager *ConnectionManager
	wsHandler         *WebSocketHandler
	publisher         *EventPublisher
}

// Config holds configuration for the game gateway service
type Config struct {
	ConnectionConfig ConnectionConfig
	PublisherConfig  EventPublisherConfig
}

// DefaultConfig returns default configuration for the game gateway
func DefaultConfig() Config {
	return Config{
		ConnectionConfig: DefaultConnectionConfig(),
		PublisherConfig:  DefaultEventPublisherConfig(),
	}
}

// NewService wires the gateway around an existing connection manager. The
// manager is created first because the session orchestrator broadcasts
// through it; handler is the dispatcher driving that orchestrator. publisher
// may be nil.
func NewService(cm *ConnectionManager, handler MessageHandler, publisher *EventPublisher) *Service {
	cm.SetHandler(handler)
	if publisher != nil {
		cm.SetMirror(publisher)
	}
	return &Service{
		connectionManager: cm,
		wsHandler:         NewWebSocketHandler(cm),
		publisher:         publisher,
	}
}

// Start runs the broadcast loop until ctx is cancelled
func (s *Service) Start(ctx context.Context) error {
	log.Info().Msg("starting game gateway service")

	s.connectionManager.Start(ctx)

	log.Info().Msg("game gateway service shutting down")
	return s.Stop()
}

// Stop closes every connection and drains the NATS mirror
func (s *Service) Stop() error {
	s.connectionManager.Stop()

	if s.publisher != nil {
		if err := s.publisher.Stop(); err != nil {
			log.Error().Err(err).Msg("failed to stop event publisher")
		}
	}

	log.Info().Msg("game gateway service stopped")
	return nil
}

// RegisterRoutes registers the WebSocket HTTP routes
func (s *Service) RegisterRoutes(mux *http.ServeMux) {
	s.wsHandler.RegisterRoutes(mux)
	log.Info().Msg("game gateway routes registered")
}

// GetStats returns statistics about the gateway service
func (s *Service) GetStats() map[string]interface{} {
	stats := s.connectionManager.GetConnectionStats()
	stats["service"] = "game_gateway"
	stats["status"] = "running"
	stats["nats_mirror"] = s.publisher != nil
	return stats
}
