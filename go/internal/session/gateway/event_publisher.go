package gateway

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/mcdev12/vocabversus/go/internal/session/events"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"
)

// EventPublisherConfig holds configuration for the NATS event mirror
type EventPublisherConfig struct {
	URL           string
	SubjectPrefix string // e.g., "vocabversus.events"
	MaxReconnects int
	ReconnectWait time.Duration
}

// DefaultEventPublisherConfig returns default NATS publisher configuration
func DefaultEventPublisherConfig() EventPublisherConfig {
	return EventPublisherConfig{
		URL:           nats.DefaultURL,
		SubjectPrefix: "vocabversus.events",
		MaxReconnects: -1, // Infinite
		ReconnectWait: 2 * time.Second,
	}
}

// EventPublisher mirrors game-wide events onto NATS subjects of the form
// <prefix>.<game_id>.<event_type>.
type EventPublisher struct {
	nc     *nats.Conn
	config EventPublisherConfig
}

// NewEventPublisher connects to NATS
func NewEventPublisher(config EventPublisherConfig) (*EventPublisher, error) {
	opts := []nats.Option{
		nats.Name("vocabversus-gateway"),
		nats.MaxReconnects(config.MaxReconnects),
		nats.ReconnectWait(config.ReconnectWait),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.Error().Err(err).Msg("NATS disconnected")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info().Str("url", nc.ConnectedUrl()).Msg("NATS reconnected")
		}),
		nats.ErrorHandler(func(nc *nats.Conn, sub *nats.Subscription, err error) {
			log.Error().Err(err).Msg("NATS error")
		}),
	}

	nc, err := nats.Connect(config.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}

	log.Info().Str("url", nc.ConnectedUrl()).Str("subject_prefix", config.SubjectPrefix).Msg("NATS event publisher connected")
	return &EventPublisher{nc: nc, config: config}, nil
}

// Publish implements EventMirror. Failures are logged; delivery to websocket
// clients never depends on NATS.
func (p *EventPublisher) Publish(event *events.Event) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Str("event_type", string(event.Type)).Msg("failed to marshal event for NATS")
		return
	}

	subject := EventSubject(p.config.SubjectPrefix, event)
	if err := p.nc.Publish(subject, data); err != nil {
		log.Error().Err(err).Str("subject", subject).Msg("failed to publish event to NATS")
	}
}

// Stop drains pending publishes and closes the connection
func (p *EventPublisher) Stop() error {
	log.Info().Msg("stopping NATS event publisher")
	if err := p.nc.Drain(); err != nil {
		return fmt.Errorf("drain NATS connection: %w", err)
	}
	return nil
}

// EventSubject builds the subject an event is published on.
func EventSubject(prefix string, event *events.Event) string {
	gameID := subjectToken(event.GameID)
	eventType := subjectToken(string(event.Type))
	if prefix == "" {
		return gameID + "." + eventType
	}
	return prefix + "." + gameID + "." + eventType
}

// subjectToken keeps a value inside a single subject token.
func subjectToken(s string) string {
	if s == "" {
		return "_"
	}
	return strings.NewReplacer(".", "_", "*", "_", ">", "_", " ", "_").Replace(s)
}
