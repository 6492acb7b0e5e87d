package orchestrator

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/vocabversus/go/internal/cache"
	"github.com/mcdev12/vocabversus/go/internal/connections"
	"github.com/mcdev12/vocabversus/go/internal/game"
	"github.com/mcdev12/vocabversus/go/internal/models"
	"github.com/mcdev12/vocabversus/go/internal/session/events"
	"github.com/rs/zerolog/log"
)

//go:generate mockgen -source=orchestrator.go -destination=mocks/mock_orchestrator.go -package=mocks

// Clock is the interface we use for time operations.
// In production, use clockwork.NewRealClock(). In tests, a FakeClock.
type Clock interface {
	Now() time.Time
	NewTimer(d time.Duration) clockwork.Timer
}

// Broadcaster delivers events to the connections of a game. Every call is
// queued in order; delivery happens asynchronously.
type Broadcaster interface {
	Subscribe(gameID, connectionID string)
	Unsubscribe(gameID, connectionID string)
	BroadcastToGame(gameID string, event *events.Event)
	BroadcastToOthers(gameID, exceptConnectionID string, event *events.Event)
	SendToConnection(connectionID string, event *events.Event)
}

// WordEvaluator gives the authoritative verdict on a submitted word.
type WordEvaluator interface {
	EvaluateWord(ctx context.Context, wordSetID uuid.UUID, word string, fuzzyChars int) (bool, error)
}

// Config holds configuration for the orchestrator
type Config struct {
	GameStartDelay  time.Duration
	EvaluateTimeout time.Duration
}

// DefaultConfig returns default orchestrator configuration
func DefaultConfig() Config {
	return Config{
		GameStartDelay:  5 * time.Second,
		EvaluateTimeout: 10 * time.Second,
	}
}

// Orchestrator runs the session state machine. Each handler resolves the game
// from the store and holds the game's lock for every roster or round mutation.
type Orchestrator struct {
	games       cache.Store[*game.Instance]
	connections *connections.Directory
	evaluator   WordEvaluator
	broadcaster Broadcaster
	clock       Clock
	config      Config

	// lifetime of deferred continuations
	ctx     context.Context
	cancel  context.CancelFunc
	pending sync.WaitGroup
}

// NewOrchestrator creates a new session orchestrator
func NewOrchestrator(
	games cache.Store[*game.Instance],
	directory *connections.Directory,
	evaluator WordEvaluator,
	broadcaster Broadcaster,
	clock Clock,
	config Config,
) *Orchestrator {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Orchestrator{
		games:       games,
		connections: directory,
		evaluator:   evaluator,
		broadcaster: broadcaster,
		clock:       clock,
		config:      config,
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Stop abandons pending continuations and waits for running ones to finish.
func (o *Orchestrator) Stop() {
	o.cancel()
	o.pending.Wait()
	log.Info().Msg("orchestrator stopped")
}

// schedule runs fn after d unless the orchestrator stops first.
func (o *Orchestrator) schedule(d time.Duration, fn func()) {
	timer := o.clock.NewTimer(d)
	o.pending.Add(1)
	go func() {
		defer o.pending.Done()
		defer timer.Stop()
		select {
		case <-timer.Chan():
			fn()
		case <-o.ctx.Done():
		}
	}()
}

func (o *Orchestrator) newEvent(gameID string, eventType events.EventType, payload any) *events.Event {
	event, err := events.NewEvent(uuid.NewString(), gameID, eventType, o.clock.Now(), payload)
	if err != nil {
		// payloads are plain structs; marshalling cannot fail
		log.Error().Err(err).Str("event_type", string(eventType)).Msg("failed to build event")
		return &events.Event{ID: uuid.NewString(), GameID: gameID, Type: eventType, Timestamp: o.clock.Now()}
	}
	return event
}

func (o *Orchestrator) toGame(g *game.Instance, eventType events.EventType, payload any) {
	o.broadcaster.BroadcastToGame(g.ID, o.newEvent(g.ID, eventType, payload))
}

func (o *Orchestrator) broadcastState(g *game.Instance) {
	o.toGame(g, events.EventTypeGameStateChanged, events.GameStateChangedPayload{
		State:     g.State(),
		StateName: g.State().String(),
	})
}

// resolveGame looks the game up; expiry and absence are the same failure.
func (o *Orchestrator) resolveGame(ctx context.Context, gameID string) (*game.Instance, error) {
	if gameID == "" {
		return nil, errIdentifierNotFound("game id is required")
	}
	g, ok, err := o.games.Retrieve(ctx, gameID)
	if err != nil {
		return nil, errUnknown(err)
	}
	if !ok {
		return nil, errIdentifierNotFound("game %s not found", gameID)
	}
	return g, nil
}

// resolveMember returns the caller's record and game. The connection must have
// joined or reconnected.
func (o *Orchestrator) resolveMember(ctx context.Context, connectionID string) (models.ConnectionRecord, *game.Instance, error) {
	record, ok, err := o.connections.Get(ctx, connectionID)
	if err != nil {
		return record, nil, errUnknown(err)
	}
	if !ok || !record.IsBound() || !record.Joined {
		return record, nil, errIdentifierNotFound("connection is not part of a game")
	}
	g, err := o.resolveGame(ctx, record.GameID)
	if err != nil {
		return record, nil, err
	}
	return record, g, nil
}

// refresh rewrites the game to slide its expiry. Caller holds the game lock.
func (o *Orchestrator) refresh(ctx context.Context, g *game.Instance) {
	if err := o.games.Register(ctx, g.ID, g); err != nil {
		log.Error().Err(err).Str("game_id", g.ID).Msg("failed to refresh game")
	}
}

// progress builds the roster and round view for playerID. Caller holds the game lock.
func progress(g *game.Instance, playerID string) JoinResponse {
	rounds := make([]RoundInfo, 0, g.Rounds.Count())
	for _, r := range g.Rounds.Rounds() {
		rounds = append(rounds, RoundInfo{
			Round:               r.Number,
			RequiredCharacters:  r.RequiredStrings(),
			IsCompletedByPlayer: r.IsCompletedBy(playerID),
		})
	}
	return JoinResponse{
		GameID:  g.ID,
		State:   g.State(),
		Players: g.Roster.Players(),
		Rounds:  rounds,
	}
}
