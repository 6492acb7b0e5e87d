package orchestrator

import (
	"github.com/mcdev12/vocabversus/go/internal/game"
	"github.com/mcdev12/vocabversus/go/internal/models"
	"github.com/mcdev12/vocabversus/go/internal/session/events"
	"github.com/rs/zerolog/log"
)

// beginStarting moves a ready lobby to Starting and schedules the first round.
// Caller holds the game lock.
func (o *Orchestrator) beginStarting(g *game.Instance) {
	if err := g.Transition(models.GameStateStarting); err != nil {
		log.Warn().Err(err).Str("game_id", g.ID).Msg("game cannot start")
		return
	}

	startsAt := o.clock.Now().Add(o.config.GameStartDelay)
	o.broadcastState(g)
	o.toGame(g, events.EventTypeGameStarting, events.GameStartingPayload{StartsAt: startsAt})

	log.Info().Str("game_id", g.ID).Time("starts_at", startsAt).Msg("game starting")

	gameID := g.ID
	o.schedule(o.config.GameStartDelay, func() {
		o.startGame(gameID)
	})
}

// startGame is the deferred continuation of beginStarting. It re-resolves the
// game and does nothing unless it is still Starting.
func (o *Orchestrator) startGame(gameID string) {
	g, err := o.resolveGame(o.ctx, gameID)
	if err != nil {
		log.Debug().Str("game_id", gameID).Msg("game expired before start")
		return
	}

	g.Lock()
	defer g.Unlock()

	if g.State() != models.GameStateStarting {
		log.Debug().Str("game_id", gameID).Str("state", g.State().String()).Msg("skipping game start")
		return
	}

	round, err := g.Rounds.NewRound()
	if err != nil {
		log.Error().Err(err).Str("game_id", gameID).Msg("failed to create first round")
		return
	}
	if err := g.Transition(models.GameStateStarted); err != nil {
		log.Error().Err(err).Str("game_id", gameID).Msg("failed to start game")
		return
	}

	o.broadcastState(g)
	o.announceRound(g, round)
	o.refresh(o.ctx, g)

	log.Info().Str("game_id", gameID).Int("round", round.Number).Msg("game started")
}

// scheduleNextRound queues the round after closingRound. A zero delay opens it
// immediately. Caller holds the game lock.
func (o *Orchestrator) scheduleNextRound(g *game.Instance, closingRound int) {
	delay := g.Settings.RoundEndDelay()
	if delay <= 0 {
		o.openNextRound(g, closingRound)
		return
	}

	gameID := g.ID
	o.schedule(delay, func() {
		o.advanceRound(gameID, closingRound)
	})
}

// advanceRound is the deferred continuation of scheduleNextRound.
func (o *Orchestrator) advanceRound(gameID string, closingRound int) {
	g, err := o.resolveGame(o.ctx, gameID)
	if err != nil {
		log.Debug().Str("game_id", gameID).Msg("game expired before next round")
		return
	}

	g.Lock()
	defer g.Unlock()
	o.openNextRound(g, closingRound)
}

// openNextRound appends a round only while closingRound is still the active
// one. Caller holds the game lock.
func (o *Orchestrator) openNextRound(g *game.Instance, closingRound int) {
	if g.State() != models.GameStateStarted {
		log.Debug().Str("game_id", g.ID).Str("state", g.State().String()).Msg("skipping next round")
		return
	}
	if g.Rounds.Count() != closingRound {
		log.Debug().
			Str("game_id", g.ID).
			Int("closing_round", closingRound).
			Int("current_round", g.Rounds.Count()).
			Msg("round already advanced")
		return
	}

	round, err := g.Rounds.NewRound()
	if err != nil {
		log.Error().Err(err).Str("game_id", g.ID).Msg("failed to create round")
		return
	}
	o.announceRound(g, round)
	o.refresh(o.ctx, g)

	log.Info().Str("game_id", g.ID).Int("round", round.Number).Msg("round started")
}

func (o *Orchestrator) announceRound(g *game.Instance, round *game.Round) {
	o.toGame(g, events.EventTypeStartRound, events.StartRoundPayload{
		Round:               round.Number,
		RequiredCharacters:  round.RequiredStrings(),
		IsCompletedByPlayer: false,
	})
}
