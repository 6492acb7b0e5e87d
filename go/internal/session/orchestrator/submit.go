package orchestrator

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/mcdev12/vocabversus/go/internal/game"
	"github.com/mcdev12/vocabversus/go/internal/models"
	"github.com/mcdev12/vocabversus/go/internal/session/events"
	"github.com/rs/zerolog/log"
)

// Submit checks a word against the active round. The verdict goes to the
// caller only; a correct word also awards points to the whole game and the
// first correct word of a round schedules the next one.
func (o *Orchestrator) Submit(ctx context.Context, connectionID string, req SubmitRequest) error {
	record, g, err := o.resolveMember(ctx, connectionID)
	if err != nil {
		return err
	}
	word := strings.TrimSpace(req.Word)

	g.Lock()
	round, err := o.submittableRound(g, record.PlayerID)
	if err != nil {
		g.Unlock()
		return err
	}
	roundNumber := round.Number
	required := round.RequiredCharacters
	wordSetID := g.Rounds.WordSetID()
	margin := g.Settings.IncorrectCharsMargin
	g.Unlock()

	if word == "" || !game.ContainsRequired(word, required) {
		o.sendResult(g.ID, connectionID, false)
		return nil
	}

	if !o.evaluate(ctx, g.ID, wordSetID, word, margin) {
		o.sendResult(g.ID, connectionID, false)
		return nil
	}

	g.Lock()
	defer g.Unlock()

	// the lock was released during evaluation; a word for a round that has
	// since been replaced is rejected
	round, err = o.submittableRound(g, record.PlayerID)
	if err != nil {
		return err
	}
	if round.Number != roundNumber {
		o.sendResult(g.ID, connectionID, false)
		return nil
	}

	prior := round.Complete(record.PlayerID)
	points := game.Points(word, prior)
	if err := g.Roster.AwardPoints(record.PlayerID, points); err != nil {
		return newError(CodeUserNotFound, err, "player is no longer in the game")
	}

	o.toGame(g, events.EventTypeAddPoints, events.AddPointsPayload{
		PlayerID: record.PlayerID,
		Points:   points,
	})
	o.sendResult(g.ID, connectionID, true)

	log.Info().
		Str("game_id", g.ID).
		Str("player_id", record.PlayerID).
		Int("round", roundNumber).
		Int("points", points).
		Msg("round completed by player")

	if prior == 0 {
		endsAt := o.clock.Now().Add(g.Settings.RoundEndDelay())
		o.toGame(g, events.EventTypeRoundEnding, events.RoundEndingPayload{
			Round:  roundNumber,
			EndsAt: endsAt,
		})
		o.scheduleNextRound(g, roundNumber)
	}
	o.refresh(ctx, g)
	return nil
}

// submittableRound returns the active round if playerID may still submit to it.
// Caller holds the game lock.
func (o *Orchestrator) submittableRound(g *game.Instance, playerID string) (*game.Round, error) {
	if g.State() != models.GameStateStarted {
		return nil, errActionNotAllowed("game has not started")
	}
	round := g.Rounds.Current()
	if round == nil {
		return nil, errActionNotAllowed("no active round")
	}
	if _, exists := g.Roster.Get(playerID); !exists {
		return nil, newError(CodeUserNotFound, game.ErrPlayerNotFound, "player is no longer in the game")
	}
	if round.IsCompletedBy(playerID) {
		return nil, errActionNotAllowed("round %d already completed", round.Number)
	}
	return round, nil
}

// evaluate asks the external evaluator for a verdict. Any failure counts as a
// rejection.
func (o *Orchestrator) evaluate(ctx context.Context, gameID string, wordSetID uuid.UUID, word string, margin int) bool {
	if o.config.EvaluateTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.config.EvaluateTimeout)
		defer cancel()
	}

	ok, err := o.evaluator.EvaluateWord(ctx, wordSetID, word, margin)
	if err != nil {
		log.Warn().Err(err).Str("game_id", gameID).Str("word", word).Msg("word evaluation failed")
		return false
	}
	return ok
}

func (o *Orchestrator) sendResult(gameID, connectionID string, correct bool) {
	o.broadcaster.SendToConnection(connectionID, o.newEvent(gameID, events.EventTypeSubmitResult, events.SubmitResultPayload{
		IsCorrect: correct,
	}))
}
