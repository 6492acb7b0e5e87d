package orchestrator

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/mcdev12/vocabversus/go/internal/game"
	"github.com/mcdev12/vocabversus/go/internal/models"
	"github.com/mcdev12/vocabversus/go/internal/session/events"
	"github.com/rs/zerolog/log"
)

// CheckGame reports whether the caller can join or rejoin a game and binds the
// connection to a durable player id, generating one when none is supplied.
// The roster is not modified.
func (o *Orchestrator) CheckGame(ctx context.Context, connectionID string, req CheckGameRequest) (*CheckGameResponse, error) {
	existing, ok, err := o.connections.Get(ctx, connectionID)
	if err != nil {
		return nil, errUnknown(err)
	}
	if ok && existing.Joined {
		return nil, errActionNotAllowed("connection already joined game %s", existing.GameID)
	}

	g, err := o.resolveGame(ctx, req.GameID)
	if err != nil {
		return nil, err
	}

	playerID := req.PlayerID
	if playerID == "" {
		playerID = uuid.NewString()
	}

	g.Lock()
	player, exists := g.Roster.Get(playerID)
	resp := &CheckGameResponse{
		GameID:              g.ID,
		State:               g.State(),
		PlayerCount:         g.Roster.Len(),
		MaxPlayers:          g.Roster.MaxPlayers(),
		PlayerID:            playerID,
		CanReconnect:        exists && !player.Connected,
		IsPasswordProtected: g.IsPasswordProtected(),
	}
	g.Unlock()

	record := models.ConnectionRecord{
		ConnectionID: connectionID,
		PlayerID:     playerID,
	}
	if resp.CanReconnect {
		record.GameID = g.ID
	}
	if err := o.connections.Register(ctx, record); err != nil {
		return nil, errUnknown(err)
	}

	return resp, nil
}

// Join adds the caller to the game's roster and subscribes it to the game's events.
func (o *Orchestrator) Join(ctx context.Context, connectionID string, req JoinRequest) (*JoinResponse, error) {
	g, err := o.resolveGame(ctx, req.GameID)
	if err != nil {
		return nil, err
	}

	record, ok, err := o.connections.Get(ctx, connectionID)
	if err != nil {
		return nil, errUnknown(err)
	}
	if !ok {
		return nil, errIdentifierNotFound("connection has not checked a game")
	}
	if record.Joined {
		return nil, errActionNotAllowed("connection already joined game %s", record.GameID)
	}

	username := strings.TrimSpace(req.Username)
	if username == "" {
		return nil, newError(CodeUserAddFailed, nil, "username is required")
	}

	if !g.VerifyPassword(req.Password) {
		return nil, newError(CodeAuthenticationFailed, nil, "incorrect password")
	}

	g.Lock()
	defer g.Unlock()

	if err := g.Roster.AddPlayer(record.PlayerID, username); err != nil {
		switch {
		case errors.Is(err, game.ErrCapacityExceeded):
			return nil, newError(CodeUserAddFailed, err, "game is full")
		case errors.Is(err, game.ErrDuplicatePlayer):
			return nil, newError(CodeUserAddFailed, err, "player already in game")
		default:
			return nil, newError(CodeUserAddFailed, err, "could not join game")
		}
	}

	if err := o.connections.MarkJoined(ctx, connectionID, g.ID); err != nil {
		g.Roster.RemovePlayer(record.PlayerID)
		return nil, errUnknown(err)
	}

	o.broadcaster.Subscribe(g.ID, connectionID)
	o.broadcaster.BroadcastToOthers(g.ID, connectionID, o.newEvent(g.ID, events.EventTypeUserJoined, events.UserJoinedPayload{
		PlayerID: record.PlayerID,
		Username: username,
	}))
	o.refresh(ctx, g)

	log.Info().
		Str("game_id", g.ID).
		Str("player_id", record.PlayerID).
		Str("connection_id", connectionID).
		Int("players", g.Roster.Len()).
		Msg("player joined")

	resp := progress(g, record.PlayerID)
	return &resp, nil
}

// Reconnect restores a disconnected player on the game the connection was
// bound to by CheckGame.
func (o *Orchestrator) Reconnect(ctx context.Context, connectionID string) (*ReconnectResponse, error) {
	record, ok, err := o.connections.Get(ctx, connectionID)
	if err != nil {
		return nil, errUnknown(err)
	}
	if !ok || !record.IsBound() {
		return nil, errIdentifierNotFound("connection has no game to reconnect to")
	}
	if record.Joined {
		return nil, errActionNotAllowed("connection already joined game %s", record.GameID)
	}

	g, err := o.resolveGame(ctx, record.GameID)
	if err != nil {
		return nil, err
	}

	g.Lock()
	defer g.Unlock()

	player, exists := g.Roster.Get(record.PlayerID)
	if !exists {
		return nil, newError(CodeUserEditFailed, game.ErrPlayerNotFound, "player is no longer in the game")
	}
	if player.Connected {
		return nil, errActionNotAllowed("player is already connected")
	}
	if err := g.Roster.SetConnected(record.PlayerID, true); err != nil {
		return nil, newError(CodeUserEditFailed, err, "player is no longer in the game")
	}

	if err := o.connections.MarkJoined(ctx, connectionID, g.ID); err != nil {
		_ = g.Roster.SetConnected(record.PlayerID, false)
		return nil, errUnknown(err)
	}

	o.broadcaster.Subscribe(g.ID, connectionID)
	o.broadcaster.BroadcastToOthers(g.ID, connectionID, o.newEvent(g.ID, events.EventTypeUserReconnected, events.UserReconnectedPayload{
		PlayerID: record.PlayerID,
	}))
	o.refresh(ctx, g)

	log.Info().
		Str("game_id", g.ID).
		Str("player_id", record.PlayerID).
		Str("connection_id", connectionID).
		Msg("player reconnected")

	return &ReconnectResponse{
		JoinResponse: progress(g, record.PlayerID),
		Username:     player.Username,
	}, nil
}

// Kick removes a disconnected player from the caller's game.
func (o *Orchestrator) Kick(ctx context.Context, connectionID string, req KickRequest) error {
	_, g, err := o.resolveMember(ctx, connectionID)
	if err != nil {
		return err
	}

	g.Lock()
	defer g.Unlock()

	target, exists := g.Roster.Get(req.PlayerID)
	if !exists {
		return newError(CodeUserNotFound, game.ErrPlayerNotFound, "player %s not found", req.PlayerID)
	}
	if target.Connected {
		return errActionNotAllowed("connected players cannot be kicked")
	}

	g.Roster.RemovePlayer(target.ID)
	o.toGame(g, events.EventTypeUserRemoved, events.UserRemovedPayload{PlayerID: target.ID})
	o.refresh(ctx, g)

	log.Info().Str("game_id", g.ID).Str("player_id", target.ID).Msg("player kicked")
	return nil
}

// Ready sets the caller's readiness. When every connected player is ready the
// game moves to Starting and the first round is scheduled.
func (o *Orchestrator) Ready(ctx context.Context, connectionID string, req ReadyRequest) error {
	record, g, err := o.resolveMember(ctx, connectionID)
	if err != nil {
		return err
	}

	g.Lock()
	defer g.Unlock()

	if g.State() != models.GameStateLobby {
		return errActionNotAllowed("readiness can only change in the lobby")
	}
	if err := g.Roster.SetReady(record.PlayerID, req.Ready); err != nil {
		return newError(CodeUserEditFailed, err, "could not update readiness")
	}

	o.toGame(g, events.EventTypeUserReady, events.UserReadyPayload{
		PlayerID: record.PlayerID,
		Ready:    req.Ready,
	})
	o.refresh(ctx, g)

	if g.Roster.ConnectedCount() > 0 && g.Roster.AllReady() {
		o.beginStarting(g)
	}
	return nil
}

// Leave removes the caller from a game still in the lobby. Once the game has
// started it only marks the player disconnected, keeping their slot and score.
func (o *Orchestrator) Leave(ctx context.Context, connectionID string) error {
	record, g, err := o.resolveMember(ctx, connectionID)
	if err != nil {
		return err
	}

	g.Lock()
	if g.State() == models.GameStateLobby {
		g.Roster.RemovePlayer(record.PlayerID)
	} else if err := g.Roster.SetConnected(record.PlayerID, false); err != nil {
		log.Debug().Err(err).Str("game_id", g.ID).Msg("leaving player already removed")
	}
	o.toGame(g, events.EventTypeUserLeft, events.UserLeftPayload{PlayerID: record.PlayerID})
	o.refresh(ctx, g)
	g.Unlock()

	o.broadcaster.Unsubscribe(g.ID, connectionID)
	if err := o.connections.Unbind(ctx, connectionID); err != nil {
		return errUnknown(err)
	}

	log.Info().Str("game_id", g.ID).Str("player_id", record.PlayerID).Msg("player left")
	return nil
}

// Disconnect handles the loss of a physical connection. The player keeps their
// roster slot and score and can come back through Reconnect. The connection
// record is closed first, so a Join or Reconnect still in flight on the same
// connection fails and rolls back instead of leaving a connected ghost.
func (o *Orchestrator) Disconnect(ctx context.Context, connectionID string) {
	record, ok, err := o.connections.Close(ctx, connectionID)
	if err != nil {
		log.Error().Err(err).Str("connection_id", connectionID).Msg("failed to close connection record")
		return
	}
	if !ok || !record.Joined {
		return
	}
	o.broadcaster.Unsubscribe(record.GameID, connectionID)

	g, err := o.resolveGame(ctx, record.GameID)
	if err != nil {
		log.Debug().Str("game_id", record.GameID).Msg("disconnect for expired game")
		return
	}

	g.Lock()
	defer g.Unlock()

	if err := g.Roster.SetConnected(record.PlayerID, false); err != nil {
		log.Debug().Err(err).Str("game_id", g.ID).Msg("disconnecting player already removed")
		return
	}
	o.toGame(g, events.EventTypeUserLeft, events.UserLeftPayload{PlayerID: record.PlayerID})
	o.refresh(ctx, g)

	log.Info().
		Str("game_id", g.ID).
		Str("player_id", record.PlayerID).
		Str("connection_id", connectionID).
		Msg("player disconnected")
}
