package gateway

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/vocabversus/go/internal/session/events"
	"github.com/mcdev12/vocabversus/go/internal/session/orchestrator"
	"github.com/rs/zerolog/log"
)

// MessageType names a client request
type MessageType string

const (
	MessageCheckGame MessageType = "CheckGame"
	MessageJoin      MessageType = "Join"
	MessageReconnect MessageType = "Reconnect"
	MessageKick      MessageType = "Kick"
	MessageReady     MessageType = "Ready"
	MessageSubmit    MessageType = "Submit"
	MessageLeave     MessageType = "Leave"
)

// ClientFrame is the envelope of every client request
type ClientFrame struct {
	ID   string          `json:"id"`
	Type MessageType     `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Sessions is the session protocol the dispatcher drives.
type Sessions interface {
	CheckGame(ctx context.Context, connectionID string, req orchestrator.CheckGameRequest) (*orchestrator.CheckGameResponse, error)
	Join(ctx context.Context, connectionID string, req orchestrator.JoinRequest) (*orchestrator.JoinResponse, error)
	Reconnect(ctx context.Context, connectionID string) (*orchestrator.ReconnectResponse, error)
	Kick(ctx context.Context, connectionID string, req orchestrator.KickRequest) error
	Ready(ctx context.Context, connectionID string, req orchestrator.ReadyRequest) error
	Submit(ctx context.Context, connectionID string, req orchestrator.SubmitRequest) error
	Leave(ctx context.Context, connectionID string) error
	Disconnect(ctx context.Context, connectionID string)
}

// Sender delivers a reply to one connection through the ordered queue
type Sender interface {
	SendToConnection(connectionID string, event *events.Event)
}

// Dispatcher decodes client frames, invokes the matching session operation and
// replies to the caller with a Response or Error frame.
type Dispatcher struct {
	sessions Sessions
	sender   Sender
	clock    clockwork.Clock
}

// NewDispatcher creates a new client frame dispatcher
func NewDispatcher(sessions Sessions, sender Sender, clock clockwork.Clock) *Dispatcher {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Dispatcher{
		sessions: sessions,
		sender:   sender,
		clock:    clock,
	}
}

// HandleMessage implements MessageHandler
func (d *Dispatcher) HandleMessage(ctx context.Context, connectionID string, raw []byte) {
	var frame ClientFrame
	if err := json.Unmarshal(raw, &frame); err != nil {
		d.replyError(connectionID, "", "", badRequest(err, "malformed frame"))
		return
	}

	gameID, result, err := d.dispatch(ctx, connectionID, frame)
	if err != nil {
		d.replyError(connectionID, frame.ID, gameID, err)
		return
	}
	d.reply(connectionID, frame.ID, gameID, result)
}

// HandleDisconnect implements MessageHandler
func (d *Dispatcher) HandleDisconnect(ctx context.Context, connectionID string) {
	d.sessions.Disconnect(ctx, connectionID)
}

func (d *Dispatcher) dispatch(ctx context.Context, connectionID string, frame ClientFrame) (string, any, error) {
	switch frame.Type {
	case MessageCheckGame:
		var req orchestrator.CheckGameRequest
		if err := decodeData(frame, &req); err != nil {
			return "", nil, err
		}
		resp, err := d.sessions.CheckGame(ctx, connectionID, req)
		return req.GameID, resp, err

	case MessageJoin:
		var req orchestrator.JoinRequest
		if err := decodeData(frame, &req); err != nil {
			return "", nil, err
		}
		resp, err := d.sessions.Join(ctx, connectionID, req)
		return req.GameID, resp, err

	case MessageReconnect:
		resp, err := d.sessions.Reconnect(ctx, connectionID)
		if err != nil {
			return "", nil, err
		}
		return resp.GameID, resp, nil

	case MessageKick:
		var req orchestrator.KickRequest
		if err := decodeData(frame, &req); err != nil {
			return "", nil, err
		}
		return "", nil, d.sessions.Kick(ctx, connectionID, req)

	case MessageReady:
		var req orchestrator.ReadyRequest
		if err := decodeData(frame, &req); err != nil {
			return "", nil, err
		}
		return "", nil, d.sessions.Ready(ctx, connectionID, req)

	case MessageSubmit:
		var req orchestrator.SubmitRequest
		if err := decodeData(frame, &req); err != nil {
			return "", nil, err
		}
		return "", nil, d.sessions.Submit(ctx, connectionID, req)

	case MessageLeave:
		return "", nil, d.sessions.Leave(ctx, connectionID)

	default:
		return "", nil, badRequest(nil, fmt.Sprintf("unknown message type %q", frame.Type))
	}
}

func decodeData(frame ClientFrame, v any) error {
	if len(frame.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(frame.Data, v); err != nil {
		return badRequest(err, fmt.Sprintf("malformed %s data", frame.Type))
	}
	return nil
}

func badRequest(err error, message string) *orchestrator.Error {
	return &orchestrator.Error{Code: orchestrator.CodeUnknown, Message: message, Err: err}
}

func (d *Dispatcher) reply(connectionID, replyTo, gameID string, result any) {
	event, err := events.NewEvent(uuid.NewString(), gameID, events.EventTypeResponse, d.clock.Now(), result)
	if err != nil {
		d.replyError(connectionID, replyTo, gameID, err)
		return
	}
	event.ReplyTo = replyTo
	d.sender.SendToConnection(connectionID, event)
}

func (d *Dispatcher) replyError(connectionID, replyTo, gameID string, err error) {
	code := orchestrator.CodeOf(err)
	log.Warn().
		Err(err).
		Str("connection_id", connectionID).
		Str("reply_to", replyTo).
		Int("code", int(code)).
		Str("code_name", code.String()).
		Msg("request failed")

	d.sender.SendToConnection(connectionID, &events.Event{
		ID:        uuid.NewString(),
		GameID:    gameID,
		Type:      events.EventTypeError,
		Timestamp: d.clock.Now(),
		ReplyTo:   replyTo,
		Error: &events.ErrorPayload{
			Code:    int(code),
			Message: orchestrator.PublicMessage(err),
		},
	})
}
