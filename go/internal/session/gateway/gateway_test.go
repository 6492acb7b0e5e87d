package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/vocabversus/go/clients/wordset_client"
	"github.com/mcdev12/vocabversus/go/internal/cache"
	"github.com/mcdev12/vocabversus/go/internal/connections"
	"github.com/mcdev12/vocabversus/go/internal/game"
	"github.com/mcdev12/vocabversus/go/internal/models"
	"github.com/mcdev12/vocabversus/go/internal/session/events"
	"github.com/mcdev12/vocabversus/go/internal/session/orchestrator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testGateway struct {
	server  *httptest.Server
	games   *cache.MemoryStore[*game.Instance]
	manager *ConnectionManager
	wordSet models.WordSet
}

func newTestGateway(t *testing.T) *testGateway {
	t.Helper()

	clock := clockwork.NewRealClock()
	wordSet := models.WordSet{ID: uuid.New(), Name: "animals", Words: []string{"cat", "dog"}}

	games := cache.NewMemoryStore[*game.Instance]("games", 30*time.Minute, clock)
	directory := connections.NewDirectory(cache.NewMemoryStore[models.ConnectionRecord]("connections", time.Hour, clock))

	manager := NewConnectionManager(DefaultConnectionConfig())
	orch := orchestrator.NewOrchestrator(games, directory, wordset_client.NewCatalog(wordSet), manager, clock, orchestrator.Config{
		GameStartDelay:  50 * time.Millisecond,
		EvaluateTimeout: time.Second,
	})
	service := NewService(manager, NewDispatcher(orch, manager, clock), nil)

	mux := http.NewServeMux()
	service.RegisterRoutes(mux)
	server := httptest.NewServer(mux)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = service.Start(ctx)
	}()

	t.Cleanup(func() {
		server.Close()
		cancel()
		<-done
		orch.Stop()
	})

	return &testGateway{server: server, games: games, manager: manager, wordSet: wordSet}
}

func (g *testGateway) createGame(t *testing.T, maxPlayers int) string {
	t.Helper()
	instance, err := game.NewInstance(game.InstanceConfig{
		ID:         uuid.NewString()[:8],
		WordSet:    g.wordSet,
		MaxPlayers: maxPlayers,
		Settings:   models.GameSettings{RoundEndDelaySec: 10, MinRequiredChars: 2, MaxRequiredChars: 2},
		CreatedAt:  time.Now(),
	})
	require.NoError(t, err)
	require.NoError(t, g.games.Register(context.Background(), instance.ID, instance))
	return instance.ID
}

type testClient struct {
	t    *testing.T
	conn *websocket.Conn
	seq  int
}

func (g *testGateway) dial(t *testing.T) *testClient {
	t.Helper()
	url := "ws" + strings.TrimPrefix(g.server.URL, "http") + "/game"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return &testClient{t: t, conn: conn}
}

func (c *testClient) send(msgType MessageType, data any) string {
	c.t.Helper()
	c.seq++
	frame := map[string]any{"id": fmt.Sprintf("req-%d", c.seq), "type": msgType}
	if data != nil {
		frame["data"] = data
	}
	require.NoError(c.t, c.conn.WriteJSON(frame))
	return frame["id"].(string)
}

// waitFor reads frames until match accepts one.
func (c *testClient) waitFor(match func(events.Event) bool) events.Event {
	c.t.Helper()
	for {
		require.NoError(c.t, c.conn.SetReadDeadline(time.Now().Add(3*time.Second)))
		var event events.Event
		require.NoError(c.t, c.conn.ReadJSON(&event))
		if match(event) {
			return event
		}
	}
}

func (c *testClient) reply(requestID string) events.Event {
	c.t.Helper()
	return c.waitFor(func(e events.Event) bool { return e.ReplyTo == requestID })
}

func (c *testClient) event(eventType events.EventType) events.Event {
	c.t.Helper()
	return c.waitFor(func(e events.Event) bool { return e.Type == eventType })
}

// request sends a frame and requires a successful reply, decoding it into out.
func (c *testClient) request(msgType MessageType, data any, out any) {
	c.t.Helper()
	resp := c.reply(c.send(msgType, data))
	require.Equal(c.t, events.EventTypeResponse, resp.Type, "error reply: %+v", resp.Error)
	if out != nil {
		require.NoError(c.t, json.Unmarshal(resp.Data, out))
	}
}

func (c *testClient) joinGame(gameID, username string) string {
	c.t.Helper()
	var check orchestrator.CheckGameResponse
	c.request(MessageCheckGame, orchestrator.CheckGameRequest{GameID: gameID}, &check)
	var joined orchestrator.JoinResponse
	c.request(MessageJoin, orchestrator.JoinRequest{GameID: gameID, Username: username}, &joined)
	return check.PlayerID
}

func TestGateway_FullRound(t *testing.T) {
	gw := newTestGateway(t)
	gameID := gw.createGame(t, 2)

	alice := gw.dial(t)
	bob := gw.dial(t)

	aliceID := alice.joinGame(gameID, "alice")
	bobID := bob.joinGame(gameID, "bob")

	joined := alice.event(events.EventTypeUserJoined)
	var joinedPayload events.UserJoinedPayload
	require.NoError(t, json.Unmarshal(joined.Data, &joinedPayload))
	assert.Equal(t, bobID, joinedPayload.PlayerID)
	assert.Equal(t, "bob", joinedPayload.Username)
	assert.Equal(t, gameID, joined.GameID)

	alice.request(MessageReady, orchestrator.ReadyRequest{Ready: true}, nil)
	bob.request(MessageReady, orchestrator.ReadyRequest{Ready: true}, nil)

	var round events.StartRoundPayload
	for _, c := range []*testClient{alice, bob} {
		event := c.event(events.EventTypeStartRound)
		require.NoError(t, json.Unmarshal(event.Data, &round))
		assert.Equal(t, 1, round.Round)
		require.Len(t, round.RequiredCharacters, 2)
	}

	required := []rune(strings.Join(round.RequiredCharacters, ""))
	word := "cat"
	if !game.ContainsRequired(word, required) {
		word = "dog"
	}
	require.True(t, game.ContainsRequired(word, required))

	// the verdict is queued before the reply
	submitID := alice.send(MessageSubmit, orchestrator.SubmitRequest{Word: word})
	result := alice.event(events.EventTypeSubmitResult)
	var resultPayload events.SubmitResultPayload
	require.NoError(t, json.Unmarshal(result.Data, &resultPayload))
	assert.True(t, resultPayload.IsCorrect)
	assert.Equal(t, events.EventTypeResponse, alice.reply(submitID).Type)

	points := bob.event(events.EventTypeAddPoints)
	var pointsPayload events.AddPointsPayload
	require.NoError(t, json.Unmarshal(points.Data, &pointsPayload))
	assert.Equal(t, events.AddPointsPayload{PlayerID: aliceID, Points: 15}, pointsPayload)

	bob.event(events.EventTypeRoundEnding)

	// a dropped socket is announced to the rest of the game
	require.NoError(t, bob.conn.Close())
	left := alice.event(events.EventTypeUserLeft)
	var leftPayload events.UserLeftPayload
	require.NoError(t, json.Unmarshal(left.Data, &leftPayload))
	assert.Equal(t, bobID, leftPayload.PlayerID)
}

func TestGateway_ErrorReplies(t *testing.T) {
	gw := newTestGateway(t)
	gameID := gw.createGame(t, 1)
	client := gw.dial(t)

	resp := client.reply(client.send("Dance", nil))
	assert.Equal(t, events.EventTypeError, resp.Type)
	require.NotNil(t, resp.Error)
	assert.Equal(t, int(orchestrator.CodeUnknown), resp.Error.Code)

	resp = client.reply(client.send(MessageCheckGame, orchestrator.CheckGameRequest{GameID: "missing"}))
	require.NotNil(t, resp.Error)
	assert.Equal(t, int(orchestrator.CodeIdentifierNotFound), resp.Error.Code)

	resp = client.reply(client.send(MessageReady, orchestrator.ReadyRequest{Ready: true}))
	require.NotNil(t, resp.Error)
	assert.Equal(t, int(orchestrator.CodeIdentifierNotFound), resp.Error.Code)

	client.joinGame(gameID, "alice")

	other := gw.dial(t)
	var check orchestrator.CheckGameResponse
	other.request(MessageCheckGame, orchestrator.CheckGameRequest{GameID: gameID}, &check)
	assert.Equal(t, 1, check.PlayerCount)
	resp = other.reply(other.send(MessageJoin, orchestrator.JoinRequest{GameID: gameID, Username: "bob"}))
	require.NotNil(t, resp.Error)
	assert.Equal(t, int(orchestrator.CodeUserAddFailed), resp.Error.Code)
}

func TestGateway_MalformedFrame(t *testing.T) {
	gw := newTestGateway(t)
	client := gw.dial(t)

	require.NoError(t, client.conn.WriteMessage(websocket.TextMessage, []byte("{not json")))
	resp := client.event(events.EventTypeError)
	require.NotNil(t, resp.Error)
	assert.Equal(t, int(orchestrator.CodeUnknown), resp.Error.Code)
	assert.Equal(t, "malformed frame", resp.Error.Message)
}

func TestGateway_Stats(t *testing.T) {
	gw := newTestGateway(t)
	gameID := gw.createGame(t, 2)
	client := gw.dial(t)
	client.joinGame(gameID, "alice")

	resp, err := http.Get(gw.server.URL + "/game/stats")
	require.NoError(t, err)
	defer resp.Body.Close()

	var stats map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&stats))
	assert.EqualValues(t, 1, stats["total_connections"])
	assert.EqualValues(t, 1, stats["active_games"])
}

func TestEventSubject(t *testing.T) {
	event := &events.Event{GameID: "ab12cd34", Type: events.EventTypeStartRound}
	assert.Equal(t, "vocabversus.events.ab12cd34.StartRound", EventSubject("vocabversus.events", event))
	assert.Equal(t, "ab12cd34.StartRound", EventSubject("", event))
	assert.Equal(t, "p._.Response", EventSubject("p", &events.Event{Type: events.EventTypeResponse}))
	assert.Equal(t, "p.a_b.UserLeft", EventSubject("p", &events.Event{GameID: "a.b", Type: events.EventTypeUserLeft}))
}
