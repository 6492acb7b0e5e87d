package lobby

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/vocabversus/go/clients/wordset_client"
	"github.com/mcdev12/vocabversus/go/internal/cache"
	"github.com/mcdev12/vocabversus/go/internal/game"
	"github.com/mcdev12/vocabversus/go/internal/models"
	"github.com/stretchr/testify/suite"
)

type AppTestSuite struct {
	suite.Suite
	clock   *clockwork.FakeClock
	games   *cache.MemoryStore[*game.Instance]
	wordSet models.WordSet
	app     *App
	ctx     context.Context
}

func (s *AppTestSuite) SetupTest() {
	s.clock = clockwork.NewFakeClockAt(time.Date(2025, 4, 19, 12, 0, 0, 0, time.UTC))
	s.games = cache.NewMemoryStore[*game.Instance]("games", 30*time.Minute, s.clock)
	s.wordSet = models.WordSet{ID: uuid.New(), Name: "animals", Words: []string{"cat", "horse", "giraffe"}}
	s.app = NewApp(s.games, wordset_client.NewCatalog(s.wordSet), DefaultDefaults(), s.clock)
	s.ctx = context.Background()
}

func (s *AppTestSuite) retrieve(id string) *game.Instance {
	g, ok, err := s.games.Retrieve(s.ctx, id)
	s.Require().NoError(err)
	s.Require().True(ok)
	return g
}

func (s *AppTestSuite) TestCreateGame_Defaults() {
	id, err := s.app.CreateGame(s.ctx, CreateGameRequest{WordSetID: s.wordSet.ID})
	s.Require().NoError(err)
	s.Len(id, 8)

	g := s.retrieve(id)
	s.Equal(id, g.ID)
	s.Equal(models.GameStateLobby, g.State())
	s.Equal(4, g.Roster.MaxPlayers())
	s.Equal(models.DefaultGameSettings(), g.Settings)
	s.False(g.IsPasswordProtected())
	s.Equal(s.clock.Now(), g.CreatedAt)
	s.Equal(s.wordSet.ID, g.Rounds.WordSetID())
}

func (s *AppTestSuite) TestCreateGame_CustomSettingsAndPassword() {
	settings := models.GameSettings{RoundEndDelaySec: 3, MinRequiredChars: 2, MaxRequiredChars: 10, IncorrectCharsMargin: 1}
	id, err := s.app.CreateGame(s.ctx, CreateGameRequest{
		WordSetID:  s.wordSet.ID,
		MaxPlayers: 6,
		Settings:   &settings,
		Password:   "hunter2",
	})
	s.Require().NoError(err)

	g := s.retrieve(id)
	s.Equal(6, g.Roster.MaxPlayers())
	s.Equal(settings, g.Settings)
	s.True(g.IsPasswordProtected())
	s.True(g.VerifyPassword("hunter2"))
	s.False(g.VerifyPassword("hunter3"))

	// max is clamped below the longest word
	minChars, maxChars := g.Rounds.Bounds()
	s.Equal(2, minChars)
	s.Equal(6, maxChars)
}

func (s *AppTestSuite) TestCreateGame_UniqueIDs() {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		id, err := s.app.CreateGame(s.ctx, CreateGameRequest{WordSetID: s.wordSet.ID})
		s.Require().NoError(err)
		s.False(seen[id], "duplicate id %s", id)
		seen[id] = true
	}
	s.Equal(50, s.games.Len())
}

func (s *AppTestSuite) TestCreateGame_ConcurrentCollidingIDs() {
	const creators = 8
	var mu sync.Mutex
	draws := 0
	// ids come from a pool as small as the number of creators
	s.app.newID = func() string {
		mu.Lock()
		defer mu.Unlock()
		draws++
		return fmt.Sprintf("game%04d", draws%creators)
	}

	ids := make([]string, creators)
	var wg sync.WaitGroup
	for i := 0; i < creators; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id, err := s.app.CreateGame(s.ctx, CreateGameRequest{WordSetID: s.wordSet.ID})
			s.NoError(err)
			ids[i] = id
		}(i)
	}
	wg.Wait()

	seen := make(map[string]bool)
	for _, id := range ids {
		s.False(seen[id], "duplicate id %s", id)
		seen[id] = true
		s.Equal(id, s.retrieve(id).ID)
	}
	s.Equal(creators, s.games.Len())
}

func (s *AppTestSuite) TestCreateGame_Validation() {
	negative := models.GameSettings{RoundEndDelaySec: -1, MinRequiredChars: 1, MaxRequiredChars: 1}
	margin := models.GameSettings{MinRequiredChars: 1, MaxRequiredChars: 1, IncorrectCharsMargin: -2}

	tests := []struct {
		name string
		req  CreateGameRequest
	}{
		{name: "missing word set", req: CreateGameRequest{}},
		{name: "negative max players", req: CreateGameRequest{WordSetID: s.wordSet.ID, MaxPlayers: -1}},
		{name: "negative delay", req: CreateGameRequest{WordSetID: s.wordSet.ID, Settings: &negative}},
		{name: "negative margin", req: CreateGameRequest{WordSetID: s.wordSet.ID, Settings: &margin}},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			_, err := s.app.CreateGame(s.ctx, tt.req)
			s.ErrorIs(err, ErrInvalidRequest)
		})
	}
	s.Equal(0, s.games.Len())
}

func (s *AppTestSuite) TestCreateGame_InfeasibleSettings() {
	settings := models.GameSettings{MinRequiredChars: 8, MaxRequiredChars: 9}
	_, err := s.app.CreateGame(s.ctx, CreateGameRequest{WordSetID: s.wordSet.ID, Settings: &settings})
	s.ErrorIs(err, ErrInfeasibleSettings)
	s.Equal(0, s.games.Len())
}

func (s *AppTestSuite) TestCreateGame_WordSetNotFound() {
	_, err := s.app.CreateGame(s.ctx, CreateGameRequest{WordSetID: uuid.New()})
	s.ErrorIs(err, wordset_client.ErrWordSetNotFound)
}

func (s *AppTestSuite) TestLoadDefaults() {
	path := filepath.Join(s.T().TempDir(), "defaults.yaml")
	s.Require().NoError(os.WriteFile(path, []byte("max_players: 8\nsettings:\n  round_end_delay_sec: 5\n  min_required_chars: 2\n  max_required_chars: 3\n"), 0o644))

	defaults, err := LoadDefaults(path)
	s.Require().NoError(err)
	s.Equal(8, defaults.MaxPlayers)
	s.Equal(models.GameSettings{RoundEndDelaySec: 5, MinRequiredChars: 2, MaxRequiredChars: 3}, defaults.Settings)

	_, err = LoadDefaults(filepath.Join(s.T().TempDir(), "missing.yaml"))
	s.Error(err)

	s.Require().NoError(os.WriteFile(path, []byte("max_players: 0\n"), 0o644))
	_, err = LoadDefaults(path)
	s.ErrorIs(err, ErrInvalidRequest)
}

func TestAppTestSuite(t *testing.T) {
	suite.Run(t, new(AppTestSuite))
}
