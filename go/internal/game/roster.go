package game

import (
	"fmt"

	"github.com/mcdev12/vocabversus/go/internal/models"
)

// Roster is the set of players in one game instance, keyed by durable player id.
// It is not safe for concurrent use; the owning Instance lock guards it.
type Roster struct {
	maxPlayers int
	players    map[string]*models.Player
	order      []string
}

// NewRoster creates an empty roster holding at most maxPlayers players
func NewRoster(maxPlayers int) *Roster {
	return &Roster{
		maxPlayers: maxPlayers,
		players:    make(map[string]*models.Player),
	}
}

// AddPlayer inserts a connected, unready player with zero points.
func (r *Roster) AddPlayer(id, username string) error {
	if len(r.players) >= r.maxPlayers {
		return fmt.Errorf("add player %s: %w", id, ErrCapacityExceeded)
	}
	if _, exists := r.players[id]; exists {
		return fmt.Errorf("add player %s: %w", id, ErrDuplicatePlayer)
	}

	r.players[id] = &models.Player{
		ID:        id,
		Username:  username,
		Connected: true,
	}
	r.order = append(r.order, id)
	return nil
}

// RemovePlayer deletes the player; absent ids are ignored.
func (r *Roster) RemovePlayer(id string) {
	if _, exists := r.players[id]; !exists {
		return
	}
	delete(r.players, id)
	for i, pid := range r.order {
		if pid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

func (r *Roster) lookup(id string) (*models.Player, error) {
	p, ok := r.players[id]
	if !ok {
		return nil, fmt.Errorf("player %s: %w", id, ErrPlayerNotFound)
	}
	return p, nil
}

// SetConnected flips the connected flag, preserving readiness and points.
func (r *Roster) SetConnected(id string, connected bool) error {
	p, err := r.lookup(id)
	if err != nil {
		return err
	}
	p.Connected = connected
	return nil
}

func (r *Roster) SetReady(id string, ready bool) error {
	p, err := r.lookup(id)
	if err != nil {
		return err
	}
	p.Ready = ready
	return nil
}

func (r *Roster) AwardPoints(id string, delta int) error {
	p, err := r.lookup(id)
	if err != nil {
		return err
	}
	p.Points += delta
	return nil
}

// Get returns a copy of the player record.
func (r *Roster) Get(id string) (models.Player, bool) {
	p, ok := r.players[id]
	if !ok {
		return models.Player{}, false
	}
	return *p, true
}

func (r *Roster) Len() int {
	return len(r.players)
}

func (r *Roster) MaxPlayers() int {
	return r.maxPlayers
}

// ConnectedCount returns how many players currently hold a connection.
func (r *Roster) ConnectedCount() int {
	n := 0
	for _, p := range r.players {
		if p.Connected {
			n++
		}
	}
	return n
}

// AllReady reports whether every connected player is ready. Disconnected
// players are ignored, so an empty or fully disconnected roster is all-ready.
func (r *Roster) AllReady() bool {
	for _, p := range r.players {
		if p.Connected && !p.Ready {
			return false
		}
	}
	return true
}

// Players returns copies of all records in join order.
func (r *Roster) Players() []models.Player {
	out := make([]models.Player, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, *r.players[id])
	}
	return out
}
