package cache

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

const shardCount = 32

var ErrIdentifierExhausted = errors.New("could not generate an unused identifier")

// Store is an ephemeral keyed store. Expiry slides on every Register and is
// never refreshed by Retrieve. An expired key is reported exactly like a key
// that never existed.
type Store[T any] interface {
	Register(ctx context.Context, key string, value T) error
	// RegisterIfAbsent stores value only when key is absent or expired and
	// reports whether it did.
	RegisterIfAbsent(ctx context.Context, key string, value T) (bool, error)
	Retrieve(ctx context.Context, key string) (T, bool, error)
	Remove(ctx context.Context, key string) error
}

type entry[T any] struct {
	value     T
	expiresAt time.Time
}

type shard[T any] struct {
	mu    sync.RWMutex
	items map[string]entry[T]
}

// MemoryStore keeps values in process memory, split across independently
// locked shards so unrelated keys never contend on one lock.
type MemoryStore[T any] struct {
	name   string
	shards [shardCount]*shard[T]
	ttl    time.Duration
	clock  clockwork.Clock
}

// NewMemoryStore creates a store whose entries live for ttl after their last write.
func NewMemoryStore[T any](name string, ttl time.Duration, clock clockwork.Clock) *MemoryStore[T] {
	s := &MemoryStore[T]{
		name:  name,
		ttl:   ttl,
		clock: clock,
	}
	for i := range s.shards {
		s.shards[i] = &shard[T]{items: make(map[string]entry[T])}
	}
	return s
}

func (s *MemoryStore[T]) shardFor(key string) *shard[T] {
	h := fnv.New32a()
	h.Write([]byte(key))
	return s.shards[h.Sum32()%shardCount]
}

// Register stores or overwrites the value and resets its expiry.
func (s *MemoryStore[T]) Register(_ context.Context, key string, value T) error {
	sh := s.shardFor(key)
	sh.mu.Lock()
	sh.items[key] = entry[T]{value: value, expiresAt: s.clock.Now().Add(s.ttl)}
	sh.mu.Unlock()
	return nil
}

func (s *MemoryStore[T]) RegisterIfAbsent(_ context.Context, key string, value T) (bool, error) {
	sh := s.shardFor(key)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	now := s.clock.Now()
	if e, ok := sh.items[key]; ok && now.Before(e.expiresAt) {
		return false, nil
	}
	sh.items[key] = entry[T]{value: value, expiresAt: now.Add(s.ttl)}
	return true, nil
}

// Retrieve returns the value for key, or false when absent or expired.
func (s *MemoryStore[T]) Retrieve(_ context.Context, key string) (T, bool, error) {
	var zero T
	sh := s.shardFor(key)
	sh.mu.RLock()
	e, ok := sh.items[key]
	sh.mu.RUnlock()
	if !ok || !s.clock.Now().Before(e.expiresAt) {
		return zero, false, nil
	}
	return e.value, true, nil
}

// Remove evicts key immediately.
func (s *MemoryStore[T]) Remove(_ context.Context, key string) error {
	sh := s.shardFor(key)
	sh.mu.Lock()
	delete(sh.items, key)
	sh.mu.Unlock()
	return nil
}

// Len returns the number of live entries.
func (s *MemoryStore[T]) Len() int {
	now := s.clock.Now()
	total := 0
	for _, sh := range s.shards {
		sh.mu.RLock()
		for _, e := range sh.items {
			if now.Before(e.expiresAt) {
				total++
			}
		}
		sh.mu.RUnlock()
	}
	return total
}

// Sweep deletes expired entries and returns how many were removed.
func (s *MemoryStore[T]) Sweep() int {
	now := s.clock.Now()
	removed := 0
	for _, sh := range s.shards {
		sh.mu.Lock()
		for key, e := range sh.items {
			if !now.Before(e.expiresAt) {
				delete(sh.items, key)
				removed++
			}
		}
		sh.mu.Unlock()
	}
	return removed
}

// Run sweeps expired entries every interval until ctx is cancelled.
func (s *MemoryStore[T]) Run(ctx context.Context, interval time.Duration) {
	ticker := s.clock.NewTicker(interval)
	defer ticker.Stop()

	log.Info().Str("store", s.name).Dur("ttl", s.ttl).Msg("store sweeper started")
	for {
		select {
		case <-ctx.Done():
			log.Info().Str("store", s.name).Msg("store sweeper stopped")
			return
		case <-ticker.Chan():
			if n := s.Sweep(); n > 0 {
				log.Debug().Str("store", s.name).Int("removed", n).Msg("expired entries swept")
			}
		}
	}
}

// RegisterNew draws identifiers from generate, builds a value for each and
// registers it under the first identifier no live value holds. Concurrent
// callers never share an id.
func RegisterNew[T any](ctx context.Context, store Store[T], generate func() string, build func(id string) (T, error)) (string, error) {
	const maxAttempts = 100
	for i := 0; i < maxAttempts; i++ {
		id := generate()
		value, err := build(id)
		if err != nil {
			return "", err
		}
		stored, err := store.RegisterIfAbsent(ctx, id, value)
		if err != nil {
			return "", fmt.Errorf("failed to register identifier: %w", err)
		}
		if stored {
			return id, nil
		}
	}
	return "", ErrIdentifierExhausted
}
