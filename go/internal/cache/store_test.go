package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name  string
	Count int
}

func TestMemoryStore_RegisterRetrieveRemove(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore[sample]("test", time.Minute, clockwork.NewFakeClock())

	_, ok, err := store.Retrieve(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Register(ctx, "a", sample{Name: "first", Count: 1}))
	got, ok, err := store.Retrieve(ctx, "a")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, sample{Name: "first", Count: 1}, got)

	require.NoError(t, store.Register(ctx, "a", sample{Name: "second", Count: 2}))
	got, ok, _ = store.Retrieve(ctx, "a")
	require.True(t, ok)
	assert.Equal(t, "second", got.Name)

	require.NoError(t, store.Remove(ctx, "a"))
	_, ok, _ = store.Retrieve(ctx, "a")
	assert.False(t, ok)

	// removing an absent key is not an error
	require.NoError(t, store.Remove(ctx, "a"))
}

func TestMemoryStore_SlidingExpiry(t *testing.T) {
	ctx := context.Background()
	clock := clockwork.NewFakeClock()
	store := NewMemoryStore[string]("test", 10*time.Minute, clock)

	require.NoError(t, store.Register(ctx, "k", "v"))

	clock.Advance(9 * time.Minute)
	_, ok, _ := store.Retrieve(ctx, "k")
	require.True(t, ok)

	// reads do not extend the lifetime
	clock.Advance(time.Minute)
	_, ok, _ = store.Retrieve(ctx, "k")
	assert.False(t, ok)

	require.NoError(t, store.Register(ctx, "k", "v2"))
	clock.Advance(9 * time.Minute)
	require.NoError(t, store.Register(ctx, "k", "v3"))
	clock.Advance(9 * time.Minute)
	got, ok, _ := store.Retrieve(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, "v3", got)
}

func TestMemoryStore_Sweep(t *testing.T) {
	ctx := context.Background()
	clock := clockwork.NewFakeClock()
	store := NewMemoryStore[int]("test", time.Minute, clock)

	for i := 0; i < 10; i++ {
		require.NoError(t, store.Register(ctx, fmt.Sprintf("key-%d", i), i))
	}
	clock.Advance(30 * time.Second)
	require.NoError(t, store.Register(ctx, "fresh", 42))
	assert.Equal(t, 11, store.Len())

	clock.Advance(30 * time.Second)
	assert.Equal(t, 10, store.Sweep())
	assert.Equal(t, 1, store.Len())

	got, ok, _ := store.Retrieve(ctx, "fresh")
	require.True(t, ok)
	assert.Equal(t, 42, got)
}

func TestMemoryStore_RunSweepsOnTicker(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	clock := clockwork.NewFakeClock()
	store := NewMemoryStore[int]("test", time.Minute, clock)
	require.NoError(t, store.Register(ctx, "k", 1))

	done := make(chan struct{})
	go func() {
		store.Run(ctx, 30*time.Second)
		close(done)
	}()

	require.NoError(t, clock.BlockUntilContext(ctx, 1))
	clock.Advance(90 * time.Second)

	require.Eventually(t, func() bool {
		return rawLen(store) == 0
	}, time.Second, 10*time.Millisecond)

	cancel()
	<-done
}

func rawLen[T any](store *MemoryStore[T]) int {
	total := 0
	for _, sh := range store.shards {
		sh.mu.RLock()
		total += len(sh.items)
		sh.mu.RUnlock()
	}
	return total
}

func TestMemoryStore_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore[int]("test", time.Minute, clockwork.NewRealClock())

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				key := fmt.Sprintf("w%d-%d", w, i)
				_ = store.Register(ctx, key, i)
				_, _, _ = store.Retrieve(ctx, key)
				if i%3 == 0 {
					_ = store.Remove(ctx, key)
				}
			}
		}(w)
	}
	wg.Wait()

	// 200 keys per writer, every third removed
	assert.Equal(t, 8*(200-67), store.Len())
}

func TestMemoryStore_RegisterIfAbsent(t *testing.T) {
	ctx := context.Background()
	clock := clockwork.NewFakeClock()
	store := NewMemoryStore[string]("test", time.Minute, clock)

	stored, err := store.RegisterIfAbsent(ctx, "k", "first")
	require.NoError(t, err)
	assert.True(t, stored)

	stored, err = store.RegisterIfAbsent(ctx, "k", "second")
	require.NoError(t, err)
	assert.False(t, stored)
	got, _, _ := store.Retrieve(ctx, "k")
	assert.Equal(t, "first", got)

	// an expired key counts as free
	clock.Advance(time.Minute)
	stored, err = store.RegisterIfAbsent(ctx, "k", "third")
	require.NoError(t, err)
	assert.True(t, stored)
	got, _, _ = store.Retrieve(ctx, "k")
	assert.Equal(t, "third", got)
}

func TestRegisterNew(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore[string]("test", time.Minute, clockwork.NewFakeClock())
	require.NoError(t, store.Register(ctx, "taken-1", "x"))
	require.NoError(t, store.Register(ctx, "taken-2", "x"))

	candidates := []string{"taken-1", "taken-2", "free"}
	next := 0
	id, err := RegisterNew[string](ctx, store, func() string {
		c := candidates[next]
		next++
		return c
	}, func(id string) (string, error) {
		return "value-" + id, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "free", id)
	assert.Equal(t, 3, next)

	got, ok, _ := store.Retrieve(ctx, "free")
	require.True(t, ok)
	assert.Equal(t, "value-free", got)
	got, _, _ = store.Retrieve(ctx, "taken-1")
	assert.Equal(t, "x", got)
}

func TestRegisterNew_Exhausted(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore[string]("test", time.Minute, clockwork.NewFakeClock())
	require.NoError(t, store.Register(ctx, "same", "x"))

	_, err := RegisterNew[string](ctx, store, func() string { return "same" }, func(id string) (string, error) {
		return id, nil
	})
	assert.ErrorIs(t, err, ErrIdentifierExhausted)
}

func TestRegisterNew_BuildError(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore[string]("test", time.Minute, clockwork.NewFakeClock())
	buildErr := errors.New("cannot build")

	_, err := RegisterNew[string](ctx, store, func() string { return "k" }, func(string) (string, error) {
		return "", buildErr
	})
	assert.ErrorIs(t, err, buildErr)
	assert.Equal(t, 0, rawLen(store))
}

func TestRegisterNew_ConcurrentCallersGetDistinctIDs(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore[int]("test", time.Minute, clockwork.NewFakeClock())

	// every caller draws from the same small pool, so collisions are certain
	const callers = 16
	var mu sync.Mutex
	draw := 0
	generate := func() string {
		mu.Lock()
		defer mu.Unlock()
		draw++
		return fmt.Sprintf("id-%d", draw%callers)
	}

	ids := make([]string, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id, err := RegisterNew[int](ctx, store, generate, func(string) (int, error) { return i, nil })
			assert.NoError(t, err)
			ids[i] = id
		}(i)
	}
	wg.Wait()

	seen := make(map[string]bool)
	for i, id := range ids {
		assert.False(t, seen[id], "id %s handed out twice", id)
		seen[id] = true
		got, ok, _ := store.Retrieve(ctx, id)
		assert.True(t, ok)
		assert.Equal(t, i, got)
	}
}
