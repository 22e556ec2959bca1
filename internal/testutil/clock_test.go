package testutil

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/decisiongraph/internal/domain"
)

func TestDeterministicClock_StartsAtEpoch(t *testing.T) {
	clock := NewDeterministicClock()
	assert.Equal(t, "2026-01-01T00:00:00Z", clock.Current())
}

func TestDeterministicClock_NextAdvancesOneSecond(t *testing.T) {
	clock := NewDeterministicClock()

	assert.Equal(t, "2026-01-01T00:00:00Z", clock.Next())
	assert.Equal(t, "2026-01-01T00:00:01Z", clock.Next())
	assert.Equal(t, "2026-01-01T00:00:02Z", clock.Next())
	assert.Equal(t, "2026-01-01T00:00:03Z", clock.Current())
}

func TestDeterministicClock_Reset(t *testing.T) {
	clock := NewDeterministicClock()
	clock.Next()
	clock.Next()

	clock.Reset()
	assert.Equal(t, "2026-01-01T00:00:00Z", clock.Next())
}

func TestDeterministicClock_ProducesISOTimestamps(t *testing.T) {
	clock := NewDeterministicClock()
	for range 5 {
		assert.True(t, domain.IsISOTimestamp(clock.Next()))
	}
}

func TestDeterministicClock_Concurrent(t *testing.T) {
	clock := NewDeterministicClock()

	const goroutines = 10
	const perGoroutine = 100

	var mu sync.Mutex
	seen := make(map[string]bool)

	var wg sync.WaitGroup
	for range goroutines {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range perGoroutine {
				ts := clock.Next()
				mu.Lock()
				seen[ts] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	require.Len(t, seen, goroutines*perGoroutine, "every timestamp must be unique")
}

func TestStore_PanicsOnDuplicateGraph(t *testing.T) {
	assert.Panics(t, func() {
		Store(NewGraph("G:a").Build(), NewGraph("G:a").Build())
	})
}
