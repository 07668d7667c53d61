package client

import (
	"sync"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestMutateAppliesOptimisticallyBeforeCommit(t *testing.T) {
	cache := NewEngagementCache()
	cache.Set("like:post-1", State{Count: 3, Active: false})

	var observed State
	err := cache.Mutate("like:post-1",
		func(prev State) State { return State{Count: prev.Count + 1, Active: true} },
		func() error {
			// The speculative value is already visible while the commit runs.
			observed, _ = cache.Get("like:post-1")
			return nil
		})
	require.NoError(t, err)
	require.Equal(t, State{Count: 4, Active: true}, observed)

	state, known := cache.Get("like:post-1")
	require.True(t, known)
	require.Equal(t, State{Count: 4, Active: true}, state)
}

func TestMutateRollsBackOnCommitFailure(t *testing.T) {
	cache := NewEngagementCache()
	cache.Set("like:post-1", State{Count: 3, Active: false})

	err := cache.Mutate("like:post-1",
		func(prev State) State { return State{Count: prev.Count + 1, Active: true} },
		func() error { return errors.New("server rejected") })
	require.Error(t, err)

	state, known := cache.Get("like:post-1")
	require.True(t, known)
	require.Equal(t, State{Count: 3, Active: false}, state)
}

func TestMutateRollbackForgetsUnknownKey(t *testing.T) {
	cache := NewEngagementCache()

	err := cache.Mutate("like:never-seen",
		func(prev State) State { return State{Count: 1, Active: true} },
		func() error { return errors.New("server rejected") })
	require.Error(t, err)

	// The key goes back to unknown rather than sticking at a zero State.
	_, known := cache.Get("like:never-seen")
	require.False(t, known)
}

func TestMutateSerializesPerKey(t *testing.T) {
	cache := NewEngagementCache()
	cache.Set("like:post-1", State{Count: 0, Active: false})

	const toggles = 100
	var wg sync.WaitGroup
	for i := 0; i < toggles; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cache.Mutate("like:post-1",
				func(prev State) State { return State{Count: prev.Count + 1, Active: true} },
				func() error { return nil })
		}()
	}
	wg.Wait()

	// Every speculate saw the previous toggle's result, none were lost.
	state, _ := cache.Get("like:post-1")
	require.EqualValues(t, toggles, state.Count)
}

func TestMutateDistinctKeysDoNotBlockEachOther(t *testing.T) {
	cache := NewEngagementCache()

	release := make(chan struct{})
	started := make(chan struct{})
	go cache.Mutate("like:slow",
		func(prev State) State { return State{Count: 1, Active: true} },
		func() error {
			close(started)
			<-release
			return nil
		})

	<-started
	// A mutation on another key completes while like:slow's commit is stuck.
	err := cache.Mutate("like:fast",
		func(prev State) State { return State{Count: 1, Active: true} },
		func() error { return nil })
	require.NoError(t, err)
	close(release)
}
