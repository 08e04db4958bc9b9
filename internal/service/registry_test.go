package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rivalplay/arena-backend/internal/entity"
)

// readySeeker registers a throwaway searching connection used to probe
// whether anyone else is claimable.
func readySeeker(registry *Registry, id string) {
	registry.Register(id)
	registry.MarkReady(id, "", "")
}

func TestRegistry_Register(t *testing.T) {
	t.Run("Creates an idle connection", func(t *testing.T) {
		// Given: an empty registry
		registry := NewRegistry()

		// When: a socket registers
		conn := registry.Register("conn-1")

		// Then: the connection exists and is idle, not yet claimable
		require.NotNil(t, conn)
		assert.Equal(t, entity.StateIdle, conn.State)

		readySeeker(registry, "seeker")
		_, _, paired := registry.ClaimPair("seeker")
		assert.False(t, paired)
	})

	t.Run("Registering twice returns the same connection", func(t *testing.T) {
		// Given: a registered connection
		registry := NewRegistry()
		first := registry.Register("conn-1")

		// When: the same id registers again
		second := registry.Register("conn-1")

		// Then: the original record is returned
		assert.Same(t, first, second)
	})
}

func TestRegistry_MarkReady(t *testing.T) {
	t.Run("Makes the connection claimable with its identity", func(t *testing.T) {
		// Given: an idle connection
		registry := NewRegistry()
		registry.Register("conn-1")

		// When: it is marked ready with an identity
		registry.MarkReady("conn-1", "alice", "user-1")

		// Then: it becomes searching and claimable by others
		conn, ok := registry.Get("conn-1")
		require.True(t, ok)
		assert.Equal(t, entity.StateSearching, conn.State)
		assert.Equal(t, "alice", conn.Name)
		assert.Equal(t, "user-1", conn.UserID)

		readySeeker(registry, "seeker")
		_, opponent, paired := registry.ClaimPair("seeker")
		require.True(t, paired)
		assert.Equal(t, "conn-1", opponent.ID)
	})

	t.Run("Does not pull a playing connection back into the pool", func(t *testing.T) {
		// Given: a connection bound to a room
		registry := NewRegistry()
		registry.Register("conn-1")
		registry.MarkReady("conn-1", "alice", "user-1")
		registry.BindRoom("conn-1", entity.PlayerX)

		// When: it is marked ready again
		registry.MarkReady("conn-1", "alice", "user-1")

		// Then: it stays in its room
		conn, _ := registry.Get("conn-1")
		assert.Equal(t, entity.StateInRoom, conn.State)
	})
}

func TestRegistry_ClaimPair(t *testing.T) {
	t.Run("Claims in registration order", func(t *testing.T) {
		// Given: three searching connections registered in order
		registry := NewRegistry()
		for _, id := range []string{"a", "b", "c"} {
			readySeeker(registry, id)
		}

		// When: a fourth one claims an opponent
		readySeeker(registry, "z")
		_, opponent, paired := registry.ClaimPair("z")

		// Then: the earliest registration wins
		require.True(t, paired)
		assert.Equal(t, "a", opponent.ID)
	})

	t.Run("Never pairs the requester with itself", func(t *testing.T) {
		// Given: two searching connections
		registry := NewRegistry()
		readySeeker(registry, "a")
		readySeeker(registry, "b")

		// When: the first one claims
		requester, opponent, paired := registry.ClaimPair("a")

		// Then: it gets the other, never itself
		require.True(t, paired)
		assert.Equal(t, "a", requester.ID)
		assert.Equal(t, "b", opponent.ID)
	})

	t.Run("Binds both sides atomically with their marks", func(t *testing.T) {
		// Given: two searching connections
		registry := NewRegistry()
		readySeeker(registry, "a")
		readySeeker(registry, "b")

		// When: one claims the other
		requester, opponent, paired := registry.ClaimPair("b")
		require.True(t, paired)

		// Then: both are in a room, opponent as X and requester as O
		assert.Equal(t, entity.StateInRoom, requester.State)
		assert.Equal(t, entity.StateInRoom, opponent.State)
		assert.Equal(t, entity.PlayerO, requester.Mark)
		assert.Equal(t, entity.PlayerX, opponent.Mark)

		// and a claimed connection cannot be claimed again
		readySeeker(registry, "c")
		_, _, paired = registry.ClaimPair("c")
		assert.False(t, paired)
	})

	t.Run("Fails when the requester is not searching", func(t *testing.T) {
		// Given: a searching connection and an idle requester
		registry := NewRegistry()
		readySeeker(registry, "a")
		registry.Register("idle")

		// When: the idle connection tries to claim
		_, _, paired := registry.ClaimPair("idle")

		// Then: nothing is claimed and the pool is untouched
		assert.False(t, paired)

		conn, _ := registry.Get("a")
		assert.Equal(t, entity.StateSearching, conn.State)
	})

	t.Run("Ignores idle, playing and offline connections", func(t *testing.T) {
		// Given: connections in every non-searching state
		registry := NewRegistry()
		registry.Register("idle")

		registry.Register("playing")
		registry.MarkReady("playing", "", "")
		registry.BindRoom("playing", entity.PlayerX)

		registry.Register("gone")
		registry.MarkReady("gone", "", "")
		registry.MarkOffline("gone")

		// When: a searching connection claims
		readySeeker(registry, "z")
		_, _, paired := registry.ClaimPair("z")

		// Then: nobody is claimable
		assert.False(t, paired)
	})
}

func TestRegistry_RoomTransitions(t *testing.T) {
	t.Run("BindRoom assigns the mark, ReleaseRoom clears it", func(t *testing.T) {
		// Given: a searching connection
		registry := NewRegistry()
		registry.Register("conn-1")
		registry.MarkReady("conn-1", "", "")

		// When: it is bound to a room and later released
		registry.BindRoom("conn-1", entity.PlayerO)

		conn, _ := registry.Get("conn-1")
		assert.Equal(t, entity.StateInRoom, conn.State)
		assert.Equal(t, entity.PlayerO, conn.Mark)

		registry.ReleaseRoom("conn-1")

		// Then: it is idle again with no mark, and must re-request to play
		assert.Equal(t, entity.StateIdle, conn.State)
		assert.Empty(t, conn.Mark)

		readySeeker(registry, "seeker")
		_, _, paired := registry.ClaimPair("seeker")
		assert.False(t, paired)
	})

	t.Run("ReleaseRoom keeps an offline connection offline", func(t *testing.T) {
		// Given: a playing connection that went offline
		registry := NewRegistry()
		registry.Register("conn-1")
		registry.MarkReady("conn-1", "", "")
		registry.BindRoom("conn-1", entity.PlayerX)
		registry.MarkOffline("conn-1")

		// When: its room is released
		registry.ReleaseRoom("conn-1")

		// Then: the state stays offline
		conn, _ := registry.Get("conn-1")
		assert.Equal(t, entity.StateOffline, conn.State)
	})
}

func TestRegistry_Remove(t *testing.T) {
	// Given: two registered connections
	registry := NewRegistry()
	registry.Register("a")
	readySeeker(registry, "b")

	// When: the first one is removed
	registry.Remove("a")

	// Then: it is gone and the scan order survives
	_, ok := registry.Get("a")
	assert.False(t, ok)

	readySeeker(registry, "seeker")
	_, opponent, paired := registry.ClaimPair("seeker")
	require.True(t, paired)
	assert.Equal(t, "b", opponent.ID)
}
