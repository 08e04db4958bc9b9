package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rivalplay/arena-backend/internal/entity"
)

func TestMatchmaker_RequestToPlay(t *testing.T) {
	ctx := context.Background()

	t.Run("Lone requester keeps searching", func(t *testing.T) {
		// Given: a single registered connection
		env := newMatchEnv()
		env.registry.Register("conn-a")

		// When: it requests a match
		err := env.matchmaker.RequestToPlay(ctx, "conn-a", "")

		// Then: it is told no opponent was found and no room exists
		require.NoError(t, err)
		assert.Equal(t, 1, env.notifier.countAction("conn-a", "opponent_not_found"))
		assert.Zero(t, env.rooms.ActiveRooms())

		conn, _ := env.registry.Get("conn-a")
		assert.Equal(t, entity.StateSearching, conn.State)
	})

	t.Run("Two requesters are paired into one room", func(t *testing.T) {
		// Given: a connection already searching
		env := newMatchEnv()
		env.registry.Register("conn-a")
		require.NoError(t, env.matchmaker.RequestToPlay(ctx, "conn-a", ""))

		// When: a second connection requests a match
		env.registry.Register("conn-b")
		require.NoError(t, env.matchmaker.RequestToPlay(ctx, "conn-b", ""))

		// Then: one room exists with the waiting side as X and the requester as O
		assert.Equal(t, 1, env.rooms.ActiveRooms())

		connA, _ := env.registry.Get("conn-a")
		connB, _ := env.registry.Get("conn-b")
		assert.Equal(t, entity.StateInRoom, connA.State)
		assert.Equal(t, entity.StateInRoom, connB.State)
		assert.Equal(t, entity.PlayerX, connA.Mark)
		assert.Equal(t, entity.PlayerO, connB.Mark)

		// and both sides get exactly one pairing notice with the same first turn
		require.Equal(t, 1, env.notifier.countAction("conn-a", "opponent_found"))
		require.Equal(t, 1, env.notifier.countAction("conn-b", "opponent_found"))

		evA := env.notifier.eventsFor("conn-a")[1] // after its opponent_not_found
		evB := env.notifier.eventsFor("conn-b")[0]
		assert.Equal(t, entity.PlayerX, evA.mark)
		assert.Equal(t, entity.PlayerO, evB.mark)
		assert.Equal(t, evA.turn, evB.turn)
		assert.Contains(t, []string{entity.PlayerX, entity.PlayerO}, evA.turn)
	})

	t.Run("Third requester is not paired with playing connections", func(t *testing.T) {
		// Given: two connections already playing each other
		env := newMatchEnv()
		env.registry.Register("conn-a")
		require.NoError(t, env.matchmaker.RequestToPlay(ctx, "conn-a", ""))
		env.registry.Register("conn-b")
		require.NoError(t, env.matchmaker.RequestToPlay(ctx, "conn-b", ""))

		// When: a third connection requests a match
		env.registry.Register("conn-c")
		require.NoError(t, env.matchmaker.RequestToPlay(ctx, "conn-c", ""))

		// Then: it waits instead of joining the occupied pair
		assert.Equal(t, 1, env.rooms.ActiveRooms())
		assert.Equal(t, 1, env.notifier.countAction("conn-c", "opponent_not_found"))
	})

	t.Run("Concurrent requests pair into exactly one room", func(t *testing.T) {
		for i := 0; i < 100; i++ {
			// Given: two fresh connections
			env := newMatchEnv()
			env.registry.Register("conn-a")
			env.registry.Register("conn-b")

			// When: both request a match at the same time
			var wg sync.WaitGroup
			wg.Add(2)
			go func() {
				defer wg.Done()
				_ = env.matchmaker.RequestToPlay(ctx, "conn-a", "")
			}()
			go func() {
				defer wg.Done()
				_ = env.matchmaker.RequestToPlay(ctx, "conn-b", "")
			}()
			wg.Wait()

			// Then: exactly one room pairs them, whatever the interleaving
			require.Equal(t, 1, env.rooms.ActiveRooms())

			connA, _ := env.registry.Get("conn-a")
			connB, _ := env.registry.Get("conn-b")
			require.Equal(t, entity.StateInRoom, connA.State)
			require.Equal(t, entity.StateInRoom, connB.State)

			// and each side is told about its opponent exactly once
			require.Equal(t, 1, env.notifier.countAction("conn-a", "opponent_found"))
			require.Equal(t, 1, env.notifier.countAction("conn-b", "opponent_found"))
		}
	})

	t.Run("Verified token attaches the account identity", func(t *testing.T) {
		// Given: a connection with a valid token
		env := newMatchEnv()
		env.verifier.tokens["good"] = &TokenClaims{UserID: "user-1", Name: "alice"}
		env.registry.Register("conn-a")

		// When: it requests a match
		require.NoError(t, env.matchmaker.RequestToPlay(ctx, "conn-a", "good"))

		// Then: the registry carries the account identity
		conn, _ := env.registry.Get("conn-a")
		assert.Equal(t, "user-1", conn.UserID)
		assert.Equal(t, "alice", conn.Name)
	})

	t.Run("Bad token degrades to anonymous play", func(t *testing.T) {
		// Given: a connection presenting a token nobody issued
		env := newMatchEnv()
		env.registry.Register("conn-a")

		// When: it requests a match
		err := env.matchmaker.RequestToPlay(ctx, "conn-a", "forged")

		// Then: matchmaking proceeds with an anonymous identity
		require.NoError(t, err)

		conn, _ := env.registry.Get("conn-a")
		assert.True(t, conn.IsAnonymous())
		assert.Equal(t, entity.StateSearching, conn.State)
	})

	t.Run("Re-request while playing forfeits the active room", func(t *testing.T) {
		// Given: a running match between two identified players
		env := newMatchEnv()
		env.verifier.tokens["tok-a"] = &TokenClaims{UserID: "user-a", Name: "alice"}
		env.verifier.tokens["tok-b"] = &TokenClaims{UserID: "user-b", Name: "bob"}

		env.registry.Register("conn-a")
		require.NoError(t, env.matchmaker.RequestToPlay(ctx, "conn-a", "tok-a"))
		env.registry.Register("conn-b")
		require.NoError(t, env.matchmaker.RequestToPlay(ctx, "conn-b", "tok-b"))
		require.Equal(t, 1, env.rooms.ActiveRooms())

		// When: one side requests a new match mid-game
		require.NoError(t, env.matchmaker.RequestToPlay(ctx, "conn-b", "tok-b"))

		// Then: the old room is gone and only the abandoned side is declared winner
		assert.Zero(t, env.rooms.ActiveRooms())
		assert.Equal(t, 1, env.notifier.countAction("conn-a", "game_won"))
		assert.Zero(t, env.notifier.countAction("conn-b", "game_won"))

		// the outcome is reported exactly once, in favor of the survivor
		require.Equal(t, 1, env.reporter.count())
		result := env.reporter.last()
		assert.Equal(t, entity.RecordTypeWin, result.Type)
		assert.Equal(t, "user-a", result.WinnerID)

		// and the requester goes back to searching with nobody to pair with
		assert.Equal(t, 1, env.notifier.countAction("conn-b", "opponent_not_found"))

		connB, _ := env.registry.Get("conn-b")
		assert.Equal(t, entity.StateSearching, connB.State)
	})
}
