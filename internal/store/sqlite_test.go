package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/wordle/apps/wordle-core/internal/game"
)

func openTestRepo(t *testing.T) *Repo {
	t.Helper()
	r, err := OpenSQLite(filepath.Join(t.TempDir(), "data", "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })
	require.NoError(t, r.Migrate(context.Background()))
	return r
}

func TestMigrateIsIdempotent(t *testing.T) {
	r := openTestRepo(t)
	require.NoError(t, r.Migrate(context.Background()))

	var n int
	require.NoError(t, r.DB().QueryRow(`SELECT COUNT(*) FROM _migrations`).Scan(&n))
	assert.Equal(t, 1, n)
}

func TestUsers(t *testing.T) {
	ctx := context.Background()
	r := openTestRepo(t)

	u, err := r.CreateUser(ctx, "Alice", "hash")
	require.NoError(t, err)
	assert.Len(t, u.ID, 26)

	_, err = r.CreateUser(ctx, "alice", "other")
	assert.ErrorIs(t, err, ErrUsernameTaken)

	byName, err := r.UserByName(ctx, "ALICE")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byName.ID)
	assert.Equal(t, "hash", byName.PasswordHash)
	assert.True(t, u.CreatedAt.Equal(byName.CreatedAt))

	byID, err := r.UserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", byID.Username)

	_, err = r.UserByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRecordGuessAndStats(t *testing.T) {
	ctx := context.Background()
	r := openTestRepo(t)

	u, err := r.CreateUser(ctx, "bob", "hash")
	require.NoError(t, err)

	won := newTestSession(t, 6)
	won.UserID = u.ID
	require.NoError(t, r.RecordSession(ctx, won))
	require.NoError(t, r.RecordGuess(ctx, won.ID, game.StatePlaying, u.ID))
	require.NoError(t, r.RecordGuess(ctx, won.ID, game.StateWon, u.ID))

	lost := newTestSession(t, 1)
	lost.UserID = u.ID
	require.NoError(t, r.RecordSession(ctx, lost))
	require.NoError(t, r.RecordGuess(ctx, lost.ID, game.StateLost, u.ID))

	got, err := r.UserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.GamesPlayed)
	assert.Equal(t, 1, got.Wins)
	assert.Equal(t, 0, got.Streak)

	games, err := r.RecentGames(ctx, u.ID, 0)
	require.NoError(t, err)
	require.Len(t, games, 2)
	assert.Equal(t, lost.ID, games[0].ID)
	assert.Equal(t, game.StateLost, games[0].Status)
	assert.Equal(t, 2, games[1].Guesses)
	assert.Equal(t, game.StateWon, games[1].Status)
	assert.NotNil(t, games[1].FinishedAt)

	assert.ErrorIs(t, r.RecordGuess(ctx, "missing", game.StatePlaying, ""), ErrNotFound)
}

func TestClaimAnonGames(t *testing.T) {
	ctx := context.Background()
	r := openTestRepo(t)

	s := newTestSession(t, 6)
	s.AnonID = "guest-1"
	require.NoError(t, r.RecordSession(ctx, s))

	u, err := r.CreateUser(ctx, "carol", "hash")
	require.NoError(t, err)

	n, err := r.ClaimAnonGames(ctx, "guest-1", u.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	games, err := r.RecentGames(ctx, u.ID, 10)
	require.NoError(t, err)
	require.Len(t, games, 1)
	assert.Equal(t, s.ID, games[0].ID)

	n, err = r.ClaimAnonGames(ctx, "", u.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestDailyResults(t *testing.T) {
	ctx := context.Background()
	r := openTestRepo(t)

	played, err := r.DailyPlayed(ctx, "u1", "2026-10-19")
	require.NoError(t, err)
	assert.False(t, played)

	require.NoError(t, r.InsertDaily(ctx, DailyResult{UserID: "u1", Date: "2026-10-19", Guesses: 4, ElapsedMs: 9000}))
	require.NoError(t, r.InsertDaily(ctx, DailyResult{UserID: "u2", Date: "2026-10-19", Guesses: 3, ElapsedMs: 5000}))
	require.NoError(t, r.InsertDaily(ctx, DailyResult{UserID: "u3", Date: "2026-10-18", Guesses: 1, ElapsedMs: 100}))
	// duplicate is ignored
	require.NoError(t, r.InsertDaily(ctx, DailyResult{UserID: "u1", Date: "2026-10-19", Guesses: 1, ElapsedMs: 1}))

	played, err = r.DailyPlayed(ctx, "u1", "2026-10-19")
	require.NoError(t, err)
	assert.True(t, played)

	top, err := r.Leaderboard(ctx, "2026-10-19", 0)
	require.NoError(t, err)
	assert.Equal(t, []LeaderboardRow{
		{UserID: "u2", Guesses: 3, ElapsedMs: 5000},
		{UserID: "u1", Guesses: 4, ElapsedMs: 9000},
	}, top)
}
