package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTemp(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "archive.db")
	s, err := Open(DriverSQLite, path, false)
	require.NoError(t, err)
	require.NoError(t, s.InitDB())
	return s, path
}

func TestArchiveRoundTrip(t *testing.T) {
	s, _ := openTemp(t)
	defer s.Close()

	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.RecordSession(SessionRecord{SessionID: "s1", Nickname: "brave-otter", CreatedAt: created})
	s.RecordMove(MoveRecord{SessionID: "s1", Ply: 1, Label: "e4", From: "e2", To: "e4", Color: "w", Status: "in_progress", CreatedAt: created})
	s.RecordMove(MoveRecord{SessionID: "s1", Ply: 2, Label: "e5", From: "e7", To: "e5", Color: "b", Status: "in_progress", CreatedAt: created})
	s.RecordResult("s1", "Stalemate", created.Add(time.Minute))

	require.Eventually(t, func() bool {
		sessions, err := s.QuerySessions("s1", "")
		return err == nil && len(sessions) == 1 && sessions[0].Result == "Stalemate"
	}, 2*time.Second, 10*time.Millisecond)

	sessions, err := s.QuerySessions("*", "brave-otter")
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.True(t, sessions[0].EndedAt.Valid)
	assert.True(t, created.Equal(sessions[0].CreatedAt))

	moves, err := s.QueryMoves("s1")
	require.NoError(t, err)
	require.Len(t, moves, 2)
	assert.Equal(t, "e4", moves[0].Label)
	assert.Equal(t, "b", moves[1].Color)
	assert.True(t, s.IsHealthy())
}

func TestResetClearsMoves(t *testing.T) {
	s, _ := openTemp(t)
	defer s.Close()

	now := time.Now()
	s.RecordSession(SessionRecord{SessionID: "s2", Nickname: "calm-heron", CreatedAt: now})
	s.RecordMove(MoveRecord{SessionID: "s2", Ply: 1, Label: "d4", From: "d2", To: "d4", Color: "w", Status: "in_progress", CreatedAt: now})
	s.RecordReset("s2")
	s.RecordMove(MoveRecord{SessionID: "s2", Ply: 1, Label: "c4", From: "c2", To: "c4", Color: "w", Status: "in_progress", CreatedAt: now})

	require.Eventually(t, func() bool {
		moves, err := s.QueryMoves("s2")
		return err == nil && len(moves) == 1 && moves[0].Label == "c4"
	}, 2*time.Second, 10*time.Millisecond)
	assert.True(t, s.IsHealthy())
}

func TestFailedWriteDegrades(t *testing.T) {
	s, _ := openTemp(t)
	defer s.Close()

	// no parent session row
	s.RecordMove(MoveRecord{SessionID: "missing", Ply: 1, Label: "e4", From: "e2", To: "e4", Color: "w", Status: "in_progress", CreatedAt: time.Now()})

	require.Eventually(t, func() bool { return !s.IsHealthy() }, 2*time.Second, 10*time.Millisecond)

	s.RecordSession(SessionRecord{SessionID: "late", Nickname: "x", CreatedAt: time.Now()})
	time.Sleep(50 * time.Millisecond)
	sessions, err := s.QuerySessions("late", "")
	require.NoError(t, err)
	assert.Empty(t, sessions)
}

func TestCloseDrainsQueue(t *testing.T) {
	s, path := openTemp(t)
	s.RecordSession(SessionRecord{SessionID: "s3", Nickname: "quick-fox", CreatedAt: time.Now()})
	require.NoError(t, s.Close())

	reopened, err := Open(DriverSQLite, path, false)
	require.NoError(t, err)
	defer reopened.Close()

	sessions, err := reopened.QuerySessions("", "")
	require.NoError(t, err)
	assert.Len(t, sessions, 1)
}

func TestDeleteDBRemovesFile(t *testing.T) {
	s, path := openTemp(t)
	require.NoError(t, s.DeleteDB())
	assert.NoFileExists(t, path)
}

func TestRebind(t *testing.T) {
	pg := &Store{driver: DriverPostgres}
	assert.Equal(t, "SELECT * FROM moves WHERE session_id = $1 AND ply > $2",
		pg.rebind("SELECT * FROM moves WHERE session_id = ? AND ply > ?"))

	lite := &Store{driver: DriverSQLite}
	assert.Equal(t, "a = ?", lite.rebind("a = ?"))
}

func TestUnsupportedDriver(t *testing.T) {
	_, err := Open("mysql", "x", false)
	assert.Error(t, err)
}
