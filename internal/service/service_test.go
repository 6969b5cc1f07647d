package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"hotseat/internal/core"
	"hotseat/internal/game"
	"hotseat/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeArchive struct {
	mu       sync.Mutex
	sessions []storage.SessionRecord
	moves    []storage.MoveRecord
	results  map[string]string
	resets   []string
	closed   bool
}

func newFakeArchive() *fakeArchive {
	return &fakeArchive{results: map[string]string{}}
}

func (f *fakeArchive) RecordSession(r storage.SessionRecord) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sessions = append(f.sessions, r)
}

func (f *fakeArchive) RecordMove(r storage.MoveRecord) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.moves = append(f.moves, r)
}

func (f *fakeArchive) RecordResult(id, result string, _ time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.results[id] = result
}

func (f *fakeArchive) RecordReset(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resets = append(f.resets, id)
}

func (f *fakeArchive) IsHealthy() bool { return true }

func (f *fakeArchive) Close() error {
	f.closed = true
	return nil
}

func sq(t *testing.T, name string) core.Square {
	t.Helper()
	s, err := core.ParseSquare(name)
	require.NoError(t, err)
	return s
}

func play(t *testing.T, s *Service, id string, moves ...string) View {
	t.Helper()
	var v View
	for _, m := range moves {
		var err error
		v, err = s.MakeMove(id, sq(t, m[:2]), sq(t, m[2:]))
		require.NoError(t, err, "move %s", m)
	}
	return v
}

func TestCreateSession(t *testing.T) {
	archive := newFakeArchive()
	s := New(archive, Options{})

	v, err := s.CreateSession()
	require.NoError(t, err)

	assert.Len(t, v.ID, 36)
	assert.NotEmpty(t, v.Nickname)
	assert.Equal(t, core.ColorWhite, v.Snapshot.Turn)
	assert.Equal(t, "White's Turn", v.Summary)
	assert.Nil(t, v.Last)
	assert.Equal(t, 1, s.Count())

	require.Len(t, archive.sessions, 1)
	assert.Equal(t, v.ID, archive.sessions[0].SessionID)
	assert.Equal(t, v.Nickname, archive.sessions[0].Nickname)
}

func TestSessionsAreIndependent(t *testing.T) {
	s := New(nil, Options{})
	a, err := s.CreateSession()
	require.NoError(t, err)
	b, err := s.CreateSession()
	require.NoError(t, err)
	require.NotEqual(t, a.ID, b.ID)

	play(t, s, a.ID, "e2e4")

	va, err := s.GetSession(a.ID)
	require.NoError(t, err)
	vb, err := s.GetSession(b.ID)
	require.NoError(t, err)

	assert.Equal(t, core.ColorBlack, va.Snapshot.Turn)
	assert.Equal(t, core.ColorWhite, vb.Snapshot.Turn)
	assert.Equal(t, "disabled", s.StorageHealth())
}

func TestMissingSession(t *testing.T) {
	s := New(nil, Options{})

	_, err := s.GetSession("nope")
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = s.MakeMove("nope", sq(t, "e2"), sq(t, "e4"))
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = s.SelectSquare("nope", sq(t, "e2"))
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = s.ResetSession("nope")
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.ErrorIs(t, s.DeleteSession("nope"), ErrSessionNotFound)
	_, err = s.Wait(context.Background(), "nope", 0)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestCapacity(t *testing.T) {
	s := New(nil, Options{MaxSessions: 2})
	_, err := s.CreateSession()
	require.NoError(t, err)
	v, err := s.CreateSession()
	require.NoError(t, err)

	_, err = s.CreateSession()
	assert.ErrorIs(t, err, ErrCapacity)

	require.NoError(t, s.DeleteSession(v.ID))
	_, err = s.CreateSession()
	assert.NoError(t, err)
}

func TestMovesAreArchived(t *testing.T) {
	archive := newFakeArchive()
	s := New(archive, Options{})
	v, err := s.CreateSession()
	require.NoError(t, err)

	final := play(t, s, v.ID, "f2f3", "e7e5", "g2g4", "d8h4")

	assert.True(t, final.Snapshot.Terminal)
	assert.Equal(t, "Checkmate! Black Wins!", final.Summary)
	require.NotNil(t, final.Winner)
	assert.Equal(t, core.ColorBlack, *final.Winner)
	require.NotNil(t, final.Last)
	assert.Equal(t, "Qh4", final.Last.Label)

	require.Len(t, archive.moves, 4)
	assert.Equal(t, 4, archive.moves[3].Ply)
	assert.Equal(t, "b", archive.moves[3].Color)
	assert.Equal(t, "d8", archive.moves[3].From)
	assert.Equal(t, "checkmate", archive.moves[3].Status)
	assert.Equal(t, "Checkmate: Black", archive.results[v.ID])

	_, err = s.MakeMove(v.ID, sq(t, "e2"), sq(t, "e3"))
	assert.ErrorIs(t, err, game.ErrGameOver)
	assert.Len(t, archive.moves, 4)
}

func TestRejectedMoveIsNotArchived(t *testing.T) {
	archive := newFakeArchive()
	s := New(archive, Options{})
	v, err := s.CreateSession()
	require.NoError(t, err)

	_, err = s.MakeMove(v.ID, sq(t, "e2"), sq(t, "e5"))
	assert.ErrorIs(t, err, game.ErrIllegalMove)
	assert.Empty(t, archive.moves)
}

func TestResetSession(t *testing.T) {
	archive := newFakeArchive()
	s := New(archive, Options{})
	v, err := s.CreateSession()
	require.NoError(t, err)

	play(t, s, v.ID, "e2e4", "e7e5")
	reset, err := s.ResetSession(v.ID)
	require.NoError(t, err)

	assert.Equal(t, v.ID, reset.ID)
	assert.Equal(t, v.Nickname, reset.Nickname)
	assert.Zero(t, reset.Snapshot.Plies)
	assert.Empty(t, reset.Ledger)
	assert.Equal(t, []string{v.ID}, archive.resets)

	// resetting a fresh game has nothing to clear
	_, err = s.ResetSession(v.ID)
	require.NoError(t, err)
	assert.Len(t, archive.resets, 1)
}

func TestSelectionAndLegalMoves(t *testing.T) {
	s := New(nil, Options{})
	v, err := s.CreateSession()
	require.NoError(t, err)

	moves, err := s.SelectSquare(v.ID, sq(t, "g1"))
	require.NoError(t, err)
	assert.Equal(t, []core.Square{sq(t, "f3"), sq(t, "h3")}, moves)

	got, err := s.GetSession(v.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Snapshot.Selected)
	assert.Equal(t, sq(t, "g1"), *got.Snapshot.Selected)

	moves, err = s.LegalMoves(v.ID, sq(t, "b8"))
	require.NoError(t, err)
	assert.Len(t, moves, 2)

	all, err := s.AllLegalMoves(v.ID)
	require.NoError(t, err)
	assert.Len(t, all, 20)
}

func TestWaitWakesOnMove(t *testing.T) {
	s := New(nil, Options{WaitTimeout: 5 * time.Second})
	v, err := s.CreateSession()
	require.NoError(t, err)

	ch, err := s.Wait(context.Background(), v.ID, 0)
	require.NoError(t, err)

	go func() {
		time.Sleep(20 * time.Millisecond)
		_, _ = s.MakeMove(v.ID, sq(t, "e2"), sq(t, "e4"))
	}()

	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatal("waiter not woken by move")
	}

	got, err := s.GetSession(v.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Snapshot.Plies)
}

func TestWaitReturnsImmediatelyWhenStale(t *testing.T) {
	s := New(nil, Options{})
	v, err := s.CreateSession()
	require.NoError(t, err)
	play(t, s, v.ID, "d2d4")

	ch, err := s.Wait(context.Background(), v.ID, 0)
	require.NoError(t, err)
	select {
	case <-ch:
	default:
		t.Fatal("expected closed channel")
	}
}

func TestWaitEndsOnDeleteAndCancel(t *testing.T) {
	s := New(nil, Options{WaitTimeout: 5 * time.Second})
	v, err := s.CreateSession()
	require.NoError(t, err)

	deleted, err := s.Wait(context.Background(), v.ID, 0)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	other, err := s.CreateSession()
	require.NoError(t, err)
	cancelled, err := s.Wait(ctx, other.ID, 0)
	require.NoError(t, err)

	require.NoError(t, s.DeleteSession(v.ID))
	cancel()

	for _, ch := range []<-chan struct{}{deleted, cancelled} {
		select {
		case <-ch:
		case <-time.After(2 * time.Second):
			t.Fatal("waiter not released")
		}
	}
	assert.Eventually(t, func() bool { return s.waiter.Pending() == 0 }, time.Second, 5*time.Millisecond)
}

func TestConcurrentMovesAreSerialized(t *testing.T) {
	s := New(nil, Options{})
	v, err := s.CreateSession()
	require.NoError(t, err)

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.MakeMove(v.ID, sq(t, "e2"), sq(t, "e4")); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	got, err := s.GetSession(v.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Snapshot.Plies)
}

func TestCloseReleasesArchive(t *testing.T) {
	archive := newFakeArchive()
	s := New(archive, Options{})
	_, err := s.CreateSession()
	require.NoError(t, err)

	require.NoError(t, s.Close())
	assert.True(t, archive.closed)
	assert.Zero(t, s.Count())
}
