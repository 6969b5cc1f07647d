package rules

import (
	"testing"

	"hotseat/internal/board"
	"hotseat/internal/core"
	"hotseat/internal/movegen"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustBoard(t *testing.T, rows ...string) *board.Board {
	t.Helper()
	b, err := board.FromRows(rows...)
	require.NoError(t, err)
	return b
}

func sq(t *testing.T, name string) core.Square {
	t.Helper()
	s, err := core.ParseSquare(name)
	require.NoError(t, err)
	return s
}

func play(t *testing.T, b *board.Board, moves ...string) core.Color {
	t.Helper()
	turn := core.ColorWhite
	for _, m := range moves {
		from, to := sq(t, m[:2]), sq(t, m[2:4])
		require.True(t, IsLegal(b, from, to), "illegal move %s", m)
		Commit(b, from, to)
		turn = turn.Opponent()
	}
	return turn
}

func TestStartingPositionHasTwentyMoves(t *testing.T) {
	b := board.Standard()

	moves := AllLegalMoves(b, core.ColorWhite)
	require.Len(t, moves, 20)

	pawns, knights := 0, 0
	for _, mv := range moves {
		switch mv.Piece.Kind {
		case core.KindPawn:
			pawns++
		case core.KindKnight:
			knights++
		}
	}
	assert.Equal(t, 16, pawns)
	assert.Equal(t, 4, knights)
	assert.Equal(t, core.StatusInProgress, Evaluate(b, core.ColorWhite))
	assert.Len(t, AllLegalMoves(b, core.ColorBlack), 20)
}

func TestFoolsMate(t *testing.T) {
	b := board.Standard()
	turn := play(t, b, "f2f3", "e7e5", "g2g4", "d8h4")

	require.Equal(t, core.ColorWhite, turn)
	assert.True(t, IsInCheck(b, core.ColorWhite))
	assert.False(t, HasLegalMove(b, core.ColorWhite))
	assert.Empty(t, AllLegalMoves(b, core.ColorWhite))
	assert.Equal(t, core.StatusCheckmate, Evaluate(b, core.ColorWhite))
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name     string
		rows     []string
		toMove   core.Color
		expected core.Status
	}{
		{
			name: "stalemate in the corner",
			rows: []string{
				"k.......",
				"........",
				".QK.....",
				"........",
				"........",
				"........",
				"........",
				"........",
			},
			toMove:   core.ColorBlack,
			expected: core.StatusStalemate,
		},
		{
			name: "protected queen mates",
			rows: []string{
				".......k",
				".......Q",
				"......K.",
				"........",
				"........",
				"........",
				"........",
				"........",
			},
			toMove:   core.ColorBlack,
			expected: core.StatusCheckmate,
		},
		{
			name: "check with escape squares",
			rows: []string{
				"k...r...",
				"........",
				"........",
				"........",
				"........",
				"........",
				"........",
				"....K...",
			},
			toMove:   core.ColorWhite,
			expected: core.StatusCheck,
		},
		{
			name: "quiet position with a mate available",
			rows: []string{
				"......k.",
				".....ppp",
				"........",
				"........",
				"........",
				"........",
				"........",
				"R.....K.",
			},
			toMove:   core.ColorWhite,
			expected: core.StatusInProgress,
		},
		{
			name: "rook delivers back rank mate",
			rows: []string{
				"R.....k.",
				".....ppp",
				"........",
				"........",
				"........",
				"........",
				"........",
				"......K.",
			},
			toMove:   core.ColorBlack,
			expected: core.StatusCheckmate,
		},
		{
			name: "capturing the checker escapes",
			rows: []string{
				"R.....k.",
				".....ppp",
				"........",
				"........",
				"........",
				"........",
				"........",
				"r.....K.",
			},
			toMove:   core.ColorBlack,
			expected: core.StatusCheck,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := mustBoard(t, tt.rows...)
			assert.Equal(t, tt.expected, Evaluate(b, tt.toMove))
		})
	}
}

func TestPinnedPieceHasNoLegalMoves(t *testing.T) {
	b := mustBoard(t,
		"k...r...",
		"........",
		"........",
		"........",
		"........",
		"........",
		"....B...",
		"....K...",
	)

	from := sq(t, "e2")
	assert.NotEmpty(t, movegen.PseudoLegalMoves(b, from))
	assert.Empty(t, LegalMoves(b, from))
}

func TestKingCannotStepIntoAttack(t *testing.T) {
	b := mustBoard(t,
		"k.......",
		"........",
		"........",
		"........",
		"........",
		"........",
		"...r....",
		"....K...",
	)

	got := LegalMoves(b, sq(t, "e1"))
	names := make([]string, len(got))
	for i, s := range got {
		names[i] = s.String()
	}
	// d1 is on the rook's file; e2 and f2 are on its rank
	assert.ElementsMatch(t, []string{"d2", "f1"}, names)
}

func TestLegalMovesPreservesGenerationOrder(t *testing.T) {
	b := board.Standard()
	play(t, b, "e2e4", "e7e5")

	from := sq(t, "d1")
	pseudo := movegen.PseudoLegalMoves(b, from)
	legal := LegalMoves(b, from)

	j := 0
	for _, s := range pseudo {
		if j < len(legal) && legal[j] == s {
			j++
		}
	}
	assert.Equal(t, len(legal), j, "legal moves are not an ordered subsequence")
}

func TestLegalMovesSubsetAndSound(t *testing.T) {
	b := board.Standard()
	turn := play(t, b, "e2e4", "d7d5", "e4d5", "d8d5", "b1c3", "d5e5", "g1e2")

	for _, color := range []core.Color{core.ColorWhite, core.ColorBlack} {
		for _, from := range b.Squares(color) {
			pseudo := movegen.PseudoLegalMoves(b, from)
			for _, to := range LegalMoves(b, from) {
				assert.Contains(t, pseudo, to)

				sim := b.Clone()
				Apply(sim, from, to)
				assert.False(t, IsInCheck(sim, color), "%s%s leaves %s in check", from, to, color)
			}
		}
	}

	assert.Equal(t, core.ColorBlack, turn)
	assert.Equal(t, core.StatusInProgress, Evaluate(b, turn))
}

func TestLegalityLeavesBoardUntouched(t *testing.T) {
	b := board.Standard()
	play(t, b, "e2e4", "e7e5", "d1h5")
	before := b.Rows()

	AllLegalMoves(b, core.ColorBlack)
	Evaluate(b, core.ColorBlack)

	assert.Equal(t, before, b.Rows())
}

func TestMissingKingPanics(t *testing.T) {
	b := mustBoard(t,
		"k.......",
		"........",
		"........",
		"........",
		"........",
		"........",
		"........",
		"R.......",
	)

	assert.Panics(t, func() { IsInCheck(b, core.ColorWhite) })
	assert.Panics(t, func() { Evaluate(b, core.ColorWhite) })
}

func TestCommitPromotesToQueen(t *testing.T) {
	b := mustBoard(t,
		"...r...k",
		"..P.....",
		"........",
		"........",
		"........",
		"........",
		".p......",
		"K.......",
	)

	mv := Commit(b, sq(t, "c7"), sq(t, "d8"))
	assert.True(t, mv.Promoted)
	require.NotNil(t, mv.Captured)
	assert.Equal(t, core.KindRook, mv.Captured.Kind)
	assert.Equal(t, core.KindPawn, mv.Piece.Kind)
	assert.Equal(t, core.Piece{Kind: core.KindQueen, Color: core.ColorWhite}, b.At(sq(t, "d8")))

	mv = Commit(b, sq(t, "b2"), sq(t, "b1"))
	assert.True(t, mv.Promoted)
	assert.Nil(t, mv.Captured)
	assert.Equal(t, core.Piece{Kind: core.KindQueen, Color: core.ColorBlack}, b.At(sq(t, "b1")))
}

func TestPerft(t *testing.T) {
	expected := []int64{1, 20, 400, 8902}
	for depth, nodes := range expected {
		assert.Equal(t, nodes, Perft(board.Standard(), core.ColorWhite, depth), "depth %d", depth)
	}
}

func TestDivideSumsToPerft(t *testing.T) {
	b := board.Standard()
	seen := map[string]int64{}
	total := Divide(b, core.ColorWhite, 2, func(move string, nodes int64) {
		seen[move] = nodes
	})

	assert.Equal(t, int64(400), total)
	assert.Len(t, seen, 20)
	assert.Equal(t, int64(20), seen["e2e4"])
}
