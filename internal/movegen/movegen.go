// Package movegen produces pseudo-legal destinations: moves that follow each
// piece's movement pattern and board occupancy but ignore king safety.
package movegen

import (
	"hotseat/internal/board"
	"hotseat/internal/core"
)

type generator func(b *board.Board, from core.Square, p core.Piece) []core.Square

// Indexed by kind; every kind except KindNone must have an entry
var generators = [core.KindCount]generator{
	core.KindPawn:   pawnMoves,
	core.KindKnight: knightMoves,
	core.KindBishop: bishopMoves,
	core.KindRook:   rookMoves,
	core.KindQueen:  queenMoves,
	core.KindKing:   kingMoves,
}

// Direction offsets, in generation order
var (
	knightOffsets = [][2]int{{-2, -1}, {-2, 1}, {-1, -2}, {-1, 2}, {1, -2}, {1, 2}, {2, -1}, {2, 1}}
	kingOffsets   = [][2]int{{-1, -1}, {-1, 0}, {-1, 1}, {0, -1}, {0, 1}, {1, -1}, {1, 0}, {1, 1}}
	straightDirs  = [][2]int{{0, 1}, {0, -1}, {1, 0}, {-1, 0}}
	diagonalDirs  = [][2]int{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
)

// PseudoLegalMoves returns the destinations available to the piece on from.
// Empty and off-board squares yield nil.
func PseudoLegalMoves(b *board.Board, from core.Square) []core.Square {
	p, ok, err := b.OccupantAt(from)
	if err != nil || !ok {
		return nil
	}
	gen := generators[p.Kind]
	if gen == nil {
		return nil
	}
	return gen(b, from, p)
}

// Forward returns the row direction a color's pawns advance in
func Forward(c core.Color) int {
	if c == core.ColorWhite {
		return -1
	}
	return 1
}

// HomeRow returns the row a color's pawns start on
func HomeRow(c core.Color) int {
	if c == core.ColorWhite {
		return 6
	}
	return 1
}

// PromotionRow returns the far row for a color's pawns
func PromotionRow(c core.Color) int {
	if c == core.ColorWhite {
		return 0
	}
	return core.BoardSize - 1
}

func pawnMoves(b *board.Board, from core.Square, p core.Piece) []core.Square {
	var moves []core.Square
	dir := Forward(p.Color)

	one := from.Offset(dir, 0)
	if one.Valid() && b.At(one).IsZero() {
		moves = append(moves, one)

		two := from.Offset(2*dir, 0)
		if from.Row == HomeRow(p.Color) && two.Valid() && b.At(one).IsZero() && b.At(two).IsZero() {
			moves = append(moves, two)
		}
	}

	for _, dc := range [2]int{-1, 1} {
		to := from.Offset(dir, dc)
		if !to.Valid() {
			continue
		}
		if target := b.At(to); !target.IsZero() && target.Color != p.Color {
			moves = append(moves, to)
		}
	}

	return moves
}

func knightMoves(b *board.Board, from core.Square, p core.Piece) []core.Square {
	return leaper(b, from, p, knightOffsets)
}

func kingMoves(b *board.Board, from core.Square, p core.Piece) []core.Square {
	return leaper(b, from, p, kingOffsets)
}

func rookMoves(b *board.Board, from core.Square, p core.Piece) []core.Square {
	return slider(b, from, p, straightDirs)
}

func bishopMoves(b *board.Board, from core.Square, p core.Piece) []core.Square {
	return slider(b, from, p, diagonalDirs)
}

func queenMoves(b *board.Board, from core.Square, p core.Piece) []core.Square {
	return append(rookMoves(b, from, p), bishopMoves(b, from, p)...)
}

// leaper handles fixed-offset pieces
func leaper(b *board.Board, from core.Square, p core.Piece, offsets [][2]int) []core.Square {
	var moves []core.Square
	for _, off := range offsets {
		to := from.Offset(off[0], off[1])
		if !to.Valid() {
			continue
		}
		if target := b.At(to); target.IsZero() || target.Color != p.Color {
			moves = append(moves, to)
		}
	}
	return moves
}

// slider casts rays until the edge, an own piece (excluded) or an opposing piece (included)
func slider(b *board.Board, from core.Square, p core.Piece, dirs [][2]int) []core.Square {
	var moves []core.Square
	for _, d := range dirs {
		for to := from.Offset(d[0], d[1]); to.Valid(); to = to.Offset(d[0], d[1]) {
			target := b.At(to)
			if target.IsZero() {
				moves = append(moves, to)
				continue
			}
			if target.Color != p.Color {
				moves = append(moves, to)
			}
			break
		}
	}
	return moves
}
