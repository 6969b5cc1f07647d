package rules

import (
	"fmt"

	"hotseat/internal/board"
	"hotseat/internal/core"
	"hotseat/internal/movegen"
)

// LegalMoves filters the pseudo-legal destinations of the piece on from,
// keeping generation order. Each candidate is played on a private clone.
func LegalMoves(b *board.Board, from core.Square) []core.Square {
	p, ok, err := b.OccupantAt(from)
	if err != nil || !ok {
		return nil
	}

	var legal []core.Square
	for _, to := range movegen.PseudoLegalMoves(b, from) {
		sim := b.Clone()
		Apply(sim, from, to)
		if !IsInCheck(sim, p.Color) {
			legal = append(legal, to)
		}
	}
	return legal
}

// IsLegal reports whether to is among the legal destinations of from
func IsLegal(b *board.Board, from, to core.Square) bool {
	for _, sq := range LegalMoves(b, from) {
		if sq == to {
			return true
		}
	}
	return false
}

// IsInCheck reports whether color's king is attacked. Panics when the king is
// missing, which only happens if a position was built incorrectly.
func IsInCheck(b *board.Board, color core.Color) bool {
	king, ok := b.FindKing(color)
	if !ok {
		panic(fmt.Sprintf("rules: no %s king on the board", color))
	}
	return Attacked(b, king, color.Opponent())
}

// Attacked reports whether any piece of color by has target among its
// pseudo-legal destinations
func Attacked(b *board.Board, target core.Square, by core.Color) bool {
	for _, from := range b.Squares(by) {
		for _, to := range movegen.PseudoLegalMoves(b, from) {
			if to == target {
				return true
			}
		}
	}
	return false
}

// Apply moves the piece on from to to without validation or promotion and
// returns what was captured. Used for simulation on clones.
func Apply(b *board.Board, from, to core.Square) core.Piece {
	moving := b.At(from)
	captured := b.At(to)
	_ = b.Place(to, moving)
	_ = b.Clear(from)
	return captured
}

// Commit plays a legal move on b, promoting pawns that reach the far row to
// queens, and describes what happened
func Commit(b *board.Board, from, to core.Square) core.Move {
	moving := b.At(from)
	captured := Apply(b, from, to)

	mv := core.Move{From: from, To: to, Piece: moving}
	if !captured.IsZero() {
		mv.Captured = &captured
	}
	if moving.Kind == core.KindPawn && to.Row == movegen.PromotionRow(moving.Color) {
		_ = b.Place(to, core.Piece{Kind: core.KindQueen, Color: moving.Color})
		mv.Promoted = true
	}
	return mv
}

// AllLegalMoves lists every legal move for color, ordered by origin square
// (row-major) then generation order
func AllLegalMoves(b *board.Board, color core.Color) []core.Move {
	var moves []core.Move
	for _, from := range b.Squares(color) {
		p := b.At(from)
		for _, to := range LegalMoves(b, from) {
			mv := core.Move{From: from, To: to, Piece: p}
			if target := b.At(to); !target.IsZero() {
				mv.Captured = &target
			}
			if p.Kind == core.KindPawn && to.Row == movegen.PromotionRow(color) {
				mv.Promoted = true
			}
			moves = append(moves, mv)
		}
	}
	return moves
}
