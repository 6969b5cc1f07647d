package rules

import (
	"hotseat/internal/board"
	"hotseat/internal/core"
)

// Perft counts leaf positions reachable in depth plies. Promotions are
// queen-only, so counts differ from standard tables once promotions appear.
func Perft(b *board.Board, toMove core.Color, depth int) int64 {
	if depth <= 0 {
		return 1
	}

	var nodes int64
	for _, mv := range AllLegalMoves(b, toMove) {
		if depth == 1 {
			nodes++
			continue
		}
		next := b.Clone()
		Commit(next, mv.From, mv.To)
		nodes += Perft(next, toMove.Opponent(), depth-1)
	}
	return nodes
}

// Divide reports the perft count below each root move, keyed "e2e4"
func Divide(b *board.Board, toMove core.Color, depth int, each func(move string, nodes int64)) int64 {
	var total int64
	for _, mv := range AllLegalMoves(b, toMove) {
		next := b.Clone()
		Commit(next, mv.From, mv.To)
		n := Perft(next, toMove.Opponent(), depth-1)
		total += n
		if each != nil {
			each(mv.From.String()+mv.To.String(), n)
		}
	}
	return total
}
