package rules

import (
	"hotseat/internal/board"
	"hotseat/internal/core"
)

// Evaluate classifies the position for the side to move
func Evaluate(b *board.Board, toMove core.Color) core.Status {
	inCheck := IsInCheck(b, toMove)
	hasMove := HasLegalMove(b, toMove)

	switch {
	case hasMove && inCheck:
		return core.StatusCheck
	case hasMove:
		return core.StatusInProgress
	case inCheck:
		return core.StatusCheckmate
	default:
		return core.StatusStalemate
	}
}

// HasLegalMove stops at the first piece of color with any legal move
func HasLegalMove(b *board.Board, color core.Color) bool {
	for _, from := range b.Squares(color) {
		if len(LegalMoves(b, from)) > 0 {
			return true
		}
	}
	return false
}
