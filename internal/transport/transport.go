// Package transport holds the contracts shared by the front ends that drive a session.
package transport

import (
	"hotseat/internal/board"
	"hotseat/internal/core"
)

// LineReader yields one line of user input per call and io.EOF at the end.
// *readline.Instance satisfies it.
type LineReader interface {
	Readline() (string, error)
	SetPrompt(prompt string)
}

// View abstracts display/output operations
type View interface {
	DisplayBoard(b *board.Board, marked []core.Square)
	ShowMessage(msg string)
	ShowError(err error)
	ShowStatus(summary string, alert bool)
	ShowHistory(records []core.MoveRecord)
	ShowSquares(label string, squares []core.Square)
	ShowHelp()
}
