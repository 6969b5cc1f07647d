// Package notation labels committed moves and keeps the move ledger.
package notation

import (
	"strings"

	"hotseat/internal/core"
)

// Label renders a simplified algebraic label: kind initial (none for pawns),
// "x" on captures with the origin file for pawn captures, then the
// destination. No disambiguation, check suffix or promotion marker.
func Label(mv core.Move) string {
	var sb strings.Builder

	if mv.Piece.Kind != core.KindPawn {
		sb.WriteByte(mv.Piece.Kind.Letter())
	}
	if mv.Captured != nil {
		if mv.Piece.Kind == core.KindPawn {
			sb.WriteByte(mv.From.File())
		}
		sb.WriteByte('x')
	}
	sb.WriteString(mv.To.String())

	return sb.String()
}

// Ledger is the ordered record of move pairs. White opens a record, black
// closes it and advances the move number.
type Ledger struct {
	records []core.MoveRecord
	number  int
}

func NewLedger() *Ledger {
	return &Ledger{number: 1}
}

// Record appends label for the side that just moved
func (l *Ledger) Record(color core.Color, label string) {
	if color == core.ColorWhite {
		l.records = append(l.records, core.MoveRecord{Number: l.number, White: label})
		return
	}
	if len(l.records) == 0 {
		l.records = append(l.records, core.MoveRecord{Number: l.number})
	}
	l.records[len(l.records)-1].Black = label
	l.number++
}

// Records returns a copy of the ledger
func (l *Ledger) Records() []core.MoveRecord {
	out := make([]core.MoveRecord, len(l.records))
	copy(out, l.records)
	return out
}

// Plies counts recorded labels
func (l *Ledger) Plies() int {
	n := 0
	for _, r := range l.records {
		if r.White != "" {
			n++
		}
		if r.Black != "" {
			n++
		}
	}
	return n
}

// Number is the move number the next white move will open
func (l *Ledger) Number() int {
	return l.number
}
