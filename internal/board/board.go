package board

import (
	"errors"
	"fmt"
	"strings"

	"hotseat/internal/core"
)

// ErrOffBoard is returned for coordinates outside the 8x8 grid
var ErrOffBoard = errors.New("square is off the board")

var backRank = [core.BoardSize]core.Kind{
	core.KindRook, core.KindKnight, core.KindBishop, core.KindQueen,
	core.KindKing, core.KindBishop, core.KindKnight, core.KindRook,
}

// Board is an 8x8 grid of optional pieces. It is a value array, so copying
// a Board copies the whole position.
type Board struct {
	squares [core.BoardSize][core.BoardSize]core.Piece
}

// Empty returns a board with no pieces
func Empty() *Board {
	return &Board{}
}

// Standard returns the initial arrangement
func Standard() *Board {
	b := &Board{}
	for col := 0; col < core.BoardSize; col++ {
		b.squares[0][col] = core.Piece{Kind: backRank[col], Color: core.ColorBlack}
		b.squares[1][col] = core.Piece{Kind: core.KindPawn, Color: core.ColorBlack}
		b.squares[6][col] = core.Piece{Kind: core.KindPawn, Color: core.ColorWhite}
		b.squares[7][col] = core.Piece{Kind: backRank[col], Color: core.ColorWhite}
	}
	return b
}

// FromRows builds a board from 8 strings of 8 runes, row 0 first.
// Uppercase is white, lowercase is black, '.' is empty.
func FromRows(rows ...string) (*Board, error) {
	if len(rows) != core.BoardSize {
		return nil, fmt.Errorf("expected %d rows, got %d", core.BoardSize, len(rows))
	}

	b := &Board{}
	for r, line := range rows {
		if len(line) != core.BoardSize {
			return nil, fmt.Errorf("row %d has %d squares", r, len(line))
		}
		for c := 0; c < core.BoardSize; c++ {
			ch := line[c]
			if ch == '.' {
				continue
			}
			p, ok := pieceFromByte(ch)
			if !ok {
				return nil, fmt.Errorf("row %d: unknown piece %q", r, ch)
			}
			b.squares[r][c] = p
		}
	}
	return b, nil
}

func pieceFromByte(ch byte) (core.Piece, bool) {
	color := core.ColorWhite
	if ch >= 'a' && ch <= 'z' {
		color = core.ColorBlack
		ch -= 'a' - 'A'
	}
	for k := core.KindPawn; k < core.KindCount; k++ {
		if k.Letter() == ch {
			return core.Piece{Kind: k, Color: color}, true
		}
	}
	return core.Piece{}, false
}

// OccupantAt returns the piece on sq and whether the square is occupied
func (b *Board) OccupantAt(sq core.Square) (core.Piece, bool, error) {
	if !sq.Valid() {
		return core.Piece{}, false, ErrOffBoard
	}
	p := b.squares[sq.Row][sq.Col]
	return p, !p.IsZero(), nil
}

// At is the unchecked lookup used by generators that already bound-check
func (b *Board) At(sq core.Square) core.Piece {
	return b.squares[sq.Row][sq.Col]
}

func (b *Board) Place(sq core.Square, p core.Piece) error {
	if !sq.Valid() {
		return ErrOffBoard
	}
	b.squares[sq.Row][sq.Col] = p
	return nil
}

func (b *Board) Clear(sq core.Square) error {
	return b.Place(sq, core.Piece{})
}

// Clone returns an independent copy for speculative moves
func (b *Board) Clone() *Board {
	c := *b
	return &c
}

// FindKing returns the square of color's king
func (b *Board) FindKing(color core.Color) (core.Square, bool) {
	for r := 0; r < core.BoardSize; r++ {
		for c := 0; c < core.BoardSize; c++ {
			p := b.squares[r][c]
			if p.Kind == core.KindKing && p.Color == color {
				return core.Sq(r, c), true
			}
		}
	}
	return core.Square{}, false
}

// Squares returns the squares holding color's pieces in row-major order
func (b *Board) Squares(color core.Color) []core.Square {
	var out []core.Square
	for r := 0; r < core.BoardSize; r++ {
		for c := 0; c < core.BoardSize; c++ {
			p := b.squares[r][c]
			if !p.IsZero() && p.Color == color {
				out = append(out, core.Sq(r, c))
			}
		}
	}
	return out
}

// Rows renders each row as 8 runes, row 0 first
func (b *Board) Rows() []string {
	rows := make([]string, core.BoardSize)
	for r := 0; r < core.BoardSize; r++ {
		var sb strings.Builder
		for c := 0; c < core.BoardSize; c++ {
			sb.WriteRune(b.squares[r][c].Rune())
		}
		rows[r] = sb.String()
	}
	return rows
}

// ToASCII creates an ASCII representation of the board
func (b *Board) ToASCII() string {
	var sb strings.Builder
	sb.WriteString("  a b c d e f g h\n")

	for r := 0; r < core.BoardSize; r++ {
		sb.WriteString(fmt.Sprintf("%d ", 8-r))
		for c := 0; c < core.BoardSize; c++ {
			sb.WriteString(fmt.Sprintf("%c ", b.squares[r][c].Rune()))
		}
		sb.WriteString(fmt.Sprintf(" %d\n", 8-r))
	}
	sb.WriteString("  a b c d e f g h")

	return sb.String()
}

func (b *Board) String() string {
	return b.ToASCII()
}
