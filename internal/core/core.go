package core

import "fmt"

type Color byte

const (
	ColorWhite Color = 'w'
	ColorBlack Color = 'b'
)

// Opponent returns the other side
func (c Color) Opponent() Color {
	if c == ColorWhite {
		return ColorBlack
	}
	return ColorWhite
}

func (c Color) String() string {
	switch c {
	case ColorWhite:
		return "white"
	case ColorBlack:
		return "black"
	default:
		return "unknown"
	}
}

// Name returns the capitalised color used in status lines
func (c Color) Name() string {
	switch c {
	case ColorWhite:
		return "White"
	case ColorBlack:
		return "Black"
	default:
		return "Unknown"
	}
}

// ParseColor accepts "w", "b", "white" or "black"
func ParseColor(s string) (Color, error) {
	switch s {
	case "w", "white":
		return ColorWhite, nil
	case "b", "black":
		return ColorBlack, nil
	default:
		return 0, fmt.Errorf("invalid color: %q", s)
	}
}

// Kind is the closed set of piece kinds. KindNone marks an empty square.
type Kind uint8

const (
	KindNone Kind = iota
	KindPawn
	KindKnight
	KindBishop
	KindRook
	KindQueen
	KindKing

	KindCount
)

var kindNames = [KindCount]string{
	KindNone:   "none",
	KindPawn:   "pawn",
	KindKnight: "knight",
	KindBishop: "bishop",
	KindRook:   "rook",
	KindQueen:  "queen",
	KindKing:   "king",
}

// Letters used for labels and ASCII boards; pawns have no label initial
var kindLetters = [KindCount]byte{
	KindNone:   '.',
	KindPawn:   'P',
	KindKnight: 'N',
	KindBishop: 'B',
	KindRook:   'R',
	KindQueen:  'Q',
	KindKing:   'K',
}

func (k Kind) String() string {
	if k >= KindCount {
		return "unknown"
	}
	return kindNames[k]
}

// Letter returns the uppercase initial of the kind
func (k Kind) Letter() byte {
	if k >= KindCount {
		return '?'
	}
	return kindLetters[k]
}

// Piece is a board occupant. The zero value is an empty square.
type Piece struct {
	Kind  Kind
	Color Color
}

func (p Piece) IsZero() bool {
	return p.Kind == KindNone
}

// Rune renders white pieces uppercase and black pieces lowercase
func (p Piece) Rune() rune {
	if p.IsZero() {
		return '.'
	}
	r := rune(p.Kind.Letter())
	if p.Color == ColorBlack {
		r += 'a' - 'A'
	}
	return r
}

func (p Piece) String() string {
	if p.IsZero() {
		return "empty"
	}
	return p.Color.String() + " " + p.Kind.String()
}
