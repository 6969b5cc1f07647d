package core

import "fmt"

const BoardSize = 8

const files = "abcdefgh"

// Square addresses the grid. Row 0 is black's back rank, row 7 is white's.
type Square struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func Sq(row, col int) Square {
	return Square{Row: row, Col: col}
}

func (s Square) Valid() bool {
	return s.Row >= 0 && s.Row < BoardSize && s.Col >= 0 && s.Col < BoardSize
}

// Offset returns the square shifted by dr rows and dc columns; the result may be off-board
func (s Square) Offset(dr, dc int) Square {
	return Square{Row: s.Row + dr, Col: s.Col + dc}
}

// File returns the file letter, e.g. 'e'
func (s Square) File() byte {
	return files[s.Col]
}

// Rank returns the rank digit, e.g. '2'
func (s Square) Rank() byte {
	return byte('8' - s.Row)
}

func (s Square) String() string {
	if !s.Valid() {
		return fmt.Sprintf("(%d,%d)", s.Row, s.Col)
	}
	return string([]byte{s.File(), s.Rank()})
}

// ParseSquare converts algebraic names like "e2" to a square
func ParseSquare(name string) (Square, error) {
	if len(name) != 2 {
		return Square{}, fmt.Errorf("invalid square: %q", name)
	}
	f, r := name[0], name[1]
	if f >= 'A' && f <= 'H' {
		f += 'a' - 'A'
	}
	if f < 'a' || f > 'h' || r < '1' || r > '8' {
		return Square{}, fmt.Errorf("invalid square: %q", name)
	}
	return Square{Row: int('8' - r), Col: int(f - 'a')}, nil
}
