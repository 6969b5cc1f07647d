package core

// Move is a committed or candidate move. Captured is nil for quiet moves.
type Move struct {
	From     Square
	To       Square
	Piece    Piece
	Captured *Piece
	Promoted bool
}

// MoveRecord is one ledger line; Black stays empty until black replies
type MoveRecord struct {
	Number int    `json:"number"`
	White  string `json:"white"`
	Black  string `json:"black"`
}
