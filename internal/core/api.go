package core

// Request types

type SelectRequest struct {
	Square string `json:"square" validate:"required,square"`
}

type MoveRequest struct {
	From string `json:"from" validate:"required,square"`
	To   string `json:"to" validate:"required,square"`
}

type ThemeRequest struct {
	Theme string `json:"theme" validate:"required,oneof=light dark"`
}

// Response types

type SessionResponse struct {
	SessionID string       `json:"sessionId"`
	Nickname  string       `json:"nickname"`
	Turn      string       `json:"turn"`   // "white" or "black"
	Status    string       `json:"status"` // "in_progress", "check", "checkmate", "stalemate"
	Summary   string       `json:"summary"`
	Terminal  bool         `json:"terminal"`
	Reason    string       `json:"reason,omitempty"`
	Winner    string       `json:"winner,omitempty"`
	Selected  string       `json:"selected,omitempty"`
	Plies     int          `json:"plies"`
	Board     []string     `json:"board"` // 8 rows, row 0 is rank 8
	Ledger    []MoveRecord `json:"ledger"`
	LastMove  *MoveInfo    `json:"lastMove,omitempty"`
}

type MoveInfo struct {
	Label    string `json:"label"`
	From     string `json:"from"`
	To       string `json:"to"`
	Color    string `json:"color"`
	Captured bool   `json:"captured,omitempty"`
	Promoted bool   `json:"promoted,omitempty"`
}

type SelectResponse struct {
	Square string   `json:"square"`
	Moves  []string `json:"moves"`
}

type LegalMovesResponse struct {
	Square string   `json:"square,omitempty"`
	Moves  []string `json:"moves"` // destinations for one square, from-to pairs otherwise
}

type BoardResponse struct {
	Board string `json:"board"` // ASCII representation
}

type ThemeResponse struct {
	ClientID string `json:"clientId"`
	Theme    string `json:"theme"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Details string `json:"details,omitempty"`
}
