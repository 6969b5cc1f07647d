package core

// Status classifies a position for the side to move
type Status int

const (
	StatusInProgress Status = iota
	StatusCheck
	StatusCheckmate
	StatusStalemate
)

func (s Status) String() string {
	switch s {
	case StatusInProgress:
		return "in_progress"
	case StatusCheck:
		return "check"
	case StatusCheckmate:
		return "checkmate"
	case StatusStalemate:
		return "stalemate"
	default:
		return "unknown"
	}
}

// Terminal reports whether play has ended
func (s Status) Terminal() bool {
	return s == StatusCheckmate || s == StatusStalemate
}
