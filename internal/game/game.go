// Package game holds the Session, the only mutable aggregate of a chess game:
// board, side to move, status and the move ledger.
package game

import (
	"errors"
	"fmt"

	"hotseat/internal/board"
	"hotseat/internal/core"
	"hotseat/internal/notation"
	"hotseat/internal/rules"
)

// Rejections. A rejected request leaves board, turn and ledger unchanged.
var (
	ErrOffBoard     = board.ErrOffBoard
	ErrEmptySquare  = errors.New("no piece on that square")
	ErrNotYourPiece = errors.New("piece belongs to the other side")
	ErrIllegalMove  = errors.New("illegal move")
	ErrGameOver     = errors.New("game is over")
)

// MoveResult describes a committed move
type MoveResult struct {
	Move   core.Move
	Label  string
	Player core.Color
	Status core.Status
}

// Snapshot is an immutable view of a session
type Snapshot struct {
	Board    *board.Board
	Turn     core.Color
	Status   core.Status
	Terminal bool
	Reason   string
	Selected *core.Square
	Plies    int
}

// Session is not safe for concurrent use; hosts serialize access
type Session struct {
	board      *board.Board
	turn       core.Color
	status     core.Status
	ledger     *notation.Ledger
	selected   *core.Square
	lastResult *MoveResult
}

// New starts a session from the standard arrangement
func New() *Session {
	s := &Session{}
	s.Reset()
	return s
}

// FromPosition starts a session from an arbitrary position with toMove to play
func FromPosition(b *board.Board, toMove core.Color) *Session {
	s := &Session{
		board:  b.Clone(),
		turn:   toMove,
		ledger: notation.NewLedger(),
	}
	s.status = rules.Evaluate(s.board, s.turn)
	return s
}

// Reset restores the initial state regardless of the current one
func (s *Session) Reset() {
	s.board = board.Standard()
	s.turn = core.ColorWhite
	s.status = core.StatusInProgress
	s.ledger = notation.NewLedger()
	s.selected = nil
	s.lastResult = nil
}

// SelectSquare records a selection for the side to move and returns the
// piece's legal destinations. Anything else clears the selection.
func (s *Session) SelectSquare(row, col int) ([]core.Square, error) {
	if s.Terminal() {
		return nil, ErrGameOver
	}

	sq := core.Sq(row, col)
	p, ok, err := s.board.OccupantAt(sq)
	if err != nil {
		return nil, err
	}
	if !ok {
		s.selected = nil
		return nil, ErrEmptySquare
	}
	if p.Color != s.turn {
		s.selected = nil
		return nil, ErrNotYourPiece
	}

	s.selected = &sq
	return rules.LegalMoves(s.board, sq), nil
}

// RequestMove validates and commits a move for the side to move
func (s *Session) RequestMove(from, to core.Square) (*MoveResult, error) {
	if s.Terminal() {
		return nil, ErrGameOver
	}
	if !from.Valid() || !to.Valid() {
		return nil, ErrOffBoard
	}

	p, ok, _ := s.board.OccupantAt(from)
	if !ok {
		return nil, ErrEmptySquare
	}
	if p.Color != s.turn {
		return nil, ErrNotYourPiece
	}
	if !rules.IsLegal(s.board, from, to) {
		return nil, fmt.Errorf("%w: %s%s", ErrIllegalMove, from, to)
	}

	mv := rules.Commit(s.board, from, to)
	label := notation.Label(mv)
	s.ledger.Record(s.turn, label)

	mover := s.turn
	s.turn = s.turn.Opponent()
	s.status = rules.Evaluate(s.board, s.turn)
	s.selected = nil

	s.lastResult = &MoveResult{
		Move:   mv,
		Label:  label,
		Player: mover,
		Status: s.status,
	}
	return s.lastResult, nil
}

// LegalMoves returns the legal destinations of the piece on sq, for either side
func (s *Session) LegalMoves(sq core.Square) ([]core.Square, error) {
	if !sq.Valid() {
		return nil, ErrOffBoard
	}
	return rules.LegalMoves(s.board, sq), nil
}

// AllLegalMoves lists every legal move of the side to move
func (s *Session) AllLegalMoves() []core.Move {
	if s.Terminal() {
		return nil
	}
	return rules.AllLegalMoves(s.board, s.turn)
}

func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		Board:    s.board.Clone(),
		Turn:     s.turn,
		Status:   s.status,
		Terminal: s.Terminal(),
		Reason:   s.TerminalReason(),
		Plies:    s.ledger.Plies(),
	}
	if s.selected != nil {
		sel := *s.selected
		snap.Selected = &sel
	}
	return snap
}

func (s *Session) CurrentPlayer() core.Color {
	return s.turn
}

func (s *Session) Status() core.Status {
	return s.status
}

func (s *Session) Terminal() bool {
	return s.status.Terminal()
}

// Winner returns the winning color after checkmate
func (s *Session) Winner() (core.Color, bool) {
	if s.status != core.StatusCheckmate {
		return 0, false
	}
	return s.turn.Opponent(), true
}

// TerminalReason is "Checkmate: <winner>", "Stalemate", or empty while play continues
func (s *Session) TerminalReason() string {
	switch s.status {
	case core.StatusCheckmate:
		return "Checkmate: " + s.turn.Opponent().Name()
	case core.StatusStalemate:
		return "Stalemate"
	default:
		return ""
	}
}

// Summary is the human-readable status line
func (s *Session) Summary() string {
	switch s.status {
	case core.StatusCheckmate:
		return fmt.Sprintf("Checkmate! %s Wins!", s.turn.Opponent().Name())
	case core.StatusStalemate:
		return "Draw (Stalemate)"
	case core.StatusCheck:
		return fmt.Sprintf("%s in Check!", s.turn.Name())
	default:
		return fmt.Sprintf("%s's Turn", s.turn.Name())
	}
}

func (s *Session) Ledger() []core.MoveRecord {
	return s.ledger.Records()
}

func (s *Session) Plies() int {
	return s.ledger.Plies()
}

// Selected returns the advisory selection, if any
func (s *Session) Selected() (core.Square, bool) {
	if s.selected == nil {
		return core.Square{}, false
	}
	return *s.selected, true
}

func (s *Session) LastResult() *MoveResult {
	return s.lastResult
}

// Board returns a copy of the current position
func (s *Session) Board() *board.Board {
	return s.board.Clone()
}
