package processor

import (
	"hotseat/internal/core"
)

type CommandType int

const (
	CmdCreateSession CommandType = iota
	CmdGetSession
	CmdDeleteSession
	CmdSelectSquare
	CmdLegalMoves
	CmdMakeMove
	CmdResetSession
	CmdGetBoard
	CmdGetTheme
	CmdSetTheme
	CmdToggleTheme
)

// Command is a unified structure for all processor operations
type Command struct {
	Type      CommandType
	SessionID string
	ClientID  string // theme commands only
	Args      any
}

// ProcessorResponse wraps the response with metadata
type ProcessorResponse struct {
	Success bool                `json:"success"`
	Data    any                 `json:"data,omitempty"`
	Error   *core.ErrorResponse `json:"error,omitempty"`
}

func NewCreateSessionCommand() Command {
	return Command{Type: CmdCreateSession}
}

func NewGetSessionCommand(sessionID string) Command {
	return Command{Type: CmdGetSession, SessionID: sessionID}
}

func NewDeleteSessionCommand(sessionID string) Command {
	return Command{Type: CmdDeleteSession, SessionID: sessionID}
}

func NewSelectSquareCommand(sessionID string, req core.SelectRequest) Command {
	return Command{Type: CmdSelectSquare, SessionID: sessionID, Args: req}
}

// NewLegalMovesCommand lists moves of one square, or of the side to move when square is empty
func NewLegalMovesCommand(sessionID, square string) Command {
	return Command{Type: CmdLegalMoves, SessionID: sessionID, Args: square}
}

func NewMakeMoveCommand(sessionID string, req core.MoveRequest) Command {
	return Command{Type: CmdMakeMove, SessionID: sessionID, Args: req}
}

func NewResetSessionCommand(sessionID string) Command {
	return Command{Type: CmdResetSession, SessionID: sessionID}
}

func NewGetBoardCommand(sessionID string) Command {
	return Command{Type: CmdGetBoard, SessionID: sessionID}
}

func NewGetThemeCommand(clientID string) Command {
	return Command{Type: CmdGetTheme, ClientID: clientID}
}

func NewSetThemeCommand(clientID string, req core.ThemeRequest) Command {
	return Command{Type: CmdSetTheme, ClientID: clientID, Args: req}
}

func NewToggleThemeCommand(clientID string) Command {
	return Command{Type: CmdToggleTheme, ClientID: clientID}
}
