// Package processor turns transport-neutral commands into service calls and
// shapes the wire responses.
package processor

import (
	"context"
	"errors"
	"strings"

	"hotseat/internal/core"
	"hotseat/internal/game"
	"hotseat/internal/obslog"
	"hotseat/internal/prefs"
	"hotseat/internal/service"

	"go.uber.org/zap"
)

type Processor struct {
	svc   *service.Service
	prefs prefs.Store
}

func New(svc *service.Service, store prefs.Store) *Processor {
	return &Processor{svc: svc, prefs: store}
}

func (p *Processor) Execute(ctx context.Context, cmd Command) ProcessorResponse {
	switch cmd.Type {
	case CmdCreateSession:
		return p.handleCreateSession()
	case CmdGetSession:
		return p.handleGetSession(cmd)
	case CmdDeleteSession:
		return p.handleDeleteSession(cmd)
	case CmdSelectSquare:
		return p.handleSelectSquare(cmd)
	case CmdLegalMoves:
		return p.handleLegalMoves(cmd)
	case CmdMakeMove:
		return p.handleMakeMove(cmd)
	case CmdResetSession:
		return p.handleResetSession(cmd)
	case CmdGetBoard:
		return p.handleGetBoard(cmd)
	case CmdGetTheme:
		return p.handleGetTheme(ctx, cmd)
	case CmdSetTheme:
		return p.handleSetTheme(ctx, cmd)
	case CmdToggleTheme:
		return p.handleToggleTheme(ctx, cmd)
	default:
		return p.errorResponse("unknown command", core.ErrInvalidRequest)
	}
}

func (p *Processor) handleCreateSession() ProcessorResponse {
	v, err := p.svc.CreateSession()
	if err != nil {
		return p.failure(err)
	}
	return ProcessorResponse{Success: true, Data: BuildSessionResponse(v)}
}

func (p *Processor) handleGetSession(cmd Command) ProcessorResponse {
	v, err := p.svc.GetSession(cmd.SessionID)
	if err != nil {
		return p.failure(err)
	}
	return ProcessorResponse{Success: true, Data: BuildSessionResponse(v)}
}

func (p *Processor) handleDeleteSession(cmd Command) ProcessorResponse {
	if err := p.svc.DeleteSession(cmd.SessionID); err != nil {
		return p.failure(err)
	}
	return ProcessorResponse{Success: true}
}

func (p *Processor) handleSelectSquare(cmd Command) ProcessorResponse {
	args, ok := cmd.Args.(core.SelectRequest)
	if !ok {
		return p.errorResponse("invalid arguments", core.ErrInvalidRequest)
	}
	sq, err := core.ParseSquare(args.Square)
	if err != nil {
		return p.errorResponse(err.Error(), core.ErrInvalidRequest)
	}

	moves, err := p.svc.SelectSquare(cmd.SessionID, sq)
	if err != nil {
		return p.failure(err)
	}
	return ProcessorResponse{
		Success: true,
		Data:    core.SelectResponse{Square: sq.String(), Moves: squareNames(moves)},
	}
}

func (p *Processor) handleLegalMoves(cmd Command) ProcessorResponse {
	square, _ := cmd.Args.(string)

	if square == "" {
		all, err := p.svc.AllLegalMoves(cmd.SessionID)
		if err != nil {
			return p.failure(err)
		}
		pairs := make([]string, len(all))
		for i, mv := range all {
			pairs[i] = mv.From.String() + mv.To.String()
		}
		return ProcessorResponse{Success: true, Data: core.LegalMovesResponse{Moves: pairs}}
	}

	sq, err := core.ParseSquare(square)
	if err != nil {
		return p.errorResponse(err.Error(), core.ErrInvalidRequest)
	}
	moves, err := p.svc.LegalMoves(cmd.SessionID, sq)
	if err != nil {
		return p.failure(err)
	}
	return ProcessorResponse{
		Success: true,
		Data:    core.LegalMovesResponse{Square: sq.String(), Moves: squareNames(moves)},
	}
}

func (p *Processor) handleMakeMove(cmd Command) ProcessorResponse {
	args, ok := cmd.Args.(core.MoveRequest)
	if !ok {
		return p.errorResponse("invalid arguments", core.ErrInvalidRequest)
	}
	from, err := core.ParseSquare(args.From)
	if err != nil {
		return p.errorResponse(err.Error(), core.ErrInvalidRequest)
	}
	to, err := core.ParseSquare(args.To)
	if err != nil {
		return p.errorResponse(err.Error(), core.ErrInvalidRequest)
	}

	v, err := p.svc.MakeMove(cmd.SessionID, from, to)
	if err != nil {
		return p.failure(err)
	}
	return ProcessorResponse{Success: true, Data: BuildSessionResponse(v)}
}

func (p *Processor) handleResetSession(cmd Command) ProcessorResponse {
	v, err := p.svc.ResetSession(cmd.SessionID)
	if err != nil {
		return p.failure(err)
	}
	return ProcessorResponse{Success: true, Data: BuildSessionResponse(v)}
}

func (p *Processor) handleGetBoard(cmd Command) ProcessorResponse {
	v, err := p.svc.GetSession(cmd.SessionID)
	if err != nil {
		return p.failure(err)
	}
	return ProcessorResponse{
		Success: true,
		Data:    core.BoardResponse{Board: v.Snapshot.Board.ToASCII()},
	}
}

func (p *Processor) handleGetTheme(ctx context.Context, cmd Command) ProcessorResponse {
	if strings.TrimSpace(cmd.ClientID) == "" {
		return p.errorResponse("client id required", core.ErrInvalidRequest)
	}
	theme, err := p.prefs.Theme(ctx, cmd.ClientID)
	if err != nil {
		return p.failure(err)
	}
	return ProcessorResponse{
		Success: true,
		Data:    core.ThemeResponse{ClientID: cmd.ClientID, Theme: string(theme)},
	}
}

func (p *Processor) handleSetTheme(ctx context.Context, cmd Command) ProcessorResponse {
	args, ok := cmd.Args.(core.ThemeRequest)
	if !ok {
		return p.errorResponse("invalid arguments", core.ErrInvalidRequest)
	}
	if strings.TrimSpace(cmd.ClientID) == "" {
		return p.errorResponse("client id required", core.ErrInvalidRequest)
	}
	theme, err := prefs.ParseTheme(args.Theme)
	if err != nil {
		return p.failure(err)
	}
	if err := p.prefs.SetTheme(ctx, cmd.ClientID, theme); err != nil {
		return p.failure(err)
	}
	return ProcessorResponse{
		Success: true,
		Data:    core.ThemeResponse{ClientID: cmd.ClientID, Theme: string(theme)},
	}
}

func (p *Processor) handleToggleTheme(ctx context.Context, cmd Command) ProcessorResponse {
	if strings.TrimSpace(cmd.ClientID) == "" {
		return p.errorResponse("client id required", core.ErrInvalidRequest)
	}
	theme, err := prefs.Toggle(ctx, p.prefs, cmd.ClientID)
	if err != nil {
		return p.failure(err)
	}
	return ProcessorResponse{
		Success: true,
		Data:    core.ThemeResponse{ClientID: cmd.ClientID, Theme: string(theme)},
	}
}

// BuildSessionResponse shapes a service view for the wire
func BuildSessionResponse(v service.View) core.SessionResponse {
	snap := v.Snapshot
	resp := core.SessionResponse{
		SessionID: v.ID,
		Nickname:  v.Nickname,
		Turn:      snap.Turn.String(),
		Status:    snap.Status.String(),
		Summary:   v.Summary,
		Terminal:  snap.Terminal,
		Reason:    snap.Reason,
		Plies:     snap.Plies,
		Board:     snap.Board.Rows(),
		Ledger:    v.Ledger,
	}
	if resp.Ledger == nil {
		resp.Ledger = []core.MoveRecord{}
	}
	if v.Winner != nil {
		resp.Winner = v.Winner.String()
	}
	if snap.Selected != nil {
		resp.Selected = snap.Selected.String()
	}
	if v.Last != nil {
		resp.LastMove = &core.MoveInfo{
			Label:    v.Last.Label,
			From:     v.Last.Move.From.String(),
			To:       v.Last.Move.To.String(),
			Color:    v.Last.Player.String(),
			Captured: v.Last.Move.Captured != nil,
			Promoted: v.Last.Move.Promoted,
		}
	}
	return resp
}

func squareNames(squares []core.Square) []string {
	out := make([]string, len(squares))
	for i, s := range squares {
		out[i] = s.String()
	}
	return out
}

// failure maps domain errors to response codes
func (p *Processor) failure(err error) ProcessorResponse {
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		return p.errorResponse("session not found", core.ErrGameNotFound)
	case errors.Is(err, service.ErrCapacity):
		return p.errorResponse("server at capacity, try again later", core.ErrResourceLimit)
	case errors.Is(err, game.ErrOffBoard):
		return p.errorResponse(err.Error(), core.ErrOffBoard)
	case errors.Is(err, game.ErrEmptySquare):
		return p.errorResponse(err.Error(), core.ErrEmptySquare)
	case errors.Is(err, game.ErrNotYourPiece):
		return p.errorResponse(err.Error(), core.ErrNotYourPiece)
	case errors.Is(err, game.ErrIllegalMove):
		return p.errorResponse(err.Error(), core.ErrInvalidMove)
	case errors.Is(err, game.ErrGameOver):
		return p.errorResponse(err.Error(), core.ErrGameOver)
	case errors.Is(err, prefs.ErrInvalidTheme):
		return p.errorResponse(err.Error(), core.ErrInvalidRequest)
	default:
		obslog.L().Error("command failed", zap.Error(err))
		return p.errorResponse("internal error", core.ErrInternalError)
	}
}

func (p *Processor) errorResponse(message, code string) ProcessorResponse {
	return ProcessorResponse{
		Success: false,
		Error: &core.ErrorResponse{
			Error: message,
			Code:  code,
		},
	}
}
