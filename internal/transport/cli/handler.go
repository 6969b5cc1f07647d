package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"hotseat/internal/cli"
	"hotseat/internal/core"
	"hotseat/internal/game"
	"hotseat/internal/transport"
)

// Themer is implemented by views that support color themes
type Themer interface {
	SetTheme(theme cli.ColorTheme) error
}

// CLIHandler plays one local session from line input
type CLIHandler struct {
	session *game.Session
	view    transport.View
	input   transport.LineReader
}

func New(session *game.Session, view transport.View, input transport.LineReader) *CLIHandler {
	return &CLIHandler{session: session, view: view, input: input}
}

// Run reads commands until quit or end of input
func (h *CLIHandler) Run() {
	h.showPosition(nil)

	for {
		h.input.SetPrompt(h.Prompt())

		line, err := h.input.Readline()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			continue
		}

		if !h.ProcessCommand(cli.Parse(line)) {
			break
		}
	}
}

// Prompt names the side to move, e.g. "[White]> "
func (h *CLIHandler) Prompt() string {
	if h.session.Terminal() {
		return "[Game Over]> "
	}
	return fmt.Sprintf("[%s]> ", h.session.CurrentPlayer().Name())
}

// ProcessCommand handles one command; it returns false to exit
func (h *CLIHandler) ProcessCommand(cmd *cli.Command) bool {
	switch cmd.Type {
	case cli.CmdQuit:
		return false

	case cli.CmdNone:

	case cli.CmdMove:
		h.handleMove(cmd.Args)

	case cli.CmdSelect:
		if len(cmd.Args) != 1 {
			h.view.ShowMessage("Usage: select <square>")
			return true
		}
		h.handleSelect(cmd.Args[0])

	case cli.CmdMoves:
		h.handleMoves(cmd.Args)

	case cli.CmdBoard:
		h.showPosition(nil)

	case cli.CmdHistory:
		h.view.ShowHistory(h.session.Ledger())

	case cli.CmdReset:
		h.session.Reset()
		h.view.ShowMessage("Board reset.")
		h.showPosition(nil)

	case cli.CmdColor:
		themer, ok := h.view.(Themer)
		if !ok {
			h.view.ShowMessage("Color themes are not supported by this display.")
			return true
		}
		if len(cmd.Args) < 1 {
			h.view.ShowMessage("Usage: color <off|brown|green|gray>")
			return true
		}
		theme := cli.ColorTheme(strings.ToLower(cmd.Args[0]))
		if err := themer.SetTheme(theme); err != nil {
			h.view.ShowError(err)
			return true
		}
		h.view.ShowMessage(fmt.Sprintf("Color theme set to: %s", theme))
		h.showPosition(nil)

	case cli.CmdHelp:
		h.view.ShowHelp()
	}

	return true
}

func (h *CLIHandler) handleMove(args []string) {
	text := strings.Join(args, "")
	if len(text) != 4 {
		h.view.ShowMessage(fmt.Sprintf("Unknown command or move %q. Type 'help' for commands.", strings.Join(args, " ")))
		return
	}

	from, err := core.ParseSquare(text[:2])
	if err != nil {
		h.view.ShowError(err)
		return
	}
	to, err := core.ParseSquare(text[2:])
	if err != nil {
		h.view.ShowError(err)
		return
	}

	res, err := h.session.RequestMove(from, to)
	if err != nil {
		h.view.ShowError(err)
		return
	}

	h.view.ShowMessage(fmt.Sprintf("%s: %s", res.Player.Name(), res.Label))
	h.showPosition(nil)
	if res.Status.Terminal() {
		h.view.ShowMessage("Type 'reset' to play again.")
	}
}

func (h *CLIHandler) handleSelect(name string) {
	sq, err := core.ParseSquare(name)
	if err != nil {
		h.view.ShowError(err)
		return
	}

	moves, err := h.session.SelectSquare(sq.Row, sq.Col)
	if err != nil {
		h.view.ShowError(err)
		return
	}
	h.showPosition(moves)
	h.view.ShowSquares(fmt.Sprintf("Moves from %s", sq), moves)
}

func (h *CLIHandler) handleMoves(args []string) {
	if len(args) == 0 {
		all := h.session.AllLegalMoves()
		pairs := make([]string, len(all))
		for i, mv := range all {
			pairs[i] = mv.From.String() + mv.To.String()
		}
		if len(pairs) == 0 {
			h.view.ShowMessage("No legal moves.")
			return
		}
		h.view.ShowMessage(fmt.Sprintf("%d legal moves: %s", len(pairs), strings.Join(pairs, " ")))
		return
	}

	sq, err := core.ParseSquare(args[0])
	if err != nil {
		h.view.ShowError(err)
		return
	}
	moves, err := h.session.LegalMoves(sq)
	if err != nil {
		h.view.ShowError(err)
		return
	}
	h.view.ShowSquares(fmt.Sprintf("Moves from %s", sq), moves)
}

func (h *CLIHandler) showPosition(marked []core.Square) {
	h.view.DisplayBoard(h.session.Board(), marked)
	status := h.session.Status()
	h.view.ShowStatus(h.session.Summary(), status != core.StatusInProgress)
}
