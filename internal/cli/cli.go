// Package cli renders a game session on a terminal and parses REPL commands.
package cli

import (
	"fmt"
	"io"
	"strings"

	"hotseat/internal/board"
	"hotseat/internal/core"

	"github.com/fatih/color"
)

type CommandType int

const (
	CmdNone CommandType = iota
	CmdMove
	CmdSelect
	CmdMoves
	CmdHistory
	CmdBoard
	CmdReset
	CmdColor
	CmdHelp
	CmdQuit
)

type Command struct {
	Type CommandType
	Args []string
	Raw  string
}

// Parse maps one input line to a command. Anything unrecognized is taken as a move.
func Parse(input string) *Command {
	input = strings.TrimSpace(input)
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return &Command{Type: CmdNone}
	}

	args := parts[1:]
	switch strings.ToLower(parts[0]) {
	case "select", "sel":
		return &Command{Type: CmdSelect, Args: args, Raw: input}
	case "moves":
		return &Command{Type: CmdMoves, Args: args, Raw: input}
	case "history":
		return &Command{Type: CmdHistory}
	case "board":
		return &Command{Type: CmdBoard}
	case "reset", "new":
		return &Command{Type: CmdReset}
	case "color":
		return &Command{Type: CmdColor, Args: args}
	case "help", "?":
		return &Command{Type: CmdHelp}
	case "quit", "exit":
		return &Command{Type: CmdQuit}
	default:
		return &Command{Type: CmdMove, Args: parts, Raw: input}
	}
}

type ColorTheme string

const (
	ThemeOff   ColorTheme = "off"
	ThemeBrown ColorTheme = "brown"
	ThemeGreen ColorTheme = "green"
	ThemeGray  ColorTheme = "gray"
)

type themeColors struct {
	lightBg string
	darkBg  string
	white   string
	black   string
	mark    string
	reset   string
}

var themes = map[ColorTheme]themeColors{
	ThemeOff: {},
	ThemeBrown: {
		lightBg: "\033[48;5;230m", // beige
		darkBg:  "\033[48;5;94m",  // brown
		white:   "\033[97m",
		black:   "\033[30m",
		mark:    "\033[48;5;179m",
		reset:   "\033[0m",
	},
	ThemeGreen: {
		lightBg: "\033[48;5;157m",
		darkBg:  "\033[48;5;22m",
		white:   "\033[97m",
		black:   "\033[30m",
		mark:    "\033[48;5;185m",
		reset:   "\033[0m",
	},
	ThemeGray: {
		lightBg: "\033[48;5;251m",
		darkBg:  "\033[48;5;240m",
		white:   "\033[97m",
		black:   "\033[30m",
		mark:    "\033[48;5;110m",
		reset:   "\033[0m",
	},
}

// CLI is the terminal view
type CLI struct {
	output io.Writer
	theme  ColorTheme

	errorf  func(a ...any) string
	noticef func(a ...any) string
	accentf func(a ...any) string
}

func New(output io.Writer) *CLI {
	return &CLI{
		output:  output,
		theme:   ThemeOff,
		errorf:  color.New(color.FgRed).SprintFunc(),
		noticef: color.New(color.FgYellow, color.Bold).SprintFunc(),
		accentf: color.New(color.FgCyan).SprintFunc(),
	}
}

func (c *CLI) SetTheme(theme ColorTheme) error {
	if _, ok := themes[theme]; !ok {
		return fmt.Errorf("invalid theme: %s (use: off, brown, green, gray)", theme)
	}
	c.theme = theme
	return nil
}

func (c *CLI) Theme() ColorTheme {
	return c.theme
}

func (c *CLI) ShowMessage(msg string) {
	fmt.Fprintln(c.output, msg)
}

func (c *CLI) ShowError(err error) {
	c.ShowMessage(c.errorf("Error: " + err.Error()))
}

// ShowStatus prints the status line, highlighted once the game has ended or a king is in check
func (c *CLI) ShowStatus(summary string, alert bool) {
	if alert {
		c.ShowMessage(c.noticef(summary))
		return
	}
	c.ShowMessage(summary)
}

// DisplayBoard draws the board with rank 8 on top. Marked squares are
// highlighted, or drawn as '*' when empty and the theme is off.
func (c *CLI) DisplayBoard(b *board.Board, marked []core.Square) {
	theme := themes[c.theme]
	marks := make(map[core.Square]bool, len(marked))
	for _, sq := range marked {
		marks[sq] = true
	}

	var sb strings.Builder
	files := "  a b c d e f g h"
	sb.WriteString("\n" + c.accentf(files) + "\n")

	for r := 0; r < core.BoardSize; r++ {
		sb.WriteString(c.accentf(fmt.Sprintf("%d ", 8-r)))
		for f := 0; f < core.BoardSize; f++ {
			sq := core.Sq(r, f)
			p := b.At(sq)

			if c.theme == ThemeOff {
				switch {
				case !p.IsZero():
					sb.WriteString(fmt.Sprintf("%c ", p.Rune()))
				case marks[sq]:
					sb.WriteString("* ")
				default:
					sb.WriteString(". ")
				}
				continue
			}

			bg := theme.darkBg
			if (r+f)%2 == 0 {
				bg = theme.lightBg
			}
			if marks[sq] {
				bg = theme.mark
			}
			if p.IsZero() {
				sb.WriteString(fmt.Sprintf("%s  %s", bg, theme.reset))
				continue
			}
			fg := theme.black
			if p.Color == core.ColorWhite {
				fg = theme.white
			}
			sb.WriteString(fmt.Sprintf("%s%s%c %s", bg, fg, p.Rune(), theme.reset))
		}
		sb.WriteString(c.accentf(fmt.Sprintf(" %d", 8-r)) + "\n")
	}
	sb.WriteString(c.accentf(files) + "\n")

	c.ShowMessage(sb.String())
}

// ShowHistory prints the ledger one move pair per line
func (c *CLI) ShowHistory(records []core.MoveRecord) {
	if len(records) == 0 {
		c.ShowMessage("No moves yet.")
		return
	}
	for _, r := range records {
		white, black := r.White, r.Black
		if white == "" {
			white = "..."
		}
		if black == "" {
			black = "..."
		}
		c.ShowMessage(fmt.Sprintf("%d. %s | %s", r.Number, white, black))
	}
}

func (c *CLI) ShowSquares(label string, squares []core.Square) {
	if len(squares) == 0 {
		c.ShowMessage(label + ": none")
		return
	}
	names := make([]string, len(squares))
	for i, s := range squares {
		names[i] = s.String()
	}
	c.ShowMessage(label + ": " + strings.Join(names, " "))
}

func (c *CLI) ShowHelp() {
	help := `Commands:
  <from><to>       - Move a piece (e.g. e2e4, g1f3); "e2 e4" also works
  select <square>  - Select a piece and show where it can go
  moves [square]   - List legal moves for a square, or all moves for the side to play
  board            - Redraw the board
  history          - Show the move ledger
  reset            - Start over from the initial position
  color <theme>    - Set board color theme (off|brown|green|gray)
  quit/exit        - Exit the program
  help/?           - Show this help message

Pawns always promote to a queen. Castling and en passant are not part of this game.`

	c.ShowMessage(help)
}

func (c *CLI) ShowWelcome() {
	c.ShowMessage(c.accentf("Hotseat Chess"))
	c.ShowMessage("Two players, one keyboard. White moves first.")
	c.ShowMessage("Type 'help' for commands.")
	c.ShowMessage("")
}
