package cli

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"hotseat/internal/board"
	"hotseat/internal/core"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPlainCLI(t *testing.T) (*CLI, *bytes.Buffer) {
	t.Helper()
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })

	var buf bytes.Buffer
	return New(&buf), &buf
}

func TestParse(t *testing.T) {
	tests := []struct {
		input    string
		expected CommandType
		args     []string
	}{
		{"", CmdNone, nil},
		{"   ", CmdNone, nil},
		{"e2e4", CmdMove, []string{"e2e4"}},
		{"e2 e4", CmdMove, []string{"e2", "e4"}},
		{"select e2", CmdSelect, []string{"e2"}},
		{"SEL b1", CmdSelect, []string{"b1"}},
		{"moves", CmdMoves, []string{}},
		{"moves g1", CmdMoves, []string{"g1"}},
		{"history", CmdHistory, nil},
		{"board", CmdBoard, nil},
		{"reset", CmdReset, nil},
		{"color green", CmdColor, []string{"green"}},
		{"?", CmdHelp, nil},
		{"exit", CmdQuit, nil},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			cmd := Parse(tt.input)
			assert.Equal(t, tt.expected, cmd.Type)
			if tt.args != nil {
				assert.Equal(t, tt.args, cmd.Args)
			}
		})
	}
}

func TestSetTheme(t *testing.T) {
	c, _ := newPlainCLI(t)
	require.NoError(t, c.SetTheme(ThemeGreen))
	assert.Equal(t, ThemeGreen, c.Theme())
	assert.Error(t, c.SetTheme("purple"))
	assert.Equal(t, ThemeGreen, c.Theme())
}

func TestDisplayBoardPlain(t *testing.T) {
	c, buf := newPlainCLI(t)

	e3, _ := core.ParseSquare("e3")
	e4, _ := core.ParseSquare("e4")
	c.DisplayBoard(board.Standard(), []core.Square{e3, e4})

	out := buf.String()
	assert.Contains(t, out, "8 r n b q k b n r  8")
	assert.Contains(t, out, "4 . . . . * . . .  4")
	assert.Contains(t, out, "3 . . . . * . . .  3")
	assert.Contains(t, out, "1 R N B Q K B N R  1")
}

func TestDisplayBoardThemed(t *testing.T) {
	c, buf := newPlainCLI(t)
	require.NoError(t, c.SetTheme(ThemeBrown))
	c.DisplayBoard(board.Standard(), nil)

	out := buf.String()
	assert.Contains(t, out, "\033[48;5;230m")
	assert.Contains(t, out, "\033[0m")
}

func TestShowHistory(t *testing.T) {
	c, buf := newPlainCLI(t)
	c.ShowHistory(nil)
	assert.Contains(t, buf.String(), "No moves yet.")

	buf.Reset()
	c.ShowHistory([]core.MoveRecord{
		{Number: 1, White: "e4", Black: "e5"},
		{Number: 2, White: "Nf3"},
	})
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, []string{"1. e4 | e5", "2. Nf3 | ..."}, lines)
}

func TestShowErrorAndSquares(t *testing.T) {
	c, buf := newPlainCLI(t)
	c.ShowError(errors.New("boom"))
	c.ShowSquares("Moves", nil)

	assert.Equal(t, "Error: boom\nMoves: none\n", buf.String())
}
