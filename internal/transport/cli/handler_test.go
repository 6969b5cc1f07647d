package cli

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"hotseat/internal/cli"
	"hotseat/internal/core"
	"hotseat/internal/game"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptReader struct {
	lines   []string
	prompts []string
}

func (s *scriptReader) Readline() (string, error) {
	if len(s.lines) == 0 {
		return "", io.EOF
	}
	line := s.lines[0]
	s.lines = s.lines[1:]
	return line, nil
}

func (s *scriptReader) SetPrompt(p string) {
	s.prompts = append(s.prompts, p)
}

func run(t *testing.T, lines ...string) (*game.Session, *scriptReader, string) {
	t.Helper()
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })

	var buf bytes.Buffer
	session := game.New()
	input := &scriptReader{lines: lines}
	New(session, cli.New(&buf), input).Run()
	return session, input, buf.String()
}

func TestFoolsMateSession(t *testing.T) {
	session, input, out := run(t, "f2f3", "e7 e5", "g2g4", "d8h4", "history")

	assert.Equal(t, core.StatusCheckmate, session.Status())
	assert.Contains(t, out, "Black: Qh4")
	assert.Contains(t, out, "Checkmate! Black Wins!")
	assert.Contains(t, out, "2. g4 | Qh4")
	assert.Equal(t, []string{"[White]> ", "[Black]> ", "[White]> ", "[Black]> ", "[Game Over]> ", "[Game Over]> "}, input.prompts)
}

func TestRejectedMovesReportErrors(t *testing.T) {
	session, _, out := run(t, "e2e5", "e7e5", "e4e5", "z9e4", "castle")

	assert.Zero(t, session.Plies())
	assert.Contains(t, out, "Error: illegal move: e2e5")
	assert.Contains(t, out, "Error: piece belongs to the other side")
	assert.Contains(t, out, "Error: no piece on that square")
	assert.Contains(t, out, `invalid square: "z9"`)
	assert.Contains(t, out, `Unknown command or move "castle"`)
}

func TestSelectMarksDestinations(t *testing.T) {
	session, _, out := run(t, "select g1")

	sel, ok := session.Selected()
	require.True(t, ok)
	assert.Equal(t, "g1", sel.String())
	assert.Contains(t, out, "3 . . . . . * . *  3")
	assert.Contains(t, out, "Moves from g1: f3 h3")
}

func TestMovesListing(t *testing.T) {
	_, _, out := run(t, "moves", "moves b8", "moves")

	assert.Contains(t, out, "20 legal moves:")
	assert.Contains(t, out, "Moves from b8: a6 c6")
}

func TestResetAndColor(t *testing.T) {
	session, _, out := run(t, "e2e4", "reset", "color gray", "color plaid", "quit", "e7e5")

	assert.Zero(t, session.Plies())
	assert.Equal(t, core.ColorWhite, session.CurrentPlayer())
	assert.Contains(t, out, "Board reset.")
	assert.Contains(t, out, "Color theme set to: gray")
	assert.Contains(t, out, "invalid theme: plaid")
}

func TestStatusLineAfterCheck(t *testing.T) {
	_, _, out := run(t, "e2e4", "f7f6", "d1h5")

	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Equal(t, "Black in Check!", lines[len(lines)-1])
}
