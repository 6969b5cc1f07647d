// Package main runs a two-player chess game on one terminal.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"hotseat/internal/cli"
	"hotseat/internal/game"
	clitransport "hotseat/internal/transport/cli"

	"github.com/chzyer/readline"
	"github.com/fatih/color"
	"golang.org/x/term"
)

func main() {
	theme := flag.String("theme", "", "Board color theme: off, brown, green, gray (default brown on a terminal)")
	history := flag.String("history", defaultHistoryFile(), "Command history file (empty disables)")
	flag.Parse()

	interactive := term.IsTerminal(int(os.Stdout.Fd()))
	if !interactive {
		color.NoColor = true
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "[White]> ",
		HistoryFile:     *history,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		AutoComplete: readline.NewPrefixCompleter(
			readline.PcItem("select"),
			readline.PcItem("moves"),
			readline.PcItem("history"),
			readline.PcItem("board"),
			readline.PcItem("reset"),
			readline.PcItem("color",
				readline.PcItem(string(cli.ThemeOff)),
				readline.PcItem(string(cli.ThemeBrown)),
				readline.PcItem(string(cli.ThemeGreen)),
				readline.PcItem(string(cli.ThemeGray)),
			),
			readline.PcItem("help"),
			readline.PcItem("quit"),
		),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start: %v\n", err)
		os.Exit(1)
	}
	defer rl.Close()

	view := cli.New(rl.Stdout())
	selected := cli.ColorTheme(*theme)
	if selected == "" {
		selected = cli.ThemeOff
		if interactive {
			selected = cli.ThemeBrown
		}
	}
	if err := view.SetTheme(selected); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	view.ShowWelcome()
	clitransport.New(game.New(), view, rl).Run()
}

func defaultHistoryFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".hotseat_history")
}
