// Package main counts move-generation leaf nodes from the starting position.
package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"time"

	"hotseat/internal/board"
	"hotseat/internal/core"
	"hotseat/internal/rules"

	"github.com/pkg/profile"
	"github.com/schollz/progressbar/v3"
)

type divideLine struct {
	move  string
	nodes int64
}

func main() {
	depth := flag.Int("depth", 4, "Search depth in plies")
	divide := flag.Bool("divide", false, "Print the node count below each root move")
	profileDir := flag.String("profile", "", "Write a CPU profile into this directory")
	flag.Parse()

	if *depth < 1 {
		fmt.Fprintln(os.Stderr, "depth must be at least 1")
		os.Exit(2)
	}
	if *profileDir != "" {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(*profileDir)).Stop()
	}

	b := board.Standard()
	roots := len(rules.AllLegalMoves(b, core.ColorWhite))
	bar := progressbar.Default(int64(roots), fmt.Sprint("depth ", *depth))

	var lines []divideLine
	start := time.Now()
	total := rules.Divide(b, core.ColorWhite, *depth, func(move string, nodes int64) {
		lines = append(lines, divideLine{move, nodes})
		bar.Add(1)
	})
	elapsed := time.Since(start)
	bar.Finish()
	fmt.Println()

	if *divide {
		sort.Slice(lines, func(i, j int) bool { return lines[i].move < lines[j].move })
		for _, l := range lines {
			fmt.Printf("%s: %d\n", l.move, l.nodes)
		}
		fmt.Println()
	}

	fmt.Printf("Nodes: %d\n", total)
	fmt.Printf("Time:  %s", elapsed.Round(time.Millisecond))
	if secs := elapsed.Seconds(); secs > 0 {
		fmt.Printf(" (%.0f nodes/s)", float64(total)/secs)
	}
	fmt.Println()
}
