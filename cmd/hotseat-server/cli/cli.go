// Package cli implements the "db" maintenance subcommands of hotseat-server.
package cli

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"hotseat/internal/config"
	"hotseat/internal/core"
	"hotseat/internal/storage"

	"golang.org/x/term"
)

// Run is the entry point for the db mini-app
func Run(args []string) error {
	return run(args, os.Stdin, os.Stdout)
}

func run(args []string, in io.Reader, out io.Writer) error {
	if len(args) == 0 {
		return fmt.Errorf("subcommand required: init, delete, query")
	}

	switch args[0] {
	case "init":
		return runInit(args[1:], out)
	case "delete":
		return runDelete(args[1:], in, out)
	case "query":
		return runQuery(args[1:], out)
	default:
		return fmt.Errorf("unknown subcommand: %s", args[0])
	}
}

type target struct {
	driver string
	dsn    string
}

// storageFlags registers -config, -driver and -dsn; explicit flags win over the config file
func storageFlags(fs *flag.FlagSet) func() (target, error) {
	configPath := fs.String("config", "", "YAML config file to read the storage section from")
	driver := fs.String("driver", "", "Storage driver: sqlite or postgres")
	dsn := fs.String("dsn", "", "SQLite file path or PostgreSQL URL")

	return func() (target, error) {
		cfg, err := config.Load(*configPath)
		if err != nil {
			return target{}, err
		}
		t := target{driver: cfg.Storage.Driver, dsn: cfg.Storage.DSN}
		if *driver != "" {
			t.driver = *driver
		}
		if *dsn != "" {
			t.dsn = *dsn
		}
		if t.dsn == "" {
			return target{}, fmt.Errorf("database location required: use -dsn or a config with storage.dsn")
		}
		return t, nil
	}
}

func runInit(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	resolve := storageFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	t, err := resolve()
	if err != nil {
		return err
	}

	store, err := storage.Open(t.driver, t.dsn, false)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer store.Close()

	if err := store.InitDB(); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	fmt.Fprintf(out, "Database initialized (%s): %s\n", store.Driver(), t.dsn)
	return nil
}

func runDelete(args []string, in io.Reader, out io.Writer) error {
	fs := flag.NewFlagSet("delete", flag.ContinueOnError)
	resolve := storageFlags(fs)
	force := fs.Bool("force", false, "Skip the confirmation prompt")
	if err := fs.Parse(args); err != nil {
		return err
	}
	t, err := resolve()
	if err != nil {
		return err
	}

	if !*force {
		if f, ok := in.(*os.File); !ok || !term.IsTerminal(int(f.Fd())) {
			return fmt.Errorf("refusing to delete without -force when input is not a terminal")
		}
		fmt.Fprintf(out, "Delete all archived sessions in %s? [y/N]: ", t.dsn)
		answer, _ := bufio.NewReader(in).ReadString('\n')
		if a := strings.ToLower(strings.TrimSpace(answer)); a != "y" && a != "yes" {
			fmt.Fprintln(out, "Aborted")
			return nil
		}
	}

	store, err := storage.Open(t.driver, t.dsn, false)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	if err := store.DeleteDB(); err != nil {
		return fmt.Errorf("failed to delete database: %w", err)
	}

	fmt.Fprintf(out, "Database deleted: %s\n", t.dsn)
	return nil
}

func runQuery(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("query", flag.ContinueOnError)
	resolve := storageFlags(fs)
	sessionID := fs.String("session", "", "Session ID to filter (optional, * for all)")
	nickname := fs.String("nickname", "", "Nickname to filter (optional, * for all)")
	moves := fs.Bool("moves", false, "List the moves of the matched sessions")
	if err := fs.Parse(args); err != nil {
		return err
	}
	t, err := resolve()
	if err != nil {
		return err
	}

	store, err := storage.Open(t.driver, t.dsn, false)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer store.Close()

	sessions, err := store.QuerySessions(*sessionID, *nickname)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}
	if len(sessions) == 0 {
		fmt.Fprintln(out, "No sessions found")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "Session ID\tNickname\tStarted\tResult")
	fmt.Fprintln(w, strings.Repeat("-", 72))
	for _, s := range sessions {
		result := s.Result
		if result == "" {
			result = "in progress"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			shortID(s.SessionID),
			s.Nickname,
			s.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
			result,
		)
	}
	w.Flush()

	if *moves {
		for _, s := range sessions {
			records, err := store.QueryMoves(s.SessionID)
			if err != nil {
				return fmt.Errorf("query moves failed: %w", err)
			}
			fmt.Fprintf(out, "\n%s (%s)\n", shortID(s.SessionID), s.Nickname)
			for _, m := range records {
				side := m.Color
				if c, err := core.ParseColor(m.Color); err == nil {
					side = c.Name()
				}
				fmt.Fprintf(out, "  %3d. %-6s %s%s  %-5s  %s\n", m.Ply, m.Label, m.From, m.To, side, m.Status)
			}
		}
	}

	fmt.Fprintf(out, "\nFound %d session(s)\n", len(sessions))
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8] + "..."
	}
	return id
}
