package root

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/nboyd/hearthvale/cli"
	"github.com/nboyd/hearthvale/config"
	"github.com/nboyd/hearthvale/engine"
	"github.com/nboyd/hearthvale/loader"
	"github.com/nboyd/hearthvale/storage"
	"github.com/nboyd/hearthvale/tui"
)

func newPlayCmd() *cobra.Command {
	var (
		plain      bool
		seed       int64
		configPath string
		saveDBPath string
	)

	cmd := &cobra.Command{
		Use:   "play <game_directory>",
		Short: "Load a game directory and play",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := newSession(args[0], configPath, seed)
			if err != nil {
				return err
			}

			slots, cleanup, err := openSlots(cmd.Context(), saveDBPath)
			if err != nil {
				slog.Warn("saves unavailable", "error", err)
			} else {
				defer cleanup()
			}

			// Use the plain CLI when asked or when stdout is piped.
			if plain || !isTerminal() {
				g := sess.Defs.Game
				fmt.Printf("%s v%s\n\n", g.Title, g.Version)
				c := cli.New(sess, slots)
				c.Run()
				return nil
			}
			return tui.Run(sess, slots)
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "use the plain terminal interface")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 = time-based)")
	cmd.Flags().StringVar(&configPath, "config", "", "tuning config file (YAML)")
	cmd.Flags().StringVar(&saveDBPath, "save-db", "", "save database path")
	return cmd
}

func newSession(gameDir, configPath string, seed int64) (*engine.Session, error) {
	defs, err := loader.Load(gameDir)
	if err != nil {
		return nil, fmt.Errorf("loading game: %w", err)
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return engine.New(defs, cfg, seed), nil
}

func openSlots(ctx context.Context, path string) (*storage.SlotRepo, func(), error) {
	if path == "" {
		var err error
		path, err = storage.DefaultDBPath()
		if err != nil {
			return nil, nil, err
		}
	}
	db, err := storage.Open(ctx, path)
	if err != nil {
		return nil, nil, err
	}
	return storage.NewSlotRepo(db), func() { _ = db.Close() }, nil
}

// isTerminal returns true if stdout is a terminal (not piped/redirected).
func isTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
