package root

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nboyd/hearthvale/cli"
)

func newScriptCmd() *cobra.Command {
	var (
		seed       int64
		configPath string
	)

	cmd := &cobra.Command{
		Use:   "script <game_directory> <script_file>",
		Short: "Replay a command script against a game (for testing content)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := newSession(args[0], configPath, seed)
			if err != nil {
				return err
			}
			f, err := os.Open(args[1])
			if err != nil {
				return fmt.Errorf("opening script: %w", err)
			}
			defer f.Close()

			g := sess.Defs.Game
			fmt.Printf("%s v%s\n\n", g.Title, g.Version)
			c := cli.New(sess, nil)
			c.In = f
			c.EchoInput = true
			c.Run()
			return nil
		},
	}

	cmd.Flags().Int64Var(&seed, "seed", 1, "random seed for reproducible playback")
	cmd.Flags().StringVar(&configPath, "config", "", "tuning config file (YAML)")
	return cmd
}
