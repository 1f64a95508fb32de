package root

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nboyd/hearthvale/loader"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <game_directory>",
		Short: "Load and validate a game directory without playing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			defs, err := loader.Load(args[0])
			if err != nil {
				return err
			}
			fmt.Printf("%s: %d locations, %d items, %d npcs, %d trees, %d recipes, %d encounters\n",
				defs.Game.Title, len(defs.Locations), len(defs.Items), len(defs.NPCs),
				len(defs.Trees), len(defs.Recipes), len(defs.Encounters))
			return nil
		},
	}
}
