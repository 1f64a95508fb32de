package root

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSlotsCmd() *cobra.Command {
	var saveDBPath string

	cmd := &cobra.Command{
		Use:   "slots",
		Short: "List save slots",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, cleanup, err := openSlots(cmd.Context(), saveDBPath)
			if err != nil {
				return err
			}
			defer cleanup()

			slots, err := repo.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(slots) == 0 {
				fmt.Println("No saves yet.")
				return nil
			}
			for _, s := range slots {
				fmt.Printf("%-20s %-24s %s\n", s.Name, s.Game, s.UpdatedAt.Format("2006-01-02 15:04"))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&saveDBPath, "save-db", "", "save database path")
	return cmd
}
