package root

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const Version = "0.1.0"

var rootCmd = &cobra.Command{
	Use:           "hearthvale",
	Short:         "Hearthvale — a village life and adventure simulation",
	Long:          "Hearthvale runs Lua-authored village worlds: a day/night clock, travel, dialogue, timed work, crafting, trade, and turn-based combat.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("{{.Name}} v{{.Version}}\n")

	rootCmd.AddCommand(
		newPlayCmd(),
		newValidateCmd(),
		newScriptCmd(),
		newSlotsCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error: "+err.Error())
		os.Exit(1)
	}
}
