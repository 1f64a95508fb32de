// Hearthvale is a single-player, turn-structured life-and-adventure
// simulation driven by Lua-authored content.
package main

import "github.com/nboyd/hearthvale/cmd/hearthvale/root"

func main() {
	root.Execute()
}
