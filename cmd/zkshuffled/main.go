// Command zkshuffled is a manual-inspection harness for the coordinator: its
// demo subcommand wires an in-memory store and keeper and plays a scripted
// game to completion, printing a line after every command. It is not a
// production chain binary.
package main

import (
	"os"

	"github.com/zkshuffle/coordinator/cmd/zkshuffled/cmd"
)

func main() {
	if err := cmd.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
