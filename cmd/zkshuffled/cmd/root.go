package cmd

import (
	"github.com/spf13/cobra"
)

const binaryName = "zkshuffled"

// NewRootCmd creates the zkshuffled root command. Unlike the Cosmos daemon
// this is modeled on, there is no depinject app wiring, no keyring, and no
// node to start: every subcommand runs the coordinator directly against an
// in-memory store.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           binaryName,
		Short:         "zkshuffle coordinator inspection CLI",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	rootCmd.AddCommand(NewDemoCmd())
	return rootCmd
}
