// Package commands wires the cobra command tree.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/tinypb/tinypb-go/cli/internal/version"
	"github.com/tinypb/tinypb-go/internal/debug"
)

var debugFlag bool

var rootCmd = &cobra.Command{
	Use:   "tinypb",
	Short: "Protobuf code generator for constrained Go targets",
	Long: `tinypb generates plain Go structs from compiled protobuf descriptor
sets. Per-element configuration rules control type mapping, renaming,
container overrides and presence tracking.`,
	Version:       version.Short(),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		debug.Init(debugFlag)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "Enable debug logging")
	rootCmd.SetVersionTemplate("{{.Version}}\n")
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}
