package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tinypb/tinypb-go/cli/internal/ui"
	"github.com/tinypb/tinypb-go/cli/internal/update"
	"github.com/tinypb/tinypb-go/cli/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	RunE:  runVersion,
}

var versionCheckUpdate bool

func init() {
	versionCmd.Flags().BoolVar(&versionCheckUpdate, "check-update", false, "Check for a newer release")

	rootCmd.AddCommand(versionCmd)
}

func runVersion(cmd *cobra.Command, args []string) error {
	fmt.Println(version.Long())

	if !versionCheckUpdate {
		return nil
	}

	newer, err := update.Check(version.Version)
	if err != nil {
		ui.PrintWarning("Update check failed: %v", err)
		return nil
	}
	if newer == "" {
		ui.PrintSuccess("You are on the latest version")
		return nil
	}
	ui.PrintWarning("A new version is available: %s", newer)
	fmt.Printf("Download: %s\n", update.DownloadURL(newer))
	return nil
}
