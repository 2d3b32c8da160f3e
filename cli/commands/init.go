package commands

import (
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	cliconfig "github.com/tinypb/tinypb-go/cli/internal/config"
	"github.com/tinypb/tinypb-go/cli/internal/ui"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Set up a project configuration and example rules file",
	Args:  cobra.NoArgs,
	RunE:  runInit,
}

var initYes bool

func init() {
	initCmd.Flags().BoolVarP(&initYes, "yes", "y", false, "Accept all defaults without prompting")

	rootCmd.AddCommand(initCmd)
}

const exampleRules = `# Per-element overrides, matched against schema element paths.
# A path segment of * matches exactly one segment.
# imports maps package qualifiers used by type overrides to import paths.
imports:
  container: github.com/tinypb/containers
rules:
  - path: my.pkg.Telemetry
    attributes:
      no_debug_string: true
  - path: my.pkg.Telemetry.*
    attributes:
      max_len: 32
  - path: my.pkg.Telemetry.reading
    attributes:
      int_type: int16
      rename_field: Reading
  - path: my.pkg.Telemetry.samples
    attributes:
      vec_type: container.Vec
`

func runInit(cmd *cobra.Command, args []string) error {
	ui.PrintHeader("tinypb", "Init")

	cfg, err := cliconfig.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	if !initYes {
		questions := []*survey.Question{
			{
				Name:   "descriptor",
				Prompt: &survey.Input{Message: "Descriptor set path:", Default: cfg.DescriptorPath},
			},
			{
				Name:   "output",
				Prompt: &survey.Input{Message: "Output directory:", Default: cfg.OutputDir},
			},
			{
				Name: "mode",
				Prompt: &survey.Select{
					Message: "Generated helper surface:",
					Options: []string{"both", "encode", "decode"},
					Default: "both",
				},
			},
		}
		answers := struct {
			Descriptor string
			Output     string
			Mode       string
		}{}
		if err := survey.Ask(questions, &answers); err != nil {
			return err
		}
		cfg.DescriptorPath = answers.Descriptor
		cfg.OutputDir = answers.Output
		cfg.Mode = answers.Mode
	}

	if err := cliconfig.Save(cfg); err != nil {
		return fmt.Errorf("saving configuration: %w", err)
	}
	ui.PrintSuccess("Saved configuration")

	if exists, _ := afero.Exists(cliconfig.AppFs, cfg.RulesPath); exists {
		ui.PrintWarning("Rules file already exists: %s", cfg.RulesPath)
	} else {
		if err := afero.WriteFile(cliconfig.AppFs, cfg.RulesPath, []byte(exampleRules), 0o644); err != nil {
			return fmt.Errorf("writing rules file: %w", err)
		}
		ui.PrintSuccess("Created example rules file: %s", cfg.RulesPath)
	}

	fmt.Println()
	ui.PrintSection("Next Steps")
	ui.PrintList([]string{
		"Compile your schemas: protoc --descriptor_set_out=" + cfg.DescriptorPath + " *.proto",
		"Edit " + cfg.RulesPath + " to configure per-element overrides",
		"Run: tinypb generate",
	})
	return nil
}
