package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	cliconfig "github.com/tinypb/tinypb-go/cli/internal/config"
	"github.com/tinypb/tinypb-go/cli/internal/ui"
	"github.com/tinypb/tinypb-go/diagnostics"
	"github.com/tinypb/tinypb-go/schema"
)

var validateCmd = &cobra.Command{
	Use:   "validate [descriptor-set]",
	Short: "Validate the rules file against a descriptor set",
	Long: `Validate the rules file against a compiled descriptor set.

Every rule is applied and every override is parsed for every schema element
it reaches, so errors that generation would only hit lazily are all
reported here in one pass.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runValidate,
}

var (
	validateDescriptor string
	validateRules      string
)

func init() {
	validateCmd.Flags().StringVarP(&validateDescriptor, "descriptor", "d", "", "Path to the descriptor set")
	validateCmd.Flags().StringVarP(&validateRules, "rules", "r", "", "Path to the rules file")

	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := cliconfig.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	if len(args) > 0 {
		cfg.DescriptorPath = args[0]
	}
	if validateDescriptor != "" {
		cfg.DescriptorPath = validateDescriptor
	}
	if validateRules != "" {
		cfg.RulesPath = validateRules
	}

	ui.PrintHeader("tinypb", "Validate")

	set, store, _, err := loadInputs(cfg.DescriptorPath, cfg.RulesPath)
	if err != nil {
		return err
	}

	diags := diagnostics.NewDiagnostics()
	var messages, fields, enums, enumValues int
	set.Walk(func(el schema.Element) {
		switch el.Kind {
		case schema.KindMessage:
			messages++
		case schema.KindField:
			fields++
		case schema.KindEnum:
			enums++
		case schema.KindEnumValue:
			enumValues++
		}
		for _, verr := range store.Resolve(el.Path).Verify() {
			var ce diagnostics.ConfigError
			if errors.As(verr, &ce) {
				diags.PushError(ce)
			}
		}
	})

	if diags.HasErrors() {
		ui.PrintError("Validation failed:")
		fmt.Fprintf(os.Stderr, "\n%s\n", diags.ToPrettyString())
		return diags.ToResult()
	}

	absPath, _ := filepath.Abs(cfg.DescriptorPath)
	ui.PrintSuccess("Configuration is valid for %s", absPath)
	fmt.Println()

	ui.PrintSection("Schema Summary")
	ui.PrintTable(
		[]string{"Element", "Count"},
		[][]string{
			{"Messages", fmt.Sprint(messages)},
			{"Fields", fmt.Sprint(fields)},
			{"Enums", fmt.Sprint(enums)},
			{"Enum values", fmt.Sprint(enumValues)},
		},
	)
	return nil
}
