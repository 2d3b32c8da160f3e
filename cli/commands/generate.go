package commands

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	cliconfig "github.com/tinypb/tinypb-go/cli/internal/config"
	"github.com/tinypb/tinypb-go/cli/internal/ui"
	"github.com/tinypb/tinypb-go/cli/internal/watch"
	"github.com/tinypb/tinypb-go/generator"
)

var generateCmd = &cobra.Command{
	Use:   "generate [descriptor-set]",
	Short: "Generate Go code from a descriptor set",
	Long: `Generate Go structs from a compiled protobuf descriptor set.

The descriptor set is the output of protoc --descriptor_set_out. Rules from
the rules file are matched against schema element paths before generation.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runGenerate,
}

var (
	generateDescriptor string
	generateRules      string
	generateOut        string
	generatePackage    string
	generateMode       string
	generateSizeCache  bool
	generateStripEnum  bool
	generateNoFormat   bool
	generateWatch      bool
)

func init() {
	flags := generateCmd.Flags()
	flags.StringVarP(&generateDescriptor, "descriptor", "d", "", "Path to the descriptor set")
	flags.StringVarP(&generateRules, "rules", "r", "", "Path to the rules file")
	flags.StringVarP(&generateOut, "out", "o", "", "Output directory")
	flags.StringVarP(&generatePackage, "package", "p", "", "Package name of the generated files")
	flags.StringVarP(&generateMode, "mode", "m", "", "Helper surface: both, encode or decode")
	flags.BoolVar(&generateSizeCache, "size-cache", false, "Add a size-cache field to messages")
	flags.BoolVar(&generateStripEnum, "strip-enum-prefix", false, "Strip the enum name prefix from value constants")
	flags.BoolVar(&generateNoFormat, "no-format", false, "Skip gofmt on the generated source")
	flags.BoolVarP(&generateWatch, "watch", "w", false, "Regenerate when the descriptor or rules change")

	rootCmd.AddCommand(generateCmd)
}

// generateSettings folds the config file and the flags into one set of
// options. Flags win.
func generateSettings(args []string) (*cliconfig.Config, error) {
	cfg, err := cliconfig.Load()
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}
	if len(args) > 0 {
		cfg.DescriptorPath = args[0]
	}
	if generateDescriptor != "" {
		cfg.DescriptorPath = generateDescriptor
	}
	if generateRules != "" {
		cfg.RulesPath = generateRules
	}
	if generateOut != "" {
		cfg.OutputDir = generateOut
	}
	if generatePackage != "" {
		cfg.PackageName = generatePackage
	}
	if generateMode != "" {
		cfg.Mode = generateMode
	}
	if generateSizeCache {
		cfg.SizeCache = true
	}
	if generateStripEnum {
		cfg.StripEnumPrefix = true
	}
	if generateNoFormat {
		cfg.FormatOutput = false
	}
	return cfg, nil
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := generateSettings(args)
	if err != nil {
		return err
	}
	mode, err := parseMode(cfg.Mode)
	if err != nil {
		return err
	}

	run := func() error {
		set, store, imports, err := loadInputs(cfg.DescriptorPath, cfg.RulesPath)
		if err != nil {
			return err
		}

		g := generator.New(generator.Options{
			Mode:            mode,
			SizeCache:       cfg.SizeCache,
			StripEnumPrefix: cfg.StripEnumPrefix,
			FormatOutput:    cfg.FormatOutput,
			PackageName:     cfg.PackageName,
			OutputDir:       cfg.OutputDir,
			Imports:         imports,
		}, store)

		if err := g.Generate(set); err != nil {
			if g.Diagnostics().HasErrors() {
				ui.PrintError("Generation finished with configuration errors:")
				fmt.Fprintf(os.Stderr, "\n%s\n", g.Diagnostics().ToPrettyString())
			}
			return err
		}

		absOut, _ := filepath.Abs(cfg.OutputDir)
		ui.PrintSuccess("Generated %d file(s) at %s", len(set.Files), absOut)
		return nil
	}

	if generateWatch {
		return runGenerateWatch(cfg, run)
	}

	ui.PrintHeader("tinypb", "Generate")

	info := pterm.Info.WithPrefix(pterm.Prefix{
		Text:  "INFO",
		Style: pterm.NewStyle(pterm.FgBlue),
	})
	info.Println("Descriptor: " + cfg.DescriptorPath)
	info.Println("Rules:      " + cfg.RulesPath)
	info.Println("Output:     " + cfg.OutputDir)
	fmt.Println()

	spinner, _ := ui.PrintSpinner("Generating...")
	err = run()
	spinner.Stop()
	return err
}

func runGenerateWatch(cfg *cliconfig.Config, run func() error) error {
	ui.PrintHeader("tinypb", "Watch Mode")

	if err := run(); err != nil {
		ui.PrintError("%v", err)
	}

	watcher, err := watch.New(func() error {
		ui.PrintInfo("Input changed, regenerating...")
		return run()
	}, cfg.DescriptorPath, cfg.RulesPath)
	if err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}
	defer watcher.Stop()
	watcher.Start()

	ui.PrintSuccess("Watching %s and %s for changes... (Ctrl+C to stop)",
		cfg.DescriptorPath, cfg.RulesPath)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	ui.PrintInfo("\nStopping watch mode...")
	return nil
}
