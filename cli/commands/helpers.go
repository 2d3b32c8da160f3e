package commands

import (
	"fmt"
	"os"

	"github.com/tinypb/tinypb-go/cli/internal/config"
	"github.com/tinypb/tinypb-go/gencfg"
	"github.com/tinypb/tinypb-go/generator/codegen"
	"github.com/tinypb/tinypb-go/rules"
	"github.com/tinypb/tinypb-go/schema"
)

// loadInputs reads the descriptor set and, when a rules file exists,
// applies its rules to a fresh store and returns its import mapping. A
// missing rules file is not an error; the default configuration then
// applies everywhere.
func loadInputs(descriptorPath, rulesPath string) (*schema.Set, *gencfg.Store, map[string]string, error) {
	set, err := schema.Load(config.AppFs, descriptorPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("loading descriptor set: %w", err)
	}

	store := gencfg.NewStore()
	if _, err := config.AppFs.Stat(rulesPath); err != nil {
		if os.IsNotExist(err) {
			return set, store, nil, nil
		}
		return nil, nil, nil, fmt.Errorf("checking rules file: %w", err)
	}

	f, err := rules.LoadFile(config.AppFs, rulesPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("loading rules: %w", err)
	}
	if err := f.Apply(store, set.ElementPaths()); err != nil {
		return nil, nil, nil, fmt.Errorf("applying rules: %w", err)
	}
	return set, store, f.Imports, nil
}

// parseMode maps the mode flag to the generator mode.
func parseMode(s string) (codegen.Mode, error) {
	switch s {
	case "", "both":
		return codegen.ModeBoth, nil
	case "encode":
		return codegen.ModeEncodeOnly, nil
	case "decode":
		return codegen.ModeDecodeOnly, nil
	default:
		return 0, fmt.Errorf("unknown mode %q (want both, encode or decode)", s)
	}
}
