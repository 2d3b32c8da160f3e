// Package generator drives code generation: it resolves the effective
// configuration for every schema element and hands the result to the
// emission stage. Generator-wide behavior (encode/decode selection, size
// caching, formatting) lives here; per-element behavior comes from the
// configuration store.
package generator

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/tinypb/tinypb-go/diagnostics"
	"github.com/tinypb/tinypb-go/gencfg"
	"github.com/tinypb/tinypb-go/generator/codegen"
	"github.com/tinypb/tinypb-go/internal/debug"
	"github.com/tinypb/tinypb-go/schema"
)

// Options is the generator-wide configuration.
type Options struct {
	Mode            codegen.Mode // which accessors to generate
	SizeCache       bool         // add a size-cache field to messages
	StripEnumPrefix bool         // strip the enum name prefix from value consts
	FormatOutput    bool         // run gofmt over the generated source
	DefaultFilename string       // output name for descriptor files without a name
	PackageName     string       // package clause; derived from the enclosing module when empty
	OutputDir       string
	// Imports maps the package qualifiers used by type overrides
	// (vec_type, string_type, map_type, custom_field) to import paths.
	Imports map[string]string
}

// Generator generates Go source from a descriptor set and a configuration
// store. Registration on the store must be finished before Generate is
// called; Generate only resolves.
type Generator struct {
	opts  Options
	store *gencfg.Store
	fs    afero.Fs
	diags *diagnostics.Diagnostics
}

// New creates a generator writing to the OS filesystem.
func New(opts Options, store *gencfg.Store) *Generator {
	if opts.DefaultFilename == "" {
		opts.DefaultFilename = "tinypb_gen"
	}
	if opts.OutputDir == "" {
		opts.OutputDir = "."
	}
	return &Generator{
		opts:  opts,
		store: store,
		fs:    afero.NewOsFs(),
		diags: diagnostics.NewDiagnostics(),
	}
}

// SetFs replaces the output filesystem. Tests use an in-memory fs.
func (g *Generator) SetFs(fs afero.Fs) { g.fs = fs }

// Diagnostics returns the configuration errors collected so far.
func (g *Generator) Diagnostics() *diagnostics.Diagnostics { return g.diags }

// Generate emits one Go file per descriptor file. Malformed overrides are
// collected per element rather than aborting the run, so a single pass
// reports every bad override; I/O failures abort immediately.
func (g *Generator) Generate(set *schema.Set) error {
	if err := g.fs.MkdirAll(g.opts.OutputDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	if g.opts.PackageName == "" {
		if name, ok := derivePackageName(g.fs, g.opts.OutputDir); ok {
			g.opts.PackageName = name
		} else {
			g.opts.PackageName = "pb"
		}
		debug.Debug("derived package name", "package", g.opts.PackageName)
	}

	for _, file := range set.Files {
		name := g.outputName(file.GetName())
		debug.Debug("generating file", "proto", file.GetName(), "out", name)

		src, err := codegen.EmitFile(codegen.FileInput{
			Package:         g.opts.PackageName,
			File:            file,
			Resolve:         g.store.Resolve,
			Imports:         g.opts.Imports,
			Mode:            g.opts.Mode,
			SizeCache:       g.opts.SizeCache,
			StripEnumPrefix: g.opts.StripEnumPrefix,
			Format:          g.opts.FormatOutput,
		}, g.diags)
		if err != nil {
			return fmt.Errorf("emitting %s: %w", file.GetName(), err)
		}

		target := filepath.Join(g.opts.OutputDir, name)
		if err := afero.WriteFile(g.fs, target, src, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", target, err)
		}
	}

	if g.diags.HasErrors() {
		return g.diags.ToResult()
	}
	return nil
}

// outputName derives the generated file name from the proto file name.
func (g *Generator) outputName(protoName string) string {
	base := strings.TrimSuffix(path.Base(protoName), ".proto")
	if base == "" || base == "." {
		base = g.opts.DefaultFilename
	}
	return base + "_gen.go"
}
