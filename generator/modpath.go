package generator

import (
	"path"
	"path/filepath"

	"github.com/spf13/afero"
	"golang.org/x/mod/modfile"
)

// derivePackageName infers a package name for generated files from the
// enclosing Go module: the last element of the output directory's import
// path. Reports false when the output directory is not inside a module.
func derivePackageName(fs afero.Fs, dir string) (string, bool) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", false
	}
	modPath, modRoot, ok := findModule(fs, abs)
	if !ok {
		return "", false
	}
	importPath := modPath
	if rel, err := filepath.Rel(modRoot, abs); err == nil && rel != "." {
		importPath = path.Join(modPath, filepath.ToSlash(rel))
	}
	return sanitizePackageName(path.Base(importPath)), true
}

// findModule walks up from dir looking for a go.mod and returns the module
// path and the directory holding it.
func findModule(fs afero.Fs, dir string) (string, string, bool) {
	for {
		candidate := filepath.Join(dir, "go.mod")
		if _, err := fs.Stat(candidate); err == nil {
			data, err := afero.ReadFile(fs, candidate)
			if err != nil {
				return "", "", false
			}
			f, err := modfile.Parse("go.mod", data, nil)
			if err != nil || f.Module == nil {
				return "", "", false
			}
			return f.Module.Mod.Path, dir, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", "", false
		}
		dir = parent
	}
}

// sanitizePackageName turns an import path element into a legal package
// identifier.
func sanitizePackageName(name string) string {
	out := make([]rune, 0, len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r == '_':
			out = append(out, r)
		case r >= '0' && r <= '9':
			if len(out) == 0 {
				out = append(out, '_')
			}
			out = append(out, r)
		default:
			out = append(out, '_')
		}
	}
	if len(out) == 0 {
		return "pb"
	}
	return string(out)
}
