// Package rules reads user override rules and registers them with the
// configuration store. A rules file is YAML: a list of {path, attributes}
// entries. Attribute values are stored verbatim; string-valued overrides are
// not parsed here but lazily, at the point the generator needs them. Only
// the rule-file shape itself (known keys, value kinds) is checked at load
// time, since a wrong key is a rule-file typo, not an override.
package rules

import (
	"fmt"
	"go/token"
	"io"
	"strings"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/tinypb/tinypb-go/gencfg"
	"github.com/tinypb/tinypb-go/gencfg/pathtree"
	"github.com/tinypb/tinypb-go/internal/debug"
)

// Rule attaches a bag of raw attribute values to a path pattern. A pattern
// segment of "*" matches exactly one path segment of a concrete element.
type Rule struct {
	Path       string         `yaml:"path"`
	Attributes map[string]any `yaml:"attributes"`
}

// File is a parsed rules file. Imports maps the package qualifiers that
// type overrides reference (vec_type, string_type, map_type, custom_field)
// to the import paths of the generated code.
type File struct {
	Imports map[string]string `yaml:"imports"`
	Rules   []Rule            `yaml:"rules"`
}

// Load parses a rules file.
func Load(r io.Reader) (*File, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var f File
	if err := dec.Decode(&f); err != nil {
		if err == io.EOF {
			return &File{}, nil
		}
		return nil, fmt.Errorf("decoding rules: %w", err)
	}
	for i, rule := range f.Rules {
		if rule.Path == "" {
			return nil, fmt.Errorf("rule %d: missing path", i)
		}
	}
	for qualifier, importPath := range f.Imports {
		if !token.IsIdentifier(qualifier) {
			return nil, fmt.Errorf("import qualifier %q is not a valid identifier", qualifier)
		}
		if importPath == "" {
			return nil, fmt.Errorf("import %q: missing path", qualifier)
		}
	}
	return &f, nil
}

// LoadFile parses the rules file at path.
func LoadFile(fs afero.Fs, path string) (*File, error) {
	r, err := fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening rules file: %w", err)
	}
	defer r.Close()
	f, err := Load(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Apply expands every rule against the concrete element paths and registers
// the resulting bags with the store. Expansion happens here, before
// resolution begins; the store itself never sees a pattern. A pattern that
// matches no element is not an error, only a debug-level note.
func (f *File) Apply(store *gencfg.Store, elementPaths []string) error {
	for _, rule := range f.Rules {
		cfg, err := rule.Config()
		if err != nil {
			return err
		}
		targets := expand(rule.Path, elementPaths)
		if len(targets) == 0 {
			debug.Debug("override rule matched no elements", "path", rule.Path)
			continue
		}
		for _, target := range targets {
			store.Configure(target, cfg)
		}
	}
	return nil
}

// expand resolves a path pattern to the concrete paths it addresses. A
// pattern without wildcards addresses its own path whether or not any
// element exists there, so overrides can be registered for ancestors
// (packages, messages) that are never walked as elements themselves.
func expand(pattern string, elementPaths []string) []string {
	if !strings.Contains(pattern, "*") {
		return []string{pattern}
	}
	segs := pathtree.SplitPath(pattern)
	var out []string
	for _, path := range elementPaths {
		if matchSegments(segs, pathtree.SplitPath(path)) {
			out = append(out, path)
		}
	}
	return out
}

func matchSegments(pattern, path []string) bool {
	if len(pattern) != len(path) {
		return false
	}
	for i, seg := range pattern {
		if seg != "*" && seg != path[i] {
			return false
		}
	}
	return true
}

// Config converts the rule's attribute map into a Config bag. Unknown
// attribute names and wrongly-typed values are load errors.
func (r Rule) Config() (*gencfg.Config, error) {
	cfg := gencfg.New()
	for key, value := range r.Attributes {
		if err := setAttribute(cfg, key, value); err != nil {
			return nil, fmt.Errorf("rule %q: attribute %q: %w", r.Path, key, err)
		}
	}
	return cfg, nil
}

func setAttribute(cfg *gencfg.Config, key string, value any) error {
	switch key {
	case "max_len":
		n, err := asUint32(value)
		if err != nil {
			return err
		}
		cfg.WithMaxLen(n)
	case "max_bytes":
		n, err := asUint32(value)
		if err != nil {
			return err
		}
		cfg.WithMaxBytes(n)
	case "int_type":
		t, err := asIntType(value)
		if err != nil {
			return err
		}
		cfg.WithIntType(t)
	case "enum_int_type":
		t, err := asIntType(value)
		if err != nil {
			return err
		}
		cfg.WithEnumIntType(t)
	case "field_attributes":
		s, err := asString(value)
		if err != nil {
			return err
		}
		cfg.WithFieldAttributes(s)
	case "type_attributes":
		s, err := asString(value)
		if err != nil {
			return err
		}
		cfg.WithTypeAttributes(s)
	case "hazzer_attributes":
		s, err := asString(value)
		if err != nil {
			return err
		}
		cfg.WithHazzerAttributes(s)
	case "boxed":
		b, err := asBool(value)
		if err != nil {
			return err
		}
		cfg.WithBoxed(b)
	case "no_hazzer":
		b, err := asBool(value)
		if err != nil {
			return err
		}
		cfg.WithNoHazzer(b)
	case "no_debug_string":
		b, err := asBool(value)
		if err != nil {
			return err
		}
		cfg.WithNoDebugString(b)
	case "skip":
		b, err := asBool(value)
		if err != nil {
			return err
		}
		cfg.WithSkip(b)
	case "vec_type":
		s, err := asString(value)
		if err != nil {
			return err
		}
		cfg.WithVecType(s)
	case "string_type":
		s, err := asString(value)
		if err != nil {
			return err
		}
		cfg.WithStringType(s)
	case "map_type":
		s, err := asString(value)
		if err != nil {
			return err
		}
		cfg.WithMapType(s)
	case "rename_field":
		s, err := asString(value)
		if err != nil {
			return err
		}
		cfg.WithRenameField(s)
	case "custom_field":
		f, err := asCustomField(value)
		if err != nil {
			return err
		}
		cfg.WithCustomField(f)
	default:
		return fmt.Errorf("unknown attribute")
	}
	return nil
}

func asString(value any) (string, error) {
	s, ok := value.(string)
	if !ok {
		return "", fmt.Errorf("expected a string, got %T", value)
	}
	return s, nil
}

func asBool(value any) (bool, error) {
	b, ok := value.(bool)
	if !ok {
		return false, fmt.Errorf("expected a bool, got %T", value)
	}
	return b, nil
}

func asUint32(value any) (uint32, error) {
	n, ok := value.(int)
	if !ok || n < 0 {
		return 0, fmt.Errorf("expected a non-negative integer, got %v", value)
	}
	return uint32(n), nil
}

func asIntType(value any) (gencfg.IntType, error) {
	s, err := asString(value)
	if err != nil {
		return 0, err
	}
	t, ok := gencfg.IntTypeFromName(s)
	if !ok {
		return 0, fmt.Errorf("%q is not an integer type name", s)
	}
	return t, nil
}

// asCustomField expects a single-key mapping: {type: "..."} or
// {delegate: "..."}. The two variants are mutually exclusive.
func asCustomField(value any) (gencfg.CustomField, error) {
	m, ok := value.(map[string]any)
	if !ok || len(m) != 1 {
		return gencfg.CustomField{}, fmt.Errorf("expected exactly one of {type: ...} or {delegate: ...}")
	}
	if raw, ok := m["type"]; ok {
		s, err := asString(raw)
		if err != nil {
			return gencfg.CustomField{}, err
		}
		return gencfg.CustomType(s), nil
	}
	if raw, ok := m["delegate"]; ok {
		s, err := asString(raw)
		if err != nil {
			return gencfg.CustomField{}, err
		}
		return gencfg.CustomDelegate(s), nil
	}
	return gencfg.CustomField{}, fmt.Errorf("expected exactly one of {type: ...} or {delegate: ...}")
}
