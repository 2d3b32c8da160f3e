package rules

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/tinypb/tinypb-go/gencfg"
)

const sampleRules = `
imports:
  container: example.com/container
rules:
  - path: example
    attributes:
      skip: false
      type_attributes: 'db:"payload"'
  - path: example.Data.*
    attributes:
      max_len: 8
  - path: example.Data.count
    attributes:
      int_type: uint16
      rename_field: Count
  - path: example.Data.payload
    attributes:
      custom_field: {delegate: payloadAccessor}
`

func TestLoad(t *testing.T) {
	f, err := Load(strings.NewReader(sampleRules))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(f.Rules) != 4 {
		t.Fatalf("got %d rules", len(f.Rules))
	}
	if f.Rules[1].Path != "example.Data.*" {
		t.Errorf("rule path = %q", f.Rules[1].Path)
	}
	if f.Imports["container"] != "example.com/container" {
		t.Errorf("imports = %v", f.Imports)
	}
}

func TestLoadRejectsBadImports(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"qualifier not an identifier", "imports:\n  my-pkg: example.com/pkg\n"},
		{"empty path", "imports:\n  pkg: \"\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(strings.NewReader(tt.src)); err == nil {
				t.Error("want error")
			}
		})
	}
}

func TestLoadEmpty(t *testing.T) {
	f, err := Load(strings.NewReader(""))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(f.Rules) != 0 {
		t.Errorf("got %d rules", len(f.Rules))
	}
}

func TestLoadRejectsMissingPath(t *testing.T) {
	_, err := Load(strings.NewReader("rules:\n  - attributes: {skip: true}\n"))
	if err == nil {
		t.Error("a rule without a path should not load")
	}
}

func TestRuleConfig(t *testing.T) {
	rule := Rule{
		Path: "a.b",
		Attributes: map[string]any{
			"skip":         true,
			"max_len":      16,
			"int_type":     "int8",
			"vec_type":     "container.Vec",
			"boxed":        true,
			"custom_field": map[string]any{"type": "MyType"},
		},
	}
	cfg, err := rule.Config()
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	if !cfg.Skipped() || !cfg.BoxedField() {
		t.Error("bool attributes not applied")
	}
	if *cfg.MaxLen != 16 {
		t.Errorf("max_len = %d", *cfg.MaxLen)
	}
	if *cfg.IntType != gencfg.I8 {
		t.Errorf("int_type = %v", *cfg.IntType)
	}
	want := gencfg.CustomType("MyType")
	if diff := cmp.Diff(&want, cfg.CustomField); diff != "" {
		t.Errorf("custom_field mismatch:\n%s", diff)
	}
}

func TestRuleConfigErrors(t *testing.T) {
	tests := []struct {
		name  string
		attrs map[string]any
	}{
		{"unknown attribute", map[string]any{"renme_field": "x"}},
		{"wrong value kind", map[string]any{"skip": "yes"}},
		{"negative length", map[string]any{"max_len": -1}},
		{"unknown int type", map[string]any{"int_type": "float32"}},
		{"both custom variants", map[string]any{"custom_field": map[string]any{"type": "T", "delegate": "d"}}},
		{"no custom variant", map[string]any{"custom_field": map[string]any{}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := (Rule{Path: "a", Attributes: tt.attrs}).Config(); err == nil {
				t.Error("want error")
			}
		})
	}
}

func TestApply(t *testing.T) {
	f, err := Load(strings.NewReader(sampleRules))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	store := gencfg.NewStore()
	elements := []string{
		"example.Data",
		"example.Data.count",
		"example.Data.payload",
		"example.Data.other",
	}
	if err := f.Apply(store, elements); err != nil {
		t.Fatalf("apply: %v", err)
	}

	// The exact rule came after the wildcard rule in file order, so its bag
	// replaced the wildcard's at this path.
	count := store.Resolve("example.Data.count")
	if count.IntType == nil || *count.IntType != gencfg.U16 {
		t.Errorf("int_type = %v", count.IntType)
	}
	if count.MaxLen != nil {
		t.Error("the later exact rule replaces the wildcard bag wholesale")
	}
	if count.TypeAttributes == nil {
		t.Error("type_attributes should inherit from the package rule")
	}

	// A field only the wildcard addressed keeps the wildcard bag.
	other := store.Resolve("example.Data.other")
	if other.MaxLen == nil || *other.MaxLen != 8 {
		t.Errorf("max_len = %v", other.MaxLen)
	}

	payload := store.Resolve("example.Data.payload")
	if !payload.HasCustomField() {
		t.Error("payload should carry the delegate custom field")
	}
}

func TestApplyLastRuleWins(t *testing.T) {
	f, err := Load(strings.NewReader(`
rules:
  - path: a.b
    attributes: {vec_type: First, max_len: 3}
  - path: a.b
    attributes: {vec_type: Second}
`))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	store := gencfg.NewStore()
	if err := f.Apply(store, []string{"a.b"}); err != nil {
		t.Fatalf("apply: %v", err)
	}
	resolved := store.Resolve("a.b")
	if *resolved.VecType != "Second" {
		t.Errorf("vec_type = %q", *resolved.VecType)
	}
	if resolved.MaxLen != nil {
		t.Error("insert at the same path replaces the whole bag")
	}
}

func TestExpand(t *testing.T) {
	elements := []string{"p.A", "p.A.x", "p.A.y", "p.B", "p.B.x"}
	tests := []struct {
		pattern string
		want    []string
	}{
		{"p.A.x", []string{"p.A.x"}},
		{"p.*", []string{"p.A", "p.B"}},
		{"p.*.x", []string{"p.A.x", "p.B.x"}},
		{"p.*.z", nil},
		{"q", []string{"q"}}, // no wildcard: addressed as-is
	}
	for _, tt := range tests {
		if diff := cmp.Diff(tt.want, expand(tt.pattern, elements)); diff != "" {
			t.Errorf("expand(%q) mismatch (-want +got):\n%s", tt.pattern, diff)
		}
	}
}
