package gencfg

import (
	"bytes"
	"errors"
	"go/ast"
	"go/printer"
	"go/token"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/tinypb/tinypb-go/diagnostics"
)

func exprString(t *testing.T, expr ast.Expr) string {
	t.Helper()
	if expr == nil {
		return ""
	}
	var buf bytes.Buffer
	if err := printer.Fprint(&buf, token.NewFileSet(), expr); err != nil {
		t.Fatalf("printing expression: %v", err)
	}
	return buf.String()
}

func TestTypeRefFragments(t *testing.T) {
	cfg := New().
		WithVecType("container.Vec").
		WithStringType("container.String").
		WithMapType("FlatMap")

	for _, tt := range []struct {
		name string
		get  func() (ast.Expr, error)
		want string
	}{
		{"vec_type", cfg.VecTypeRef, "container.Vec"},
		{"string_type", cfg.StringTypeRef, "container.String"},
		{"map_type", cfg.MapTypeRef, "FlatMap"},
	} {
		t.Run(tt.name, func(t *testing.T) {
			expr, err := tt.get()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := exprString(t, expr); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}

	// Absent overrides yield no expression and no error.
	empty := New()
	expr, err := empty.VecTypeRef()
	if expr != nil || err != nil {
		t.Errorf("absent vec_type: got (%v, %v), want (nil, nil)", expr, err)
	}
}

func TestTypeRefGenerics(t *testing.T) {
	cfg := New().WithVecType("container.Vec[uint16]")
	expr, err := cfg.VecTypeRef()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := exprString(t, expr); got != "container.Vec[uint16]" {
		t.Errorf("got %q", got)
	}
}

func TestMalformedTypeRef(t *testing.T) {
	store := NewStore()
	store.Configure("pkg.Msg.field", New().WithVecType("not<<valid"))

	// Resolution itself succeeds; only fragment conversion fails.
	cfg := store.Resolve("pkg.Msg.field")

	_, err := cfg.VecTypeRef()
	var malformed diagnostics.MalformedOverrideError
	if !errors.As(err, &malformed) {
		t.Fatalf("want MalformedOverrideError, got %v", err)
	}
	if malformed.Path() != "pkg.Msg.field" {
		t.Errorf("error path = %q, want %q", malformed.Path(), "pkg.Msg.field")
	}
	if malformed.Attribute() != "vec_type" {
		t.Errorf("error attribute = %q, want %q", malformed.Attribute(), "vec_type")
	}
	if malformed.Raw() != "not<<valid" {
		t.Errorf("error raw = %q", malformed.Raw())
	}
}

func TestAttrFragments(t *testing.T) {
	cfg := New().
		WithTypeAttributes(`json:"-" db:"payload"`).
		WithHazzerAttributes(`json:"presence,omitempty"`)

	typeAttrs, err := cfg.TypeAttrs()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []Attr{{Key: "json", Value: "-"}, {Key: "db", Value: "payload"}}
	if diff := cmp.Diff(want, typeAttrs); diff != "" {
		t.Errorf("type_attributes mismatch (-want +got):\n%s", diff)
	}

	hazzerAttrs, err := cfg.HazzerAttrs()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(hazzerAttrs) != 1 || hazzerAttrs[0].Key != "json" {
		t.Errorf("hazzer_attributes = %v", hazzerAttrs)
	}

	// field_attributes was never set: empty fragment.
	fieldAttrs, err := cfg.FieldAttrs()
	if err != nil || fieldAttrs != nil {
		t.Errorf("absent field_attributes: got (%v, %v)", fieldAttrs, err)
	}

	cfg.WithFieldAttributes(`validate:"required"`)
	fieldAttrs, err = cfg.FieldAttrs()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fieldAttrs) != 1 || fieldAttrs[0].Value != "required" {
		t.Errorf("field_attributes = %v", fieldAttrs)
	}
}

func TestMalformedAttrList(t *testing.T) {
	cfg := New().WithFieldAttributes(`json="missing colon"`)
	_, err := cfg.FieldAttrs()
	var malformed diagnostics.MalformedOverrideError
	if !errors.As(err, &malformed) {
		t.Fatalf("want MalformedOverrideError, got %v", err)
	}
	if malformed.Attribute() != "field_attributes" {
		t.Errorf("error attribute = %q", malformed.Attribute())
	}
}

func TestFieldName(t *testing.T) {
	cfg := New()
	name, err := cfg.FieldName("original")
	if err != nil || name != "original" {
		t.Errorf("fallback: got (%q, %v)", name, err)
	}

	cfg.WithRenameField("renamed")
	name, err = cfg.FieldName("original")
	if err != nil || name != "renamed" {
		t.Errorf("rename: got (%q, %v)", name, err)
	}

	cfg.WithRenameField("9not an ident")
	if _, err = cfg.FieldName("original"); err == nil {
		t.Error("invalid rename should fail")
	}
}

func TestCustomFieldParsed(t *testing.T) {
	cfg := New().WithCustomField(CustomType("container.Vec[uint16]"))
	parsed, err := cfg.CustomFieldParsed()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if parsed.Kind != CustomFieldType {
		t.Errorf("kind = %v", parsed.Kind)
	}
	if got := exprString(t, parsed.Type); got != "container.Vec[uint16]" {
		t.Errorf("type = %q", got)
	}

	cfg.WithCustomField(CustomDelegate("myAccessor"))
	parsed, err = cfg.CustomFieldParsed()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if parsed.Kind != CustomFieldDelegate || parsed.Delegate != "myAccessor" {
		t.Errorf("delegate = %+v", parsed)
	}

	cfg.WithCustomField(CustomDelegate("not ident"))
	if _, err = cfg.CustomFieldParsed(); err == nil {
		t.Error("invalid delegate should fail")
	}
}

func TestMissingCustomField(t *testing.T) {
	store := NewStore()
	cfg := store.Resolve("a.b")

	_, err := cfg.CustomFieldParsed()
	var missing diagnostics.MissingCustomFieldError
	if !errors.As(err, &missing) {
		t.Fatalf("want MissingCustomFieldError, got %v", err)
	}
	if missing.Path() != "a.b" {
		t.Errorf("error path = %q", missing.Path())
	}
}

func TestParsingIsDeterministic(t *testing.T) {
	cfg := New().WithVecType("not<<valid")
	_, err1 := cfg.VecTypeRef()
	_, err2 := cfg.VecTypeRef()
	if err1 == nil || err2 == nil {
		t.Fatal("want errors on every call")
	}
	if err1.Error() != err2.Error() {
		t.Errorf("errors differ across calls: %q vs %q", err1, err2)
	}
}

func TestVerify(t *testing.T) {
	clean := New().
		WithVecType("container.Vec").
		WithFieldAttributes(`json:"x"`).
		WithRenameField("X").
		WithCustomField(CustomType("device.Blob"))
	if errs := clean.Verify(); len(errs) != 0 {
		t.Fatalf("clean bag should verify, got %v", errs)
	}

	broken := New().
		WithVecType("not<<valid").
		WithRenameField("not an ident").
		WithFieldAttributes(`json="missing colon"`)
	errs := broken.Verify()
	if len(errs) != 3 {
		t.Fatalf("want every broken fragment reported, got %v", errs)
	}
	for _, err := range errs {
		var malformed diagnostics.MalformedOverrideError
		if !errors.As(err, &malformed) {
			t.Errorf("want MalformedOverrideError, got %v", err)
		}
	}

	// An absent custom field is not a verification failure; it only matters
	// when a caller asks for it.
	if errs := New().Verify(); len(errs) != 0 {
		t.Errorf("empty bag should verify, got %v", errs)
	}
}
