package gencfg

import (
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"

	"github.com/tinypb/tinypb-go/diagnostics"
)

// Typed-fragment accessors. Raw string overrides are stored verbatim at
// registration time and only converted here, on demand, each time the
// emission stage asks for them. Most overrides are never exercised for most
// elements (renames are rare, skipped elements are never rendered), so eager
// parsing at registration would do wasted work and would surface failures
// far from where the value is actually needed.
//
// Every accessor is a pure function of the raw string. Conversion failures
// are diagnostics.MalformedOverrideError naming the element path and the
// attribute; resolution itself never fails.

// Attribute names used in error reporting. These match the rule-file keys.
const (
	attrFieldAttributes  = "field_attributes"
	attrTypeAttributes   = "type_attributes"
	attrHazzerAttributes = "hazzer_attributes"
	attrRenameField      = "rename_field"
	attrVecType          = "vec_type"
	attrStringType       = "string_type"
	attrMapType          = "map_type"
	attrCustomField      = "custom_field"
)

// FieldAttrs parses the field attribute-injection text. Absent text yields
// an empty list.
func (c *Config) FieldAttrs() ([]Attr, error) {
	return c.attrs(c.FieldAttributes, attrFieldAttributes)
}

// TypeAttrs parses the type attribute-injection text.
func (c *Config) TypeAttrs() ([]Attr, error) {
	return c.attrs(c.TypeAttributes, attrTypeAttributes)
}

// HazzerAttrs parses the hazzer attribute-injection text.
func (c *Config) HazzerAttrs() ([]Attr, error) {
	return c.attrs(c.HazzerAttributes, attrHazzerAttributes)
}

func (c *Config) attrs(raw *string, attribute string) ([]Attr, error) {
	if raw == nil {
		return nil, nil
	}
	attrs, err := parseAttrList(*raw)
	if err != nil {
		return nil, diagnostics.NewMalformedOverrideError(c.path, attribute, *raw, err)
	}
	return attrs, nil
}

// FieldName returns the generated field name: the rename override when one
// is present, otherwise the supplied original name unchanged. A rename that
// is not a valid Go identifier is a malformed override.
func (c *Config) FieldName(original string) (string, error) {
	if c.RenameField == nil {
		return original, nil
	}
	name := *c.RenameField
	if !token.IsIdentifier(name) {
		return "", diagnostics.NewMalformedOverrideError(
			c.path, attrRenameField, name, errors.New("not a valid identifier"))
	}
	return name, nil
}

// VecTypeRef parses the repeated-container type override. The expression is
// nil when no override is present.
func (c *Config) VecTypeRef() (ast.Expr, error) {
	return c.typeRef(c.VecType, attrVecType)
}

// StringTypeRef parses the string type override.
func (c *Config) StringTypeRef() (ast.Expr, error) {
	return c.typeRef(c.StringType, attrStringType)
}

// MapTypeRef parses the map type override.
func (c *Config) MapTypeRef() (ast.Expr, error) {
	return c.typeRef(c.MapType, attrMapType)
}

func (c *Config) typeRef(raw *string, attribute string) (ast.Expr, error) {
	if raw == nil {
		return nil, nil
	}
	expr, err := parseTypeExpr(*raw)
	if err != nil {
		return nil, diagnostics.NewMalformedOverrideError(c.path, attribute, *raw, err)
	}
	return expr, nil
}

// ParsedCustomField is the typed form of a custom-field override. Exactly
// one of Type and Delegate is set, according to Kind.
type ParsedCustomField struct {
	Kind     CustomFieldKind
	Type     ast.Expr
	Delegate string
}

// CustomFieldParsed converts the custom-field override into its typed form.
// Requesting it from a Config with no custom-field override present is a
// caller contract violation and yields diagnostics.MissingCustomFieldError.
func (c *Config) CustomFieldParsed() (ParsedCustomField, error) {
	if c.CustomField == nil {
		return ParsedCustomField{}, diagnostics.NewMissingCustomFieldError(c.path)
	}
	cf := *c.CustomField
	switch cf.Kind {
	case CustomFieldType:
		expr, err := parseTypeExpr(cf.Raw)
		if err != nil {
			return ParsedCustomField{}, diagnostics.NewMalformedOverrideError(
				c.path, attrCustomField, cf.Raw, err)
		}
		return ParsedCustomField{Kind: CustomFieldType, Type: expr}, nil
	case CustomFieldDelegate:
		if !token.IsIdentifier(cf.Raw) {
			return ParsedCustomField{}, diagnostics.NewMalformedOverrideError(
				c.path, attrCustomField, cf.Raw, errors.New("not a valid identifier"))
		}
		return ParsedCustomField{Kind: CustomFieldDelegate, Delegate: cf.Raw}, nil
	default:
		return ParsedCustomField{}, diagnostics.NewMalformedOverrideError(
			c.path, attrCustomField, cf.Raw, fmt.Errorf("unknown custom field kind %d", cf.Kind))
	}
}

// Verify eagerly parses every lazy fragment present on the bag and returns
// the failures. Generation itself never calls this; it exists for a
// validation pass that wants all errors up front instead of at first use.
func (c *Config) Verify() []error {
	var errs []error
	collect := func(err error) {
		if err != nil {
			errs = append(errs, err)
		}
	}

	_, err := c.FieldAttrs()
	collect(err)
	_, err = c.TypeAttrs()
	collect(err)
	_, err = c.HazzerAttrs()
	collect(err)
	_, err = c.FieldName("x")
	collect(err)
	_, err = c.VecTypeRef()
	collect(err)
	_, err = c.StringTypeRef()
	collect(err)
	_, err = c.MapTypeRef()
	collect(err)
	if c.CustomField != nil {
		_, err = c.CustomFieldParsed()
		collect(err)
	}
	return errs
}

// parseTypeExpr parses a type reference by parsing a minimal Go file around
// it. parser.ParseExpr alone would accept strings that happen to parse as
// value expressions but are not types.
func parseTypeExpr(raw string) (ast.Expr, error) {
	src := fmt.Sprintf("package p\nvar x %s", raw)
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, "", src, 0)
	if err != nil {
		return nil, err
	}
	if len(f.Decls) != 1 {
		return nil, errors.New("not a single type expression")
	}
	genDecl, ok := f.Decls[0].(*ast.GenDecl)
	if !ok || len(genDecl.Specs) != 1 {
		return nil, errors.New("not a type expression")
	}
	valueSpec, ok := genDecl.Specs[0].(*ast.ValueSpec)
	if !ok || valueSpec.Type == nil || len(valueSpec.Values) != 0 || len(valueSpec.Names) != 1 {
		return nil, errors.New("not a type expression")
	}
	return valueSpec.Type, nil
}
