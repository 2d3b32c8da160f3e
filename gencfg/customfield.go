package gencfg

// CustomFieldKind distinguishes the two mutually exclusive custom-field
// variants.
type CustomFieldKind int

const (
	// CustomFieldType fully replaces the field's type with a user-supplied
	// type reference.
	CustomFieldType CustomFieldKind = iota
	// CustomFieldDelegate leaves the field to an externally defined accessor
	// named by an identifier.
	CustomFieldDelegate
)

// CustomField is the raw, unparsed form of a custom-field override: a
// variant tag plus the verbatim string captured at registration time. The
// string is only parsed when CustomFieldParsed is called.
type CustomField struct {
	Kind CustomFieldKind
	Raw  string
}

// CustomType declares a full replacement type for the field.
func CustomType(typeRef string) CustomField {
	return CustomField{Kind: CustomFieldType, Raw: typeRef}
}

// CustomDelegate delegates the field to an externally defined accessor.
func CustomDelegate(ident string) CustomField {
	return CustomField{Kind: CustomFieldDelegate, Raw: ident}
}
