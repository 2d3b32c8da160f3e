// Package gencfg implements the configuration-resolution engine of the
// tinypb generator: per-element override bags, the path-indexed store that
// holds them, and the root-to-leaf merge that produces the effective
// configuration for any schema element.
package gencfg

// Config is an attribute bag of code-generation overrides for one schema
// element. Every attribute is independently optional: a nil field means
// "inherit from the ancestor path / use the generator default", never an
// implicit zero value.
//
// Bags are constructed once during the registration phase and are read-only
// afterwards. Merge never mutates its operands.
type Config struct {
	// Field configuration
	MaxLen          *uint32      // capacity bound for repeated fields
	MaxBytes        *uint32      // capacity bound for string/bytes fields
	IntType         *IntType     // integer representation override
	FieldAttributes *string      // raw struct-tag text injected on the field
	Boxed           *bool        // generate the field behind a pointer
	VecType         *string      // raw type reference replacing the slice type
	StringType      *string      // raw type reference replacing the string type
	MapType         *string      // raw type reference replacing the map type
	NoHazzer        *bool        // suppress the presence-tracking struct
	CustomField     *CustomField // full replacement type or external delegate
	RenameField     *string      // generated field name override

	// Type configuration
	EnumIntType      *IntType // underlying integer type of generated enums
	TypeAttributes   *string  // raw struct-tag text injected on message fields
	HazzerAttributes *string  // raw struct-tag text injected on the hazzer
	NoDebugString    *bool    // suppress the generated String method

	// General configuration
	Skip *bool // exclude the element (and everything beneath it) entirely

	// path is the element path this bag was resolved for. It is set by
	// Store.Resolve and is only used to name the offending element in
	// override-parse errors.
	path string
}

// New returns a Config with every attribute absent.
func New() *Config {
	return &Config{}
}

// Path returns the element path this bag was resolved for, or "" for a
// hand-constructed bag.
func (c *Config) Path() string { return c.path }

// Merge combines two bags and returns the result, leaving both operands
// untouched. For most attributes the overlay policy applies: a value present
// in other replaces the receiver's, an absent one inherits it. CustomField
// and RenameField use the replace-wholesale policy instead: other's value
// always wins, even when absent, so a descendant with no opinion erases an
// ancestor's choice. These two are too element-specific to cascade and must
// be restated at the exact path where they apply.
//
// Merge is associative. Resolution depends on applying it strictly in
// ancestor-then-descendant order.
func (c *Config) Merge(other *Config) *Config {
	out := *c

	overlay(&out.MaxLen, other.MaxLen)
	overlay(&out.MaxBytes, other.MaxBytes)
	overlay(&out.IntType, other.IntType)
	overlay(&out.FieldAttributes, other.FieldAttributes)
	overlay(&out.Boxed, other.Boxed)
	overlay(&out.VecType, other.VecType)
	overlay(&out.StringType, other.StringType)
	overlay(&out.MapType, other.MapType)
	overlay(&out.NoHazzer, other.NoHazzer)
	overlay(&out.EnumIntType, other.EnumIntType)
	overlay(&out.TypeAttributes, other.TypeAttributes)
	overlay(&out.HazzerAttributes, other.HazzerAttributes)
	overlay(&out.NoDebugString, other.NoDebugString)
	overlay(&out.Skip, other.Skip)

	// Replace-wholesale attributes: taken from other unconditionally.
	out.CustomField = clonePtr(other.CustomField)
	out.RenameField = clonePtr(other.RenameField)

	return &out
}

// overlay applies the default merge policy to a single attribute.
func overlay[T any](dst **T, override *T) {
	if override != nil {
		*dst = clonePtr(override)
	}
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// Fluent setters, one per attribute. Setters never fail; raw strings are
// stored verbatim and only parsed when a typed fragment is requested.

// WithMaxLen bounds the element count of a repeated field.
func (c *Config) WithMaxLen(n uint32) *Config {
	c.MaxLen = &n
	return c
}

// WithMaxBytes bounds the byte length of a string or bytes field.
func (c *Config) WithMaxBytes(n uint32) *Config {
	c.MaxBytes = &n
	return c
}

// WithIntType overrides the integer representation of a numeric field.
func (c *Config) WithIntType(t IntType) *Config {
	c.IntType = &t
	return c
}

// WithFieldAttributes injects raw struct-tag text on the generated field.
func (c *Config) WithFieldAttributes(s string) *Config {
	c.FieldAttributes = &s
	return c
}

// WithBoxed generates the field behind a pointer.
func (c *Config) WithBoxed(v bool) *Config {
	c.Boxed = &v
	return c
}

// WithVecType replaces the slice type of a repeated field.
func (c *Config) WithVecType(s string) *Config {
	c.VecType = &s
	return c
}

// WithStringType replaces the string type of a string field.
func (c *Config) WithStringType(s string) *Config {
	c.StringType = &s
	return c
}

// WithMapType replaces the map type of a map field.
func (c *Config) WithMapType(s string) *Config {
	c.MapType = &s
	return c
}

// WithNoHazzer suppresses the presence-tracking struct for the field.
func (c *Config) WithNoHazzer(v bool) *Config {
	c.NoHazzer = &v
	return c
}

// WithCustomField fully replaces the field representation. See CustomField.
func (c *Config) WithCustomField(f CustomField) *Config {
	c.CustomField = &f
	return c
}

// WithRenameField overrides the generated field name.
func (c *Config) WithRenameField(s string) *Config {
	c.RenameField = &s
	return c
}

// WithEnumIntType overrides the underlying integer type of a generated enum.
func (c *Config) WithEnumIntType(t IntType) *Config {
	c.EnumIntType = &t
	return c
}

// WithTypeAttributes injects raw struct-tag text on every generated field of
// the message type.
func (c *Config) WithTypeAttributes(s string) *Config {
	c.TypeAttributes = &s
	return c
}

// WithHazzerAttributes injects raw struct-tag text on the hazzer struct.
func (c *Config) WithHazzerAttributes(s string) *Config {
	c.HazzerAttributes = &s
	return c
}

// WithNoDebugString suppresses the generated String method for the type.
func (c *Config) WithNoDebugString(v bool) *Config {
	c.NoDebugString = &v
	return c
}

// WithSkip excludes the element from generation entirely.
func (c *Config) WithSkip(v bool) *Config {
	c.Skip = &v
	return c
}

// Presence-or-default helpers used by the emission stage.

// Skipped reports whether the element is excluded from generation.
func (c *Config) Skipped() bool { return c.Skip != nil && *c.Skip }

// BoxedField reports whether the field is generated behind a pointer.
func (c *Config) BoxedField() bool { return c.Boxed != nil && *c.Boxed }

// HazzerDisabled reports whether the presence-tracking struct is suppressed.
func (c *Config) HazzerDisabled() bool { return c.NoHazzer != nil && *c.NoHazzer }

// DebugStringDisabled reports whether the String method is suppressed.
func (c *Config) DebugStringDisabled() bool {
	return c.NoDebugString != nil && *c.NoDebugString
}

// HasCustomField reports whether a custom-field override is present. Callers
// must check this before requesting the parsed form.
func (c *Config) HasCustomField() bool { return c.CustomField != nil }
