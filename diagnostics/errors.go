// Package diagnostics defines the error kinds reported by the
// configuration-resolution engine and a collection for accumulating them, so
// the CLI can show every offending override in one run instead of stopping
// at the first.
package diagnostics

import "fmt"

// ConfigError is an error attributed to one schema element path.
type ConfigError interface {
	error
	Path() string
}

// MalformedOverrideError reports a raw string override that cannot be parsed
// into the typed fragment requested. It surfaces at first use of the
// fragment, never at registration time, and always reflects a user-authored
// override string.
type MalformedOverrideError struct {
	path      string
	attribute string
	raw       string
	cause     error
}

// NewMalformedOverrideError creates a MalformedOverrideError for the given
// element path and attribute name.
func NewMalformedOverrideError(path, attribute, raw string, cause error) MalformedOverrideError {
	return MalformedOverrideError{path: path, attribute: attribute, raw: raw, cause: cause}
}

func (e MalformedOverrideError) Error() string {
	msg := fmt.Sprintf("malformed override %q for attribute %q at %q", e.raw, e.attribute, e.path)
	if e.cause != nil {
		msg += ": " + e.cause.Error()
	}
	return msg
}

// Path returns the element path the override was resolved for.
func (e MalformedOverrideError) Path() string { return e.path }

// Attribute returns the attribute name the override was registered under.
func (e MalformedOverrideError) Attribute() string { return e.attribute }

// Raw returns the verbatim override string.
func (e MalformedOverrideError) Raw() string { return e.raw }

func (e MalformedOverrideError) Unwrap() error { return e.cause }

// MissingCustomFieldError reports that a custom-field-typed fragment was
// requested from a Config with no custom-field override present. This is a
// contract violation in the calling stage, which must check presence first;
// it is not a user configuration error and should be treated as fatal.
type MissingCustomFieldError struct {
	path string
}

// NewMissingCustomFieldError creates a MissingCustomFieldError for the given
// element path.
func NewMissingCustomFieldError(path string) MissingCustomFieldError {
	return MissingCustomFieldError{path: path}
}

func (e MissingCustomFieldError) Error() string {
	return fmt.Sprintf("no custom_field override present at %q: check HasCustomField before requesting the parsed form", e.path)
}

// Path returns the element path the Config was resolved for.
func (e MissingCustomFieldError) Path() string { return e.path }
