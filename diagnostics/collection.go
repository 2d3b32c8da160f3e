package diagnostics

import (
	"bytes"
	"fmt"

	"github.com/fatih/color"
)

// Diagnostics accumulates configuration errors during a generator run. It
// exists so validation does not stop at the first malformed override and can
// show all of them at once.
type Diagnostics struct {
	errors []ConfigError
}

// NewDiagnostics returns an empty collection.
func NewDiagnostics() *Diagnostics {
	return &Diagnostics{}
}

// PushError adds an error to the collection.
func (d *Diagnostics) PushError(err ConfigError) {
	d.errors = append(d.errors, err)
}

// Errors returns all errors in the collection.
func (d *Diagnostics) Errors() []ConfigError {
	return d.errors
}

// HasErrors reports whether the collection holds at least one error.
func (d *Diagnostics) HasErrors() bool {
	return len(d.errors) > 0
}

// ToResult returns an error summarizing the collection, or nil when empty.
func (d *Diagnostics) ToResult() error {
	if d.HasErrors() {
		return fmt.Errorf("configuration failed with %d error(s)", len(d.errors))
	}
	return nil
}

// ToPrettyString formats all errors, one per line, with the element path
// highlighted.
func (d *Diagnostics) ToPrettyString() string {
	var buf bytes.Buffer
	red := color.New(color.FgRed, color.Bold)
	cyan := color.New(color.FgCyan)
	for _, err := range d.errors {
		red.Fprint(&buf, "error")
		fmt.Fprint(&buf, ": ", err.Error(), " [")
		cyan.Fprint(&buf, err.Path())
		fmt.Fprintln(&buf, "]")
	}
	return buf.String()
}
