package importer

import (
	"fmt"
	"strings"
)

// userRowOffset converts a zero-based template index into the line number
// the user sees in a spreadsheet (one header line, one-based counting).
const userRowOffset = 2

// DiagCode identifies a diagnostic class.
type DiagCode string

// Diagnostic classes. NarrowerType is advisory, everything else blocks
// compilation.
const (
	DiagInvalidSchemaName  DiagCode = "InvalidSchemaName"
	DiagMissingMediaColumn DiagCode = "MissingMediaColumn"
	DiagDuplicateAttribute DiagCode = "DuplicateAttribute"
	DiagInvalidType        DiagCode = "InvalidType"
	DiagRequiredMissing    DiagCode = "RequiredMissing"
	DiagDuplicateUnique    DiagCode = "DuplicateUnique"
	DiagInvalidValue       DiagCode = "InvalidValue"
	DiagNarrowerType       DiagCode = "NarrowerType"
)

// Diagnostic is one user-correctable finding. Property names the column
// involved, Row is the zero-based template index where applicable and
// Rows lists every occurrence for duplicate findings.
type Diagnostic struct {
	Code     DiagCode
	Property string
	Type     string
	Value    string
	Row      int
	Rows     []int
}

// Advisory reports whether the diagnostic annotates without blocking
// compilation.
func (d Diagnostic) Advisory() bool {
	return d.Code == DiagNarrowerType
}

// String renders the diagnostic for the user, with template indexes
// shifted to spreadsheet line numbers.
func (d Diagnostic) String() string {
	switch d.Code {
	case DiagInvalidSchemaName:
		return fmt.Sprintf("%q is not a valid schema name (a-z, 1-5 and dots, 12 characters max, no trailing dot)", d.Value)
	case DiagMissingMediaColumn:
		return "the table must contain an img or video column"
	case DiagDuplicateAttribute:
		return fmt.Sprintf("attribute %q is declared more than once, attribute names are case-insensitive", d.Property)
	case DiagInvalidType:
		return fmt.Sprintf("column %q declares unknown type %q", d.Property, d.Type)
	case DiagRequiredMissing:
		return fmt.Sprintf("required column %q is empty on line %d", d.Property, d.Row+userRowOffset)
	case DiagDuplicateUnique:
		lines := make([]string, len(d.Rows))
		for i, r := range d.Rows {
			lines[i] = fmt.Sprintf("%d", r+userRowOffset)
		}
		return fmt.Sprintf("unique column %q repeats value %q on lines %s", d.Property, d.Value, strings.Join(lines, ", "))
	case DiagInvalidValue:
		return fmt.Sprintf("column %q has invalid %s value %q on line %d", d.Property, d.Type, d.Value, d.Row+userRowOffset)
	case DiagNarrowerType:
		return fmt.Sprintf("column %q fits %s, consider narrowing from %s", d.Property, d.Value, d.Type)
	}
	return string(d.Code)
}

// Diagnostics is the complete finding set of one validation pass.
type Diagnostics []Diagnostic

// Error implements the error interface.
func (ds Diagnostics) Error() string {
	msgs := make([]string, len(ds))
	for i, d := range ds {
		msgs[i] = d.String()
	}
	return strings.Join(msgs, "; ")
}

// Blocking returns only the findings that prevent compilation.
func (ds Diagnostics) Blocking() Diagnostics {
	var out Diagnostics
	for _, d := range ds {
		if !d.Advisory() {
			out = append(out, d)
		}
	}
	return out
}

// Advisories returns only the non-blocking findings.
func (ds Diagnostics) Advisories() Diagnostics {
	var out Diagnostics
	for _, d := range ds {
		if d.Advisory() {
			out = append(out, d)
		}
	}
	return out
}
