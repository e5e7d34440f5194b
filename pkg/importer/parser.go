/*
Package importer turns delimited spreadsheet text into AtomicAssets
schema and template creation actions.

The pipeline has three stages: Parse builds the header model and data
records from raw text, Validate checks them against the attribute type
catalog and the column flags, Compile emits the ordered action list. A
single blocking diagnostic discards the whole run, a schema extension
applied half-way cannot be undone on-chain so no partially valid import
is ever compiled.
*/
package importer

import (
	"fmt"
	"strings"
)

// Sysflag markers. A table carries one row per marker, together they
// define the header model.
const (
	flagDatatype = "datatype"
	flagUnique   = "unique"
	flagRequired = "required"
	flagMutable  = "mutable"
)

var sysflags = map[string]bool{
	flagDatatype: true,
	flagUnique:   true,
	flagRequired: true,
	flagMutable:  true,
}

// Administrative columns are carried on records verbatim and never become
// schema attributes.
const (
	colSysflag      = "sysflag"
	colMaxSupply    = "max_supply"
	colBurnable     = "burnable"
	colTransferable = "transferable"
)

var adminColumns = map[string]bool{
	colSysflag:      true,
	colMaxSupply:    true,
	colBurnable:     true,
	colTransferable: true,
}

// IsAdminColumn reports whether name is one of the administrative
// pass-through columns.
func IsAdminColumn(name string) bool {
	return adminColumns[strings.ToLower(name)]
}

// ColumnSpec is the header model of one column, assembled from the four
// sysflag marker rows.
type ColumnSpec struct {
	Datatype string
	Unique   bool
	Required bool
	Mutable  bool
}

// Record is one data row, keyed by column name. Administrative columns
// are present alongside attribute columns.
type Record map[string]string

// Table is the parsed form of an import sheet. Headers preserve source
// column order, which defines the on-chain schema field order.
type Table struct {
	Headers []string
	Model   map[string]ColumnSpec
	Records []Record
}

// StructuralError is reported when a table cannot be parsed at all. It is
// unrecoverable, unlike validation diagnostics.
type StructuralError string

// Error implements the error interface.
func (e StructuralError) Error() string { return string(e) }

// Parse splits the raw delimited text into headers, header model and data
// records. Line 1 holds the column headers; a trailing block of rows
// whose sysflag cell is one of the four markers defines the model; rows
// before that block are data rows, one per template.
func Parse(text string) (*Table, error) {
	lines := strings.Split(strings.ReplaceAll(text, "\r", ""), "\n")
	if len(lines) == 0 || strings.TrimSpace(lines[0]) == "" {
		return nil, StructuralError("empty table")
	}

	headers := strings.Split(lines[0], ",")
	for len(headers) > 0 && strings.TrimSpace(headers[len(headers)-1]) == "" {
		headers = headers[:len(headers)-1]
	}
	if len(headers) == 0 {
		return nil, StructuralError("no column headers")
	}
	for i, h := range headers {
		headers[i] = strings.TrimSpace(h)
	}

	// Markers live in the sysflag column when the sheet has one,
	// otherwise in the leading cell.
	flagIdx := 0
	for i, h := range headers {
		if strings.EqualFold(h, colSysflag) {
			flagIdx = i
			break
		}
	}

	var (
		rows      [][]string
		flagStart = -1
	)
	for _, line := range lines[1:] {
		if strings.TrimSpace(line) == "" {
			continue
		}
		cells := strings.Split(line, ",")
		if flagStart < 0 && flagIdx < len(cells) && sysflags[strings.ToLower(strings.TrimSpace(cells[flagIdx]))] {
			flagStart = len(rows)
		}
		rows = append(rows, cells)
	}
	if flagStart < 0 {
		return nil, StructuralError("no sysflag rows found, expected datatype/unique/required/mutable markers")
	}

	model := make(map[string]ColumnSpec, len(headers))
	for _, h := range headers {
		if !IsAdminColumn(h) {
			model[h] = ColumnSpec{}
		}
	}
	for _, cells := range rows[flagStart:] {
		flag := strings.ToLower(strings.TrimSpace(cell(cells, flagIdx)))
		if !sysflags[flag] {
			return nil, StructuralError(fmt.Sprintf("unexpected row %q inside the sysflag block", cell(cells, flagIdx)))
		}
		for i, h := range headers {
			if IsAdminColumn(h) {
				continue
			}
			spec := model[h]
			v := strings.TrimSpace(cell(cells, i))
			switch flag {
			case flagDatatype:
				spec.Datatype = v
			case flagUnique:
				spec.Unique = truthy(v)
			case flagRequired:
				spec.Required = truthy(v)
			case flagMutable:
				spec.Mutable = truthy(v)
			}
			model[h] = spec
		}
	}

	records := make([]Record, 0, flagStart)
	for _, cells := range rows[:flagStart] {
		rec := make(Record, len(headers))
		for i, h := range headers {
			rec[h] = strings.TrimSpace(cell(cells, i))
		}
		records = append(records, rec)
	}

	return &Table{Headers: headers, Model: model, Records: records}, nil
}

func cell(cells []string, i int) string {
	if i >= len(cells) {
		return ""
	}
	return cells[i]
}

func truthy(v string) bool {
	return strings.EqualFold(v, "TRUE")
}

// AttributeHeaders returns the non-administrative headers in source
// order.
func (t *Table) AttributeHeaders() []string {
	out := make([]string, 0, len(t.Headers))
	for _, h := range t.Headers {
		if !IsAdminColumn(h) {
			out = append(out, h)
		}
	}
	return out
}

// HasMediaColumn reports whether the table declares a visual attribute.
// Both accepted names are checked explicitly.
func (t *Table) HasMediaColumn() bool {
	for _, h := range t.Headers {
		if strings.EqualFold(h, "img") || strings.EqualFold(h, "video") {
			return true
		}
	}
	return false
}
