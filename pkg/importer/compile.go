package importer

import (
	"sort"
	"strconv"
	"strings"

	"github.com/FACINGS/collection-manager/pkg/atomicassets"
)

// CompileConfig carries the on-chain context of one import run.
type CompileConfig struct {
	// Collection the schema and templates belong to.
	Collection string
	// Actor and Permission authorize every emitted action.
	Actor      string
	Permission string
	// Extend appends the format to an existing schema instead of
	// creating a new one.
	Extend bool
}

// ValidateAndCompile checks the parsed table against the attribute
// catalog and the column flags and, if nothing blocks, compiles the
// ordered action list: one schema action followed by one createtempl per
// data row. Any blocking diagnostic yields zero actions, the whole import
// restarts after a failure.
func ValidateAndCompile(schemaName string, t *Table, cfg CompileConfig) ([]atomicassets.Action, Diagnostics) {
	diags := validate(schemaName, t)
	if len(diags.Blocking()) > 0 {
		return nil, diags
	}

	attrs := t.AttributeHeaders()
	format := make([]atomicassets.FormatField, 0, len(attrs))
	types := make(map[string]atomicassets.AttributeType, len(attrs))
	for _, h := range attrs {
		typ, _ := atomicassets.ParseAttributeType(t.Model[h].Datatype)
		types[h] = typ
		format = append(format, atomicassets.FormatField{Name: h, Type: string(typ)})
	}

	actions := make([]atomicassets.Action, 0, len(t.Records)+1)
	if cfg.Extend {
		actions = append(actions, atomicassets.NewAction(atomicassets.ContractAssets, cfg.Actor, cfg.Permission, atomicassets.ExtendSchema{
			AuthorizedEditor:      cfg.Actor,
			CollectionName:        cfg.Collection,
			SchemaName:            schemaName,
			SchemaFormatExtension: format,
		}))
	} else {
		actions = append(actions, atomicassets.NewAction(atomicassets.ContractAssets, cfg.Actor, cfg.Permission, atomicassets.CreateSchema{
			AuthorizedCreator: cfg.Actor,
			CollectionName:    cfg.Collection,
			SchemaName:        schemaName,
			SchemaFormat:      format,
		}))
	}

	for _, rec := range t.Records {
		immutable := make([]atomicassets.AttributeValue, 0, len(attrs))
		for _, h := range attrs {
			if t.Model[h].Mutable {
				continue
			}
			raw := rec[h]
			if raw == "" {
				continue
			}
			// Validation passed already, Encode cannot fail here.
			wv, _ := types[h].Encode(raw)
			immutable = append(immutable, atomicassets.AttributeValue{Key: h, Value: wv})
		}
		actions = append(actions, atomicassets.NewAction(atomicassets.ContractAssets, cfg.Actor, cfg.Permission, atomicassets.CreateTemplate{
			AuthorizedCreator: cfg.Actor,
			CollectionName:    cfg.Collection,
			SchemaName:        schemaName,
			Transferable:      adminBool(rec, colTransferable),
			Burnable:          adminBool(rec, colBurnable),
			MaxSupply:         adminMaxSupply(rec),
			ImmutableData:     immutable,
		}))
	}
	return actions, diags
}

// validate accumulates the complete diagnostic set instead of failing on
// the first finding, so the user can fix the sheet in one pass.
func validate(schemaName string, t *Table) Diagnostics {
	var diags Diagnostics

	if !atomicassets.IsValidName(schemaName) {
		diags = append(diags, Diagnostic{Code: DiagInvalidSchemaName, Value: schemaName})
	}
	if !t.HasMediaColumn() {
		diags = append(diags, Diagnostic{Code: DiagMissingMediaColumn})
	}

	// Headers keep every source column, the Model map collapses repeats,
	// so the uniqueness check has to run on the headers themselves.
	counts := make(map[string]int, len(t.AttributeHeaders()))
	for _, h := range t.AttributeHeaders() {
		counts[strings.ToLower(h)]++
	}
	reported := make(map[string]bool)
	for _, h := range t.AttributeHeaders() {
		k := strings.ToLower(h)
		if counts[k] > 1 && !reported[k] {
			reported[k] = true
			diags = append(diags, Diagnostic{Code: DiagDuplicateAttribute, Property: k})
		}
	}

	for _, h := range t.AttributeHeaders() {
		spec := t.Model[h]
		typ, err := atomicassets.ParseAttributeType(spec.Datatype)
		if err != nil {
			diags = append(diags, Diagnostic{Code: DiagInvalidType, Property: h, Type: spec.Datatype})
			continue
		}

		var values []string
		seen := make(map[string][]int)
		for i, rec := range t.Records {
			raw := rec[h]
			values = append(values, raw)
			if raw == "" {
				if spec.Required {
					diags = append(diags, Diagnostic{Code: DiagRequiredMissing, Property: h, Row: i})
				}
				continue
			}
			if err := typ.Validate(raw); err != nil {
				diags = append(diags, Diagnostic{Code: DiagInvalidValue, Property: h, Type: string(typ), Value: raw, Row: i})
			}
			if spec.Unique {
				seen[raw] = append(seen[raw], i)
			}
		}

		if spec.Unique {
			dupes := make([]string, 0)
			for v, rows := range seen {
				if len(rows) > 1 {
					dupes = append(dupes, v)
				}
			}
			sort.Strings(dupes)
			for _, v := range dupes {
				diags = append(diags, Diagnostic{Code: DiagDuplicateUnique, Property: h, Value: v, Rows: seen[v]})
			}
		}

		if narrow, ok := atomicassets.SuggestNarrower(typ, values); ok {
			diags = append(diags, Diagnostic{Code: DiagNarrowerType, Property: h, Type: string(typ), Value: string(narrow)})
		}
	}
	return diags
}

func adminBool(rec Record, col string) bool {
	v, ok := lookupAdmin(rec, col)
	if !ok || v == "" {
		return true
	}
	return strings.EqualFold(v, "TRUE")
}

func adminMaxSupply(rec Record) uint32 {
	v, ok := lookupAdmin(rec, colMaxSupply)
	if !ok || v == "" {
		return 0
	}
	n, err := strconv.ParseUint(v, 10, 32)
	if err != nil {
		return 0
	}
	return uint32(n)
}

func lookupAdmin(rec Record, col string) (string, bool) {
	for k, v := range rec {
		if strings.EqualFold(k, col) {
			return v, true
		}
	}
	return "", false
}
