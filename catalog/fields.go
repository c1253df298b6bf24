package catalog

import (
	"fmt"
	"strings"
)

// FieldNames holds the substrings that locate the designated columns.
// Empty entries fall back to the built-in defaults.
type FieldNames struct {
	Name             string `json:"name" yaml:"name"`
	ActiveIngredient string `json:"activeIngredient" yaml:"activeIngredient"`
	CareIngredient   string `json:"careIngredient" yaml:"careIngredient"`
	Claim            string `json:"claim" yaml:"claim"`
}

// DefaultFieldNames returns the column needles of the Eimü product sheet.
func DefaultFieldNames() FieldNames {
	return FieldNames{
		Name:             "Produktname",
		ActiveIngredient: "Wirkstoff",
		CareIngredient:   "Pflegestoff",
		Claim:            "Auslobung",
	}
}

func (f FieldNames) withDefaults() FieldNames {
	defaults := DefaultFieldNames()
	return FieldNames{
		Name:             pickString(f.Name, defaults.Name),
		ActiveIngredient: pickString(f.ActiveIngredient, defaults.ActiveIngredient),
		CareIngredient:   pickString(f.CareIngredient, defaults.CareIngredient),
		Claim:            pickString(f.Claim, defaults.Claim),
	}
}

func pickString(custom, fallback string) string {
	if strings.TrimSpace(custom) == "" {
		return fallback
	}
	return custom
}

// Schema stores the column positions of the designated fields.
type Schema struct {
	Name             int
	ActiveIngredient int
	CareIngredient   int
	Claim            int
}

type fieldTarget struct {
	field  string
	needle string
	dst    *int
}

func (s *Schema) targets(f FieldNames) []fieldTarget {
	return []fieldTarget{
		{field: "name", needle: f.Name, dst: &s.Name},
		{field: "activeIngredient", needle: f.ActiveIngredient, dst: &s.ActiveIngredient},
		{field: "careIngredient", needle: f.CareIngredient, dst: &s.CareIngredient},
		{field: "claim", needle: f.Claim, dst: &s.Claim},
	}
}

// ResolveSchema picks, for every designated field, the first column whose
// identity contains the field's needle (case-sensitive).
func ResolveSchema(columns []string, fields FieldNames) (Schema, error) {
	fields = fields.withDefaults()
	var s Schema
	for _, target := range s.targets(fields) {
		idx := findColumn(columns, target.needle)
		if idx < 0 {
			return Schema{}, &SchemaMismatchError{Field: target.field, Needle: target.needle}
		}
		*target.dst = idx
	}
	return s, nil
}

func findColumn(columns []string, needle string) int {
	for i, col := range columns {
		if strings.Contains(col, needle) {
			return i
		}
	}
	return -1
}

// Bind resolves the schema against the table and builds typed products.
func Bind(table *Table, fields FieldNames) (*Catalog, error) {
	schema, err := ResolveSchema(table.Columns, fields)
	if err != nil {
		return nil, err
	}
	products := make([]Product, len(table.Rows))
	for i, row := range table.Rows {
		features := make(map[string]bool, len(row))
		for col, cell := range row {
			id := table.Columns[col]
			features[id] = features[id] || cell.IsTrue()
		}
		products[i] = Product{
			Row:              i,
			Name:             row[schema.Name],
			ActiveIngredient: row[schema.ActiveIngredient],
			CareIngredient:   row[schema.CareIngredient],
			Claim:            row[schema.Claim],
			features:         features,
		}
	}
	return &Catalog{
		Path:       table.Path,
		Columns:    table.Columns,
		Schema:     schema,
		Products:   products,
		Categories: table.Categories,
		Warnings:   coercionWarnings(table, schema, fields.withDefaults()),
	}, nil
}

// coercionWarnings lists designated text fields that ended up boolean.
func coercionWarnings(table *Table, schema Schema, fields FieldNames) []string {
	var warnings []string
	for _, target := range schema.targets(fields) {
		col := *target.dst
		var rows []string
		for i, row := range table.Rows {
			if row[col].Kind == KindBool {
				rows = append(rows, fmt.Sprint(i))
			}
		}
		if len(rows) == 0 {
			continue
		}
		warnings = append(warnings, fmt.Sprintf("column %q (%s) holds a boolean in rows %s",
			table.Columns[col], target.field, strings.Join(rows, ", ")))
	}
	return warnings
}
