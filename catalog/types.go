package catalog

import (
	"encoding/json"
	"strconv"
)

// CellKind tells whether a normalized cell carries a boolean or free text.
type CellKind uint8

const (
	// KindBool marks cells that were empty, a missing marker or exactly "x".
	KindBool CellKind = iota
	// KindText marks every other cell.
	KindText
)

// Cell is a single normalized value of the data table.
type Cell struct {
	Kind CellKind
	Bool bool
	Text string
}

// BoolCell returns a boolean cell.
func BoolCell(v bool) Cell {
	return Cell{Kind: KindBool, Bool: v}
}

// TextCell returns a free-text cell.
func TextCell(s string) Cell {
	return Cell{Kind: KindText, Text: s}
}

// IsTrue reports whether the cell is the boolean true.
func (c Cell) IsTrue() bool {
	return c.Kind == KindBool && c.Bool
}

// String renders the cell for display.
func (c Cell) String() string {
	if c.Kind == KindBool {
		return strconv.FormatBool(c.Bool)
	}
	return c.Text
}

// MarshalJSON encodes booleans as JSON booleans and text as strings.
func (c Cell) MarshalJSON() ([]byte, error) {
	if c.Kind == KindBool {
		return json.Marshal(c.Bool)
	}
	return json.Marshal(c.Text)
}

// Category is one filterable main label with its subcategories in first-seen order.
type Category struct {
	Name          string   `json:"name"`
	Subcategories []string `json:"subcategories"`
}

// CategoryIndex lists the categories in the order they first appear in the header.
type CategoryIndex []Category

// Find returns the category with the given name.
func (idx CategoryIndex) Find(name string) (Category, bool) {
	for _, c := range idx {
		if c.Name == name {
			return c, true
		}
	}
	return Category{}, false
}

// Has reports whether the composite key cat | sub exists in the index.
func (idx CategoryIndex) Has(cat, sub string) bool {
	c, ok := idx.Find(cat)
	if !ok {
		return false
	}
	for _, s := range c.Subcategories {
		if s == sub {
			return true
		}
	}
	return false
}

// Table is the normalized data table produced by the loader.
type Table struct {
	Path       string
	Columns    []string
	Rows       [][]Cell
	Categories CategoryIndex
}

// Product is one data row with its designated fields bound.
type Product struct {
	Row              int
	Name             Cell
	ActiveIngredient Cell
	CareIngredient   Cell
	Claim            Cell

	features map[string]bool
}

// Has reports whether the feature column with the given identity is true.
// Unknown identities are false.
func (p Product) Has(column string) bool {
	return p.features[column]
}

// Catalog is the loaded product set together with its filter structure.
type Catalog struct {
	Path       string
	Columns    []string
	Schema     Schema
	Products   []Product
	Categories CategoryIndex
	Warnings   []string
}

// Result is the answer to one selection query.
type Result struct {
	Selection Selection
	Products  []Product
	Total     int
	// Unknown lists selected keys that no column carries.
	Unknown []string
}
