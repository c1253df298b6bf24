package catalog

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

const trueMarker = "x"

// missingTokens are the exact cell values spreadsheet exports write for an
// empty cell. They match the default NA markers of common CSV readers.
var missingTokens = map[string]struct{}{
	"": {}, "#N/A": {}, "#N/A N/A": {}, "#NA": {}, "-1.#IND": {}, "-1.#QNAN": {},
	"-NaN": {}, "-nan": {}, "1.#IND": {}, "1.#QNAN": {}, "<NA>": {}, "N/A": {},
	"NA": {}, "NULL": {}, "NaN": {}, "None": {}, "n/a": {}, "nan": {}, "null": {},
}

// IsMissing reports whether the raw value stands for an empty cell.
func IsMissing(raw string) bool {
	_, ok := missingTokens[raw]
	return ok
}

// NormalizeCell applies the blanket coercion used for every data column:
// empty or missing values become false, "x" becomes true and anything else
// stays text.
func NormalizeCell(raw string) Cell {
	switch {
	case IsMissing(raw):
		return BoolCell(false)
	case raw == trueMarker:
		return BoolCell(true)
	default:
		return TextCell(raw)
	}
}

// NormalizeRow pads the row to width and normalizes each cell.
func NormalizeRow(row []string, width int) []Cell {
	out := make([]Cell, width)
	for i := 0; i < width; i++ {
		if i < len(row) {
			out[i] = NormalizeCell(row[i])
		} else {
			out[i] = NormalizeCell("")
		}
	}
	return out
}

// normalizeLabel cleans a header cell: NFC, no BOM, no control characters, trimmed.
func normalizeLabel(s string) string {
	s = strings.TrimPrefix(s, "\ufeff")
	s = norm.NFC.String(s)
	s = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) && r != '\t' {
			return -1
		}
		return r
	}, s)
	return strings.TrimSpace(s)
}
