package catalog

import "strings"

// Separator joins the main and sub header labels of a feature column.
const Separator = " | "

// ColumnKey returns the composite identity of a category/subcategory pair.
func ColumnKey(category, subcategory string) string {
	return category + Separator + subcategory
}

// SplitColumn splits a composite identity on the first separator and trims both halves.
func SplitColumn(column string) (string, string, bool) {
	cat, sub, ok := strings.Cut(column, Separator)
	if !ok {
		return "", "", false
	}
	return strings.TrimSpace(cat), strings.TrimSpace(sub), true
}

// CompositeColumns merges the two header rows into one identity per column.
// A missing sub label leaves the main label alone and a missing main label
// is empty. With carryMain, an empty main label inherits the last non-empty one.
func CompositeColumns(mainRow, subRow []string, width int, carryMain bool) []string {
	columns := make([]string, width)
	lastMain := ""
	for i := 0; i < width; i++ {
		main := headerCell(mainRow, i)
		sub := headerCell(subRow, i)
		if main == "" && carryMain {
			main = lastMain
		}
		if main != "" {
			lastMain = main
		}
		if sub == "" {
			columns[i] = main
			continue
		}
		columns[i] = main + Separator + sub
	}
	return columns
}

func headerCell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	label := normalizeLabel(row[i])
	if IsMissing(label) {
		return ""
	}
	return label
}

// BuildCategoryIndex groups all composite identities by their main label.
func BuildCategoryIndex(columns []string) CategoryIndex {
	var idx CategoryIndex
	pos := make(map[string]int)
	for _, col := range columns {
		cat, sub, ok := SplitColumn(col)
		if !ok {
			continue
		}
		i, seen := pos[cat]
		if !seen {
			i = len(idx)
			pos[cat] = i
			idx = append(idx, Category{Name: cat})
		}
		if containsString(idx[i].Subcategories, sub) {
			continue
		}
		idx[i].Subcategories = append(idx[i].Subcategories, sub)
	}
	return idx
}

func containsString(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}
