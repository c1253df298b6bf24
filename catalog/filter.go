package catalog

import (
	"fmt"
	"sort"
	"strings"
)

// Selection maps a category name to the subcategories chosen for it.
type Selection map[string][]string

// Active returns the categories that carry at least one subcategory, sorted.
func (s Selection) Active() []string {
	names := make([]string, 0, len(s))
	for cat, subs := range s {
		if len(subs) > 0 {
			names = append(names, cat)
		}
	}
	sort.Strings(names)
	return names
}

// Empty reports whether the selection filters nothing.
func (s Selection) Empty() bool {
	return len(s.Active()) == 0
}

// Clone returns a deep copy.
func (s Selection) Clone() Selection {
	out := make(Selection, len(s))
	for cat, subs := range s {
		out[cat] = append([]string(nil), subs...)
	}
	return out
}

// Unknown lists composite keys of the selection that the index does not know.
func (s Selection) Unknown(idx CategoryIndex) []string {
	var out []string
	for _, cat := range s.Active() {
		for _, sub := range s[cat] {
			if !idx.Has(cat, sub) {
				out = append(out, ColumnKey(cat, sub))
			}
		}
	}
	return out
}

// String renders the selection as "cat=a,b; cat2=c".
func (s Selection) String() string {
	parts := make([]string, 0, len(s))
	for _, cat := range s.Active() {
		parts = append(parts, cat+"="+strings.Join(s[cat], ","))
	}
	return strings.Join(parts, "; ")
}

// Matches reports whether the product satisfies every category of the
// selection with at least one of its subcategories.
func (s Selection) Matches(p Product) bool {
	for cat, subs := range s {
		if len(subs) == 0 {
			continue
		}
		hit := false
		for _, sub := range subs {
			if p.Has(ColumnKey(cat, sub)) {
				hit = true
				break
			}
		}
		if !hit {
			return false
		}
	}
	return true
}

// Filter returns the products matching the selection in their original order.
// An empty selection returns every product.
func Filter(products []Product, sel Selection) []Product {
	if sel.Empty() {
		out := make([]Product, len(products))
		copy(out, products)
		return out
	}
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if sel.Matches(p) {
			out = append(out, p)
		}
	}
	return out
}

// ParseSelection builds a selection from "category=sub1,sub2" arguments.
// Repeating a category adds to its subcategories. Subcategory labels
// containing a comma cannot be expressed.
func ParseSelection(args []string) (Selection, error) {
	sel := make(Selection)
	for _, arg := range args {
		cat, subs, ok := strings.Cut(arg, "=")
		cat = strings.TrimSpace(cat)
		if !ok || cat == "" {
			return nil, fmt.Errorf("invalid selection %q: want category=sub1,sub2", arg)
		}
		for _, sub := range strings.Split(subs, ",") {
			sub = strings.TrimSpace(sub)
			if sub == "" || containsString(sel[cat], sub) {
				continue
			}
			sel[cat] = append(sel[cat], sub)
		}
	}
	return sel, nil
}
