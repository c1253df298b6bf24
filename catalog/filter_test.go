package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exampleProducts mirrors three rows A, B, C over two Kategorie columns.
func exampleProducts() []Product {
	mk := func(name string, moist, clean bool) Product {
		return Product{
			Name: TextCell(name),
			features: map[string]bool{
				"Pflege":                   false,
				"Kategorie | Feuchtigkeit": moist,
				"Kategorie | Reinigung":    clean,
			},
		}
	}
	return []Product{
		mk("A", true, false),
		mk("B", false, false),
		mk("C", true, true),
	}
}

func TestFilterExampleScenario(t *testing.T) {
	rows := exampleProducts()

	got := Filter(rows, Selection{"Kategorie": {"Feuchtigkeit", "Reinigung"}})
	assert.Equal(t, []string{"A", "C"}, names(got))

	got = Filter(rows, Selection{"Kategorie": {"Feuchtigkeit"}})
	assert.Equal(t, []string{"A", "C"}, names(got))

	got = Filter(rows, Selection{})
	assert.Equal(t, []string{"A", "B", "C"}, names(got))
}

func TestFilterEmptySelectionReturnsAll(t *testing.T) {
	cat := loadSample(t)

	assert.Equal(t, names(cat.Products), names(Filter(cat.Products, nil)))
	assert.Equal(t, names(cat.Products), names(Filter(cat.Products, Selection{"Kategorie": nil})))
}

func TestFilterAndAcrossOrWithin(t *testing.T) {
	cat := loadSample(t)

	tests := []struct {
		name string
		sel  Selection
		want []string
	}{
		{"single", Selection{"Kategorie": {"Reinigung"}}, []string{"Melkfett Plus"}},
		{"or within", Selection{"Tierart": {"Kuh", "Ziege"}}, []string{"Euter Balsam", "Zitzen Dip", "Melkfett Plus"}},
		{"and across", Selection{"Kategorie": {"Feuchtigkeit"}, "Tierart": {"Ziege"}}, []string{"Melkfett Plus"}},
		{"unknown sub is false", Selection{"Kategorie": {"Glanz"}}, []string{}},
		{"unknown category is false", Selection{"Farbe": {"Blau"}}, []string{}},
		{"unknown next to known", Selection{"Kategorie": {"Glanz", "Feuchtigkeit"}}, []string{"Euter Balsam", "Melkfett Plus"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, names(Filter(cat.Products, tt.sel)))
		})
	}
}

func TestFilterMonotonicWithinCategory(t *testing.T) {
	cat := loadSample(t)
	subs := cat.Categories[0].Subcategories

	prev := -1
	for i := 1; i <= len(subs); i++ {
		n := len(Filter(cat.Products, Selection{cat.Categories[0].Name: subs[:i]}))
		assert.GreaterOrEqual(t, n, prev)
		prev = n
	}
}

func TestFilterConjunctionNeverGrows(t *testing.T) {
	cat := loadSample(t)
	base := Selection{"Tierart": {"Kuh", "Ziege"}}
	before := len(Filter(cat.Products, base))

	for _, sub := range cat.Categories[0].Subcategories {
		narrowed := base.Clone()
		narrowed["Kategorie"] = []string{sub}
		assert.LessOrEqual(t, len(Filter(cat.Products, narrowed)), before)
	}
}

func TestFilterPreservesOrder(t *testing.T) {
	cat := loadSample(t)
	sel := Selection{"Tierart": {"Ziege", "Kuh"}}

	got := Filter(cat.Products, sel)

	last := -1
	for _, p := range got {
		assert.Greater(t, p.Row, last, "rows must be strictly increasing")
		last = p.Row
	}
}

func TestFilterDoesNotAliasInput(t *testing.T) {
	rows := exampleProducts()
	got := Filter(rows, nil)
	got[0] = Product{Name: TextCell("Z")}
	assert.Equal(t, "A", rows[0].Name.String())
}

func TestParseSelection(t *testing.T) {
	sel, err := ParseSelection([]string{
		"Kategorie=Feuchtigkeit, Reinigung",
		"Tierart=Kuh",
		"Kategorie=Reinigung,",
	})
	require.NoError(t, err)
	assert.Equal(t, Selection{
		"Kategorie": {"Feuchtigkeit", "Reinigung"},
		"Tierart":   {"Kuh"},
	}, sel)
	assert.Equal(t, "Kategorie=Feuchtigkeit,Reinigung; Tierart=Kuh", sel.String())

	_, err = ParseSelection([]string{"Kategorie"})
	assert.Error(t, err)
	_, err = ParseSelection([]string{"=Kuh"})
	assert.Error(t, err)
}

func TestSelectionUnknown(t *testing.T) {
	cat := loadSample(t)
	sel := Selection{"Kategorie": {"Feuchtigkeit", "Glanz"}, "Farbe": {"Blau"}}

	assert.Equal(t, []string{"Farbe | Blau", "Kategorie | Glanz"}, sel.Unknown(cat.Categories))
}

func TestFilterOnColumnAlsoBoundAsField(t *testing.T) {
	content := "Produktname;Wirkstoff;Wirkstoff;Pflegestoff;Auslobung\n" +
		";Jod;Chlorhexidin;;\n" +
		"Euter Balsam;x;;Lanolin;Pflegt\n" +
		"Zitzen Dip;;x;Glycerin;Desinfiziert\n"
	cat, err := Load(writeLatin1(t, content), LoadOptions{})
	require.NoError(t, err)
	require.Equal(t, 1, cat.Schema.ActiveIngredient)
	require.Equal(t, CategoryIndex{{Name: "Wirkstoff", Subcategories: []string{"Jod", "Chlorhexidin"}}}, cat.Categories)

	assert.Equal(t, []string{"Euter Balsam"}, names(Filter(cat.Products, Selection{"Wirkstoff": {"Jod"}})))
	assert.Equal(t, []string{"Zitzen Dip"}, names(Filter(cat.Products, Selection{"Wirkstoff": {"Chlorhexidin"}})))
	assert.Equal(t, []string{"Euter Balsam", "Zitzen Dip"}, names(Filter(cat.Products, Selection{"Wirkstoff": {"Jod", "Chlorhexidin"}})))
}
