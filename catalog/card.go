package catalog

import (
	"fmt"
	"path/filepath"
	"strings"
)

// ImagePath returns the product picture location: spaces become underscores, .png is appended.
func ImagePath(dir, name string) string {
	file := strings.ReplaceAll(strings.TrimSpace(name), " ", "_") + ".png"
	if dir == "" {
		return file
	}
	return filepath.Join(dir, file)
}

// CardField is one labeled line of a product card.
type CardField struct {
	Icon  string
	Label string
	Value string
}

// Card is the display form of a product.
type Card struct {
	Title     string
	Name      string
	ImagePath string
	Fields    []CardField
}

// NewCard prepares the display form of p.
func NewCard(p Product, imageDir string) Card {
	name := p.Name.String()
	return Card{
		Title:     "⭐ " + name,
		Name:      name,
		ImagePath: ImagePath(imageDir, name),
		Fields: []CardField{
			{Icon: "🧪", Label: "Wirkstoff", Value: p.ActiveIngredient.String()},
			{Icon: "🌿", Label: "Pflegestoff", Value: p.CareIngredient.String()},
			{Icon: "🎯", Label: "Auslobung", Value: p.Claim.String()},
		},
	}
}

// Markdown renders the three labeled fields, one paragraph each.
func (c Card) Markdown() string {
	var b strings.Builder
	for i, f := range c.Fields {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "**%s %s:** %s", f.Icon, f.Label, f.Value)
	}
	return b.String()
}

// Document renders a heading per card followed by its fields.
func Document(cards []Card) string {
	var b strings.Builder
	for i, c := range cards {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "## %s\n\n%s", c.Title, c.Markdown())
	}
	return b.String()
}
