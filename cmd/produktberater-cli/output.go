package main

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/charmbracelet/glamour"

	"yashubustudio/produktberater/catalog"
)

const (
	formatPretty   = "pretty"
	formatMarkdown = "markdown"
	formatCSV      = "csv"
	formatPlain    = "plain"
)

const emptyResultMarkdown = "_Keine passenden Produkte gefunden._"

func writeResult(w io.Writer, res catalog.Result, imageDir, format, style string) error {
	cards := make([]catalog.Card, len(res.Products))
	for i, p := range res.Products {
		cards[i] = catalog.NewCard(p, imageDir)
	}
	switch format {
	case formatPretty:
		return writePretty(w, cards, style)
	case formatMarkdown:
		_, err := fmt.Fprintln(w, resultMarkdown(cards))
		return err
	case formatCSV:
		return writeCSV(w, cards)
	case formatPlain:
		for _, c := range cards {
			if _, err := fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", c.Name, c.Fields[0].Value, c.Fields[1].Value, c.Fields[2].Value); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

func resultMarkdown(cards []catalog.Card) string {
	if len(cards) == 0 {
		return emptyResultMarkdown
	}
	return catalog.Document(cards)
}

func writePretty(w io.Writer, cards []catalog.Card, style string) error {
	opt := glamour.WithAutoStyle()
	if style != "" && style != "auto" {
		opt = glamour.WithStandardStyle(style)
	}
	r, err := glamour.NewTermRenderer(opt, glamour.WithWordWrap(100))
	if err != nil {
		return fmt.Errorf("create renderer: %w", err)
	}
	out, err := r.Render(resultMarkdown(cards))
	if err != nil {
		return fmt.Errorf("render markdown: %w", err)
	}
	_, err = io.WriteString(w, out)
	return err
}

func writeCSV(w io.Writer, cards []catalog.Card) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"Produktname", "Wirkstoff", "Pflegestoff", "Auslobung", "Bild"}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, c := range cards {
		row := []string{c.Name, c.Fields[0].Value, c.Fields[1].Value, c.Fields[2].Value, c.ImagePath}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush result: %w", err)
	}
	return nil
}
