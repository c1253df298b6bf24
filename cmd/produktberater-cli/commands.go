package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"yashubustudio/produktberater/catalog"
)

var headingStyle = lipgloss.NewStyle().Bold(true)

func newCategoriesCmd(st *cliState) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List the filter categories and their subcategories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := st.svc.Catalog(cmd.Context())
			if err != nil {
				return describeError(err)
			}
			out := cmd.OutOrStdout()
			if len(cat.Categories) == 0 {
				fmt.Fprintln(out, "(keine Kategorien)")
				return nil
			}
			for _, c := range cat.Categories {
				fmt.Fprintln(out, headingStyle.Render(c.Name))
				for _, sub := range c.Subcategories {
					fmt.Fprintf(out, "  - %s\n", sub)
				}
			}
			return nil
		},
	}
}

func newFilterCmd(st *cliState) *cobra.Command {
	var (
		selects []string
		format  string
		style   string
	)
	cmd := &cobra.Command{
		Use:   "filter",
		Short: "Print the products matching a selection",
		Example: `  produktberater-cli filter --select "Kategorie=Feuchtigkeit,Reinigung"
  produktberater-cli filter -s Kategorie=Reinigung -s Tierart=Kuh --format csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sel, err := catalog.ParseSelection(selects)
			if err != nil {
				return err
			}
			res, err := st.svc.Query(cmd.Context(), sel)
			if err != nil {
				return describeError(err)
			}
			st.logger.Info("filtered", zap.Int("matched", len(res.Products)), zap.Int("total", res.Total))
			return writeResult(cmd.OutOrStdout(), res, st.cfg.ImageDir, format, style)
		},
	}
	cmd.Flags().StringArrayVarP(&selects, "select", "s", nil, "Selection as category=sub1,sub2 (repeatable; labels containing a comma cannot be selected)")
	cmd.Flags().StringVarP(&format, "format", "f", formatPretty, "Output format: pretty, markdown, csv or plain")
	cmd.Flags().StringVar(&style, "style", "auto", "glamour style for the pretty format")
	return cmd
}

func newValidateCmd(st *cliState) *cobra.Command {
	var strict bool
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check that the product sheet loads and all designated fields are present",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := st.svc.Catalog(cmd.Context())
			if err != nil {
				return describeError(err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Datei:      %s\n", cat.Path)
			fmt.Fprintf(out, "Spalten:    %d\n", len(cat.Columns))
			fmt.Fprintf(out, "Kategorien: %d\n", len(cat.Categories))
			fmt.Fprintf(out, "Produkte:   %d\n", len(cat.Products))
			fmt.Fprintf(out, "Felder:     %s\n", schemaSummary(cat))
			for _, w := range cat.Warnings {
				fmt.Fprintf(out, "Warnung:    %s\n", w)
			}
			if strict && len(cat.Warnings) > 0 {
				return fmt.Errorf("%d coercion warning(s)", len(cat.Warnings))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "Fail when a designated text field holds a boolean")
	return cmd
}

func schemaSummary(cat *catalog.Catalog) string {
	s := cat.Schema
	parts := []string{
		fmt.Sprintf("name=%q", cat.Columns[s.Name]),
		fmt.Sprintf("wirkstoff=%q", cat.Columns[s.ActiveIngredient]),
		fmt.Sprintf("pflegestoff=%q", cat.Columns[s.CareIngredient]),
		fmt.Sprintf("auslobung=%q", cat.Columns[s.Claim]),
	}
	return strings.Join(parts, " ")
}

// describeError adds the user-facing hint for the two fatal error kinds.
func describeError(err error) error {
	var loadErr *catalog.LoadError
	if errors.As(err, &loadErr) {
		return fmt.Errorf("Fehler beim Laden der Datei: %w", err)
	}
	var schemaErr *catalog.SchemaMismatchError
	if errors.As(err, &schemaErr) {
		return fmt.Errorf("Spalte für %s fehlt: %w", schemaErr.Field, err)
	}
	return err
}
