package catalog

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/transform"
)

const (
	defaultEncoding  = "iso-8859-1"
	defaultDelimiter = ';'
)

// LoadOptions controls how the product file is decoded and bound.
type LoadOptions struct {
	Encoding       string
	Delimiter      rune
	CarryMainLabel bool
	Fields         FieldNames
}

func (o LoadOptions) withDefaults() LoadOptions {
	if strings.TrimSpace(o.Encoding) == "" {
		o.Encoding = defaultEncoding
	}
	if o.Delimiter == 0 {
		o.Delimiter = defaultDelimiter
	}
	o.Fields = o.Fields.withDefaults()
	return o
}

// Load reads the product file and binds the designated fields.
// Structural failures are *LoadError, an unmet field is *SchemaMismatchError.
func Load(path string, opts LoadOptions) (*Catalog, error) {
	opts = opts.withDefaults()
	table, err := ReadTable(path, opts)
	if err != nil {
		return nil, err
	}
	return Bind(table, opts.Fields)
}

// ReadTable parses the two-row-header file into a normalized table.
func ReadTable(path string, opts LoadOptions) (*Table, error) {
	opts = opts.withDefaults()
	rows, err := ReadGrid(path, opts)
	if err != nil {
		return nil, err
	}
	width := 0
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}
	if width == 0 {
		return nil, &LoadError{Path: path, Err: ErrNoColumns}
	}
	if len(rows) < 2 {
		return nil, &LoadError{Path: path, Err: ErrMissingHeader}
	}
	columns := CompositeColumns(rows[0], rows[1], width, opts.CarryMainLabel)
	data := make([][]Cell, 0, len(rows)-2)
	for _, row := range rows[2:] {
		data = append(data, NormalizeRow(row, width))
	}
	return &Table{
		Path:       path,
		Columns:    columns,
		Rows:       data,
		Categories: BuildCategoryIndex(columns),
	}, nil
}

// ReadGrid returns every row of the file as raw string cells, decoded to UTF-8.
func ReadGrid(path string, opts LoadOptions) ([][]string, error) {
	opts = opts.withDefaults()
	enc, err := lookupEncoding(opts.Encoding)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	defer f.Close()
	reader := csv.NewReader(transform.NewReader(f, enc.NewDecoder()))
	reader.Comma = opts.Delimiter
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, &LoadError{Path: path, Err: fmt.Errorf("read rows: %w", err)}
	}
	return rows, nil
}

func lookupEncoding(name string) (encoding.Encoding, error) {
	name = strings.TrimSpace(name)
	if strings.EqualFold(name, defaultEncoding) || strings.EqualFold(name, "latin1") {
		return charmap.ISO8859_1, nil
	}
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil {
		return nil, fmt.Errorf("encoding %q: %w", name, err)
	}
	if enc == nil {
		return nil, fmt.Errorf("encoding %q is not supported", name)
	}
	return enc, nil
}
