package catalog

import (
	"errors"
	"fmt"
)

var (
	// ErrNoColumns is returned when the file yields no columns at all.
	ErrNoColumns = errors.New("file has no columns")
	// ErrMissingHeader is returned when the file has fewer than two header rows.
	ErrMissingHeader = errors.New("file needs two header rows")
)

// LoadError reports that the product file could not be turned into a table.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// SchemaMismatchError reports a designated field that no column matches.
type SchemaMismatchError struct {
	Field  string
	Needle string
}

func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("no column matches %q (field %s)", e.Needle, e.Field)
}
