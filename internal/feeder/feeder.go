// Package feeder loads benchmark inputs from CSV and JSON files and exposes
// them as lazy sequences for sequence-driven runners.
package feeder

import (
	"errors"
	"fmt"
	"iter"
	"path/filepath"
	"strconv"
	"strings"
)

// Record represents a single row of data with named fields.
type Record map[string]string

// Type names an input file format.
type Type string

const (
	TypeCSV  Type = "csv"
	TypeJSON Type = "json"
)

// ErrMissingField is returned when a record lacks a requested field.
var ErrMissingField = errors.New("record has no such field")

// Source is an in-memory dataset loaded from a file.
type Source struct {
	records []Record
}

// Load reads path as the given type. An empty type is inferred from the file
// extension.
func Load(path string, typ Type) (*Source, error) {
	if typ == "" {
		typ = Type(strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), "."))
	}
	switch typ {
	case TypeCSV:
		return NewCSVSource(path)
	case TypeJSON:
		return NewJSONSource(path)
	default:
		return nil, fmt.Errorf("unsupported input type %q (use csv or json)", typ)
	}
}

// All yields every record once, in file order. Ranging over it again starts
// from the first record, so it can be passed to runner.Cycle.
func (s *Source) All() iter.Seq[Record] {
	return func(yield func(Record) bool) {
		for _, record := range s.records {
			if !yield(record) {
				return
			}
		}
	}
}

// Len returns the total number of records in the dataset.
func (s *Source) Len() int {
	return len(s.records)
}

// Uint parses field as an unsigned integer.
func (r Record) Uint(field string) (uint64, error) {
	raw, ok := r[field]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrMissingField, field)
	}
	v, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("field %q: %w", field, err)
	}
	return v, nil
}
