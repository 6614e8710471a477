package reference

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/hupe1980/flagcol/attr"
)

type csvOptions struct {
	nameColumn        string
	bitColumn         string
	descriptionColumn string
	refOptions        []Option
}

// CSVOption configures CSV reference loading.
type CSVOption func(*csvOptions)

// WithNameColumn sets the column holding the flag name. Default "name".
func WithNameColumn(column string) CSVOption {
	return func(o *csvOptions) {
		o.nameColumn = column
	}
}

// WithBitColumn sets the column holding the bit position. When the
// column is absent from the header, positions are assigned by row
// order. Default "bit".
func WithBitColumn(column string) CSVOption {
	return func(o *csvOptions) {
		o.bitColumn = column
	}
}

// WithDescriptionColumn sets the column holding the human description.
// Default "description".
func WithDescriptionColumn(column string) CSVOption {
	return func(o *csvOptions) {
		o.descriptionColumn = column
	}
}

// WithReferenceOptions forwards options to the underlying New call.
func WithReferenceOptions(opts ...Option) CSVOption {
	return func(o *csvOptions) {
		o.refOptions = opts
	}
}

// FromCSV constructs a Reference from a tabular source.
//
// The first record is the header. One column supplies the unique flag
// name; an optional column supplies the bit position (row order is
// used when it is missing). Every other column becomes an extra field:
// cells are parsed as int, then float, then bool, falling back to
// string; empty cells become null.
func FromCSV(r io.Reader, version string, optFns ...CSVOption) (*Reference, error) {
	opts := csvOptions{
		nameColumn:        "name",
		bitColumn:         "bit",
		descriptionColumn: "description",
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, &ErrInvalidReference{Reason: "missing header record", cause: err}
	}

	nameIdx, bitIdx, descIdx := -1, -1, -1
	for i, col := range header {
		switch col {
		case opts.nameColumn:
			nameIdx = i
		case opts.bitColumn:
			bitIdx = i
		case opts.descriptionColumn:
			descIdx = i
		}
	}
	if nameIdx < 0 {
		return nil, &ErrInvalidReference{Reason: fmt.Sprintf("column %q not found in header", opts.nameColumn)}
	}

	var attrs []Attribute
	for row := 0; ; row++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &ErrInvalidReference{Reason: fmt.Sprintf("record %d is malformed", row+1), cause: err}
		}

		a := Attribute{Bit: row, Name: record[nameIdx]}
		if bitIdx >= 0 {
			bit, err := strconv.Atoi(record[bitIdx])
			if err != nil {
				return nil, &ErrInvalidReference{
					Reason: fmt.Sprintf("attribute %q has non-integer bit position %q", a.Name, record[bitIdx]),
					cause:  err,
				}
			}
			a.Bit = bit
		}
		if descIdx >= 0 {
			a.Description = record[descIdx]
		}

		for i, cell := range record {
			if i == nameIdx || i == bitIdx || i == descIdx {
				continue
			}
			if a.Extra == nil {
				a.Extra = make(attr.Document)
			}
			a.Extra[header[i]] = parseCell(cell)
		}
		attrs = append(attrs, a)
	}

	return New(version, attrs, opts.refOptions...)
}

// parseCell infers a typed value from a CSV cell.
func parseCell(cell string) attr.Value {
	if cell == "" {
		return attr.Null()
	}
	if i, err := strconv.ParseInt(cell, 10, 64); err == nil {
		return attr.Int(i)
	}
	if f, err := strconv.ParseFloat(cell, 64); err == nil {
		return attr.Float(f)
	}
	if b, err := strconv.ParseBool(cell); err == nil {
		return attr.Bool(b)
	}
	return attr.String(cell)
}
