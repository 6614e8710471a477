package codec

import (
	"github.com/hupe1980/flagcol"
	"github.com/hupe1980/flagcol/reference"
)

// Column is the packed, self-describing form of a flag matrix.
type Column struct {
	// Data is the row-major byte grid, Rows*Width bytes.
	Data []byte
	// Rows is the number of entities.
	Rows int
	// Width is the row width in bytes.
	Width int
	// RefVersion tags the reference the column was encoded against.
	RefVersion string
}

type encodeOptions struct {
	shrink bool
}

// EncodeOption configures Encode.
type EncodeOption func(*encodeOptions)

// WithShrink trims trailing all-zero byte columns before encoding,
// producing the minimal fixed width that still holds every set bit.
// Decode pads shrunken columns back to the reference width.
func WithShrink() EncodeOption {
	return func(o *encodeOptions) {
		o.shrink = true
	}
}

// Encode converts a matrix into its column form. The payload is a
// bit-for-bit copy of the matrix grid.
func Encode(m *flagcol.FlagMatrix, optFns ...EncodeOption) Column {
	var opts encodeOptions
	for _, fn := range optFns {
		fn(&opts)
	}

	width := m.Width()
	data := m.Bytes()

	if opts.shrink {
		if used := m.UsedWidth(); used < width {
			if used == 0 {
				used = 1 // a fixed-width column needs at least one byte per row
			}
			packed := make([]byte, m.Rows()*used)
			for i := 0; i < m.Rows(); i++ {
				copy(packed[i*used:(i+1)*used], data[i*width:i*width+used])
			}
			data, width = packed, used
		}
	}

	return Column{
		Data:       data,
		Rows:       m.Rows(),
		Width:      width,
		RefVersion: m.Reference().Version(),
	}
}

// Decode is the inverse of Encode.
//
// The column's reference version must match the given reference, and
// its width must not exceed the reference's byte width; narrower
// columns (produced with WithShrink) are padded back with zero bytes.
func Decode(col Column, ref *reference.Reference) (*flagcol.FlagMatrix, error) {
	if col.RefVersion != ref.Version() {
		return nil, &flagcol.ErrReferenceMismatch{Expected: ref.Version(), Actual: col.RefVersion}
	}

	width := ref.Width()
	if col.Width > width {
		return nil, &flagcol.ErrShapeMismatch{Dim: "width", Expected: width, Actual: col.Width}
	}
	if len(col.Data) != col.Rows*col.Width {
		return nil, &flagcol.ErrShapeMismatch{Dim: "rows", Expected: col.Rows * col.Width, Actual: len(col.Data)}
	}

	grid := make([][]byte, col.Rows)
	for i := range grid {
		row := make([]byte, width)
		copy(row, col.Data[i*col.Width:(i+1)*col.Width])
		grid[i] = row
	}
	return flagcol.FromRaw(grid, ref)
}
