package flagcol

import (
	"bytes"
	"math/bits"
	"slices"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/flagcol/attr"
	"github.com/hupe1980/flagcol/reference"
)

// Entry pairs an external entity identifier with its flag vector.
// Entry order defines matrix row order.
type Entry struct {
	ID     uint64
	Vector *FlagVector
}

// FlagMatrix holds many entities' flag vectors as a contiguous
// rows x width byte grid sharing one reference. Row order is
// caller-significant and preserved end-to-end.
type FlagMatrix struct {
	ref   *reference.Reference
	data  []byte // rows*width bytes, row-major
	rows  int
	width int
	ids   []uint64 // nil when built from raw bytes
}

// FromEntries merges vectors built independently (one per entity) into
// a matrix, in entry order. Identifiers are retained for row
// alignment but not interpreted.
//
// Fails with ErrEmptyMerge for an empty input and with
// ErrReferenceMismatch when any vector is bound to a different
// reference instance than the first. Validation happens before any
// copying, so a failed call allocates nothing.
func FromEntries(entries []Entry) (*FlagMatrix, error) {
	if len(entries) == 0 {
		return nil, ErrEmptyMerge
	}

	ref := entries[0].Vector.ref
	for _, e := range entries[1:] {
		if e.Vector.ref != ref {
			return nil, &ErrReferenceMismatch{
				Expected: ref.Version(),
				Actual:   e.Vector.ref.Version(),
			}
		}
	}

	width := ref.Width()
	m := &FlagMatrix{
		ref:   ref,
		data:  make([]byte, len(entries)*width),
		rows:  len(entries),
		width: width,
		ids:   make([]uint64, len(entries)),
	}
	for i, e := range entries {
		copy(m.data[i*width:(i+1)*width], e.Vector.bits)
		m.ids[i] = e.ID
	}
	return m, nil
}

// FromRaw wraps an existing byte grid. Every row must have exactly the
// byte width the reference requires; otherwise it fails with
// ErrShapeMismatch. The rows are copied.
func FromRaw(grid [][]byte, ref *reference.Reference) (*FlagMatrix, error) {
	width := ref.Width()
	for _, row := range grid {
		if len(row) != width {
			return nil, &ErrShapeMismatch{Dim: "width", Expected: width, Actual: len(row)}
		}
	}

	m := &FlagMatrix{
		ref:   ref,
		data:  make([]byte, len(grid)*width),
		rows:  len(grid),
		width: width,
	}
	for i, row := range grid {
		copy(m.data[i*width:(i+1)*width], row)
	}
	return m, nil
}

// Reference returns the shared reference.
func (m *FlagMatrix) Reference() *reference.Reference {
	return m.ref
}

// Rows returns the number of entities.
func (m *FlagMatrix) Rows() int {
	return m.rows
}

// Width returns the row width in bytes.
func (m *FlagMatrix) Width() int {
	return m.width
}

// IDs returns a copy of the entity identifiers, or nil when the matrix
// was built from raw bytes.
func (m *FlagMatrix) IDs() []uint64 {
	if m.ids == nil {
		return nil
	}
	out := make([]uint64, len(m.ids))
	copy(out, m.ids)
	return out
}

// Bytes returns a copy of the full row-major byte grid.
func (m *FlagMatrix) Bytes() []byte {
	return bytes.Clone(m.data)
}

// Row returns a copy of row i.
func (m *FlagMatrix) Row(i int) []byte {
	return bytes.Clone(m.row(i))
}

// VectorAt returns row i as an independent FlagVector bound to the
// same reference.
func (m *FlagMatrix) VectorAt(i int) *FlagVector {
	return &FlagVector{ref: m.ref, bits: bytes.Clone(m.row(i))}
}

func (m *FlagMatrix) row(i int) []byte {
	return m.data[i*m.width : (i+1)*m.width]
}

// SetAt sets the named bits on row i. Names are resolved before any
// mutation.
func (m *FlagMatrix) SetAt(i int, names ...string) error {
	resolved, err := m.ref.LookupAll(names...)
	if err != nil {
		return err
	}
	row := m.row(i)
	for _, bit := range resolved {
		row[bit/8] |= 1 << (bit % 8)
	}
	return nil
}

// ClearAt clears the named bits on row i. Names are resolved before
// any mutation.
func (m *FlagMatrix) ClearAt(i int, names ...string) error {
	resolved, err := m.ref.LookupAll(names...)
	if err != nil {
		return err
	}
	row := m.row(i)
	for _, bit := range resolved {
		row[bit/8] &^= 1 << (bit % 8)
	}
	return nil
}

// ToggleAt flips the named bit on row i and returns its new state.
func (m *FlagMatrix) ToggleAt(i int, name string) (bool, error) {
	bit, err := m.ref.Lookup(name)
	if err != nil {
		return false, err
	}
	row := m.row(i)
	row[bit/8] ^= 1 << (bit % 8)
	return row[bit/8]&(1<<(bit%8)) != 0, nil
}

// FlagsAt returns the names of all flags set on row i, in bit order.
// Set bits without a defined attribute (possible only for matrices
// built from foreign raw grids) are skipped.
func (m *FlagMatrix) FlagsAt(i int) []string {
	var names []string
	row := m.row(i)
	for byteIdx, b := range row {
		for b != 0 {
			bit := byteIdx*8 + bits.TrailingZeros8(b)
			if a, ok := m.ref.AttributeAt(bit); ok {
				names = append(names, a.Name)
			}
			b &= b - 1
		}
	}
	return names
}

// IsFlagSet returns one bool per row indicating whether the named bit
// is set.
func (m *FlagMatrix) IsFlagSet(name string) ([]bool, error) {
	return m.AnySet(name)
}

// AnySet returns one bool per row, true iff at least one of the named
// bits is set. Unknown names fail eagerly, before any row is
// evaluated.
func (m *FlagMatrix) AnySet(names ...string) ([]bool, error) {
	resolved, err := m.ref.LookupAll(names...)
	if err != nil {
		return nil, err
	}
	return m.anyOfBits(resolved), nil
}

// AllSet returns one bool per row, true iff all named bits are set.
// Unknown names fail eagerly, before any row is evaluated.
func (m *FlagMatrix) AllSet(names ...string) ([]bool, error) {
	resolved, err := m.ref.LookupAll(names...)
	if err != nil {
		return nil, err
	}

	masks := masksForBits(resolved, m.width)
	out := make([]bool, m.rows)
	for i := 0; i < m.rows; i++ {
		row := m.row(i)
		ok := true
		for byteIdx, mask := range masks {
			if mask != 0 && row[byteIdx]&mask != mask {
				ok = false
				break
			}
		}
		out[i] = ok
	}
	return out, nil
}

// SelectAny returns the indices of all rows where at least one of the
// named bits is set, as a bitmap suitable for joining with other row
// selections.
func (m *FlagMatrix) SelectAny(names ...string) (*roaring.Bitmap, error) {
	hits, err := m.AnySet(names...)
	if err != nil {
		return nil, err
	}
	bm := roaring.New()
	for i, hit := range hits {
		if hit {
			bm.Add(uint32(i))
		}
	}
	return bm, nil
}

// SelectWhere returns one bool per row, true iff the row has any flag
// whose extra field carries the given value. Fails with
// reference.ErrNoMatch when no attribute carries it.
func (m *FlagMatrix) SelectWhere(field string, value attr.Value) ([]bool, error) {
	resolved, err := m.ref.BitsWithValue(field, value)
	if err != nil {
		return nil, err
	}
	return m.anyOfBits(resolved), nil
}

// Count returns, for each attribute name, the number of rows with that
// bit set. When skipEmpty is true, attributes with zero rows are
// omitted.
func (m *FlagMatrix) Count(skipEmpty bool) map[string]int {
	counts := make(map[string]int, m.ref.Len())
	for a := range m.ref.All() {
		n := 0
		byteIdx, mask := a.Bit/8, byte(1)<<(a.Bit%8)
		for i := 0; i < m.rows; i++ {
			if m.data[i*m.width+byteIdx]&mask != 0 {
				n++
			}
		}
		if n > 0 || !skipEmpty {
			counts[a.Name] = n
		}
	}
	return counts
}

// CountByAttribute groups attributes by the given extra field and, for
// each distinct value, counts rows with at least one bit of that group
// set. Grouping avoids double-counting rows that carry several flags
// of the same group. Result keys are the stable attr.Value keys. When
// skipEmpty is true, zero-count groups are omitted.
func (m *FlagMatrix) CountByAttribute(field string, skipEmpty bool) map[string]int {
	counts := make(map[string]int)
	for valueKey, groupBits := range m.ref.GroupBy(field) {
		n := 0
		for _, hit := range m.anyOfBits(groupBits) {
			if hit {
				n++
			}
		}
		if n > 0 || !skipEmpty {
			counts[valueKey] = n
		}
	}
	return counts
}

// Merge combines two matrices of identical shape and reference by
// row-wise bitwise OR: flags known from two independent passes over
// the same entity set, same row alignment. When both operands carry
// entity identifiers they must agree row for row; a raw-grid operand
// carries none and inherits the other side's. Merge is commutative and
// associative and leaves both operands unchanged.
func (m *FlagMatrix) Merge(o *FlagMatrix) (*FlagMatrix, error) {
	if m.ref != o.ref {
		return nil, &ErrReferenceMismatch{Expected: m.ref.Version(), Actual: o.ref.Version()}
	}
	if m.rows != o.rows {
		return nil, &ErrShapeMismatch{Dim: "rows", Expected: m.rows, Actual: o.rows}
	}
	if m.width != o.width {
		return nil, &ErrShapeMismatch{Dim: "width", Expected: m.width, Actual: o.width}
	}
	if m.ids != nil && o.ids != nil && !slices.Equal(m.ids, o.ids) {
		return nil, ErrIDMismatch
	}

	merged := &FlagMatrix{
		ref:   m.ref,
		data:  make([]byte, len(m.data)),
		rows:  m.rows,
		width: m.width,
	}
	for i := range m.data {
		merged.data[i] = m.data[i] | o.data[i]
	}
	switch {
	case m.ids != nil:
		merged.ids = slices.Clone(m.ids)
	case o.ids != nil:
		merged.ids = slices.Clone(o.ids)
	}
	return merged, nil
}

// Equal reports structural equality: same reference instance, shape
// and bytes. Entity identifiers are alignment metadata and do not
// participate.
func (m *FlagMatrix) Equal(o *FlagMatrix) bool {
	if m == nil || o == nil {
		return m == o
	}
	return m.ref == o.ref && m.rows == o.rows && m.width == o.width && bytes.Equal(m.data, o.data)
}

// UsedWidth returns the minimal byte width covering every set bit
// across all rows; 0 when no bit is set anywhere.
func (m *FlagMatrix) UsedWidth() int {
	for w := m.width; w > 0; w-- {
		for i := 0; i < m.rows; i++ {
			if m.data[i*m.width+w-1] != 0 {
				return w
			}
		}
	}
	return 0
}

// anyOfBits evaluates "any of these bits" per row using per-byte
// masks, so cost scales with rows times touched bytes, not rows times
// bits.
func (m *FlagMatrix) anyOfBits(resolved []int) []bool {
	masks := masksForBits(resolved, m.width)
	out := make([]bool, m.rows)
	for i := 0; i < m.rows; i++ {
		row := m.row(i)
		for byteIdx, mask := range masks {
			if mask != 0 && row[byteIdx]&mask != 0 {
				out[i] = true
				break
			}
		}
	}
	return out
}

// masksForBits folds bit positions into one mask per byte column.
func masksForBits(resolved []int, width int) []byte {
	masks := make([]byte, width)
	for _, bit := range resolved {
		masks[bit/8] |= 1 << (bit % 8)
	}
	return masks
}
