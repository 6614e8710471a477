package flagcol

import (
	"bytes"
	"hash/fnv"
	"math/bits"

	"github.com/hupe1980/flagcol/attr"
	"github.com/hupe1980/flagcol/reference"
)

// FlagVector is one entity's packed flag state, bound to a reference.
//
// The byte slice has the fixed width required by the reference and is
// never resized; bits beyond the reference's highest position are
// always unset. A FlagVector must be mutated by at most one producer
// at a time.
type FlagVector struct {
	ref  *reference.Reference
	bits []byte
}

// NewVector creates an all-zero vector bound to the given reference.
func NewVector(ref *reference.Reference) *FlagVector {
	return &FlagVector{
		ref:  ref,
		bits: make([]byte, ref.Width()),
	}
}

// Reference returns the reference this vector is bound to.
func (v *FlagVector) Reference() *reference.Reference {
	return v.ref
}

// Set sets the bits for the given attribute names. All names are
// resolved before any bit is mutated, so a failed call leaves the
// vector unchanged.
func (v *FlagVector) Set(names ...string) error {
	bits, err := v.ref.LookupAll(names...)
	if err != nil {
		return err
	}
	for _, bit := range bits {
		v.bits[bit/8] |= 1 << (bit % 8)
	}
	return nil
}

// Clear clears the bits for the given attribute names. All names are
// resolved before any bit is mutated.
func (v *FlagVector) Clear(names ...string) error {
	bits, err := v.ref.LookupAll(names...)
	if err != nil {
		return err
	}
	for _, bit := range bits {
		v.bits[bit/8] &^= 1 << (bit % 8)
	}
	return nil
}

// Toggle flips the bit for the given attribute name and returns its
// new state.
func (v *FlagVector) Toggle(name string) (bool, error) {
	bit, err := v.ref.Lookup(name)
	if err != nil {
		return false, err
	}
	v.bits[bit/8] ^= 1 << (bit % 8)
	return v.bits[bit/8]&(1<<(bit%8)) != 0, nil
}

// SetWhere sets the bits of every attribute whose extras match the
// filter set and returns how many were set. A filter matching nothing
// is a no-op, not an error.
func (v *FlagVector) SetWhere(fs *attr.FilterSet) int {
	bits := v.ref.LookupWhere(fs)
	for _, bit := range bits {
		v.bits[bit/8] |= 1 << (bit % 8)
	}
	return len(bits)
}

// IsSet reports whether the bit for the given attribute name is set.
func (v *FlagVector) IsSet(name string) (bool, error) {
	bit, err := v.ref.Lookup(name)
	if err != nil {
		return false, err
	}
	return v.bits[bit/8]&(1<<(bit%8)) != 0, nil
}

// AnySet reports whether at least one of the named bits is set. All
// names are validated before any bit is inspected.
func (v *FlagVector) AnySet(names ...string) (bool, error) {
	bits, err := v.ref.LookupAll(names...)
	if err != nil {
		return false, err
	}
	for _, bit := range bits {
		if v.bits[bit/8]&(1<<(bit%8)) != 0 {
			return true, nil
		}
	}
	return false, nil
}

// AllSet reports whether every named bit is set. All names are
// validated before any bit is inspected.
func (v *FlagVector) AllSet(names ...string) (bool, error) {
	bits, err := v.ref.LookupAll(names...)
	if err != nil {
		return false, err
	}
	for _, bit := range bits {
		if v.bits[bit/8]&(1<<(bit%8)) == 0 {
			return false, nil
		}
	}
	return true, nil
}

// SetBits returns the positions of all set bits in ascending order.
func (v *FlagVector) SetBits() []int {
	var set []int
	for i, b := range v.bits {
		for b != 0 {
			set = append(set, i*8+bits.TrailingZeros8(b))
			b &= b - 1
		}
	}
	return set
}

// Bytes returns a copy of the packed bits.
func (v *FlagVector) Bytes() []byte {
	return bytes.Clone(v.bits)
}

// Equal reports structural equality: same reference instance and the
// same packed bits.
func (v *FlagVector) Equal(o *FlagVector) bool {
	if v == nil || o == nil {
		return v == o
	}
	return v.ref == o.ref && bytes.Equal(v.bits, o.bits)
}

// Hash returns a stable hash over the reference version and the packed
// bits. Vectors that compare Equal hash identically.
func (v *FlagVector) Hash() uint64 {
	h := fnv.New64a()
	h.Write([]byte(v.ref.Version()))
	h.Write([]byte{0})
	h.Write(v.bits)
	return h.Sum64()
}
