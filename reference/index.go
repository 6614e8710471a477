package reference

import (
	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/flagcol/attr"
)

// Index accelerates extra-field lookups over a reference.
//
// It maps field -> value key -> bitmap of bit positions and is built
// once at reference construction. The reference is immutable, so the
// index needs no locking.
//
// Supported directly: OpEqual conjunctions. Other operators fall back
// to scanning attributes with attr.FilterSet.
type Index struct {
	fields map[string]map[string]*roaring.Bitmap
}

func newIndex(attrs []Attribute) *Index {
	ix := &Index{fields: make(map[string]map[string]*roaring.Bitmap)}
	for _, a := range attrs {
		for k, v := range a.Extra {
			vm, ok := ix.fields[k]
			if !ok {
				vm = make(map[string]*roaring.Bitmap)
				ix.fields[k] = vm
			}
			vk := v.Key()
			bm, ok := vm[vk]
			if !ok {
				bm = roaring.New()
				vm[vk] = bm
			}
			bm.Add(uint32(a.Bit))
		}
	}
	return ix
}

// postings returns the bitmap of bit positions for one field value, or
// nil when the field or value is unknown. Callers must not mutate the
// result.
func (ix *Index) postings(field, valueKey string) *roaring.Bitmap {
	vm, ok := ix.fields[field]
	if !ok {
		return nil
	}
	return vm[valueKey]
}

// groups returns a copy of the postings for every distinct value of
// the given field, keyed by the stable value key.
func (ix *Index) groups(field string) map[string][]int {
	vm, ok := ix.fields[field]
	if !ok {
		return nil
	}
	out := make(map[string][]int, len(vm))
	for vk, bm := range vm {
		bits := make([]int, 0, bm.GetCardinality())
		it := bm.Iterator()
		for it.HasNext() {
			bits = append(bits, int(it.Next()))
		}
		out[vk] = bits
	}
	return out
}

// compile attempts to answer a filter set from the index. If the set
// contains any non-equality operator, ok=false and the caller must
// scan.
func (ix *Index) compile(fs *attr.FilterSet) (bm *roaring.Bitmap, ok bool) {
	var result *roaring.Bitmap
	for _, f := range fs.Filters {
		if f.Operator != attr.OpEqual {
			return nil, false
		}
		postings := ix.postings(f.Key, f.Value.Key())
		if postings == nil {
			// Key/value doesn't exist; fast path to empty.
			return roaring.New(), true
		}
		if result == nil {
			result = postings.Clone()
		} else {
			result.And(postings)
		}
	}
	if result == nil {
		return nil, false
	}
	return result, true
}
