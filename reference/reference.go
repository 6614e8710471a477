package reference

import (
	"fmt"
	"iter"
	"log/slog"
	"slices"
	"sort"

	"github.com/hupe1980/flagcol/attr"
)

// Attribute is a single flag definition: a unique bit position, a
// unique name, and arbitrary extra fields.
type Attribute struct {
	Bit         int
	Name        string
	Description string
	Extra       attr.Document
}

// Reference is the immutable mapping from bit positions to attributes.
type Reference struct {
	version string
	attrs   []Attribute // sorted by bit position
	byName  map[string]int
	byBit   map[int]int // bit -> index into attrs
	index   *Index
	bits    int // max bit + 1
}

type options struct {
	logger *slog.Logger
	schema attr.Schema
}

// Option configures reference construction.
type Option func(*options)

// WithLogger configures the logger used for construction diagnostics,
// such as the warning emitted when bit positions are not contiguous.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithSchema validates every attribute's extra fields against the
// given schema during construction.
func WithSchema(s attr.Schema) Option {
	return func(o *options) {
		o.schema = s
	}
}

// New creates a validated Reference.
//
// Bit positions must be non-negative and unique; names must be
// non-empty and unique. Positions need not be contiguous, but gaps
// waste no storage beyond the top byte boundary and trigger a
// warn-level log.
func New(version string, attrs []Attribute, optFns ...Option) (*Reference, error) {
	opts := options{logger: slog.Default()}
	for _, fn := range optFns {
		fn(&opts)
	}

	if len(attrs) == 0 {
		return &Reference{
			version: version,
			byName:  map[string]int{},
			byBit:   map[int]int{},
			index:   newIndex(nil),
		}, nil
	}

	byName := make(map[string]int, len(attrs))
	byBit := make(map[int]int, len(attrs))
	sorted := slices.Clone(attrs)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Bit < sorted[j].Bit })

	maxBit := 0
	for i, a := range sorted {
		if a.Name == "" {
			return nil, &ErrInvalidReference{Reason: fmt.Sprintf("attribute at bit %d has no name", a.Bit)}
		}
		if a.Bit < 0 {
			return nil, &ErrInvalidReference{Reason: fmt.Sprintf("attribute %q has negative bit position %d", a.Name, a.Bit)}
		}
		if _, ok := byName[a.Name]; ok {
			return nil, &ErrInvalidReference{Reason: fmt.Sprintf("duplicate attribute name %q", a.Name)}
		}
		if _, ok := byBit[a.Bit]; ok {
			return nil, &ErrInvalidReference{Reason: fmt.Sprintf("duplicate bit position %d", a.Bit)}
		}
		if err := opts.schema.Validate(a.Extra); err != nil {
			return nil, &ErrInvalidReference{Reason: fmt.Sprintf("attribute %q: %v", a.Name, err), cause: err}
		}
		byName[a.Name] = a.Bit
		byBit[a.Bit] = i
		if a.Bit > maxBit {
			maxBit = a.Bit
		}
	}

	r := &Reference{
		version: version,
		attrs:   sorted,
		byName:  byName,
		byBit:   byBit,
		index:   newIndex(sorted),
		bits:    maxBit + 1,
	}

	if gaps := r.bits - len(sorted); gaps > 0 {
		opts.logger.Warn("reference bit positions are not contiguous",
			"reference_version", version,
			"defined", len(sorted),
			"required_bits", r.bits,
			"unused_bits", gaps,
		)
	}

	return r, nil
}

// Version returns the reference version identifier.
func (r *Reference) Version() string {
	return r.version
}

// Len returns the number of defined attributes.
func (r *Reference) Len() int {
	return len(r.attrs)
}

// RequiredBits returns max(bit position)+1 across all attributes, or 0
// for an empty reference.
func (r *Reference) RequiredBits() int {
	return r.bits
}

// Width returns the number of bytes needed to hold RequiredBits bits.
func (r *Reference) Width() int {
	return (r.bits + 7) / 8
}

// Lookup returns the bit position for the given attribute name.
func (r *Reference) Lookup(name string) (int, error) {
	bit, ok := r.byName[name]
	if !ok {
		return 0, &ErrUnknownAttribute{Name: name}
	}
	return bit, nil
}

// LookupAll resolves multiple names, failing on the first unknown one.
func (r *Reference) LookupAll(names ...string) ([]int, error) {
	bits := make([]int, len(names))
	for i, name := range names {
		bit, err := r.Lookup(name)
		if err != nil {
			return nil, err
		}
		bits[i] = bit
	}
	return bits, nil
}

// LookupWhere returns the sorted bit positions of all attributes whose
// extra fields match the filter set. A filter matching nothing yields
// an empty result, not an error: foreign lookup keys legitimately have
// no mapped bit.
//
// Pure equality filter sets are answered from the prebuilt postings
// index; other operators fall back to scanning the attributes.
func (r *Reference) LookupWhere(fs *attr.FilterSet) []int {
	if fs == nil || len(fs.Filters) == 0 {
		return nil
	}

	if bm, ok := r.index.compile(fs); ok {
		bits := make([]int, 0, bm.GetCardinality())
		it := bm.Iterator()
		for it.HasNext() {
			bits = append(bits, int(it.Next()))
		}
		return bits
	}

	var bits []int
	for _, a := range r.attrs {
		if fs.Matches(a.Extra) {
			bits = append(bits, a.Bit)
		}
	}
	return bits
}

// BitsWithValue returns the bit positions of all attributes carrying
// the given extra-field value. Fails with ErrNoMatch when no attribute
// carries it.
func (r *Reference) BitsWithValue(field string, value attr.Value) ([]int, error) {
	bm := r.index.postings(field, value.Key())
	if bm == nil || bm.IsEmpty() {
		return nil, fmt.Errorf("%w: %s=%s", ErrNoMatch, field, value.GoString())
	}
	bits := make([]int, 0, bm.GetCardinality())
	it := bm.Iterator()
	for it.HasNext() {
		bits = append(bits, int(it.Next()))
	}
	return bits, nil
}

// GroupBy returns, for each distinct value of the given extra field,
// the bit positions of the attributes carrying it. The result shares
// no state with the reference and may be mutated by the caller.
func (r *Reference) GroupBy(field string) map[string][]int {
	return r.index.groups(field)
}

// Attribute returns the attribute definition for the given name.
func (r *Reference) Attribute(name string) (Attribute, bool) {
	bit, ok := r.byName[name]
	if !ok {
		return Attribute{}, false
	}
	return r.attrs[r.byBit[bit]], true
}

// AttributeAt returns the attribute definition at the given bit
// position.
func (r *Reference) AttributeAt(bit int) (Attribute, bool) {
	i, ok := r.byBit[bit]
	if !ok {
		return Attribute{}, false
	}
	return r.attrs[i], true
}

// All returns an iterator over the attributes in bit order.
func (r *Reference) All() iter.Seq[Attribute] {
	return func(yield func(Attribute) bool) {
		for _, a := range r.attrs {
			if !yield(a) {
				return
			}
		}
	}
}
