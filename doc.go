// Package flagcol provides a compact bit-flag column engine.
//
// Flagcol stores an effectively unbounded number of independent named
// boolean flags per catalogued entity inside a single fixed-width byte
// column, instead of one or more 64-bit integer columns with
// hand-managed offsets. The mapping between flag names and bit
// positions lives in a versioned, immutable reference that is shared
// by every vector and matrix bound to it.
//
// # Quick Start
//
//	ref, _ := reference.New("v1", []reference.Attribute{
//	    {Bit: 0, Name: "bright", Extra: attr.Document{"program": attr.String("survey-a")}},
//	    {Bit: 1, Name: "variable", Extra: attr.Document{"program": attr.String("survey-b")}},
//	})
//
//	v := flagcol.NewVector(ref)
//	_ = v.Set("bright")
//
//	m, _ := flagcol.FromEntries([]flagcol.Entry{{ID: 42, Vector: v}})
//	hits, _ := m.IsFlagSet("bright") // [true]
//
// # Bit Order
//
// Bit position p is stored in byte p/8 at mask 1<<(p%8): the
// little-endian-within-byte convention used by the upstream data
// producers. The codec package preserves this layout bit-for-bit, so
// encoded columns are portable across implementations that follow the
// same convention.
//
// # Concurrency
//
// A Reference is immutable after construction and safe for any number
// of concurrent readers. A FlagVector must be mutated by at most one
// producer at a time; independent producers build their own vectors
// and meet at a single merge point (FromEntries or Matrix.Merge),
// which is commutative and associative. The Builder type wraps this
// fan-out/merge pattern.
package flagcol
