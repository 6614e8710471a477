// Package reference provides the versioned mapping from bit positions
// to named flag attributes.
//
// A Reference is built once, validated, and never mutated afterwards;
// it is shared by pointer between every vector and matrix bound to it
// and is safe for concurrent readers. A version identifier
// distinguishes incompatible reference definitions across time and is
// carried through the codec into encoded columns.
package reference
