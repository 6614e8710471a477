// Package codec converts flag matrices to and from their packed column
// representation.
//
// Encoding is a pure, bit-exact transformation: the column payload is
// exactly the matrix's row-major byte grid, so encode/decode never
// loses information. The codec never interprets bit meaning; attribute
// semantics resolve only through the reference, whose version tag is
// carried alongside the bytes so future readers can resolve it.
//
// WriteColumn and ReadColumn additionally frame a column as a
// self-describing binary file with a checksummed, optionally
// compressed payload.
package codec
