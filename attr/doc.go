// Package attr provides typed attribute metadata values and filters.
//
// Every flag in a reference carries a small document of extra fields
// (for example a program id or a category). Values are represented
// without reflection so that filter evaluation over a reference stays
// fast and predictable.
package attr
