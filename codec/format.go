package codec

import "errors"

const (
	// MagicNumber identifies flagcol column files (ASCII: "FCL0").
	MagicNumber = 0x46434C30
	// FormatVersion is the current file format version (v1.0.0).
	FormatVersion = 0x00010000
)

var (
	ErrInvalidMagic       = errors.New("invalid magic number")
	ErrInvalidVersion     = errors.New("unsupported format version")
	ErrInvalidCompression = errors.New("invalid compression type")
	ErrChecksum           = errors.New("payload checksum mismatch")
)

// fileHeader is the fixed-size header at the start of every column
// file. The reference version string and the payload follow it.
type fileHeader struct {
	Magic       uint32
	Version     uint32
	Compression uint8 // Compression constant
	Padding     [3]byte
	Rows        uint64
	Width       uint32
	RefLen      uint32 // length of the reference version string
	RawLen      uint64 // uncompressed payload length
	StoredLen   uint64 // stored (possibly compressed) payload length
	Checksum    uint32 // CRC32 (IEEE) of the stored payload
}
