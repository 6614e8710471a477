package codec

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"io"
	"math"
)

type fileOptions struct {
	compression Compression
}

// FileOption configures WriteColumn.
type FileOption func(*fileOptions)

// WithCompression selects the payload compression. Default is none.
func WithCompression(c Compression) FileOption {
	return func(o *fileOptions) {
		o.compression = c
	}
}

// WriteColumn frames a column as a self-describing binary file:
// fixed header, reference version string, then the checksummed and
// optionally compressed payload. All integers are little-endian.
func WriteColumn(w io.Writer, col Column, optFns ...FileOption) error {
	var opts fileOptions
	for _, fn := range optFns {
		fn(&opts)
	}

	stored, used, err := compress(opts.compression, col.Data)
	if err != nil {
		return err
	}

	hdr := fileHeader{
		Magic:       MagicNumber,
		Version:     FormatVersion,
		Compression: uint8(used),
		Rows:        uint64(col.Rows),
		Width:       uint32(col.Width),
		RefLen:      uint32(len(col.RefVersion)),
		RawLen:      uint64(len(col.Data)),
		StoredLen:   uint64(len(stored)),
		Checksum:    crc32.ChecksumIEEE(stored),
	}

	if err := binary.Write(w, binary.LittleEndian, hdr); err != nil {
		return fmt.Errorf("failed to write column header: %w", err)
	}
	if _, err := io.WriteString(w, col.RefVersion); err != nil {
		return fmt.Errorf("failed to write reference version: %w", err)
	}
	if _, err := w.Write(stored); err != nil {
		return fmt.Errorf("failed to write column payload: %w", err)
	}
	return nil
}

// ReadColumn is the inverse of WriteColumn. It verifies magic, format
// version and payload checksum before returning the column.
func ReadColumn(r io.Reader) (Column, error) {
	var hdr fileHeader
	if err := binary.Read(r, binary.LittleEndian, &hdr); err != nil {
		return Column{}, fmt.Errorf("failed to read column header: %w", err)
	}

	if hdr.Magic != MagicNumber {
		return Column{}, fmt.Errorf("%w: 0x%08x", ErrInvalidMagic, hdr.Magic)
	}
	if hdr.Version != FormatVersion {
		return Column{}, fmt.Errorf("%w: 0x%08x", ErrInvalidVersion, hdr.Version)
	}
	if hdr.Rows > math.MaxInt64/8 || hdr.StoredLen > math.MaxInt32 || hdr.RefLen > math.MaxInt32 || hdr.RawLen > math.MaxInt32 {
		return Column{}, fmt.Errorf("%w: implausible header sizes", ErrInvalidVersion)
	}

	refVersion := make([]byte, hdr.RefLen)
	if _, err := io.ReadFull(r, refVersion); err != nil {
		return Column{}, fmt.Errorf("failed to read reference version: %w", err)
	}

	stored := make([]byte, hdr.StoredLen)
	if _, err := io.ReadFull(r, stored); err != nil {
		return Column{}, fmt.Errorf("failed to read column payload: %w", err)
	}
	if crc := crc32.ChecksumIEEE(stored); crc != hdr.Checksum {
		return Column{}, fmt.Errorf("%w: got 0x%08x, want 0x%08x", ErrChecksum, crc, hdr.Checksum)
	}

	data, err := decompress(Compression(hdr.Compression), stored, int(hdr.RawLen))
	if err != nil {
		return Column{}, err
	}

	return Column{
		Data:       data,
		Rows:       int(hdr.Rows),
		Width:      int(hdr.Width),
		RefVersion: string(refVersion),
	}, nil
}
