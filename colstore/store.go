package colstore

import (
	"bytes"
	"context"
	"errors"
	"io"

	"github.com/hupe1980/flagcol"
	"github.com/hupe1980/flagcol/codec"
	"github.com/hupe1980/flagcol/reference"
)

// ErrNotFound is returned when a named column does not exist.
//
// Implementations should return an error that satisfies
// errors.Is(err, ErrNotFound).
var ErrNotFound = errors.New("column not found")

// Store is an abstraction for accessing immutable column blobs.
type Store interface {
	// Put writes a blob atomically.
	Put(ctx context.Context, name string, data []byte) error
	// Open opens a blob for reading.
	Open(ctx context.Context, name string) (Blob, error)
	// Delete removes a blob.
	Delete(ctx context.Context, name string) error
	// List returns the names of all blobs matching the prefix, sorted.
	List(ctx context.Context, prefix string) ([]string, error)
}

// Blob is a read-only handle to a stored column.
type Blob interface {
	// ReadAt reads len(p) bytes starting at offset off.
	ReadAt(ctx context.Context, p []byte, off int64) (int, error)
	// Size returns the size of the blob in bytes.
	Size() int64
	Close() error
}

// ReadAll reads a blob's full contents.
func ReadAll(ctx context.Context, b Blob) ([]byte, error) {
	data := make([]byte, b.Size())
	if _, err := b.ReadAt(ctx, data, 0); err != nil && err != io.EOF {
		return nil, err
	}
	return data, nil
}

// PutColumn frames a column as a file and stores it under name.
func PutColumn(ctx context.Context, s Store, name string, col codec.Column, optFns ...codec.FileOption) error {
	var buf bytes.Buffer
	if err := codec.WriteColumn(&buf, col, optFns...); err != nil {
		return err
	}
	return s.Put(ctx, name, buf.Bytes())
}

// GetColumn retrieves and parses the column stored under name.
func GetColumn(ctx context.Context, s Store, name string) (codec.Column, error) {
	blob, err := s.Open(ctx, name)
	if err != nil {
		return codec.Column{}, err
	}
	defer blob.Close()

	data, err := ReadAll(ctx, blob)
	if err != nil {
		return codec.Column{}, err
	}
	return codec.ReadColumn(bytes.NewReader(data))
}

// GetMatrix retrieves the column stored under name and decodes it
// against the given reference.
func GetMatrix(ctx context.Context, s Store, name string, ref *reference.Reference) (*flagcol.FlagMatrix, error) {
	col, err := GetColumn(ctx, s, name)
	if err != nil {
		return nil, err
	}
	return codec.Decode(col, ref)
}
