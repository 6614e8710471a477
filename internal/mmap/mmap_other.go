//go:build !unix

package mmap

import "os"

// Mapping holds file contents read eagerly on platforms without mmap
// support.
type Mapping struct {
	data []byte
}

// Open reads the whole file at path.
func Open(path string) (*Mapping, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return &Mapping{data: data}, nil
}

// Bytes returns the file contents.
func (m *Mapping) Bytes() []byte {
	return m.data
}

// Close releases the buffer.
func (m *Mapping) Close() error {
	m.data = nil
	return nil
}
