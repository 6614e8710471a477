// Package colstore stores encoded flag columns in pluggable object
// stores.
//
// A Store holds immutable named blobs, each a column file produced by
// the codec package. Backends: in-memory (tests), local filesystem
// with mmap-backed reads, S3 (colstore/s3) and MinIO (colstore/minio).
// The Throttled wrapper bounds byte throughput against shared
// infrastructure.
package colstore
