// Package minio implements colstore.Store for MinIO and other
// S3-compatible object storage.
//
// Use this backend when columns live on self-hosted object storage;
// for Amazon S3 itself, prefer colstore/s3 which uses the official
// SDK's transfer manager.
package minio
