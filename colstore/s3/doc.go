// Package s3 implements colstore.Store backed by Amazon S3, plus a
// DynamoDB-backed catalog that tracks the latest published column per
// reference version.
package s3
