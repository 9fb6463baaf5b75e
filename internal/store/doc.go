// Package store accesses the remote object over gocloud.dev/blob.
//
// It exposes exactly the two operations the download needs: a size probe
// and an inclusive-range read. Bucket drivers (s3blob, gcsblob) are
// registered by the importing binary; tests use memblob.
package store
