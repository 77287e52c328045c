// Package bucket accesses the object storage container a cost export
// delivers its usage reports to.
package bucket

import (
	"context"
	"io"
	"strings"
)

// Bucket represents the interface to access an object storage bucket.
type Bucket interface {
	// Put puts an object with `key`.  The data is read from `data`.
	Put(ctx context.Context, key string, data io.Reader, objectSize int64) error

	// Get gets an object by `key`.
	Get(ctx context.Context, key string) (io.ReadCloser, error)

	// List lists the matching object keys that have `prefix`.
	// The prefix argument should end with /. (e.g. "cost/exportname/").
	// If / is not at the end, both objects xx-1/report and xx-11/report are taken.
	List(ctx context.Context, prefix string) ([]string, error)
}

// contentType guesses the media type of an export artifact from its key.
// Cost exports deliver CSV files, optionally gzip-compressed.
func contentType(key string) string {
	switch {
	case strings.HasSuffix(key, ".csv"):
		return "text/csv"
	case strings.HasSuffix(key, ".csv.gz"), strings.HasSuffix(key, ".gz"):
		return "application/gzip"
	}
	return "application/octet-stream"
}
