package bucket

import (
	"context"
	"errors"
	"io"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

type gcsBucket struct {
	bkt *storage.BucketHandle
}

// NewGCSBucket creates a Bucket for a Google Cloud Storage bucket.
func NewGCSBucket(ctx context.Context, name string, opts ...option.ClientOption) (Bucket, error) {
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return &gcsBucket{bkt: client.Bucket(name)}, nil
}

func (b *gcsBucket) Put(ctx context.Context, key string, data io.Reader, _ int64) error {
	w := b.bkt.Object(key).NewWriter(ctx)
	w.ContentType = contentType(key)
	if _, err := io.Copy(w, data); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

func (b *gcsBucket) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	return b.bkt.Object(key).NewReader(ctx)
}

func (b *gcsBucket) List(ctx context.Context, prefix string) ([]string, error) {
	it := b.bkt.Objects(ctx, &storage.Query{Prefix: prefix})

	var keys []string
	for {
		attrs, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, err
		}
		keys = append(keys, attrs.Name)
	}
	return keys, nil
}
