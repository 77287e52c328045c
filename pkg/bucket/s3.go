package bucket

import (
	"context"
	"io"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// DefaultPartSize is the part size for multi-part uploads.
// Export artifacts are small CSV files, so a single part is the common case.
const DefaultPartSize = 16 << 20

// WithCredentials specifies a credential provider.
func WithCredentials(cred aws.CredentialsProvider) func(*s3.Options) {
	return func(o *s3.Options) {
		o.Credentials = cred
	}
}

// WithRegion specifies the region of the bucket.
func WithRegion(region string) func(*s3.Options) {
	return func(o *s3.Options) {
		o.Region = region
	}
}

// WithEndpointURL specifies the endpoint of S3 API.
func WithEndpointURL(u string) func(*s3.Options) {
	return func(o *s3.Options) {
		o.EndpointResolver = s3.EndpointResolverFromURL(u)
	}
}

// WithPathStyle specifies to use the path-style API request.
func WithPathStyle() func(*s3.Options) {
	return func(o *s3.Options) {
		o.UsePathStyle = true
	}
}

// WithHTTPClient specifies the http.Client to be used.
func WithHTTPClient(c *http.Client) func(*s3.Options) {
	return func(o *s3.Options) {
		o.HTTPClient = c
	}
}

type s3Bucket struct {
	name     string
	client   *s3.Client
	uploader *manager.Uploader
}

// NewS3Bucket creates a Bucket for an S3-compatible store.
func NewS3Bucket(name string, optFns ...func(*s3.Options)) (Bucket, error) {
	cfg, err := config.LoadDefaultConfig(context.Background())
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(cfg, optFns...)
	uploader := manager.NewUploader(client, func(u *manager.Uploader) {
		u.Concurrency = 1
		u.LeavePartsOnError = false
		u.PartSize = DefaultPartSize
	})
	return &s3Bucket{
		name:     name,
		client:   client,
		uploader: uploader,
	}, nil
}

func (b *s3Bucket) Put(ctx context.Context, key string, data io.Reader, objectSize int64) error {
	_, err := b.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(b.name),
		Key:         aws.String(key),
		Body:        data,
		ContentType: aws.String(contentType(key)),
	})
	return err
}

func (b *s3Bucket) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	resp, err := b.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(b.name),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

func (b *s3Bucket) List(ctx context.Context, prefix string) ([]string, error) {
	in := &s3.ListObjectsV2Input{Bucket: aws.String(b.name)}
	if len(prefix) > 0 {
		in.Prefix = aws.String(prefix)
	}

	var keys []string
	pager := s3.NewListObjectsV2Paginator(b.client, in)
	for pager.HasMorePages() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		for _, obj := range page.Contents {
			keys = append(keys, aws.ToString(obj.Key))
		}
	}
	return keys, nil
}
