package bucket

import (
	"context"
	"io"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/container"
)

// azureBlockSize is the stream upload block size.
const azureBlockSize = 4 << 20

type azureBucket struct {
	container string
	client    *azblob.Client
}

// AzureClientOption mutates the azblob client options before the client is built.
type AzureClientOption func(*azblob.ClientOptions)

// NewAzureBucket creates a Bucket over an Azure Blob Storage container,
// the destination cost exports deliver their reports to.
//
// serviceURL is the blob service endpoint, e.g.
// https://<account>.blob.core.windows.net/.  azidentity's
// DefaultAzureCredential is the usual credential; it covers environment
// variables, managed identity, and az CLI logins.
func NewAzureBucket(serviceURL, name string, credential azcore.TokenCredential, optFns ...AzureClientOption) (Bucket, error) {
	var opts azblob.ClientOptions
	for _, fn := range optFns {
		fn(&opts)
	}

	client, err := azblob.NewClient(serviceURL, credential, &opts)
	if err != nil {
		return nil, err
	}
	return &azureBucket{container: name, client: client}, nil
}

func (b *azureBucket) Put(ctx context.Context, key string, data io.Reader, objectSize int64) error {
	ct := contentType(key)
	_, err := b.client.UploadStream(ctx, b.container, key, data, &azblob.UploadStreamOptions{
		BlockSize:   azureBlockSize,
		HTTPHeaders: &blob.HTTPHeaders{BlobContentType: &ct},
	})
	return err
}

func (b *azureBucket) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	resp, err := b.client.DownloadStream(ctx, b.container, key, nil)
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

func (b *azureBucket) List(ctx context.Context, prefix string) ([]string, error) {
	pager := b.client.NewListBlobsFlatPager(b.container, &container.ListBlobsFlatOptions{
		Prefix: &prefix,
	})

	var keys []string
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		for _, item := range page.Segment.BlobItems {
			if item.Name == nil {
				continue
			}
			keys = append(keys, *item.Name)
		}
	}
	return keys, nil
}
