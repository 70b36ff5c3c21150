package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/streaming"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
)

// AzureConfig configures the Azure Blob snapshot driver.
type AzureConfig struct {
	Account   string
	Key       string
	Container string
	Endpoint  string // defaults to https://<account>.blob.core.windows.net/
	Prefix    string
}

// AzureStore keeps each snapshot as one block blob in a container.
type AzureStore struct {
	client    *azblob.Client
	container string
	prefix    string
}

// NewAzureStore authenticates with the account shared key.
func NewAzureStore(cfg AzureConfig) (*AzureStore, error) {
	if cfg.Account == "" || cfg.Key == "" {
		return nil, fmt.Errorf("azure account name and key required")
	}
	if cfg.Container == "" {
		return nil, fmt.Errorf("azure container required")
	}
	cred, err := azblob.NewSharedKeyCredential(cfg.Account, cfg.Key)
	if err != nil {
		return nil, fmt.Errorf("azure credential: %w", err)
	}
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = fmt.Sprintf("https://%s.blob.core.windows.net/", cfg.Account)
	}
	client, err := azblob.NewClientWithSharedKeyCredential(endpoint, cred, nil)
	if err != nil {
		return nil, fmt.Errorf("azure client: %w", err)
	}
	return NewAzureStoreWithClient(client, cfg.Container, cfg.Prefix), nil
}

// NewAzureStoreWithClient wraps an existing client.
func NewAzureStoreWithClient(client *azblob.Client, container, prefix string) *AzureStore {
	return &AzureStore{client: client, container: container, prefix: prefix}
}

func (s *AzureStore) Driver() string { return DriverAzure }

func (s *AzureStore) blobName(key string) string {
	return s.prefix + key + ".json"
}

func (s *AzureStore) Get(ctx context.Context, key string) ([]byte, error) {
	blob := s.client.ServiceClient().NewContainerClient(s.container).NewBlobClient(s.blobName(key))
	resp, err := blob.DownloadStream(ctx, nil)
	if err != nil {
		if isAzureNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get snapshot %s: %w", key, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read snapshot %s: %w", key, err)
	}
	return data, nil
}

func (s *AzureStore) Set(ctx context.Context, key string, value []byte) error {
	blob := s.client.ServiceClient().NewContainerClient(s.container).NewBlockBlobClient(s.blobName(key))
	if _, err := blob.Upload(ctx, streaming.NopCloser(bytes.NewReader(value)), nil); err != nil {
		return fmt.Errorf("put snapshot %s: %w", key, err)
	}
	return nil
}

func (s *AzureStore) Clear(ctx context.Context, key string) error {
	blob := s.client.ServiceClient().NewContainerClient(s.container).NewBlobClient(s.blobName(key))
	if _, err := blob.Delete(ctx, nil); err != nil && !isAzureNotFound(err) {
		return fmt.Errorf("delete snapshot %s: %w", key, err)
	}
	return nil
}

func isAzureNotFound(err error) bool {
	var re *azcore.ResponseError
	return errors.As(err, &re) && re.StatusCode == http.StatusNotFound
}
