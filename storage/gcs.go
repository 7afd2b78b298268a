package storage

import (
	"context"
	"fmt"
	"os"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// Uploader stores raw objects in durable blob storage and returns a
// publicly readable URL. Controllers depend on this interface so tests
// can substitute an in-memory implementation.
type Uploader interface {
	Upload(ctx context.Context, objectName, contentType string, data []byte) (string, error)
}

const uploadTimeout = 30 * time.Second

// GCSClient uploads objects to a Google Cloud Storage bucket.
type GCSClient struct {
	client  *storage.Client
	bucket  string
	timeout time.Duration
}

// NewGCSClient builds a client from GCS_BUCKET and, optionally,
// GCS_CREDENTIALS_FILE. Without a credentials file the default
// application credentials are used.
func NewGCSClient(ctx context.Context) (*GCSClient, error) {
	bucket := os.Getenv("GCS_BUCKET")
	if bucket == "" {
		return nil, fmt.Errorf("GCS_BUCKET is not set")
	}

	var opts []option.ClientOption
	if credsFile := os.Getenv("GCS_CREDENTIALS_FILE"); credsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credsFile))
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	return &GCSClient{
		client:  client,
		bucket:  bucket,
		timeout: uploadTimeout,
	}, nil
}

func (g *GCSClient) Upload(ctx context.Context, objectName, contentType string, data []byte) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	w := g.client.Bucket(g.bucket).Object(objectName).NewWriter(ctx)
	w.ContentType = contentType
	if _, err := w.Write(data); err != nil {
		w.Close()
		return "", fmt.Errorf("failed to write object %s: %w", objectName, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize object %s: %w", objectName, err)
	}

	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", g.bucket, objectName), nil
}

func (g *GCSClient) Close() error {
	return g.client.Close()
}
