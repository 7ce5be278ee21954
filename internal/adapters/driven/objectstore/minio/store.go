// Package minio implements the ObjectStore port against a MinIO or S3
// compatible endpoint. It holds the out-of-line normaliser mapping
// documents that are too large for inline pipeline configuration.
package minio

import (
	"context"
	"fmt"
	"io"
	"net/url"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/strand-media/enricher/internal/core/domain"
	"github.com/strand-media/enricher/internal/core/ports/driven"
)

// Ensure Store implements the ObjectStore interface.
var _ driven.ObjectStore = (*Store)(nil)

// Config is the connection configuration for the object store.
type Config struct {
	// EndpointURL is the server URL, scheme included.
	EndpointURL string

	// AccessKeyID and SecretAccessKey are the static credentials.
	AccessKeyID     string
	SecretAccessKey string

	// Region is optional.
	Region string

	// UseSSL forces TLS even when the URL scheme is http.
	UseSSL bool
}

// Store reads configuration documents from buckets.
type Store struct {
	client *minio.Client
}

// NewStore creates a client from config.
func NewStore(cfg Config) (*Store, error) {
	if cfg.EndpointURL == "" {
		return nil, fmt.Errorf("object store endpoint is required: %w", domain.ErrInvalidInput)
	}
	if cfg.AccessKeyID == "" || cfg.SecretAccessKey == "" {
		return nil, fmt.Errorf("object store credentials are required: %w", domain.ErrInvalidInput)
	}

	u, err := url.Parse(cfg.EndpointURL)
	if err != nil {
		return nil, fmt.Errorf("invalid object store endpoint: %w", err)
	}
	endpoint := u.Host
	if endpoint == "" {
		endpoint = cfg.EndpointURL
	}
	useSSL := cfg.UseSSL || u.Scheme == "https"

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: useSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("create object store client: %w", err)
	}
	return &Store{client: client}, nil
}

// GetObject reads the full document stored under bucket/key.
// Missing buckets and keys map to domain.ErrNotFound.
func (s *Store) GetObject(ctx context.Context, bucket, key string) ([]byte, error) {
	if bucket == "" || key == "" {
		return nil, fmt.Errorf("object reference requires bucket and key: %w", domain.ErrInvalidInput)
	}

	obj, err := s.client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, classifyError(bucket, key, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, classifyError(bucket, key, err)
	}
	return data, nil
}

// classifyError maps SDK error codes onto domain errors. The GetObject
// call is lazy, so missing keys surface on the first read.
func classifyError(bucket, key string, err error) error {
	resp := minio.ToErrorResponse(err)
	switch resp.Code {
	case "NoSuchKey", "NoSuchBucket":
		return fmt.Errorf("object %s/%s: %w", bucket, key, domain.ErrNotFound)
	case "AccessDenied":
		return fmt.Errorf("object %s/%s: access denied: %w", bucket, key, err)
	}
	return fmt.Errorf("object %s/%s: %w", bucket, key, err)
}
