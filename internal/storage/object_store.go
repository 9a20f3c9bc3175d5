package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/Eco-nexion/econexion/internal/config"
)

// ObjectStore holds post images in a single media bucket.
type ObjectStore struct {
	client *minio.Client
	cfg    config.StorageConfig
}

func NewObjectStore(cfg config.StorageConfig) (*ObjectStore, error) {
	endpoint := cfg.Endpoint
	useSSL := cfg.UseSSL

	if strings.HasPrefix(endpoint, "http") {
		u, err := url.Parse(endpoint)
		if err != nil {
			return nil, fmt.Errorf("parse endpoint: %w", err)
		}
		endpoint = u.Host
		useSSL = u.Scheme == "https"
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: useSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("init minio: %w", err)
	}

	return &ObjectStore{client: client, cfg: cfg}, nil
}

func (s *ObjectStore) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.cfg.BucketMedia)
	if err != nil {
		return fmt.Errorf("bucket exists %s: %w", s.cfg.BucketMedia, err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, s.cfg.BucketMedia, minio.MakeBucketOptions{Region: s.cfg.Region}); err != nil {
			return fmt.Errorf("create bucket %s: %w", s.cfg.BucketMedia, err)
		}
	}
	return nil
}

// PutPostImage stores an image under a date-prefixed key and returns its
// public URL.
func (s *ObjectStore) PutPostImage(ctx context.Context, postID string, ext string, reader io.Reader, size int64, contentType string) (string, error) {
	datePrefix := time.Now().UTC().Format("2006/01/02")
	objectKey := path.Join(datePrefix, fmt.Sprintf("%s.%s", postID, ext))

	_, err := s.client.PutObject(ctx, s.cfg.BucketMedia, objectKey, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("put object: %w", err)
	}

	return s.publicURL(objectKey), nil
}

func (s *ObjectStore) publicURL(objectKey string) string {
	base := strings.TrimSuffix(s.cfg.Endpoint, "/")
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "https://" + base
	}
	return fmt.Sprintf("%s/%s/%s", base, s.cfg.BucketMedia, objectKey)
}
