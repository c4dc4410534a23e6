package storage

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Store keeps user-uploaded images in a public-read MinIO bucket and hands out
// their public URLs.
type Store struct {
	client     *minio.Client
	bucketName string
	region     string
}

func New(ctx context.Context, endpoint, region, bucket, accessKey, secretKey string, useSSL bool) (*Store, error) {
	cli, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
		Region: region,
	})
	if err != nil {
		return nil, err
	}

	exists, err := cli.BucketExists(ctx, bucket)
	if err != nil {
		return nil, err
	}
	if !exists {
		if err := cli.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: region}); err != nil {
			return nil, err
		}
	}

	return &Store{client: cli, bucketName: bucket, region: region}, nil
}

// Put stores data under key and returns the public URL. The bucket policy is
// expected to allow anonymous read; the URL is plain, not presigned.
func (s *Store) Put(ctx context.Context, key, contentType string, data []byte) (string, error) {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	_, err := s.client.PutObject(ctx, s.bucketName, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", err
	}

	scheme := "http"
	if s.client.EndpointURL().Scheme == "https" {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, s.client.EndpointURL().Host, s.bucketName, key), nil
}

// Delete removes the object addressed by a URL previously returned from Put.
func (s *Store) Delete(ctx context.Context, rawURL string) error {
	key, err := s.keyFromURL(rawURL)
	if err != nil {
		return err
	}
	return s.client.RemoveObject(ctx, s.bucketName, key, minio.RemoveObjectOptions{})
}

// Owns reports whether rawURL points into this store's bucket. Cleanup only
// ever runs for URLs we handed out ourselves.
func (s *Store) Owns(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	if !strings.EqualFold(u.Host, s.client.EndpointURL().Host) {
		return false
	}
	return strings.HasPrefix(u.Path, "/"+s.bucketName+"/")
}

func (s *Store) keyFromURL(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	prefix := "/" + s.bucketName + "/"
	if !strings.HasPrefix(u.Path, prefix) {
		return "", fmt.Errorf("url %q is not in bucket %q", rawURL, s.bucketName)
	}
	key := strings.TrimPrefix(u.Path, prefix)
	if key == "" {
		return "", fmt.Errorf("url %q has no object key", rawURL)
	}
	return key, nil
}

// HealthCheck verifies the bucket is still reachable.
func (s *Store) HealthCheck(ctx context.Context) error {
	_, err := s.client.BucketExists(ctx, s.bucketName)
	return err
}
