package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	minio "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/yourusername/reserved/models"
)

// S3CacheStore keeps the cache record as a JSON object in an S3-compatible bucket (incl. R2, MinIO).
type S3CacheStore struct {
	client *minio.Client
	bucket string
	key    string
}

func NewS3CacheStore(cfg S3Config) (*S3CacheStore, error) {
	if cfg.Endpoint == "" || cfg.AccessKey == "" || cfg.SecretKey == "" || cfg.Bucket == "" {
		return nil, fmt.Errorf("incomplete S3 config")
	}
	endpoint := cfg.Endpoint
	useSSL := cfg.UseSSL
	if strings.HasPrefix(endpoint, "http://") || strings.HasPrefix(endpoint, "https://") {
		u, err := url.Parse(endpoint)
		if err != nil {
			return nil, err
		}
		endpoint = u.Host
		useSSL = u.Scheme == "https"
	}
	cli, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: useSSL,
		Region: "auto",
		BucketLookup: func() minio.BucketLookupType {
			if cfg.ForcePathStyle {
				return minio.BucketLookupPath
			}
			return minio.BucketLookupAuto
		}(),
	})
	if err != nil {
		return nil, err
	}
	key := strings.TrimPrefix(cfg.Key, "/")
	if key == "" {
		key = "reserved-usernames.json"
	}
	return &S3CacheStore{client: cli, bucket: cfg.Bucket, key: key}, nil
}

// bounded applies a default deadline when the caller set none.
func bounded(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, d)
}

func isNoSuchKey(err error) bool {
	return minio.ToErrorResponse(err).Code == "NoSuchKey"
}

func (s *S3CacheStore) Load(ctx context.Context) (*models.CacheRecord, error) {
	ctx, cancel := bounded(ctx, 15*time.Second)
	defer cancel()
	obj, err := s.client.GetObject(ctx, s.bucket, s.key, minio.GetObjectOptions{})
	if err != nil {
		if isNoSuchKey(err) {
			return nil, nil
		}
		return nil, err
	}
	defer obj.Close()
	data, err := io.ReadAll(obj)
	if err != nil {
		if isNoSuchKey(err) {
			return nil, nil
		}
		return nil, err
	}
	return decodeRecord(data)
}

func (s *S3CacheStore) Save(ctx context.Context, rec *models.CacheRecord) error {
	ctx, cancel := bounded(ctx, 30*time.Second)
	defer cancel()
	data, err := encodeRecord(rec)
	if err != nil {
		return err
	}
	_, err = s.client.PutObject(ctx, s.bucket, s.key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType:  "application/json",
		CacheControl: "no-cache",
	})
	return err
}

func (s *S3CacheStore) Delete(ctx context.Context) (bool, error) {
	ctx, cancel := bounded(ctx, 15*time.Second)
	defer cancel()
	if _, err := s.client.StatObject(ctx, s.bucket, s.key, minio.StatObjectOptions{}); err != nil {
		if isNoSuchKey(err) {
			return false, nil
		}
		return false, err
	}
	if err := s.client.RemoveObject(ctx, s.bucket, s.key, minio.RemoveObjectOptions{}); err != nil {
		return false, err
	}
	return true, nil
}

func (s *S3CacheStore) Describe() string { return "s3:" + s.bucket + "/" + s.key }
