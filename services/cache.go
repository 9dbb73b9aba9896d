package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/yourusername/reserved/db"
	"github.com/yourusername/reserved/models"
)

// CacheStore persists the last fetched reserved list. Implementations are
// last-writer-wins; no locking is done across processes.
type CacheStore interface {
	// Load returns (nil, nil) when no record exists.
	Load(ctx context.Context) (*models.CacheRecord, error)
	Save(ctx context.Context, rec *models.CacheRecord) error
	// Delete reports whether a record was removed. A missing record is not an error.
	Delete(ctx context.Context) (bool, error)
	// Describe names the backend for logs.
	Describe() string
}

// NewCacheStore builds the backend selected by cfg.Cache.Backend.
func NewCacheStore(ctx context.Context, cfg *Config) (CacheStore, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Cache.Backend)) {
	case "", "file":
		return NewFileCacheStore(cfg.CacheFile), nil
	case "s3", "r2":
		st, err := NewS3CacheStore(cfg.Cache.S3)
		if err != nil {
			return nil, err
		}
		return st, nil
	case "postgres":
		if err := db.ConnectURL(firstNonEmpty(cfg.Cache.DatabaseURL, os.Getenv("DATABASE_URL")), 5); err != nil {
			return nil, err
		}
		if err := db.Migrate(); err != nil {
			return nil, fmt.Errorf("migrate reserved_cache: %w", err)
		}
		return NewPostgresCacheStore(models.NewCacheRecordRepository(db.Current)), nil
	case "redis":
		addr := firstNonEmpty(cfg.Cache.RedisAddr, "localhost:6379")
		client := redis.NewClient(&redis.Options{Addr: addr})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("redis ping %s: %w", addr, err)
		}
		return NewRedisCacheStore(client, cfg.Cache.RedisKey), nil
	}
	return nil, fmt.Errorf("unknown cache backend %q", cfg.Cache.Backend)
}

func encodeRecord(rec *models.CacheRecord) ([]byte, error) {
	return json.Marshal(rec)
}

func decodeRecord(data []byte) (*models.CacheRecord, error) {
	var rec models.CacheRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decode cache record: %w", err)
	}
	return &rec, nil
}

// ----- Local file -----

type FileCacheStore struct {
	path string
}

func NewFileCacheStore(path string) *FileCacheStore {
	if path == "" {
		path = DefaultCacheFile
	}
	return &FileCacheStore{path: path}
}

func (s *FileCacheStore) Path() string { return s.path }

func (s *FileCacheStore) Load(ctx context.Context) (*models.CacheRecord, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	return decodeRecord(data)
}

func (s *FileCacheStore) Save(ctx context.Context, rec *models.CacheRecord) error {
	data, err := encodeRecord(rec)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o644)
}

func (s *FileCacheStore) Delete(ctx context.Context) (bool, error) {
	if err := os.Remove(s.path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *FileCacheStore) Describe() string { return "file:" + s.path }

// ----- Postgres -----

type PostgresCacheStore struct {
	repo models.CacheRecordRepositoryInterface
}

func NewPostgresCacheStore(repo models.CacheRecordRepositoryInterface) *PostgresCacheStore {
	return &PostgresCacheStore{repo: repo}
}

func (s *PostgresCacheStore) Load(ctx context.Context) (*models.CacheRecord, error) {
	return s.repo.Get()
}

func (s *PostgresCacheStore) Save(ctx context.Context, rec *models.CacheRecord) error {
	return s.repo.Upsert(rec)
}

func (s *PostgresCacheStore) Delete(ctx context.Context) (bool, error) {
	return s.repo.Delete()
}

func (s *PostgresCacheStore) Describe() string { return "postgres:reserved_cache" }

// ----- Redis -----

type RedisCacheStore struct {
	client *redis.Client
	key    string
}

func NewRedisCacheStore(client *redis.Client, key string) *RedisCacheStore {
	if key == "" {
		key = "reserved:usernames"
	}
	return &RedisCacheStore{client: client, key: key}
}

func (s *RedisCacheStore) Load(ctx context.Context) (*models.CacheRecord, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	return decodeRecord(data)
}

// Save lets Redis expire the key with the record, so a stale record reads as absent.
func (s *RedisCacheStore) Save(ctx context.Context, rec *models.CacheRecord) error {
	data, err := encodeRecord(rec)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.key, data, CacheTTL).Err()
}

func (s *RedisCacheStore) Delete(ctx context.Context) (bool, error) {
	n, err := s.client.Del(ctx, s.key).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *RedisCacheStore) Describe() string { return "redis:" + s.key }
