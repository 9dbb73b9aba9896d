package services

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/yourusername/reserved/models"
	"gopkg.in/yaml.v3"
)

const (
	DefaultCacheFile    = ".cache/reserved-usernames.json"
	DefaultFetchTimeout = 10 * time.Second
)

type Config struct {
	CaseSensitive  bool                   `yaml:"case_sensitive"`
	CustomReserved []string               `yaml:"custom_reserved"`
	AutoUpdate     bool                   `yaml:"auto_update"`
	CacheFile      string                 `yaml:"cache_file"`
	FetchTimeout   time.Duration          `yaml:"fetch_timeout"`
	Sources        []models.Mirror        `yaml:"sources"`
	Cache          CacheConfig            `yaml:"cache"`
	Validation     models.ValidationRules `yaml:"validation"`
	Server         ServerConfig           `yaml:"server"`
}

// CacheConfig selects where the cache record lives. Backend is one of
// file (default), s3, postgres or redis.
type CacheConfig struct {
	Backend     string   `yaml:"backend"`
	DatabaseURL string   `yaml:"database_url"`
	RedisAddr   string   `yaml:"redis_addr"`
	RedisKey    string   `yaml:"redis_key"`
	S3          S3Config `yaml:"s3"`
}

type S3Config struct {
	Endpoint       string `yaml:"endpoint"`
	AccessKey      string `yaml:"access_key"`
	SecretKey      string `yaml:"secret_key"`
	UseSSL         bool   `yaml:"use_ssl"`
	Bucket         string `yaml:"bucket"`
	Key            string `yaml:"key"`
	ForcePathStyle bool   `yaml:"force_path_style"`
}

type ServerConfig struct {
	Addr       string        `yaml:"addr"`
	BodyLimit  int           `yaml:"body_limit"`
	RateLimit  int           `yaml:"rate_limit"`
	RateWindow time.Duration `yaml:"rate_window"`
}

func DefaultSources() []models.Mirror {
	const base = "https://raw.githubusercontent.com/shouldbee/reserved-usernames/master/reserved-usernames"
	return []models.Mirror{
		{URL: base + ".json", Format: string(FormatJSON)},
		{URL: base + ".txt", Format: string(FormatTXT)},
		{URL: base + ".csv", Format: string(FormatCSV)},
	}
}

func DefaultConfig() *Config {
	minLen, maxLen := 3, 30
	return &Config{
		CacheFile:    DefaultCacheFile,
		FetchTimeout: DefaultFetchTimeout,
		Sources:      DefaultSources(),
		Cache: CacheConfig{
			Backend:  "file",
			RedisKey: "reserved:usernames",
			S3:       S3Config{UseSSL: true, Key: "reserved-usernames.json", ForcePathStyle: true},
		},
		Validation: models.ValidationRules{
			MinLength:    &minLen,
			MaxLength:    &maxLen,
			AllowedChars: "a-zA-Z0-9_",
		},
		Server: ServerConfig{
			Addr:       ":8080",
			BodyLimit:  1024 * 1024,
			RateLimit:  120,
			RateWindow: time.Minute,
		},
	}
}

// LoadConfig reads path over the defaults. A missing file yields the
// defaults. Environment overrides are applied last.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err == nil {
			if err := yaml.Unmarshal(data, config); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
		}
	}
	config.applyEnv()
	if config.CacheFile == "" {
		config.CacheFile = DefaultCacheFile
	}
	if config.FetchTimeout <= 0 {
		config.FetchTimeout = DefaultFetchTimeout
	}
	return config, nil
}

func (c *Config) applyEnv() {
	c.CacheFile = firstNonEmpty(os.Getenv("RESERVED_CACHE_FILE"), c.CacheFile)
	c.Cache.Backend = firstNonEmpty(os.Getenv("RESERVED_CACHE_BACKEND"), c.Cache.Backend)
	c.Cache.DatabaseURL = firstNonEmpty(os.Getenv("DATABASE_URL"), c.Cache.DatabaseURL)
	c.Cache.RedisAddr = firstNonEmpty(os.Getenv("REDIS_ADDR"), c.Cache.RedisAddr)
	c.Cache.S3.Endpoint = firstNonEmpty(os.Getenv("S3_ENDPOINT"), c.Cache.S3.Endpoint)
	c.Cache.S3.AccessKey = firstNonEmpty(os.Getenv("S3_ACCESS_KEY_ID"), c.Cache.S3.AccessKey)
	c.Cache.S3.SecretKey = firstNonEmpty(os.Getenv("S3_SECRET_ACCESS_KEY"), c.Cache.S3.SecretKey)
	c.Cache.S3.Bucket = firstNonEmpty(os.Getenv("S3_BUCKET"), c.Cache.S3.Bucket)
	if v := os.Getenv("RESERVED_AUTO_UPDATE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.AutoUpdate = b
		}
	}
	if v := os.Getenv("RESERVED_CASE_SENSITIVE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.CaseSensitive = b
		}
	}
	if v := os.Getenv("RESERVED_CUSTOM"); v != "" {
		for _, name := range strings.Split(v, ",") {
			if name = strings.TrimSpace(name); name != "" {
				c.CustomReserved = append(c.CustomReserved, name)
			}
		}
	}
	if port := os.Getenv("PORT"); port != "" {
		c.Server.Addr = ":" + port
	}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
