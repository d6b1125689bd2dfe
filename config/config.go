package config

import (
	"net/url"
	"os"
	"strconv"
	"time"

	"unegui-crawler/pkg/errors"
)

// Config represents the application configuration
type Config struct {
	// Crawl target
	BaseURL    string
	SiteOrigin string
	MaxPages   int

	// HTTP client behaviour
	RequestTimeout time.Duration
	BaseDelay      time.Duration
	DelayJitter    time.Duration
	MaxRetries     int

	// Persistence
	SnapshotFile string
	CacheFile    string
	FlushEvery   int

	// Optional backends
	MemcacheAddr string
	PostgresDSN  string

	// Optional Redis publisher
	RedisAddr         string
	RedisDB           int
	RedisStream       string
	RedisStreamMaxLen int

	// Scheduling; zero means a single run
	CrawlInterval time.Duration

	// Environment
	Environment string
}

// LoadConfig loads the configuration from environment variables with defaults
func LoadConfig() Config {
	maxPages, _ := strconv.Atoi(getEnv("MAX_PAGES", "165"))
	timeout, _ := strconv.Atoi(getEnv("REQUEST_TIMEOUT_SECONDS", "30"))
	baseDelay, _ := strconv.Atoi(getEnv("BASE_DELAY_MS", "2000"))
	jitter, _ := strconv.Atoi(getEnv("DELAY_JITTER_MS", "1000"))
	maxRetries, _ := strconv.Atoi(getEnv("MAX_RETRIES", "3"))
	flushEvery, _ := strconv.Atoi(getEnv("FLUSH_EVERY", "20"))
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	redisStreamMaxLen, _ := strconv.Atoi(getEnv("REDIS_STREAM_MAXLEN", "500"))
	crawlInterval, _ := strconv.Atoi(getEnv("CRAWL_INTERVAL_SECONDS", "0"))

	return Config{
		BaseURL:           getEnv("BASE_URL", "https://www.unegui.mn/l-hdlh/l-hdlh-zarna/oron-suuts-zarna/"),
		SiteOrigin:        getEnv("SITE_ORIGIN", "https://www.unegui.mn"),
		MaxPages:          maxPages,
		RequestTimeout:    time.Duration(timeout) * time.Second,
		BaseDelay:         time.Duration(baseDelay) * time.Millisecond,
		DelayJitter:       time.Duration(jitter) * time.Millisecond,
		MaxRetries:        maxRetries,
		SnapshotFile:      getEnv("SNAPSHOT_FILE", "data/unegui_sales_data.csv"),
		CacheFile:         getEnv("CACHE_FILE", "scraped_sales_urls.txt"),
		FlushEvery:        flushEvery,
		MemcacheAddr:      getEnv("MEMCACHE_ADDR", ""),
		PostgresDSN:       getEnv("POSTGRES_DSN", ""),
		RedisAddr:         getEnv("REDIS_ADDR", ""),
		RedisDB:           redisDB,
		RedisStream:       getEnv("REDIS_STREAM", "listings"),
		RedisStreamMaxLen: redisStreamMaxLen,
		CrawlInterval:     time.Duration(crawlInterval) * time.Second,
		Environment:       getEnv("UNEGUI_ENVIRONMENT", "development"),
	}
}

// Validate checks that the configuration is usable
func (c *Config) Validate() error {
	if _, err := url.ParseRequestURI(c.BaseURL); err != nil {
		return errors.NewConfiguration("invalid BASE_URL", err)
	}
	if _, err := url.ParseRequestURI(c.SiteOrigin); err != nil {
		return errors.NewConfiguration("invalid SITE_ORIGIN", err)
	}
	if c.MaxPages < 1 {
		return errors.NewConfiguration("MAX_PAGES must be at least 1", nil)
	}
	if c.FlushEvery < 1 {
		return errors.NewConfiguration("FLUSH_EVERY must be at least 1", nil)
	}
	if c.MaxRetries < 0 {
		return errors.NewConfiguration("MAX_RETRIES must not be negative", nil)
	}
	if c.SnapshotFile == "" {
		return errors.NewConfiguration("SNAPSHOT_FILE must not be empty", nil)
	}
	if c.CacheFile == "" && c.MemcacheAddr == "" {
		return errors.NewConfiguration("CACHE_FILE must not be empty", nil)
	}
	return nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
