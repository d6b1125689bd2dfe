package cache

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"unegui-crawler/logger"
)

// FileCache implements URLCache as a line-delimited UTF-8 file of URLs.
// The whole file is loaded once at construction; Add appends to the file
// immediately so an interrupted run never re-fetches a processed ad.
type FileCache struct {
	path string
	seen map[string]struct{}
	file *os.File
	log  *logger.Logger
}

// NewFileCache opens (creating if absent) the cache file at the given path
// and loads every previously recorded URL.
func NewFileCache(path string) (*FileCache, error) {
	c := &FileCache{
		path: path,
		seen: make(map[string]struct{}),
		log:  logger.ForCache(),
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, fmt.Errorf("open cache file %s: %w", path, err)
	}
	c.file = f

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		url := strings.TrimSpace(scanner.Text())
		if url != "" {
			c.seen[url] = struct{}{}
		}
	}
	if err := scanner.Err(); err != nil {
		f.Close()
		return nil, fmt.Errorf("read cache file %s: %w", path, err)
	}

	c.log.Info().
		Str("path", path).
		Int("urls", len(c.seen)).
		Msg("Loaded dedup cache")

	return c, nil
}

// Contains reports whether the URL was recorded in this or any prior run
func (c *FileCache) Contains(url string) bool {
	_, ok := c.seen[url]
	return ok
}

// Add appends the URL to the cache file and the in-memory set
func (c *FileCache) Add(url string) error {
	if c.Contains(url) {
		return nil
	}
	if _, err := fmt.Fprintf(c.file, "%s\n", url); err != nil {
		return fmt.Errorf("append to cache file %s: %w", c.path, err)
	}
	c.seen[url] = struct{}{}
	return nil
}

// Len returns the number of cached URLs
func (c *FileCache) Len() int {
	return len(c.seen)
}

// Close closes the underlying file
func (c *FileCache) Close() error {
	return c.file.Close()
}
