package store

import "unegui-crawler/internal/crawler"

// Store persists the accumulated listing snapshot. Load returns the prior
// snapshot, empty when none exists; a prior snapshot that cannot be read is
// treated as absent, never as a fatal condition. Write replaces the whole
// destination; the caller assembles the full combined record list before
// each flush.
type Store interface {
	Load() ([]crawler.Listing, error)
	Write(listings []crawler.Listing) error
	Close() error
}
