package cache

// URLCache is the persisted set of already-processed ad URLs. It is checked
// before any per-ad fetch and appended to only after a record has been
// confirmed persisted, which is what makes re-runs cheap and resumable.
type URLCache interface {
	// Contains reports whether the URL was fully processed in any prior run
	Contains(url string) bool

	// Add records a URL as processed; idempotent
	Add(url string) error

	// Close releases any underlying resources
	Close() error
}
