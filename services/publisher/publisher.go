package publisher

// Publisher pushes newly scraped listings to downstream consumers. The
// snapshot file stays the source of truth; publishing is best effort.
type Publisher interface {
	// Publish publishes an encoded listing
	Publish(message []byte) error

	// Close closes the publisher connection
	Close() error
}

// Noop is the publisher used when no downstream is configured
type Noop struct{}

// Publish discards the message
func (Noop) Publish([]byte) error { return nil }

// Close does nothing
func (Noop) Close() error { return nil }
