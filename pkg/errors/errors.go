package errors

import (
	"fmt"
	"time"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// ErrorTypeNetwork represents network-related errors
	ErrorTypeNetwork ErrorType = "network"
	// ErrorTypeParsing represents HTML parsing errors
	ErrorTypeParsing ErrorType = "parsing"
	// ErrorTypeStorage represents snapshot storage errors
	ErrorTypeStorage ErrorType = "storage"
	// ErrorTypeCache represents dedup-cache errors
	ErrorTypeCache ErrorType = "cache"
	// ErrorTypePublisher represents publisher-related errors
	ErrorTypePublisher ErrorType = "publisher"
	// ErrorTypeConfiguration represents configuration errors
	ErrorTypeConfiguration ErrorType = "configuration"
)

// CrawlError represents a crawl-specific error carrying the URL or path it occurred on
type CrawlError struct {
	Type    ErrorType
	URL     string
	Message string
	Err     error
	Time    time.Time
}

// Error implements the error interface
func (e *CrawlError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %s - %v", e.Type, e.URL, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Type, e.URL, e.Message)
}

// Unwrap returns the underlying error
func (e *CrawlError) Unwrap() error {
	return e.Err
}

// IsRetryable returns true if the error is retryable
func (e *CrawlError) IsRetryable() bool {
	return e.Type == ErrorTypeNetwork
}

// New creates a new CrawlError
func New(errType ErrorType, url, message string, err error) *CrawlError {
	return &CrawlError{
		Type:    errType,
		URL:     url,
		Message: message,
		Err:     err,
		Time:    time.Now(),
	}
}

// NewNetwork creates a new network error
func NewNetwork(url, message string, err error) *CrawlError {
	return New(ErrorTypeNetwork, url, message, err)
}

// NewParsing creates a new parsing error
func NewParsing(url, message string, err error) *CrawlError {
	return New(ErrorTypeParsing, url, message, err)
}

// NewStorage creates a new storage error
func NewStorage(path, message string, err error) *CrawlError {
	return New(ErrorTypeStorage, path, message, err)
}

// NewCache creates a new cache error
func NewCache(path, message string, err error) *CrawlError {
	return New(ErrorTypeCache, path, message, err)
}

// NewPublisher creates a new publisher error
func NewPublisher(message string, err error) *CrawlError {
	return New(ErrorTypePublisher, "", message, err)
}

// NewConfiguration creates a new configuration error
func NewConfiguration(message string, err error) *CrawlError {
	return New(ErrorTypeConfiguration, "", message, err)
}
