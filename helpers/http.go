package helpers

import (
	"bytes"
	"fmt"
	"io"
	mathrand "math/rand"
	"net/http"
	"time"

	"unegui-crawler/logger"
	"unegui-crawler/pkg/errors"

	"golang.org/x/net/html/charset"
)

// Fixed browser-like headers; the site serves the same markup to every
// desktop browser, so a single stable identity is enough.
const (
	userAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
	acceptHeader   = "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8"
	acceptLanguage = "en-US,en;q=0.9"
)

// Client wraps an HTTP client with politeness delays and bounded
// retry-with-backoff. One Client is shared by a whole crawl session.
type Client struct {
	http       *http.Client
	baseDelay  time.Duration
	jitter     time.Duration
	maxRetries int
	backoff    func(attempt, maxRetries int) (bool, time.Duration)
	rnd        *mathrand.Rand
	log        *logger.Logger
}

// NewClient creates a new HTTP client wrapper
func NewClient(timeout, baseDelay, jitter time.Duration, maxRetries int) *Client {
	return &Client{
		http:       &http.Client{Timeout: timeout},
		baseDelay:  baseDelay,
		jitter:     jitter,
		maxRetries: maxRetries,
		backoff:    RetryPolicy,
		rnd:        mathrand.New(mathrand.NewSource(time.Now().UnixNano())),
		log:        logger.ForCrawler(),
	}
}

// RetryPolicy decides whether another attempt should be made after a failed
// attempt (zero-based) and what the base backoff delay is. Random jitter is
// added by the caller so the policy itself stays deterministic.
func RetryPolicy(attempt, maxRetries int) (bool, time.Duration) {
	if attempt >= maxRetries {
		return false, 0
	}
	return true, time.Duration(1<<uint(attempt)) * time.Second
}

// Fetch retrieves a URL, converts the body to UTF-8 and returns it as an
// io.Reader. Transport failures and non-2xx statuses are retried with
// exponential backoff; after the retry budget is exhausted a network error
// carrying the URL and the last cause is returned.
func (c *Client) Fetch(url string) (io.Reader, error) {
	// Politeness throttle before every request
	c.sleep(c.baseDelay + c.randJitter())

	var lastErr error
	for attempt := 0; ; attempt++ {
		body, err := c.doRequest(url)
		if err == nil {
			return body, nil
		}
		lastErr = err

		retry, delay := c.backoff(attempt, c.maxRetries)
		if !retry {
			break
		}

		wait := delay + c.randJitter()
		c.log.Warn().
			Str("url", url).
			Int("attempt", attempt+1).
			Dur("backoff", wait).
			Err(err).
			Msg("Request failed, retrying")
		c.sleep(wait)
	}

	return nil, errors.NewNetwork(url,
		fmt.Sprintf("giving up after %d attempts", c.maxRetries+1), lastErr)
}

// doRequest performs a single GET with the fixed header set
func (c *Client) doRequest(url string) (io.Reader, error) {
	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", acceptHeader)
	req.Header.Set("Accept-Language", acceptLanguage)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch %s unexpected status code: %d", url, resp.StatusCode)
	}

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	// Determine the encoding from Content-Type header and body content
	encoding, name, _ := charset.DetermineEncoding(bodyBytes, resp.Header.Get("Content-Type"))
	if name == "utf-8" || name == "UTF-8" {
		return bytes.NewReader(bodyBytes), nil
	}

	utf8Reader := encoding.NewDecoder().Reader(bytes.NewReader(bodyBytes))
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, utf8Reader); err != nil {
		return nil, fmt.Errorf("failed to read converted UTF-8 body: %w", err)
	}

	return &buf, nil
}

func (c *Client) randJitter() time.Duration {
	if c.jitter <= 0 {
		return 0
	}
	return time.Duration(c.rnd.Int63n(int64(c.jitter)))
}

func (c *Client) sleep(d time.Duration) {
	if d > 0 {
		time.Sleep(d)
	}
}
