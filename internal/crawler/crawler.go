package crawler

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"unegui-crawler/logger"
	"unegui-crawler/pkg/errors"

	"github.com/PuerkitoBio/goquery"
)

// Fetcher retrieves a URL and returns its body as UTF-8
type Fetcher interface {
	Fetch(url string) (io.Reader, error)
}

// URLCache is the persisted set of already-processed ad URLs, checked
// before every per-ad fetch and appended to only after the record is
// durable in the snapshot
type URLCache interface {
	Contains(url string) bool
	Add(url string) error
	Close() error
}

// Store persists the accumulated snapshot; Write replaces it wholesale
type Store interface {
	Load() ([]Listing, error)
	Write(listings []Listing) error
	Close() error
}

// Publisher pushes newly scraped listings downstream, best effort
type Publisher interface {
	Publish(message []byte) error
	Close() error
}

// Config carries the crawl parameters
type Config struct {
	// BaseURL is the first listing page; later pages add a page query parameter
	BaseURL string
	// SiteOrigin prefixes the relative ad links found on listing pages
	SiteOrigin string
	// MaxPages bounds pagination
	MaxPages int
	// FlushEvery is the checkpoint interval in processed links
	FlushEvery int
}

// Crawler owns one crawl session: it paginates listing pages, drives per-ad
// extraction through the fetcher, skips cached URLs, and checkpoints the
// accumulated snapshot to the store. Single writer; nothing here is safe for
// concurrent use and nothing needs to be.
type Crawler struct {
	cfg    Config
	client Fetcher
	cache  URLCache
	store  Store
	pub    Publisher
	log    *logger.Logger
	now    func() time.Time
}

// New creates a crawl session over the given collaborators; pub may be nil
// when no downstream is configured
func New(cfg Config, client Fetcher, urlCache URLCache, st Store, pub Publisher) *Crawler {
	return &Crawler{
		cfg:    cfg,
		client: client,
		cache:  urlCache,
		store:  st,
		pub:    pub,
		log:    logger.ForCrawler(),
		now:    time.Now,
	}
}

// pageURL builds the address of the nth listing page
func (c *Crawler) pageURL(n int) string {
	if n == 1 {
		return c.cfg.BaseURL
	}
	return fmt.Sprintf("%s?page=%d", c.cfg.BaseURL, n)
}

// resolveURL turns a relative ad link into an absolute one
func (c *Crawler) resolveURL(link string) string {
	if strings.HasPrefix(link, "http://") || strings.HasPrefix(link, "https://") {
		return link
	}
	return c.cfg.SiteOrigin + link
}

// collectPageLinks extracts the ad links from a single listing page. A fetch
// or parse failure yields no links, which the pagination loop treats as the
// end of results.
func (c *Crawler) collectPageLinks(pageURL string) []string {
	body, err := c.client.Fetch(pageURL)
	if err != nil {
		c.log.Warn().Str("url", pageURL).Err(err).Msg("Failed to fetch listing page")
		return nil
	}

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		c.log.Warn().Str("url", pageURL).Err(err).Msg("Failed to parse listing page")
		return nil
	}

	var links []string
	doc.Find("a.mask").Each(func(_ int, s *goquery.Selection) {
		if href, exists := s.Attr("href"); exists && href != "" {
			links = append(links, c.resolveURL(href))
		}
	})

	c.log.Info().
		Str("url", pageURL).
		Int("links", len(links)).
		Msg("Collected ad links from page")

	return links
}

// CollectAdLinks paginates listing pages and accumulates every ad link.
// Pagination stops at MaxPages or at the first page yielding zero links,
// which means no more results rather than an error.
func (c *Crawler) CollectAdLinks() []string {
	var all []string
	for page := 1; page <= c.cfg.MaxPages; page++ {
		c.log.Info().Int("page", page).Msg("Scraping listing page")

		links := c.collectPageLinks(c.pageURL(page))
		if len(links) == 0 {
			c.log.Info().Int("page", page).Msg("No more links found")
			break
		}
		all = append(all, links...)
	}
	return all
}

// ScrapeAd fetches and extracts a single ad
func (c *Crawler) ScrapeAd(url string) (*Listing, error) {
	body, err := c.client.Fetch(url)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, errors.NewParsing(url, "failed to parse ad page", err)
	}

	return ExtractListing(doc, url, c.now().Format("02/01/2006")), nil
}

// Run executes one full crawl: collect links, scrape every uncached ad,
// checkpoint the snapshot every FlushEvery processed links and once more at
// the end. A single ad failure is logged and skipped, never fatal; only a
// failed final flush is reported to the caller.
func (c *Crawler) Run() error {
	snapshot, err := c.store.Load()
	if err != nil {
		c.log.Warn().Err(err).Msg("Could not load prior snapshot, starting empty")
		snapshot = nil
	}
	if len(snapshot) > 0 {
		c.log.Info().Int("records", len(snapshot)).Msg("Loaded existing records")
	}

	links := c.CollectAdLinks()
	c.log.Info().Int("links", len(links)).Msg("Link collection done, scraping individual ads")

	// URLs scraped this run but not yet durable in the snapshot. They are
	// marked in the dedup cache only after a successful flush, so an
	// interrupted run re-fetches them instead of silently dropping them.
	var pending []string
	seenThisRun := make(map[string]struct{})

	for i, link := range links {
		num := i + 1

		if _, ok := seenThisRun[link]; ok || c.cache.Contains(link) {
			c.log.Debug().Str("url", link).Msg("Skipping already scraped ad")
		} else {
			c.log.Info().
				Int("current", num).
				Int("total", len(links)).
				Str("url", link).
				Msg("Scraping ad")

			listing, err := c.ScrapeAd(link)
			if err != nil {
				c.log.Warn().Str("url", link).Err(err).Msg("Skipping ad after failure")
			} else {
				snapshot = append(snapshot, *listing)
				pending = append(pending, link)
				seenThisRun[link] = struct{}{}
				c.publish(listing)
			}
		}

		if num%c.cfg.FlushEvery == 0 {
			if err := c.flush(snapshot, &pending); err != nil {
				c.log.Error().Err(err).Msg("Checkpoint flush failed, will retry at next checkpoint")
			} else {
				c.log.Info().
					Int("processed", num).
					Int("total", len(links)).
					Msg("Progress saved")
			}
		}
	}

	if err := c.flush(snapshot, &pending); err != nil {
		return errors.NewStorage("", "final flush failed", err)
	}

	c.log.Info().Int("records", len(snapshot)).Msg("Scraping completed")
	return nil
}

// flush writes the full snapshot, then marks the pending URLs in the dedup
// cache. The ordering is deliberate: a URL must never be cached before its
// record is durable.
func (c *Crawler) flush(snapshot []Listing, pending *[]string) error {
	if err := c.store.Write(snapshot); err != nil {
		return err
	}
	for _, url := range *pending {
		if err := c.cache.Add(url); err != nil {
			c.log.Warn().Str("url", url).Err(err).Msg("Failed to record URL in dedup cache")
		}
	}
	*pending = (*pending)[:0]
	return nil
}

// publish pushes the listing downstream, best effort
func (c *Crawler) publish(l *Listing) {
	if c.pub == nil {
		return
	}
	data, err := json.Marshal(l)
	if err != nil {
		c.log.Warn().Str("url", l.URL).Err(err).Msg("Failed to encode listing for publishing")
		return
	}
	if err := c.pub.Publish(data); err != nil {
		c.log.Warn().Str("url", l.URL).Err(err).Msg("Failed to publish listing")
	}
}
