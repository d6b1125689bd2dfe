package store

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"unegui-crawler/internal/crawler"
	"unegui-crawler/logger"
)

// utf8BOM is prepended to the snapshot file so spreadsheet tools pick the
// right encoding for the Mongolian text columns.
const utf8BOM = "\uFEFF"

// CSVStore persists the snapshot as a UTF-8 CSV file with a byte-order
// marker and a header row. Every Write replaces the file wholesale via a
// temp file and rename, so an interrupted flush leaves the prior snapshot
// intact.
type CSVStore struct {
	path string
	log  *logger.Logger
}

// NewCSVStore creates a CSV snapshot store at the given path
func NewCSVStore(path string) *CSVStore {
	return &CSVStore{
		path: path,
		log:  logger.ForStore(),
	}
}

// Load reads the prior snapshot. A missing or unreadable file yields an
// empty snapshot with a warning, never an error.
func (s *CSVStore) Load() ([]crawler.Listing, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.Warn().Str("path", s.path).Err(err).Msg("Could not open prior snapshot, starting empty")
		}
		return nil, nil
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	rows, err := r.ReadAll()
	if err != nil {
		s.log.Warn().Str("path", s.path).Err(err).Msg("Could not parse prior snapshot, starting empty")
		return nil, nil
	}
	if len(rows) < 2 {
		return nil, nil
	}

	// Header row; tolerate the BOM on the first cell
	rows[0][0] = strings.TrimPrefix(rows[0][0], utf8BOM)

	listings := make([]crawler.Listing, 0, len(rows)-1)
	for _, row := range rows[1:] {
		l, err := crawler.FromRow(row)
		if err != nil {
			s.log.Warn().Str("path", s.path).Err(err).Msg("Skipping malformed snapshot row")
			continue
		}
		listings = append(listings, l)
	}

	s.log.Info().
		Str("path", s.path).
		Int("records", len(listings)).
		Msg("Loaded prior snapshot")

	return listings, nil
}

// Write replaces the snapshot file with the given records
func (s *CSVStore) Write(listings []crawler.Listing) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}

	tmp := s.path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create snapshot temp file %s: %w", tmp, err)
	}

	if _, err := f.WriteString(utf8BOM); err != nil {
		f.Close()
		return fmt.Errorf("write BOM: %w", err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(crawler.Header()); err != nil {
		f.Close()
		return fmt.Errorf("write header: %w", err)
	}
	for i := range listings {
		if err := w.Write(listings[i].Row()); err != nil {
			f.Close()
			return fmt.Errorf("write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("flush snapshot: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close snapshot temp file: %w", err)
	}

	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace snapshot %s: %w", s.path, err)
	}

	s.log.Info().
		Str("path", s.path).
		Int("records", len(listings)).
		Msg("Snapshot written")

	return nil
}

// Close is a no-op; the store holds no open handles between flushes
func (s *CSVStore) Close() error {
	return nil
}
