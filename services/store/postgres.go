package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"unegui-crawler/internal/crawler"
	"unegui-crawler/logger"
)

// PostgresStore persists the snapshot in a listings table, for deployments
// where the dashboard reads from a database instead of the CSV file. The
// semantics mirror CSVStore: Write replaces the table contents wholesale.
type PostgresStore struct {
	db  *sql.DB
	log *logger.Logger
}

// NewPostgresStore opens a connection, runs the schema migration and
// returns a ready-to-use store.
func NewPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	for i := 0; i < 10; i++ {
		if err = db.Ping(); err == nil {
			break
		}
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: ping failed after retries: %w", err)
	}

	s := &PostgresStore{db: db, log: logger.ForStore()}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return s, nil
}

func (s *PostgresStore) migrate() error {
	cols := make([]string, 0, len(crawler.Header()))
	for _, name := range crawler.Header() {
		cols = append(cols, fmt.Sprintf("%s TEXT NOT NULL DEFAULT ''", name))
	}

	_, err := s.db.Exec(fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS listings (
			id SERIAL PRIMARY KEY,
			%s,
			UNIQUE (url)
		);
	`, strings.Join(cols, ",\n\t\t\t")))
	return err
}

// Load retrieves all stored listings
func (s *PostgresStore) Load() ([]crawler.Listing, error) {
	query := fmt.Sprintf("SELECT %s FROM listings ORDER BY id",
		strings.Join(crawler.Header(), ", "))

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("postgres: load: %w", err)
	}
	defer rows.Close()

	var listings []crawler.Listing
	row := make([]string, len(crawler.Header()))
	dest := make([]interface{}, len(row))
	for i := range row {
		dest[i] = &row[i]
	}

	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("postgres: scan row: %w", err)
		}
		l, err := crawler.FromRow(row)
		if err != nil {
			return nil, fmt.Errorf("postgres: rebuild row: %w", err)
		}
		listings = append(listings, l)
	}
	return listings, rows.Err()
}

// Write replaces the table contents with the given records
func (s *PostgresStore) Write(listings []crawler.Listing) error {
	if _, err := s.db.Exec("DELETE FROM listings"); err != nil {
		return fmt.Errorf("postgres: clear: %w", err)
	}

	const batchSize = 50
	for i := 0; i < len(listings); i += batchSize {
		end := i + batchSize
		if end > len(listings) {
			end = len(listings)
		}
		if err := s.insertBatch(listings[i:end]); err != nil {
			return err
		}
	}

	s.log.Info().Int("records", len(listings)).Msg("Snapshot written to postgres")
	return nil
}

func (s *PostgresStore) insertBatch(batch []crawler.Listing) error {
	width := len(crawler.Header())
	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]interface{}, 0, len(batch)*width)

	for idx := range batch {
		placeholders := make([]string, width)
		for j := 0; j < width; j++ {
			placeholders[j] = fmt.Sprintf("$%d", idx*width+j+1)
		}
		valueStrings = append(valueStrings, "("+strings.Join(placeholders, ",")+")")
		for _, v := range batch[idx].Row() {
			valueArgs = append(valueArgs, v)
		}
	}

	query := fmt.Sprintf(`
		INSERT INTO listings (%s)
		VALUES %s
		ON CONFLICT (url) DO NOTHING
	`, strings.Join(crawler.Header(), ", "), strings.Join(valueStrings, ","))

	_, err := s.db.Exec(query, valueArgs...)
	return err
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}
