package storage

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"rental-scraper/models"
	"rental-scraper/utils"
)

const insertColumns = 13

// PostgresSink stores every run's listings in the rental_listings table,
// tagged with a per-run ID.
type PostgresSink struct {
	db *sql.DB
}

// NewPostgresSink opens a connection to PostgreSQL, runs schema migrations,
// and returns a ready-to-use PostgresSink.
func NewPostgresSink(dsn string, retry *utils.RetryConfig) (*PostgresSink, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	if err := retry.Do("postgres-ping", db.Ping); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: %w", err)
	}

	ps := &PostgresSink{db: db}
	if err := ps.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return ps, nil
}

func (ps *PostgresSink) migrate() error {
	_, err := ps.db.Exec(`
		CREATE TABLE IF NOT EXISTS rental_listings (
			id                    SERIAL PRIMARY KEY,
			run_id                UUID        NOT NULL,
			title                 TEXT        NOT NULL,
			price                 TEXT        NOT NULL DEFAULT '',
			bedrooms              TEXT        NOT NULL DEFAULT '',
			bathrooms             TEXT        NOT NULL DEFAULT '',
			sqft                  TEXT        NOT NULL DEFAULT '',
			property_type         TEXT        NOT NULL DEFAULT '',
			address               TEXT        NOT NULL DEFAULT '',
			zip_code              VARCHAR(5)  NOT NULL DEFAULT '',
			wheelchair_accessible BOOLEAN     NOT NULL DEFAULT FALSE,
			section_8_accepted    BOOLEAN     NOT NULL DEFAULT FALSE,
			description           TEXT        NOT NULL DEFAULT '',
			url                   TEXT        NOT NULL,
			created_at            TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_rental_listings_run ON rental_listings(run_id);
		CREATE INDEX IF NOT EXISTS idx_rental_listings_zip ON rental_listings(zip_code);
	`)
	return err
}

// Persist batch-inserts listings under a new run ID inside one transaction.
func (ps *PostgresSink) Persist(listings []*models.Listing) (string, error) {
	if len(listings) == 0 {
		return "", ErrNothingToSave
	}

	runID := uuid.NewString()

	tx, err := ps.db.Begin()
	if err != nil {
		return "", fmt.Errorf("postgres: begin: %w", err)
	}

	const batchSize = 50
	for i := 0; i < len(listings); i += batchSize {
		end := i + batchSize
		if end > len(listings) {
			end = len(listings)
		}
		query, args := insertBatch(runID, listings[i:end])
		if _, err := tx.Exec(query, args...); err != nil {
			_ = tx.Rollback()
			return "", fmt.Errorf("postgres: insert batch: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("postgres: commit: %w", err)
	}
	return "postgres:rental_listings/run=" + runID, nil
}

func insertBatch(runID string, batch []*models.Listing) (string, []interface{}) {
	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]interface{}, 0, len(batch)*insertColumns)

	for idx, l := range batch {
		base := idx * insertColumns
		placeholders := make([]string, insertColumns)
		for c := range placeholders {
			placeholders[c] = fmt.Sprintf("$%d", base+c+1)
		}
		valueStrings = append(valueStrings, "("+strings.Join(placeholders, ",")+")")
		valueArgs = append(valueArgs,
			runID, l.Title, l.Price, l.Bedrooms, l.Bathrooms, l.SquareFeet, l.PropertyType,
			l.Address, l.ZipCode, l.Accessible, l.Subsidized, l.Description, l.URL)
	}

	query := fmt.Sprintf(`
		INSERT INTO rental_listings (run_id, title, price, bedrooms, bathrooms, sqft, property_type,
			address, zip_code, wheelchair_accessible, section_8_accepted, description, url)
		VALUES %s
	`, strings.Join(valueStrings, ","))

	return query, valueArgs
}

func (ps *PostgresSink) Close() error {
	return ps.db.Close()
}
