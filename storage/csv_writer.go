package storage

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"rental-scraper/models"
)

const timestampLayout = "20060102_150405"

// CSVSink writes each run's listings to a new timestamped CSV file under Dir.
type CSVSink struct {
	Dir    string
	Prefix string

	now func() time.Time
}

// NewCSVSink creates a CSVSink. The directory is created on first use.
func NewCSVSink(dir string) *CSVSink {
	return &CSVSink{Dir: dir, Prefix: "rental_listings", now: time.Now}
}

// Persist writes listings to a fresh file and returns its path.
func (s *CSVSink) Persist(listings []*models.Listing) (string, error) {
	if len(listings) == 0 {
		return "", ErrNothingToSave
	}

	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return "", fmt.Errorf("csv: create output dir: %w", err)
	}

	f, path, err := s.createUnique()
	if err != nil {
		return "", err
	}

	w := csv.NewWriter(f)
	if err := w.Write(columns); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("csv: write header: %w", err)
	}

	for _, l := range listings {
		row := []string{
			l.Title,
			l.Price,
			l.Bedrooms,
			l.Bathrooms,
			l.SquareFeet,
			l.PropertyType,
			l.Address,
			l.ZipCode,
			strconv.FormatBool(l.Accessible),
			strconv.FormatBool(l.Subsidized),
			l.Description,
			l.URL,
		}
		if err := w.Write(row); err != nil {
			_ = f.Close()
			return "", fmt.Errorf("csv: write row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("csv: flush: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("csv: close %q: %w", path, err)
	}
	return path, nil
}

// Close is a no-op; every Persist call closes its own file.
func (s *CSVSink) Close() error { return nil }

// createUnique creates <prefix>_<timestamp>.csv, adding _1, _2... when a file
// with that name already exists.
func (s *CSVSink) createUnique() (*os.File, string, error) {
	base := fmt.Sprintf("%s_%s", s.Prefix, s.now().Format(timestampLayout))

	for i := 0; ; i++ {
		name := base + ".csv"
		if i > 0 {
			name = fmt.Sprintf("%s_%d.csv", base, i)
		}
		path := filepath.Join(s.Dir, name)

		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return nil, "", fmt.Errorf("csv: create file %q: %w", path, err)
		}
		return f, path, nil
	}
}
