package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"rental-scraper/config"
	"rental-scraper/fetch"
	"rental-scraper/metrics"
	"rental-scraper/models"
	"rental-scraper/storage"
	"rental-scraper/utils"
)

const testSite = `
name: test
search:
  base_url: https://rentals.test/search
links:
  selector: a.listing-link
fields:
  title: h1.listing-title
  price: div.price
  address: div.address
`

type stubFetcher struct {
	pages map[string]string
}

func (f *stubFetcher) Fetch(_ context.Context, url string) (*fetch.Page, error) {
	body, ok := f.pages[url]
	if !ok {
		return nil, &fetch.Fault{URL: url, StatusCode: 503, Err: fmt.Errorf("unexpected status")}
	}
	return &fetch.Page{URL: url, StatusCode: 200, Body: []byte(body)}, nil
}

// recordingSink keeps every batch it is given and behaves like the real sinks
// on empty input.
type recordingSink struct {
	batches [][]*models.Listing
}

func (s *recordingSink) Persist(listings []*models.Listing) (string, error) {
	s.batches = append(s.batches, listings)
	if len(listings) == 0 {
		return "", storage.ErrNothingToSave
	}
	return "memory", nil
}

func (s *recordingSink) Close() error { return nil }

func searchPageURL(page int) string {
	return fmt.Sprintf("https://rentals.test/search?page=%d", page)
}

func setup(t *testing.T) (*config.Site, *config.Config, *utils.Logger, *observer.ObservedLogs) {
	t.Helper()
	site, err := config.ParseSite([]byte(testSite))
	require.NoError(t, err)
	cfg := &config.Config{PagesToScrape: 5, RateLimitMs: 0}
	core, logs := observer.New(zapcore.InfoLevel)
	return site, cfg, utils.WrapZap(zap.New(core)), logs
}

func TestScrapePersistsAfterAbort(t *testing.T) {
	site, cfg, logger, _ := setup(t)

	f := &stubFetcher{pages: map[string]string{
		searchPageURL(1): `<a class="listing-link" href="/1">1</a>` +
			`<a class="listing-link" href="/2">2</a>` +
			`<a class="listing-link" href="/3">3</a>`,
	}}
	for i := 1; i <= 3; i++ {
		f.pages[fmt.Sprintf("https://rentals.test/%d", i)] = fmt.Sprintf(
			`<h1 class="listing-title">L%d</h1><div class="price">$1,500</div>`+
				`<div class="address">%d Main St, Miami, FL 33131</div>`, i, i)
	}
	// page 2 is missing, so the stub faults on it

	rec := &recordingSink{}
	dir := filepath.Join(t.TempDir(), "results")
	sinks := []storage.Sink{rec, storage.NewCSVSink(dir)}

	res := scrape(f, site, models.Criteria{}, cfg, sinks, logger, metrics.NewRun())

	require.True(t, res.Aborted)
	assert.Equal(t, 2, res.AbortedAt)
	require.Len(t, rec.batches, 1)
	require.Len(t, rec.batches[0], 3)
	assert.Equal(t, "L1", rec.batches[0][0].Title)
	assert.Equal(t, "L3", rec.batches[0][2].Title)

	files, err := filepath.Glob(filepath.Join(dir, "rental_listings_*.csv"))
	require.NoError(t, err)
	require.Len(t, files, 1)
	data, err := os.ReadFile(files[0])
	require.NoError(t, err)
	assert.Equal(t, 4, strings.Count(string(data), "\n"), "header plus three rows")
}

func TestScrapeEmptyRunSavesNothing(t *testing.T) {
	site, cfg, logger, logs := setup(t)
	cfg.PagesToScrape = 2

	f := &stubFetcher{pages: map[string]string{
		searchPageURL(1): `<p>no results</p>`,
		searchPageURL(2): `<p>no results</p>`,
	}}

	rec := &recordingSink{}
	dir := filepath.Join(t.TempDir(), "results")
	sinks := []storage.Sink{rec, storage.NewCSVSink(dir)}

	res := scrape(f, site, models.Criteria{}, cfg, sinks, logger, metrics.NewRun())

	assert.False(t, res.Aborted)
	assert.Empty(t, res.Listings)
	require.Len(t, rec.batches, 1)
	assert.Empty(t, rec.batches[0])
	assert.Equal(t, 2, logs.FilterMessage("No listings to save").Len())

	_, err := os.Stat(dir)
	assert.True(t, os.IsNotExist(err), "no results dir for an empty run")
}
