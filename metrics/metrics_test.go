package metrics

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunCounters(t *testing.T) {
	r := NewRun()
	r.PagesFetched.Inc()
	r.ListingsSeen.Add(3)
	r.Skip(ReasonExtract)
	r.Skip(ReasonExtract)
	r.Skip(ReasonRejected)

	assert.Equal(t, 1.0, testutil.ToFloat64(r.PagesFetched))
	assert.Equal(t, 3.0, testutil.ToFloat64(r.ListingsSeen))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.ListingsSkipped.WithLabelValues(ReasonExtract)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.ListingsSkipped.WithLabelValues(ReasonRejected)))
}

func TestRunsAreIndependent(t *testing.T) {
	a, b := NewRun(), NewRun()
	a.ListingsAccepted.Inc()
	assert.Equal(t, 0.0, testutil.ToFloat64(b.ListingsAccepted))
}

func TestWriteTextfile(t *testing.T) {
	r := NewRun()
	r.ListingsAccepted.Add(2)
	r.Aborted.Set(1)

	path := filepath.Join(t.TempDir(), "rental_scraper.prom")
	require.NoError(t, r.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "rental_scraper_listings_accepted_total 2")
	assert.Contains(t, string(data), "rental_scraper_run_aborted 1")
}
