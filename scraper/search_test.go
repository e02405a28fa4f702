package scraper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rental-scraper/config"
	"rental-scraper/models"
)

func TestSearchURL(t *testing.T) {
	search := config.SearchConfig{
		BaseURL: "https://rentals.test/search?sort=new",
		Params: config.SearchParams{
			ZipCodes:   "zip_codes",
			MinPrice:   "price_from",
			MaxPrice:   "price_to",
			Wheelchair: "wheelchair",
			Subsidized: "section8",
			Page:       "page",
		},
	}
	lo, hi := 1000.0, 2500.5
	c := models.Criteria{
		Price:              models.Bound{Min: &lo, Max: &hi},
		ZipCodes:           map[string]struct{}{"33131": {}, "33125": {}},
		PropertyType:       "apartment",
		WheelchairRequired: true,
	}

	got, err := SearchURL(search, c, 3)
	require.NoError(t, err)
	assert.Equal(t,
		"https://rentals.test/search?page=3&price_from=1000&price_to=2500.5&sort=new&wheelchair=true&zip_codes=33125%2C33131",
		got)
}

func TestSearchURLNoCriteria(t *testing.T) {
	got, err := SearchURL(config.SearchConfig{
		BaseURL: "https://rentals.test/search",
		Params:  config.SearchParams{Page: "p"},
	}, models.Criteria{}, 1)
	require.NoError(t, err)
	assert.Equal(t, "https://rentals.test/search?p=1", got)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "fetching-listing", StateFetchingListing.String())
	assert.Equal(t, "unknown", State(42).String())
}
