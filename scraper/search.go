package scraper

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"rental-scraper/config"
	"rental-scraper/models"
)

// SearchURL builds the search results URL for page from the site's base URL
// and parameter names. Criteria the site has no parameter for are left out.
func SearchURL(search config.SearchConfig, c models.Criteria, page int) (string, error) {
	u, err := url.Parse(search.BaseURL)
	if err != nil {
		return "", fmt.Errorf("scraper: parse base url %q: %w", search.BaseURL, err)
	}

	q := u.Query()
	p := search.Params
	set := func(name, value string) {
		if name != "" && value != "" {
			q.Set(name, value)
		}
	}

	if len(c.ZipCodes) > 0 {
		set(p.ZipCodes, strings.Join(c.SortedZips(), ","))
	}
	if c.Price.Min != nil {
		set(p.MinPrice, formatNumber(*c.Price.Min))
	}
	if c.Price.Max != nil {
		set(p.MaxPrice, formatNumber(*c.Price.Max))
	}
	set(p.PropertyType, c.PropertyType)
	if c.WheelchairRequired {
		set(p.Wheelchair, "true")
	}
	if c.SubsidizedRequired {
		set(p.Subsidized, "true")
	}
	set(p.Page, strconv.Itoa(page))

	u.RawQuery = q.Encode()
	return u.String(), nil
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
