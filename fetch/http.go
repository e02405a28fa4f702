package fetch

import (
	"context"
	"time"

	"github.com/gocolly/colly"
)

// HTTPFetcher fetches pages with a colly collector. It follows redirects,
// never retries and keeps no cookies between runs.
type HTTPFetcher struct {
	collector *colly.Collector
}

// NewHTTPFetcher creates an HTTPFetcher sending userAgent with every request.
func NewHTTPFetcher(userAgent string, timeout time.Duration) *HTTPFetcher {
	c := colly.NewCollector(
		colly.UserAgent(userAgent),
	)
	c.AllowURLRevisit = true
	c.IgnoreRobotsTxt = true
	// colly fails every status >= 203 on its own; checkPage owns the 2xx rule.
	c.ParseHTTPErrorResponse = true
	c.DisableCookies()
	if timeout > 0 {
		c.SetRequestTimeout(timeout)
	}
	return &HTTPFetcher{collector: c}
}

// Fetch performs a GET request. Any failure is returned as a *Fault.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (*Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, &Fault{URL: url, Err: err}
	}

	c := f.collector.Clone()

	var (
		status   int
		body     []byte
		finalURL = url
	)

	c.OnRequest(func(r *colly.Request) {
		for k, v := range defaultHeaders {
			r.Headers.Set(k, v)
		}
	})

	c.OnResponse(func(r *colly.Response) {
		status = r.StatusCode
		body = r.Body
		finalURL = r.Request.URL.String()
	})

	c.OnError(func(r *colly.Response, _ error) {
		if r != nil {
			status = r.StatusCode
		}
	})

	if err := c.Visit(url); err != nil {
		return nil, &Fault{URL: url, StatusCode: status, Err: err}
	}

	page, err := checkPage(url, status, body)
	if err != nil {
		return nil, err
	}
	// Relative links resolve against the post-redirect location.
	page.URL = finalURL
	return page, nil
}
