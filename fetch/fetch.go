// Package fetch implements the transport collaborators used by the scraper:
// a plain HTTP fetcher built on colly and a headless-browser fetcher built on chromedp.
package fetch

import (
	"fmt"
	"net/http"
)

// Page is a successfully fetched document.
type Page struct {
	URL        string
	StatusCode int
	Body       []byte
}

// Fault is a transport-level failure: network error, non-2xx status or an
// empty response. StatusCode is 0 when no response was received.
type Fault struct {
	URL        string
	StatusCode int
	Err        error
}

func (f *Fault) Error() string {
	if f.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: status %d (%s): %v", f.URL, f.StatusCode, http.StatusText(f.StatusCode), f.Err)
	}
	return fmt.Sprintf("fetch %s: %v", f.URL, f.Err)
}

func (f *Fault) Unwrap() error { return f.Err }

// defaultHeaders are sent with every request alongside the User-Agent.
var defaultHeaders = map[string]string{
	"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
	"Accept-Language": "en-US,en;q=0.5",
}

func checkPage(url string, status int, body []byte) (*Page, error) {
	if status < 200 || status > 299 {
		return nil, &Fault{URL: url, StatusCode: status, Err: fmt.Errorf("unexpected status")}
	}
	if len(body) == 0 {
		return nil, &Fault{URL: url, StatusCode: status, Err: fmt.Errorf("empty response body")}
	}
	return &Page{URL: url, StatusCode: status, Body: body}, nil
}
