// Package scraper drives the fetch, extract and filter loop across search result pages.
package scraper

import (
	"context"
	"time"

	"rental-scraper/config"
	"rental-scraper/extract"
	"rental-scraper/fetch"
	"rental-scraper/filter"
	"rental-scraper/metrics"
	"rental-scraper/models"
	"rental-scraper/utils"
)

// Fetcher retrieves one document. Implementations return a *fetch.Fault on
// any transport failure.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*fetch.Page, error)
}

// Pauser is called before every search page fetch.
type Pauser interface {
	Wait()
}

// Options tunes a Driver.
type Options struct {
	// PageDelay is the pause between successive search page fetches.
	PageDelay time.Duration
	// SkipDuplicateLinks drops listing URLs already visited in this run.
	SkipDuplicateLinks bool
}

// Result is the outcome of a run: the accepted listings in discovery order
// plus counters describing what happened.
type Result struct {
	Listings []*models.Listing

	PagesScraped int
	LinksSeen    int
	Skipped      int
	Rejected     int

	// Aborted is set when a search page fault ended the run at page AbortedAt.
	Aborted   bool
	AbortedAt int
}

// Driver orchestrates one scraping run. It is single-threaded and owns its Result.
type Driver struct {
	fetcher   Fetcher
	extractor *extract.Extractor
	site      *config.Site
	pacer     Pauser
	opts      Options
	logger    *utils.Logger
	metrics   *metrics.Run

	state State
}

// New creates a Driver. If m is nil a fresh metrics.Run is used.
func New(fetcher Fetcher, extractor *extract.Extractor, site *config.Site, opts Options, logger *utils.Logger, m *metrics.Run) *Driver {
	if m == nil {
		m = metrics.NewRun()
	}
	return &Driver{
		fetcher:   fetcher,
		extractor: extractor,
		site:      site,
		pacer:     utils.NewPacer(int(opts.PageDelay / time.Millisecond)),
		opts:      opts,
		logger:    logger,
		metrics:   m,
		state:     StateIdle,
	}
}

// WithPauser replaces the pause between search pages.
func (d *Driver) WithPauser(p Pauser) *Driver {
	d.pacer = p
	return d
}

// State returns the driver's current state.
func (d *Driver) State() State {
	return d.state
}

// Run scrapes pages 1..maxPages. A search page fault ends the run early;
// whatever was accepted before it is still returned.
func (d *Driver) Run(criteria models.Criteria, maxPages int) *Result {
	ctx := context.Background()
	result := &Result{Listings: make([]*models.Listing, 0)}

	var visited *utils.LinkSet
	if d.opts.SkipDuplicateLinks {
		visited = utils.NewLinkSet()
	}

	d.logger.Info("[scraper] Starting run on %s: %d pages", d.site.Name, maxPages)

	for page := 1; page <= maxPages; page++ {
		d.pacer.Wait()

		links, ok := d.searchPage(ctx, criteria, page)
		if !ok {
			result.Aborted = true
			result.AbortedAt = page
			d.metrics.Aborted.Set(1)
			d.transition(StateTerminated)
			break
		}

		result.PagesScraped++
		result.LinksSeen += len(links)
		d.metrics.PagesFetched.Inc()
		d.metrics.ListingsSeen.Add(float64(len(links)))

		for _, link := range links {
			if visited != nil && !visited.Add(link) {
				d.logger.Debug("[scraper] Skipping duplicate: %s", link)
				d.metrics.Skip(metrics.ReasonDupe)
				result.Skipped++
				continue
			}

			listing, reason := d.listing(ctx, link, criteria)
			switch {
			case reason == metrics.ReasonRejected:
				result.Rejected++
				d.metrics.Skip(reason)
			case reason != "":
				result.Skipped++
				d.metrics.Skip(reason)
			default:
				d.transition(StateAccumulating)
				result.Listings = append(result.Listings, listing)
				d.metrics.ListingsAccepted.Inc()
			}
		}

		d.logger.Info("[scraper] Page %d done: %d links, %d matching listings so far",
			page, len(links), len(result.Listings))
	}

	if !result.Aborted {
		d.transition(StateDone)
		d.transition(StateTerminated)
	}

	d.logger.Info("[scraper] Run complete: %d matching listings (%d skipped, %d rejected)",
		len(result.Listings), result.Skipped, result.Rejected)
	return result
}

// searchPage fetches one search page and returns its listing links.
// ok is false on a transport or parse fault.
func (d *Driver) searchPage(ctx context.Context, criteria models.Criteria, page int) ([]string, bool) {
	d.transition(StateFetchingSearchPage)

	url, err := SearchURL(d.site.Search, criteria, page)
	if err != nil {
		d.logger.Error("[scraper] Page %d: %v", page, err)
		return nil, false
	}

	d.logger.Info("[scraper] Scraping page %d: %s", page, url)

	resp, err := d.fetcher.Fetch(ctx, url)
	if err != nil {
		d.logger.Error("[scraper] Error scraping page %d: %v", page, err)
		return nil, false
	}

	d.transition(StateExtractingLinks)

	doc, err := extract.Parse(resp.Body)
	if err != nil {
		d.logger.Error("[scraper] Error parsing page %d: %v", page, err)
		return nil, false
	}

	return extract.Links(doc, d.site.Links.Locator, d.site.Links.Attr, resp.URL), true
}

// listing fetches, extracts and filters one listing. reason is empty when the
// listing was accepted, otherwise it names why it was dropped.
func (d *Driver) listing(ctx context.Context, url string, criteria models.Criteria) (*models.Listing, string) {
	d.transition(StateFetchingListing)

	resp, err := d.fetcher.Fetch(ctx, url)
	if err != nil {
		d.logger.Warn("[scraper] Error scraping listing %s: %v", url, err)
		return nil, metrics.ReasonFetch
	}

	doc, err := extract.Parse(resp.Body)
	if err != nil {
		d.logger.Warn("[scraper] Error parsing listing %s: %v", url, err)
		return nil, metrics.ReasonParse
	}

	listing, err := d.extractor.Extract(doc, url)
	if err != nil {
		d.logger.Warn("[scraper] Skipping listing: %v", err)
		return nil, metrics.ReasonExtract
	}

	if err := filter.CheckNumeric(listing, criteria); err != nil {
		d.logger.Warn("[scraper] Skipping listing %s: %v", url, err)
		return nil, metrics.ReasonNumeric
	}

	if !filter.Passes(listing, criteria) {
		d.logger.Debug("[scraper] Listing does not match criteria: %s", url)
		return nil, metrics.ReasonRejected
	}

	return listing, ""
}

func (d *Driver) transition(s State) {
	if d.state == s {
		return
	}
	d.logger.Debug("[scraper] %s -> %s", d.state, s)
	d.state = s
}
