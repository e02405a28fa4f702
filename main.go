package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"rental-scraper/classify"
	"rental-scraper/config"
	"rental-scraper/extract"
	"rental-scraper/fetch"
	"rental-scraper/filter"
	"rental-scraper/metrics"
	"rental-scraper/models"
	"rental-scraper/scraper"
	"rental-scraper/services"
	"rental-scraper/storage"
	"rental-scraper/utils"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg := config.Load()

	logger, err := utils.NewLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid LOG_LEVEL: %v\n", err)
		return 1
	}
	defer logger.Sync()

	logger.Info("=== Rental Scraping System starting ===")
	logger.Info("Config | pages: %d | rate: %dms | transport: %s | site: %s",
		cfg.PagesToScrape, cfg.RateLimitMs, cfg.Transport, cfg.SiteConfigPath)

	site, err := config.LoadSite(cfg.SiteConfigPath)
	if err != nil {
		logger.Error("Failed to load site config: %v", err)
		return 1
	}

	criteria, err := filter.NewBuilder(logger).SetAll(site.Criteria).Build()
	if err != nil {
		logger.Error("Invalid criteria: %v", err)
		return 1
	}
	logger.Info("Criteria | zip codes: %d | wheelchair: %v | section 8: %v",
		len(criteria.ZipCodes), criteria.WheelchairRequired, criteria.SubsidizedRequired)

	fetcher, closeFetcher, err := newFetcher(cfg, logger)
	if err != nil {
		logger.Error("%v", err)
		return 1
	}
	defer closeFetcher()

	sinks := []storage.Sink{storage.NewCSVSink(cfg.ResultsDir)}
	if cfg.PostgresEnabled {
		pgSink, err := storage.NewPostgresSink(cfg.DSN(), &utils.RetryConfig{
			MaxAttempts: cfg.MaxRetries,
			BaseDelay:   time.Second,
			Logger:      logger,
		})
		if err != nil {
			logger.Error("Failed to connect to PostgreSQL: %v", err)
		} else {
			sinks = append(sinks, pgSink)
		}
	}
	defer func() {
		for _, sink := range sinks {
			_ = sink.Close()
		}
	}()

	runMetrics := metrics.NewRun()
	result := scrape(fetcher, site, criteria, cfg, sinks, logger, runMetrics)

	if cfg.MetricsTextfile != "" {
		if err := runMetrics.WriteTextfile(cfg.MetricsTextfile); err != nil {
			logger.Error("%v", err)
		}
	}

	summarySvc := services.NewSummaryService(logger).WithZipNames(site.ZipNames)
	summarySvc.Print(summarySvc.Generate(result.Listings))

	logger.Info("Done. %d listings matched the criteria", len(result.Listings))
	return 0
}

// scrape runs one pass over the site and hands the accepted listings to every
// sink. Sinks run even when the driver aborted on a search page fault.
func scrape(fetcher scraper.Fetcher, site *config.Site, criteria models.Criteria, cfg *config.Config,
	sinks []storage.Sink, logger *utils.Logger, m *metrics.Run) *scraper.Result {
	extractor := extract.New(site.Locators,
		classify.New(site.Keywords.Accessibility),
		classify.New(site.Keywords.Subsidized))

	driver := scraper.New(fetcher, extractor, site, scraper.Options{
		PageDelay:          time.Duration(cfg.RateLimitMs) * time.Millisecond,
		SkipDuplicateLinks: cfg.SkipDuplicateLinks,
	}, logger, m)

	result := driver.Run(criteria, cfg.PagesToScrape)
	if result.Aborted {
		logger.Warn("Run aborted at search page %d; keeping %d listings",
			result.AbortedAt, len(result.Listings))
	}
	logger.Info("Pages: %d | links: %d | accepted: %d | rejected: %d | skipped: %d",
		result.PagesScraped, result.LinksSeen, len(result.Listings), result.Rejected, result.Skipped)

	for _, sink := range sinks {
		persist(sink, result.Listings, logger)
	}
	return result
}

func newFetcher(cfg *config.Config, logger *utils.Logger) (scraper.Fetcher, func(), error) {
	timeout := time.Duration(cfg.RequestTimeoutSec) * time.Second

	switch cfg.Transport {
	case "http":
		return fetch.NewHTTPFetcher(cfg.UserAgent, timeout), func() {}, nil
	case "browser":
		b, err := fetch.NewBrowserFetcher(cfg.ChromeBin, cfg.UserAgent, timeout, logger)
		if err != nil {
			return nil, nil, err
		}
		return b, func() { _ = b.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown TRANSPORT %q (want http or browser)", cfg.Transport)
	}
}

func persist(sink storage.Sink, listings []*models.Listing, logger *utils.Logger) {
	location, err := sink.Persist(listings)
	switch {
	case errors.Is(err, storage.ErrNothingToSave):
		logger.Info("No listings to save")
	case err != nil:
		logger.Error("Failed to save listings: %v", err)
	default:
		logger.Info("Saved %d listings to %s", len(listings), location)
	}
}
