package services

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"unicode/utf8"

	"rental-scraper/models"
	"rental-scraper/utils"
)

// SummaryService turns the accepted listings of a run into printable figures.
type SummaryService struct {
	logger   *utils.Logger
	out      io.Writer
	zipNames map[string]string
}

func NewSummaryService(logger *utils.Logger) *SummaryService {
	return &SummaryService{logger: logger, out: os.Stdout}
}

// WithZipNames labels ZIP codes in the per-ZIP section of Print.
func (s *SummaryService) WithZipNames(names map[string]string) *SummaryService {
	s.zipNames = names
	return s
}

// Generate computes the run summary. Price figures cover only listings whose
// price could be parsed.
func (s *SummaryService) Generate(listings []*models.Listing) *models.RunSummary {
	summary := &models.RunSummary{
		ListingsByZip: make(map[string]int),
	}

	if len(listings) == 0 {
		return summary
	}

	summary.TotalListings = len(listings)

	var total float64
	for _, l := range listings {
		if l.Accessible {
			summary.AccessibleListings++
		}
		if l.Subsidized {
			summary.SubsidizedListings++
		}
		if l.ZipCode != "" {
			summary.ListingsByZip[l.ZipCode]++
		}

		if l.Numbers.Price == nil {
			continue
		}
		price := *l.Numbers.Price
		if summary.PricedListings == 0 || price < summary.MinPrice {
			summary.MinPrice = price
			summary.Cheapest = l
		}
		if summary.PricedListings == 0 || price > summary.MaxPrice {
			summary.MaxPrice = price
		}
		total += price
		summary.PricedListings++
	}

	if summary.PricedListings > 0 {
		summary.AveragePrice = round2(total / float64(summary.PricedListings))
		summary.MinPrice = round2(summary.MinPrice)
		summary.MaxPrice = round2(summary.MaxPrice)
	}

	s.logger.Debug("[summary] %d listings, %d priced, %d zip codes",
		summary.TotalListings, summary.PricedListings, len(summary.ListingsByZip))
	return summary
}

func (s *SummaryService) Print(r *models.RunSummary) {
	w := s.out
	sep := strings.Repeat("═", 54)
	thin := strings.Repeat("─", 54)

	fmt.Fprintf(w, "\n\033[1;35m%s\033[0m\n", sep)
	fmt.Fprintf(w, "\033[1;35m  RENTAL SCRAPE SUMMARY\033[0m\n")
	fmt.Fprintf(w, "\033[1;35m%s\033[0m\n\n", sep)

	fmt.Fprintf(w, "\033[1;33m  Overview\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	fmt.Fprintf(w, "  Listings accepted      : \033[1m%d\033[0m\n", r.TotalListings)
	fmt.Fprintf(w, "  Wheelchair accessible  : \033[1m%d\033[0m\n", r.AccessibleListings)
	fmt.Fprintf(w, "  Section 8 accepted     : \033[1m%d\033[0m\n", r.SubsidizedListings)
	fmt.Fprintln(w)

	fmt.Fprintf(w, "\033[1;33m  Rent (%d priced listings)\033[0m\n", r.PricedListings)
	fmt.Fprintf(w, "  %s\n", thin)
	if r.PricedListings > 0 {
		fmt.Fprintf(w, "  Average rent : \033[1;32m$%.2f\033[0m\n", r.AveragePrice)
		fmt.Fprintf(w, "  Minimum rent : \033[1;32m$%.2f\033[0m\n", r.MinPrice)
		fmt.Fprintf(w, "  Maximum rent : \033[1;32m$%.2f\033[0m\n", r.MaxPrice)
	} else {
		fmt.Fprintf(w, "  No price data available\n")
	}
	fmt.Fprintln(w)

	if r.Cheapest != nil {
		fmt.Fprintf(w, "\033[1;33m  Cheapest Listing\033[0m\n")
		fmt.Fprintf(w, "  %s\n", thin)
		fmt.Fprintf(w, "  %s\n", truncate(r.Cheapest.Title, 50))
		fmt.Fprintf(w, "  Address : %s\n", r.Cheapest.Address)
		fmt.Fprintf(w, "  Rent    : \033[1;32m%s\033[0m\n", r.Cheapest.Price)
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "\033[1;33m  Listings by ZIP code\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	if len(r.ListingsByZip) == 0 {
		fmt.Fprintf(w, "  No ZIP data\n")
	} else {
		for _, zc := range zipsByCount(r.ListingsByZip) {
			bar := strings.Repeat("█", zc.count)
			label := zc.zip
			if name := s.zipNames[zc.zip]; name != "" {
				label = zc.zip + " " + truncate(name, 26)
			}
			fmt.Fprintf(w, "  %s %s (%d)\n", padRight(label, 33), bar, zc.count)
		}
	}

	fmt.Fprintf(w, "\n\033[1;35m%s\033[0m\n\n", sep)
}

type zipCount struct {
	zip   string
	count int
}

// zipsByCount orders by count descending, then ZIP ascending.
func zipsByCount(byZip map[string]int) []zipCount {
	out := make([]zipCount, 0, len(byZip))
	for zip, n := range byZip {
		out = append(out, zipCount{zip, n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].count != out[j].count {
			return out[i].count > out[j].count
		}
		return out[i].zip < out[j].zip
	})
	return out
}

func round2(f float64) float64 {
	return float64(int(f*100+0.5)) / 100
}

// truncate shortens s to at most max runes.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}

// padRight pads by rune count; %-Ns pads by bytes.
func padRight(s string, width int) string {
	if n := utf8.RuneCountInString(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}
