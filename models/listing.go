package models

// Listing is one rental record extracted from a single listing page.
// Price, Bedrooms, Bathrooms and SquareFeet keep the raw display strings;
// their coerced values live in Numbers and are only used for filtering.
type Listing struct {
	Title        string
	Price        string
	Bedrooms     string
	Bathrooms    string
	SquareFeet   string
	PropertyType string
	Address      string
	ZipCode      string
	Accessible   bool
	Subsidized   bool
	Description  string
	URL          string

	Numbers ListingNumbers
}

// ListingNumbers holds the numeric values parsed from the raw display strings.
// A nil field means the raw string was absent or unparsable.
type ListingNumbers struct {
	Price      *float64
	Bedrooms   *float64
	Bathrooms  *float64
	SquareFeet *float64
}

// RunSummary holds the figures printed at the end of a run.
type RunSummary struct {
	TotalListings      int
	AccessibleListings int
	SubsidizedListings int
	PricedListings     int
	AveragePrice       float64
	MinPrice           float64
	MaxPrice           float64
	Cheapest           *Listing
	ListingsByZip      map[string]int
}
