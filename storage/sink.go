package storage

import (
	"errors"

	"rental-scraper/models"
)

// ErrNothingToSave is returned by every Sink when given no listings.
// Nothing is written in that case.
var ErrNothingToSave = errors.New("nothing to save")

// Sink persists the accepted listings of a run and reports where they went.
type Sink interface {
	Persist(listings []*models.Listing) (location string, err error)
	Close() error
}

// columns is the flat export layout, one column per Listing field.
var columns = []string{
	"title", "price", "bedrooms", "bathrooms", "sqft", "property_type",
	"address", "zip_code", "wheelchair_accessible", "section_8_accepted",
	"description", "url",
}
