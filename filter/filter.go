// Package filter decides whether an extracted listing matches the caller's criteria.
package filter

import (
	"errors"
	"fmt"

	"rental-scraper/models"
)

// ErrUnparsableNumber is returned by CheckNumeric when a bounded field has no
// numeric value. The driver treats it as an extraction failure.
var ErrUnparsableNumber = errors.New("unparsable numeric field")

type numericField struct {
	name  string
	bound func(models.Criteria) models.Bound
	value func(*models.Listing) (*float64, string)
}

var numericFields = []numericField{
	{"price",
		func(c models.Criteria) models.Bound { return c.Price },
		func(l *models.Listing) (*float64, string) { return l.Numbers.Price, l.Price }},
	{"bedrooms",
		func(c models.Criteria) models.Bound { return c.Bedrooms },
		func(l *models.Listing) (*float64, string) { return l.Numbers.Bedrooms, l.Bedrooms }},
	{"bathrooms",
		func(c models.Criteria) models.Bound { return c.Bathrooms },
		func(l *models.Listing) (*float64, string) { return l.Numbers.Bathrooms, l.Bathrooms }},
	{"sqft",
		func(c models.Criteria) models.Bound { return c.SquareFeet },
		func(l *models.Listing) (*float64, string) { return l.Numbers.SquareFeet, l.SquareFeet }},
}

// Passes reports whether l satisfies c. Checks short-circuit in order:
// accessibility, subsidized housing, ZIP code, property type, numeric bounds.
func Passes(l *models.Listing, c models.Criteria) bool {
	if c.WheelchairRequired && !l.Accessible {
		return false
	}
	if c.SubsidizedRequired && !l.Subsidized {
		return false
	}
	if !c.AllowsZip(l.ZipCode) {
		return false
	}
	if c.PropertyType != "" && l.PropertyType != "" && l.PropertyType != c.PropertyType {
		return false
	}
	for _, f := range numericFields {
		b := f.bound(c)
		if !b.Active() {
			continue
		}
		v, _ := f.value(l)
		if v == nil || !b.Contains(*v) {
			return false
		}
	}
	return true
}

// CheckNumeric returns ErrUnparsableNumber if c bounds a field whose value
// could not be coerced to a number for l.
func CheckNumeric(l *models.Listing, c models.Criteria) error {
	for _, f := range numericFields {
		if !f.bound(c).Active() {
			continue
		}
		if v, raw := f.value(l); v == nil {
			return fmt.Errorf("filter: %s %q: %w", f.name, raw, ErrUnparsableNumber)
		}
	}
	return nil
}
