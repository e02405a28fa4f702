package models

import "sort"

// Bound is an optional inclusive numeric range. A nil end is unbounded.
type Bound struct {
	Min *float64
	Max *float64
}

// Active reports whether either end of the bound is set.
func (b Bound) Active() bool {
	return b.Min != nil || b.Max != nil
}

// Contains reports whether v lies within the bound.
func (b Bound) Contains(v float64) bool {
	if b.Min != nil && v < *b.Min {
		return false
	}
	if b.Max != nil && v > *b.Max {
		return false
	}
	return true
}

// Criteria is the caller's filter configuration for a scraping run.
// Build it with filter.Builder; treat it as read-only afterwards.
type Criteria struct {
	Price      Bound
	Bedrooms   Bound
	Bathrooms  Bound
	SquareFeet Bound

	PropertyType string

	// ZipCodes is the set of allowed ZIP codes. Empty means no restriction.
	ZipCodes map[string]struct{}

	WheelchairRequired bool
	SubsidizedRequired bool
}

// AllowsZip reports whether zip passes the ZIP restriction.
func (c Criteria) AllowsZip(zip string) bool {
	if len(c.ZipCodes) == 0 {
		return true
	}
	_, ok := c.ZipCodes[zip]
	return ok
}

// SortedZips returns the allowed ZIP codes in ascending order.
func (c Criteria) SortedZips() []string {
	zips := make([]string, 0, len(c.ZipCodes))
	for z := range c.ZipCodes {
		zips = append(zips, z)
	}
	sort.Strings(zips)
	return zips
}
