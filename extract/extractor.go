// Package extract turns a parsed listing page into a models.Listing.
package extract

import (
	"bytes"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"

	"rental-scraper/classify"
	"rental-scraper/config"
	"rental-scraper/models"
)

// ErrExtraction is matched by every extraction failure.
var ErrExtraction = errors.New("extraction failed")

// zipRegexp matches a standalone 5-digit token.
var zipRegexp = regexp.MustCompile(`\b(\d{5})\b`)

// Error reports a required field that could not be located.
type Error struct {
	Field string
	URL   string
}

func (e *Error) Error() string {
	return fmt.Sprintf("extract: %s: required field %q not found", e.URL, e.Field)
}

func (e *Error) Unwrap() error { return ErrExtraction }

// Extractor pulls listing fields out of a document using site-supplied locators.
type Extractor struct {
	locators      config.Locators
	accessibility *classify.Classifier
	subsidized    *classify.Classifier
}

// New creates an Extractor.
func New(locators config.Locators, accessibility, subsidized *classify.Classifier) *Extractor {
	return &Extractor{
		locators:      locators,
		accessibility: accessibility,
		subsidized:    subsidized,
	}
}

// Parse parses an HTML body into a queryable document.
func Parse(body []byte) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("extract: parse document: %w", err)
	}
	return doc, nil
}

// Extract builds a Listing from doc. A missing title, price or address fails
// the whole extraction with an *Error.
func (e *Extractor) Extract(doc *goquery.Document, pageURL string) (*models.Listing, error) {
	title, ok := firstText(doc, e.locators.Title)
	if !ok {
		return nil, &Error{Field: config.FieldTitle, URL: pageURL}
	}
	price, ok := firstText(doc, e.locators.Price)
	if !ok {
		return nil, &Error{Field: config.FieldPrice, URL: pageURL}
	}
	address, ok := firstText(doc, e.locators.Address)
	if !ok {
		return nil, &Error{Field: config.FieldAddress, URL: pageURL}
	}

	bedrooms, _ := firstText(doc, e.locators.Bedrooms)
	bathrooms, _ := firstText(doc, e.locators.Bathrooms)
	sqft, _ := firstText(doc, e.locators.SquareFeet)
	propertyType, _ := firstText(doc, e.locators.PropertyType)
	description, hasDescription := firstText(doc, e.locators.Description)

	listing := &models.Listing{
		Title:        title,
		Price:        price,
		Bedrooms:     bedrooms,
		Bathrooms:    bathrooms,
		SquareFeet:   sqft,
		PropertyType: propertyType,
		Address:      address,
		ZipCode:      ZipCode(address),
		Description:  description,
		URL:          pageURL,
		Numbers: models.ListingNumbers{
			Price:      numberPtr(price),
			Bedrooms:   numberPtr(bedrooms),
			Bathrooms:  numberPtr(bathrooms),
			SquareFeet: numberPtr(sqft),
		},
	}

	if hasDescription {
		listing.Accessible = e.accessibility.Classify(description)
		listing.Subsidized = e.subsidized.Classify(description)
	}

	return listing, nil
}

// ZipCode returns the first standalone 5-digit token in text, or "".
func ZipCode(text string) string {
	m := zipRegexp.FindStringSubmatch(text)
	if len(m) < 2 {
		return ""
	}
	return m[1]
}

// Links returns the listing links on a search page in document order.
// Relative links are resolved against base; empty ones are skipped.
func Links(doc *goquery.Document, locator cascadia.Selector, attr, base string) []string {
	baseURL, _ := url.Parse(base)

	var links []string
	doc.FindMatcher(locator).Each(func(_ int, s *goquery.Selection) {
		href, ok := s.Attr(attr)
		href = strings.TrimSpace(href)
		if !ok || href == "" {
			return
		}
		if baseURL != nil {
			if ref, err := url.Parse(href); err == nil {
				href = baseURL.ResolveReference(ref).String()
			}
		}
		links = append(links, href)
	})
	return links
}

// firstText returns the normalised text of the first node matching locator.
// A nil locator or no match reports false.
func firstText(doc *goquery.Document, locator cascadia.Selector) (string, bool) {
	if locator == nil {
		return "", false
	}
	sel := doc.FindMatcher(locator).First()
	if sel.Length() == 0 {
		return "", false
	}
	return normaliseText(sel.Text()), true
}

// normaliseText strips leading/trailing whitespace and collapses internal whitespace.
func normaliseText(s string) string {
	fields := strings.FieldsFunc(s, unicode.IsSpace)
	return strings.Join(fields, " ")
}

func numberPtr(raw string) *float64 {
	v, ok := ParseNumber(raw)
	if !ok {
		return nil
	}
	return &v
}
