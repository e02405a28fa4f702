package filter

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"rental-scraper/models"
)

func f(v float64) *float64 { return &v }

func zips(codes ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(codes))
	for _, c := range codes {
		m[c] = struct{}{}
	}
	return m
}

func TestZipScenario(t *testing.T) {
	c := models.Criteria{ZipCodes: zips("33131")}
	a := &models.Listing{Title: "A", ZipCode: "33131"}
	b := &models.Listing{Title: "B", ZipCode: "33125"}

	assert.True(t, Passes(a, c))
	assert.False(t, Passes(b, c))
}

func TestEmptyZipSetAllowsAll(t *testing.T) {
	for _, zip := range []string{"33131", "90210", ""} {
		l := &models.Listing{ZipCode: zip}
		assert.True(t, Passes(l, models.Criteria{}), "zip %q", zip)
		assert.True(t, Passes(l, models.Criteria{ZipCodes: map[string]struct{}{}}), "zip %q", zip)
	}
}

func TestMissingZipFailsActiveRestriction(t *testing.T) {
	c := models.Criteria{ZipCodes: zips("33131", "33125")}
	assert.False(t, Passes(&models.Listing{ZipCode: ""}, c))
}

func TestWheelchairShortCircuit(t *testing.T) {
	c := models.Criteria{WheelchairRequired: true}
	listings := []*models.Listing{
		{Accessible: false, Subsidized: true, ZipCode: "33131"},
		{Accessible: false},
		{Accessible: false, Numbers: models.ListingNumbers{Price: f(1500)}},
	}
	for i, l := range listings {
		assert.False(t, Passes(l, c), "listing %d", i)
	}
	assert.True(t, Passes(&models.Listing{Accessible: true}, c))
}

func TestSubsidizedRequired(t *testing.T) {
	c := models.Criteria{SubsidizedRequired: true}
	assert.False(t, Passes(&models.Listing{Accessible: true}, c))
	assert.True(t, Passes(&models.Listing{Subsidized: true}, c))
}

func TestPropertyType(t *testing.T) {
	c := models.Criteria{PropertyType: "apartment"}
	assert.True(t, Passes(&models.Listing{PropertyType: "apartment"}, c))
	assert.False(t, Passes(&models.Listing{PropertyType: "house"}, c))
	assert.True(t, Passes(&models.Listing{}, c), "unknown property type is not rejected")
}

func TestNumericBounds(t *testing.T) {
	c := models.Criteria{
		Price:    models.Bound{Min: f(1000), Max: f(3000)},
		Bedrooms: models.Bound{Min: f(1)},
	}

	tests := []struct {
		name  string
		price *float64
		beds  *float64
		want  bool
	}{
		{"inside", f(2000), f(2), true},
		{"inclusive min", f(1000), f(1), true},
		{"inclusive max", f(3000), f(1), true},
		{"too expensive", f(3001), f(2), false},
		{"too few beds", f(2000), f(0), false},
		{"unparsed price", nil, f(2), false},
	}

	for _, tt := range tests {
		l := &models.Listing{Numbers: models.ListingNumbers{Price: tt.price, Bedrooms: tt.beds}}
		assert.Equal(t, tt.want, Passes(l, c), tt.name)
	}
}

func TestCheckNumeric(t *testing.T) {
	c := models.Criteria{SquareFeet: models.Bound{Max: f(1500)}}

	err := CheckNumeric(&models.Listing{SquareFeet: "Ask agent"}, c)
	assert.True(t, errors.Is(err, ErrUnparsableNumber))
	assert.Contains(t, err.Error(), "sqft")

	assert.NoError(t, CheckNumeric(&models.Listing{Numbers: models.ListingNumbers{SquareFeet: f(900)}}, c))
	assert.NoError(t, CheckNumeric(&models.Listing{}, models.Criteria{}), "no bounds, nothing to coerce")
}
