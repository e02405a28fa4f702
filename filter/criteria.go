package filter

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"rental-scraper/models"
	"rental-scraper/utils"
)

// ErrInvalidBound is returned by Build when a bound has Min greater than Max.
var ErrInvalidBound = errors.New("invalid bound: min greater than max")

// Criteria keys accepted by Builder.Set.
const (
	KeyMinPrice     = "min_price"
	KeyMaxPrice     = "max_price"
	KeyMinBedrooms  = "min_bedrooms"
	KeyMaxBedrooms  = "max_bedrooms"
	KeyMinBathrooms = "min_bathrooms"
	KeyMaxBathrooms = "max_bathrooms"
	KeyMinSqft      = "min_sqft"
	KeyMaxSqft      = "max_sqft"
	KeyPropertyType = "property_type"
	KeyZipCodes     = "zip_codes"
	KeyWheelchair   = "wheelchair_accessible"
	KeySection8     = "section_8_accepted"
)

// Builder populates Criteria field by field.
// Unknown keys and values of the wrong type are logged and ignored.
type Builder struct {
	logger   *utils.Logger
	criteria models.Criteria
}

// NewBuilder creates a Builder with empty criteria.
func NewBuilder(logger *utils.Logger) *Builder {
	return &Builder{
		logger:   logger,
		criteria: models.Criteria{ZipCodes: map[string]struct{}{}},
	}
}

// SetAll applies every entry of values in sorted key order.
func (b *Builder) SetAll(values map[string]any) *Builder {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		b.Set(k, values[k])
	}
	return b
}

// Set assigns one criteria field by name.
func (b *Builder) Set(name string, value any) *Builder {
	c := &b.criteria
	var err error

	switch name {
	case KeyMinPrice:
		err = setNumber(&c.Price.Min, value)
	case KeyMaxPrice:
		err = setNumber(&c.Price.Max, value)
	case KeyMinBedrooms:
		err = setNumber(&c.Bedrooms.Min, value)
	case KeyMaxBedrooms:
		err = setNumber(&c.Bedrooms.Max, value)
	case KeyMinBathrooms:
		err = setNumber(&c.Bathrooms.Min, value)
	case KeyMaxBathrooms:
		err = setNumber(&c.Bathrooms.Max, value)
	case KeyMinSqft:
		err = setNumber(&c.SquareFeet.Min, value)
	case KeyMaxSqft:
		err = setNumber(&c.SquareFeet.Max, value)
	case KeyPropertyType:
		err = setString(&c.PropertyType, value)
	case KeyZipCodes:
		err = setZips(&c.ZipCodes, value)
	case KeyWheelchair:
		err = setBool(&c.WheelchairRequired, value)
	case KeySection8:
		err = setBool(&c.SubsidizedRequired, value)
	default:
		b.logger.Warn("[criteria] Unknown filter: %s", name)
		return b
	}

	if err != nil {
		b.logger.Warn("[criteria] Ignoring %s: %v", name, err)
	}
	return b
}

// Build validates the criteria and returns a copy.
func (b *Builder) Build() (models.Criteria, error) {
	c := b.criteria
	bounds := []struct {
		name  string
		bound models.Bound
	}{
		{"price", c.Price},
		{"bedrooms", c.Bedrooms},
		{"bathrooms", c.Bathrooms},
		{"sqft", c.SquareFeet},
	}
	for _, bd := range bounds {
		if bd.bound.Min != nil && bd.bound.Max != nil && *bd.bound.Min > *bd.bound.Max {
			return models.Criteria{}, fmt.Errorf("criteria: %s %v > %v: %w",
				bd.name, *bd.bound.Min, *bd.bound.Max, ErrInvalidBound)
		}
	}

	zips := make(map[string]struct{}, len(c.ZipCodes))
	for z := range c.ZipCodes {
		zips[z] = struct{}{}
	}
	c.ZipCodes = zips
	return c, nil
}

// setNumber leaves dst untouched on error. A nil value clears the bound.
func setNumber(dst **float64, value any) error {
	if value == nil {
		*dst = nil
		return nil
	}

	var f float64
	switch v := value.(type) {
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return fmt.Errorf("not a number: %q", v)
		}
		f = parsed
	default:
		rv := reflect.ValueOf(value)
		switch rv.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			f = float64(rv.Int())
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			f = float64(rv.Uint())
		case reflect.Float32, reflect.Float64:
			f = rv.Float()
		default:
			return fmt.Errorf("expected a number, got %T", value)
		}
	}

	*dst = &f
	return nil
}

func setString(dst *string, value any) error {
	s, ok := value.(string)
	if !ok {
		return fmt.Errorf("expected a string, got %T", value)
	}
	*dst = s
	return nil
}

func setBool(dst *bool, value any) error {
	bv, ok := value.(bool)
	if !ok {
		return fmt.Errorf("expected a bool, got %T", value)
	}
	*dst = bv
	return nil
}

// setZips accepts any slice, array or map (keys) and stringifies each element.
// Integer codes are zero-padded to five digits.
func setZips(dst *map[string]struct{}, value any) error {
	if value == nil {
		return fmt.Errorf("expected a collection of ZIP codes, got nil")
	}

	zips := make(map[string]struct{})
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			zips[zipString(rv.Index(i).Interface())] = struct{}{}
		}
	case reflect.Map:
		iter := rv.MapRange()
		for iter.Next() {
			zips[zipString(iter.Key().Interface())] = struct{}{}
		}
	default:
		return fmt.Errorf("expected a collection of ZIP codes, got %T", value)
	}

	*dst = zips
	return nil
}

func zipString(v any) string {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return fmt.Sprintf("%05d", rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return fmt.Sprintf("%05d", rv.Uint())
	}
	return fmt.Sprint(v)
}
