package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/andybalholm/cascadia"
	"gopkg.in/yaml.v3"

	"rental-scraper/classify"
)

// Field names accepted under `fields:` in the site file.
const (
	FieldTitle        = "title"
	FieldPrice        = "price"
	FieldBedrooms     = "bedrooms"
	FieldBathrooms    = "bathrooms"
	FieldSquareFeet   = "sqft"
	FieldPropertyType = "property_type"
	FieldAddress      = "address"
	FieldDescription  = "description"
)

var requiredFields = []string{FieldTitle, FieldPrice, FieldAddress}

var knownFields = map[string]struct{}{
	FieldTitle: {}, FieldPrice: {}, FieldBedrooms: {}, FieldBathrooms: {},
	FieldSquareFeet: {}, FieldPropertyType: {}, FieldAddress: {}, FieldDescription: {},
}

// Site describes one target website: how to build search URLs, where the
// listing links are, and where each listing field lives on a listing page.
type Site struct {
	Name     string            `yaml:"name"`
	Search   SearchConfig      `yaml:"search"`
	Links    LinkConfig        `yaml:"links"`
	Fields   map[string]string `yaml:"fields"`
	Keywords KeywordConfig     `yaml:"keywords"`
	Criteria CriteriaValues    `yaml:"criteria"`

	// ZipNames labels ZIP codes in the run summary, e.g. 33125: Little Havana.
	ZipNames map[string]string `yaml:"zip_names"`

	// Locators holds the compiled Fields selectors. Filled by Compile.
	Locators Locators `yaml:"-"`
}

// SearchConfig holds the search endpoint and its query parameter names.
// An empty parameter name means the site does not support that filter.
type SearchConfig struct {
	BaseURL string       `yaml:"base_url"`
	Params  SearchParams `yaml:"params"`
}

type SearchParams struct {
	ZipCodes     string `yaml:"zip_codes"`
	MinPrice     string `yaml:"min_price"`
	MaxPrice     string `yaml:"max_price"`
	PropertyType string `yaml:"property_type"`
	Wheelchair   string `yaml:"wheelchair"`
	Subsidized   string `yaml:"subsidized"`
	Page         string `yaml:"page"`
}

// LinkConfig locates listing links on a search results page.
type LinkConfig struct {
	Selector string `yaml:"selector"`
	Attr     string `yaml:"attr"`

	Locator cascadia.Selector `yaml:"-"`
}

// KeywordConfig holds the classifier phrase lists.
type KeywordConfig struct {
	Accessibility []string `yaml:"accessibility"`
	Subsidized    []string `yaml:"subsidized"`
}

// Locators holds one compiled selector per listing field.
// Optional fields are nil when the site does not configure them.
type Locators struct {
	Title        cascadia.Selector
	Price        cascadia.Selector
	Bedrooms     cascadia.Selector
	Bathrooms    cascadia.Selector
	SquareFeet   cascadia.Selector
	PropertyType cascadia.Selector
	Address      cascadia.Selector
	Description  cascadia.Selector
}

// LoadSite reads, expands, defaults and compiles the site file at path.
func LoadSite(path string) (*Site, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read site config %s: %w", path, err)
	}
	return ParseSite(data)
}

// ParseSite parses a site definition from YAML bytes.
func ParseSite(data []byte) (*Site, error) {
	data = expandEnvVars(data)

	var site Site
	if err := yaml.Unmarshal(data, &site); err != nil {
		return nil, fmt.Errorf("failed to parse site config: %w", err)
	}

	site.ApplyDefaults()

	if err := site.Compile(); err != nil {
		return nil, fmt.Errorf("invalid site config: %w", err)
	}
	return &site, nil
}

// ApplyDefaults fills empty fields with default values.
func (s *Site) ApplyDefaults() {
	if s.Name == "" {
		s.Name = "default"
	}
	if s.Links.Attr == "" {
		s.Links.Attr = "href"
	}
	if s.Search.Params.Page == "" {
		s.Search.Params.Page = "page"
	}
	if len(s.Keywords.Accessibility) == 0 {
		s.Keywords.Accessibility = classify.DefaultAccessibilityPhrases
	}
	if len(s.Keywords.Subsidized) == 0 {
		s.Keywords.Subsidized = classify.DefaultSubsidizedPhrases
	}
}

// Compile validates the site and compiles every selector.
func (s *Site) Compile() error {
	if s.Search.BaseURL == "" {
		return fmt.Errorf("search.base_url is required")
	}
	if s.Links.Selector == "" {
		return fmt.Errorf("links.selector is required")
	}

	sel, err := cascadia.Compile(s.Links.Selector)
	if err != nil {
		return fmt.Errorf("links.selector %q: %w", s.Links.Selector, err)
	}
	s.Links.Locator = sel

	for _, f := range requiredFields {
		if strings.TrimSpace(s.Fields[f]) == "" {
			return fmt.Errorf("fields.%s is required", f)
		}
	}

	names := make([]string, 0, len(s.Fields))
	for name := range s.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	compiled := make(map[string]cascadia.Selector, len(s.Fields))
	for _, name := range names {
		if _, ok := knownFields[name]; !ok {
			return fmt.Errorf("fields.%s is not a listing field", name)
		}
		expr := strings.TrimSpace(s.Fields[name])
		if expr == "" {
			continue
		}
		sel, err := cascadia.Compile(expr)
		if err != nil {
			return fmt.Errorf("fields.%s %q: %w", name, expr, err)
		}
		compiled[name] = sel
	}

	s.Locators = Locators{
		Title:        compiled[FieldTitle],
		Price:        compiled[FieldPrice],
		Bedrooms:     compiled[FieldBedrooms],
		Bathrooms:    compiled[FieldBathrooms],
		SquareFeet:   compiled[FieldSquareFeet],
		PropertyType: compiled[FieldPropertyType],
		Address:      compiled[FieldAddress],
		Description:  compiled[FieldDescription],
	}
	return nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1])
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		if val, ok := os.LookupEnv(varName); ok && val != "" {
			return []byte(val)
		}
		if hasDefault {
			return []byte(defaultVal)
		}
		return []byte{}
	})
}

// CriteriaValues is the raw `criteria:` map handed to filter.Builder.SetAll.
// ZIP codes keep their literal YAML text so unquoted codes such as 02134
// are not read as octal integers.
type CriteriaValues map[string]any

const criteriaZipCodes = "zip_codes"

func (c *CriteriaValues) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("criteria: expected a mapping, got %s", node.ShortTag())
	}

	values := make(CriteriaValues, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i].Value, node.Content[i+1]
		if key == criteriaZipCodes && (val.Kind == yaml.SequenceNode || val.Kind == yaml.MappingNode) {
			values[key] = zipLiterals(val)
			continue
		}
		var v any
		if err := val.Decode(&v); err != nil {
			return fmt.Errorf("criteria %s: %w", key, err)
		}
		values[key] = v
	}

	*c = values
	return nil
}

// zipLiterals returns the scalar texts of a sequence, or the keys of a mapping.
func zipLiterals(node *yaml.Node) []string {
	step := 1
	if node.Kind == yaml.MappingNode {
		step = 2
	}
	zips := make([]string, 0, len(node.Content)/step)
	for i := 0; i < len(node.Content); i += step {
		if n := node.Content[i]; n.Kind == yaml.ScalarNode {
			zips = append(zips, n.Value)
		}
	}
	return zips
}
