// Package catalog holds display names and named families for language
// codes, embedded from catalog.yaml.
package catalog

import (
	_ "embed"
	"fmt"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var catalogYAML []byte

// OtherFamily labels codes that belong to no family.
const OtherFamily = "Other"

// Family is a named group of language codes.
type Family struct {
	Name      string   `yaml:"name" json:"name"`
	Languages []string `yaml:"languages" json:"languages"`
}

// Catalog is the decoded metadata.
type Catalog struct {
	Names    map[string]string `yaml:"names"`
	Families map[string]Family `yaml:"families"`

	familyOf map[string]string
}

var (
	once     sync.Once
	builtin  *Catalog
	parseErr error
)

// Load returns the embedded catalog, decoding it on first use.
func Load() (*Catalog, error) {
	once.Do(func() {
		builtin, parseErr = Parse(catalogYAML)
	})
	return builtin, parseErr
}

// Parse decodes a catalog document.
func Parse(raw []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if c.Names == nil {
		c.Names = map[string]string{}
	}
	if c.Families == nil {
		c.Families = map[string]Family{}
	}

	c.familyOf = make(map[string]string)
	for _, key := range c.FamilyKeys() {
		f := c.Families[key]
		for _, code := range f.Languages {
			if prev, ok := c.familyOf[code]; ok {
				return nil, fmt.Errorf("parse catalog: %s is in both %s and %s", code, prev, key)
			}
			c.familyOf[code] = key
		}
	}
	return &c, nil
}

// Name returns the display name for code, or code itself when unknown.
func (c *Catalog) Name(code string) string {
	if n, ok := c.Names[code]; ok {
		return n
	}
	return code
}

// Family returns the member codes of the family with the given key.
func (c *Catalog) Family(key string) ([]string, bool) {
	f, ok := c.Families[key]
	if !ok {
		return nil, false
	}
	out := make([]string, len(f.Languages))
	copy(out, f.Languages)
	return out, true
}

// FamilyOf returns the display name of the family containing code.
func (c *Catalog) FamilyOf(code string) string {
	key, ok := c.familyOf[code]
	if !ok {
		return OtherFamily
	}
	return c.Families[key].Name
}

// FamilyKeys returns the family keys in sorted order.
func (c *Catalog) FamilyKeys() []string {
	keys := make([]string, 0, len(c.Families))
	for k := range c.Families {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
