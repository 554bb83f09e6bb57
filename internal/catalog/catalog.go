// Package catalog holds the fixed, ordered collection of spotlight profiles
// and pricing tiers compiled into the site.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"github.com/BerylCAtieno/carolina-grind/internal/models"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultDocument []byte

// ErrInvalidCatalog is returned when a catalog document violates its invariants.
var ErrInvalidCatalog = errors.New("catalog: invalid document")

// Catalog is immutable after construction. Order is the order of the source document.
type Catalog struct {
	profiles []models.Profile
	index    map[string]int
	tiers    []models.Tier
}

type document struct {
	Profiles []models.Profile `yaml:"profiles"`
	Tiers    []models.Tier    `yaml:"tiers"`
}

var defaultCatalog = MustParse(defaultDocument)

// Default returns the catalog embedded in the binary.
func Default() *Catalog {
	return defaultCatalog
}

// Parse decodes a YAML catalog document.
func Parse(data []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}
	return New(doc.Profiles, doc.Tiers)
}

// MustParse is Parse for documents known to be valid at build time.
func MustParse(data []byte) *Catalog {
	c, err := Parse(data)
	if err != nil {
		panic(err)
	}
	return c
}

// New builds a catalog from already decoded records. The slices are copied.
func New(profiles []models.Profile, tiers []models.Tier) (*Catalog, error) {
	if len(profiles) == 0 {
		return nil, fmt.Errorf("%w: no profiles", ErrInvalidCatalog)
	}
	index := make(map[string]int, len(profiles))
	for i, p := range profiles {
		id := p.ID
		if strings.TrimSpace(id) == "" {
			return nil, fmt.Errorf("%w: profile %d has no id", ErrInvalidCatalog, i)
		}
		if _, dup := index[id]; dup {
			return nil, fmt.Errorf("%w: duplicate id %q", ErrInvalidCatalog, id)
		}
		if !p.Category.Valid() {
			return nil, fmt.Errorf("%w: profile %q has unknown category %q", ErrInvalidCatalog, id, p.Category)
		}
		index[id] = i
	}
	return &Catalog{
		profiles: append([]models.Profile(nil), profiles...),
		index:    index,
		tiers:    append([]models.Tier(nil), tiers...),
	}, nil
}

// Len is the number of profiles.
func (c *Catalog) Len() int { return len(c.profiles) }

// At returns the profile at position i. It panics when i is out of range.
func (c *Catalog) At(i int) models.Profile { return c.profiles[i] }

// IndexOf returns the catalog position of id, or -1.
func (c *Catalog) IndexOf(id string) int {
	if i, ok := c.index[id]; ok {
		return i
	}
	return -1
}

// Lookup returns the profile with the given id.
func (c *Catalog) Lookup(id string) (models.Profile, bool) {
	i := c.IndexOf(id)
	if i < 0 {
		return models.Profile{}, false
	}
	return c.profiles[i], true
}

// Profiles returns a copy of the profiles in catalog order.
func (c *Catalog) Profiles() []models.Profile {
	return append([]models.Profile(nil), c.profiles...)
}

// Tiers returns a copy of the pricing tiers in display order.
func (c *Catalog) Tiers() []models.Tier {
	return append([]models.Tier(nil), c.tiers...)
}
