package models

import "fmt"

// Category is the closed set of spotlight categories.
type Category string

const (
	CategoryMusic    Category = "Music"
	CategoryBusiness Category = "Business"
)

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	return c == CategoryMusic || c == CategoryBusiness
}

func (c *Category) UnmarshalText(text []byte) error {
	v := Category(text)
	if !v.Valid() {
		return fmt.Errorf("unknown category %q", string(text))
	}
	*c = v
	return nil
}

// Profile is one promotional listing shown in the gallery and the detail modal.
type Profile struct {
	ID          string   `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	Category    Category `json:"category" yaml:"category"`
	Location    string   `json:"location" yaml:"location"`
	Image       string   `json:"image" yaml:"image"`
	Tagline     string   `json:"tagline" yaml:"tagline"`
	Description string   `json:"description" yaml:"description"`
}

// CallToAction is the secondary button label offered in the modal.
func (p Profile) CallToAction() string {
	if p.Category == CategoryMusic {
		return "Latest Track"
	}
	return "Website"
}

// Tier is a pricing/feature bundle offered in the submission panel.
type Tier struct {
	Name     string   `json:"name" yaml:"name"`
	Price    string   `json:"price" yaml:"price"`
	Features []string `json:"features" yaml:"features"`
}
