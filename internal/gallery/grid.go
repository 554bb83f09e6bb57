package gallery

import (
	"github.com/BerylCAtieno/carolina-grind/internal/catalog"
	"github.com/BerylCAtieno/carolina-grind/internal/models"
)

// Card is the grid's view of one profile.
type Card struct {
	Profile  models.Profile
	Position int
	Selected bool
}

// Grid renders one card per catalog entry and hands activations to the navigator.
type Grid struct {
	catalog   *catalog.Catalog
	navigator *Navigator
}

func NewGrid(c *catalog.Catalog, n *Navigator) *Grid {
	return &Grid{catalog: c, navigator: n}
}

// Cards returns the cards in catalog order.
func (g *Grid) Cards() []Card {
	current, open := g.navigator.Current()
	cards := make([]Card, 0, g.catalog.Len())
	for i, p := range g.catalog.Profiles() {
		cards = append(cards, Card{
			Profile:  p,
			Position: i,
			Selected: open && current.ID == p.ID,
		})
	}
	return cards
}

// Activate opens the detail modal on the profile with the given id.
func (g *Grid) Activate(id string) bool {
	return g.navigator.Open(id)
}
