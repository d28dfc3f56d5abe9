package catalog

import (
	"errors"
	"fmt"
	"sort"
)

var ErrDuplicateID = errors.New("duplicate product id")

// Catalogue holds games keyed by product id, in insertion order. Titles are
// not keys; games sharing a title are reported by Collisions.
type Catalogue struct {
	games   []Game
	index   map[string]int
	byTitle map[string][]string
}

func NewCatalogue() *Catalogue {
	return &Catalogue{
		index:   make(map[string]int),
		byTitle: make(map[string][]string),
	}
}

func (c *Catalogue) Add(g Game) error {
	if _, ok := c.index[g.ID]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateID, g.ID)
	}
	c.index[g.ID] = len(c.games)
	c.games = append(c.games, g)
	c.byTitle[g.ShortTitle] = append(c.byTitle[g.ShortTitle], g.ID)
	return nil
}

func (c *Catalogue) Len() int {
	return len(c.games)
}

// Games returns a copy of the games in insertion order.
func (c *Catalogue) Games() []Game {
	out := make([]Game, len(c.games))
	copy(out, c.games)
	return out
}

func (c *Catalogue) Get(id string) (Game, bool) {
	i, ok := c.index[id]
	if !ok {
		return Game{}, false
	}
	return c.games[i], true
}

// AttachReview sets or clears the review of the game with the given id.
func (c *Catalogue) AttachReview(id string, r *Review) bool {
	i, ok := c.index[id]
	if !ok {
		return false
	}
	c.games[i].Review = r
	return true
}

// ByTitle returns every game whose short title is exactly title.
func (c *Catalogue) ByTitle(title string) []Game {
	ids := c.byTitle[title]
	out := make([]Game, 0, len(ids))
	for _, id := range ids {
		out = append(out, c.games[c.index[id]])
	}
	return out
}

// Collisions maps each title shared by more than one game to those game ids.
func (c *Catalogue) Collisions() map[string][]string {
	out := make(map[string][]string)
	for title, ids := range c.byTitle {
		if len(ids) > 1 {
			out[title] = append([]string(nil), ids...)
		}
	}
	return out
}

// CollidingTitles is Collisions' keys, sorted.
func (c *Catalogue) CollidingTitles() []string {
	var titles []string
	for title, ids := range c.byTitle {
		if len(ids) > 1 {
			titles = append(titles, title)
		}
	}
	sort.Strings(titles)
	return titles
}
