package catalog

import (
	"encoding/json"
	"fmt"
	"os"
)

// Direction says which side of an attribute comparison wins.
type Direction string

const (
	Max Direction = "max"
	Min Direction = "min"
)

// Card is one playing card: an id, a display name and its attribute values.
// Cards are immutable after load; matches reference them, never copy-mutate.
type Card struct {
	ID    string             `json:"id"`
	Name  string             `json:"name"`
	Attrs map[string]float64 `json:"attrs"`
}

// AttributeRule declares a comparable attribute and its winning direction.
type AttributeRule struct {
	Label     string    `json:"label,omitempty"`
	Direction Direction `json:"direction"`
}

// Catalog is the full card set plus the attribute rules. Loaded once at
// startup and read-only afterwards, so it is safe to share across matches.
type Catalog struct {
	Cards      []Card                   `json:"cards"`
	Attributes map[string]AttributeRule `json:"attributes"`
}

// Load reads and validates a catalog JSON file.
func Load(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	var c Catalog
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}
	if err := c.validate(); err != nil {
		return nil, fmt.Errorf("invalid catalog %s: %w", path, err)
	}
	return &c, nil
}

func (c *Catalog) validate() error {
	if len(c.Cards) < 2 {
		return fmt.Errorf("need at least 2 cards, got %d", len(c.Cards))
	}
	if len(c.Attributes) == 0 {
		return fmt.Errorf("no attributes declared")
	}
	for name, rule := range c.Attributes {
		if rule.Direction != Max && rule.Direction != Min {
			return fmt.Errorf("attribute %q: direction must be %q or %q, got %q", name, Max, Min, rule.Direction)
		}
	}
	seen := make(map[string]bool, len(c.Cards))
	for _, card := range c.Cards {
		if card.ID == "" {
			return fmt.Errorf("card without id")
		}
		if seen[card.ID] {
			return fmt.Errorf("duplicate card id %q", card.ID)
		}
		seen[card.ID] = true
		for name := range c.Attributes {
			if _, ok := card.Attrs[name]; !ok {
				return fmt.Errorf("card %q missing attribute %q", card.ID, name)
			}
		}
	}
	return nil
}

// Rule looks up the comparison rule for an attribute name.
func (c *Catalog) Rule(name string) (AttributeRule, bool) {
	r, ok := c.Attributes[name]
	return r, ok
}

// Size is the total number of cards in the deck.
func (c *Catalog) Size() int { return len(c.Cards) }
