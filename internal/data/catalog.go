package data

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"strings"

	"golang.org/x/crypto/blake2b"

	"github.com/udisondev/dpscalc/internal/model"
)

// ErrInvalidJSON is returned for catalog files that are not valid JSON.
var ErrInvalidJSON = errors.New("invalid json")

// ErrItemNotFound is returned when no catalog item matches a lookup.
var ErrItemNotFound = errors.New("item not found")

// Catalog is the loaded item catalog with market quotes. It satisfies the
// upgrade advisor's catalog interface and is read-only once built.
type Catalog struct {
	items  []*model.Item
	byID   map[int]*model.Item
	quotes map[int]model.Quote
}

// NewCatalog indexes items and attaches the mid price of their own quote.
func NewCatalog(items []*model.Item, quotes map[int]model.Quote) *Catalog {
	if quotes == nil {
		quotes = make(map[int]model.Quote)
	}
	c := &Catalog{
		items:  items,
		byID:   make(map[int]*model.Item, len(items)),
		quotes: quotes,
	}
	for _, it := range items {
		c.byID[it.ID()] = it
		if q, ok := quotes[it.ID()]; ok {
			it.SetPrice(q.Mid())
		}
	}
	return c
}

// Items returns every item sorted by id.
func (c *Catalog) Items() []*model.Item { return c.items }

// Quote returns the bid/ask of id.
func (c *Catalog) Quote(id int) (model.Quote, bool) {
	q, ok := c.quotes[id]
	return q, ok
}

// Quotes returns a copy of every quote.
func (c *Catalog) Quotes() map[int]model.Quote { return maps.Clone(c.quotes) }

// Item returns the item with id.
func (c *Catalog) Item(id int) (*model.Item, bool) {
	it, ok := c.byID[id]
	return it, ok
}

// ItemByName finds an equipable item by case-insensitive name. Among
// duplicates (noted, placeholder variants) the lowest id wins.
func (c *Catalog) ItemByName(name string) (*model.Item, error) {
	for _, it := range c.items {
		if it.IsEquipable() && strings.EqualFold(it.Name(), name) {
			return it, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrItemNotFound, name)
}

// Len returns the number of items.
func (c *Catalog) Len() int { return len(c.items) }

// Fingerprint returns the hex blake2b-256 digest of a catalog file.
func Fingerprint(raw []byte) string {
	sum := blake2b.Sum256(raw)
	return hex.EncodeToString(sum[:])
}

// Snapshot describes one loaded catalog file.
type Snapshot struct {
	Kind        string // items, monsters, prices
	Path        string
	Fingerprint string
	Count       int
}

// Paths locate the catalog files on disk.
type Paths struct {
	Items     string
	Monsters  string
	Prices    string
	Overrides string
}

// Bundle is everything LoadAll reads.
type Bundle struct {
	Catalog   *Catalog
	Bestiary  *Bestiary
	Snapshots []Snapshot
}

// LoadAll reads items, monsters, prices and price overrides. The prices file
// is optional: without it only overrides and load-time prices apply.
func LoadAll(p Paths) (*Bundle, error) {
	b := &Bundle{}

	raw, err := os.ReadFile(p.Items)
	if err != nil {
		return nil, fmt.Errorf("reading items %s: %w", p.Items, err)
	}
	items, err := ParseItems(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p.Items, err)
	}
	b.Snapshots = append(b.Snapshots, Snapshot{"items", p.Items, Fingerprint(raw), len(items)})

	overrides, err := LoadPriceOverrides(p.Overrides)
	if err != nil {
		return nil, err
	}
	overrides.Apply(items)

	var quotes map[int]model.Quote
	raw, err = os.ReadFile(p.Prices)
	switch {
	case err == nil:
		quotes, err = ParsePrices(raw)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", p.Prices, err)
		}
		b.Snapshots = append(b.Snapshots, Snapshot{"prices", p.Prices, Fingerprint(raw), len(quotes)})
	case errors.Is(err, os.ErrNotExist):
		slog.Warn("price file not found, upgrade search limited to overrides", "path", p.Prices)
	default:
		return nil, fmt.Errorf("reading prices %s: %w", p.Prices, err)
	}
	b.Catalog = NewCatalog(items, quotes)

	raw, err = os.ReadFile(p.Monsters)
	if err != nil {
		return nil, fmt.Errorf("reading monsters %s: %w", p.Monsters, err)
	}
	b.Bestiary, err = LoadMonsters(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p.Monsters, err)
	}
	b.Snapshots = append(b.Snapshots, Snapshot{"monsters", p.Monsters, Fingerprint(raw), b.Bestiary.Len()})

	slog.Info("catalog loaded",
		"items", b.Catalog.Len(),
		"quotes", len(quotes),
		"monsters", b.Bestiary.Len())
	return b, nil
}
