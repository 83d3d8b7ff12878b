package data

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"

	"github.com/udisondev/dpscalc/internal/model"
)

// LoadPrices reads a latest-prices document:
//
//	{"data": {"4151": {"high": 1500000, "low": 1480000}}}
func LoadPrices(r io.Reader) (map[int]model.Quote, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading prices: %w", err)
	}
	return ParsePrices(raw)
}

// ParsePrices is LoadPrices over an in-memory document.
func ParsePrices(raw []byte) (map[int]model.Quote, error) {
	if !gjson.ValidBytes(raw) {
		return nil, fmt.Errorf("prices: %w", ErrInvalidJSON)
	}

	quotes := make(map[int]model.Quote)
	gjson.GetBytes(raw, "data").ForEach(func(k, v gjson.Result) bool {
		id, err := strconv.Atoi(k.String())
		if err != nil {
			return true
		}
		quotes[id] = model.Quote{
			High: int(v.Get("high").Int()),
			Low:  int(v.Get("low").Int()),
		}
		return true
	})
	return quotes, nil
}

// PriceOverrides prices items that never trade on the exchange.
type PriceOverrides struct {
	// PricedBy maps an item to a tradeable component whose price stands in.
	PricedBy map[int]int `yaml:"priced_by"`
	// Fixed maps an item to a manual price.
	Fixed map[int]int `yaml:"fixed"`
}

// DefaultPriceOverrides returns the built-in overrides.
func DefaultPriceOverrides() *PriceOverrides {
	return &PriceOverrides{
		PricedBy: map[int]int{
			22322: 22477, // Avernic defender -> Avernic defender hilt
		},
		Fixed: map[int]int{
			12018: 1, // Salve amulet(ei)
		},
	}
}

// LoadPriceOverrides reads overrides from a YAML file. A missing file yields
// the defaults.
func LoadPriceOverrides(path string) (*PriceOverrides, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultPriceOverrides(), nil
		}
		return nil, fmt.Errorf("reading price overrides %s: %w", path, err)
	}

	po := &PriceOverrides{}
	if err := yaml.Unmarshal(raw, po); err != nil {
		return nil, fmt.Errorf("parsing price overrides %s: %w", path, err)
	}
	return po, nil
}

// Apply attaches the overrides to the loaded items.
func (po *PriceOverrides) Apply(items []*model.Item) {
	for _, it := range items {
		if proxy, ok := po.PricedBy[it.ID()]; ok {
			it.SetPricedBy(proxy)
		}
		if p, ok := po.Fixed[it.ID()]; ok {
			it.SetFixedPrice(p)
		}
	}
}
