package upgrade

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/udisondev/dpscalc/internal/game/combat"
	"github.com/udisondev/dpscalc/internal/model"
)

// ErrNonPositivePrice is returned when an efficiency is computed over a
// price that is zero or negative.
var ErrNonPositivePrice = errors.New("price must be positive")

// SortBy selects the ranking of suggestions.
type SortBy int

const (
	ByEfficiency SortBy = iota // dps gain per million gp, descending
	ByGain                     // raw dps gain, descending
)

// Suggestion is one accepted swap: a single item or a pair from two slots.
type Suggestion struct {
	Items      []*model.Item
	Slots      []string // raw catalog slots, "2h" kept as is
	Price      int
	DPSBefore  float64
	DPSAfter   float64
	DPSGain    float64
	Efficiency float64 // dps gain per 1,000,000 gp
}

// Names returns the item names joined with " + ".
func (s Suggestion) Names() string {
	names := make([]string, len(s.Items))
	for i, it := range s.Items {
		names[i] = it.Name()
	}
	return strings.Join(names, " + ")
}

// IsPair reports whether the suggestion swaps two items.
func (s Suggestion) IsPair() bool { return len(s.Items) == 2 }

// Efficiency is dps gain per million gp.
func Efficiency(gain float64, price int) (float64, error) {
	if price <= 0 {
		return 0, &combat.ConfigError{
			Err:    ErrNonPositivePrice,
			Detail: fmt.Sprintf("price=%d gain=%.4f", price, gain),
		}
	}
	return gain / float64(price) * 1_000_000, nil
}

func newSuggestion(items []*candidate, before, after float64) (Suggestion, error) {
	s := Suggestion{DPSBefore: before, DPSAfter: after, DPSGain: after - before}
	for _, c := range items {
		s.Items = append(s.Items, c.item)
		s.Slots = append(s.Slots, c.rawSlot)
		s.Price += c.price
	}
	eff, err := Efficiency(s.DPSGain, s.Price)
	if err != nil {
		return Suggestion{}, err
	}
	s.Efficiency = eff
	return s, nil
}

// Rank sorts suggestions in place, stable so equal keys keep scan order.
func Rank(suggestions []Suggestion, by SortBy) {
	slices.SortStableFunc(suggestions, func(a, b Suggestion) int {
		if by == ByGain {
			return cmp.Compare(b.DPSGain, a.DPSGain)
		}
		return cmp.Compare(b.Efficiency, a.Efficiency)
	})
}

// CapPrice drops suggestions costing more than maxPrice. Zero means no cap.
func CapPrice(suggestions []Suggestion, maxPrice int) []Suggestion {
	if maxPrice <= 0 {
		return suggestions
	}
	return slices.DeleteFunc(suggestions, func(s Suggestion) bool {
		return s.Price > maxPrice
	})
}
