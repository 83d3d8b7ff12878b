package model

import "maps"

// Item is a catalog entry: weapon, armour, ammo or jewellery.
// Immutable once loaded: catalog loaders build it through NewItem and the
// Set* helpers, the combat engine only reads it.
type Item struct {
	id   int
	name string

	ints  map[string]int
	strs  map[string]string
	bools map[string]bool

	price      int
	pricedBy   int // id of a tradeable component whose price stands in
	fixedPrice int // manual price for untradeable items, 0 if none

	caps Capability
	bolt Bolt
}

// NewItem creates an item with empty stat bags.
func NewItem(id int, name string) *Item {
	return &Item{
		id:    id,
		name:  name,
		ints:  make(map[string]int),
		strs:  make(map[string]string),
		bools: make(map[string]bool),
		caps:  ResolveCapabilities(name, nil),
		bolt:  ResolveBolt(name),
	}
}

// ID returns the stable catalog id (-1 for ad-hoc items).
func (i *Item) ID() int { return i.id }

// Name returns the display name.
func (i *Item) Name() string { return i.name }

// Int returns an integer stat, 0 if absent.
func (i *Item) Int(key string) int {
	if i == nil {
		return 0
	}
	return i.ints[key]
}

// Str returns a string stat, "" if absent.
func (i *Item) Str(key string) string {
	if i == nil {
		return ""
	}
	return i.strs[key]
}

// Bool returns a boolean stat, false if absent.
func (i *Item) Bool(key string) bool {
	if i == nil {
		return false
	}
	return i.bools[key]
}

// SetInt sets an integer stat.
func (i *Item) SetInt(key string, v int) *Item {
	i.ints[key] = v
	return i
}

// SetStr sets a string stat. Setting "slot" or "weapon_type" does not
// invalidate capabilities: those are derived from the name and cap_* flags.
func (i *Item) SetStr(key, v string) *Item {
	i.strs[key] = v
	return i
}

// SetBool sets a boolean stat. cap_* flags feed capability resolution.
func (i *Item) SetBool(key string, v bool) *Item {
	i.bools[key] = v
	i.caps = ResolveCapabilities(i.name, i.bools)
	return i
}

// Slot returns the raw equipment slot as declared by the catalog ("2h", "weapon", ...).
func (i *Item) Slot() string { return i.Str("slot") }

// NormalizedSlot returns the paperdoll slot the item occupies.
func (i *Item) NormalizedSlot() Slot { return NormalizeSlot(i.Slot()) }

// IsTwoHanded reports whether the item occupies both weapon and shield slots.
func (i *Item) IsTwoHanded() bool { return i.Slot() == RawSlotTwoHanded }

// IsEquipable reports whether a player can wear the item.
func (i *Item) IsEquipable() bool { return i.Bool("equipable_by_player") }

// IsTradeable reports whether the item trades on the exchange.
func (i *Item) IsTradeable() bool { return i.Bool("tradeable_on_ge") }

// Price returns the market price attached at load time.
func (i *Item) Price() int { return i.price }

// SetPrice attaches a market price.
func (i *Item) SetPrice(p int) *Item {
	i.price = p
	return i
}

// PricedBy returns the id of the component whose price stands in for this item.
func (i *Item) PricedBy() int { return i.pricedBy }

// SetPricedBy attaches a price proxy component.
func (i *Item) SetPricedBy(id int) *Item {
	i.pricedBy = id
	return i
}

// FixedPrice returns the manual price override, 0 if none.
func (i *Item) FixedPrice() int { return i.fixedPrice }

// SetFixedPrice attaches a manual price override.
func (i *Item) SetFixedPrice(p int) *Item {
	i.fixedPrice = p
	return i
}

// HasPriceOverride reports whether the item is priced without a market quote of its own.
func (i *Item) HasPriceOverride() bool { return i.pricedBy > 0 || i.fixedPrice > 0 }

// Capabilities returns the special-effect set resolved when the item was built.
func (i *Item) Capabilities() Capability {
	if i == nil {
		return 0
	}
	return i.caps
}

// Bolt returns the enchanted bolt gem, BoltNone for other items.
func (i *Item) Bolt() Bolt {
	if i == nil {
		return BoltNone
	}
	return i.bolt
}

// Clone returns a deep copy. Catalog items are shared between loadouts, so
// callers only clone when they need to edit stats.
func (i *Item) Clone() *Item {
	c := *i
	c.ints = maps.Clone(i.ints)
	c.strs = maps.Clone(i.strs)
	c.bools = maps.Clone(i.bools)
	return &c
}

// Quote is a bid/ask pair from the price catalog.
type Quote struct {
	High int
	Low  int
}

// Mid returns the mid price, or whichever side is positive.
func (q Quote) Mid() int {
	switch {
	case q.High > 0 && q.Low > 0:
		return (q.High + q.Low) / 2
	case q.High > 0:
		return q.High
	default:
		return q.Low
	}
}
