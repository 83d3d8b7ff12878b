package model

import (
	"fmt"
	"maps"
)

// Paperdoll holds equipped items keyed by normalized slot. At most one item
// per slot; a two-handed weapon and a shield never coexist.
type Paperdoll struct {
	items map[Slot]*Item
}

// NewPaperdoll creates an empty paperdoll.
func NewPaperdoll() *Paperdoll {
	return &Paperdoll{items: make(map[Slot]*Item)}
}

// Get returns the item in slot, nil if empty.
func (p *Paperdoll) Get(slot Slot) *Item {
	return p.items[slot]
}

// Equip puts item into slot and returns the items it displaced.
//
// Slot rules:
//   - a two-handed weapon goes to the weapon slot and evicts the shield
//   - a shield evicts a two-handed weapon
//   - anything else replaces whatever was in its slot
func (p *Paperdoll) Equip(slot Slot, item *Item) ([]*Item, error) {
	if item == nil {
		return nil, fmt.Errorf("item cannot be nil")
	}
	if slot == "" {
		return nil, fmt.Errorf("item %q has no equipment slot", item.Name())
	}

	var removed []*Item
	if old := p.items[slot]; old != nil {
		removed = append(removed, old)
	}

	switch {
	case slot == SlotWeapon && item.IsTwoHanded():
		if shield := p.items[SlotShield]; shield != nil {
			removed = append(removed, shield)
			delete(p.items, SlotShield)
		}
	case slot == SlotShield:
		if w := p.items[SlotWeapon]; w != nil && w.IsTwoHanded() {
			removed = append(removed, w)
			delete(p.items, SlotWeapon)
		}
	}

	p.items[slot] = item
	return removed, nil
}

// Unequip empties slot and returns what was there.
func (p *Paperdoll) Unequip(slot Slot) *Item {
	item := p.items[slot]
	delete(p.items, slot)
	return item
}

// Items returns a copy of the slot → item map.
func (p *Paperdoll) Items() map[Slot]*Item {
	return maps.Clone(p.items)
}

// Sum adds an integer stat over every equipped item.
func (p *Paperdoll) Sum(key string) int {
	total := 0
	for _, it := range p.items {
		total += it.Int(key)
	}
	return total
}

// Capabilities unions the capability sets of every equipped item.
func (p *Paperdoll) Capabilities() Capability {
	var caps Capability
	for _, it := range p.items {
		caps |= it.Capabilities()
	}
	return caps
}

// Clone copies the slot map. Items are shared: they are immutable.
func (p *Paperdoll) Clone() *Paperdoll {
	return &Paperdoll{items: maps.Clone(p.items)}
}
