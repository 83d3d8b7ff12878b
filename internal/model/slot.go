package model

import "strings"

// Slot is a normalized paperdoll slot.
type Slot string

const (
	SlotHead   Slot = "head"
	SlotCape   Slot = "cape"
	SlotNeck   Slot = "neck"
	SlotAmmo   Slot = "ammo"
	SlotWeapon Slot = "weapon"
	SlotBody   Slot = "body"
	SlotShield Slot = "shield"
	SlotLegs   Slot = "legs"
	SlotHands  Slot = "hands"
	SlotFeet   Slot = "feet"
	SlotRing   Slot = "ring"
)

// RawSlotTwoHanded is the catalog slot of two-handed weapons.
const RawSlotTwoHanded = "2h"

// Slots lists every paperdoll slot in display order.
var Slots = []Slot{
	SlotHead, SlotCape, SlotNeck, SlotAmmo, SlotWeapon, SlotBody,
	SlotShield, SlotLegs, SlotHands, SlotFeet, SlotRing,
}

// NormalizeSlot maps a catalog slot to the paperdoll slot it occupies.
// Two-handed weapons live in the weapon slot. Unknown slots map to "".
func NormalizeSlot(raw string) Slot {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == RawSlotTwoHanded {
		return SlotWeapon
	}
	for _, slot := range Slots {
		if string(slot) == s {
			return slot
		}
	}
	return ""
}
