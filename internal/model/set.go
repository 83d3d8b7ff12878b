package model

import "strings"

// Armour set names reported by ActiveSet.
const (
	SetVoidMelee  = "Void Melee"
	SetVoidRanger = "Void Ranger"
	SetDharok     = "Dharok"
	SetObsidian   = "Obsidian"
	SetInquisitor = "Inquisitor"
)

type setPiece struct {
	slot  Slot
	names []string // any of, lowercase substring match
}

type armourSet struct {
	name   string
	pieces []setPiece
}

var (
	voidBody  = setPiece{SlotBody, []string{"void knight top", "elite void top"}}
	voidLegs  = setPiece{SlotLegs, []string{"void knight robe", "elite void robe"}}
	voidHands = setPiece{SlotHands, []string{"void knight gloves"}}
)

// armourSets is checked in order; the first complete set wins.
var armourSets = []armourSet{
	{SetVoidMelee, []setPiece{{SlotHead, []string{"void melee helm"}}, voidBody, voidLegs, voidHands}},
	{SetVoidRanger, []setPiece{{SlotHead, []string{"void ranger helm"}}, voidBody, voidLegs, voidHands}},
	{SetDharok, []setPiece{
		{SlotHead, []string{"dharok's helm"}},
		{SlotBody, []string{"dharok's platebody"}},
		{SlotLegs, []string{"dharok's platelegs"}},
		{SlotWeapon, []string{"dharok's greataxe"}},
	}},
	{SetObsidian, []setPiece{
		{SlotHead, []string{"obsidian helmet"}},
		{SlotBody, []string{"obsidian platebody"}},
		{SlotLegs, []string{"obsidian platelegs"}},
	}},
	{SetInquisitor, []setPiece{
		{SlotHead, []string{"inquisitor's great helm"}},
		{SlotBody, []string{"inquisitor's hauberk"}},
		{SlotLegs, []string{"inquisitor's plateskirt"}},
	}},
}

func (p setPiece) wornBy(c *Combatant) bool {
	it := c.Equipped(p.slot)
	if it == nil {
		return false
	}
	name := strings.ToLower(it.Name())
	for _, n := range p.names {
		if strings.Contains(name, n) {
			return true
		}
	}
	return false
}

// ActiveSet returns the name of the first complete armour set worn, or "".
func (c *Combatant) ActiveSet() string {
	for _, s := range armourSets {
		complete := true
		for _, p := range s.pieces {
			if !p.wornBy(c) {
				complete = false
				break
			}
		}
		if complete {
			return s.name
		}
	}
	return ""
}

// SetPieces counts the worn pieces of the named set.
func (c *Combatant) SetPieces(set string) int {
	for _, s := range armourSets {
		if s.name != set {
			continue
		}
		n := 0
		for _, p := range s.pieces {
			if p.wornBy(c) {
				n++
			}
		}
		return n
	}
	return 0
}
