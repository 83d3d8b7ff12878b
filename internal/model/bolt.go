package model

import "strings"

// Bolt is the gem of an enchanted bolt. Plain ammo is BoltNone.
type Bolt int

const (
	BoltNone Bolt = iota
	BoltOpal
	BoltJade
	BoltPearl
	BoltTopaz
	BoltSapphire
	BoltEmerald
	BoltRuby
	BoltDiamond
	BoltDragonstone
	BoltOnyx
)

var boltGems = [...]string{
	BoltNone:        "",
	BoltOpal:        "opal",
	BoltJade:        "jade",
	BoltPearl:       "pearl",
	BoltTopaz:       "topaz",
	BoltSapphire:    "sapphire",
	BoltEmerald:     "emerald",
	BoltRuby:        "ruby",
	BoltDiamond:     "diamond",
	BoltDragonstone: "dragonstone",
	BoltOnyx:        "onyx",
}

func (b Bolt) String() string {
	if b < 0 || int(b) >= len(boltGems) {
		return ""
	}
	return boltGems[b]
}

// ResolveBolt reads the gem from an enchanted bolt name such as
// "Ruby bolts (e)" or "Diamond dragon bolts (e)". Anything that is not an
// enchanted gem bolt is BoltNone.
func ResolveBolt(name string) Bolt {
	lower := strings.ToLower(strings.TrimSpace(name))
	if !strings.HasSuffix(lower, "bolts (e)") {
		return BoltNone
	}
	for b := BoltOpal; b <= BoltOnyx; b++ {
		if strings.HasPrefix(lower, boltGems[b]+" ") {
			return b
		}
	}
	return BoltNone
}
