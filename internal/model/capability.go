package model

import "strings"

// Capability is a special effect an item brings into a loadout.
// Resolved once per item; the combat engine only tests bits.
type Capability uint32

const (
	CapDoubleRoll             Capability = 1 << iota // two independent accuracy rolls
	CapDamageClamp                                   // damage drawn from [15%, 85%] of max hit
	CapDragonbane                                    // melee ×1.20 vs dragons
	CapDragonbaneCrossbow                            // ranged ×1.30 vs dragons
	CapDemonbane                                     // ×1.70 vs demons
	CapKalphitebane                                  // ×1.33 vs kalphites
	CapKalphiteCrit                                  // 1/51 triple damage vs kalphites
	CapLeafbane                                      // ×1.175 vs leafy
	CapMultiHit                                      // up to three sub-hits by target size
	CapMagicScaling                                  // accuracy and damage scale with target magic
	CapSlayerHelm                                    // on-task melee bonus
	CapSlayerHelmImbued                              // on-task bonus for every style
	CapSalve                                         // undead melee ×1.1667
	CapSalveE                                        // undead melee ×1.20
	CapSalveI                                        // undead all styles ×1.1667
	CapSalveEI                                       // undead all styles ×1.20
	CapObsidianWeapon                                // counts for the obsidian set bonus
	CapVampyrebane                                   // ×1.20 damage vs vampyres
	CapVampyrebaneBlisterwood                        // ×1.05 accuracy, ×1.25 damage vs vampyres
	CapShadebane                                     // ×1.25 damage vs shades
	CapZaryte                                        // stronger enchanted bolt effects
)

// CapSalveAny is any undead amulet tier.
const CapSalveAny = CapSalve | CapSalveE | CapSalveI | CapSalveEI

// Has reports whether every bit of c is set.
func (c Capability) Has(flag Capability) bool { return c&flag == flag }

// Any reports whether at least one bit of flags is set.
func (c Capability) Any(flags Capability) bool { return c&flags != 0 }

// capabilityByName lists the known item identities. Entries are matched
// against the lowercase display name; more specific names come first.
var capabilityByName = []struct {
	match string
	caps  Capability
}{
	{"osmumten's fang", CapDoubleRoll | CapDamageClamp},
	{"dragon hunter lance", CapDragonbane},
	{"dragon hunter crossbow", CapDragonbaneCrossbow},
	{"arclight", CapDemonbane},
	{"emberlight", CapDemonbane},
	{"keris partisan of breaching", CapKalphitebane | CapKalphiteCrit},
	{"keris", CapKalphitebane | CapKalphiteCrit},
	{"leaf-bladed", CapLeafbane},
	{"scythe of vitur", CapMultiHit},
	{"twisted bow", CapMagicScaling},
	{"zaryte crossbow", CapZaryte},
	{"blisterwood flail", CapVampyrebaneBlisterwood},
	{"ivandis flail", CapVampyrebane},
	{"gadderhammer", CapShadebane},
	{"slayer helmet (i)", CapSlayerHelm | CapSlayerHelmImbued},
	{"black mask (i)", CapSlayerHelm | CapSlayerHelmImbued},
	{"slayer helmet", CapSlayerHelm},
	{"black mask", CapSlayerHelm},
	{"salve amulet(ei)", CapSalveEI},
	{"salve amulet (ei)", CapSalveEI},
	{"salve amulet(e)", CapSalveE},
	{"salve amulet (e)", CapSalveE},
	{"salve amulet(i)", CapSalveI},
	{"salve amulet (i)", CapSalveI},
	{"salve amulet", CapSalve},
	{"toktz-xil-ak", CapObsidianWeapon},
	{"toktz-xil-ek", CapObsidianWeapon},
	{"tzhaar-ket-em", CapObsidianWeapon},
	{"tzhaar-ket-om", CapObsidianWeapon},
}

// capabilityByFlag maps declared boolean flags to capabilities, so catalogs
// can mark items the name table doesn't know.
var capabilityByFlag = map[string]Capability{
	"cap_double_roll":         CapDoubleRoll,
	"cap_damage_clamp":        CapDamageClamp,
	"cap_dragonbane":          CapDragonbane,
	"cap_dragonbane_crossbow": CapDragonbaneCrossbow,
	"cap_demonbane":           CapDemonbane,
	"cap_kalphitebane":        CapKalphitebane,
	"cap_kalphite_crit":       CapKalphiteCrit,
	"cap_leafbane":            CapLeafbane,
	"cap_multi_hit":           CapMultiHit,
	"cap_magic_scaling":       CapMagicScaling,
	"cap_slayer_helm":         CapSlayerHelm,
	"cap_slayer_helm_imbued":  CapSlayerHelm | CapSlayerHelmImbued,
	"cap_salve":               CapSalve,
	"cap_salve_e":             CapSalveE,
	"cap_salve_i":             CapSalveI,
	"cap_salve_ei":            CapSalveEI,
	"cap_obsidian_weapon":     CapObsidianWeapon,
	"cap_vampyrebane":         CapVampyrebane,
	"cap_blisterwood":         CapVampyrebaneBlisterwood,
	"cap_shadebane":           CapShadebane,
	"cap_zaryte":              CapZaryte,
}

// ResolveCapabilities derives the capability set from a display name and
// declared flags. Only the first matching name entry applies.
func ResolveCapabilities(name string, flags map[string]bool) Capability {
	var caps Capability
	lower := strings.ToLower(name)
	for _, e := range capabilityByName {
		if strings.Contains(lower, e.match) {
			caps |= e.caps
			break
		}
	}
	for key, on := range flags {
		if on {
			caps |= capabilityByFlag[key]
		}
	}
	return caps
}

// specialUpgradeCaps are effects invisible to a raw stat comparison.
const specialUpgradeCaps = CapDragonbane | CapDragonbaneCrossbow | CapDoubleRoll |
	CapMultiHit | CapMagicScaling | CapSalveAny |
	CapVampyrebane | CapVampyrebaneBlisterwood | CapShadebane | CapZaryte

// HasHiddenValue reports whether the item's worth can't be judged from its
// offensive stats alone (creature-bane weapons, scaling bows, undead amulets).
func (c Capability) HasHiddenValue() bool { return c.Any(specialUpgradeCaps) }
