package combat

import (
	"strings"

	"github.com/udisondev/dpscalc/internal/model"
)

// unarmedSpeed is the attack interval with an empty weapon slot.
const unarmedSpeed = 4

var rangedWeaponTypes = map[string]struct{}{
	"bow":         {},
	"bows":        {},
	"crossbow":    {},
	"crossbows":   {},
	"thrown":      {},
	"chinchompas": {},
}

// Loadout is the derived view of a combatant against a target: worn
// capabilities, detected set and creature matches. It is built once per
// engine and never outlives a gear change.
type Loadout struct {
	Combatant *model.Combatant
	Target    *model.Target
	Weapon    *model.Item

	Caps        model.Capability
	Set         string
	Inquisitor  int // worn inquisitor pieces
	Ranged      bool
	Crossbow    bool
	AttackSpeed int
	Bolt        model.Bolt // enchanted bolt fired by a crossbow

	Dragon   bool
	Demon    bool
	Undead   bool
	Kalphite bool
	Leafy    bool
	Fiery    bool
	Vampyre  bool
	Shade    bool
}

// NewLoadout derives the loadout. A weapon whose attack speed is not a
// positive tick count is a configuration error.
func NewLoadout(c *model.Combatant, t *model.Target) (*Loadout, error) {
	l := &Loadout{
		Combatant:   c,
		Target:      t,
		Weapon:      c.Equipped(model.SlotWeapon),
		Caps:        c.Gear().Capabilities(),
		Set:         c.ActiveSet(),
		Inquisitor:  c.SetPieces(model.SetInquisitor),
		AttackSpeed: unarmedSpeed,
		Dragon:      t.HasTag(model.TagDragon),
		Demon:       t.HasTag(model.TagDemon),
		Undead:      t.HasTag(model.TagUndead),
		Kalphite:    t.HasTag(model.TagKalphite),
		Leafy:       t.HasTag(model.TagLeafy),
		Fiery:       t.HasTag(model.TagFiery),
		Vampyre:     t.HasTagPrefix(model.TagVampyre),
		Shade:       t.HasTag(model.TagShade),
	}

	if w := l.Weapon; w != nil {
		speed := w.Int("attack_speed")
		if speed <= 0 {
			return nil, configErrorf(ErrInvalidAttackSpeed, "weapon %q attack_speed=%d", w.Name(), speed)
		}
		l.AttackSpeed = speed

		wt := strings.ToLower(w.Str("weapon_type"))
		_, rangedType := rangedWeaponTypes[wt]
		melee := max(w.Int("attack_stab"), w.Int("attack_slash"), w.Int("attack_crush"))
		l.Ranged = rangedType ||
			w.Capabilities().Any(model.CapMagicScaling|model.CapDragonbaneCrossbow) ||
			(w.Int("attack_ranged") > 0 && w.Int("attack_ranged") > melee)
		l.Crossbow = strings.HasPrefix(wt, "crossbow") || w.Capabilities().Any(model.CapDragonbaneCrossbow|model.CapZaryte)
		if l.Crossbow {
			l.Bolt = c.Equipped(model.SlotAmmo).Bolt()
		}
	}
	return l, nil
}

// weaponCaps are the capabilities contributed by the weapon alone. Bane and
// multi-hit effects only apply when the weapon itself carries them.
func (l *Loadout) weaponCaps() model.Capability {
	return l.Weapon.Capabilities()
}

// Options returns the style/stance options the optimizer considers.
func (l *Loadout) Options() []Option {
	if l.Ranged {
		return rangedOptions
	}
	return meleeOptions
}

// DefaultOption returns a sensible option before optimization: the melee
// style with the highest accuracy bonus on aggressive, or ranged rapid.
func (l *Loadout) DefaultOption() Option {
	if l.Ranged {
		return Option{StyleRanged, StanceRapid}
	}
	best := StyleStab
	bestBonus := l.Combatant.EquipmentBonus("attack_stab")
	for _, s := range []Style{StyleSlash, StyleCrush} {
		if b := l.Combatant.EquipmentBonus("attack_" + string(s)); b > bestBonus {
			best, bestBonus = s, b
		}
	}
	return Option{best, StanceAggressive}
}

// SalveActive reports an undead amulet tier effective for the style.
func (l *Loadout) SalveActive(style Style) bool {
	if !l.Undead || !l.Caps.Any(model.CapSalveAny) {
		return false
	}
	if style.IsMelee() {
		return true
	}
	return l.Caps.Any(model.CapSalveI | model.CapSalveEI)
}

// SlayerHelmActive reports an on-task helm effective for the style.
func (l *Loadout) SlayerHelmActive(style Style) bool {
	if !l.Combatant.OnTask() || !l.Caps.Has(model.CapSlayerHelm) {
		return false
	}
	return style.IsMelee() || l.Caps.Has(model.CapSlayerHelmImbued)
}

// KerisCritActive reports the kalphite critical proc.
func (l *Loadout) KerisCritActive() bool {
	return l.Kalphite && l.weaponCaps().Has(model.CapKalphiteCrit)
}

// SubHits returns the number of hits a multi-hit weapon lands per attack.
func (l *Loadout) SubHits(style Style) int {
	if !style.IsMelee() || !l.weaponCaps().Has(model.CapMultiHit) {
		return 1
	}
	return min(l.Target.Size(), 3)
}

// Indicators summarizes the active special effects for reports.
type Indicators struct {
	Fang      bool
	Lance     bool
	Crossbow  bool
	Arclight  bool
	Keris     bool
	Scythe    bool
	Bow       bool
	Salve     bool
	OnTask    bool
	Vampyre   bool
	Shade     bool
	Bolt      model.Bolt
	ActiveSet string
}

// Indicators reports which special effects are in play for style.
func (l *Loadout) Indicators(style Style) Indicators {
	wc := l.weaponCaps()
	var bolt model.Bolt
	if style == StyleRanged {
		bolt = l.Bolt
	}
	return Indicators{
		Fang:      wc.Has(model.CapDoubleRoll),
		Lance:     wc.Has(model.CapDragonbane) && l.Dragon,
		Crossbow:  wc.Has(model.CapDragonbaneCrossbow) && l.Dragon,
		Arclight:  wc.Has(model.CapDemonbane) && l.Demon,
		Keris:     wc.Has(model.CapKalphitebane) && l.Kalphite,
		Scythe:    wc.Has(model.CapMultiHit),
		Bow:       wc.Has(model.CapMagicScaling),
		Salve:     l.SalveActive(style),
		OnTask:    l.SlayerHelmActive(style) && !l.SalveActive(style),
		Vampyre:   wc.Any(model.CapVampyrebane|model.CapVampyrebaneBlisterwood) && l.Vampyre,
		Shade:     wc.Has(model.CapShadebane) && l.Shade,
		Bolt:      bolt,
		ActiveSet: l.Set,
	}
}
