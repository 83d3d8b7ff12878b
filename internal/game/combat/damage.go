package combat

import (
	"math"

	"github.com/udisondev/dpscalc/internal/model"
)

// Kind selects which effective level to compute.
type Kind int

const (
	KindAttack Kind = iota
	KindStrength
	KindRangedAttack
	KindRangedStrength
)

// ratio is an exact multiplier: value × num / den, floored.
type ratio struct{ num, den int }

func (r ratio) apply(v int) int { return v * r.num / r.den }

// Multipliers are exact fractions of the in-game percentages, so the helm
// and base salve use 7/6 where a decimal 1.1667 could drift by one on large
// attack rolls.
var (
	ratioNone       = ratio{1, 1}
	ratioSlayerHelm = ratio{7, 6}     // ×1.1667
	ratioSalve      = ratio{7, 6}     // ×1.1667
	ratioSalveE     = ratio{6, 5}     // ×1.20
	ratioDragonbane = ratio{6, 5}     // ×1.20
	ratioCrossbow   = ratio{13, 10}   // ×1.30
	ratioDemonbane  = ratio{17, 10}   // ×1.70
	ratioKalphite   = ratio{133, 100} // ×1.33
	ratioLeafbane   = ratio{47, 40}   // ×1.175
	ratioObsidian   = ratio{11, 10}   // ×1.10
	ratioInqFull    = ratio{41, 40}   // ×1.025
	ratioPietyAtt   = ratio{120, 100}
	ratioPietyStr   = ratio{123, 100}
	ratioVoid       = ratio{11, 10}

	ratioIvandis         = ratio{6, 5}   // damage ×1.20
	ratioBlisterwoodAtt  = ratio{21, 20} // accuracy ×1.05
	ratioBlisterwoodDmg  = ratio{5, 4}   // damage ×1.25
	ratioGadderhammerDmg = ratio{5, 4}
)

const (
	tbowMagicCap   = 250
	kerisCritRange = 51
)

// Engine evaluates the combat formulas for one loadout. Every method takes
// the style/stance option explicitly and never mutates the loadout, so one
// engine can serve concurrent evaluations.
type Engine struct {
	l *Loadout
}

// NewEngine derives the loadout of c against t.
func NewEngine(c *model.Combatant, t *model.Target) (*Engine, error) {
	l, err := NewLoadout(c, t)
	if err != nil {
		return nil, err
	}
	return &Engine{l: l}, nil
}

// Loadout returns the derived loadout.
func (e *Engine) Loadout() *Loadout { return e.l }

// AttackSpeed returns the interval between attacks in ticks for opt.
func (e *Engine) AttackSpeed(opt Option) int {
	return max(e.l.AttackSpeed+opt.speedDelta(), 1)
}

// EffectiveLevel returns boosted level → prayer → set bonus → stance → +8.
func (e *Engine) EffectiveLevel(kind Kind, opt Option) int {
	c := e.l.Combatant
	stanceAtt, stanceStr := opt.stanceBonus()

	var lvl int
	switch kind {
	case KindAttack:
		lvl = c.BoostedLevel(model.SkillAttack)
		if c.HasBuff(model.BuffPiety) {
			lvl = ratioPietyAtt.apply(lvl)
		}
		if e.l.Set == model.SetVoidMelee {
			lvl = ratioVoid.apply(lvl)
		}
		lvl += stanceAtt
	case KindStrength:
		lvl = c.BoostedLevel(model.SkillStrength)
		if c.HasBuff(model.BuffPiety) {
			lvl = ratioPietyStr.apply(lvl)
		}
		if e.l.Set == model.SetVoidMelee {
			lvl = ratioVoid.apply(lvl)
		}
		lvl += stanceStr
	case KindRangedAttack:
		lvl = c.BoostedLevel(model.SkillRanged)
		if c.HasBuff(model.BuffRigour) {
			lvl = ratioPietyAtt.apply(lvl)
		}
		if e.l.Set == model.SetVoidRanger {
			lvl = ratioVoid.apply(lvl)
		}
		lvl += stanceAtt
	case KindRangedStrength:
		lvl = c.BoostedLevel(model.SkillRanged)
		if c.HasBuff(model.BuffRigour) {
			lvl = ratioPietyStr.apply(lvl)
		}
		if e.l.Set == model.SetVoidRanger {
			lvl = ratioVoid.apply(lvl)
		}
		lvl += stanceStr
	}
	return lvl + 8
}

// StrengthBonus returns the equipment strength bonus used by the style.
// Melee reads strength_bonus and falls back to melee_strength.
func (e *Engine) StrengthBonus(style Style) int {
	c := e.l.Combatant
	if style == StyleRanged {
		return c.EquipmentBonus("ranged_strength")
	}
	if s := c.EquipmentBonus("strength_bonus"); s != 0 {
		return s
	}
	return c.EquipmentBonus("melee_strength")
}

// AttackBonus returns the equipment accuracy bonus for the style.
func (e *Engine) AttackBonus(style Style) int {
	return e.l.Combatant.EquipmentBonus("attack_" + string(style))
}

// BaseMaxHit is the max hit before conditional multipliers. Bonuses below
// -64 floor it at zero.
func (e *Engine) BaseMaxHit(opt Option) int {
	kind := KindStrength
	if opt.Style == StyleRanged {
		kind = KindRangedStrength
	}
	effStr := e.EffectiveLevel(kind, opt)
	return max((effStr*(e.StrengthBonus(opt.Style)+64)+320)/640, 0)
}

// MaxHit applies the ordered multipliers to the base max hit, flooring
// after each step:
//
//  1. on-task helm or undead amulet (never both)
//  2. creature bane of the weapon
//  3. obsidian and inquisitor set bonuses (melee)
//  4. magic-scaled bow damage (ranged)
//  5. missing-health scaling of the dharok set (melee)
func (e *Engine) MaxHit(opt Option) int {
	hit := e.BaseMaxHit(opt)
	hit = e.taskOrUndead(opt.Style).apply(hit)
	_, bane := e.creatureBane(opt.Style)
	hit = bane.apply(hit)
	hit = e.setBonus(opt.Style).apply(hit)

	if opt.Style == StyleRanged && e.l.weaponCaps().Has(model.CapMagicScaling) {
		hit = int(math.Floor(float64(hit) * TwistedBowDamage(e.l.Target.Stat("magic_level"))))
	}
	if opt.Style.IsMelee() && e.l.Set == model.SetDharok {
		cur, maxHP := e.l.Combatant.HP()
		hit = int(math.Floor(float64(hit) * DharokMultiplier(cur, maxHP)))
	}
	return hit
}

// AttackRoll is effective attack × (accuracy bonus + 64) with the same
// multipliers as MaxHit except the health-scaled ones, plus bow accuracy.
func (e *Engine) AttackRoll(opt Option) int {
	kind := KindAttack
	if opt.Style == StyleRanged {
		kind = KindRangedAttack
	}
	roll := max(e.EffectiveLevel(kind, opt)*(e.AttackBonus(opt.Style)+64), 0)
	roll = e.taskOrUndead(opt.Style).apply(roll)
	bane, _ := e.creatureBane(opt.Style)
	roll = bane.apply(roll)
	roll = e.setBonus(opt.Style).apply(roll)

	if opt.Style == StyleRanged && e.l.weaponCaps().Has(model.CapMagicScaling) {
		roll = int(math.Floor(float64(roll) * TwistedBowAccuracy(e.l.Target.Stat("magic_level"))))
	}
	return roll
}

// DefenceRoll is (defence level + 9) × (style defence bonus + 64), floored
// at zero like the attack roll.
func (e *Engine) DefenceRoll(opt Option) int {
	t := e.l.Target
	return max((t.Stat("defence_level")+9)*(t.Stat("defence_"+string(opt.Style))+64), 0)
}

// HitChance returns the probability that one attack roll lands, including
// the double roll of weapons that have it.
func (e *Engine) HitChance(opt Option) float64 {
	p := HitChance(e.AttackRoll(opt), e.DefenceRoll(opt))
	if e.l.weaponCaps().Has(model.CapDoubleRoll) {
		return DoubleRoll(p)
	}
	return p
}

// DamageRange returns the inclusive uniform damage range for max.
func (e *Engine) DamageRange(max int) (lo, hi int) {
	if e.l.weaponCaps().Has(model.CapDamageClamp) {
		return ClampedRange(max)
	}
	return 0, max
}

// SubHitMaxima returns the max hit of every sub-hit: full, half, quarter.
func (e *Engine) SubHitMaxima(opt Option) []int {
	maxHit := e.MaxHit(opt)
	n := e.l.SubHits(opt.Style)
	out := make([]int, n)
	for i := range out {
		out[i] = maxHit >> i
	}
	return out
}

// taskOrUndead picks the slayer helm or undead amulet multiplier. They never
// stack: an eligible amulet always replaces the helm.
func (e *Engine) taskOrUndead(style Style) ratio {
	l := e.l
	if l.SalveActive(style) {
		if l.Caps.Has(model.CapSalveEI) || (style.IsMelee() && l.Caps.Has(model.CapSalveE)) {
			return ratioSalveE
		}
		return ratioSalve
	}
	if l.SlayerHelmActive(style) {
		return ratioSlayerHelm
	}
	return ratioNone
}

// creatureBane returns the accuracy and damage multipliers of the weapon
// against the target's creature category.
func (e *Engine) creatureBane(style Style) (accuracy, damage ratio) {
	l := e.l
	wc := l.weaponCaps()
	if style == StyleRanged {
		if l.Dragon && wc.Has(model.CapDragonbaneCrossbow) {
			return ratioCrossbow, ratioCrossbow
		}
		return ratioNone, ratioNone
	}
	switch {
	case l.Dragon && wc.Has(model.CapDragonbane):
		return ratioDragonbane, ratioDragonbane
	case l.Demon && wc.Has(model.CapDemonbane):
		return ratioDemonbane, ratioDemonbane
	case l.Kalphite && wc.Has(model.CapKalphitebane):
		return ratioKalphite, ratioKalphite
	case l.Leafy && wc.Has(model.CapLeafbane):
		return ratioLeafbane, ratioLeafbane
	case l.Vampyre && wc.Has(model.CapVampyrebaneBlisterwood):
		return ratioBlisterwoodAtt, ratioBlisterwoodDmg
	case l.Vampyre && wc.Has(model.CapVampyrebane):
		return ratioNone, ratioIvandis
	case l.Shade && wc.Has(model.CapShadebane):
		return ratioNone, ratioGadderhammerDmg
	}
	return ratioNone, ratioNone
}

// setBonus covers the melee-only set multipliers. A full inquisitor set
// overrides the per-piece bonus.
func (e *Engine) setBonus(style Style) ratio {
	l := e.l
	if !style.IsMelee() {
		return ratioNone
	}
	if l.Set == model.SetObsidian && l.weaponCaps().Has(model.CapObsidianWeapon) {
		return ratioObsidian
	}
	if style == StyleCrush && l.Inquisitor > 0 {
		if l.Inquisitor >= 3 {
			return ratioInqFull
		}
		return ratio{1000 + 5*l.Inquisitor, 1000}
	}
	return ratioNone
}

// HitChance converts attack and defence rolls into a hit probability.
// Negative rolls count as zero.
func HitChance(attack, defence int) float64 {
	attack, defence = max(attack, 0), max(defence, 0)
	a, d := float64(attack), float64(defence)
	if attack > defence {
		return 1 - (d+2)/(2*(a+1))
	}
	return a / (2 * (d + 1))
}

// DoubleRoll is the hit probability when either of two independent rolls
// at probability p may land.
func DoubleRoll(p float64) float64 {
	return 1 - (1-p)*(1-p)
}

// ClampedRange is the damage range of clamping weapons: 15%..85% of max.
func ClampedRange(max int) (lo, hi int) {
	lo = max * 15 / 100
	hi = max * 85 / 100
	if lo > hi {
		lo = hi
	}
	return lo, hi
}

// TwistedBowDamage scales with target magic level (capped at 250),
// clamped to [1.0, 2.5].
func TwistedBowDamage(magic int) float64 {
	m := float64(min(magic, tbowMagicCap))
	return clamp(0.25+(3*m-14)/100, 1.0, 2.5)
}

// TwistedBowAccuracy scales with target magic level, capped at 2.40.
func TwistedBowAccuracy(magic int) float64 {
	m := float64(min(magic, tbowMagicCap))
	return math.Min(1.40+(30*m-10)/100, 2.40)
}

// DharokMultiplier grows with missing health: 1 + lost/100 × max/100.
func DharokMultiplier(current, maxHP int) float64 {
	lost := max(maxHP-current, 0)
	return 1 + float64(lost)/100*float64(maxHP)/100
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}
