package combat

import (
	"math/rand/v2"

	"github.com/udisondev/dpscalc/internal/model"
)

// kandarinProcRatio raises every bolt proc chance by 10%.
const kandarinProcRatio = 1.1

// boltChance is the base proc chance per attack.
var boltChance = map[model.Bolt]float64{
	model.BoltOpal:        0.05,
	model.BoltJade:        0.06,
	model.BoltPearl:       0.06,
	model.BoltTopaz:       0.04,
	model.BoltSapphire:    0.05,
	model.BoltEmerald:     0.55,
	model.BoltRuby:        0.06,
	model.BoltDiamond:     0.10,
	model.BoltDragonstone: 0.06,
	model.BoltOnyx:        0.11,
}

// BoltProc is the damage side of an enchanted bolt effect for one option.
//
// Opal, pearl, ruby and diamond procs are rolled before accuracy and always
// land. Dragonstone and onyx procs only fire on a successful hit.
type BoltProc struct {
	Bolt     model.Bolt
	Chance   float64
	Accurate bool // the proc skips the accuracy roll
	MaxHit   int  // max hit of the proc's damage roll
	Bonus    int  // flat damage added to the proc roll

	rubyPercent int
	rubyCap     int
}

// Ruby reports a proc that deals a share of the target's remaining health
// instead of a damage roll.
func (b BoltProc) Ruby() bool { return b.rubyPercent > 0 }

// RubyDamage is the proc damage of ruby bolts against hp remaining.
func (b BoltProc) RubyDamage(hp int) int {
	if !b.Ruby() {
		return 0
	}
	return min(max(hp, 0)*b.rubyPercent/100, b.rubyCap)
}

// roll draws the damage of a proc.
func (b BoltProc) roll(rng *rand.Rand, hp int) int {
	if b.Ruby() {
		return b.RubyDamage(hp)
	}
	return rng.IntN(b.MaxHit+1) + b.Bonus
}

// expected is the mean damage of one attack given hit chance p and the
// mean of a normal damage roll, against a target at hp.
func (b BoltProc) expected(p, normal float64, hp int) float64 {
	proc := float64(b.MaxHit)/2 + float64(b.Bonus)
	if b.Ruby() {
		proc = float64(b.RubyDamage(hp))
	}
	if b.Accurate {
		return b.Chance*proc + (1-b.Chance)*p*normal
	}
	return p * (b.Chance*proc + (1-b.Chance)*normal)
}

// BoltProc returns the bolt effect that changes damage under opt. Gems
// without a damage effect (jade, topaz, sapphire, emerald), non-crossbow
// weapons and immune targets report false.
//
// A zaryte crossbow strengthens every effect by 10%: ruby 22% capped at
// 110, diamond ×1.26, onyx ×1.32, dragonstone 22% of ranged, opal and
// pearl bonus ×1.1.
func (e *Engine) BoltProc(opt Option) (BoltProc, bool) {
	l := e.l
	if opt.Style != StyleRanged || !l.Crossbow || l.Bolt == model.BoltNone {
		return BoltProc{}, false
	}
	zaryte := l.weaponCaps().Has(model.CapZaryte)
	ranged := l.Combatant.BoostedLevel(model.SkillRanged)
	maxHit := e.MaxHit(opt)

	bp := BoltProc{Bolt: l.Bolt, Chance: boltChance[l.Bolt], MaxHit: maxHit}
	if l.Combatant.HasBuff(model.BuffKandarinHard) {
		bp.Chance *= kandarinProcRatio
	}

	// share of the visible ranged level, ×1.1 with a zaryte crossbow
	share := func(num, den int) int {
		if zaryte {
			return ranged * num * 11 / (den * 10)
		}
		return ranged * num / den
	}

	switch l.Bolt {
	case model.BoltOpal:
		bp.Accurate = true
		bp.Bonus = share(1, 10)
	case model.BoltPearl:
		bp.Accurate = true
		if l.Fiery {
			bp.Bonus = share(1, 15)
		} else {
			bp.Bonus = share(1, 20)
		}
	case model.BoltRuby:
		bp.Accurate = true
		bp.rubyPercent, bp.rubyCap = 20, 100
		if zaryte {
			bp.rubyPercent, bp.rubyCap = 22, 110
		}
	case model.BoltDiamond:
		bp.Accurate = true
		if zaryte {
			bp.MaxHit = maxHit * 126 / 100
		} else {
			bp.MaxHit = maxHit * 115 / 100
		}
	case model.BoltDragonstone:
		if l.Fiery {
			return BoltProc{}, false
		}
		bp.Bonus = share(1, 5)
	case model.BoltOnyx:
		if l.Undead {
			return BoltProc{}, false
		}
		if zaryte {
			bp.MaxHit = maxHit * 132 / 100
		} else {
			bp.MaxHit = maxHit * 120 / 100
		}
	default:
		return BoltProc{}, false
	}
	return bp, true
}
