package combat

import "fmt"

// Style is the damage category of an attack.
type Style string

const (
	StyleStab   Style = "stab"
	StyleSlash  Style = "slash"
	StyleCrush  Style = "crush"
	StyleRanged Style = "ranged"
)

// IsMelee reports whether the style uses melee formulas.
func (s Style) IsMelee() bool {
	return s == StyleStab || s == StyleSlash || s == StyleCrush
}

// Stance is a sub-choice within a style.
type Stance string

const (
	StanceAccurate   Stance = "accurate"
	StanceAggressive Stance = "aggressive"
	StanceDefensive  Stance = "defensive"
	StanceRapid      Stance = "rapid"
	StanceLongrange  Stance = "longrange"
)

// Option is one style/stance pair. Exactly one is active per evaluation.
type Option struct {
	Style  Style
	Stance Stance
}

func (o Option) String() string {
	return fmt.Sprintf("%s (%s)", o.Style, o.Stance)
}

// Valid reports whether the stance is allowed for the style.
func (o Option) Valid() bool {
	switch o.Style {
	case StyleStab, StyleSlash, StyleCrush:
		return o.Stance == StanceAccurate || o.Stance == StanceAggressive || o.Stance == StanceDefensive
	case StyleRanged:
		return o.Stance == StanceAccurate || o.Stance == StanceRapid || o.Stance == StanceLongrange
	default:
		return false
	}
}

// stanceBonus returns the invisible level bonuses of a stance.
func (o Option) stanceBonus() (attack, strength int) {
	switch o.Stance {
	case StanceAccurate:
		if o.Style == StyleRanged {
			return 3, 3
		}
		return 3, 0
	case StanceAggressive:
		return 0, 3
	default:
		return 0, 0
	}
}

// speedDelta returns the attack speed change of a stance in ticks.
func (o Option) speedDelta() int {
	if o.Style == StyleRanged && o.Stance == StanceRapid {
		return -1
	}
	return 0
}

// meleeOptions are evaluated in this order; ties keep the first seen.
var meleeOptions = []Option{
	{StyleStab, StanceAccurate}, {StyleStab, StanceAggressive},
	{StyleSlash, StanceAccurate}, {StyleSlash, StanceAggressive},
	{StyleCrush, StanceAccurate}, {StyleCrush, StanceAggressive},
}

var rangedOptions = []Option{
	{StyleRanged, StanceAccurate},
	{StyleRanged, StanceRapid},
	{StyleRanged, StanceLongrange},
}
