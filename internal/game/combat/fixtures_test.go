package combat

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/udisondev/dpscalc/internal/model"
)

func weapon(id int, name string, speed int) *model.Item {
	return model.NewItem(id, name).
		SetStr("slot", "weapon").
		SetInt("attack_speed", speed).
		SetBool("equipable_by_player", true)
}

func armour(id int, name string, slot model.Slot) *model.Item {
	return model.NewItem(id, name).
		SetStr("slot", string(slot)).
		SetBool("equipable_by_player", true)
}

func whip() *model.Item {
	return weapon(4151, "Abyssal whip", 4).
		SetStr("weapon_type", "whip").
		SetInt("attack_slash", 82).
		SetInt("strength_bonus", 82)
}

func maxedMelee(t *testing.T, items ...*model.Item) *model.Combatant {
	t.Helper()
	c := model.NewCombatant("tester")
	c.SetLevel(model.SkillAttack, 99)
	c.SetLevel(model.SkillStrength, 99)
	c.SetLevel(model.SkillRanged, 99)
	c.SetLevel(model.SkillHitpoints, 99)
	for _, it := range items {
		require.NoError(t, c.EquipItem(it))
	}
	return c
}

func dummy(hp int, tags ...string) *model.Target {
	t := model.NewTarget("Training dummy").SetStat("hitpoints", hp)
	for _, tag := range tags {
		t.AddTag(tag)
	}
	return t
}

func engine(t *testing.T, c *model.Combatant, target *model.Target) *Engine {
	t.Helper()
	e, err := NewEngine(c, target)
	require.NoError(t, err)
	return e
}

func seeded(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

var (
	slashAggressive = Option{StyleSlash, StanceAggressive}
	stabAggressive  = Option{StyleStab, StanceAggressive}
	crushAggressive = Option{StyleCrush, StanceAggressive}
	rangedRapid     = Option{StyleRanged, StanceRapid}
)
