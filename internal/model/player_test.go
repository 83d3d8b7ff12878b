package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCombatant_Defaults(t *testing.T) {
	c := NewCombatant("Zezima")
	assert.Equal(t, 1, c.Level(SkillAttack))
	cur, max := c.HP()
	assert.Equal(t, 10, cur)
	assert.Equal(t, 10, max)

	c.SetLevel(SkillHitpoints, 99)
	cur, max = c.HP()
	assert.Equal(t, 99, cur)
	assert.Equal(t, 99, max)

	c.SetLevel(SkillStrength, 0)
	assert.Equal(t, 1, c.Level(SkillStrength), "non-positive levels read as 1")
}

func TestCombatant_BoostedLevel(t *testing.T) {
	c := NewCombatant("Zezima")
	c.SetLevel(SkillAttack, 99)
	c.SetLevel(SkillRanged, 99)
	assert.Equal(t, 99, c.BoostedLevel(SkillAttack))

	c.SetBuff(BuffSuperCombat, true)
	c.SetBuff(BuffRanging, true)
	assert.Equal(t, 118, c.BoostedLevel(SkillAttack)) // 99 + 5 + 14
	assert.Equal(t, 112, c.BoostedLevel(SkillRanged)) // 99 + 4 + 9
	assert.Equal(t, 1, c.BoostedLevel(SkillMagic))

	c.SetBuff(BuffSuperCombat, false)
	assert.Equal(t, 99, c.BoostedLevel(SkillAttack))
}

func TestCombatant_Buffs(t *testing.T) {
	c := NewCombatant("Zezima")
	assert.False(t, c.OnTask())
	assert.True(t, c.HasBuff(BuffKandarinHard))
	c.SetBuff(BuffOnTask, true)
	assert.True(t, c.OnTask())
	c.SetBuff(BuffKandarinHard, false)
	assert.False(t, c.HasBuff(BuffKandarinHard))
	assert.True(t, c.OnTask())

	for _, b := range []Buff{BuffPiety, BuffRigour, BuffSuperCombat, BuffRanging, BuffOnTask, BuffKandarinHard} {
		got, ok := ParseBuff(b.String())
		require.True(t, ok, b.String())
		assert.Equal(t, b, got)
	}
	_, ok := ParseBuff("augury")
	assert.False(t, ok)
}

func TestCombatant_EquipItem(t *testing.T) {
	c := NewCombatant("Zezima")
	whip := NewItem(4151, "Abyssal whip").SetStr("slot", "weapon").SetInt("attack_slash", 82)
	require.NoError(t, c.EquipItem(whip))

	assert.Same(t, whip, c.Equipped(SlotWeapon))
	assert.Equal(t, 82, c.EquipmentBonus("attack_slash"))

	assert.Error(t, c.EquipItem(NewItem(1, "No slot")))
	assert.Same(t, whip, c.Unequip(SlotWeapon))
}

func TestCombatant_CloneIsIndependent(t *testing.T) {
	c := NewCombatant("Zezima")
	c.SetLevel(SkillAttack, 99)
	require.NoError(t, c.EquipItem(NewItem(4151, "Abyssal whip").SetStr("slot", "weapon")))

	cp := c.Clone()
	cp.SetLevel(SkillAttack, 50)
	cp.Unequip(SlotWeapon)
	cp.SetHP(1, 10)

	assert.Equal(t, 99, c.Level(SkillAttack))
	assert.NotNil(t, c.Equipped(SlotWeapon))
	cur, _ := c.HP()
	assert.Equal(t, 10, cur)
	assert.Equal(t, map[Skill]int{SkillAttack: 99}, c.Levels())
}

func TestCombatant_ActiveSet(t *testing.T) {
	wear := func(c *Combatant, slot, name string) {
		require.NoError(t, c.EquipItem(NewItem(0, name).SetStr("slot", slot)))
	}

	c := NewCombatant("Zezima")
	wear(c, "head", "Void melee helm")
	wear(c, "body", "Elite void top")
	wear(c, "legs", "Void knight robe")
	assert.Empty(t, c.ActiveSet())
	wear(c, "hands", "Void knight gloves")
	assert.Equal(t, SetVoidMelee, c.ActiveSet())

	inq := NewCombatant("Zezima")
	wear(inq, "head", "Inquisitor's great helm")
	wear(inq, "legs", "Inquisitor's plateskirt")
	assert.Empty(t, inq.ActiveSet())
	assert.Equal(t, 2, inq.SetPieces(SetInquisitor))
	assert.Zero(t, inq.SetPieces("Unknown"))
}
