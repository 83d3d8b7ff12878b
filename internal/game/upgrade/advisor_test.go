package upgrade

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/dpscalc/internal/game/combat"
	"github.com/udisondev/dpscalc/internal/model"
)

type memCatalog struct {
	items  []*model.Item
	quotes map[int]model.Quote
}

func (m *memCatalog) Items() []*model.Item { return m.items }

func (m *memCatalog) Quote(id int) (model.Quote, bool) {
	q, ok := m.quotes[id]
	return q, ok
}

// priced adds a tradeable item with a flat quote.
func (m *memCatalog) priced(it *model.Item, price int) *model.Item {
	it.SetBool("tradeable_on_ge", true).SetBool("equipable_by_player", true)
	m.items = append(m.items, it)
	if m.quotes == nil {
		m.quotes = make(map[int]model.Quote)
	}
	m.quotes[it.ID()] = model.Quote{High: price, Low: price}
	return it
}

func gear(id int, name, slot string) *model.Item {
	return model.NewItem(id, name).SetStr("slot", slot)
}

func whip() *model.Item {
	return gear(4151, "Abyssal whip", "weapon").
		SetInt("attack_speed", 4).
		SetInt("attack_slash", 82).
		SetInt("strength_bonus", 82).
		SetBool("equipable_by_player", true).
		SetBool("tradeable_on_ge", true)
}

func meleeCombatant(t *testing.T, items ...*model.Item) *model.Combatant {
	t.Helper()
	c := model.NewCombatant("tester")
	c.SetLevel(model.SkillAttack, 99)
	c.SetLevel(model.SkillStrength, 99)
	c.SetLevel(model.SkillHitpoints, 99)
	for _, it := range items {
		require.NoError(t, c.EquipItem(it))
	}
	return c
}

func target(hp int, tags ...string) *model.Target {
	tg := model.NewTarget("Training dummy").SetStat("hitpoints", hp)
	for _, tag := range tags {
		tg.AddTag(tag)
	}
	return tg
}

func meleeCatalog(base *model.Item) *memCatalog {
	cat := &memCatalog{}
	cat.priced(base, 1_500_000)
	cat.priced(gear(12006, "Abyssal tentacle", "weapon").
		SetInt("attack_speed", 4).SetInt("attack_slash", 90).SetInt("strength_bonus", 86), 2_000_000)
	cat.priced(gear(19553, "Amulet of torture", "neck").
		SetInt("attack_slash", 15).SetInt("strength_bonus", 10), 10_000_000)
	cat.priced(gear(11773, "Berserker ring (i)", "ring").SetInt("strength_bonus", 8), 3_000_000)
	cat.priced(gear(1205, "Bronze dagger", "weapon").
		SetInt("attack_speed", 4).SetInt("attack_stab", 4).SetInt("strength_bonus", 1), 50)
	return cat
}

func dpsOf(t *testing.T, c *model.Combatant, tg *model.Target, swap ...*model.Item) float64 {
	t.Helper()
	c = c.Clone()
	for _, it := range swap {
		require.NoError(t, c.EquipItem(it))
	}
	e, err := combat.NewEngine(c, tg)
	require.NoError(t, err)
	best, err := combat.Solve(e)
	require.NoError(t, err)
	return best.DPS
}

func byNames(suggestions []Suggestion) map[string]Suggestion {
	out := make(map[string]Suggestion, len(suggestions))
	for _, s := range suggestions {
		out[s.Names()] = s
	}
	return out
}

func TestSuggest_SingleSwaps(t *testing.T) {
	w := whip()
	c := meleeCombatant(t, w)
	tg := target(150)
	a := &Advisor{Combatant: c, Target: tg, Catalog: meleeCatalog(w), Workers: 2}

	got, err := a.Suggest(context.Background(), Options{})
	require.NoError(t, err)
	found := byNames(got)

	baseline := dpsOf(t, c, tg)
	tentacle, ok := found["Abyssal tentacle"]
	require.True(t, ok)
	assert.InDelta(t, baseline, tentacle.DPSBefore, 1e-12)
	assert.Greater(t, tentacle.DPSAfter, baseline+DefaultEpsilon)
	assert.InDelta(t, tentacle.DPSAfter-baseline, tentacle.DPSGain, 1e-12)
	assert.InDelta(t, tentacle.DPSGain/2_000_000*1_000_000, tentacle.Efficiency, 1e-9)
	assert.Equal(t, []string{"weapon"}, tentacle.Slots)
	assert.Equal(t, 2_000_000, tentacle.Price)

	assert.Contains(t, found, "Amulet of torture")
	assert.Contains(t, found, "Berserker ring (i)")
	assert.NotContains(t, found, "Abyssal whip", "already worn")
	assert.NotContains(t, found, "Bronze dagger", "never beats the whip")

	_, worn := c.Gear().Items()[model.SlotNeck]
	assert.False(t, worn, "advisor must not equip on the caller's combatant")
}

func TestSuggest_PairsAreStrictlySuperAdditive(t *testing.T) {
	w := whip()
	c := meleeCombatant(t, w)
	tg := target(150)
	cat := meleeCatalog(w)
	cat.priced(gear(2550, "Ring of nothing", "ring").SetInt("strength_bonus", 1), 1_000)

	got, err := (&Advisor{Combatant: c, Target: tg, Catalog: cat}).Suggest(context.Background(), Options{})
	require.NoError(t, err)

	baseline := dpsOf(t, c, tg)
	single := func(it *model.Item) float64 {
		dps := dpsOf(t, c, tg, it)
		if dps > baseline+DefaultEpsilon {
			return dps
		}
		return baseline
	}

	pairs := 0
	for _, s := range got {
		for _, it := range s.Items {
			assert.NotEqual(t, "Ring of nothing", it.Name(), "a swap that adds nothing is never suggested")
		}
		if !s.IsPair() {
			continue
		}
		pairs++
		best := max(single(s.Items[0]), single(s.Items[1]))
		assert.Greater(t, s.DPSAfter, best+DefaultEpsilon, s.Names())
	}
	assert.Positive(t, pairs)

	found := byNames(got)
	// slots pair up in paperdoll order: neck before weapon
	pair, ok := found["Amulet of torture + Abyssal tentacle"]
	require.True(t, ok)
	assert.Equal(t, 12_000_000, pair.Price)
	assert.Equal(t, []string{"neck", "weapon"}, pair.Slots)
}

func TestSuggest_SameResultForAnyWorkerCount(t *testing.T) {
	w := whip()
	c := meleeCombatant(t, w)
	tg := target(150)
	cat := meleeCatalog(w)

	run := func(workers int) []string {
		got, err := (&Advisor{Combatant: c, Target: tg, Catalog: cat, Workers: workers}).Suggest(context.Background(), Options{})
		require.NoError(t, err)
		out := make([]string, len(got))
		for i, s := range got {
			out[i] = s.Names()
		}
		return out
	}

	serial := run(1)
	require.NotEmpty(t, serial)
	assert.Equal(t, serial, run(8))
}

func TestPairPass_KeepsGenerationOrder(t *testing.T) {
	w := whip()
	c := meleeCombatant(t, w)
	tg := target(150)
	a := &Advisor{Combatant: c, Target: tg, Workers: 4}

	bySlot, _ := scan(meleeCatalog(w), c, Options{})
	var slots []model.Slot
	for _, slot := range model.Slots {
		if len(bySlot[slot]) > 0 {
			slots = append(slots, slot)
		}
	}

	baseline := dpsOf(t, c, tg)
	pairs, evaluated, err := a.pairPass(context.Background(), slots, bySlot, map[*candidate]float64{}, baseline, DefaultEpsilon)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, evaluated, len(pairs))
	require.NotEmpty(t, pairs)
	for i := 1; i < len(pairs); i++ {
		assert.Less(t, pairs[i-1].seq, pairs[i].seq)
	}
}

func TestSuggest_TwoHandedNeverPairsWithShield(t *testing.T) {
	scim := gear(4587, "Dragon scimitar", "weapon").
		SetInt("attack_speed", 4).SetInt("attack_slash", 67).SetInt("strength_bonus", 66)
	defender := gear(12954, "Dragon defender", "shield").SetInt("attack_slash", 24).SetInt("strength_bonus", 6)
	c := meleeCombatant(t, scim, defender)
	tg := target(300).SetSize(3)

	cat := &memCatalog{}
	cat.priced(gear(22325, "Scythe of vitur", "2h").
		SetInt("attack_speed", 5).SetInt("attack_slash", 125).SetInt("strength_bonus", 75), 900_000_000)
	avernic := gear(22322, "Avernic defender", "shield").
		SetInt("attack_slash", 29).SetInt("strength_bonus", 8).
		SetBool("equipable_by_player", true).
		SetPricedBy(22477)
	cat.items = append(cat.items, avernic)
	cat.quotes[22477] = model.Quote{High: 80_000_000, Low: 70_000_000}

	got, err := (&Advisor{Combatant: c, Target: tg, Catalog: cat}).Suggest(context.Background(), Options{})
	require.NoError(t, err)

	found := byNames(got)
	require.Contains(t, found, "Scythe of vitur")
	require.Contains(t, found, "Avernic defender")
	assert.Equal(t, 75_000_000, found["Avernic defender"].Price)
	for _, s := range got {
		assert.False(t, s.IsPair(), s.Names())
	}

	// the scythe was evaluated without the defender
	noShield := c.Clone()
	noShield.Unequip(model.SlotShield)
	assert.InDelta(t, dpsOf(t, noShield, tg, cat.items[0]), found["Scythe of vitur"].DPSAfter, 1e-12)
}

func TestSuggest_FixedPriceAndHiddenValue(t *testing.T) {
	w := whip()
	c := meleeCombatant(t, w)
	tg := target(150, model.TagUndead)

	cat := &memCatalog{quotes: map[int]model.Quote{}}
	salve := gear(12018, "Salve amulet(ei)", "neck").
		SetBool("equipable_by_player", true).
		SetFixedPrice(1)
	cat.items = append(cat.items, salve)

	got, err := (&Advisor{Combatant: c, Target: tg, Catalog: cat}).Suggest(context.Background(), Options{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 1, got[0].Price)
	assert.InDelta(t, got[0].DPSGain*1_000_000, got[0].Efficiency, 1e-6)
}

func TestSuggest_SortAndPriceCap(t *testing.T) {
	w := whip()
	c := meleeCombatant(t, w)
	tg := target(150)

	a := &Advisor{Combatant: c, Target: tg, Catalog: meleeCatalog(w)}

	byEff, err := a.Suggest(context.Background(), Options{SortBy: ByEfficiency})
	require.NoError(t, err)
	for i := 1; i < len(byEff); i++ {
		assert.GreaterOrEqual(t, byEff[i-1].Efficiency, byEff[i].Efficiency)
	}

	byGain, err := a.Suggest(context.Background(), Options{SortBy: ByGain})
	require.NoError(t, err)
	require.Len(t, byGain, len(byEff))
	for i := 1; i < len(byGain); i++ {
		assert.GreaterOrEqual(t, byGain[i-1].DPSGain, byGain[i].DPSGain)
	}

	capped, err := a.Suggest(context.Background(), Options{MaxPrice: 3_000_000})
	require.NoError(t, err)
	require.NotEmpty(t, capped)
	assert.Less(t, len(capped), len(byEff))
	for _, s := range capped {
		assert.LessOrEqual(t, s.Price, 3_000_000)
	}
}

func TestSuggest_Cancelled(t *testing.T) {
	w := whip()
	a := &Advisor{Combatant: meleeCombatant(t, w), Target: target(150), Catalog: meleeCatalog(w)}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := a.Suggest(ctx, Options{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSuggest_BaselineError(t *testing.T) {
	broken := gear(1, "Broken sword", "weapon").SetInt("attack_speed", 0)
	a := &Advisor{Combatant: meleeCombatant(t, broken), Target: target(10), Catalog: &memCatalog{}}

	_, err := a.Suggest(context.Background(), Options{})
	assert.ErrorIs(t, err, combat.ErrInvalidAttackSpeed)
}
