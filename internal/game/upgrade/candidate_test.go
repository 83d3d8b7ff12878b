package upgrade

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/dpscalc/internal/game/combat"
	"github.com/udisondev/dpscalc/internal/model"
)

func TestScan_Filters(t *testing.T) {
	cat := &memCatalog{}
	cat.priced(gear(11212, "Dragon arrow", "ammo").SetInt("ranged_strength", 60), 1_000)
	cat.priced(gear(21944, "Ruby dragon bolts (e)", "ammo").SetInt("ranged_strength", 122), 2_000)
	cat.priced(gear(868, "Rune knife", "weapon").SetInt("attack_ranged", 25).SetInt("attack_speed", 3), 300)
	cat.priced(gear(11959, "Black chinchompa", "2h").SetInt("attack_ranged", 85).SetInt("attack_speed", 4), 1_500)
	cat.priced(gear(6570, "Fire cape", "cape").SetInt("strength_bonus", 4), 0)
	cat.priced(gear(995, "Coins", "").SetInt("strength_bonus", 1), 1)
	untradeable := gear(21295, "Infernal cape", "cape").SetInt("strength_bonus", 8).SetBool("equipable_by_player", true)
	cat.items = append(cat.items, untradeable)
	notWearable := gear(2, "Cannonball", "ammo").SetInt("ranged_strength", 5).SetBool("tradeable_on_ge", true)
	cat.items = append(cat.items, notWearable)

	c := model.NewCombatant("tester")

	all, total := scan(cat, c, Options{})
	assert.Equal(t, 4, total)
	assert.Len(t, all[model.SlotAmmo], 2)
	assert.Len(t, all[model.SlotWeapon], 2)
	assert.Empty(t, all[model.SlotCape], "no price and untradeable")

	noAmmo, total := scan(cat, c, Options{ExcludeAmmo: true})
	assert.Equal(t, 2, total)
	assert.Empty(t, noAmmo[model.SlotAmmo])

	noThrown, total := scan(cat, c, Options{ExcludeThrowables: true})
	assert.Equal(t, 2, total)
	assert.Empty(t, noThrown[model.SlotWeapon])

	weapon := noAmmo[model.SlotWeapon]
	require.Len(t, weapon, 2)
	assert.Equal(t, "2h", weapon[1].rawSlot)
}

func TestIsPotentialUpgrade(t *testing.T) {
	worn := gear(1, "Worn", "weapon").SetInt("attack_slash", 80).SetInt("strength_bonus", 80)

	tests := []struct {
		name string
		cand *model.Item
		want bool
	}{
		{"better strength", gear(2, "Strong", "weapon").SetInt("strength_bonus", 81), true},
		{"better ranged", gear(3, "Bow", "2h").SetInt("attack_ranged", 1), true},
		{"worse everywhere", gear(4, "Weak", "weapon").SetInt("attack_slash", 10), false},
		{"defence only", gear(5, "Shield-ish", "weapon").SetInt("defence_slash", 100), false},
		{"hidden value", gear(6, "Dragon hunter lance", "weapon"), true},
		{"undead amulet", gear(7, "Salve amulet", "neck"), true},
		{"enchanted bolts", gear(9, "Ruby bolts (e)", "ammo"), true},
		{"plain bolts", gear(10, "Runite bolts", "ammo"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isPotentialUpgrade(tt.cand, worn))
		})
	}

	assert.True(t, isPotentialUpgrade(gear(8, "Anything", "ring").SetInt("strength_bonus", 1), nil))
}

func TestResolvePrice(t *testing.T) {
	cat := &memCatalog{quotes: map[int]model.Quote{
		100: {High: 10, Low: 20},
		200: {High: 0, Low: 7},
		300: {High: 9, Low: 0},
	}}

	assert.Equal(t, 15, resolvePrice(cat, model.NewItem(100, "both sides")))
	assert.Equal(t, 7, resolvePrice(cat, model.NewItem(200, "low only")))
	assert.Equal(t, 9, resolvePrice(cat, model.NewItem(400, "proxy").SetPricedBy(300)))
	assert.Equal(t, 1, resolvePrice(cat, model.NewItem(100, "fixed").SetFixedPrice(1)))
	assert.Equal(t, 42, resolvePrice(cat, model.NewItem(500, "load time").SetPrice(42)))
	assert.Equal(t, 0, resolvePrice(cat, model.NewItem(600, "unknown")))
}

func TestEfficiency(t *testing.T) {
	eff, err := Efficiency(0.5, 2_000_000)
	require.NoError(t, err)
	assert.InDelta(t, 0.25, eff, 1e-12)

	for _, price := range []int{0, -5} {
		_, err := Efficiency(0.5, price)
		assert.ErrorIs(t, err, ErrNonPositivePrice)

		var cfgErr *combat.ConfigError
		require.ErrorAs(t, err, &cfgErr)
		assert.Contains(t, cfgErr.Detail, "price=")
	}
}

func TestRankAndCapPrice(t *testing.T) {
	list := []Suggestion{
		{Price: 100, DPSGain: 1, Efficiency: 10},
		{Price: 5, DPSGain: 0.1, Efficiency: 20},
		{Price: 50, DPSGain: 1, Efficiency: 20},
	}

	Rank(list, ByEfficiency)
	assert.Equal(t, []int{5, 50, 100}, prices(list), "stable on ties")

	Rank(list, ByGain)
	assert.Equal(t, []int{50, 100, 5}, prices(list))

	assert.Equal(t, []int{50, 5}, prices(CapPrice(list, 60)))
	assert.Len(t, CapPrice([]Suggestion{{Price: 1}}, 0), 1)
}

func prices(list []Suggestion) []int {
	out := make([]int, len(list))
	for i, s := range list {
		out[i] = s.Price
	}
	return out
}
