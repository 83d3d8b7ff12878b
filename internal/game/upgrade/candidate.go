package upgrade

import (
	"slices"
	"strings"

	"github.com/udisondev/dpscalc/internal/model"
)

// Catalog provides the items to scan and their market quotes. The advisor
// only reads from it.
type Catalog interface {
	Items() []*model.Item
	Quote(id int) (model.Quote, bool)
}

// offensiveStats are compared by the pre-filter.
var offensiveStats = []string{
	"strength_bonus", "melee_strength",
	"attack_stab", "attack_slash", "attack_crush",
	"attack_ranged", "ranged_strength",
}

var (
	throwableNames = []string{"knife", "dart", "javelin", "thrownaxe", "chinchompa", "toktz-xil-ul"}
	ammoNames      = []string{"bolt", "arrow"}
)

type candidate struct {
	item    *model.Item
	price   int
	slot    model.Slot
	rawSlot string
}

// conflicts reports a two-handed weapon paired with a shield.
func (c *candidate) conflicts(o *candidate) bool {
	return (c.item.IsTwoHanded() && o.slot == model.SlotShield) ||
		(o.item.IsTwoHanded() && c.slot == model.SlotShield)
}

// isPotentialUpgrade passes items that beat the worn item on any offensive
// stat, and items whose value never shows in raw stats: special weapons and
// enchanted bolts of another gem.
func isPotentialUpgrade(cand, current *model.Item) bool {
	if cand.Capabilities().HasHiddenValue() || cand.Bolt() != current.Bolt() {
		return true
	}
	for _, stat := range offensiveStats {
		if cand.Int(stat) > current.Int(stat) {
			return true
		}
	}
	return false
}

func containsAny(s string, subs []string) bool {
	return slices.ContainsFunc(subs, func(sub string) bool {
		return strings.Contains(s, sub)
	})
}

// resolvePrice: fixed override → price of the priced-by component → mid of
// the item's own quote → price attached at load time.
func resolvePrice(cat Catalog, it *model.Item) int {
	if p := it.FixedPrice(); p > 0 {
		return p
	}
	id := it.ID()
	if proxy := it.PricedBy(); proxy > 0 {
		id = proxy
	}
	if q, ok := cat.Quote(id); ok {
		return q.Mid()
	}
	return it.Price()
}

// scan returns the candidates for c grouped by slot and their total count.
func scan(cat Catalog, c *model.Combatant, opts Options) (map[model.Slot][]*candidate, int) {
	bySlot := make(map[model.Slot][]*candidate)
	total := 0
	for _, it := range cat.Items() {
		if !it.IsEquipable() {
			continue
		}
		if !it.IsTradeable() && !it.HasPriceOverride() {
			continue
		}

		name := strings.ToLower(it.Name())
		if opts.ExcludeThrowables && containsAny(name, throwableNames) {
			continue
		}
		if opts.ExcludeAmmo && containsAny(name, ammoNames) {
			continue
		}

		slot := it.NormalizedSlot()
		if slot == "" {
			continue
		}
		current := c.Equipped(slot)
		if current != nil && current.ID() == it.ID() {
			continue
		}
		if !isPotentialUpgrade(it, current) {
			continue
		}

		price := resolvePrice(cat, it)
		if price <= 0 {
			continue
		}
		bySlot[slot] = append(bySlot[slot], &candidate{
			item:    it,
			price:   price,
			slot:    slot,
			rawSlot: it.Slot(),
		})
		total++
	}
	return bySlot, total
}
