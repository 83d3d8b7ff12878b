package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"strconv"
	"strings"

	"github.com/udisondev/dpscalc/internal/data"
	"github.com/udisondev/dpscalc/internal/db"
	"github.com/udisondev/dpscalc/internal/hiscores"
	"github.com/udisondev/dpscalc/internal/model"
)

// loadoutFlags describe the combatant and the target of a command.
type loadoutFlags struct {
	player  string
	levels  string
	gear    string
	buffs   string
	noDiary bool
	target  string
	hp      int
}

func (f *loadoutFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&f.player, "player", "", "start from the latest fetched snapshot of this player")
	fs.StringVar(&f.levels, "levels", "", "level overrides, e.g. attack=99,strength=99,ranged=90")
	fs.StringVar(&f.gear, "gear", "", "comma-separated item names or ids to wear")
	fs.StringVar(&f.buffs, "buffs", "", "active buffs: piety,rigour,super_combat,ranging,on_task,kandarin_hard")
	fs.BoolVar(&f.noDiary, "no-kandarin", false, "hard Kandarin diary not completed (lower bolt proc chance)")
	fs.StringVar(&f.target, "target", "", "monster name (exact or prefix)")
	fs.IntVar(&f.hp, "hp", 0, "current hitpoints (0 = full)")
}

// build assembles the combatant and target the flags describe.
func (f *loadoutFlags) build(ctx context.Context, a *app) (*model.Combatant, *model.Target, error) {
	if f.target == "" {
		return nil, nil, errors.New("-target is required")
	}
	b, err := a.loadData(ctx)
	if err != nil {
		return nil, nil, err
	}
	target, err := b.Bestiary.FindMonster(f.target)
	if err != nil {
		return nil, nil, err
	}
	if !target.HasStat("defence_level") {
		a.log.Warn("monster has no defence level, treating it as 0", "monster", target.Name())
	}

	c := model.NewCombatant("player")
	if f.player != "" {
		snap, err := a.store.LatestPlayer(ctx, f.player)
		if errors.Is(err, db.ErrNotFound) {
			return nil, nil, fmt.Errorf("%w; run dpscalc fetch -player %q first", err, f.player)
		}
		if err != nil {
			return nil, nil, err
		}
		if err := applySnapshot(c, snap, b.Catalog, a); err != nil {
			return nil, nil, err
		}
	}

	levels, err := parseLevels(f.levels)
	if err != nil {
		return nil, nil, err
	}
	for skill, lvl := range levels {
		c.SetLevel(skill, lvl)
	}

	items, err := resolveGear(b.Catalog, f.gear)
	if err != nil {
		return nil, nil, err
	}
	for _, it := range items {
		if err := c.EquipItem(it); err != nil {
			return nil, nil, err
		}
	}

	buffs, err := parseBuffs(f.buffs)
	if err != nil {
		return nil, nil, err
	}
	for _, buff := range buffs {
		c.SetBuff(buff, true)
	}
	if f.noDiary {
		c.SetBuff(model.BuffKandarinHard, false)
	}

	if f.hp > 0 {
		_, maxHP := c.HP()
		c.SetHP(min(f.hp, maxHP), maxHP)
	}
	return c, target, nil
}

// applySnapshot copies stored levels and worn items onto c. Item ids the
// catalog no longer knows are skipped.
func applySnapshot(c *model.Combatant, snap *db.PlayerSnapshot, cat *data.Catalog, a *app) error {
	c.SetName(snap.Username)
	hiscores.Levels(snap.Skills).Apply(c)
	for _, slot := range model.Slots {
		id, ok := snap.Equipment[slot]
		if !ok {
			continue
		}
		it, ok := cat.Item(id)
		if !ok {
			a.log.Warn("unknown item in snapshot", "player", snap.Username, "slot", slot, "id", id)
			continue
		}
		if err := c.Equip(slot, it); err != nil {
			return fmt.Errorf("equipping %q: %w", it.Name(), err)
		}
	}
	return nil
}

// parseLevels reads "skill=level" pairs. Skill names match case-insensitively.
func parseLevels(s string) (map[model.Skill]int, error) {
	out := make(map[model.Skill]int)
	for _, pair := range splitList(s) {
		name, value, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("level %q: expected skill=level", pair)
		}
		skill, ok := parseSkill(name)
		if !ok {
			return nil, fmt.Errorf("unknown skill %q", name)
		}
		lvl, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil || lvl < 1 || lvl > 120 {
			return nil, fmt.Errorf("level %q: must be a number between 1 and 120", pair)
		}
		out[skill] = lvl
	}
	return out, nil
}

func parseSkill(name string) (model.Skill, bool) {
	name = strings.TrimSpace(name)
	for _, skill := range model.HiscoreSkillOrder {
		if strings.EqualFold(string(skill), name) {
			return skill, true
		}
	}
	return "", false
}

func parseBuffs(s string) ([]model.Buff, error) {
	var out []model.Buff
	for _, name := range splitList(s) {
		b, ok := model.ParseBuff(strings.ToLower(name))
		if !ok {
			return nil, fmt.Errorf("unknown buff %q", name)
		}
		out = append(out, b)
	}
	return out, nil
}

// resolveGear looks up each entry as an item id first, then by name.
func resolveGear(cat *data.Catalog, s string) ([]*model.Item, error) {
	var out []*model.Item
	for _, entry := range splitList(s) {
		if id, err := strconv.Atoi(entry); err == nil {
			it, ok := cat.Item(id)
			if !ok {
				return nil, fmt.Errorf("%w: id %d", data.ErrItemNotFound, id)
			}
			out = append(out, it)
			continue
		}
		it, err := cat.ItemByName(entry)
		if err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// normalizeName folds case and the space/underscore/dash variants the
// hiscores accept for the same display name.
func normalizeName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer("_", " ", "-", " ").Replace(s)
}
