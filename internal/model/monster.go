package model

import (
	"maps"
	"slices"
	"strings"
)

// Creature tags used by conditional multipliers.
const (
	TagDragon   = "dragon"
	TagDemon    = "demon"
	TagUndead   = "undead"
	TagKalphite = "kalphite"
	TagLeafy    = "leafy"
	TagFiery    = "fiery"
	TagShade    = "shade"
	// TagVampyre prefixes the tiered catalog tags vampyre1..vampyre3.
	TagVampyre = "vampyre"
)

// Target is the monster being attacked. Numeric attributes come from the
// monster catalog; current HP is the only state that changes during a fight.
type Target struct {
	name  string
	stats map[string]int
	strs  map[string]string
	tags  map[string]struct{}

	currentHP int
}

// NewTarget creates a target with no attributes.
func NewTarget(name string) *Target {
	return &Target{
		name:  name,
		stats: make(map[string]int),
		strs:  make(map[string]string),
		tags:  make(map[string]struct{}),
	}
}

// Name returns the monster name.
func (t *Target) Name() string { return t.name }

// Stat returns a numeric attribute, 0 if absent.
func (t *Target) Stat(key string) int { return t.stats[key] }

// HasStat reports whether a numeric attribute was loaded.
func (t *Target) HasStat(key string) bool {
	_, ok := t.stats[key]
	return ok
}

// SetStat sets a numeric attribute. Setting hitpoints resets current HP.
func (t *Target) SetStat(key string, v int) *Target {
	t.stats[key] = v
	if key == "hitpoints" {
		t.currentHP = v
	}
	return t
}

// Str returns a string attribute, "" if absent.
func (t *Target) Str(key string) string { return t.strs[key] }

// SetStr sets a string attribute.
func (t *Target) SetStr(key, v string) *Target {
	t.strs[key] = v
	return t
}

// AddTag marks the target with a creature category.
func (t *Target) AddTag(tag string) *Target {
	t.tags[strings.ToLower(tag)] = struct{}{}
	return t
}

// HasTag reports membership of a creature category.
func (t *Target) HasTag(tag string) bool {
	_, ok := t.tags[strings.ToLower(tag)]
	return ok
}

// HasTagPrefix reports whether any tag starts with prefix.
func (t *Target) HasTagPrefix(prefix string) bool {
	prefix = strings.ToLower(prefix)
	return slices.ContainsFunc(t.Tags(), func(tag string) bool {
		return strings.HasPrefix(tag, prefix)
	})
}

// Tags returns the creature categories.
func (t *Target) Tags() []string {
	out := make([]string, 0, len(t.tags))
	for tag := range t.tags {
		out = append(out, tag)
	}
	return out
}

// Size returns the size class, at least 1.
func (t *Target) Size() int {
	if s := t.stats["size"]; s > 1 {
		return s
	}
	return 1
}

// SetSize sets the size class.
func (t *Target) SetSize(size int) *Target { return t.SetStat("size", size) }

// MaxHP returns the hitpoints attribute.
func (t *Target) MaxHP() int { return t.stats["hitpoints"] }

// CurrentHP returns remaining hitpoints.
func (t *Target) CurrentHP() int { return t.currentHP }

// ResetHP restores current HP to maximum.
func (t *Target) ResetHP() { t.currentHP = t.stats["hitpoints"] }

// Damage subtracts dmg from current HP.
func (t *Target) Damage(dmg int) { t.currentHP -= dmg }

// IsDead reports whether current HP reached zero.
func (t *Target) IsDead() bool { return t.currentHP <= 0 }

// Clone returns an independent copy, used to give each trial worker its own HP.
func (t *Target) Clone() *Target {
	cp := *t
	cp.stats = maps.Clone(t.stats)
	cp.strs = maps.Clone(t.strs)
	cp.tags = maps.Clone(t.tags)
	return &cp
}
