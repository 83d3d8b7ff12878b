package data

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/udisondev/dpscalc/internal/model"
)

// ErrMonsterNotFound is returned when no loaded monster matches a name.
var ErrMonsterNotFound = errors.New("monster not found")

// Bestiary holds the monsters of a catalog in file order.
type Bestiary struct {
	monsters []*model.Target
}

// LoadMonsters reads a monster catalog, either an array or an object keyed
// by id. Integer fields become stats, the "attributes" array becomes tags.
func LoadMonsters(r io.Reader) (*Bestiary, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading monsters: %w", err)
	}
	return ParseMonsters(raw)
}

// ParseMonsters is LoadMonsters over an in-memory document.
func ParseMonsters(raw []byte) (*Bestiary, error) {
	if !gjson.ValidBytes(raw) {
		return nil, fmt.Errorf("monsters: %w", ErrInvalidJSON)
	}

	b := &Bestiary{}
	gjson.ParseBytes(raw).ForEach(func(_, v gjson.Result) bool {
		if v.IsObject() {
			b.monsters = append(b.monsters, parseMonster(v))
		}
		return true
	})
	return b, nil
}

func parseMonster(v gjson.Result) *model.Target {
	t := model.NewTarget(v.Get("name").String())
	v.ForEach(func(k, f gjson.Result) bool {
		key := k.String()
		switch {
		case key == "attributes" && f.IsArray():
			f.ForEach(func(_, attr gjson.Result) bool {
				if attr.Type == gjson.String {
					t.AddTag(attr.String())
				}
				return true
			})
		case key == "name":
		case f.Type == gjson.Number && f.Num == math.Trunc(f.Num):
			t.SetStat(key, int(f.Int()))
		case f.Type == gjson.String:
			t.SetStr(key, f.String())
		}
		return true
	})
	return t
}

// Len returns the number of monsters loaded.
func (b *Bestiary) Len() int { return len(b.monsters) }

// FindMonster returns a copy of the monster called name. An exact name wins
// over a prefix match; entries without hitpoints are skipped either way.
func (b *Bestiary) FindMonster(name string) (*model.Target, error) {
	var prefix *model.Target
	for _, m := range b.monsters {
		if m.Stat("hitpoints") <= 0 {
			continue
		}
		switch {
		case m.Name() == name:
			return m.Clone(), nil
		case prefix == nil && strings.HasPrefix(m.Name(), name):
			prefix = m
		}
	}
	if prefix != nil {
		return prefix.Clone(), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrMonsterNotFound, name)
}
