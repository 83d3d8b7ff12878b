package data

import (
	"cmp"
	"fmt"
	"io"
	"math"
	"slices"
	"strconv"

	"github.com/tidwall/gjson"

	"github.com/udisondev/dpscalc/internal/model"
)

// nestedItemObjects are flattened into the item's stat bags.
var nestedItemObjects = []string{"equipment", "weapon"}

// LoadItems reads an item catalog: an object keyed by item id (or an array)
// whose values carry integer, string and boolean fields plus the nested
// equipment and weapon objects. Items are returned sorted by id.
func LoadItems(r io.Reader) ([]*model.Item, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading items: %w", err)
	}
	return ParseItems(raw)
}

// ParseItems is LoadItems over an in-memory document.
func ParseItems(raw []byte) ([]*model.Item, error) {
	if !gjson.ValidBytes(raw) {
		return nil, fmt.Errorf("items: %w", ErrInvalidJSON)
	}

	var items []*model.Item
	gjson.ParseBytes(raw).ForEach(func(key, v gjson.Result) bool {
		if !v.IsObject() {
			return true
		}
		id, ok := itemID(key, v)
		if !ok {
			return true
		}
		it := model.NewItem(id, v.Get("name").String())
		copyFields(it, v)
		for _, nested := range nestedItemObjects {
			if obj := v.Get(nested); obj.IsObject() {
				copyFields(it, obj)
			}
		}
		if ms := v.Get("equipment.melee_strength"); ms.Exists() && !v.Get("equipment.strength_bonus").Exists() {
			it.SetInt("strength_bonus", int(ms.Int()))
		}
		items = append(items, it)
		return true
	})

	slices.SortFunc(items, func(a, b *model.Item) int { return cmp.Compare(a.ID(), b.ID()) })
	return items, nil
}

// itemID prefers the "id" field and falls back to the object key.
func itemID(key, v gjson.Result) (int, bool) {
	if id := v.Get("id"); id.Type == gjson.Number {
		return int(id.Int()), true
	}
	id, err := strconv.Atoi(key.String())
	return id, err == nil
}

// copyFields stores the scalar fields of obj. Fractional numbers (weights)
// and nested values are skipped.
func copyFields(it *model.Item, obj gjson.Result) {
	obj.ForEach(func(k, v gjson.Result) bool {
		key := k.String()
		if key == "id" || key == "name" {
			return true
		}
		switch v.Type {
		case gjson.Number:
			if v.Num == math.Trunc(v.Num) {
				it.SetInt(key, int(v.Int()))
			}
		case gjson.String:
			it.SetStr(key, v.String())
		case gjson.True, gjson.False:
			it.SetBool(key, v.Bool())
		}
		return true
	})
}
