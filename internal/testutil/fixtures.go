package testutil

import (
	"strconv"
	"strings"

	"github.com/udisondev/dpscalc/internal/model"
)

// HiscoresCSV returns a hiscores response with every skill at level and
// the Overall row first.
func HiscoresCSV(level int) string {
	var b strings.Builder
	for i := range model.HiscoreSkillOrder {
		lvl := level
		if i == 0 {
			lvl = level * (len(model.HiscoreSkillOrder) - 1)
		}
		b.WriteString("1," + strconv.Itoa(lvl) + ",13034431\n")
	}
	return b.String()
}

// GetPlayerReply is a WikiSync GetPlayer message wearing the given items.
func GetPlayerReply(equipment map[model.Slot]int) string {
	var b strings.Builder
	b.WriteString(`{"_wsType":"GetPlayer","payload":{"loadouts":[{"equipment":{`)
	first := true
	for _, slot := range model.Slots {
		id, ok := equipment[slot]
		if !ok {
			continue
		}
		if !first {
			b.WriteByte(',')
		}
		first = false
		b.WriteString(`"` + string(slot) + `":{"id":` + strconv.Itoa(id) + `}`)
	}
	b.WriteString(`}}]}}`)
	return b.String()
}
