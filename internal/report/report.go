package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/udisondev/dpscalc/internal/game/combat"
	"github.com/udisondev/dpscalc/internal/game/upgrade"
)

// Battle writes the solved option, DPS and time to kill of s.
func Battle(w io.Writer, s combat.Summary) error {
	t := NewTable("stat", "value")
	t.Row("Target", s.Target)
	t.Row("Style", s.Option.String())
	t.Row("Max hit", strconv.Itoa(s.MaxHit))
	t.Row("Hit chance", percent(s.HitChance))
	t.Row("Attack speed", fmt.Sprintf("%d ticks (%.1fs)", s.AttackSpeed, float64(s.AttackSpeed)*combat.TickSeconds))
	t.Row("DPS", fmt.Sprintf("%.3f", s.DPS))
	if s.TTKSeconds > 0 {
		t.Row("Time to kill", fmt.Sprintf("%.1fs", s.TTKSeconds))
		t.Row("Kills/hour", fmt.Sprintf("%.1f", s.KillsPerHour))
	}
	if active := Effects(s.Indicators); len(active) > 0 {
		t.Row("Effects", strings.Join(active, ", "))
	}
	_, err := t.WriteTo(w)
	return err
}

// Effects lists the active special effects in display order.
func Effects(in combat.Indicators) []string {
	var out []string
	add := func(on bool, name string) {
		if on {
			out = append(out, name)
		}
	}
	add(in.Fang, "double accuracy roll")
	add(in.Lance, "dragonbane")
	add(in.Crossbow, "dragonbane (ranged)")
	add(in.Arclight, "demonbane")
	add(in.Keris, "kalphitebane")
	add(in.Scythe, "multi-hit")
	add(in.Bow, "magic scaling")
	add(in.Salve, "undead amulet")
	add(in.OnTask, "slayer task")
	add(in.Vampyre, "vampyrebane")
	add(in.Shade, "shadebane")
	if gem := in.Bolt.String(); gem != "" {
		out = append(out, gem+" bolt effect")
	}
	if in.ActiveSet != "" {
		out = append(out, "set: "+in.ActiveSet)
	}
	return out
}

// Trials writes the simulated time-to-kill distribution in seconds.
func Trials(w io.Writer, st combat.TrialStats) error {
	t := NewTable("trials", "mean", "p50", "p90", "stddev").AlignRight(0, 1, 2, 3, 4)
	t.Row(
		humanize.Comma(int64(len(st.Ticks))),
		seconds(st.Mean),
		seconds(float64(st.P50)),
		seconds(float64(st.P90)),
		seconds(st.StdDev),
	)
	_, err := t.WriteTo(w)
	return err
}

// Suggestions writes up to limit ranked suggestions. limit <= 0 writes all.
func Suggestions(w io.Writer, list []upgrade.Suggestion, limit int) error {
	if len(list) == 0 {
		_, err := io.WriteString(w, "No upgrades found.\n")
		return err
	}
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}

	t := NewTable("#", "upgrade", "slots", "price", "dps", "gain", "dps/1M gp").AlignRight(0, 3, 4, 5, 6)
	for i, s := range list {
		t.Row(
			strconv.Itoa(i+1),
			s.Names(),
			strings.Join(s.Slots, "+"),
			GP(s.Price),
			fmt.Sprintf("%.3f", s.DPSAfter),
			fmt.Sprintf("+%.3f", s.DPSGain),
			fmt.Sprintf("%.4f", s.Efficiency),
		)
	}
	_, err := t.WriteTo(w)
	return err
}

// GP formats a coin amount with thousands separators.
func GP(amount int) string { return humanize.Comma(int64(amount)) + " gp" }

func percent(p float64) string { return fmt.Sprintf("%.2f%%", p*100) }

func seconds(ticks float64) string { return fmt.Sprintf("%.1fs", ticks*combat.TickSeconds) }
