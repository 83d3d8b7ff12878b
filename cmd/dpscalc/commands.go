package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math/rand/v2"
	"strconv"
	"time"

	"github.com/udisondev/dpscalc/internal/db"
	"github.com/udisondev/dpscalc/internal/game/combat"
	"github.com/udisondev/dpscalc/internal/game/upgrade"
	"github.com/udisondev/dpscalc/internal/hiscores"
	"github.com/udisondev/dpscalc/internal/model"
	"github.com/udisondev/dpscalc/internal/report"
	"github.com/udisondev/dpscalc/internal/wikisync"
)

var timeNow = time.Now

func runCalc(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("calc", flag.ContinueOnError)
	var lf loadoutFlags
	lf.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	e, best, err := solve(ctx, a, &lf)
	if err != nil {
		return err
	}
	return report.Battle(a.out, combat.Summarize(e, best, combat.TrialStats{}))
}

func runSimulate(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("simulate", flag.ContinueOnError)
	var lf loadoutFlags
	lf.register(fs)
	trials := fs.Int("trials", a.cfg.Simulation.Trials, "number of kills to simulate")
	workers := fs.Int("workers", a.cfg.Simulation.Workers, "parallel workers (0 = GOMAXPROCS)")
	seed := fs.Uint64("seed", a.cfg.Simulation.Seed, "random seed (0 = random)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	e, best, err := solve(ctx, a, &lf)
	if err != nil {
		return err
	}

	rng := combat.NewRandom()
	if *seed != 0 {
		rng = rand.New(rand.NewPCG(*seed, *seed))
	}
	sim, err := combat.NewSimulator(e, best.Option, rng, a.cfg.Simulation.MaxTrialTicks)
	if err != nil {
		return err
	}

	start := time.Now()
	stats, err := sim.RunTrialsParallel(ctx, *trials, *workers)
	if err != nil {
		return fmt.Errorf("simulating: %w", err)
	}
	a.log.Debug("simulation done", "trials", *trials, "elapsed", time.Since(start).Round(time.Millisecond))

	if err := report.Battle(a.out, combat.Summarize(e, best, stats)); err != nil {
		return err
	}
	fmt.Fprintln(a.out)
	return report.Trials(a.out, stats)
}

func runUpgrades(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("upgrades", flag.ContinueOnError)
	var lf loadoutFlags
	lf.register(fs)
	uc := a.cfg.Upgrades
	maxPrice := fs.Int("max-price", uc.MaxPrice, "drop suggestions above this price (0 = no cap)")
	sortBy := fs.String("sort", uc.SortBy, "ranking: efficiency or gain")
	limit := fs.Int("limit", uc.Limit, "rows to print (0 = all)")
	noThrowables := fs.Bool("no-throwables", uc.ExcludeThrowables, "skip thrown weapons")
	noAmmo := fs.Bool("no-ammo", uc.ExcludeAmmo, "skip arrows and bolts")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var by upgrade.SortBy
	switch *sortBy {
	case "efficiency":
		by = upgrade.ByEfficiency
	case "gain":
		by = upgrade.ByGain
	default:
		return fmt.Errorf("-sort must be efficiency or gain, got %q", *sortBy)
	}

	e, baseline, err := solve(ctx, a, &lf)
	if err != nil {
		return err
	}
	l := e.Loadout()

	advisor := &upgrade.Advisor{
		Combatant: l.Combatant,
		Target:    l.Target,
		Catalog:   a.bundle.Catalog,
		Workers:   uc.Workers,
		Logger:    a.log,
	}
	start := time.Now()
	suggestions, err := advisor.Suggest(ctx, upgrade.Options{
		ExcludeThrowables: *noThrowables,
		ExcludeAmmo:       *noAmmo,
		MaxPrice:          *maxPrice,
		SortBy:            by,
		Epsilon:           uc.Epsilon,
	})
	if err != nil {
		return err
	}
	a.log.Info("upgrade search done",
		"target", l.Target.Name(),
		"baseline_dps", baseline.DPS,
		"suggestions", len(suggestions),
		"elapsed", time.Since(start).Round(time.Millisecond))

	run := db.UpgradeRun{
		Username:    l.Combatant.Name(),
		Target:      l.Target.Name(),
		BaselineDPS: baseline.DPS,
		Suggestions: make([]db.RunSuggestion, 0, len(suggestions)),
	}
	for _, s := range suggestions {
		run.Suggestions = append(run.Suggestions, db.RunSuggestion{
			Items:      s.Names(),
			Price:      s.Price,
			DPSGain:    s.DPSGain,
			Efficiency: s.Efficiency,
		})
	}
	if _, err := a.store.SaveUpgradeRun(ctx, run); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Baseline %.3f dps with %s against %s\n\n", baseline.DPS, baseline.Option, l.Target.Name())
	return report.Suggestions(a.out, suggestions, *limit)
}

func runFetch(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("fetch", flag.ContinueOnError)
	player := fs.String("player", "", "hiscores display name")
	useWikiSync := fs.Bool("wikisync", true, "read worn gear from the WikiSync plugin")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *player == "" {
		return errors.New("-player is required")
	}

	b, err := a.loadData(ctx)
	if err != nil {
		return err
	}

	hc := a.cfg.Hiscores
	levels, err := hiscores.NewClient(hc.BaseURL, time.Duration(hc.TimeoutMS)*time.Millisecond).Fetch(ctx, *player)
	if err != nil {
		return err
	}
	c := model.NewCombatant(*player)
	levels.Apply(c)
	snap := db.PlayerSnapshot{Username: *player, Skills: c.Levels(), Equipment: map[model.Slot]int{}}

	if *useWikiSync {
		wc := a.cfg.WikiSync
		client := &wikisync.Client{
			Host:      wc.Host,
			FirstPort: wc.FirstPort,
			LastPort:  wc.LastPort,
			Origin:    wc.Origin,
			Timeout:   time.Duration(wc.TimeoutMS) * time.Millisecond,
			Logger:    a.log,
		}
		p, err := client.FetchEquipment(ctx)
		switch {
		case errors.Is(err, wikisync.ErrNotRunning):
			a.log.Warn("wikisync not running, saving levels only", "err", err)
		case err != nil:
			return err
		default:
			if p.Username != "" && !equalFoldTrim(p.Username, *player) {
				a.log.Warn("wikisync is logged in as another player", "wikisync", p.Username, "player", *player)
			}
			snap.Equipment = p.Equipment
		}
	}

	if err := a.store.SavePlayer(ctx, snap); err != nil {
		return err
	}
	a.log.Info("player saved", "player", *player, "items", len(snap.Equipment))

	t := report.NewTable("skill", "level").AlignRight(1)
	for _, skill := range []model.Skill{
		model.SkillAttack, model.SkillStrength, model.SkillDefence,
		model.SkillRanged, model.SkillMagic, model.SkillHitpoints, model.SkillPrayer,
	} {
		t.Row(string(skill), strconv.Itoa(c.Level(skill)))
	}
	if _, err := t.WriteTo(a.out); err != nil {
		return err
	}
	if len(snap.Equipment) == 0 {
		return nil
	}

	fmt.Fprintln(a.out)
	gear := report.NewTable("slot", "item")
	for _, slot := range model.Slots {
		id, ok := snap.Equipment[slot]
		if !ok {
			continue
		}
		name := "#" + strconv.Itoa(id)
		if it, ok := b.Catalog.Item(id); ok {
			name = it.Name()
		}
		gear.Row(string(slot), name)
	}
	_, err = gear.WriteTo(a.out)
	return err
}

func runHistory(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("history", flag.ContinueOnError)
	limit := fs.Int("limit", 10, "runs to show")
	if err := fs.Parse(args); err != nil {
		return err
	}

	store, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	runs, err := store.RecentUpgradeRuns(ctx, *limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(a.out, "No upgrade searches yet.")
		return nil
	}

	t := report.NewTable("id", "when", "player", "target", "dps", "best upgrade").AlignRight(0, 4)
	for _, r := range runs {
		best := "-"
		if len(r.Suggestions) > 0 {
			s := r.Suggestions[0]
			best = fmt.Sprintf("%s (+%.3f, %s)", s.Items, s.DPSGain, report.GP(s.Price))
		}
		t.Row(
			strconv.FormatInt(r.ID, 10),
			r.CreatedAt.Format(time.DateTime),
			r.Username,
			r.Target,
			fmt.Sprintf("%.3f", r.BaselineDPS),
			best,
		)
	}
	_, err = t.WriteTo(a.out)
	return err
}

// solve builds the loadout and picks its best style.
func solve(ctx context.Context, a *app, lf *loadoutFlags) (*combat.Engine, combat.Result, error) {
	c, target, err := lf.build(ctx, a)
	if err != nil {
		return nil, combat.Result{}, err
	}
	e, err := combat.NewEngine(c, target)
	if err != nil {
		return nil, combat.Result{}, err
	}
	best, err := combat.Solve(e)
	if err != nil {
		return nil, combat.Result{}, err
	}
	a.log.Debug("solved",
		"player", c.Name(),
		"target", target.Name(),
		"option", best.Option.String(),
		"dps", best.DPS)
	return e, best, nil
}

func equalFoldTrim(a, b string) bool {
	return normalizeName(a) == normalizeName(b)
}
