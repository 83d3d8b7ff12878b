package upgrade

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/udisondev/dpscalc/internal/game/combat"
	"github.com/udisondev/dpscalc/internal/model"
)

// DefaultEpsilon suppresses floating-point noise in dps comparisons.
const DefaultEpsilon = 1e-3

// Options filter and order the search.
type Options struct {
	ExcludeThrowables bool
	ExcludeAmmo       bool
	MaxPrice          int // 0 means no cap
	SortBy            SortBy
	Epsilon           float64 // 0 means DefaultEpsilon
}

// Advisor searches a catalog for single and paired gear swaps that raise
// the combatant's solved DPS against the target. The combatant and target
// are never modified; every evaluation works on a clone.
type Advisor struct {
	Combatant *model.Combatant
	Target    *model.Target
	Catalog   Catalog
	Workers   int
	Logger    *slog.Logger
}

// Suggest runs the search:
//
//  1. solve the baseline loadout
//  2. scan the catalog into per-slot candidates
//  3. evaluate every candidate alone; keep those above baseline + epsilon
//  4. evaluate every cross-slot pair; keep those above the better of their
//     two single results + epsilon
//  5. rank and apply the price cap
func (a *Advisor) Suggest(ctx context.Context, opts Options) ([]Suggestion, error) {
	log := a.logger()
	eps := opts.Epsilon
	if eps <= 0 {
		eps = DefaultEpsilon
	}

	baseline, err := a.solve(nil)
	if err != nil {
		return nil, fmt.Errorf("solving baseline: %w", err)
	}

	bySlot, total := scan(a.Catalog, a.Combatant, opts)
	log.Debug("catalog scanned", "candidates", total, "slots", len(bySlot), "baseline_dps", baseline)

	var singles []*candidate
	var slots []model.Slot
	for _, slot := range model.Slots {
		if len(bySlot[slot]) == 0 {
			continue
		}
		slots = append(slots, slot)
		singles = append(singles, bySlot[slot]...)
	}

	singleDPS, err := a.evaluate(ctx, len(singles), func(i int) []*candidate {
		return []*candidate{singles[i]}
	})
	if err != nil {
		return nil, err
	}

	var out []Suggestion
	accepted := make(map[*candidate]float64)
	for i, dps := range singleDPS {
		if dps <= baseline+eps {
			continue
		}
		accepted[singles[i]] = dps
		s, err := newSuggestion([]*candidate{singles[i]}, baseline, dps)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	log.Debug("single swaps evaluated", "evaluated", len(singles), "accepted", len(out))

	pairs, evaluated, err := a.pairPass(ctx, slots, bySlot, accepted, baseline, eps)
	if err != nil {
		return nil, err
	}
	for _, p := range pairs {
		s, err := newSuggestion(p.swap[:], baseline, p.dps)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	log.Debug("paired swaps evaluated", "evaluated", evaluated, "accepted", len(pairs))

	Rank(out, opts.SortBy)
	return CapPrice(out, opts.MaxPrice), nil
}

func singleOrBaseline(accepted map[*candidate]float64, c *candidate, baseline float64) float64 {
	if dps, ok := accepted[c]; ok {
		return dps
	}
	return baseline
}

type pairResult struct {
	seq  int
	swap [2]*candidate
	dps  float64
}

// pairPass evaluates every cross-slot pair, generating them as workers free
// up so only accepted pairs are held in memory. A pair is kept when it beats
// the better of its two single results by more than eps. Results come back
// in generation order.
func (a *Advisor) pairPass(ctx context.Context, slots []model.Slot, bySlot map[model.Slot][]*candidate,
	accepted map[*candidate]float64, baseline, eps float64) ([]pairResult, int, error) {
	var (
		mu   sync.Mutex
		kept []pairResult
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.workers())

	seq := 0
produce:
	for i, slotA := range slots {
		for _, slotB := range slots[i+1:] {
			for _, ca := range bySlot[slotA] {
				for _, cb := range bySlot[slotB] {
					if gctx.Err() != nil {
						break produce
					}
					if ca.conflicts(cb) {
						continue
					}
					n := seq
					seq++
					g.Go(func() error {
						if err := gctx.Err(); err != nil {
							return err
						}
						swap := []*candidate{ca, cb}
						dps, err := a.solve(swap)
						if err != nil {
							a.logger().Debug("swap rejected", "items", names(swap), "error", err)
							return nil
						}
						best := max(singleOrBaseline(accepted, ca, baseline), singleOrBaseline(accepted, cb, baseline))
						if dps <= best+eps {
							return nil
						}
						mu.Lock()
						kept = append(kept, pairResult{seq: n, swap: [2]*candidate{ca, cb}, dps: dps})
						mu.Unlock()
						return nil
					})
				}
			}
		}
	}
	if err := g.Wait(); err != nil {
		return nil, seq, err
	}
	if err := ctx.Err(); err != nil {
		return nil, seq, err
	}

	slices.SortFunc(kept, func(x, y pairResult) int { return cmp.Compare(x.seq, y.seq) })
	return kept, seq, nil
}

// evaluate solves n loadouts on a bounded worker pool. Results are stored by
// index, so the output order never depends on scheduling. A loadout the
// engine rejects scores zero and is never accepted.
func (a *Advisor) evaluate(ctx context.Context, n int, swap func(i int) []*candidate) ([]float64, error) {
	out := make([]float64, n)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.workers())
	for i := range n {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			dps, err := a.solve(swap(i))
			if err != nil {
				a.logger().Debug("swap rejected", "items", names(swap(i)), "error", err)
				return nil
			}
			out[i] = dps
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// solve equips swap on a clone of the combatant and returns the best DPS.
func (a *Advisor) solve(swap []*candidate) (float64, error) {
	c := a.Combatant
	if len(swap) > 0 {
		c = c.Clone()
		for _, cand := range swap {
			if err := c.Equip(cand.slot, cand.item); err != nil {
				return 0, err
			}
		}
	}
	e, err := combat.NewEngine(c, a.Target)
	if err != nil {
		return 0, err
	}
	best, err := combat.Solve(e)
	if err != nil {
		return 0, err
	}
	return best.DPS, nil
}

func (a *Advisor) workers() int {
	if a.Workers > 0 {
		return a.Workers
	}
	return runtime.GOMAXPROCS(0)
}

func (a *Advisor) logger() *slog.Logger {
	if a.Logger != nil {
		return a.Logger
	}
	return slog.Default()
}

func names(cands []*candidate) []string {
	out := make([]string, len(cands))
	for i, c := range cands {
		out[i] = c.item.Name()
	}
	return out
}
