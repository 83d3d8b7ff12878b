package combat

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"runtime"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/udisondev/dpscalc/internal/model"
)

// DefaultMaxTrialTicks bounds a single trial when the caller passes no cap.
const DefaultMaxTrialTicks = 1_000_000

// NewRandom returns a PCG source seeded from the runtime entropy source.
func NewRandom() *rand.Rand {
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

type hitRange struct{ lo, hi int }

// Simulator runs time-to-kill trials for one option against its own copy of
// the target. It owns its random source and is not safe for concurrent use;
// RunTrialsParallel forks one simulator per worker.
type Simulator struct {
	engine   *Engine
	opt      Option
	rng      *rand.Rand
	target   *model.Target
	maxTicks int

	speed  int
	chance float64
	hits   []hitRange
	crit   bool
	bolt   *BoltProc
}

// NewSimulator prepares trials of opt. A configuration with zero expected
// damage would never kill the target and is rejected.
func NewSimulator(e *Engine, opt Option, rng *rand.Rand, maxTicks int) (*Simulator, error) {
	if !opt.Valid() {
		return nil, configErrorf(ErrInvalidOption, "%s", opt)
	}
	if e.ExpectedDamage(opt) <= 0 {
		return nil, configErrorf(ErrZeroDamage, "%s: max_hit=%d hit_chance=%.4f",
			opt, e.MaxHit(opt), e.HitChance(opt))
	}
	if rng == nil {
		rng = NewRandom()
	}
	if maxTicks <= 0 {
		maxTicks = DefaultMaxTrialTicks
	}

	s := &Simulator{
		engine:   e,
		opt:      opt,
		rng:      rng,
		target:   e.l.Target.Clone(),
		maxTicks: maxTicks,
		speed:    e.AttackSpeed(opt),
		chance:   e.HitChance(opt),
		crit:     e.l.KerisCritActive(),
	}
	for _, m := range e.SubHitMaxima(opt) {
		lo, hi := e.DamageRange(m)
		s.hits = append(s.hits, hitRange{lo, hi})
	}
	if bp, ok := e.BoltProc(opt); ok {
		s.bolt = &bp
	}
	return s, nil
}

// fork returns a simulator sharing the precomputed figures but with its own
// random source and target.
func (s *Simulator) fork(rng *rand.Rand) *Simulator {
	c := *s
	c.rng = rng
	c.target = s.target.Clone()
	return &c
}

// RunTrial fights the target from full health and returns the elapsed ticks.
func (s *Simulator) RunTrial() (int, error) {
	s.target.ResetHP()
	ticks := 0
	for !s.target.IsDead() {
		if ticks >= s.maxTicks {
			return ticks, configErrorf(ErrTrialCap, "%s: %d ticks, target %q at %d/%d hp",
				s.opt, ticks, s.target.Name(), s.target.CurrentHP(), s.target.MaxHP())
		}
		ticks += s.speed
		s.attack()
	}
	return ticks, nil
}

// attack resolves one attack. Later sub-hits are skipped once the target dies.
func (s *Simulator) attack() {
	if s.bolt != nil {
		s.boltAttack()
		return
	}
	for i, h := range s.hits {
		if i > 0 && s.target.IsDead() {
			return
		}
		if s.rng.Float64() >= s.chance {
			continue
		}
		dmg := h.lo + s.rng.IntN(h.hi-h.lo+1)
		if s.crit && s.rng.IntN(kerisCritRange)+1 == kerisCritRange {
			dmg *= 3
		}
		s.target.Damage(dmg)
	}
}

// boltAttack resolves a crossbow attack with an enchanted bolt. The proc is
// rolled first; procs that land regardless of accuracy skip the hit roll.
func (s *Simulator) boltAttack() {
	b := s.bolt
	proc := s.rng.Float64() < b.Chance
	if !(proc && b.Accurate) && s.rng.Float64() >= s.chance {
		return
	}
	if proc {
		s.target.Damage(b.roll(s.rng, s.target.CurrentHP()))
		return
	}
	h := s.hits[0]
	s.target.Damage(h.lo + s.rng.IntN(h.hi-h.lo+1))
}

// RunTrials runs n sequential trials on the simulator's own random stream.
func (s *Simulator) RunTrials(n int) (TrialStats, error) {
	if n <= 0 {
		return TrialStats{}, configErrorf(ErrInvalidTrials, "n=%d", n)
	}
	ticks := make([]int, 0, n)
	for range n {
		t, err := s.RunTrial()
		if err != nil {
			return TrialStats{}, err
		}
		ticks = append(ticks, t)
	}
	return NewTrialStats(ticks), nil
}

// RunTrialsParallel splits n trials across workers. Worker seeds are drawn
// from the simulator's stream before any worker starts, so a seeded parent
// gives reproducible results for a fixed worker count.
func (s *Simulator) RunTrialsParallel(ctx context.Context, n, workers int) (TrialStats, error) {
	if n <= 0 {
		return TrialStats{}, configErrorf(ErrInvalidTrials, "n=%d", n)
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	workers = min(workers, n)

	forks := make([]*Simulator, workers)
	for i := range forks {
		forks[i] = s.fork(rand.New(rand.NewPCG(s.rng.Uint64(), s.rng.Uint64())))
	}

	results := make([][]int, workers)
	g, gctx := errgroup.WithContext(ctx)
	for w := range workers {
		share := n / workers
		if w < n%workers {
			share++
		}
		g.Go(func() error {
			sim := forks[w]
			out := make([]int, 0, share)
			for range share {
				if err := gctx.Err(); err != nil {
					return err
				}
				t, err := sim.RunTrial()
				if err != nil {
					return fmt.Errorf("worker %d: %w", w, err)
				}
				out = append(out, t)
			}
			results[w] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return TrialStats{}, err
	}

	return NewTrialStats(slices.Concat(results...)), nil
}

// TrialStats summarizes a batch of trials.
type TrialStats struct {
	Mean   float64
	Ticks  []int // sorted ascending
	P50    int
	P90    int
	StdDev float64
}

// NewTrialStats sorts ticks in place and computes the summary.
func NewTrialStats(ticks []int) TrialStats {
	slices.Sort(ticks)
	st := TrialStats{Ticks: ticks}
	if len(ticks) == 0 {
		return st
	}

	var sum float64
	for _, t := range ticks {
		sum += float64(t)
	}
	st.Mean = sum / float64(len(ticks))

	var sq float64
	for _, t := range ticks {
		d := float64(t) - st.Mean
		sq += d * d
	}
	st.StdDev = math.Sqrt(sq / float64(len(ticks)))
	st.P50 = percentile(ticks, 0.50)
	st.P90 = percentile(ticks, 0.90)
	return st
}

// MeanSeconds converts the mean tick count to seconds.
func (st TrialStats) MeanSeconds() float64 { return st.Mean * TickSeconds }

// percentile uses the nearest-rank method on sorted data.
func percentile(sorted []int, p float64) int {
	idx := int(math.Ceil(p*float64(len(sorted)))) - 1
	return sorted[max(idx, 0)]
}
