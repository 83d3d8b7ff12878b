package combat

// TickSeconds is the length of one game tick.
const TickSeconds = 0.6

// kerisCritFactor is the expected damage factor of a 1-in-51 triple hit.
const kerisCritFactor = float64(kerisCritRange+2) / kerisCritRange

// Result is the outcome of evaluating one option.
type Result struct {
	Option      Option
	DPS         float64
	MaxHit      int
	HitChance   float64
	AttackSpeed int
}

// ExpectedDamage returns the mean damage of one attack under opt: the sum
// over sub-hits of the damage range midpoint times the hit chance.
//
// The midpoint (lo+hi)/2 equals max/2 for every weapon except those with a
// clamped range, whose mean is the midpoint of the clamp. An enchanted bolt
// proc is weighed against a target at full health.
func (e *Engine) ExpectedDamage(opt Option) float64 {
	p := e.HitChance(opt)
	if bp, ok := e.BoltProc(opt); ok {
		lo, hi := e.DamageRange(e.MaxHit(opt))
		return bp.expected(p, float64(lo+hi)/2, e.l.Target.MaxHP())
	}
	var total float64
	for _, m := range e.SubHitMaxima(opt) {
		lo, hi := e.DamageRange(m)
		total += float64(lo+hi) / 2 * p
	}
	if e.l.KerisCritActive() {
		total *= kerisCritFactor
	}
	return total
}

// ExpectedDPS is the expected damage per attack over seconds per attack.
func (e *Engine) ExpectedDPS(opt Option) float64 {
	return e.ExpectedDamage(opt) / (float64(e.AttackSpeed(opt)) * TickSeconds)
}

// Evaluate computes the figures of opt without touching any state.
func (e *Engine) Evaluate(opt Option) Result {
	return Result{
		Option:      opt,
		DPS:         e.ExpectedDPS(opt),
		MaxHit:      e.MaxHit(opt),
		HitChance:   e.HitChance(opt),
		AttackSpeed: e.AttackSpeed(opt),
	}
}

// Solve evaluates every option the loadout allows and returns the one with
// the highest DPS. Ties keep the first option seen. A loadout that deals no
// expected damage with any option is a configuration error.
func Solve(e *Engine) (Result, error) {
	var best Result
	for i, opt := range e.l.Options() {
		r := e.Evaluate(opt)
		if i == 0 || r.DPS > best.DPS {
			best = r
		}
	}
	if best.DPS <= 0 {
		return best, configErrorf(ErrZeroDamage, "best option %s: max_hit=%d hit_chance=%.4f",
			best.Option, best.MaxHit, best.HitChance)
	}
	return best, nil
}
