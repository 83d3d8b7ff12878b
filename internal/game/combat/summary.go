package combat

// Summary is the battle result shown to the user.
type Summary struct {
	Result
	Target       string
	TTKSeconds   float64
	KillsPerHour float64
	Indicators   Indicators
}

// Summarize builds the battle summary for the solved option. The time to
// kill comes from the simulated trials when there are any, otherwise from
// target health over DPS.
func Summarize(e *Engine, best Result, stats TrialStats) Summary {
	s := Summary{
		Result:     best,
		Target:     e.l.Target.Name(),
		Indicators: e.l.Indicators(best.Option.Style),
	}
	switch {
	case len(stats.Ticks) > 0:
		s.TTKSeconds = stats.MeanSeconds()
	case best.DPS > 0:
		s.TTKSeconds = float64(e.l.Target.MaxHP()) / best.DPS
	}
	if s.TTKSeconds > 0 {
		s.KillsPerHour = 3600 / s.TTKSeconds
	}
	return s
}
