package stats

import (
	"sort"

	"github.com/okian/iplstats/internal/domain/model"
)

// Phase is a block of overs within an innings.
type Phase string

// Phases in game order.
const (
	Powerplay Phase = "Powerplay (1-6)"
	Middle    Phase = "Middle (7-15)"
	Death     Phase = "Death (16-20)"
)

// Boundaries on the zero-indexed over counter.
const (
	powerplayEnd = 6
	middleEnd    = 15
)

var phaseOrder = [...]Phase{Powerplay, Middle, Death}

// PhaseOf classifies a zero-indexed over.
func PhaseOf(over int) Phase {
	switch {
	case over < powerplayEnd:
		return Powerplay
	case over < middleEnd:
		return Middle
	default:
		return Death
	}
}

// OverStat aggregates every delivery bowled in one over number.
type OverStat struct {
	Over        int     `json:"over"`
	Runs        int     `json:"runs"`
	Wickets     int     `json:"wickets"`
	Balls       int     `json:"balls"`
	RunsPerBall float64 `json:"runs_per_ball"`
}

// OverStats is ordered by over.
type OverStats []OverStat

// Table implements Tabler.
func (o OverStats) Table() Table {
	t := newTable("Over", "Runs", "Wickets", "Balls", "Runs per Ball")
	for _, s := range o {
		t.add(s.Over, s.Runs, s.Wickets, s.Balls, round2(s.RunsPerBall))
	}
	return t
}

type bucket struct {
	runs, wickets, balls int
}

func (b *bucket) add(d model.Delivery) {
	b.runs += d.TotalRuns
	b.balls++
	if d.IsWicket() {
		b.wickets++
	}
}

func byOver(ds *model.Dataset) ([]int, map[int]*bucket) {
	buckets := map[int]*bucket{}
	for _, d := range ds.Deliveries {
		b, ok := buckets[d.Over]
		if !ok {
			b = &bucket{}
			buckets[d.Over] = b
		}
		b.add(d)
	}
	overs := make([]int, 0, len(buckets))
	for o := range buckets {
		overs = append(overs, o)
	}
	sort.Ints(overs)
	return overs, buckets
}

// OverStatsOf groups deliveries by over.
func OverStatsOf(ds *model.Dataset) OverStats {
	overs, buckets := byOver(orEmpty(ds))
	out := make(OverStats, 0, len(overs))
	for _, o := range overs {
		b := buckets[o]
		out = append(out, OverStat{
			Over:        o,
			Runs:        b.runs,
			Wickets:     b.wickets,
			Balls:       b.balls,
			RunsPerBall: Average(b.runs, b.balls),
		})
	}
	return out
}

// PhaseStat aggregates one phase.
type PhaseStat struct {
	Phase   Phase   `json:"phase"`
	Runs    int     `json:"runs"`
	Wickets int     `json:"wickets"`
	Balls   int     `json:"balls"`
	Economy float64 `json:"economy"`
}

// PhaseStats is in game order.
type PhaseStats []PhaseStat

// Table implements Tabler.
func (p PhaseStats) Table() Table {
	t := newTable("Phase", "Runs", "Wickets", "Balls", "Economy")
	for _, s := range p {
		t.add(string(s.Phase), s.Runs, s.Wickets, s.Balls, s.Economy)
	}
	return t
}

// PhaseStatsOf groups deliveries by phase. Economy is rounded to two
// decimals and phases without deliveries are omitted.
func PhaseStatsOf(ds *model.Dataset) PhaseStats {
	ds = orEmpty(ds)
	buckets := map[Phase]*bucket{}
	for _, d := range ds.Deliveries {
		p := PhaseOf(d.Over)
		b, ok := buckets[p]
		if !ok {
			b = &bucket{}
			buckets[p] = b
		}
		b.add(d)
	}
	out := PhaseStats{}
	for _, p := range phaseOrder {
		b, ok := buckets[p]
		if !ok {
			continue
		}
		out = append(out, PhaseStat{
			Phase:   p,
			Runs:    b.runs,
			Wickets: b.wickets,
			Balls:   b.balls,
			Economy: round2(Economy(b.runs, b.balls)),
		})
	}
	return out
}

// RunRatePoint is the cumulative run rate at the end of an over.
type RunRatePoint struct {
	Over            int     `json:"over"`
	CumulativeRuns  int     `json:"cumulative_runs"`
	CumulativeBalls int     `json:"cumulative_balls"`
	RunRate         float64 `json:"run_rate"`
}

// RunRates is ordered by over.
type RunRates []RunRatePoint

// Table implements Tabler.
func (r RunRates) Table() Table {
	t := newTable("Over", "Cumulative Runs", "Cumulative Balls", "Run Rate")
	for _, p := range r {
		t.add(p.Over, p.CumulativeRuns, p.CumulativeBalls, round2(p.RunRate))
	}
	return t
}

// RunRate accumulates runs and balls over by over and reports runs per six
// balls at each over boundary.
func RunRate(ds *model.Dataset) RunRates {
	overs, buckets := byOver(orEmpty(ds))
	out := make(RunRates, 0, len(overs))
	var runs, balls int
	for _, o := range overs {
		runs += buckets[o].runs
		balls += buckets[o].balls
		out = append(out, RunRatePoint{
			Over:            o,
			CumulativeRuns:  runs,
			CumulativeBalls: balls,
			RunRate:         Economy(runs, balls),
		})
	}
	return out
}
