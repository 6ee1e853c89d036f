package stats

import "github.com/okian/iplstats/internal/domain/model"

// Result type labels.
const (
	ResultBattingFirst = "Won Batting First"
	ResultChasing      = "Won Chasing"
	ResultNoResult     = "Tie/No Result"
)

// Summary holds the headline counters.
type Summary struct {
	Matches int `json:"matches"`
	Runs    int `json:"runs"`
	Wickets int `json:"wickets"`
	Sixes   int `json:"sixes"`
	Fours   int `json:"fours"`
}

// Table implements Tabler.
func (s Summary) Table() Table {
	t := newTable("Metric", "Value")
	t.add("Matches", s.Matches)
	t.add("Runs", s.Runs)
	t.add("Wickets", s.Wickets)
	t.add("Sixes", s.Sixes)
	t.add("Fours", s.Fours)
	return t
}

// Summarize counts matches, runs, wickets and boundaries.
func Summarize(ds *model.Dataset) Summary {
	ds = orEmpty(ds)
	s := Summary{Matches: len(ds.Matches)}
	for _, d := range ds.Deliveries {
		s.Runs += d.TotalRuns
		if d.IsWicket() {
			s.Wickets++
		}
		switch d.BatsmanRuns {
		case 6:
			s.Sixes++
		case 4:
			s.Fours++
		}
	}
	return s
}

// MatchesPerSeason counts matches per season in season order.
func MatchesPerSeason(ds *model.Dataset) Ranking {
	ds = orEmpty(ds)
	t := tally{}
	for _, m := range ds.Matches {
		t.inc(m.Season)
	}
	return ranking("Season", "Matches", t.byKey())
}

// WinsByTeam counts decided matches per winner.
func WinsByTeam(ds *model.Dataset, limit int) Ranking {
	ds = orEmpty(ds)
	t := tally{}
	for _, m := range ds.Matches {
		t.inc(m.Winner)
	}
	return ranking("Team", "Wins", t.ranked(limit))
}

// TossDecisions counts bat versus field choices.
func TossDecisions(ds *model.Dataset) Ranking {
	ds = orEmpty(ds)
	t := tally{}
	for _, m := range ds.Matches {
		t.inc(m.TossDecision)
	}
	return ranking("Decision", "Count", t.ranked(0))
}

// ResultType classifies a match by its winning margin.
func ResultType(m model.Match) string {
	switch {
	case m.WinByRuns > 0:
		return ResultBattingFirst
	case m.WinByWickets > 0:
		return ResultChasing
	default:
		return ResultNoResult
	}
}

// ResultTypes counts matches per ResultType.
func ResultTypes(ds *model.Dataset) Ranking {
	ds = orEmpty(ds)
	t := tally{}
	for _, m := range ds.Matches {
		t.inc(ResultType(m))
	}
	return ranking("Type", "Count", t.ranked(0))
}

// TossImpact relates winning the toss to winning the match.
type TossImpact struct {
	Matches          int     `json:"matches"`
	WonAfterToss     int     `json:"won_after_toss"`
	LostAfterToss    int     `json:"lost_after_toss"`
	AdvantagePercent float64 `json:"advantage_percent"`
}

// Table implements Tabler.
func (ti TossImpact) Table() Table {
	t := newTable("Outcome", "Count")
	if ti.Matches == 0 {
		return t
	}
	t.add("Won after winning toss", ti.WonAfterToss)
	t.add("Lost after winning toss", ti.LostAfterToss)
	return t
}

// TossImpactOf counts matches the toss winner also won. Every other match,
// ties included, counts as lost after the toss.
func TossImpactOf(ds *model.Dataset) TossImpact {
	ds = orEmpty(ds)
	ti := TossImpact{Matches: len(ds.Matches)}
	for _, m := range ds.Matches {
		if m.HasWinner() && m.TossWinner == m.Winner {
			ti.WonAfterToss++
		}
	}
	ti.LostAfterToss = ti.Matches - ti.WonAfterToss
	ti.AdvantagePercent = Percentage(ti.WonAfterToss, ti.Matches)
	return ti
}
