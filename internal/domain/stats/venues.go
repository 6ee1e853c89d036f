package stats

import (
	"sort"

	"github.com/okian/iplstats/internal/domain/model"
)

// VenueMatches counts matches hosted per venue.
func VenueMatches(ds *model.Dataset, limit int) Ranking {
	ds = orEmpty(ds)
	t := tally{}
	for _, m := range ds.Matches {
		t.inc(m.Venue)
	}
	return ranking("Venue", "Matches", t.ranked(limit))
}

// VenueScore is the mean first-innings total at a venue.
type VenueScore struct {
	Venue   string  `json:"venue"`
	Matches int     `json:"matches"`
	Average float64 `json:"average"`
}

// VenueScores is a ranked list of VenueScore.
type VenueScores []VenueScore

// Table implements Tabler.
func (v VenueScores) Table() Table {
	t := newTable("Venue", "Matches", "Average First Innings")
	for _, s := range v {
		t.add(s.Venue, s.Matches, round2(s.Average))
	}
	return t
}

// VenueScoring totals first-innings runs per match, joins each match to its
// venue and averages per venue, highest first.
func VenueScoring(ds *model.Dataset, limit int) VenueScores {
	ds = orEmpty(ds)
	totals := map[int]int{}
	for _, d := range ds.Deliveries {
		if d.Inning == 1 {
			totals[d.MatchID] += d.TotalRuns
		}
	}

	runs, matches := tally{}, tally{}
	for _, m := range ds.Matches {
		total, ok := totals[m.ID]
		if !ok || m.Venue == "" {
			continue
		}
		runs.add(m.Venue, total)
		matches.inc(m.Venue)
	}

	out := VenueScores{}
	for venue, n := range matches {
		out = append(out, VenueScore{Venue: venue, Matches: n, Average: Average(runs[venue], n)})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Average != out[j].Average {
			return out[i].Average > out[j].Average
		}
		return out[i].Venue < out[j].Venue
	})
	return truncate(out, limit)
}
