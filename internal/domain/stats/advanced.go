package stats

import "github.com/okian/iplstats/internal/domain/model"

// Extras labels.
const (
	ExtraWides   = "Wides"
	ExtraNoBalls = "No Balls"
	ExtraByes    = "Byes"
	ExtraLegByes = "Leg Byes"
)

// DismissalTypes counts wickets per dismissal kind.
func DismissalTypes(ds *model.Dataset) Ranking {
	ds = orEmpty(ds)
	t := tally{}
	for _, d := range ds.Deliveries {
		if d.IsWicket() {
			t.inc(string(d.DismissalKind))
		}
	}
	return ranking("Dismissal", "Count", t.ranked(0))
}

// Extras counts deliveries conceding extras by kind. A delivery can appear
// under more than one kind. Rows keep a fixed order.
func Extras(ds *model.Dataset) Ranking {
	ds = orEmpty(ds)
	r := ranking("Type", "Count", []Count{})
	if len(ds.Deliveries) == 0 {
		return r
	}
	var wides, noBalls, byes, legByes int
	for _, d := range ds.Deliveries {
		if d.ExtraRuns <= 0 {
			continue
		}
		if d.WideRuns > 0 {
			wides++
		}
		if d.NoBallRuns > 0 {
			noBalls++
		}
		if d.ByeRuns > 0 {
			byes++
		}
		if d.LegByeRuns > 0 {
			legByes++
		}
	}
	r.Items = append(r.Items,
		Count{Key: ExtraWides, Count: wides},
		Count{Key: ExtraNoBalls, Count: noBalls},
		Count{Key: ExtraByes, Count: byes},
		Count{Key: ExtraLegByes, Count: legByes},
	)
	return r
}
