package filter

import (
	"sort"

	"github.com/okian/iplstats/internal/domain/model"
)

// defaultSeasonCount is how many recent seasons are preselected.
const defaultSeasonCount = 5

// Options lists the choices offered by the selectors.
type Options struct {
	Seasons        []string `json:"seasons"`         // most recent first
	Teams          []string `json:"teams"`           // sorted
	Venues         []string `json:"venues"`          // sorted
	Players        []string `json:"players"`         // batsmen, sorted
	DefaultSeasons []string `json:"default_seasons"` // the most recent five seasons
}

// BuildOptions collects the distinct selector values from ds.
func BuildOptions(ds *model.Dataset) Options {
	if ds == nil {
		return Options{}
	}
	seasons := distinct(len(ds.Matches), func(yield func(string)) {
		for _, m := range ds.Matches {
			yield(m.Season)
		}
	})
	sort.Sort(sort.Reverse(sort.StringSlice(seasons)))

	teams := append([]string{}, ds.Teams()...)
	sort.Strings(teams)

	venues := distinct(len(ds.Matches), func(yield func(string)) {
		for _, m := range ds.Matches {
			yield(m.Venue)
		}
	})
	sort.Strings(venues)

	players := distinct(len(ds.Deliveries), func(yield func(string)) {
		for _, d := range ds.Deliveries {
			yield(d.Batsman)
		}
	})
	sort.Strings(players)

	defaults := seasons
	if len(defaults) > defaultSeasonCount {
		defaults = defaults[:defaultSeasonCount]
	}

	return Options{
		Seasons:        seasons,
		Teams:          teams,
		Venues:         venues,
		Players:        players,
		DefaultSeasons: append([]string(nil), defaults...),
	}
}

func distinct(hint int, each func(yield func(string))) []string {
	seen := make(map[string]struct{}, hint)
	out := []string{}
	each(func(v string) {
		if v == "" {
			return
		}
		if _, ok := seen[v]; ok {
			return
		}
		seen[v] = struct{}{}
		out = append(out, v)
	})
	return out
}
