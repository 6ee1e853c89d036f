// Package filter narrows a dataset to a season/team/venue selection.
//
// An empty axis means "no restriction" on that axis, never "select nothing".
// Deliveries are never filtered on their own: they follow the filtered match
// set through the match identifier.
package filter

import (
	"strings"

	"github.com/okian/iplstats/internal/domain/model"
)

// Selection is the user's multi-select state.
type Selection struct {
	Seasons []string `json:"seasons,omitempty"`
	Teams   []string `json:"teams,omitempty"`
	Venues  []string `json:"venues,omitempty"`
}

// IsEmpty reports whether no axis restricts anything.
func (s Selection) IsEmpty() bool {
	return len(s.Seasons) == 0 && len(s.Teams) == 0 && len(s.Venues) == 0
}

// Normalize trims values, drops blanks and removes duplicates while keeping
// first-seen order.
func (s Selection) Normalize() Selection {
	return Selection{
		Seasons: normalize(s.Seasons),
		Teams:   normalize(s.Teams),
		Venues:  normalize(s.Venues),
	}
}

func normalize(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

type set map[string]struct{}

func toSet(values []string) set {
	if len(values) == 0 {
		return nil
	}
	s := make(set, len(values))
	for _, v := range values {
		s[v] = struct{}{}
	}
	return s
}

// allows is true for a nil (unrestricted) set.
func (s set) allows(v string) bool {
	if s == nil {
		return true
	}
	_, ok := s[v]
	return ok
}

// Apply returns the matches passing every axis and the deliveries of those
// matches. Input slices are not modified; relative order is preserved.
func Apply(ds *model.Dataset, sel Selection) *model.Dataset {
	if ds == nil {
		return &model.Dataset{}
	}
	seasons := toSet(sel.Seasons)
	teams := toSet(sel.Teams)
	venues := toSet(sel.Venues)

	matches := make([]model.Match, 0, len(ds.Matches))
	ids := make(map[int]struct{}, len(ds.Matches))
	for _, m := range ds.Matches {
		if !seasons.allows(m.Season) {
			continue
		}
		if teams != nil && !teams.allows(m.Team1) && !teams.allows(m.Team2) {
			continue
		}
		if !venues.allows(m.Venue) {
			continue
		}
		matches = append(matches, m)
		ids[m.ID] = struct{}{}
	}

	deliveries := make([]model.Delivery, 0, len(ds.Deliveries))
	for _, d := range ds.Deliveries {
		if _, ok := ids[d.MatchID]; ok {
			deliveries = append(deliveries, d)
		}
	}

	return &model.Dataset{Matches: matches, Deliveries: deliveries}
}
