package model

// Dataset is the pair of tables every analytic reads. A loaded Dataset is
// never mutated; filtering produces a new one.
type Dataset struct {
	Matches    []Match
	Deliveries []Delivery
}

// MatchIDs returns the set of match identifiers in the dataset.
func (d *Dataset) MatchIDs() map[int]struct{} {
	ids := make(map[int]struct{}, len(d.Matches))
	for _, m := range d.Matches {
		ids[m.ID] = struct{}{}
	}
	return ids
}

// Teams returns every team that appears on either side of a match, unsorted.
func (d *Dataset) Teams() []string {
	seen := make(map[string]struct{})
	var teams []string
	for _, m := range d.Matches {
		for _, t := range [...]string{m.Team1, m.Team2} {
			if t == "" {
				continue
			}
			if _, ok := seen[t]; !ok {
				seen[t] = struct{}{}
				teams = append(teams, t)
			}
		}
	}
	return teams
}
