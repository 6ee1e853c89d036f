// Package alias normalizes historical and misspelled franchise names.
package alias

// Rule rewrites one exact team name to its canonical spelling.
type Rule struct {
	From string `koanf:"from" json:"from" yaml:"from"`
	To   string `koanf:"to" json:"to" yaml:"to"`
}

// DefaultRules returns the built-in rewrites for rebranded franchises.
func DefaultRules() []Rule {
	return []Rule{
		{From: "Rising Pune Supergiant", To: "Rising Pune Supergiants"},
		{From: "Delhi Daredevils", To: "Delhi Capitals"},
	}
}

// Map is a compiled, read-only rule set.
type Map struct {
	rewrites map[string]string
}

// New compiles rules in order. A later rule for the same From wins, and
// rewrites are single-step: the output of one rule is not fed to another.
func New(rules []Rule) *Map {
	m := &Map{rewrites: make(map[string]string, len(rules))}
	for _, r := range rules {
		if r.From == "" {
			continue
		}
		m.rewrites[r.From] = r.To
	}
	return m
}

// Canonical returns the canonical name for team. Matching is exact and
// case-sensitive; unknown names are returned unchanged.
func (m *Map) Canonical(team string) string {
	if m == nil {
		return team
	}
	if to, ok := m.rewrites[team]; ok {
		return to
	}
	return team
}

// Len returns the number of distinct rewrites.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.rewrites)
}
