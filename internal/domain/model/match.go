// Package model contains the two record types the analytics work on and the
// immutable dataset that holds them.
package model

import "time"

// Toss decisions as they appear in the source data.
const (
	TossBat   = "bat"
	TossField = "field"
)

// Match is one fixture.
type Match struct {
	ID            int        `json:"id"`
	Season        string     `json:"season"`
	City          string     `json:"city,omitempty"`
	Date          *time.Time `json:"date"` // nil when the source date could not be parsed
	Team1         string     `json:"team1"`
	Team2         string     `json:"team2"`
	TossWinner    string     `json:"toss_winner"`
	TossDecision  string     `json:"toss_decision"`
	Result        string     `json:"result,omitempty"`
	DLApplied     bool       `json:"dl_applied,omitempty"`
	Winner        string     `json:"winner,omitempty"` // empty for tie or no result
	WinByRuns     int        `json:"win_by_runs"`
	WinByWickets  int        `json:"win_by_wickets"`
	PlayerOfMatch string     `json:"player_of_match,omitempty"`
	Venue         string     `json:"venue"`
}

// HasWinner reports whether the match produced a result.
func (m Match) HasWinner() bool {
	return m.Winner != ""
}

// Involves reports whether team played in the match.
func (m Match) Involves(team string) bool {
	return m.Team1 == team || m.Team2 == team
}

// Loser returns the side that is not the winner. Only meaningful when
// HasWinner is true.
func (m Match) Loser() string {
	if m.Team1 == m.Winner {
		return m.Team2
	}
	return m.Team1
}

// Inconsistency describes why the match breaks the record invariants, or
// returns "" when it holds: two distinct sides, a winner that is one of
// them or absent, and at most one positive margin.
func (m Match) Inconsistency() string {
	switch {
	case m.Team1 == "" || m.Team2 == "":
		return "missing team"
	case m.Team1 == m.Team2:
		return "team1 equals team2"
	case m.Winner != "" && !m.Involves(m.Winner):
		return "winner did not play"
	case m.WinByRuns > 0 && m.WinByWickets > 0:
		return "both margins positive"
	}
	return ""
}
