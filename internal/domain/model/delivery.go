package model

// DismissalKind is the manner in which a batsman was out.
type DismissalKind string

// Dismissal kinds as spelled in the source data.
const (
	DismissalNone                DismissalKind = ""
	DismissalCaught              DismissalKind = "caught"
	DismissalBowled              DismissalKind = "bowled"
	DismissalLBW                 DismissalKind = "lbw"
	DismissalCaughtAndBowled     DismissalKind = "caught and bowled"
	DismissalStumped             DismissalKind = "stumped"
	DismissalHitWicket           DismissalKind = "hit wicket"
	DismissalRunOut              DismissalKind = "run out"
	DismissalRetiredHurt         DismissalKind = "retired hurt"
	DismissalObstructingTheField DismissalKind = "obstructing the field"
)

// CreditsBowler reports whether the dismissal counts toward the bowler's
// wicket tally. Run outs, retirements and obstruction do not.
func (k DismissalKind) CreditsBowler() bool {
	switch k {
	case DismissalCaught, DismissalBowled, DismissalLBW,
		DismissalCaughtAndBowled, DismissalStumped, DismissalHitWicket:
		return true
	default:
		return false
	}
}

// Delivery is one ball bowled.
type Delivery struct {
	MatchID       int           `json:"match_id"`
	Inning        int           `json:"inning"`
	BattingTeam   string        `json:"batting_team"`
	BowlingTeam   string        `json:"bowling_team"`
	Over          int           `json:"over"` // zero-indexed
	Ball          int           `json:"ball"`
	Batsman       string        `json:"batsman"`
	NonStriker    string        `json:"non_striker,omitempty"`
	Bowler        string        `json:"bowler"`
	IsSuperOver   bool          `json:"is_super_over,omitempty"`
	WideRuns      int           `json:"wide_runs"`
	ByeRuns       int           `json:"bye_runs"`
	LegByeRuns    int           `json:"legbye_runs"`
	NoBallRuns    int           `json:"noball_runs"`
	PenaltyRuns   int           `json:"penalty_runs,omitempty"`
	BatsmanRuns   int           `json:"batsman_runs"`
	ExtraRuns     int           `json:"extra_runs"`
	TotalRuns     int           `json:"total_runs"`
	Dismissed     string        `json:"player_dismissed,omitempty"`
	DismissalKind DismissalKind `json:"dismissal_kind,omitempty"`
	Fielder       string        `json:"fielder,omitempty"`
}

// IsWicket reports whether a player was dismissed on this delivery.
func (d Delivery) IsWicket() bool {
	return d.Dismissed != ""
}
