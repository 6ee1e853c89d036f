package stats

import (
	"sort"

	"github.com/okian/iplstats/internal/domain/model"
)

// SeasonWinner is the team with the most wins in one season.
type SeasonWinner struct {
	Season string `json:"season"`
	Team   string `json:"team"`
	Wins   int    `json:"wins"`
}

// TitleWinners approximates each season's champion by in-season win count.
// It is not the playoff result, which the data does not carry.
type TitleWinners struct {
	Approximate bool           `json:"approximate"`
	Seasons     []SeasonWinner `json:"seasons"`
	Titles      []Count        `json:"titles"`
}

// Table implements Tabler.
func (tw TitleWinners) Table() Table {
	return ranking("Team", "Titles", tw.Titles).Table()
}

// TitleWinnersOf picks, per season, the team with most wins. Ties go to the
// alphabetically first team.
func TitleWinnersOf(ds *model.Dataset) TitleWinners {
	ds = orEmpty(ds)
	perSeason := map[string]tally{}
	for _, m := range ds.Matches {
		if !m.HasWinner() {
			continue
		}
		t, ok := perSeason[m.Season]
		if !ok {
			t = tally{}
			perSeason[m.Season] = t
		}
		t.inc(m.Winner)
	}

	seasons := make([]string, 0, len(perSeason))
	for s := range perSeason {
		seasons = append(seasons, s)
	}
	sort.Strings(seasons)

	out := TitleWinners{Approximate: true, Seasons: []SeasonWinner{}}
	titles := tally{}
	for _, s := range seasons {
		top := perSeason[s].ranked(1)[0]
		out.Seasons = append(out.Seasons, SeasonWinner{Season: s, Team: top.Key, Wins: top.Count})
		titles.inc(top.Key)
	}
	out.Titles = titles.ranked(0)
	return out
}

// TeamRecord is a team's played/won tally.
type TeamRecord struct {
	Team       string  `json:"team"`
	Matches    int     `json:"matches"`
	Wins       int     `json:"wins"`
	WinPercent float64 `json:"win_percent"`
}

// TeamRecords is a ranked list of TeamRecord.
type TeamRecords []TeamRecord

// Table implements Tabler.
func (r TeamRecords) Table() Table {
	t := newTable("Team", "Matches", "Wins", "Win %")
	for _, rec := range r {
		t.add(rec.Team, rec.Matches, rec.Wins, round2(rec.WinPercent))
	}
	return t
}

// WinPercentage computes win percentage for every team in teams that played
// at least one match in ds. teams is normally the unfiltered team list; when
// empty, the teams in ds are used.
func WinPercentage(ds *model.Dataset, teams []string, limit int) TeamRecords {
	return teamRecords(ds, teams, 1, limit)
}

// ConsistentTeams is WinPercentage restricted to teams with at least
// minMatches played.
func ConsistentTeams(ds *model.Dataset, teams []string, minMatches, limit int) TeamRecords {
	if minMatches < 1 {
		minMatches = 1
	}
	return teamRecords(ds, teams, minMatches, limit)
}

func teamRecords(ds *model.Dataset, teams []string, minMatches, limit int) TeamRecords {
	ds = orEmpty(ds)
	if len(teams) == 0 {
		teams = ds.Teams()
	}
	played, won := tally{}, tally{}
	for _, m := range ds.Matches {
		played.inc(m.Team1)
		if m.Team2 != m.Team1 {
			played.inc(m.Team2)
		}
		won.inc(m.Winner)
	}

	out := TeamRecords{}
	seen := make(map[string]struct{}, len(teams))
	for _, team := range teams {
		if _, dup := seen[team]; dup {
			continue
		}
		seen[team] = struct{}{}
		n := played[team]
		if n == 0 || n < minMatches {
			continue
		}
		out = append(out, TeamRecord{
			Team:       team,
			Matches:    n,
			Wins:       won[team],
			WinPercent: Percentage(won[team], n),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].WinPercent != out[j].WinPercent {
			return out[i].WinPercent > out[j].WinPercent
		}
		if out[i].Matches != out[j].Matches {
			return out[i].Matches > out[j].Matches
		}
		return out[i].Team < out[j].Team
	})
	return truncate(out, limit)
}

// Matrix is the head-to-head cross tabulation of wins. Rows are winners and
// columns are losers.
type Matrix struct {
	Winners []string `json:"winners"`
	Losers  []string `json:"losers"`
	Cells   [][]int  `json:"cells"`
}

// Table implements Tabler.
func (mx Matrix) Table() Table {
	t := newTable(append([]string{"Winner"}, mx.Losers...)...)
	for i, w := range mx.Winners {
		row := make([]any, 0, len(mx.Losers)+1)
		row = append(row, w)
		for _, n := range mx.Cells[i] {
			row = append(row, n)
		}
		t.add(row...)
	}
	return t
}

// Cell returns the number of times winner beat loser.
func (mx Matrix) Cell(winner, loser string) int {
	i := sort.SearchStrings(mx.Winners, winner)
	j := sort.SearchStrings(mx.Losers, loser)
	if i == len(mx.Winners) || mx.Winners[i] != winner || j == len(mx.Losers) || mx.Losers[j] != loser {
		return 0
	}
	return mx.Cells[i][j]
}

// Total is the sum of all cells.
func (mx Matrix) Total() int {
	total := 0
	for _, row := range mx.Cells {
		for _, n := range row {
			total += n
		}
	}
	return total
}

// HeadToHead cross-tabulates (winner, loser) over matches with a winner.
func HeadToHead(ds *model.Dataset) Matrix {
	ds = orEmpty(ds)
	type pair struct{ w, l string }
	pairs := map[pair]int{}
	winners, losers := tally{}, tally{}
	for _, m := range ds.Matches {
		if !m.HasWinner() {
			continue
		}
		loser := m.Loser()
		if loser == "" {
			continue
		}
		pairs[pair{m.Winner, loser}]++
		winners.inc(m.Winner)
		losers.inc(loser)
	}

	mx := Matrix{Winners: keys(winners), Losers: keys(losers), Cells: [][]int{}}
	for _, w := range mx.Winners {
		row := make([]int, len(mx.Losers))
		for j, l := range mx.Losers {
			row[j] = pairs[pair{w, l}]
		}
		mx.Cells = append(mx.Cells, row)
	}
	return mx
}

func keys(t tally) []string {
	out := make([]string, 0, len(t))
	for k := range t {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Comparison is the direct record between two teams.
type Comparison struct {
	Team1     string `json:"team1"`
	Team2     string `json:"team2"`
	Team1Wins int    `json:"team1_wins"`
	Team2Wins int    `json:"team2_wins"`
	Meetings  int    `json:"meetings"`
}

// Table implements Tabler.
func (c Comparison) Table() Table {
	t := newTable("Team", "Wins")
	t.add(c.Team1, c.Team1Wins)
	t.add(c.Team2, c.Team2Wins)
	t.add("Meetings", c.Meetings)
	return t
}

// Compare counts the meetings of team1 and team2 and who won them.
func Compare(ds *model.Dataset, team1, team2 string) Comparison {
	ds = orEmpty(ds)
	c := Comparison{Team1: team1, Team2: team2}
	for _, m := range ds.Matches {
		if !m.Involves(team1) || !m.Involves(team2) {
			continue
		}
		c.Meetings++
		switch m.Winner {
		case team1:
			c.Team1Wins++
		case team2:
			c.Team2Wins++
		}
	}
	return c
}
