package stats

import (
	"sort"
	"strconv"

	"github.com/okian/iplstats/internal/domain/model"
)

// TopRunScorers sums batsman runs per batsman.
func TopRunScorers(ds *model.Dataset, limit int) Ranking {
	ds = orEmpty(ds)
	t := tally{}
	for _, d := range ds.Deliveries {
		t.add(d.Batsman, d.BatsmanRuns)
	}
	return ranking("Batsman", "Runs", t.ranked(limit))
}

// TopWicketTakers counts bowler-credited dismissals per bowler. Run outs,
// retirements and obstruction are not credited.
func TopWicketTakers(ds *model.Dataset, limit int) Ranking {
	ds = orEmpty(ds)
	t := tally{}
	for _, d := range ds.Deliveries {
		if d.IsWicket() && d.DismissalKind.CreditsBowler() {
			t.inc(d.Bowler)
		}
	}
	return ranking("Bowler", "Wickets", t.ranked(limit))
}

// MostSixes counts deliveries where the batsman scored six.
func MostSixes(ds *model.Dataset, limit int) Ranking {
	return boundaries(ds, 6, "Sixes", limit)
}

// MostFours counts deliveries where the batsman scored four.
func MostFours(ds *model.Dataset, limit int) Ranking {
	return boundaries(ds, 4, "Fours", limit)
}

func boundaries(ds *model.Dataset, runs int, column string, limit int) Ranking {
	ds = orEmpty(ds)
	t := tally{}
	for _, d := range ds.Deliveries {
		if d.BatsmanRuns == runs {
			t.inc(d.Batsman)
		}
	}
	return ranking("Batsman", column, t.ranked(limit))
}

// RunFrequency is how often a batsman scored a given number off one ball.
type RunFrequency struct {
	Runs  int `json:"runs"`
	Count int `json:"count"`
}

// SeasonRuns is a batsman's run total for one season.
type SeasonRuns struct {
	Season string `json:"season"`
	Runs   int    `json:"runs"`
}

// PlayerProfile is the batting deep dive for one player.
type PlayerProfile struct {
	Player       string         `json:"player"`
	Runs         int            `json:"runs"`
	Innings      int            `json:"innings"`
	Balls        int            `json:"balls"`
	Fours        int            `json:"fours"`
	Sixes        int            `json:"sixes"`
	StrikeRate   float64        `json:"strike_rate"`
	Average      float64        `json:"average"`
	Distribution []RunFrequency `json:"distribution"`
	Seasons      []SeasonRuns   `json:"seasons"`
}

// Found reports whether the player faced any ball in the dataset.
func (p PlayerProfile) Found() bool {
	return p.Balls > 0
}

// Table implements Tabler.
func (p PlayerProfile) Table() Table {
	t := newTable("Metric", "Value")
	if !p.Found() {
		return t
	}
	t.add("Runs", p.Runs)
	t.add("Innings", p.Innings)
	t.add("Balls", p.Balls)
	t.add("Fours", p.Fours)
	t.add("Sixes", p.Sixes)
	t.add("Strike Rate", round2(p.StrikeRate))
	t.add("Average", round2(p.Average))
	for _, s := range p.Seasons {
		t.add("Runs in "+s.Season, s.Runs)
	}
	for _, f := range p.Distribution {
		t.add("Balls scoring "+strconv.Itoa(f.Runs), f.Count)
	}
	return t
}

// Player builds the batting profile of name. Innings are distinct matches
// batted in, and the average is runs per innings.
func Player(ds *model.Dataset, name string) PlayerProfile {
	ds = orEmpty(ds)
	p := PlayerProfile{Player: name, Distribution: []RunFrequency{}, Seasons: []SeasonRuns{}}
	seasonOf := seasonsByMatch(ds)
	innings := map[int]struct{}{}
	dist := map[int]int{}
	perSeason := tally{}
	for _, d := range ds.Deliveries {
		if d.Batsman != name {
			continue
		}
		p.Balls++
		p.Runs += d.BatsmanRuns
		switch d.BatsmanRuns {
		case 4:
			p.Fours++
		case 6:
			p.Sixes++
		}
		innings[d.MatchID] = struct{}{}
		dist[d.BatsmanRuns]++
		perSeason.add(seasonOf[d.MatchID], d.BatsmanRuns)
	}
	p.Innings = len(innings)
	p.StrikeRate = StrikeRate(p.Runs, p.Balls)
	p.Average = Average(p.Runs, p.Innings)

	for runs, n := range dist {
		p.Distribution = append(p.Distribution, RunFrequency{Runs: runs, Count: n})
	}
	sort.Slice(p.Distribution, func(i, j int) bool { return p.Distribution[i].Runs < p.Distribution[j].Runs })
	for _, c := range perSeason.byKey() {
		p.Seasons = append(p.Seasons, SeasonRuns{Season: c.Key, Runs: c.Count})
	}
	return p
}
