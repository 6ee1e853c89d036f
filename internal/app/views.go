package service

import (
	"github.com/okian/iplstats/internal/domain/model"
	"github.com/okian/iplstats/internal/domain/stats"
)

// Names of the views that take only a selection.
const (
	ViewSummary          = "summary"
	ViewMatchesPerSeason = "matches-per-season"
	ViewWinsByTeam       = "wins-by-team"
	ViewTossDecisions    = "toss-decisions"
	ViewResultTypes      = "result-types"
	ViewTitleWinners     = "title-winners"
	ViewWinPercentage    = "win-percentage"
	ViewConsistentTeams  = "consistent-teams"
	ViewTopRunScorers    = "top-run-scorers"
	ViewTopWicketTakers  = "top-wicket-takers"
	ViewMostSixes        = "most-sixes"
	ViewMostFours        = "most-fours"
	ViewVenueMatches     = "venue-matches"
	ViewVenueScoring     = "venue-scoring"
	ViewTossImpact       = "toss-impact"
	ViewOverStats        = "over-stats"
	ViewPhaseStats       = "phase-stats"
	ViewHeadToHead       = "head-to-head"
	ViewDismissalTypes   = "dismissal-types"
	ViewExtras           = "extras"
	ViewRunRate          = "run-rate"
)

// Names of the parameterised views.
const (
	ViewPlayer  = "player"
	ViewCompare = "compare"
)

// input is everything a view may read.
type input struct {
	ds         *model.Dataset // filtered
	teams      []string       // every team in the unfiltered dataset
	topN       int
	venueTopN  int
	minMatches int
}

type viewFunc func(in input) stats.Tabler

type view struct {
	name string
	fn   viewFunc
}

// registry lists the views in dashboard order.
var registry = []view{
	{ViewSummary, func(in input) stats.Tabler { return stats.Summarize(in.ds) }},
	{ViewMatchesPerSeason, func(in input) stats.Tabler { return stats.MatchesPerSeason(in.ds) }},
	{ViewWinsByTeam, func(in input) stats.Tabler { return stats.WinsByTeam(in.ds, in.topN) }},
	{ViewTossDecisions, func(in input) stats.Tabler { return stats.TossDecisions(in.ds) }},
	{ViewResultTypes, func(in input) stats.Tabler { return stats.ResultTypes(in.ds) }},
	{ViewTitleWinners, func(in input) stats.Tabler { return stats.TitleWinnersOf(in.ds) }},
	{ViewWinPercentage, func(in input) stats.Tabler { return stats.WinPercentage(in.ds, in.teams, in.topN) }},
	{ViewTopRunScorers, func(in input) stats.Tabler { return stats.TopRunScorers(in.ds, in.topN) }},
	{ViewTopWicketTakers, func(in input) stats.Tabler { return stats.TopWicketTakers(in.ds, in.topN) }},
	{ViewMostSixes, func(in input) stats.Tabler { return stats.MostSixes(in.ds, in.topN) }},
	{ViewMostFours, func(in input) stats.Tabler { return stats.MostFours(in.ds, in.topN) }},
	{ViewVenueMatches, func(in input) stats.Tabler { return stats.VenueMatches(in.ds, in.venueTopN) }},
	{ViewVenueScoring, func(in input) stats.Tabler { return stats.VenueScoring(in.ds, in.venueTopN) }},
	{ViewTossImpact, func(in input) stats.Tabler { return stats.TossImpactOf(in.ds) }},
	{ViewOverStats, func(in input) stats.Tabler { return stats.OverStatsOf(in.ds) }},
	{ViewPhaseStats, func(in input) stats.Tabler { return stats.PhaseStatsOf(in.ds) }},
	{ViewHeadToHead, func(in input) stats.Tabler { return stats.HeadToHead(in.ds) }},
	{ViewConsistentTeams, func(in input) stats.Tabler {
		return stats.ConsistentTeams(in.ds, in.teams, in.minMatches, in.topN)
	}},
	{ViewDismissalTypes, func(in input) stats.Tabler { return stats.DismissalTypes(in.ds) }},
	{ViewExtras, func(in input) stats.Tabler { return stats.Extras(in.ds) }},
	{ViewRunRate, func(in input) stats.Tabler { return stats.RunRate(in.ds) }},
}

var registryIndex = func() map[string]viewFunc {
	m := make(map[string]viewFunc, len(registry))
	for _, v := range registry {
		m[v.name] = v.fn
	}
	return m
}()

// Views returns the names of the selection-only views in dashboard order.
func Views() []string {
	names := make([]string, 0, len(registry))
	for _, v := range registry {
		names = append(names, v.name)
	}
	return names
}
