package model

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestDismissalKind_CreditsBowler(t *testing.T) {
	Convey("Given every dismissal kind", t, func() {
		credited := []DismissalKind{
			DismissalCaught, DismissalBowled, DismissalLBW,
			DismissalCaughtAndBowled, DismissalStumped, DismissalHitWicket,
		}
		notCredited := []DismissalKind{
			DismissalNone, DismissalRunOut, DismissalRetiredHurt, DismissalObstructingTheField,
		}

		Convey("Then only bowler dismissals are credited", func() {
			for _, k := range credited {
				So(k.CreditsBowler(), ShouldBeTrue)
			}
			for _, k := range notCredited {
				So(k.CreditsBowler(), ShouldBeFalse)
			}
		})
	})
}

func TestMatch_Sides(t *testing.T) {
	Convey("Given a decided match", t, func() {
		m := Match{Team1: "A", Team2: "B", Winner: "B"}

		So(m.HasWinner(), ShouldBeTrue)
		So(m.Loser(), ShouldEqual, "A")
		So(m.Involves("A"), ShouldBeTrue)
		So(m.Involves("C"), ShouldBeFalse)
	})

	Convey("Given a no result", t, func() {
		m := Match{Team1: "A", Team2: "B"}
		So(m.HasWinner(), ShouldBeFalse)
	})
}

func TestDataset_Helpers(t *testing.T) {
	Convey("Given a dataset", t, func() {
		ds := &Dataset{Matches: []Match{
			{ID: 1, Team1: "A", Team2: "B"},
			{ID: 2, Team1: "C", Team2: "A"},
		}}

		So(ds.MatchIDs(), ShouldResemble, map[int]struct{}{1: {}, 2: {}})
		So(ds.Teams(), ShouldResemble, []string{"A", "B", "C"})
	})
}

func TestMatch_Inconsistency(t *testing.T) {
	Convey("Given matches against the record invariants", t, func() {
		So(Match{Team1: "A", Team2: "B", Winner: "A", WinByRuns: 3}.Inconsistency(), ShouldBeEmpty)
		So(Match{Team1: "A", Team2: "B"}.Inconsistency(), ShouldBeEmpty)
		So(Match{Team1: "A", Team2: "A"}.Inconsistency(), ShouldEqual, "team1 equals team2")
		So(Match{Team1: "A"}.Inconsistency(), ShouldEqual, "missing team")
		So(Match{Team1: "A", Team2: "B", Winner: "C"}.Inconsistency(), ShouldEqual, "winner did not play")
		So(Match{Team1: "A", Team2: "B", Winner: "A", WinByRuns: 1, WinByWickets: 1}.Inconsistency(), ShouldEqual, "both margins positive")
	})
}
