package alias

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestMap_Canonical(t *testing.T) {
	Convey("Given the default rules", t, func() {
		m := New(DefaultRules())

		Convey("Then rebranded names map to the canonical franchise", func() {
			So(m.Canonical("Delhi Daredevils"), ShouldEqual, "Delhi Capitals")
			So(m.Canonical("Rising Pune Supergiant"), ShouldEqual, "Rising Pune Supergiants")
		})

		Convey("Then matching is exact and case-sensitive", func() {
			So(m.Canonical("delhi daredevils"), ShouldEqual, "delhi daredevils")
			So(m.Canonical("Delhi Daredevils "), ShouldEqual, "Delhi Daredevils ")
		})

		Convey("Then unknown and empty names pass through", func() {
			So(m.Canonical("Mumbai Indians"), ShouldEqual, "Mumbai Indians")
			So(m.Canonical(""), ShouldEqual, "")
		})
	})

	Convey("Given chained rules", t, func() {
		m := New([]Rule{{From: "A", To: "B"}, {From: "B", To: "C"}})

		Convey("Then each name is rewritten once", func() {
			So(m.Canonical("A"), ShouldEqual, "B")
			So(m.Canonical("B"), ShouldEqual, "C")
		})
	})

	Convey("Given duplicate and blank rules", t, func() {
		m := New([]Rule{{From: "A", To: "B"}, {From: "A", To: "Z"}, {From: "", To: "X"}})

		So(m.Len(), ShouldEqual, 1)
		So(m.Canonical("A"), ShouldEqual, "Z")
	})

	Convey("Given a nil map", t, func() {
		var m *Map
		So(m.Canonical("A"), ShouldEqual, "A")
		So(m.Len(), ShouldEqual, 0)
	})
}
