package pairing_test

import (
	"fmt"
	"testing"

	pairing "github.com/openplayhq/rally/internal/domain/pairing"
	. "github.com/smartystreets/goconvey/convey"
)

func TestHistory(t *testing.T) {
	Convey("Given a new pairing history", t, func() {
		h := pairing.New()

		Convey("Then it starts empty", func() {
			So(h.Len(), ShouldEqual, 0)
			So(h.HasPaired("Ana", "Ben"), ShouldBeFalse)
			So(h.Partners("Ana"), ShouldBeNil)
		})

		Convey("When recording a pair", func() {
			fresh := h.Record("Ana", "Ben")

			Convey("Then the pair is stored symmetrically", func() {
				So(fresh, ShouldBeTrue)
				So(h.Len(), ShouldEqual, 1)
				So(h.HasPaired("Ana", "Ben"), ShouldBeTrue)
				So(h.HasPaired("Ben", "Ana"), ShouldBeTrue)
				So(h.Partners("Ana"), ShouldResemble, []string{"Ben"})
				So(h.Partners("Ben"), ShouldResemble, []string{"Ana"})
			})

			Convey("And recording it again in either order is a no-op", func() {
				So(h.Record("Ana", "Ben"), ShouldBeFalse)
				So(h.Record("Ben", "Ana"), ShouldBeFalse)
				So(h.Len(), ShouldEqual, 1)
			})
		})

		Convey("When recording degenerate pairs", func() {
			Convey("Then self-pairs are rejected", func() {
				So(h.Record("Ana", "Ana"), ShouldBeFalse)
				So(h.Len(), ShouldEqual, 0)
				So(h.HasPaired("Ana", "Ana"), ShouldBeFalse)
			})

			Convey("Then empty names are rejected", func() {
				So(h.Record("", "Ben"), ShouldBeFalse)
				So(h.Record("Ana", ""), ShouldBeFalse)
				So(h.Len(), ShouldEqual, 0)
			})
		})

		Convey("When one player has several partners", func() {
			h.Record("Ana", "Dee")
			h.Record("Ana", "Ben")
			h.Record("Ana", "Cal")

			Convey("Then partners come back sorted", func() {
				So(h.Partners("Ana"), ShouldResemble, []string{"Ben", "Cal", "Dee"})
				So(h.Len(), ShouldEqual, 3)
			})
		})

		Convey("When forgetting a player", func() {
			h.Record("Ana", "Ben")
			h.Record("Ana", "Cal")
			h.Record("Ben", "Cal")
			So(h.Len(), ShouldEqual, 3)

			h.Forget("Ana")

			Convey("Then their pairs are gone in both directions", func() {
				So(h.Len(), ShouldEqual, 1)
				So(h.HasPaired("Ana", "Ben"), ShouldBeFalse)
				So(h.HasPaired("Cal", "Ana"), ShouldBeFalse)
				So(h.Partners("Ben"), ShouldResemble, []string{"Cal"})
			})

			Convey("And forgetting an unknown player changes nothing", func() {
				h.Forget("Zoe")
				So(h.Len(), ShouldEqual, 1)
			})
		})

		Convey("When resetting", func() {
			h.Record("Ana", "Ben")
			h.Reset()

			Convey("Then the history is empty again", func() {
				So(h.Len(), ShouldEqual, 0)
				So(h.HasPaired("Ana", "Ben"), ShouldBeFalse)
			})
		})
	})
}

func TestHistorySnapshotRoundTrip(t *testing.T) {
	Convey("Given a history with recorded pairs", t, func() {
		h := pairing.New()
		h.Record("Ana", "Ben")
		h.Record("Ana", "Cal")

		Convey("When exporting partners by player", func() {
			byPlayer := h.PartnersByPlayer("Dee")

			Convey("Then every involved player has a sorted entry", func() {
				So(byPlayer["Ana"], ShouldResemble, []string{"Ben", "Cal"})
				So(byPlayer["Ben"], ShouldResemble, []string{"Ana"})
				So(byPlayer["Cal"], ShouldResemble, []string{"Ana"})
			})

			Convey("And listed players without partners get an empty entry", func() {
				So(byPlayer["Dee"], ShouldNotBeNil)
				So(byPlayer["Dee"], ShouldBeEmpty)
			})
		})

		Convey("When restoring from an export", func() {
			restored := pairing.New()
			restored.Restore(h.PartnersByPlayer())

			Convey("Then the restored history matches the original", func() {
				So(restored.Len(), ShouldEqual, h.Len())
				So(restored.HasPaired("Ana", "Ben"), ShouldBeTrue)
				So(restored.HasPaired("Cal", "Ana"), ShouldBeTrue)
			})
		})

		Convey("When restoring from one-sided input", func() {
			restored := pairing.New()
			restored.Restore(map[string][]string{
				"Ana": {"Ben", "Cal"},
			})

			Convey("Then links are symmetrized", func() {
				So(restored.Len(), ShouldEqual, 2)
				So(restored.HasPaired("Ben", "Ana"), ShouldBeTrue)
				So(restored.HasPaired("Cal", "Ana"), ShouldBeTrue)
			})
		})
	})
}

func TestHistoryManyPlayers(t *testing.T) {
	Convey("Given a large rotation of players", t, func() {
		h := pairing.New()

		const players = 40
		for i := 0; i < players; i++ {
			for j := i + 1; j < players; j++ {
				a := fmt.Sprintf("Player %d", i+1)
				b := fmt.Sprintf("Player %d", j+1)
				So(h.Record(a, b), ShouldBeTrue)
			}
		}

		Convey("Then every pair is counted exactly once", func() {
			So(h.Len(), ShouldEqual, players*(players-1)/2)
			So(len(h.Partners("Player 1")), ShouldEqual, players-1)
		})
	})
}
