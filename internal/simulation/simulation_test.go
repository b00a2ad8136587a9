package simulation

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func playableCourts() []Court {
	return []Court{
		{ID: 1, Slots: []string{"A", "B", "C", "D"}, Team1: []string{"A", "B"}, Team2: []string{"C", "D"}},
		{ID: 2, Slots: []string{"E", "", "", ""}, Team1: []string{"E"}, Team2: []string{}},
	}
}

func TestGenerator(t *testing.T) {
	Convey("Given a seeded generator", t, func() {
		gen := newGenerator(42)

		Convey("When picking a round", func() {
			r, ok := gen.pickRound(playableCourts())

			Convey("Then only the complete court is playable", func() {
				So(ok, ShouldBeTrue)
				So(r.courtID, ShouldEqual, 1)
				So(len(r.winners), ShouldEqual, 2)
			})
		})

		Convey("When no court has two complete teams", func() {
			_, ok := gen.pickRound([]Court{{ID: 1, Team1: []string{"A"}, Team2: []string{}}})
			So(ok, ShouldBeFalse)
		})

		Convey("When picking a bogus round", func() {
			r, ok := gen.pickBogusRound(playableCourts())

			Convey("Then it targets a playable court with invalid winners", func() {
				So(ok, ShouldBeTrue)
				So(r.courtID, ShouldEqual, 1)
				So(len(r.winners), ShouldBeIn, []int{1, 2})
				if len(r.winners) == 2 {
					// one player from each team
					So(r.winners[0], ShouldEqual, "A")
					So(r.winners[1], ShouldEqual, "C")
				}
			})
		})

		Convey("Then two generators with the same seed agree", func() {
			a, b := newGenerator(7), newGenerator(7)
			for i := 0; i < 20; i++ {
				ra, _ := a.pickRound(playableCourts())
				rb, _ := b.pickRound(playableCourts())
				So(ra, ShouldResemble, rb)
			}
		})
	})
}

func cleanSession() *Session {
	return &Session{
		Settings: Settings{MaxConsecutiveGames: 2, NumCourts: 1, NumPlayers: 6},
		Players:  []string{"A", "B", "C", "D", "E", "F"},
		Queue:    []string{"E", "F"},
		Courts:   map[string][]string{"1": {"A", "B", "C", "D"}},
		Streaks: map[string]Streak{
			"A": {OnCourt: 1}, "B": {OnCourt: 2}, "C": {OnCourt: 1}, "D": {OnCourt: 1},
		},
		PastTeams: map[string][]string{
			"A": {"B"}, "B": {"A"},
		},
	}
}

func TestVerifySession(t *testing.T) {
	Convey("Given a consistent session", t, func() {
		s := cleanSession()

		Convey("Then verification finds nothing", func() {
			So(verifySession(s), ShouldBeEmpty)
		})

		Convey("When a player is both queued and seated", func() {
			s.Queue = append(s.Queue, "A")
			So(len(verifySession(s)), ShouldBeGreaterThan, 0)
		})

		Convey("When a player is seated twice", func() {
			s.Courts["2"] = []string{"A", "", "", ""}
			// court 2's occupant carries a streak so only the
			// duplication is reported
			found := verifySession(s)
			So(len(found), ShouldEqual, 1)
			So(found[0], ShouldContainSubstring, "A")
		})

		Convey("When a queued player carries a streak", func() {
			s.Streaks["E"] = Streak{OnCourt: 1}
			found := verifySession(s)
			So(len(found), ShouldEqual, 1)
			So(found[0], ShouldContainSubstring, "queued player E")
		})

		Convey("When a seated streak exceeds the cap", func() {
			s.Streaks["B"] = Streak{OnCourt: 3}
			found := verifySession(s)
			So(len(found), ShouldEqual, 1)
			So(found[0], ShouldContainSubstring, "streak 3")
		})

		Convey("When the pairing history is asymmetric", func() {
			s.PastTeams["C"] = []string{"D"}
			found := verifySession(s)
			So(len(found), ShouldEqual, 1)
			So(found[0], ShouldContainSubstring, "not mirrored")
		})
	})
}
