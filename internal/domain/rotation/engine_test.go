package rotation_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/openplayhq/rally/internal/domain/court"
	"github.com/openplayhq/rally/internal/domain/model"
	rotation "github.com/openplayhq/rally/internal/domain/rotation"
	session "github.com/openplayhq/rally/internal/domain/session"
	"github.com/openplayhq/rally/internal/domain/streak"
	. "github.com/smartystreets/goconvey/convey"
)

var gameTime = time.Date(2025, 6, 14, 18, 30, 0, 0, time.UTC)

// fixedEngine returns an engine with a frozen clock and sequential ids.
func fixedEngine() *rotation.Engine {
	n := 0

	return rotation.New(
		rotation.WithClock(func() time.Time { return gameTime }),
		rotation.WithIDSource(func() string {
			n++

			return fmt.Sprintf("game-%d", n)
		}),
	)
}

// named builds a session with the given roster, everyone waiting.
func named(names []string, courts, maxStreak int) *session.State {
	st := session.NewDefault(session.Settings{
		MaxConsecutiveGames: maxStreak,
		NumCourts:           courts,
		NumPlayers:          len(names),
		ScoreToWin:          11,
	})
	st.ReplaceRoster(names)
	st.Queue.Rebuild(names)

	return st
}

func TestAssignCourts(t *testing.T) {
	Convey("Given eight waiting players and two empty courts", t, func() {
		eng := fixedEngine()
		st := session.NewDefault(session.Settings{
			MaxConsecutiveGames: 2, NumCourts: 2, NumPlayers: 8, ScoreToWin: 11,
		})

		Convey("When assigning all courts", func() {
			placed := eng.AssignAll(st)

			Convey("Then both courts fill front-of-line and the queue drains", func() {
				c1, _ := st.Courts.Get(1)
				c2, _ := st.Courts.Get(2)
				So(c1, ShouldResemble, court.Court{"Player 1", "Player 2", "Player 3", "Player 4"})
				So(c2, ShouldResemble, court.Court{"Player 5", "Player 6", "Player 7", "Player 8"})
				So(st.Queue.Len(), ShouldEqual, 0)
				So(placed[1], ShouldResemble, []string{"Player 1", "Player 2", "Player 3", "Player 4"})
				So(placed[2], ShouldResemble, []string{"Player 5", "Player 6", "Player 7", "Player 8"})
			})

			Convey("Then every seated player starts a streak of one", func() {
				for _, name := range st.Courts.Seated() {
					So(st.Streaks.OnCourt(name), ShouldEqual, 1)
				}
				So(st.Check(), ShouldBeNil)
			})

			Convey("And assigning again is a no-op", func() {
				before := st.Snapshot()
				again, err := eng.AssignCourt(st, 1)

				So(err, ShouldBeNil)
				So(again, ShouldBeEmpty)
				So(eng.AssignAll(st), ShouldBeEmpty)
				So(st.Snapshot(), ShouldResemble, before)
			})
		})
	})

	Convey("Given fewer players than slots", t, func() {
		eng := fixedEngine()
		st := named([]string{"Ana", "Ben", "Cal", "Dee", "Eve", "Fay"}, 2, 2)

		Convey("When assigning all courts", func() {
			eng.AssignAll(st)

			Convey("Then the last court is left partially filled", func() {
				c2, _ := st.Courts.Get(2)
				So(c2, ShouldResemble, court.Court{"Eve", "Fay", "", ""})
				So(st.Queue.Len(), ShouldEqual, 0)
				So(st.Check(), ShouldBeNil)
			})
		})
	})

	Convey("Given a court with scattered vacancies", t, func() {
		eng := fixedEngine()
		st := named([]string{"Ana", "Ben", "Cal", "Dee"}, 1, 2)
		st.Queue.Rebuild([]string{"Cal", "Dee"})
		st.Courts.Set(1, court.Court{"Ana", "", "Ben", ""})
		st.Streaks.Seat("Ana")
		st.Streaks.Seat("Ben")

		Convey("When assigning the court", func() {
			placed, err := eng.AssignCourt(st, 1)

			Convey("Then vacancies fill in slot order from the queue front", func() {
				So(err, ShouldBeNil)
				So(placed, ShouldResemble, []string{"Cal", "Dee"})
				c, _ := st.Courts.Get(1)
				So(c, ShouldResemble, court.Court{"Ana", "Cal", "Ben", "Dee"})
			})
		})
	})

	Convey("Given an unknown court id", t, func() {
		eng := fixedEngine()
		st := session.NewDefault(session.DefaultSettings())

		_, err := eng.AssignCourt(st, 9)
		So(errors.Is(err, rotation.ErrUnknownCourt), ShouldBeTrue)
	})
}

func TestProcessWinWinnersStay(t *testing.T) {
	Convey("Given a full court with winners under the streak cap", t, func() {
		eng := fixedEngine()
		st := named([]string{"Ana", "Ben", "Cal", "Dee", "Eve", "Fay"}, 1, 2)
		eng.AssignCourt(st, 1)
		st.Pairings.Record("Ana", "Eve")

		Convey("When team one wins", func() {
			res, err := eng.ProcessWin(st, 1, []string{"Ana", "Ben"})

			Convey("Then the game is logged with the injected clock and id", func() {
				So(err, ShouldBeNil)
				So(res.Record.ID, ShouldEqual, "game-1")
				So(res.Record.PlayedAt, ShouldEqual, gameTime)
				So(res.Record.Court, ShouldEqual, 1)
				So(res.Record.Team1, ShouldResemble, model.Team{"Ana", "Ben"})
				So(res.Record.Team2, ShouldResemble, model.Team{"Cal", "Dee"})
				So(res.Record.Winners, ShouldResemble, model.Team{"Ana", "Ben"})
				So(len(st.History), ShouldEqual, 1)
			})

			Convey("Then both teams' pairings are recorded", func() {
				So(res.NewPairings, ShouldEqual, 2)
				So(st.Pairings.HasPaired("Ana", "Ben"), ShouldBeTrue)
				So(st.Pairings.HasPaired("Cal", "Dee"), ShouldBeTrue)
			})

			Convey("Then losers are benched and requeued", func() {
				So(res.Requeued, ShouldResemble, []string{"Cal", "Dee"})
				So(st.Streaks.OnCourt("Dee"), ShouldEqual, 0)
			})

			Convey("Then winners split across the new teams", func() {
				So(res.Kept, ShouldResemble, []string{"Ana", "Ben"})
				c, _ := st.Courts.Get(1)
				So(c[0], ShouldEqual, "Ana")
				So(c[2], ShouldEqual, "Ben")
			})

			Convey("Then vacancies fill from the queue, steering past teammates apart", func() {
				// Eve has teamed with Ana before, so she is skipped
				// for Ana's side and returns to the tail.
				c, _ := st.Courts.Get(1)
				So(c, ShouldResemble, court.Court{"Ana", "Fay", "Ben", "Cal"})
				So(res.Placed, ShouldResemble, []string{"Fay", "Cal"})
				So(st.Queue.Names(), ShouldResemble, []string{"Dee", "Eve"})
			})

			Convey("Then streaks and lifetime counters land right", func() {
				So(st.Streaks.Get("Ana"), ShouldResemble, streak.State{OnCourt: 1, Overall: 1})
				So(st.Streaks.Get("Fay"), ShouldResemble, streak.State{OnCourt: 1, Overall: 0})
				So(st.Streaks.Get("Dee"), ShouldResemble, streak.State{OnCourt: 0, Overall: 1})
				So(st.Check(), ShouldBeNil)
			})
		})

		Convey("When the winners are given in reverse order", func() {
			res, err := eng.ProcessWin(st, 1, []string{"Ben", "Ana"})

			Convey("Then the team still matches", func() {
				So(err, ShouldBeNil)
				So(res.Record.Winners, ShouldResemble, model.Team{"Ana", "Ben"})
			})
		})
	})
}

func TestProcessWinWinnersRotateOut(t *testing.T) {
	Convey("Given winners already at the streak cap", t, func() {
		eng := fixedEngine()
		st := named([]string{"Ana", "Ben", "Cal", "Dee", "Eve", "Fay"}, 1, 2)
		eng.AssignCourt(st, 1)
		st.Streaks.Restore(map[string]streak.State{
			"Ana": {OnCourt: 2}, "Ben": {OnCourt: 2},
			"Cal": {OnCourt: 1}, "Dee": {OnCourt: 1},
		})

		Convey("When team one wins", func() {
			res, err := eng.ProcessWin(st, 1, []string{"Ana", "Ben"})

			Convey("Then nobody is kept and losers enqueue ahead of winners", func() {
				So(err, ShouldBeNil)
				So(res.Kept, ShouldBeEmpty)
				So(res.Requeued, ShouldResemble, []string{"Cal", "Dee", "Ana", "Ben"})
			})

			Convey("Then the court refills from the queue front", func() {
				// Dee conflicts with Cal from the game just logged and
				// is passed over for Cal's side.
				c, _ := st.Courts.Get(1)
				So(c, ShouldResemble, court.Court{"Eve", "Fay", "Cal", "Ana"})
				So(res.Placed, ShouldResemble, []string{"Eve", "Fay", "Cal", "Ana"})
				So(st.Queue.Names(), ShouldResemble, []string{"Ben", "Dee"})
			})

			Convey("Then benched winners carry no streak", func() {
				So(st.Streaks.OnCourt("Ben"), ShouldEqual, 0)
				So(st.Streaks.OnCourt("Ana"), ShouldEqual, 1)
				So(st.Check(), ShouldBeNil)
			})
		})
	})
}

func TestProcessWinValidation(t *testing.T) {
	Convey("Given a seated court and a waiting player", t, func() {
		eng := fixedEngine()
		st := named([]string{"Ana", "Ben", "Cal", "Dee", "Eve", "Fay"}, 1, 2)
		eng.AssignCourt(st, 1)
		before := st.Snapshot()

		check := func(winners []string, want error) {
			_, err := eng.ProcessWin(st, 1, winners)
			So(errors.Is(err, want), ShouldBeTrue)
			So(st.Snapshot(), ShouldResemble, before)
		}

		Convey("When a winner is not seated on the court", func() {
			check([]string{"Ana", "Eve"}, rotation.ErrInvalidWinners)
		})

		Convey("When a winner is a complete stranger", func() {
			check([]string{"Ana", "Zoe"}, rotation.ErrInvalidWinners)
		})

		Convey("When winners straddle the two teams", func() {
			check([]string{"Ana", "Cal"}, rotation.ErrInvalidWinners)
		})

		Convey("When too few names are given", func() {
			check([]string{"Ana"}, rotation.ErrInvalidWinnerCount)
			check(nil, rotation.ErrInvalidWinnerCount)
		})

		Convey("When the same name is given twice", func() {
			check([]string{"Ana", "Ana"}, rotation.ErrInvalidWinnerCount)
		})

		Convey("When too many names are given", func() {
			check([]string{"Ana", "Ben", "Cal"}, rotation.ErrInvalidWinnerCount)
		})

		Convey("When the court does not exist", func() {
			_, err := eng.ProcessWin(st, 9, []string{"Ana", "Ben"})
			So(errors.Is(err, rotation.ErrUnknownCourt), ShouldBeTrue)
			So(st.Snapshot(), ShouldResemble, before)
		})
	})
}

func TestProcessWinPartialCourt(t *testing.T) {
	Convey("Given a court with an empty slot on the losing side", t, func() {
		eng := fixedEngine()
		st := named([]string{"Ana", "Ben", "Cal"}, 1, 2)
		eng.AssignCourt(st, 1)

		c, _ := st.Courts.Get(1)
		So(c, ShouldResemble, court.Court{"Ana", "Ben", "Cal", ""})

		Convey("When the full team wins", func() {
			res, err := eng.ProcessWin(st, 1, []string{"Ana", "Ben"})

			Convey("Then the empty slot is skipped everywhere", func() {
				So(err, ShouldBeNil)
				So(res.NewPairings, ShouldEqual, 1)
				So(res.Requeued, ShouldResemble, []string{"Cal"})
				So(res.Record.Team2, ShouldResemble, model.Team{"Cal", ""})
				So(res.Record.Participants(), ShouldResemble, []string{"Ana", "Ben", "Cal"})
			})

			Convey("Then the lone waiting player is seated again", func() {
				c, _ := st.Courts.Get(1)
				So(c, ShouldResemble, court.Court{"Ana", "Cal", "Ben", ""})
				So(st.Queue.Len(), ShouldEqual, 0)
				So(st.Check(), ShouldBeNil)
			})
		})

		Convey("When a short-handed team wins", func() {
			st.Courts.Set(1, court.Court{"Ana", "", "Ben", "Cal"})

			res, err := eng.ProcessWin(st, 1, []string{"Ben", "Cal"})

			Convey("Then the lone loser is requeued", func() {
				So(err, ShouldBeNil)
				So(res.Record.Winners, ShouldResemble, model.Team{"Ben", "Cal"})
				So(res.Requeued, ShouldResemble, []string{"Ana"})
			})
		})
	})
}

func TestFourPlayerPartnerRotation(t *testing.T) {
	Convey("Given four players, one court, and a cap of one game", t, func() {
		eng := fixedEngine()
		st := named([]string{"Ana", "Ben", "Cal", "Dee"}, 1, 1)
		eng.AssignCourt(st, 1)

		winCurrentTeam1 := func() {
			c, _ := st.Courts.Get(1)
			_, err := eng.ProcessWin(st, 1, []string{c[0], c[1]})
			So(err, ShouldBeNil)
			So(st.Check(), ShouldBeNil)
		}

		Convey("When rounds are played back to back", func() {
			winCurrentTeam1()
			c, _ := st.Courts.Get(1)
			So(c, ShouldResemble, court.Court{"Cal", "Ana", "Ben", "Dee"})

			winCurrentTeam1()
			c, _ = st.Courts.Get(1)
			So(c, ShouldResemble, court.Court{"Ben", "Cal", "Ana", "Dee"})

			Convey("Then partners rotate until every pair has played", func() {
				winCurrentTeam1()
				c, _ := st.Courts.Get(1)

				// All six pairs exist now; the refill falls back to
				// plain front-of-queue order rather than stalling.
				So(st.Pairings.Len(), ShouldEqual, 6)
				So(c.Full(), ShouldBeTrue)
				So(st.Queue.Len(), ShouldEqual, 0)
				So(len(st.History), ShouldEqual, 3)
			})
		})
	})
}

func TestSkippedPlayersWait(t *testing.T) {
	Convey("Given a waiting player who has teamed with a kept winner", t, func() {
		eng := fixedEngine()
		st := named([]string{"Ana", "Ben", "Cal", "Dee", "Eve"}, 1, 2)
		eng.AssignCourt(st, 1)
		st.Pairings.Record("Ana", "Eve")

		Convey("When the court turns over", func() {
			_, err := eng.ProcessWin(st, 1, []string{"Ana", "Ben"})

			Convey("Then the conflicted player stays in line and a later player is seated", func() {
				So(err, ShouldBeNil)
				c, _ := st.Courts.Get(1)
				So(c, ShouldResemble, court.Court{"Ana", "Cal", "Ben", "Dee"})
				So(st.Queue.Names(), ShouldResemble, []string{"Eve"})
			})
		})
	})
}

func TestWinnersNeverAccrueStreakWhileSeated(t *testing.T) {
	Convey("Given a streak cap of two", t, func() {
		eng := fixedEngine()
		st := named([]string{
			"Ana", "Ben", "Cal", "Dee", "Eve", "Fay", "Gil", "Hal",
		}, 1, 2)
		eng.AssignCourt(st, 1)

		Convey("When the slot-zero player keeps winning with rotating partners", func() {
			for round := 0; round < 3; round++ {
				c, _ := st.Courts.Get(1)
				So(c[0], ShouldEqual, "Ana")
				_, err := eng.ProcessWin(st, 1, []string{c[0], c[1]})
				So(err, ShouldBeNil)
			}

			Convey("Then they stay seated with a streak pinned at one", func() {
				So(st.Seated("Ana"), ShouldBeTrue)
				So(st.Streaks.Get("Ana"), ShouldResemble, streak.State{OnCourt: 1, Overall: 3})
				So(st.Check(), ShouldBeNil)
			})
		})
	})
}

func TestRebuildQueue(t *testing.T) {
	Convey("Given seated, waiting, and inactive players", t, func() {
		eng := fixedEngine()
		st := session.NewDefault(session.Settings{
			MaxConsecutiveGames: 2, NumCourts: 1, NumPlayers: 8, ScoreToWin: 11,
		})
		eng.AssignCourt(st, 1)
		So(st.SetActive("Player 1", false), ShouldBeNil)
		So(st.SetActive("Player 5", false), ShouldBeNil)

		Convey("When rebuilding the queue", func() {
			n := eng.RebuildQueue(st)

			Convey("Then only active unseated players wait, in roster order", func() {
				So(n, ShouldEqual, 3)
				So(st.Queue.Names(), ShouldResemble, []string{"Player 6", "Player 7", "Player 8"})
			})

			Convey("Then seated players stay seated, even inactive ones", func() {
				So(st.Seated("Player 1"), ShouldBeTrue)
				So(st.Check(), ShouldBeNil)
			})
		})
	})
}

func TestRotationInvariantsUnderChurn(t *testing.T) {
	Convey("Given an odd-sized group on two courts", t, func() {
		eng := fixedEngine()
		st := named([]string{
			"Ana", "Ben", "Cal", "Dee", "Eve", "Fay", "Gil", "Hal", "Ivy",
		}, 2, 2)
		eng.AssignAll(st)

		Convey("When many rounds are processed", func() {
			for round := 0; round < 20; round++ {
				for _, id := range st.Courts.IDs() {
					c, _ := st.Courts.Get(id)
					if !c.Team1().Complete() {
						continue
					}
					_, err := eng.ProcessWin(st, id, []string{c[0], c[1]})
					So(err, ShouldBeNil)
					So(st.Check(), ShouldBeNil)
				}
			}

			Convey("Then placement and streak invariants survive throughout", func() {
				So(st.Check(), ShouldBeNil)
				So(len(st.History), ShouldEqual, 40)
				So(st.Queue.Len(), ShouldEqual, 1)
			})
		})
	})
}
