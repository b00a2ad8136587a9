package model_test

import (
	"encoding/json"
	"testing"
	"time"

	model "github.com/openplayhq/rally/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestTeam(t *testing.T) {
	convey.Convey("Given a team", t, func() {
		team := model.Team{"Alice", "Bob"}

		convey.Convey("Then membership checks should work", func() {
			convey.So(team.Contains("Alice"), convey.ShouldBeTrue)
			convey.So(team.Contains("Bob"), convey.ShouldBeTrue)
			convey.So(team.Contains("Carol"), convey.ShouldBeFalse)
			convey.So(team.Contains(""), convey.ShouldBeFalse)
		})

		convey.Convey("Then completeness should reflect vacant spots", func() {
			convey.So(team.Complete(), convey.ShouldBeTrue)
			convey.So(model.Team{"Alice", ""}.Complete(), convey.ShouldBeFalse)
			convey.So(model.Team{}.Complete(), convey.ShouldBeFalse)
		})

		convey.Convey("Then equality should ignore order", func() {
			convey.So(team.Equal(model.Team{"Bob", "Alice"}), convey.ShouldBeTrue)
			convey.So(team.Equal(model.Team{"Alice", "Bob"}), convey.ShouldBeTrue)
			convey.So(team.Equal(model.Team{"Alice", "Carol"}), convey.ShouldBeFalse)
		})
	})
}

func TestGameRecordWireFormat(t *testing.T) {
	convey.Convey("Given a game record", t, func() {
		played := time.Date(2025, 6, 14, 18, 30, 0, 0, time.UTC)
		rec := model.GameRecord{
			ID:       "3f1d0c2a",
			PlayedAt: played,
			Court:    2,
			Team1:    model.Team{"Alice", "Bob"},
			Team2:    model.Team{"Carol", "Dan"},
			Winners:  model.Team{"Carol", "Dan"},
		}

		convey.Convey("When marshaled", func() {
			data, err := json.Marshal(rec)
			convey.So(err, convey.ShouldBeNil)

			convey.Convey("Then it should use the session file keys", func() {
				var raw map[string]interface{}
				convey.So(json.Unmarshal(data, &raw), convey.ShouldBeNil)
				convey.So(raw["timestamp"], convey.ShouldEqual, "2025-06-14T18:30:00Z")
				convey.So(raw["court"], convey.ShouldEqual, 2)
				convey.So(raw, convey.ShouldContainKey, "team1")
				convey.So(raw, convey.ShouldContainKey, "team2")
				convey.So(raw, convey.ShouldContainKey, "winning_team")
			})

			convey.Convey("Then it should round-trip", func() {
				var back model.GameRecord
				convey.So(json.Unmarshal(data, &back), convey.ShouldBeNil)
				convey.So(back, convey.ShouldResemble, rec)
			})
		})

		convey.Convey("When decoding a legacy record without an id", func() {
			legacy := []byte(`{"timestamp":"2025-06-14T18:30:00.123456","court":1,` +
				`"team1":["Alice","Bob"],"team2":["Carol","Dan"],"winning_team":["Alice","Bob"]}`)

			var rec model.GameRecord
			convey.So(json.Unmarshal(legacy, &rec), convey.ShouldBeNil)

			convey.Convey("Then fields should decode and the id stay empty", func() {
				convey.So(rec.ID, convey.ShouldEqual, "")
				convey.So(rec.Court, convey.ShouldEqual, 1)
				convey.So(rec.PlayedAt.IsZero(), convey.ShouldBeFalse)
				convey.So(rec.Winners, convey.ShouldResemble, model.Team{"Alice", "Bob"})
			})
		})

		convey.Convey("When decoding a malformed timestamp", func() {
			bad := []byte(`{"timestamp":"yesterday","court":1,"team1":["a","b"],"team2":["c","d"],"winning_team":["a","b"]}`)
			var rec model.GameRecord

			convey.Convey("Then it should fail", func() {
				convey.So(json.Unmarshal(bad, &rec), convey.ShouldNotBeNil)
			})
		})
	})
}

func TestGameRecordParticipants(t *testing.T) {
	convey.Convey("Given records with and without vacancies", t, func() {
		full := model.GameRecord{
			Team1: model.Team{"Alice", "Bob"},
			Team2: model.Team{"Carol", "Dan"},
		}
		partial := model.GameRecord{
			Team1: model.Team{"Alice", ""},
			Team2: model.Team{"", ""},
		}

		convey.Convey("Then participants should skip vacant slots", func() {
			convey.So(full.Participants(), convey.ShouldResemble, []string{"Alice", "Bob", "Carol", "Dan"})
			convey.So(partial.Participants(), convey.ShouldResemble, []string{"Alice"})
		})
	})
}
