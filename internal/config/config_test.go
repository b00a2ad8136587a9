package config_test

import (
	"testing"

	"github.com/openplayhq/rally/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with defaults", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.DBPath, convey.ShouldEqual, "rally.db")
			convey.So(cfg.MaxConsecutiveGames, convey.ShouldEqual, 2)
			convey.So(cfg.NumCourts, convey.ShouldEqual, 3)
			convey.So(cfg.NumPlayers, convey.ShouldEqual, 20)
			convey.So(cfg.ScoreToWin, convey.ShouldEqual, 11)
			convey.So(cfg.MaxHistoryLimit, convey.ShouldEqual, 100)
			convey.So(cfg.MaxStandingsLimit, convey.ShouldEqual, 100)
			convey.So(cfg.SnapshotQueueSize, convey.ShouldEqual, 8)
		})
	})
}
