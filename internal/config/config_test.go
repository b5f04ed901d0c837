package config_test

import (
	"context"
	"runtime"
	"testing"

	"github.com/hackarena/podium/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New(context.Background())

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.DatabaseURL, convey.ShouldEqual, "")
			convey.So(cfg.QualifierQuantity, convey.ShouldEqual, 8)
			convey.So(cfg.NotifyQueueSize, convey.ShouldEqual, 10_000)
			convey.So(cfg.NotifyWorkerCount, convey.ShouldEqual, runtime.NumCPU()*4)
			convey.So(cfg.MaxGroupPage, convey.ShouldEqual, 100)
		})
	})
}
