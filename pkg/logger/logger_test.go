package logger_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/okian/playersim/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestLogger(t *testing.T) {
	ctx := context.Background()

	Convey("Given a logger writing to a buffer", t, func() {
		var buf bytes.Buffer
		So(logger.Init(logger.WithOutput(&buf)), ShouldBeNil)

		Convey("When logging with fields", func() {
			logger.Get().Info(ctx, "cohort prepared", logger.String("cohort", "WR:season:2024-2024@2024"), logger.Int("size", 42))

			Convey("Then the line carries the fields and the call site", func() {
				out := buf.String()
				So(out, ShouldContainSubstring, "cohort prepared")
				So(out, ShouldContainSubstring, "size=42")
				So(out, ShouldContainSubstring, "source=")
				So(out, ShouldContainSubstring, "logger_test.go")
			})
		})

		Convey("When the level is raised", func() {
			So(logger.SetLevelString("warn"), ShouldBeNil)
			logger.Get().Info(ctx, "hidden")
			logger.Get().Warn(ctx, "shown", logger.Error(errors.New("boom")))

			Convey("Then only lines at or above it are written", func() {
				So(buf.String(), ShouldNotContainSubstring, "hidden")
				So(buf.String(), ShouldContainSubstring, "boom")
			})
			So(logger.SetLevelString("info"), ShouldBeNil)
		})

		Convey("When using a named child with bound fields", func() {
			logger.Named("service").With(logger.String("query_id", "q1")).Info(ctx, "done")
			So(buf.String(), ShouldContainSubstring, "query_id=q1")
		})

		Convey("Unknown levels are rejected", func() {
			So(logger.SetLevelString("loud"), ShouldNotBeNil)
		})
	})

	Convey("Given JSON output", t, func() {
		var buf bytes.Buffer
		So(logger.Init(logger.WithOutput(&buf), logger.WithJSON()), ShouldBeNil)
		logger.Get().Info(ctx, "json line", logger.Bool("degraded", true))
		So(buf.String(), ShouldContainSubstring, `"degraded":true`)
	})

	Convey("Discard never panics", t, func() {
		So(func() { logger.Discard().Error(ctx, "x") }, ShouldNotPanic)
	})
}
