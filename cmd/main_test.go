package main

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/okian/playersim/internal/adapters/repository"
	"github.com/okian/playersim/internal/config"
	"github.com/okian/playersim/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestOpenSource(t *testing.T) {
	convey.Convey("Given server configuration", t, func() {
		ctx := context.Background()
		cfg := config.New()

		convey.Convey("When the driver is sqlite", func() {
			cfg.DBPath = filepath.Join(t.TempDir(), "players.db")
			src, closeFn, err := openSource(ctx, cfg)
			convey.So(err, convey.ShouldBeNil)
			defer closeFn()

			convey.Convey("Then an empty store answers with no rows", func() {
				rows, err := src.Rows(ctx, repository.CohortQuery{Position: model.PositionWR, FromSeason: 2024, ToSeason: 2024})
				convey.So(err, convey.ShouldBeNil)
				convey.So(rows, convey.ShouldBeEmpty)
			})
		})

		convey.Convey("When the driver is unknown", func() {
			cfg.DBDriver = "mongo"
			_, _, err := openSource(ctx, cfg)
			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
		})
	})
}

func TestUpdateSystemMetrics(t *testing.T) {
	convey.Convey("System metrics update without panicking", t, func() {
		convey.So(updateSystemMetrics, convey.ShouldNotPanic)
	})
}
