package repository_test

import (
	"context"
	"errors"
	"testing"

	"github.com/okian/playersim/internal/adapters/repository"
	"github.com/okian/playersim/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func sampleRows() []model.PlayerGameRow {
	return []model.PlayerGameRow{
		{
			PlayerID: "wr-1", Name: "First Receiver", Season: 2024, Week: 2, Position: model.PositionWR,
			Stats:        map[model.StatField]float64{model.StatTargets: 9, model.StatReceptions: 0, model.StatRoutes: 31},
			RoutesSource: model.RoutesMeasured,
		},
		{
			PlayerID: "wr-1", Name: "First Receiver", Season: 2024, Week: 1, Position: model.PositionWR,
			Stats: map[model.StatField]float64{model.StatTargets: 5},
		},
		{
			PlayerID: "wr-1", Name: "First Receiver", Season: 2015, Week: 1, Position: model.PositionWR,
			Stats:        map[model.StatField]float64{model.StatTargets: 4, model.StatRoutes: 18},
			RoutesSource: model.RoutesEstimated,
		},
		{
			PlayerID: "qb-1", Name: "Passer", Season: 2024, Week: 1, Position: model.PositionQB,
			Stats: map[model.StatField]float64{model.StatAttempts: 33},
		},
	}
}

func TestSQLiteStore(t *testing.T) {
	ctx := context.Background()

	Convey("Given an in-memory SQLite store with rows", t, func() {
		store, err := repository.OpenSQLite(":memory:")
		So(err, ShouldBeNil)
		defer store.Close()
		So(store.Insert(ctx, sampleRows()), ShouldBeNil)

		Convey("When loading a position and season range", func() {
			rows, err := store.Rows(ctx, repository.CohortQuery{Position: model.PositionWR, FromSeason: 2020, ToSeason: 2024})
			So(err, ShouldBeNil)

			Convey("Then only matching rows come back, ordered by week", func() {
				So(len(rows), ShouldEqual, 2)
				So(rows[0].Week, ShouldEqual, 1)
				So(rows[1].Week, ShouldEqual, 2)
				So(rows[0].Name, ShouldEqual, "First Receiver")
			})

			Convey("Then NULL columns are absent and recorded zeros are present", func() {
				_, ok := rows[0].Stat(model.StatRoutes)
				So(ok, ShouldBeFalse)
				v, ok := rows[1].Stat(model.StatReceptions)
				So(ok, ShouldBeTrue)
				So(v, ShouldEqual, 0)
				So(rows[1].RoutesSource, ShouldEqual, model.RoutesMeasured)
				So(rows[0].RoutesSource, ShouldEqual, model.RoutesNone)
			})
		})

		Convey("When a row is written again", func() {
			again := sampleRows()[:1]
			again[0].Stats = map[model.StatField]float64{model.StatTargets: 12}
			So(store.Insert(ctx, again), ShouldBeNil)

			Convey("Then it replaces the earlier row", func() {
				rows, err := store.Rows(ctx, repository.CohortQuery{Position: model.PositionWR, FromSeason: 2024, ToSeason: 2024})
				So(err, ShouldBeNil)
				So(len(rows), ShouldEqual, 2)
				v, _ := rows[1].Stat(model.StatTargets)
				So(v, ShouldEqual, 12)
			})
		})

		Convey("When listing seasons", func() {
			seasons, err := store.Seasons(ctx)
			So(err, ShouldBeNil)
			So(seasons, ShouldResemble, []int{2015, 2024})
		})

		Convey("When the range is inverted", func() {
			_, err := store.Rows(ctx, repository.CohortQuery{Position: model.PositionWR, FromSeason: 2024, ToSeason: 2020})
			So(errors.Is(err, repository.ErrInvalidRange), ShouldBeTrue)
		})
	})
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()

	Convey("Given a memory store with rows", t, func() {
		store := repository.NewMemoryStore()
		So(store.Insert(ctx, sampleRows()), ShouldBeNil)
		So(store.Len(), ShouldEqual, 4)

		Convey("Then rows are filtered and ordered like the SQL stores", func() {
			rows, err := store.Rows(ctx, repository.CohortQuery{Position: model.PositionWR, FromSeason: 2010, ToSeason: 2024})
			So(err, ShouldBeNil)
			So(len(rows), ShouldEqual, 3)
			So(rows[0].Season, ShouldEqual, 2015)
			So(rows[1].Week, ShouldEqual, 1)
			So(rows[2].Week, ShouldEqual, 2)
		})
	})
}
