package model_test

import (
	"testing"

	model "github.com/okian/playersim/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestParsePosition(t *testing.T) {
	convey.Convey("Given position codes", t, func() {
		convey.Convey("When they are known, in any case", func() {
			p, err := model.ParsePosition(" wr ")
			convey.So(err, convey.ShouldBeNil)
			convey.So(p, convey.ShouldEqual, model.PositionWR)
		})

		convey.Convey("When they are unknown", func() {
			_, err := model.ParsePosition("K")
			convey.So(err, convey.ShouldNotBeNil)
		})

		convey.Convey("Then only receivers and backs run routes", func() {
			convey.So(model.PositionWR.RunsRoutes(), convey.ShouldBeTrue)
			convey.So(model.PositionTE.RunsRoutes(), convey.ShouldBeTrue)
			convey.So(model.PositionRB.RunsRoutes(), convey.ShouldBeTrue)
			convey.So(model.PositionQB.RunsRoutes(), convey.ShouldBeFalse)
		})
	})
}

func TestParseScope(t *testing.T) {
	convey.Convey("Given scope names", t, func() {
		s, err := model.ParseScope("Career")
		convey.So(err, convey.ShouldBeNil)
		convey.So(s, convey.ShouldEqual, model.ScopeCareer)

		_, err = model.ParseScope("decade")
		convey.So(err, convey.ShouldNotBeNil)
	})
}

func TestPlayerGameRow_Stat(t *testing.T) {
	convey.Convey("Given a row with a recorded zero and a missing stat", t, func() {
		row := model.PlayerGameRow{Stats: map[model.StatField]float64{model.StatTargets: 0}}

		convey.Convey("Then zero is present and the missing stat is absent", func() {
			v, ok := row.Stat(model.StatTargets)
			convey.So(ok, convey.ShouldBeTrue)
			convey.So(v, convey.ShouldEqual, 0)

			_, ok = row.Stat(model.StatRoutes)
			convey.So(ok, convey.ShouldBeFalse)
		})
	})
}

func TestCohortKey_String(t *testing.T) {
	convey.Convey("Given a career cohort key", t, func() {
		k := model.CohortKey{Position: model.PositionWR, Scope: model.ScopeCareer, FromSeason: 1999, ToSeason: 2024, ReferenceSeason: 2024}
		convey.So(k.String(), convey.ShouldEqual, "WR:career:1999-2024@2024")
	})
}
