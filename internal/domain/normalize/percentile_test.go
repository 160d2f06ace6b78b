package normalize_test

import (
	"context"
	"math/rand"
	"testing"

	"github.com/okian/playersim/internal/domain/features"
	"github.com/okian/playersim/internal/domain/normalize"
	. "github.com/smartystreets/goconvey/convey"
)

func TestRank(t *testing.T) {
	Convey("Given raw values with ties, an outlier and an absent cell", t, func() {
		in := []float64{10, 20, 20, 1000, features.Absent()}
		out := normalize.Rank(in)

		Convey("Then each value is the share of present values strictly below it", func() {
			So(out[0], ShouldEqual, 0)
			So(out[1], ShouldEqual, 0.25)
			So(out[2], ShouldEqual, 0.25)
			So(out[3], ShouldEqual, 0.75)
		})

		Convey("Then absent stays absent", func() {
			So(features.IsAbsent(out[4]), ShouldBeTrue)
		})

		Convey("Then the input is not modified", func() {
			So(in[3], ShouldEqual, 1000)
		})
	})
}

func TestPercentiles(t *testing.T) {
	Convey("Given a random matrix", t, func() {
		rng := rand.New(rand.NewSource(7)) //nolint:gosec // deterministic test data
		const rows, cols = 40, 6
		schema := make([]features.Column, cols)
		for j := range schema {
			schema[j] = features.Column{Name: string(rune('a' + j))}
		}
		ids := make([]string, rows)
		values := make([][]float64, rows)
		for i := range values {
			ids[i] = string(rune('A'+i%26)) + string(rune('a'+i/26))
			values[i] = make([]float64, cols)
			for j := range values[i] {
				values[i][j] = rng.NormFloat64() * 100
			}
		}
		m, err := features.NewMatrix(features.NewSchema(schema), ids, values)
		So(err, ShouldBeNil)

		out, err := normalize.Percentiles(context.Background(), m, 3)
		So(err, ShouldBeNil)

		Convey("Then every normalized value lies in [0,1)", func() {
			for i := 0; i < out.Rows(); i++ {
				for j := 0; j < out.Cols(); j++ {
					v, ok := out.At(i, j)
					So(ok, ShouldBeTrue)
					So(v, ShouldBeGreaterThanOrEqualTo, 0)
					So(v, ShouldBeLessThan, 1)
				}
			}
		})

		Convey("Then the schema and ids carry over", func() {
			So(out.Schema().Names(), ShouldResemble, m.Schema().Names())
			So(out.IDs(), ShouldResemble, m.IDs())
		})
	})
}
