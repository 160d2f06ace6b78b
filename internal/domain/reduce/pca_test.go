package reduce_test

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"testing"

	"github.com/okian/playersim/internal/domain/features"
	"github.com/okian/playersim/internal/domain/reduce"
	. "github.com/smartystreets/goconvey/convey"
)

// synthetic builds n rows over p columns where the first two columns carry
// most of the variance and the last column is constant.
func synthetic(n, p int, seed int64) features.Matrix {
	rng := rand.New(rand.NewSource(seed)) //nolint:gosec // deterministic test data
	cols := make([]features.Column, p)
	for j := range cols {
		cols[j] = features.Column{Name: fmt.Sprintf("f%d", j)}
	}
	ids := make([]string, n)
	values := make([][]float64, n)
	for i := range values {
		ids[i] = fmt.Sprintf("p%03d", i)
		a, b := rng.NormFloat64()*10, rng.NormFloat64()*5
		row := make([]float64, p)
		for j := range row {
			switch {
			case j == p-1:
				row[j] = 1
			case j%2 == 0:
				row[j] = a + rng.NormFloat64()*0.1
			default:
				row[j] = b + rng.NormFloat64()*0.1
			}
		}
		values[i] = row
	}
	m, err := features.NewMatrix(features.NewSchema(cols), ids, values)
	if err != nil {
		panic(err)
	}
	return m
}

func TestReducer(t *testing.T) {
	Convey("Given a reducer with default settings", t, func() {
		r := reduce.NewReducer()

		Convey("Then cohorts of 10 are too small and 11 are enough", func() {
			So(r.Enabled(10), ShouldBeFalse)
			So(r.Enabled(11), ShouldBeTrue)
			_, err := r.Reduce(synthetic(10, 6, 1))
			So(errors.Is(err, reduce.ErrCohortTooSmall), ShouldBeTrue)
		})

		Convey("When reducing a cohort with two latent factors", func() {
			m := synthetic(60, 9, 2)
			res, err := r.Reduce(m)
			So(err, ShouldBeNil)

			Convey("Then few components cover the variance target", func() {
				So(res.Components, ShouldBeBetweenOrEqual, 1, 3)
				So(res.Explained, ShouldBeGreaterThanOrEqualTo, 0.9)
				So(len(res.Vectors), ShouldEqual, 60)
				So(len(res.Vectors[0]), ShouldEqual, res.Components)
			})

			Convey("Then a repeat run is bit-for-bit identical", func() {
				again, err := r.Reduce(m)
				So(err, ShouldBeNil)
				So(again.Vectors, ShouldResemble, res.Vectors)
			})

			Convey("Then projected columns are centred", func() {
				for c := 0; c < res.Components; c++ {
					var sum float64
					for _, v := range res.Vectors {
						sum += v[c]
					}
					So(math.Abs(sum/60), ShouldBeLessThan, 1e-9)
				}
			})
		})

		Convey("When components are capped", func() {
			capped := reduce.NewReducer(reduce.WithMaxComponents(1), reduce.WithVarianceThreshold(1))
			res, err := capped.Reduce(synthetic(30, 9, 3))
			So(err, ShouldBeNil)
			So(res.Components, ShouldEqual, 1)
		})

		Convey("When the cohort is barely above the minimum", func() {
			res, err := reduce.NewReducer(reduce.WithVarianceThreshold(1)).Reduce(synthetic(11, 30, 4))
			So(err, ShouldBeNil)
			So(res.Components, ShouldBeLessThanOrEqualTo, 10)
		})
	})
}

func TestDegenerate(t *testing.T) {
	Convey("Given a matrix with constant and empty columns", t, func() {
		schema := features.NewSchema([]features.Column{{Name: "const"}, {Name: "var"}, {Name: "empty"}})
		nan := features.Absent()
		m, err := features.NewMatrix(schema, []string{"a", "b", "c"}, [][]float64{
			{5, 1, nan},
			{5, 2, nan},
			{nan, 3, nan},
		})
		So(err, ShouldBeNil)
		So(reduce.Degenerate(m), ShouldResemble, []int{0, 2})
	})
}
