package scoring_test

import (
	"math"
	"math/rand"
	"testing"

	scoring "github.com/okian/playersim/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

func TestBlendedScorer_Phase1(t *testing.T) {
	Convey("Given a blended scorer", t, func() {
		s := scoring.NewBlendedScorer()
		weights := []float64{1.0, 1.5, 2.0}

		Convey("When a vector is compared with itself", func() {
			v := []float64{0.2, 0.5, 0.9}
			score, ok := s.Phase1(v, v, weights)
			So(ok, ShouldBeTrue)
			So(score, ShouldEqual, 100)
		})

		Convey("When vectors are at opposite ends of every column", func() {
			score, _ := s.Phase1([]float64{0, 0, 0}, []float64{0.99, 0.99, 0.99}, weights)
			So(score, ShouldAlmostEqual, 100-0.99*50)
		})

		Convey("When comparing random pairs the score is symmetric and bounded", func() {
			rng := rand.New(rand.NewSource(3)) //nolint:gosec // deterministic test data
			for i := 0; i < 200; i++ {
				a := []float64{rng.Float64(), rng.Float64(), rng.Float64()}
				b := []float64{rng.Float64(), rng.Float64(), rng.Float64()}
				if i%5 == 0 {
					a[1] = math.NaN()
				}
				ab, _ := s.Phase1(a, b, weights)
				ba, _ := s.Phase1(b, a, weights)
				So(ab, ShouldEqual, ba)
				So(ab, ShouldBeBetweenOrEqual, 0, 100)
			}
		})

		Convey("When one side of a column is absent", func() {
			nan := math.NaN()
			Convey("Then that column is skipped, not treated as zero", func() {
				score, ok := s.Phase1([]float64{0.5, nan, 0.1}, []float64{0.5, 0.9, 0.1}, weights)
				So(ok, ShouldBeTrue)
				So(score, ShouldEqual, 100)
			})
			Convey("Then no shared column is reported as not comparable", func() {
				_, ok := s.Phase1([]float64{nan, nan, nan}, []float64{0.5, 0.9, 0.1}, weights)
				So(ok, ShouldBeFalse)
			})
		})
	})
}

func TestBlendedScorer_Phase2(t *testing.T) {
	Convey("Given a blended scorer with the default bonus", t, func() {
		s := scoring.NewBlendedScorer()

		Convey("Then identical directions score 100", func() {
			So(s.Phase2([]float64{1, 2}, []float64{2, 4}, false), ShouldAlmostEqual, 100)
		})

		Convey("Then opposite directions score 0", func() {
			So(s.Phase2([]float64{1, 2}, []float64{-1, -2}, false), ShouldEqual, 0)
		})

		Convey("Then a shared cluster adds the bonus and caps at 100", func() {
			So(s.Phase2([]float64{1, 0}, []float64{1, 1}, true), ShouldAlmostEqual, 100*math.Sqrt(0.5)+10)
			So(s.Phase2([]float64{1, 0}, []float64{1, 0}, true), ShouldEqual, 100)
		})

		Convey("Then a custom bonus is applied", func() {
			c := scoring.NewBlendedScorer(scoring.WithClusterBonus(0))
			So(c.Phase2([]float64{1, 0}, []float64{0, 1}, true), ShouldEqual, 0)
		})
	})
}

func TestCosine(t *testing.T) {
	Convey("Given zero vectors", t, func() {
		So(scoring.Cosine([]float64{0, 0}, []float64{0, 0}), ShouldEqual, 1)
		So(scoring.Cosine([]float64{0, 0}, []float64{1, 0}), ShouldEqual, 0)
	})

	Convey("Given non-zero vectors", t, func() {
		So(scoring.Cosine([]float64{3, 4}, []float64{6, 8}), ShouldAlmostEqual, 1)
		So(scoring.Cosine([]float64{1, 0}, []float64{0, 2}), ShouldAlmostEqual, 0)
		So(scoring.Cosine([]float64{1, 1}, []float64{-1, -1}), ShouldAlmostEqual, -1)
	})
}

func TestBlendedScorer_Blend(t *testing.T) {
	Convey("Given the default blend", t, func() {
		s := scoring.NewBlendedScorer()
		So(s.Blend(100, 50), ShouldAlmostEqual, 80)
		So(s.Blend(100, 100), ShouldAlmostEqual, 100)

		Convey("When weights are reconfigured", func() {
			c := scoring.NewBlendedScorer(scoring.WithBlendWeights(1, 1))
			So(c.Blend(100, 50), ShouldAlmostEqual, 75)
		})

		Convey("When weights are invalid they are ignored", func() {
			c := scoring.NewBlendedScorer(scoring.WithBlendWeights(-1, 2))
			So(c.Blend(100, 50), ShouldAlmostEqual, 80)
		})
	})
}
