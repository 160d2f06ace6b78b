package cluster_test

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/okian/playersim/internal/domain/cluster"
	"github.com/okian/playersim/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func blobs(seed int64) [][]float64 {
	rng := rand.New(rand.NewSource(seed)) //nolint:gosec // deterministic test data
	centers := [][]float64{{0, 0}, {10, 10}, {-10, 10}}
	var out [][]float64
	for i := 0; i < 30; i++ {
		c := centers[i%3]
		out = append(out, []float64{c[0] + rng.NormFloat64()*0.5, c[1] + rng.NormFloat64()*0.5})
	}
	return out
}

func TestAssigner_K(t *testing.T) {
	Convey("Given the default assigner", t, func() {
		a := cluster.NewAssigner()

		Convey("Then k grows with the cohort up to the scope cap", func() {
			So(a.K(5, model.ScopeSeason), ShouldEqual, 1)
			So(a.K(11, model.ScopeSeason), ShouldEqual, 3)
			So(a.K(300, model.ScopeSeason), ShouldEqual, 6)
			So(a.K(300, model.ScopeCareer), ShouldEqual, 8)
		})

		Convey("Then the caps are configurable", func() {
			b := cluster.NewAssigner(cluster.WithMaxClusters(4, 5))
			So(b.K(300, model.ScopeSeason), ShouldEqual, 4)
			So(b.K(300, model.ScopeCareer), ShouldEqual, 5)
		})
	})
}

func TestAssigner_Assign(t *testing.T) {
	Convey("Given three well separated blobs", t, func() {
		points := blobs(1)
		a := cluster.NewAssigner(cluster.WithSeed(42))

		res, err := a.Assign(points, 3)
		So(err, ShouldBeNil)

		Convey("Then members of the same blob share a label", func() {
			for i := 3; i < len(points); i++ {
				So(res.Labels[i], ShouldEqual, res.Labels[i%3])
			}
			So(res.Labels[0], ShouldNotEqual, res.Labels[1])
			So(res.Labels[1], ShouldNotEqual, res.Labels[2])
		})

		Convey("Then the same seed gives the same labels", func() {
			again, err := cluster.NewAssigner(cluster.WithSeed(42)).Assign(points, 3)
			So(err, ShouldBeNil)
			So(again.Labels, ShouldResemble, res.Labels)
			So(again.Inertia, ShouldEqual, res.Inertia)
		})

		Convey("Then more restarts never end on a worse fit", func() {
			once, err := cluster.NewAssigner(cluster.WithSeed(7), cluster.WithRestarts(1)).Assign(points, 3)
			So(err, ShouldBeNil)
			many, err := cluster.NewAssigner(cluster.WithSeed(7), cluster.WithRestarts(20)).Assign(points, 3)
			So(err, ShouldBeNil)
			So(many.Inertia, ShouldBeLessThanOrEqualTo, once.Inertia)
		})

		Convey("Then asking for more clusters than points fails", func() {
			_, err := a.Assign(points[:2], 3)
			So(errors.Is(err, cluster.ErrTooFewPoints), ShouldBeTrue)
		})
	})

	Convey("Given identical points", t, func() {
		points := [][]float64{{1, 1}, {1, 1}, {1, 1}, {1, 1}}
		res, err := cluster.NewAssigner().Assign(points, 2)
		So(err, ShouldBeNil)
		So(res.Inertia, ShouldEqual, 0)
	})
}
