package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/okian/playersim/internal/adapters/repository"
	"github.com/okian/playersim/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

type flakySource struct {
	calls int
	err   error
}

func (f *flakySource) Rows(_ context.Context, _ repository.CohortQuery) ([]model.PlayerGameRow, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return []model.PlayerGameRow{{PlayerID: "a"}}, nil
}

func TestBreakerSource(t *testing.T) {
	ctx := context.Background()
	q := repository.CohortQuery{Position: model.PositionWR, FromSeason: 2024, ToSeason: 2024}

	Convey("Given a breaker over a failing source", t, func() {
		src := &flakySource{err: errors.New("db down")}
		b := repository.NewBreakerSource(src,
			repository.WithBreakerName("test-rows"),
			repository.WithFailureThreshold(2),
			repository.WithOpenTimeout(time.Hour),
		)

		Convey("When failures reach the threshold", func() {
			_, err := b.Rows(ctx, q)
			So(err, ShouldNotBeNil)
			_, err = b.Rows(ctx, q)
			So(err, ShouldNotBeNil)

			Convey("Then the breaker opens and stops calling the source", func() {
				_, err := b.Rows(ctx, q)
				So(errors.Is(err, repository.ErrUnavailable), ShouldBeTrue)
				So(src.calls, ShouldEqual, 2)
				So(b.State(), ShouldEqual, "open")
			})
		})
	})

	Convey("Given a breaker over a source rejecting bad ranges", t, func() {
		src := &flakySource{err: repository.ErrInvalidRange}
		b := repository.NewBreakerSource(src, repository.WithFailureThreshold(1))

		Convey("Then caller errors never open it", func() {
			for i := 0; i < 3; i++ {
				_, err := b.Rows(ctx, q)
				So(errors.Is(err, repository.ErrInvalidRange), ShouldBeTrue)
			}
			So(b.State(), ShouldEqual, "closed")
		})
	})

	Convey("Given a healthy source", t, func() {
		b := repository.NewBreakerSource(&flakySource{})
		rows, err := b.Rows(ctx, q)
		So(err, ShouldBeNil)
		So(len(rows), ShouldEqual, 1)
	})
}
