package worker_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/okian/playersim/internal/adapters/mq/queue"
	"github.com/okian/playersim/internal/adapters/mq/worker"
	"github.com/okian/playersim/internal/domain/model"
	"github.com/okian/playersim/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

type recordingWarmer struct {
	mu   sync.Mutex
	keys []model.CohortKey
	fail model.Position
}

func (r *recordingWarmer) Warm(_ context.Context, key model.CohortKey) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.keys = append(r.keys, key)
	if key.Position == r.fail {
		return errors.New("load failed")
	}
	return nil
}

func (r *recordingWarmer) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.keys)
}

func TestPool(t *testing.T) {
	Convey("Given a pool draining a queue of warm-up jobs", t, func() {
		ctx := context.Background()
		q := queue.NewInMemoryQueue(queue.WithCapacity(8))
		w := &recordingWarmer{fail: model.PositionTE}
		pool := worker.NewPool(3, q, w, worker.WithLogger(logger.Discard()))
		So(pool.Size(), ShouldEqual, 3)

		for _, pos := range model.Positions {
			So(q.Enqueue(ctx, queue.Job{Key: model.CohortKey{Position: pos, Scope: model.ScopeCareer, FromSeason: 1999, ToSeason: 2024, ReferenceSeason: 2024}}), ShouldBeTrue)
		}
		pool.Start(ctx)

		Convey("When the pool shuts down", func() {
			So(pool.Shutdown(ctx), ShouldBeNil)

			Convey("Then every job was handed to the warmer, failures included", func() {
				So(w.count(), ShouldEqual, len(model.Positions))
				So(q.IsClosed(), ShouldBeTrue)
			})

			Convey("Then a second shutdown is a no-op", func() {
				So(pool.Shutdown(ctx), ShouldBeNil)
			})
		})
	})

	Convey("Given a worker whose context is cancelled", t, func() {
		q := queue.NewInMemoryQueue()
		w := worker.New(q, &recordingWarmer{}, worker.WithLogger(logger.Discard()))
		ctx, cancel := context.WithCancel(context.Background())
		go w.Run(ctx)
		cancel()

		select {
		case <-w.Done():
		case <-time.After(time.Second):
			t.Fatal("worker did not stop")
		}
		So(q.IsClosed(), ShouldBeFalse)
	})
}
