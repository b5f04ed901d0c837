package queue_test

import (
	"context"
	"strconv"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/hackarena/podium/internal/adapters/mq/queue"
	"github.com/hackarena/podium/internal/domain/model"
)

func TestEnqueueDequeue(t *testing.T) {
	Convey("Given an in-memory queue", t, func() {
		ctx := context.Background()
		q := queue.NewInMemoryQueue(queue.WithCapacity(10), queue.WithBufferSize(10))

		Convey("When enqueuing a notification", func() {
			ok := q.Enqueue(ctx, model.Notification{ID: "n1", UserID: "team-1", Message: "hello"})

			Convey("Then it should be accepted and become available", func() {
				So(ok, ShouldBeTrue)
				So(q.Len(ctx), ShouldEqual, 1)

				items := q.Dequeue(ctx)
				select {
				case n := <-items:
					So(n.ID, ShouldEqual, "n1")
					So(n.UserID, ShouldEqual, "team-1")
				case <-time.After(time.Second):
					t.Fatal("expected a notification")
				}
			})
		})

		Convey("When the queue is at capacity", func() {
			small := queue.NewInMemoryQueue(queue.WithCapacity(2), queue.WithBufferSize(2))
			So(small.Enqueue(ctx, model.Notification{ID: "a"}), ShouldBeTrue)
			So(small.Enqueue(ctx, model.Notification{ID: "b"}), ShouldBeTrue)

			Convey("Then further enqueues report backpressure", func() {
				So(small.Enqueue(ctx, model.Notification{ID: "c"}), ShouldBeFalse)
				So(small.Len(ctx), ShouldEqual, 2)
			})
		})
	})
}

func TestQueueClose(t *testing.T) {
	Convey("Given an in-memory queue", t, func() {
		ctx := context.Background()
		q := queue.NewInMemoryQueue(queue.WithCapacity(10), queue.WithBufferSize(10))

		Convey("When closing it", func() {
			So(q.Close(), ShouldBeNil)

			Convey("Then it reports closed and rejects new notifications", func() {
				So(q.IsClosed(), ShouldBeTrue)
				So(q.Enqueue(ctx, model.Notification{ID: "late"}), ShouldBeFalse)
			})

			Convey("And closing again is a no-op", func() {
				So(q.Close(), ShouldBeNil)
			})
		})

		Convey("When closing with queued notifications", func() {
			for i := 0; i < 5; i++ {
				So(q.Enqueue(ctx, model.Notification{ID: strconv.Itoa(i)}), ShouldBeTrue)
			}
			So(q.Close(), ShouldBeNil)

			Convey("Then consumers drain the backlog before the channel closes", func() {
				items := q.Dequeue(ctx)
				var got int
				for range items {
					got++
				}
				So(got, ShouldEqual, 5)
			})
		})
	})
}
