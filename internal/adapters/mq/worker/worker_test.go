package worker_test

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/hackarena/podium/internal/adapters/mq/queue"
	"github.com/hackarena/podium/internal/adapters/mq/worker"
	"github.com/hackarena/podium/internal/domain/model"
	"github.com/hackarena/podium/pkg/logger"
)

func init() {
	_ = logger.Init()
}

type captureSender struct {
	mu   sync.Mutex
	sent []model.Notification
	fail bool
}

func (c *captureSender) Send(_ context.Context, n model.Notification) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail {
		return errors.New("delivery refused")
	}
	c.sent = append(c.sent, n)
	return nil
}

func (c *captureSender) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.sent)
}

func TestWorkerDispatch(t *testing.T) {
	Convey("Given a worker reading from a queue", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		q := queue.NewInMemoryQueue(queue.WithCapacity(100), queue.WithBufferSize(100))
		sender := &captureSender{}
		w := worker.NewInMemoryWorker(q, sender, worker.WithName("test-worker"))

		Convey("When notifications are enqueued", func() {
			go w.Run(ctx)
			for i := 0; i < 5; i++ {
				So(q.Enqueue(ctx, model.Notification{ID: strconv.Itoa(i), UserID: "team-1"}), ShouldBeTrue)
			}

			Convey("Then they should all be delivered", func() {
				deadline := time.Now().Add(2 * time.Second)
				for sender.count() < 5 && time.Now().Before(deadline) {
					time.Sleep(10 * time.Millisecond)
				}
				So(sender.count(), ShouldEqual, 5)
			})
		})

		Convey("When the sender fails", func() {
			sender.fail = true
			go w.Run(ctx)
			So(q.Enqueue(ctx, model.Notification{ID: "bad", UserID: "team-1"}), ShouldBeTrue)

			Convey("Then the worker keeps running", func() {
				time.Sleep(50 * time.Millisecond)
				So(sender.count(), ShouldEqual, 0)

				sender.mu.Lock()
				sender.fail = false
				sender.mu.Unlock()
				So(q.Enqueue(ctx, model.Notification{ID: "ok", UserID: "team-1"}), ShouldBeTrue)

				deadline := time.Now().Add(2 * time.Second)
				for sender.count() < 1 && time.Now().Before(deadline) {
					time.Sleep(10 * time.Millisecond)
				}
				So(sender.count(), ShouldEqual, 1)
			})
		})
	})
}

func TestPoolShutdown(t *testing.T) {
	Convey("Given a worker pool", t, func() {
		ctx := context.Background()

		q := queue.NewInMemoryQueue(queue.WithCapacity(100), queue.WithBufferSize(100))
		sender := &captureSender{}
		pool := worker.NewPool(4, q, sender)
		pool.Start(ctx)

		Convey("When shutting down with a backlog", func() {
			for i := 0; i < 20; i++ {
				So(q.Enqueue(ctx, model.Notification{ID: strconv.Itoa(i)}), ShouldBeTrue)
			}

			err := pool.Shutdown(ctx)

			Convey("Then the backlog drains and shutdown completes", func() {
				So(err, ShouldBeNil)
				So(q.IsClosed(), ShouldBeTrue)
				So(sender.count(), ShouldEqual, 20)
			})
		})
	})
}
