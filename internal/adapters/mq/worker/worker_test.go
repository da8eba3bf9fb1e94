package worker_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	queue "github.com/okian/fairway/internal/adapters/mq/queue"
	worker "github.com/okian/fairway/internal/adapters/mq/worker"
	model "github.com/okian/fairway/internal/domain/model"
	logging "github.com/okian/fairway/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

// Mock implementations for testing.
type mockQueue struct {
	jobs chan queue.Job
	once sync.Once
}

func newMockQueue() *mockQueue {
	return &mockQueue{jobs: make(chan queue.Job, 64)}
}

func (mq *mockQueue) Dequeue(ctx context.Context) <-chan queue.Job { return mq.jobs }

func (mq *mockQueue) Close() error {
	mq.once.Do(func() { close(mq.jobs) })
	return nil
}

func (mq *mockQueue) add(roundID string) {
	mq.jobs <- model.RecomputeJob{RoundID: roundID, UserID: "u1", EnqueuedAt: time.Now()}
}

type mockRecomputer struct {
	mu     sync.Mutex
	done   map[string]int
	errors map[string]error
	delay  time.Duration
}

func newMockRecomputer() *mockRecomputer {
	return &mockRecomputer{done: make(map[string]int), errors: make(map[string]error)}
}

func (m *mockRecomputer) Recompute(ctx context.Context, roundID string) error {
	if m.delay > 0 {
		time.Sleep(m.delay)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if err, ok := m.errors[roundID]; ok {
		return err
	}
	m.done[roundID]++
	return nil
}

func (m *mockRecomputer) setError(roundID string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors[roundID] = err
}

func (m *mockRecomputer) count(roundID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.done[roundID]
}

func (m *mockRecomputer) total() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.done {
		n += c
	}
	return n
}

func waitFor(cond func() bool) bool {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return cond()
}

func TestInMemoryWorker(t *testing.T) {
	convey.Convey("Given a new InMemoryWorker", t, func() {
		_ = logging.Init()

		q := newMockQueue()
		rec := newMockRecomputer()

		convey.Convey("When creating a worker with options", func() {
			w := worker.NewInMemoryWorker(q, rec, worker.WithName("test-worker"), worker.WithLogger(logging.Get()))

			convey.Convey("Then it should be created successfully", func() {
				convey.So(w, convey.ShouldNotBeNil)
				convey.So(w.Processed(), convey.ShouldEqual, 0)
			})
		})

		convey.Convey("When running a worker", func() {
			w := worker.NewInMemoryWorker(q, rec)
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			go w.Run(ctx)

			convey.Convey("And a job is queued", func() {
				q.add("r1")

				convey.Convey("Then the round is recomputed", func() {
					convey.So(waitFor(func() bool { return rec.count("r1") == 1 }), convey.ShouldBeTrue)
					convey.So(waitFor(func() bool { return w.Processed() == 1 }), convey.ShouldBeTrue)
				})
			})

			convey.Convey("And recompute fails", func() {
				rec.setError("bad", errors.New("boom"))
				q.add("bad")
				q.add("good")

				convey.Convey("Then the worker keeps going", func() {
					convey.So(waitFor(func() bool { return rec.count("good") == 1 }), convey.ShouldBeTrue)
					convey.So(rec.count("bad"), convey.ShouldEqual, 0)
					convey.So(w.Processed(), convey.ShouldEqual, 1)
				})
			})

			convey.Convey("And the worker is shut down", func() {
				err := w.Shutdown(context.Background())

				convey.Convey("Then it stops cleanly and repeated shutdown is safe", func() {
					convey.So(err, convey.ShouldBeNil)
					convey.So(w.Shutdown(context.Background()), convey.ShouldBeNil)
				})
			})
		})

		convey.Convey("When the queue closes", func() {
			w := worker.NewInMemoryWorker(q, rec)
			done := make(chan struct{})
			go func() {
				w.Run(context.Background())
				close(done)
			}()
			_ = q.Close()

			convey.Convey("Then Run returns", func() {
				select {
				case <-done:
				case <-time.After(time.Second):
					t.Error("worker did not stop after queue close")
				}
			})
		})
	})
}

func TestWorkerPool(t *testing.T) {
	convey.Convey("Given a new worker pool", t, func() {
		_ = logging.Init()

		q := newMockQueue()
		rec := newMockRecomputer()

		convey.Convey("When created with a non-positive count", func() {
			pool := worker.NewPool(0, q, rec)

			convey.Convey("Then it uses a worker per CPU", func() {
				convey.So(pool.Size(), convey.ShouldBeGreaterThan, 0)
			})
		})

		convey.Convey("When started and fed jobs", func() {
			pool := worker.NewPool(3, q, rec, worker.WithMetricsUpdateInterval(10*time.Millisecond))
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			pool.Start(ctx)

			for i := 0; i < 20; i++ {
				q.add(fmt.Sprintf("r%d", i))
			}

			convey.Convey("Then every job is processed once", func() {
				convey.So(waitFor(func() bool { return rec.total() == 20 }), convey.ShouldBeTrue)
				convey.So(waitFor(func() bool { return pool.Processed() == 20 }), convey.ShouldBeTrue)
				for i := 0; i < 20; i++ {
					convey.So(rec.count(fmt.Sprintf("r%d", i)), convey.ShouldEqual, 1)
				}
			})

			convey.Convey("Then shutdown drains queued jobs", func() {
				err := pool.Shutdown(context.Background())
				convey.So(err, convey.ShouldBeNil)
				convey.So(rec.total(), convey.ShouldEqual, 20)
			})
		})

		convey.Convey("When shutdown exceeds the deadline", func() {
			rec.delay = 200 * time.Millisecond
			pool := worker.NewPool(1, q, rec)
			pool.Start(context.Background())
			q.add("slow-1")
			q.add("slow-2")

			ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
			defer cancel()
			err := pool.Shutdown(ctx)

			convey.Convey("Then it reports the timeout", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(errors.Is(err, context.DeadlineExceeded), convey.ShouldBeTrue)
			})
		})
	})
}
