package worker_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	queue "github.com/aubridge/torneos/internal/adapters/mq/queue"
	worker "github.com/aubridge/torneos/internal/adapters/mq/worker"
	model "github.com/aubridge/torneos/internal/domain/model"
	logging "github.com/aubridge/torneos/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

// Mock implementations for testing.
type mockQueue struct {
	jobChan chan worker.Job
}

func newMockQueue() *mockQueue {
	return &mockQueue{jobChan: make(chan worker.Job, 10)}
}

func (m *mockQueue) Dequeue(ctx context.Context) <-chan worker.Job {
	return m.jobChan
}

func (m *mockQueue) Close() error {
	close(m.jobChan)
	return nil
}

func (m *mockQueue) addJob(j worker.Job) {
	m.jobChan <- j
}

type applyResult struct {
	imported int
	matched  int
}

type mockApplier struct {
	mu      sync.RWMutex
	results map[string]applyResult
	errs    map[string]error
}

func newMockApplier() *mockApplier {
	return &mockApplier{
		results: make(map[string]applyResult),
		errs:    make(map[string]error),
	}
}

func (m *mockApplier) Apply(ctx context.Context, job worker.Job) (int, int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err, exists := m.errs[job.ID]; exists {
		return 0, 0, err
	}
	if r, exists := m.results[job.ID]; exists {
		return r.imported, r.matched, nil
	}
	return 0, 0, nil
}

func (m *mockApplier) setResult(jobID string, imported, matched int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results[jobID] = applyResult{imported: imported, matched: matched}
}

func (m *mockApplier) setError(jobID string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errs[jobID] = err
}

type mockStatusStore struct {
	mu   sync.RWMutex
	jobs map[string]model.ImportJob
	err  error
}

func newMockStatusStore() *mockStatusStore {
	return &mockStatusStore{jobs: make(map[string]model.ImportJob)}
}

func (m *mockStatusStore) PutImportJob(ctx context.Context, j model.ImportJob) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.jobs[j.ID] = j
	return nil
}

func (m *mockStatusStore) get(id string) (model.ImportJob, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	j, ok := m.jobs[id]
	return j, ok
}

type mockNotifier struct {
	mu       sync.RWMutex
	finished []worker.Job
}

func (m *mockNotifier) ImportFinished(job worker.Job) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.finished = append(m.finished, job)
}

func (m *mockNotifier) count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.finished)
}

// waitFor polls until cond holds or the deadline passes.
func waitFor(cond func() bool) bool {
	deadline := time.After(2 * time.Second)
	for {
		if cond() {
			return true
		}
		select {
		case <-deadline:
			return false
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func queuedJob(id string) worker.Job {
	return worker.Job{
		ID:           id,
		TournamentID: "t1",
		Kind:         model.ImportStandings,
		Text:         "RESULTADO FINAL",
		Status:       model.ImportQueued,
		SubmittedAt:  time.Now().UTC(),
	}
}

func TestImportWorker(t *testing.T) {
	convey.Convey("Given a new ImportWorker", t, func() {
		_ = logging.Init()

		q := newMockQueue()
		applier := newMockApplier()
		status := newMockStatusStore()

		convey.Convey("When creating a worker with default options", func() {
			w := worker.NewImportWorker(q, applier, status)

			convey.Convey("Then it should be created successfully", func() {
				convey.So(w, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When running a worker", func() {
			notifier := &mockNotifier{}
			w := worker.NewImportWorker(q, applier, status,
				worker.WithName("test-worker"),
				worker.WithNotifier(notifier),
			)
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			go w.Run(ctx)

			convey.Convey("And the import applies cleanly", func() {
				applier.setResult("job-1", 12, 10)
				q.addJob(queuedJob("job-1"))

				convey.So(waitFor(func() bool {
					j, ok := status.get("job-1")
					return ok && j.Status == model.ImportDone
				}), convey.ShouldBeTrue)

				convey.Convey("Then the outcome is recorded and broadcast", func() {
					j, _ := status.get("job-1")
					convey.So(j.RowsImported, convey.ShouldEqual, 12)
					convey.So(j.RowsMatched, convey.ShouldEqual, 10)
					convey.So(j.Error, convey.ShouldBeEmpty)
					convey.So(j.FinishedAt.IsZero(), convey.ShouldBeFalse)
					convey.So(waitFor(func() bool { return notifier.count() == 1 }), convey.ShouldBeTrue)
				})
			})

			convey.Convey("And the import fails", func() {
				applier.setError("job-2", errors.New("no standings imported yet"))
				q.addJob(queuedJob("job-2"))

				convey.So(waitFor(func() bool {
					j, ok := status.get("job-2")
					return ok && j.Status == model.ImportFailed
				}), convey.ShouldBeTrue)

				convey.Convey("Then the failure reason is recorded and still broadcast", func() {
					j, _ := status.get("job-2")
					convey.So(j.Error, convey.ShouldContainSubstring, "no standings")
					convey.So(j.RowsImported, convey.ShouldEqual, 0)
					convey.So(waitFor(func() bool { return notifier.count() == 1 }), convey.ShouldBeTrue)
				})
			})
		})

		convey.Convey("When shutting down a worker", func() {
			w := worker.NewImportWorker(q, applier, status)
			ctx := context.Background()
			go w.Run(ctx)
			time.Sleep(10 * time.Millisecond)

			shutdownCtx, cancel := context.WithTimeout(ctx, time.Second)
			defer cancel()

			convey.Convey("Then shutdown completes before the deadline", func() {
				convey.So(w.Shutdown(shutdownCtx), convey.ShouldBeNil)
			})
		})
	})
}

func TestPool(t *testing.T) {
	convey.Convey("Given a worker pool over a real queue", t, func() {
		_ = logging.Init()

		q := queue.NewInMemoryQueue(queue.WithCapacity(50))
		applier := newMockApplier()
		status := newMockStatusStore()
		notifier := &mockNotifier{}

		pool := worker.NewPool(3, q, applier, status, worker.WithNotifier(notifier))
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		pool.Start(ctx)

		convey.Convey("When jobs are enqueued", func() {
			const numJobs = 20
			for i := 0; i < numJobs; i++ {
				id := fmt.Sprintf("job-%d", i)
				applier.setResult(id, i, i)
				convey.So(q.Enqueue(ctx, queuedJob(id)), convey.ShouldBeTrue)
			}

			convey.Convey("Then every job lands with a final status", func() {
				convey.So(waitFor(func() bool {
					for i := 0; i < numJobs; i++ {
						j, ok := status.get(fmt.Sprintf("job-%d", i))
						if !ok || j.Status != model.ImportDone {
							return false
						}
					}
					return true
				}), convey.ShouldBeTrue)
				convey.So(waitFor(func() bool { return notifier.count() == numJobs }), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the pool shuts down", func() {
			convey.So(q.Enqueue(ctx, queuedJob("late-job")), convey.ShouldBeTrue)

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()

			convey.Convey("Then queued jobs drain before the workers stop", func() {
				convey.So(pool.Shutdown(shutdownCtx), convey.ShouldBeNil)
				_, ok := status.get("late-job")
				convey.So(ok, convey.ShouldBeTrue)
				convey.So(q.IsClosed(), convey.ShouldBeTrue)
			})
		})
	})
}
