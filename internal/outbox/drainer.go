package outbox

import (
	"context"
	"log"
	"time"
)

// TaskStore is the slice of Store the drainer needs.  It is an interface so
// tests can drive the drainer with an in-memory implementation.
type TaskStore interface {
	Due(ctx context.Context, limit int) ([]Task, error)
	MarkDone(ctx context.Context, id int64) error
	Reschedule(ctx context.Context, id int64, attempts int, next time.Time) error
	MarkFailed(ctx context.Context, id int64) error
}

// Executor replays one task against the downstream service it targets.
type Executor interface {
	Execute(ctx context.Context, t Task) error
}

const (
	drainBatchSize = 20
	maxBackoff     = 10 * time.Minute
)

// Drainer polls the task store and replays due tasks, independent of any
// request handling.  Failed replays are rescheduled with capped exponential
// backoff; tasks over the attempt cap are parked as FAILED.
type Drainer struct {
	store       TaskStore
	exec        Executor
	interval    time.Duration
	maxAttempts int
}

// NewDrainer builds a Drainer.  interval is the poll period, maxAttempts
// the cap before a task is parked.
func NewDrainer(store TaskStore, exec Executor, interval time.Duration, maxAttempts int) *Drainer {
	return &Drainer{store: store, exec: exec, interval: interval, maxAttempts: maxAttempts}
}

// Run polls until ctx is cancelled.  It never panics and keeps running
// through store errors; the worst outcome of a bad cycle is a delayed task.
func (d *Drainer) Run(ctx context.Context) {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.DrainOnce(ctx)
		}
	}
}

// DrainOnce processes one batch of due tasks.
func (d *Drainer) DrainOnce(ctx context.Context) {
	tasks, err := d.store.Due(ctx, drainBatchSize)
	if err != nil {
		log.Printf("outbox-drainer: fetch due tasks failed: %v", err)
		return
	}

	for _, t := range tasks {
		if err := d.exec.Execute(ctx, t); err != nil {
			d.retry(ctx, t, err)
			continue
		}
		if err := d.store.MarkDone(ctx, t.ID); err != nil {
			// the task will be replayed; actions are idempotent so a
			// duplicate execution is harmless
			log.Printf("outbox-drainer: mark task %d done failed: %v", t.ID, err)
			continue
		}
		log.Printf("outbox-drainer: task %d (%s, saga %s) completed after %d attempts",
			t.ID, t.Action, t.SagaUID, t.Attempts+1)
	}
}

func (d *Drainer) retry(ctx context.Context, t Task, cause error) {
	attempts := t.Attempts + 1
	if attempts >= d.maxAttempts {
		log.Printf("outbox-drainer: task %d (%s, saga %s) exhausted %d attempts, parking: %v",
			t.ID, t.Action, t.SagaUID, attempts, cause)
		if err := d.store.MarkFailed(ctx, t.ID); err != nil {
			log.Printf("outbox-drainer: park task %d failed: %v", t.ID, err)
		}
		return
	}

	next := time.Now().UTC().Add(backoff(d.interval, attempts))
	if err := d.store.Reschedule(ctx, t.ID, attempts, next); err != nil {
		log.Printf("outbox-drainer: reschedule task %d failed: %v", t.ID, err)
		return
	}
	log.Printf("outbox-drainer: task %d (%s, saga %s) attempt %d failed, next at %s: %v",
		t.ID, t.Action, t.SagaUID, attempts, next.Format(time.RFC3339), cause)
}

// backoff doubles the base interval per attempt up to maxBackoff.
func backoff(base time.Duration, attempts int) time.Duration {
	d := base
	for i := 1; i < attempts; i++ {
		d *= 2
		if d >= maxBackoff {
			return maxBackoff
		}
	}
	return d
}
