package outbox_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/book-rental-gateway/internal/outbox"
)

// memStore is an in-memory TaskStore for drainer tests.
type memStore struct {
	tasks map[int64]*outbox.Task
}

func newMemStore(tasks ...outbox.Task) *memStore {
	s := &memStore{tasks: map[int64]*outbox.Task{}}
	for i := range tasks {
		t := tasks[i]
		s.tasks[t.ID] = &t
	}
	return s
}

func (s *memStore) Due(ctx context.Context, limit int) ([]outbox.Task, error) {
	var due []outbox.Task
	now := time.Now().UTC()
	for _, t := range s.tasks {
		if t.Status == outbox.TaskPending && !t.NextAttemptAt.After(now) {
			due = append(due, *t)
		}
		if len(due) == limit {
			break
		}
	}
	return due, nil
}

func (s *memStore) MarkDone(ctx context.Context, id int64) error {
	s.tasks[id].Status = outbox.TaskDone
	return nil
}

func (s *memStore) Reschedule(ctx context.Context, id int64, attempts int, next time.Time) error {
	s.tasks[id].Attempts = attempts
	s.tasks[id].NextAttemptAt = next
	return nil
}

func (s *memStore) MarkFailed(ctx context.Context, id int64) error {
	s.tasks[id].Status = outbox.TaskFailed
	return nil
}

// stubExec succeeds or fails per action.
type stubExec struct {
	err      error
	executed []outbox.Task
}

func (e *stubExec) Execute(ctx context.Context, t outbox.Task) error {
	e.executed = append(e.executed, t)
	return e.err
}

func pendingTask(id int64) outbox.Task {
	return outbox.Task{
		ID:            id,
		SagaUID:       "saga-1",
		Action:        outbox.ActionDeleteReservation,
		Payload:       outbox.Payload{Username: "alice", ReservationUID: "res-1"},
		Status:        outbox.TaskPending,
		NextAttemptAt: time.Now().UTC().Add(-time.Second),
	}
}

func TestDrainerMarksDoneOnSuccess(t *testing.T) {
	store := newMemStore(pendingTask(1))
	exec := &stubExec{}
	d := outbox.NewDrainer(store, exec, time.Second, 5)

	d.DrainOnce(context.Background())

	require.Len(t, exec.executed, 1)
	assert.Equal(t, outbox.ActionDeleteReservation, exec.executed[0].Action)
	assert.Equal(t, outbox.TaskDone, store.tasks[1].Status)
}

func TestDrainerReschedulesOnFailure(t *testing.T) {
	store := newMemStore(pendingTask(1))
	exec := &stubExec{err: errors.New("still down")}
	d := outbox.NewDrainer(store, exec, time.Second, 5)

	d.DrainOnce(context.Background())

	got := store.tasks[1]
	assert.Equal(t, outbox.TaskPending, got.Status)
	assert.Equal(t, 1, got.Attempts)
	assert.True(t, got.NextAttemptAt.After(time.Now().UTC()), "postponed into the future")

	// not due anymore, so the next cycle leaves it alone
	d.DrainOnce(context.Background())
	assert.Len(t, exec.executed, 1)
}

func TestDrainerParksExhaustedTask(t *testing.T) {
	task := pendingTask(1)
	task.Attempts = 4
	store := newMemStore(task)
	exec := &stubExec{err: errors.New("still down")}
	d := outbox.NewDrainer(store, exec, time.Second, 5)

	d.DrainOnce(context.Background())

	assert.Equal(t, outbox.TaskFailed, store.tasks[1].Status, "parked, not dropped")
}

func TestDrainerRunStopsOnCancel(t *testing.T) {
	store := newMemStore()
	d := outbox.NewDrainer(store, &stubExec{}, 10*time.Millisecond, 5)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		d.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("drainer did not stop on context cancel")
	}
}
