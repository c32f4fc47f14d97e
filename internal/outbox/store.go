package outbox

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// Open connects to the MySQL instance backing the outbox and verifies the
// connection.  The pool is kept small: the only writers are request
// handlers escalating failed compensations and the single drainer.
func Open(user, pass, host, port, name string) (*sql.DB, error) {
	auth := user
	if pass != "" {
		auth = fmt.Sprintf("%s:%s", user, pass)
	}
	// parseTime=true -> DATETIME -> time.Time | loc=UTC keeps times consistent
	dsn := fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
		auth, host, port, name)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}
	return db, nil
}

// Store persists outbox tasks in the outbox_tasks table.
type Store struct {
	db *sql.DB
}

// NewStore returns a Store bound to the given database.
func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// Init creates the outbox_tasks table when it does not exist yet.  The
// unique key over (saga_uid, action) is what makes Enqueue idempotent.
func (s *Store) Init(ctx context.Context) error {
	const q = `CREATE TABLE IF NOT EXISTS outbox_tasks (
		id              BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		saga_uid        CHAR(36)     NOT NULL,
		action          VARCHAR(40)  NOT NULL,
		payload         JSON         NOT NULL,
		attempts        INT          NOT NULL DEFAULT 0,
		next_attempt_at DATETIME     NOT NULL,
		status          VARCHAR(10)  NOT NULL DEFAULT 'PENDING',
		created_at      DATETIME     NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at      DATETIME     NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		UNIQUE KEY uq_saga_action (saga_uid, action),
		KEY idx_due (status, next_attempt_at)
	)`
	_, err := s.db.ExecContext(ctx, q)
	return err
}

// Enqueue records a pending task.  Re-enqueueing the same (saga, action)
// pair is a no-op, so a saga may safely escalate the same compensation more
// than once.
func (s *Store) Enqueue(ctx context.Context, t Task) error {
	raw, err := json.Marshal(t.Payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	const q = `INSERT INTO outbox_tasks (saga_uid, action, payload, next_attempt_at, status)
		VALUES (?, ?, ?, UTC_TIMESTAMP(), 'PENDING')
		ON DUPLICATE KEY UPDATE id = id`
	_, err = s.db.ExecContext(ctx, q, t.SagaUID, string(t.Action), raw)
	return err
}

// Due returns up to limit pending tasks whose next attempt time has passed,
// oldest first.
func (s *Store) Due(ctx context.Context, limit int) ([]Task, error) {
	const q = `SELECT id, saga_uid, action, payload, attempts, next_attempt_at, status
		FROM outbox_tasks
		WHERE status = 'PENDING' AND next_attempt_at <= UTC_TIMESTAMP()
		ORDER BY id
		LIMIT ?`
	rows, err := s.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []Task
	for rows.Next() {
		var (
			t   Task
			raw []byte
		)
		if err := rows.Scan(&t.ID, &t.SagaUID, &t.Action, &raw, &t.Attempts, &t.NextAttemptAt, &t.Status); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(raw, &t.Payload); err != nil {
			return nil, fmt.Errorf("unmarshal payload of task %d: %w", t.ID, err)
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// MarkDone finalizes a successfully replayed task.
func (s *Store) MarkDone(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, `UPDATE outbox_tasks SET status = 'DONE' WHERE id = ?`, id)
	return err
}

// Reschedule bumps the attempt counter and postpones the task until next.
func (s *Store) Reschedule(ctx context.Context, id int64, attempts int, next time.Time) error {
	const q = `UPDATE outbox_tasks SET attempts = ?, next_attempt_at = ? WHERE id = ?`
	_, err := s.db.ExecContext(ctx, q, attempts, next.UTC(), id)
	return err
}

// MarkFailed parks a task that exhausted its attempts.
func (s *Store) MarkFailed(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, `UPDATE outbox_tasks SET status = 'FAILED' WHERE id = ?`, id)
	return err
}
