package stores

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/colonyops/taskboard/internal/core/task"
	"github.com/colonyops/taskboard/internal/data/db"
)

// TaskStore implements task.DocumentStore on SQLite or PostgreSQL.
type TaskStore struct {
	db  *db.DB
	log zerolog.Logger
}

var _ task.DocumentStore = (*TaskStore)(nil)

// NewTaskStore creates a new SQL-backed task document store.
func NewTaskStore(db *db.DB, log zerolog.Logger) *TaskStore {
	return &TaskStore{
		db:  db,
		log: log.With().Str("component", "task-store").Logger(),
	}
}

// CreateDocument inserts a new task document and returns its generated id.
func (s *TaskStore) CreateDocument(ctx context.Context, f task.Fields) (string, error) {
	id := uuid.NewString()

	createdAt := f.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	err := s.exec(ctx, `
		INSERT INTO tasks (id, owner_id, text, completed, priority, due_date, due_time, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, f.OwnerID, f.Text, f.Completed, string(f.Priority), f.DueDate, f.DueTime, createdAt.UnixNano(),
	)
	if err != nil {
		return "", fmt.Errorf("insert task: %w", err)
	}

	return id, nil
}

// QueryByOwner returns the owner's documents, oldest first.
func (s *TaskStore) QueryByOwner(ctx context.Context, ownerID string) ([]task.Document, error) {
	rows, err := s.db.Conn().QueryContext(ctx, s.db.Dialect().Rebind(`
		SELECT id, owner_id, text, completed, priority, due_date, due_time, created_at
		FROM tasks
		WHERE owner_id = ?
		ORDER BY created_at, id`), ownerID)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var docs []task.Document
	for rows.Next() {
		var (
			doc       task.Document
			priority  string
			createdAt int64
		)
		err := rows.Scan(&doc.ID, &doc.Fields.OwnerID, &doc.Fields.Text, &doc.Fields.Completed,
			&priority, &doc.Fields.DueDate, &doc.Fields.DueTime, &createdAt)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		doc.Fields.Priority = task.Priority(priority)
		doc.Fields.CreatedAt = time.Unix(0, createdAt)
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tasks: %w", err)
	}

	return docs, nil
}

// UpdateDocument applies the non-nil fields of patch. Returns
// task.ErrDocumentNotFound if no document has id.
func (s *TaskStore) UpdateDocument(ctx context.Context, id string, patch task.Patch) error {
	if patch.IsEmpty() {
		return s.exists(ctx, id)
	}

	var (
		sets []string
		args []any
	)
	set := func(col string, v any) {
		sets = append(sets, col+" = ?")
		args = append(args, v)
	}
	if patch.Text != nil {
		set("text", *patch.Text)
	}
	if patch.Completed != nil {
		set("completed", *patch.Completed)
	}
	if patch.Priority != nil {
		set("priority", string(*patch.Priority))
	}
	if patch.DueDate != nil {
		set("due_date", *patch.DueDate)
	}
	if patch.DueTime != nil {
		set("due_time", *patch.DueTime)
	}
	args = append(args, id)

	var affected int64
	err := retryBusy(ctx, func() error {
		res, err := s.db.Conn().ExecContext(ctx,
			s.db.Dialect().Rebind("UPDATE tasks SET "+strings.Join(sets, ", ")+" WHERE id = ?"), args...)
		if err != nil {
			return err
		}
		affected, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	if affected == 0 {
		return task.ErrDocumentNotFound
	}

	return nil
}

// DeleteDocument removes the document. Returns task.ErrDocumentNotFound if
// no document has id.
func (s *TaskStore) DeleteDocument(ctx context.Context, id string) error {
	var affected int64
	err := retryBusy(ctx, func() error {
		res, err := s.db.Conn().ExecContext(ctx, s.db.Dialect().Rebind("DELETE FROM tasks WHERE id = ?"), id)
		if err != nil {
			return err
		}
		affected, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if affected == 0 {
		return task.ErrDocumentNotFound
	}

	return nil
}

func (s *TaskStore) exists(ctx context.Context, id string) error {
	var one int
	err := s.db.Conn().QueryRowContext(ctx, s.db.Dialect().Rebind("SELECT 1 FROM tasks WHERE id = ?"), id).Scan(&one)
	if IsNotFoundError(err) {
		return task.ErrDocumentNotFound
	}
	if err != nil {
		return fmt.Errorf("get task: %w", err)
	}
	return nil
}

func (s *TaskStore) exec(ctx context.Context, query string, args ...any) error {
	return retryBusy(ctx, func() error {
		_, err := s.db.Conn().ExecContext(ctx, s.db.Dialect().Rebind(query), args...)
		if IsBusyError(err) {
			s.log.Debug().Ctx(ctx).Err(err).Msg("database busy, retrying")
		}
		return err
	})
}

