package task

import (
	"context"
	"time"
)

// Fields is the full persisted content of a task document.
type Fields struct {
	Text      string
	Completed bool
	Priority  Priority
	DueDate   string
	DueTime   string
	OwnerID   string
	CreatedAt time.Time
}

// Document is a stored task: the store-assigned id plus its fields.
type Document struct {
	ID     string
	Fields Fields
}

// ToTask converts a stored document to a Task.
func (d Document) ToTask() Task {
	return Task{
		ID:        d.ID,
		Text:      d.Fields.Text,
		Completed: d.Fields.Completed,
		Priority:  d.Fields.Priority,
		DueDate:   d.Fields.DueDate,
		DueTime:   d.Fields.DueTime,
		OwnerID:   d.Fields.OwnerID,
		CreatedAt: d.Fields.CreatedAt,
	}
}

// Patch names the fields of a partial update. Nil fields are left untouched.
// Identity fields (id, owner, creation time) cannot be patched.
type Patch struct {
	Text      *string
	Completed *bool
	Priority  *Priority
	DueDate   *string
	DueTime   *string
}

// IsEmpty reports whether the patch names no fields.
func (p Patch) IsEmpty() bool {
	return p.Text == nil && p.Completed == nil && p.Priority == nil && p.DueDate == nil && p.DueTime == nil
}

// ApplyTo merges the named fields into f.
func (p Patch) ApplyTo(f *Fields) {
	if p.Text != nil {
		f.Text = *p.Text
	}
	if p.Completed != nil {
		f.Completed = *p.Completed
	}
	if p.Priority != nil {
		f.Priority = *p.Priority
	}
	if p.DueDate != nil {
		f.DueDate = *p.DueDate
	}
	if p.DueTime != nil {
		f.DueTime = *p.DueTime
	}
}

func (p Patch) applyToTask(t *Task) {
	if p.Text != nil {
		t.Text = *p.Text
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.DueDate != nil {
		t.DueDate = *p.DueDate
	}
	if p.DueTime != nil {
		t.DueTime = *p.DueTime
	}
}

// DocumentStore persists task documents in a single "tasks" collection.
// Every method may block on I/O and fail with a store-specific error.
type DocumentStore interface {
	// CreateDocument stores fields under a fresh unique id and returns the id.
	CreateDocument(ctx context.Context, fields Fields) (string, error)

	// QueryByOwner returns every document owned by ownerID in insertion order.
	QueryByOwner(ctx context.Context, ownerID string) ([]Document, error)

	// UpdateDocument merges the named fields of patch into the document.
	// Returns ErrDocumentNotFound if the document does not exist.
	UpdateDocument(ctx context.Context, id string, patch Patch) error

	// DeleteDocument removes the document.
	// Returns ErrDocumentNotFound if the document does not exist.
	DeleteDocument(ctx context.Context, id string) error
}

// Identity yields the currently authenticated user.
type Identity interface {
	// CurrentUserID returns the user id, or false when unauthenticated.
	CurrentUserID() (string, bool)
}

// Observer is notified after local state changes. Notifications are only
// sent once the corresponding remote write has succeeded.
type Observer interface {
	TasksLoaded(ownerID string, tasks []Task)
	TaskCreated(t Task)
	TaskUpdated(t Task)
	TaskDeleted(t Task)
}

type nopObserver struct{}

func (nopObserver) TasksLoaded(string, []Task) {}
func (nopObserver) TaskCreated(Task)           {}
func (nopObserver) TaskUpdated(Task)           {}
func (nopObserver) TaskDeleted(Task)           {}
