package task

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/hay-kot/criterio"
	"github.com/rs/zerolog"

	"github.com/colonyops/taskboard/internal/core/logging"
	"github.com/colonyops/taskboard/internal/core/validate"
)

// Controller owns the in-memory task list of one identity.
//
// Local state is a read-through cache: Load replaces it wholesale, and the
// mutation methods change it only after the matching remote write has
// succeeded. Changes made by other clients are not seen until the next Load.
//
// Store calls are made without holding the lock, so operations may overlap.
// Two overlapping writes to the same task are not ordered: the store keeps
// the last write it receives and local state keeps the last response.
type Controller struct {
	store    DocumentStore
	identity Identity
	observer Observer
	log      zerolog.Logger
	now      func() time.Time

	mu     sync.RWMutex
	owner  string
	loaded bool
	tasks  []Task // insertion order, ids unique
	filter Filter
}

// NewController creates a Controller. observer may be nil.
func NewController(store DocumentStore, identity Identity, observer Observer, log zerolog.Logger) *Controller {
	if observer == nil {
		observer = nopObserver{}
	}
	return &Controller{
		store:    store,
		identity: identity,
		observer: observer,
		log:      log.With().Str("component", "task-controller").Logger(),
		now:      time.Now,
		filter:   FilterAll,
	}
}

// Load fetches every task owned by ownerID and replaces local state.
// On failure local state is left as it was and the error matches ErrStoreUnavailable.
func (c *Controller) Load(ctx context.Context, ownerID string) ([]Task, error) {
	if ownerID == "" {
		return nil, ErrUnauthenticated
	}
	ctx = logging.WithUserID(ctx, ownerID)

	docs, err := c.store.QueryByOwner(ctx, ownerID)
	if err != nil {
		c.log.Warn().Ctx(ctx).Err(err).Msg("load tasks failed")
		return nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}

	tasks := make([]Task, 0, len(docs))
	seen := make(map[string]bool, len(docs))
	for _, doc := range docs {
		if doc.Fields.OwnerID != ownerID {
			c.log.Warn().Ctx(ctx).Str("task_id", doc.ID).Msg("store returned task of another owner, skipping")
			continue
		}
		if seen[doc.ID] {
			c.log.Warn().Ctx(ctx).Str("task_id", doc.ID).Msg("store returned duplicate task id, skipping")
			continue
		}
		seen[doc.ID] = true
		tasks = append(tasks, doc.ToTask())
	}

	c.mu.Lock()
	c.owner = ownerID
	c.loaded = true
	c.tasks = tasks
	out := slices.Clone(c.tasks)
	c.mu.Unlock()

	c.log.Debug().Ctx(ctx).Int("count", len(out)).Msg("tasks loaded")
	c.observer.TasksLoaded(ownerID, slices.Clone(out))

	return out, nil
}

// Create validates in, persists a new task for the current identity, and
// appends it to local state. An empty priority defaults to Medium.
func (c *Controller) Create(ctx context.Context, in Input) (Task, error) {
	if err := validateInput(in); err != nil {
		return Task{}, err
	}

	owner, err := c.activeOwner()
	if err != nil {
		return Task{}, err
	}
	ctx = logging.WithUserID(ctx, owner)

	priority := in.Priority
	if priority == "" {
		priority = PriorityMedium
	}

	fields := Fields{
		Text:      in.Text,
		Completed: false,
		Priority:  priority,
		DueDate:   in.DueDate,
		DueTime:   in.DueTime,
		OwnerID:   owner,
		CreatedAt: c.now(),
	}

	id, err := c.store.CreateDocument(ctx, fields)
	if err != nil {
		c.log.Warn().Ctx(ctx).Err(err).Msg("create task failed")
		return Task{}, &PersistenceError{Op: "create", Err: err}
	}

	created := Document{ID: id, Fields: fields}.ToTask()

	c.mu.Lock()
	if i := c.indexOf(id); i >= 0 {
		c.tasks[i] = created
	} else {
		c.tasks = append(c.tasks, created)
	}
	c.mu.Unlock()

	c.log.Debug().Ctx(logging.WithTaskID(ctx, id)).Msg("task created")
	c.observer.TaskCreated(created)

	return created, nil
}

// Edit validates in and replaces the task's text, priority, due date and due
// time. Completion, owner and creation time are untouched. An empty priority
// keeps the current one.
func (c *Controller) Edit(ctx context.Context, id string, in Input) (Task, error) {
	if err := validateInput(in); err != nil {
		return Task{}, err
	}

	current, err := c.Get(id)
	if err != nil {
		return Task{}, err
	}
	if _, err := c.activeOwner(); err != nil {
		return Task{}, err
	}

	priority := in.Priority
	if priority == "" {
		priority = current.Priority
	}

	patch := Patch{
		Text:     &in.Text,
		Priority: &priority,
		DueDate:  &in.DueDate,
		DueTime:  &in.DueTime,
	}

	return c.update(ctx, "update", id, patch)
}

// ToggleComplete flips the completion flag of the task.
func (c *Controller) ToggleComplete(ctx context.Context, id string) (Task, error) {
	current, err := c.Get(id)
	if err != nil {
		return Task{}, err
	}
	if _, err := c.activeOwner(); err != nil {
		return Task{}, err
	}

	completed := !current.Completed
	return c.update(ctx, "toggle", id, Patch{Completed: &completed})
}

func (c *Controller) update(ctx context.Context, op, id string, patch Patch) (Task, error) {
	ctx = logging.WithTaskID(ctx, id)

	if err := c.store.UpdateDocument(ctx, id, patch); err != nil {
		c.log.Warn().Ctx(ctx).Err(err).Str("op", op).Msg("update task failed")
		return Task{}, &PersistenceError{Op: op, ID: id, Err: err}
	}

	c.mu.Lock()
	i := c.indexOf(id)
	if i < 0 {
		// Deleted locally while the update was in flight.
		c.mu.Unlock()
		return Task{}, ErrNotFound
	}
	patch.applyToTask(&c.tasks[i])
	updated := c.tasks[i]
	c.mu.Unlock()

	c.log.Debug().Ctx(ctx).Str("op", op).Msg("task updated")
	c.observer.TaskUpdated(updated)

	return updated, nil
}

// Delete removes the task remotely and then locally. A document already
// missing from the store counts as deleted.
func (c *Controller) Delete(ctx context.Context, id string) error {
	if _, err := c.Get(id); err != nil {
		return err
	}
	if _, err := c.activeOwner(); err != nil {
		return err
	}
	ctx = logging.WithTaskID(ctx, id)

	if err := c.store.DeleteDocument(ctx, id); err != nil && !errors.Is(err, ErrDocumentNotFound) {
		c.log.Warn().Ctx(ctx).Err(err).Msg("delete task failed")
		return &PersistenceError{Op: "delete", ID: id, Err: err}
	}

	c.mu.Lock()
	i := c.indexOf(id)
	if i < 0 {
		c.mu.Unlock()
		return nil
	}
	removed := c.tasks[i]
	c.tasks = slices.Delete(c.tasks, i, i+1)
	c.mu.Unlock()

	removed.PendingDelete = false
	c.log.Debug().Ctx(ctx).Msg("task deleted")
	c.observer.TaskDeleted(removed)

	return nil
}

// RequestDelete marks the task as awaiting delete confirmation. Any number
// of tasks may be pending at once.
func (c *Controller) RequestDelete(id string) error {
	return c.setPendingDelete(id, true)
}

// CancelDelete clears a pending delete.
func (c *Controller) CancelDelete(id string) error {
	return c.setPendingDelete(id, false)
}

// ConfirmDelete commits a delete previously requested with RequestDelete.
// If the remote delete fails the task stays pending.
func (c *Controller) ConfirmDelete(ctx context.Context, id string) error {
	t, err := c.Get(id)
	if err != nil {
		return err
	}
	if !t.PendingDelete {
		return ErrNoPendingDelete
	}
	return c.Delete(ctx, id)
}

func (c *Controller) setPendingDelete(id string, pending bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexOf(id)
	if i < 0 {
		return ErrNotFound
	}
	c.tasks[i].PendingDelete = pending
	return nil
}

// Get returns the local copy of a task.
func (c *Controller) Get(id string) (Task, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	i := c.indexOf(id)
	if i < 0 {
		return Task{}, ErrNotFound
	}
	return c.tasks[i], nil
}

// View returns the tasks passing filter, sorted by priority rank. Tasks of
// equal priority keep their insertion order. View never touches the store.
func (c *Controller) View(filter Filter) []Task {
	c.mu.RLock()
	out := make([]Task, 0, len(c.tasks))
	for _, t := range c.tasks {
		if filter.Match(t) {
			out = append(out, t)
		}
	}
	c.mu.RUnlock()

	slices.SortStableFunc(out, func(a, b Task) int {
		return a.Priority.Rank() - b.Priority.Rank()
	})
	return out
}

// State reports whether the view for filter is populated, filtered to
// nothing, or backed by an empty collection.
func (c *Controller) State(filter Filter) ListState {
	if c.Len() == 0 {
		return StateEmpty
	}
	if len(c.View(filter)) == 0 {
		return StateNoMatches
	}
	return StatePopulated
}

// SetFilter changes the current filter selection.
func (c *Controller) SetFilter(f Filter) error {
	if _, err := ParseFilter(string(f)); err != nil {
		return err
	}
	c.mu.Lock()
	c.filter = f
	c.mu.Unlock()
	return nil
}

// Filter returns the current filter selection.
func (c *Controller) Filter() Filter {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.filter
}

// Current returns the view for the current filter selection.
func (c *Controller) Current() []Task {
	return c.View(c.Filter())
}

// Len returns the number of tasks in local state, before filtering.
func (c *Controller) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.tasks)
}

// Loaded reports whether Load has succeeded at least once.
func (c *Controller) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loaded
}

// Owner returns the owner of the loaded list, or "" before the first Load.
func (c *Controller) Owner() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.owner
}

// activeOwner returns the current identity, which must own the loaded list.
func (c *Controller) activeOwner() (string, error) {
	owner, ok := c.identity.CurrentUserID()
	if !ok || owner == "" {
		return "", ErrUnauthenticated
	}

	c.mu.RLock()
	loadedOwner := c.owner
	c.mu.RUnlock()

	if loadedOwner != "" && loadedOwner != owner {
		return "", fmt.Errorf("%w: list loaded for %q", ErrUnauthenticated, loadedOwner)
	}
	return owner, nil
}

// indexOf must be called with mu held.
func (c *Controller) indexOf(id string) int {
	return slices.IndexFunc(c.tasks, func(t Task) bool { return t.ID == id })
}

func validateInput(in Input) error {
	err := validate.TaskFields(in.Text, in.DueDate, in.DueTime)
	if err == nil {
		return nil
	}

	field := "input"
	var fieldErrs criterio.FieldErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		field = fieldErrs[0].Field
	}
	return &ValidationError{Field: field, Err: err}
}
