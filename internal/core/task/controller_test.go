package task_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/taskboard/internal/core/task"
	"github.com/colonyops/taskboard/internal/core/task/tasktest"
)

const owner = "user-1"

type recorder struct {
	mu     sync.Mutex
	events []string
}

func (r *recorder) add(e string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) TasksLoaded(string, []task.Task) { r.add("loaded") }
func (r *recorder) TaskCreated(t task.Task)         { r.add("created:" + t.ID) }
func (r *recorder) TaskUpdated(t task.Task)         { r.add("updated:" + t.ID) }
func (r *recorder) TaskDeleted(t task.Task)         { r.add("deleted:" + t.ID) }

func (r *recorder) Events() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

func newTestController(t *testing.T) (*task.Controller, *tasktest.Store, *recorder) {
	t.Helper()

	store := tasktest.NewStore()
	rec := &recorder{}
	ctrl := task.NewController(store, tasktest.NewIdentity(owner), rec, zerolog.Nop())

	_, err := ctrl.Load(context.Background(), owner)
	require.NoError(t, err)

	return ctrl, store, rec
}

func input(text string, p task.Priority) task.Input {
	return task.Input{Text: text, Priority: p, DueDate: "2025-03-14", DueTime: "09:00"}
}

func mustCreate(t *testing.T, ctrl *task.Controller, text string, p task.Priority) task.Task {
	t.Helper()
	created, err := ctrl.Create(context.Background(), input(text, p))
	require.NoError(t, err)
	return created
}

func texts(tasks []task.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.Text
	}
	return out
}

func TestController_Load(t *testing.T) {
	ctx := context.Background()

	t.Run("replaces local state with owner's tasks", func(t *testing.T) {
		store := tasktest.NewStore()
		store.Seed(
			task.Document{ID: "a", Fields: task.Fields{Text: "mine", OwnerID: owner, Priority: task.PriorityLow}},
			task.Document{ID: "b", Fields: task.Fields{Text: "theirs", OwnerID: "user-2"}},
		)
		ctrl := task.NewController(store, tasktest.NewIdentity(owner), nil, zerolog.Nop())

		tasks, err := ctrl.Load(ctx, owner)
		require.NoError(t, err)
		require.Len(t, tasks, 1)
		assert.Equal(t, "mine", tasks[0].Text)
		assert.True(t, ctrl.Loaded())
		assert.Equal(t, owner, ctrl.Owner())
	})

	t.Run("drops duplicate ids", func(t *testing.T) {
		store := tasktest.NewStore()
		store.Seed(
			task.Document{ID: "a", Fields: task.Fields{Text: "first", OwnerID: owner}},
			task.Document{ID: "a", Fields: task.Fields{Text: "second", OwnerID: owner}},
		)
		ctrl := task.NewController(store, tasktest.NewIdentity(owner), nil, zerolog.Nop())

		tasks, err := ctrl.Load(ctx, owner)
		require.NoError(t, err)
		require.Len(t, tasks, 1)
		assert.Equal(t, "first", tasks[0].Text)
	})

	t.Run("store failure surfaces unavailable and keeps state", func(t *testing.T) {
		ctrl, store, _ := newTestController(t)
		mustCreate(t, ctrl, "keep me", task.PriorityHigh)

		store.FailOn(tasktest.OpQuery, nil)

		_, err := ctrl.Load(ctx, owner)
		require.ErrorIs(t, err, task.ErrStoreUnavailable)
		assert.ErrorIs(t, err, tasktest.ErrInjected)
		assert.Equal(t, 1, ctrl.Len())
	})

	t.Run("failed first load is not loaded", func(t *testing.T) {
		store := tasktest.NewStore()
		store.FailOn(tasktest.OpQuery, nil)
		ctrl := task.NewController(store, tasktest.NewIdentity(owner), nil, zerolog.Nop())

		_, err := ctrl.Load(ctx, owner)
		require.ErrorIs(t, err, task.ErrStoreUnavailable)
		assert.False(t, ctrl.Loaded())
	})

	t.Run("empty owner is rejected", func(t *testing.T) {
		ctrl := task.NewController(tasktest.NewStore(), tasktest.NewIdentity(""), nil, zerolog.Nop())
		_, err := ctrl.Load(ctx, "")
		assert.ErrorIs(t, err, task.ErrUnauthenticated)
	})
}

func TestController_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("appends one task with given fields", func(t *testing.T) {
		ctrl, store, rec := newTestController(t)
		before := len(ctrl.View(task.FilterAll))

		created, err := ctrl.Create(ctx, task.Input{
			Text: "write report", Priority: task.PriorityHigh, DueDate: "2025-04-01", DueTime: "17:30",
		})
		require.NoError(t, err)

		all := ctrl.View(task.FilterAll)
		require.Len(t, all, before+1)
		assert.Equal(t, created, all[0])
		assert.NotEmpty(t, created.ID)
		assert.Equal(t, "write report", created.Text)
		assert.Equal(t, task.PriorityHigh, created.Priority)
		assert.Equal(t, "2025-04-01", created.DueDate)
		assert.Equal(t, "17:30", created.DueTime)
		assert.False(t, created.Completed)
		assert.Equal(t, owner, created.OwnerID)
		assert.False(t, created.CreatedAt.IsZero())

		doc, ok := store.Doc(created.ID)
		require.True(t, ok)
		assert.Equal(t, "write report", doc.Fields.Text)
		assert.Contains(t, rec.Events(), "created:"+created.ID)
	})

	t.Run("empty priority defaults to medium", func(t *testing.T) {
		ctrl, _, _ := newTestController(t)
		created := mustCreate(t, ctrl, "no priority", "")
		assert.Equal(t, task.PriorityMedium, created.Priority)
	})

	t.Run("validation failures change nothing", func(t *testing.T) {
		tests := []struct {
			name  string
			in    task.Input
			field string
		}{
			{"empty text", task.Input{Text: "", DueDate: "2025-04-01", DueTime: "10:00"}, "text"},
			{"blank text", task.Input{Text: "   ", DueDate: "2025-04-01", DueTime: "10:00"}, "text"},
			{"missing due date", task.Input{Text: "x", DueTime: "10:00"}, "due_date"},
			{"missing due time", task.Input{Text: "x", DueDate: "2025-04-01"}, "due_time"},
			{"everything missing reports text first", task.Input{}, "text"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				ctrl, store, _ := newTestController(t)

				_, err := ctrl.Create(ctx, tt.in)

				var verr *task.ValidationError
				require.ErrorAs(t, err, &verr)
				assert.ErrorIs(t, err, task.ErrValidation)
				assert.Equal(t, tt.field, verr.Field)
				assert.Equal(t, 0, ctrl.Len())
				assert.Equal(t, 0, store.Calls(tasktest.OpCreate), "no I/O before validation passes")
			})
		}
	})

	t.Run("store failure leaves state unchanged", func(t *testing.T) {
		ctrl, store, rec := newTestController(t)
		store.FailOn(tasktest.OpCreate, nil)

		_, err := ctrl.Create(ctx, input("lost", task.PriorityLow))

		var perr *task.PersistenceError
		require.ErrorAs(t, err, &perr)
		assert.ErrorIs(t, err, task.ErrPersistence)
		assert.Equal(t, "create", perr.Op)
		assert.Equal(t, 0, ctrl.Len())
		assert.Equal(t, []string{"loaded"}, rec.Events())
	})

	t.Run("requires identity", func(t *testing.T) {
		store := tasktest.NewStore()
		identity := tasktest.NewIdentity("")
		ctrl := task.NewController(store, identity, nil, zerolog.Nop())

		_, err := ctrl.Create(ctx, input("x", task.PriorityLow))
		assert.ErrorIs(t, err, task.ErrUnauthenticated)
		assert.Equal(t, 0, store.Calls(tasktest.OpCreate))
	})

	t.Run("rejects identity that does not own the loaded list", func(t *testing.T) {
		store := tasktest.NewStore()
		identity := tasktest.NewIdentity(owner)
		ctrl := task.NewController(store, identity, nil, zerolog.Nop())
		_, err := ctrl.Load(ctx, owner)
		require.NoError(t, err)

		identity.Set("user-2")
		_, err = ctrl.Create(ctx, input("x", task.PriorityLow))
		assert.ErrorIs(t, err, task.ErrUnauthenticated)
		assert.Equal(t, 0, ctrl.Len())
	})

	t.Run("controller stays usable after failure", func(t *testing.T) {
		ctrl, store, _ := newTestController(t)
		store.FailOn(tasktest.OpCreate, nil)
		_, err := ctrl.Create(ctx, input("first", task.PriorityLow))
		require.Error(t, err)

		store.Recover()
		mustCreate(t, ctrl, "second", task.PriorityLow)
		assert.Equal(t, []string{"second"}, texts(ctrl.View(task.FilterAll)))
	})
}

func TestController_Edit(t *testing.T) {
	ctx := context.Background()

	t.Run("updates named fields only", func(t *testing.T) {
		ctrl, store, rec := newTestController(t)
		orig := mustCreate(t, ctrl, "draft", task.PriorityLow)
		_, err := ctrl.ToggleComplete(ctx, orig.ID)
		require.NoError(t, err)

		edited, err := ctrl.Edit(ctx, orig.ID, task.Input{
			Text: "final", Priority: task.PriorityHigh, DueDate: "2025-05-05", DueTime: "08:15",
		})
		require.NoError(t, err)

		assert.Equal(t, orig.ID, edited.ID)
		assert.Equal(t, "final", edited.Text)
		assert.Equal(t, task.PriorityHigh, edited.Priority)
		assert.Equal(t, "2025-05-05", edited.DueDate)
		assert.Equal(t, "08:15", edited.DueTime)
		assert.True(t, edited.Completed, "completed untouched")
		assert.Equal(t, orig.OwnerID, edited.OwnerID)
		assert.Equal(t, orig.CreatedAt, edited.CreatedAt)

		doc, ok := store.Doc(orig.ID)
		require.True(t, ok)
		assert.Equal(t, "final", doc.Fields.Text)
		assert.True(t, doc.Fields.Completed)
		assert.Contains(t, rec.Events(), "updated:"+orig.ID)
	})

	t.Run("empty priority keeps current", func(t *testing.T) {
		ctrl, _, _ := newTestController(t)
		orig := mustCreate(t, ctrl, "draft", task.PriorityLow)

		edited, err := ctrl.Edit(ctx, orig.ID, input("draft 2", ""))
		require.NoError(t, err)
		assert.Equal(t, task.PriorityLow, edited.Priority)
	})

	t.Run("unknown id is not found and changes nothing", func(t *testing.T) {
		ctrl, store, _ := newTestController(t)
		mustCreate(t, ctrl, "draft", task.PriorityLow)
		before := ctrl.View(task.FilterAll)

		_, err := ctrl.Edit(ctx, "missing", input("x", task.PriorityHigh))
		assert.ErrorIs(t, err, task.ErrNotFound)
		assert.Equal(t, before, ctrl.View(task.FilterAll))
		assert.Equal(t, 0, store.Calls(tasktest.OpUpdate))
	})

	t.Run("validation failure changes nothing", func(t *testing.T) {
		ctrl, store, _ := newTestController(t)
		orig := mustCreate(t, ctrl, "draft", task.PriorityLow)

		_, err := ctrl.Edit(ctx, orig.ID, task.Input{Text: "", DueDate: "2025-01-01", DueTime: "09:00"})
		assert.ErrorIs(t, err, task.ErrValidation)

		got, err := ctrl.Get(orig.ID)
		require.NoError(t, err)
		assert.Equal(t, orig, got)
		assert.Equal(t, 0, store.Calls(tasktest.OpUpdate))
	})

	t.Run("remote failure keeps pre-edit values", func(t *testing.T) {
		ctrl, store, _ := newTestController(t)
		orig := mustCreate(t, ctrl, "draft", task.PriorityLow)
		store.FailOn(tasktest.OpUpdate, nil)

		_, err := ctrl.Edit(ctx, orig.ID, input("final", task.PriorityHigh))

		var perr *task.PersistenceError
		require.ErrorAs(t, err, &perr)
		assert.Equal(t, orig.ID, perr.ID)

		view := ctrl.View(task.FilterAll)
		require.Len(t, view, 1)
		assert.Equal(t, "draft", view[0].Text)
		assert.Equal(t, task.PriorityLow, view[0].Priority)
	})
}

func TestController_ToggleComplete(t *testing.T) {
	ctx := context.Background()

	t.Run("is its own inverse", func(t *testing.T) {
		ctrl, _, _ := newTestController(t)
		orig := mustCreate(t, ctrl, "laundry", task.PriorityMedium)

		once, err := ctrl.ToggleComplete(ctx, orig.ID)
		require.NoError(t, err)
		assert.True(t, once.Completed)

		twice, err := ctrl.ToggleComplete(ctx, orig.ID)
		require.NoError(t, err)
		assert.Equal(t, orig.Completed, twice.Completed)
	})

	t.Run("remote failure leaves flag unchanged", func(t *testing.T) {
		ctrl, store, _ := newTestController(t)
		orig := mustCreate(t, ctrl, "laundry", task.PriorityMedium)
		store.FailOn(tasktest.OpUpdate, nil)

		_, err := ctrl.ToggleComplete(ctx, orig.ID)
		assert.ErrorIs(t, err, task.ErrPersistence)

		got, err := ctrl.Get(orig.ID)
		require.NoError(t, err)
		assert.False(t, got.Completed)
	})

	t.Run("unknown id", func(t *testing.T) {
		ctrl, _, _ := newTestController(t)
		_, err := ctrl.ToggleComplete(ctx, "missing")
		assert.ErrorIs(t, err, task.ErrNotFound)
	})
}

func TestController_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("removes remotely then locally", func(t *testing.T) {
		ctrl, store, rec := newTestController(t)
		a := mustCreate(t, ctrl, "a", task.PriorityLow)
		b := mustCreate(t, ctrl, "b", task.PriorityLow)

		require.NoError(t, ctrl.Delete(ctx, a.ID))

		assert.Equal(t, []string{"b"}, texts(ctrl.View(task.FilterAll)))
		_, ok := store.Doc(a.ID)
		assert.False(t, ok)
		_, ok = store.Doc(b.ID)
		assert.True(t, ok)
		assert.Contains(t, rec.Events(), "deleted:"+a.ID)
	})

	t.Run("second delete is not found", func(t *testing.T) {
		ctrl, store, _ := newTestController(t)
		a := mustCreate(t, ctrl, "a", task.PriorityLow)

		require.NoError(t, ctrl.Delete(ctx, a.ID))
		assert.ErrorIs(t, ctrl.Delete(ctx, a.ID), task.ErrNotFound)
		assert.Equal(t, 1, store.Calls(tasktest.OpDelete))
	})

	t.Run("remote failure keeps task", func(t *testing.T) {
		ctrl, store, _ := newTestController(t)
		a := mustCreate(t, ctrl, "a", task.PriorityLow)
		store.FailOn(tasktest.OpDelete, nil)

		err := ctrl.Delete(ctx, a.ID)
		assert.ErrorIs(t, err, task.ErrPersistence)
		assert.Equal(t, 1, ctrl.Len())
	})

	t.Run("document already gone remotely still removes locally", func(t *testing.T) {
		store := tasktest.NewStore()
		store.Seed(task.Document{ID: "ghost", Fields: task.Fields{Text: "ghost", OwnerID: owner}})
		ctrl := task.NewController(store, tasktest.NewIdentity(owner), nil, zerolog.Nop())
		_, err := ctrl.Load(ctx, owner)
		require.NoError(t, err)

		require.NoError(t, store.DeleteDocument(ctx, "ghost"))
		require.NoError(t, ctrl.Delete(ctx, "ghost"))
		assert.Equal(t, 0, ctrl.Len())
	})
}

func TestController_TwoPhaseDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("request marks pending without I/O", func(t *testing.T) {
		ctrl, store, _ := newTestController(t)
		a := mustCreate(t, ctrl, "a", task.PriorityLow)

		require.NoError(t, ctrl.RequestDelete(a.ID))

		got, err := ctrl.Get(a.ID)
		require.NoError(t, err)
		assert.True(t, got.PendingDelete)
		assert.Equal(t, 0, store.Calls(tasktest.OpDelete))
	})

	t.Run("confirm commits", func(t *testing.T) {
		ctrl, _, _ := newTestController(t)
		a := mustCreate(t, ctrl, "a", task.PriorityLow)

		require.NoError(t, ctrl.RequestDelete(a.ID))
		require.NoError(t, ctrl.ConfirmDelete(ctx, a.ID))
		assert.Equal(t, 0, ctrl.Len())
	})

	t.Run("cancel clears pending", func(t *testing.T) {
		ctrl, _, _ := newTestController(t)
		a := mustCreate(t, ctrl, "a", task.PriorityLow)

		require.NoError(t, ctrl.RequestDelete(a.ID))
		require.NoError(t, ctrl.CancelDelete(a.ID))

		assert.ErrorIs(t, ctrl.ConfirmDelete(ctx, a.ID), task.ErrNoPendingDelete)
		assert.Equal(t, 1, ctrl.Len())
	})

	t.Run("several pending at once while other operations proceed", func(t *testing.T) {
		ctrl, _, _ := newTestController(t)
		a := mustCreate(t, ctrl, "a", task.PriorityLow)
		b := mustCreate(t, ctrl, "b", task.PriorityLow)
		c := mustCreate(t, ctrl, "c", task.PriorityLow)

		require.NoError(t, ctrl.RequestDelete(a.ID))
		require.NoError(t, ctrl.RequestDelete(b.ID))

		_, err := ctrl.ToggleComplete(ctx, c.ID)
		require.NoError(t, err)

		require.NoError(t, ctrl.ConfirmDelete(ctx, b.ID))
		got, err := ctrl.Get(a.ID)
		require.NoError(t, err)
		assert.True(t, got.PendingDelete)
		assert.Equal(t, []string{"a", "c"}, texts(ctrl.View(task.FilterAll)))
	})

	t.Run("failed confirm stays pending", func(t *testing.T) {
		ctrl, store, _ := newTestController(t)
		a := mustCreate(t, ctrl, "a", task.PriorityLow)
		require.NoError(t, ctrl.RequestDelete(a.ID))
		store.FailOn(tasktest.OpDelete, nil)

		assert.ErrorIs(t, ctrl.ConfirmDelete(ctx, a.ID), task.ErrPersistence)

		got, err := ctrl.Get(a.ID)
		require.NoError(t, err)
		assert.True(t, got.PendingDelete)
	})

	t.Run("unknown id", func(t *testing.T) {
		ctrl, _, _ := newTestController(t)
		assert.ErrorIs(t, ctrl.RequestDelete("missing"), task.ErrNotFound)
		assert.ErrorIs(t, ctrl.CancelDelete("missing"), task.ErrNotFound)
		assert.ErrorIs(t, ctrl.ConfirmDelete(ctx, "missing"), task.ErrNotFound)
	})

	t.Run("pending flag is not persisted", func(t *testing.T) {
		ctrl, _, _ := newTestController(t)
		a := mustCreate(t, ctrl, "a", task.PriorityLow)
		require.NoError(t, ctrl.RequestDelete(a.ID))

		tasks, err := ctrl.Load(ctx, owner)
		require.NoError(t, err)
		require.Len(t, tasks, 1)
		assert.False(t, tasks[0].PendingDelete)
	})
}

func TestController_MutationsRequireOwner(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*task.Controller, *tasktest.Store, *tasktest.Identity, task.Task) {
		t.Helper()
		store := tasktest.NewStore()
		identity := tasktest.NewIdentity(owner)
		ctrl := task.NewController(store, identity, nil, zerolog.Nop())
		_, err := ctrl.Load(ctx, owner)
		require.NoError(t, err)
		created := mustCreate(t, ctrl, "write report", task.PriorityHigh)
		return ctrl, store, identity, created
	}

	tests := []struct {
		name     string
		identity string
	}{
		{"signed out", ""},
		{"other user", "user-2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl, store, identity, created := setup(t)
			identity.Set(tt.identity)

			_, err := ctrl.Edit(ctx, created.ID, input("rewritten", task.PriorityLow))
			assert.ErrorIs(t, err, task.ErrUnauthenticated)

			_, err = ctrl.ToggleComplete(ctx, created.ID)
			assert.ErrorIs(t, err, task.ErrUnauthenticated)

			err = ctrl.Delete(ctx, created.ID)
			assert.ErrorIs(t, err, task.ErrUnauthenticated)

			require.NoError(t, ctrl.RequestDelete(created.ID))
			err = ctrl.ConfirmDelete(ctx, created.ID)
			assert.ErrorIs(t, err, task.ErrUnauthenticated)

			assert.Equal(t, 0, store.Calls(tasktest.OpUpdate))
			assert.Equal(t, 0, store.Calls(tasktest.OpDelete))

			got, err := ctrl.Get(created.ID)
			require.NoError(t, err)
			assert.Equal(t, "write report", got.Text)
			assert.False(t, got.Completed)
			assert.True(t, got.PendingDelete)
		})
	}

	t.Run("unknown id reports not found before identity", func(t *testing.T) {
		ctrl, _, identity, _ := setup(t)
		identity.Set("")

		_, err := ctrl.ToggleComplete(ctx, "missing")
		assert.ErrorIs(t, err, task.ErrNotFound)
	})
}

func TestController_View(t *testing.T) {
	ctx := context.Background()

	t.Run("stable priority sort", func(t *testing.T) {
		ctrl, _, _ := newTestController(t)
		mustCreate(t, ctrl, "A", task.PriorityMedium)
		mustCreate(t, ctrl, "B", task.PriorityHigh)
		mustCreate(t, ctrl, "C", task.PriorityMedium)

		assert.Equal(t, []string{"B", "A", "C"}, texts(ctrl.View(task.FilterAll)))
	})

	t.Run("no due date tie break", func(t *testing.T) {
		ctrl, _, _ := newTestController(t)
		_, err := ctrl.Create(ctx, task.Input{Text: "later", Priority: task.PriorityLow, DueDate: "2030-01-01", DueTime: "09:00"})
		require.NoError(t, err)
		_, err = ctrl.Create(ctx, task.Input{Text: "sooner", Priority: task.PriorityLow, DueDate: "2020-01-01", DueTime: "09:00"})
		require.NoError(t, err)

		assert.Equal(t, []string{"later", "sooner"}, texts(ctrl.View(task.FilterAll)))
	})

	t.Run("unknown priority sorts last", func(t *testing.T) {
		store := tasktest.NewStore()
		store.Seed(
			task.Document{ID: "1", Fields: task.Fields{Text: "odd", Priority: "Someday", OwnerID: owner}},
			task.Document{ID: "2", Fields: task.Fields{Text: "low", Priority: task.PriorityLow, OwnerID: owner}},
			task.Document{ID: "3", Fields: task.Fields{Text: "high", Priority: task.PriorityHigh, OwnerID: owner}},
		)
		ctrl := task.NewController(store, tasktest.NewIdentity(owner), nil, zerolog.Nop())
		_, err := ctrl.Load(ctx, owner)
		require.NoError(t, err)

		assert.Equal(t, []string{"high", "low", "odd"}, texts(ctrl.View(task.FilterAll)))
	})

	t.Run("filter composition", func(t *testing.T) {
		ctrl, _, _ := newTestController(t)
		first := mustCreate(t, ctrl, "first", task.PriorityLow)
		mustCreate(t, ctrl, "second", task.PriorityMedium)
		third := mustCreate(t, ctrl, "third", task.PriorityHigh)

		_, err := ctrl.ToggleComplete(ctx, first.ID)
		require.NoError(t, err)
		_, err = ctrl.ToggleComplete(ctx, third.ID)
		require.NoError(t, err)

		assert.Equal(t, []string{"third", "first"}, texts(ctrl.View(task.FilterCompleted)))
		assert.Equal(t, []string{"second"}, texts(ctrl.View(task.FilterPending)))
		assert.Len(t, ctrl.View(task.FilterAll), 3)
	})

	t.Run("idempotent and side effect free", func(t *testing.T) {
		ctrl, store, _ := newTestController(t)
		mustCreate(t, ctrl, "x", task.PriorityLow)
		mustCreate(t, ctrl, "y", task.PriorityHigh)
		queries := store.Calls(tasktest.OpQuery)

		first := ctrl.View(task.FilterAll)
		second := ctrl.View(task.FilterAll)
		assert.Equal(t, first, second)
		assert.Equal(t, queries, store.Calls(tasktest.OpQuery))

		first[0].Text = "mutated by caller"
		assert.NotEqual(t, "mutated by caller", ctrl.View(task.FilterAll)[0].Text)
	})

	t.Run("empty view is non-nil", func(t *testing.T) {
		ctrl, _, _ := newTestController(t)
		view := ctrl.View(task.FilterAll)
		assert.NotNil(t, view)
		assert.Empty(t, view)
	})
}

func TestController_State(t *testing.T) {
	ctx := context.Background()
	ctrl, _, _ := newTestController(t)

	assert.Equal(t, task.StateEmpty, ctrl.State(task.FilterAll))
	assert.Equal(t, task.StateEmpty, ctrl.State(task.FilterCompleted))

	a := mustCreate(t, ctrl, "a", task.PriorityLow)
	assert.Equal(t, task.StatePopulated, ctrl.State(task.FilterAll))
	assert.Equal(t, task.StateNoMatches, ctrl.State(task.FilterCompleted))

	_, err := ctrl.ToggleComplete(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, task.StateNoMatches, ctrl.State(task.FilterPending))
}

func TestController_Filter(t *testing.T) {
	ctrl, _, _ := newTestController(t)
	assert.Equal(t, task.FilterAll, ctrl.Filter())

	mustCreate(t, ctrl, "open", task.PriorityLow)
	require.NoError(t, ctrl.SetFilter(task.FilterCompleted))
	assert.Equal(t, task.FilterCompleted, ctrl.Filter())
	assert.Empty(t, ctrl.Current())

	assert.Error(t, ctrl.SetFilter("Overdue"))
	assert.Equal(t, task.FilterCompleted, ctrl.Filter())
}

func TestController_ConcurrentOperations(t *testing.T) {
	ctx := context.Background()
	ctrl, _, _ := newTestController(t)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			created, err := ctrl.Create(ctx, input("task", task.PriorityMedium))
			if !assert.NoError(t, err) {
				return
			}
			_, err = ctrl.ToggleComplete(ctx, created.ID)
			assert.NoError(t, err)
			_ = ctrl.View(task.FilterPending)
		}()
	}

	done := make(chan struct{})
	go func() { wg.Wait(); close(done) }()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("concurrent operations did not finish")
	}

	assert.Len(t, ctrl.View(task.FilterCompleted), 20)
}
