// Package task defines the task list domain: the Task entity, the document
// store and identity contracts it is persisted through, and the Controller
// that keeps a local, presentable copy of one owner's tasks.
package task

import (
	"fmt"
	"strings"
	"time"
)

// Layouts for DueDate and DueTime.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// Priority is the urgency of a task. Values outside the known set are
// tolerated (they may come from the store) and sort after every known value.
type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

// unknownRank is the sort rank of any unrecognized priority.
const unknownRank = 99

// Rank returns the sort position of the priority: High(1) < Medium(2) < Low(3) < unknown(99).
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 1
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 3
	default:
		return unknownRank
	}
}

// IsValid reports whether p is one of the known priorities.
func (p Priority) IsValid() bool {
	return p.Rank() != unknownRank
}

// ParsePriority parses a priority name case-insensitively.
func ParsePriority(s string) (Priority, error) {
	for _, p := range []Priority{PriorityHigh, PriorityMedium, PriorityLow} {
		if strings.EqualFold(s, string(p)) {
			return p, nil
		}
	}
	return "", fmt.Errorf("invalid priority %q: must be one of High, Medium, Low", s)
}

// Filter selects which tasks a view includes.
type Filter string

const (
	FilterAll       Filter = "All"
	FilterCompleted Filter = "Completed"
	FilterPending   Filter = "Pending"
)

// Filters lists every filter in display order.
var Filters = []Filter{FilterAll, FilterCompleted, FilterPending}

// ParseFilter parses a filter name case-insensitively.
func ParseFilter(s string) (Filter, error) {
	for _, f := range Filters {
		if strings.EqualFold(s, string(f)) {
			return f, nil
		}
	}
	return "", fmt.Errorf("invalid filter %q: must be one of All, Completed, Pending", s)
}

// Match reports whether t passes the filter. Unknown filters match everything.
func (f Filter) Match(t Task) bool {
	switch f {
	case FilterCompleted:
		return t.Completed
	case FilterPending:
		return !t.Completed
	default:
		return true
	}
}

// Next returns the filter after f in display order, wrapping around.
func (f Filter) Next() Filter {
	for i, cur := range Filters {
		if cur == f {
			return Filters[(i+1)%len(Filters)]
		}
	}
	return FilterAll
}

// ListState distinguishes an empty collection from a filter that matches nothing.
type ListState int

const (
	// StateEmpty means the owner has no tasks at all.
	StateEmpty ListState = iota
	// StateNoMatches means tasks exist but none pass the filter.
	StateNoMatches
	// StatePopulated means the view has at least one task.
	StatePopulated
)

func (s ListState) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateNoMatches:
		return "no-matches"
	case StatePopulated:
		return "populated"
	default:
		return "unknown"
	}
}

// Task is a single to-do entry.
//
// ID, OwnerID and CreatedAt never change after creation. PendingDelete is
// local interaction state and is never persisted.
type Task struct {
	ID            string    `json:"id"`
	Text          string    `json:"text"`
	Completed     bool      `json:"completed"`
	Priority      Priority  `json:"priority"`
	DueDate       string    `json:"due_date"`
	DueTime       string    `json:"due_time"`
	OwnerID       string    `json:"owner_id"`
	CreatedAt     time.Time `json:"created_at"`
	PendingDelete bool      `json:"pending_delete,omitempty"`
}

// Due combines DueDate and DueTime into a point in time in loc.
func (t Task) Due(loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateLayout+" "+TimeLayout, t.DueDate+" "+t.DueTime, loc)
}

// Overdue reports whether an incomplete task is past its due time.
func (t Task) Overdue(now time.Time) bool {
	if t.Completed {
		return false
	}
	due, err := t.Due(now.Location())
	if err != nil {
		return false
	}
	return now.After(due)
}

// Input carries the user-editable fields of a task for Create and Edit.
type Input struct {
	Text     string   `json:"text"`
	Priority Priority `json:"priority"`
	DueDate  string   `json:"due_date"`
	DueTime  string   `json:"due_time"`
}
