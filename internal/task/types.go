package task

import (
	"fmt"
	"strings"
)

// Task is a single todo item as exchanged with the remote store.
// Stores may attach extra fields (jsonplaceholder adds userId); those are
// dropped on decode.
type Task struct {
	ID        int    `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

// IsZero returns true if the task is empty (has no ID).
func (t *Task) IsZero() bool {
	return t.ID == 0
}

// Filter selects which tasks the view projection shows.
type Filter string

const (
	FilterAll         Filter = "all"
	FilterCompleted   Filter = "completed"
	FilterUncompleted Filter = "uncompleted"
)

// ParseFilter normalizes s to a Filter. It accepts the canonical names plus
// a few common spellings ("active", "open", "done", "pending").
func ParseFilter(s string) (Filter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return FilterAll, nil
	case "completed", "done":
		return FilterCompleted, nil
	case "uncompleted", "active", "open", "pending":
		return FilterUncompleted, nil
	default:
		return "", fmt.Errorf("invalid filter %q, must be one of: all, completed, uncompleted", s)
	}
}

// Match reports whether t passes the filter.
func (f Filter) Match(t Task) bool {
	switch f {
	case FilterCompleted:
		return t.Completed
	case FilterUncompleted:
		return !t.Completed
	default:
		return true
	}
}

// List is the ordered in-memory task collection. Order is insertion order;
// newly created tasks are prepended. Duplicate IDs can occur because the
// reference store assigns a constant ID on every create, so operations that
// address a single ID affect the first match only.
type List struct {
	tasks []Task
}

// NewList returns a list seeded with the given tasks in order.
func NewList(tasks ...Task) *List {
	l := &List{}
	l.Replace(tasks)
	return l
}

// Replace swaps the whole collection for the given sequence.
// This is the merge step of the initial load.
func (l *List) Replace(tasks []Task) {
	l.tasks = make([]Task, len(tasks))
	copy(l.tasks, tasks)
}

// Prepend inserts a task at the front of the collection.
// This is the merge step of a successful create.
func (l *List) Prepend(t Task) {
	l.tasks = append([]Task{t}, l.tasks...)
}

// Get returns the first task with the given ID, or nil if not found.
func (l *List) Get(id int) *Task {
	for i := range l.tasks {
		if l.tasks[i].ID == id {
			return &l.tasks[i]
		}
	}
	return nil
}

// Toggle flips the completed flag on the first task matching id.
// It reports whether a match existed; a miss leaves the collection unchanged.
func (l *List) Toggle(id int) bool {
	for i := range l.tasks {
		if l.tasks[i].ID == id {
			l.tasks[i].Completed = !l.tasks[i].Completed
			return true
		}
	}
	return false
}

// Remove deletes the first task matching id and reports whether a match
// existed. Callers signal success to the user either way.
func (l *List) Remove(id int) bool {
	for i := range l.tasks {
		if l.tasks[i].ID == id {
			l.tasks = append(l.tasks[:i], l.tasks[i+1:]...)
			return true
		}
	}
	return false
}

// SetTitle overwrites the title of the first task matching id, leaving its
// completed flag untouched. This is the merge step of a successful replace:
// the title comes from the server echo while completion state stays local.
// It reports whether a match existed.
func (l *List) SetTitle(id int, title string) bool {
	for i := range l.tasks {
		if l.tasks[i].ID == id {
			l.tasks[i].Title = title
			return true
		}
	}
	return false
}

// CompleteAll marks every task completed. Size and order are unchanged.
func (l *List) CompleteAll() {
	for i := range l.tasks {
		l.tasks[i].Completed = true
	}
}

// ClearCompleted removes every completed task, preserving the relative
// order of the rest. It returns the number of tasks removed.
func (l *List) ClearCompleted() int {
	kept := l.tasks[:0]
	removed := 0
	for _, t := range l.tasks {
		if t.Completed {
			removed++
			continue
		}
		kept = append(kept, t)
	}
	l.tasks = kept
	return removed
}

// Len returns the number of tasks in the collection.
func (l *List) Len() int {
	return len(l.tasks)
}

// Tasks returns a copy of the full collection in order.
func (l *List) Tasks() []Task {
	out := make([]Task, len(l.tasks))
	copy(out, l.tasks)
	return out
}

// Visible returns the ordered subsequence of tasks matching the filter.
// It is recomputed on every call; the collection is never mutated.
func (l *List) Visible(f Filter) []Task {
	out := make([]Task, 0, len(l.tasks))
	for _, t := range l.tasks {
		if f.Match(t) {
			out = append(out, t)
		}
	}
	return out
}

// Counts returns the total and completed task counts over the unfiltered
// collection. The active filter never affects these numbers.
func (l *List) Counts() (total, completed int) {
	total = len(l.tasks)
	for _, t := range l.tasks {
		if t.Completed {
			completed++
		}
	}
	return total, completed
}
