package store

import (
	"sort"
	"time"

	"taskfocus-cli/internal/model"
	"taskfocus-cli/internal/timeutil"
)

// farFuture stands in for a missing or unparseable deadline or start date,
// so undated tasks sort after every dated one. Missing creation stamps use
// a separate, earlier sentinel; stamps are compared as strings, which for
// ISO-8601 matches chronological order.
var farFuture = time.Date(9999, time.December, 31, 0, 0, 0, 0, time.UTC)

const createdFallback = "2099-01-01"

type sortKey struct {
	rank     int
	deadline time.Time
	start    time.Time
	created  string
}

func keyOf(t *model.Task) sortKey {
	k := sortKey{rank: t.Priority.Rank(), deadline: farFuture, start: farFuture, created: t.CreatedAt}
	if d, ok := timeutil.ParseDate(t.Deadline); ok {
		k.deadline = d
	}
	if s, ok := timeutil.ParseDate(t.StartDate); ok {
		k.start = s
	}
	if k.created == "" {
		k.created = createdFallback
	}
	return k
}

func taskLess(a, b *model.Task) bool {
	ka, kb := keyOf(a), keyOf(b)
	if ka.rank != kb.rank {
		return ka.rank < kb.rank
	}
	if !ka.deadline.Equal(kb.deadline) {
		return ka.deadline.Before(kb.deadline)
	}
	if !ka.start.Equal(kb.start) {
		return ka.start.Before(kb.start)
	}
	return ka.created < kb.created
}

// SortTasks orders tasks by priority, then deadline, then start date, then
// creation stamp, keeping input order on full ties. The slice is reordered
// in place and returned for chaining.
func SortTasks(tasks []*model.Task) []*model.Task {
	sort.SliceStable(tasks, func(i, j int) bool {
		return taskLess(tasks[i], tasks[j])
	})
	return tasks
}

// EligibleToday returns the open tasks whose start date is today or
// earlier, in collection order. A start date that does not parse never
// hides a task.
func (s *Store) EligibleToday() []*model.Task {
	today := timeutil.TodayDate()
	out := []*model.Task{}
	for _, t := range s.doc.Tasks {
		if t.Status != model.StatusOpen {
			continue
		}
		if start, ok := timeutil.ParseDate(t.StartDate); ok && start.After(today) {
			continue
		}
		out = append(out, t)
	}
	return out
}
