package store

import (
	"taskfocus-cli/internal/model"
	"taskfocus-cli/internal/timeutil"
)

// FocusPreselect is how many of the top suggestions start selected when
// the daily focus prompt is shown.
const FocusPreselect = 3

// NeedsFocusPrompt reports whether today's focus has not been chosen yet.
// A missing focus date counts as "not chosen".
func (s *Store) NeedsFocusPrompt() bool {
	last := s.doc.Meta.LastFocusDate
	return last == nil || *last != timeutil.Today()
}

// FocusSuggestions returns today's eligible tasks in working order, ready
// for the focus prompt.
func (s *Store) FocusSuggestions() []*model.Task {
	return SortTasks(s.EligibleToday())
}

// SetFocusForToday flags exactly the given ids as focused, clears the
// flag everywhere else, and stamps the focus date, all in one write. Only
// open tasks take the flag; a selected id that was closed in the meantime
// is silently skipped. An empty set is a deliberate "nothing today": it
// clears focus and still advances the date so the prompt stays quiet
// until tomorrow.
func (s *Store) SetFocusForToday(ids []int) error {
	want := make(map[int]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	for _, t := range s.doc.Tasks {
		t.Focus = want[t.ID] && t.Status == model.StatusOpen
	}
	today := timeutil.Today()
	s.doc.Meta.LastFocusDate = &today
	return s.save()
}

// FocusedToday returns the focused subset of today's eligible tasks. A
// flagged task that is done or not yet started drops out of the list even
// though the flag survives in the snapshot.
func (s *Store) FocusedToday() []*model.Task {
	out := []*model.Task{}
	for _, t := range s.EligibleToday() {
		if t.Focus {
			out = append(out, t)
		}
	}
	return out
}

// ClearFocus unflags every task without touching the focus date.
func (s *Store) ClearFocus() error {
	for _, t := range s.doc.Tasks {
		t.Focus = false
	}
	return s.save()
}
