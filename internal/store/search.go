package store

import (
	"strings"

	"taskfocus-cli/internal/model"
)

// searchIndex caches one lowercase text blob per task id. The whole cache
// is dropped on any mutation and rebuilt lazily on the next query, so a
// burst of edits costs nothing until somebody searches again.
type searchIndex struct {
	dirty bool
	blobs map[int]string
}

func (ix *searchIndex) invalidate() {
	ix.dirty = true
}

func (ix *searchIndex) blobFor(t *model.Task, all []*model.Task) string {
	if ix.dirty || ix.blobs == nil {
		ix.blobs = make(map[int]string, len(all))
		for _, task := range all {
			ix.blobs[task.ID] = buildSearchBlob(task)
		}
		ix.dirty = false
	}
	blob, ok := ix.blobs[t.ID]
	if !ok {
		blob = buildSearchBlob(t)
		ix.blobs[t.ID] = blob
	}
	return blob
}

// buildSearchBlob flattens every searchable field of a task into one
// lowercase string: the scalar fields, then labels, plan texts, and
// session notes. Empty fields are skipped rather than padded.
func buildSearchBlob(t *model.Task) string {
	parts := make([]string, 0, 8+len(t.Labels)+len(t.Plan)+len(t.Sessions))
	add := func(v string) {
		if v != "" {
			parts = append(parts, strings.ToLower(v))
		}
	}
	add(t.Title)
	add(t.Description)
	add(t.WhoAsked)
	add(t.Assignee)
	add(string(t.Type))
	add(string(t.Priority))
	add(t.StartDate)
	add(t.Deadline)
	for _, label := range t.Labels {
		add(label)
	}
	for _, item := range t.Plan {
		add(item.Text)
	}
	for _, ses := range t.Sessions {
		add(ses.Note)
	}
	return strings.Join(parts, " ")
}

// MatchesQuery reports whether the task matches a free-text query: either
// the whole query appears as a substring of the task's blob, or every
// whitespace-separated token does. Empty queries match everything.
func (s *Store) MatchesQuery(t *model.Task, query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	blob := s.search.blobFor(t, s.doc.Tasks)
	if strings.Contains(blob, q) {
		return true
	}
	for _, tok := range strings.Fields(q) {
		if !strings.Contains(blob, tok) {
			return false
		}
	}
	return true
}

// SearchTasks filters the collection by query and optional status,
// keeping collection order. An empty status searches every task.
func (s *Store) SearchTasks(query string, status model.Status) []*model.Task {
	out := []*model.Task{}
	for _, t := range s.Tasks(status) {
		if s.MatchesQuery(t, query) {
			out = append(out, t)
		}
	}
	return out
}
