package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"taskfocus-cli/internal/model"
	"taskfocus-cli/internal/reconcile"
	"taskfocus-cli/internal/timeutil"
)

// Store owns the persisted task aggregate: the task collection, the
// people/labels registries, and the focus bookkeeping. Every mutating
// method rewrites the whole snapshot synchronously before returning.
//
// A Store is not safe for concurrent use; callers serialize access.
type Store struct {
	path string

	doc *model.Document

	// Direct id -> task lookup so high-frequency operations (focus
	// toggles, session logging, previews) do not rescan the whole list.
	// Rebuilt on load, kept in sync on add/delete.
	byID map[int]*model.Task

	search searchIndex
}

// Open loads the snapshot at path, creating it when missing. A snapshot
// that cannot be read or parsed is discarded and replaced by an empty one
// on the spot: corrupted data is lost, not recovered.
func Open(path string) (*Store, error) {
	s := &Store{path: path}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the snapshot file location.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) load() error {
	s.doc = emptyDocument()
	s.byID = map[int]*model.Task{}

	b, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s.save()
		}
		// Unreadable counts as corrupt: reset and persist the empty state.
		return s.save()
	}

	var doc model.Document
	if err := json.Unmarshal(b, &doc); err != nil {
		return s.save()
	}

	tasks := make([]*model.Task, 0, len(doc.Tasks))
	for _, t := range doc.Tasks {
		if t != nil {
			tasks = append(tasks, t)
		}
	}
	doc.Tasks = tasks
	if doc.Meta.People == nil {
		doc.Meta.People = []string{}
	}
	if doc.Meta.Labels == nil {
		doc.Meta.Labels = []string{}
	}
	s.doc = &doc

	for _, t := range s.doc.Tasks {
		ensureTaskDefaults(t)
		s.registerPeople(t.WhoAsked, t.Assignee)
		s.registerLabels(t.Labels...)
	}
	s.reindex()
	s.search.invalidate()
	return nil
}

// save rewrites the snapshot in full with a plain truncate-and-write,
// no temp-file dance. A crash mid-write corrupts the file and the next
// load() resets it to empty.
func (s *Store) save() error {
	b, err := json.MarshalIndent(s.doc, "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(s.path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	s.search.invalidate()
	return os.WriteFile(s.path, b, 0o644)
}

func (s *Store) reindex() {
	s.byID = make(map[int]*model.Task, len(s.doc.Tasks))
	for _, t := range s.doc.Tasks {
		if t.ID != 0 {
			s.byID[t.ID] = t
		}
	}
}

func (s *Store) nextID() int {
	max := 0
	for _, t := range s.doc.Tasks {
		if t.ID > max {
			max = t.ID
		}
	}
	return max + 1
}

func emptyDocument() *model.Document {
	return &model.Document{
		Tasks: []*model.Task{},
		Meta:  model.Meta{People: []string{}, Labels: []string{}},
	}
}

// AddTask fills defaults on the draft, assigns the next id, registers
// people and labels, appends, and persists. Ids count up from the current
// maximum.
func (s *Store) AddTask(draft model.Task) (*model.Task, error) {
	t := draft
	if t.ID == 0 {
		t.ID = s.nextID()
	}
	if t.Type == "" {
		t.Type = model.TypeMake
	}
	if t.Priority == "" {
		t.Priority = model.PriorityMedium
	}
	if t.StartDate == "" {
		t.StartDate = timeutil.Today()
	}
	t.StartDate = timeutil.NormalizeDate(t.StartDate)
	t.Deadline = timeutil.NormalizeDate(t.Deadline)
	if t.Status == "" {
		t.Status = model.StatusOpen
	}
	if t.CreatedAt == "" {
		t.CreatedAt = timeutil.NowISO()
	}
	ensureTaskDefaults(&t)

	s.doc.Tasks = append(s.doc.Tasks, &t)
	s.byID[t.ID] = &t
	s.registerPeople(t.WhoAsked, t.Assignee)
	s.registerLabels(t.Labels...)
	if err := s.save(); err != nil {
		return nil, err
	}
	return &t, nil
}

// TaskPatch lists the fields UpdateTask may change. Nil fields stay
// untouched. Slice fields follow the same rule: nil means "leave alone",
// a non-nil (even empty) value is applied. Plan is never assigned
// directly; it goes through the reconciliation merge.
type TaskPatch struct {
	Title       *string
	Type        *model.TaskType
	Priority    *model.Priority
	WhoAsked    *string
	Assignee    *string
	StartDate   *string
	Deadline    *string
	Status      *model.Status
	Focus       *bool
	Description *string
	Labels      []string
	Plan        []model.PlanItem
}

// UpdateTask shallow-merges the patch into the record. Status transitions
// own the completion stamp: moving to done sets completed_at, reopening
// clears it. Defaulting is re-applied afterwards so partial legacy records
// heal on update too.
func (s *Store) UpdateTask(id int, patch TaskPatch) (*model.Task, error) {
	t, ok := s.byID[id]
	if !ok {
		return nil, errNotFound("task", id)
	}

	if patch.Title != nil {
		t.Title = *patch.Title
	}
	if patch.Type != nil {
		t.Type = *patch.Type
	}
	if patch.Priority != nil {
		t.Priority = *patch.Priority
	}
	if patch.WhoAsked != nil {
		t.WhoAsked = *patch.WhoAsked
	}
	if patch.Assignee != nil {
		t.Assignee = *patch.Assignee
	}
	if patch.StartDate != nil {
		t.StartDate = timeutil.NormalizeDate(*patch.StartDate)
	}
	if patch.Deadline != nil {
		t.Deadline = timeutil.NormalizeDate(*patch.Deadline)
	}
	if patch.Description != nil {
		t.Description = *patch.Description
	}
	if patch.Focus != nil {
		t.Focus = *patch.Focus
	}
	if patch.Labels != nil {
		t.Labels = normalizeLabels(patch.Labels)
	}
	if patch.Status != nil && *patch.Status != t.Status {
		t.Status = *patch.Status
		if t.Status == model.StatusDone {
			ts := timeutil.NowISO()
			t.CompletedAt = &ts
		} else {
			t.CompletedAt = nil
		}
	}

	if patch.Plan != nil {
		reconcile.MergePlanItems(t, patch.Plan, timeutil.NowStamp(), func() string {
			return newPlanItemID(t)
		})
	}

	ensureTaskDefaults(t)
	s.registerPeople(t.WhoAsked, t.Assignee)
	s.registerLabels(t.Labels...)
	if err := s.save(); err != nil {
		return nil, err
	}
	return t, nil
}

// Task returns the record by id, re-applying defaults so legacy records
// self-heal on first read.
func (s *Store) Task(id int) (*model.Task, bool) {
	t, ok := s.byID[id]
	if !ok {
		return nil, false
	}
	ensureTaskDefaults(t)
	return t, true
}

// Tasks returns the collection, filtered when status is open or done and
// unfiltered for anything else. The slice is fresh; the records are live.
func (s *Store) Tasks(status model.Status) []*model.Task {
	out := make([]*model.Task, 0, len(s.doc.Tasks))
	for _, t := range s.doc.Tasks {
		if (status == model.StatusOpen || status == model.StatusDone) && t.Status != status {
			continue
		}
		out = append(out, t)
	}
	return out
}

// DeleteTask removes the record and its index entry.
func (s *Store) DeleteTask(id int) error {
	if _, ok := s.byID[id]; !ok {
		return errNotFound("task", id)
	}
	kept := make([]*model.Task, 0, len(s.doc.Tasks))
	for _, t := range s.doc.Tasks {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	s.doc.Tasks = kept
	delete(s.byID, id)
	return s.save()
}

// AppendSession logs a new work interval against the task and marks every
// plan item in planItemIDs as completed by it. An empty timestamp means
// now. The derived time total is recomputed before persisting.
func (s *Store) AppendSession(taskID int, minutes int, note string, timestamp string, planItemIDs []string) (*model.Session, error) {
	t, ok := s.byID[taskID]
	if !ok {
		return nil, errNotFound("task", taskID)
	}
	ensureTaskDefaults(t)

	ts := strings.TrimSpace(timestamp)
	if ts == "" {
		ts = timeutil.NowStamp()
	}
	entry := model.Session{
		ID:        newSessionID(t),
		Timestamp: ts,
		Minutes:   minutes,
		Note:      note,
		PlanItems: append([]string{}, planItemIDs...),
	}
	t.Sessions = append(t.Sessions, entry)
	reconcile.SyncSessionClaims(t, entry.ID, entry.PlanItems, ts)
	reconcile.RecalcTimeSpent(t)
	if err := s.save(); err != nil {
		return nil, err
	}
	return t.FindSession(entry.ID), nil
}

// UpdateSession edits a session in place and re-points which plan items it
// completed: items it previously claimed but no longer lists are un-marked.
func (s *Store) UpdateSession(taskID int, sessionID string, timestamp string, minutes int, note string, planItemIDs []string) (*model.Session, error) {
	t, ok := s.byID[taskID]
	if !ok {
		return nil, errNotFound("task", taskID)
	}
	ensureTaskDefaults(t)

	ses := t.FindSession(sessionID)
	if ses == nil {
		return nil, errNotFound("session", sessionID)
	}
	ses.Timestamp = timestamp
	ses.Minutes = minutes
	ses.Note = note
	ses.PlanItems = append([]string{}, planItemIDs...)
	reconcile.SyncSessionClaims(t, sessionID, ses.PlanItems, timestamp)
	reconcile.RecalcTimeSpent(t)
	if err := s.save(); err != nil {
		return nil, err
	}
	return ses, nil
}

// SetPlanCompletion toggles one plan item by hand. Manual completions are
// never attributed to a session; other items are not touched.
func (s *Store) SetPlanCompletion(taskID int, itemID string, completed bool) (*model.PlanItem, error) {
	t, ok := s.byID[taskID]
	if !ok {
		return nil, errNotFound("task", taskID)
	}
	ensureTaskDefaults(t)

	item := t.FindPlanItem(itemID)
	if item == nil {
		return nil, errNotFound("plan item", itemID)
	}
	item.Completed = completed
	if completed {
		ts := timeutil.NowStamp()
		item.CompletedAt = &ts
	} else {
		item.CompletedAt = nil
	}
	item.CompletedBy = nil
	if err := s.save(); err != nil {
		return nil, err
	}
	return item, nil
}

// PostponeTask pushes the start date days forward from max(start, today).
func (s *Store) PostponeTask(id int, days int) (*model.Task, error) {
	t, ok := s.byID[id]
	if !ok {
		return nil, errNotFound("task", id)
	}
	base := timeutil.TodayDate()
	if cur, parsed := timeutil.ParseDate(t.StartDate); parsed && cur.After(base) {
		base = cur
	}
	next := base.AddDate(0, 0, days).Format(timeutil.DateLayout)
	return s.UpdateTask(t.ID, TaskPatch{StartDate: &next})
}

// People returns the known-names suggestion set, sorted.
func (s *Store) People() []string {
	return append([]string{}, s.doc.Meta.People...)
}

// Labels returns the known-labels suggestion set, sorted.
func (s *Store) Labels() []string {
	return append([]string{}, s.doc.Meta.Labels...)
}

func (s *Store) registerPeople(names ...string) {
	s.doc.Meta.People = registerInto(s.doc.Meta.People, names)
}

func (s *Store) registerLabels(labels ...string) {
	s.doc.Meta.Labels = registerInto(s.doc.Meta.Labels, labels)
}

// registerInto unions trimmed non-empty values into a sorted set. The
// registries only grow; nothing unregisters a name.
func registerInto(current []string, values []string) []string {
	set := make(map[string]bool, len(current))
	for _, v := range current {
		set[v] = true
	}
	changed := false
	for _, raw := range values {
		v := strings.TrimSpace(raw)
		if v == "" || set[v] {
			continue
		}
		set[v] = true
		changed = true
	}
	if !changed {
		return current
	}
	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
