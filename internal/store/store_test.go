package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"taskfocus-cli/internal/model"
	"taskfocus-cli/internal/timeutil"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "tasks.json"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return s
}

func TestOpen_CreatesSnapshotWhenMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "tasks.json")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if got := s.Tasks(""); len(got) != 0 {
		t.Fatalf("expected empty collection, got %d tasks", len(got))
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("snapshot not created: %v", err)
	}
	var doc model.Document
	if err := json.Unmarshal(b, &doc); err != nil {
		t.Fatalf("fresh snapshot unparseable: %v", err)
	}
}

func TestOpen_ResetsCorruptSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.json")
	if err := os.WriteFile(path, []byte("{this is not json"), 0o644); err != nil {
		t.Fatalf("seed corrupt file: %v", err)
	}
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open on corrupt snapshot: %v", err)
	}
	if got := s.Tasks(""); len(got) != 0 {
		t.Fatalf("expected reset to empty, got %d tasks", len(got))
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read snapshot: %v", err)
	}
	var doc model.Document
	if err := json.Unmarshal(b, &doc); err != nil {
		t.Fatalf("snapshot still unparseable after reset: %v", err)
	}
}

func TestOpen_RoundTripsTasks(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.json")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	task, err := s.AddTask(model.Task{
		Title:    "Renew TLS certs",
		Type:     model.TypeArrange,
		Priority: model.PriorityHigh,
		WhoAsked: "Lena",
		Assignee: "Marta",
		Deadline: "2026-09-30",
		Labels:   []string{"infra"},
		Plan:     []model.PlanItem{{Text: "inventory hosts"}},
	})
	if err != nil {
		t.Fatalf("AddTask: %v", err)
	}
	if _, err := s.AppendSession(task.ID, 25, "collected host list", "", nil); err != nil {
		t.Fatalf("AppendSession: %v", err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	got, ok := reopened.Task(task.ID)
	if !ok {
		t.Fatalf("task %d missing after reload", task.ID)
	}
	if got.Title != "Renew TLS certs" || got.Type != model.TypeArrange || got.Priority != model.PriorityHigh {
		t.Fatalf("scalar fields did not survive reload: %+v", got)
	}
	if got.Deadline != "2026-09-30" || got.WhoAsked != "Lena" {
		t.Fatalf("date/people fields did not survive reload: %+v", got)
	}
	if len(got.Plan) != 1 || got.Plan[0].ID == "" {
		t.Fatalf("plan did not survive reload: %+v", got.Plan)
	}
	if len(got.Sessions) != 1 || got.TimeSpentMinutes != 25 {
		t.Fatalf("sessions did not survive reload: %+v", got.Sessions)
	}
	if !reflect.DeepEqual(reopened.People(), []string{"Lena", "Marta"}) {
		t.Fatalf("people registry = %v", reopened.People())
	}
	if !reflect.DeepEqual(reopened.Labels(), []string{"infra"}) {
		t.Fatalf("labels registry = %v", reopened.Labels())
	}
}

func TestOpen_HealsLegacyRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.json")
	raw := `{
  "tasks": [
    {
      "id": 1,
      "title": "Migrate wiki",
      "status": "open",
      "labels": [" infra", "infra", "docs "],
      "plan": [{"text": "outline pages", "completed": false}],
      "sessions": [{"minutes": 30, "note": "first pass", "plan_items": ["", "p-x"]}]
    }
  ],
  "meta": {}
}`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("seed snapshot: %v", err)
	}
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	task, ok := s.Task(1)
	if !ok {
		t.Fatalf("task 1 missing")
	}
	if !reflect.DeepEqual(task.Labels, []string{"infra", "docs"}) {
		t.Fatalf("labels not normalized: %v", task.Labels)
	}
	if task.Plan[0].ID == "" || !strings.HasPrefix(task.Plan[0].ID, "pln-") {
		t.Fatalf("plan item id not minted: %q", task.Plan[0].ID)
	}
	ses := task.Sessions[0]
	if ses.ID == "" || !strings.HasPrefix(ses.ID, "ses-") {
		t.Fatalf("session id not minted: %q", ses.ID)
	}
	if ses.Timestamp == "" {
		t.Fatalf("empty session timestamp not defaulted")
	}
	if !reflect.DeepEqual(ses.PlanItems, []string{"p-x"}) {
		t.Fatalf("empty plan refs not filtered: %v", ses.PlanItems)
	}
	if task.TimeSpentMinutes != 30 {
		t.Fatalf("time not recomputed: %d", task.TimeSpentMinutes)
	}
}

func TestAddTask_FillsDefaults(t *testing.T) {
	s := newTestStore(t)
	task, err := s.AddTask(model.Task{Title: "Write launch note"})
	if err != nil {
		t.Fatalf("AddTask: %v", err)
	}
	if task.ID != 1 {
		t.Fatalf("expected id 1, got %d", task.ID)
	}
	if task.Type != model.TypeMake || task.Priority != model.PriorityMedium {
		t.Fatalf("type/priority defaults wrong: %s/%s", task.Type, task.Priority)
	}
	if task.StartDate != timeutil.Today() {
		t.Fatalf("start date = %q, want today", task.StartDate)
	}
	if task.Status != model.StatusOpen || task.Focus {
		t.Fatalf("status/focus defaults wrong: %s/%v", task.Status, task.Focus)
	}
	if task.CreatedAt == "" {
		t.Fatalf("created_at not stamped")
	}
	if task.CompletedAt != nil {
		t.Fatalf("completed_at set on open task")
	}
	if task.Plan == nil || task.Sessions == nil || task.Labels == nil {
		t.Fatalf("collections not initialized: %+v", task)
	}
}

func TestAddTask_NormalizesDottedDates(t *testing.T) {
	s := newTestStore(t)
	task, err := s.AddTask(model.Task{Title: "Book venue", StartDate: "24.12.2026", Deadline: "31.12.2026"})
	if err != nil {
		t.Fatalf("AddTask: %v", err)
	}
	if task.StartDate != "2026-12-24" || task.Deadline != "2026-12-31" {
		t.Fatalf("dates not normalized: %q / %q", task.StartDate, task.Deadline)
	}
}

func TestAddTask_AssignsMaxPlusOne(t *testing.T) {
	s := newTestStore(t)
	for _, title := range []string{"one", "two", "three"} {
		if _, err := s.AddTask(model.Task{Title: title}); err != nil {
			t.Fatalf("AddTask(%s): %v", title, err)
		}
	}
	if err := s.DeleteTask(2); err != nil {
		t.Fatalf("DeleteTask: %v", err)
	}
	task, err := s.AddTask(model.Task{Title: "four"})
	if err != nil {
		t.Fatalf("AddTask: %v", err)
	}
	if task.ID != 4 {
		t.Fatalf("expected id 4, got %d", task.ID)
	}
}

func TestUpdateTask_AppliesPatchAndRegisters(t *testing.T) {
	s := newTestStore(t)
	task, err := s.AddTask(model.Task{Title: "Prepare demo"})
	if err != nil {
		t.Fatalf("AddTask: %v", err)
	}
	title := "Prepare quarterly demo"
	who := "Lena"
	assignee := "bob"
	deadline := "05.09.2026"
	prio := model.PriorityHigh
	got, err := s.UpdateTask(task.ID, TaskPatch{
		Title:    &title,
		WhoAsked: &who,
		Assignee: &assignee,
		Deadline: &deadline,
		Priority: &prio,
		Labels:   []string{"demo", " demo", "q3"},
	})
	if err != nil {
		t.Fatalf("UpdateTask: %v", err)
	}
	if got.Title != title || got.Priority != model.PriorityHigh {
		t.Fatalf("patch not applied: %+v", got)
	}
	if got.Deadline != "2026-09-05" {
		t.Fatalf("deadline not normalized: %q", got.Deadline)
	}
	if !reflect.DeepEqual(got.Labels, []string{"demo", "q3"}) {
		t.Fatalf("labels not normalized: %v", got.Labels)
	}
	if !reflect.DeepEqual(s.People(), []string{"Lena", "bob"}) {
		t.Fatalf("people registry = %v", s.People())
	}
	if !reflect.DeepEqual(s.Labels(), []string{"demo", "q3"}) {
		t.Fatalf("labels registry = %v", s.Labels())
	}
}

func TestUpdateTask_StatusTransitionOwnsCompletionStamp(t *testing.T) {
	s := newTestStore(t)
	task, err := s.AddTask(model.Task{Title: "File expense report"})
	if err != nil {
		t.Fatalf("AddTask: %v", err)
	}

	done := model.StatusDone
	got, err := s.UpdateTask(task.ID, TaskPatch{Status: &done})
	if err != nil {
		t.Fatalf("UpdateTask(done): %v", err)
	}
	if got.Status != model.StatusDone || got.CompletedAt == nil || *got.CompletedAt == "" {
		t.Fatalf("completion stamp missing: %+v", got)
	}

	open := model.StatusOpen
	got, err = s.UpdateTask(task.ID, TaskPatch{Status: &open})
	if err != nil {
		t.Fatalf("UpdateTask(open): %v", err)
	}
	if got.Status != model.StatusOpen || got.CompletedAt != nil {
		t.Fatalf("reopening must clear the stamp: %+v", got)
	}
}

func TestUpdateTask_MergesPlanInsteadOfAssigning(t *testing.T) {
	s := newTestStore(t)
	task, err := s.AddTask(model.Task{Title: "Ship exporter", Plan: []model.PlanItem{
		{Text: "draft schema"},
		{Text: "write dump"},
	}})
	if err != nil {
		t.Fatalf("AddTask: %v", err)
	}
	keepID := task.Plan[0].ID

	got, err := s.UpdateTask(task.ID, TaskPatch{Plan: []model.PlanItem{
		{ID: keepID, Text: "draft schema", Completed: true},
		{Text: "announce"},
		{Text: "   "},
	}})
	if err != nil {
		t.Fatalf("UpdateTask: %v", err)
	}
	if len(got.Plan) != 2 {
		t.Fatalf("expected 2 plan items after merge, got %v", got.Plan)
	}
	first := got.Plan[0]
	if first.ID != keepID || !first.Completed || first.CompletedAt == nil || first.CompletedBy != nil {
		t.Fatalf("resubmitted item not completed correctly: %+v", first)
	}
	if got.Plan[1].Text != "announce" || got.Plan[1].ID == "" {
		t.Fatalf("new item not minted: %+v", got.Plan[1])
	}
}

func TestUpdateTask_UnknownID(t *testing.T) {
	s := newTestStore(t)
	title := "nope"
	if _, err := s.UpdateTask(99, TaskPatch{Title: &title}); !IsNotFound(err) {
		t.Fatalf("expected not-found, got %v", err)
	}
}

func TestDeleteTask(t *testing.T) {
	s := newTestStore(t)
	task, err := s.AddTask(model.Task{Title: "Throwaway"})
	if err != nil {
		t.Fatalf("AddTask: %v", err)
	}
	if err := s.DeleteTask(task.ID); err != nil {
		t.Fatalf("DeleteTask: %v", err)
	}
	if _, ok := s.Task(task.ID); ok {
		t.Fatalf("task still present after delete")
	}
	if err := s.DeleteTask(task.ID); !IsNotFound(err) {
		t.Fatalf("expected not-found on second delete, got %v", err)
	}
}

func TestTasks_FiltersByStatus(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.AddTask(model.Task{Title: "open one"}); err != nil {
		t.Fatalf("AddTask: %v", err)
	}
	doneTask, err := s.AddTask(model.Task{Title: "done one"})
	if err != nil {
		t.Fatalf("AddTask: %v", err)
	}
	done := model.StatusDone
	if _, err := s.UpdateTask(doneTask.ID, TaskPatch{Status: &done}); err != nil {
		t.Fatalf("UpdateTask: %v", err)
	}

	if got := s.Tasks(model.StatusOpen); len(got) != 1 || got[0].Title != "open one" {
		t.Fatalf("open filter wrong: %v", got)
	}
	if got := s.Tasks(model.StatusDone); len(got) != 1 || got[0].Title != "done one" {
		t.Fatalf("done filter wrong: %v", got)
	}
	if got := s.Tasks(""); len(got) != 2 {
		t.Fatalf("unfiltered list wrong: %v", got)
	}
}

func TestPostponeTask_PushesFromLaterOfStartOrToday(t *testing.T) {
	s := newTestStore(t)

	// Start in the past: base is today.
	past, err := s.AddTask(model.Task{Title: "stale", StartDate: "2020-01-01"})
	if err != nil {
		t.Fatalf("AddTask: %v", err)
	}
	got, err := s.PostponeTask(past.ID, 3)
	if err != nil {
		t.Fatalf("PostponeTask: %v", err)
	}
	want := timeutil.TodayDate().AddDate(0, 0, 3).Format(timeutil.DateLayout)
	if got.StartDate != want {
		t.Fatalf("postpone from past start = %q, want %q", got.StartDate, want)
	}

	// Start in the future: base is the existing start.
	futureStart := timeutil.TodayDate().AddDate(0, 0, 10).Format(timeutil.DateLayout)
	future, err := s.AddTask(model.Task{Title: "scheduled", StartDate: futureStart})
	if err != nil {
		t.Fatalf("AddTask: %v", err)
	}
	got, err = s.PostponeTask(future.ID, 2)
	if err != nil {
		t.Fatalf("PostponeTask: %v", err)
	}
	want = timeutil.TodayDate().AddDate(0, 0, 12).Format(timeutil.DateLayout)
	if got.StartDate != want {
		t.Fatalf("postpone from future start = %q, want %q", got.StartDate, want)
	}
}
