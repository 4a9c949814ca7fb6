package store

import (
	"os"
	"path/filepath"
	"testing"

	"taskfocus-cli/internal/model"
)

func issueCodes(r DoctorReport) map[string]int {
	out := map[string]int{}
	for _, it := range r.Issues {
		out[it.Code]++
	}
	return out
}

func TestDoctorSnapshot_MissingFile(t *testing.T) {
	r := DoctorSnapshot(filepath.Join(t.TempDir(), "tasks.json"))
	if r.HasErrors() {
		t.Fatalf("missing snapshot is a warning, not an error: %+v", r.Issues)
	}
	if len(r.Issues) != 1 || r.Issues[0].Code != "snapshot_missing" {
		t.Fatalf("issues = %+v", r.Issues)
	}
}

func TestDoctorSnapshot_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.json")
	if err := os.WriteFile(path, []byte("{nope"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	r := DoctorSnapshot(path)
	if !r.HasErrors() {
		t.Fatalf("invalid JSON must be an error: %+v", r.Issues)
	}
	if r.Issues[0].Code != "snapshot_invalid_json" {
		t.Fatalf("issues = %+v", r.Issues)
	}
}

func TestDoctorSnapshot_CleanStore(t *testing.T) {
	s := newTestStore(t)
	task, err := s.AddTask(model.Task{
		Title: "healthy",
		Plan:  []model.PlanItem{{Text: "step one"}, {Text: "step two"}},
	})
	if err != nil {
		t.Fatalf("AddTask: %v", err)
	}
	if _, err := s.AppendSession(task.ID, 30, "worked", "", []string{task.Plan[0].ID}); err != nil {
		t.Fatalf("AppendSession: %v", err)
	}

	r := DoctorSnapshot(s.Path())
	if len(r.Issues) != 0 {
		t.Fatalf("clean store reported issues: %+v", r.Issues)
	}
}

func TestDoctorSnapshot_FlagsInconsistencies(t *testing.T) {
	raw := `{
  "tasks": [
    {
      "id": 1,
      "title": "dirty",
      "type": "Make",
      "priority": "Medium",
      "status": "someday",
      "start_date": "whenever",
      "deadline": "2026-13-45",
      "time_spent_minutes": 999,
      "plan": [
        {"id": "p1", "text": "credited to a ghost", "completed": true, "completed_at": "2026-01-01 10:00", "completed_by": "ghost"},
        {"id": "p2", "text": "stray stamps", "completed": false, "completed_at": "2026-01-01 10:00", "completed_by": null}
      ],
      "sessions": [
        {"id": "s1", "timestamp": "2026-01-02 10:00", "minutes": -30, "note": "", "plan_items": ["p1", "vanished"]},
        {"id": "s2", "timestamp": "not a stamp", "minutes": 10, "note": "", "plan_items": []}
      ]
    },
    {"id": 1, "title": "same id again", "type": "Ask", "priority": "Low", "status": "open"}
  ],
  "meta": {"last_focus_date": null, "people": [], "labels": []}
}`
	path := filepath.Join(t.TempDir(), "tasks.json")
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	r := DoctorSnapshot(path)
	codes := issueCodes(r)
	for _, want := range []string{
		"duplicate_task_id",
		"unknown_status",
		"unparseable_date",
		"unparseable_timestamp",
		"negative_minutes",
		"stray_completion_stamp",
		"stale_attribution",
		"orphaned_plan_reference",
		"stale_time_total",
	} {
		if codes[want] == 0 {
			t.Fatalf("missing code %q in %+v", want, r.Issues)
		}
	}
	if codes["unparseable_date"] != 2 {
		t.Fatalf("both bad dates must be flagged: %+v", r.Issues)
	}
	if !r.HasErrors() {
		t.Fatalf("duplicate task id must make the report an error")
	}
}

func TestRepair_HealsCrossReferences(t *testing.T) {
	raw := `{
  "tasks": [
    {
      "id": 7,
      "title": "needs repair",
      "type": "Make",
      "priority": "Medium",
      "status": "open",
      "start_date": "2026-01-01",
      "created_at": "2026-01-01T08:00:00",
      "time_spent_minutes": 999,
      "plan": [
        {"id": "p1", "text": "credited to a ghost", "completed": true, "completed_at": "2026-01-01 10:00", "completed_by": "ghost"},
        {"id": "p2", "text": "stray stamps", "completed": false, "completed_at": "2026-01-01 10:00", "completed_by": null}
      ],
      "sessions": [
        {"id": "s1", "timestamp": "2026-01-02 10:00", "minutes": 30, "note": "", "plan_items": ["p1", "vanished"]}
      ]
    }
  ],
  "meta": {"last_focus_date": null, "people": [], "labels": []}
}`
	path := filepath.Join(t.TempDir(), "tasks.json")
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := s.Repair(); err != nil {
		t.Fatalf("Repair: %v", err)
	}

	r := DoctorSnapshot(path)
	if len(r.Issues) != 0 {
		t.Fatalf("repair left issues behind: %+v", r.Issues)
	}

	task, ok := s.Task(7)
	if !ok {
		t.Fatalf("task lost during repair")
	}
	// The ghost attribution is cleared but the completion itself stays.
	p1 := task.FindPlanItem("p1")
	if p1 == nil || !p1.Completed || p1.CompletedBy != nil {
		t.Fatalf("p1 after repair = %+v", p1)
	}
	p2 := task.FindPlanItem("p2")
	if p2 == nil || p2.CompletedAt != nil {
		t.Fatalf("stray stamp not cleared: %+v", p2)
	}
	ses := task.FindSession("s1")
	if len(ses.PlanItems) != 1 || ses.PlanItems[0] != "p1" {
		t.Fatalf("orphaned reference not dropped: %v", ses.PlanItems)
	}
	if task.TimeSpentMinutes != 30 {
		t.Fatalf("total = %d, want 30", task.TimeSpentMinutes)
	}
}
