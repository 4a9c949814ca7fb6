package store

import (
	"fmt"
	"testing"
	"time"

	"taskfocus-cli/internal/model"
	"taskfocus-cli/internal/timeutil"
)

func stampDaysAgo(daysAgo int, hhmm string) string {
	return time.Now().AddDate(0, 0, -daysAgo).Format(timeutil.DateLayout) + " " + hhmm
}

func createdDaysAgo(daysAgo int) string {
	return time.Now().AddDate(0, 0, -daysAgo).Format(timeutil.CreatedLayout)
}

func TestTimeByTask_BucketsByDayAndTitle(t *testing.T) {
	s := newTestStore(t)
	deep, err := s.AddTask(model.Task{Title: "Deep work"})
	if err != nil {
		t.Fatalf("AddTask: %v", err)
	}
	mail, err := s.AddTask(model.Task{Title: "Email"})
	if err != nil {
		t.Fatalf("AddTask: %v", err)
	}

	seed := []struct {
		taskID  int
		minutes int
		stamp   string
	}{
		{deep.ID, 60, stampDaysAgo(0, "09:00")},
		{deep.ID, 30, stampDaysAgo(3, "14:00")},
		{deep.ID, 999, stampDaysAgo(10, "08:00")}, // outside the window
		{deep.ID, 45, "not a timestamp"},          // unparseable, skipped
		{deep.ID, 0, stampDaysAgo(0, "10:00")},    // zero minutes, skipped
		{mail.ID, 15, stampDaysAgo(0, "11:00")},
	}
	for _, sd := range seed {
		if _, err := s.AppendSession(sd.taskID, sd.minutes, "", sd.stamp, nil); err != nil {
			t.Fatalf("AppendSession: %v", err)
		}
	}

	axis, series := s.TimeByTask(7)
	if len(axis) != 7 {
		t.Fatalf("axis length = %d", len(axis))
	}
	if axis[6] != timeutil.Today() {
		t.Fatalf("axis must end on today: %v", axis)
	}
	if len(series) != 2 {
		t.Fatalf("series = %+v", series)
	}
	if series[0].Title != "Deep work" || series[0].Total != 90 {
		t.Fatalf("heaviest title first: %+v", series[0])
	}
	if series[0].Minutes[6] != 60 || series[0].Minutes[3] != 30 {
		t.Fatalf("daily buckets wrong: %v", series[0].Minutes)
	}
	if series[1].Title != "Email" || series[1].Minutes[6] != 15 {
		t.Fatalf("second series wrong: %+v", series[1])
	}
}

func TestTimeByTask_CollapsesTailIntoOther(t *testing.T) {
	s := newTestStore(t)
	for i := 0; i < 13; i++ {
		task, err := s.AddTask(model.Task{Title: fmt.Sprintf("task %02d", i)})
		if err != nil {
			t.Fatalf("AddTask: %v", err)
		}
		if _, err := s.AppendSession(task.ID, 100-i, "", stampDaysAgo(0, "09:00"), nil); err != nil {
			t.Fatalf("AppendSession: %v", err)
		}
	}

	_, series := s.TimeByTask(1)
	if len(series) != 13 {
		t.Fatalf("expected 12 titles + Other, got %d", len(series))
	}
	last := series[len(series)-1]
	if last.Title != "Other" || last.Total != 88 {
		t.Fatalf("tail bucket wrong: %+v", last)
	}
	if series[0].Total != 100 || series[11].Total != 89 {
		t.Fatalf("top ordering wrong: first=%d twelfth=%d", series[0].Total, series[11].Total)
	}
}

func TestBurndown_CountsRemainingPerDay(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.AddTask(model.Task{Title: "still open", CreatedAt: createdDaysAgo(10)}); err != nil {
		t.Fatalf("AddTask: %v", err)
	}
	closed, err := s.AddTask(model.Task{Title: "long done", CreatedAt: createdDaysAgo(40), Status: model.StatusDone})
	if err != nil {
		t.Fatalf("AddTask: %v", err)
	}
	doneStamp := createdDaysAgo(5)
	closed.CompletedAt = &doneStamp

	points := s.Burndown()
	if len(points) != 30 {
		t.Fatalf("expected 30 points, got %d", len(points))
	}
	// Day -29: only the old task exists and it is not yet completed.
	if points[0].Remaining != 1 {
		t.Fatalf("day -29 remaining = %d, want 1", points[0].Remaining)
	}
	// Day -10: both exist, neither completed yet.
	if points[19].Remaining != 2 {
		t.Fatalf("day -10 remaining = %d, want 2", points[19].Remaining)
	}
	// Day -5: the old one is completed on this day.
	if points[24].Remaining != 1 {
		t.Fatalf("day -5 remaining = %d, want 1", points[24].Remaining)
	}
	if points[29].Remaining != 1 {
		t.Fatalf("today remaining = %d, want 1", points[29].Remaining)
	}
	if points[29].Day != timeutil.Today() {
		t.Fatalf("last point must be today: %v", points[29])
	}
}

func TestWorkload_GroupsByAssigneeAndPriority(t *testing.T) {
	s := newTestStore(t)
	add := func(assignee string, prio model.Priority, status model.Status) {
		t.Helper()
		if _, err := s.AddTask(model.Task{Title: "t", Assignee: assignee, Priority: prio, Status: status}); err != nil {
			t.Fatalf("AddTask: %v", err)
		}
	}
	add("alice", model.PriorityHigh, model.StatusOpen)
	add("alice", model.PriorityMedium, model.StatusOpen)
	add("alice", model.PriorityHigh, model.StatusDone) // done, excluded
	add("  ", model.PriorityLow, model.StatusOpen)     // blank groups as Unassigned

	rows := s.Workload()
	if len(rows) != 2 {
		t.Fatalf("rows = %+v", rows)
	}
	if rows[0].Assignee != "alice" || rows[0].Total != 2 {
		t.Fatalf("heaviest assignee first: %+v", rows[0])
	}
	if rows[0].Counts["High"] != 1 || rows[0].Counts["Medium"] != 1 {
		t.Fatalf("priority split wrong: %+v", rows[0].Counts)
	}
	if rows[1].Assignee != "Unassigned" || rows[1].Counts["Low"] != 1 {
		t.Fatalf("unassigned row wrong: %+v", rows[1])
	}
}

func TestWorkload_CollapsesTailIntoOther(t *testing.T) {
	s := newTestStore(t)
	// One heavy assignee, then eight light ones.
	for i := 0; i < 3; i++ {
		if _, err := s.AddTask(model.Task{Title: "t", Assignee: "heavy"}); err != nil {
			t.Fatalf("AddTask: %v", err)
		}
	}
	for i := 0; i < 8; i++ {
		if _, err := s.AddTask(model.Task{Title: "t", Assignee: fmt.Sprintf("light-%d", i)}); err != nil {
			t.Fatalf("AddTask: %v", err)
		}
	}

	rows := s.Workload()
	if len(rows) != 7 {
		t.Fatalf("expected top 6 + Other, got %d rows", len(rows))
	}
	if rows[0].Assignee != "heavy" || rows[0].Total != 3 {
		t.Fatalf("top row wrong: %+v", rows[0])
	}
	last := rows[len(rows)-1]
	if last.Assignee != "Other" || last.Total != 3 {
		t.Fatalf("tail bucket wrong: %+v", last)
	}
}
