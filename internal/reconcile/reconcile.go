// Package reconcile keeps a task's checklist and its logged sessions
// mutually consistent. All functions mutate the task in place and never
// fail: inconsistent input (unknown ids, dangling attributions) is
// normalized away rather than rejected.
package reconcile

import (
	"strings"

	"taskfocus-cli/internal/model"
)

// MergePlanItems replaces task.Plan with a reconciled merge of incoming.
//
// Identity is by item id; blank ids are minted via newID. Items whose
// trimmed text is empty are dropped. A completed incoming item keeps its
// own completion stamps, inherits missing ones from the previous record,
// or gets completed_at=now as a last resort. An uncompleted item loses any
// prior stamps. Afterwards every session's plan_items is purged of ids
// that no longer exist, and completion attribution is cleared on items
// whose claimed session is gone or no longer lists them.
//
// Applying the merge twice with the same input is a no-op.
func MergePlanItems(task *model.Task, incoming []model.PlanItem, now string, newID func() string) {
	prev := make(map[string]model.PlanItem, len(task.Plan))
	for _, it := range task.Plan {
		prev[it.ID] = it
	}

	merged := make([]model.PlanItem, 0, len(incoming))
	for _, raw := range incoming {
		text := strings.TrimSpace(raw.Text)
		if text == "" {
			continue
		}
		id := strings.TrimSpace(raw.ID)
		if id == "" {
			id = newID()
		}
		item := model.PlanItem{ID: id, Text: text, Completed: raw.Completed}
		if raw.Completed {
			completedAt := raw.CompletedAt
			completedBy := raw.CompletedBy
			if old, ok := prev[id]; ok {
				if completedAt == nil {
					completedAt = old.CompletedAt
				}
				if completedBy == nil {
					completedBy = old.CompletedBy
				}
			}
			if completedAt == nil {
				ts := now
				completedAt = &ts
			}
			item.CompletedAt = completedAt
			item.CompletedBy = completedBy
		}
		merged = append(merged, item)
	}

	active := make(map[string]bool, len(merged))
	for _, it := range merged {
		active[it.ID] = true
	}
	for i := range task.Sessions {
		s := &task.Sessions[i]
		var kept []string
		for _, pid := range s.PlanItems {
			if active[pid] {
				kept = append(kept, pid)
			}
		}
		s.PlanItems = kept
	}

	// An item may only claim a session that still exists and still lists it.
	for i := range merged {
		it := &merged[i]
		if it.CompletedBy == nil {
			continue
		}
		ses := task.FindSession(*it.CompletedBy)
		if ses == nil || !containsID(ses.PlanItems, it.ID) {
			it.CompletedBy = nil
		}
	}

	task.Plan = merged
}

// SyncSessionClaims re-points which plan items one session closed.
//
// Items previously attributed to sessionID but absent from planItemIDs are
// un-marked entirely. Every listed item that exists is marked completed at
// the session's timestamp with attribution to the session. Unknown ids are
// ignored. At most one session claims an item afterwards: a claim listed
// here overwrites any other session's attribution.
func SyncSessionClaims(task *model.Task, sessionID string, planItemIDs []string, timestamp string) {
	want := make(map[string]bool, len(planItemIDs))
	for _, pid := range planItemIDs {
		want[pid] = true
	}

	for i := range task.Plan {
		it := &task.Plan[i]
		if it.CompletedBy != nil && *it.CompletedBy == sessionID && !want[it.ID] {
			it.Completed = false
			it.CompletedAt = nil
			it.CompletedBy = nil
		}
	}

	if len(planItemIDs) == 0 {
		return
	}
	for _, pid := range planItemIDs {
		it := task.FindPlanItem(pid)
		if it == nil {
			continue
		}
		ts := timestamp
		sid := sessionID
		it.Completed = true
		it.CompletedAt = &ts
		it.CompletedBy = &sid
	}
}

// RecalcTimeSpent recomputes the derived per-task total from its sessions.
func RecalcTimeSpent(task *model.Task) {
	total := 0
	for _, s := range task.Sessions {
		total += s.Minutes
	}
	if total < 0 {
		total = 0
	}
	task.TimeSpentMinutes = total
}

func containsID(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
