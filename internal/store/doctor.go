package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"taskfocus-cli/internal/model"
	"taskfocus-cli/internal/reconcile"
	"taskfocus-cli/internal/timeutil"
)

type DoctorIssueLevel string

const (
	DoctorIssueLevelError DoctorIssueLevel = "error"
	DoctorIssueLevelWarn  DoctorIssueLevel = "warn"
)

type DoctorIssue struct {
	Level   DoctorIssueLevel `json:"level"`
	Code    string           `json:"code"`
	Message string           `json:"message"`

	TaskID    int    `json:"task_id,omitempty"`
	ItemID    string `json:"item_id,omitempty"`
	SessionID string `json:"session_id,omitempty"`
}

type DoctorReport struct {
	Issues []DoctorIssue `json:"issues"`
}

func (r DoctorReport) HasErrors() bool {
	for _, it := range r.Issues {
		if it.Level == DoctorIssueLevelError {
			return true
		}
	}
	return false
}

// DoctorSnapshot inspects the raw snapshot file, before the healing that
// Open applies, so it can surface what a load or Repair would otherwise
// fix silently. Errors are structural problems; warnings are records the
// store tolerates or repairs on its own.
func DoctorSnapshot(path string) DoctorReport {
	var issues []DoctorIssue

	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			issues = append(issues, DoctorIssue{
				Level:   DoctorIssueLevelWarn,
				Code:    "snapshot_missing",
				Message: fmt.Sprintf("no snapshot at %s; one is created on first use", path),
			})
			return DoctorReport{Issues: issues}
		}
		return DoctorReport{Issues: []DoctorIssue{{
			Level:   DoctorIssueLevelError,
			Code:    "snapshot_read_failed",
			Message: err.Error(),
		}}}
	}

	var doc model.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return DoctorReport{Issues: []DoctorIssue{{
			Level:   DoctorIssueLevelError,
			Code:    "snapshot_invalid_json",
			Message: err.Error() + "; opening this file resets it to an empty collection",
		}}}
	}

	seen := map[int]bool{}
	for _, t := range doc.Tasks {
		if t == nil {
			continue
		}
		if seen[t.ID] {
			issues = append(issues, DoctorIssue{
				Level:   DoctorIssueLevelError,
				Code:    "duplicate_task_id",
				Message: fmt.Sprintf("task id %d appears more than once", t.ID),
				TaskID:  t.ID,
			})
		}
		seen[t.ID] = true
		issues = append(issues, taskIssues(t)...)
	}
	return DoctorReport{Issues: issuesOrEmpty(issues)}
}

func taskIssues(t *model.Task) []DoctorIssue {
	var issues []DoctorIssue
	warn := func(code, msg string) {
		issues = append(issues, DoctorIssue{Level: DoctorIssueLevelWarn, Code: code, Message: msg, TaskID: t.ID})
	}

	if t.Status != model.StatusOpen && t.Status != model.StatusDone {
		warn("unknown_status", fmt.Sprintf("status %q is neither open nor done", t.Status))
	}
	if t.StartDate != "" {
		if _, ok := timeutil.ParseDate(t.StartDate); !ok {
			warn("unparseable_date", fmt.Sprintf("start_date %q does not parse; the task is always eligible and sorts last", t.StartDate))
		}
	}
	if t.Deadline != "" {
		if _, ok := timeutil.ParseDate(t.Deadline); !ok {
			warn("unparseable_date", fmt.Sprintf("deadline %q does not parse; it sorts as if absent", t.Deadline))
		}
	}

	sessionItems := map[string][]string{}
	seenSessions := map[string]bool{}
	for _, ses := range t.Sessions {
		if ses.ID == "" {
			warn("missing_session_id", "session has no id; load mints one")
		} else if seenSessions[ses.ID] {
			issues = append(issues, DoctorIssue{
				Level:     DoctorIssueLevelError,
				Code:      "duplicate_session_id",
				Message:   fmt.Sprintf("session id %q appears more than once", ses.ID),
				TaskID:    t.ID,
				SessionID: ses.ID,
			})
		}
		seenSessions[ses.ID] = true
		sessionItems[ses.ID] = ses.PlanItems

		if ses.Timestamp != "" {
			if _, ok := timeutil.ParseStamp(ses.Timestamp); !ok {
				issues = append(issues, DoctorIssue{
					Level:     DoctorIssueLevelWarn,
					Code:      "unparseable_timestamp",
					Message:   fmt.Sprintf("session timestamp %q does not parse; reports skip it", ses.Timestamp),
					TaskID:    t.ID,
					SessionID: ses.ID,
				})
			}
		}
		if ses.Minutes < 0 {
			issues = append(issues, DoctorIssue{
				Level:     DoctorIssueLevelWarn,
				Code:      "negative_minutes",
				Message:   fmt.Sprintf("session logs %d minutes; totals clamp at zero", ses.Minutes),
				TaskID:    t.ID,
				SessionID: ses.ID,
			})
		}
	}

	planIDs := map[string]bool{}
	for _, item := range t.Plan {
		if item.ID == "" {
			warn("missing_plan_item_id", fmt.Sprintf("plan item %q has no id; load mints one", item.Text))
			continue
		}
		if planIDs[item.ID] {
			issues = append(issues, DoctorIssue{
				Level:   DoctorIssueLevelError,
				Code:    "duplicate_plan_item_id",
				Message: fmt.Sprintf("plan item id %q appears more than once", item.ID),
				TaskID:  t.ID,
				ItemID:  item.ID,
			})
		}
		planIDs[item.ID] = true

		if !item.Completed && (item.CompletedAt != nil || item.CompletedBy != nil) {
			issues = append(issues, DoctorIssue{
				Level:   DoctorIssueLevelWarn,
				Code:    "stray_completion_stamp",
				Message: "uncompleted plan item carries completion stamps; Repair clears them",
				TaskID:  t.ID,
				ItemID:  item.ID,
			})
		}
		if item.Completed && item.CompletedBy != nil {
			claimed, ok := sessionItems[*item.CompletedBy]
			switch {
			case !ok:
				issues = append(issues, DoctorIssue{
					Level:   DoctorIssueLevelWarn,
					Code:    "stale_attribution",
					Message: fmt.Sprintf("plan item credits missing session %q; Repair clears the attribution", *item.CompletedBy),
					TaskID:  t.ID,
					ItemID:  item.ID,
				})
			case !containsString(claimed, item.ID):
				issues = append(issues, DoctorIssue{
					Level:   DoctorIssueLevelWarn,
					Code:    "stale_attribution",
					Message: fmt.Sprintf("session %q no longer lists this plan item; Repair clears the attribution", *item.CompletedBy),
					TaskID:  t.ID,
					ItemID:  item.ID,
				})
			}
		}
	}

	for _, ses := range t.Sessions {
		for _, pid := range ses.PlanItems {
			if !planIDs[pid] {
				issues = append(issues, DoctorIssue{
					Level:     DoctorIssueLevelWarn,
					Code:      "orphaned_plan_reference",
					Message:   fmt.Sprintf("session claims plan item %q which does not exist; Repair drops the reference", pid),
					TaskID:    t.ID,
					SessionID: ses.ID,
					ItemID:    pid,
				})
			}
		}
	}

	recomputed := 0
	for _, ses := range t.Sessions {
		recomputed += ses.Minutes
	}
	recomputed = max(recomputed, 0)
	if t.TimeSpentMinutes != recomputed {
		warn("stale_time_total", fmt.Sprintf("stored total %d min, sessions sum to %d; the total is recomputed on load", t.TimeSpentMinutes, recomputed))
	}

	return issues
}

// Repair runs the full plan/session reconciliation over every task and
// persists the healed snapshot in one write. Open already heals field
// defaults; Repair additionally drops orphaned session references and
// stale completion attributions, which load leaves alone.
func (s *Store) Repair() error {
	now := timeutil.NowStamp()
	for _, t := range s.doc.Tasks {
		reconcile.MergePlanItems(t, t.Plan, now, func() string { return newPlanItemID(t) })
		reconcile.RecalcTimeSpent(t)
	}
	return s.save()
}

func issuesOrEmpty(xs []DoctorIssue) []DoctorIssue {
	if xs == nil {
		return []DoctorIssue{}
	}
	return xs
}

func containsString(xs []string, v string) bool {
	for _, x := range xs {
		if x == v {
			return true
		}
	}
	return false
}
