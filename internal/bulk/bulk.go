// Package bulk parses the paste-in import format: one task per line,
// "Type: Title — key value — key value" with em-dash or hyphen
// separators between segments.
package bulk

import (
	"regexp"
	"strings"

	"taskfocus-cli/internal/model"
	"taskfocus-cli/internal/store"
	"taskfocus-cli/internal/timeutil"
)

var (
	headRe = regexp.MustCompile(`^\s*(\w+)\s*:\s*(.+)$`)
	sepRe  = regexp.MustCompile(`\s+[—\-]{1,2}\s+`)

	askedByRe  = regexp.MustCompile(`(?i)^asked\s+by\s*:?\s*(.+)$`)
	assigneeRe = regexp.MustCompile(`(?i)^(assignee|assigned\s+to)\s*:?\s*(.+)$`)
	startRe    = regexp.MustCompile(`(?i)^start\s*:?\s*(.+)$`)
	deadlineRe = regexp.MustCompile(`(?i)^deadline\s*:?\s*(.+)$`)
	priorityRe = regexp.MustCompile(`(?i)^priority\s*:?\s*(high|medium|low)$`)
	descRe     = regexp.MustCompile(`(?i)^(description|desc|notes?)\s*:?\s*(.+)$`)
)

// ParseLine turns one template line into a task draft:
//
//	Make: Fix the gate — asked by Alex — start 2026-09-01 — deadline 2026-09-08 — priority High
//	Ask: Confirm rules — asked by Lena
//
// Keys are case-insensitive and the colon after them is optional. An
// unknown type falls back to Make, a malformed priority to Medium, a
// missing or unparseable start date to today, and a missing or
// unparseable deadline to none. Lines without the "Type:" head or with
// an empty title report ok=false.
func ParseLine(line string) (model.Task, bool) {
	m := headRe.FindStringSubmatch(line)
	if m == nil {
		return model.Task{}, false
	}
	parts := sepRe.Split(strings.TrimSpace(m[2]), -1)
	title := strings.TrimSpace(parts[0])
	if title == "" {
		return model.Task{}, false
	}

	draft := model.Task{
		Title:     title,
		Type:      model.ParseTaskType(capitalize(m[1])),
		Priority:  model.PriorityMedium,
		StartDate: timeutil.Today(),
		Status:    model.StatusOpen,
	}
	for _, seg := range parts[1:] {
		s := strings.TrimSpace(seg)
		if g := askedByRe.FindStringSubmatch(s); g != nil {
			draft.WhoAsked = strings.TrimSpace(g[1])
			continue
		}
		if g := assigneeRe.FindStringSubmatch(s); g != nil {
			draft.Assignee = strings.TrimSpace(g[2])
			continue
		}
		if g := startRe.FindStringSubmatch(s); g != nil {
			if d, ok := timeutil.ParseDate(strings.TrimSpace(g[1])); ok {
				draft.StartDate = d.Format(timeutil.DateLayout)
			}
			continue
		}
		if g := deadlineRe.FindStringSubmatch(s); g != nil {
			if d, ok := timeutil.ParseDate(strings.TrimSpace(g[1])); ok {
				draft.Deadline = d.Format(timeutil.DateLayout)
			}
			continue
		}
		if g := priorityRe.FindStringSubmatch(s); g != nil {
			draft.Priority = model.ParsePriority(capitalize(g[1]))
			continue
		}
		if g := descRe.FindStringSubmatch(s); g != nil {
			draft.Description = strings.TrimSpace(g[2])
			continue
		}
		// Unrecognized segments are ignored, not fatal.
	}
	return draft, true
}

// Import adds one task per parseable line of text. Blank lines are
// ignored outright; lines that do not parse count as skipped. Only a
// failed persist aborts the run.
func Import(st *store.Store, text string) (added, skipped int, err error) {
	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		draft, ok := ParseLine(line)
		if !ok {
			skipped++
			continue
		}
		if _, err := st.AddTask(draft); err != nil {
			return added, skipped, err
		}
		added++
	}
	return added, skipped, nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}
