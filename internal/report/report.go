// Package report builds the per-period time report: which tasks got
// session time between two dates, how much, and on what.
package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"taskfocus-cli/internal/links"
	"taskfocus-cli/internal/model"
	"taskfocus-cli/internal/timeutil"
)

type SessionLine struct {
	Timestamp string   `json:"timestamp"`
	Minutes   int      `json:"minutes"`
	Note      string   `json:"note"`
	PlanTexts []string `json:"plan_texts,omitempty"`
}

type TaskBlock struct {
	TaskID       int            `json:"task_id"`
	Title        string         `json:"title"`
	Type         model.TaskType `json:"type"`
	Priority     model.Priority `json:"priority"`
	Assignee     string         `json:"assignee"`
	Sessions     []SessionLine  `json:"sessions"`
	TotalMinutes int            `json:"total_minutes"`
	Links        []string       `json:"links,omitempty"`
}

type Report struct {
	Start        string      `json:"start"`
	End          string      `json:"end"`
	Label        string      `json:"label,omitempty"`
	Tasks        []TaskBlock `json:"tasks"`
	TotalMinutes int         `json:"total_minutes"`
}

// Generate collects every session logged between start and end
// (inclusive, compared at date precision) into one report. Tasks with no
// in-range sessions are left out entirely; a non-empty label keeps only
// tasks carrying it. Blocks are ordered by period minutes, largest
// first, and each block's sessions run chronologically. The only error
// is an inverted range.
func Generate(tasks []*model.Task, start, end time.Time, label string) (*Report, error) {
	startDay := dateOnly(start)
	endDay := dateOnly(end)
	if startDay.After(endDay) {
		return nil, fmt.Errorf("start date must be on or before the end date")
	}

	r := &Report{
		Start: startDay.Format(timeutil.DateLayout),
		End:   endDay.Format(timeutil.DateLayout),
		Label: label,
		Tasks: []TaskBlock{},
	}
	for _, t := range tasks {
		if label != "" && !hasLabel(t, label) {
			continue
		}
		type pair struct {
			at  time.Time
			ses model.Session
		}
		var pairs []pair
		total := 0
		for _, ses := range t.Sessions {
			at, ok := timeutil.ParseStamp(ses.Timestamp)
			if !ok {
				continue
			}
			day := dateOnly(at)
			if day.Before(startDay) || day.After(endDay) {
				continue
			}
			pairs = append(pairs, pair{at: at, ses: ses})
			total += max(0, ses.Minutes)
		}
		if len(pairs) == 0 {
			continue
		}
		sort.SliceStable(pairs, func(i, j int) bool { return pairs[i].at.Before(pairs[j].at) })

		block := TaskBlock{
			TaskID:       t.ID,
			Title:        t.Title,
			Type:         t.Type,
			Priority:     t.Priority,
			Assignee:     t.Assignee,
			TotalMinutes: total,
			Links:        links.FromTask(t),
		}
		for _, p := range pairs {
			block.Sessions = append(block.Sessions, SessionLine{
				Timestamp: p.at.Format(timeutil.StampLayout),
				Minutes:   max(0, p.ses.Minutes),
				Note:      p.ses.Note,
				PlanTexts: planTexts(t, p.ses.PlanItems),
			})
		}
		r.Tasks = append(r.Tasks, block)
		r.TotalMinutes += total
	}
	sort.SliceStable(r.Tasks, func(i, j int) bool {
		return r.Tasks[i].TotalMinutes > r.Tasks[j].TotalMinutes
	})
	return r, nil
}

// Format renders the report as plain text, one numbered block per task.
func Format(r *Report) string {
	if len(r.Tasks) == 0 {
		return "No sessions recorded in this period."
	}
	header := fmt.Sprintf("Task report %s → %s", r.Start, r.End)
	if r.Label != "" {
		header += fmt.Sprintf(" (label: %s)", r.Label)
	}
	lines := []string{header, ""}
	for i, block := range r.Tasks {
		lines = append(lines, fmt.Sprintf("%d. %s (ID %d)", i+1, block.Title, block.TaskID))
		lines = append(lines, fmt.Sprintf("   Type: %s | Priority: %s | Assignee: %s",
			orDash(string(block.Type)), orDash(string(block.Priority)), orDash(block.Assignee)))
		for _, ses := range block.Sessions {
			entry := fmt.Sprintf("   - %s — %d min", ses.Timestamp, ses.Minutes)
			if ses.Note != "" {
				entry += ": " + ses.Note
			}
			if len(ses.PlanTexts) > 0 {
				entry += fmt.Sprintf(" [Plan: %s]", strings.Join(ses.PlanTexts, ", "))
			}
			lines = append(lines, entry)
		}
		lines = append(lines, fmt.Sprintf("   Total for period: %s (%d min)",
			timeutil.FormatMinutes(block.TotalMinutes), block.TotalMinutes))
		if len(block.Links) > 0 {
			lines = append(lines, "   Links:")
			for _, url := range block.Links {
				lines = append(lines, "     - "+url)
			}
		}
		lines = append(lines, "")
	}
	lines = append(lines, fmt.Sprintf("Overall time: %s across %d task(s)",
		timeutil.FormatMinutes(r.TotalMinutes), len(r.Tasks)))
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// planTexts resolves session plan-item claims to their texts, keeping
// plan order. Dangling ids and blank texts drop out silently.
func planTexts(t *model.Task, ids []string) []string {
	if len(ids) == 0 {
		return nil
	}
	claimed := make(map[string]bool, len(ids))
	for _, id := range ids {
		claimed[id] = true
	}
	var out []string
	for _, item := range t.Plan {
		if claimed[item.ID] && item.Text != "" {
			out = append(out, item.Text)
		}
	}
	return out
}

func hasLabel(t *model.Task, label string) bool {
	for _, l := range t.Labels {
		if l == label {
			return true
		}
	}
	return false
}

func orDash(s string) string {
	if s == "" {
		return "—"
	}
	return s
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
