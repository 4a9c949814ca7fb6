package store

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"taskfocus-cli/internal/model"
	"taskfocus-cli/internal/timeutil"
)

// Aggregation caps for the stats views. Everything past the cap collapses
// into a single bucket so the output stays readable.
const (
	timeByTaskTop = 12
	workloadTop   = 6
	burndownDays  = 30

	otherBucket = "Other"
)

// TimeByTaskSeries is one row of the time-by-task breakdown: minutes per
// day, aligned with the day axis, for one task title.
type TimeByTaskSeries struct {
	Title   string `json:"title"`
	Minutes []int  `json:"minutes"`
	Total   int    `json:"total"`
}

// TimeByTask buckets session minutes by day and task title over the last
// days days, today inclusive. Tasks sharing a title merge into one row.
// Rows past the top twelve by total collapse into "Other". Sessions with
// non-positive minutes or unparseable timestamps are skipped.
func (s *Store) TimeByTask(days int) ([]string, []TimeByTaskSeries) {
	if days <= 0 {
		days = 1
	}
	today := timeutil.TodayDate()
	start := today.AddDate(0, 0, -(days - 1))

	axis := make([]string, days)
	index := make(map[string]int, days)
	for i := 0; i < days; i++ {
		day := start.AddDate(0, 0, i).Format(timeutil.DateLayout)
		axis[i] = day
		index[day] = i
	}

	order := []string{}
	perTitle := map[string][]int{}
	totals := map[string]int{}
	for _, t := range s.doc.Tasks {
		title := t.Title
		if title == "" {
			title = fmt.Sprintf("Task %d", t.ID)
		}
		for _, ses := range t.Sessions {
			if ses.Minutes <= 0 {
				continue
			}
			ts, ok := timeutil.ParseStamp(ses.Timestamp)
			if !ok {
				continue
			}
			i, inWindow := index[ts.Format(timeutil.DateLayout)]
			if !inWindow {
				continue
			}
			row, seen := perTitle[title]
			if !seen {
				row = make([]int, days)
				perTitle[title] = row
				order = append(order, title)
			}
			row[i] += ses.Minutes
			totals[title] += ses.Minutes
		}
	}

	// Ties keep first-seen order.
	sort.SliceStable(order, func(a, b int) bool {
		return totals[order[a]] > totals[order[b]]
	})

	series := []TimeByTaskSeries{}
	var other []int
	otherTotal := 0
	for rank, title := range order {
		if rank < timeByTaskTop {
			series = append(series, TimeByTaskSeries{Title: title, Minutes: perTitle[title], Total: totals[title]})
			continue
		}
		if other == nil {
			other = make([]int, days)
		}
		for i, m := range perTitle[title] {
			other[i] += m
		}
		otherTotal += totals[title]
	}
	if otherTotal > 0 {
		series = append(series, TimeByTaskSeries{Title: otherBucket, Minutes: other, Total: otherTotal})
	}
	return axis, series
}

// BurndownPoint is the count of tasks still open at the end of one day.
type BurndownPoint struct {
	Day       string `json:"day"`
	Remaining int    `json:"remaining"`
}

// Burndown walks the last thirty days and counts, for each day, the tasks
// already created and not yet completed. A task with no parseable creation
// stamp counts from today; a done task with no completion stamp counts as
// completed today.
func (s *Store) Burndown() []BurndownPoint {
	today := timeutil.TodayDate()

	type span struct {
		created   time.Time
		completed *time.Time
	}
	spans := make([]span, 0, len(s.doc.Tasks))
	for _, t := range s.doc.Tasks {
		sp := span{created: today}
		if c, ok := timeutil.ParseStamp(t.CreatedAt); ok {
			sp.created = dateOnly(c)
		}
		if t.Status == model.StatusDone {
			done := today
			if t.CompletedAt != nil {
				if c, ok := timeutil.ParseStamp(*t.CompletedAt); ok {
					done = dateOnly(c)
				}
			}
			sp.completed = &done
		}
		spans = append(spans, sp)
	}

	points := make([]BurndownPoint, 0, burndownDays)
	for i := burndownDays - 1; i >= 0; i-- {
		day := today.AddDate(0, 0, -i)
		remaining := 0
		for _, sp := range spans {
			if sp.created.After(day) {
				continue
			}
			if sp.completed != nil && !sp.completed.After(day) {
				continue
			}
			remaining++
		}
		points = append(points, BurndownPoint{Day: day.Format(timeutil.DateLayout), Remaining: remaining})
	}
	return points
}

// WorkloadRow is the open-task tally for one assignee, split by priority.
type WorkloadRow struct {
	Assignee string         `json:"assignee"`
	Counts   map[string]int `json:"counts"`
	Total    int            `json:"total"`
}

// Workload tallies open tasks per assignee and priority. Blank assignees
// group under "Unassigned"; assignees past the top six by open count
// collapse into "Other". Priority values are counted verbatim, not
// normalized.
func (s *Store) Workload() []WorkloadRow {
	order := []string{}
	counts := map[string]map[string]int{}
	totals := map[string]int{}
	for _, t := range s.doc.Tasks {
		if t.Status != model.StatusOpen {
			continue
		}
		who := strings.TrimSpace(t.Assignee)
		if who == "" {
			who = "Unassigned"
		}
		prio := string(t.Priority)
		if prio == "" {
			prio = string(model.PriorityMedium)
		}
		if _, seen := counts[who]; !seen {
			counts[who] = map[string]int{}
			order = append(order, who)
		}
		counts[who][prio]++
		totals[who]++
	}

	sort.SliceStable(order, func(a, b int) bool {
		return totals[order[a]] > totals[order[b]]
	})

	rows := []WorkloadRow{}
	var other map[string]int
	otherTotal := 0
	for rank, who := range order {
		if rank < workloadTop {
			rows = append(rows, WorkloadRow{Assignee: who, Counts: counts[who], Total: totals[who]})
			continue
		}
		if other == nil {
			other = map[string]int{}
		}
		for p, n := range counts[who] {
			other[p] += n
		}
		otherTotal += totals[who]
	}
	if otherTotal > 0 {
		rows = append(rows, WorkloadRow{Assignee: otherBucket, Counts: other, Total: otherTotal})
	}
	return rows
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
