package store

import (
	"strings"

	"taskfocus-cli/internal/model"
	"taskfocus-cli/internal/reconcile"
	"taskfocus-cli/internal/timeutil"
)

// ensureTaskDefaults heals legacy and partial records in place: missing ids
// are minted, nested collections are normalized, and the derived time total
// is recomputed. It runs on load and on every read/mutate path that hands a
// record out, so old snapshots self-repair the first time they are touched.
func ensureTaskDefaults(t *model.Task) {
	if t.Sessions == nil {
		t.Sessions = []model.Session{}
	}
	for i := range t.Sessions {
		ensureSessionDefaults(t, &t.Sessions[i])
	}

	if t.Plan == nil {
		t.Plan = []model.PlanItem{}
	}
	for i := range t.Plan {
		if strings.TrimSpace(t.Plan[i].ID) == "" {
			t.Plan[i].ID = newPlanItemID(t)
		}
	}

	t.Labels = normalizeLabels(t.Labels)
	reconcile.RecalcTimeSpent(t)
}

func ensureSessionDefaults(t *model.Task, s *model.Session) {
	if strings.TrimSpace(s.ID) == "" {
		s.ID = newSessionID(t)
	}
	if strings.TrimSpace(s.Timestamp) == "" {
		s.Timestamp = timeutil.NowStamp()
	}
	kept := make([]string, 0, len(s.PlanItems))
	for _, pid := range s.PlanItems {
		if pid != "" {
			kept = append(kept, pid)
		}
	}
	s.PlanItems = kept
}

// normalizeLabels trims, drops empties, and deduplicates case-sensitively
// while keeping insertion order.
func normalizeLabels(labels []string) []string {
	cleaned := make([]string, 0, len(labels))
	for _, raw := range labels {
		text := strings.TrimSpace(raw)
		if text == "" {
			continue
		}
		seen := false
		for _, have := range cleaned {
			if have == text {
				seen = true
				break
			}
		}
		if !seen {
			cleaned = append(cleaned, text)
		}
	}
	return cleaned
}
