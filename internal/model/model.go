package model

type TaskType string

const (
	TypeMake    TaskType = "Make"
	TypeAsk     TaskType = "Ask"
	TypeArrange TaskType = "Arrange"
	TypeControl TaskType = "Control"
)

// TaskTypes lists the valid types in display order. The first entry is the
// fallback for unrecognized input.
var TaskTypes = []TaskType{TypeMake, TypeAsk, TypeArrange, TypeControl}

type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

// Rank maps priorities to their sort position. Unknown values rank with
// Medium so half-migrated records do not float to either end.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityLow:
		return 2
	default:
		return 1
	}
}

type Status string

const (
	StatusOpen Status = "open"
	StatusDone Status = "done"
)

type Task struct {
	ID          int      `json:"id"`
	Title       string   `json:"title"`
	Type        TaskType `json:"type"`
	Priority    Priority `json:"priority"`
	WhoAsked    string   `json:"who_asked"`
	Assignee    string   `json:"assignee"`
	StartDate   string   `json:"start_date"` // YYYY-MM-DD; may be empty or unparseable
	Deadline    string   `json:"deadline"`   // YYYY-MM-DD; empty means none
	Status      Status   `json:"status"`
	Focus       bool     `json:"focus"`
	CreatedAt   string   `json:"created_at"` // ISO-8601, seconds precision
	CompletedAt *string  `json:"completed_at"`
	Description string   `json:"description"`
	Labels      []string `json:"labels"`

	// Derived: always recomputed from Sessions, never trusted from storage.
	TimeSpentMinutes int `json:"time_spent_minutes"`

	Plan     []PlanItem `json:"plan"`
	Sessions []Session  `json:"sessions"`
}

type PlanItem struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`

	// CompletedAt is present iff Completed.
	CompletedAt *string `json:"completed_at"`

	// CompletedBy is the id of the session that closed this item, resolved by
	// lookup only (weak reference). Nil means manually completed.
	CompletedBy *string `json:"completed_by"`
}

type Session struct {
	ID        string `json:"id"`
	Timestamp string `json:"timestamp"` // YYYY-MM-DD HH:MM
	Minutes   int    `json:"minutes"`
	Note      string `json:"note"`

	// PlanItems lists the plan item ids this session claims to have completed.
	PlanItems []string `json:"plan_items"`
}

// Meta is the process-wide state persisted alongside tasks.
type Meta struct {
	LastFocusDate *string  `json:"last_focus_date"`
	People        []string `json:"people"`
	Labels        []string `json:"labels"`
}

// Document is the persisted aggregate: the entire snapshot file is one of
// these, loaded and saved as a unit.
type Document struct {
	Tasks []*Task `json:"tasks"`
	Meta  Meta    `json:"meta"`
}

// FindPlanItem returns the plan item with the given id, or nil.
func (t *Task) FindPlanItem(id string) *PlanItem {
	for i := range t.Plan {
		if t.Plan[i].ID == id {
			return &t.Plan[i]
		}
	}
	return nil
}

// FindSession returns the session with the given id, or nil.
func (t *Task) FindSession(id string) *Session {
	for i := range t.Sessions {
		if t.Sessions[i].ID == id {
			return &t.Sessions[i]
		}
	}
	return nil
}

// ParseTaskType maps free-form input to a valid type, falling back to Make.
func ParseTaskType(s string) TaskType {
	for _, tt := range TaskTypes {
		if string(tt) == s {
			return tt
		}
	}
	return TypeMake
}

// ParsePriority maps free-form input to a valid priority, falling back to Medium.
func ParsePriority(s string) Priority {
	switch s {
	case string(PriorityHigh):
		return PriorityHigh
	case string(PriorityLow):
		return PriorityLow
	case string(PriorityMedium):
		return PriorityMedium
	default:
		return PriorityMedium
	}
}
