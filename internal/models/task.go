package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

type Priority string

const (
	PriorityHigh   Priority = "HIGH"
	PriorityMedium Priority = "MEDIUM"
	PriorityLow    Priority = "LOW"
)

// Valid reports whether p is one of the known priority levels.
func (p Priority) Valid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

type Recurrence string

const (
	RecurrenceDaily   Recurrence = "DAILY"
	RecurrenceWeekly  Recurrence = "WEEKLY"
	RecurrenceMonthly Recurrence = "MONTHLY"
)

// Valid reports whether r is one of the known recurrence patterns.
func (r Recurrence) Valid() bool {
	switch r {
	case RecurrenceDaily, RecurrenceWeekly, RecurrenceMonthly:
		return true
	}
	return false
}

type DueStatus string

const (
	DueStatusOverdue  DueStatus = "OVERDUE"
	DueStatusDueToday DueStatus = "DUE_TODAY"
	DueStatusUpcoming DueStatus = "UPCOMING"
	DueStatusNone     DueStatus = "NONE"
)

// TagList stores a task's tags as a JSON array in a single text column.
type TagList []string

func (t TagList) Value() (driver.Value, error) {
	if len(t) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal([]string(t))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (t *TagList) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*t = nil
		return nil
	case []byte:
		return json.Unmarshal(v, t)
	case string:
		return json.Unmarshal([]byte(v), t)
	default:
		return fmt.Errorf("unsupported tags column type %T", value)
	}
}

// Task is the unit of work managed by the service. DueDate holds a calendar
// date at midnight UTC; DueTime, when set, is an "HH:MM" clock time on that
// date. RecurrenceDay is an ISO weekday (1=Monday) for weekly recurrence and
// a day of month for monthly; it is absent for daily recurrence.
type Task struct {
	ID            uint64      `gorm:"primarykey" json:"id"`
	Title         string      `gorm:"not null" json:"title"`
	Description   string      `gorm:"type:text" json:"description"`
	Completed     bool        `gorm:"not null;default:false" json:"completed"`
	CompletedAt   *time.Time  `json:"completed_at"`
	Priority      *Priority   `gorm:"type:varchar(10)" json:"priority"`
	Tags          TagList     `gorm:"type:text" json:"tags"`
	DueDate       *time.Time  `json:"due_date"`
	DueTime       *string     `gorm:"type:varchar(5)" json:"due_time"`
	Recurrence    *Recurrence `gorm:"type:varchar(10)" json:"recurrence"`
	RecurrenceDay *int        `json:"recurrence_day"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// DateOnly truncates t to midnight UTC of its calendar day.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// CombineDateTime resolves a due date plus an "HH:MM" due time into the
// concrete deadline instant. A malformed time falls back to midnight.
func CombineDateTime(date time.Time, clock string) time.Time {
	parsed, err := time.Parse("15:04", clock)
	if err != nil {
		return DateOnly(date)
	}
	y, m, d := date.Date()
	return time.Date(y, m, d, parsed.Hour(), parsed.Minute(), 0, 0, time.UTC)
}

// IsOverdue reports whether the task's deadline has passed as of now.
// Date-only tasks become overdue once their calendar day is behind; tasks
// with a due time become overdue the moment that instant passes.
func (t *Task) IsOverdue(now time.Time) bool {
	if t.Completed || t.DueDate == nil {
		return false
	}
	if t.DueTime != nil {
		return now.After(CombineDateTime(*t.DueDate, *t.DueTime))
	}
	return DateOnly(*t.DueDate).Before(DateOnly(now))
}

// DueStatusAt classifies the task's urgency as of now.
func (t *Task) DueStatusAt(now time.Time) DueStatus {
	if t.Completed || t.DueDate == nil {
		return DueStatusNone
	}
	if t.IsOverdue(now) {
		return DueStatusOverdue
	}
	if DateOnly(*t.DueDate).Equal(DateOnly(now)) {
		return DueStatusDueToday
	}
	return DueStatusUpcoming
}
