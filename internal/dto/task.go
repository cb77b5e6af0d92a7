package dto

import (
	"strings"
	"time"

	"github.com/taskloop/tasklist-api/internal/models"
)

// Wire formats for calendar fields.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

var priorityWire = map[models.Priority]string{
	models.PriorityHigh:   "high",
	models.PriorityMedium: "medium",
	models.PriorityLow:    "low",
}

var recurrenceWire = map[models.Recurrence]string{
	models.RecurrenceDaily:   "daily",
	models.RecurrenceWeekly:  "weekly",
	models.RecurrenceMonthly: "monthly",
}

var dueStatusWire = map[models.DueStatus]string{
	models.DueStatusOverdue:  "overdue",
	models.DueStatusDueToday: "due_today",
	models.DueStatusUpcoming: "upcoming",
	models.DueStatusNone:     "none",
}

// ParsePriority maps a wire priority onto the model enum. The empty string
// means unset; unknown values pass through uppercased so validation can
// report them as invalid rather than the transport swallowing them.
func ParsePriority(s string) *models.Priority {
	if s == "" {
		return nil
	}
	p := models.Priority(strings.ToUpper(s))
	return &p
}

// ParseRecurrence maps a wire recurrence onto the model enum. "" and "none"
// mean no recurrence; unknown values are rejected.
func ParseRecurrence(s string) (*models.Recurrence, bool) {
	switch strings.ToLower(s) {
	case "", "none":
		return nil, true
	case "daily":
		r := models.RecurrenceDaily
		return &r, true
	case "weekly":
		r := models.RecurrenceWeekly
		return &r, true
	case "monthly":
		r := models.RecurrenceMonthly
		return &r, true
	}
	return nil, false
}

// ParseDate parses a wire calendar date into midnight UTC.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// ValidClock reports whether s is a well-formed "HH:MM" time of day.
func ValidClock(s string) bool {
	_, err := time.Parse(TimeLayout, s)
	return err == nil
}

// TaskResponse represents a task in API responses, including the derived
// urgency fields that are never stored.
type TaskResponse struct {
	ID            uint64     `json:"id"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	Completed     bool       `json:"completed"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
	Priority      *string    `json:"priority,omitempty"`
	Tags          []string   `json:"tags"`
	DueDate       *string    `json:"due_date,omitempty"`
	DueTime       *string    `json:"due_time,omitempty"`
	Recurrence    *string    `json:"recurrence,omitempty"`
	RecurrenceDay *int       `json:"recurrence_day,omitempty"`
	DueStatus     string     `json:"due_status"`
	Overdue       bool       `json:"overdue"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// ToggleResponse surfaces both sides of a completion toggle so callers can
// announce the spawned occurrence alongside the completed task.
type ToggleResponse struct {
	Task           TaskResponse  `json:"task"`
	NextOccurrence *TaskResponse `json:"next_occurrence,omitempty"`
}

// TaskListResponse represents a paginated, query-projected list of tasks
type TaskListResponse struct {
	Tasks      []TaskResponse `json:"tasks"`
	Page       int            `json:"page"`
	PageSize   int            `json:"page_size"`
	TotalCount int            `json:"total_count"`
}

// ToTaskResponse converts a Task model to its wire shape, deriving urgency
// as of now.
func ToTaskResponse(task models.Task, now time.Time) TaskResponse {
	resp := TaskResponse{
		ID:            task.ID,
		Title:         task.Title,
		Description:   task.Description,
		Completed:     task.Completed,
		CompletedAt:   task.CompletedAt,
		Tags:          task.Tags,
		DueTime:       task.DueTime,
		RecurrenceDay: task.RecurrenceDay,
		DueStatus:     dueStatusWire[task.DueStatusAt(now)],
		Overdue:       task.IsOverdue(now),
		CreatedAt:     task.CreatedAt,
		UpdatedAt:     task.UpdatedAt,
	}
	if resp.Tags == nil {
		resp.Tags = []string{}
	}
	if task.Priority != nil {
		if p, ok := priorityWire[*task.Priority]; ok {
			resp.Priority = &p
		}
	}
	if task.DueDate != nil {
		d := task.DueDate.Format(DateLayout)
		resp.DueDate = &d
	}
	if task.Recurrence != nil {
		if r, ok := recurrenceWire[*task.Recurrence]; ok {
			resp.Recurrence = &r
		}
	}
	return resp
}

// ToTaskListResponse converts a page of tasks to the list wire shape.
// totalCount is the size of the filtered set before pagination.
func ToTaskListResponse(tasks []models.Task, now time.Time, page, pageSize, totalCount int) TaskListResponse {
	items := make([]TaskResponse, len(tasks))
	for i, task := range tasks {
		items[i] = ToTaskResponse(task, now)
	}
	return TaskListResponse{
		Tasks:      items,
		Page:       page,
		PageSize:   pageSize,
		TotalCount: totalCount,
	}
}
