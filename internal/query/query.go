package query

import (
	"sort"
	"strings"
	"time"

	"github.com/taskloop/tasklist-api/internal/models"
)

type StatusFilter string

const (
	StatusAll        StatusFilter = "ALL"
	StatusComplete   StatusFilter = "COMPLETE"
	StatusIncomplete StatusFilter = "INCOMPLETE"
)

type DueFilter string

const (
	DueAny      DueFilter = ""
	DueOverdue  DueFilter = "OVERDUE"
	DueToday    DueFilter = "DUE_TODAY"
	DueThisWeek DueFilter = "DUE_THIS_WEEK"
	DueNone     DueFilter = "NO_DUE_DATE"
)

type SortKey string

const (
	SortByID        SortKey = "ID"
	SortByTitle     SortKey = "TITLE"
	SortByPriority  SortKey = "PRIORITY"
	SortByDueDate   SortKey = "DUE_DATE"
	SortByCreatedAt SortKey = "CREATED_AT"
)

type SortDirection string

const (
	SortAscending  SortDirection = "ASC"
	SortDescending SortDirection = "DESC"
)

// Spec describes one read of the task collection. Every filter is optional;
// set filters combine with AND semantics.
type Spec struct {
	Status    StatusFilter
	Priority  *models.Priority
	Tag       string
	Search    string
	Due       DueFilter
	SortKey   SortKey
	Direction SortDirection
}

// Apply filters tasks against spec and stably sorts the surviving subset.
// The input slice is never mutated; now anchors the due-range filters.
func Apply(tasks []models.Task, spec Spec, now time.Time) []models.Task {
	result := make([]models.Task, 0, len(tasks))
	for i := range tasks {
		if matches(&tasks[i], spec, now) {
			result = append(result, tasks[i])
		}
	}
	sortTasks(result, spec.SortKey, spec.Direction)
	return result
}

func matches(t *models.Task, spec Spec, now time.Time) bool {
	switch spec.Status {
	case StatusComplete:
		if !t.Completed {
			return false
		}
	case StatusIncomplete:
		if t.Completed {
			return false
		}
	}

	if spec.Priority != nil {
		if t.Priority == nil || *t.Priority != *spec.Priority {
			return false
		}
	}

	if spec.Tag != "" && !hasTag(t.Tags, spec.Tag) {
		return false
	}

	if spec.Search != "" {
		needle := strings.ToLower(spec.Search)
		if !strings.Contains(strings.ToLower(t.Title), needle) &&
			!strings.Contains(strings.ToLower(t.Description), needle) {
			return false
		}
	}

	return matchesDue(t, spec.Due, now)
}

func matchesDue(t *models.Task, filter DueFilter, now time.Time) bool {
	switch filter {
	case DueOverdue:
		return t.IsOverdue(now)
	case DueToday:
		return t.DueDate != nil && models.DateOnly(*t.DueDate).Equal(models.DateOnly(now))
	case DueThisWeek:
		if t.DueDate == nil {
			return false
		}
		today := models.DateOnly(now)
		due := models.DateOnly(*t.DueDate)
		return !due.Before(today) && due.Before(today.AddDate(0, 0, 7))
	case DueNone:
		return t.DueDate == nil
	}
	return true
}

func hasTag(tags models.TagList, want string) bool {
	for _, tag := range tags {
		if strings.EqualFold(tag, want) {
			return true
		}
	}
	return false
}

// priorityRank orders high before medium before low; an unset priority ranks
// as medium for ordering only.
func priorityRank(p *models.Priority) int {
	if p == nil {
		return 1
	}
	switch *p {
	case models.PriorityHigh:
		return 0
	case models.PriorityLow:
		return 2
	}
	return 1
}

func sortTasks(tasks []models.Task, key SortKey, dir SortDirection) {
	desc := dir == SortDescending

	if key == SortByDueDate {
		// Tasks without a due date stay at the end in both directions.
		sort.SliceStable(tasks, func(i, j int) bool {
			a, b := tasks[i].DueDate, tasks[j].DueDate
			if a == nil {
				return false
			}
			if b == nil {
				return true
			}
			if a.Equal(*b) {
				return false
			}
			if desc {
				return a.After(*b)
			}
			return a.Before(*b)
		})
		return
	}

	var less func(i, j int) bool
	switch key {
	case SortByTitle:
		less = func(i, j int) bool {
			return strings.ToLower(tasks[i].Title) < strings.ToLower(tasks[j].Title)
		}
	case SortByPriority:
		less = func(i, j int) bool {
			return priorityRank(tasks[i].Priority) < priorityRank(tasks[j].Priority)
		}
	case SortByCreatedAt:
		less = func(i, j int) bool {
			return tasks[i].CreatedAt.Before(tasks[j].CreatedAt)
		}
	default:
		less = func(i, j int) bool {
			return tasks[i].ID < tasks[j].ID
		}
	}

	if desc {
		inner := less
		less = func(i, j int) bool { return inner(j, i) }
	}
	sort.SliceStable(tasks, less)
}
