package validation

import (
	"fmt"
	"strings"
	"time"

	"github.com/taskloop/tasklist-api/internal/constants"
	"github.com/taskloop/tasklist-api/internal/models"
)

// Code identifies a single validation rule violation.
type Code string

const (
	CodeEmptyTitle              Code = "EMPTY_TITLE"
	CodeTitleTooLong            Code = "TITLE_TOO_LONG"
	CodeDescriptionTooLong      Code = "DESCRIPTION_TOO_LONG"
	CodeTooManyTags             Code = "TOO_MANY_TAGS"
	CodeTagTooLong              Code = "TAG_TOO_LONG"
	CodeInvalidPriority         Code = "INVALID_PRIORITY"
	CodeTimeWithoutDate         Code = "TIME_WITHOUT_DATE"
	CodeInvalidRecurrenceDay    Code = "INVALID_RECURRENCE_DAY"
	CodeRecurrenceDayNotAllowed Code = "RECURRENCE_DAY_NOT_ALLOWED"
)

// FieldError is one structured violation tied to the field that caused it.
type FieldError struct {
	Field   string `json:"field"`
	Code    Code   `json:"code"`
	Message string `json:"message"`
}

// Errors is the full list of violations found in one pass. Validation never
// stops at the first failure so callers can surface everything at once.
type Errors []FieldError

func (e Errors) Error() string {
	msgs := make([]string, len(e))
	for i, fe := range e {
		msgs[i] = fmt.Sprintf("%s: %s", fe.Field, fe.Message)
	}
	return strings.Join(msgs, "; ")
}

// Has reports whether the list contains a violation with the given code.
func (e Errors) Has(code Code) bool {
	for _, fe := range e {
		if fe.Code == code {
			return true
		}
	}
	return false
}

// Fields is a candidate set of task fields prior to validation.
type Fields struct {
	Title         string
	Description   string
	Priority      *models.Priority
	Tags          []string
	DueDate       *time.Time
	DueTime       *string
	Recurrence    *models.Recurrence
	RecurrenceDay *int
}

// Validate checks every constraint on f and returns the normalized fields
// alongside the violations found. Normalization trims the title, truncates
// the due date to its calendar day and deduplicates tags case-insensitively,
// keeping the first spelling. The returned fields are only meaningful when
// the error list is empty.
func Validate(f Fields) (Fields, Errors) {
	var errs Errors

	f.Title = strings.TrimSpace(f.Title)
	if f.Title == "" {
		errs = append(errs, FieldError{"title", CodeEmptyTitle, "title must not be blank"})
	} else if len([]rune(f.Title)) > constants.MaxTitleLength {
		errs = append(errs, FieldError{"title", CodeTitleTooLong,
			fmt.Sprintf("title exceeds %d characters", constants.MaxTitleLength)})
	}

	if len([]rune(f.Description)) > constants.MaxDescriptionLength {
		errs = append(errs, FieldError{"description", CodeDescriptionTooLong,
			fmt.Sprintf("description exceeds %d characters", constants.MaxDescriptionLength)})
	}

	f.Tags = dedupeTags(f.Tags)
	if len(f.Tags) > constants.MaxTags {
		errs = append(errs, FieldError{"tags", CodeTooManyTags,
			fmt.Sprintf("at most %d tags are allowed", constants.MaxTags)})
	}
	for _, tag := range f.Tags {
		if len([]rune(tag)) > constants.MaxTagLength {
			errs = append(errs, FieldError{"tags", CodeTagTooLong,
				fmt.Sprintf("tag %q exceeds %d characters", tag, constants.MaxTagLength)})
		}
	}

	if f.Priority != nil && !f.Priority.Valid() {
		errs = append(errs, FieldError{"priority", CodeInvalidPriority,
			fmt.Sprintf("unknown priority %q", *f.Priority)})
	}

	if f.DueTime != nil && f.DueDate == nil {
		errs = append(errs, FieldError{"due_time", CodeTimeWithoutDate,
			"due time requires a due date"})
	}
	if f.DueDate != nil {
		normalized := models.DateOnly(*f.DueDate)
		f.DueDate = &normalized
	}

	errs = append(errs, validateRecurrence(f.Recurrence, f.RecurrenceDay)...)

	return f, errs
}

func validateRecurrence(rec *models.Recurrence, day *int) Errors {
	if rec == nil || *rec == models.RecurrenceDaily {
		if day != nil {
			return Errors{{"recurrence_day", CodeRecurrenceDayNotAllowed,
				"recurrence day is only valid for weekly or monthly recurrence"}}
		}
		return nil
	}

	switch *rec {
	case models.RecurrenceWeekly:
		if day == nil || *day < constants.MinWeekday || *day > constants.MaxWeekday {
			return Errors{{"recurrence_day", CodeInvalidRecurrenceDay,
				fmt.Sprintf("weekly recurrence requires a weekday between %d and %d",
					constants.MinWeekday, constants.MaxWeekday)}}
		}
	case models.RecurrenceMonthly:
		if day == nil || *day < constants.MinMonthDay || *day > constants.MaxMonthDay {
			return Errors{{"recurrence_day", CodeInvalidRecurrenceDay,
				fmt.Sprintf("monthly recurrence requires a day between %d and %d",
					constants.MinMonthDay, constants.MaxMonthDay)}}
		}
	}
	return nil
}

// dedupeTags removes case-insensitive duplicates, keeping the first spelling.
func dedupeTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(tags))
	result := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		key := strings.ToLower(tag)
		if _, exists := seen[key]; exists {
			continue
		}
		seen[key] = struct{}{}
		result = append(result, tag)
	}
	return result
}
