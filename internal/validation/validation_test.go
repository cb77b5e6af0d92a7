package validation

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/taskloop/tasklist-api/internal/models"
)

func priorityPtr(p models.Priority) *models.Priority       { return &p }
func recurrencePtr(r models.Recurrence) *models.Recurrence { return &r }
func intPtr(i int) *int                                    { return &i }
func strPtr(s string) *string                              { return &s }

func TestValidateAcceptsMinimalTask(t *testing.T) {
	fields, errs := Validate(Fields{Title: "Pay rent"})
	assert.Empty(t, errs)
	assert.Equal(t, "Pay rent", fields.Title)
}

func TestValidateTrimsTitle(t *testing.T) {
	fields, errs := Validate(Fields{Title: "  Pay rent  "})
	assert.Empty(t, errs)
	assert.Equal(t, "Pay rent", fields.Title)
}

func TestValidateTitleErrors(t *testing.T) {
	_, errs := Validate(Fields{Title: "   "})
	assert.True(t, errs.Has(CodeEmptyTitle))

	_, errs = Validate(Fields{Title: strings.Repeat("x", 201)})
	assert.True(t, errs.Has(CodeTitleTooLong))

	_, errs = Validate(Fields{Title: strings.Repeat("x", 200)})
	assert.Empty(t, errs)
}

func TestValidateDescriptionTooLong(t *testing.T) {
	_, errs := Validate(Fields{Title: "ok", Description: strings.Repeat("x", 1001)})
	assert.True(t, errs.Has(CodeDescriptionTooLong))
}

func TestValidateCollectsAllErrors(t *testing.T) {
	tags := make([]string, 11)
	for i := range tags {
		tags[i] = strings.Repeat("t", 3) + string(rune('a'+i))
	}

	_, errs := Validate(Fields{Title: "", Tags: tags})
	assert.True(t, errs.Has(CodeEmptyTitle))
	assert.True(t, errs.Has(CodeTooManyTags))
	assert.Len(t, errs, 2)
}

func TestValidateTagRules(t *testing.T) {
	// case-insensitive duplicates collapse silently, first spelling wins
	fields, errs := Validate(Fields{Title: "ok", Tags: []string{"Home", "home", "HOME", "work"}})
	assert.Empty(t, errs)
	assert.Equal(t, []string{"Home", "work"}, fields.Tags)

	_, errs = Validate(Fields{Title: "ok", Tags: []string{strings.Repeat("x", 51)}})
	assert.True(t, errs.Has(CodeTagTooLong))

	// duplicates collapsing below the limit are not an error
	tags := []string{"a", "A"}
	for i := 0; i < 9; i++ {
		tags = append(tags, strings.Repeat("b", i+1))
	}
	fields, errs = Validate(Fields{Title: "ok", Tags: tags})
	assert.Empty(t, errs)
	assert.Len(t, fields.Tags, 10)
}

func TestValidateInvalidPriority(t *testing.T) {
	_, errs := Validate(Fields{Title: "ok", Priority: priorityPtr(models.Priority("URGENT"))})
	assert.True(t, errs.Has(CodeInvalidPriority))

	_, errs = Validate(Fields{Title: "ok", Priority: priorityPtr(models.PriorityHigh)})
	assert.Empty(t, errs)
}

func TestValidateTimeWithoutDate(t *testing.T) {
	_, errs := Validate(Fields{Title: "ok", DueTime: strPtr("09:30")})
	assert.True(t, errs.Has(CodeTimeWithoutDate))

	due := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	_, errs = Validate(Fields{Title: "ok", DueDate: &due, DueTime: strPtr("09:30")})
	assert.Empty(t, errs)
}

func TestValidateNormalizesDueDate(t *testing.T) {
	due := time.Date(2025, 6, 1, 14, 30, 0, 0, time.UTC)
	fields, errs := Validate(Fields{Title: "ok", DueDate: &due})
	assert.Empty(t, errs)
	assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), *fields.DueDate)
}

func TestValidateRecurrenceDayRules(t *testing.T) {
	tests := []struct {
		name string
		rec  *models.Recurrence
		day  *int
		code Code
	}{
		{"weekly without day", recurrencePtr(models.RecurrenceWeekly), nil, CodeInvalidRecurrenceDay},
		{"weekly day too high", recurrencePtr(models.RecurrenceWeekly), intPtr(8), CodeInvalidRecurrenceDay},
		{"weekly day too low", recurrencePtr(models.RecurrenceWeekly), intPtr(0), CodeInvalidRecurrenceDay},
		{"monthly without day", recurrencePtr(models.RecurrenceMonthly), nil, CodeInvalidRecurrenceDay},
		{"monthly day too high", recurrencePtr(models.RecurrenceMonthly), intPtr(32), CodeInvalidRecurrenceDay},
		{"daily with day", recurrencePtr(models.RecurrenceDaily), intPtr(3), CodeRecurrenceDayNotAllowed},
		{"no recurrence with day", nil, intPtr(3), CodeRecurrenceDayNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, errs := Validate(Fields{Title: "ok", Recurrence: tt.rec, RecurrenceDay: tt.day})
			assert.True(t, errs.Has(tt.code))
		})
	}

	_, errs := Validate(Fields{Title: "ok", Recurrence: recurrencePtr(models.RecurrenceWeekly), RecurrenceDay: intPtr(1)})
	assert.Empty(t, errs)
	_, errs = Validate(Fields{Title: "ok", Recurrence: recurrencePtr(models.RecurrenceMonthly), RecurrenceDay: intPtr(31)})
	assert.Empty(t, errs)
	_, errs = Validate(Fields{Title: "ok", Recurrence: recurrencePtr(models.RecurrenceDaily)})
	assert.Empty(t, errs)
}
