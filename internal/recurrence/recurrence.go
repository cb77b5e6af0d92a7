package recurrence

import (
	"fmt"
	"time"

	"github.com/taskloop/tasklist-api/internal/models"
)

// NextOccurrence computes the due date of the occurrence following reference
// for the given pattern. The result is always strictly after reference.
//
//   - daily: the following day; day is ignored.
//   - weekly: the next date whose ISO weekday (1=Monday .. 7=Sunday) equals
//     day; if reference already falls on that weekday, a full week later.
//   - monthly: day of the month after reference's month, clamped to that
//     month's length (day 31 in April yields April 30, February clamps to 28
//     or 29).
//
// Inputs are assumed to have passed validation; a malformed pattern/day
// combination panics.
func NextOccurrence(pattern models.Recurrence, reference time.Time, day int) time.Time {
	switch pattern {
	case models.RecurrenceDaily:
		return models.DateOnly(reference).AddDate(0, 0, 1)
	case models.RecurrenceWeekly:
		return nextWeekly(reference, day)
	case models.RecurrenceMonthly:
		return nextMonthly(reference, day)
	default:
		panic(fmt.Sprintf("recurrence: unknown pattern %q", pattern))
	}
}

func nextWeekly(reference time.Time, day int) time.Time {
	if day < 1 || day > 7 {
		panic(fmt.Sprintf("recurrence: weekday %d out of range", day))
	}
	ref := models.DateOnly(reference)
	// time.Weekday counts Sunday as 0; shift to ISO numbering.
	current := (int(ref.Weekday())+6)%7 + 1
	delta := (day - current + 7) % 7
	if delta == 0 {
		delta = 7
	}
	return ref.AddDate(0, 0, delta)
}

func nextMonthly(reference time.Time, day int) time.Time {
	if day < 1 || day > 31 {
		panic(fmt.Sprintf("recurrence: day of month %d out of range", day))
	}
	y, m, _ := models.DateOnly(reference).Date()
	if last := lastDayOfMonth(y, m+1); day > last {
		day = last
	}
	return time.Date(y, m+1, day, 0, 0, 0, 0, time.UTC)
}

// lastDayOfMonth relies on time.Date normalizing day zero of the following
// month to the last day of m.
func lastDayOfMonth(y int, m time.Month) int {
	return time.Date(y, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
