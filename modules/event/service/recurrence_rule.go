package service

import (
	"fmt"
	"time"

	"community-events-api/core/errors"
)

// Pattern is the recurrence pattern of a rule
type Pattern string

const (
	PatternDaily   Pattern = "daily"
	PatternWeekly  Pattern = "weekly"
	PatternMonthly Pattern = "monthly"
	PatternCustom  Pattern = "custom"
)

// EndConditionType discriminates how a rule terminates
type EndConditionType string

const (
	EndCount     EndConditionType = "count"
	EndUntil     EndConditionType = "until"
	EndOpenEnded EndConditionType = "open_ended"
)

// EndCondition is a tagged variant: Count is meaningful only for EndCount,
// Until only for EndUntil.
type EndCondition struct {
	Type  EndConditionType
	Count int
	Until time.Time
}

// RecurrenceRule describes a recurring schedule. It is transient: built per
// creation request, evaluated once, and stored on the parent for reference only.
type RecurrenceRule struct {
	// StartDate anchors the first candidate date and supplies the
	// time-of-day for every generated occurrence.
	StartDate  time.Time
	Pattern    Pattern
	Frequency  int
	DaysOfWeek []time.Weekday // weekly/custom only; 0=Sunday .. 6=Saturday
	DayOfMonth int            // monthly only; 1-31
	End        EndCondition
}

// Validate checks the structural invariants of the rule. It never inspects
// the calendar: month-length clipping is a generation semantic, not an error.
func (r *RecurrenceRule) Validate() *errors.AppError {
	switch r.Pattern {
	case PatternDaily, PatternWeekly, PatternMonthly, PatternCustom:
	default:
		return errors.NewAppError(errors.ErrValidation,
			fmt.Sprintf("unknown recurrence pattern %q", r.Pattern), nil)
	}

	if r.Frequency < 1 {
		return errors.NewAppError(errors.ErrValidation,
			fmt.Sprintf("recurrence frequency must be at least 1, got %d", r.Frequency), nil)
	}

	if r.Pattern == PatternMonthly && (r.DayOfMonth < 1 || r.DayOfMonth > 31) {
		return errors.NewAppError(errors.ErrValidation,
			fmt.Sprintf("day of month must be between 1 and 31, got %d", r.DayOfMonth), nil)
	}

	for _, d := range r.DaysOfWeek {
		if d < time.Sunday || d > time.Saturday {
			return errors.NewAppError(errors.ErrValidation,
				fmt.Sprintf("day of week must be between 0 and 6, got %d", d), nil)
		}
	}

	switch r.End.Type {
	case EndCount:
		if r.End.Count < 1 {
			return errors.NewAppError(errors.ErrValidation,
				fmt.Sprintf("occurrence count must be at least 1, got %d", r.End.Count), nil)
		}
	case EndUntil:
		if r.End.Until.IsZero() {
			return errors.NewAppError(errors.ErrValidation, "until date is required", nil)
		}
	case EndOpenEnded:
	default:
		return errors.NewAppError(errors.ErrValidation,
			fmt.Sprintf("unknown end condition %q", r.End.Type), nil)
	}

	return nil
}
