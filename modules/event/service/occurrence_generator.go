package service

import (
	"sort"
	"time"

	"community-events-api/core/errors"
)

// DefaultMaxOccurrences bounds open-ended rules so generation always terminates
const DefaultMaxOccurrences = 365

// OccurrenceGenerator expands a recurrence rule into an ordered list of
// occurrence date-times. It is pure: no I/O, no clock.
type OccurrenceGenerator struct {
	// MaxOccurrences is the safety cap applied to every rule
	MaxOccurrences int
}

// NewOccurrenceGenerator creates a generator with the default safety cap
func NewOccurrenceGenerator() *OccurrenceGenerator {
	return &OccurrenceGenerator{
		MaxOccurrences: DefaultMaxOccurrences,
	}
}

// Generate returns the occurrence dates for the rule, strictly increasing and
// duplicate-free, each sharing the anchor's time-of-day. An empty result is
// valid (e.g. an until date before the anchor); only a malformed rule is an error.
func (g *OccurrenceGenerator) Generate(rule *RecurrenceRule) ([]time.Time, *errors.AppError) {
	if appErr := rule.Validate(); appErr != nil {
		return nil, appErr
	}

	limit := g.MaxOccurrences
	if rule.End.Type == EndCount && rule.End.Count < limit {
		limit = rule.End.Count
	}

	switch rule.Pattern {
	case PatternDaily:
		return g.generateDaily(rule, limit), nil
	case PatternWeekly, PatternCustom:
		return g.generateWeekly(rule, limit), nil
	case PatternMonthly:
		return g.generateMonthly(rule, limit), nil
	}

	// Unreachable: Validate rejects unknown patterns
	return nil, errors.NewAppError(errors.ErrValidation, "unknown recurrence pattern", nil)
}

// generateDaily emits the anchor plus every frequency-th day after it
func (g *OccurrenceGenerator) generateDaily(rule *RecurrenceRule, limit int) []time.Time {
	dates := []time.Time{}
	current := rule.StartDate

	for len(dates) < limit {
		if rule.End.Type == EndUntil && current.After(rule.End.Until) {
			break
		}
		dates = append(dates, current)
		current = current.AddDate(0, 0, rule.Frequency)
	}

	return dates
}

// generateWeekly walks frequency-week windows from the week containing the
// anchor, emitting one date per selected weekday in chronological order.
// An empty weekday set means "the anchor's weekday every frequency weeks".
// Days of the anchor's week that fall before the anchor itself are skipped.
func (g *OccurrenceGenerator) generateWeekly(rule *RecurrenceRule, limit int) []time.Time {
	days := append([]time.Weekday(nil), rule.DaysOfWeek...)
	if len(days) == 0 {
		days = []time.Weekday{rule.StartDate.Weekday()}
	}
	sort.Slice(days, func(i, j int) bool { return days[i] < days[j] })

	// Sunday of the week containing the anchor, keeping the anchor's time-of-day
	start := rule.StartDate
	weekStart := start.AddDate(0, 0, -int(start.Weekday()))

	dates := []time.Time{}
	for week := 0; len(dates) < limit; week += rule.Frequency {
		for _, day := range days {
			candidate := weekStart.AddDate(0, 0, week*7+int(day))
			if candidate.Before(start) {
				continue
			}
			if rule.End.Type == EndUntil && candidate.After(rule.End.Until) {
				return dates
			}
			dates = append(dates, candidate)
			if len(dates) == limit {
				return dates
			}
		}
	}

	return dates
}

// generateMonthly emits one date every frequency months on the rule's day of
// month, clipped to the target month's length: day 31 anchored into a 30-day
// month lands on that month's last day, never the 1st of the next.
func (g *OccurrenceGenerator) generateMonthly(rule *RecurrenceRule, limit int) []time.Time {
	start := rule.StartDate
	firstOfAnchorMonth := time.Date(start.Year(), start.Month(), 1,
		start.Hour(), start.Minute(), start.Second(), start.Nanosecond(), start.Location())

	dates := []time.Time{}
	for i := 0; len(dates) < limit; i++ {
		month := firstOfAnchorMonth.AddDate(0, i*rule.Frequency, 0)

		day := rule.DayOfMonth
		if last := daysInMonth(month); day > last {
			day = last
		}

		candidate := time.Date(month.Year(), month.Month(), day,
			start.Hour(), start.Minute(), start.Second(), start.Nanosecond(), start.Location())

		// The anchor month may place the day before the anchor itself
		if candidate.Before(start) {
			continue
		}
		if rule.End.Type == EndUntil && candidate.After(rule.End.Until) {
			break
		}
		dates = append(dates, candidate)
	}

	return dates
}

// daysInMonth returns the number of days in t's month
func daysInMonth(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location()).Day()
}
