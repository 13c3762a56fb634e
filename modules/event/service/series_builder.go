package service

import (
	"time"

	"github.com/lib/pq"

	"community-events-api/core/utils"
	"community-events-api/modules/event/entity"
)

// BuildSeries materializes an occurrence list into persistable records:
// dates[0] becomes the series parent (series_index 1, carrying the originating
// rule for reference), dates[1..] become the children (series_index 2..n).
// The children's series_parent_id is left unset: the parent's persisted id does
// not exist until the parent row has been written, so the write coordinator
// fills it in between the two inserts.
//
// A single-date series is valid and still yields a parent with zero children.
// dates must be non-empty.
func BuildSeries(dates []time.Time, template *entity.Event, rule *RecurrenceRule) (entity.Event, []entity.Event) {
	parent := newMember(template, dates[0], 1)
	parent.IsRecurringParent = true
	applyRuleFields(&parent, rule)

	if len(dates) == 1 {
		return parent, nil
	}

	children := make([]entity.Event, 0, len(dates)-1)
	for i, date := range dates[1:] {
		children = append(children, newMember(template, date, i+2))
	}

	return parent, children
}

// newMember copies the shared template fields into a fresh series member
func newMember(template *entity.Event, date time.Time, index int) entity.Event {
	idx := index
	return entity.Event{
		CommunityID:  template.CommunityID,
		HostID:       template.HostID,
		Title:        template.Title,
		Slug:         template.Slug,
		Description:  template.Description,
		Venue:        template.Venue,
		Capacity:     template.Capacity,
		Price:        template.Price,
		ImageURL:     template.ImageURL,
		ExternalLink: template.ExternalLink,
		ShareCode:    utils.GenerateShareCode(),
		DateTime:     date,
		SeriesIndex:  &idx,
	}
}

// applyRuleFields stores the originating rule parameters on the parent.
// They are reference data only and are never re-evaluated.
func applyRuleFields(parent *entity.Event, rule *RecurrenceRule) {
	pattern := string(rule.Pattern)
	frequency := rule.Frequency
	endType := string(rule.End.Type)

	parent.RecurrencePattern = &pattern
	parent.RecurrenceFrequency = &frequency
	parent.RecurrenceEndType = &endType

	if len(rule.DaysOfWeek) > 0 {
		days := make(pq.Int64Array, 0, len(rule.DaysOfWeek))
		for _, d := range rule.DaysOfWeek {
			days = append(days, int64(d))
		}
		parent.RecurrenceDaysOfWeek = days
	}
	if rule.Pattern == PatternMonthly {
		dayOfMonth := rule.DayOfMonth
		parent.RecurrenceDayOfMonth = &dayOfMonth
	}

	switch rule.End.Type {
	case EndCount:
		count := rule.End.Count
		parent.RecurrenceCount = &count
	case EndUntil:
		until := rule.End.Until
		parent.RecurrenceUntil = &until
	}
}
