package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// RecurrencePattern values stored on a series parent
const (
	PatternDaily   = "daily"
	PatternWeekly  = "weekly"
	PatternMonthly = "monthly"
	PatternCustom  = "custom"
)

// Recurrence end-condition values stored on a series parent
const (
	EndTypeCount     = "count"
	EndTypeUntil     = "until"
	EndTypeOpenEnded = "open_ended"
)

// Event represents one row of the events table. A recurring series is a
// family of these rows: one parent (is_recurring_parent, series_index 1)
// plus its children referencing series_parent_id.
type Event struct {
	ID           uuid.UUID `db:"id" json:"id"`
	CommunityID  uuid.UUID `db:"community_id" json:"community_id"`
	HostID       uuid.UUID `db:"host_id" json:"host_id"`
	Title        string    `db:"title" json:"title"`
	Slug         string    `db:"slug" json:"slug"`
	Description  *string   `db:"description" json:"description,omitempty"`
	Venue        *string   `db:"venue" json:"venue,omitempty"`
	Capacity     int       `db:"capacity" json:"capacity"`
	Price        int64     `db:"price" json:"price"` // smallest currency unit
	ImageURL     *string   `db:"image_url" json:"image_url,omitempty"`
	ExternalLink *string   `db:"external_link" json:"external_link,omitempty"`
	ShareCode    string    `db:"share_code" json:"share_code"`
	DateTime     time.Time `db:"date_time" json:"date_time"`
	IsCancelled  bool      `db:"is_cancelled" json:"is_cancelled"`

	// Series metadata
	IsRecurringParent bool       `db:"is_recurring_parent" json:"is_recurring_parent"`
	SeriesParentID    *uuid.UUID `db:"series_parent_id" json:"series_parent_id,omitempty"`
	SeriesIndex       *int       `db:"series_index" json:"series_index,omitempty"`

	// Originating recurrence rule, stored on the parent for reference only.
	// It is never re-evaluated after creation.
	RecurrencePattern    *string       `db:"recurrence_pattern" json:"recurrence_pattern,omitempty"`
	RecurrenceFrequency  *int          `db:"recurrence_frequency" json:"recurrence_frequency,omitempty"`
	RecurrenceDaysOfWeek pq.Int64Array `db:"recurrence_days_of_week" json:"recurrence_days_of_week,omitempty"`
	RecurrenceDayOfMonth *int          `db:"recurrence_day_of_month" json:"recurrence_day_of_month,omitempty"`
	RecurrenceEndType    *string       `db:"recurrence_end_type" json:"recurrence_end_type,omitempty"`
	RecurrenceCount      *int          `db:"recurrence_count" json:"recurrence_count,omitempty"`
	RecurrenceUntil      *time.Time    `db:"recurrence_until" json:"recurrence_until,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// SharedFields are the template attributes identical across series members.
// date_time, is_cancelled and the series metadata are deliberately absent:
// propagation must never touch them.
type SharedFields struct {
	Title        string    `db:"title"`
	Description  *string   `db:"description"`
	Venue        *string   `db:"venue"`
	Capacity     int       `db:"capacity"`
	Price        int64     `db:"price"`
	ImageURL     *string   `db:"image_url"`
	ExternalLink *string   `db:"external_link"`
	CommunityID  uuid.UUID `db:"community_id"`
	HostID       uuid.UUID `db:"host_id"`
}

// Shared extracts the propagatable template fields of a member.
func (e *Event) Shared() SharedFields {
	return SharedFields{
		Title:        e.Title,
		Description:  e.Description,
		Venue:        e.Venue,
		Capacity:     e.Capacity,
		Price:        e.Price,
		ImageURL:     e.ImageURL,
		ExternalLink: e.ExternalLink,
		CommunityID:  e.CommunityID,
		HostID:       e.HostID,
	}
}

// InSeries reports whether the member belongs to a recurring series.
func (e *Event) InSeries() bool {
	return e.IsRecurringParent || e.SeriesParentID != nil
}
