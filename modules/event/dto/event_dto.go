package dto

import (
	"time"

	"community-events-api/modules/event/entity"
)

// ===================== Request DTOs =====================

// CreateEventRequest creates a single event or, when Recurrence is set, a
// whole recurring series in one call.
type CreateEventRequest struct {
	CommunityID  string             `json:"community_id" validate:"required"`
	Title        string             `json:"title" validate:"required"`
	Description  string             `json:"description"`
	Venue        string             `json:"venue"`
	Capacity     int                `json:"capacity"`
	Price        int64              `json:"price"`
	ImageURL     string             `json:"image_url"`
	ExternalLink string             `json:"external_link"`
	DateTime     string             `json:"date_time" validate:"required"` // RFC3339
	Recurrence   *RecurrenceRequest `json:"recurrence"`
}

// RecurrenceRequest is the wire form of a recurrence rule
type RecurrenceRequest struct {
	Pattern    string `json:"pattern"`      // daily | weekly | monthly | custom
	Frequency  int    `json:"frequency"`    // every N days/weeks/months
	DaysOfWeek []int  `json:"days_of_week"` // 0=Sunday .. 6=Saturday; weekly/custom
	DayOfMonth int    `json:"day_of_month"` // monthly; defaults to the start date's day
	EndType    string `json:"end_type"`     // count | until | open_ended
	Count      int    `json:"count"`
	Until      string `json:"until"` // RFC3339, inclusive
}

// UpdateEventRequest edits one series member. With ApplyToAll set, the shared
// (non-date) fields are pushed to every other member of the same series.
type UpdateEventRequest struct {
	Title        *string `json:"title"`
	Description  *string `json:"description"`
	Venue        *string `json:"venue"`
	Capacity     *int    `json:"capacity"`
	Price        *int64  `json:"price"`
	ImageURL     *string `json:"image_url"`
	ExternalLink *string `json:"external_link"`
	DateTime     *string `json:"date_time"` // RFC3339; never propagated
	ApplyToAll   bool    `json:"apply_to_all"`
}

// PreviewOccurrencesRequest asks the generator what a rule would produce,
// without persisting anything.
type PreviewOccurrencesRequest struct {
	DateTime   string            `json:"date_time" validate:"required"` // RFC3339
	Recurrence RecurrenceRequest `json:"recurrence"`
}

// ===================== Response DTOs =====================

// EventResponse is the API shape of a series member
type EventResponse struct {
	ID                string              `json:"id"`
	CommunityID       string              `json:"community_id"`
	HostID            string              `json:"host_id"`
	Title             string              `json:"title"`
	Slug              string              `json:"slug"`
	Description       string              `json:"description,omitempty"`
	Venue             string              `json:"venue,omitempty"`
	Capacity          int                 `json:"capacity"`
	Price             int64               `json:"price"`
	ImageURL          string              `json:"image_url,omitempty"`
	ExternalLink      string              `json:"external_link,omitempty"`
	ShareCode         string              `json:"share_code"`
	DateTime          time.Time           `json:"date_time"`
	IsCancelled       bool                `json:"is_cancelled"`
	IsRecurringParent bool                `json:"is_recurring_parent"`
	SeriesParentID    string              `json:"series_parent_id,omitempty"`
	SeriesIndex       int                 `json:"series_index,omitempty"`
	Recurrence        *RecurrenceResponse `json:"recurrence,omitempty"`
	CreatedAt         time.Time           `json:"created_at"`
}

// RecurrenceResponse echoes the rule parameters stored on a series parent
type RecurrenceResponse struct {
	Pattern    string     `json:"pattern"`
	Frequency  int        `json:"frequency"`
	DaysOfWeek []int      `json:"days_of_week,omitempty"`
	DayOfMonth int        `json:"day_of_month,omitempty"`
	EndType    string     `json:"end_type"`
	Count      int        `json:"count,omitempty"`
	Until      *time.Time `json:"until,omitempty"`
}

// CreateEventResponse reports what was persisted: the created record (the
// series parent, for a recurring request) and the ids of its children.
type CreateEventResponse struct {
	Event    *EventResponse `json:"event"`
	ChildIDs []string       `json:"child_ids,omitempty"`
}

// SeriesResponse is a full series: the parent plus its ordered children
type SeriesResponse struct {
	Parent   *EventResponse  `json:"parent"`
	Children []EventResponse `json:"children"`
}

// PreviewOccurrencesResponse lists the dates a rule would generate
type PreviewOccurrencesResponse struct {
	Count       int         `json:"count"`
	Occurrences []time.Time `json:"occurrences"`
}

// ===================== Mapper Functions =====================

// ToEventResponse maps entity to DTO
func ToEventResponse(e *entity.Event) *EventResponse {
	resp := &EventResponse{
		ID:                e.ID.String(),
		CommunityID:       e.CommunityID.String(),
		HostID:            e.HostID.String(),
		Title:             e.Title,
		Slug:              e.Slug,
		Capacity:          e.Capacity,
		Price:             e.Price,
		ShareCode:         e.ShareCode,
		DateTime:          e.DateTime,
		IsCancelled:       e.IsCancelled,
		IsRecurringParent: e.IsRecurringParent,
		CreatedAt:         e.CreatedAt,
	}

	if e.Description != nil {
		resp.Description = *e.Description
	}
	if e.Venue != nil {
		resp.Venue = *e.Venue
	}
	if e.ImageURL != nil {
		resp.ImageURL = *e.ImageURL
	}
	if e.ExternalLink != nil {
		resp.ExternalLink = *e.ExternalLink
	}
	if e.SeriesParentID != nil {
		resp.SeriesParentID = e.SeriesParentID.String()
	}
	if e.SeriesIndex != nil {
		resp.SeriesIndex = *e.SeriesIndex
	}
	if e.IsRecurringParent && e.RecurrencePattern != nil {
		resp.Recurrence = toRecurrenceResponse(e)
	}

	return resp
}

func toRecurrenceResponse(e *entity.Event) *RecurrenceResponse {
	rec := &RecurrenceResponse{
		Pattern: *e.RecurrencePattern,
	}
	if e.RecurrenceFrequency != nil {
		rec.Frequency = *e.RecurrenceFrequency
	}
	for _, d := range e.RecurrenceDaysOfWeek {
		rec.DaysOfWeek = append(rec.DaysOfWeek, int(d))
	}
	if e.RecurrenceDayOfMonth != nil {
		rec.DayOfMonth = *e.RecurrenceDayOfMonth
	}
	if e.RecurrenceEndType != nil {
		rec.EndType = *e.RecurrenceEndType
	}
	if e.RecurrenceCount != nil {
		rec.Count = *e.RecurrenceCount
	}
	rec.Until = e.RecurrenceUntil

	return rec
}

// ToSeriesResponse maps a resolved series (parent first) to its DTO
func ToSeriesResponse(parent *entity.Event, children []entity.Event) *SeriesResponse {
	resp := &SeriesResponse{
		Parent:   ToEventResponse(parent),
		Children: make([]EventResponse, 0, len(children)),
	}
	for i := range children {
		resp.Children = append(resp.Children, *ToEventResponse(&children[i]))
	}
	return resp
}
