package service

import (
	"context"
	"fmt"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/google/uuid"
	"github.com/gosimple/slug"

	"community-events-api/core/errors"
	"community-events-api/core/utils"
	"community-events-api/modules/event/dto"
	"community-events-api/modules/event/entity"
	"community-events-api/modules/event/repository"
)

// EventService owns the recurring-event engine: occurrence generation,
// series materialization, the two-step create-with-compensation protocol and
// cross-series edit propagation.
type EventService struct {
	repo      repository.EventRepositoryInterface
	generator *OccurrenceGenerator
	clock     Clock
}

// EventServiceInterface defines the service contract
type EventServiceInterface interface {
	CreateEvent(ctx context.Context, hostID uuid.UUID, req *dto.CreateEventRequest) (*dto.CreateEventResponse, *errors.AppError)
	PreviewOccurrences(req *dto.PreviewOccurrencesRequest) (*dto.PreviewOccurrencesResponse, *errors.AppError)
	GetEventByID(ctx context.Context, id uuid.UUID) (*dto.EventResponse, *errors.AppError)
	GetMyEvents(ctx context.Context, hostID uuid.UUID) ([]dto.EventResponse, *errors.AppError)
	GetSeries(ctx context.Context, memberID uuid.UUID) (*dto.SeriesResponse, *errors.AppError)
	UpdateEvent(ctx context.Context, eventID uuid.UUID, hostID uuid.UUID, req *dto.UpdateEventRequest) (*dto.EventResponse, *errors.AppError)
	CancelEvent(ctx context.Context, eventID uuid.UUID, hostID uuid.UUID) *errors.AppError
	DeleteEvent(ctx context.Context, eventID uuid.UUID, hostID uuid.UUID) *errors.AppError
	ExportSeriesICal(ctx context.Context, memberID uuid.UUID) (string, *errors.AppError)
}

// NewEventService creates a new event service
func NewEventService(repo repository.EventRepositoryInterface) EventServiceInterface {
	return &EventService{
		repo:      repo,
		generator: NewOccurrenceGenerator(),
		clock:     RealClock{},
	}
}

// CreateEvent persists a single event, or a whole series when the request
// carries a recurrence rule. Series creation is a compensating two-step: the
// parent is inserted first, the children second with the parent's persisted
// id; if the child insert fails the parent is deleted again.
func (s *EventService) CreateEvent(ctx context.Context, hostID uuid.UUID, req *dto.CreateEventRequest) (*dto.CreateEventResponse, *errors.AppError) {
	template, appErr := s.buildTemplate(hostID, req)
	if appErr != nil {
		return nil, appErr
	}

	// Non-recurring creation bypasses the series protocol entirely
	if req.Recurrence == nil {
		created, err := s.repo.CreateEvent(ctx, template)
		if err != nil {
			return nil, errors.NewAppError(errors.ErrPersistence, "Failed to create event", err)
		}
		return &dto.CreateEventResponse{Event: dto.ToEventResponse(created)}, nil
	}

	rule, appErr := s.buildRule(template.DateTime, req.Recurrence)
	if appErr != nil {
		return nil, appErr
	}
	if rule.End.Type == EndUntil && rule.End.Until.Before(s.clock.Now()) {
		return nil, errors.NewAppError(errors.ErrValidation, "Recurrence until date is in the past", nil)
	}

	dates, appErr := s.generator.Generate(rule)
	if appErr != nil {
		return nil, appErr
	}
	if len(dates) == 0 {
		return nil, errors.NewAppError(errors.ErrValidation, "Recurrence rule produces no occurrences", nil)
	}

	parent, children := BuildSeries(dates, template, rule)

	createdParent, err := s.repo.CreateEvent(ctx, &parent)
	if err != nil {
		// First step failed: nothing persisted, no compensation needed
		return nil, errors.NewAppError(errors.ErrPersistence, "Failed to create series parent", err)
	}

	childIDs := make([]string, 0, len(children))
	if len(children) > 0 {
		for i := range children {
			children[i].SeriesParentID = &createdParent.ID
		}

		ids, err := s.repo.BulkCreateEvents(ctx, children)
		if err != nil {
			// Compensate: delete the parent so the visible outcome is all-or-nothing
			if delErr := s.repo.DeleteEvent(ctx, createdParent.ID); delErr != nil {
				pErr := &PartialSeriesCreationError{
					ParentID:        createdParent.ID,
					ChildInsertErr:  err,
					CompensationErr: delErr,
				}
				return nil, errors.NewAppError(errors.ErrPartialSeriesCreation,
					"Series creation left an orphan parent", pErr)
			}
			return nil, errors.NewAppError(errors.ErrPersistence, "Failed to create series children", err)
		}
		for _, id := range ids {
			childIDs = append(childIDs, id.String())
		}
	}

	return &dto.CreateEventResponse{
		Event:    dto.ToEventResponse(createdParent),
		ChildIDs: childIDs,
	}, nil
}

// PreviewOccurrences evaluates a rule without persisting anything. An until
// date already in the past is rejected, same as on create; an empty result is
// returned as-is so the UI can tell "no occurrences" from an error.
func (s *EventService) PreviewOccurrences(req *dto.PreviewOccurrencesRequest) (*dto.PreviewOccurrencesResponse, *errors.AppError) {
	start, err := time.Parse(time.RFC3339, req.DateTime)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Invalid date_time format", err)
	}

	rule, appErr := s.buildRule(start, &req.Recurrence)
	if appErr != nil {
		return nil, appErr
	}
	if rule.End.Type == EndUntil && rule.End.Until.Before(s.clock.Now()) {
		return nil, errors.NewAppError(errors.ErrValidation, "Recurrence until date is in the past", nil)
	}

	dates, appErr := s.generator.Generate(rule)
	if appErr != nil {
		return nil, appErr
	}

	return &dto.PreviewOccurrencesResponse{
		Count:       len(dates),
		Occurrences: dates,
	}, nil
}

// GetEventByID retrieves an event by ID
func (s *EventService) GetEventByID(ctx context.Context, id uuid.UUID) (*dto.EventResponse, *errors.AppError) {
	event, err := s.repo.GetEventByID(ctx, id)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrPersistence, "Failed to get event", err)
	}
	if event == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Event not found", nil)
	}

	return dto.ToEventResponse(event), nil
}

// GetMyEvents retrieves all events hosted by the given user
func (s *EventService) GetMyEvents(ctx context.Context, hostID uuid.UUID) ([]dto.EventResponse, *errors.AppError) {
	events, err := s.repo.GetEventsByHostID(ctx, hostID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrPersistence, "Failed to get events", err)
	}

	result := make([]dto.EventResponse, 0, len(events))
	for i := range events {
		result = append(result, *dto.ToEventResponse(&events[i]))
	}

	return result, nil
}

// GetSeries resolves the full series containing the given member
func (s *EventService) GetSeries(ctx context.Context, memberID uuid.UUID) (*dto.SeriesResponse, *errors.AppError) {
	member, appErr := s.getMember(ctx, memberID)
	if appErr != nil {
		return nil, appErr
	}
	if !member.InSeries() {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Event is not part of a recurring series", nil)
	}

	parent, children, appErr := s.resolveSeries(ctx, member)
	if appErr != nil {
		return nil, appErr
	}

	return dto.ToSeriesResponse(parent, children), nil
}

// UpdateEvent edits one member. With apply_to_all set and the member part of a
// series, the shared fields are then pushed to every other member; the
// members' date_time values are never touched by that propagation.
func (s *EventService) UpdateEvent(ctx context.Context, eventID uuid.UUID, hostID uuid.UUID, req *dto.UpdateEventRequest) (*dto.EventResponse, *errors.AppError) {
	member, appErr := s.getMember(ctx, eventID)
	if appErr != nil {
		return nil, appErr
	}
	if member.HostID != hostID {
		return nil, errors.NewAppError(errors.ErrForbidden, "Not authorized", nil)
	}

	if appErr := applyEdit(member, req); appErr != nil {
		return nil, appErr
	}

	if err := s.repo.UpdateEvent(ctx, member); err != nil {
		return nil, errors.NewAppError(errors.ErrPersistence, "Failed to update event", err)
	}

	if req.ApplyToAll && member.InSeries() {
		if appErr := s.propagateSharedFields(ctx, member); appErr != nil {
			return nil, appErr
		}
	}

	return s.GetEventByID(ctx, eventID)
}

// CancelEvent marks a single member as cancelled. Cancellation is
// instance-specific and never propagated.
func (s *EventService) CancelEvent(ctx context.Context, eventID uuid.UUID, hostID uuid.UUID) *errors.AppError {
	member, appErr := s.getMember(ctx, eventID)
	if appErr != nil {
		return appErr
	}
	if member.HostID != hostID {
		return errors.NewAppError(errors.ErrForbidden, "Not authorized", nil)
	}

	if err := s.repo.SetCancelled(ctx, eventID, true); err != nil {
		return errors.NewAppError(errors.ErrPersistence, "Failed to cancel event", err)
	}

	return nil
}

// DeleteEvent deletes a member. Deleting a series parent removes its children
// with it (enforced by the schema's ON DELETE CASCADE).
func (s *EventService) DeleteEvent(ctx context.Context, eventID uuid.UUID, hostID uuid.UUID) *errors.AppError {
	member, appErr := s.getMember(ctx, eventID)
	if appErr != nil {
		return appErr
	}
	if member.HostID != hostID {
		return errors.NewAppError(errors.ErrForbidden, "Not authorized", nil)
	}

	if err := s.repo.DeleteEvent(ctx, eventID); err != nil {
		return errors.NewAppError(errors.ErrPersistence, "Failed to delete event", err)
	}

	return nil
}

// ExportSeriesICal renders the series containing the member (or the single
// event, for a standalone record) as an iCalendar payload.
func (s *EventService) ExportSeriesICal(ctx context.Context, memberID uuid.UUID) (string, *errors.AppError) {
	member, appErr := s.getMember(ctx, memberID)
	if appErr != nil {
		return "", appErr
	}

	members := []entity.Event{*member}
	if member.InSeries() {
		parent, children, appErr := s.resolveSeries(ctx, member)
		if appErr != nil {
			return "", appErr
		}
		members = append([]entity.Event{*parent}, children...)
	}

	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId("-//community-events-api//EN")

	for i := range members {
		m := &members[i]
		ev := cal.AddEvent(fmt.Sprintf("%s@community-events", m.ShareCode))
		ev.SetDtStampTime(s.clock.Now())
		ev.SetStartAt(m.DateTime)
		ev.SetSummary(m.Title)
		if m.Venue != nil {
			ev.SetLocation(*m.Venue)
		}
		if m.Description != nil {
			ev.SetDescription(*m.Description)
		}
		if m.ExternalLink != nil {
			ev.SetURL(*m.ExternalLink)
		}
		if m.IsCancelled {
			ev.SetStatus(ical.ObjectStatusCancelled)
		}
	}

	return cal.Serialize(), nil
}

// ===================== internals =====================

func (s *EventService) getMember(ctx context.Context, id uuid.UUID) (*entity.Event, *errors.AppError) {
	member, err := s.repo.GetEventByID(ctx, id)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrPersistence, "Failed to get event", err)
	}
	if member == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Event not found", nil)
	}
	return member, nil
}

// resolveSeries loads the whole series containing the member, split into the
// parent and its ordered children.
func (s *EventService) resolveSeries(ctx context.Context, member *entity.Event) (*entity.Event, []entity.Event, *errors.AppError) {
	parentID := member.ID
	if member.SeriesParentID != nil {
		parentID = *member.SeriesParentID
	}

	members, err := s.repo.GetSeriesMembers(ctx, parentID)
	if err != nil {
		return nil, nil, errors.NewAppError(errors.ErrPersistence, "Failed to load series", err)
	}

	var parent *entity.Event
	children := make([]entity.Event, 0, len(members))
	for i := range members {
		if members[i].IsRecurringParent {
			parent = &members[i]
			continue
		}
		children = append(children, members[i])
	}
	if parent == nil {
		return nil, nil, errors.NewAppError(errors.ErrNotFound, "Series parent not found", nil)
	}

	return parent, children, nil
}

// propagateSharedFields pushes the edited member's template fields to every
// other member of its series: all siblings, and the parent when the edited
// member is a child. Partial outcomes are surfaced, never rolled back.
func (s *EventService) propagateSharedFields(ctx context.Context, edited *entity.Event) *errors.AppError {
	parentID := edited.ID
	if edited.SeriesParentID != nil {
		parentID = *edited.SeriesParentID
	}

	members, err := s.repo.GetSeriesMembers(ctx, parentID)
	if err != nil {
		return errors.NewAppError(errors.ErrPersistence, "Failed to load series", err)
	}

	shared := edited.Shared()
	updated := []uuid.UUID{edited.ID}
	var failed []uuid.UUID
	var causes []error

	for i := range members {
		m := &members[i]
		if m.ID == edited.ID {
			continue
		}
		if err := s.repo.UpdateSharedFields(ctx, m.ID, shared); err != nil {
			failed = append(failed, m.ID)
			causes = append(causes, err)
			continue
		}
		updated = append(updated, m.ID)
	}

	if len(failed) > 0 {
		pErr := &PartialPropagationError{
			SeriesParentID: parentID,
			UpdatedIDs:     updated,
			FailedIDs:      failed,
			Causes:         causes,
		}
		return errors.NewAppError(errors.ErrPartialPropagation,
			"Some series members were not updated", pErr)
	}

	return nil
}

// buildTemplate maps the create request to the shared event template
func (s *EventService) buildTemplate(hostID uuid.UUID, req *dto.CreateEventRequest) (*entity.Event, *errors.AppError) {
	communityID, err := uuid.Parse(req.CommunityID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Invalid community ID", err)
	}

	start, err := time.Parse(time.RFC3339, req.DateTime)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Invalid date_time format", err)
	}

	if req.Title == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Title is required", nil)
	}

	template := &entity.Event{
		CommunityID: communityID,
		HostID:      hostID,
		Title:       req.Title,
		Slug:        slug.Make(req.Title),
		Capacity:    req.Capacity,
		Price:       req.Price,
		ShareCode:   utils.GenerateShareCode(),
		DateTime:    start,
	}

	if req.Description != "" {
		template.Description = &req.Description
	}
	if req.Venue != "" {
		template.Venue = &req.Venue
	}
	if req.ImageURL != "" {
		template.ImageURL = &req.ImageURL
	}
	if req.ExternalLink != "" {
		template.ExternalLink = &req.ExternalLink
	}

	return template, nil
}

// buildRule maps the wire form of a rule to its typed representation.
// Structural validation happens in RecurrenceRule.Validate, invoked by the
// generator before any date is produced.
func (s *EventService) buildRule(start time.Time, req *dto.RecurrenceRequest) (*RecurrenceRule, *errors.AppError) {
	var pattern Pattern
	switch req.Pattern {
	case entity.PatternDaily:
		pattern = PatternDaily
	case entity.PatternWeekly:
		pattern = PatternWeekly
	case entity.PatternMonthly:
		pattern = PatternMonthly
	case entity.PatternCustom:
		pattern = PatternCustom
	default:
		return nil, errors.NewAppError(errors.ErrValidation,
			fmt.Sprintf("Unknown recurrence pattern %q", req.Pattern), nil)
	}

	rule := &RecurrenceRule{
		StartDate: start,
		Pattern:   pattern,
		Frequency: req.Frequency,
	}

	for _, d := range req.DaysOfWeek {
		rule.DaysOfWeek = append(rule.DaysOfWeek, time.Weekday(d))
	}

	if pattern == PatternMonthly {
		rule.DayOfMonth = req.DayOfMonth
		if rule.DayOfMonth == 0 {
			rule.DayOfMonth = start.Day()
		}
	}

	switch req.EndType {
	case entity.EndTypeCount:
		rule.End = EndCondition{Type: EndCount, Count: req.Count}
	case entity.EndTypeUntil:
		until, err := time.Parse(time.RFC3339, req.Until)
		if err != nil {
			return nil, errors.NewAppError(errors.ErrValidation, "Invalid until date format", err)
		}
		rule.End = EndCondition{Type: EndUntil, Until: until}
	case entity.EndTypeOpenEnded, "":
		rule.End = EndCondition{Type: EndOpenEnded}
	default:
		return nil, errors.NewAppError(errors.ErrValidation,
			fmt.Sprintf("Unknown end condition %q", req.EndType), nil)
	}

	return rule, nil
}

// applyEdit applies the non-nil request fields to the member
func applyEdit(member *entity.Event, req *dto.UpdateEventRequest) *errors.AppError {
	if req.Title != nil && *req.Title != "" {
		member.Title = *req.Title
	}
	if req.Description != nil {
		member.Description = req.Description
	}
	if req.Venue != nil {
		member.Venue = req.Venue
	}
	if req.Capacity != nil {
		member.Capacity = *req.Capacity
	}
	if req.Price != nil {
		member.Price = *req.Price
	}
	if req.ImageURL != nil {
		member.ImageURL = req.ImageURL
	}
	if req.ExternalLink != nil {
		member.ExternalLink = req.ExternalLink
	}
	if req.DateTime != nil {
		t, err := time.Parse(time.RFC3339, *req.DateTime)
		if err != nil {
			return errors.NewAppError(errors.ErrInvalidInput, "Invalid date_time format", err)
		}
		member.DateTime = t
	}

	return nil
}
