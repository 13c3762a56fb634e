package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"community-events-api/core/database"
	"community-events-api/core/logger"
	"community-events-api/modules/event/entity"
)

// EventRepository handles event database operations
type EventRepository struct {
	DB database.IDatabase
}

// NewEventRepository creates a new repository instance
func NewEventRepository(db database.IDatabase) *EventRepository {
	return &EventRepository{DB: db}
}

// EventRepositoryInterface defines the repository contract
type EventRepositoryInterface interface {
	CreateEvent(ctx context.Context, event *entity.Event) (*entity.Event, error)
	BulkCreateEvents(ctx context.Context, events []entity.Event) ([]uuid.UUID, error)
	GetEventByID(ctx context.Context, id uuid.UUID) (*entity.Event, error)
	GetEventsByHostID(ctx context.Context, hostID uuid.UUID) ([]entity.Event, error)
	GetSeriesMembers(ctx context.Context, parentID uuid.UUID) ([]entity.Event, error)
	UpdateEvent(ctx context.Context, event *entity.Event) error
	UpdateSharedFields(ctx context.Context, id uuid.UUID, fields entity.SharedFields) error
	SetCancelled(ctx context.Context, id uuid.UUID, cancelled bool) error
	DeleteEvent(ctx context.Context, id uuid.UUID) error
}

const eventColumns = `id, community_id, host_id, title, slug, description, venue, capacity, price,
	       image_url, external_link, share_code, date_time, is_cancelled,
	       is_recurring_parent, series_parent_id, series_index,
	       recurrence_pattern, recurrence_frequency, recurrence_days_of_week,
	       recurrence_day_of_month, recurrence_end_type, recurrence_count, recurrence_until,
	       created_at, updated_at`

const insertColumns = `community_id, host_id, title, slug, description, venue, capacity, price,
	 image_url, external_link, share_code, date_time, is_cancelled,
	 is_recurring_parent, series_parent_id, series_index,
	 recurrence_pattern, recurrence_frequency, recurrence_days_of_week,
	 recurrence_day_of_month, recurrence_end_type, recurrence_count, recurrence_until`

const insertColumnCount = 23

func insertArgs(e *entity.Event) []any {
	return []any{
		e.CommunityID, e.HostID, e.Title, e.Slug, e.Description, e.Venue, e.Capacity, e.Price,
		e.ImageURL, e.ExternalLink, e.ShareCode, e.DateTime, e.IsCancelled,
		e.IsRecurringParent, e.SeriesParentID, e.SeriesIndex,
		e.RecurrencePattern, e.RecurrenceFrequency, e.RecurrenceDaysOfWeek,
		e.RecurrenceDayOfMonth, e.RecurrenceEndType, e.RecurrenceCount, e.RecurrenceUntil,
	}
}

// CreateEvent inserts one record and returns the persisted row
func (r *EventRepository) CreateEvent(ctx context.Context, event *entity.Event) (*entity.Event, error) {
	placeholders := make([]string, insertColumnCount)
	for i := range placeholders {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}

	query := fmt.Sprintf(`INSERT INTO events (%s) VALUES (%s) RETURNING %s`,
		insertColumns, strings.Join(placeholders, ", "), eventColumns)

	var created entity.Event
	err := r.DB.GetContext(ctx, &created, query, insertArgs(event)...)
	if err != nil {
		logger.Error("EventRepository:CreateEvent", err)
		return nil, err
	}

	return &created, nil
}

// BulkCreateEvents inserts all records in a single statement and returns their
// generated ids in input order.
func (r *EventRepository) BulkCreateEvents(ctx context.Context, events []entity.Event) ([]uuid.UUID, error) {
	if len(events) == 0 {
		return nil, nil
	}

	values := make([]string, 0, len(events))
	args := make([]any, 0, len(events)*insertColumnCount)
	for i := range events {
		placeholders := make([]string, insertColumnCount)
		for j := range placeholders {
			placeholders[j] = fmt.Sprintf("$%d", i*insertColumnCount+j+1)
		}
		values = append(values, "("+strings.Join(placeholders, ", ")+")")
		args = append(args, insertArgs(&events[i])...)
	}

	query := fmt.Sprintf(`INSERT INTO events (%s) VALUES %s RETURNING id`,
		insertColumns, strings.Join(values, ", "))

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		logger.Error("EventRepository:BulkCreateEvents", err)
		return nil, err
	}
	defer rows.Close()

	ids := make([]uuid.UUID, 0, len(events))
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			logger.Error("EventRepository:BulkCreateEvents", err)
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		logger.Error("EventRepository:BulkCreateEvents", err)
		return nil, err
	}

	return ids, nil
}

// GetEventByID returns the record or nil when it does not exist
func (r *EventRepository) GetEventByID(ctx context.Context, id uuid.UUID) (*entity.Event, error) {
	query := fmt.Sprintf(`SELECT %s FROM events WHERE id = $1`, eventColumns)

	var event entity.Event
	err := r.DB.GetContext(ctx, &event, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("EventRepository:GetEventByID", err)
		return nil, err
	}

	return &event, nil
}

func (r *EventRepository) GetEventsByHostID(ctx context.Context, hostID uuid.UUID) ([]entity.Event, error) {
	query := fmt.Sprintf(`SELECT %s FROM events WHERE host_id = $1 ORDER BY date_time ASC`, eventColumns)

	var events []entity.Event
	err := r.DB.SelectContext(ctx, &events, query, hostID)
	if err != nil {
		logger.Error("EventRepository:GetEventsByHostID", err)
		return nil, err
	}

	return events, nil
}

// GetSeriesMembers returns the parent and all its children, ordered by
// series_index, so the parent is always first.
func (r *EventRepository) GetSeriesMembers(ctx context.Context, parentID uuid.UUID) ([]entity.Event, error) {
	query := fmt.Sprintf(`SELECT %s FROM events
		WHERE id = $1 OR series_parent_id = $1
		ORDER BY series_index ASC`, eventColumns)

	var members []entity.Event
	err := r.DB.SelectContext(ctx, &members, query, parentID)
	if err != nil {
		logger.Error("EventRepository:GetSeriesMembers", err)
		return nil, err
	}

	return members, nil
}

// UpdateEvent updates the editable fields of a single member
func (r *EventRepository) UpdateEvent(ctx context.Context, event *entity.Event) error {
	query := `
		UPDATE events
		SET title = $2, description = $3, venue = $4, capacity = $5, price = $6,
		    image_url = $7, external_link = $8, community_id = $9, host_id = $10,
		    date_time = $11, updated_at = NOW()
		WHERE id = $1
	`

	err := r.DB.ExecContext(ctx, query,
		event.ID, event.Title, event.Description, event.Venue, event.Capacity, event.Price,
		event.ImageURL, event.ExternalLink, event.CommunityID, event.HostID,
		event.DateTime)
	if err != nil {
		logger.Error("EventRepository:UpdateEvent", err)
		return err
	}

	return nil
}

// UpdateSharedFields updates only the template fields of a member. date_time,
// is_cancelled and the series metadata are deliberately not in the column list.
func (r *EventRepository) UpdateSharedFields(ctx context.Context, id uuid.UUID, fields entity.SharedFields) error {
	query := `
		UPDATE events
		SET title = $2, description = $3, venue = $4, capacity = $5, price = $6,
		    image_url = $7, external_link = $8, community_id = $9, host_id = $10,
		    updated_at = NOW()
		WHERE id = $1
	`

	err := r.DB.ExecContext(ctx, query,
		id, fields.Title, fields.Description, fields.Venue, fields.Capacity, fields.Price,
		fields.ImageURL, fields.ExternalLink, fields.CommunityID, fields.HostID)
	if err != nil {
		logger.Error("EventRepository:UpdateSharedFields", err)
		return err
	}

	return nil
}

func (r *EventRepository) SetCancelled(ctx context.Context, id uuid.UUID, cancelled bool) error {
	query := `UPDATE events SET is_cancelled = $2, updated_at = NOW() WHERE id = $1`
	err := r.DB.ExecContext(ctx, query, id, cancelled)
	if err != nil {
		logger.Error("EventRepository:SetCancelled", err)
		return err
	}
	return nil
}

func (r *EventRepository) DeleteEvent(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM events WHERE id = $1`
	err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		logger.Error("EventRepository:DeleteEvent", err)
		return err
	}
	return nil
}
