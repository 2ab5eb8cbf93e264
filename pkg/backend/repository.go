package backend

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

var ErrEventNotFound = errors.New("event not found")

type Repository interface {
	ListCalendars(ctx context.Context) ([]Calendar, error)
	GetCalendar(ctx context.Context, id string) (*Calendar, error)
	StoreCalendar(ctx context.Context, cal Calendar) error
	// GetEvents returns events overlapping [from, to) plus every recurring
	// event of the calendar, which the service expands into the window.
	GetEvents(ctx context.Context, calendarId string, from, to time.Time) ([]Event, error)
	StoreEvent(ctx context.Context, event Event) (string, error)
	UpdateEvent(ctx context.Context, event Event) error
	DeleteEvent(ctx context.Context, calendarId, uid string) error
}

type RepositoryImpl struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

func (r *RepositoryImpl) ListCalendars(ctx context.Context) ([]Calendar, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, color FROM calendar ORDER BY id`)
	if err != nil {
		err := fmt.Errorf("could not query calendars: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	calendars := make([]Calendar, 0, 4)
	for rows.Next() {
		var cal Calendar
		var color sql.NullString
		if err := rows.Scan(&cal.Id, &cal.Name, &color); err != nil {
			return nil, fmt.Errorf("could not scan row: %w", err)
		}
		cal.Color = color.String
		calendars = append(calendars, cal)
	}
	return calendars, rows.Err()
}

func (r *RepositoryImpl) GetCalendar(ctx context.Context, id string) (*Calendar, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, name, color FROM calendar WHERE id = $1`, id)
	var cal Calendar
	var color sql.NullString
	if err := row.Scan(&cal.Id, &cal.Name, &color); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("could not scan calendar: %w", err)
	}
	cal.Color = color.String
	return &cal, nil
}

func (r *RepositoryImpl) StoreCalendar(ctx context.Context, cal Calendar) error {
	query := `INSERT INTO calendar (id, name, color) VALUES ($1, $2, $3)
	          ON CONFLICT(id) DO UPDATE SET name = excluded.name, color = excluded.color`
	if _, err := r.db.ExecContext(ctx, query, cal.Id, cal.Name, cal.Color); err != nil {
		err := fmt.Errorf("could not store calendar: %w", err)
		log.Error(err)
		return err
	}
	return nil
}

func (r *RepositoryImpl) GetEvents(ctx context.Context, calendarId string, from, to time.Time) ([]Event, error) {
	query := `SELECT uid, summary, description, start_time, end_time, all_day, rrule
	          FROM calendar_event
	          WHERE calendar_id = $1
	            AND ((start_time < $2 AND end_time > $3) OR (rrule IS NOT NULL AND rrule != ''))
	          ORDER BY start_time`

	rows, err := r.db.QueryContext(ctx, query, calendarId, to.UnixMilli(), from.UnixMilli())
	if err != nil {
		err := fmt.Errorf("could not query calendar events: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	events := make([]Event, 0, 10)
	for rows.Next() {
		event, err := scanEvent(rows, calendarId)
		if err != nil {
			log.Error(err)
			return nil, err
		}
		events = append(events, event)
	}
	return events, rows.Err()
}

func scanEvent(rows *sql.Rows, calendarId string) (Event, error) {
	var uid, summary string
	var description, rruleStr sql.NullString
	var startMillis, endMillis int64
	var allDay int
	if err := rows.Scan(&uid, &summary, &description, &startMillis, &endMillis, &allDay, &rruleStr); err != nil {
		return Event{}, fmt.Errorf("could not scan row: %w", err)
	}
	return Event{
		UID:         uid,
		CalendarId:  calendarId,
		Summary:     summary,
		Description: description.String,
		Start:       time.UnixMilli(startMillis),
		End:         time.UnixMilli(endMillis),
		AllDay:      allDay != 0,
		RRule:       rruleStr.String,
	}, nil
}

func (r *RepositoryImpl) StoreEvent(ctx context.Context, event Event) (string, error) {
	query := `INSERT INTO calendar_event (uid, calendar_id, summary, description, start_time, end_time, all_day, rrule)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	uid := event.UID
	if uid == "" {
		uid = uuid.NewString()
	}
	allDay := 0
	if event.AllDay {
		allDay = 1
	}
	_, err := r.db.ExecContext(ctx, query, uid, event.CalendarId, event.Summary, event.Description,
		event.Start.UnixMilli(), event.End.UnixMilli(), allDay, event.RRule)
	if err != nil {
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return "", err
	}
	return uid, nil
}

func (r *RepositoryImpl) UpdateEvent(ctx context.Context, event Event) error {
	query := `UPDATE calendar_event
	          SET summary = $1, description = $2, start_time = $3, end_time = $4, all_day = $5, rrule = $6
	          WHERE uid = $7 AND calendar_id = $8`

	allDay := 0
	if event.AllDay {
		allDay = 1
	}
	result, err := r.db.ExecContext(ctx, query, event.Summary, event.Description,
		event.Start.UnixMilli(), event.End.UnixMilli(), allDay, event.RRule, event.UID, event.CalendarId)
	if err != nil {
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return err
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("%w: %s", ErrEventNotFound, event.UID)
	}
	return nil
}

func (r *RepositoryImpl) DeleteEvent(ctx context.Context, calendarId, uid string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM calendar_event WHERE uid = $1 AND calendar_id = $2`, uid, calendarId)
	if err != nil {
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return err
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("%w: %s", ErrEventNotFound, uid)
	}
	return nil
}
