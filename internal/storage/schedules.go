package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Veraticus/squeegee/internal/common"
	"github.com/Veraticus/squeegee/internal/model"
	"github.com/google/uuid"
)

// scheduleSelect joins client and service names onto each schedule.
const scheduleSelect = `
	SELECT s.id, s.client_id,
		COALESCE(s.service_id, '') AS service_id,
		COALESCE(s.location_id, '') AS location_id,
		s.service_date, s.start_time, s.end_time, s.status, s.notes,
		s.created_at, s.updated_at,
		COALESCE(c.name, '') AS client_name,
		COALESCE(sv.name, '') AS service_name
	FROM schedules s
	LEFT JOIN clients c ON c.id = s.client_id
	LEFT JOIN services sv ON sv.id = s.service_id`

const scheduleOrder = ` ORDER BY s.service_date, s.start_time, s.created_at`

// CreateSchedule validates and inserts a schedule. Status defaults to scheduled.
func (s *Store) CreateSchedule(ctx context.Context, schedule model.Schedule) (*model.Schedule, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if schedule.Status == "" {
		schedule.Status = model.ScheduleScheduled
	}
	if err := s.validateRecord(schedule); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	schedule.ID = uuid.NewString()
	schedule.CreatedAt = now
	schedule.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, s.rebind(`
		INSERT INTO schedules (id, client_id, service_id, location_id, service_date,
			start_time, end_time, status, notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`),
		schedule.ID,
		schedule.ClientID,
		nullable(schedule.ServiceID),
		nullable(schedule.LocationID),
		schedule.ServiceDate,
		schedule.StartTime,
		schedule.EndTime,
		string(schedule.Status),
		schedule.Notes,
		schedule.CreatedAt,
		schedule.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create schedule: %w", err)
	}

	return s.GetSchedule(ctx, schedule.ID)
}

// GetSchedule retrieves one schedule with its client and service names.
func (s *Store) GetSchedule(ctx context.Context, id string) (*model.Schedule, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	var schedule model.Schedule
	err := s.db.GetContext(ctx, &schedule, s.rebind(scheduleSelect+` WHERE s.id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("schedule %s: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get schedule: %w", err)
	}
	return &schedule, nil
}

// UpdateSchedule applies the non-nil fields of update and returns the result.
func (s *Store) UpdateSchedule(ctx context.Context, id string, update model.ScheduleUpdate) (*model.Schedule, error) {
	schedule, err := s.GetSchedule(ctx, id)
	if err != nil {
		return nil, err
	}

	if update.ServiceDate != nil {
		schedule.ServiceDate = strings.TrimSpace(*update.ServiceDate)
	}
	if update.StartTime != nil {
		schedule.StartTime = strings.TrimSpace(*update.StartTime)
	}
	if update.EndTime != nil {
		schedule.EndTime = strings.TrimSpace(*update.EndTime)
	}
	if update.Status != nil {
		schedule.Status = *update.Status
	}
	if update.Notes != nil {
		schedule.Notes = *update.Notes
	}
	if update.ServiceID != nil {
		schedule.ServiceID = *update.ServiceID
	}
	if update.LocationID != nil {
		schedule.LocationID = *update.LocationID
	}
	if err := s.validateRecord(*schedule); err != nil {
		return nil, err
	}

	_, err = s.db.ExecContext(ctx, s.rebind(`
		UPDATE schedules SET
			service_id = ?, location_id = ?, service_date = ?, start_time = ?,
			end_time = ?, status = ?, notes = ?, updated_at = ?
		WHERE id = ?
	`),
		nullable(schedule.ServiceID),
		nullable(schedule.LocationID),
		schedule.ServiceDate,
		schedule.StartTime,
		schedule.EndTime,
		string(schedule.Status),
		schedule.Notes,
		time.Now().UTC(),
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update schedule: %w", err)
	}

	return s.GetSchedule(ctx, id)
}

// DeleteSchedule removes a schedule.
func (s *Store) DeleteSchedule(ctx context.Context, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, s.rebind(`DELETE FROM schedules WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("failed to delete schedule: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deleted rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("schedule %s: %w", id, common.ErrNotFound)
	}
	return nil
}

// ClientSchedules returns the schedules booked for one client.
func (s *Store) ClientSchedules(ctx context.Context, clientID string) ([]model.Schedule, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(clientID, "clientID"); err != nil {
		return nil, err
	}
	return s.selectSchedules(ctx, scheduleSelect+` WHERE s.client_id = ?`+scheduleOrder, clientID)
}

// ListSchedules returns every schedule in date order.
func (s *Store) ListSchedules(ctx context.Context) ([]model.Schedule, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return s.selectSchedules(ctx, scheduleSelect+scheduleOrder)
}

// CalendarRange returns schedules whose service date falls within
// [start, end], both given as YYYY-MM-DD.
func (s *Store) CalendarRange(ctx context.Context, start, end string) ([]model.Schedule, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateDateRange(start, end); err != nil {
		return nil, err
	}
	return s.selectSchedules(ctx,
		scheduleSelect+` WHERE s.service_date >= ? AND s.service_date <= ?`+scheduleOrder, start, end)
}

func (s *Store) selectSchedules(ctx context.Context, query string, args ...any) ([]model.Schedule, error) {
	schedules := []model.Schedule{}
	if err := s.db.SelectContext(ctx, &schedules, s.rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to query schedules: %w", err)
	}
	return schedules, nil
}

func nullable(id string) sql.NullString {
	return sql.NullString{String: id, Valid: id != ""}
}
