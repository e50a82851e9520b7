package assistant

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Veraticus/squeegee/internal/common"
	"github.com/Veraticus/squeegee/internal/model"
)

// ScheduleRequest books one service for an existing client.
type ScheduleRequest struct {
	ClientID    string
	ServiceID   string
	ServiceDate string
	StartTime   string
	EndTime     string
	Notes       string
}

// ValidateDate checks that date is YYYY-MM-DD and not before today.
func ValidateDate(date string, now time.Time) error {
	d, err := time.ParseInLocation(model.DateLayout, date, now.Location())
	if err != nil {
		return fmt.Errorf("%w: %q", common.ErrInvalidDate, date)
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if d.Before(today) {
		return fmt.Errorf("%w: %s", common.ErrInvalidDate, date)
	}
	return nil
}

func (a *Agent) requireStore() error {
	if a.store == nil {
		return fmt.Errorf("%w: no record store configured", common.ErrAssistantUnavailable)
	}
	return nil
}

// SearchClients finds clients whose name contains name, ignoring case.
func (a *Agent) SearchClients(ctx context.Context, name string) ([]model.Client, error) {
	if err := a.requireStore(); err != nil {
		return nil, err
	}
	clients, err := a.store.SearchClients(ctx, name)
	if err != nil {
		return nil, err
	}
	a.logger.Debug("Client search", "query", name, "matches", len(clients))
	return clients, nil
}

// ClientSchedules lists every job booked for a client.
func (a *Agent) ClientSchedules(ctx context.Context, clientID string) ([]model.Schedule, error) {
	if err := a.requireStore(); err != nil {
		return nil, err
	}
	return a.store.ClientSchedules(ctx, clientID)
}

// Services lists the services that can be booked.
func (a *Agent) Services(ctx context.Context) ([]model.Service, error) {
	if err := a.requireStore(); err != nil {
		return nil, err
	}
	return a.store.ListServices(ctx)
}

// ScheduleService books a new job with status scheduled.
func (a *Agent) ScheduleService(ctx context.Context, req ScheduleRequest) (*model.Schedule, error) {
	if err := a.requireStore(); err != nil {
		return nil, err
	}
	if err := ValidateDate(req.ServiceDate, a.now()); err != nil {
		return nil, err
	}

	schedule, err := a.store.CreateSchedule(ctx, model.Schedule{
		ClientID:    req.ClientID,
		ServiceID:   req.ServiceID,
		ServiceDate: req.ServiceDate,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Notes:       req.Notes,
		Status:      model.ScheduleScheduled,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create schedule: %w", err)
	}
	a.logger.Info("Scheduled service", "schedule_id", schedule.ID, "client_id", schedule.ClientID, "date", schedule.ServiceDate)
	return schedule, nil
}

// EditSchedule applies update to a schedule. A new service date must not be in the past.
func (a *Agent) EditSchedule(ctx context.Context, id string, update model.ScheduleUpdate) (*model.Schedule, error) {
	if err := a.requireStore(); err != nil {
		return nil, err
	}
	if update.ServiceDate != nil {
		if err := ValidateDate(*update.ServiceDate, a.now()); err != nil {
			return nil, err
		}
	}
	return a.store.UpdateSchedule(ctx, id, update)
}

// DeleteSchedule removes a schedule.
func (a *Agent) DeleteSchedule(ctx context.Context, id string) error {
	if err := a.requireStore(); err != nil {
		return err
	}
	return a.store.DeleteSchedule(ctx, id)
}

// Calendar returns the jobs between start and end, inclusive, as calendar events.
func (a *Agent) Calendar(ctx context.Context, start, end string) ([]model.CalendarEvent, error) {
	if err := a.requireStore(); err != nil {
		return nil, err
	}
	schedules, err := a.store.CalendarRange(ctx, start, end)
	if err != nil {
		return nil, err
	}
	events := make([]model.CalendarEvent, 0, len(schedules))
	for _, s := range schedules {
		events = append(events, model.NewCalendarEvent(s))
	}
	return events, nil
}

// Selection remembers the last client search so a follow-up like "2" can pick a result.
type Selection struct {
	clients []model.Client
}

// Remember stores the latest search results.
func (s *Selection) Remember(clients []model.Client) {
	s.clients = clients
}

// Pick resolves a 1-based choice against the remembered results.
func (s *Selection) Pick(choice string) (model.Client, bool) {
	idx, err := strconv.Atoi(strings.TrimSpace(choice))
	if err != nil || idx < 1 || idx > len(s.clients) {
		return model.Client{}, false
	}
	return s.clients[idx-1], true
}
