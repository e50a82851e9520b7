package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ScheduleStatus is the lifecycle state of a booked or imported job.
type ScheduleStatus string

// Schedule status constants.
const (
	ScheduleScheduled   ScheduleStatus = "scheduled"
	ScheduleEstimated   ScheduleStatus = "estimated"
	ScheduleCompleted   ScheduleStatus = "completed"
	ScheduleRescheduled ScheduleStatus = "rescheduled"
	ScheduleCancelled   ScheduleStatus = "cancelled"
)

// DateLayout is the wire format for service dates.
const DateLayout = "2006-01-02"

// Client is a customer of the business.
type Client struct {
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
	ID         string    `db:"id" json:"id"`
	Name       string    `db:"name" json:"name" validate:"required"`
	Email      string    `db:"email" json:"email,omitempty" validate:"omitempty,email"`
	Phone      string    `db:"phone" json:"phone,omitempty"`
	Address    string    `db:"address" json:"address,omitempty"`
	City       string    `db:"city" json:"city,omitempty"`
	PostalCode string    `db:"postal_code" json:"postal_code,omitempty"`
	Notes      string    `db:"notes" json:"notes,omitempty"`
}

// Service is a billable offering such as window or eaves cleaning.
type Service struct {
	CreatedAt       time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time       `db:"updated_at" json:"updated_at"`
	ID              string          `db:"id" json:"id"`
	Name            string          `db:"name" json:"name" validate:"required"`
	Description     string          `db:"description" json:"description,omitempty"`
	Price           decimal.Decimal `db:"price" json:"price"`
	DurationMinutes int             `db:"duration_minutes" json:"duration_minutes" validate:"gte=0"`
}

// Location is a site where work is performed.
type Location struct {
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
	ID         string    `db:"id" json:"id"`
	Name       string    `db:"name" json:"name" validate:"required"`
	Address    string    `db:"address" json:"address,omitempty"`
	City       string    `db:"city" json:"city,omitempty"`
	PostalCode string    `db:"postal_code" json:"postal_code,omitempty"`
	Notes      string    `db:"notes" json:"notes,omitempty"`
}

// Schedule is one booked, estimated, or completed job.
type Schedule struct {
	CreatedAt   time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at" json:"updated_at"`
	ID          string         `db:"id" json:"id"`
	ClientID    string         `db:"client_id" json:"client_id" validate:"required"`
	ServiceID   string         `db:"service_id" json:"service_id,omitempty"`
	LocationID  string         `db:"location_id" json:"location_id,omitempty"`
	ServiceDate string         `db:"service_date" json:"service_date" validate:"required,servicedate"`
	StartTime   string         `db:"start_time" json:"start_time,omitempty" validate:"omitempty,clocktime"`
	EndTime     string         `db:"end_time" json:"end_time,omitempty" validate:"omitempty,clocktime"`
	Status      ScheduleStatus `db:"status" json:"status" validate:"required,oneof=scheduled estimated completed rescheduled cancelled"`
	Notes       string         `db:"notes" json:"notes,omitempty"`

	// Joined on read.
	ClientName  string `db:"client_name" json:"client_name,omitempty"`
	ServiceName string `db:"service_name" json:"service_name,omitempty"`
}

// ScheduleUpdate carries the mutable fields of a schedule. Nil fields are left alone.
type ScheduleUpdate struct {
	ServiceDate *string
	StartTime   *string
	EndTime     *string
	Status      *ScheduleStatus
	Notes       *string
	ServiceID   *string
	LocationID  *string
}

// CalendarEvent is a schedule shaped for calendar views.
type CalendarEvent struct {
	ID        string         `json:"id"`
	Title     string         `json:"title"`
	Start     string         `json:"start"`
	End       string         `json:"end"`
	Status    ScheduleStatus `json:"status"`
	ClientID  string         `json:"client_id"`
	ServiceID string         `json:"service_id"`
	Notes     string         `json:"notes,omitempty"`
}

// NewCalendarEvent converts a joined schedule into a calendar event.
func NewCalendarEvent(s Schedule) CalendarEvent {
	start := s.ServiceDate
	if s.StartTime != "" {
		start = s.ServiceDate + "T" + s.StartTime
	}
	end := s.ServiceDate
	if s.EndTime != "" {
		end = s.ServiceDate + "T" + s.EndTime
	}
	return CalendarEvent{
		ID:        s.ID,
		Title:     s.ClientName + " - " + s.ServiceName,
		Start:     start,
		End:       end,
		Status:    s.Status,
		ClientID:  s.ClientID,
		ServiceID: s.ServiceID,
		Notes:     s.Notes,
	}
}
