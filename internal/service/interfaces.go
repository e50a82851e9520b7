// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/Veraticus/squeegee/internal/model"
)

// Storage defines the contract for our persistence layer.
type Storage interface {
	// Client operations
	GetOrCreateClient(ctx context.Context, client model.Client) (*model.Client, error)
	GetClient(ctx context.Context, id string) (*model.Client, error)
	SearchClients(ctx context.Context, name string) ([]model.Client, error)
	ListClients(ctx context.Context) ([]model.Client, error)

	// Service operations
	GetOrCreateService(ctx context.Context, svc model.Service) (*model.Service, error)
	GetService(ctx context.Context, id string) (*model.Service, error)
	ListServices(ctx context.Context) ([]model.Service, error)

	// Location operations
	GetOrCreateLocation(ctx context.Context, loc model.Location) (*model.Location, error)
	ListLocations(ctx context.Context) ([]model.Location, error)

	// Schedule operations
	CreateSchedule(ctx context.Context, schedule model.Schedule) (*model.Schedule, error)
	GetSchedule(ctx context.Context, id string) (*model.Schedule, error)
	UpdateSchedule(ctx context.Context, id string, update model.ScheduleUpdate) (*model.Schedule, error)
	DeleteSchedule(ctx context.Context, id string) error
	ClientSchedules(ctx context.Context, clientID string) ([]model.Schedule, error)
	ListSchedules(ctx context.Context) ([]model.Schedule, error)
	CalendarRange(ctx context.Context, start, end string) ([]model.Schedule, error)

	// Maintenance
	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}

// SheetWriter replaces the contents of one named sheet with a grid of values.
type SheetWriter interface {
	WriteSheet(ctx context.Context, sheet string, values [][]any) error
}

// ChatAgent answers free-text messages.
type ChatAgent interface {
	Chat(ctx context.Context, message string) (string, error)
}

// Linker places an export file into one taxonomy bucket.
type Linker interface {
	Link(src string, bucket model.Bucket) (string, error)
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
