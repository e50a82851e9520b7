// Package importer loads estimate rows into the record store as estimated
// schedules.
package importer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Veraticus/squeegee/internal/model"
	"github.com/Veraticus/squeegee/internal/service"
)

// Defaults applied to every imported record.
const (
	DefaultDurationMinutes = 60
	DefaultLocationName    = "Primary Location"
)

// Request is one client and service pairing taken from an estimate row.
type Request struct {
	Client   model.Client
	Service  model.Service
	Location model.Location
	Schedule model.Schedule
}

// Requests expands a batch into one request per positive service amount.
func Requests(batch model.Batch) []Request {
	var reqs []Request
	for _, item := range batch.Items {
		date := fmt.Sprintf("%04d-01-01", item.Period.Year)
		for _, amount := range item.PositiveAmounts() {
			reqs = append(reqs, Request{
				Client: model.Client{Name: item.Subject},
				Service: model.Service{
					Name:            amount.Service,
					Price:           amount.Amount,
					DurationMinutes: DefaultDurationMinutes,
				},
				Location: model.Location{Name: DefaultLocationName},
				Schedule: model.Schedule{
					ServiceDate: date,
					Status:      model.ScheduleEstimated,
					Notes:       "Imported from " + batch.File.Name,
				},
			})
		}
	}
	return reqs
}

// Result counts the outcome of an upload.
type Result struct {
	Created int
	Failed  int
}

// Uploader writes requests to a store.
type Uploader struct {
	store  service.Storage
	logger *slog.Logger
}

// NewUploader returns an uploader over store.
func NewUploader(store service.Storage, logger *slog.Logger) *Uploader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Uploader{store: store, logger: logger}
}

// Upload processes requests in order. A failing record is logged and skipped;
// only cancellation stops the run early.
func (u *Uploader) Upload(ctx context.Context, reqs []Request) (Result, error) {
	var res Result
	for _, req := range reqs {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if err := u.uploadOne(ctx, req); err != nil {
			res.Failed++
			u.logger.Error("Failed to import record",
				"client", req.Client.Name,
				"service", req.Service.Name,
				"error", err)
			continue
		}
		res.Created++
	}
	return res, nil
}

func (u *Uploader) uploadOne(ctx context.Context, req Request) error {
	client, err := u.store.GetOrCreateClient(ctx, req.Client)
	if err != nil {
		return fmt.Errorf("client: %w", err)
	}
	svc, err := u.store.GetOrCreateService(ctx, req.Service)
	if err != nil {
		return fmt.Errorf("service: %w", err)
	}
	loc, err := u.store.GetOrCreateLocation(ctx, req.Location)
	if err != nil {
		return fmt.Errorf("location: %w", err)
	}

	schedule := req.Schedule
	schedule.ClientID = client.ID
	schedule.ServiceID = svc.ID
	schedule.LocationID = loc.ID
	if _, err := u.store.CreateSchedule(ctx, schedule); err != nil {
		return fmt.Errorf("schedule: %w", err)
	}

	u.logger.Debug("Imported record", "client", client.Name, "service", svc.Name, "date", schedule.ServiceDate)
	return nil
}
