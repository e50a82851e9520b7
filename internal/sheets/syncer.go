package sheets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Veraticus/squeegee/internal/service"
)

// DefaultSyncInterval is how often Watch mirrors the store.
const DefaultSyncInterval = 15 * time.Minute

// SyncResult lists which tabs were written.
type SyncResult struct {
	Synced []string
	Failed []string
}

// Syncer copies every table of the store into a spreadsheet.
type Syncer struct {
	store  service.Storage
	writer service.SheetWriter
	logger *slog.Logger
}

// NewSyncer builds a syncer from store to writer.
func NewSyncer(store service.Storage, writer service.SheetWriter, logger *slog.Logger) *Syncer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Syncer{store: store, writer: writer, logger: logger}
}

type table struct {
	name  string
	build func(context.Context, service.Storage) ([][]any, error)
}

var tables = []table{
	{TabClients, func(ctx context.Context, s service.Storage) ([][]any, error) {
		rows, err := s.ListClients(ctx)
		return ClientsTable(rows), err
	}},
	{TabServices, func(ctx context.Context, s service.Storage) ([][]any, error) {
		rows, err := s.ListServices(ctx)
		return ServicesTable(rows), err
	}},
	{TabLocations, func(ctx context.Context, s service.Storage) ([][]any, error) {
		rows, err := s.ListLocations(ctx)
		return LocationsTable(rows), err
	}},
	{TabSchedules, func(ctx context.Context, s service.Storage) ([][]any, error) {
		rows, err := s.ListSchedules(ctx)
		return SchedulesTable(rows), err
	}},
}

// SyncAll mirrors clients, services, locations and schedules in that order.
// A failing table is logged and the rest are still attempted; the returned
// error joins every failure.
func (s *Syncer) SyncAll(ctx context.Context) (SyncResult, error) {
	var (
		res  SyncResult
		errs []error
	)
	for _, t := range tables {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if err := s.syncTable(ctx, t); err != nil {
			s.logger.Error("Failed to sync table", "table", t.name, "error", err)
			res.Failed = append(res.Failed, t.name)
			errs = append(errs, err)
			continue
		}
		res.Synced = append(res.Synced, t.name)
	}
	return res, errors.Join(errs...)
}

func (s *Syncer) syncTable(ctx context.Context, t table) error {
	rows, err := t.build(ctx, s.store)
	if err != nil {
		return fmt.Errorf("%s: %w", t.name, err)
	}
	if err := s.writer.WriteSheet(ctx, t.name, rows); err != nil {
		return fmt.Errorf("%s: %w", t.name, err)
	}
	s.logger.Debug("Synced table", "table", t.name, "records", len(rows)-1)
	return nil
}

// Watch syncs immediately and then every interval until ctx ends.
func (s *Syncer) Watch(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = DefaultSyncInterval
	}

	s.runOnce(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Sync watcher stopped")
			return nil
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

func (s *Syncer) runOnce(ctx context.Context) {
	start := time.Now()
	res, err := s.SyncAll(ctx)
	if err != nil && ctx.Err() == nil {
		s.logger.Warn("Sync finished with errors", "synced", len(res.Synced), "failed", len(res.Failed), "error", err)
		return
	}
	s.logger.Info("Sync complete", "synced", len(res.Synced), "duration", time.Since(start))
}
