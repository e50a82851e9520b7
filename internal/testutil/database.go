// Package testutil provides shared fixtures for tests that need a migrated
// record store.
package testutil

import (
	"context"
	"testing"

	"github.com/Veraticus/squeegee/internal/model"
	"github.com/Veraticus/squeegee/internal/storage"
	"github.com/shopspring/decimal"
)

// TestDB wraps a migrated in-memory store bound to one test.
type TestDB struct {
	Store *storage.Store
	t     *testing.T
}

// SetupTestDB creates a migrated in-memory SQLite store that is closed when
// the test ends.
//
// Example:
//
//	db := testutil.SetupTestDB(t)
//	jane := db.MustClient("Jane Doe", "jane@example.com")
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	store, err := storage.OpenSQLite(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})

	return &TestDB{Store: store, t: t}
}

// MustClient gets or creates a client or fails the test.
func (db *TestDB) MustClient(name, email string) model.Client {
	db.t.Helper()
	c, err := db.Store.GetOrCreateClient(context.Background(), model.Client{Name: name, Email: email})
	if err != nil {
		db.t.Fatalf("failed to seed client %q: %v", name, err)
	}
	return *c
}

// MustService gets or creates a one-hour service or fails the test.
func (db *TestDB) MustService(name string, price int64) model.Service {
	db.t.Helper()
	s, err := db.Store.GetOrCreateService(context.Background(), model.Service{
		Name:            name,
		Price:           decimal.NewFromInt(price),
		DurationMinutes: 60,
	})
	if err != nil {
		db.t.Fatalf("failed to seed service %q: %v", name, err)
	}
	return *s
}

// MustSchedule books a job or fails the test. An empty status means scheduled.
func (db *TestDB) MustSchedule(client model.Client, svc model.Service, date string, status model.ScheduleStatus) model.Schedule {
	db.t.Helper()
	s, err := db.Store.CreateSchedule(context.Background(), model.Schedule{
		ClientID:    client.ID,
		ServiceID:   svc.ID,
		ServiceDate: date,
		Status:      status,
	})
	if err != nil {
		db.t.Fatalf("failed to seed schedule on %s: %v", date, err)
	}
	return *s
}
