package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/Veraticus/squeegee/internal/common"
	"github.com/Veraticus/squeegee/internal/model"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewWithDB(sqlx.NewDb(db, DriverPostgres)), mock
}

var clientRowColumns = []string{"id", "name", "email", "phone", "address", "city", "postal_code", "notes", "created_at", "updated_at"}

func TestPostgresGetOrCreateClientFound(t *testing.T) {
	store, mock := newMockStore(t)
	now := time.Now()

	mock.ExpectQuery(`SELECT .+ FROM clients WHERE email = \$1`).
		WithArgs("jane@example.com").
		WillReturnRows(sqlmock.NewRows(clientRowColumns).
			AddRow("c-1", "Jane Doe", "jane@example.com", "", "", "", "", "", now, now))

	client, err := store.GetOrCreateClient(context.Background(), model.Client{Name: "Jane", Email: "jane@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "c-1", client.ID)
	assert.Equal(t, "Jane Doe", client.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresGetOrCreateClientInserts(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT .+ FROM clients WHERE name = \$1`).
		WithArgs("Acme Services Inc").
		WillReturnRows(sqlmock.NewRows(clientRowColumns))
	mock.ExpectExec(`INSERT INTO clients`).
		WithArgs(sqlmock.AnyArg(), "Acme Services Inc", "", "", "", "", "", "", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	client, err := store.GetOrCreateClient(context.Background(), model.Client{Name: "Acme Services Inc"})
	require.NoError(t, err)
	assert.Len(t, client.ID, 36)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresCalendarRangeUsesDollarPlaceholders(t *testing.T) {
	store, mock := newMockStore(t)
	now := time.Now()

	mock.ExpectQuery(`WHERE s.service_date >= \$1 AND s.service_date <= \$2`).
		WithArgs("2024-01-01", "2024-01-31").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "client_id", "service_id", "location_id", "service_date", "start_time", "end_time",
			"status", "notes", "created_at", "updated_at", "client_name", "service_name",
		}).AddRow("s-1", "c-1", "v-1", "", "2024-01-10", "10:00", "12:00",
			"scheduled", "", now, now, "Jane Doe", "Window Cleaning"))

	schedules, err := store.CalendarRange(context.Background(), "2024-01-01", "2024-01-31")
	require.NoError(t, err)
	require.Len(t, schedules, 1)
	assert.Equal(t, model.ScheduleScheduled, schedules[0].Status)
	assert.Equal(t, "Window Cleaning", schedules[0].ServiceName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresDeleteScheduleNotFound(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec(`DELETE FROM schedules WHERE id = \$1`).
		WithArgs("s-9").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := store.DeleteSchedule(context.Background(), "s-9")
	assert.ErrorIs(t, err, common.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresQueryErrorsAreWrapped(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT .+ FROM services ORDER BY name`).
		WillReturnError(errors.New("connection reset"))

	_, err := store.ListServices(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to query services")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPing(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectPing().WillReturnError(errors.New("connection refused"))
	err := store.Ping(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to ping database")
	assert.NoError(t, mock.ExpectationsWereMet())
}
