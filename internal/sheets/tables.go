package sheets

import (
	"time"

	"github.com/Veraticus/squeegee/internal/model"
)

// Tab names in the mirrored spreadsheet.
const (
	TabClients   = "Clients"
	TabServices  = "Services"
	TabSchedules = "Schedules"
	TabLocations = "Locations"
)

// TimestampLayout formats created and updated times.
const TimestampLayout = "2006-01-02 15:04:05"

func stamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(TimestampLayout)
}

// ClientsTable renders clients with a header row.
func ClientsTable(clients []model.Client) [][]any {
	rows := make([][]any, 0, len(clients)+1)
	rows = append(rows, []any{"ID", "Name", "Email", "Phone", "Address", "Created At", "Updated At"})
	for _, c := range clients {
		rows = append(rows, []any{c.ID, c.Name, c.Email, c.Phone, c.Address, stamp(c.CreatedAt), stamp(c.UpdatedAt)})
	}
	return rows
}

// ServicesTable renders services with a header row. Prices keep two decimals.
func ServicesTable(services []model.Service) [][]any {
	rows := make([][]any, 0, len(services)+1)
	rows = append(rows, []any{"ID", "Name", "Description", "Price", "Duration (Minutes)", "Created At", "Updated At"})
	for _, s := range services {
		rows = append(rows, []any{
			s.ID, s.Name, s.Description, s.Price.StringFixed(2), s.DurationMinutes,
			stamp(s.CreatedAt), stamp(s.UpdatedAt),
		})
	}
	return rows
}

// SchedulesTable renders schedules with client and service names resolved.
func SchedulesTable(schedules []model.Schedule) [][]any {
	rows := make([][]any, 0, len(schedules)+1)
	rows = append(rows, []any{
		"ID", "Client Name", "Service Name", "Service Date", "Start Time", "End Time",
		"Status", "Notes", "Created At", "Updated At",
	})
	for _, s := range schedules {
		rows = append(rows, []any{
			s.ID, s.ClientName, s.ServiceName, s.ServiceDate, s.StartTime, s.EndTime,
			string(s.Status), s.Notes, stamp(s.CreatedAt), stamp(s.UpdatedAt),
		})
	}
	return rows
}

// LocationsTable renders locations with a header row.
func LocationsTable(locations []model.Location) [][]any {
	rows := make([][]any, 0, len(locations)+1)
	rows = append(rows, []any{"ID", "Name", "Address", "City", "Postal Code", "Created At", "Updated At"})
	for _, l := range locations {
		rows = append(rows, []any{l.ID, l.Name, l.Address, l.City, l.PostalCode, stamp(l.CreatedAt), stamp(l.UpdatedAt)})
	}
	return rows
}
