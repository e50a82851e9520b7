package sheets

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// fakeSheets is an in-process stand-in for the Sheets REST API.
type fakeSheets struct {
	tabs          map[string]int64
	batchUpdates  []*sheets.BatchUpdateSpreadsheetRequest
	cleared       []string
	writes        map[string][][]any
	writeOrder    []string
	inputOptions  []string
	created       int
	failWrites    int
	failWriteCode int
	writeAttempts int
	mu            sync.Mutex
}

func newFakeSheets() *fakeSheets {
	return &fakeSheets{
		tabs:   map[string]int64{"Sheet1": 0},
		writes: make(map[string][][]any),
	}
}

func (f *fakeSheets) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	path := strings.TrimPrefix(r.URL.Path, "/v4/spreadsheets")
	w.Header().Set("Content-Type", "application/json")

	switch {
	case r.Method == http.MethodPost && path == "":
		f.created++
		writeJSON(w, map[string]any{"spreadsheetId": "created-1", "spreadsheetUrl": "https://example.test/created-1"})

	case r.Method == http.MethodGet && !strings.Contains(path, "/values/"):
		var list []map[string]any
		for title, id := range f.tabs {
			list = append(list, map[string]any{"properties": map[string]any{"title": title, "sheetId": id}})
		}
		writeJSON(w, map[string]any{"sheets": list})

	case r.Method == http.MethodPost && strings.HasSuffix(path, ":batchUpdate"):
		var req sheets.BatchUpdateSpreadsheetRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		f.batchUpdates = append(f.batchUpdates, &req)
		var replies []map[string]any
		for _, q := range req.Requests {
			if q.AddSheet != nil {
				id := int64(len(f.tabs) + 10)
				f.tabs[q.AddSheet.Properties.Title] = id
				replies = append(replies, map[string]any{"addSheet": map[string]any{
					"properties": map[string]any{"title": q.AddSheet.Properties.Title, "sheetId": id},
				}})
				continue
			}
			replies = append(replies, map[string]any{})
		}
		writeJSON(w, map[string]any{"replies": replies})

	case r.Method == http.MethodPost && strings.HasSuffix(path, ":clear"):
		rng := path[strings.Index(path, "/values/")+len("/values/") : len(path)-len(":clear")]
		f.cleared = append(f.cleared, rng)
		writeJSON(w, map[string]any{})

	case r.Method == http.MethodPut && strings.Contains(path, "/values/"):
		f.writeAttempts++
		if f.failWrites > 0 {
			f.failWrites--
			w.WriteHeader(f.failWriteCode)
			writeJSON(w, map[string]any{"error": map[string]any{"code": f.failWriteCode, "message": "injected"}})
			return
		}
		rng := path[strings.Index(path, "/values/")+len("/values/"):]
		var vr sheets.ValueRange
		_ = json.NewDecoder(r.Body).Decode(&vr)
		f.inputOptions = append(f.inputOptions, r.URL.Query().Get("valueInputOption"))
		f.writes[rng] = vr.Values
		f.writeOrder = append(f.writeOrder, rng)
		writeJSON(w, map[string]any{})

	default:
		http.Error(w, "unexpected "+r.Method+" "+r.URL.Path, http.StatusNotFound)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	_ = json.NewEncoder(w).Encode(v)
}

func newTestWriter(t *testing.T, fake *fakeSheets, cfg Config) *Writer {
	t.Helper()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	svc, err := sheets.NewService(context.Background(),
		option.WithEndpoint(srv.URL+"/"),
		option.WithHTTPClient(srv.Client()))
	require.NoError(t, err)
	return NewWriterWithService(svc, cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestWriteSheetCreatesSpreadsheetAndTab(t *testing.T) {
	fake := newFakeSheets()
	cfg := DefaultConfig()
	cfg.BatchSize = 2
	w := newTestWriter(t, fake, cfg)

	values := [][]any{
		{"ID", "Name"},
		{"c-1", "Jane Doe"},
		{"c-2", "Acme Services Inc"},
	}
	require.NoError(t, w.WriteSheet(context.Background(), TabClients, values))

	assert.Equal(t, "created-1", w.SpreadsheetID())
	assert.Equal(t, 1, fake.created)
	assert.Contains(t, fake.tabs, TabClients)
	assert.Equal(t, []string{"'Clients'"}, fake.cleared)
	assert.Equal(t, []string{"'Clients'!A1", "'Clients'!A3"}, fake.writeOrder)
	assert.Equal(t, []any{"c-2", "Acme Services Inc"}, fake.writes["'Clients'!A3"][0])
	assert.Equal(t, []string{"USER_ENTERED", "USER_ENTERED"}, fake.inputOptions)

	require.Len(t, fake.batchUpdates, 2, "add tab, then header formatting")
	format := fake.batchUpdates[1].Requests
	require.Len(t, format, 3)
	assert.True(t, format[0].RepeatCell.Cell.UserEnteredFormat.TextFormat.Bold)
	assert.InDelta(t, 0.9, format[0].RepeatCell.Cell.UserEnteredFormat.BackgroundColor.Red, 0.001)
	assert.Equal(t, int64(2), format[0].RepeatCell.Range.EndColumnIndex)
	assert.Equal(t, int64(1), format[1].UpdateSheetProperties.Properties.GridProperties.FrozenRowCount)
	assert.Equal(t, fake.tabs[TabClients], format[1].UpdateSheetProperties.Properties.SheetId)
}

func TestWriteSheetReusesExistingTab(t *testing.T) {
	fake := newFakeSheets()
	fake.tabs[TabServices] = 4
	cfg := DefaultConfig()
	cfg.SpreadsheetID = "existing"
	cfg.EnableFormatting = false
	w := newTestWriter(t, fake, cfg)

	require.NoError(t, w.WriteSheet(context.Background(), TabServices, [][]any{{"ID"}}))

	assert.Zero(t, fake.created)
	assert.Empty(t, fake.batchUpdates, "no tab to add and formatting disabled")
	assert.Equal(t, []string{"'Services'!A1"}, fake.writeOrder)
}

func TestWriteSheetRetriesServerErrors(t *testing.T) {
	fake := newFakeSheets()
	fake.failWrites = 1
	fake.failWriteCode = http.StatusServiceUnavailable
	cfg := DefaultConfig()
	cfg.SpreadsheetID = "existing"
	cfg.RetryDelay = time.Millisecond
	w := newTestWriter(t, fake, cfg)

	require.NoError(t, w.WriteSheet(context.Background(), TabLocations, [][]any{{"ID"}}))
	assert.Equal(t, 2, fake.writeAttempts)
}

func TestWriteSheetDoesNotRetryClientErrors(t *testing.T) {
	fake := newFakeSheets()
	fake.failWrites = 5
	fake.failWriteCode = http.StatusForbidden
	cfg := DefaultConfig()
	cfg.SpreadsheetID = "existing"
	cfg.RetryDelay = time.Millisecond
	w := newTestWriter(t, fake, cfg)

	err := w.WriteSheet(context.Background(), TabLocations, [][]any{{"ID"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to write Locations")
	assert.Equal(t, 1, fake.writeAttempts)
}

func TestQuoteSheet(t *testing.T) {
	assert.Equal(t, "'Clients'", quoteSheet("Clients"))
	assert.Equal(t, "'Bob''s Jobs'", quoteSheet("Bob's Jobs"))
}
