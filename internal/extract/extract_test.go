package extract

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Veraticus/squeegee/internal/common"
	"github.com/Veraticus/squeegee/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanAmount(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"$1,234.50", "1234.5"},
		{" 300 ", "300"},
		{"$ 1 000", "1000"},
		{"garbage", "0"},
		{"", "0"},
		{"$-50", "0"},
		{"12.5.3", "0"},
		{"0", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := CleanAmount(tt.in)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "got %s", got)
			assert.False(t, got.IsNegative())
		})
	}
}

func TestParseAmount(t *testing.T) {
	d, ok := ParseAmount("$-12")
	assert.True(t, ok)
	assert.True(t, d.Equal(decimal.NewFromInt(-12)))

	_, ok = ParseAmount("n/a")
	assert.False(t, ok)
}

func TestParsePeriod(t *testing.T) {
	tests := []struct {
		in   string
		want model.Period
	}{
		{"2023", model.Period{Year: 2023, Quarter: 1}},
		{"March - 2023", model.Period{Year: 2023, Quarter: 1}},
		{"April - 2024", model.Period{Year: 2024, Quarter: 2}},
		{"september - 2022", model.Period{Year: 2022, Quarter: 3}},
		{"December - 2022", model.Period{Year: 2022, Quarter: 4}},
		{"Smarch - 2022", model.Period{Year: 2022, Quarter: 1}},
		{"last year", model.Period{Quarter: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParsePeriod(tt.in))
		})
	}
}

func TestSchedulePeriod(t *testing.T) {
	tests := []struct {
		name   string
		want   model.Period
		wantOK bool
	}{
		{"Schedule 04_15_24 crew A.csv", model.Period{Year: 2024, Quarter: 2}, true},
		{"Schedule 12_45_23.csv", model.Period{Year: 2023, Quarter: 4}, true},
		{"Schedule 01_00_24.csv", model.Period{Year: 2024, Quarter: 1}, true},
		{"Schedule 03_32_24.csv", model.Period{Year: 2024, Quarter: 1}, true},
		{"schedule-april.csv", model.Period{}, false},
		{"13_01_24.csv", model.Period{}, false},
		{"00_10_24.csv", model.Period{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := SchedulePeriod(tt.name)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestScheduleFileIgnoresDay(t *testing.T) {
	f := ScheduleFile("/exports/Schedule 12_45_23.csv")
	assert.True(t, f.Dated)
	assert.Equal(t, model.Period{Year: 2023, Quarter: 4}, f.Period)
}

func TestEstimateYear(t *testing.T) {
	year, ok := EstimateYear("QUICKBOOKS ESTIMATE 2023.csv")
	require.True(t, ok)
	assert.Equal(t, 2023, year)

	year, ok = EstimateYear("QUICKBOOKS ESTIMATE DETAIL 2022.csv")
	require.True(t, ok)
	assert.Equal(t, 2022, year)

	_, ok = EstimateYear("QUICKBOOKS ESTIMATE.csv")
	assert.False(t, ok)
}

func estimateRows(body ...[]string) [][]string {
	rows := [][]string{
		{"", "Window Cleaning", "Eaves Cleaning", "Notes", "TOTAL"},
	}
	return append(rows, body...)
}

func TestParseEstimateRows(t *testing.T) {
	rows := estimateRows(
		[]string{"Jane Doe", "$300", "$150", "", "$450"},
		[]string{"", "", "", "", ""},
		[]string{"Acme Services Inc", "$1,200.00", "oops", "", "$1,200.00"},
		[]string{"TOTAL", "$1,500", "$150", "", "$1,650"},
	)

	items, err := ParseEstimateRows(rows, model.Period{Year: 2023, Quarter: 1})
	require.NoError(t, err)
	require.Len(t, items, 2)

	jane := items[0]
	assert.Equal(t, "Jane Doe", jane.Subject)
	require.Len(t, jane.Amounts, 2, "empty Notes column is dropped and TOTAL is not a service")
	assert.Equal(t, "Window Cleaning", jane.Amounts[0].Service)
	assert.True(t, jane.Amounts[0].Amount.Equal(decimal.NewFromInt(300)))
	assert.True(t, jane.Total.Equal(decimal.NewFromInt(450)))
	assert.Equal(t, 2023, jane.Period.Year)

	acme := items[1]
	assert.True(t, acme.Amounts[1].Amount.IsZero(), "unparseable amount becomes zero")
	assert.Len(t, acme.PositiveAmounts(), 1)
}

func TestParseEstimateRowsWithoutTotalHeader(t *testing.T) {
	rows := [][]string{{"Client", "Screens", "Sum"}, {"Bob", "$80", "$80"}}

	items, err := ParseEstimateRows(rows, model.Period{Year: 2024, Quarter: 1})
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Len(t, items[0].Amounts, 1)
	assert.Equal(t, "Screens", items[0].Amounts[0].Service)
	assert.True(t, items[0].Total.Equal(decimal.NewFromInt(80)))
}

func TestParseEstimateRowsNoHeader(t *testing.T) {
	_, err := ParseEstimateRows(nil, model.Period{})
	assert.ErrorIs(t, err, ErrNoHeader)
}

func TestParseRowsLatin1Fallback(t *testing.T) {
	// "Café" in Latin-1 is not valid UTF-8.
	raw := []byte("Client,Job\nCaf\xe9 Ltd,window\n")

	rows, err := ParseRows(raw, 0)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Café Ltd", rows[1][0])
}

func TestParseRowsUTF8WithBOM(t *testing.T) {
	rows, err := ParseRows([]byte("\xef\xbb\xbfName,Job\nZoë,eaves\n"), 0)
	require.NoError(t, err)
	assert.Equal(t, "Name", rows[0][0])
	assert.Equal(t, "Zoë", rows[1][0])
}

func TestParseRowsEmpty(t *testing.T) {
	_, err := ParseRows(nil, 0)
	assert.ErrorIs(t, err, ErrEmptyFile)

	_, err = ParseRows([]byte("title\nsubtitle\n"), 4)
	assert.ErrorIs(t, err, ErrEmptyFile)
}

func TestParseRowsSkipsPhysicalLines(t *testing.T) {
	// Blank decorative lines still count toward the skip.
	raw := []byte("Sparkle Window Co\nEstimates by Customer\n\n\n,Window,TOTAL\nJane,$1,$1\n")

	rows, err := ParseRows(raw, 4)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"", "Window", "TOTAL"}, rows[0])
}

func TestParseScheduleRows(t *testing.T) {
	rows := [][]string{
		{"Client", "Job", "Crew"},
		{"Jane", "Window wash", " Bob & Ann "},
		{"", "", ""},
		{"Hotel", "eaves", ""},
	}

	items := ParseScheduleRows(rows, model.Period{Year: 2024, Quarter: 2})
	require.Len(t, items, 2)
	assert.Equal(t, "Jane Window wash Bob & Ann", items[0].Text)
	assert.Equal(t, "Hotel", items[1].Subject)
	assert.Equal(t, 2, items[1].Period.Quarter)
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "QUICKBOOKS ESTIMATE 2023.csv", "x")
	writeFile(t, dir, "QUICKBOOKS ESTIMATES 2022.csv", "x")
	writeFile(t, dir, "QUICKBOOKS ESTIMATE.csv", "x")
	writeFile(t, dir, "notes.txt", "x")
	writeFile(t, dir, "Daily 05_02_23.csv", "x")
	writeFile(t, dir, "daily undated.CSV", "x")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.csv"), 0o750))

	estimates, err := Discover(dir, model.FileKindEstimate)
	require.NoError(t, err)
	require.Len(t, estimates, 2)
	assert.Equal(t, "QUICKBOOKS ESTIMATE 2023.csv", estimates[0].Name)
	assert.Equal(t, model.Period{Year: 2023, Quarter: 1}, estimates[0].Period)
	assert.Equal(t, 2022, estimates[1].Period.Year)

	schedules, err := Discover(dir, model.FileKindSchedule)
	require.NoError(t, err)
	require.Len(t, schedules, 5)

	byName := map[string]model.ExportFile{}
	for _, f := range schedules {
		byName[f.Name] = f
	}
	assert.True(t, byName["Daily 05_02_23.csv"].Dated)
	assert.Equal(t, model.Period{Year: 2023, Quarter: 2}, byName["Daily 05_02_23.csv"].Period)
	assert.False(t, byName["daily undated.CSV"].Dated)
}

func TestDiscoverMissingDirectory(t *testing.T) {
	_, err := Discover(filepath.Join(t.TempDir(), "absent"), model.FileKindSchedule)
	assert.ErrorIs(t, err, common.ErrSourceMissing)
}

func TestSchedulesSkipsUndatedFiles(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "whenever.csv", "Job\nwindow\n")

	batch, err := Schedules(ScheduleFile(path))
	require.NoError(t, err)
	assert.Empty(t, batch.Items)
}

func TestSchedulesHeaderOnly(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "Crew Team 03_05_24.csv", "Client,Job,Crew\n")

	batch, err := Schedules(ScheduleFile(path))
	require.NoError(t, err)
	assert.True(t, batch.File.Dated)
	assert.Equal(t, model.Period{Year: 2024, Quarter: 1}, batch.File.Period)
	assert.Empty(t, batch.Items)
}

func TestEstimatesFromDisk(t *testing.T) {
	dir := t.TempDir()
	content := "Co\nReport\nPeriod\n\n,Window Cleaning,TOTAL\nJane Doe,$300,$300\n"
	path := writeFile(t, dir, "QUICKBOOKS ESTIMATE 2024.csv", content)

	file, ok := EstimateFile(path)
	require.True(t, ok)

	batch, err := Read(file)
	require.NoError(t, err)
	require.Len(t, batch.Items, 1)
	assert.Equal(t, 2024, batch.Items[0].Period.Year)
}
