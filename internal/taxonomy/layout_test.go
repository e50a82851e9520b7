package taxonomy

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Veraticus/squeegee/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEstimateLayout(t *testing.T) {
	l := EstimateLayout(DefaultRules(), DefaultEstimateYears)

	assert.Equal(t, model.FileKindEstimate, l.Kind)
	// 8 service + 12 time + 4 revenue + 4 client + 3 combination
	assert.Len(t, l.Buckets, 31)

	for _, b := range []model.Bucket{
		{Axis: model.AxisServiceCategories, Label: "Window_Cleaning"},
		{Axis: model.AxisServiceCategories, Label: "Other_Services"},
		{Axis: model.AxisServiceCategories, Label: "Glass_Services"},
		{Axis: model.AxisTimeBased, Label: "2022", Sub: "Q1"},
		{Axis: model.AxisTimeBased, Label: "2024", Sub: "Q4"},
		{Axis: model.AxisRevenueRanges, Label: "2000+"},
		{Axis: model.AxisClientCategories, Label: "Regular_Clients"},
		{Axis: model.AxisClientCategories, Label: "Residential"},
		{Axis: model.AxisServiceCombinations, Label: "Package_Deals"},
	} {
		assert.True(t, l.Contains(b), "missing %s", b)
	}
	assert.False(t, l.Contains(model.Bucket{Axis: model.AxisTimeBased, Label: "2021", Sub: "Q1"}))
}

func TestScheduleLayout(t *testing.T) {
	l := ScheduleLayout(DefaultRules(), DefaultScheduleYears)

	// 4 job + 8 time + 4 status + 2 client + 2 crew
	assert.Len(t, l.Buckets, 20)
	assert.Equal(t, []string{"Documentation", "Financial", "Location_Based"}, l.Placeholders)
	assert.True(t, l.Contains(model.Bucket{Axis: model.AxisStatus, Label: "Pending"}))
	assert.True(t, l.Contains(model.Bucket{Axis: model.AxisCrewOrganization, Label: "Team"}))
	assert.False(t, l.Contains(model.Bucket{Axis: model.AxisTimeBased, Label: "2022", Sub: "Q1"}))
}

func TestLayoutForDefaults(t *testing.T) {
	l, err := LayoutFor(model.FileKindSchedule, DefaultRules(), nil)
	require.NoError(t, err)
	assert.True(t, l.Contains(model.Bucket{Axis: model.AxisTimeBased, Label: "2023", Sub: "Q3"}))

	_, err = LayoutFor("invoices", DefaultRules(), nil)
	assert.Error(t, err)
}

func TestScaffoldIsIdempotent(t *testing.T) {
	root := t.TempDir()
	l := ScheduleLayout(DefaultRules(), []int{2024})

	require.NoError(t, Scaffold(root, l))
	require.NoError(t, Scaffold(root, l))

	for _, dir := range l.Dirs() {
		info, err := os.Stat(filepath.Join(root, dir))
		require.NoError(t, err, dir)
		assert.True(t, info.IsDir())
	}

	entries, err := os.ReadDir(filepath.Join(root, "Documentation"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestScaffoldFailsOnFileInTheWay(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "Status"), []byte("x"), 0o600))

	err := Scaffold(root, ScheduleLayout(DefaultRules(), nil))
	assert.Error(t, err)
}
