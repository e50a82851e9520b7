package classify

import (
	"testing"

	"github.com/Veraticus/squeegee/internal/model"
	"github.com/Veraticus/squeegee/internal/taxonomy"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRevenueRange(t *testing.T) {
	tests := []struct {
		total string
		want  string
	}{
		{"0", "0-500"},
		{"500", "0-500"},
		{"500.01", "501-1000"},
		{"1000", "501-1000"},
		{"1000.01", "1001-2000"},
		{"2000", "1001-2000"},
		{"2000.01", "2000+"},
		{"99999", "2000+"},
	}

	for _, tt := range tests {
		t.Run(tt.total, func(t *testing.T) {
			assert.Equal(t, tt.want, RevenueRange(decimal.RequireFromString(tt.total)))
		})
	}
}

func TestRevenueRangeString(t *testing.T) {
	assert.Equal(t, "1001-2000", RevenueRangeString("$1,500.00"))
	assert.Equal(t, "0-500", RevenueRangeString("call for quote"))
	assert.Equal(t, "0-500", RevenueRangeString(""))
}

func TestCombination(t *testing.T) {
	assert.Equal(t, "Single_Service", Combination(0))
	assert.Equal(t, "Single_Service", Combination(1))
	assert.Equal(t, "Multi_Service", Combination(2))
	assert.Equal(t, "Package_Deals", Combination(3))
	assert.Equal(t, "Package_Deals", Combination(7))
}

func amounts(pairs ...string) []model.ServiceAmount {
	out := make([]model.ServiceAmount, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, model.ServiceAmount{Service: pairs[i], Amount: decimal.RequireFromString(pairs[i+1])})
	}
	return out
}

func TestRegular(t *testing.T) {
	two := model.LineItem{Amounts: amounts("Window", "1", "Eaves", "1", "Screen", "0")}
	three := model.LineItem{Amounts: amounts("Window", "1", "Eaves", "1", "Screen", "1")}

	assert.False(t, Regular(two, 1))
	assert.True(t, Regular(two, 2))
	assert.True(t, Regular(three, 1))
}

func estimateFile() model.ExportFile {
	return model.ExportFile{
		Path:   "/data/QUICKBOOKS ESTIMATE 2023.csv",
		Name:   "QUICKBOOKS ESTIMATE 2023.csv",
		Kind:   model.FileKindEstimate,
		Period: model.Period{Year: 2023, Quarter: 1},
		Dated:  true,
	}
}

func bucket(axis model.Axis, label string) model.Bucket {
	return model.Bucket{Axis: axis, Label: label}
}

func TestEstimatesSingleRowScenario(t *testing.T) {
	c := New(taxonomy.DefaultRules())
	batch := model.Batch{
		File: estimateFile(),
		Items: []model.LineItem{{
			Subject: "Jane Doe",
			Amounts: amounts("Window Cleaning", "300", "Eaves Cleaning", "150"),
			Total:   decimal.NewFromInt(450),
			Period:  model.Period{Year: 2023, Quarter: 1},
		}},
	}

	got := c.Estimates(batch)

	want := model.NewAssignment(batch.File, []model.Bucket{
		bucket(model.AxisServiceCategories, "Window_Cleaning"),
		bucket(model.AxisServiceCategories, "Eaves_Cleaning"),
		bucket(model.AxisRevenueRanges, "0-500"),
		bucket(model.AxisClientCategories, "Residential"),
		bucket(model.AxisClientCategories, "One_Time_Clients"),
		bucket(model.AxisServiceCombinations, "Multi_Service"),
		{Axis: model.AxisTimeBased, Label: "2023", Sub: "Q1"},
	})
	assert.Equal(t, want, got)
}

func TestEstimatesCommercialAndOther(t *testing.T) {
	c := New(taxonomy.DefaultRules())
	batch := model.Batch{
		File: estimateFile(),
		Items: []model.LineItem{{
			Subject: "Acme Services Inc",
			Amounts: amounts("Carpet Shampoo", "80", "Window Cleaning", "0"),
			Total:   decimal.NewFromInt(80),
			Period:  model.Period{Year: 2023, Quarter: 1},
		}},
	}

	got := c.Estimates(batch)

	assert.True(t, got.Has(bucket(model.AxisClientCategories, "Commercial")))
	assert.Equal(t, []string{"Other_Services"}, got.Labels(model.AxisServiceCategories))
	assert.Equal(t, []string{"Single_Service"}, got.Labels(model.AxisServiceCombinations))
}

func TestEstimatesUnionAcrossRows(t *testing.T) {
	c := New(taxonomy.DefaultRules())
	period := model.Period{Year: 2023, Quarter: 1}
	batch := model.Batch{
		File: estimateFile(),
		Items: []model.LineItem{
			{Subject: "Bob", Amounts: amounts("Window", "100"), Total: decimal.NewFromInt(100), Period: period},
			{Subject: "Bob", Amounts: amounts("Gutters", "900"), Total: decimal.NewFromInt(900), Period: period},
			{Subject: "Big Job Ltd", Amounts: amounts("Window", "1000", "Pressure Wash", "1000", "Screens", "500"), Total: decimal.NewFromInt(2500), Period: period},
		},
	}

	got := c.Estimates(batch)

	assert.ElementsMatch(t, []string{"0-500", "501-1000", "2000+"}, got.Labels(model.AxisRevenueRanges))
	assert.ElementsMatch(t, []string{"Commercial", "Regular_Clients", "Residential"}, got.Labels(model.AxisClientCategories))
	assert.False(t, got.Has(bucket(model.AxisClientCategories, "One_Time_Clients")), "Bob repeats and Big Job has three services")
	assert.ElementsMatch(t, []string{"Package_Deals", "Single_Service"}, got.Labels(model.AxisServiceCombinations))
}

func TestEstimatesEmptyBatch(t *testing.T) {
	got := New(taxonomy.DefaultRules()).Estimates(model.Batch{File: estimateFile()})
	assert.Empty(t, got.Buckets)
}

func TestEstimatesDeterministic(t *testing.T) {
	c := New(taxonomy.DefaultRules())
	batch := model.Batch{
		File: estimateFile(),
		Items: []model.LineItem{
			{Subject: "A", Amounts: amounts("Window", "10", "Eaves", "10", "Lighting", "10"), Total: decimal.NewFromInt(30)},
			{Subject: "B", Amounts: amounts("Construction", "700"), Total: decimal.NewFromInt(700)},
		},
	}

	first := c.Estimates(batch)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, c.Estimates(batch))
	}
}

func scheduleBatch(dated bool, texts ...string) model.Batch {
	file := model.ExportFile{
		Path:   "/data/Daily 07_01_24.csv",
		Name:   "Daily 07_01_24.csv",
		Kind:   model.FileKindSchedule,
		Period: model.Period{Year: 2024, Quarter: 3},
		Dated:  dated,
	}
	items := make([]model.LineItem, len(texts))
	for i, text := range texts {
		items[i] = model.LineItem{Text: text, Period: file.Period}
	}
	return model.Batch{File: file, Items: items}
}

func TestSchedules(t *testing.T) {
	c := New(taxonomy.DefaultRules())

	tests := []struct {
		name  string
		batch model.Batch
		want  map[model.Axis]string
	}{
		{
			name:  "defaults",
			batch: scheduleBatch(true, "Jane Doe 9am fence"),
			want: map[model.Axis]string{
				model.AxisJobCategories:    "Other_Maintenance",
				model.AxisStatus:           "Pending",
				model.AxisClientType:       "Residential",
				model.AxisCrewOrganization: "Solo",
			},
		},
		{
			name:  "priority spans rows",
			batch: scheduleBatch(true, "Hotel eaves cancelled", "Commercial window completed crew"),
			want: map[model.Axis]string{
				model.AxisJobCategories:    "Window_Cleaning",
				model.AxisStatus:           "Completed",
				model.AxisClientType:       "Commercial",
				model.AxisCrewOrganization: "Team",
			},
		},
		{
			name:  "header only",
			batch: scheduleBatch(true),
			want: map[model.Axis]string{
				model.AxisJobCategories:    "Other_Maintenance",
				model.AxisStatus:           "Pending",
				model.AxisClientType:       "Residential",
				model.AxisCrewOrganization: "Solo",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(tt.batch)
			require.Len(t, got.Buckets, 5)
			for axis, label := range tt.want {
				assert.Equal(t, []string{label}, got.Labels(axis), axis)
			}
			assert.True(t, got.Has(model.Bucket{Axis: model.AxisTimeBased, Label: "2024", Sub: "Q3"}))
		})
	}
}

func TestSchedulesUndatedGetsNothing(t *testing.T) {
	got := New(taxonomy.DefaultRules()).Schedules(scheduleBatch(false, "window completed"))
	assert.Empty(t, got.Buckets)
}

func TestServicesOrdering(t *testing.T) {
	c := New(taxonomy.DefaultRules())
	item := model.LineItem{Amounts: amounts("Misc", "5", "Lighting", "5", "Window", "5", "Windows again", "5")}

	assert.Equal(t, []string{"Window_Cleaning", "Light_Fixture", "Other_Services"}, c.Services(item))
}
