package taxonomy

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/Veraticus/squeegee/internal/model"
)

// Revenue range labels, lowest band first.
const (
	Revenue0To500     = "0-500"
	Revenue501To1000  = "501-1000"
	Revenue1001To2000 = "1001-2000"
	RevenueOver2000   = "2000+"
)

// Service combination labels.
const (
	SingleService = "Single_Service"
	MultiService  = "Multi_Service"
	PackageDeals  = "Package_Deals"
)

// Quarters are the sub-buckets of every Time_Based year.
var Quarters = []string{"Q1", "Q2", "Q3", "Q4"}

// Default scaffolded years per file kind.
var (
	DefaultEstimateYears = []int{2022, 2023, 2024}
	DefaultScheduleYears = []int{2023, 2024}
)

// Layout is the fixed directory tree for one file kind.
type Layout struct {
	Kind    model.FileKind
	Buckets []model.Bucket
	// Placeholders are top-level directories that are created but never linked into.
	Placeholders []string

	index map[model.Bucket]struct{}
}

// Contains reports whether b is a declared bucket of the layout.
func (l *Layout) Contains(b model.Bucket) bool {
	if l.index == nil {
		l.index = make(map[model.Bucket]struct{}, len(l.Buckets))
		for _, known := range l.Buckets {
			l.index[known] = struct{}{}
		}
	}
	_, ok := l.index[b]
	return ok
}

// Dirs returns every directory the scaffold creates, relative to the root.
func (l *Layout) Dirs() []string {
	dirs := make([]string, 0, len(l.Buckets)+len(l.Placeholders))
	for _, b := range l.Buckets {
		dirs = append(dirs, b.Path())
	}
	dirs = append(dirs, l.Placeholders...)
	return dirs
}

// EstimateLayout declares the estimate taxonomy for the given years.
func EstimateLayout(rules Rules, years []int) *Layout {
	l := &Layout{Kind: model.FileKindEstimate}
	for _, label := range rules.Services.Labels() {
		l.add(model.AxisServiceCategories, label, "")
	}
	l.add(model.AxisServiceCategories, rules.OtherServices, "")
	// Never populated; kept so existing trees keep the same shape.
	l.add(model.AxisServiceCategories, "Glass_Services", "")

	l.addYears(years)

	for _, label := range []string{Revenue0To500, Revenue501To1000, Revenue1001To2000, RevenueOver2000} {
		l.add(model.AxisRevenueRanges, label, "")
	}
	for _, label := range rules.Commercial.Labels() {
		l.add(model.AxisClientCategories, label, "")
	}
	l.add(model.AxisClientCategories, LabelRegularClients, "")
	l.add(model.AxisClientCategories, LabelOneTimeClients, "")
	for _, label := range []string{SingleService, MultiService, PackageDeals} {
		l.add(model.AxisServiceCombinations, label, "")
	}
	return l
}

// ScheduleLayout declares the schedule taxonomy for the given years.
func ScheduleLayout(rules Rules, years []int) *Layout {
	l := &Layout{
		Kind:         model.FileKindSchedule,
		Placeholders: []string{"Documentation", "Financial", "Location_Based"},
	}
	for _, label := range rules.Jobs.Labels() {
		l.add(model.AxisJobCategories, label, "")
	}
	l.addYears(years)
	for _, label := range rules.Status.Labels() {
		l.add(model.AxisStatus, label, "")
	}
	for _, label := range rules.ScheduleClient.Labels() {
		l.add(model.AxisClientType, label, "")
	}
	for _, label := range rules.Crew.Labels() {
		l.add(model.AxisCrewOrganization, label, "")
	}
	return l
}

// LayoutFor returns the layout for kind.
func LayoutFor(kind model.FileKind, rules Rules, years []int) (*Layout, error) {
	switch kind {
	case model.FileKindEstimate:
		if len(years) == 0 {
			years = DefaultEstimateYears
		}
		return EstimateLayout(rules, years), nil
	case model.FileKindSchedule:
		if len(years) == 0 {
			years = DefaultScheduleYears
		}
		return ScheduleLayout(rules, years), nil
	default:
		return nil, fmt.Errorf("unknown file kind %q", kind)
	}
}

// AddYears declares the Time_Based quarters of any years not yet in the layout.
func (l *Layout) AddYears(years []int) {
	l.addYears(years)
}

func (l *Layout) addYears(years []int) {
	for _, y := range years {
		for _, q := range Quarters {
			l.add(model.AxisTimeBased, strconv.Itoa(y), q)
		}
	}
}

func (l *Layout) add(axis model.Axis, label, sub string) {
	b := model.Bucket{Axis: axis, Label: label, Sub: sub}
	if l.Contains(b) {
		return
	}
	l.Buckets = append(l.Buckets, b)
	l.index[b] = struct{}{}
}

// Scaffold creates every directory of the layout under root. Existing
// directories are left untouched.
func Scaffold(root string, l *Layout) error {
	for _, dir := range l.Dirs() {
		if err := os.MkdirAll(filepath.Join(root, dir), 0o750); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	return nil
}
