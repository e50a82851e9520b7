// Package classify assigns export files to taxonomy buckets.
package classify

import (
	"strconv"

	"github.com/Veraticus/squeegee/internal/extract"
	"github.com/Veraticus/squeegee/internal/model"
	"github.com/Veraticus/squeegee/internal/taxonomy"
	"github.com/shopspring/decimal"
)

var (
	band500  = decimal.NewFromInt(500)
	band1000 = decimal.NewFromInt(1000)
	band2000 = decimal.NewFromInt(2000)
)

// RevenueRange buckets a row total. Each band includes its upper bound.
func RevenueRange(total decimal.Decimal) string {
	switch {
	case total.LessThanOrEqual(band500):
		return taxonomy.Revenue0To500
	case total.LessThanOrEqual(band1000):
		return taxonomy.Revenue501To1000
	case total.LessThanOrEqual(band2000):
		return taxonomy.Revenue1001To2000
	default:
		return taxonomy.RevenueOver2000
	}
}

// RevenueRangeString buckets a raw total cell. Unparseable input lands in the
// lowest band.
func RevenueRangeString(s string) string {
	d, ok := extract.ParseAmount(s)
	if !ok {
		return taxonomy.Revenue0To500
	}
	return RevenueRange(d)
}

// Combination names the service mix for n distinct service categories.
func Combination(n int) string {
	switch {
	case n <= 1:
		return taxonomy.SingleService
	case n == 2:
		return taxonomy.MultiService
	default:
		return taxonomy.PackageDeals
	}
}

// Regular reports whether a client counts as a repeat customer: the subject
// appears on more than one row of the batch, or its row has more than two
// positive service amounts.
func Regular(item model.LineItem, appearances int) bool {
	return appearances > 1 || len(item.PositiveAmounts()) > 2
}

// Classifier computes bucket assignments from a rule set.
type Classifier struct {
	rules taxonomy.Rules
}

// New returns a classifier over rules.
func New(rules taxonomy.Rules) *Classifier {
	return &Classifier{rules: rules}
}

// Classify dispatches on the batch's file kind.
func (c *Classifier) Classify(batch model.Batch) model.Assignment {
	if batch.File.Kind == model.FileKindSchedule {
		return c.Schedules(batch)
	}
	return c.Estimates(batch)
}

// Services returns the distinct service categories of one estimate row, in
// rule order. Columns with no positive amount are ignored.
func (c *Classifier) Services(item model.LineItem) []string {
	found := make(map[string]bool)
	for _, a := range item.PositiveAmounts() {
		labels := c.rules.Services.Match(a.Service)
		if len(labels) == 0 {
			found[c.rules.OtherServices] = true
			continue
		}
		for _, l := range labels {
			found[l] = true
		}
	}

	ordered := make([]string, 0, len(found))
	for _, l := range c.rules.Services.Labels() {
		if found[l] {
			ordered = append(ordered, l)
		}
	}
	if found[c.rules.OtherServices] {
		ordered = append(ordered, c.rules.OtherServices)
	}
	return ordered
}

// EstimateRow returns the buckets contributed by a single estimate row.
func (c *Classifier) EstimateRow(item model.LineItem, appearances int) []model.Bucket {
	services := c.Services(item)

	buckets := make([]model.Bucket, 0, len(services)+5)
	for _, s := range services {
		buckets = append(buckets, model.Bucket{Axis: model.AxisServiceCategories, Label: s})
	}

	buckets = append(buckets,
		model.Bucket{Axis: model.AxisTimeBased, Label: strconv.Itoa(item.Period.Year), Sub: item.Period.Label()},
		model.Bucket{Axis: model.AxisRevenueRanges, Label: RevenueRange(item.Total)},
		model.Bucket{Axis: model.AxisClientCategories, Label: c.rules.Commercial.MatchOne(item.Subject)},
		model.Bucket{Axis: model.AxisServiceCombinations, Label: Combination(len(services))},
	)

	regularity := taxonomy.LabelOneTimeClients
	if Regular(item, appearances) {
		regularity = taxonomy.LabelRegularClients
	}
	buckets = append(buckets, model.Bucket{Axis: model.AxisClientCategories, Label: regularity})

	return buckets
}

// Estimates unions the buckets of every row in the batch. A batch without
// rows gets no buckets.
func (c *Classifier) Estimates(batch model.Batch) model.Assignment {
	appearances := batch.Appearances()

	var buckets []model.Bucket
	for _, item := range batch.Items {
		buckets = append(buckets, c.EstimateRow(item, appearances[item.Subject])...)
	}
	return model.NewAssignment(batch.File, buckets)
}

// Schedules assigns one label per axis from the text of every row. Files
// without a date in their name get no buckets.
func (c *Classifier) Schedules(batch model.Batch) model.Assignment {
	if !batch.File.Dated {
		return model.NewAssignment(batch.File, nil)
	}

	texts := make([]string, len(batch.Items))
	for i, item := range batch.Items {
		texts[i] = item.Text
	}

	period := batch.File.Period
	buckets := []model.Bucket{
		{Axis: model.AxisJobCategories, Label: firstAcross(c.rules.Jobs, texts)},
		{Axis: model.AxisTimeBased, Label: strconv.Itoa(period.Year), Sub: period.Label()},
		{Axis: model.AxisStatus, Label: firstAcross(c.rules.Status, texts)},
		{Axis: model.AxisClientType, Label: firstAcross(c.rules.ScheduleClient, texts)},
		{Axis: model.AxisCrewOrganization, Label: firstAcross(c.rules.Crew, texts)},
	}
	return model.NewAssignment(batch.File, buckets)
}

// firstAcross applies first-match semantics over a whole file: the earliest
// rule that matches any row wins, regardless of which row it is on.
func firstAcross(rs taxonomy.RuleSet, texts []string) string {
	for _, r := range rs.Rules {
		for _, t := range texts {
			if r.Matches(t) {
				return r.Label
			}
		}
	}
	return rs.Default
}
