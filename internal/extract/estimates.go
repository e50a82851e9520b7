package extract

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/squeegee/internal/model"
	"github.com/shopspring/decimal"
)

// EstimateHeaderLines is the number of decorative lines above the column header.
const EstimateHeaderLines = 4

// TotalLabel marks both the summary row and the total column of an estimate.
const TotalLabel = "TOTAL"

// ErrNoHeader is returned when an estimate has no column header row.
var ErrNoHeader = errors.New("estimate has no header row")

// Estimates reads an estimate export. Each client row becomes one line item.
func Estimates(file model.ExportFile) (model.Batch, error) {
	rows, err := ReadRows(file.Path, EstimateHeaderLines)
	if err != nil {
		return model.Batch{File: file}, err
	}
	items, err := ParseEstimateRows(rows, file.Period)
	if err != nil {
		return model.Batch{File: file}, fmt.Errorf("%s: %w", file.Name, err)
	}
	return model.Batch{File: file, Items: items}, nil
}

// ParseEstimateRows applies the estimate layout to CSV rows that start at the
// column header.
func ParseEstimateRows(rows [][]string, period model.Period) ([]model.LineItem, error) {
	if len(rows) == 0 {
		return nil, ErrNoHeader
	}
	header := rows[0]

	data := make([][]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if !blankRow(row) {
			data = append(data, row)
		}
	}

	cols := populatedColumns(header, data)
	if len(cols) == 0 {
		return nil, nil
	}
	subjectCol := cols[0]
	serviceCols, totalCol := splitTotal(header, cols[1:])

	items := make([]model.LineItem, 0, len(data))
	for _, row := range data {
		subject := strings.TrimSpace(cell(row, subjectCol))
		if subject == "" || strings.EqualFold(subject, TotalLabel) {
			continue
		}

		item := model.LineItem{
			Subject: subject,
			Amounts: make([]model.ServiceAmount, 0, len(serviceCols)),
			Total:   decimal.Zero,
			Period:  period,
		}
		for _, c := range serviceCols {
			item.Amounts = append(item.Amounts, model.ServiceAmount{
				Service: columnName(header, c),
				Amount:  CleanAmount(cell(row, c)),
			})
		}
		if totalCol >= 0 {
			item.Total = CleanAmount(cell(row, totalCol))
		}
		items = append(items, item)
	}
	return items, nil
}

// populatedColumns lists the columns holding at least one non-blank data cell.
func populatedColumns(header []string, data [][]string) []int {
	width := len(header)
	for _, row := range data {
		if len(row) > width {
			width = len(row)
		}
	}
	cols := make([]int, 0, width)
	for c := 0; c < width; c++ {
		for _, row := range data {
			if !isBlank(cell(row, c)) {
				cols = append(cols, c)
				break
			}
		}
	}
	return cols
}

// splitTotal picks the total column: the one headed TOTAL, else the last.
func splitTotal(header []string, cols []int) ([]int, int) {
	if len(cols) == 0 {
		return nil, -1
	}
	for i, c := range cols {
		if strings.EqualFold(strings.TrimSpace(cell(header, c)), TotalLabel) {
			services := make([]int, 0, len(cols)-1)
			services = append(services, cols[:i]...)
			return append(services, cols[i+1:]...), c
		}
	}
	last := len(cols) - 1
	return cols[:last], cols[last]
}

func columnName(header []string, c int) string {
	if name := strings.TrimSpace(cell(header, c)); name != "" {
		return name
	}
	return fmt.Sprintf("Column %d", c+1)
}
