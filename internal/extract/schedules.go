package extract

import (
	"strings"

	"github.com/Veraticus/squeegee/internal/model"
)

// Schedules reads a daily schedule export. Files whose name has no MM_DD_YY
// token are not read and yield an empty batch.
func Schedules(file model.ExportFile) (model.Batch, error) {
	if !file.Dated {
		return model.Batch{File: file}, nil
	}
	rows, err := ReadRows(file.Path, 0)
	if err != nil {
		return model.Batch{File: file}, err
	}
	return model.Batch{File: file, Items: ParseScheduleRows(rows, file.Period)}, nil
}

// ParseScheduleRows turns every row below the header into free text.
func ParseScheduleRows(rows [][]string, period model.Period) []model.LineItem {
	if len(rows) < 2 {
		return nil
	}
	items := make([]model.LineItem, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if blankRow(row) {
			continue
		}
		cells := make([]string, 0, len(row))
		for _, c := range row {
			if c = strings.TrimSpace(c); c != "" {
				cells = append(cells, c)
			}
		}
		items = append(items, model.LineItem{
			Subject: strings.TrimSpace(cell(row, 0)),
			Text:    strings.Join(cells, " "),
			Period:  period,
		})
	}
	return items
}
