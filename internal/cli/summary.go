package cli

import (
	"fmt"
	"strings"
)

// SummaryRow is one labelled figure in a command summary.
type SummaryRow struct {
	Label string
	Value any
	// Warn highlights the value when it is non-zero.
	Warn bool
}

// RenderSummary renders rows as an aligned box under title.
func RenderSummary(title string, rows []SummaryRow) string {
	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		value := fmt.Sprint(row.Value)
		if row.Warn && value != "0" && value != "" {
			value = WarningStyle.Render(value)
		}
		lines = append(lines, LabelStyle.Render(row.Label+":")+value)
	}
	return RenderBox(title, strings.Join(lines, "\n"))
}
