package extract

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/Veraticus/squeegee/internal/model"
)

var (
	bareYear      = regexp.MustCompile(`^\d{4}$`)
	monthYear     = regexp.MustCompile(`^([A-Za-z]+)\s*-\s*(\d{4})$`)
	scheduleToken = regexp.MustCompile(`(\d{2})_(\d{2})_(\d{2})`)
	anyYear       = regexp.MustCompile(`(?:^|\D)(\d{4})(?:\D|$)`)
)

// QuarterOf maps a calendar month to its quarter.
func QuarterOf(month int) int {
	return (month-1)/3 + 1
}

// ParsePeriod reads "2023" or "March - 2023". A bare year is placed in Q1, as
// is anything that cannot be parsed.
func ParsePeriod(s string) model.Period {
	s = strings.TrimSpace(s)

	if bareYear.MatchString(s) {
		year, _ := strconv.Atoi(s)
		return model.Period{Year: year, Quarter: 1}
	}

	if m := monthYear.FindStringSubmatch(s); m != nil {
		year, _ := strconv.Atoi(m[2])
		t, err := time.Parse("January", normalizeMonth(m[1]))
		if err != nil {
			return model.Period{Year: year, Quarter: 1}
		}
		return model.Period{Year: year, Quarter: QuarterOf(int(t.Month()))}
	}

	return model.Period{Quarter: 1}
}

func normalizeMonth(s string) string {
	if s == "" {
		return s
	}
	lower := strings.ToLower(s)
	return strings.ToUpper(lower[:1]) + lower[1:]
}

// SchedulePeriod reads the MM_DD_YY token in a schedule file name. Only the
// month and year count; the day is not checked.
func SchedulePeriod(name string) (model.Period, bool) {
	m := scheduleToken.FindStringSubmatch(filepath.Base(name))
	if m == nil {
		return model.Period{}, false
	}
	month, _ := strconv.Atoi(m[1])
	year, _ := strconv.Atoi(m[3])
	if month < 1 || month > 12 {
		return model.Period{}, false
	}
	return model.Period{Year: 2000 + year, Quarter: QuarterOf(month)}, true
}

// EstimateYear reads the year from "QUICKBOOKS ESTIMATE <...> 2023.csv".
func EstimateYear(name string) (int, bool) {
	base := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	fields := strings.Fields(base)
	if len(fields) >= 3 {
		if p := ParsePeriod(fields[2]); p.Year != 0 {
			return p.Year, true
		}
	}
	matches := anyYear.FindAllStringSubmatch(base, -1)
	if len(matches) == 0 {
		return 0, false
	}
	year, _ := strconv.Atoi(matches[len(matches)-1][1])
	return year, true
}
