package extract

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Veraticus/squeegee/internal/common"
	"github.com/Veraticus/squeegee/internal/model"
)

// EstimatePattern is the naming convention of estimate exports.
const EstimatePattern = "QUICKBOOKS ESTIMATE* [0-9][0-9][0-9][0-9].csv"

// Discover lists the export files of kind in dir, sorted by name. A missing
// directory is an error; an empty one is not.
func Discover(dir string, kind model.FileKind) ([]model.ExportFile, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", common.ErrSourceMissing, dir)
		}
		return nil, fmt.Errorf("failed to stat %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", common.ErrSourceMissing, dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}

	files := make([]model.ExportFile, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		path := filepath.Join(dir, name)

		switch kind {
		case model.FileKindEstimate:
			if f, ok := EstimateFile(path); ok {
				files = append(files, f)
			}
		case model.FileKindSchedule:
			if strings.EqualFold(filepath.Ext(name), ".csv") {
				files = append(files, ScheduleFile(path))
			}
		default:
			return nil, fmt.Errorf("unknown file kind %q", kind)
		}
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, nil
}

// EstimateFile describes path as an estimate export if its name follows the
// estimate convention.
func EstimateFile(path string) (model.ExportFile, bool) {
	f := model.NewExportFile(path, model.FileKindEstimate)
	if ok, _ := filepath.Match(EstimatePattern, f.Name); !ok {
		return f, false
	}
	year, ok := EstimateYear(f.Name)
	if !ok {
		return f, false
	}
	f.Period = model.Period{Year: year, Quarter: 1}
	f.Dated = true
	return f, true
}

// ScheduleFile describes path as a schedule export, dated from its name when
// possible.
func ScheduleFile(path string) model.ExportFile {
	f := model.NewExportFile(path, model.FileKindSchedule)
	if period, ok := SchedulePeriod(f.Name); ok {
		f.Period = period
		f.Dated = true
	}
	return f
}

// Read dispatches to the reader for the file's kind.
func Read(file model.ExportFile) (model.Batch, error) {
	switch file.Kind {
	case model.FileKindEstimate:
		return Estimates(file)
	case model.FileKindSchedule:
		return Schedules(file)
	default:
		return model.Batch{File: file}, fmt.Errorf("unknown file kind %q", file.Kind)
	}
}
