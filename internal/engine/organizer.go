// Package engine runs the scaffold, extract, classify and materialize pipeline
// over a directory of exports.
package engine

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"time"

	"github.com/Veraticus/squeegee/internal/classify"
	"github.com/Veraticus/squeegee/internal/common"
	"github.com/Veraticus/squeegee/internal/extract"
	"github.com/Veraticus/squeegee/internal/materialize"
	"github.com/Veraticus/squeegee/internal/model"
	"github.com/Veraticus/squeegee/internal/service"
	"github.com/Veraticus/squeegee/internal/taxonomy"
	"github.com/schollz/progressbar/v3"
)

// Config holds the inputs of one organizer run. When Years is empty the
// layout covers the default years plus every year found in the export names.
type Config struct {
	Kind      model.FileKind
	SourceDir string
	Root      string
	Years     []int
	Rules     taxonomy.Rules
}

// Stats summarizes a run.
type Stats struct {
	Files      int
	Processed  int
	Skipped    int
	Failed     int
	Links      int
	LinkErrors int
	Unmapped   int
	Duration   time.Duration
}

// Organizer links every export file of one kind into its taxonomy tree.
type Organizer struct {
	linker     service.Linker
	logger     *slog.Logger
	progress   io.Writer
	layout     *taxonomy.Layout
	classifier *classify.Classifier
	config     Config
	scaffold   bool
}

// Option customizes an Organizer.
type Option func(*Organizer)

// WithLinker replaces the default symlink linker, e.g. with an in-memory index.
// Scaffolding is skipped when a custom linker is used.
func WithLinker(l service.Linker) Option {
	return func(o *Organizer) {
		o.linker = l
		o.scaffold = false
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *Organizer) { o.logger = l }
}

// WithProgress renders a progress bar to w.
func WithProgress(w io.Writer) Option {
	return func(o *Organizer) { o.progress = w }
}

// New builds an organizer for cfg.
func New(cfg Config, opts ...Option) (*Organizer, error) {
	if cfg.SourceDir == "" {
		return nil, fmt.Errorf("%w: source directory", common.ErrMissingConfig)
	}
	if cfg.Root == "" {
		return nil, fmt.Errorf("%w: taxonomy root", common.ErrMissingConfig)
	}
	if err := cfg.Rules.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrInvalidConfig, err)
	}
	layout, err := taxonomy.LayoutFor(cfg.Kind, cfg.Rules, cfg.Years)
	if err != nil {
		return nil, err
	}

	o := &Organizer{
		config:     cfg,
		layout:     layout,
		classifier: classify.New(cfg.Rules),
		linker:     materialize.NewSymlinkLinker(cfg.Root),
		logger:     slog.Default(),
		scaffold:   true,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o, nil
}

// Layout returns the directory layout the organizer scaffolds.
func (o *Organizer) Layout() *taxonomy.Layout {
	return o.layout
}

// Run processes every export in the source directory, one file at a time.
// Only setup failures are returned; per-file problems are logged and counted.
// Cancelling ctx stops the run between files.
func (o *Organizer) Run(ctx context.Context) (*Stats, error) {
	start := time.Now()
	stats := &Stats{}

	files, err := extract.Discover(o.config.SourceDir, o.config.Kind)
	if err != nil {
		return nil, err
	}
	stats.Files = len(files)

	if len(o.config.Years) == 0 {
		o.layout.AddYears(fileYears(files))
	}

	if o.scaffold {
		if err := taxonomy.Scaffold(o.config.Root, o.layout); err != nil {
			return nil, fmt.Errorf("failed to scaffold %s: %w", o.config.Root, err)
		}
	}

	o.logger.Info("Organizing exports",
		"kind", o.config.Kind,
		"source", o.config.SourceDir,
		"root", o.config.Root,
		"files", len(files))

	bar := o.newProgressBar(len(files))

	for _, file := range files {
		if err := ctx.Err(); err != nil {
			o.logger.Warn("Organizer interrupted", "processed", stats.Processed, "remaining", len(files)-stats.Processed-stats.Skipped-stats.Failed)
			stats.Duration = time.Since(start)
			return stats, err
		}

		o.processFile(file, stats)

		if bar != nil {
			_ = bar.Add(1)
		}
	}

	if bar != nil {
		_ = bar.Finish()
	}

	stats.Duration = time.Since(start)
	o.logger.Info("Organizing complete",
		"kind", o.config.Kind,
		"processed", stats.Processed,
		"skipped", stats.Skipped,
		"failed", stats.Failed,
		"links", stats.Links,
		"link_errors", stats.LinkErrors,
		"duration", stats.Duration)
	return stats, nil
}

func (o *Organizer) processFile(file model.ExportFile, stats *Stats) {
	if file.Kind == model.FileKindSchedule && !file.Dated {
		o.logger.Info("Skipping file without a date token", "file", file.Name)
		stats.Skipped++
		return
	}

	batch, err := extract.Read(file)
	if err != nil {
		common.LogError(o.logger, err, "Failed to read export", common.Fields{"file": file.Name})
		stats.Failed++
		return
	}

	assignment, unmapped := o.declared(o.classifier.Classify(batch))
	stats.Unmapped += unmapped
	if len(assignment.Buckets) == 0 {
		o.logger.Info("No buckets for file", "file", file.Name, "rows", len(batch.Items))
		stats.Skipped++
		return
	}

	res := materialize.Materialize(o.linker, assignment, o.logger)
	stats.Processed++
	stats.Links += len(res.Links)
	stats.LinkErrors += res.Failed

	o.logger.Debug("Processed file",
		"file", file.Name,
		"rows", len(batch.Items),
		"buckets", len(assignment.Buckets))
}

// fileYears lists the distinct years of the dated files, ascending.
func fileYears(files []model.ExportFile) []int {
	var years []int
	for _, f := range files {
		if f.Period.Year != 0 && !slices.Contains(years, f.Period.Year) {
			years = append(years, f.Period.Year)
		}
	}
	slices.Sort(years)
	return years
}

// declared drops buckets the layout does not know about, such as a year
// outside the scaffolded range.
func (o *Organizer) declared(a model.Assignment) (model.Assignment, int) {
	kept := make([]model.Bucket, 0, len(a.Buckets))
	dropped := 0
	for _, b := range a.Buckets {
		if !o.layout.Contains(b) {
			o.logger.Warn("Bucket not in taxonomy, skipping", "file", a.File.Name, "bucket", b.String())
			dropped++
			continue
		}
		kept = append(kept, b)
	}
	return model.Assignment{File: a.File, Buckets: kept}, dropped
}

func (o *Organizer) newProgressBar(total int) *progressbar.ProgressBar {
	if o.progress == nil || total == 0 {
		return nil
	}
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(o.progress),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription(fmt.Sprintf("[cyan][bold]Organizing %s...[reset]", o.config.Kind)),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			_, _ = fmt.Fprintln(o.progress)
		}),
	)
}
