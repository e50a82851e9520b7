// Package model defines the core domain models used throughout the application.
package model

import (
	"fmt"
	"path/filepath"

	"github.com/shopspring/decimal"
)

// FileKind distinguishes the two export families the organizer understands.
type FileKind string

// File kind constants.
const (
	FileKindEstimate FileKind = "estimates"
	FileKindSchedule FileKind = "schedules"
)

// Period is a fiscal period inferred from a file name or a cell.
type Period struct {
	Year    int
	Quarter int
}

// Label returns the quarter directory name, e.g. "Q2".
func (p Period) Label() string {
	q := p.Quarter
	if q < 1 || q > 4 {
		q = 1
	}
	return fmt.Sprintf("Q%d", q)
}

// ExportFile is one CSV export discovered in the source directory.
// The organizer never writes to it.
type ExportFile struct {
	Path   string
	Name   string
	Kind   FileKind
	Period Period
	// Dated is false for schedule files whose name carries no MM_DD_YY token.
	Dated bool
}

// NewExportFile builds an ExportFile for path with its base name filled in.
func NewExportFile(path string, kind FileKind) ExportFile {
	return ExportFile{
		Path: path,
		Name: filepath.Base(path),
		Kind: kind,
	}
}

// ServiceAmount is one service column of an estimate row.
type ServiceAmount struct {
	Service string
	Amount  decimal.Decimal
}

// LineItem is one row extracted from an export file.
type LineItem struct {
	Subject string
	Amounts []ServiceAmount // estimate rows only, in column order
	Total   decimal.Decimal // estimate rows only
	Text    string          // schedule rows only, cells joined by spaces
	Period  Period
}

// PositiveAmounts returns the service amounts greater than zero.
func (li LineItem) PositiveAmounts() []ServiceAmount {
	out := make([]ServiceAmount, 0, len(li.Amounts))
	for _, a := range li.Amounts {
		if a.Amount.IsPositive() {
			out = append(out, a)
		}
	}
	return out
}

// Batch is every line item read from a single export file.
type Batch struct {
	File  ExportFile
	Items []LineItem
}

// Appearances counts rows per subject across the batch.
func (b Batch) Appearances() map[string]int {
	counts := make(map[string]int, len(b.Items))
	for _, item := range b.Items {
		counts[item.Subject]++
	}
	return counts
}
