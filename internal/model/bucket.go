package model

import (
	"path/filepath"
	"sort"
)

// Axis is an independent classification dimension.
type Axis string

// Estimate axes.
const (
	AxisServiceCategories   Axis = "Service_Categories"
	AxisTimeBased           Axis = "Time_Based"
	AxisRevenueRanges       Axis = "Revenue_Ranges"
	AxisClientCategories    Axis = "Client_Categories"
	AxisServiceCombinations Axis = "Service_Combinations"
)

// Schedule axes.
const (
	AxisJobCategories    Axis = "Job_Categories"
	AxisStatus           Axis = "Status"
	AxisClientType       Axis = "Client_Type"
	AxisCrewOrganization Axis = "Crew_Organization"
)

// Bucket is a leaf directory of the taxonomy tree.
type Bucket struct {
	Axis  Axis
	Label string
	Sub   string // optional second level, e.g. the quarter under a year
}

// Path returns the bucket's directory relative to the taxonomy root.
func (b Bucket) Path() string {
	if b.Label == "" {
		return string(b.Axis)
	}
	if b.Sub == "" {
		return filepath.Join(string(b.Axis), b.Label)
	}
	return filepath.Join(string(b.Axis), b.Label, b.Sub)
}

// String implements fmt.Stringer.
func (b Bucket) String() string {
	return filepath.ToSlash(b.Path())
}

// Assignment is the full set of buckets one export file belongs to.
type Assignment struct {
	File    ExportFile
	Buckets []Bucket
}

// NewAssignment deduplicates buckets and orders them by path.
func NewAssignment(file ExportFile, buckets []Bucket) Assignment {
	seen := make(map[Bucket]struct{}, len(buckets))
	unique := make([]Bucket, 0, len(buckets))
	for _, b := range buckets {
		if _, ok := seen[b]; ok {
			continue
		}
		seen[b] = struct{}{}
		unique = append(unique, b)
	}
	sort.Slice(unique, func(i, j int) bool {
		return unique[i].String() < unique[j].String()
	})
	return Assignment{File: file, Buckets: unique}
}

// Has reports whether the assignment contains b.
func (a Assignment) Has(b Bucket) bool {
	for _, existing := range a.Buckets {
		if existing == b {
			return true
		}
	}
	return false
}

// Labels returns the labels assigned on one axis, in path order.
func (a Assignment) Labels(axis Axis) []string {
	var out []string
	for _, b := range a.Buckets {
		if b.Axis == axis {
			out = append(out, b.Label)
		}
	}
	return out
}
