// Package models defines the domain types for EdgeLog.
package models

import (
	"fmt"
	"time"
)

// TimestampLayout is the ISO-8601 form records are stamped with at creation.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Bias is the directional classification of an analysis.
type Bias string

const (
	BiasBullish Bias = "Bullish"
	BiasBearish Bias = "Bearish"
)

// Quality is the self-assessed quality of an analysis.
type Quality string

const (
	QualityGood Quality = "Good"
	QualityBad  Quality = "Bad"
)

// Record is a single archived analysis entry.
//
// Images and Audio hold opaque data-URIs. An empty CustomFolderID means the
// record is uncategorized.
type Record struct {
	ID             string   `json:"id"`
	Date           string   `json:"date"`
	Title          string   `json:"title"`
	Text           string   `json:"text"`
	Images         []string `json:"images"`
	Audio          string   `json:"audio,omitempty"`
	Bias           Bias     `json:"bias,omitempty"`
	Quality        Quality  `json:"quality,omitempty"`
	CustomFolderID string   `json:"customFolderId,omitempty"`
}

// Timestamp parses Date as an absolute instant and returns it in UTC.
func (r Record) Timestamp() (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, r.Date)
	if err != nil {
		return time.Time{}, fmt.Errorf("models: record %s: %w", r.ID, err)
	}
	return t.UTC(), nil
}

// Stamp formats t the way record dates are persisted.
func Stamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// Folder is a user-named manual category.
type Folder struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Taxonomy selects how the archive is grouped. The string values are the
// persisted form.
type Taxonomy string

const (
	TaxonomyManual Taxonomy = "custom"
	TaxonomySymbol Taxonomy = "pair"
	TaxonomyDate   Taxonomy = "date"
)

// DefaultTaxonomy is used when no selection has been saved.
const DefaultTaxonomy = TaxonomyManual

// ParseTaxonomy accepts the persisted values and the descriptive aliases
// "manual", "symbol" and "date".
func ParseTaxonomy(s string) (Taxonomy, error) {
	switch s {
	case string(TaxonomyManual), "manual":
		return TaxonomyManual, nil
	case string(TaxonomySymbol), "symbol":
		return TaxonomySymbol, nil
	case string(TaxonomyDate):
		return TaxonomyDate, nil
	}
	return "", fmt.Errorf("models: unknown taxonomy %q", s)
}

// MaxDepth is the deepest navigation path the taxonomy supports.
func (t Taxonomy) MaxDepth() int {
	if t == TaxonomyDate {
		return 3
	}
	return 1
}
