package series

import (
	"fmt"
	"strings"

	"github.com/courtdata/gamelog/internal/store"
)

// Metric is one selectable stat field.
type Metric struct {
	Name   string // canonical name, e.g. "points"
	Column string // persisted column, e.g. "pts"
}

// metrics is the fixed, case-sensitive enumerated set of supported
// stat fields. Lookups outside this set fail loudly; there is no
// silent fallback to a default metric.
var metrics = map[string]Metric{
	"points":    {Name: "points", Column: "pts"},
	"rebounds":  {Name: "rebounds", Column: "reb"},
	"assists":   {Name: "assists", Column: "ast"},
	"steals":    {Name: "steals", Column: "stl"},
	"blocks":    {Name: "blocks", Column: "blk"},
	"turnovers": {Name: "turnovers", Column: "tov"},
}

// shortForms maps the box-score abbreviations accepted at the HTTP
// boundary to canonical metric names.
var shortForms = map[string]string{
	"PTS": "points",
	"REB": "rebounds",
	"AST": "assists",
	"STL": "steals",
	"BLK": "blocks",
	"TO":  "turnovers",
}

// InvalidMetricError reports a requested stat outside the supported
// set, carrying the valid metric names for the caller's error payload.
type InvalidMetricError struct {
	Metric    string
	Available []string
}

func (e *InvalidMetricError) Error() string {
	return fmt.Sprintf("unknown metric %q: valid metrics are %s", e.Metric, strings.Join(e.Available, ", "))
}

// AvailableMetrics returns the canonical metric names in persisted
// column order.
func AvailableMetrics() []string {
	names := make([]string, 0, len(metrics))
	for _, column := range store.StatColumns {
		for name, m := range metrics {
			if m.Column == column {
				names = append(names, name)
			}
		}
	}
	return names
}

// ParseMetric resolves a canonical metric name. The match is
// case-sensitive over the enumerated set.
func ParseMetric(name string) (Metric, error) {
	if m, ok := metrics[name]; ok {
		return m, nil
	}
	return Metric{}, &InvalidMetricError{Metric: name, Available: AvailableMetrics()}
}

// Normalize maps a box-score abbreviation (PTS, REB, ...) to its
// canonical metric name, passing anything else through unchanged for
// ParseMetric to judge.
func Normalize(name string) string {
	if canonical, ok := shortForms[name]; ok {
		return canonical
	}
	return name
}
