// Package series turns raw per-game rows into a time-ordered series of
// (date, opponent, value) points for one player/metric pair.
package series

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/courtdata/gamelog/internal/store"
)

// Point is one game in a series.
type Point struct {
	Date     time.Time
	Opponent string
	Value    float64
}

// Series is an ordered sequence of points, ascending by date. Same-day
// games keep their store order.
type Series []Point

// Build retrieves all rows for the named player, drops rows without a
// valid date, and emits the series for the given canonical metric.
// Zero remaining rows yield an empty series and no error, whether
// that is user-facing is the caller's call.
func Build(ctx context.Context, st store.RowStore, playerName, metric string) (Series, error) {
	m, err := ParseMetric(metric)
	if err != nil {
		return nil, err
	}

	rows, err := st.QueryByPlayer(ctx, playerName)
	if err != nil {
		return nil, fmt.Errorf("querying rows for %q: %w", playerName, err)
	}

	s := make(Series, 0, len(rows))
	for _, row := range rows {
		if row.GameDate.IsZero() {
			continue
		}
		value, ok := row.Stat(m.Column)
		if !ok {
			return nil, &InvalidMetricError{Metric: metric, Available: AvailableMetrics()}
		}
		s = append(s, Point{
			Date:     row.GameDate,
			Opponent: Opponent(row.Matchup),
			Value:    value,
		})
	}

	sort.SliceStable(s, func(i, j int) bool {
		return s[i].Date.Before(s[j].Date)
	})

	return s, nil
}

// Opponent extracts the opposing team from a matchup string by taking
// the token after the last whitespace separator: "LAL @ BOS" -> "BOS",
// "LAL vs. GSW" -> "GSW". A blank matchup yields the empty string.
func Opponent(matchup string) string {
	fields := strings.Fields(matchup)
	if len(fields) == 0 {
		return ""
	}
	return fields[len(fields)-1]
}

// Values returns the series values as a plain slice, index-aligned
// with the series, for the rolling average computer.
func (s Series) Values() []float64 {
	values := make([]float64, len(s))
	for i, p := range s {
		values[i] = p.Value
	}
	return values
}
