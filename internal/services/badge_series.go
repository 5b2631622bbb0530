package services

import (
	"bytes"
	"fmt"
	"sort"
	"time"

	"github.com/wcharczuk/go-chart/v2"

	"guard-collective/gatekeeper/internal/models/dtos"
)

// BadgeGrowthSeries builds the cumulative badge-award series for an account.
// Badges stamped before the account existed are discarded, the rest are
// ordered by award time, and the series is anchored at zero on the creation
// date so the plot always starts from the account's birth. An account with no
// datable badges yields no series.
func BadgeGrowthSeries(badges []dtos.Badge, accountCreated time.Time) []dtos.BadgePoint {
	valid := make([]dtos.Badge, 0, len(badges))
	for _, b := range badges {
		if b.CreatedAt.IsZero() || b.CreatedAt.Before(accountCreated) {
			continue
		}
		valid = append(valid, b)
	}
	if len(valid) == 0 {
		return nil
	}
	sort.Slice(valid, func(i, j int) bool { return valid[i].CreatedAt.Before(valid[j].CreatedAt) })

	series := make([]dtos.BadgePoint, 0, len(valid)+1)
	series = append(series, dtos.BadgePoint{At: accountCreated, Count: 0})
	for i, b := range valid {
		series = append(series, dtos.BadgePoint{At: b.CreatedAt, Count: i + 1})
	}
	return series
}

// RenderBadgeChart draws the badge growth series as a PNG. Series with fewer
// than two points cannot be plotted and return nil bytes.
func RenderBadgeChart(series []dtos.BadgePoint, username string) ([]byte, error) {
	if len(series) < 2 {
		return nil, nil
	}

	xs := make([]time.Time, len(series))
	ys := make([]float64, len(series))
	for i, p := range series {
		xs[i] = p.At
		ys[i] = float64(p.Count)
	}

	graph := chart.Chart{
		Title:  fmt.Sprintf("Badge growth for %s", username),
		Width:  900,
		Height: 450,
		XAxis: chart.XAxis{
			ValueFormatter: chart.TimeDateValueFormatter,
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name:    "badges",
				XValues: xs,
				YValues: ys,
				Style: chart.Style{
					StrokeWidth: 2.0,
				},
			},
		},
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render badge chart: %w", err)
	}
	return buf.Bytes(), nil
}
