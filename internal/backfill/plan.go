// Package backfill expands a backfill specification into an ordered
// sequence of parameter overlays, one per target date.
package backfill

import (
	"fmt"
	"strings"
	"time"

	"github.com/flowctl/flowctl/internal/config"
	"github.com/flowctl/flowctl/internal/dateexpr"
)

const dateLayout = "2006-01-02"

// DatePoint is a single target date in a backfill plan, with its fully
// materialised parameter overlay (static params plus every derived date
// variant).
type DatePoint struct {
	Date    time.Time
	Overlay map[string]string
}

// Plan is the ordered sequence of date points a backfill will execute,
// strictly sequentially, in this order.
type Plan struct {
	Points []DatePoint
}

// Build expands spec into a Plan.
func Build(spec *config.Backfill) (*Plan, error) {
	dates, err := datePoints(spec)
	if err != nil {
		return nil, err
	}

	paramNames := spec.DateParamNames
	if len(paramNames) == 0 {
		name := spec.DateParamName
		if name == "" {
			name = "day_id"
		}
		paramNames = []string{name}
	}

	plan := &Plan{Points: make([]DatePoint, 0, len(dates))}
	for _, d := range dates {
		overlay := make(map[string]string, len(spec.Params)+len(paramNames)*3)
		for k, v := range spec.Params {
			overlay[k] = v
		}
		for _, name := range paramNames {
			canonical := dateexpr.Canonical(d)
			overlay[name] = canonical
			overlay[name+"_no_dash"] = dateexpr.NoDash(d)
			if layout, ok := spec.DateParamFormats[name]; ok {
				formatted, err := dateexpr.FormatStrftime(d, layout)
				if err != nil {
					return nil, fmt.Errorf("backfill: date_param_formats[%s]: %w", name, err)
				}
				overlay[name+"_fmt"] = formatted
			}
		}
		plan.Points = append(plan.Points, DatePoint{Date: d, Overlay: overlay})
	}
	return plan, nil
}

func datePoints(spec *config.Backfill) ([]time.Time, error) {
	if len(spec.CustomDates) > 0 {
		out := make([]time.Time, 0, len(spec.CustomDates))
		for _, s := range spec.CustomDates {
			d, err := time.Parse(dateLayout, s)
			if err != nil {
				return nil, fmt.Errorf("backfill: invalid custom_dates entry %q: %w", s, err)
			}
			out = append(out, d)
		}
		return out, nil
	}

	start, err := time.Parse(dateLayout, spec.StartDate)
	if err != nil {
		return nil, fmt.Errorf("backfill: invalid start_date %q: %w", spec.StartDate, err)
	}
	end, err := time.Parse(dateLayout, spec.EndDate)
	if err != nil {
		return nil, fmt.Errorf("backfill: invalid end_date %q: %w", spec.EndDate, err)
	}
	if end.Before(start) {
		return nil, fmt.Errorf("backfill: end_date %s is before start_date %s", spec.EndDate, spec.StartDate)
	}

	granularity := strings.ToLower(spec.DateGranularity)
	if granularity == "" {
		granularity = "day"
	}

	switch granularity {
	case "day":
		return daySeries(start, end), nil
	case "week":
		return weekSeries(start, end), nil
	case "month":
		return monthSeries(start, end), nil
	default:
		return nil, fmt.Errorf("backfill: unknown date_granularity %q", spec.DateGranularity)
	}
}

func daySeries(start, end time.Time) []time.Time {
	var out []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		out = append(out, d)
	}
	return out
}

// weekSeries returns the Monday of each week intersecting [start, end]. The
// first point is the Monday of start's week even when start is mid-week.
func weekSeries(start, end time.Time) []time.Time {
	var out []time.Time
	for monday := mondayOf(start); !monday.After(end); monday = monday.AddDate(0, 0, 7) {
		out = append(out, monday)
	}
	return out
}

func mondayOf(d time.Time) time.Time {
	weekday := int(d.Weekday())
	if weekday == 0 { // Sunday
		weekday = 7
	}
	return d.AddDate(0, 0, -(weekday - 1))
}

// monthSeries returns the first day of each month intersecting [start,
// end], with the first point clamped to be >= start.
func monthSeries(start, end time.Time) []time.Time {
	first := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, start.Location())
	var out []time.Time
	point := first
	if point.Before(start) {
		out = append(out, start)
		point = point.AddDate(0, 1, 0)
	}
	for !point.After(end) {
		out = append(out, point)
		point = point.AddDate(0, 1, 0)
	}
	return out
}
