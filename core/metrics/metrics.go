package metrics

import (
	"time"

	"github.com/kilianp07/peakshave/core/model"
	"github.com/kilianp07/peakshave/core/scheduler"
)

// DayResult represents one scheduled day to be recorded for observability.
type DayResult struct {
	RunID         string
	Day           time.Time
	StoredPeakMWh float64
	ShortfallMWh  float64
	Depleted      bool
	Failed        bool
	Anomalies     int
}

// MetricsSink records scheduling outcomes for observability purposes.
type MetricsSink interface {
	RecordDayResults(results []DayResult) error
}

// SeriesPoint is one flattened schedule cell, timestamped at the start of its
// half-hour period.
type SeriesPoint struct {
	RunID     string
	Time      time.Time
	Day       time.Time
	Period    int
	PowerMW   float64
	StoredMWh float64
	PVMW      float64
	DemandMW  float64
}

// SeriesRecorder is implemented by sinks able to store the full per-period
// schedule series.
type SeriesRecorder interface {
	RecordSeries(points []SeriesPoint) error
}

// NopSink implements MetricsSink with no-op methods.
type NopSink struct{}

func (NopSink) RecordDayResults([]DayResult) error { return nil }
func (NopSink) RecordSeries([]SeriesPoint) error   { return nil }

// DayResults condenses a scheduler result into per-day records. Anomalies are
// counted against the day they belong to.
func DayResults(res *scheduler.Result) []DayResult {
	perDay := make(map[time.Time]int)
	for _, a := range res.Anomalies {
		perDay[a.Day]++
	}
	out := make([]DayResult, 0, len(res.Summaries))
	for _, s := range res.Summaries {
		out = append(out, DayResult{
			RunID:         res.RunID.String(),
			Day:           s.Day,
			StoredPeakMWh: s.StoredPeakMWh,
			ShortfallMWh:  s.ShortfallMWh,
			Depleted:      s.Depleted,
			Failed:        s.Failed,
			Anomalies:     perDay[s.Day],
		})
	}
	return out
}

// FlattenSeries converts the four result grids into a chronological series of
// points. Cells holding the missing marker are emitted as-is; sinks decide
// how to represent them.
func FlattenSeries(res *scheduler.Result) []SeriesPoint {
	runID := res.RunID.String()
	days := res.Power.Days()
	points := make([]SeriesPoint, 0, len(days)*model.PeriodsPerDay)
	for _, day := range days {
		b, _ := res.Power.Row(day)
		c, _ := res.Stored.Row(day)
		pv, _ := res.PV.Row(day)
		l, _ := res.Demand.Row(day)
		for p := 1; p <= model.PeriodsPerDay; p++ {
			points = append(points, SeriesPoint{
				RunID:     runID,
				Time:      model.PeriodTime(day, p),
				Day:       day,
				Period:    p,
				PowerMW:   b[p-1],
				StoredMWh: c[p-1],
				PVMW:      pv[p-1],
				DemandMW:  l[p-1],
			})
		}
	}
	return points
}
