package metrics

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/peakshave/core/model"
	"github.com/kilianp07/peakshave/core/scheduler"
)

func resultFixture(t *testing.T) *scheduler.Result {
	t.Helper()
	d1 := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	days := []time.Time{d1, d2}
	return &scheduler.Result{
		RunID:  uuid.New(),
		Power:  model.NewZeroGrid(days),
		Stored: model.NewZeroGrid(days),
		PV:     model.NewZeroGrid(days),
		Demand: model.NewZeroGrid(days),
		Summaries: []scheduler.DaySummary{
			{Day: d1, StoredPeakMWh: 6},
			{Day: d2, ShortfallMWh: 2.5, Failed: true},
		},
		Anomalies: []scheduler.Anomaly{
			{Day: d2, Kind: scheduler.AnomalyZeroGeneration},
			{Day: d2, Period: 35, Kind: scheduler.AnomalyMissingData},
		},
	}
}

func TestDayResults(t *testing.T) {
	res := resultFixture(t)
	got := DayResults(res)
	require.Len(t, got, 2)

	require.Equal(t, res.RunID.String(), got[0].RunID)
	require.Equal(t, 6.0, got[0].StoredPeakMWh)
	require.Zero(t, got[0].Anomalies)

	require.True(t, got[1].Failed)
	require.Equal(t, 2.5, got[1].ShortfallMWh)
	require.Equal(t, 2, got[1].Anomalies, "anomalies counted against their day")
}

func TestFlattenSeries(t *testing.T) {
	res := resultFixture(t)
	points := FlattenSeries(res)
	require.Len(t, points, 2*model.PeriodsPerDay)

	first := points[0]
	require.Equal(t, res.RunID.String(), first.RunID)
	require.Equal(t, 1, first.Period)
	require.Equal(t, first.Day, first.Time, "period 1 starts at midnight")

	last := points[len(points)-1]
	require.Equal(t, model.PeriodsPerDay, last.Period)
	require.Equal(t, last.Day.Add(23*time.Hour+30*time.Minute), last.Time)
}

func TestNopSink(t *testing.T) {
	var s NopSink
	require.NoError(t, s.RecordDayResults(nil))
	require.NoError(t, s.RecordSeries(nil))
}
