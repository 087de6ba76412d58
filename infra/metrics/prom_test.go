package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	coremetrics "github.com/kilianp07/peakshave/core/metrics"
)

func sampleResults() []coremetrics.DayResult {
	return []coremetrics.DayResult{
		{RunID: "r1", Day: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), StoredPeakMWh: 6},
		{RunID: "r1", Day: time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC), StoredPeakMWh: 4.5, ShortfallMWh: 1.5, Anomalies: 1},
		{RunID: "r1", Day: time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC), Failed: true, Anomalies: 2},
		{RunID: "r1", Day: time.Date(2025, 6, 4, 0, 0, 0, 0, time.UTC), StoredPeakMWh: 6, Depleted: true},
	}
}

func TestPromSinkRecordDayResults(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(coremetrics.Config{}, reg)
	require.NoError(t, err)

	require.NoError(t, sink.RecordDayResults(sampleResults()))

	ps := sink.(*PromSink)
	require.Equal(t, 1.0, testutil.ToFloat64(ps.days.WithLabelValues("ok")))
	require.Equal(t, 1.0, testutil.ToFloat64(ps.days.WithLabelValues("shortfall")))
	require.Equal(t, 1.0, testutil.ToFloat64(ps.days.WithLabelValues("failed")))
	require.Equal(t, 1.0, testutil.ToFloat64(ps.days.WithLabelValues("depleted")))
	require.Equal(t, 2.0, testutil.ToFloat64(ps.anomalies.WithLabelValues("2025-06-03")))
	require.Equal(t, 1, testutil.CollectAndCount(ps.shortfall), "one histogram series")
}

func TestPromSinkDoubleRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := NewPromSinkWithRegistry(coremetrics.Config{}, reg)
	require.NoError(t, err)
	second, err := NewPromSinkWithRegistry(coremetrics.Config{}, reg)
	require.NoError(t, err, "re-registering must reuse existing collectors")

	require.NoError(t, first.RecordDayResults(sampleResults()[:1]))
	require.NoError(t, second.RecordDayResults(sampleResults()[:1]))

	ps := second.(*PromSink)
	require.Equal(t, 2.0, testutil.ToFloat64(ps.days.WithLabelValues("ok")), "both sinks share one counter")
}

func TestOutcome(t *testing.T) {
	require.Equal(t, "failed", outcome(coremetrics.DayResult{Failed: true, Depleted: true}))
	require.Equal(t, "depleted", outcome(coremetrics.DayResult{Depleted: true, ShortfallMWh: 1}))
	require.Equal(t, "shortfall", outcome(coremetrics.DayResult{ShortfallMWh: 1}))
	require.Equal(t, "ok", outcome(coremetrics.DayResult{}))
}
