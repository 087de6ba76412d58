package metrics

import coremetrics "github.com/kilianp07/peakshave/core/metrics"

// MultiSink fanouts schedule results to multiple sinks.
type MultiSink struct {
	Sinks []coremetrics.MetricsSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...coremetrics.MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordDayResults forwards the records to all sinks, returning the first
// error encountered.
func (m *MultiSink) RecordDayResults(res []coremetrics.DayResult) error {
	for _, s := range m.Sinks {
		if err := s.RecordDayResults(res); err != nil {
			return err
		}
	}
	return nil
}

// RecordSeries forwards the series to sinks that support it.
func (m *MultiSink) RecordSeries(points []coremetrics.SeriesPoint) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(coremetrics.SeriesRecorder); ok {
			if err := rec.RecordSeries(points); err != nil {
				return err
			}
		}
	}
	return nil
}
