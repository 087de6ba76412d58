package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/kilianp07/peakshave/core/metrics"
)

// PromSink records scheduling outcomes in Prometheus metrics.
type PromSink struct {
	days      *prometheus.CounterVec
	shortfall prometheus.Histogram
	anomalies *prometheus.CounterVec
}

// NewPromSink registers scheduling metrics on the default Prometheus
// registerer. The Prometheus server should be started separately using
// cfg.PrometheusPort.
func NewPromSink(cfg coremetrics.Config) (coremetrics.MetricsSink, error) {
	return NewPromSinkWithRegistry(cfg, prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(cfg coremetrics.Config, reg prometheus.Registerer) (coremetrics.MetricsSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	days := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "schedule_days_total",
		Help: "Total number of scheduled days by outcome",
	}, []string{"outcome"})
	shortfall := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "schedule_charge_shortfall_mwh",
		Help:    "Energy below full capacity at the end of the charge window",
		Buckets: prometheus.LinearBuckets(0, 0.5, 13),
	})
	anomalies := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "schedule_anomalies_total",
		Help: "Total number of per-day scheduling anomalies",
	}, []string{"day"})

	if err := reg.Register(days); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			days = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(shortfall); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			shortfall = are.ExistingCollector.(prometheus.Histogram)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(anomalies); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			anomalies = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}

	return &PromSink{days: days, shortfall: shortfall, anomalies: anomalies}, nil
}

// RecordDayResults increments the counters for each scheduled day.
func (s *PromSink) RecordDayResults(res []coremetrics.DayResult) error {
	for _, r := range res {
		s.days.WithLabelValues(outcome(r)).Inc()
		if !r.Failed && r.ShortfallMWh > 0 {
			s.shortfall.Observe(r.ShortfallMWh)
		}
		if r.Anomalies > 0 {
			s.anomalies.WithLabelValues(r.Day.Format("2006-01-02")).Add(float64(r.Anomalies))
		}
	}
	return nil
}

func outcome(r coremetrics.DayResult) string {
	switch {
	case r.Failed:
		return "failed"
	case r.Depleted:
		return "depleted"
	case r.ShortfallMWh > 0:
		return "shortfall"
	default:
		return "ok"
	}
}
