package metrics

import (
	"context"
	"math"
	"net/http"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/kilianp07/peakshave/core/metrics"
	"github.com/kilianp07/peakshave/core/model"
	"github.com/kilianp07/peakshave/infra/logger"
)

// InfluxSink writes schedule results to an InfluxDB instance using the
// official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a new sink configured for the given InfluxDB endpoint.
func NewInfluxSink(url, token, org, bucket string) *InfluxSink {
	base := strings.TrimSuffix(url, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(org, bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback tries to ping the InfluxDB instance and returns a
// NopSink if the health check fails.
func NewInfluxSinkWithFallback(url, token, org, bucket string) coremetrics.MetricsSink {
	sink := NewInfluxSink(url, token, org, bucket)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// RecordDayResults writes per-day scheduling outcomes as line protocol events.
func (s *InfluxSink) RecordDayResults(res []coremetrics.DayResult) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	for _, r := range res {
		p := write.NewPointWithMeasurement("schedule_day").
			AddTag("run_id", r.RunID).
			AddTag("day", r.Day.Format("2006-01-02")).
			AddField("stored_peak_mwh", finite(r.StoredPeakMWh)).
			AddField("shortfall_mwh", finite(r.ShortfallMWh)).
			AddField("depleted", r.Depleted).
			AddField("failed", r.Failed).
			AddField("anomalies", r.Anomalies).
			SetTime(r.Day)
		if err := s.writeAPI.WritePoint(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// RecordSeries writes the flattened per-period schedule series. Unknown cells
// are omitted from the point rather than written as zero.
func (s *InfluxSink) RecordSeries(points []coremetrics.SeriesPoint) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	for _, sp := range points {
		p := write.NewPointWithMeasurement("schedule_period").
			AddTag("run_id", sp.RunID).
			AddTag("day", sp.Day.Format("2006-01-02")).
			SetTime(sp.Time)
		addFinite(p, "power_mw", sp.PowerMW)
		addFinite(p, "stored_mwh", sp.StoredMWh)
		addFinite(p, "pv_mw", sp.PVMW)
		addFinite(p, "demand_mw", sp.DemandMW)
		if err := s.writeAPI.WritePoint(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the underlying client.
func (s *InfluxSink) Close() {
	s.client.Close()
}

func addFinite(p *write.Point, field string, v float64) {
	if model.IsMissing(v) || math.IsInf(v, 0) {
		return
	}
	p.AddField(field, v)
}

func finite(v float64) float64 {
	if model.IsMissing(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
