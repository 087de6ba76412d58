package app

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/kilianp07/peakshave/config"
	coremetrics "github.com/kilianp07/peakshave/core/metrics"
	coremqtt "github.com/kilianp07/peakshave/core/mqtt"
	"github.com/kilianp07/peakshave/core/scheduler"
	"github.com/kilianp07/peakshave/core/series"
	"github.com/kilianp07/peakshave/infra/loader"
	"github.com/kilianp07/peakshave/infra/logger"
	"github.com/kilianp07/peakshave/infra/metrics"
	"github.com/kilianp07/peakshave/infra/mqtt"
	"github.com/kilianp07/peakshave/pkg/export"
)

// Service orchestrates one scheduling run: load observations, build grids,
// schedule, export the flattened series and record the outcome.
type Service struct {
	cfg   *config.Config
	sched *scheduler.Scheduler
	sink  coremetrics.MetricsSink
	pub   coremqtt.Publisher
	log   logger.Logger

	promEnabled bool
	promPort    string
	disconnect  func()
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	logg := logger.New("service")

	sched, err := scheduler.New(cfg.Scheduler, logger.New("scheduler"))
	if err != nil {
		return nil, err
	}

	var sinks []coremetrics.MetricsSink
	if cfg.Metrics.PrometheusEnabled {
		sink, err := metrics.NewPromSink(cfg.Metrics)
		if err != nil {
			return nil, fmt.Errorf("prom sink: %w", err)
		}
		sinks = append(sinks, sink)
	}
	if cfg.Metrics.InfluxEnabled {
		sink := metrics.NewInfluxSinkWithFallback(cfg.Metrics.InfluxURL, cfg.Metrics.InfluxToken, cfg.Metrics.InfluxOrg, cfg.Metrics.InfluxBucket)
		sinks = append(sinks, sink)
	}
	var sink coremetrics.MetricsSink = coremetrics.NopSink{}
	if len(sinks) == 1 {
		sink = sinks[0]
	} else if len(sinks) > 1 {
		sink = metrics.NewMultiSink(sinks...)
	}

	svc := &Service{
		cfg:         cfg,
		sched:       sched,
		sink:        sink,
		log:         logg,
		promEnabled: cfg.Metrics.PrometheusEnabled,
		promPort:    cfg.Metrics.PrometheusPort,
	}

	if cfg.MQTT.Enabled {
		pub, err := mqtt.NewPahoPublisher(cfg.MQTT)
		if err != nil {
			return nil, fmt.Errorf("mqtt publisher: %w", err)
		}
		svc.pub = pub
		svc.disconnect = pub.Disconnect
	}
	return svc, nil
}

// Run executes one scheduling run. The context only bounds the optional
// Prometheus server; the scheduling itself is pure computation.
func (s *Service) Run(ctx context.Context) error {
	if s.promEnabled {
		go func() {
			if err := metrics.StartPromServer(ctx, s.promPort); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}

	obs, err := loader.ReadFile(s.cfg.Input.Path)
	if err != nil {
		return err
	}
	pv, demand := series.Build(obs)
	if pv.Len() == 0 {
		return fmt.Errorf("no observations in %s", s.cfg.Input.Path)
	}

	res, err := s.sched.Schedule(pv, demand)
	if err != nil {
		return err
	}
	for _, a := range res.Anomalies {
		s.log.Warnf("anomaly: %s", a)
	}

	if err := s.writeOutput(res); err != nil {
		return err
	}
	if err := s.record(res); err != nil {
		s.log.Errorf("record metrics: %v", err)
	}
	if s.pub != nil {
		s.publish(res)
	}
	return nil
}

func (s *Service) writeOutput(res *scheduler.Result) error {
	f, err := os.Create(s.cfg.Output.Path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer f.Close()

	rows := export.Flatten(res)
	switch s.cfg.Output.Format {
	case "json":
		err = export.WriteJSON(f, rows)
	default:
		err = export.WriteCSV(f, rows)
	}
	if err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	s.log.Infof("wrote %d rows to %s", len(rows), s.cfg.Output.Path)
	return nil
}

func (s *Service) record(res *scheduler.Result) error {
	if err := s.sink.RecordDayResults(coremetrics.DayResults(res)); err != nil {
		return err
	}
	if rec, ok := s.sink.(coremetrics.SeriesRecorder); ok {
		return rec.RecordSeries(coremetrics.FlattenSeries(res))
	}
	return nil
}

// daySchedule is the MQTT payload for one finalized day.
type daySchedule struct {
	RunID     string         `json:"run_id"`
	Day       string         `json:"day"`
	PowerMW   []export.Float `json:"power_mw"`
	StoredMWh []export.Float `json:"stored_mwh"`
}

func (s *Service) publish(res *scheduler.Result) {
	failed := make(map[time.Time]bool)
	for _, sum := range res.Summaries {
		if sum.Failed {
			failed[sum.Day] = true
		}
	}
	for _, day := range res.Power.Days() {
		if failed[day] {
			continue
		}
		b, _ := res.Power.Row(day)
		c, _ := res.Stored.Row(day)
		msg := daySchedule{
			RunID:     res.RunID.String(),
			Day:       day.Format("2006-01-02"),
			PowerMW:   toFloats(b),
			StoredMWh: toFloats(c),
		}
		payload, err := json.Marshal(msg)
		if err != nil {
			s.log.Errorf("marshal day %s: %v", msg.Day, err)
			continue
		}
		if err := s.pub.PublishSchedule(day, payload); err != nil {
			s.log.Errorf("publish day %s: %v", msg.Day, err)
		}
	}
}

func toFloats(row []float64) []export.Float {
	out := make([]export.Float, len(row))
	for i, v := range row {
		out[i] = export.Float(v)
	}
	return out
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	if s.disconnect != nil {
		s.disconnect()
	}
	return nil
}
