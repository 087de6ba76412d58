package scheduler

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kilianp07/peakshave/core/logger"
	"github.com/kilianp07/peakshave/core/model"
)

// Scheduler computes per-day battery schedules from PV and demand grids.
type Scheduler struct {
	cfg Config
	log logger.Logger
}

// New returns a Scheduler for the given configuration. Unset config fields
// take the deployed unit's defaults. A nil logger disables logging.
func New(cfg Config, log logger.Logger) (*Scheduler, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("scheduler config: %w", err)
	}
	if log == nil {
		log = nopLogger{}
	}
	return &Scheduler{cfg: cfg, log: log}, nil
}

// Config returns the effective configuration of the scheduler.
func (s *Scheduler) Config() Config { return s.cfg }

// dayState holds one day's mutable schedule rows while the phases run.
// power is B (MW, positive charges the battery) and stored is C (MWh at the
// start of each period).
type dayState struct {
	day      time.Time
	power    []float64
	stored   []float64
	depleted bool
}

// DaySummary condenses one day's outcome for reporting.
type DaySummary struct {
	Day time.Time
	// StoredPeakMWh is the energy banked when the discharge window opens.
	StoredPeakMWh float64
	// ShortfallMWh is how far below capacity the charge window finished.
	ShortfallMWh float64
	// Depleted is true when the battery emptied inside the discharge window.
	Depleted bool
	// Failed is true when the day could not be scheduled at all.
	Failed bool
}

// Result is the output of one scheduler run: the four day-by-period grids of
// the output contract plus per-day summaries and detected anomalies.
type Result struct {
	RunID     uuid.UUID
	Power     *model.Grid // B: MW, positive charging, negative discharging
	Stored    *model.Grid // C: MWh stored at the start of each period
	PV        *model.Grid // P: the input PV grid
	Demand    *model.Grid // L: the input demand grid
	Summaries []DaySummary
	Anomalies []Anomaly
}

// Schedule runs the charge, discharge and finalize phases for every day of
// the input grids. Days are fully independent: a failed day is reported as an
// anomaly with its rows left unknown, and never blocks the others. Periods
// within a day are evaluated strictly in increasing order because each
// period's state depends on the previous one.
func (s *Scheduler) Schedule(pv, demand *model.Grid) (*Result, error) {
	if pv == nil || demand == nil {
		return nil, errors.New("scheduler: pv and demand grids are required")
	}
	if !pv.SameDays(demand) {
		return nil, errors.New("scheduler: pv and demand grids cover different days")
	}

	days := pv.Days()
	res := &Result{
		RunID:  uuid.New(),
		Power:  model.NewZeroGrid(days),
		Stored: model.NewZeroGrid(days),
		PV:     pv,
		Demand: demand,
	}

	for _, day := range days {
		pvRow, _ := pv.Row(day)
		demandRow, _ := demand.Row(day)
		power, _ := res.Power.Row(day)
		stored, _ := res.Stored.Row(day)
		st := &dayState{day: day, power: power, stored: stored}
		sum := DaySummary{Day: day}

		if p := firstMissing(pvRow, s.cfg.ChargeStart, s.cfg.ChargeEnd); p != 0 {
			res.Anomalies = append(res.Anomalies, Anomaly{
				Day: day, Period: p, Kind: AnomalyMissingData, Detail: "pv forecast",
			})
		}
		if p := firstMissing(demandRow, s.cfg.DischargeStart, s.cfg.DischargeEnd); p != 0 {
			res.Anomalies = append(res.Anomalies, Anomaly{
				Day: day, Period: p, Kind: AnomalyMissingData, Detail: "demand forecast",
			})
		}

		if err := s.charge(st, pvRow); err != nil {
			// Leave the failed day's schedule unknown; the battery still
			// starts the day empty.
			for i := range power {
				power[i] = model.Missing()
			}
			for i := 1; i < len(stored); i++ {
				stored[i] = model.Missing()
			}
			res.Anomalies = append(res.Anomalies, Anomaly{
				Day: day, Kind: AnomalyZeroGeneration, Detail: err.Error(),
			})
			sum.Failed = true
			res.Summaries = append(res.Summaries, sum)
			s.log.Warnf("day %s not scheduled: %v", day.Format("2006-01-02"), err)
			continue
		}

		peak := st.stored[s.cfg.DischargeStart-1]
		sum.StoredPeakMWh = peak
		if !model.IsMissing(peak) && peak < s.cfg.CapacityMWh-1e-9 {
			sum.ShortfallMWh = s.cfg.CapacityMWh - peak
			res.Anomalies = append(res.Anomalies, Anomaly{
				Day:    day,
				Kind:   AnomalyChargeShortfall,
				Detail: fmt.Sprintf("%.6f MWh below capacity", sum.ShortfallMWh),
			})
		}

		res.Anomalies = append(res.Anomalies, s.discharge(st, demandRow)...)
		s.finalize(st)
		sum.Depleted = st.depleted
		res.Summaries = append(res.Summaries, sum)

		s.log.Debugw("day scheduled", map[string]any{
			"day":         day.Format("2006-01-02"),
			"stored_peak": sum.StoredPeakMWh,
			"shortfall":   sum.ShortfallMWh,
			"depleted":    sum.Depleted,
		})
	}

	s.log.Infof("scheduled %d days, %d anomalies (run %s)", len(days), len(res.Anomalies), res.RunID)
	return res, nil
}

// firstMissing returns the first period in [start,end] holding the missing
// marker, or 0 when the window is fully observed.
func firstMissing(row []float64, start, end int) int {
	for p := start; p <= end; p++ {
		if model.IsMissing(row[p-1]) {
			return p
		}
	}
	return 0
}

// nopLogger discards all log output.
type nopLogger struct{}

func (nopLogger) Debugf(string, ...any)         {}
func (nopLogger) Debugw(string, map[string]any) {}
func (nopLogger) Infof(string, ...any)          {}
func (nopLogger) Warnf(string, ...any)          {}
func (nopLogger) Errorf(string, ...any)         {}
