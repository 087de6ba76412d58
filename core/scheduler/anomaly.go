package scheduler

import (
	"fmt"
	"time"

	"gonum.org/v1/gonum/floats"

	"github.com/kilianp07/peakshave/core/model"
)

// AnomalyKind classifies detectable scheduling conditions that do not abort
// the run.
type AnomalyKind int

const (
	// AnomalyZeroGeneration marks a day whose charge window has no PV at all,
	// leaving the proportional scale factor undefined.
	AnomalyZeroGeneration AnomalyKind = iota
	// AnomalyMissingData marks a day with unobserved periods inside a
	// scheduling window. Unknown values propagate, they are never zeroed.
	AnomalyMissingData
	// AnomalyChargeShortfall marks a day that left the charge window below
	// full capacity because the rate cap bound first. The shortfall is not
	// redistributed to later periods.
	AnomalyChargeShortfall
	// AnomalyNonConcaveProfile marks a discharge-window period whose demand
	// already sits below the flat target, which makes the unfloored shave
	// charge the battery inside the discharge window.
	AnomalyNonConcaveProfile
)

// String returns a stable identifier for the anomaly kind.
func (k AnomalyKind) String() string {
	switch k {
	case AnomalyZeroGeneration:
		return "zero_generation"
	case AnomalyMissingData:
		return "missing_data"
	case AnomalyChargeShortfall:
		return "charge_shortfall"
	case AnomalyNonConcaveProfile:
		return "non_concave_profile"
	default:
		return "unknown"
	}
}

// Anomaly reports a detectable condition for one day. Period is zero when the
// condition covers the whole day.
type Anomaly struct {
	Day    time.Time
	Period int
	Kind   AnomalyKind
	Detail string
}

func (a Anomaly) String() string {
	day := a.Day.Format("2006-01-02")
	if a.Period == 0 {
		return fmt.Sprintf("%s: %s (%s)", day, a.Kind, a.Detail)
	}
	return fmt.Sprintf("%s period %d: %s (%s)", day, a.Period, a.Kind, a.Detail)
}

// DetectNonConcave scans the demand grid for discharge-window periods whose
// demand sits below the flat shave target. The scheduler's correctness
// guarantee depends on the window profile staying above that level, so
// callers can use this to vet inputs before or after a run.
func DetectNonConcave(demand *model.Grid, cfg Config) []Anomaly {
	cfg.SetDefaults()
	start, end := cfg.DischargeStart, cfg.DischargeEnd
	var anomalies []Anomaly
	for _, day := range demand.Days() {
		row, _ := demand.Row(day)
		total := floats.Sum(row[start-1 : end])
		target := (total - 2*cfg.CapacityMWh) / float64(end-start+1)
		for p := start; p <= end; p++ {
			if row[p-1] < target {
				anomalies = append(anomalies, Anomaly{
					Day:    day,
					Period: p,
					Kind:   AnomalyNonConcaveProfile,
					Detail: fmt.Sprintf("demand %.3f below flat target %.3f", row[p-1], target),
				})
			}
		}
	}
	return anomalies
}
