package scheduler

import (
	"errors"
	"fmt"
	"math"

	"github.com/kilianp07/peakshave/core/model"
)

// Verification tolerances. Stored energy is rounded to 8 decimal places by
// the finalizer, so the recurrence check allows slightly more slack than the
// bound checks.
const (
	boundTol      = 1e-8
	recurrenceTol = 1e-7
)

// Verify checks a finished schedule against the battery invariants: power
// within the rate limit, stored energy within [0, capacity], activity only
// inside the legal windows with the legal sign, the half-hour energy
// recurrence, and an empty battery at the start of every day. Unknown cells
// are skipped; the anomaly list of the run reports those separately. All
// violations are collected and joined, one error per finding.
func Verify(cfg Config, power, stored *model.Grid) error {
	cfg.SetDefaults()
	if power == nil || stored == nil {
		return errors.New("verify: power and stored grids are required")
	}
	if !power.SameDays(stored) {
		return errors.New("verify: power and stored grids cover different days")
	}

	var errs []error
	for _, dayT := range power.Days() {
		day := dayT.Format("2006-01-02")
		b, _ := power.Row(dayT)
		c, _ := stored.Row(dayT)

		if !model.IsMissing(c[0]) && math.Abs(c[0]) > boundTol {
			errs = append(errs, fmt.Errorf("%s: stored energy at period 1 is %g, want 0", day, c[0]))
		}

		for p := 1; p <= model.PeriodsPerDay; p++ {
			bv, cv := b[p-1], c[p-1]
			inCharge := p >= cfg.ChargeStart && p <= cfg.ChargeEnd
			inDischarge := p >= cfg.DischargeStart && p <= cfg.DischargeEnd

			if !model.IsMissing(bv) {
				if bv < -cfg.MaxPowerMW-boundTol || bv > cfg.MaxPowerMW+boundTol {
					errs = append(errs, fmt.Errorf("%s period %d: power %g exceeds rate limit %g", day, p, bv, cfg.MaxPowerMW))
				}
				switch {
				case !inCharge && !inDischarge && bv != 0:
					errs = append(errs, fmt.Errorf("%s period %d: power %g outside both windows", day, p, bv))
				case inCharge && bv < -boundTol:
					errs = append(errs, fmt.Errorf("%s period %d: discharging %g inside charge window", day, p, bv))
				case inDischarge && bv > boundTol:
					errs = append(errs, fmt.Errorf("%s period %d: charging %g inside discharge window", day, p, bv))
				}
			}

			if !model.IsMissing(cv) && (cv < -boundTol || cv > cfg.CapacityMWh+boundTol) {
				errs = append(errs, fmt.Errorf("%s period %d: stored energy %g outside [0,%g]", day, p, cv, cfg.CapacityMWh))
			}

			if p < model.PeriodsPerDay {
				next := c[p]
				if model.IsMissing(bv) || model.IsMissing(cv) || model.IsMissing(next) {
					continue
				}
				if math.Abs(next-(cv+0.5*bv)) > recurrenceTol {
					errs = append(errs, fmt.Errorf("%s period %d: stored energy %g does not follow %g + 0.5*%g", day, p, next, cv, bv))
				}
			}
		}
	}
	return errors.Join(errs...)
}
