package scheduler

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/floats"
)

// ErrZeroGeneration indicates a day whose charge window has zero total PV
// output, leaving the proportional scale factor undefined.
var ErrZeroGeneration = errors.New("scheduler: no pv generation in charge window")

// charge allocates charging power across the charge window proportionally to
// the day's PV output, scaled so the battery targets a full charge. Power is
// capped at the rate limit per period and stored energy is clamped at
// capacity. When the rate cap binds before capacity is reached the shortfall
// is left where it falls; redistributing it would change the accepted
// behaviour of the unit.
func (s *Scheduler) charge(st *dayState, pv []float64) error {
	start, end := s.cfg.ChargeStart, s.cfg.ChargeEnd
	ptot := floats.Sum(pv[start-1 : end])
	if ptot == 0 {
		return ErrZeroGeneration
	}

	// The factor is twice the capacity because a half-hour of B MW banks
	// 0.5*B MWh; it always targets a full charge regardless of the PV total,
	// implicitly topping up from the grid on scarce days.
	k := 2 * s.cfg.CapacityMWh / ptot

	for p := start; p <= end; p++ {
		gen := pv[p-1]
		if gen > 0 {
			st.power[p-1] = math.Min(k*gen, s.cfg.MaxPowerMW)
			st.stored[p] = st.stored[p-1] + 0.5*st.power[p-1]
			if st.stored[p] > s.cfg.CapacityMWh {
				// Take exactly what is left to reach capacity.
				st.power[p-1] = 2 * (s.cfg.CapacityMWh - st.stored[p-1])
				st.stored[p] = s.cfg.CapacityMWh
			}
		} else {
			st.power[p-1] = 0
			st.stored[p] = st.stored[p-1]
		}
	}

	// Carry stored energy through any idle gap before the discharge window.
	for i := end + 1; i < s.cfg.DischargeStart; i++ {
		st.stored[i] = st.stored[i-1]
	}
	return nil
}
