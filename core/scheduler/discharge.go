package scheduler

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// discharge shaves discharge-window demand down to a flat target level,
// limited by the rate cap and by the energy still in the battery. The target
// is the level the window would sit at if exactly one full battery of energy
// were released evenly across it. Once stored energy hits zero the day is
// depleted and the rest of the window stays idle.
func (s *Scheduler) discharge(st *dayState, demand []float64) []Anomaly {
	start, end := s.cfg.DischargeStart, s.cfg.DischargeEnd
	total := floats.Sum(demand[start-1 : end])
	target := (total - 2*s.cfg.CapacityMWh) / float64(end-start+1)

	var anomalies []Anomaly
	for p := start; p <= end; p++ {
		switch stored := st.stored[p-1]; {
		case stored > 0:
			shave := demand[p-1] - target
			if shave < 0 {
				// Demand already sits below the flat target. The unfloored
				// shave charges the battery inside the discharge window; the
				// behaviour is kept as-is and surfaced to the caller.
				anomalies = append(anomalies, Anomaly{
					Day:    st.day,
					Period: p,
					Kind:   AnomalyNonConcaveProfile,
					Detail: fmt.Sprintf("demand %.3f below flat target %.3f", demand[p-1], target),
				})
			}
			st.power[p-1] = -math.Min(math.Min(s.cfg.MaxPowerMW, shave), 2*stored)
			st.stored[p] = stored + 0.5*st.power[p-1]
		case stored == 0:
			// Terminal depleted state: idle through the end of the window.
			for q := p; q <= end; q++ {
				st.power[q-1] = 0
			}
			for q := p + 1; q <= end+1; q++ {
				st.stored[q-1] = 0
			}
			st.depleted = true
			return anomalies
		default:
			// Unknown stored energy carries forward unchanged.
			st.power[p-1] = 0
			st.stored[p] = stored
		}
	}
	return anomalies
}
