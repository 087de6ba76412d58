package scheduler

import (
	"math"

	"github.com/kilianp07/peakshave/core/model"
)

// finalize forces the periods after the discharge window to idle, holds the
// stored-energy level flat through the end of the day and strips
// floating-point accumulation noise from the stored trajectory. Power values
// are left unrounded.
func (s *Scheduler) finalize(st *dayState) {
	for p := s.cfg.DischargeEnd + 1; p <= model.PeriodsPerDay; p++ {
		st.power[p-1] = 0
	}
	for p := s.cfg.DischargeEnd + 2; p <= model.PeriodsPerDay; p++ {
		st.stored[p-1] = st.stored[s.cfg.DischargeEnd]
	}
	for i, v := range st.stored {
		st.stored[i] = roundStored(v)
	}
}

// roundStored rounds stored energy to 8 decimal places. The missing marker
// passes through untouched.
func roundStored(v float64) float64 {
	if math.IsNaN(v) {
		return v
	}
	return math.Round(v*1e8) / 1e8
}
