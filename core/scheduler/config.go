package scheduler

import (
	"fmt"

	"github.com/kilianp07/peakshave/core/model"
)

// Config defines the battery and window parameters of the scheduler. The
// defaults describe the deployed 6 MWh / 2.5 MW unit with the enforced
// charge window 2-31 and discharge window 32-42. Earlier documentation
// mentioned a 1-41 charge window; the narrower window is the behaviour the
// unit actually runs and is the one kept here.
type Config struct {
	CapacityMWh    float64 `json:"capacity_mwh"`
	MaxPowerMW     float64 `json:"max_power_mw"`
	ChargeStart    int     `json:"charge_start"`
	ChargeEnd      int     `json:"charge_end"`
	DischargeStart int     `json:"discharge_start"`
	DischargeEnd   int     `json:"discharge_end"`
}

// SetDefaults applies the deployed unit's parameters to unset fields.
func (c *Config) SetDefaults() {
	if c.CapacityMWh == 0 {
		c.CapacityMWh = 6
	}
	if c.MaxPowerMW == 0 {
		c.MaxPowerMW = 2.5
	}
	if c.ChargeStart == 0 {
		c.ChargeStart = 2
	}
	if c.ChargeEnd == 0 {
		c.ChargeEnd = 31
	}
	if c.DischargeStart == 0 {
		c.DischargeStart = 32
	}
	if c.DischargeEnd == 0 {
		c.DischargeEnd = 42
	}
}

// Validate checks window ordering and physical limits.
func (c Config) Validate() error {
	if c.CapacityMWh <= 0 {
		return fmt.Errorf("capacity_mwh must be positive")
	}
	if c.MaxPowerMW <= 0 {
		return fmt.Errorf("max_power_mw must be positive")
	}
	for _, w := range []struct {
		name       string
		start, end int
	}{
		{"charge", c.ChargeStart, c.ChargeEnd},
		{"discharge", c.DischargeStart, c.DischargeEnd},
	} {
		if w.start < 1 || w.end > model.PeriodsPerDay || w.start > w.end {
			return fmt.Errorf("%s window [%d,%d] outside [1,%d]", w.name, w.start, w.end, model.PeriodsPerDay)
		}
	}
	if c.ChargeEnd >= c.DischargeStart {
		return fmt.Errorf("charge window must end before discharge window starts")
	}
	// The finalizer carries stored energy through the periods after the
	// discharge window, so at least one must exist.
	if c.DischargeEnd >= model.PeriodsPerDay {
		return fmt.Errorf("discharge window must end before period %d", model.PeriodsPerDay)
	}
	return nil
}
