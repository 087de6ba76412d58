package model

import "time"

// Observation is one half-hourly forecast record from the data-loading
// collaborator. Power values are in MW; a missing metric holds the missing
// marker rather than zero.
type Observation struct {
	Timestamp time.Time
	PVPowerMW float64
	DemandMW  float64
}

// Day returns the calendar day the observation belongs to.
func (o Observation) Day() time.Time { return DayOf(o.Timestamp) }

// Period returns the 1-based half-hour period of the observation.
func (o Observation) Period() int { return PeriodOf(o.Timestamp) }
