// Package series reshapes half-hourly observations into dense per-day grids.
package series

import (
	"github.com/kilianp07/peakshave/core/model"
)

// Build converts a stream of observations into a PV grid and a demand grid.
// Every day present in the input becomes a row in both grids, in first-seen
// order, so the two grids always share the same day ordering. Periods absent
// from the input keep the missing marker. Duplicate day/period records
// overwrite earlier ones.
func Build(obs []model.Observation) (pv, demand *model.Grid) {
	pv = model.NewGrid()
	demand = model.NewGrid()
	for _, o := range obs {
		day := o.Day()
		p := o.Period()
		pvRow := pv.AddDay(day)
		demandRow := demand.AddDay(day)
		pvRow[p-1] = o.PVPowerMW
		demandRow[p-1] = o.DemandMW
	}
	return pv, demand
}
