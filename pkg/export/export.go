// Package export converts schedule grids into flat chronological series.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"time"

	"github.com/kilianp07/peakshave/core/model"
	"github.com/kilianp07/peakshave/core/scheduler"
)

// Float serializes the grids' missing marker as JSON null instead of failing
// on NaN.
type Float float64

// MarshalJSON implements json.Marshaler.
func (f Float) MarshalJSON() ([]byte, error) {
	if math.IsNaN(float64(f)) {
		return []byte("null"), nil
	}
	return json.Marshal(float64(f))
}

// Row is one emitted half-hour of the flattened schedule.
type Row struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	PowerMW   Float     `json:"power_mw"`
	StoredMWh Float     `json:"stored_mwh"`
	PVMW      Float     `json:"pv_mw"`
	DemandMW  Float     `json:"demand_mw"`
}

// Flatten converts the four result grids into a chronologically ordered
// series, one row per day and period. The timestamp of a row is the day's
// midnight plus 30*(period-1) minutes.
func Flatten(res *scheduler.Result) []Row {
	runID := res.RunID.String()
	days := res.Power.Days()
	rows := make([]Row, 0, len(days)*model.PeriodsPerDay)
	seq := 0
	for _, day := range days {
		b, _ := res.Power.Row(day)
		c, _ := res.Stored.Row(day)
		pv, _ := res.PV.Row(day)
		l, _ := res.Demand.Row(day)
		for p := 1; p <= model.PeriodsPerDay; p++ {
			seq++
			rows = append(rows, Row{
				ID:        fmt.Sprintf("%s-%05d", runID, seq),
				Timestamp: model.PeriodTime(day, p),
				PowerMW:   Float(b[p-1]),
				StoredMWh: Float(c[p-1]),
				PVMW:      Float(pv[p-1]),
				DemandMW:  Float(l[p-1]),
			})
		}
	}
	return rows
}

// WriteJSON writes the flattened schedule to w in JSON format.
func WriteJSON(w io.Writer, rows []Row) error {
	enc := json.NewEncoder(w)
	return enc.Encode(rows)
}

// WriteCSV writes the flattened schedule to w in CSV format. Unknown values
// become empty cells.
func WriteCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"id", "timestamp", "power_mw", "stored_mwh", "pv_mw", "demand_mw"}); err != nil {
		return err
	}
	for _, r := range rows {
		rec := []string{
			r.ID,
			r.Timestamp.Format(time.RFC3339),
			formatCell(r.PowerMW),
			formatCell(r.StoredMWh),
			formatCell(r.PVMW),
			formatCell(r.DemandMW),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatCell(f Float) string {
	if math.IsNaN(float64(f)) {
		return ""
	}
	return strconv.FormatFloat(float64(f), 'f', -1, 64)
}
