package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/kilianp07/peakshave/core/model"
	"github.com/kilianp07/peakshave/core/scheduler"
)

func scheduleFixture(t *testing.T) *scheduler.Result {
	t.Helper()
	day := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	pv := model.NewGrid()
	demand := model.NewGrid()
	pvRow := pv.AddDay(day)
	demandRow := demand.AddDay(day)
	for p := 1; p <= model.PeriodsPerDay; p++ {
		pvRow[p-1] = 0
		demandRow[p-1] = 0
		if p >= 2 && p <= 31 {
			pvRow[p-1] = 1.0
		}
		if p >= 32 && p <= 42 {
			demandRow[p-1] = 10.0
		}
	}

	s, err := scheduler.New(scheduler.Config{}, nil)
	require.NoError(t, err)
	res, err := s.Schedule(pv, demand)
	require.NoError(t, err)
	return res
}

func TestFlatten(t *testing.T) {
	res := scheduleFixture(t)
	rows := Flatten(res)
	require.Len(t, rows, model.PeriodsPerDay)

	day := res.Power.Days()[0]
	require.Equal(t, day, rows[0].Timestamp, "period 1 starts at midnight")
	require.Equal(t, day.Add(30*time.Minute), rows[1].Timestamp)
	require.Equal(t, day.Add(23*time.Hour+30*time.Minute), rows[47].Timestamp)

	require.Equal(t, fmt.Sprintf("%s-%05d", res.RunID, 1), rows[0].ID)
	require.Equal(t, fmt.Sprintf("%s-%05d", res.RunID, 48), rows[47].ID)

	require.InDelta(t, 0.4, float64(rows[1].PowerMW), 1e-9, "charge power at period 2")
	require.InDelta(t, 10.0, float64(rows[31].DemandMW), 1e-9)
}

func TestFloatMarshalJSON(t *testing.T) {
	got, err := json.Marshal(struct {
		A Float `json:"a"`
		B Float `json:"b"`
	}{A: Float(model.Missing()), B: 1.5})
	require.NoError(t, err)
	require.JSONEq(t, `{"a":null,"b":1.5}`, string(got))
}

func TestWriteJSONNullsMissing(t *testing.T) {
	rows := []Row{{
		ID:        "r-00001",
		Timestamp: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		PowerMW:   Float(model.Missing()),
		StoredMWh: 0,
		PVMW:      1.0,
		DemandMW:  Float(model.Missing()),
	}}
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, rows))

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 1)
	require.Nil(t, decoded[0]["power_mw"])
	require.Equal(t, 1.0, decoded[0]["pv_mw"])
}

func TestWriteCSV(t *testing.T) {
	rows := []Row{{
		ID:        "r-00001",
		Timestamp: time.Date(2025, 6, 1, 15, 30, 0, 0, time.UTC),
		PowerMW:   -1.25,
		StoredMWh: 6,
		PVMW:      Float(model.Missing()),
		DemandMW:  10,
	}}
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, rows))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	require.Equal(t, "id,timestamp,power_mw,stored_mwh,pv_mw,demand_mw", lines[0])
	require.Equal(t, "r-00001,2025-06-01T15:30:00Z,-1.25,6,,10", lines[1])
}
