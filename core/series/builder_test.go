package series

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/kilianp07/peakshave/core/model"
)

func obsAt(t *testing.T, ts string, pv, demand float64) model.Observation {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		t.Fatalf("parse timestamp: %v", err)
	}
	return model.Observation{Timestamp: parsed, PVPowerMW: pv, DemandMW: demand}
}

func TestBuild(t *testing.T) {
	obs := []model.Observation{
		obsAt(t, "2025-03-11T00:30:00Z", 0.1, 4.0),
		obsAt(t, "2025-03-10T12:00:00Z", 1.8, 5.5),
		obsAt(t, "2025-03-10T12:30:00Z", 1.9, model.Missing()),
	}
	pv, demand := Build(obs)

	require.Equal(t, 2, pv.Len())
	require.True(t, pv.SameDays(demand), "both grids share one day ordering")

	// First-seen order, not chronological.
	days := pv.Days()
	require.Equal(t, time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC), days[0])
	require.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), days[1])

	v, err := pv.At(days[1], 25)
	require.NoError(t, err)
	require.Equal(t, 1.8, v)

	d, err := demand.At(days[1], 26)
	require.NoError(t, err)
	require.True(t, model.IsMissing(d), "missing demand stays missing")

	unseen, err := pv.At(days[0], 25)
	require.NoError(t, err)
	require.True(t, model.IsMissing(unseen), "periods never observed stay missing")
}

func TestBuildDuplicateOverwrites(t *testing.T) {
	obs := []model.Observation{
		obsAt(t, "2025-03-10T06:00:00Z", 0.5, 3.0),
		obsAt(t, "2025-03-10T06:00:00Z", 0.7, 3.2),
	}
	pv, demand := Build(obs)
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	v, err := pv.At(day, 13)
	require.NoError(t, err)
	require.Equal(t, 0.7, v)
	d, err := demand.At(day, 13)
	require.NoError(t, err)
	require.Equal(t, 3.2, d)
}

func TestBuildEmpty(t *testing.T) {
	pv, demand := Build(nil)
	require.Zero(t, pv.Len())
	require.Zero(t, demand.Len())
}
