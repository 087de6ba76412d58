package model

import (
	"fmt"
	"math"
	"time"
)

// PeriodsPerDay is the number of half-hour settlement periods in a calendar day.
const PeriodsPerDay = 48

// Missing marks a day/period combination absent from the source data. It is
// deliberately not zero so that "unknown" never reads as "no generation".
func Missing() float64 { return math.NaN() }

// IsMissing reports whether v is the missing-value marker.
func IsMissing(v float64) bool { return math.IsNaN(v) }

// DayOf truncates t to the midnight of its calendar day in UTC.
func DayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// PeriodOf returns the 1-based half-hour period index of t within its day.
// Period 1 covers 00:00-00:30.
func PeriodOf(t time.Time) int {
	return 1 + (t.Hour()*60+t.Minute())/30
}

// PeriodTime returns the timestamp at which the given period of day starts.
func PeriodTime(day time.Time, period int) time.Time {
	return day.Add(time.Duration(period-1) * 30 * time.Minute)
}

// Grid is a dense day-by-period matrix. Every row covers the full 48 periods
// of one calendar day; cells never observed hold the missing marker.
type Grid struct {
	days  []time.Time
	index map[time.Time]int
	rows  [][]float64
}

// NewGrid returns an empty grid.
func NewGrid() *Grid {
	return &Grid{index: make(map[time.Time]int)}
}

// NewZeroGrid returns a grid with a zero-filled row for each of the given days.
func NewZeroGrid(days []time.Time) *Grid {
	g := NewGrid()
	for _, d := range days {
		row := g.AddDay(d)
		for i := range row {
			row[i] = 0
		}
	}
	return g
}

// AddDay ensures a row exists for day and returns it. New rows are filled with
// the missing marker.
func (g *Grid) AddDay(day time.Time) []float64 {
	day = DayOf(day)
	if i, ok := g.index[day]; ok {
		return g.rows[i]
	}
	row := make([]float64, PeriodsPerDay)
	for i := range row {
		row[i] = Missing()
	}
	g.index[day] = len(g.days)
	g.days = append(g.days, day)
	g.rows = append(g.rows, row)
	return row
}

// Days returns the days of the grid in insertion order.
func (g *Grid) Days() []time.Time { return g.days }

// Len returns the number of day rows.
func (g *Grid) Len() int { return len(g.days) }

// Row returns the 48-slot row for day.
func (g *Grid) Row(day time.Time) ([]float64, bool) {
	i, ok := g.index[DayOf(day)]
	if !ok {
		return nil, false
	}
	return g.rows[i], true
}

// At returns the value for the 1-based period of day.
func (g *Grid) At(day time.Time, period int) (float64, error) {
	row, ok := g.Row(day)
	if !ok {
		return 0, fmt.Errorf("no row for day %s", DayOf(day).Format("2006-01-02"))
	}
	if period < 1 || period > PeriodsPerDay {
		return 0, fmt.Errorf("period %d out of range [1,%d]", period, PeriodsPerDay)
	}
	return row[period-1], nil
}

// Set stores v at the 1-based period of day, creating the row if needed.
func (g *Grid) Set(day time.Time, period int, v float64) error {
	if period < 1 || period > PeriodsPerDay {
		return fmt.Errorf("period %d out of range [1,%d]", period, PeriodsPerDay)
	}
	row := g.AddDay(day)
	row[period-1] = v
	return nil
}

// Clone returns a deep copy of the grid.
func (g *Grid) Clone() *Grid {
	c := NewGrid()
	for i, d := range g.days {
		row := c.AddDay(d)
		copy(row, g.rows[i])
	}
	return c
}

// SameDays reports whether both grids hold the same days in the same order.
func (g *Grid) SameDays(o *Grid) bool {
	if len(g.days) != len(o.days) {
		return false
	}
	for i, d := range g.days {
		if !d.Equal(o.days[i]) {
			return false
		}
	}
	return true
}

// Equal reports whether both grids hold identical days and cell values.
// Missing markers compare equal to each other.
func (g *Grid) Equal(o *Grid) bool {
	if !g.SameDays(o) {
		return false
	}
	for i := range g.rows {
		for j := range g.rows[i] {
			a, b := g.rows[i][j], o.rows[i][j]
			if IsMissing(a) && IsMissing(b) {
				continue
			}
			if a != b {
				return false
			}
		}
	}
	return true
}
