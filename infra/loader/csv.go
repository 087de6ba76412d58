// Package loader reads half-hourly forecast records from CSV files.
package loader

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/kilianp07/peakshave/core/model"
)

// ReadFile loads observations from the CSV file at path.
func ReadFile(path string) ([]model.Observation, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open observations: %w", err)
	}
	defer f.Close()
	obs, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return obs, nil
}

// Read decodes observations from r. The expected layout is a header row
// followed by records of timestamp (RFC3339), pv_mw and demand_mw. Blank
// value cells become the missing marker, never zero.
func Read(r io.Reader) ([]model.Observation, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 3

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if strings.TrimSpace(strings.ToLower(header[0])) != "timestamp" {
		return nil, fmt.Errorf("unexpected header %q, want timestamp,pv_mw,demand_mw", strings.Join(header, ","))
	}

	var obs []model.Observation
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		ts, err := time.Parse(time.RFC3339, strings.TrimSpace(rec[0]))
		if err != nil {
			return nil, fmt.Errorf("line %d: parse timestamp: %w", line, err)
		}
		pv, err := parseValue(rec[1])
		if err != nil {
			return nil, fmt.Errorf("line %d: parse pv_mw: %w", line, err)
		}
		demand, err := parseValue(rec[2])
		if err != nil {
			return nil, fmt.Errorf("line %d: parse demand_mw: %w", line, err)
		}
		obs = append(obs, model.Observation{Timestamp: ts, PVPowerMW: pv, DemandMW: demand})
	}
	return obs, nil
}

func parseValue(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return model.Missing(), nil
	}
	return strconv.ParseFloat(s, 64)
}
