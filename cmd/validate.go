package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kilianp07/peakshave/config"
	"github.com/kilianp07/peakshave/core/scheduler"
	"github.com/kilianp07/peakshave/core/series"
	"github.com/kilianp07/peakshave/infra/loader"
	"github.com/kilianp07/peakshave/infra/logger"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Recompute the schedule and check it against the battery invariants",
	RunE:  runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logg := logger.New("validate")

	obs, err := loader.ReadFile(cfg.Input.Path)
	if err != nil {
		return err
	}
	pv, demand := series.Build(obs)

	sched, err := scheduler.New(cfg.Scheduler, logg)
	if err != nil {
		return err
	}
	res, err := sched.Schedule(pv, demand)
	if err != nil {
		return err
	}

	for _, a := range scheduler.DetectNonConcave(demand, sched.Config()) {
		logg.Warnf("input anomaly: %s", a)
	}
	for _, a := range res.Anomalies {
		logg.Warnf("schedule anomaly: %s", a)
	}
	if err := scheduler.Verify(sched.Config(), res.Power, res.Stored); err != nil {
		return fmt.Errorf("invariant violations:\n%w", err)
	}
	logg.Infof("schedule for %d days satisfies all invariants", pv.Len())
	return nil
}
