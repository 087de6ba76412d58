package cmd

import (
	"github.com/spf13/cobra"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "peakshave",
	Short: "Battery peak-shaving scheduler",
	Long: "peakshave computes half-hourly battery charge/discharge schedules " +
		"from solar and demand forecasts, charging from the midday PV peak " +
		"and flattening the evening demand peak.",
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "config.yaml", "configuration file")
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }
