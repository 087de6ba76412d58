// Package scheduler computes half-hourly battery charge/discharge schedules
// that flatten the evening demand peak using morning solar generation.
//
// Each calendar day is scheduled independently in two sequential phases. The
// charge phase spreads charging power over the charge window proportionally
// to forecast PV output, scaled to target a full battery. The discharge phase
// shaves the discharge-window demand down to a flat level computed so that
// exactly one battery of energy is released, and transitions the day to a
// terminal depleted state once the stored energy hits zero. A finalizer zeroes
// the remaining periods and strips floating-point accumulation noise.
//
// Periods are 1-based half-hour slots (1 = 00:00-00:30, 48 = 23:30-00:00).
// Power is in MW (positive charges the battery), stored energy in MWh at the
// start of each period.
package scheduler
