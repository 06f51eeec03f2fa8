package main

import (
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"

	"gpsplot/internal/config"
	"gpsplot/internal/sim"
	"gpsplot/internal/track"
)

func newSimulateCmd(configPath *string) *cobra.Command {
	var (
		count    int
		interval time.Duration
		start    string
		out      string
	)
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Write a synthetic figure-eight track log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return fmt.Errorf("config load failed: %w", err)
			}
			sc := cfg.Sim
			if cmd.Flags().Changed("count") {
				sc.Count = count
			}
			if cmd.Flags().Changed("interval") {
				sc.Interval = interval
			}
			if !cmd.Flags().Changed("out") {
				out = cfg.Plot.Input
			}
			t0, err := time.Parse("15:04:05", start)
			if err != nil {
				return fmt.Errorf("invalid --start %q: want HH:MM:SS", start)
			}
			// Route phases come from UnixNano; keep the date inside its range.
			t0 = time.Date(2000, 1, 1, t0.Hour(), t0.Minute(), t0.Second(), 0, time.UTC)
			return simulate(sc, t0, out)
		},
	}
	cmd.Flags().IntVar(&count, "count", 120, "number of samples")
	cmd.Flags().DurationVar(&interval, "interval", time.Second, "time between samples (whole seconds)")
	cmd.Flags().StringVar(&start, "start", "10:00:00", "time of day of the first sample")
	cmd.Flags().StringVar(&out, "out", "data.track", "output track log")
	return cmd
}

func simulate(sc config.SimConfig, start time.Time, out string) error {
	if sc.Count <= 0 {
		return fmt.Errorf("count must be > 0")
	}
	if sc.Interval < time.Second || sc.Interval%time.Second != 0 {
		return fmt.Errorf("interval must be a whole number of seconds, got %s", sc.Interval)
	}
	// Track logs carry no date, so the last sample must stay before midnight.
	tod := time.Duration(start.Hour())*time.Hour + time.Duration(start.Minute())*time.Minute + time.Duration(start.Second())*time.Second
	if end := tod + time.Duration(sc.Count-1)*sc.Interval; end >= 24*time.Hour {
		return fmt.Errorf("track would cross midnight: %d samples %s apart from %s", sc.Count, sc.Interval, start.Format("15:04:05"))
	}
	r := sim.Route{
		CenterLatDeg: sc.CenterLatDeg,
		CenterLonDeg: sc.CenterLonDeg,
		AltM:         sc.AltM,
		RadiusNm:     sc.RadiusNm,
		Period:       sc.Period,
	}
	samples := r.Samples(start, sc.Interval, sc.Count)
	comment := fmt.Sprintf("simulated center=%.4f,%.4f radius_nm=%.2f", sc.CenterLatDeg, sc.CenterLonDeg, sc.RadiusNm)
	if err := track.WriteFile(out, comment, samples); err != nil {
		return err
	}
	log.Printf("simulate out=%s samples=%d", out, len(samples))
	return nil
}
