package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"gpsplot/internal/clock"
	"gpsplot/internal/plot"
	"gpsplot/internal/track"
)

type trackSummary struct {
	Samples    int
	DistanceKm float64
	Duration   string
	AvgSpeedMS float64
	MaxSpeedMS float64
	MinHeight  int
	MaxHeight  int
}

func summarizeTrack(rows []plot.Row) trackSummary {
	s := trackSummary{Duration: "0:00:00"}
	if len(rows) == 0 {
		return s
	}

	s.Samples = len(rows)
	s.MinHeight = rows[0].Height
	s.MaxHeight = rows[0].Height
	for _, r := range rows {
		if r.SpeedMS > s.MaxSpeedMS {
			s.MaxSpeedMS = r.SpeedMS
		}
		if r.Height < s.MinHeight {
			s.MinHeight = r.Height
		}
		if r.Height > s.MaxHeight {
			s.MaxHeight = r.Height
		}
	}

	last := rows[len(rows)-1]
	s.DistanceKm = last.TotalKm
	s.Duration = last.TotalTime
	// Best-effort: a padded or day-long total simply leaves the average at 0.
	if secs, err := clock.Seconds(last.TotalTime); err == nil && secs > 0 {
		s.AvgSpeedMS = last.TotalKm * 1000 / float64(secs)
	}
	return s
}

func printTrackSummary(path string, opts plot.Options) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return fmt.Errorf("path is empty")
	}

	samples, err := track.ReadFile(path)
	if err != nil {
		return err
	}
	rows, err := plot.Build(samples, opts)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	s := summarizeTrack(rows)

	fmt.Printf("path: %s\n", path)
	fmt.Printf("samples: %d\n", s.Samples)
	fmt.Printf("distance_km: %.6f\n", s.DistanceKm)
	fmt.Printf("duration: %s\n", s.Duration)
	fmt.Printf("avg_speed_ms: %.6f\n", s.AvgSpeedMS)
	fmt.Printf("max_speed_ms: %.6f\n", s.MaxSpeedMS)
	fmt.Printf("height_min: %d\n", s.MinHeight)
	fmt.Printf("height_max: %d\n", s.MaxHeight)
	return nil
}

func newSummaryCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "summary [track]",
		Short: "Print distance, time, speed and height totals for a track log",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return fmt.Errorf("config load failed: %w", err)
			}
			path := cfg.Plot.Input
			if len(args) == 1 {
				path = args[0]
			}
			return printTrackSummary(path, plot.Options{ZeroInterval: cfg.Plot.ZeroInterval})
		},
	}
}
