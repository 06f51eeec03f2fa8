package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"gpsplot/internal/config"
	"gpsplot/internal/plot"
	"gpsplot/internal/track"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		var fe *track.FileError
		if errors.As(err, &fe) {
			fmt.Fprintln(os.Stderr, fe.Error())
			os.Exit(1)
		}
		log.Fatalf("gpsplot: %v", err)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string
	var pf plotFlags

	root := &cobra.Command{
		Use:   "gpsplot",
		Short: "Convert a GPS track log into a gnuplot data file",
		Long: `gpsplot reads a tab separated track log (time, latitude, longitude, height)
and writes one row per sample with segment and total distance, segment and
total time, and speed, ready for plotting.

Without a subcommand it runs "plot": data.track -> gpsplot.gp.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlotCmd(cmd, configPath, &pf)
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to YAML config (optional)")
	pf.register(root)

	root.AddCommand(
		newPlotCmd(&configPath),
		newSummaryCmd(&configPath),
		newRecordCmd(&configPath),
		newImportGPXCmd(&configPath),
		newSimulateCmd(&configPath),
	)
	return root
}

func loadConfig(path string) (config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

type plotFlags struct {
	in           string
	out          string
	padTimes     bool
	zeroInterval string
}

func (f *plotFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.in, "in", "data.track", "input track log")
	cmd.Flags().StringVar(&f.out, "out", "gpsplot.gp", "output plot data file")
	cmd.Flags().BoolVar(&f.padTimes, "pad-times", false, "render time columns as HH:MM:SS")
	cmd.Flags().StringVar(&f.zeroInterval, "zero-interval", plot.ZeroIntervalFail, "on two samples with the same time: fail or zero")
}

// apply overrides config values with flags given on the command line.
func (f *plotFlags) apply(cmd *cobra.Command, cfg *config.PlotConfig) {
	if cmd.Flags().Changed("in") {
		cfg.Input = f.in
	}
	if cmd.Flags().Changed("out") {
		cfg.Output = f.out
	}
	if cmd.Flags().Changed("pad-times") {
		cfg.PadTimes = f.padTimes
	}
	if cmd.Flags().Changed("zero-interval") {
		cfg.ZeroInterval = f.zeroInterval
	}
}

func newPlotCmd(configPath *string) *cobra.Command {
	var pf plotFlags
	cmd := &cobra.Command{
		Use:   "plot",
		Short: "Write plot rows for a track log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlotCmd(cmd, *configPath, &pf)
		},
	}
	pf.register(cmd)
	return cmd
}

func runPlotCmd(cmd *cobra.Command, configPath string, pf *plotFlags) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return fmt.Errorf("config load failed: %w", err)
	}
	pf.apply(cmd, &cfg.Plot)
	return runPlot(cfg.Plot)
}

// runPlot is the parse -> format -> write pipeline. A failure to read the
// input leaves the output untouched.
func runPlot(cfg config.PlotConfig) error {
	samples, err := track.ReadFile(cfg.Input)
	if err != nil {
		return err
	}

	lines, err := plot.Format(samples, plot.Options{PadTimes: cfg.PadTimes, ZeroInterval: cfg.ZeroInterval})
	if err != nil {
		return fmt.Errorf("%s: %w", cfg.Input, err)
	}

	if err := plot.WriteFile(cfg.Output, lines); err != nil {
		return err
	}
	log.Printf("plot in=%s out=%s rows=%d", cfg.Input, cfg.Output, len(lines))
	return nil
}
