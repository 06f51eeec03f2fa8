package main

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"gpsplot/internal/gpx"
	"gpsplot/internal/track"
)

func newImportGPXCmd(configPath *string) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "import-gpx <file>",
		Short: "Convert the track points of a GPX file into a track log",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return fmt.Errorf("config load failed: %w", err)
			}
			if !cmd.Flags().Changed("out") {
				out = cfg.Plot.Input
			}
			datePrefix := cfg.Record.DatePrefix == nil || *cfg.Record.DatePrefix
			return importGPX(args[0], out, datePrefix)
		},
	}
	cmd.Flags().StringVar(&out, "out", "data.track", "output track log")
	return cmd
}

func importGPX(in, out string, datePrefix bool) error {
	w, err := track.CreateWriter(out, "imported from "+in)
	if err != nil {
		return err
	}
	st, err := gpx.ImportFile(in, w, datePrefix)
	if cerr := w.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}
	log.Printf("import-gpx in=%s out=%s points=%d written=%d untimed=%d duplicates=%d out_of_order=%d next_day=%d",
		in, out, st.Points, st.Written, st.Untimed, st.Duplicates, st.OutOfOrder, st.NextDay)
	return nil
}
