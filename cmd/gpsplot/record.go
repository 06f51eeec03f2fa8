package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"gpsplot/internal/gps"
	"gpsplot/internal/track"
)

func newRecordCmd(configPath *string) *cobra.Command {
	var (
		device   string
		baud     int
		gpsdAddr string
		nmeaPath string
		out      string
	)
	cmd := &cobra.Command{
		Use:   "record",
		Short: "Record a track log from a GPS receiver, gpsd or an NMEA capture",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return fmt.Errorf("config load failed: %w", err)
			}
			rc := cfg.Record
			if cmd.Flags().Changed("device") {
				rc.Device = device
			}
			if cmd.Flags().Changed("baud") {
				rc.Baud = baud
			}
			if cmd.Flags().Changed("gpsd") {
				rc.GPSDAddr = gpsdAddr
			}
			if cmd.Flags().Changed("out") {
				rc.Output = out
			}
			datePrefix := rc.DatePrefix == nil || *rc.DatePrefix

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			var comment string
			switch {
			case nmeaPath != "":
				comment = "recorded from " + nmeaPath
			case rc.GPSDAddr != "":
				comment = "recorded from gpsd " + rc.GPSDAddr
			default:
				comment = "recorded from receiver"
			}
			w, err := track.CreateWriter(rc.Output, comment)
			if err != nil {
				return err
			}

			var st gps.Stats
			if nmeaPath != "" {
				st, err = recordNMEAFile(ctx, nmeaPath, w, datePrefix)
			} else {
				st, err = gps.Record(ctx, gps.Config{
					Device:     rc.Device,
					Baud:       rc.Baud,
					GPSDAddr:   rc.GPSDAddr,
					DatePrefix: datePrefix,
				}, w)
			}
			if cerr := w.Close(); err == nil {
				err = cerr
			}
			if err != nil {
				return err
			}
			log.Printf("record out=%s written=%d duplicates=%d invalid=%d", rc.Output, st.Written, st.Duplicates, st.Invalid)
			return nil
		},
	}
	cmd.Flags().StringVar(&device, "device", "", "serial device (empty: auto-detect /dev/ttyACM*, /dev/ttyUSB*)")
	cmd.Flags().IntVar(&baud, "baud", 9600, "serial baud rate")
	cmd.Flags().StringVar(&gpsdAddr, "gpsd", "", "gpsd address host:port (instead of a serial device)")
	cmd.Flags().StringVar(&nmeaPath, "nmea", "", "read NMEA sentences from a capture file instead of a live source")
	cmd.Flags().StringVar(&out, "out", "data.track", "output track log")
	return cmd
}

func recordNMEAFile(ctx context.Context, path string, w gps.SampleWriter, datePrefix bool) (gps.Stats, error) {
	f, err := os.Open(path)
	if err != nil {
		return gps.Stats{}, &track.FileError{Op: "read", Path: path, Err: err}
	}
	defer f.Close()

	rec := gps.NewRecorder(w, datePrefix)
	if err := rec.ReadNMEA(ctx, f); err != nil {
		return rec.Stats(), fmt.Errorf("%s: %w", path, err)
	}
	if rec.LastError() != "" {
		log.Printf("record nmea=%s invalid=%d last_error=%q", path, rec.Stats().Invalid, rec.LastError())
	}
	return rec.Stats(), nil
}
