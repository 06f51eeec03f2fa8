// Package plot turns parsed track samples into gnuplot-ready rows.
package plot

import (
	"errors"
	"fmt"

	"gpsplot/internal/clock"
	"gpsplot/internal/coord"
	"gpsplot/internal/geo"
	"gpsplot/internal/track"
)

const zeroTime = "0:00:00"

// ErrZeroInterval is returned when two consecutive samples share a
// timestamp, leaving speed undefined.
var ErrZeroInterval = errors.New("zero time interval between samples")

// Zero-interval policies.
const (
	ZeroIntervalFail = "fail"
	ZeroIntervalZero = "zero"
)

// Options select opt-in deviations from the plain transform. The zero value
// reproduces it.
type Options struct {
	// PadTimes renders both time columns as HH:MM:SS.
	PadTimes bool
	// ZeroInterval is ZeroIntervalFail (or empty) to fail on a zero
	// interval, ZeroIntervalZero to report speed 0 instead.
	ZeroInterval string
}

// Row is one output line.
type Row struct {
	Index       int
	SegmentKm   float64
	TotalKm     float64
	SegmentTime string
	TotalTime   string
	SpeedMS     float64
	Height      int
	Lat         string
	Lon         string
}

func (r Row) String() string {
	return fmt.Sprintf("%d.\t%.6f\t%.6f\t%s\t%s\t%.6f\t%d\t%s\t%s",
		r.Index, r.SegmentKm, r.TotalKm, r.SegmentTime, r.TotalTime, r.SpeedMS, r.Height, r.Lat, r.Lon)
}

// accumulator is the state carried from one sample to the next.
type accumulator struct {
	totalKm   float64
	totalTime string
}

// Build walks samples in order and returns one row per sample.
func Build(samples []track.Sample, opts Options) ([]Row, error) {
	switch opts.ZeroInterval {
	case "", ZeroIntervalFail, ZeroIntervalZero:
	default:
		return nil, fmt.Errorf("unknown zero interval policy %q", opts.ZeroInterval)
	}

	rows := make([]Row, 0, len(samples))
	acc := accumulator{totalTime: zeroTime}
	for i, s := range samples {
		row := Row{
			Index:       i,
			SegmentTime: zeroTime,
			TotalTime:   acc.totalTime,
			Height:      s.Height,
			Lat:         s.Lat,
			Lon:         s.Lon,
		}
		if i > 0 {
			var err error
			row, acc, err = step(samples[i-1], s, row, acc, opts)
			if err != nil {
				return nil, fmt.Errorf("row %d: %w", i, err)
			}
		}
		row.TotalKm = acc.totalKm
		if opts.PadTimes {
			row.SegmentTime = clock.Pad(row.SegmentTime)
			row.TotalTime = clock.Pad(row.TotalTime)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func step(prev, cur track.Sample, row Row, acc accumulator, opts Options) (Row, accumulator, error) {
	lon1, err := coord.ParseDMS(prev.Lon)
	if err != nil {
		return row, acc, err
	}
	lat1, err := coord.ParseDMS(prev.Lat)
	if err != nil {
		return row, acc, err
	}
	lon2, err := coord.ParseDMS(cur.Lon)
	if err != nil {
		return row, acc, err
	}
	lat2, err := coord.ParseDMS(cur.Lat)
	if err != nil {
		return row, acc, err
	}

	row.SegmentKm = geo.Distance(lon1, lat1, lon2, lat2)
	acc.totalKm += row.SegmentKm

	row.SegmentTime, err = clock.Difference(prev.Time, cur.Time)
	if err != nil {
		return row, acc, err
	}
	acc.totalTime, err = clock.Sum(acc.totalTime, row.SegmentTime)
	if err != nil {
		return row, acc, err
	}
	row.TotalTime = acc.totalTime

	secs, err := clock.Seconds(row.SegmentTime)
	if err != nil {
		return row, acc, err
	}
	if secs == 0 {
		if opts.ZeroInterval != ZeroIntervalZero {
			return row, acc, fmt.Errorf("%w (%s)", ErrZeroInterval, cur.Time)
		}
		return row, acc, nil
	}
	row.SpeedMS = row.SegmentKm * 1000 / float64(secs)
	return row, acc, nil
}

// Format renders the rows produced by Build.
func Format(samples []track.Sample, opts Options) ([]string, error) {
	rows, err := Build(samples, opts)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.String()
	}
	return out, nil
}
