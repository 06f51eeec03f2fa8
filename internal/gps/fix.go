package gps

import (
	"math"
	"time"

	"gpsplot/internal/coord"
	"gpsplot/internal/track"
)

// Fix is a single position report from a receiver.
type Fix struct {
	// Time is UTC. Only the clock part is meaningful unless HasDate is set.
	Time    time.Time
	HasDate bool

	LatDeg float64
	LonDeg float64
	AltM   float64
}

// Sample converts the fix into a track sample with DMS coordinates and the
// altitude rounded to whole metres.
func (f Fix) Sample() track.Sample {
	return track.Sample{
		Time:   f.Time.Format("15:04:05"),
		Lat:    coord.FormatDMS(f.LatDeg),
		Lon:    coord.FormatDMS(f.LonDeg),
		Height: int(math.Round(f.AltM)),
	}
}

// Timestamp is the track log timestamp for the fix, with a date prefix when
// one is known and requested.
func (f Fix) Timestamp(datePrefix bool) string {
	if datePrefix && f.HasDate {
		return f.Time.Format("2006-01-02 15:04:05")
	}
	return f.Time.Format("15:04:05")
}
