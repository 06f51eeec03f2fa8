package sim

import (
	"math"
	"time"

	"gpsplot/internal/coord"
	"gpsplot/internal/track"
)

// Route is a deterministic figure-eight around a center point, used to
// produce demo and test track logs.
type Route struct {
	CenterLatDeg float64
	CenterLonDeg float64
	AltM         int
	RadiusNm     float64
	Period       time.Duration
}

// Position returns the route position at now.
func (r Route) Position(now time.Time) (latDeg, lonDeg float64) {
	period := r.Period
	if period <= 0 {
		period = 120 * time.Second
	}
	radiusNm := r.RadiusNm
	if radiusNm <= 0 {
		radiusNm = 0.5
	}

	// Convert NM to degrees latitude (~60 NM per degree).
	radiusDeg := radiusNm / 60.0

	phase := float64(now.UnixNano()%period.Nanoseconds()) / float64(period.Nanoseconds())

	// Lissajous figure-eight that stays within the radius:
	//	x = cos(2πt)       east-west, scaled by cos(lat) for lon degrees
	//	y = 0.5*sin(4πt)   north-south
	w := 2 * math.Pi * phase
	x := math.Cos(w)
	y := 0.5 * math.Sin(2*w)

	latDeg = r.CenterLatDeg + radiusDeg*y
	lonDeg = r.CenterLonDeg + (radiusDeg*x)/math.Cos(r.CenterLatDeg*math.Pi/180.0)
	return latDeg, lonDeg
}

// Height returns a sinusoid of +-20 m around AltM with half the route period.
func (r Route) Height(now time.Time) int {
	period := r.Period
	if period <= 0 {
		period = 120 * time.Second
	}
	vp := period / 2
	if vp < 30*time.Second {
		vp = 30 * time.Second
	}
	phase := float64(now.UnixNano()%vp.Nanoseconds()) / float64(vp.Nanoseconds())
	return int(math.Round(float64(r.AltM) + 20*math.Sin(2*math.Pi*phase)))
}

// Samples returns count samples starting at start, interval apart. The
// interval is rounded down to whole seconds and must be at least one second.
func (r Route) Samples(start time.Time, interval time.Duration, count int) []track.Sample {
	interval = interval.Truncate(time.Second)
	if interval < time.Second {
		interval = time.Second
	}
	out := make([]track.Sample, 0, count)
	now := start.Truncate(time.Second)
	for i := 0; i < count; i++ {
		lat, lon := r.Position(now)
		out = append(out, track.Sample{
			Time:   now.Format("15:04:05"),
			Lat:    coord.FormatDMS(lat),
			Lon:    coord.FormatDMS(lon),
			Height: r.Height(now),
		})
		now = now.Add(interval)
	}
	return out
}
