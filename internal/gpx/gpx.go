// Package gpx converts GPX track points into track log samples.
package gpx

import (
	"fmt"
	"math"
	"time"

	gpxgo "github.com/tkrajina/gpxgo/gpx"

	"gpsplot/internal/coord"
	"gpsplot/internal/track"
)

type SampleWriter interface {
	WriteSample(timestamp string, s track.Sample) error
}

type Stats struct {
	Points     int
	Written    int
	Untimed    int
	Duplicates int
	// OutOfOrder counts points earlier than the last written one.
	OutOfOrder int
	// NextDay counts points on a later UTC day than the first written one.
	NextDay int
}

// ImportFile reads a GPX file and writes its track points to w.
func ImportFile(path string, w SampleWriter, datePrefix bool) (Stats, error) {
	doc, err := gpxgo.ParseFile(path)
	if err != nil {
		return Stats{}, fmt.Errorf("read GPX file: %w", err)
	}
	return Import(doc, w, datePrefix)
}

// Import writes every timed track point in document order. Track logs hold
// a time of day only, so a point is skipped unless it is strictly later
// than the previous written point and on the same UTC day as the first.
func Import(doc *gpxgo.GPX, w SampleWriter, datePrefix bool) (Stats, error) {
	var (
		st       Stats
		first    time.Time
		last     time.Time
		haveLast bool
	)
	for _, trk := range doc.Tracks {
		for _, seg := range trk.Segments {
			for _, p := range seg.Points {
				st.Points++
				if p.Timestamp.IsZero() {
					st.Untimed++
					continue
				}
				ts := p.Timestamp.UTC().Truncate(time.Second)
				if haveLast {
					switch {
					case ts.Equal(last):
						st.Duplicates++
						continue
					case ts.Before(last):
						st.OutOfOrder++
						continue
					case !sameDay(ts, first):
						st.NextDay++
						continue
					}
				} else {
					first = ts
				}

				s := track.Sample{
					Time: ts.Format("15:04:05"),
					Lat:  coord.FormatDMS(p.Latitude),
					Lon:  coord.FormatDMS(p.Longitude),
				}
				if p.Elevation.NotNull() {
					s.Height = int(math.Round(p.Elevation.Value()))
				}
				stamp := ""
				if datePrefix {
					stamp = ts.Format("2006-01-02 15:04:05")
				}
				if err := w.WriteSample(stamp, s); err != nil {
					return st, err
				}
				last = ts
				haveLast = true
				st.Written++
			}
		}
	}
	return st, nil
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
