package gps

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"strings"
	"time"
)

const gpsdDefaultAddr = "127.0.0.1:2947"

// dialGPSD connects to gpsd over TCP.
func dialGPSD(ctx context.Context, addr string) (net.Conn, error) {
	if strings.TrimSpace(addr) == "" {
		addr = gpsdDefaultAddr
	}
	d := &net.Dialer{Timeout: 2 * time.Second}
	return d.DialContext(ctx, "tcp", addr)
}

// gpsdWatch enables JSON streaming reports.
func gpsdWatch(w io.Writer) error {
	// scaled=true yields SI units (m/s, meters) and degrees.
	_, err := w.Write([]byte("?WATCH={\"enable\":true,\"json\":true,\"scaled\":true}\n"))
	return err
}

type gpsdMsgBase struct {
	Class string `json:"class"`
}

type gpsdTPV struct {
	Class string `json:"class"`
	Mode  *int   `json:"mode"`
	Time  string `json:"time"`

	Lat *float64 `json:"lat"`
	Lon *float64 `json:"lon"`

	Alt    *float64 `json:"alt"`
	AltMSL *float64 `json:"altMSL"`
}

type gpsdState struct {
	altM float64
}

// applyLine parses one gpsd report. TPV reports with a 2D/3D fix, a time and
// a position become fixes; other classes are ignored.
func (s *gpsdState) applyLine(line string) (Fix, bool, error) {
	var base gpsdMsgBase
	if err := json.Unmarshal([]byte(line), &base); err != nil {
		return Fix{}, false, fmt.Errorf("gpsd json parse failed: %v", err)
	}
	if strings.ToUpper(strings.TrimSpace(base.Class)) != "TPV" {
		// VERSION/DEVICES/WATCH/SKY carry nothing for the track.
		return Fix{}, false, nil
	}

	var tpv gpsdTPV
	if err := json.Unmarshal([]byte(line), &tpv); err != nil {
		return Fix{}, false, fmt.Errorf("gpsd tpv parse failed: %v", err)
	}
	return s.applyTPV(tpv)
}

func (s *gpsdState) applyTPV(tpv gpsdTPV) (Fix, bool, error) {
	altM := tpv.AltMSL
	if altM == nil {
		altM = tpv.Alt
	}
	if altM != nil {
		s.altM = *altM
	}

	if tpv.Mode == nil || *tpv.Mode < 2 || tpv.Lat == nil || tpv.Lon == nil {
		return Fix{}, false, nil
	}
	if strings.TrimSpace(tpv.Time) == "" {
		return Fix{}, false, nil
	}
	ts, err := time.Parse(time.RFC3339Nano, tpv.Time)
	if err != nil {
		return Fix{}, false, fmt.Errorf("gpsd tpv time %q: %v", tpv.Time, err)
	}

	return Fix{
		Time:    ts.UTC().Truncate(time.Second),
		HasDate: true,
		LatDeg:  *tpv.Lat,
		LonDeg:  *tpv.Lon,
		AltM:    s.altM,
	}, true, nil
}
