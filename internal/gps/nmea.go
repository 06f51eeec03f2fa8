package gps

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"
)

type nmeaSentence struct {
	Type string
	// Fields is the comma-split NMEA payload (excluding $ and checksum).
	Fields []string
}

func parseNMEASentence(line string) (nmeaSentence, error) {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, "$") {
		return nmeaSentence{}, fmt.Errorf("nmea: missing '$'")
	}
	star := strings.LastIndexByte(line, '*')
	if star == -1 {
		return nmeaSentence{}, fmt.Errorf("nmea: missing checksum")
	}
	payload := line[1:star]
	ck := strings.TrimSpace(line[star+1:])
	if len(ck) < 2 {
		return nmeaSentence{}, fmt.Errorf("nmea: short checksum")
	}
	want, err := hex.DecodeString(ck[:2])
	if err != nil || len(want) != 1 {
		return nmeaSentence{}, fmt.Errorf("nmea: bad checksum")
	}
	got := byte(0)
	for i := 0; i < len(payload); i++ {
		got ^= payload[i]
	}
	if got != want[0] {
		return nmeaSentence{}, fmt.Errorf("nmea: checksum mismatch")
	}

	parts := strings.Split(payload, ",")
	if len(parts[0]) < 3 {
		return nmeaSentence{}, fmt.Errorf("nmea: short type")
	}
	// Accept GNxxx/GPxxx, etc; normalize to last 3 chars.
	t := parts[0]
	if len(t) > 3 {
		t = t[len(t)-3:]
	}
	return nmeaSentence{Type: strings.ToUpper(t), Fields: parts}, nil
}

// nmeaState merges RMC and GGA sentences into fixes.
//
// Receivers send RMC and GGA for the same epoch in either order. An RMC fix
// is held until the GGA with the same time supplies its altitude, or until
// the next RMC or flush releases it with the last known altitude.
type nmeaState struct {
	altM   float64
	altTod time.Duration
	altOK  bool

	pending    Fix
	pendingTod time.Duration
	hasPending bool

	date   time.Time
	dateOK bool
}

// apply folds a sentence into the state and returns a fix when one is
// complete. At most one fix is released per sentence.
func (s *nmeaState) apply(sent nmeaSentence) (Fix, bool) {
	switch sent.Type {
	case "RMC":
		return s.applyRMC(sent.Fields)
	case "GGA":
		return s.applyGGA(sent.Fields)
	default:
		return Fix{}, false
	}
}

// flush releases a held RMC fix, if any.
func (s *nmeaState) flush() (Fix, bool) {
	if !s.hasPending {
		return Fix{}, false
	}
	s.hasPending = false
	return s.pending, true
}

func (s *nmeaState) fix(tod time.Duration, lat, lon float64) Fix {
	f := Fix{LatDeg: lat, LonDeg: lon, AltM: s.altM}
	if s.dateOK {
		f.Time = s.date.Add(tod)
		f.HasDate = true
	} else {
		f.Time = time.Date(0, 1, 1, 0, 0, 0, 0, time.UTC).Add(tod)
	}
	return f
}

// RMC: Recommended Minimum Specific GNSS Data
// Fields (NMEA 0183 v2.3):
//
//	0: talker+type
//	1: time (hhmmss.sss)
//	2: status (A=active, V=void)
//	3: latitude (ddmm.mmmm)
//	4: N/S
//	5: longitude (dddmm.mmmm)
//	6: E/W
//	7: speed over ground (knots)
//	8: course over ground (deg)
//	9: date (ddmmyy)
func (s *nmeaState) applyRMC(f []string) (Fix, bool) {
	if len(f) < 10 {
		return Fix{}, false
	}
	if strings.TrimSpace(f[2]) != "A" {
		return Fix{}, false
	}
	tod, ok := parseNMEATime(f[1])
	if !ok {
		return Fix{}, false
	}
	lat, latOK := parseNMEALatLon(f[3], f[4])
	lon, lonOK := parseNMEALatLon(f[5], f[6])
	if !latOK || !lonOK {
		return Fix{}, false
	}
	if d, err := time.Parse("020106", strings.TrimSpace(f[9])); err == nil {
		s.date = d
		s.dateOK = true
	}

	prev, hadPrev := s.flush()
	cur := s.fix(tod, lat, lon)
	if s.altOK && s.altTod == tod {
		// GGA for this epoch came first.
		if hadPrev {
			s.pending, s.pendingTod, s.hasPending = cur, tod, true
			return prev, true
		}
		return cur, true
	}
	s.pending, s.pendingTod, s.hasPending = cur, tod, true
	return prev, hadPrev
}

// GGA: Global Positioning System Fix Data
// Fields:
//
//	0: talker+type
//	1: time
//	2: latitude
//	3: N/S
//	4: longitude
//	5: E/W
//	6: fix quality (0=invalid)
//	7: number of satellites
//	8: HDOP
//	9: altitude (meters)
//
// 10: units (M)
func (s *nmeaState) applyGGA(f []string) (Fix, bool) {
	if len(f) < 11 {
		return Fix{}, false
	}
	fixQ := strings.TrimSpace(f[6])
	if fixQ == "" || fixQ == "0" {
		return Fix{}, false
	}
	altM, ok := parseFloat(f[9])
	if !ok {
		return Fix{}, false
	}
	tod, todOK := parseNMEATime(f[1])
	s.altM = altM
	s.altTod = tod
	s.altOK = todOK

	if s.hasPending && todOK && s.pendingTod == tod {
		s.pending.AltM = altM
		return s.flush()
	}
	return Fix{}, false
}

// parseNMEATime parses hhmmss[.sss], dropping fractional seconds.
func parseNMEATime(v string) (time.Duration, bool) {
	v = strings.TrimSpace(v)
	if dot := strings.IndexByte(v, '.'); dot != -1 {
		v = v[:dot]
	}
	if len(v) != 6 {
		return 0, false
	}
	h, err1 := strconv.Atoi(v[0:2])
	m, err2 := strconv.Atoi(v[2:4])
	sec, err3 := strconv.Atoi(v[4:6])
	if err1 != nil || err2 != nil || err3 != nil || h > 23 || m > 59 || sec > 59 {
		return 0, false
	}
	return time.Duration(h)*time.Hour + time.Duration(m)*time.Minute + time.Duration(sec)*time.Second, true
}

func parseFloat(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// parseNMEALatLon parses NMEA lat/lon in ddmm.mmmm or dddmm.mmmm plus hemisphere.
func parseNMEALatLon(v string, hemi string) (float64, bool) {
	v = strings.TrimSpace(v)
	hemi = strings.TrimSpace(strings.ToUpper(hemi))
	if v == "" || (hemi != "N" && hemi != "S" && hemi != "E" && hemi != "W") {
		return 0, false
	}

	// The last two digits of the integer part are minutes.
	dot := strings.IndexByte(v, '.')
	intPart := v
	if dot != -1 {
		intPart = v[:dot]
	}
	if len(intPart) < 3 {
		return 0, false
	}

	deg, err := strconv.Atoi(intPart[:len(intPart)-2])
	if err != nil {
		return 0, false
	}
	mins, err := strconv.ParseFloat(v[len(intPart)-2:], 64)
	if err != nil {
		return 0, false
	}

	dec := float64(deg) + (mins / 60.0)
	if hemi == "S" || hemi == "W" {
		dec = -dec
	}
	return dec, true
}
