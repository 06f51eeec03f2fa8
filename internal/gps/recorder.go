package gps

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"gpsplot/internal/track"
)

// Config controls live capture.
//
// Device may be empty to auto-detect a USB receiver (/dev/ttyACM*, /dev/ttyUSB*).
// When GPSDAddr is set, gpsd is used instead of a serial device.
type Config struct {
	Device   string
	Baud     int
	GPSDAddr string

	// DatePrefix writes "YYYY-MM-DD HH:MM:SS" timestamps when the fix carries a date.
	DatePrefix bool
}

// SampleWriter receives recorded samples. *track.Writer implements it.
type SampleWriter interface {
	WriteSample(timestamp string, s track.Sample) error
}

type Stats struct {
	Written    int
	Duplicates int
	Invalid    int
}

// Recorder turns receiver output into at most one sample per second.
type Recorder struct {
	w          SampleWriter
	datePrefix bool

	last     time.Time
	haveLast bool
	lastErr  string
	stats    Stats
}

func NewRecorder(w SampleWriter, datePrefix bool) *Recorder {
	return &Recorder{w: w, datePrefix: datePrefix}
}

func (r *Recorder) Stats() Stats {
	return r.stats
}

// LastError returns the most recent parse error, if any.
func (r *Recorder) LastError() string {
	return r.lastErr
}

func (r *Recorder) add(f Fix) error {
	t := f.Time.Truncate(time.Second)
	// Receivers report several sentences per epoch; a repeated second would
	// also be a zero time interval in the plot.
	if r.haveLast && t.Equal(r.last) {
		r.stats.Duplicates++
		return nil
	}
	if err := r.w.WriteSample(f.Timestamp(r.datePrefix), f.Sample()); err != nil {
		return err
	}
	r.last = t
	r.haveLast = true
	r.stats.Written++
	return nil
}

func (r *Recorder) invalid(err error) {
	// Keep the last error only; noise on the line is common.
	r.stats.Invalid++
	r.lastErr = err.Error()
}

// ReadNMEA records fixes from NMEA sentences until EOF or ctx is done.
func (r *Recorder) ReadNMEA(ctx context.Context, rd io.Reader) error {
	sc := bufio.NewScanner(rd)
	// NMEA sentences are typically < 82 chars, but allow some headroom.
	sc.Buffer(make([]byte, 0, 256), 4096)

	var st nmeaState
	// The last RMC of a capture may still be waiting for its GGA.
	flush := func() error {
		if f, ok := st.flush(); ok {
			return r.add(f)
		}
		return nil
	}
	for sc.Scan() {
		if ctx.Err() != nil {
			return flush()
		}
		line := strings.TrimSpace(sc.Text())
		// Some receivers include non-NMEA chatter; filter quickly.
		if !strings.HasPrefix(line, "$") {
			continue
		}
		sent, err := parseNMEASentence(line)
		if err != nil {
			r.invalid(err)
			continue
		}
		if f, ok := st.apply(sent); ok {
			if err := r.add(f); err != nil {
				return err
			}
		}
	}
	if err := flush(); err != nil {
		return err
	}
	if err := sc.Err(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("nmea read stopped: %w", err)
	}
	return nil
}

// ReadGPSD enables JSON reports on rw and records TPV fixes until EOF or ctx
// is done.
func (r *Recorder) ReadGPSD(ctx context.Context, rw io.ReadWriter) error {
	if err := gpsdWatch(rw); err != nil {
		return fmt.Errorf("gpsd watch failed: %w", err)
	}

	sc := bufio.NewScanner(rw)
	sc.Buffer(make([]byte, 0, 4096), 256*1024)

	var st gpsdState
	for sc.Scan() {
		if ctx.Err() != nil {
			return nil
		}
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		f, ok, err := st.applyLine(line)
		if err != nil {
			r.invalid(err)
			continue
		}
		if ok {
			if err := r.add(f); err != nil {
				return err
			}
		}
	}
	if err := sc.Err(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("gpsd read stopped: %w", err)
	}
	return nil
}

// Record captures from the configured source until ctx is done or the
// source ends.
func Record(ctx context.Context, cfg Config, w SampleWriter) (Stats, error) {
	rec := NewRecorder(w, cfg.DatePrefix)

	var (
		src io.ReadWriteCloser
		err error
	)
	addr := strings.TrimSpace(cfg.GPSDAddr)
	if addr != "" {
		src, err = dialGPSD(ctx, addr)
		if err != nil {
			return Stats{}, fmt.Errorf("gpsd dial failed addr=%s: %w", addr, err)
		}
		log.Printf("gps recording source=gpsd addr=%s", addr)
	} else {
		device := strings.TrimSpace(cfg.Device)
		if device == "" {
			device = autoDetectDevice()
			if device == "" {
				return Stats{}, fmt.Errorf("gps auto-detect failed: no /dev/ttyACM* or /dev/ttyUSB* found")
			}
		}
		baud := cfg.Baud
		if baud == 0 {
			baud = 9600
		}
		f, err := openSerial(device, baud)
		if err != nil {
			return Stats{}, fmt.Errorf("gps open failed device=%s baud=%d: %w", device, baud, err)
		}
		src = f
		log.Printf("gps recording source=nmea device=%s baud=%d", device, baud)
	}

	// Closing the source unblocks a pending read once ctx is done.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
		case <-done:
		}
		_ = src.Close()
	}()

	if addr != "" {
		err = rec.ReadGPSD(ctx, src)
	} else {
		err = rec.ReadNMEA(ctx, src)
	}
	if rec.LastError() != "" {
		log.Printf("gps recording invalid=%d last_error=%q", rec.Stats().Invalid, rec.LastError())
	}
	return rec.Stats(), err
}

func autoDetectDevice() string {
	for _, prefix := range []string{"/dev/ttyACM", "/dev/ttyUSB"} {
		for i := 0; i < 10; i++ {
			p := fmt.Sprintf("%s%d", prefix, i)
			if _, err := os.Stat(p); err == nil {
				return p
			}
		}
	}
	return ""
}
