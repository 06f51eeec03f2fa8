package plot

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gpsplot/internal/geo"
	"gpsplot/internal/track"
)

func twoSamples() []track.Sample {
	return []track.Sample{
		{Time: "12:00:00", Lat: "0 0 0", Lon: "0 0 0", Height: 100},
		{Time: "12:00:10", Lat: "0 0 0", Lon: "0 1 0", Height: 100},
	}
}

func TestBuild_FirstRowIsZero(t *testing.T) {
	rows, err := Build(twoSamples(), Options{})
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows=%d want 2", len(rows))
	}
	r := rows[0]
	if r.Index != 0 || r.SegmentKm != 0 || r.TotalKm != 0 || r.SpeedMS != 0 {
		t.Fatalf("unexpected first row: %+v", r)
	}
	if r.SegmentTime != "0:00:00" || r.TotalTime != "0:00:00" {
		t.Fatalf("unexpected first row times: %+v", r)
	}
	if got, want := r.String(), "0.\t0.000000\t0.000000\t0:00:00\t0:00:00\t0.000000\t100\t0 0 0\t0 0 0"; got != want {
		t.Fatalf("row=%q want %q", got, want)
	}
}

func TestBuild_SecondRow(t *testing.T) {
	rows, err := Build(twoSamples(), Options{})
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	r := rows[1]

	wantKm := geo.Distance(0, 0, 1.0/60, 0)
	if r.SegmentKm != wantKm {
		t.Fatalf("segment=%v want %v", r.SegmentKm, wantKm)
	}
	if r.TotalKm != wantKm {
		t.Fatalf("total=%v want %v", r.TotalKm, wantKm)
	}
	if r.SegmentTime != "0:00:10" || r.TotalTime != "0:00:10" {
		t.Fatalf("times=%q/%q want 0:00:10", r.SegmentTime, r.TotalTime)
	}
	if want := wantKm * 1000 / 10; r.SpeedMS != want {
		t.Fatalf("speed=%v want %v", r.SpeedMS, want)
	}

	want := fmt.Sprintf("1.\t%.6f\t%.6f\t0:00:10\t0:00:10\t%.6f\t100\t0 0 0\t0 1 0", wantKm, wantKm, wantKm*1000/10)
	if r.String() != want {
		t.Fatalf("row=%q want %q", r.String(), want)
	}
}

func TestBuild_OneArcSecond(t *testing.T) {
	samples := []track.Sample{
		{Time: "12:00:00", Lat: "0 0 0", Lon: "0 0 0", Height: 100},
		{Time: "12:00:10", Lat: "0 0 0", Lon: "0 0 1", Height: 100},
	}
	rows, err := Build(samples, Options{})
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	want := geo.Distance(0, 0, 1.0/3600, 0)
	if math.Abs(rows[1].SegmentKm-want) > 1e-15 {
		t.Fatalf("segment=%v want %v", rows[1].SegmentKm, want)
	}
	if math.Abs(rows[1].SpeedMS-want*1000/10) > 1e-12 {
		t.Fatalf("speed=%v want %v", rows[1].SpeedMS, want*100)
	}
}

func TestBuild_CumulativeMonotonic(t *testing.T) {
	samples := []track.Sample{
		{Time: "10:00:00", Lat: "50 50 0", Lon: "12 55 0", Height: 300},
		{Time: "10:00:05", Lat: "50 50 1", Lon: "12 55 0", Height: 301},
		{Time: "10:00:09", Lat: "50 50 1", Lon: "12 55 0", Height: 301},
		{Time: "10:01:09", Lat: "50 50 3", Lon: "12 55 2", Height: 305},
	}
	rows, err := Build(samples, Options{})
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	if len(rows) != len(samples) {
		t.Fatalf("rows=%d want %d", len(rows), len(samples))
	}
	for i := 1; i < len(rows); i++ {
		if rows[i].TotalKm < rows[i-1].TotalKm {
			t.Fatalf("total distance decreased at row %d", i)
		}
		if rows[i].Index != i {
			t.Fatalf("index=%d want %d", rows[i].Index, i)
		}
	}
	if rows[3].TotalTime != "0:01:09" {
		t.Fatalf("total time=%q want 0:01:09", rows[3].TotalTime)
	}
	if rows[2].SpeedMS != 0 {
		t.Fatalf("standing still speed=%v want 0", rows[2].SpeedMS)
	}
}

func TestBuild_ZeroIntervalFails(t *testing.T) {
	samples := []track.Sample{
		{Time: "12:00:00", Lat: "0 0 0", Lon: "0 0 0"},
		{Time: "12:00:00", Lat: "0 0 0", Lon: "0 1 0"},
	}
	_, err := Build(samples, Options{})
	if !errors.Is(err, ErrZeroInterval) {
		t.Fatalf("expected ErrZeroInterval, got %v", err)
	}
}

func TestBuild_ZeroIntervalZeroPolicy(t *testing.T) {
	samples := []track.Sample{
		{Time: "12:00:00", Lat: "0 0 0", Lon: "0 0 0"},
		{Time: "12:00:00", Lat: "0 0 0", Lon: "0 1 0"},
	}
	rows, err := Build(samples, Options{ZeroInterval: ZeroIntervalZero})
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	if rows[1].SpeedMS != 0 || rows[1].SegmentKm == 0 {
		t.Fatalf("unexpected row: %+v", rows[1])
	}
}

func TestBuild_UnknownPolicy(t *testing.T) {
	if _, err := Build(twoSamples(), Options{ZeroInterval: "skip"}); err == nil {
		t.Fatalf("expected error")
	}
}

func TestBuild_Faults(t *testing.T) {
	cases := map[string][]track.Sample{
		"BadDMS": {
			{Time: "12:00:00", Lat: "0 0", Lon: "0 0 0"},
			{Time: "12:00:10", Lat: "0 0 0", Lon: "0 0 0"},
		},
		"BadTime": {
			{Time: "12:00:00", Lat: "0 0 0", Lon: "0 0 0"},
			{Time: "12:00", Lat: "0 0 0", Lon: "0 0 0"},
		},
		"MidnightCrossing": {
			{Time: "23:59:50", Lat: "0 0 0", Lon: "0 0 0"},
			{Time: "00:00:05", Lat: "0 0 0", Lon: "0 0 1"},
		},
	}
	for name, samples := range cases {
		t.Run(name, func(t *testing.T) {
			rows, err := Build(samples, Options{})
			if err == nil {
				t.Fatalf("expected error, got rows %+v", rows)
			}
		})
	}
}

func TestBuild_SingleBadSampleIsNotConverted(t *testing.T) {
	// Coordinates are only converted for pairs, so a lone sample never faults.
	rows, err := Build([]track.Sample{{Time: "x", Lat: "bad", Lon: "bad", Height: 1}}, Options{})
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("rows=%d want 1", len(rows))
	}
}

func TestBuild_PadTimes(t *testing.T) {
	rows, err := Build(twoSamples(), Options{PadTimes: true})
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	if rows[0].SegmentTime != "00:00:00" || rows[1].TotalTime != "00:00:10" {
		t.Fatalf("times not padded: %+v %+v", rows[0], rows[1])
	}
}

func TestFormatAndWriteFile(t *testing.T) {
	lines, err := Format(twoSamples(), Options{})
	if err != nil {
		t.Fatalf("Format() error: %v", err)
	}

	path := filepath.Join(t.TempDir(), "gpsplot.gp")
	if err := os.WriteFile(path, []byte(strings.Repeat("stale row\n", 20)), 0o644); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}
	if err := WriteFile(path, lines); err != nil {
		t.Fatalf("plot.WriteFile() error: %v", err)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error: %v", err)
	}
	if !strings.HasSuffix(string(b), "\n") {
		t.Fatalf("output not newline terminated: %q", string(b))
	}
	got := strings.Split(strings.TrimSuffix(string(b), "\n"), "\n")
	if len(got) != len(lines) {
		t.Fatalf("lines=%d want %d", len(got), len(lines))
	}
	for i := range lines {
		if got[i] != lines[i] {
			t.Fatalf("line %d=%q want %q", i, got[i], lines[i])
		}
	}
}

func TestWriteFile_Error(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope", "gpsplot.gp")
	err := WriteFile(path, []string{"0."})
	var fe *track.FileError
	if !errors.As(err, &fe) {
		t.Fatalf("expected *track.FileError, got %T (%v)", err, err)
	}
	if fe.Op != "write" || fe.Path != path {
		t.Fatalf("unexpected FileError: %+v", fe)
	}
}
