package track

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Log format: line-oriented, tab separated text.
//
// - Lines starting with '!' are comments.
// - Lines that are empty after trimming (or a single character) are ignored.
// - Data lines are: <timestamp>\t<lat dms>\t<lon dms>\t<height>
//   where timestamp is HH:MM:SS or "YYYY-MM-DD HH:MM:SS" (the date is dropped),
//   lat/lon are "<deg> <min> <sec>" and height is an integer.

// CommentPrefix marks a comment line in a track log.
const CommentPrefix = "!"

// Sample is one parsed track log line.
type Sample struct {
	Time   string // HH:MM:SS
	Lat    string // DMS
	Lon    string // DMS
	Height int
}

// String renders the sample as a track log line without the newline.
func (s Sample) String() string {
	return fmt.Sprintf("%s\t%s\t%s\t%d", s.Time, s.Lat, s.Lon, s.Height)
}

// FileError reports a failure to read or write a whole file.
type FileError struct {
	Op   string
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("unable to work with file %s: %s: %v", e.Path, e.Op, e.Err)
}

func (e *FileError) Unwrap() error { return e.Err }

type Reader struct {
	r io.Reader
}

func NewReader(r io.Reader) *Reader {
	return &Reader{r: r}
}

// ReadAll parses every sample in file order. On any malformed line it
// returns no samples.
func (rr *Reader) ReadAll() ([]Sample, error) {
	s := bufio.NewScanner(rr.r)
	s.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	samples := make([]Sample, 0, 1024)
	lineNo := 0
	for s.Scan() {
		lineNo++
		raw := s.Text()
		if strings.HasPrefix(raw, CommentPrefix) {
			continue
		}
		line := strings.TrimSpace(raw)
		if len(line) <= 1 {
			continue
		}

		sample, err := parseLine(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		samples = append(samples, sample)
	}
	if err := s.Err(); err != nil {
		return nil, err
	}

	return samples, nil
}

func parseLine(line string) (Sample, error) {
	fields := strings.Split(line, "\t")
	if len(fields) != 4 {
		return Sample{}, fmt.Errorf("invalid track line (want 4 tab separated fields, got %d): %q", len(fields), line)
	}

	ts := fields[0]
	if strings.Contains(ts, "-") {
		parts := strings.Split(ts, " ")
		if len(parts) < 2 {
			return Sample{}, fmt.Errorf("invalid track timestamp (date without time): %q", ts)
		}
		ts = parts[1]
	}

	h, err := strconv.Atoi(strings.TrimSpace(fields[3]))
	if err != nil {
		return Sample{}, fmt.Errorf("invalid track height %q: %w", fields[3], err)
	}

	return Sample{Time: ts, Lat: fields[1], Lon: fields[2], Height: h}, nil
}

// ReadFile parses the track log at path. Any failure is a *FileError.
func ReadFile(path string) ([]Sample, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &FileError{Op: "read", Path: path, Err: err}
	}
	defer f.Close()

	samples, err := NewReader(f).ReadAll()
	if err != nil {
		return nil, &FileError{Op: "read", Path: path, Err: err}
	}
	return samples, nil
}

// Writer appends samples to a track log.
type Writer struct {
	f      *os.File
	w      *bufio.Writer
	n      int
	closed bool
}

// CreateWriter truncates path and writes a leading comment line when
// comment is non-empty.
func CreateWriter(path, comment string) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, &FileError{Op: "write", Path: path, Err: err}
	}
	bw := bufio.NewWriterSize(f, 64*1024)
	if comment != "" {
		if _, err := bw.WriteString(CommentPrefix + " " + comment + "\n"); err != nil {
			_ = f.Close()
			return nil, &FileError{Op: "write", Path: path, Err: err}
		}
	}
	return &Writer{f: f, w: bw}, nil
}

// WriteSample writes one data line. timestamp overrides s.Time when set, so
// producers can keep the date prefix the parser strips.
func (ww *Writer) WriteSample(timestamp string, s Sample) error {
	if ww.closed {
		return errors.New("track writer is closed")
	}
	if timestamp != "" {
		s.Time = timestamp
	}
	if _, err := ww.w.WriteString(s.String() + "\n"); err != nil {
		return err
	}
	ww.n++
	return nil
}

// Count returns the number of samples written so far.
func (ww *Writer) Count() int {
	return ww.n
}

func (ww *Writer) Flush() error {
	if ww.closed {
		return nil
	}
	return ww.w.Flush()
}

func (ww *Writer) Close() error {
	if ww.closed {
		return nil
	}
	ww.closed = true
	if err := ww.w.Flush(); err != nil {
		_ = ww.f.Close()
		return err
	}
	return ww.f.Close()
}

// WriteFile writes samples to path in one go.
func WriteFile(path, comment string, samples []Sample) error {
	w, err := CreateWriter(path, comment)
	if err != nil {
		return err
	}
	for _, s := range samples {
		if err := w.WriteSample("", s); err != nil {
			_ = w.Close()
			return &FileError{Op: "write", Path: path, Err: err}
		}
	}
	if err := w.Close(); err != nil {
		return &FileError{Op: "write", Path: path, Err: err}
	}
	return nil
}
