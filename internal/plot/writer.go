package plot

import (
	"bufio"
	"os"

	"gpsplot/internal/track"
)

// WriteFile writes each row followed by a newline, replacing path. A failure
// part way through can leave a partial file behind.
func WriteFile(path string, rows []string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return &track.FileError{Op: "write", Path: path, Err: err}
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = &track.FileError{Op: "write", Path: path, Err: cerr}
		}
	}()

	bw := bufio.NewWriterSize(f, 64*1024)
	for _, row := range rows {
		if _, err := bw.WriteString(row + "\n"); err != nil {
			return &track.FileError{Op: "write", Path: path, Err: err}
		}
	}
	if err := bw.Flush(); err != nil {
		return &track.FileError{Op: "write", Path: path, Err: err}
	}
	return nil
}
