package export

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/phage-sim/phage-sim/sim/trace"
)

// TSVWriter writes one "<time>\t<value>" line per observation to each of the
// series files "<prefix><series>.txt".
type TSVWriter struct {
	prefix string
	files  []*os.File
	bufs   []*bufio.Writer
	lines  int64
}

// SeriesPath returns the file a series is written to.
func SeriesPath(prefix string, name trace.SeriesName) string {
	return prefix + string(name) + ".txt"
}

// NewTSVWriter creates (truncating) every series file. On error, files
// opened so far are closed.
func NewTSVWriter(prefix string) (*TSVWriter, error) {
	w := &TSVWriter{prefix: prefix}
	for _, name := range trace.AllSeries {
		f, err := os.Create(SeriesPath(prefix, name))
		if err != nil {
			_ = w.Close()
			return nil, fmt.Errorf("create series %s: %w", name, err)
		}
		w.files = append(w.files, f)
		w.bufs = append(w.bufs, bufio.NewWriter(f))
	}
	return w, nil
}

// Observe appends obs to every series file.
func (w *TSVWriter) Observe(obs trace.Observation) error {
	x := strconv.FormatFloat(obs.Time, 'g', -1, 64)
	for i, name := range trace.AllSeries {
		y := strconv.FormatFloat(obs.Value(name), 'g', -1, 64)
		if _, err := w.bufs[i].WriteString(x + "\t" + y + "\n"); err != nil {
			return fmt.Errorf("write series %s: %w", name, err)
		}
	}
	w.lines++
	return nil
}

// Close flushes and closes every file, returning all errors encountered.
func (w *TSVWriter) Close() error {
	var errs []error
	for i, f := range w.files {
		if i < len(w.bufs) {
			errs = append(errs, w.bufs[i].Flush())
		}
		errs = append(errs, f.Close())
	}
	w.files, w.bufs = nil, nil
	if w.lines > 0 {
		logrus.Infof("Wrote %d points to %d series files with prefix %q", w.lines, len(trace.AllSeries), w.prefix)
	}
	return errors.Join(errs...)
}
