package harness

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/LynnColeArt/dgemm"
)

// ReportHeader is the first line of a CSV report.
const ReportHeader = "Step #, Size of Array, Size of Tiles, Time (Seconds), Error"

// CSVReport is an append-only CSV log of results. Each row is
// "step, size, tile, seconds, error" with the time at 2 decimal places and
// the deviation at 20.
type CSVReport struct {
	mu     sync.Mutex
	w      io.Writer
	closer io.Closer
}

// NewCSVReport writes rows to w, preceded by the header when writeHeader
// is set.
func NewCSVReport(w io.Writer, writeHeader bool) (*CSVReport, error) {
	r := &CSVReport{w: w}
	if writeHeader {
		if _, err := fmt.Fprintln(w, ReportHeader); err != nil {
			return nil, dgemm.NewExecutionError("NewCSVReport", "writing header", err)
		}
	}
	return r, nil
}

// OpenCSVReport opens path for appending, creating it if needed.
//
// The header is written once per file, when it is empty, rather than at the
// start of every run: repeated runs extend a single table that any CSV tool
// can load. Files that do repeat the header between runs are still accepted
// by ReadCSV, which skips every header line.
func OpenCSVReport(path string) (*CSVReport, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, dgemm.NewExecutionError("OpenCSVReport", "opening "+path, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, dgemm.NewExecutionError("OpenCSVReport", "stat "+path, err)
	}
	r, err := NewCSVReport(f, info.Size() == 0)
	if err != nil {
		f.Close()
		return nil, err
	}
	r.closer = f
	return r, nil
}

// Record implements Sink.
func (r *CSVReport) Record(res Result) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, err := fmt.Fprintf(r.w, "%s, %d, %d, %.2f, %.20f\n",
		res.Step, res.Size, res.Tile, res.Seconds(), res.Deviation)
	if err != nil {
		return dgemm.NewExecutionError("CSVReport", "writing row", err)
	}
	return nil
}

// Close closes the underlying file when the report owns one.
func (r *CSVReport) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer.Close()
}

// ReadCSV parses a report. Header lines may appear more than once, as
// happens when several runs append to one file. Only the columns of the
// report are populated.
func ReadCSV(in io.Reader) ([]Result, error) {
	cr := csv.NewReader(in)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = 5

	var results []Result
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return results, nil
		}
		if err != nil {
			return nil, fmt.Errorf("reading report: %w", err)
		}
		if rec[0] == "Step #" {
			continue
		}

		res, err := parseRow(rec)
		if err != nil {
			line, _ := cr.FieldPos(0)
			return nil, fmt.Errorf("report line %d: %w", line, err)
		}
		results = append(results, res)
	}
}

func parseRow(rec []string) (Result, error) {
	for i := range rec {
		rec[i] = strings.TrimSpace(rec[i])
	}
	size, err := strconv.Atoi(rec[1])
	if err != nil {
		return Result{}, fmt.Errorf("size: %w", err)
	}
	tile, err := strconv.Atoi(rec[2])
	if err != nil {
		return Result{}, fmt.Errorf("tile: %w", err)
	}
	seconds, err := strconv.ParseFloat(rec[3], 64)
	if err != nil {
		return Result{}, fmt.Errorf("time: %w", err)
	}
	deviation, err := strconv.ParseFloat(rec[4], 64)
	if err != nil {
		return Result{}, fmt.Errorf("error: %w", err)
	}
	elapsed := time.Duration(seconds * float64(time.Second))
	return Result{
		Step:      rec[0],
		Size:      size,
		Tile:      tile,
		Elapsed:   elapsed,
		Deviation: deviation,
		GFLOPS:    gflops(size, elapsed),
	}, nil
}
