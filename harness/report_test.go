package harness

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVReportFormat(t *testing.T) {
	var buf bytes.Buffer
	r, err := NewCSVReport(&buf, true)
	require.NoError(t, err)

	require.NoError(t, r.Record(Result{Step: "reference", Size: 500, Tile: 10, Elapsed: 1234 * time.Millisecond}))
	require.NoError(t, r.Record(Result{Step: "step03", Size: 1000, Tile: 10, Elapsed: 25 * time.Millisecond, Deviation: 0.5}))

	want := "Step #, Size of Array, Size of Tiles, Time (Seconds), Error\n" +
		"reference, 500, 10, 1.23, 0.00000000000000000000\n" +
		"step03, 1000, 10, 0.03, 0.50000000000000000000\n"
	assert.Equal(t, want, buf.String())
}

func TestCSVReportNoHeader(t *testing.T) {
	var buf bytes.Buffer
	r, err := NewCSVReport(&buf, false)
	require.NoError(t, err)
	require.NoError(t, r.Record(Result{Step: "step01", Size: 3, Tile: 1}))
	assert.Equal(t, "step01, 3, 1, 0.00, 0.00000000000000000000\n", buf.String())
}

func TestOpenCSVReportAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.csv")

	for run := 0; run < 2; run++ {
		r, err := OpenCSVReport(path)
		require.NoError(t, err)
		require.NoError(t, r.Record(Result{Step: "step02", Size: 10 * (run + 1), Tile: 5, Elapsed: time.Second}))
		require.NoError(t, r.Close())
	}

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, ReportHeader, lines[0])
	assert.Equal(t, "step02, 10, 5, 1.00, 0.00000000000000000000", lines[1])
	assert.Equal(t, "step02, 20, 5, 1.00, 0.00000000000000000000", lines[2])

	// The single header table reads back as one run after the other.
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	got, err := ReadCSV(f)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, []int{10, 20}, []int{got[0].Size, got[1].Size})
}

func TestReadCSV(t *testing.T) {
	in := ReportHeader + "\n" +
		"reference, 500, 10, 0.12, 0.00000000000000000000\n" +
		"step01, 500, 10, 2.00, 0.00000000000000000000\n" +
		// A second run appended to the same file
		ReportHeader + "\n" +
		"step04, 1000, 10, 0.50, 0.00000000000000000012\n"

	got, err := ReadCSV(strings.NewReader(in))
	require.NoError(t, err)

	want := []Result{
		{Step: "reference", Size: 500, Tile: 10, Elapsed: 120 * time.Millisecond},
		{Step: "step01", Size: 500, Tile: 10, Elapsed: 2 * time.Second, GFLOPS: 0.125},
		{Step: "step04", Size: 1000, Tile: 10, Elapsed: 500 * time.Millisecond, Deviation: 1.2e-19, GFLOPS: 4},
	}
	opts := []cmp.Option{
		cmpopts.EquateApprox(0, 1e-9),
		cmpopts.IgnoreFields(Result{}, "Elapsed"),
	}
	// GFLOPS for the reference row depends on float rounding of 0.12s.
	want[0].GFLOPS = gflops(500, got[0].Elapsed)
	if diff := cmp.Diff(want, got, opts...); diff != "" {
		t.Errorf("ReadCSV mismatch (-want +got):\n%s", diff)
	}
	for i := range want {
		assert.InDelta(t, want[i].Elapsed.Seconds(), got[i].Seconds(), 1e-9)
	}
}

func TestReadCSVRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	r, err := NewCSVReport(&buf, true)
	require.NoError(t, err)

	in := []Result{
		{Step: "reference", Size: 4, Tile: 2, Elapsed: 10 * time.Millisecond},
		{Step: "step01", Size: 4, Tile: 2, Elapsed: 20 * time.Millisecond, Deviation: 3},
	}
	for _, res := range in {
		require.NoError(t, r.Record(res))
	}

	out, err := ReadCSV(&buf)
	require.NoError(t, err)
	require.Len(t, out, len(in))
	for i := range in {
		assert.Equal(t, in[i].Step, out[i].Step)
		assert.Equal(t, in[i].Size, out[i].Size)
		assert.Equal(t, in[i].Tile, out[i].Tile)
		assert.Equal(t, in[i].Deviation, out[i].Deviation)
		assert.InDelta(t, in[i].Seconds(), out[i].Seconds(), 0.005)
	}
}

func TestReadCSVErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"short row", "step01, 4, 2, 0.10\n"},
		{"bad size", "step01, four, 2, 0.10, 0\n"},
		{"bad tile", "step01, 4, x, 0.10, 0\n"},
		{"bad time", "step01, 4, 2, soon, 0\n"},
		{"bad error", "step01, 4, 2, 0.10, none\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadCSV(strings.NewReader(tt.in))
			assert.Error(t, err)
		})
	}
}
