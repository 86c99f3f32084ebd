package export

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phage-sim/phage-sim/sim/trace"
)

func TestTSVWriter_WritesSevenSeries(t *testing.T) {
	// GIVEN a writer over a temp prefix
	prefix := filepath.Join(t.TempDir(), "run1_")
	w, err := NewTSVWriter(prefix)
	require.NoError(t, err)

	// WHEN two observations are written and the writer closed
	require.NoError(t, w.Observe(trace.Observation{
		Time: 0.5, Phages: 4, Bacteria: 10,
		BacteriaSurface: 0.25, BacteriaEnzyme: 0.5,
		PhageSurface: 0.125, PhageEnzyme: 0.75, InfectedPercent: 10,
	}))
	require.NoError(t, w.Observe(trace.Observation{Time: 1.25, Phages: 3, Bacteria: 11, InfectedPercent: 0}))
	require.NoError(t, w.Close())

	// THEN each series file holds one "x\ty" line per observation
	want := map[trace.SeriesName]string{
		trace.SeriesPhages:          "0.5\t4\n1.25\t3\n",
		trace.SeriesBacteria:        "0.5\t10\n1.25\t11\n",
		trace.SeriesBacteriaSurface: "0.5\t0.25\n1.25\t0\n",
		trace.SeriesBacteriaEnzyme:  "0.5\t0.5\n1.25\t0\n",
		trace.SeriesPhageSurface:    "0.5\t0.125\n1.25\t0\n",
		trace.SeriesPhageEnzyme:     "0.5\t0.75\n1.25\t0\n",
		trace.SeriesInfected:        "0.5\t10\n1.25\t0\n",
	}
	for name, content := range want {
		data, err := os.ReadFile(SeriesPath(prefix, name))
		require.NoError(t, err, name)
		assert.Equal(t, content, string(data), name)
	}
}

func TestTSVWriter_FileNames(t *testing.T) {
	assert.Equal(t, "out/Lambda_Phage.txt", SeriesPath("out/", trace.SeriesPhages))
	assert.Equal(t, "bas_infected.txt", SeriesPath("", trace.SeriesInfected))
}

func TestTSVWriter_MissingDirectory(t *testing.T) {
	prefix := filepath.Join(t.TempDir(), "missing", "x_")

	w, err := NewTSVWriter(prefix)

	assert.Nil(t, w)
	assert.Error(t, err)
}
