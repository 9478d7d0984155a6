package telemetry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder_WritesHeaderOnce(t *testing.T) {
	dir := t.TempDir()

	r, err := NewRecorder(dir)
	require.NoError(t, err)

	require.NoError(t, r.Record(GenerationStat{Generation: 1, SpeciesName: "amber-falcon", BestFitness: 0.5, PopulationSize: 25}))
	require.NoError(t, r.Record(GenerationStat{Generation: 2, SpeciesName: "amber-falcon", BestFitness: 0.7, PopulationSize: 25, ReplacedWorst: true}))
	require.NoError(t, r.Close())

	contents, err := os.ReadFile(filepath.Join(dir, "generations.csv"))
	require.NoError(t, err)

	lines := splitLines(string(contents))
	require.Len(t, lines, 3) // header + 2 rows
	assert.Contains(t, lines[0], "generation")
	assert.Contains(t, lines[1], "1")
	assert.Contains(t, lines[2], "true")
}

func splitLines(s string) []string {
	var lines []string
	start := 0
	for i, c := range s {
		if c == '\n' {
			if i > start {
				lines = append(lines, s[start:i])
			}
			start = i + 1
		}
	}
	if start < len(s) {
		lines = append(lines, s[start:])
	}
	return lines
}

func TestNewRecorder_AppendsToExistingFile(t *testing.T) {
	dir := t.TempDir()

	r1, err := NewRecorder(dir)
	require.NoError(t, err)
	require.NoError(t, r1.Record(GenerationStat{Generation: 1}))
	require.NoError(t, r1.Close())

	r2, err := NewRecorder(dir)
	require.NoError(t, err)
	require.NoError(t, r2.Record(GenerationStat{Generation: 2}))
	require.NoError(t, r2.Close())

	contents, err := os.ReadFile(filepath.Join(dir, "generations.csv"))
	require.NoError(t, err)
	lines := splitLines(string(contents))
	assert.Len(t, lines, 3) // one header, two data rows, never a second header
}
