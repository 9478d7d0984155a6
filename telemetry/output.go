// Package telemetry writes per-generation run statistics to CSV so an external
// visualization front end (outside this module's scope) can tail or replay a run
// without the evolution driver knowing anything about how that front end renders.
package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
)

// GenerationStat is a single row of per-species, per-generation telemetry: one row
// is written for every species every generation, so a viewer can chart each
// species' trajectory independently rather than only a population-wide average.
type GenerationStat struct {
	Generation      int     `csv:"generation"`
	SpeciesName     string  `csv:"species_name"`
	AverageFitness  float64 `csv:"average_fitness"`
	BestFitness     float64 `csv:"best_fitness"`
	PopulationSize  int     `csv:"population_size"`
	ReplacedWorst   bool    `csv:"replaced_worst"`
}

// Recorder appends GenerationStat rows to a CSV file, writing the header only once
// regardless of how many times Record is called across the run.
type Recorder struct {
	path          string
	file          *os.File
	headerWritten bool
}

// NewRecorder creates dir if necessary and opens (or creates) generations.csv inside
// it for appending.
func NewRecorder(dir string) (*Recorder, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("telemetry: creating output dir %q: %w", dir, err)
	}

	path := filepath.Join(dir, "generations.csv")
	_, statErr := os.Stat(path)
	alreadyExists := statErr == nil

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("telemetry: opening %q: %w", path, err)
	}

	return &Recorder{path: path, file: f, headerWritten: alreadyExists}, nil
}

// Record appends a single row, writing a header line first if this is the first row
// written to a fresh file.
func (r *Recorder) Record(stat GenerationStat) error {
	rows := []*GenerationStat{&stat}

	var content []byte
	var err error
	if r.headerWritten {
		content, err = gocsv.MarshalBytesWithoutHeaders(rows)
	} else {
		content, err = gocsv.MarshalBytes(rows)
		r.headerWritten = true
	}
	if err != nil {
		return fmt.Errorf("telemetry: marshaling row: %w", err)
	}

	if _, err := r.file.Write(content); err != nil {
		return fmt.Errorf("telemetry: writing to %q: %w", r.path, err)
	}
	return nil
}

// Close flushes and closes the underlying file.
func (r *Recorder) Close() error {
	return r.file.Close()
}
