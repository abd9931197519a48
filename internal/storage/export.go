package storage

import (
	"encoding/csv"
	"encoding/json"
	"io"

	"github.com/san-kum/nbody/internal/sim"
)

type ExportData struct {
	ID       string             `json:"id"`
	Source   string             `json:"source"`
	Bodies   []string           `json:"bodies"`
	Radius   float64            `json:"radius"`
	Dt       float64            `json:"dt"`
	Duration float64            `json:"duration"`
	Steps    int                `json:"steps"`
	Times    []float64          `json:"times"`
	States   [][]float64        `json:"states"`
	Metrics  map[string]float64 `json:"metrics"`
}

// ExportJSON writes a run's metadata and trajectory as one JSON document.
func ExportJSON(w io.Writer, meta *RunMetadata, states []sim.State, times []float64) error {
	data := ExportData{
		ID:       meta.ID,
		Source:   meta.Source,
		Bodies:   meta.Bodies,
		Radius:   meta.Radius,
		Dt:       meta.Dt,
		Duration: meta.Duration,
		Steps:    meta.Steps,
		Times:    times,
		States:   make([][]float64, len(states)),
		Metrics:  meta.Metrics,
	}

	for i, s := range states {
		data.States[i] = s
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// ExportCSV writes a run's trajectory with a named header.
func ExportCSV(w io.Writer, names []string, states []sim.State, times []float64) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(StateHeader(names)); err != nil {
		return err
	}
	for i, s := range states {
		row := make([]string, 0, len(s)+1)
		row = append(row, formatFloat(times[i]))
		for _, v := range s {
			row = append(row, formatFloat(v))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
