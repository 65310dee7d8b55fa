package export

import (
	"encoding/json"
	"io"

	"github.com/san-kum/dpsim/internal/config"
	"github.com/san-kum/dpsim/internal/pendulum"
	"github.com/san-kum/dpsim/internal/sim"
)

// Report is the json summary of a headless run.
type Report struct {
	Config        *config.Config     `json:"config"`
	TicksTaken    int                `json:"ticks_taken"`
	Clamps        int                `json:"clamps"`
	SkippedFrames int                `json:"skipped_frames"`
	EnergyDrift   float64            `json:"energy_drift"`
	Metrics       map[string]float64 `json:"metrics"`
	Warnings      []string           `json:"warnings,omitempty"`
	Errors        []string           `json:"errors,omitempty"`
	Final         *pendulum.Snapshot `json:"final,omitempty"`
}

func NewReport(cfg *config.Config, result *sim.Result) Report {
	r := Report{
		Config:        cfg,
		TicksTaken:    result.TicksTaken,
		Clamps:        result.Clamps,
		SkippedFrames: result.SkippedFrames,
		EnergyDrift:   result.EnergyDrift,
		Metrics:       result.Metrics,
	}
	for _, w := range result.Warnings {
		r.Warnings = append(r.Warnings, w.Error())
	}
	for _, e := range result.Errors {
		r.Errors = append(r.Errors, e.Error())
	}
	if n := len(result.States); n > 0 {
		final := result.States[n-1]
		r.Final = &final
	}
	return r
}

func WriteJSON(w io.Writer, cfg *config.Config, result *sim.Result) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(NewReport(cfg, result))
}
