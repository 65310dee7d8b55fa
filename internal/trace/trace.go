// Package trace writes the per-tick diagnostic line.
//
// The text format prints one line per tick:
//
//	angle1: 1.5657963267948966 - angle2: 1.5707963267948966
//
// csv and json emit the full state plus energy, one record per tick.
package trace

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/san-kum/dpsim/internal/pendulum"
)

type Format string

const (
	FormatText Format = "text"
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

var ErrUnknownFormat = errors.New("trace: unknown format")

func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatText, FormatCSV, FormatJSON:
		return Format(s), nil
	}
	return "", fmt.Errorf("%w: %q (want text, csv or json)", ErrUnknownFormat, s)
}

// Record is one json line.
type Record struct {
	Tick      int     `json:"tick"`
	Angle1    float64 `json:"angle1"`
	Angle2    float64 `json:"angle2"`
	Velocity1 float64 `json:"velocity1"`
	Velocity2 float64 `json:"velocity2"`
	Energy    float64 `json:"energy"`
}

var csvHeader = []string{"tick", "angle1", "angle2", "velocity1", "velocity2", "energy"}

// Writer is a sim.Observer. Write errors are sticky: after the first one the
// writer drops further ticks and Err reports it.
type Writer struct {
	format  Format
	gravity float64
	every   int

	w   io.Writer
	csv *csv.Writer
	enc *json.Encoder

	header bool
	err    error
}

func NewWriter(w io.Writer, format Format, gravity float64) *Writer {
	tw := &Writer{format: format, gravity: gravity, every: 1, w: w}
	switch format {
	case FormatCSV:
		tw.csv = csv.NewWriter(w)
	case FormatJSON:
		tw.enc = json.NewEncoder(w)
	}
	return tw
}

// Every limits output to ticks divisible by n.
func (tw *Writer) Every(n int) *Writer {
	if n > 0 {
		tw.every = n
	}
	return tw
}

func (tw *Writer) OnTick(tick int, s pendulum.Snapshot) {
	if tw.err != nil || tick%tw.every != 0 {
		return
	}

	switch tw.format {
	case FormatCSV:
		tw.err = tw.writeCSV(tick, s)
	case FormatJSON:
		tw.err = tw.enc.Encode(Record{
			Tick:      tick,
			Angle1:    s.Angle1,
			Angle2:    s.Angle2,
			Velocity1: s.Velocity1,
			Velocity2: s.Velocity2,
			Energy:    pendulum.Energy(s, tw.gravity),
		})
	default:
		_, tw.err = fmt.Fprintln(tw.w, Line(s))
	}
}

func (tw *Writer) writeCSV(tick int, s pendulum.Snapshot) error {
	if !tw.header {
		if err := tw.csv.Write(csvHeader); err != nil {
			return err
		}
		tw.header = true
	}
	return tw.csv.Write([]string{
		strconv.Itoa(tick),
		formatFloat(s.Angle1),
		formatFloat(s.Angle2),
		formatFloat(s.Velocity1),
		formatFloat(s.Velocity2),
		formatFloat(pendulum.Energy(s, tw.gravity)),
	})
}

// Flush pushes buffered csv rows to the underlying writer and returns the
// first error seen.
func (tw *Writer) Flush() error {
	if tw.csv != nil {
		tw.csv.Flush()
		if tw.err == nil {
			tw.err = tw.csv.Error()
		}
	}
	return tw.err
}

func (tw *Writer) Err() error { return tw.err }

// Line formats the text diagnostic for s.
func Line(s pendulum.Snapshot) string {
	return "angle1: " + formatFloat(s.Angle1) + " - angle2: " + formatFloat(s.Angle2)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
