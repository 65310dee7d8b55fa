package render

import (
	"image/color"

	"github.com/san-kum/dpsim/internal/pendulum"
)

// Canvas receives draw commands in display coordinates (origin top-left,
// y down).
type Canvas interface {
	Clear(c color.Color)
	Line(from, to pendulum.Vec, weight float64, c color.Color)
	Disk(center pendulum.Vec, diameter float64, c color.Color)
}

type CommandKind int

const (
	CmdClear CommandKind = iota
	CmdLine
	CmdDisk
)

func (k CommandKind) String() string {
	switch k {
	case CmdClear:
		return "clear"
	case CmdLine:
		return "line"
	case CmdDisk:
		return "disk"
	}
	return "unknown"
}

// Command is one recorded draw call. From is the disk center for CmdDisk;
// Size is the line weight or disk diameter.
type Command struct {
	Kind     CommandKind
	From, To pendulum.Vec
	Size     float64
	Color    color.Color
}

// Recorder is a Canvas that keeps the commands of the current frame.
type Recorder struct {
	Commands []Command
}

func (r *Recorder) Clear(c color.Color) {
	r.Commands = append(r.Commands[:0], Command{Kind: CmdClear, Color: c})
}

func (r *Recorder) Line(from, to pendulum.Vec, weight float64, c color.Color) {
	r.Commands = append(r.Commands, Command{Kind: CmdLine, From: from, To: to, Size: weight, Color: c})
}

func (r *Recorder) Disk(center pendulum.Vec, diameter float64, c color.Color) {
	r.Commands = append(r.Commands, Command{Kind: CmdDisk, From: center, Size: diameter, Color: c})
}

// Replay issues the recorded commands to another canvas.
func (r *Recorder) Replay(c Canvas) {
	for _, cmd := range r.Commands {
		switch cmd.Kind {
		case CmdClear:
			c.Clear(cmd.Color)
		case CmdLine:
			c.Line(cmd.From, cmd.To, cmd.Size, cmd.Color)
		case CmdDisk:
			c.Disk(cmd.From, cmd.Size, cmd.Color)
		}
	}
}
