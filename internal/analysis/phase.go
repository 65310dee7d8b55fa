package analysis

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/dpsim/internal/pendulum"
)

// Quantity selects one evolving value of a snapshot.
type Quantity int

const (
	Angle1 Quantity = iota
	Angle2
	Velocity1
	Velocity2
)

var quantityNames = []string{"angle1", "angle2", "velocity1", "velocity2"}

func (q Quantity) String() string {
	if q < 0 || int(q) >= len(quantityNames) {
		return fmt.Sprintf("quantity(%d)", int(q))
	}
	return quantityNames[q]
}

// ParseQuantity accepts the names printed by String.
func ParseQuantity(s string) (Quantity, error) {
	for i, name := range quantityNames {
		if name == s {
			return Quantity(i), nil
		}
	}
	return 0, fmt.Errorf("unknown quantity: %s (want %s)", s, strings.Join(quantityNames, ", "))
}

func (q Quantity) of(s pendulum.Snapshot) float64 {
	switch q {
	case Angle2:
		return s.Angle2
	case Velocity1:
		return s.Velocity1
	case Velocity2:
		return s.Velocity2
	}
	return s.Angle1
}

type Point struct{ X, Y float64 }

// PhasePortrait is a 2D projection of a run.
type PhasePortrait struct {
	X, Y   Quantity
	Points []Point
}

// NewPhasePortrait projects states onto the x and y quantities. Non-finite
// states are dropped.
func NewPhasePortrait(states []pendulum.Snapshot, x, y Quantity) *PhasePortrait {
	portrait := &PhasePortrait{X: x, Y: y, Points: make([]Point, 0, len(states))}
	for _, s := range states {
		px, py := x.of(s), y.of(s)
		if math.IsNaN(px) || math.IsInf(px, 0) || math.IsNaN(py) || math.IsInf(py, 0) {
			continue
		}
		portrait.Points = append(portrait.Points, Point{X: px, Y: py})
	}
	return portrait
}

// NewPoincareSection records (angle2, velocity2) each time the inner rod
// passes through the downward vertical moving counterclockwise. Crossings are
// detected on sin(angle1), so they survive full turns.
func NewPoincareSection(states []pendulum.Snapshot) *PhasePortrait {
	section := &PhasePortrait{X: Angle2, Y: Velocity2, Points: make([]Point, 0)}
	for i := 1; i < len(states); i++ {
		prev, curr := math.Sin(states[i-1].Angle1), math.Sin(states[i].Angle1)
		if prev < 0 && curr >= 0 && math.Cos(states[i].Angle1) > 0 {
			section.Points = append(section.Points, Point{
				X: wrap(states[i].Angle2),
				Y: states[i].Velocity2,
			})
		}
	}
	return section
}

// wrap maps an angle into [-pi, pi).
func wrap(a float64) float64 {
	return a - 2*math.Pi*math.Floor((a+math.Pi)/(2*math.Pi))
}

// ASCII draws the points on a width x height character grid with axes
// through zero where they are visible.
func (p *PhasePortrait) ASCII(width, height int) string {
	if p == nil || len(p.Points) == 0 || width <= 1 || height <= 1 {
		return ""
	}

	minX, maxX := p.Points[0].X, p.Points[0].X
	minY, maxY := p.Points[0].Y, p.Points[0].Y
	for _, pt := range p.Points {
		minX = math.Min(minX, pt.X)
		maxX = math.Max(maxX, pt.X)
		minY = math.Min(minY, pt.Y)
		maxY = math.Max(maxY, pt.Y)
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	grid := make([][]rune, height)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(" ", width))
	}

	for _, pt := range p.Points {
		col := int((pt.X - minX) / rangeX * float64(width-1))
		row := height - 1 - int((pt.Y-minY)/rangeY*float64(height-1))
		if row >= 0 && row < height && col >= 0 && col < width {
			grid[row][col] = '•'
		}
	}

	if minX <= 0 && maxX >= 0 {
		col := int((0 - minX) / rangeX * float64(width-1))
		for row := 0; row < height; row++ {
			if grid[row][col] == ' ' {
				grid[row][col] = '│'
			}
		}
	}
	if minY <= 0 && maxY >= 0 {
		row := height - 1 - int((0-minY)/rangeY*float64(height-1))
		for col := 0; col < width; col++ {
			if grid[row][col] == ' ' {
				grid[row][col] = '─'
			}
		}
	}

	var sb strings.Builder
	for _, row := range grid {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}
