package pendulum

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
)

func TestEndpoints(t *testing.T) {
	tests := []struct {
		name           string
		angle1, angle2 float64
		p1, p2         Vec
	}{
		{"hanging", 0, 0, Vec{0, 200}, Vec{0, 400}},
		{"horizontal", math.Pi / 2, math.Pi / 2, Vec{200, 0}, Vec{400, 0}},
		{"folded", 0, math.Pi, Vec{0, 200}, Vec{0, 0}},
		{"left", -math.Pi / 2, 0, Vec{-200, 0}, Vec{-200, 200}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := ReferenceParams()
			p.Angle1, p.Angle2 = tt.angle1, tt.angle2
			s, err := New(p)
			if err != nil {
				t.Fatal(err)
			}
			p1, p2 := Endpoints(s.Snapshot())
			if !vecNear(p1, tt.p1) {
				t.Errorf("expected endpoint 1 %v, got %v", tt.p1, p1)
			}
			if !vecNear(p2, tt.p2) {
				t.Errorf("expected endpoint 2 %v, got %v", tt.p2, p2)
			}
		})
	}
}

func TestVecIsFinite(t *testing.T) {
	if !(Vec{1, 2}).IsFinite() {
		t.Error("expected finite vec")
	}
	if (Vec{math.NaN(), 0}).IsFinite() || (Vec{0, math.Inf(1)}).IsFinite() {
		t.Error("expected non-finite vec")
	}
}

func TestEnergy(t *testing.T) {
	rest := Snapshot{Mass1: 40, Mass2: 40, Length1: 200, Length2: 200}
	if e := Energy(rest, 1); e != 0 {
		t.Errorf("expected zero energy at rest, got %f", e)
	}

	ref := mustNew(t, ReferenceParams()).Snapshot()
	// m1*g*l1 + m2*g*(l1+l2)
	if e := Energy(ref, 1); !scalar.EqualWithinAbs(e, 24000, 1e-9) {
		t.Errorf("expected energy 24000, got %f", e)
	}

	moving := rest
	moving.Velocity1 = 0.01
	// both masses move with speed l1*v1 = 2
	if e := Energy(moving, 1); !scalar.EqualWithinAbs(e, 0.5*40*4+0.5*40*4, 1e-9) {
		t.Errorf("expected kinetic energy 160, got %f", e)
	}
}

func vecNear(a, b Vec) bool {
	return scalar.EqualWithinAbs(a.X, b.X, 1e-9) && scalar.EqualWithinAbs(a.Y, b.Y, 1e-9)
}
