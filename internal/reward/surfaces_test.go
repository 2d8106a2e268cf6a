package reward

import (
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func TestClassifyBounce(t *testing.T) {
	cases := []struct {
		name    string
		pos     r3.Vec
		prevVel r3.Vec
		vel     r3.Vec
		want    Surface
	}{
		{
			name: "side wall",
			pos:  r3.Vec{X: 3900, Y: 0, Z: 500},
			prevVel: r3.Vec{X: 800},
			vel:     r3.Vec{X: -800},
			want:    SurfaceSide,
		},
		{
			name: "orange back wall",
			pos:  r3.Vec{X: 0, Y: 4900, Z: 650},
			prevVel: r3.Vec{Y: 800},
			vel:     r3.Vec{Y: -800},
			want:    SurfaceBackOrange,
		},
		{
			name: "blue back wall",
			pos:  r3.Vec{X: 0, Y: -4900, Z: 650},
			prevVel: r3.Vec{Y: -800},
			vel:     r3.Vec{Y: 800},
			want:    SurfaceBackBlue,
		},
		{
			name: "ceiling",
			pos:  r3.Vec{X: 0, Y: 0, Z: 1900},
			prevVel: r3.Vec{Z: 600},
			vel:     r3.Vec{Z: -600},
			want:    SurfaceCeiling,
		},
		{
			name: "soft touch is not a bounce",
			pos:  r3.Vec{X: 3900, Y: 0, Z: 500},
			prevVel: r3.Vec{X: 200},
			vel:     r3.Vec{X: -200},
			want:    SurfaceNone,
		},
		{
			name: "open field deflection",
			pos:  r3.Vec{X: 0, Y: 0, Z: 500},
			prevVel: r3.Vec{X: 800},
			vel:     r3.Vec{X: -800},
			want:    SurfaceNone,
		},
		{
			name: "velocity did not flip",
			pos:  r3.Vec{X: 3900, Y: 0, Z: 500},
			prevVel: r3.Vec{X: 800},
			vel:     r3.Vec{X: 200, Y: 600},
			want:    SurfaceNone,
		},
	}
	for _, c := range cases {
		if got := ClassifyBounce(c.pos, c.prevVel, c.vel); got != c.want {
			t.Errorf("%s: classified %v, want %v", c.name, got, c.want)
		}
	}
}

// A corner contact satisfying two boundary checks resolves to exactly one
// class by priority: back wall beats side wall, ceiling beats both.
func TestClassifyBounceCornerPriority(t *testing.T) {
	pos := r3.Vec{X: 4000, Y: 5000, Z: 300}
	prevVel := r3.Vec{X: 500, Y: 600}
	vel := r3.Vec{X: -500, Y: -600}
	if got := ClassifyBounce(pos, prevVel, vel); got != SurfaceBackOrange {
		t.Errorf("back/side corner: classified %v, want back wall", got)
	}

	pos = r3.Vec{X: 0, Y: 5000, Z: 1900}
	prevVel = r3.Vec{Y: 600, Z: 400}
	vel = r3.Vec{Y: -600, Z: -400}
	if got := ClassifyBounce(pos, prevVel, vel); got != SurfaceCeiling {
		t.Errorf("ceiling/back corner: classified %v, want ceiling", got)
	}
}

func TestIntentionalCeiling(t *testing.T) {
	if !IntentionalCeiling(r3.Vec{X: 200, Y: 0, Z: 900}) {
		t.Error("steep climb should be intentional")
	}
	if IntentionalCeiling(r3.Vec{X: 1200, Y: 0, Z: 400}) {
		t.Error("shallow arc should be incidental")
	}
	if IntentionalCeiling(r3.Vec{X: 0, Y: 0, Z: -400}) {
		t.Error("falling ball cannot be a ceiling send")
	}
}

func TestSurfaceString(t *testing.T) {
	if got := SurfaceCeiling.String(); got != "ceiling" {
		t.Errorf("String() = %q", got)
	}
	if got := Surface(99).String(); got != "none" {
		t.Errorf("unknown surface String() = %q", got)
	}
}
