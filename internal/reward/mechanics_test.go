package reward

import (
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/overdrive-rl/shaping/internal/sim"
)

// hop flies the agent for airTicks ticks of dt, then lands it flipping at
// the given speed, returning the landing-tick score.
func hop(d *Wavedash, snap **sim.Snapshot, dt float64, airTicks int, landSpeed float64) float64 {
	for i := 0; i < airTicks; i++ {
		*snap = advance(*snap, dt, func(s *sim.Snapshot) {
			s.Agents[0].OnGround = false
			s.Agents[0].Pos = r3.Vec{Z: 300}
		})
		d.Score(&(*snap).Agents[0], *snap, false)
	}
	*snap = advance(*snap, dt, func(s *sim.Snapshot) {
		s.Agents[0].OnGround = true
		s.Agents[0].Pos = r3.Vec{Z: 17}
		s.Agents[0].Flipping = true
		s.Agents[0].Vel = r3.Vec{Y: landSpeed}
	})
	return d.Score(&(*snap).Agents[0], *snap, false)
}

// First qualifying wavedash pays immediately; a second inside the cooldown
// pays nothing; a third after the cooldown has elapsed pays again.
func TestWavedashCooldown(t *testing.T) {
	const dt = 0.1
	d := NewWavedash()
	agents := []sim.AgentState{testAgent(1, sim.Blue)}
	d.Reset(agents)
	snap := firstSnap(agents...)

	if got := hop(d, &snap, dt, 4, 800); got <= 0 {
		t.Fatalf("first wavedash: score = %v, want > 0", got)
	}
	// Second landing ~0.5s after the first: inside the 2.0s cooldown.
	if got := hop(d, &snap, dt, 4, 800); got != 0 {
		t.Fatalf("wavedash inside cooldown: score = %v, want 0", got)
	}
	// Stay airborne long enough for the cooldown to lapse, then land.
	if got := hop(d, &snap, dt, 19, 800); got <= 0 {
		t.Fatalf("wavedash after cooldown: score = %v, want > 0", got)
	}
}

func TestWavedashRequiresAirTimeAndFlip(t *testing.T) {
	const dt = 0.1
	d := NewWavedash()
	agents := []sim.AgentState{testAgent(1, sim.Blue)}
	d.Reset(agents)
	snap := firstSnap(agents...)

	// Too little air time.
	if got := hop(d, &snap, dt, 2, 800); got != 0 {
		t.Fatalf("short hop: score = %v, want 0", got)
	}

	// Enough air time but no active flip on landing.
	for i := 0; i < 4; i++ {
		snap = advance(snap, dt, func(s *sim.Snapshot) {
			s.Agents[0].OnGround = false
		})
		d.Score(&snap.Agents[0], snap, false)
	}
	snap = advance(snap, dt, func(s *sim.Snapshot) {
		s.Agents[0].OnGround = true
		s.Agents[0].Vel = r3.Vec{Y: 800}
	})
	if got := d.Score(&snap.Agents[0], snap, false); got != 0 {
		t.Fatalf("no flip on landing: score = %v, want 0", got)
	}
}

func TestPowerslide(t *testing.T) {
	d := NewPowerslide()
	agents := []sim.AgentState{testAgent(1, sim.Blue)}
	d.Reset(agents)

	slide := func(handbrake, yawRate, spd float64) float64 {
		snap := advance(firstSnap(agents...), 1.0/15.0, func(s *sim.Snapshot) {
			s.Agents[0].LastInput.Handbrake = handbrake
			s.Agents[0].AngVel = r3.Vec{Z: yawRate}
			s.Agents[0].Vel = r3.Vec{Y: spd}
		})
		return d.Score(&snap.Agents[0], snap, false)
	}

	if got := slide(1, 2.0, 1200); got <= 0 {
		t.Errorf("qualifying slide: score = %v, want > 0", got)
	}
	if got := slide(0, 2.0, 1200); got != 0 {
		t.Errorf("no handbrake: score = %v, want 0", got)
	}
	if got := slide(1, 0.5, 1200); got != 0 {
		t.Errorf("slow turn: score = %v, want 0", got)
	}
	if got := slide(1, 2.0, 300); got != 0 {
		t.Errorf("too slow: score = %v, want 0", got)
	}
}

func TestHalfFlip(t *testing.T) {
	const dt = 0.1
	d := NewHalfFlip()
	agents := []sim.AgentState{testAgent(1, sim.Blue)}
	d.Reset(agents)
	snap := firstSnap(agents...)

	// Reversing with a backward flip plus roll cancel.
	snap = advance(snap, dt, func(s *sim.Snapshot) {
		s.Agents[0].Vel = r3.Vec{Y: -600} // moving backward (forward is +Y)
		s.Agents[0].Flipping = true
		s.Agents[0].FlipTorque = r3.Vec{Y: -1}
	})
	if got := d.Score(&snap.Agents[0], snap, false); got != 0 {
		t.Fatalf("flip without roll yet: score = %v, want 0", got)
	}

	snap = advance(snap, dt, func(s *sim.Snapshot) {
		s.Agents[0].Vel = r3.Vec{Y: -300}
		s.Agents[0].Flipping = true
		s.Agents[0].FlipTorque = r3.Vec{Y: -1}
		s.Agents[0].LastInput.Roll = 1
	})
	got := d.Score(&snap.Agents[0], snap, false)
	// Inside the fast window: 0.5 * 1.5.
	if !approxEq(got, 0.75, 1e-9) {
		t.Fatalf("roll cancel: score = %v, want 0.75", got)
	}

	// Velocity reversed past 200 uu/s after 0.3s doubles the payout.
	snap = advance(snap, dt, func(s *sim.Snapshot) {
		s.Agents[0].Vel = r3.Vec{Y: 400}
		s.Agents[0].Flipping = true
		s.Agents[0].FlipTorque = r3.Vec{Y: -1}
		s.Agents[0].LastInput.Roll = 1
	})
	snap = advance(snap, dt, func(s *sim.Snapshot) {
		s.Agents[0].Vel = r3.Vec{Y: 500}
		s.Agents[0].Flipping = true
		s.Agents[0].FlipTorque = r3.Vec{Y: -1}
		s.Agents[0].LastInput.Roll = 1
	})
	d.Score(&snap.Agents[0], snap, false)
	snap = advance(snap, dt, func(s *sim.Snapshot) {
		s.Agents[0].Vel = r3.Vec{Y: 500}
		s.Agents[0].Flipping = true
		s.Agents[0].FlipTorque = r3.Vec{Y: -1}
		s.Agents[0].LastInput.Roll = 1
	})
	got = d.Score(&snap.Agents[0], snap, false)
	// Still inside the fast window (1.5x) with the reversal doubling.
	if !approxEq(got, 1.5, 1e-9) {
		t.Fatalf("reversal: score = %v, want 1.5", got)
	}
}

func TestDirectionalFlipExcludesBackflip(t *testing.T) {
	d := NewDirectionalFlip()
	agents := []sim.AgentState{testAgent(1, sim.Blue)}
	d.Reset(agents)

	flip := func(torqueY float64) float64 {
		dd := NewDirectionalFlip()
		dd.Reset(agents)
		snap := advance(firstSnap(agents...), 1.0/15.0, func(s *sim.Snapshot) {
			s.Agents[0].Flipping = true
			s.Agents[0].FlipTorque = r3.Vec{Y: torqueY}
			s.Agents[0].Vel = r3.Vec{Y: 1000}
		})
		return dd.Score(&snap.Agents[0], snap, false)
	}

	if got := flip(1); got <= 0 {
		t.Errorf("forward flip: score = %v, want > 0", got)
	}
	if got := flip(-1); got != 0 {
		t.Errorf("backward flip: score = %v, want 0 (handled by half flip)", got)
	}
	// Forward flips pay 20% over side flips.
	if f, s := flip(1), flip(0); !approxEq(f, s*1.2, 1e-9) {
		t.Errorf("forward bonus: %v vs side %v, want 1.2x", f, s)
	}
}

func TestFastAerial(t *testing.T) {
	d := NewFastAerial()
	agents := []sim.AgentState{testAgent(1, sim.Blue)}
	d.Reset(agents)

	snap := advance(firstSnap(agents...), 1.0/15.0, func(s *sim.Snapshot) {
		s.Ball.Pos = r3.Vec{Z: 800}
		s.Agents[0].OnGround = false
		s.Agents[0].DoubleJumped = true
		s.Agents[0].Vel = r3.Vec{Z: 600}
		s.Agents[0].LastInput.Boost = 1
	})
	got := d.Score(&snap.Agents[0], snap, false)
	if !approxEq(got, 0.3, 1e-9) {
		t.Errorf("fast aerial: score = %v, want 0.3 (0.5 * 600/1000)", got)
	}

	// A low ball is not worth the boost.
	snap = advance(snap, 1.0/15.0, func(s *sim.Snapshot) {
		s.Ball.Pos = r3.Vec{Z: 100}
		s.Agents[0].OnGround = false
		s.Agents[0].DoubleJumped = true
		s.Agents[0].Vel = r3.Vec{Z: 600}
		s.Agents[0].LastInput.Boost = 1
	})
	if got := d.Score(&snap.Agents[0], snap, false); got != 0 {
		t.Errorf("low ball: score = %v, want 0", got)
	}
}

func TestRecoveryLanding(t *testing.T) {
	const dt = 0.1
	d := NewRecoveryLanding()
	agents := []sim.AgentState{testAgent(1, sim.Blue)}
	d.Reset(agents)
	snap := firstSnap(agents...)

	for i := 0; i < 6; i++ {
		snap = advance(snap, dt, func(s *sim.Snapshot) {
			s.Agents[0].OnGround = false
		})
		d.Score(&snap.Agents[0], snap, false)
	}
	// Landing on the roof pays nothing.
	snap = advance(snap, dt, func(s *sim.Snapshot) {
		s.Agents[0].OnGround = true
		s.Agents[0].Up = r3.Vec{Z: -1}
		s.Agents[0].Vel = r3.Vec{Y: 900}
	})
	if got := d.Score(&snap.Agents[0], snap, false); got != 0 {
		t.Fatalf("roof landing: score = %v, want 0", got)
	}

	for i := 0; i < 6; i++ {
		snap = advance(snap, dt, func(s *sim.Snapshot) {
			s.Agents[0].OnGround = false
			s.Agents[0].Up = r3.Vec{Z: 1}
		})
		d.Score(&snap.Agents[0], snap, false)
	}
	snap = advance(snap, dt, func(s *sim.Snapshot) {
		s.Agents[0].OnGround = true
		s.Agents[0].Vel = r3.Vec{Y: 900}
	})
	if got := d.Score(&snap.Agents[0], snap, false); got <= 0 {
		t.Fatalf("wheels landing: score = %v, want > 0", got)
	}
}

func TestLandOnBoost(t *testing.T) {
	const dt = 0.1
	d := NewLandOnBoost()
	agents := []sim.AgentState{testAgent(1, sim.Blue)}
	d.Reset(agents)
	snap := firstSnap(agents...)

	for i := 0; i < 4; i++ {
		snap = advance(snap, dt, func(s *sim.Snapshot) {
			s.Agents[0].OnGround = false
			s.Agents[0].Pos = r3.Vec{X: 3584, Y: 0, Z: 400}
		})
		d.Score(&snap.Agents[0], snap, false)
	}
	// Land right on the big pad at (3584, 0, 73).
	snap = advance(snap, dt, func(s *sim.Snapshot) {
		s.Agents[0].OnGround = true
		s.Agents[0].Pos = r3.Vec{X: 3584, Y: 0, Z: 73}
	})
	got := d.Score(&snap.Agents[0], snap, false)
	if !approxEq(got, 1.5, 1e-9) {
		t.Fatalf("big-pad landing: score = %v, want 1.5 (0.5 * 3)", got)
	}
}
