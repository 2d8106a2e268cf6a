package reward

import (
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/overdrive-rl/shaping/internal/sim"
)

// openNetSnap puts the ball just outside the Orange goal, flying straight
// in, fast enough to be unsaveable.
func openNetSnap(agents ...sim.AgentState) *sim.Snapshot {
	snap := firstSnap(agents...)
	snap.Ball = sim.BallState{
		Pos: r3.Vec{Y: 4000, Z: 200},
		Vel: r3.Vec{Y: 1500},
	}
	return snap
}

func TestOpenNetVerdictCleanShot(t *testing.T) {
	snap := openNetSnap(testAgent(1, sim.Blue))
	if !OpenNetVerdict(snap, sim.Blue) {
		t.Fatal("unsaveable ball with no defenders should be a guaranteed goal")
	}
	if OpenNetVerdict(snap, sim.Orange) {
		t.Fatal("the same ball is not guaranteed for the defending team")
	}
}

// A defender anywhere near the line voids the verdict, even stationary: the
// predictor credits every defender with half of top speed.
func TestOpenNetVerdictDefenderOnLine(t *testing.T) {
	keeper := testAgent(2, sim.Orange)
	keeper.Pos = r3.Vec{Y: 5000, Z: 17}
	snap := openNetSnap(testAgent(1, sim.Blue), keeper)
	if OpenNetVerdict(snap, sim.Blue) {
		t.Fatal("a goal-line defender must void the verdict")
	}

	// A demolished defender cannot defend.
	snap.Agents[1].Demoed = true
	if !OpenNetVerdict(snap, sim.Blue) {
		t.Fatal("a demolished defender should not void the verdict")
	}
}

func TestOpenNetVerdictFarDefender(t *testing.T) {
	straggler := testAgent(2, sim.Orange)
	straggler.Pos = r3.Vec{Y: -5000, Z: 17}
	snap := openNetSnap(testAgent(1, sim.Blue), straggler)
	if !OpenNetVerdict(snap, sim.Blue) {
		t.Fatal("a defender a full field away cannot reach the ball")
	}
}

func TestOpenNetVerdictConservativeGates(t *testing.T) {
	mut := func(f func(*sim.BallState)) *sim.Snapshot {
		snap := openNetSnap(testAgent(1, sim.Blue))
		f(&snap.Ball)
		return snap
	}

	// Too slow to be unsaveable.
	if OpenNetVerdict(mut(func(b *sim.BallState) { b.Vel = r3.Vec{Y: 600} }), sim.Blue) {
		t.Error("a slow roller is never guaranteed")
	}
	// Rolling away from the goal.
	if OpenNetVerdict(mut(func(b *sim.BallState) { b.Vel = r3.Vec{Y: -1500} }), sim.Blue) {
		t.Error("a ball moving away is never guaranteed")
	}
	// Heading at the post, outside the shrunken mouth.
	if OpenNetVerdict(mut(func(b *sim.BallState) {
		b.Pos.X = sim.GoalHalfWidth - 20
		b.Vel = r3.Vec{Y: 1500}
	}), sim.Blue) {
		t.Error("a ball arriving at the post is not guaranteed")
	}
	// Too far out for the horizon.
	if OpenNetVerdict(mut(func(b *sim.BallState) {
		b.Pos.Y = -2000
		b.Vel = r3.Vec{Y: 1500}
	}), sim.Blue) {
		t.Error("a ball beyond the horizon is not guaranteed")
	}
	// Fast but crossing the mouth diagonally.
	if OpenNetVerdict(mut(func(b *sim.BallState) {
		b.Vel = r3.Vec{X: 1400, Y: 600}
	}), sim.Blue) {
		t.Error("a poorly aligned ball is not guaranteed")
	}
}

func TestGuaranteedOutcome(t *testing.T) {
	d := NewGuaranteedOutcome()
	shooter := testAgent(1, sim.Blue)
	agents := []sim.AgentState{shooter}
	d.Reset(agents)

	snap := advance(openNetSnap(shooter), 0.1, func(s *sim.Snapshot) {
		s.Agents[0].TouchedStep = true
	})
	if got := d.Score(&snap.Agents[0], snap, false); got != d.Reward {
		t.Fatalf("guaranteed shot: score = %v, want %v", got, d.Reward)
	}

	// Debounced: the same state next tick pays nothing.
	snap = advance(snap, 0.1, func(s *sim.Snapshot) {
		s.Agents[0].TouchedStep = true
	})
	if got := d.Score(&snap.Agents[0], snap, false); got != 0 {
		t.Fatalf("inside debounce: score = %v, want 0", got)
	}
}

func TestGuaranteedOutcomeOwnNet(t *testing.T) {
	d := NewGuaranteedOutcome()
	agents := []sim.AgentState{testAgent(1, sim.Orange)}
	d.Reset(agents)

	// The Orange agent's touch leaves the ball guaranteed for Blue.
	snap := advance(openNetSnap(agents[0]), 0.1, func(s *sim.Snapshot) {
		s.Agents[0].TouchedStep = true
	})
	if got := d.Score(&snap.Agents[0], snap, false); got != d.Punishment {
		t.Fatalf("own-net touch: score = %v, want %v", got, d.Punishment)
	}
}

func TestGivingBallAwayTouch(t *testing.T) {
	d := NewGivingBallAway()
	agents := []sim.AgentState{testAgent(1, sim.Orange)}
	d.Reset(agents)

	// Orange smashes the ball at its own (positive-Y) net.
	snap := advance(firstSnap(agents...), 0.1, func(s *sim.Snapshot) {
		s.Agents[0].TouchedStep = true
		s.Ball.Pos = r3.Vec{Y: 2000, Z: 100}
		s.Ball.Vel = r3.Vec{Y: 1800}
	})
	if got := d.Score(&snap.Agents[0], snap, false); got != d.TouchPunishment {
		t.Fatalf("own-goal-ward blast: score = %v, want %v", got, d.TouchPunishment)
	}

	// The same blast toward the opponent is fine.
	d.Reset(agents)
	snap = advance(firstSnap(agents...), 0.1, func(s *sim.Snapshot) {
		s.Agents[0].TouchedStep = true
		s.Ball.Pos = r3.Vec{Y: 2000, Z: 100}
		s.Ball.Vel = r3.Vec{Y: -1800}
	})
	if got := d.Score(&snap.Agents[0], snap, false); got != 0 {
		t.Fatalf("clearing blast: score = %v, want 0", got)
	}
}

func TestGivingBallAwayTurnover(t *testing.T) {
	const dt = 0.1
	d := NewGivingBallAway()
	agents := []sim.AgentState{testAgent(1, sim.Blue), testAgent(2, sim.Orange)}
	d.Reset(agents)
	snap := firstSnap(agents...)

	// Blue touches in the attacking half, gently.
	snap = advance(snap, dt, func(s *sim.Snapshot) {
		s.Agents[0].TouchedStep = true
		s.Ball.Pos = r3.Vec{Y: 3000, Z: 100}
		s.Ball.Vel = r3.Vec{Y: 300}
	})
	if got := d.Score(&snap.Agents[0], snap, false); got != 0 {
		t.Fatalf("possession touch: score = %v, want 0", got)
	}

	// The opponent takes it within the possession window.
	snap = advance(snap, dt, func(s *sim.Snapshot) {
		s.Agents[1].TouchedStep = true
	})
	if got := d.Score(&snap.Agents[0], snap, false); got != d.TurnoverPunishment {
		t.Fatalf("turnover: score = %v, want %v", got, d.TurnoverPunishment)
	}

	// Consumed: no double punishment on a second opponent touch.
	snap = advance(snap, dt, func(s *sim.Snapshot) {
		s.Agents[1].TouchedStep = true
	})
	if got := d.Score(&snap.Agents[0], snap, false); got != 0 {
		t.Fatalf("after turnover: score = %v, want 0", got)
	}
}
