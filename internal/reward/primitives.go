package reward

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/overdrive-rl/shaping/internal/ballistics"
	"github.com/overdrive-rl/shaping/internal/sim"
)

// clamp01 clamps v into [0, 1].
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// ramp normalizes v into [0, 1] between lo and hi.
func ramp(v, lo, hi float64) float64 {
	if hi <= lo {
		return 0
	}
	return clamp01((v - lo) / (hi - lo))
}

// safeUnit returns the unit vector of v, or a zero vector and false when the
// magnitude is below epsilon. Callers treat the false case as "no bonus"
// rather than propagating NaN.
func safeUnit(v r3.Vec) (r3.Vec, bool) {
	n := r3.Norm(v)
	if n < ballistics.Epsilon {
		return r3.Vec{}, false
	}
	return r3.Scale(1/n, v), true
}

// alignment returns the cosine between v and the direction from `from` to
// `to`, or 0 when either vector is degenerate.
func alignment(v r3.Vec, from, to r3.Vec) float64 {
	dir, ok := safeUnit(r3.Sub(to, from))
	if !ok {
		return 0
	}
	vu, ok := safeUnit(v)
	if !ok {
		return 0
	}
	return r3.Dot(vu, dir)
}

// attackTargetZFraction places the aim point at 75% of the goal height,
// which tolerates crossbar-height arcs.
const attackTargetZFraction = 0.75

// goalAlignment returns the cosine between the ball velocity and the
// direction from the ball to the attacked goal mouth (aimed at 75% of goal
// height). 0 when the ball is stationary.
func goalAlignment(ball sim.BallState, team sim.Team) float64 {
	target := sim.AttackedGoalCenter(team)
	target.Z = sim.GoalHeight * attackTargetZFraction
	return alignment(ball.Vel, ball.Pos, target)
}

// cooldownGate debounces repeated awards for one agent. The zero value
// permits an immediate first award; afterwards ready() holds only once the
// configured cooldown has elapsed since the last fire().
type cooldownGate struct {
	armed     bool
	sinceLast float64
}

func (g *cooldownGate) advance(dt float64) {
	if g.armed {
		g.sinceLast += dt
	}
}

func (g *cooldownGate) ready(cooldown float64) bool {
	return !g.armed || g.sinceLast >= cooldown
}

func (g *cooldownGate) fire() {
	g.armed = true
	g.sinceLast = 0
}

// sustainMeter accumulates held time for one agent. With decay <= 0 the
// accumulator hard-resets to exactly 0 the tick the condition first fails;
// with decay in (0,1) it is multiplied by decay per non-qualifying tick.
// peak tracks the highest accumulated value and decays by peakDecay, which
// should be closer to 1 (slower) so a late award can still credit an
// earlier sustained run.
type sustainMeter struct {
	accum float64
	peak  float64
}

func (m *sustainMeter) advance(dt float64, holds bool, decay, peakDecay float64) {
	if holds {
		m.accum += dt
		if m.accum > m.peak {
			m.peak = m.accum
		}
		return
	}
	if decay <= 0 {
		m.accum = 0
	} else {
		m.accum *= decay
	}
	if peakDecay <= 0 {
		m.peak = 0
	} else {
		m.peak *= peakDecay
	}
}

// speed returns the magnitude of v.
func speed(v r3.Vec) float64 { return r3.Norm(v) }

// boostHeld reports whether the agent is applying boost above the feathering
// threshold and has boost to burn.
func boostHeld(a *sim.AgentState, threshold float64) bool {
	return a.Boost > 0 && a.LastInput.Boost > threshold
}

// maxf is shorthand for math.Max on two operands.
func maxf(a, b float64) float64 { return math.Max(a, b) }

// minf is shorthand for math.Min on two operands.
func minf(a, b float64) float64 { return math.Min(a, b) }
