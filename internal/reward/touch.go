package reward

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/overdrive-rl/shaping/internal/sim"
)

// KPHToVel converts km/h thresholds to uu/s.
const KPHToVel = 250.0 / 9.0

// Air rewards simply being airborne.
type Air struct{}

func NewAir() *Air { return &Air{} }

func (*Air) Reset([]sim.AgentState) {}

func (*Air) Score(agent *sim.AgentState, snap *sim.Snapshot, _ bool) float64 {
	if snap.Prev == nil {
		return 0
	}
	if agent.OnGround {
		return 0
	}
	return 1
}

// FaceBall rewards pointing the nose at the ball. The score is the cosine
// between the car's forward basis and the direction to the ball, so facing
// away is punished.
type FaceBall struct{}

func NewFaceBall() *FaceBall { return &FaceBall{} }

func (*FaceBall) Reset([]sim.AgentState) {}

func (*FaceBall) Score(agent *sim.AgentState, snap *sim.Snapshot, _ bool) float64 {
	if snap.Prev == nil {
		return 0
	}
	return alignment(agent.Forward, agent.Pos, snap.Ball.Pos)
}

// VelocityToBall rewards closing speed on the ball, normalized by the car's
// top speed. Moving away scores negative.
type VelocityToBall struct{}

func NewVelocityToBall() *VelocityToBall { return &VelocityToBall{} }

func (*VelocityToBall) Reset([]sim.AgentState) {}

func (*VelocityToBall) Score(agent *sim.AgentState, snap *sim.Snapshot, _ bool) float64 {
	if snap.Prev == nil {
		return 0
	}
	dir, ok := safeUnit(r3.Sub(snap.Ball.Pos, agent.Pos))
	if !ok {
		return 0
	}
	return r3.Dot(agent.Vel, dir) / sim.CarMaxSpeed
}

// StrongTouch rewards touches that change the ball's velocity. The change is
// normalized between MinChangeKPH and MaxChangeKPH.
type StrongTouch struct {
	MinChangeKPH float64
	MaxChangeKPH float64
}

// NewStrongTouch returns a strong-touch detector with the documented
// defaults (20–100 km/h of ball velocity change).
func NewStrongTouch() *StrongTouch {
	return &StrongTouch{MinChangeKPH: 20, MaxChangeKPH: 100}
}

func (*StrongTouch) Reset([]sim.AgentState) {}

func (d *StrongTouch) Score(agent *sim.AgentState, snap *sim.Snapshot, _ bool) float64 {
	if snap.Prev == nil || !agent.TouchedStep {
		return 0
	}
	delta := speed(r3.Sub(snap.Ball.Vel, snap.Prev.Ball.Vel))
	return ramp(delta, d.MinChangeKPH*KPHToVel, d.MaxChangeKPH*KPHToVel)
}

// TouchAccel rewards accelerating the ball on touch, normalized by the
// ball's top speed.
type TouchAccel struct{}

func NewTouchAccel() *TouchAccel { return &TouchAccel{} }

func (*TouchAccel) Reset([]sim.AgentState) {}

func (*TouchAccel) Score(agent *sim.AgentState, snap *sim.Snapshot, _ bool) float64 {
	if snap.Prev == nil || !agent.TouchedStep {
		return 0
	}
	delta := speed(r3.Sub(snap.Ball.Vel, snap.Prev.Ball.Vel))
	return minf(1, delta/sim.BallMaxSpeed)
}
