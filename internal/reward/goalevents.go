package reward

import (
	"github.com/overdrive-rl/shaping/internal/ballistics"
	"github.com/overdrive-rl/shaping/internal/sim"
)

// Goal pays 1 on the terminal tick when the agent's team scored.
type Goal struct{}

func NewGoal() *Goal { return &Goal{} }

func (*Goal) Reset([]sim.AgentState) {}

func (*Goal) Score(agent *sim.AgentState, snap *sim.Snapshot, isFinal bool) float64 {
	if snap.Prev == nil || !isFinal || !snap.GoalScored {
		return 0
	}
	if snap.ScoredBy(agent.Team) {
		return 1
	}
	return 0
}

// OwnGoal punishes the terminal tick of an own goal.
type OwnGoal struct {
	Punishment float64
}

// NewOwnGoal returns an own-goal detector with the documented −5 punishment.
func NewOwnGoal() *OwnGoal { return &OwnGoal{Punishment: -5} }

func (*OwnGoal) Reset([]sim.AgentState) {}

func (d *OwnGoal) Score(agent *sim.AgentState, snap *sim.Snapshot, isFinal bool) float64 {
	if snap.Prev == nil || !isFinal || !snap.GoalScored {
		return 0
	}
	if snap.ConcededBy(agent.Team) {
		return d.Punishment
	}
	return 0
}

// Bump pays 1 on the tick the agent bumps an opposing car. Intended for use
// behind a zero-sum transform so the victim's team mirrors the loss.
type Bump struct{}

func NewBump() *Bump { return &Bump{} }

func (*Bump) Reset([]sim.AgentState) {}

func (*Bump) Score(agent *sim.AgentState, snap *sim.Snapshot, _ bool) float64 {
	if snap.Prev == nil || !agent.BumpedOpponent {
		return 0
	}
	return 1
}

// Demo pays 1 on the tick the agent demolishes an opposing car.
type Demo struct{}

func NewDemo() *Demo { return &Demo{} }

func (*Demo) Reset([]sim.AgentState) {}

func (*Demo) Score(agent *sim.AgentState, snap *sim.Snapshot, _ bool) float64 {
	if snap.Prev == nil || !agent.DemoedOpponent {
		return 0
	}
	return 1
}

// Shot rewards a touch that puts the ball on target: the extrapolated ball
// path crosses the opponent goal mouth within Horizon seconds. Looser than
// the guaranteed-outcome predictor (no defender check); debounced so one
// shot pays once.
type Shot struct {
	Horizon  float64 // prediction window, seconds
	Margin   float64 // widening of the goal mouth, uu
	Cooldown float64 // minimum seconds between awards

	gates table[cooldownGate]
}

// NewShot returns a shot detector with a 3 s window and a 1 s debounce.
func NewShot() *Shot {
	return &Shot{Horizon: 3.0, Margin: sim.BallRadius, Cooldown: 1.0}
}

func (d *Shot) Reset(agents []sim.AgentState) { d.gates.reset(agents) }

func (d *Shot) Score(agent *sim.AgentState, snap *sim.Snapshot, _ bool) float64 {
	if snap.Prev == nil {
		return 0
	}
	g := d.gates.get(agent.ID)
	g.advance(snap.DeltaTime)
	if !agent.TouchedStep || !g.ready(d.Cooldown) {
		return 0
	}
	if !onTarget(snap.Ball, agent.Team, d.Horizon, d.Margin) {
		return 0
	}
	g.fire()
	return 1
}

// onTarget reports whether the ball's ballistic path crosses the goal mouth
// attacked by team within horizon seconds, widened by margin.
func onTarget(ball sim.BallState, team sim.Team, horizon, margin float64) bool {
	goalY := sim.AttackedGoalCenter(team).Y
	t, ok := ballistics.TimeToPlaneY(ball.Pos, ball.Vel, goalY, horizon)
	if !ok {
		return false
	}
	at := ballistics.PositionAt(ball.Pos, ball.Vel, t, sim.GravityZ)
	if at.X < -sim.GoalHalfWidth-margin || at.X > sim.GoalHalfWidth+margin {
		return false
	}
	if at.Z < 0 || at.Z > sim.GoalHeight+margin {
		return false
	}
	return true
}
