package reward

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/overdrive-rl/shaping/internal/ballistics"
	"github.com/overdrive-rl/shaping/internal/sim"
)

// Guaranteed-outcome thresholds. These are stricter than the shot-on-target
// heuristic because a false positive here directly rewards bad habits, like
// rolling the ball end-over-end on the goal line.
const (
	// openNetHorizon caps how far ahead a verdict may look, seconds.
	// Beyond it the play is too far out to be certain.
	openNetHorizon = 2.0

	// minScoringAxisVel is the minimum velocity component along the scoring
	// axis for any verdict, uu/s.
	minScoringAxisVel = 200.0

	// unsaveableSpeed is the minimum ball speed for a guaranteed verdict,
	// uu/s. Slower balls can be cleared off the line.
	unsaveableSpeed = 1000.0

	// openNetAlignment requires the velocity to head directly at the goal
	// center, not just generally toward it.
	openNetAlignment = 0.85

	// goalMouthMargin shrinks the goal opening for the extrapolation check,
	// uu. A ball this close to a post or the crossbar is not guaranteed.
	goalMouthMargin = sim.BallRadius
)

// OpenNetVerdict reports, conservatively, whether the ball is guaranteed to
// enter the goal attacked by team regardless of remaining opponent action.
// Every degenerate input resolves to "not guaranteed".
func OpenNetVerdict(snap *sim.Snapshot, team sim.Team) bool {
	ball := snap.Ball
	goal := sim.AttackedGoalCenter(team)

	// Non-trivial velocity along the scoring axis, toward the goal.
	if goal.Y > 0 {
		if ball.Vel.Y < minScoringAxisVel {
			return false
		}
	} else if ball.Vel.Y > -minScoringAxisVel {
		return false
	}

	eta, ok := ballistics.TimeToPlaneY(ball.Pos, ball.Vel, goal.Y, openNetHorizon)
	if !ok {
		return false
	}
	if speed(ball.Vel) < unsaveableSpeed {
		return false
	}

	at := ballistics.PositionAt(ball.Pos, ball.Vel, eta, sim.GravityZ)
	if math.Abs(at.X) > sim.GoalHalfWidth-goalMouthMargin {
		return false
	}
	if at.Z < 0 || at.Z > sim.GoalHeight-goalMouthMargin {
		return false
	}

	if alignment(ball.Vel, ball.Pos, goal) < openNetAlignment {
		return false
	}

	// Any opponent that could plausibly reach the arrival point voids the
	// verdict for the whole tick.
	for i := range snap.Agents {
		a := &snap.Agents[i]
		if a.Team != team.Opponent() || a.Demoed {
			continue
		}
		if ballistics.InterceptFeasible(a.Pos, speed(a.Vel), at, eta) {
			return false
		}
	}
	return true
}

// GuaranteedOutcome rewards a touch that leaves the ball in a guaranteed
// scoring state, and punishes a touch that leaves it guaranteed to enter
// the agent's own net. Debounced so one shot pays once.
type GuaranteedOutcome struct {
	Reward     float64
	Punishment float64
	Cooldown   float64 // seconds between awards

	gates table[cooldownGate]
}

// NewGuaranteedOutcome returns a detector paying +1/−1 with a 1 s debounce.
func NewGuaranteedOutcome() *GuaranteedOutcome {
	return &GuaranteedOutcome{Reward: 1, Punishment: -1, Cooldown: 1.0}
}

func (d *GuaranteedOutcome) Reset(agents []sim.AgentState) { d.gates.reset(agents) }

func (d *GuaranteedOutcome) Score(agent *sim.AgentState, snap *sim.Snapshot, _ bool) float64 {
	if snap.Prev == nil {
		return 0
	}
	g := d.gates.get(agent.ID)
	g.advance(snap.DeltaTime)
	if !agent.TouchedStep || !g.ready(d.Cooldown) {
		return 0
	}
	if OpenNetVerdict(snap, agent.Team) {
		g.fire()
		return d.Reward
	}
	if OpenNetVerdict(snap, agent.Team.Opponent()) {
		g.fire()
		return d.Punishment
	}
	return 0
}

// giveawayState tracks possession for the giveaway detector.
type giveawayState struct {
	lastToucher bool
	sinceTouch  float64
}

// GivingBallAway punishes low-value risk: touches that send the ball toward
// the agent's own net over a speed threshold, and possession lost to an
// opponent while the ball is already in the attacking half. Independent of
// the open-net logic so cheap giveaways are punished even when no goal is
// guaranteed.
type GivingBallAway struct {
	MinOwnGoalSpeed    float64 // uu/s toward own goal to punish a touch
	PossessionWindow   float64 // seconds an agent counts as last toucher
	TouchPunishment    float64
	TurnoverPunishment float64

	st table[giveawayState]
}

// NewGivingBallAway returns a giveaway detector with a 1000 uu/s own-goal
// speed threshold and a 1.0 s possession window.
func NewGivingBallAway() *GivingBallAway {
	return &GivingBallAway{
		MinOwnGoalSpeed:    1000,
		PossessionWindow:   1.0,
		TouchPunishment:    -1,
		TurnoverPunishment: -0.5,
	}
}

func (d *GivingBallAway) Reset(agents []sim.AgentState) { d.st.reset(agents) }

func (d *GivingBallAway) Score(agent *sim.AgentState, snap *sim.Snapshot, _ bool) float64 {
	if snap.Prev == nil {
		return 0
	}
	st := d.st.get(agent.ID)
	st.sinceTouch += snap.DeltaTime

	if agent.TouchedStep {
		st.lastToucher = true
		st.sinceTouch = 0

		// Own touch sending the ball goal-ward at speed is a giveaway no
		// matter what happens next.
		ownGoal := sim.GoalCenter(agent.Team)
		dir, ok := safeUnit(r3.Sub(ownGoal, snap.Ball.Pos))
		if ok && r3.Dot(snap.Ball.Vel, dir) > d.MinOwnGoalSpeed {
			return d.TouchPunishment
		}
		return 0
	}

	if !st.lastToucher || st.sinceTouch > d.PossessionWindow {
		st.lastToucher = false
		return 0
	}

	// Possession lost to an opponent in the attacking half.
	opponentTouched := false
	for i := range snap.Agents {
		if snap.Agents[i].Team != agent.Team && snap.Agents[i].TouchedStep {
			opponentTouched = true
			break
		}
	}
	if !opponentTouched {
		return 0
	}
	inAttackingHalf := sim.TeamFromY(snap.Ball.Pos.Y) == agent.Team.Opponent()
	st.lastToucher = false
	if inAttackingHalf {
		return d.TurnoverPunishment
	}
	return 0
}
