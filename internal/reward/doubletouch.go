package reward

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/overdrive-rl/shaping/internal/sim"
)

// dtPhase is the double-touch sequence phase.
type dtPhase int

const (
	dtIdle    dtPhase = iota
	dtSetup           // first aerial touch made, waiting for a wall bounce
	dtBounced         // wall bounce classified, waiting for the second touch
)

// doubleTouchState is the per-agent sequence record.
type doubleTouchState struct {
	phase   dtPhase
	elapsed float64
	surface Surface
	touches int
}

// DoubleTouch detects the full two-touch wall play: an aerial touch that
// sends the ball into a wall, the bounce, and a second touch within the
// window. The terminal reward scales with which wall was used (side wall <
// own back wall < opponent back wall); ceiling bounces are punished, harder
// when the send was deliberate. The sequence resets to idle on goal, window
// expiry, or episode end, whichever comes first.
type DoubleTouch struct {
	MinHeight float64 // second-touch height for zero height score, uu
	MaxHeight float64 // second-touch height for full height score, uu
	Window    float64 // whole-sequence time limit, seconds

	CeilingPunishment            float64 // payout for an incidental ceiling bounce
	IntentionalCeilingPunishment float64 // payout for a deliberate ceiling send

	st table[doubleTouchState]
}

// NewDoubleTouch returns a double-touch detector with the documented
// defaults (300–1000 uu height band, 3.0 s window).
func NewDoubleTouch() *DoubleTouch {
	return &DoubleTouch{
		MinHeight:                    300,
		MaxHeight:                    1000,
		Window:                       3.0,
		CeilingPunishment:            -0.5,
		IntentionalCeilingPunishment: -1.0,
	}
}

func (d *DoubleTouch) Reset(agents []sim.AgentState) { d.st.reset(agents) }

// wallValue returns the base reward and multiplier for a bounce surface,
// from the attacking team's point of view. Ascending value: side wall, own
// back wall, opponent back wall.
func wallValue(surface Surface, team sim.Team) (base, mult float64) {
	ownBack := SurfaceBackBlue
	oppBack := SurfaceBackOrange
	if team == sim.Orange {
		ownBack, oppBack = oppBack, ownBack
	}
	switch surface {
	case SurfaceSide:
		return 0.5, 1.0
	case ownBack:
		return 0.75, 1.25
	case oppBack:
		return 1.0, 1.5
	default:
		return 0, 0
	}
}

func (d *DoubleTouch) Score(agent *sim.AgentState, snap *sim.Snapshot, isFinal bool) float64 {
	if snap.Prev == nil {
		return 0
	}
	st := d.st.get(agent.ID)

	// Terminal resets bound the sequence to one play.
	if st.phase != dtIdle {
		st.elapsed += snap.DeltaTime
		if st.elapsed > d.Window || snap.GoalScored || isFinal {
			*st = doubleTouchState{}
		}
	}

	switch st.phase {
	case dtIdle:
		if agent.TouchedStep && !agent.OnGround {
			st.phase = dtSetup
			st.elapsed = 0
			st.touches = 1
		}
		return 0

	case dtSetup:
		surface := ClassifyBounce(snap.Ball.Pos, snap.Prev.Ball.Vel, snap.Ball.Vel)
		if surface == SurfaceNone {
			return 0
		}
		if surface == SurfaceCeiling {
			punishment := d.CeilingPunishment
			if IntentionalCeiling(snap.Prev.Ball.Vel) {
				punishment = d.IntentionalCeilingPunishment
			}
			*st = doubleTouchState{}
			return punishment
		}
		st.phase = dtBounced
		st.surface = surface
		// Partial reward for completing the wall stage.
		return 0.1

	case dtBounced:
		if !agent.TouchedStep {
			return 0
		}
		st.touches++
		base, mult := wallValue(st.surface, agent.Team)
		heightScore := ramp(snap.Ball.Pos.Z, d.MinHeight, d.MaxHeight)
		alignBonus := maxf(0, goalAlignment(snap.Ball, agent.Team)) * 0.3
		touchMult := 1 + float64(st.touches-1)*0.2
		score := (base + heightScore*0.5 + alignBonus) * mult * touchMult
		*st = doubleTouchState{}
		return score
	}
	return 0
}

// setupTouchState is the per-agent record for the double-touch helper.
type setupTouchState struct {
	hasSetupTouch  bool
	timeSinceTouch float64
}

// DoubleTouchHelper rewards the first touch of a potential double touch:
// lofted, aerial, goal-ward touches pay the most. It guides the agent into
// positions DoubleTouch can then complete.
type DoubleTouchHelper struct {
	MinHeightForBonus float64 // uu; height bonus starts here
	MaxHeightForBonus float64 // uu; height bonus saturates here
	MaxTimeWindow     float64 // seconds a setup touch stays live

	st table[setupTouchState]
}

// NewDoubleTouchHelper returns a helper detector with the documented
// defaults (300–1200 uu, 3.0 s).
func NewDoubleTouchHelper() *DoubleTouchHelper {
	return &DoubleTouchHelper{MinHeightForBonus: 300, MaxHeightForBonus: 1200, MaxTimeWindow: 3.0}
}

func (d *DoubleTouchHelper) Reset(agents []sim.AgentState) { d.st.reset(agents) }

func (d *DoubleTouchHelper) Score(agent *sim.AgentState, snap *sim.Snapshot, _ bool) float64 {
	if snap.Prev == nil {
		return 0
	}
	st := d.st.get(agent.ID)

	if !agent.TouchedStep {
		if st.hasSetupTouch {
			st.timeSinceTouch += snap.DeltaTime
			if st.timeSinceTouch > d.MaxTimeWindow {
				*st = setupTouchState{}
			}
		}
		return 0
	}

	score := 0.2
	score += ramp(snap.Ball.Pos.Z, d.MinHeightForBonus, d.MaxHeightForBonus) * 0.5
	if !agent.OnGround {
		score += 0.4
	}
	score += maxf(0, goalAlignment(snap.Ball, agent.Team)) * 0.3
	if snap.Ball.Vel.Z > 200 {
		score += minf(0.3, (snap.Ball.Vel.Z-200)/800)
	}

	st.hasSetupTouch = true
	st.timeSinceTouch = 0
	return score
}

// trajectoryState is the per-agent record for the trajectory reward.
type trajectoryState struct {
	hasRecentTouch     bool
	timeSinceLastTouch float64
}

// DoubleTouchTrajectory continuously rewards keeping the ball on a
// double-touch-friendly arc after a touch: lofted, rising, goal-ward, with
// the agent close enough to follow up. The reward decays to zero over the
// window after the touch.
type DoubleTouchTrajectory struct {
	MinHeight         float64 // uu
	MaxHeight         float64 // uu
	MinUpwardVelocity float64 // uu/s
	DecayTime         float64 // seconds from touch to zero reward

	st table[trajectoryState]
}

// NewDoubleTouchTrajectory returns a trajectory detector with the
// documented defaults (300–1500 uu, 100 uu/s, 2.0 s).
func NewDoubleTouchTrajectory() *DoubleTouchTrajectory {
	return &DoubleTouchTrajectory{MinHeight: 300, MaxHeight: 1500, MinUpwardVelocity: 100, DecayTime: 2.0}
}

func (d *DoubleTouchTrajectory) Reset(agents []sim.AgentState) { d.st.reset(agents) }

func (d *DoubleTouchTrajectory) Score(agent *sim.AgentState, snap *sim.Snapshot, _ bool) float64 {
	if snap.Prev == nil {
		return 0
	}
	st := d.st.get(agent.ID)

	if agent.TouchedStep {
		st.hasRecentTouch = true
		st.timeSinceLastTouch = 0
	} else {
		st.timeSinceLastTouch += snap.DeltaTime
		if st.timeSinceLastTouch > d.DecayTime {
			st.hasRecentTouch = false
		}
	}
	if !st.hasRecentTouch {
		return 0
	}

	ballHeight := snap.Ball.Pos.Z
	if ballHeight < d.MinHeight || ballHeight > d.MaxHeight {
		return 0
	}

	// Height score peaks midway between the bounds.
	optimal := (d.MinHeight + d.MaxHeight) / 2
	maxDist := (d.MaxHeight - d.MinHeight) / 2
	heightScore := 1 - minf(1, math.Abs(ballHeight-optimal)/maxDist)

	upwardScore := 0.0
	if snap.Ball.Vel.Z > d.MinUpwardVelocity {
		upwardScore = minf(1, (snap.Ball.Vel.Z-d.MinUpwardVelocity)/500)
	}

	directionScore := maxf(0, goalAlignment(snap.Ball, agent.Team)) * 0.5

	proximityScore := 0.0
	if dist := speed(r3.Sub(snap.Ball.Pos, agent.Pos)); dist < 1000 {
		proximityScore = 1 - minf(1, dist/1000)
	}

	timeDecay := 1.0
	if st.timeSinceLastTouch > 0.5 {
		timeDecay = 1 - minf(1, (st.timeSinceLastTouch-0.5)/(d.DecayTime-0.5))
	}

	return (heightScore*0.4 + upwardScore*0.3 + directionScore*0.2 + proximityScore*0.1) * timeDecay
}
