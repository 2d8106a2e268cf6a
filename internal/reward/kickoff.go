package reward

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/overdrive-rl/shaping/internal/sim"
)

// Kickoff detection thresholds: the ball sits at center, essentially
// stationary, until the first contact.
const (
	kickoffBallRadius   = 500.0 // uu from the origin
	kickoffBallHeight   = 100.0 // uu above the ground
	kickoffBallMaxSpeed = 100.0 // uu/s to still count as stationary
	kickoffBallGone     = 500.0 // uu/s of ball speed ends the kickoff phase
)

// ballAtKickoff reports whether the ball is in its kickoff spot.
func ballAtKickoff(ball sim.BallState) bool {
	return speed(ball.Pos) < kickoffBallRadius &&
		math.Abs(ball.Pos.Z) < kickoffBallHeight &&
		speed(ball.Vel) < kickoffBallMaxSpeed
}

// kickoffClock tracks one agent's view of the current kickoff.
type kickoffClock struct {
	active  bool
	elapsed float64
}

// KickoffSpeedFlip shapes the approach to the ball during kickoffs: fast,
// straight, boosting, flipping. Dawdling without a flip is punished, harder
// the longer it lasts.
type KickoffSpeedFlip struct {
	MaxKickoffTime float64 // seconds before the kickoff phase expires
	MinSpeed       float64 // uu/s below which the approach is too slow

	st table[kickoffClock]
}

// NewKickoffSpeedFlip returns a kickoff detector with the documented
// defaults (3.0 s window, 1000 uu/s).
func NewKickoffSpeedFlip() *KickoffSpeedFlip {
	return &KickoffSpeedFlip{MaxKickoffTime: 3.0, MinSpeed: 1000}
}

func (d *KickoffSpeedFlip) Reset(agents []sim.AgentState) { d.st.reset(agents) }

func (d *KickoffSpeedFlip) Score(agent *sim.AgentState, snap *sim.Snapshot, _ bool) float64 {
	if snap.Prev == nil {
		return 0
	}
	st := d.st.get(agent.ID)

	if ballAtKickoff(snap.Ball) {
		st.active = true
		st.elapsed = 0
	} else if st.active {
		st.elapsed += snap.DeltaTime
		if st.elapsed > d.MaxKickoffTime || speed(snap.Ball.Vel) > kickoffBallGone {
			st.active = false
		}
	}
	if !st.active || !agent.OnGround {
		return 0
	}

	spd := speed(agent.Vel)

	// Slow and not flipping: punishment grows over the kickoff window.
	if !agent.Flipping && spd < d.MinSpeed {
		t := st.elapsed / d.MaxKickoffTime
		return -0.2 * (0.5 + t)
	}
	if spd < d.MinSpeed {
		return 0
	}

	dir, ok := safeUnit(r3.Sub(snap.Ball.Pos, agent.Pos))
	if !ok {
		return 0
	}
	towardBall := r3.Dot(agent.Vel, dir)

	// Require mostly driving at the ball, not sideways.
	if towardBall/spd < 0.6 {
		return 0
	}

	score := minf(1, towardBall/sim.CarMaxSpeed)
	if boostHeld(agent, 0.1) {
		score += 0.2
	}
	if spd > 1500 {
		score += 0.2
	}
	if spd > 2000 {
		score += 0.3
	}
	if agent.Flipping {
		score *= 1.5
	}
	if agent.Prev != nil && snap.DeltaTime > 0 {
		accel := (spd - speed(agent.Prev.Vel)) / snap.DeltaTime
		if accel > 2000 {
			score *= 1.3
		}
	}
	return score * 0.5
}

// firstTouchState is the per-agent record for the first-touch reward.
type firstTouchState struct {
	kickoff  kickoffClock
	got      bool // won the first touch this kickoff
	rewarded bool
	tracking bool // still inside the early-concede window
}

// KickoffFirstTouch pays a large one-time reward for winning the first
// touch of a kickoff, and claws most of it back if the agent's team
// concedes within the early window, so winning the touch badly is worth
// little.
type KickoffFirstTouch struct {
	RewardMagnitude     float64
	PunishmentMagnitude float64
	EarlyConcedeWindow  float64 // seconds after kickoff start
	MaxKickoffTime      float64 // seconds the touch still counts as first

	st table[firstTouchState]
}

// NewKickoffFirstTouch returns a first-touch detector with the documented
// defaults (reward 100, punishment 60, 8.0 s concede window, 5.0 s kickoff).
func NewKickoffFirstTouch() *KickoffFirstTouch {
	return &KickoffFirstTouch{
		RewardMagnitude:     100,
		PunishmentMagnitude: 60,
		EarlyConcedeWindow:  8.0,
		MaxKickoffTime:      5.0,
	}
}

func (d *KickoffFirstTouch) Reset(agents []sim.AgentState) { d.st.reset(agents) }

func (d *KickoffFirstTouch) Score(agent *sim.AgentState, snap *sim.Snapshot, isFinal bool) float64 {
	if snap.Prev == nil {
		return 0
	}
	st := d.st.get(agent.ID)
	score := 0.0

	if ballAtKickoff(snap.Ball) && !st.kickoff.active {
		*st = firstTouchState{kickoff: kickoffClock{active: true}, tracking: true}
	}

	if st.tracking {
		st.kickoff.elapsed += snap.DeltaTime
		if st.kickoff.elapsed > d.EarlyConcedeWindow {
			*st = firstTouchState{}
		}
	}

	// The kickoff phase ends early once the ball is away, but the concede
	// clock keeps running.
	if st.kickoff.active {
		if st.kickoff.elapsed > d.MaxKickoffTime || speed(snap.Ball.Vel) > kickoffBallGone {
			st.kickoff.active = false
		}
	}

	if st.kickoff.active && agent.TouchedStep && !st.rewarded {
		st.got = true
		st.rewarded = true
		score = d.RewardMagnitude
	}

	if isFinal && snap.GoalScored &&
		snap.ConcededBy(agent.Team) &&
		st.got && st.tracking && st.kickoff.elapsed <= d.EarlyConcedeWindow {
		score -= d.PunishmentMagnitude
		st.tracking = false
	}
	return score
}
