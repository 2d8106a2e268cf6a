package reward

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/overdrive-rl/shaping/internal/sim"
)

const (
	// optimalArcHeight is the ideal peak of an air-dribble arc: 75% of the
	// way from the ground to the ceiling.
	optimalArcHeight = 1533.0

	// featherWindow is how long after releasing boost an agent is still
	// treated as boosting, tolerating feathered input, seconds.
	featherWindow = 0.3

	// minDribbleAlignment gates aerial-control rewards on the ball heading
	// at the opponent goal.
	minDribbleAlignment = 0.3
)

// boostClock tracks how recently an agent applied boost, for feathering
// tolerance. The zero value means boost was never applied.
type boostClock struct {
	armed bool
	since float64
}

// update advances the clock and reports whether boost is considered held:
// applied this tick, or applied within featherWindow.
func (c *boostClock) update(agent *sim.AgentState, dt float64) bool {
	if agent.LastInput.Boost > 0.1 {
		c.armed = true
		c.since = 0
		return true
	}
	if !c.armed {
		return false
	}
	c.since += dt
	return c.since < featherWindow
}

// aerialControlHolds reports whether the agent is in a valid aerial ball
// control posture: airborne, touching the ball, below it, ball ascending,
// and the ball heading at the opponent goal. The alignment gate is skipped
// on the goal-scored tick so a finish is never penalized for its last arc.
func aerialControlHolds(agent *sim.AgentState, snap *sim.Snapshot) (bool, float64) {
	align := goalAlignment(snap.Ball, agent.Team)
	holds := !agent.OnGround &&
		(agent.TouchedStep || agent.TouchedTick) &&
		agent.Pos.Z < snap.Ball.Pos.Z &&
		snap.Ball.Vel.Z > 0
	if align < minDribbleAlignment && !snap.GoalScored {
		holds = false
	}
	return holds, align
}

// durationMultiplier scales a sustained-control reward: control for one full
// interval adds 50%.
func durationMultiplier(accum, interval float64) float64 {
	return 1 + (accum/interval)*0.5
}

// airDribbleState is the per-agent record for the main air-dribble reward.
type airDribbleState struct {
	active      bool
	controlTime float64
	peakHeight  float64
	touches     int
	boost       boostClock
}

// AirDribble is the main sustained aerial-control reward. While the agent
// keeps the ball up with boost applied (feathering allowed), every tick pays
// the goal alignment scaled by three multipliers: arc optimality against
// optimalArcHeight, touch count, and control duration. Control hard-resets
// the tick the posture lapses.
type AirDribble struct {
	Interval float64 // duration-multiplier interval, seconds

	st table[airDribbleState]
}

// NewAirDribble returns an air-dribble detector with the documented 0.5 s
// interval.
func NewAirDribble() *AirDribble { return &AirDribble{Interval: 0.5} }

func (d *AirDribble) Reset(agents []sim.AgentState) { d.st.reset(agents) }

func (d *AirDribble) Score(agent *sim.AgentState, snap *sim.Snapshot, _ bool) float64 {
	if snap.Prev == nil {
		return 0
	}
	st := d.st.get(agent.ID)

	recent := st.boost.update(agent, snap.DeltaTime)
	boosting := agent.Boost > 0 && recent
	holds, align := aerialControlHolds(agent, snap)

	if !holds || !boosting {
		if st.active {
			st.active = false
			st.controlTime = 0
			st.peakHeight = 0
			st.touches = 0
		}
		return 0
	}

	if !st.active {
		st.active = true
		st.controlTime = 0
		st.peakHeight = snap.Ball.Pos.Z
		st.touches = 0
	}
	st.controlTime += snap.DeltaTime
	st.peakHeight = maxf(st.peakHeight, snap.Ball.Pos.Z)
	if agent.TouchedStep {
		st.touches++
	}

	base := maxf(0, align)
	heightScore := maxf(0, 1-math.Abs(st.peakHeight-optimalArcHeight)/optimalArcHeight)
	base *= 1 + heightScore*0.5
	base *= 1 + float64(st.touches-1)*0.2
	base *= durationMultiplier(st.controlTime, d.Interval)
	return base
}

// AerialControl is the decaying variant of sustained aerial control. The
// accumulator grows while the posture holds and decays by Decay per
// non-qualifying tick instead of hard-resetting, forgiving brief contact
// loss; the peak accumulator decays more slowly so a late goal still
// credits the best sustained run.
type AerialControl struct {
	Interval  float64 // duration-multiplier interval, seconds
	Decay     float64 // per-tick accumulator decay while lapsed, (0,1)
	PeakDecay float64 // per-tick peak decay while lapsed, slower than Decay
	GoalBonus float64 // scale applied to the peak credit on a scored goal

	meters table[sustainMeter]
}

// NewAerialControl returns an aerial-control detector with 0.5 s interval,
// 0.95 decay, 0.99 peak decay and a 2.0 goal bonus.
func NewAerialControl() *AerialControl {
	return &AerialControl{Interval: 0.5, Decay: 0.95, PeakDecay: 0.99, GoalBonus: 2.0}
}

func (d *AerialControl) Reset(agents []sim.AgentState) { d.meters.reset(agents) }

func (d *AerialControl) Score(agent *sim.AgentState, snap *sim.Snapshot, isFinal bool) float64 {
	if snap.Prev == nil {
		return 0
	}
	m := d.meters.get(agent.ID)
	holds, align := aerialControlHolds(agent, snap)
	m.advance(snap.DeltaTime, holds, d.Decay, d.PeakDecay)

	if isFinal && snap.ScoredBy(agent.Team) && m.peak > 0 {
		return d.GoalBonus * durationMultiplier(m.peak, d.Interval)
	}
	if !holds {
		return 0
	}
	return maxf(0, align) * durationMultiplier(m.accum, d.Interval)
}

// AirDribbleBoost rewards boosting toward the ball while a valid air dribble
// is in progress.
type AirDribbleBoost struct {
	MaxDistance float64 // uu from ball to still count as carrying it

	active table[bool]
}

// NewAirDribbleBoost returns a detector with the documented 500 uu range.
func NewAirDribbleBoost() *AirDribbleBoost { return &AirDribbleBoost{MaxDistance: 500} }

func (d *AirDribbleBoost) Reset(agents []sim.AgentState) { d.active.reset(agents) }

func (d *AirDribbleBoost) Score(agent *sim.AgentState, snap *sim.Snapshot, _ bool) float64 {
	if snap.Prev == nil {
		return 0
	}
	holds, _ := aerialControlHolds(agent, snap)
	active := d.active.get(agent.ID)
	*active = holds

	if !holds || !boostHeld(agent, 0.5) {
		return 0
	}
	if speed(r3.Sub(snap.Ball.Pos, agent.Pos)) >= d.MaxDistance {
		return 0
	}
	dir, ok := safeUnit(r3.Sub(snap.Ball.Pos, agent.Pos))
	if !ok {
		return 0
	}
	velDir, ok := safeUnit(agent.Vel)
	if !ok {
		return 0
	}
	return maxf(0, r3.Dot(velDir, dir)) * 0.5
}

// AirDribbleStart rewards the first aerial touch that opens an air dribble.
// A full tank and distance from the goal both pay extra, since long carries
// need both.
type AirDribbleStart struct {
	MinDistFromGoal float64 // uu; distance bonus applies beyond this
}

// NewAirDribbleStart returns a detector with the documented 3000 uu floor.
func NewAirDribbleStart() *AirDribbleStart { return &AirDribbleStart{MinDistFromGoal: 3000} }

func (*AirDribbleStart) Reset([]sim.AgentState) {}

func (d *AirDribbleStart) Score(agent *sim.AgentState, snap *sim.Snapshot, _ bool) float64 {
	if snap.Prev == nil {
		return 0
	}
	if agent.OnGround || !agent.TouchedStep {
		return 0
	}
	score := 0.3
	if agent.Boost >= 50 {
		score += ((agent.Boost - 50) / 50) * 0.8
	}
	distFromGoal := speed(r3.Sub(agent.Pos, sim.AttackedGoalCenter(agent.Team)))
	if distFromGoal > d.MinDistFromGoal {
		score += minf(0.5, (distFromGoal-d.MinDistFromGoal)/5000)
	}
	return score
}

// setupState is the per-agent record for the air-dribble setup phase.
type setupState struct {
	active  bool
	elapsed float64
	touches int
	boost   boostClock
}

// AirDribbleSetup rewards the grounded carry that precedes an aerial pop:
// touches on the ground with the ball arcing up toward the opponent goal.
// A small continuous reward pays during the phase; leaving the ground pays
// the full phase reward.
type AirDribbleSetup struct {
	MaxSetupTime     float64 // phase window, seconds
	MinGoalAlignment float64 // alignment gate for the phase

	st table[setupState]
}

// NewAirDribbleSetup returns a setup detector with the documented defaults
// (2.0 s window, 0.3 alignment).
func NewAirDribbleSetup() *AirDribbleSetup {
	return &AirDribbleSetup{MaxSetupTime: 2.0, MinGoalAlignment: 0.3}
}

func (d *AirDribbleSetup) Reset(agents []sim.AgentState) { d.st.reset(agents) }

func (d *AirDribbleSetup) phaseReward(agent *sim.AgentState, snap *sim.Snapshot, st *setupState, align float64) float64 {
	base := maxf(0, align)

	boostReward := 0.0
	if boostHeld(agent, 0.1) || (st.boost.armed && st.boost.since < featherWindow) {
		dir, dirOK := safeUnit(r3.Sub(snap.Ball.Pos, agent.Pos))
		velDir, velOK := safeUnit(agent.Vel)
		if dirOK && velOK {
			boostReward = maxf(0, r3.Dot(velDir, dir)) * 0.4
		}
	}

	touchMultiplier := 1 + float64(st.touches-1)*0.25
	trajectoryBonus := align * 0.3
	return (base + boostReward + trajectoryBonus) * touchMultiplier
}

func (d *AirDribbleSetup) Score(agent *sim.AgentState, snap *sim.Snapshot, _ bool) float64 {
	if snap.Prev == nil {
		return 0
	}
	st := d.st.get(agent.ID)

	align := goalAlignment(snap.Ball, agent.Team)
	inAir := !agent.OnGround
	contact := agent.TouchedStep || agent.TouchedTick
	shouldBeInSetup := !inAir && contact &&
		align >= d.MinGoalAlignment &&
		snap.Ball.Vel.Z > 0

	if shouldBeInSetup && !st.active {
		*st = setupState{active: true}
	}

	// Going aerial ends the setup: pay the full phase reward.
	if inAir && st.active {
		score := d.phaseReward(agent, snap, st, align)
		*st = setupState{}
		return score
	}

	if !st.active {
		return 0
	}

	st.elapsed += snap.DeltaTime
	if agent.TouchedStep {
		st.touches++
	}
	st.boost.update(agent, snap.DeltaTime)

	if st.elapsed > d.MaxSetupTime || !shouldBeInSetup {
		*st = setupState{}
		return 0
	}
	return d.phaseReward(agent, snap, st, align) * 0.3
}

// carryState is the per-agent record for the distance-based dribble reward.
type carryState struct {
	active   bool
	elapsed  float64
	startPos r3.Vec
}

// AirDribbleDistance pays a large terminal bonus when a goal is scored off
// an air dribble, scaled by how far the carry traveled. Distance caps at a
// 3x multiplier over the normal goal reward.
type AirDribbleDistance struct {
	Window          float64 // max carry duration still credited, seconds
	NormalGoalBonus float64 // base payout, matches the goal-reward scale

	st table[carryState]
}

// NewAirDribbleDistance returns a detector with the documented defaults
// (3.0 s window, 350 base payout).
func NewAirDribbleDistance() *AirDribbleDistance {
	return &AirDribbleDistance{Window: 3.0, NormalGoalBonus: 350}
}

func (d *AirDribbleDistance) Reset(agents []sim.AgentState) { d.st.reset(agents) }

func (d *AirDribbleDistance) Score(agent *sim.AgentState, snap *sim.Snapshot, _ bool) float64 {
	if snap.Prev == nil {
		return 0
	}
	st := d.st.get(agent.ID)
	holds, _ := aerialControlHolds(agent, snap)

	if holds && !st.active {
		st.active = true
		st.startPos = agent.Pos
		st.elapsed = 0
	}
	if st.active {
		st.elapsed += snap.DeltaTime
		lostCarry := !holds && agent.OnGround && !(agent.TouchedStep || agent.TouchedTick)
		if st.elapsed > d.Window || lostCarry {
			*st = carryState{}
		}
	}

	if snap.GoalScored && st.active && snap.ScoredBy(agent.Team) && st.elapsed <= d.Window {
		dist := speed(r3.Sub(agent.Pos, st.startPos))
		mult := minf(3, 1+dist/2000)
		*st = carryState{}
		return d.NormalGoalBonus * mult
	}
	return 0
}
