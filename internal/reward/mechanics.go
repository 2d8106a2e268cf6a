package reward

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/overdrive-rl/shaping/internal/sim"
)

// maxYawRate is the car's maximum yaw angular velocity, rad/s.
const maxYawRate = 5.5

// Powerslide rewards handbrake turns that keep speed through the corner.
type Powerslide struct {
	MinSpeed    float64 // uu/s
	MinTurnRate float64 // rad/s of yaw
}

// NewPowerslide returns a powerslide detector with the documented defaults
// (500 uu/s, 1.0 rad/s).
func NewPowerslide() *Powerslide {
	return &Powerslide{MinSpeed: 500, MinTurnRate: 1.0}
}

func (*Powerslide) Reset([]sim.AgentState) {}

func (d *Powerslide) Score(agent *sim.AgentState, snap *sim.Snapshot, _ bool) float64 {
	if snap.Prev == nil || !agent.OnGround {
		return 0
	}
	if agent.LastInput.Handbrake < 0.5 {
		return 0
	}
	spd := speed(agent.Vel)
	if spd < d.MinSpeed {
		return 0
	}
	turnRate := math.Abs(agent.AngVel.Z)
	if turnRate < d.MinTurnRate {
		return 0
	}
	speedScore := minf(1, spd/sim.CarMaxSpeed)
	turnScore := minf(1, turnRate/maxYawRate)
	maintained := 0.5
	if agent.Prev != nil && spd >= speed(agent.Prev.Vel)*0.9 {
		maintained = 1.0
	}
	return (speedScore*0.4 + turnScore*0.4 + maintained*0.2) * 0.3
}

// halfFlipState tracks one agent's in-progress half flip.
type halfFlipState struct {
	active   bool
	elapsed  float64
	startVel r3.Vec
}

// HalfFlip rewards the backward-flip-plus-roll-cancel turnaround. The
// sequence is: moving backward, backward flip, roll input while the flip is
// active; reversing the velocity within the window doubles the payout.
type HalfFlip struct {
	MaxFlipTime      float64 // window for the whole sequence, seconds
	MinBackwardSpeed float64 // uu/s along -forward to arm the sequence

	st table[halfFlipState]
}

// NewHalfFlip returns a half-flip detector with the documented defaults
// (1.0 s window, 300 uu/s backward speed).
func NewHalfFlip() *HalfFlip {
	return &HalfFlip{MaxFlipTime: 1.0, MinBackwardSpeed: 300}
}

func (d *HalfFlip) Reset(agents []sim.AgentState) { d.st.reset(agents) }

func (d *HalfFlip) Score(agent *sim.AgentState, snap *sim.Snapshot, _ bool) float64 {
	if snap.Prev == nil {
		return 0
	}
	st := d.st.get(agent.ID)

	movingBackward := r3.Dot(agent.Vel, agent.Forward) < -d.MinBackwardSpeed
	backwardFlip := agent.Flipping && agent.FlipTorque.Y < -0.5
	if movingBackward && backwardFlip && !st.active {
		st.active = true
		st.elapsed = 0
		st.startVel = agent.Vel
	}
	if !st.active {
		return 0
	}

	st.elapsed += snap.DeltaTime
	rolling := math.Abs(agent.LastInput.Roll) > 0.3

	if rolling && agent.Flipping {
		score := 0.5
		if st.elapsed < 0.5 {
			score *= 1.5
		}
		if st.elapsed > 0.3 {
			forwardNow := r3.Dot(agent.Vel, agent.Forward)
			backwardThen := r3.Dot(st.startVel, agent.Forward)
			if backwardThen < -200 && forwardNow > 200 {
				score *= 2
			}
		}
		return score
	}

	if st.elapsed > d.MaxFlipTime || (!agent.Flipping && !rolling) {
		*st = halfFlipState{}
	}
	return 0
}

// landingState tracks air time for landing-triggered detectors.
type landingState struct {
	wasInAir bool
	airTime  float64
	gate     cooldownGate
}

// Wavedash rewards landing with an active dodge while keeping speed.
// Cooldown-gated so repeated hops cannot farm it.
type Wavedash struct {
	MinAirTime      float64 // seconds airborne before a landing counts
	MinLandingSpeed float64 // uu/s
	Cooldown        float64 // seconds between awards

	st table[landingState]
}

// NewWavedash returns a wavedash detector with the documented defaults
// (0.3 s air, 400 uu/s, 2.0 s cooldown).
func NewWavedash() *Wavedash {
	return &Wavedash{MinAirTime: 0.3, MinLandingSpeed: 400, Cooldown: 2.0}
}

func (d *Wavedash) Reset(agents []sim.AgentState) {
	d.st.reset(agents)
	for i := range agents {
		d.st.get(agents[i].ID).wasInAir = !agents[i].OnGround
	}
}

func (d *Wavedash) Score(agent *sim.AgentState, snap *sim.Snapshot, _ bool) float64 {
	if snap.Prev == nil {
		return 0
	}
	st := d.st.get(agent.ID)
	st.gate.advance(snap.DeltaTime)

	if !agent.OnGround {
		st.wasInAir = true
		st.airTime += snap.DeltaTime
		return 0
	}
	if !st.wasInAir {
		return 0
	}
	st.wasInAir = false
	timeInAir := st.airTime
	st.airTime = 0

	if timeInAir < d.MinAirTime || !st.gate.ready(d.Cooldown) || !agent.Flipping {
		return 0
	}
	landingSpeed := speed(agent.Vel)
	if landingSpeed < d.MinLandingSpeed {
		return 0
	}
	st.gate.fire()
	return 0.4 * minf(1, landingSpeed/sim.CarMaxSpeed)
}

// DirectionalFlip rewards forward and side flips at speed. Backward flips
// belong to HalfFlip and are excluded here.
type DirectionalFlip struct {
	MinSpeed float64 // uu/s
	Cooldown float64 // seconds between awards

	gates table[cooldownGate]
}

// NewDirectionalFlip returns a flip detector with the documented defaults
// (600 uu/s, 1.5 s cooldown).
func NewDirectionalFlip() *DirectionalFlip {
	return &DirectionalFlip{MinSpeed: 600, Cooldown: 1.5}
}

func (d *DirectionalFlip) Reset(agents []sim.AgentState) { d.gates.reset(agents) }

func (d *DirectionalFlip) Score(agent *sim.AgentState, snap *sim.Snapshot, _ bool) float64 {
	if snap.Prev == nil {
		return 0
	}
	g := d.gates.get(agent.ID)
	g.advance(snap.DeltaTime)

	if !agent.OnGround || !g.ready(d.Cooldown) || !agent.Flipping {
		return 0
	}
	spd := speed(agent.Vel)
	if spd < d.MinSpeed {
		return 0
	}
	if agent.FlipTorque.Y < -0.3 { // backward flip
		return 0
	}
	g.fire()
	forwardBonus := 1.0
	if agent.FlipTorque.Y > 0.5 {
		forwardBonus = 1.2
	}
	return 0.3 * minf(1, spd/sim.CarMaxSpeed) * forwardBonus
}

// FastAerial rewards the double-jump-plus-boost takeoff, but only when the
// ball is high enough that an aerial is worth the boost.
type FastAerial struct {
	MinBallHeight float64 // uu
	Cooldown      float64 // seconds between awards

	gates table[cooldownGate]
}

// NewFastAerial returns a fast-aerial detector with the documented defaults
// (400 uu ball height, 3.0 s cooldown).
func NewFastAerial() *FastAerial {
	return &FastAerial{MinBallHeight: 400, Cooldown: 3.0}
}

func (d *FastAerial) Reset(agents []sim.AgentState) { d.gates.reset(agents) }

func (d *FastAerial) Score(agent *sim.AgentState, snap *sim.Snapshot, _ bool) float64 {
	if snap.Prev == nil {
		return 0
	}
	g := d.gates.get(agent.ID)
	g.advance(snap.DeltaTime)

	if snap.Ball.Pos.Z < d.MinBallHeight || !g.ready(d.Cooldown) {
		return 0
	}
	if agent.OnGround || !agent.DoubleJumped {
		return 0
	}
	if agent.Boost <= 0 || agent.LastInput.Boost < 0.3 {
		return 0
	}
	if agent.Vel.Z < 200 {
		return 0
	}
	g.fire()
	return 0.5 * minf(1, agent.Vel.Z/1000)
}

// RecoveryLanding rewards landing on the wheels with speed after real air
// time, so the bot keeps recovering cleanly from aerials.
type RecoveryLanding struct {
	MinAirTime      float64 // seconds airborne before a landing counts
	MinLandingSpeed float64 // uu/s

	st table[landingState]
}

// NewRecoveryLanding returns a recovery detector with the documented
// defaults (0.5 s air, 300 uu/s).
func NewRecoveryLanding() *RecoveryLanding {
	return &RecoveryLanding{MinAirTime: 0.5, MinLandingSpeed: 300}
}

func (d *RecoveryLanding) Reset(agents []sim.AgentState) {
	d.st.reset(agents)
	for i := range agents {
		d.st.get(agents[i].ID).wasInAir = !agents[i].OnGround
	}
}

func (d *RecoveryLanding) Score(agent *sim.AgentState, snap *sim.Snapshot, _ bool) float64 {
	if snap.Prev == nil {
		return 0
	}
	st := d.st.get(agent.ID)

	if !agent.OnGround {
		st.wasInAir = true
		st.airTime += snap.DeltaTime
		return 0
	}
	if !st.wasInAir {
		return 0
	}
	st.wasInAir = false
	timeInAir := st.airTime
	st.airTime = 0

	if timeInAir < d.MinAirTime {
		return 0
	}
	carUp := agent.Up.Z
	if carUp < 0.5 { // on roof or side
		return 0
	}
	landingSpeed := speed(agent.Vel)
	if landingSpeed < d.MinLandingSpeed {
		return 0
	}
	speedScore := minf(1, landingSpeed/sim.CarMaxSpeed)
	orientScore := maxf(0, (carUp-0.5)/0.5)
	return 0.3 * (speedScore*0.6 + orientScore*0.4)
}

// LandOnBoost rewards ending an aerial on top of an available pad, combining
// recovery with boost economy. Big pads pay triple.
type LandOnBoost struct {
	MinAirTime     float64 // seconds airborne before a landing counts
	MaxPadDistance float64 // uu from pad to count as landing on it
	Cooldown       float64 // seconds between awards

	st table[landingState]
}

// NewLandOnBoost returns a detector with the documented defaults
// (0.3 s air, 200 uu, 2.0 s cooldown).
func NewLandOnBoost() *LandOnBoost {
	return &LandOnBoost{MinAirTime: 0.3, MaxPadDistance: 200, Cooldown: 2.0}
}

func (d *LandOnBoost) Reset(agents []sim.AgentState) {
	d.st.reset(agents)
	for i := range agents {
		d.st.get(agents[i].ID).wasInAir = !agents[i].OnGround
	}
}

func (d *LandOnBoost) Score(agent *sim.AgentState, snap *sim.Snapshot, _ bool) float64 {
	if snap.Prev == nil {
		return 0
	}
	st := d.st.get(agent.ID)
	st.gate.advance(snap.DeltaTime)

	if !agent.OnGround {
		st.wasInAir = true
		st.airTime += snap.DeltaTime
		return 0
	}
	if !st.wasInAir {
		return 0
	}
	st.wasInAir = false
	timeInAir := st.airTime
	st.airTime = 0

	if timeInAir < d.MinAirTime || !st.gate.ready(d.Cooldown) {
		return 0
	}
	best := 0.0
	for i, pos := range sim.BoostPadLocations {
		if i >= len(snap.BoostPads) || !snap.BoostPads[i] {
			continue
		}
		dist := speed(r3.Sub(pos, agent.Pos))
		if dist > d.MaxPadDistance {
			continue
		}
		proximity := 1 - dist/d.MaxPadDistance
		padBonus := 1.0
		if pos.Z > sim.BigPadZ {
			padBonus = 3.0
		}
		best = maxf(best, proximity*padBonus)
	}
	if best == 0 {
		return 0
	}
	st.gate.fire()
	return 0.5 * best
}
