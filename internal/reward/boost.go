package reward

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/overdrive-rl/shaping/internal/sim"
)

// PickupBoost rewards boost gained since the previous tick, scaled to [0,1].
type PickupBoost struct{}

func NewPickupBoost() *PickupBoost { return &PickupBoost{} }

func (*PickupBoost) Reset([]sim.AgentState) {}

func (*PickupBoost) Score(agent *sim.AgentState, snap *sim.Snapshot, _ bool) float64 {
	if snap.Prev == nil || agent.Prev == nil {
		return 0
	}
	gained := agent.Boost - agent.Prev.Boost
	if gained <= 0 {
		return 0
	}
	return gained / 100
}

// SaveBoost rewards holding boost in reserve. Square root so the marginal
// value of boost is highest when the tank is near empty.
type SaveBoost struct{}

func NewSaveBoost() *SaveBoost { return &SaveBoost{} }

func (*SaveBoost) Reset([]sim.AgentState) {}

func (*SaveBoost) Score(agent *sim.AgentState, snap *sim.Snapshot, _ bool) float64 {
	if snap.Prev == nil {
		return 0
	}
	return math.Sqrt(clamp01(agent.Boost / 100))
}

// BigBoost rewards collecting big pads over small ones. A big pad grants 100
// boost; a gain of at least BigGainThreshold counts as one even when the
// tank was partially full.
type BigBoost struct {
	BigGainThreshold   float64
	SmallGainThreshold float64
	BigReward          float64
	SmallReward        float64
}

// NewBigBoost returns a big-pad detector with the documented defaults:
// gains >= 90 pay 2.0, gains >= 10 pay 0.5.
func NewBigBoost() *BigBoost {
	return &BigBoost{BigGainThreshold: 90, SmallGainThreshold: 10, BigReward: 2.0, SmallReward: 0.5}
}

func (*BigBoost) Reset([]sim.AgentState) {}

func (d *BigBoost) Score(agent *sim.AgentState, snap *sim.Snapshot, _ bool) float64 {
	if snap.Prev == nil || agent.Prev == nil {
		return 0
	}
	gained := agent.Boost - agent.Prev.Boost
	switch {
	case gained >= d.BigGainThreshold:
		return d.BigReward
	case gained >= d.SmallGainThreshold:
		return d.SmallReward
	default:
		return 0
	}
}

// BoostEfficiency rewards collecting boost when it is actually needed.
// Collecting on a near-empty tank pays up to 3x; topping off a full tank
// pays half.
type BoostEfficiency struct{}

func NewBoostEfficiency() *BoostEfficiency { return &BoostEfficiency{} }

func (*BoostEfficiency) Reset([]sim.AgentState) {}

func (*BoostEfficiency) Score(agent *sim.AgentState, snap *sim.Snapshot, _ bool) float64 {
	if snap.Prev == nil || agent.Prev == nil {
		return 0
	}
	gained := agent.Boost - agent.Prev.Boost
	if gained <= 0 {
		return 0
	}
	before := agent.Prev.Boost
	mult := 1.0
	switch {
	case before <= 30:
		mult = 3.0
	case before < 50:
		mult = 2.0
	case before > 80:
		mult = 0.5
	}
	return minf(1, gained/100) * mult
}

// BoostPadProximity rewards driving at available pads while low on boost.
// Only the best pad counts each tick; big pads pay double.
type BoostPadProximity struct {
	MaxDistance       float64 // pads beyond this are ignored (uu)
	LowBoostThreshold float64 // only reward below this boost level
}

// NewBoostPadProximity returns a pad-seeking detector with the documented
// defaults (2000 uu range, active below 30 boost).
func NewBoostPadProximity() *BoostPadProximity {
	return &BoostPadProximity{MaxDistance: 2000, LowBoostThreshold: 30}
}

func (*BoostPadProximity) Reset([]sim.AgentState) {}

func (d *BoostPadProximity) Score(agent *sim.AgentState, snap *sim.Snapshot, _ bool) float64 {
	if snap.Prev == nil {
		return 0
	}
	if agent.Boost >= d.LowBoostThreshold {
		return 0
	}
	best := 0.0
	for i, pos := range sim.BoostPadLocations {
		if i >= len(snap.BoostPads) || !snap.BoostPads[i] {
			continue
		}
		dist := speed(r3.Sub(pos, agent.Pos))
		if dist > d.MaxDistance {
			continue
		}
		dir, ok := safeUnit(r3.Sub(pos, agent.Pos))
		if !ok {
			continue
		}
		toward := r3.Dot(agent.Vel, dir)
		if toward <= 0 {
			continue
		}
		score := (1 - dist/d.MaxDistance) * minf(1, toward/1000)
		if pos.Z > sim.BigPadZ {
			score *= 2
		}
		best = maxf(best, score)
	}
	return best * 0.3
}
