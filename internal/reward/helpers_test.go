package reward

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/overdrive-rl/shaping/internal/sim"
)

// testAgent builds a grounded agent with a sane orientation basis.
func testAgent(id int, team sim.Team) sim.AgentState {
	forward := r3.Vec{Y: 1}
	if team == sim.Orange {
		forward = r3.Vec{Y: -1}
	}
	return sim.AgentState{
		ID:       id,
		Team:     team,
		Forward:  forward,
		Up:       r3.Vec{Z: 1},
		OnGround: true,
		Boost:    33,
	}
}

// firstSnap builds the first snapshot of an episode (Prev nil).
func firstSnap(agents ...sim.AgentState) *sim.Snapshot {
	pads := make([]bool, sim.BoostPadCount)
	for i := range pads {
		pads[i] = true
	}
	return &sim.Snapshot{
		DeltaTime: 1.0 / 15.0,
		Ball:      sim.BallState{Pos: r3.Vec{Z: sim.BallRadius}},
		Agents:    agents,
		BoostPads: pads,
	}
}

// advance derives the next snapshot from prev: agents are copied with their
// Prev links set and per-tick event flags cleared, then mutate applies the
// tick's changes.
func advance(prev *sim.Snapshot, dt float64, mutate func(*sim.Snapshot)) *sim.Snapshot {
	next := &sim.Snapshot{
		DeltaTime: dt,
		Ball:      prev.Ball,
		Agents:    append([]sim.AgentState(nil), prev.Agents...),
		BoostPads: prev.BoostPads,
		Prev:      prev,
	}
	for i := range next.Agents {
		next.Agents[i].Prev = &prev.Agents[i]
		next.Agents[i].TouchedStep = false
		next.Agents[i].TouchedTick = false
		next.Agents[i].BumpedOpponent = false
		next.Agents[i].DemoedOpponent = false
	}
	if mutate != nil {
		mutate(next)
	}
	return next
}

func approxEq(a, b, tol float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d <= tol
}
