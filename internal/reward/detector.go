// Package reward converts per-tick simulation snapshots into scalar training
// signals. A Detector observes one agent on one snapshot and returns a
// contribution; the Engine aggregates a weighted list of detectors into one
// scalar per agent per tick.
//
// Detectors never fault: missing previous snapshots, degenerate vectors and
// unknown agent ids all degrade to a neutral (zero) score. All state is
// owned per Engine instance; running environments in parallel means running
// independent Engine copies, never sharing one.
package reward

import "github.com/overdrive-rl/shaping/internal/sim"

// Detector is a pluggable scoring unit.
//
// Reset is called once when an episode starts (and whenever the agent set is
// re-enumerated); stateful detectors reinitialize their per-agent records
// here. Score is called exactly once per agent per tick and is the only
// place detector state advances. The documented convention is to return 0
// when snap.Prev is nil, since velocity-delta and timing logic need it.
type Detector interface {
	Reset(agents []sim.AgentState)
	Score(agent *sim.AgentState, snap *sim.Snapshot, isFinal bool) float64
}

// ZeroSumSpec redistributes a detector's raw per-agent scores so one team's
// gain is mirrored as the opposing team's loss. Each agent's adjusted score
// is lerp(own, teamMean, TeamSpirit) − opponentMean·OppScale.
type ZeroSumSpec struct {
	TeamSpirit float64 // share of the reward pooled with teammates, [0, 1]
	OppScale   float64 // fraction of the opponent mean mirrored as loss
}

// Entry is one (detector, weight, optional zero-sum transform) line of an
// Engine configuration.
type Entry struct {
	Name     string
	Detector Detector
	Weight   float64
	ZeroSum  *ZeroSumSpec
}

// Engine evaluates a configured detector list. It holds no scoring state of
// its own; determinism follows from the detectors and the snapshot chain.
type Engine struct {
	entries []Entry
	raw     []float64 // scratch for zero-sum entries
}

// NewEngine builds an engine over the given entries. The entry list is not
// copied; callers must not mutate it afterwards.
func NewEngine(entries []Entry) *Engine {
	return &Engine{entries: entries}
}

// Entries returns the configured entry list.
func (e *Engine) Entries() []Entry { return e.entries }

// Reset resets every detector for a new episode. It must complete before the
// first Step of the episode.
func (e *Engine) Reset(agents []sim.AgentState) {
	for _, en := range e.entries {
		en.Detector.Reset(agents)
	}
}

// Step scores every agent for one tick and returns the aggregate rewards in
// snapshot agent order. Each detector's Score runs exactly once per agent.
func (e *Engine) Step(snap *sim.Snapshot, isFinal bool) []float64 {
	out := make([]float64, len(snap.Agents))
	if cap(e.raw) < len(snap.Agents) {
		e.raw = make([]float64, len(snap.Agents))
	}
	raw := e.raw[:len(snap.Agents)]

	for _, en := range e.entries {
		if en.ZeroSum == nil {
			for i := range snap.Agents {
				out[i] += en.Weight * en.Detector.Score(&snap.Agents[i], snap, isFinal)
			}
			continue
		}
		for i := range snap.Agents {
			raw[i] = en.Detector.Score(&snap.Agents[i], snap, isFinal)
		}
		redistributeZeroSum(snap.Agents, raw, *en.ZeroSum, en.Weight, out)
	}
	return out
}

// ScoreAgent returns the aggregate reward for a single agent. It is only
// valid for configurations without zero-sum entries (those need the whole
// tick); zero-sum entries are scored raw here.
func (e *Engine) ScoreAgent(agent *sim.AgentState, snap *sim.Snapshot, isFinal bool) float64 {
	var total float64
	for _, en := range e.entries {
		total += en.Weight * en.Detector.Score(agent, snap, isFinal)
	}
	return total
}

// redistributeZeroSum applies the team-spirit lerp and opponent mirror to
// raw scores and accumulates weight-scaled results into out.
func redistributeZeroSum(agents []sim.AgentState, raw []float64, zs ZeroSumSpec, weight float64, out []float64) {
	var sum [2]float64
	var count [2]int
	for i := range agents {
		t := agents[i].Team
		sum[t] += raw[i]
		count[t]++
	}
	var mean [2]float64
	for t := 0; t < 2; t++ {
		if count[t] > 0 {
			mean[t] = sum[t] / float64(count[t])
		}
	}
	for i := range agents {
		t := agents[i].Team
		own := raw[i]
		adj := own*(1-zs.TeamSpirit) + mean[t]*zs.TeamSpirit - mean[t.Opponent()]*zs.OppScale
		out[i] += weight * adj
	}
}
