package sim

import "gonum.org/v1/gonum/spatial/r3"

// BallState is the ball's kinematic state for one tick.
type BallState struct {
	Pos    r3.Vec
	Vel    r3.Vec
	AngVel r3.Vec
}

// AgentInput is the most recent controller input applied by an agent.
// Magnitudes are in [0, 1] except Roll, which is in [-1, 1].
type AgentInput struct {
	Boost     float64
	Handbrake float64
	Roll      float64
}

// AgentState is one agent's observable state for one tick.
//
// ID is stable for the agent's lifetime within the arena and is the only
// valid key for per-agent detector state; slice position is not stable.
// Prev is a non-owning link to this same agent's state in the previous
// snapshot (nil on the first tick of an episode).
type AgentState struct {
	ID   int
	Team Team

	Pos     r3.Vec
	Vel     r3.Vec
	AngVel  r3.Vec
	Forward r3.Vec // orientation basis: car nose direction
	Up      r3.Vec // orientation basis: car roof direction

	Boost    float64 // 0–100
	OnGround bool

	// TouchedStep is true if the agent touched the ball during this control
	// step; TouchedTick only for the most recent physics substep.
	TouchedStep bool
	TouchedTick bool

	Flipping     bool
	DoubleJumped bool
	Demoed       bool
	// FlipTorque is the relative torque of an active flip; negative Y is a
	// backward flip.
	FlipTorque r3.Vec

	// BumpedOpponent / DemoedOpponent are set on the tick the agent bumps or
	// demolishes an opposing car.
	BumpedOpponent bool
	DemoedOpponent bool

	LastInput AgentInput

	Prev *AgentState
}

// Snapshot is the complete observable state for one simulation tick.
// Snapshots are immutable once built and form a singly-linked chronological
// chain within an episode via Prev (nil only on the first tick).
type Snapshot struct {
	// DeltaTime is the elapsed simulated time since the previous tick, in
	// seconds.
	DeltaTime float64

	Ball   BallState
	Agents []AgentState

	// GoalScored is true on the tick a goal was scored. The scoring side is
	// derived from the ball position: TeamFromY(Ball.Pos.Y) is the team
	// whose net the ball is in.
	GoalScored bool

	// BoostPads holds per-pad availability, indexed like BoostPadLocations.
	BoostPads []bool

	Prev *Snapshot
}

// AgentByID returns the state for the agent with the given id, or nil if the
// agent is not present this tick (demolished cars remain present).
func (s *Snapshot) AgentByID(id int) *AgentState {
	for i := range s.Agents {
		if s.Agents[i].ID == id {
			return &s.Agents[i]
		}
	}
	return nil
}

// ConcededBy reports whether the given team conceded the goal scored this
// tick. False when no goal was scored.
func (s *Snapshot) ConcededBy(t Team) bool {
	return s.GoalScored && TeamFromY(s.Ball.Pos.Y) == t
}

// ScoredBy reports whether the given team scored this tick.
func (s *Snapshot) ScoredBy(t Team) bool {
	return s.GoalScored && TeamFromY(s.Ball.Pos.Y) == t.Opponent()
}
