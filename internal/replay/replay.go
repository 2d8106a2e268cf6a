// Package replay decodes recorded episode fixtures. A fixture is JSONL: one
// tick per line, grouped into episodes by a monotonic episode index. The
// decoder rebuilds the snapshot chain, including per-agent Prev links, so
// detectors see exactly the structure a live simulation would hand them.
package replay

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/overdrive-rl/shaping/internal/sim"
)

// vec is the wire form of a vector: [x, y, z].
type vec [3]float64

func (v vec) r3() r3.Vec { return r3.Vec{X: v[0], Y: v[1], Z: v[2]} }

type ballRecord struct {
	Pos    vec `json:"pos"`
	Vel    vec `json:"vel"`
	AngVel vec `json:"ang_vel"`
}

type inputRecord struct {
	Boost     float64 `json:"boost"`
	Handbrake float64 `json:"handbrake"`
	Roll      float64 `json:"roll"`
}

type agentRecord struct {
	ID   int `json:"id"`
	Team int `json:"team"`

	Pos     vec `json:"pos"`
	Vel     vec `json:"vel"`
	AngVel  vec `json:"ang_vel"`
	Forward vec `json:"forward"`
	Up      vec `json:"up"`

	Boost    float64 `json:"boost"`
	OnGround bool    `json:"on_ground"`

	TouchedStep bool `json:"touched_step"`
	TouchedTick bool `json:"touched_tick"`

	Flipping     bool `json:"flipping"`
	DoubleJumped bool `json:"double_jumped"`
	Demoed       bool `json:"demoed"`
	FlipTorque   vec  `json:"flip_torque"`

	BumpedOpponent bool `json:"bumped_opponent"`
	DemoedOpponent bool `json:"demoed_opponent"`

	LastInput inputRecord `json:"last_input"`
}

type tickRecord struct {
	Episode    int           `json:"episode"`
	DeltaTime  float64       `json:"delta_time"`
	Ball       ballRecord    `json:"ball"`
	Agents     []agentRecord `json:"agents"`
	GoalScored bool          `json:"goal_scored"`
	BoostPads  []bool        `json:"boost_pads,omitempty"`
}

// Episode is one decoded snapshot chain. Ticks[0].Prev is nil; every later
// tick links to its predecessor.
type Episode struct {
	Index int
	Ticks []*sim.Snapshot
}

// DecodeFile decodes a JSONL fixture from disk.
func DecodeFile(path string) ([]Episode, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open fixture: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// Decode decodes a JSONL fixture. Episode indices must be non-decreasing
// and within one episode every tick must carry the same agents, by id, in
// the same order.
func Decode(r io.Reader) ([]Episode, error) {
	var episodes []Episode
	var cur *Episode

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	line := 0
	for sc.Scan() {
		line++
		raw := sc.Bytes()
		if len(raw) == 0 {
			continue
		}
		var rec tickRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, fmt.Errorf("line %d: failed to parse tick: %w", line, err)
		}
		if rec.DeltaTime <= 0 {
			return nil, fmt.Errorf("line %d: delta_time must be positive, got %v", line, rec.DeltaTime)
		}
		if len(rec.Agents) == 0 {
			return nil, fmt.Errorf("line %d: tick has no agents", line)
		}

		if cur == nil || rec.Episode != cur.Index {
			if cur != nil && rec.Episode < cur.Index {
				return nil, fmt.Errorf("line %d: episode index went backwards: %d after %d", line, rec.Episode, cur.Index)
			}
			episodes = append(episodes, Episode{Index: rec.Episode})
			cur = &episodes[len(episodes)-1]
		}

		snap, err := buildSnapshot(&rec, lastTick(cur))
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		cur.Ticks = append(cur.Ticks, snap)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read fixture: %w", err)
	}
	return episodes, nil
}

func lastTick(e *Episode) *sim.Snapshot {
	if e == nil || len(e.Ticks) == 0 {
		return nil
	}
	return e.Ticks[len(e.Ticks)-1]
}

// buildSnapshot converts one tick record and links it to its predecessor.
func buildSnapshot(rec *tickRecord, prev *sim.Snapshot) (*sim.Snapshot, error) {
	if prev != nil {
		if len(prev.Agents) != len(rec.Agents) {
			return nil, fmt.Errorf("agent count changed mid-episode: %d -> %d", len(prev.Agents), len(rec.Agents))
		}
		for i := range rec.Agents {
			if prev.Agents[i].ID != rec.Agents[i].ID {
				return nil, fmt.Errorf("agent order changed mid-episode at index %d: id %d -> %d",
					i, prev.Agents[i].ID, rec.Agents[i].ID)
			}
		}
	}

	snap := &sim.Snapshot{
		DeltaTime: rec.DeltaTime,
		Ball: sim.BallState{
			Pos:    rec.Ball.Pos.r3(),
			Vel:    rec.Ball.Vel.r3(),
			AngVel: rec.Ball.AngVel.r3(),
		},
		Agents:     make([]sim.AgentState, len(rec.Agents)),
		GoalScored: rec.GoalScored,
		BoostPads:  rec.BoostPads,
		Prev:       prev,
	}
	for i, a := range rec.Agents {
		if a.Team != int(sim.Blue) && a.Team != int(sim.Orange) {
			return nil, fmt.Errorf("agent %d: invalid team %d", a.ID, a.Team)
		}
		snap.Agents[i] = sim.AgentState{
			ID:             a.ID,
			Team:           sim.Team(a.Team),
			Pos:            a.Pos.r3(),
			Vel:            a.Vel.r3(),
			AngVel:         a.AngVel.r3(),
			Forward:        a.Forward.r3(),
			Up:             a.Up.r3(),
			Boost:          a.Boost,
			OnGround:       a.OnGround,
			TouchedStep:    a.TouchedStep,
			TouchedTick:    a.TouchedTick,
			Flipping:       a.Flipping,
			DoubleJumped:   a.DoubleJumped,
			Demoed:         a.Demoed,
			FlipTorque:     a.FlipTorque.r3(),
			BumpedOpponent: a.BumpedOpponent,
			DemoedOpponent: a.DemoedOpponent,
			LastInput: sim.AgentInput{
				Boost:     a.LastInput.Boost,
				Handbrake: a.LastInput.Handbrake,
				Roll:      a.LastInput.Roll,
			},
		}
		if prev != nil {
			snap.Agents[i].Prev = &prev.Agents[i]
		}
	}
	return snap, nil
}
