package reward

import "github.com/overdrive-rl/shaping/internal/sim"

// table is a per-detector store of one state record per agent. Slots are
// assigned at reset from the stable agent id, keeping the per-tick lookup a
// single map hit plus an index. An id that was never enumerated (an agent
// appearing after reset) lazily allocates a zero record instead of faulting.
type table[T any] struct {
	slots map[int]int
	recs  []T
}

// reset clears all records and assigns one zeroed slot per agent.
func (t *table[T]) reset(agents []sim.AgentState) {
	t.slots = make(map[int]int, len(agents))
	t.recs = t.recs[:0]
	var zero T
	for i := range agents {
		t.slots[agents[i].ID] = len(t.recs)
		t.recs = append(t.recs, zero)
	}
}

// get returns the record for the given agent id, allocating a zero record on
// miss. The pointer is valid until the next get or reset.
func (t *table[T]) get(id int) *T {
	if t.slots == nil {
		t.slots = make(map[int]int)
	}
	i, ok := t.slots[id]
	if !ok {
		i = len(t.recs)
		t.slots[id] = i
		var zero T
		t.recs = append(t.recs, zero)
	}
	return &t.recs[i]
}

// each visits every allocated record.
func (t *table[T]) each(fn func(*T)) {
	for i := range t.recs {
		fn(&t.recs[i])
	}
}
