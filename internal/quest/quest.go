// Package quest implements quest loading into a team, synchronised quest
// registers for late joiners, and the persistent quest-flag protocol that
// round-trips through the shipgate.
// The ship persists nothing itself; flag storage lives behind the
// shipgate. Quest bytecode execution stays client-side; the server only
// mirrors registers and brokers flags.
package quest

import (
	"fmt"
	"sync"
)

// Descriptor is the server-side view of one installable quest: its id, the
// languages it ships text for, and the register ids whose values must be
// mirrored to late joiners.
type Descriptor struct {
	ID       uint32
	Episode  int
	Name     string
	Language uint8

	// SyncedRegisters lists the in-quest register numbers the server tracks
	// and replays to joiners. Registers outside this list are invisible to
	// the server.
	SyncedRegisters []uint8
}

// TeamState is the per-team quest runtime state: which quest is loaded, in
// which language, and the last value seen for each synced register.
type TeamState struct {
	mu sync.Mutex

	qid   uint32
	qlang uint8

	synced map[uint8]bool
	values map[uint8]uint32
	// order remembers first-write order so replay to a joiner is
	// deterministic across runs.
	order []uint8
}

// NewTeamState returns an empty state with no quest loaded.
func NewTeamState() *TeamState {
	return &TeamState{
		synced: make(map[uint8]bool),
		values: make(map[uint8]uint32),
	}
}

// Load installs a quest into the team, resetting any register state from a
// previous quest.
func (t *TeamState) Load(d *Descriptor, lang uint8) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.qid = d.ID
	t.qlang = lang
	t.synced = make(map[uint8]bool, len(d.SyncedRegisters))
	t.values = make(map[uint8]uint32)
	t.order = nil
	for _, r := range d.SyncedRegisters {
		t.synced[r] = true
	}
}

// Unload clears the loaded quest and all register state.
func (t *TeamState) Unload() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.qid = 0
	t.qlang = 0
	t.synced = make(map[uint8]bool)
	t.values = make(map[uint8]uint32)
	t.order = nil
}

// Loaded reports whether a quest is currently running, and which.
func (t *TeamState) Loaded() (qid uint32, qlang uint8, ok bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.qid, t.qlang, t.qid != 0
}

// SetRegister records a register write observed from a client's sync
// sub-command. Writes to registers outside the quest's synced list are
// ignored, not errors: clients freely use registers the server has no
// interest in.
func (t *TeamState) SetRegister(reg uint8, value uint32) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.synced[reg] {
		return
	}
	if _, seen := t.values[reg]; !seen {
		t.order = append(t.order, reg)
	}
	t.values[reg] = value
}

// Register returns the last value seen for reg, if any.
func (t *TeamState) Register(reg uint8) (uint32, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	v, ok := t.values[reg]
	return v, ok
}

// RegisterValue is one (register, value) pair for joiner replay.
type RegisterValue struct {
	Register uint8
	Value    uint32
}

// Snapshot returns every synced register that has a value, in first-write
// order, for replay to a late joiner before their burst completes.
func (t *TeamState) Snapshot() []RegisterValue {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]RegisterValue, 0, len(t.order))
	for _, reg := range t.order {
		out = append(out, RegisterValue{Register: reg, Value: t.values[reg]})
	}
	return out
}

// Registry is the ship-level table of installed quests, read-write locked so
// a reload can swap the set while running teams keep the Descriptor they
// retained at load time.
type Registry struct {
	mu     sync.RWMutex
	byID   map[uint32]*Descriptor
}

// NewRegistry returns an empty quest registry.
func NewRegistry() *Registry {
	return &Registry{byID: make(map[uint32]*Descriptor)}
}

// Install adds or replaces a quest descriptor.
func (r *Registry) Install(d *Descriptor) error {
	if d.ID == 0 {
		return fmt.Errorf("quest: descriptor id must be nonzero")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[d.ID] = d
	return nil
}

// Lookup returns the quest with the given id.
func (r *Registry) Lookup(id uint32) (*Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.byID[id]
	return d, ok
}

// Replace swaps the whole table atomically (ship-level quest reload). Teams
// holding an old Descriptor keep using it until they unload.
func (r *Registry) Replace(quests []*Descriptor) {
	next := make(map[uint32]*Descriptor, len(quests))
	for _, d := range quests {
		next[d.ID] = d
	}
	r.mu.Lock()
	r.byID = next
	r.mu.Unlock()
}

// Count returns the number of installed quests.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}
