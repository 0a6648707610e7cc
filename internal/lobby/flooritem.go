package lobby

import (
	"fmt"
	"sync"

	"github.com/sylverant/psoship/internal/item"
)

// FirstFloorItemID is the base of the in-team item id space; team-generated
// item ids count up from here.
const FirstFloorItemID uint32 = item.New16BitItemFloor

// FloorItem is one item lying on a team's floor, spawned but not yet picked
// up.
type FloorItem struct {
	ID   uint32
	Item item.Item
	Area int
	X, Z float32
}

// FloorQueue is a Blue Burst team's authoritative floor-item store: drops
// are enqueued here before the drop sub-command is broadcast, so a later
// pickup request can be validated against what the server actually
// spawned. Owned by the team and freed with it.
type FloorQueue struct {
	mu     sync.Mutex
	nextID uint32
	items  []FloorItem
}

// NewFloorQueue returns an empty queue with the id counter at the base of
// the team item id space.
func NewFloorQueue() *FloorQueue {
	return &FloorQueue{nextID: FirstFloorItemID}
}

// NextItemID returns the id the next Add will assign.
func (q *FloorQueue) NextItemID() uint32 {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.nextID
}

// Add assigns the next item id, records the item on the floor, and returns
// the id for the broadcast sub-command.
func (q *FloorQueue) Add(it item.Item, area int, x, z float32) uint32 {
	q.mu.Lock()
	defer q.mu.Unlock()
	id := q.nextID
	q.nextID++
	it.ID = id
	q.items = append(q.items, FloorItem{ID: id, Item: it, Area: area, X: x, Z: z})
	return id
}

// Take validates a pickup: the id must refer to an item actually on the
// floor. On success the item is removed and returned.
func (q *FloorQueue) Take(id uint32) (FloorItem, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for i, fi := range q.items {
		if fi.ID == id {
			q.items = append(q.items[:i], q.items[i+1:]...)
			return fi, nil
		}
	}
	return FloorItem{}, fmt.Errorf("lobby: no floor item with id 0x%08X", id)
}

// Len reports how many items are on the floor.
func (q *FloorQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Items returns a snapshot of the floor, for a joiner's state sync.
func (q *FloorQueue) Items() []FloorItem {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]FloorItem, len(q.items))
	copy(out, q.items)
	return out
}
