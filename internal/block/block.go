// Package block implements the per-block world: a block is an independent
// shard with its own client registry, its own ordered lobby/team set, and
// its own Mersenne Twister RNG.
package block

import (
	"fmt"
	"sync"

	"github.com/sylverant/psoship/internal/client"
	"github.com/sylverant/psoship/internal/lobby"
	"github.com/sylverant/psoship/internal/rng"
)

// StandardLobbyCount is how many standing public lobbies every block
// creates at startup.
const StandardLobbyCount = lobby.LastStandardLobbyID - lobby.FirstStandardLobbyID + 1

// Block is one independent shard of a ship: a set of connected clients, a
// set of public lobbies plus instanced teams, and a private RNG stream.
type Block struct {
	index int
	name  string

	rng *rng.MT19937

	clientsMu sync.RWMutex
	clients   map[uint32]*client.Client // keyed by client registry id, assigned by the ship on connect

	lobbiesMu  sync.RWMutex
	lobbies    map[uint32]*lobby.Lobby
	nextTeamID uint32
}

// New creates a Block with its standard public lobbies pre-created and
// its RNG seeded from the process seed and the block index.
func New(index int, name string, processSeed uint32) *Block {
	b := &Block{
		index:      index,
		name:       name,
		rng:        rng.New(rng.SeedFromBlock(processSeed, index)),
		clients:    make(map[uint32]*client.Client),
		lobbies:    make(map[uint32]*lobby.Lobby),
		nextTeamID: lobby.FirstTeamID,
	}
	for id := lobby.FirstStandardLobbyID; id <= lobby.LastStandardLobbyID; id++ {
		b.lobbies[uint32(id)] = lobby.New(uint32(id), lobby.KindLobby, standardLobbyCapacity)
	}
	return b
}

// standardLobbyCapacity is the player capacity of a standard public
// lobby: up to 12 in the pre-BB client UI; BB's lobby UI differs but the
// server-side seat count is the same.
const standardLobbyCapacity = 12

// defaultTeamCapacity is the player capacity of a freshly created team
// (a full PSO party).
const defaultTeamCapacity = 4

// Index returns the block's 0-based index within the ship.
func (b *Block) Index() int { return b.index }

// Name returns the block's display name.
func (b *Block) Name() string { return b.name }

// RNG returns the block's private Mersenne Twister generator. Callers
// that need deterministic drop reproducibility must route
// all of a block's randomness through this one instance.
func (b *Block) RNG() *rng.MT19937 { return b.rng }

// AddClient registers a newly connected client under id, the client
// registry key assigned by the ship at accept time.
func (b *Block) AddClient(id uint32, c *client.Client) {
	b.clientsMu.Lock()
	defer b.clientsMu.Unlock()
	b.clients[id] = c
}

// RemoveClient unregisters a client, e.g. on disconnect.
func (b *Block) RemoveClient(id uint32) {
	b.clientsMu.Lock()
	defer b.clientsMu.Unlock()
	delete(b.clients, id)
}

// Client looks up a registered client by id.
func (b *Block) Client(id uint32) (*client.Client, bool) {
	b.clientsMu.RLock()
	defer b.clientsMu.RUnlock()
	c, ok := b.clients[id]
	return c, ok
}

// ClientCount returns the number of clients currently registered to this
// block.
func (b *Block) ClientCount() int {
	b.clientsMu.RLock()
	defer b.clientsMu.RUnlock()
	return len(b.clients)
}

// ForEachClient calls fn for every registered client, stopping early if fn
// returns false.
func (b *Block) ForEachClient(fn func(id uint32, c *client.Client) bool) {
	b.clientsMu.RLock()
	defer b.clientsMu.RUnlock()
	for id, c := range b.clients {
		if !fn(id, c) {
			return
		}
	}
}

// Lobby returns the standing lobby or instanced team with the given id.
func (b *Block) Lobby(id uint32) (*lobby.Lobby, bool) {
	b.lobbiesMu.RLock()
	defer b.lobbiesMu.RUnlock()
	l, ok := b.lobbies[id]
	return l, ok
}

// CreateTeam allocates a new instanced team id, wrapping at
// lobby.MaxTeamID back to lobby.FirstTeamID and skipping any id still in
// use, and registers the new Team.
func (b *Block) CreateTeam(capacity int) (*lobby.Lobby, error) {
	if capacity <= 0 {
		capacity = defaultTeamCapacity
	}

	b.lobbiesMu.Lock()
	defer b.lobbiesMu.Unlock()

	start := b.nextTeamID
	id := start
	for {
		if _, taken := b.lobbies[id]; !taken {
			break
		}
		id++
		if id > lobby.MaxTeamID {
			id = lobby.FirstTeamID
		}
		if id == start {
			return nil, fmt.Errorf("block %d: no free team id", b.index)
		}
	}

	b.nextTeamID = id + 1
	if b.nextTeamID > lobby.MaxTeamID {
		b.nextTeamID = lobby.FirstTeamID
	}

	team := lobby.New(id, lobby.KindTeam, capacity)
	b.lobbies[id] = team
	return team, nil
}

// DestroyTeam removes a team from the block's registry. The caller must
// have already verified the team is empty; DestroyTeam refuses otherwise to
// avoid silently dropping players who are mid-transfer.
func (b *Block) DestroyTeam(id uint32) error {
	b.lobbiesMu.Lock()
	defer b.lobbiesMu.Unlock()

	l, ok := b.lobbies[id]
	if !ok {
		return fmt.Errorf("block %d: team %d not found", b.index, id)
	}
	if l.Kind() != lobby.KindTeam {
		return fmt.Errorf("block %d: lobby %d is not a team", b.index, id)
	}
	if !l.IsEmpty() {
		return fmt.Errorf("block %d: team %d is not empty", b.index, id)
	}
	delete(b.lobbies, id)
	return nil
}

// TeamCount returns the number of live instanced teams (excluding the
// standard public lobbies).
func (b *Block) TeamCount() int {
	b.lobbiesMu.RLock()
	defer b.lobbiesMu.RUnlock()
	n := 0
	for _, l := range b.lobbies {
		if l.Kind() == lobby.KindTeam {
			n++
		}
	}
	return n
}
