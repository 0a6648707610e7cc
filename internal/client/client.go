// Package client implements the per-connection client session: the
// state machine, privilege and capability bitsets, ignore list, inventory
// shadow, and outbound send queue for one connected game client.
// Block/lobby membership is tracked by id, not by pointer; a Client never
// holds a pointer back into its Block or Lobby.
package client

import (
	"fmt"
	"log/slog"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sylverant/psoship/internal/cipher"
	"github.com/sylverant/psoship/internal/item"
	"github.com/sylverant/psoship/internal/protocol"
)

// State is a step in the connection lifecycle.
type State int32

const (
	StateHandshake State = iota
	StateRedirect
	StateLogin
	StateCharacterLoad
	StateInBlock
	StateInLobby
	StateInTeam
	StateDisconnecting
)

func (s State) String() string {
	switch s {
	case StateHandshake:
		return "handshake"
	case StateRedirect:
		return "redirect"
	case StateLogin:
		return "login"
	case StateCharacterLoad:
		return "character_load"
	case StateInBlock:
		return "in_block"
	case StateInLobby:
		return "in_lobby"
	case StateInTeam:
		return "in_team"
	case StateDisconnecting:
		return "disconnecting"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// validTransitions encodes the lifecycle graph; InTeam and
// InLobby loop back to one another (leaving a team returns to the lobby)
// and any state can fall through to Disconnecting.
var validTransitions = map[State][]State{
	StateHandshake:     {StateRedirect, StateLogin, StateDisconnecting},
	StateRedirect:      {StateLogin, StateDisconnecting},
	StateLogin:         {StateCharacterLoad, StateDisconnecting},
	StateCharacterLoad: {StateInBlock, StateDisconnecting},
	StateInBlock:       {StateInLobby, StateDisconnecting},
	StateInLobby:       {StateInTeam, StateInBlock, StateDisconnecting},
	StateInTeam:        {StateInLobby, StateDisconnecting},
	StateDisconnecting: {},
}

// Privilege is a bitset of administrative grants.
type Privilege uint8

const (
	PrivLocalGM Privilege = 1 << iota
	PrivLocalRoot
	PrivGlobalGM
	PrivGlobalRoot
)

// Has reports whether all bits in want are set.
func (p Privilege) Has(want Privilege) bool { return p&want == want }

// Flags is a bitset of per-client capability/state flags.
type Flags uint32

const (
	FlagBursting Flags = 1 << iota
	FlagLoggedIn
	FlagQuestProtected
	FlagLegitMode
	FlagServerDrops
	FlagTrackKills
	FlagInventoryDump
	FlagAutoBackup
	FlagWordCensor
	FlagGCProtect
)

const ignoreListCapacity = 6

const (
	defaultSendQueueSize = 64
	defaultWriteTimeout  = 5 * time.Second
)

// Client is one connected game client's session state. conn, ip and version
// are immutable after construction; everything else is guarded the way the field's
// write frequency demands: an atomic word for the hot-path state and
// flags, a small mutex for the rest.
type Client struct {
	conn    net.Conn
	ip      string
	version protocol.Version

	state atomic.Int32
	flags atomic.Uint32

	// mu guards the fields below, all written rarely relative to the hot
	// packet-processing path.
	mu            sync.Mutex
	guildcard     uint32
	name          string
	language      uint8
	questLanguage uint8
	privilege     Privilege
	blockID       int32 // -1 if not attached to a block
	lobbyID       int32 // -1 if not attached to a lobby/team
	slotID        int8  // client_id within the current lobby/team, -1 if none
	area          int
	x, y, z       float32
	ignoreList    []uint32

	inventory []item.Item

	cipherPair *cipher.Pair

	sendCh       chan []byte
	closeCh      chan struct{}
	closeOnce    sync.Once
	writeTimeout time.Duration

	packetLog *slog.Logger
}

// New returns a Client in StateHandshake, not yet attached to any block or
// lobby.
func New(conn net.Conn, version protocol.Version) *Client {
	host := ""
	if conn != nil {
		if h, _, err := net.SplitHostPort(conn.RemoteAddr().String()); err == nil {
			host = h
		}
	}
	c := &Client{
		conn:         conn,
		ip:           host,
		version:      version,
		blockID:      -1,
		lobbyID:      -1,
		slotID:       -1,
		sendCh:       make(chan []byte, defaultSendQueueSize),
		closeCh:      make(chan struct{}),
		writeTimeout: defaultWriteTimeout,
	}
	c.state.Store(int32(StateHandshake))
	return c
}

// IP returns the client's remote address, stripped of port.
func (c *Client) IP() string { return c.ip }

// Version returns the protocol version negotiated at handshake.
func (c *Client) Version() protocol.Version { return c.version }

// State returns the current lifecycle state (lock-free).
func (c *Client) State() State { return State(c.state.Load()) }

// TransitionTo moves the client to the next state, rejecting transitions
// not present in validTransitions.
func (c *Client) TransitionTo(next State) error {
	cur := c.State()
	for _, allowed := range validTransitions[cur] {
		if allowed == next {
			c.state.Store(int32(next))
			return nil
		}
	}
	return fmt.Errorf("client: illegal transition %s -> %s", cur, next)
}

// Flags returns the current capability/state bitset (lock-free).
func (c *Client) Flags() Flags { return Flags(c.flags.Load()) }

// HasFlag reports whether a single flag is set.
func (c *Client) HasFlag(f Flags) bool { return c.Flags()&f != 0 }

// SetFlag sets or clears one flag atomically.
func (c *Client) SetFlag(f Flags, on bool) {
	for {
		old := c.flags.Load()
		var next uint32
		if on {
			next = old | uint32(f)
		} else {
			next = old &^ uint32(f)
		}
		if c.flags.CompareAndSwap(old, next) {
			return
		}
	}
}

// Guildcard returns the client's guild card number.
func (c *Client) Guildcard() uint32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.guildcard
}

// SetGuildcard sets the client's guild card number, assigned at login.
func (c *Client) SetGuildcard(gc uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.guildcard = gc
}

// Name returns the character's display name.
func (c *Client) Name() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.name
}

// SetName sets the character's display name.
func (c *Client) SetName(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.name = name
}

// Privilege returns the client's administrative privilege bitset.
func (c *Client) Privilege() Privilege {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.privilege
}

// SetPrivilege replaces the client's privilege bitset.
func (c *Client) SetPrivilege(p Privilege) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.privilege = p
}

// Location returns the client's current block id, lobby/team id and
// in-lobby slot id. A value of -1 means "not attached".
func (c *Client) Location() (blockID, lobbyID int32, slotID int8) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.blockID, c.lobbyID, c.slotID
}

// SetLocation updates the client's block/lobby/slot attachment. Called by
// the block/lobby layer when a client joins or leaves, never by the client
// itself, to keep the arena-and-index invariant enforceable from one place.
func (c *Client) SetLocation(blockID, lobbyID int32, slotID int8) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.blockID, c.lobbyID, c.slotID = blockID, lobbyID, slotID
}

// Position returns the client's last-known area and coordinates.
func (c *Client) Position() (area int, x, y, z float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.area, c.x, c.y, c.z
}

// SetPosition updates the client's area and coordinates from a movement
// sub-command.
func (c *Client) SetPosition(area int, x, y, z float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.area, c.x, c.y, c.z = area, x, y, z
}

// Language and QuestLanguage report the client's UI and quest text
// language codes.
func (c *Client) Language() uint8 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.language
}

func (c *Client) SetLanguage(lang, questLang uint8) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.language, c.questLanguage = lang, questLang
}

// QuestLanguage reports the client's quest text language code.
func (c *Client) QuestLanguage() uint8 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.questLanguage
}

// IgnoreList returns a copy of the client's ignored-guildcard list.
func (c *Client) IgnoreList() []uint32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]uint32, len(c.ignoreList))
	copy(out, c.ignoreList)
	return out
}

// IsIgnoring does a linear scan of the fixed-capacity ignore list; N is
// small enough (~6) that a map would be overkill.
func (c *Client) IsIgnoring(guildcard uint32) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, gc := range c.ignoreList {
		if gc == guildcard {
			return true
		}
	}
	return false
}

// Ignore adds a guildcard to the ignore list, reporting false if the list
// is already at capacity.
func (c *Client) Ignore(guildcard uint32) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, gc := range c.ignoreList {
		if gc == guildcard {
			return true
		}
	}
	if len(c.ignoreList) >= ignoreListCapacity {
		return false
	}
	c.ignoreList = append(c.ignoreList, guildcard)
	return true
}

// Unignore removes a guildcard from the ignore list.
func (c *Client) Unignore(guildcard uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, gc := range c.ignoreList {
		if gc == guildcard {
			c.ignoreList = append(c.ignoreList[:i], c.ignoreList[i+1:]...)
			return
		}
	}
}

// Inventory returns the client's inventory shadow.
func (c *Client) Inventory() []item.Item {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inventory
}

// SetInventory replaces the inventory shadow wholesale (character load).
func (c *Client) SetInventory(items []item.Item) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.inventory = items
}

// AddInventoryItem appends one item to the shadow (pickup/trade mirror).
func (c *Client) AddInventoryItem(it item.Item) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.inventory = append(c.inventory, it)
}

// RemoveInventoryItem drops the item with the given id from the shadow.
func (c *Client) RemoveInventoryItem(id uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, it := range c.inventory {
		if it.ID == id {
			c.inventory = append(c.inventory[:i], c.inventory[i+1:]...)
			return
		}
	}
}

// SetCipherPair installs the per-connection cipher pair, negotiated during
// the handshake.
func (c *Client) SetCipherPair(p *cipher.Pair) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cipherPair = p
}

// CipherPair returns the installed cipher pair, or nil before handshake
// completes.
func (c *Client) CipherPair() *cipher.Pair {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cipherPair
}

// EnablePacketLog attaches a structured logger that Send mirrors every
// outgoing packet to, for debugging a specific connection.
func (c *Client) EnablePacketLog(l *slog.Logger) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.packetLog = l
}

func (c *Client) logPacket(direction string, data []byte) {
	c.mu.Lock()
	l := c.packetLog
	c.mu.Unlock()
	if l != nil {
		l.Debug("packet", "direction", direction, "bytes", len(data))
	}
}

// Send queues a fully framed, encrypted packet for async delivery.
// Non-blocking: a full queue means a slow or wedged client, so the
// connection is torn down rather than backing up memory indefinitely.
func (c *Client) Send(framed []byte) error {
	c.logPacket("out", framed)
	select {
	case c.sendCh <- framed:
		return nil
	default:
		slog.Warn("client send queue full, disconnecting", "ip", c.ip)
		c.Close()
		return fmt.Errorf("client: send queue full")
	}
}

// WritePump drains sendCh to the connection until closed. Intended to run
// in its own goroutine, one per client, supervised by the owning block's
// errgroup.
func (c *Client) WritePump() error {
	for {
		select {
		case pkt, ok := <-c.sendCh:
			if !ok {
				return nil
			}
			if c.conn == nil {
				continue
			}
			if err := c.conn.SetWriteDeadline(time.Now().Add(c.writeTimeout)); err != nil {
				return fmt.Errorf("client: set write deadline: %w", err)
			}
			if _, err := c.conn.Write(pkt); err != nil {
				return fmt.Errorf("client: write: %w", err)
			}
		case <-c.closeCh:
			return nil
		}
	}
}

// Close marks the client disconnecting, stops the write pump, and closes
// the underlying connection. Safe to call multiple times.
func (c *Client) Close() error {
	c.closeOnce.Do(func() {
		c.state.Store(int32(StateDisconnecting))
		close(c.closeCh)
	})
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
