// Package ship wires the whole server together: the configuration
// snapshot, the block vector, the lobby/game event codes, the read-write
// locked limits-list and quest tables, the shipgate link, the ban lists,
// and the scheduler. The Ship is an explicit context passed to handlers,
// never a package-level global.
package ship

import (
	"context"
	"encoding/binary"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/sylverant/psoship/internal/admin"
	"github.com/sylverant/psoship/internal/ban"
	"github.com/sylverant/psoship/internal/block"
	"github.com/sylverant/psoship/internal/config"
	"github.com/sylverant/psoship/internal/item"
	"github.com/sylverant/psoship/internal/quest"
	"github.com/sylverant/psoship/internal/scheduler"
	"github.com/sylverant/psoship/internal/script"
	"github.com/sylverant/psoship/internal/shipgate"
)

// pingInterval is how often the scheduler sends a shipgate heartbeat.
const pingInterval = 30 * time.Second

// banPruneInterval is how often expired bans are swept.
const banPruneInterval = time.Minute

// Gate is the slice of the shipgate link the ship needs; an interface so
// tests can run a whole Ship without a TLS session.
type Gate interface {
	Request(ctx context.Context, pktType uint16, body []byte) (shipgate.Frame, error)
	Send(pktType uint16, body []byte) error
}

// Ship is the process-wide composite. Created at boot after the config is
// parsed, torn down on shutdown.
type Ship struct {
	cfg *config.Ship

	blocks []*block.Block

	gate Gate

	GCBans *ban.List
	IPBans *ban.List
	Mutes  *ban.MuteList

	Quests *quest.Registry
	Hooks  *script.Table
	Admin  *admin.Dispatcher
	Sched  *scheduler.Scheduler
	Flags  *quest.FlagStore

	// limitsMu guards the limits-list table; teams retain the *LimitsList
	// they grabbed at creation, so a reload only swaps the table.
	limitsMu sync.RWMutex
	limits   map[string]*item.LimitsList

	// event is the current lobby/game event code (Christmas/Easter/...),
	// consulted by the Rappy rt-index fixup at team load.
	eventMu sync.Mutex
	event   int

	shuttingDown chan struct{}
	shutdownOnce sync.Once
}

// New builds a Ship from a validated configuration snapshot and an
// already-constructed shipgate link.
func New(cfg *config.Ship, gate Gate, processSeed uint32) *Ship {
	hooks := script.NewTable()
	s := &Ship{
		cfg:          cfg,
		gate:         gate,
		GCBans:       ban.New(),
		IPBans:       ban.New(),
		Mutes:        ban.NewMuteList(),
		Quests:       quest.NewRegistry(),
		Hooks:        hooks,
		Admin:        admin.NewDispatcher(hooks),
		Sched:        scheduler.New(),
		limits:       make(map[string]*item.LimitsList),
		shuttingDown: make(chan struct{}),
	}
	if g, ok := gate.(quest.Gate); ok {
		s.Flags = quest.NewFlagStore(g)
	}

	for i := 0; i < cfg.Blocks; i++ {
		name := fmt.Sprintf("BLOCK%02d", i+1)
		s.blocks = append(s.blocks, block.New(i, name, processSeed))
	}
	return s
}

// Name returns the ship's configured display name.
func (s *Ship) Name() string { return s.cfg.Name }

// Block returns the block at index, or nil if out of range.
func (s *Ship) Block(index int) *block.Block {
	if index < 0 || index >= len(s.blocks) {
		return nil
	}
	return s.blocks[index]
}

// BlockCount returns how many blocks the ship runs.
func (s *Ship) BlockCount() int { return len(s.blocks) }

// ClientCount sums connected clients across blocks, for the periodic count
// report to the shipgate.
func (s *Ship) ClientCount() int {
	n := 0
	for _, b := range s.blocks {
		n += b.ClientCount()
	}
	return n
}

// GameCount sums live teams across blocks.
func (s *Ship) GameCount() int {
	n := 0
	for _, b := range s.blocks {
		n += b.TeamCount()
	}
	return n
}

// LimitsList returns the named limits list. Teams retain the returned
// pointer for their lifetime; a later ReplaceLimits does not affect them.
func (s *Ship) LimitsList(name string) (*item.LimitsList, bool) {
	s.limitsMu.RLock()
	defer s.limitsMu.RUnlock()
	l, ok := s.limits[name]
	return l, ok
}

// ReplaceLimits swaps the whole limits-list table atomically.
func (s *Ship) ReplaceLimits(lists map[string]*item.LimitsList) {
	s.limitsMu.Lock()
	s.limits = lists
	s.limitsMu.Unlock()
}

// Event returns the current lobby/game event code.
func (s *Ship) Event() int {
	s.eventMu.Lock()
	defer s.eventMu.Unlock()
	return s.event
}

// SetEvent changes the lobby/game event code.
func (s *Ship) SetEvent(ev int) {
	s.eventMu.Lock()
	s.event = ev
	s.eventMu.Unlock()
}

// CheckAccess consults the ban lists for a connecting client. The
// returned entry describes the ban for the message box.
func (s *Ship) CheckAccess(guildcard uint32, ip string) (ban.Entry, bool) {
	if e, banned := s.GCBans.IsGuildcardBanned(guildcard); banned {
		return e, true
	}
	if ip != "" {
		if e, banned := s.IPBans.IsIPBanned(parseIP(ip)); banned {
			return e, true
		}
	}
	return ban.Entry{}, false
}

// Run supervises the ship's long-running loops: the shipgate link (driven
// by the caller, since its concrete type owns the reconnect loop), the
// scheduler, and the periodic heartbeat/prune tasks. Returns when ctx is
// cancelled or a loop fails.
func (s *Ship) Run(ctx context.Context) error {
	s.Sched.Every("shipgate-ping", pingInterval, func() {
		if err := s.gate.Send(shipgate.TypePing, nil); err != nil {
			slog.Debug("shipgate ping failed", "error", err)
		}
	})
	s.Sched.Every("shipgate-counts", pingInterval, func() {
		s.sendCounts()
	})
	s.Sched.Every("ban-prune", banPruneInterval, func() {
		if n := s.GCBans.PruneExpired() + s.IPBans.PruneExpired(); n > 0 {
			slog.Info("pruned expired bans", "count", n)
		}
	})

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.Sched.Run(ctx) })
	g.Go(func() error {
		<-ctx.Done()
		s.beginShutdown()
		return ctx.Err()
	})
	return g.Wait()
}

// sendCounts reports current client/game totals to the shipgate.
func (s *Ship) sendCounts() {
	body := make([]byte, 8)
	binary.LittleEndian.PutUint32(body[0:4], uint32(s.ClientCount()))
	binary.LittleEndian.PutUint32(body[4:8], uint32(s.GameCount()))
	if err := s.gate.Send(shipgate.TypeCount, body); err != nil {
		slog.Debug("shipgate count update failed", "error", err)
	}
}

// beginShutdown flips the ship into the draining state once.
func (s *Ship) beginShutdown() {
	s.shutdownOnce.Do(func() {
		close(s.shuttingDown)
		slog.Info("ship shutting down", "notice", s.cfg.ShutdownNotice)
	})
}

// ShuttingDown reports whether teardown has begun; new connections are
// refused once it has.
func (s *Ship) ShuttingDown() bool {
	select {
	case <-s.shuttingDown:
		return true
	default:
		return false
	}
}
