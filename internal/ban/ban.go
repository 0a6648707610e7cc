// Package ban implements guild-card and IP ban lists and mute (STFU) flags.
// Expired guild-card bans are pruned as a side effect of lookup; expired IP
// bans are removed by PruneExpired.
package ban

import (
	"net"
	"sync"
	"time"
)

// Entry is one ban or mute record.
type Entry struct {
	Reason    string
	ExpiresAt time.Time // zero value means permanent
}

// active reports whether the entry has not yet expired at now.
func (e Entry) active(now time.Time) bool {
	return e.ExpiresAt.IsZero() || now.Before(e.ExpiresAt)
}

// List is a guild-card or IP ban/mute table, safe for concurrent use.
type List struct {
	mu  sync.RWMutex
	byGC map[uint32]Entry

	// netBans holds IP/netmask entries; checked linearly, since a ship's
	// subnet ban list is small relative to its guild-card ban list.
	netBans []netBan
}

type netBan struct {
	net   *net.IPNet
	entry Entry
}

// New returns an empty ban list.
func New() *List {
	return &List{byGC: make(map[uint32]Entry)}
}

// BanGuildcard bans a guild card, optionally until expiresAt (zero value
// for permanent).
func (l *List) BanGuildcard(gc uint32, reason string, expiresAt time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.byGC[gc] = Entry{Reason: reason, ExpiresAt: expiresAt}
}

// UnbanGuildcard removes a guild-card ban unconditionally.
func (l *List) UnbanGuildcard(gc uint32) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.byGC, gc)
}

// IsGuildcardBanned reports whether gc is currently banned, pruning the
// entry if it has expired.
func (l *List) IsGuildcardBanned(gc uint32) (Entry, bool) {
	now := time.Now()

	l.mu.RLock()
	e, ok := l.byGC[gc]
	l.mu.RUnlock()
	if !ok {
		return Entry{}, false
	}
	if e.active(now) {
		return e, true
	}

	l.mu.Lock()
	delete(l.byGC, gc)
	l.mu.Unlock()
	return Entry{}, false
}

// BanNet bans every address within cidr.
func (l *List) BanNet(cidr *net.IPNet, reason string, expiresAt time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.netBans = append(l.netBans, netBan{net: cidr, entry: Entry{Reason: reason, ExpiresAt: expiresAt}})
}

// IsIPBanned reports whether ip falls within any active net ban.
func (l *List) IsIPBanned(ip net.IP) (Entry, bool) {
	now := time.Now()
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, b := range l.netBans {
		if b.net.Contains(ip) && b.entry.active(now) {
			return b.entry, true
		}
	}
	return Entry{}, false
}

// PruneExpired removes every expired guild-card and IP ban, for the
// scheduler's periodic sweep.
func (l *List) PruneExpired() int {
	now := time.Now()
	l.mu.Lock()
	defer l.mu.Unlock()

	removed := 0
	for gc, e := range l.byGC {
		if !e.active(now) {
			delete(l.byGC, gc)
			removed++
		}
	}
	kept := l.netBans[:0]
	for _, b := range l.netBans {
		if b.entry.active(now) {
			kept = append(kept, b)
		} else {
			removed++
		}
	}
	l.netBans = kept
	return removed
}

// MuteList tracks guild cards that are currently muted (the STFU flag),
// independent of the ban lists since a mute is a lesser, usually shorter,
// sanction.
type MuteList struct {
	mu   sync.RWMutex
	byGC map[uint32]Entry
}

// NewMuteList returns an empty mute list.
func NewMuteList() *MuteList {
	return &MuteList{byGC: make(map[uint32]Entry)}
}

// Mute silences gc, optionally until expiresAt.
func (m *MuteList) Mute(gc uint32, expiresAt time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byGC[gc] = Entry{ExpiresAt: expiresAt}
}

// Unmute removes a mute unconditionally.
func (m *MuteList) Unmute(gc uint32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.byGC, gc)
}

// IsMuted reports whether gc is currently muted.
func (m *MuteList) IsMuted(gc uint32) bool {
	now := time.Now()
	m.mu.RLock()
	e, ok := m.byGC[gc]
	m.mu.RUnlock()
	return ok && e.active(now)
}
