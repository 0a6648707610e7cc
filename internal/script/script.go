// Package script implements the named-event scripting hook table:
// a registry of event names to handlers, structured argument descriptors,
// and "handled" truthy suppression semantics, deliberately agnostic of any
// particular scripting language.
package script

import (
	"fmt"
	"sync"
)

// Args is the structured argument bag passed to a hook. Keys are the
// parameter names an event declares; values are left as interface{} since
// the scripting layer behind the hook owns their interpretation.
type Args map[string]any

// Handler runs when its event fires. Returning handled=true suppresses
// the core's default behaviour for that event.
type Handler func(args Args) (handled bool, err error)

// Table is a registry of named-event hooks. One event name may have
// multiple hooks; they run in registration order and the event is
// "handled" if any of them returns handled=true, matching a first-match
// short-circuit consistent with the named "truthy suppression" rule.
type Table struct {
	mu    sync.RWMutex
	hooks map[string][]Handler
}

// NewTable returns an empty hook table.
func NewTable() *Table {
	return &Table{hooks: make(map[string][]Handler)}
}

// Register adds a handler for the named event.
func (t *Table) Register(event string, h Handler) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.hooks[event] = append(t.hooks[event], h)
}

// Unregister removes all handlers for the named event.
func (t *Table) Unregister(event string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.hooks, event)
}

// Fire runs every registered handler for event in order, stopping at the
// first one that reports handled=true or returns an error.
func (t *Table) Fire(event string, args Args) (handled bool, err error) {
	t.mu.RLock()
	hooks := append([]Handler(nil), t.hooks[event]...)
	t.mu.RUnlock()

	for _, h := range hooks {
		ok, err := h(args)
		if err != nil {
			return false, fmt.Errorf("script: event %q handler error: %w", event, err)
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

// HasHooks reports whether any handler is registered for event, letting
// the core skip building an Args bag for an event nothing listens to.
func (t *Table) HasHooks(event string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.hooks[event]) > 0
}

// Standard event names the core fires.
const (
	EventPlayerLogin    = "player_login"
	EventPlayerLogout   = "player_logout"
	EventLobbyJoin      = "lobby_join"
	EventLobbyLeave     = "lobby_leave"
	EventTeamCreate     = "team_create"
	EventTeamDestroy    = "team_destroy"
	EventEnemyKill      = "enemy_kill"
	EventItemDrop       = "item_drop"
	EventChatMessage    = "chat_message"
	EventUnknownCommand = "unknown_command"
)
