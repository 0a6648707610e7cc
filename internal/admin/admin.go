// Package admin implements the chat command dispatcher: parsing
// `/command` chat lines into typed actions that mutate the client session or
// its lobby/team, with per-command privilege and context requirements.
// Dispatch produces a typed Action the caller applies; the dispatcher
// itself never reaches into a lobby.
package admin

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/sylverant/psoship/internal/client"
	"github.com/sylverant/psoship/internal/script"
)

// chatColor prefixes an in-game reply line; \tE resets formatting and \tC7
// selects the white-ish palette entry every reply uses.
const chatColor = "\tE\tC7"

// Reply formats s as a coloured in-game chat line.
func Reply(s string) string { return chatColor + s }

// Context is where a command may legally run: anywhere, only in a lobby,
// only in a team, or only as team leader.
type Context int

const (
	ContextAny Context = iota
	ContextLobby
	ContextTeam
	ContextTeamLeader
)

// Action is a typed mutation the caller applies after dispatch. The concrete
// types below are the full set; the dispatcher never mutates game state
// itself.
type Action interface{ isAction() }

// SetMaxLevel caps the team's join level range.
type SetMaxLevel struct{ Level int }

// SetMinLevel floors the team's join level range.
type SetMinLevel struct{ Level int }

// SetPassword sets or clears the team password.
type SetPassword struct{ Password string }

// Mute toggles the STFU flag for a guild card.
type Mute struct {
	Guildcard uint32
	On        bool
}

// Kick disconnects a guild card from the block.
type Kick struct {
	Guildcard uint32
	Reason    string
}

// UserLogin asks the shipgate to authenticate username/password for the
// invoking client; on success the caller merges the returned privileges.
type UserLogin struct {
	Username string
	Password string
}

// ScheduleShutdown arms a deferred shutdown or restart, in minutes.
type ScheduleShutdown struct {
	Minutes int
	Restart bool
}

func (SetMaxLevel) isAction()      {}
func (SetMinLevel) isAction()      {}
func (SetPassword) isAction()      {}
func (Mute) isAction()             {}
func (Kick) isAction()             {}
func (UserLogin) isAction()        {}
func (ScheduleShutdown) isAction() {}

// Invocation is everything a command handler may read: the invoking client,
// its placement, and the team's current difficulty (for /minlvl's floor).
type Invocation struct {
	Client     *client.Client
	InTeam     bool
	IsLeader   bool
	Difficulty int
	Args       []string
}

// Result is a dispatch outcome: an optional chat reply for the invoker and
// an optional Action for the caller to apply.
type Result struct {
	ReplyText string
	Action    Action
}

// Handler executes one command.
type Handler func(inv *Invocation) (Result, error)

// Command is one dispatch-table entry.
type Command struct {
	Name      string
	Privilege client.Privilege // zero means available to everyone
	Context   Context
	Handler   Handler
}

// Dispatcher routes parsed chat commands. Commands are registered once at
// startup, then the table is read-only.
type Dispatcher struct {
	mu    sync.RWMutex
	cmds  map[string]*Command
	hooks *script.Table
}

// NewDispatcher returns a dispatcher with the built-in command set
// registered. hooks may be nil; if present, unknown commands are offered to
// the script layer before being rejected.
func NewDispatcher(hooks *script.Table) *Dispatcher {
	d := &Dispatcher{
		cmds:  make(map[string]*Command, 16),
		hooks: hooks,
	}
	registerBuiltins(d)
	return d
}

// Register adds a command; names are lowercased for case-insensitive lookup.
func (d *Dispatcher) Register(cmd *Command) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cmds[strings.ToLower(cmd.Name)] = cmd
}

// IsCommand reports whether a chat line (already stripped of its language
// tag) should be dispatched rather than broadcast.
func IsCommand(text string) bool {
	return strings.HasPrefix(text, "/")
}

// Dispatch parses and runs one /command line. A non-empty ReplyText is a
// reply the caller should echo to the invoker; it is empty when a script
// hook handled the command and for /login, whose reply the caller produces
// after the shipgate round trip. Errors indicate dispatcher-internal
// failure, not user mistakes.
func (d *Dispatcher) Dispatch(inv *Invocation, text string) (Result, error) {
	body := strings.TrimPrefix(text, "/")
	fields := strings.Fields(body)
	if len(fields) == 0 {
		return Result{ReplyText: Reply("Huh?")}, nil
	}
	name := strings.ToLower(fields[0])
	inv.Args = fields[1:]

	d.mu.RLock()
	cmd, ok := d.cmds[name]
	d.mu.RUnlock()

	if !ok {
		return d.unknown(inv, name, fields[1:])
	}

	if cmd.Privilege != 0 && !inv.Client.Privilege().Has(cmd.Privilege) {
		slog.Warn("unauthorized command attempt",
			"guildcard", inv.Client.Guildcard(),
			"command", name)
		return Result{ReplyText: Reply("Nice try.")}, nil
	}

	if reply, ok := checkContext(cmd.Context, inv); !ok {
		return Result{ReplyText: reply}, nil
	}

	res, err := cmd.Handler(inv)
	if err != nil {
		return Result{}, fmt.Errorf("admin: /%s: %w", name, err)
	}
	return res, nil
}

// unknown offers the command to the scripting hook table before rejecting
// it; a hook returning handled suppresses the rejection.
func (d *Dispatcher) unknown(inv *Invocation, name string, args []string) (Result, error) {
	if d.hooks != nil {
		handled, err := d.hooks.Fire(script.EventUnknownCommand, script.Args{
			"guildcard": inv.Client.Guildcard(),
			"command":   name,
			"args":      args,
		})
		if err != nil {
			return Result{}, err
		}
		if handled {
			return Result{}, nil
		}
	}
	return Result{ReplyText: Reply("Unknown command: /" + name)}, nil
}

func checkContext(want Context, inv *Invocation) (string, bool) {
	switch want {
	case ContextLobby:
		if inv.InTeam {
			return Reply("Not available in a team."), false
		}
	case ContextTeam:
		if !inv.InTeam {
			return Reply("Only available in a team."), false
		}
	case ContextTeamLeader:
		if !inv.InTeam {
			return Reply("Only available in a team."), false
		}
		if !inv.IsLeader {
			return Reply("Only the team leader can do that."), false
		}
	}
	return "", true
}
