package admin

import (
	"strconv"

	"github.com/sylverant/psoship/internal/client"
)

// MaxLevelCap is the game's level ceiling.
const MaxLevelCap = 200

// difficultyMinLevels is the minimum character level each difficulty
// requires, indexed by difficulty (normal, hard, very hard, ultimate); a
// /minlvl below the team's difficulty floor is meaningless and rejected.
var difficultyMinLevels = [4]int{1, 20, 40, 80}

// MinLevelForDifficulty returns the game's level floor for a difficulty,
// clamping out-of-range difficulties to the table edges.
func MinLevelForDifficulty(difficulty int) int {
	if difficulty < 0 {
		difficulty = 0
	}
	if difficulty >= len(difficultyMinLevels) {
		difficulty = len(difficultyMinLevels) - 1
	}
	return difficultyMinLevels[difficulty]
}

// maxPasswordLen is the longest team password the client UI can enter.
const maxPasswordLen = 16

func registerBuiltins(d *Dispatcher) {
	d.Register(&Command{Name: "login", Handler: cmdLogin})
	d.Register(&Command{Name: "minlvl", Context: ContextTeamLeader, Handler: cmdMinLevel})
	d.Register(&Command{Name: "maxlvl", Context: ContextTeamLeader, Handler: cmdMaxLevel})
	d.Register(&Command{Name: "passwd", Context: ContextTeamLeader, Handler: cmdPasswd})
	d.Register(&Command{Name: "stfu", Privilege: client.PrivLocalGM, Handler: cmdStfu})
	d.Register(&Command{Name: "unstfu", Privilege: client.PrivLocalGM, Handler: cmdUnstfu})
	d.Register(&Command{Name: "kick", Privilege: client.PrivLocalGM, Handler: cmdKick})
	d.Register(&Command{Name: "shutdown", Privilege: client.PrivLocalRoot, Handler: cmdShutdown})
	d.Register(&Command{Name: "restart", Privilege: client.PrivLocalRoot, Handler: cmdRestart})
}

// cmdLogin forwards username/password to the shipgate; the caller performs
// the actual USRLOGIN request and merges the returned privileges into the
// session.
func cmdLogin(inv *Invocation) (Result, error) {
	if len(inv.Args) != 2 {
		return Result{ReplyText: Reply("Usage: /login username password")}, nil
	}
	return Result{
		Action: UserLogin{Username: inv.Args[0], Password: inv.Args[1]},
	}, nil
}

func cmdMinLevel(inv *Invocation) (Result, error) {
	lvl, ok := parseLevel(inv.Args)
	if !ok {
		return Result{ReplyText: Reply("Usage: /minlvl level")}, nil
	}
	floor := MinLevelForDifficulty(inv.Difficulty)
	if lvl < floor || lvl > MaxLevelCap {
		return Result{ReplyText: Reply("Invalid level value.")}, nil
	}
	return Result{
		ReplyText: Reply("Minimum level set."),
		Action:    SetMinLevel{Level: lvl},
	}, nil
}

func cmdMaxLevel(inv *Invocation) (Result, error) {
	lvl, ok := parseLevel(inv.Args)
	if !ok {
		return Result{ReplyText: Reply("Usage: /maxlvl level")}, nil
	}
	if lvl < 1 || lvl > MaxLevelCap {
		return Result{ReplyText: Reply("Invalid level value.")}, nil
	}
	return Result{
		ReplyText: Reply("Maximum level set."),
		Action:    SetMaxLevel{Level: lvl},
	}, nil
}

func parseLevel(args []string) (int, bool) {
	if len(args) != 1 {
		return 0, false
	}
	lvl, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, false
	}
	return lvl, true
}

// cmdPasswd sets the team password: at most 16 bytes, every byte printable
// ASCII. No argument clears it.
func cmdPasswd(inv *Invocation) (Result, error) {
	if len(inv.Args) == 0 {
		return Result{
			ReplyText: Reply("Password cleared."),
			Action:    SetPassword{},
		}, nil
	}
	if len(inv.Args) != 1 {
		return Result{ReplyText: Reply("Usage: /passwd [password]")}, nil
	}
	pw := inv.Args[0]
	if len(pw) > maxPasswordLen {
		return Result{ReplyText: Reply("Password too long.")}, nil
	}
	for i := 0; i < len(pw); i++ {
		if pw[i] < 0x20 || pw[i] > 0x7E {
			return Result{ReplyText: Reply("Invalid character in password.")}, nil
		}
	}
	return Result{
		ReplyText: Reply("Password set."),
		Action:    SetPassword{Password: pw},
	}, nil
}

func cmdStfu(inv *Invocation) (Result, error) {
	gc, ok := parseGuildcard(inv.Args)
	if !ok {
		return Result{ReplyText: Reply("Usage: /stfu guildcard")}, nil
	}
	return Result{
		ReplyText: Reply("Muted."),
		Action:    Mute{Guildcard: gc, On: true},
	}, nil
}

func cmdUnstfu(inv *Invocation) (Result, error) {
	gc, ok := parseGuildcard(inv.Args)
	if !ok {
		return Result{ReplyText: Reply("Usage: /unstfu guildcard")}, nil
	}
	return Result{
		ReplyText: Reply("Unmuted."),
		Action:    Mute{Guildcard: gc, On: false},
	}, nil
}

func cmdKick(inv *Invocation) (Result, error) {
	if len(inv.Args) < 1 {
		return Result{ReplyText: Reply("Usage: /kick guildcard [reason]")}, nil
	}
	gc64, err := strconv.ParseUint(inv.Args[0], 10, 32)
	if err != nil {
		return Result{ReplyText: Reply("Usage: /kick guildcard [reason]")}, nil
	}
	reason := ""
	if len(inv.Args) > 1 {
		for i, w := range inv.Args[1:] {
			if i > 0 {
				reason += " "
			}
			reason += w
		}
	}
	return Result{
		ReplyText: Reply("Kicked."),
		Action:    Kick{Guildcard: uint32(gc64), Reason: reason},
	}, nil
}

func parseGuildcard(args []string) (uint32, bool) {
	if len(args) != 1 {
		return 0, false
	}
	gc, err := strconv.ParseUint(args[0], 10, 32)
	if err != nil {
		return 0, false
	}
	return uint32(gc), true
}

func cmdShutdown(inv *Invocation) (Result, error) {
	return scheduleCmd(inv, false)
}

func cmdRestart(inv *Invocation) (Result, error) {
	return scheduleCmd(inv, true)
}

func scheduleCmd(inv *Invocation, restart bool) (Result, error) {
	minutes := 0
	if len(inv.Args) == 1 {
		m, err := strconv.Atoi(inv.Args[0])
		if err != nil || m < 0 {
			return Result{ReplyText: Reply("Usage: minutes must be a non-negative number.")}, nil
		}
		minutes = m
	} else if len(inv.Args) > 1 {
		return Result{ReplyText: Reply("Usage: one optional minutes argument.")}, nil
	}
	return Result{
		ReplyText: Reply("Scheduled."),
		Action:    ScheduleShutdown{Minutes: minutes, Restart: restart},
	}, nil
}
