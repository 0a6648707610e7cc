package admin

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sylverant/psoship/internal/client"
	"github.com/sylverant/psoship/internal/script"
)

func newInv(t *testing.T) *Invocation {
	t.Helper()
	return &Invocation{Client: client.New(nil, 0)}
}

func teamLeaderInv(t *testing.T, difficulty int) *Invocation {
	t.Helper()
	inv := newInv(t)
	inv.InTeam = true
	inv.IsLeader = true
	inv.Difficulty = difficulty
	return inv
}

func TestMaxLevelBoundaries(t *testing.T) {
	d := NewDispatcher(nil)

	tests := []struct {
		line     string
		accepted bool
	}{
		{"/maxlvl 200", true},
		{"/maxlvl 201", false},
		{"/maxlvl 1", true},
		{"/maxlvl 0", false},
		{"/maxlvl notanumber", false},
	}
	for _, tc := range tests {
		res, err := d.Dispatch(teamLeaderInv(t, 0), tc.line)
		require.NoError(t, err, tc.line)
		if tc.accepted {
			require.IsType(t, SetMaxLevel{}, res.Action, tc.line)
		} else {
			require.Nil(t, res.Action, tc.line)
		}
	}
}

func TestMinLevelRespectsDifficultyFloor(t *testing.T) {
	d := NewDispatcher(nil)

	// Ultimate difficulty floors at level 80.
	res, err := d.Dispatch(teamLeaderInv(t, 3), "/minlvl 79")
	require.NoError(t, err)
	require.Nil(t, res.Action)

	res, err = d.Dispatch(teamLeaderInv(t, 3), "/minlvl 80")
	require.NoError(t, err)
	require.Equal(t, SetMinLevel{Level: 80}, res.Action)

	// Normal difficulty floors at 1.
	res, err = d.Dispatch(teamLeaderInv(t, 0), "/minlvl 1")
	require.NoError(t, err)
	require.Equal(t, SetMinLevel{Level: 1}, res.Action)
}

func TestPasswdBoundaries(t *testing.T) {
	d := NewDispatcher(nil)

	res, err := d.Dispatch(teamLeaderInv(t, 0), "/passwd abcdefghijklmnop") // 16 chars
	require.NoError(t, err)
	require.Equal(t, SetPassword{Password: "abcdefghijklmnop"}, res.Action)

	res, err = d.Dispatch(teamLeaderInv(t, 0), "/passwd abcdefghijklmnopq") // 17 chars
	require.NoError(t, err)
	require.Nil(t, res.Action)

	res, err = d.Dispatch(teamLeaderInv(t, 0), "/passwd p\x7fss")
	require.NoError(t, err)
	require.Nil(t, res.Action)

	res, err = d.Dispatch(teamLeaderInv(t, 0), "/passwd")
	require.NoError(t, err)
	require.Equal(t, SetPassword{}, res.Action)
}

func TestLeaderOnlyCommandsRejectNonLeader(t *testing.T) {
	d := NewDispatcher(nil)

	inv := newInv(t)
	inv.InTeam = true
	inv.IsLeader = false

	res, err := d.Dispatch(inv, "/maxlvl 100")
	require.NoError(t, err)
	require.Nil(t, res.Action)
	require.Contains(t, res.ReplyText, "leader")

	res, err = d.Dispatch(newInv(t), "/passwd abc") // not in a team at all
	require.NoError(t, err)
	require.Nil(t, res.Action)
}

func TestPrivilegeGate(t *testing.T) {
	d := NewDispatcher(nil)

	res, err := d.Dispatch(newInv(t), "/stfu 1234")
	require.NoError(t, err)
	require.Nil(t, res.Action)

	inv := newInv(t)
	inv.Client.SetPrivilege(client.PrivLocalGM)
	res, err = d.Dispatch(inv, "/stfu 1234")
	require.NoError(t, err)
	require.Equal(t, Mute{Guildcard: 1234, On: true}, res.Action)
}

func TestLoginProducesUserLoginAction(t *testing.T) {
	d := NewDispatcher(nil)

	res, err := d.Dispatch(newInv(t), "/login alice hunter2")
	require.NoError(t, err)
	require.Equal(t, UserLogin{Username: "alice", Password: "hunter2"}, res.Action)
}

func TestReplyColourPrefix(t *testing.T) {
	require.Equal(t, "\tE\tC7Logged in.", Reply("Logged in."))
}

func TestUnknownCommandOfferedToScriptHook(t *testing.T) {
	hooks := script.NewTable()
	var sawCommand string
	hooks.Register(script.EventUnknownCommand, func(args script.Args) (bool, error) {
		sawCommand, _ = args["command"].(string)
		return true, nil
	})

	d := NewDispatcher(hooks)
	res, err := d.Dispatch(newInv(t), "/frobnicate now")
	require.NoError(t, err)
	require.Empty(t, res.ReplyText) // handled by the hook, no rejection
	require.Equal(t, "frobnicate", sawCommand)

	// Without a hook taking it, the command is rejected.
	d2 := NewDispatcher(script.NewTable())
	res, err = d2.Dispatch(newInv(t), "/frobnicate")
	require.NoError(t, err)
	require.Contains(t, res.ReplyText, "Unknown command")
}

func TestKickParsesReason(t *testing.T) {
	d := NewDispatcher(nil)
	inv := newInv(t)
	inv.Client.SetPrivilege(client.PrivLocalGM)

	res, err := d.Dispatch(inv, "/kick 555 being a jerk")
	require.NoError(t, err)
	require.Equal(t, Kick{Guildcard: 555, Reason: "being a jerk"}, res.Action)
}

func TestShutdownRestartSchedule(t *testing.T) {
	d := NewDispatcher(nil)
	inv := newInv(t)
	inv.Client.SetPrivilege(client.PrivLocalRoot)

	res, err := d.Dispatch(inv, "/shutdown 5")
	require.NoError(t, err)
	require.Equal(t, ScheduleShutdown{Minutes: 5}, res.Action)

	res, err = d.Dispatch(inv, "/restart 10")
	require.NoError(t, err)
	require.Equal(t, ScheduleShutdown{Minutes: 10, Restart: true}, res.Action)
}

func TestIsCommand(t *testing.T) {
	require.True(t, IsCommand("/login a b"))
	require.False(t, IsCommand("hello everyone"))
}
