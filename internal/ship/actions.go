package ship

import (
	"context"
	"encoding/binary"
	"fmt"
	"net"
	"time"

	"github.com/sylverant/psoship/internal/admin"
	"github.com/sylverant/psoship/internal/client"
	"github.com/sylverant/psoship/internal/scheduler"
	"github.com/sylverant/psoship/internal/shipgate"
)

func parseIP(s string) net.IP {
	return net.ParseIP(s)
}

// usrloginBodySize is shipgate_usrlogin_req_pkt's body: guildcard and block
// (u32 each) plus two fixed 32-byte credential fields.
const usrloginBodySize = 72

// ApplyAction executes one typed admin action against the ship's state.
// The reply string is an additional chat line for the invoker, empty if
// the action's own dispatch reply suffices.
func (s *Ship) ApplyAction(ctx context.Context, c *client.Client, act admin.Action) (string, error) {
	switch a := act.(type) {
	case admin.UserLogin:
		return s.applyUserLogin(ctx, c, a)
	case admin.Mute:
		if a.On {
			s.Mutes.Mute(a.Guildcard, time.Time{})
		} else {
			s.Mutes.Unmute(a.Guildcard)
		}
		return "", nil
	case admin.Kick:
		return "", s.kick(a.Guildcard)
	case admin.ScheduleShutdown:
		kind := scheduler.KindShutdown
		if a.Restart {
			kind = scheduler.KindRestart
		}
		s.Sched.ScheduleShutdown(time.Duration(a.Minutes)*time.Minute, kind)
		return "", nil
	default:
		// Lobby-scoped actions (level range, password) are applied by the
		// block layer that knows the invoker's team; the ship has no hand in
		// them.
		return "", fmt.Errorf("ship: action %T is not ship-scoped", act)
	}
}

// applyUserLogin round-trips /login credentials through the shipgate and
// merges the granted privileges into the session.
func (s *Ship) applyUserLogin(ctx context.Context, c *client.Client, a admin.UserLogin) (string, error) {
	blockID, _, _ := c.Location()

	body := make([]byte, usrloginBodySize)
	binary.LittleEndian.PutUint32(body[0:4], c.Guildcard())
	binary.LittleEndian.PutUint32(body[4:8], uint32(blockID+1))
	copy(body[8:40], a.Username)
	copy(body[40:72], a.Password)

	f, err := s.gate.Request(ctx, shipgate.TypeUsrLogin, body)
	if err != nil {
		return admin.Reply("Login failed."), nil
	}

	// shipgate_usrlogin_reply_pkt: guildcard, block, priv.
	if len(f.Body) >= 12 {
		priv := binary.LittleEndian.Uint32(f.Body[8:12])
		c.SetPrivilege(c.Privilege() | client.Privilege(priv))
	}
	return admin.Reply("Logged in."), nil
}

// kick disconnects every session of a guild card across all blocks.
func (s *Ship) kick(guildcard uint32) error {
	found := false
	for _, b := range s.blocks {
		var ids []uint32
		b.ForEachClient(func(id uint32, c *client.Client) bool {
			if c.Guildcard() == guildcard {
				c.Close()
				ids = append(ids, id)
				found = true
			}
			return true
		})
		// RemoveClient takes the block's write lock, so it runs only after
		// ForEachClient has released its read lock.
		for _, id := range ids {
			b.RemoveClient(id)
		}
	}
	if !found {
		return fmt.Errorf("ship: guildcard %d not connected", guildcard)
	}
	return nil
}

// BanGuildcard records a guild-card ban and kicks any live session, the
// local half of a shipgate BAN_REQ.
// until is the Unix-epoch expiry; 0xFFFFFFFF means permanent.
func (s *Ship) BanGuildcard(guildcard uint32, reason string, until uint32) {
	expiry := time.Time{}
	if until != 0xFFFFFFFF {
		expiry = time.Unix(int64(until), 0)
	}
	s.GCBans.BanGuildcard(guildcard, reason, expiry)
	_ = s.kick(guildcard)
}

// BanMessage renders the user-visible message-box text for a ban, naming
// the remaining length in the largest sensible unit.
func BanMessage(reason string, expiry time.Time, now time.Time) string {
	if expiry.IsZero() {
		return fmt.Sprintf("You are banned from this ship.\nReason: %s", reason)
	}
	return fmt.Sprintf("You are banned from this ship for %s.\nReason: %s",
		banLength(expiry.Sub(now)), reason)
}

// banLength rounds up within its unit so a 24-hour ban checked moments
// after it was set still reads "1 day".
func banLength(d time.Duration) string {
	switch {
	case d > 23*time.Hour:
		return plural(ceilDiv(d, 24*time.Hour), "day")
	case d > 59*time.Minute:
		return plural(ceilDiv(d, time.Hour), "hour")
	default:
		return plural(ceilDiv(d, time.Minute), "minute")
	}
}

func ceilDiv(d, unit time.Duration) int {
	return int((d + unit - 1) / unit)
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
