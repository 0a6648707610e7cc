// Package subcommand implements the in-game sub-command router: checking
// each sub-command's declared size against its payload, the sender-slot rewrite a broadcast
// needs to apply per recipient, the burst enqueue/replay queue a joining
// client needs before it can see live traffic, and the item-request hook
// into internal/item's drop engine.
//
// The 0x60/0x62/0x6C/0x6D game packets wrap a sub-command whose own
// id/size selects its handler.
package subcommand

import "fmt"

// Header is the two leading bytes every sub-command payload starts with:
// a one-byte id and a one-byte size in words. A size of 0
// means the true size is carried in the next two bytes (the "extended
// size" form used by a handful of large sub-commands).
type Header struct {
	ID       byte
	SizeWord byte
}

// ParseHeader reads the two-byte sub-command header from payload.
func ParseHeader(payload []byte) (Header, error) {
	if len(payload) < 2 {
		return Header{}, fmt.Errorf("subcommand: payload too short for header")
	}
	return Header{ID: payload[0], SizeWord: payload[1]}, nil
}

// ExpectedSize reports one sub-command's declared size in words. When h.SizeWord
// is 0, the actual size is variable and carried in payload[2:4] as a
// little-endian word count instead; ExpectedSize returns that instead.
func ExpectedSize(h Header, payload []byte) (int, error) {
	if h.SizeWord != 0 {
		return int(h.SizeWord), nil
	}
	if len(payload) < 4 {
		return 0, fmt.Errorf("subcommand: extended-size header needs 4 bytes")
	}
	return int(payload[2]) | int(payload[3])<<8, nil
}

// ValidateSize checks a sub-command payload's declared size against its
// actual length in 4-byte words, rejecting malformed or truncated
// sub-commands before they reach a handler.
func ValidateSize(payload []byte) error {
	h, err := ParseHeader(payload)
	if err != nil {
		return err
	}
	words, err := ExpectedSize(h, payload)
	if err != nil {
		return err
	}
	wantBytes := words * 4
	if wantBytes > len(payload) {
		return fmt.Errorf("subcommand: id 0x%02X declares %d bytes, payload has %d", h.ID, wantBytes, len(payload))
	}
	return nil
}

// SenderSlotOffset is the byte offset of the sending client's in-lobby
// slot id within a sub-command payload, for the sub-commands that carry
// one. Not every sub-command carries
// this field; callers that know theirs doesn't should skip the rewrite.
const SenderSlotOffset = 4

// RewriteSenderSlot overwrites the sender-slot byte in a copy of payload
// with newSlot, the slot id the recipient's own lobby view assigns to the
// sender. PSO's wire slot ids are only meaningful within one client's view
// of a lobby, so every broadcast recipient must see them resolved against
// its own seating, not the sender's.
func RewriteSenderSlot(payload []byte, newSlot byte) []byte {
	if len(payload) <= SenderSlotOffset {
		return payload
	}
	out := append([]byte(nil), payload...)
	out[SenderSlotOffset] = newSlot
	return out
}

// Recipient is anything a broadcast can be framed and queued for; the
// subcommand package only needs a slot id, the recipient's ignore check,
// and a send sink to do its job, letting it stay independent of
// internal/client's concrete type.
type Recipient interface {
	SlotID() int8
	// Ignores reports whether this recipient has the given guild card on
	// its ignore list; broadcasts from an ignored originator are skipped.
	Ignores(guildcard uint32) bool
	Deliver(frame []byte) error
}

// Broadcast rewrites and delivers payload to every recipient except
// excludeSlot (typically the sender) and any recipient ignoring the
// originator's guild card, returning the first delivery error encountered
// while still attempting the rest.
func Broadcast(recipients []Recipient, payload []byte, excludeSlot int8, originGuildcard uint32) error {
	var firstErr error
	for _, r := range recipients {
		if r.SlotID() == excludeSlot {
			continue
		}
		if r.Ignores(originGuildcard) {
			continue
		}
		frame := RewriteSenderSlot(payload, byte(r.SlotID()))
		if err := r.Deliver(frame); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// BurstQueue holds sub-command traffic for a client that is mid-burst: the
// server is still streaming it the lobby's existing state (player data,
// inventories, positions) and must not interleave live broadcasts until
// that finishes, or the client's view of the world desyncs.
type BurstQueue struct {
	bursting bool
	queue    [][]byte
}

// NewBurstQueue returns a queue already in the bursting state, matching a
// client that has just been told to load a lobby/team.
func NewBurstQueue() *BurstQueue {
	return &BurstQueue{bursting: true}
}

// Bursting reports whether the queue is still holding traffic back.
func (q *BurstQueue) Bursting() bool { return q.bursting }

// Enqueue appends a frame to the hold queue. A caller should only do this
// while Bursting() is true; once burst ends, frames should be delivered
// directly instead of queued.
func (q *BurstQueue) Enqueue(frame []byte) {
	q.queue = append(q.queue, frame)
}

// EndBurst marks the burst complete and returns the queued frames in
// arrival order for replay, clearing the queue. Subsequent traffic should
// be delivered live.
func (q *BurstQueue) EndBurst() [][]byte {
	q.bursting = false
	out := q.queue
	q.queue = nil
	return out
}

// Len reports how many frames are currently queued.
func (q *BurstQueue) Len() int { return len(q.queue) }
