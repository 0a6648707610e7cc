package quest

import (
	"context"
	"encoding/binary"
	"fmt"

	"github.com/sylverant/psoship/internal/shipgate"
)

// Quest-flag control bits, OR'd into the flag id on the wire. FlagLong
// selects the 32-bit flag form over the 16-bit one; FlagDelete is only
// valid on a set.
const (
	FlagLong   uint32 = 0x80000000
	FlagDelete uint32 = 0x40000000
)

// flagIDMask strips the control bits back off a wire flag id.
const flagIDMask = ^(FlagLong | FlagDelete)

// qflagBodySize is the fixed body of shipgate_qflag_pkt after the header:
// guildcard, block, flag_id, quest_id (u32 each), flag_id_hi + reserved
// (u16 each), value (u32).
const qflagBodySize = 24

// FlagRequest is one quest-flag operation addressed by
// (guild_card, quest_id, flag_id).
type FlagRequest struct {
	Guildcard uint32
	Block     uint32
	FlagID    uint32
	QuestID   uint32
	Value     uint32
	Long      bool // 32-bit flag form
	Delete    bool // only meaningful on a set
}

// encodeFlagBody renders a FlagRequest as the shipgate_qflag_pkt body.
func encodeFlagBody(req FlagRequest) []byte {
	fid := req.FlagID & flagIDMask
	wireID := fid & 0xFFFF
	if req.Long {
		wireID |= FlagLong
	}
	if req.Delete {
		wireID |= FlagDelete
	}

	body := make([]byte, qflagBodySize)
	binary.LittleEndian.PutUint32(body[0:4], req.Guildcard)
	binary.LittleEndian.PutUint32(body[4:8], req.Block)
	binary.LittleEndian.PutUint32(body[8:12], wireID)
	binary.LittleEndian.PutUint32(body[12:16], req.QuestID)
	binary.LittleEndian.PutUint16(body[16:18], uint16(fid>>16))
	binary.LittleEndian.PutUint32(body[20:24], req.Value)
	return body
}

// decodeFlagBody parses a qflag response body back into a FlagRequest view.
func decodeFlagBody(body []byte) (FlagRequest, error) {
	if len(body) < qflagBodySize {
		return FlagRequest{}, fmt.Errorf("quest: qflag body too short (%d bytes)", len(body))
	}
	wireID := binary.LittleEndian.Uint32(body[8:12])
	hi := binary.LittleEndian.Uint16(body[16:18])
	return FlagRequest{
		Guildcard: binary.LittleEndian.Uint32(body[0:4]),
		Block:     binary.LittleEndian.Uint32(body[4:8]),
		FlagID:    (wireID & 0xFFFF) | uint32(hi)<<16,
		QuestID:   binary.LittleEndian.Uint32(body[12:16]),
		Value:     binary.LittleEndian.Uint32(body[20:24]),
		Long:      wireID&FlagLong != 0,
		Delete:    wireID&FlagDelete != 0,
	}, nil
}

// Gate is the slice of the shipgate link the flag store needs; an interface
// so tests can answer requests without a TLS session.
type Gate interface {
	Request(ctx context.Context, pktType uint16, body []byte) (shipgate.Frame, error)
}

// FlagStore brokers quest-flag reads and writes through the shipgate, which
// owns the storage.
type FlagStore struct {
	gate Gate
}

// NewFlagStore returns a store speaking through gate.
func NewFlagStore(gate Gate) *FlagStore {
	return &FlagStore{gate: gate}
}

// Set writes a flag value.
func (s *FlagStore) Set(ctx context.Context, req FlagRequest) error {
	req.Delete = false
	_, err := s.gate.Request(ctx, shipgate.TypeQFlagSet, encodeFlagBody(req))
	if err != nil {
		return fmt.Errorf("quest: set flag %d for gc %d: %w", req.FlagID, req.Guildcard, err)
	}
	return nil
}

// Get reads a flag's current value.
func (s *FlagStore) Get(ctx context.Context, req FlagRequest) (uint32, error) {
	req.Delete = false
	f, err := s.gate.Request(ctx, shipgate.TypeQFlagGet, encodeFlagBody(req))
	if err != nil {
		return 0, fmt.Errorf("quest: get flag %d for gc %d: %w", req.FlagID, req.Guildcard, err)
	}
	resp, err := decodeFlagBody(f.Body)
	if err != nil {
		return 0, err
	}
	return resp.Value, nil
}

// Delete removes a flag, leaving the same visible state as never having set
// it.
func (s *FlagStore) Delete(ctx context.Context, req FlagRequest) error {
	req.Delete = true
	_, err := s.gate.Request(ctx, shipgate.TypeQFlagSet, encodeFlagBody(req))
	if err != nil {
		return fmt.Errorf("quest: delete flag %d for gc %d: %w", req.FlagID, req.Guildcard, err)
	}
	return nil
}
