package subcommand

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

var errDelivery = errors.New("delivery failed")

func TestValidateSizeFixedForm(t *testing.T) {
	// id=0x01, size=2 words (8 bytes), payload exactly 8 bytes.
	payload := make([]byte, 8)
	payload[0] = 0x01
	payload[1] = 2
	require.NoError(t, ValidateSize(payload))
}

func TestValidateSizeRejectsShortPayload(t *testing.T) {
	payload := make([]byte, 4)
	payload[0] = 0x01
	payload[1] = 3 // declares 12 bytes, only 4 present
	require.Error(t, ValidateSize(payload))
}

func TestValidateSizeExtendedForm(t *testing.T) {
	payload := make([]byte, 16)
	payload[0] = 0x02
	payload[1] = 0 // extended-size marker
	payload[2] = 4 // 4 words LE
	payload[3] = 0
	require.NoError(t, ValidateSize(payload))
}

func TestRewriteSenderSlotDoesNotMutateOriginal(t *testing.T) {
	payload := []byte{0x60, 2, 0, 0, 0xFF, 0, 0, 0}
	out := RewriteSenderSlot(payload, 3)
	require.Equal(t, byte(3), out[SenderSlotOffset])
	require.Equal(t, byte(0xFF), payload[SenderSlotOffset])
}

type fakeRecipient struct {
	slot      int8
	ignoring  []uint32
	delivered [][]byte
	err       error
}

func (f *fakeRecipient) SlotID() int8 { return f.slot }

func (f *fakeRecipient) Ignores(guildcard uint32) bool {
	for _, gc := range f.ignoring {
		if gc == guildcard {
			return true
		}
	}
	return false
}

func (f *fakeRecipient) Deliver(frame []byte) error {
	f.delivered = append(f.delivered, frame)
	return f.err
}

func TestBroadcastExcludesSenderAndRewritesSlot(t *testing.T) {
	sender := &fakeRecipient{slot: 0}
	other1 := &fakeRecipient{slot: 1}
	other2 := &fakeRecipient{slot: 2}

	payload := []byte{0x60, 2, 0, 0, 0x00, 0, 0, 0}
	err := Broadcast([]Recipient{sender, other1, other2}, payload, 0, 1000)
	require.NoError(t, err)

	require.Len(t, sender.delivered, 0)
	require.Len(t, other1.delivered, 1)
	require.Equal(t, byte(1), other1.delivered[0][SenderSlotOffset])
	require.Equal(t, byte(2), other2.delivered[0][SenderSlotOffset])
}

func TestBroadcastSkipsRecipientsIgnoringOriginator(t *testing.T) {
	blocking := &fakeRecipient{slot: 1, ignoring: []uint32{1000}}
	open := &fakeRecipient{slot: 2}

	payload := []byte{0x60, 2, 0, 0, 0x00, 0, 0, 0}
	err := Broadcast([]Recipient{blocking, open}, payload, 0, 1000)
	require.NoError(t, err)

	require.Len(t, blocking.delivered, 0)
	require.Len(t, open.delivered, 1)

	// A different originator gets through.
	err = Broadcast([]Recipient{blocking, open}, payload, 0, 2000)
	require.NoError(t, err)
	require.Len(t, blocking.delivered, 1)
}

func TestBroadcastContinuesAfterDeliveryError(t *testing.T) {
	failing := &fakeRecipient{slot: 1, err: errDelivery}
	ok := &fakeRecipient{slot: 2}

	payload := []byte{0x60, 2, 0, 0, 0x00, 0, 0, 0}
	err := Broadcast([]Recipient{failing, ok}, payload, 0, 1000)
	require.ErrorIs(t, err, errDelivery)
	require.Len(t, ok.delivered, 1)
}

func TestBurstQueueEnqueueAndReplay(t *testing.T) {
	q := NewBurstQueue()
	require.True(t, q.Bursting())

	q.Enqueue([]byte{1})
	q.Enqueue([]byte{2})
	require.Equal(t, 2, q.Len())

	frames := q.EndBurst()
	require.False(t, q.Bursting())
	require.Equal(t, [][]byte{{1}, {2}}, frames)
	require.Equal(t, 0, q.Len())
}
