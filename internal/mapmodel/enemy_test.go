package mapmodel

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExpandMonestRetinue(t *testing.T) {
	out := Expand(RawEnemyEntry{Base: baseMonest, Floor: 4}, ExpandOptions{Episode: 1})

	require.Len(t, out, 1+30)
	require.Equal(t, 0x01, out[0].BPEntry)
	require.Equal(t, 0x04, out[0].RTIndex)
	for _, e := range out[1:] {
		require.Equal(t, 0x00, e.BPEntry)
		require.Equal(t, 0x03, e.RTIndex)
		require.Equal(t, 4, e.Floor)
	}
}

func TestExpandBulclawRetinue(t *testing.T) {
	out := Expand(RawEnemyEntry{Base: baseBulclaw}, ExpandOptions{Episode: 1})
	require.Len(t, out, 1+4)
	require.Equal(t, 0x28, out[0].RTIndex)
	for _, claw := range out[1:] {
		require.Equal(t, 0x26, claw.RTIndex)
	}
}

func TestExpandDarkFalzFormsAndDarvants(t *testing.T) {
	out := Expand(RawEnemyEntry{Base: baseDarkFalz}, ExpandOptions{Episode: 1})
	require.Len(t, out, 510+3)

	for _, darvant := range out[:510] {
		require.Equal(t, 0x35, darvant.BPEntry)
	}
	// The three forms are ordered backwards.
	require.Equal(t, 0x38, out[510].BPEntry)
	require.Equal(t, 0x37, out[511].BPEntry)
	require.Equal(t, 0x36, out[512].BPEntry)
	for _, form := range out[510:] {
		require.Equal(t, 0x2F, form.RTIndex)
	}
}

func TestExpandClonesDuplicateLastEntry(t *testing.T) {
	out := Expand(RawEnemyEntry{Base: baseHildebear, NumClones: 4}, ExpandOptions{Episode: 1})
	require.Len(t, out, 5)
	for _, e := range out {
		require.Equal(t, out[0].BPEntry, e.BPEntry)
		require.Equal(t, out[0].RTIndex, e.RTIndex)
	}
}

func TestExpandHildetorrBySkin(t *testing.T) {
	normal := Expand(RawEnemyEntry{Base: baseHildebear}, ExpandOptions{Episode: 1})
	require.Equal(t, 0x49, normal[0].BPEntry)
	require.Equal(t, 0x01, normal[0].RTIndex)
	require.False(t, normal[0].RareSkin)

	torr := Expand(RawEnemyEntry{Base: baseHildebear, Skin: 1}, ExpandOptions{Episode: 1})
	require.Equal(t, 0x4A, torr[0].BPEntry)
	require.Equal(t, 0x02, torr[0].RTIndex)
	require.True(t, torr[0].RareSkin)
}

func TestExpandRareRappyWritesSentinelOutsideEpisode1(t *testing.T) {
	ep1 := Expand(RawEnemyEntry{Base: baseRappy, Skin: 1}, ExpandOptions{Episode: 1})
	require.Equal(t, 0x06, ep1[0].RTIndex)
	require.True(t, ep1[0].RareSkin)

	ep2 := Expand(RawEnemyEntry{Base: baseRappy, Skin: 1}, ExpandOptions{Episode: 2})
	require.Equal(t, RTIndexSentinel, ep2[0].RTIndex)

	normal := Expand(RawEnemyEntry{Base: baseRappy}, ExpandOptions{Episode: 2})
	require.Equal(t, 0x05, normal[0].RTIndex)
}

func TestExpandEpisode4Rappies(t *testing.T) {
	sand := Expand(RawEnemyEntry{Base: baseRappy}, ExpandOptions{Episode: 4})
	require.Equal(t, 0x05, sand[0].BPEntry)
	require.Equal(t, 0x11, sand[0].RTIndex)

	delAlt := Expand(RawEnemyEntry{Base: baseRappy, Skin: 1}, ExpandOptions{Episode: 4, Alt: true})
	require.Equal(t, 0x18, delAlt[0].BPEntry)
	require.Equal(t, 0x12, delAlt[0].RTIndex)
}

func TestExpandDelLilyOnEpisode2AltFloors(t *testing.T) {
	del := Expand(RawEnemyEntry{Base: baseLily}, ExpandOptions{Episode: 2, Alt: true})
	require.Equal(t, 0x53, del[0].RTIndex)

	nar := Expand(RawEnemyEntry{Base: baseLily, RareBit: true}, ExpandOptions{Episode: 2})
	require.Equal(t, 0x0E, nar[0].RTIndex)
	require.True(t, nar[0].RareSkin)
}

func TestExpandSlimeClones(t *testing.T) {
	out := Expand(RawEnemyEntry{Base: baseSlime, RareBit: true}, ExpandOptions{Episode: 1})
	require.Len(t, out, 5)
	require.Equal(t, 0x2F, out[0].BPEntry) // 0x30 - rare bit
	require.Equal(t, 0x14, out[0].RTIndex)
	require.True(t, out[0].RareSkin)
	for _, clone := range out[1:] {
		require.Equal(t, 0x30, clone.BPEntry)
		require.Equal(t, 0x13, clone.RTIndex)
	}
}

func TestExpandSinowBeatDefaultsToFourClones(t *testing.T) {
	out := Expand(RawEnemyEntry{Base: baseSinowBeat}, ExpandOptions{Episode: 1})
	require.Len(t, out, 5)

	gold := Expand(RawEnemyEntry{Base: baseSinowBeat, RareBit: true}, ExpandOptions{Episode: 1})
	require.Equal(t, 0x1B, gold[0].RTIndex)
	require.True(t, gold[0].RareSkin)
}

func TestExpandRecoboxReconsConsumeClones(t *testing.T) {
	out := Expand(RawEnemyEntry{Base: baseRecobox, NumClones: 3}, ExpandOptions{Episode: 2})
	require.Len(t, out, 1+3)
	require.Equal(t, 0x43, out[0].RTIndex)
	for _, recon := range out[1:] {
		require.Equal(t, 0x44, recon.RTIndex)
	}
}

func TestExpandDragonByEpisode(t *testing.T) {
	dragon := Expand(RawEnemyEntry{Base: baseDragon}, ExpandOptions{Episode: 1})
	require.Equal(t, 0x2C, dragon[0].RTIndex)

	gryphon := Expand(RawEnemyEntry{Base: baseDragon}, ExpandOptions{Episode: 2})
	require.Equal(t, 0x4D, gryphon[0].RTIndex)
}

func TestExpandKondrieuByReservedBit(t *testing.T) {
	saint := Expand(RawEnemyEntry{Base: baseSaintMillion}, ExpandOptions{Episode: 4})
	require.Equal(t, 0x13, saint[0].RTIndex)

	shamb := Expand(RawEnemyEntry{Base: baseSaintMillion, Skin: 1}, ExpandOptions{Episode: 4})
	require.Equal(t, 0x14, shamb[0].RTIndex)

	kondrieu := Expand(RawEnemyEntry{Base: baseSaintMillion, RareBit: true}, ExpandOptions{Episode: 4})
	require.Equal(t, 0x15, kondrieu[0].RTIndex)
	require.True(t, kondrieu[0].RareSkin)
}

func TestResolveRappyRTIndexNonSentinelPassesThrough(t *testing.T) {
	require.Equal(t, 0x42, ResolveRappyRTIndex(0x42, EventHalloween, 0))
}

func TestResolveRappyRTIndexByEvent(t *testing.T) {
	require.Equal(t, 0x10, ResolveRappyRTIndex(RTIndexSentinel, EventHalloween, 0))
	require.Equal(t, 0x11, ResolveRappyRTIndex(RTIndexSentinel, EventHalloween, 0x800000))
	require.Equal(t, 0x12, ResolveRappyRTIndex(RTIndexSentinel, EventChristmas, 0))
	require.Equal(t, 0x00, ResolveRappyRTIndex(RTIndexSentinel, EventNone, 0))
	require.Equal(t, 0x01, ResolveRappyRTIndex(RTIndexSentinel, EventNone, 0x800000))
}

func TestResolveEventRTIndexesRewritesArena(t *testing.T) {
	enemies := Expand(RawEnemyEntry{Base: baseRappy, Skin: 1}, ExpandOptions{Episode: 2})
	enemies = append(enemies, Expand(RawEnemyEntry{Base: baseHildebear}, ExpandOptions{Episode: 2})...)

	ResolveEventRTIndexes(enemies, EventChristmas, 0)
	require.Equal(t, 0x12, enemies[0].RTIndex)
	require.Equal(t, 0x01, enemies[1].RTIndex) // untouched non-sentinel
}

func TestDarkFalzBattleParamIndexSwap(t *testing.T) {
	require.Equal(t, 0x37, DarkFalzBattleParamIndex(true))
	require.Equal(t, 0x38, DarkFalzBattleParamIndex(false))
}

func TestApplyRTOverride(t *testing.T) {
	q := &QuestOverride{RTOverride: map[uint16]int{baseHildebear: 0x50}}
	en := Expand(RawEnemyEntry{Base: baseHildebear}, ExpandOptions{Episode: 1})[0]

	require.Equal(t, 0x50, q.ApplyRTOverride(en).RTIndex)

	var nilOverride *QuestOverride
	require.Equal(t, en.RTIndex, nilOverride.ApplyRTOverride(en).RTIndex)
}
