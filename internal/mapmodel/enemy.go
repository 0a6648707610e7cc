// Package mapmodel implements the map & enemy model: per-episode map
// variant selection, parsed enemy/object tables, enemy-list expansion, and
// quest override loading. Parsed arrays live in arenas owned by the team;
// everything else references them by typed index, never by pointer.
package mapmodel

// RawEnemyEntry is one parsed row from a map's enemy binary, before
// clone/retinue expansion.
type RawEnemyEntry struct {
	// Base is the on-disk base enemy code that selects the expansion rule.
	Base uint16
	// Skin selects within a family (Booma/Gobooma/Gigobooma and the like).
	Skin uint32
	// NumClones inflates the group by duplicating the last expanded entry.
	NumClones int
	// RareBit is bit 0x800000 of the otherwise-reserved word, driving
	// rare-skin selection for the families that use it.
	RareBit bool
	Floor   int
}

// RTIndexSentinel is written by the expander for event-dependent Rappy
// entries and resolved at team/lobby attach time.
const RTIndexSentinel = 0xFF

// Enemy is one expanded, in-team enemy instance with mutable per-entity
// state. Owned by the team's arena; referenced by index, never by pointer.
type Enemy struct {
	Base    uint16
	BPEntry int
	RTIndex int
	Floor   int
	// RareSkin marks the rare variant of a family (Hildetorr, Nar Lily,
	// Pouilly Slime, Sinow Gold, ...).
	RareSkin bool

	// DropDone and KilledBy are the per-entity mutable state: whether it
	// has dropped, and who killed it.
	DropDone bool
	KilledBy uint32 // guildcard, 0 if unset
}

// ExpandOptions carries the per-team facts the expander needs.
type ExpandOptions struct {
	// Episode is 1, 2, or 4.
	Episode int
	// Alt selects the alternate-area map set (Episode 2 Tower floors,
	// Episode 4 desert), which swaps a handful of skins (Del Lily,
	// Epsilon, desert Lizards/Zu).
	Alt bool
}

// Base enemy codes, as they appear in the on-disk enemy tables.
const (
	baseHildebear     = 0x0040
	baseRappy         = 0x0041
	baseMonest        = 0x0042
	baseSavageWolf    = 0x0043
	baseBooma         = 0x0044
	baseGrassAssassin = 0x0060
	baseLily          = 0x0061
	baseNanoDragon    = 0x0062
	baseShark         = 0x0063
	baseSlime         = 0x0064
	basePanArms       = 0x0065
	baseDubchic       = 0x0080
	baseGaranz        = 0x0081
	baseSinowBeat     = 0x0082
	baseCanadine      = 0x0083
	baseCanadineGroup = 0x0084
	baseDubwitch      = 0x0085
	baseDelsaber      = 0x00A0
	baseChaosSorcerer = 0x00A1
	baseDarkGunner    = 0x00A2
	baseDeathGunner   = 0x00A3
	baseChaosBringer  = 0x00A4
	baseDarkBelra     = 0x00A5
	baseDimenian      = 0x00A6
	baseBulclaw       = 0x00A7
	baseClaw          = 0x00A8
	baseDragon        = 0x00C0
	baseDeRolLe       = 0x00C1
	baseVolOptForm1   = 0x00C2
	baseVolOptForm2   = 0x00C5
	baseDarkFalz      = 0x00C8
	baseOlgaFlow      = 0x00CA
	baseBarbaRay      = 0x00CB
	baseGolDragon     = 0x00CC
	baseSinowBerill   = 0x00D4
	baseMerillia      = 0x00D5
	baseMericarol     = 0x00D6
	baseUlGibbon      = 0x00D7
	baseGibbles       = 0x00D8
	baseGee           = 0x00D9
	baseGiGue         = 0x00DA
	baseDeldepth      = 0x00DB
	baseDelbiter      = 0x00DC
	baseDolmolm       = 0x00DD
	baseMorfos        = 0x00DE
	baseRecobox       = 0x00DF
	baseSinowZoa      = 0x00E0
	baseIllGill       = 0x00E1
	baseAstark        = 0x0110
	baseSatelliteLiz  = 0x0111
	baseMerissa       = 0x0112
	baseGirtablulu    = 0x0113
	baseZu            = 0x0114
	baseBoota         = 0x0115
	baseDorphon       = 0x0116
	baseGoran         = 0x0117
	baseSaintMillion  = 0x0119
)

// Expand turns one raw entry into its full set of in-team enemy instances:
// the base spawn, any fixed retinue (Monest+30 Mothmants, Bulclaw+4 Claws,
// Dark Falz+510 Darvants, ...), and any NumClones-driven group inflation.
// The bp_entry/rt_index assignments per base code are a wire contract with
// the game's battle-parameter and rare-drop tables; change nothing here
// without a matching data-table change.
func Expand(raw RawEnemyEntry, opt ExpandOptions) []Enemy {
	mk := func(bp, rt int) Enemy {
		return Enemy{Base: raw.Base, BPEntry: bp, RTIndex: rt, Floor: raw.Floor}
	}
	rare := func(e Enemy) Enemy { e.RareSkin = true; return e }

	var out []Enemy
	nClones := raw.NumClones
	skinBit := int(raw.Skin & 0x01)
	rareBit := 0
	if raw.RareBit {
		rareBit = 1
	}

	switch raw.Base {
	case baseHildebear: // Hildebear & Hildetorr
		e := mk(0x49+skinBit, 0x01+skinBit)
		if skinBit == 1 {
			e = rare(e)
		}
		out = append(out, e)

	case baseRappy:
		switch {
		case opt.Episode == 4: // Sand Rappy & Del Rappy
			e := mk(0x05+skinBit, 0x11+skinBit)
			if opt.Alt {
				e.BPEntry = 0x17 + skinBit
			}
			if skinBit == 1 {
				e = rare(e)
			}
			out = append(out, e)
		case skinBit == 1: // rare rappy
			if opt.Episode == 1 {
				out = append(out, rare(mk(0x19, 0x06)))
			} else {
				// Event-dependent: filled in at lobby attach time.
				out = append(out, rare(mk(0x19, RTIndexSentinel)))
			}
		default:
			out = append(out, mk(0x18, 0x05))
		}

	case baseMonest: // Monest + 30 Mothmants
		out = append(out, mk(0x01, 0x04))
		for j := 0; j < 30; j++ {
			out = append(out, mk(0x00, 0x03))
		}

	case baseSavageWolf: // Savage Wolf & Barbarous Wolf
		out = append(out, mk(0x02+rareBit, 0x07+rareBit))

	case baseBooma: // Booma family
		acc := int(raw.Skin % 3)
		out = append(out, mk(0x4B+acc, 0x09+acc))

	case baseGrassAssassin:
		out = append(out, mk(0x4E, 0x0C))

	case baseLily: // Del Lily, Poison Lily, Nar Lily
		if opt.Episode == 2 && opt.Alt {
			out = append(out, mk(0x25, 0x53))
		} else {
			e := mk(0x04+rareBit, 0x0D+rareBit)
			if rareBit == 1 {
				e = rare(e)
			}
			out = append(out, e)
		}

	case baseNanoDragon:
		out = append(out, mk(0x1A, 0x0E))

	case baseShark: // Shark family
		acc := int(raw.Skin % 3)
		out = append(out, mk(0x4F+acc, 0x10+acc))

	case baseSlime: // Slime + 4 clones
		e := mk(0x30-rareBit, 0x13+rareBit)
		if rareBit == 1 {
			e = rare(e)
		}
		out = append(out, e)
		for j := 0; j < 4; j++ {
			out = append(out, mk(0x30, 0x13))
		}

	case basePanArms: // Pan Arms, Migium, Hidoom
		for j := 0; j < 3; j++ {
			out = append(out, mk(0x31+j, 0x15+j))
		}

	case baseDubchic: // Dubchic & Gilchic
		out = append(out, mk(0x1B+skinBit, (0x18+skinBit)<<skinBit))

	case baseGaranz:
		out = append(out, mk(0x1D, 0x19))

	case baseSinowBeat: // Sinow Beat & Sinow Gold
		if rareBit == 1 {
			out = append(out, rare(mk(0x13, 0x1B)))
		} else {
			out = append(out, mk(0x06, 0x1A))
		}
		if nClones == 0 {
			nClones = 4
		}

	case baseCanadine:
		out = append(out, mk(0x07, 0x1C))

	case baseCanadineGroup: // Canane + 8 Canadines
		out = append(out, mk(0x09, 0x1D))
		for j := 0; j < 8; j++ {
			out = append(out, mk(0x08, 0x1C))
		}

	case baseDubwitch, baseDeathGunner, baseVolOptForm1:
		// Takes a slot in the table but never drops.
		out = append(out, mk(0x00, 0x00))

	case baseDelsaber:
		out = append(out, mk(0x52, 0x1E))

	case baseChaosSorcerer: // + Bee L, Bee R
		out = append(out, mk(0x0A, 0x1F))
		out = append(out, mk(0x0B, 0x00))
		out = append(out, mk(0x0C, 0x00))

	case baseDarkGunner:
		out = append(out, mk(0x1E, 0x22))

	case baseChaosBringer:
		out = append(out, mk(0x0D, 0x24))

	case baseDarkBelra:
		out = append(out, mk(0x0E, 0x25))

	case baseDimenian: // Dimenian family
		acc := int(raw.Skin % 3)
		out = append(out, mk(0x53+acc, 0x29+acc))

	case baseBulclaw: // Bulclaw + 4 Claws
		out = append(out, mk(0x1F, 0x28))
		for j := 0; j < 4; j++ {
			out = append(out, mk(0x20, 0x26))
		}

	case baseClaw:
		out = append(out, mk(0x20, 0x26))

	case baseDragon: // Dragon or Gal Gryphon
		if opt.Episode == 1 {
			out = append(out, mk(0x12, 0x2C))
		} else {
			out = append(out, mk(0x1E, 0x4D))
		}

	case baseDeRolLe:
		out = append(out, mk(0x0F, 0x2D))

	case baseVolOptForm2:
		out = append(out, mk(0x25, 0x2E))

	case baseDarkFalz: // 510 Darvants, then the three forms backwards
		for j := 0; j < 510; j++ {
			out = append(out, mk(0x35, 0x00))
		}
		out = append(out, mk(0x38, 0x2F))
		out = append(out, mk(0x37, 0x2F))
		out = append(out, mk(0x36, 0x2F))

	case baseOlgaFlow:
		out = append(out, mk(0x2C, 0x4E))
		out = append(out, placeholders(raw, 512)...)

	case baseBarbaRay:
		out = append(out, mk(0x0F, 0x49))
		out = append(out, placeholders(raw, 47)...)

	case baseGolDragon:
		out = append(out, mk(0x12, 0x4C))
		out = append(out, placeholders(raw, 5)...)

	case baseSinowBerill: // Sinow Berill & Spigell (rare by skin here)
		if raw.Skin >= 1 {
			out = append(out, rare(mk(0x13, 0x3F)))
		} else {
			out = append(out, mk(0x06, 0x3E))
		}
		out = append(out, placeholders(raw, 4)...)

	case baseMerillia: // Merillia & Meriltas
		out = append(out, mk(0x4B+skinBit, 0x34+skinBit))

	case baseMericarol: // Mericus, Merikle, or Mericarol
		acc := int(raw.Skin % 3)
		bp := 0x3A
		if acc != 0 {
			bp = 0x44 + acc
		}
		out = append(out, mk(bp, 0x38+acc))

	case baseUlGibbon: // Ul Gibbon & Zol Gibbon
		out = append(out, mk(0x3B+skinBit, 0x3B+skinBit))

	case baseGibbles:
		out = append(out, mk(0x3D, 0x3D))

	case baseGee:
		out = append(out, mk(0x07, 0x36))

	case baseGiGue:
		out = append(out, mk(0x1A, 0x37))

	case baseDeldepth:
		out = append(out, mk(0x30, 0x47))

	case baseDelbiter:
		out = append(out, mk(0x0D, 0x48))

	case baseDolmolm: // Dolmolm & Dolmdarl
		out = append(out, mk(0x4F+skinBit, 0x40+skinBit))

	case baseMorfos:
		out = append(out, mk(0x41, 0x42))

	case baseRecobox: // Recobox + NumClones Recons
		out = append(out, mk(0x41, 0x43))
		for j := 0; j < nClones; j++ {
			out = append(out, mk(0x42, 0x44))
		}
		nClones = 0 // don't double-count them

	case baseSinowZoa: // Epsilon, Sinow Zoa & Zele
		if opt.Episode == 2 && opt.Alt {
			out = append(out, mk(0x23, 0x54))
			out = append(out, placeholders(raw, 4)...)
		} else {
			out = append(out, mk(0x43+skinBit, 0x45+skinBit))
		}

	case baseIllGill:
		out = append(out, mk(0x26, 0x52))

	case baseAstark:
		out = append(out, mk(0x09, 0x01))

	case baseSatelliteLiz: // Satellite Lizard & Yowie
		bp := 0x0D + rareBit
		if opt.Alt {
			bp += 0x10
		}
		out = append(out, mk(bp, 0x02+rareBit))

	case baseMerissa: // Merissa A/AA
		e := mk(0x19+skinBit, 0x04+skinBit)
		if skinBit == 1 {
			e = rare(e)
		}
		out = append(out, e)

	case baseGirtablulu:
		out = append(out, mk(0x1F, 0x06))

	case baseZu: // Zu & Pazuzu
		bp := 0x07 + skinBit
		if opt.Alt {
			bp += 0x14
		}
		e := mk(bp, 0x07+skinBit)
		if skinBit == 1 {
			e = rare(e)
		}
		out = append(out, e)

	case baseBoota: // Boota family
		acc := int(raw.Skin % 3)
		bp := acc
		if raw.Skin&0x02 != 0 {
			bp = 0x03
		}
		out = append(out, mk(bp, 0x09+acc))

	case baseDorphon: // Dorphon & Eclair
		e := mk(0x0F+skinBit, 0x0C+skinBit)
		if skinBit == 1 {
			e = rare(e)
		}
		out = append(out, e)

	case baseGoran: // Goran family
		acc := int(raw.Skin % 3)
		rt := 0x0E
		if raw.Skin&0x02 != 0 {
			rt = 0x0F
		} else if raw.Skin&0x01 != 0 {
			rt = 0x10
		}
		out = append(out, mk(0x11+acc, rt))

	case baseSaintMillion: // Saint Million, Shambertin, & Kondrieu
		e := mk(0x22, 0x13+skinBit)
		if raw.RareBit {
			e.RTIndex = 0x15
			e = rare(e)
		}
		out = append(out, e)

	default:
		// Unknown base code: one empty slot, same as the table parser.
		out = append(out, mk(0x00, 0x00))
	}

	// Clones duplicate the last expanded entry.
	if nClones > 0 {
		last := out[len(out)-1]
		for j := 0; j < nClones; j++ {
			out = append(out, last)
		}
	}
	return out
}

// placeholders emits empty slots so indices line up with the client's view
// of multi-part bosses.
func placeholders(raw RawEnemyEntry, n int) []Enemy {
	out := make([]Enemy, n)
	for i := range out {
		out[i] = Enemy{Base: raw.Base, Floor: raw.Floor}
	}
	return out
}

// RappyEvent is the lobby event driving Rappy rt-index resolution.
type RappyEvent int

const (
	EventNone RappyEvent = iota
	EventChristmas
	EventEaster
	EventHalloween
)

// ResolveRappyRTIndex replaces RTIndexSentinel with the event-specific
// rt-index at lobby attach time.
func ResolveRappyRTIndex(sentinelValue int, event RappyEvent, reservedBits uint32) int {
	if sentinelValue != RTIndexSentinel {
		return sentinelValue
	}
	// Bit 0x800000 of the reserved field gates the GC/BB variant
	// selection independent of the lobby event. Observed behaviour,
	// preserved verbatim.
	blueVariant := reservedBits&0x800000 != 0

	switch {
	case event == EventHalloween:
		if blueVariant {
			return 0x11
		}
		return 0x10
	case event == EventChristmas:
		return 0x12
	case event == EventEaster:
		return 0x13
	default:
		if blueVariant {
			return 0x01
		}
		return 0x00
	}
}

// ResolveEventRTIndexes rewrites every sentinel rt-index in a freshly
// expanded enemy arena for the team's current event, the attach-time half
// of the Rappy fixup.
func ResolveEventRTIndexes(enemies []Enemy, event RappyEvent, reservedBits uint32) {
	for i := range enemies {
		enemies[i].RTIndex = ResolveRappyRTIndex(enemies[i].RTIndex, event, reservedBits)
	}
}

// DarkFalzBattleParamIndex returns the battle-parameter index for Dark
// Falz, applying the non-normal-difficulty swap from 0x37 to 0x38 at
// team-load time.
func DarkFalzBattleParamIndex(normalDifficulty bool) int {
	if normalDifficulty {
		return 0x37
	}
	return 0x38
}
