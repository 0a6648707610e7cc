package item

// DropContext bundles the tables and RNG the drop algorithm needs for one
// team.
type DropContext struct {
	PT  *PT
	PMT *PMT
	RT  *RT
	RNG Roller

	// Policy looks up a quest enemy-type override, if any. Returns PolicyDefault when no quest or no override applies.
	Policy func(enemyType int) QuestDropPolicy
}

// GenerateEnemyDrop runs the enemy drop roll: DAR gate, quest policy
// override, rare roll, then a normal drop. The already-dropped check is
// the caller's responsibility (internal/mapmodel owns DropDone); by the
// time this is called the enemy is known to be eligible.
func (dc *DropContext) GenerateEnemyDrop(e EnemyInfo) (Item, bool) {
	dar := dc.PT.EnemyDAR[e.Type]
	if dc.RNG.Intn(100) >= dar {
		return Item{}, false
	}

	policy := PolicyDefault
	if dc.Policy != nil {
		policy = dc.Policy(e.Type)
	}
	if policy == PolicyNothing {
		return Item{}, false
	}

	if policy != PolicyNoRare {
		if it, ok := dc.rollRare(e.RTIndex, e.Area); ok {
			return it, true
		}
	}
	if policy == PolicyRareOnly {
		return Item{}, false
	}

	return dc.generateNormalDrop(e), true
}

// rollRare draws against the RT table and, if it triggers, customises the
// result by class.
func (dc *DropContext) rollRare(rtIndex, area int) (Item, bool) {
	entry, ok := dc.RT.EnemyEntry(rtIndex)
	if !ok {
		return Item{}, false
	}
	if dc.RNG.Float64() >= entry.Prob {
		return Item{}, false
	}

	var it Item
	it.SetDword(0, entry.ItemCode)
	dc.customizeRare(&it, area)
	return it, true
}

// customizeRare applies class-specific finishing touches to a rare
// result.
func (dc *DropContext) customizeRare(it *Item, area int) {
	switch it.Class() {
	case ClassWeapon:
		grind := dc.rollGrind(0, area)
		code := it.Dword(0)
		it.SetDword(0, code|(uint32(grind)<<24))
		dc.rollPercentSlots(it, 0, area)
		dc.rollElement(it, area)
	case ClassArmor, ClassShield:
		dfp, evp := dc.rollGuardBoosts(int(it.Data[1]))
		it.Data[6] = byte(dfp)
		it.Data[8] = byte(evp)
		it.Data[5] = byte(dc.PT.SlotRanking[clampFloor(area)][0])
	case ClassUnit:
		// Rare units keep their encoded code; nothing further to roll.
	case ClassMag:
		// Rare mags keep their encoded code; no stats are set.
	case ClassTool:
		if it.IsStackable() {
			it.SetQuantity(1)
		}
	}
}

// generateNormalDrop picks one of three paths uniformly (designated
// class, tool, or meseta) and generates by the class rules below.
func (dc *DropContext) generateNormalDrop(e EnemyInfo) Item {
	switch dc.RNG.Intn(3) {
	case 0:
		switch dc.PT.EnemyDropClass[e.Type] {
		case ClassArmor, ClassShield, ClassUnit:
			return dc.generateArmorFamily(dc.PT.EnemyDropClass[e.Type], e.Area)
		default:
			return dc.generateWeapon(e.Area)
		}
	case 1:
		return dc.generateTool(e.Area)
	default:
		return dc.generateMeseta(dc.PT.EnemyMesetaMin[e.Type], dc.PT.EnemyMesetaMax[e.Type])
	}
}

func clampFloor(area int) int {
	if area < 0 {
		return 0
	}
	if area >= NumFloors {
		return NumFloors - 1
	}
	return area
}

// generateWeapon builds a weapon drop: floor-ranked class pick, grind
// from the power pattern, percent slots, element roll.
func (dc *DropContext) generateWeapon(area int) Item {
	area = clampFloor(area)

	var classes []int
	var weights []int
	for c := 0; c < NumWeaponClasses; c++ {
		if dc.PT.WeaponMinRank[c]+area >= 0 && dc.PT.WeaponRatio[c] > 0 {
			classes = append(classes, c)
			weights = append(weights, dc.PT.WeaponRatio[c])
		}
	}

	var it Item
	it.SetClass(ClassWeapon)
	if len(classes) == 0 {
		return it
	}
	cls := classes[weightedPick(dc.RNG, weights)]

	rank := area
	idx := 0
	for upg := dc.PT.WeaponUpgFloor[cls]; upg > 0 && rank-upg >= 0; idx++ {
		rank -= upg
	}
	grind := dc.rollGrindFromPattern(cls, idx)

	it.SetDword(0, uint32(cls)<<16)
	it.Data[0] = byte(ClassWeapon)
	it.Data[3] = byte(grind) // grind lives in the weapon's fourth byte

	dc.rollPercentSlots(&it, cls, area)
	dc.rollElement(&it, area)
	return it
}

// rollGrind draws a grind value from a uniformly random row of the
// power-pattern table for the given class index; area does not affect the
// row.
func (dc *DropContext) rollGrind(cls, area int) int {
	area = clampFloor(area)
	row := dc.RNG.Intn(len(dc.PT.PowerPattern[cls]))
	return dc.PT.PowerPattern[cls][row]
}

func (dc *DropContext) rollGrindFromPattern(cls, patternIdx int) int {
	n := len(dc.PT.PowerPattern[cls])
	if patternIdx >= n {
		patternIdx = n - 1
	}
	if patternIdx < 0 {
		patternIdx = 0
	}
	return dc.PT.PowerPattern[cls][patternIdx]
}

// rollPercentSlots fills up to three percentage slots, rejecting duplicate
// stats within the same item.
func (dc *DropContext) rollPercentSlots(it *Item, cls, area int) {
	area = clampFloor(area)
	used := map[int]bool{}
	slot := 0
	for i := 0; i < 3 && slot < 3; i++ {
		col := dc.PT.AreaPattern[i][area]
		if col < 0 || col >= len(dc.PT.PercentPattern[cls]) {
			continue
		}
		row := dc.RNG.Intn(10)
		pct := (row - 2) * 5
		stat := dc.PT.PercentAttachment[cls][area]%5 + 1
		if used[stat] {
			continue
		}
		used[stat] = true
		it.Data[6+slot*2] = byte(stat)
		it.Data[7+slot*2] = byte(int8(pct))
		slot++
	}
}

// rollElement implements the final weapon-generation step: an element roll
// gated on the floor having a nonzero elemental ranking and probability.
func (dc *DropContext) rollElement(it *Item, area int) {
	area = clampFloor(area)
	if dc.PT.ElementRanking[area] == 0 || dc.PT.ElementProb[area] == 0 {
		return
	}
	if dc.RNG.Intn(100) >= dc.PT.ElementProb[area] {
		return
	}
	it.Data[4] = byte(1 + dc.RNG.Intn(dc.PT.ElementRanking[area]))
}

// generateArmorFamily generates armor, shield, and unit drops.
func (dc *DropContext) generateArmorFamily(cls Class, area int) Item {
	area = clampFloor(area)
	var it Item
	it.SetClass(cls)

	if cls == ClassUnit {
		maxStars := dc.PT.UnitMaxStars[area]
		tmpl := dc.PMT.UnitBelow(maxStars, dc.RNG.Intn)
		it.SetDword(0, tmpl.Code)
		it.Data[0] = byte(ClassUnit)
		it.Data[4] = byte(int8(tmpl.PlusMinus))
		return it
	}

	slot := dc.RNG.Intn(5)
	level := dc.PT.ArmorRanking[area][slot] + area + slot - 3
	if level < 0 {
		level = 0
	}
	it.Data[1] = byte(level)
	it.Data[5] = byte(dc.PT.SlotRanking[area][slot])
	dfp, evp := dc.rollGuardBoosts(level)
	it.Data[6] = byte(dfp)
	it.Data[8] = byte(evp)
	return it
}

func (dc *DropContext) rollGuardBoosts(classCode int) (dfp, evp int) {
	dr := dc.PMT.GuardDFPRange[classCode]
	er := dc.PMT.GuardEVPRange[classCode]
	dfp = dr[0] + dc.RNG.Intn(max1(dr[1]-dr[0]+1))
	evp = er[0] + dc.RNG.Intn(max1(er[1]-er[0]+1))
	return
}

func max1(n int) int {
	if n < 1 {
		return 1
	}
	return n
}

// generateTool picks a tool class; tech disks pick a tech index and a
// level uniform in [min,max] capped at 29.
func (dc *DropContext) generateTool(area int) Item {
	area = clampFloor(area)
	var it Item
	it.SetClass(ClassTool)

	toolClass := weightedPick(dc.RNG, dc.PT.ToolFrequency[:])
	it.Data[1] = byte(toolClass)

	if toolClass == dc.PMT.TechDiskToolClass {
		tech := weightedPick(dc.RNG, dc.PT.TechFrequency[:])
		it.Data[2] = byte(tech)
		lo, hi := dc.PT.TechLevelMin[area], dc.PT.TechLevelMax[area]
		if hi > 29 {
			hi = 29
		}
		if hi < lo {
			hi = lo
		}
		it.Data[3] = byte(lo + dc.RNG.Intn(hi-lo+1))
	}

	it.SetQuantity(1)
	return it
}

// generateMeseta emits a plain meseta drop in [min,max].
func (dc *DropContext) generateMeseta(min, max int) Item {
	var it Item
	it.SetClass(ClassMeseta)
	if max < min {
		max = min
	}
	amount := min + dc.RNG.Intn(max-min+1)
	it.SetDword(1, uint32(amount))
	return it
}

// GenerateBoxDrop generates a box drop: fixed-item encodings first, then
// a rare roll, then the per-floor kind weights.
func (dc *DropContext) GenerateBoxDrop(b BoxInfo) (Item, bool) {
	if b.Fixed {
		// Fully-fixed encoding: the raw item from dword 2, except meseta,
		// which is dword 3's high half times 10.
		if b.FixedIsMeseta {
			var it Item
			it.SetClass(ClassMeseta)
			it.SetDword(1, (b.RawDwords[3]>>16)*10)
			return it, true
		}
		var it Item
		it.SetDword(0, b.RawDwords[2])
		return it, true
	}

	if entry, ok := dc.RT.BoxEntry(b.Area); ok && dc.RNG.Float64() < entry.Prob {
		var it Item
		it.SetDword(0, entry.ItemCode)
		dc.customizeRare(&it, b.Area)
		return it, true
	}

	area := clampFloor(b.Area)
	weights := make([]int, NumBoxKinds)
	for k := 0; k < NumBoxKinds; k++ {
		weights[k] = dc.PT.BoxDropProb[k][area]
	}
	kind := weightedPick(dc.RNG, weights)
	switch kind {
	case 0:
		return dc.generateWeapon(area), true
	case 1:
		return dc.generateArmorFamily(ClassArmor, area), true
	case 2:
		return dc.generateArmorFamily(ClassShield, area), true
	case 3:
		return dc.generateArmorFamily(ClassUnit, area), true
	case 4:
		return dc.generateTool(area), true
	default:
		return dc.generateMeseta(dc.PT.BoxMesetaMin[area], dc.PT.BoxMesetaMax[area]), true
	}
}

// weightedPick returns an index into weights chosen proportionally to its
// weight; falls back to index 0 if every weight is zero.
func weightedPick(r Roller, weights []int) int {
	total := 0
	for _, w := range weights {
		if w > 0 {
			total += w
		}
	}
	if total <= 0 {
		return 0
	}
	roll := r.Intn(total)
	acc := 0
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		acc += w
		if roll < acc {
			return i
		}
	}
	return len(weights) - 1
}
